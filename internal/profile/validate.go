package profile

import (
	"fmt"
	"sort"

	"github.com/example/capacity-planner/internal/timeofday"
	"github.com/example/capacity-planner/internal/validation"
)

// Documented ranges. Values outside them are rejected, never clamped.
const (
	MinCommitmentRatio     = 0.1
	MaxCommitmentRatio     = 1.0
	MinLightTaskSlots      = 1
	MaxLightTaskSlots      = 10
	MinHeavyTaskSlots      = 0
	MaxHeavyTaskSlots      = 5
	MinTotalWeightLimit    = 5
	MaxTotalWeightLimit    = 25
	MinContinuousWorkHours = 1.0
	MaxContinuousWorkHours = 12.0
	MinMaxWorkingHours     = 1.0
	MaxMaxWorkingHours     = 16.0
	MinMultitasking        = 0.0
	MaxMultitasking        = 1.0
)

// Validate checks every field against its documented range and returns a
// *validation.ValidationError describing each violation.
func (p ResourceProfile) Validate() error {
	vErr := validation.New()

	if !p.UserType.Valid() {
		vErr.Add("userType", "unknown user type")
	}
	checkFloat(vErr, "commitmentRatio", p.CommitmentRatio, MinCommitmentRatio, MaxCommitmentRatio)

	checkInt(vErr, "dailyCapacity.lightTaskSlots", p.DailyCapacity.LightTaskSlots, MinLightTaskSlots, MaxLightTaskSlots)
	checkInt(vErr, "dailyCapacity.heavyTaskSlots", p.DailyCapacity.HeavyTaskSlots, MinHeavyTaskSlots, MaxHeavyTaskSlots)
	checkInt(vErr, "dailyCapacity.totalWeightLimit", p.DailyCapacity.TotalWeightLimit, MinTotalWeightLimit, MaxTotalWeightLimit)
	checkFloat(vErr, "dailyCapacity.continuousWorkHours", p.DailyCapacity.ContinuousWorkHours, MinContinuousWorkHours, MaxContinuousWorkHours)

	checkIntervals(vErr, "timeConstraints.unavailableHours", p.TimeConstraints.UnavailableHours)
	checkIntervals(vErr, "timeConstraints.preferredWorkHours", p.TimeConstraints.PreferredWorkHours)
	checkFloat(vErr, "timeConstraints.maxWorkingHours", p.TimeConstraints.MaxWorkingHours, MinMaxWorkingHours, MaxMaxWorkingHours)

	checkIntervals(vErr, "workingPattern.productiveHours", p.WorkingPattern.ProductiveHours)
	if !p.WorkingPattern.FocusCapacity.Valid() {
		vErr.Add("workingPattern.focusCapacity", "must be one of low, medium, high")
	}
	checkFloat(vErr, "workingPattern.multitaskingAbility", p.WorkingPattern.MultitaskingAbility, MinMultitasking, MaxMultitasking)

	names := make([]string, 0, len(p.PersonalConstraints))
	for name := range p.PersonalConstraints {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if name == "" {
			vErr.Add("personalConstraints", "constraint name is required")
			continue
		}
		checkIntervals(vErr, "personalConstraints."+name, p.PersonalConstraints[name])
	}

	if !p.Preferences.BreakFrequency.Valid() {
		vErr.Add("preferences.breakFrequency", "must be one of low, medium, high")
	}

	return vErr.OrNil()
}

func checkFloat(vErr *validation.ValidationError, field string, value, min, max float64) {
	if value < min || value > max {
		vErr.Add(field, fmt.Sprintf("must be between %g and %g", min, max))
	}
}

func checkInt(vErr *validation.ValidationError, field string, value, min, max int) {
	if value < min || value > max {
		vErr.Add(field, fmt.Sprintf("must be between %d and %d", min, max))
	}
}

func checkIntervals(vErr *validation.ValidationError, field string, values []string) {
	for i, value := range values {
		if _, err := timeofday.ParseInterval(value); err != nil {
			vErr.Add(fmt.Sprintf("%s[%d]", field, i), "must be HH:MM-HH:MM with start before end")
		}
	}
}
