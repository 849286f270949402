package scheduler

import (
	"github.com/example/capacity-planner/internal/profile"
	"github.com/example/capacity-planner/internal/timeofday"
)

var (
	defaultWorkStart = timeofday.MustParse("09:00")
	defaultWorkEnd   = timeofday.MustParse("17:00")
	earlyWorkStart   = timeofday.MustParse("07:00")
	lateWorkEnd      = timeofday.MustParse("20:00")
	morningCutoff    = timeofday.MustParse("11:00")
	afternoonCutoff  = timeofday.MustParse("13:00")
)

// DefaultLunchTime is used for preferences derived from a profile.
const DefaultLunchTime = "12:00"

// PreferencesFromProfile derives generator preferences from a resource
// profile. Work hours come from the first preferred interval and personality
// from the first productive interval. Daily capacity limits and the blocked
// hours (unavailable plus personal constraints) are carried over.
func PreferencesFromProfile(p profile.ResourceProfile) Preferences {
	start, end := defaultWorkStart, defaultWorkEnd
	if p.Preferences.EarlyStart {
		start = earlyWorkStart
	}
	if p.Preferences.LateWork {
		end = lateWorkEnd
	}
	if len(p.TimeConstraints.PreferredWorkHours) > 0 {
		if interval, err := timeofday.ParseInterval(p.TimeConstraints.PreferredWorkHours[0]); err == nil {
			start, end = interval.Start, interval.End
		}
	}

	personality := PersonalityBalanced
	if len(p.WorkingPattern.ProductiveHours) > 0 {
		if interval, err := timeofday.ParseInterval(p.WorkingPattern.ProductiveHours[0]); err == nil {
			switch {
			case interval.Start < morningCutoff:
				personality = PersonalityMorning
			case interval.Start >= afternoonCutoff:
				personality = PersonalityAfternoon
			}
		}
	}

	capacity := p.DailyCapacity
	return Preferences{
		WorkStartTime:   start.String(),
		WorkEndTime:     end.String(),
		LunchTime:       DefaultLunchTime,
		FocusBlocks:     p.WorkingPattern.FocusCapacity != profile.LevelLow,
		BreakInterval:   breakInterval(p.Preferences.BreakFrequency),
		PersonalityType: personality,
		DailyCapacity:   &capacity,
		Unavailable:     p.BlockedIntervals(),
	}
}

func breakInterval(frequency profile.Level) int {
	switch frequency {
	case profile.LevelLow:
		return 120
	case profile.LevelHigh:
		return 60
	default:
		return 90
	}
}
