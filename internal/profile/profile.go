// Package profile defines a user's resource profile: how much work they can
// absorb per day and when they can do it.
//
// Profiles are plain data. They are created once per user, optionally from a
// user-type preset merged with overrides, and replaced only on explicit edit.
// Nothing in the planner core mutates a profile it has been handed.
package profile

import (
	"github.com/example/capacity-planner/internal/timeofday"
)

// UserType identifies the preset family a profile was derived from.
type UserType string

const (
	UserTypeStudent      UserType = "student"
	UserTypeEmployee     UserType = "employee"
	UserTypeFreelancer   UserType = "freelancer"
	UserTypeEntrepreneur UserType = "entrepreneur"
	UserTypeParent       UserType = "parent"
	UserTypeRetiree      UserType = "retiree"
)

// UserTypes lists every supported user type in declaration order.
var UserTypes = []UserType{
	UserTypeStudent,
	UserTypeEmployee,
	UserTypeFreelancer,
	UserTypeEntrepreneur,
	UserTypeParent,
	UserTypeRetiree,
}

// Valid reports whether u is a known user type.
func (u UserType) Valid() bool {
	for _, candidate := range UserTypes {
		if u == candidate {
			return true
		}
	}
	return false
}

// Level is the shared low/medium/high scale used by focus capacity and break
// frequency.
type Level string

const (
	LevelLow    Level = "low"
	LevelMedium Level = "medium"
	LevelHigh   Level = "high"
)

// Valid reports whether l is one of low, medium or high.
func (l Level) Valid() bool {
	switch l {
	case LevelLow, LevelMedium, LevelHigh:
		return true
	default:
		return false
	}
}

// ResourceProfile captures a single user's capacity constraints and working
// preferences.
type ResourceProfile struct {
	UserID              string              `json:"userId,omitempty" yaml:"-"`
	UserType            UserType            `json:"userType" yaml:"userType"`
	CommitmentRatio     float64             `json:"commitmentRatio" yaml:"commitmentRatio"`
	DailyCapacity       DailyCapacity       `json:"dailyCapacity" yaml:"dailyCapacity"`
	TimeConstraints     TimeConstraints     `json:"timeConstraints" yaml:"timeConstraints"`
	WorkingPattern      WorkingPattern      `json:"workingPattern" yaml:"workingPattern"`
	PersonalConstraints map[string][]string `json:"personalConstraints,omitempty" yaml:"personalConstraints,omitempty"`
	Preferences         Preferences         `json:"preferences" yaml:"preferences"`
}

// DailyCapacity bounds how many tasks, and how much weight, fit in one day.
type DailyCapacity struct {
	LightTaskSlots      int     `json:"lightTaskSlots" yaml:"lightTaskSlots"`
	HeavyTaskSlots      int     `json:"heavyTaskSlots" yaml:"heavyTaskSlots"`
	TotalWeightLimit    int     `json:"totalWeightLimit" yaml:"totalWeightLimit"`
	ContinuousWorkHours float64 `json:"continuousWorkHours" yaml:"continuousWorkHours"`
}

// TimeConstraints holds the hours a user is unavailable or prefers to work.
// Intervals are "HH:MM-HH:MM" strings.
type TimeConstraints struct {
	UnavailableHours   []string `json:"unavailableHours,omitempty" yaml:"unavailableHours,omitempty"`
	PreferredWorkHours []string `json:"preferredWorkHours,omitempty" yaml:"preferredWorkHours,omitempty"`
	MaxWorkingHours    float64  `json:"maxWorkingHours" yaml:"maxWorkingHours"`
}

// WorkingPattern describes when and how a user concentrates best.
type WorkingPattern struct {
	ProductiveHours     []string `json:"productiveHours,omitempty" yaml:"productiveHours,omitempty"`
	FocusCapacity       Level    `json:"focusCapacity" yaml:"focusCapacity"`
	MultitaskingAbility float64  `json:"multitaskingAbility" yaml:"multitaskingAbility"`
}

// Preferences are the user's stated scheduling habits.
type Preferences struct {
	EarlyStart     bool  `json:"earlyStart" yaml:"earlyStart"`
	LateWork       bool  `json:"lateWork" yaml:"lateWork"`
	WeekendWork    bool  `json:"weekendWork" yaml:"weekendWork"`
	BreakFrequency Level `json:"breakFrequency" yaml:"breakFrequency"`
}

// Clone returns a deep copy so callers can hand profiles across goroutines
// without sharing slices or maps.
func (p ResourceProfile) Clone() ResourceProfile {
	out := p
	out.TimeConstraints.UnavailableHours = cloneStrings(p.TimeConstraints.UnavailableHours)
	out.TimeConstraints.PreferredWorkHours = cloneStrings(p.TimeConstraints.PreferredWorkHours)
	out.WorkingPattern.ProductiveHours = cloneStrings(p.WorkingPattern.ProductiveHours)
	if p.PersonalConstraints != nil {
		out.PersonalConstraints = make(map[string][]string, len(p.PersonalConstraints))
		for name, intervals := range p.PersonalConstraints {
			out.PersonalConstraints[name] = cloneStrings(intervals)
		}
	}
	return out
}

// PersonalConstraintMinutes returns the total duration of every personal
// constraint interval, merged so overlaps are counted once, together with the
// number of intervals. Malformed intervals are skipped; Validate rejects them
// before they reach the planner.
func (p ResourceProfile) PersonalConstraintMinutes() (timeofday.Minutes, int) {
	var intervals []timeofday.Interval
	for _, values := range p.PersonalConstraints {
		intervals = appendIntervals(intervals, values)
	}
	return timeofday.Total(intervals), len(intervals)
}

// BlockedIntervals returns the hours the user cannot be scheduled: the
// unavailable hours plus every personal constraint, merged and sorted.
// Malformed intervals are skipped.
func (p ResourceProfile) BlockedIntervals() []timeofday.Interval {
	blocked := appendIntervals(nil, p.TimeConstraints.UnavailableHours)
	for _, values := range p.PersonalConstraints {
		blocked = appendIntervals(blocked, values)
	}
	return timeofday.Merge(blocked)
}

func appendIntervals(dst []timeofday.Interval, values []string) []timeofday.Interval {
	for _, value := range values {
		if interval, err := timeofday.ParseInterval(value); err == nil {
			dst = append(dst, interval)
		}
	}
	return dst
}

func cloneStrings(values []string) []string {
	if values == nil {
		return nil
	}
	out := make([]string, len(values))
	copy(out, values)
	return out
}
