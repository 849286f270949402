package testfixtures

import (
	"encoding/json"
	"time"

	"github.com/example/capacity-planner/internal/persistence"
	"github.com/example/capacity-planner/internal/profile"
	"github.com/example/capacity-planner/internal/scheduler"
)

// referenceTime is a Monday morning so week-based forecasts start on a
// week boundary.
var referenceTime = time.Date(2024, time.May, 6, 8, 0, 0, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// ReferenceDate returns ReferenceTime formatted as a scheduler date.
func ReferenceDate() string {
	return referenceTime.Format(scheduler.DateLayout)
}

// ---------------------------- Profile fixtures ----------------------------

// ProfileOption configures a generated resource profile.
type ProfileOption func(*profile.ResourceProfile)

// NewProfile returns a valid employee-style profile with optional overrides.
func NewProfile(userID string, opts ...ProfileOption) profile.ResourceProfile {
	p := profile.ResourceProfile{
		UserID:          userID,
		UserType:        profile.UserTypeEmployee,
		CommitmentRatio: 0.8,
		DailyCapacity: profile.DailyCapacity{
			LightTaskSlots:      6,
			HeavyTaskSlots:      2,
			TotalWeightLimit:    14,
			ContinuousWorkHours: 3,
		},
		TimeConstraints: profile.TimeConstraints{
			PreferredWorkHours: []string{"09:00-17:00"},
			MaxWorkingHours:    8,
		},
		WorkingPattern: profile.WorkingPattern{
			ProductiveHours:     []string{"09:00-12:00"},
			FocusCapacity:       profile.LevelMedium,
			MultitaskingAbility: 0.5,
		},
		Preferences: profile.Preferences{BreakFrequency: profile.LevelMedium},
	}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

// WithMaxWorkingHours overrides timeConstraints.maxWorkingHours.
func WithMaxWorkingHours(hours float64) ProfileOption {
	return func(p *profile.ResourceProfile) {
		p.TimeConstraints.MaxWorkingHours = hours
	}
}

// WithUnavailableHours replaces timeConstraints.unavailableHours.
func WithUnavailableHours(intervals ...string) ProfileOption {
	return func(p *profile.ResourceProfile) {
		p.TimeConstraints.UnavailableHours = intervals
	}
}

// WithPersonalConstraint adds a named personal constraint.
func WithPersonalConstraint(name string, intervals ...string) ProfileOption {
	return func(p *profile.ResourceProfile) {
		if p.PersonalConstraints == nil {
			p.PersonalConstraints = map[string][]string{}
		}
		p.PersonalConstraints[name] = intervals
	}
}

// WithDailyCapacity overrides the daily capacity limits.
func WithDailyCapacity(light, heavy, weight int) ProfileOption {
	return func(p *profile.ResourceProfile) {
		p.DailyCapacity.LightTaskSlots = light
		p.DailyCapacity.HeavyTaskSlots = heavy
		p.DailyCapacity.TotalWeightLimit = weight
	}
}

// WithFocusCapacity overrides workingPattern.focusCapacity.
func WithFocusCapacity(level profile.Level) ProfileOption {
	return func(p *profile.ResourceProfile) {
		p.WorkingPattern.FocusCapacity = level
	}
}

// WithProductiveHours replaces workingPattern.productiveHours.
func WithProductiveHours(intervals ...string) ProfileOption {
	return func(p *profile.ResourceProfile) {
		p.WorkingPattern.ProductiveHours = intervals
	}
}

// ProfileRecord encodes p as the persistence record the repositories store.
func ProfileRecord(p profile.ResourceProfile) persistence.Profile {
	document, err := json.Marshal(p)
	if err != nil {
		panic(err)
	}
	return persistence.Profile{
		UserID:    p.UserID,
		UserType:  string(p.UserType),
		Document:  document,
		CreatedAt: referenceTime,
		UpdatedAt: referenceTime,
	}
}

// ----------------------------- Task fixtures ------------------------------

// TaskOption configures a generated task.
type TaskOption func(*scheduler.Task)

// NewTask returns a MEDIUM priority TODO task without estimate or due date.
func NewTask(id string, opts ...TaskOption) scheduler.Task {
	task := scheduler.Task{
		ID:       id,
		Title:    "Task " + id,
		Priority: scheduler.PriorityMedium,
		Status:   scheduler.TaskStatusTodo,
	}
	for _, opt := range opts {
		opt(&task)
	}
	return task
}

// WithPriority overrides the task priority.
func WithPriority(priority scheduler.Priority) TaskOption {
	return func(t *scheduler.Task) {
		t.Priority = priority
	}
}

// WithEstimate sets the estimated hours.
func WithEstimate(hours float64) TaskOption {
	return func(t *scheduler.Task) {
		t.EstimatedHours = &hours
	}
}

// WithDue sets the due date.
func WithDue(due time.Time) TaskOption {
	return func(t *scheduler.Task) {
		t.DueDate = &due
	}
}

// WithStatus overrides the task status.
func WithStatus(status scheduler.TaskStatus) TaskOption {
	return func(t *scheduler.Task) {
		t.Status = status
	}
}

// NewMeeting returns an event on the reference date between the given
// "HH:MM" times. An empty end leaves the event without an end time.
func NewMeeting(id, start, end string) scheduler.Event {
	event := scheduler.Event{ID: id, Title: "Meeting " + id, Start: atReference(start)}
	if end != "" {
		e := atReference(end)
		event.End = &e
	}
	return event
}

func atReference(clock string) time.Time {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		panic(err)
	}
	return time.Date(referenceTime.Year(), referenceTime.Month(), referenceTime.Day(), t.Hour(), t.Minute(), 0, 0, time.UTC)
}
