package workload

import (
	"errors"
	"time"
)

// Frequency represents supported recurrence intervals for commitments.
type Frequency string

const (
	// FrequencyOnce occurs on StartsOn only.
	FrequencyOnce Frequency = "once"
	// FrequencyDaily occurs every day within the range, optionally filtered by weekday.
	FrequencyDaily Frequency = "daily"
	// FrequencyWeekly occurs on the selected weekdays.
	FrequencyWeekly Frequency = "weekly"
)

// ErrInvalidFrequency indicates the commitment frequency is not supported.
var ErrInvalidFrequency = errors.New("workload: invalid frequency")

// ErrInvalidDuration indicates the commitment duration is invalid.
var ErrInvalidDuration = errors.New("workload: commitment duration must be positive")

// ErrInvalidWindow indicates the expansion window is inverted.
var ErrInvalidWindow = errors.New("workload: expansion window end precedes start")

// Commitment is a fixed, possibly recurring block of time the user has
// already promised elsewhere.
type Commitment struct {
	ID        string
	Title     string
	Frequency Frequency
	Weekdays  []time.Weekday
	StartsOn  time.Time
	EndsOn    *time.Time
	Duration  time.Duration
}

// Validate reports structural problems with the commitment.
func (c Commitment) Validate() error {
	switch c.Frequency {
	case FrequencyOnce, FrequencyDaily:
	case FrequencyWeekly:
		if len(c.Weekdays) == 0 {
			return ErrInvalidFrequency
		}
	default:
		return ErrInvalidFrequency
	}
	if c.Duration <= 0 {
		return ErrInvalidDuration
	}
	return nil
}

// Occurrence is one dated instance of a commitment.
type Occurrence struct {
	CommitmentID string
	Date         time.Time
	Duration     time.Duration
}

// Expand produces the commitment's occurrences between from and to, both
// inclusive calendar days in loc.
//
// The expansion enforces the following semantics:
//   - Dates are normalized to loc before comparison.
//   - The window is clipped by the commitment's StartsOn and EndsOn.
//   - Weekday selections are respected for weekly commitments; daily
//     commitments filter by weekdays only when some are given.
func Expand(c Commitment, from, to time.Time, loc *time.Location) ([]Occurrence, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if loc == nil {
		loc = time.UTC
	}
	lower := startOfDay(from, loc)
	upper := startOfDay(to, loc)
	if upper.Before(lower) {
		return nil, ErrInvalidWindow
	}

	starts := startOfDay(c.StartsOn, loc)
	if starts.After(lower) {
		lower = starts
	}
	if c.EndsOn != nil {
		if ends := startOfDay(*c.EndsOn, loc); ends.Before(upper) {
			upper = ends
		}
	}

	occurrences := make([]Occurrence, 0)
	for current := lower; !current.After(upper); current = current.AddDate(0, 0, 1) {
		if !c.includes(current, starts) {
			continue
		}
		occurrences = append(occurrences, Occurrence{CommitmentID: c.ID, Date: current, Duration: c.Duration})
	}
	return occurrences, nil
}

func (c Commitment) includes(day, starts time.Time) bool {
	switch c.Frequency {
	case FrequencyOnce:
		return day.Equal(starts)
	case FrequencyDaily:
		if len(c.Weekdays) == 0 {
			return true
		}
		return containsWeekday(c.Weekdays, day.Weekday())
	case FrequencyWeekly:
		return containsWeekday(c.Weekdays, day.Weekday())
	default:
		return false
	}
}

func containsWeekday(days []time.Weekday, day time.Weekday) bool {
	for _, candidate := range days {
		if candidate == day {
			return true
		}
	}
	return false
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
