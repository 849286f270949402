// Package workload assembles deterministic per-day workloads that feed the
// capacity forecaster.
//
// A Snapshot collects queued tasks, ad hoc committed hours and recurring
// commitments for any number of users, and answers forecast.WorkloadSource
// queries by expanding commitments on the requested day.
package workload

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/example/capacity-planner/internal/forecast"
)

// Item is a queued task as seen by the forecaster. It lands on Date when
// set, otherwise on the day of DueDate; items with neither are ignored.
type Item struct {
	ID             string
	EstimatedHours float64
	DueDate        *time.Time
	Date           *time.Time
}

type dayKey struct {
	userID string
	date   string
}

// Snapshot is an in-memory workload. Writers and readers may run
// concurrently.
type Snapshot struct {
	mu          sync.RWMutex
	location    *time.Location
	tasks       map[dayKey][]forecast.PlannedTask
	hours       map[dayKey]float64
	commitments map[string][]Commitment
}

var _ forecast.WorkloadSource = (*Snapshot)(nil)

// NewSnapshot constructs an empty Snapshot that buckets days in loc. A nil
// loc means UTC.
func NewSnapshot(loc *time.Location) *Snapshot {
	if loc == nil {
		loc = time.UTC
	}
	return &Snapshot{
		location:    loc,
		tasks:       make(map[dayKey][]forecast.PlannedTask),
		hours:       make(map[dayKey]float64),
		commitments: make(map[string][]Commitment),
	}
}

func (s *Snapshot) key(userID string, day time.Time) dayKey {
	return dayKey{userID: userID, date: day.In(s.location).Format("2006-01-02")}
}

// AddItem records a queued task for userID.
func (s *Snapshot) AddItem(userID string, item Item) {
	var day time.Time
	switch {
	case item.Date != nil:
		day = *item.Date
	case item.DueDate != nil:
		day = *item.DueDate
	default:
		return
	}
	task := forecast.PlannedTask{ID: item.ID, EstimatedHours: item.EstimatedHours, DueDate: item.DueDate}

	s.mu.Lock()
	defer s.mu.Unlock()
	k := s.key(userID, day)
	s.tasks[k] = append(s.tasks[k], task)
}

// AddHours records committed hours on day that are not tied to a task.
func (s *Snapshot) AddHours(userID string, day time.Time, hours float64) {
	if hours <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hours[s.key(userID, day)] += hours
}

// AddCommitment records a recurring commitment for userID.
func (s *Snapshot) AddCommitment(userID string, c Commitment) error {
	if err := c.Validate(); err != nil {
		return fmt.Errorf("commitment %q: %w", c.ID, err)
	}
	c.Weekdays = append([]time.Weekday(nil), c.Weekdays...)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.commitments[userID] = append(s.commitments[userID], c)
	return nil
}

// DailyLoad implements forecast.WorkloadSource.
func (s *Snapshot) DailyLoad(ctx context.Context, userID string, day time.Time) (forecast.DailyLoad, error) {
	if err := ctx.Err(); err != nil {
		return forecast.DailyLoad{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	k := s.key(userID, day)
	load := forecast.DailyLoad{Hours: s.hours[k]}
	if tasks := s.tasks[k]; len(tasks) > 0 {
		load.Tasks = append([]forecast.PlannedTask(nil), tasks...)
	}
	for _, c := range s.commitments[userID] {
		occurrences, err := Expand(c, day, day, s.location)
		if err != nil {
			return forecast.DailyLoad{}, fmt.Errorf("expand commitment %s: %w", c.ID, err)
		}
		for _, occ := range occurrences {
			load.Hours += occ.Duration.Hours()
			load.Commitments++
		}
	}
	return load, nil
}
