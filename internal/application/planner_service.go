package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/example/capacity-planner/internal/profile"
	"github.com/example/capacity-planner/internal/scheduler"
)

// ProfileLookup resolves a user's stored resource profile.
type ProfileLookup interface {
	GetProfile(ctx context.Context, userID string) (profile.ResourceProfile, error)
}

// GenerateScheduleParams carries one schedule generation. When UserID names
// a stored profile, preferences left empty are derived from it and its
// daily capacity enables weighted slot accounting.
type GenerateScheduleParams struct {
	UserID  string
	Request scheduler.GenerateRequest
}

// PlannerService generates daily schedules.
type PlannerService struct {
	generator *scheduler.Generator
	profiles  ProfileLookup
	logger    *slog.Logger
}

// NewPlannerService constructs a planner service with the provided dependencies.
func NewPlannerService(generator *scheduler.Generator, profiles ProfileLookup) *PlannerService {
	return NewPlannerServiceWithLogger(generator, profiles, nil)
}

// NewPlannerServiceWithLogger constructs a planner service with a specified logger.
func NewPlannerServiceWithLogger(generator *scheduler.Generator, profiles ProfileLookup, logger *slog.Logger) *PlannerService {
	if generator == nil {
		generator = scheduler.NewGenerator(time.UTC, time.Now)
	}
	return &PlannerService{generator: generator, profiles: profiles, logger: defaultLogger(logger)}
}

func (s *PlannerService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "PlannerService", operation, attrs...)
}

// GenerateSchedule builds the timetable described by params.
func (s *PlannerService) GenerateSchedule(ctx context.Context, params GenerateScheduleParams) (result scheduler.Result, err error) {
	if s == nil {
		err = fmt.Errorf("PlannerService is nil")
		return
	}

	logger := s.loggerWith(ctx, "GenerateSchedule",
		"user_id", params.UserID,
		"tasks", len(params.Request.Tasks),
		"events", len(params.Request.Events),
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to generate schedule", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "schedule generated",
			"date", result.Date,
			"scheduled_tasks", result.Metadata.ScheduledTasks,
			"unscheduled_tasks", len(result.Unscheduled),
			"overlaps", len(result.Overlaps),
		)
	}()

	if err = ctx.Err(); err != nil {
		return
	}

	req := params.Request
	if params.UserID != "" && s.profiles != nil {
		p, lookupErr := s.profiles.GetProfile(ctx, params.UserID)
		switch {
		case lookupErr == nil:
			req.Preferences = mergeProfilePreferences(req.Preferences, p)
		case errors.Is(lookupErr, ErrNotFound):
			logger.DebugContext(ctx, "no stored profile, using request preferences")
		default:
			err = lookupErr
			return
		}
	}

	result, err = s.generator.Generate(req)
	return
}

// mergeProfilePreferences fills preferences from p. Explicit request
// preferences win; the profile's daily capacity applies unless the request
// carries its own. The profile's blocked hours always add to the request's.
func mergeProfilePreferences(prefs scheduler.Preferences, p profile.ResourceProfile) scheduler.Preferences {
	derived := scheduler.PreferencesFromProfile(p)
	unavailable := append(slices.Clone(prefs.Unavailable), derived.Unavailable...)
	if prefs.WorkStartTime == "" && prefs.WorkEndTime == "" {
		capacity := prefs.DailyCapacity
		prefs = derived
		if capacity != nil {
			prefs.DailyCapacity = capacity
		}
	} else if prefs.DailyCapacity == nil {
		prefs.DailyCapacity = derived.DailyCapacity
	}
	prefs.Unavailable = unavailable
	return prefs
}
