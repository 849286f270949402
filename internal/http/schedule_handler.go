package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"time"

	"github.com/example/capacity-planner/internal/application"
	"github.com/example/capacity-planner/internal/profile"
	"github.com/example/capacity-planner/internal/scheduler"
	"github.com/example/capacity-planner/internal/timeofday"
	"github.com/example/capacity-planner/internal/validation"
)

// maxEstimatedHours bounds a task estimate to one calendar day.
const maxEstimatedHours = 24

type plannerService interface {
	GenerateSchedule(ctx context.Context, params application.GenerateScheduleParams) (scheduler.Result, error)
}

// ScheduleHandler serves daily schedule generation.
type ScheduleHandler struct {
	service   plannerService
	location  *time.Location
	responder responder
	logger    *slog.Logger
}

// NewScheduleHandler constructs a handler. Date-only timestamps in requests
// are interpreted in loc; a nil loc means UTC.
func NewScheduleHandler(service plannerService, loc *time.Location, logger *slog.Logger) *ScheduleHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &ScheduleHandler{service: service, location: loc, responder: newResponder(logger), logger: defaultLogger(logger)}
}

// Generate handles POST /schedules/generate.
func (h *ScheduleHandler) Generate(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req generateScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	params, vErr, err := req.toParams(h.location)
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}
	if vErr.HasErrors() {
		handlerLogger(r.Context(), h.logger, "ScheduleHandler", "Generate").DebugContext(r.Context(), "rejected schedule request", "error", vErr)
		h.responder.writeValidation(r.Context(), w, vErr)
		return
	}

	result, err := h.service.GenerateSchedule(r.Context(), params)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, result)
}

type generateScheduleRequest struct {
	UserID      string          `json:"userId,omitempty"`
	Tasks       json.RawMessage `json:"tasks"`
	Events      []eventDTO      `json:"events"`
	Preferences preferencesDTO  `json:"preferences"`
	Date        string          `json:"date"`
}

type taskDTO struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Priority       string   `json:"priority"`
	DueDate        *string  `json:"dueDate"`
	EstimatedHours *float64 `json:"estimatedHours"`
	Status         string   `json:"status"`
}

type eventDTO struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	StartTime string  `json:"startTime"`
	EndTime   *string `json:"endTime"`
}

type preferencesDTO struct {
	WorkStartTime    string                 `json:"workStartTime"`
	WorkEndTime      string                 `json:"workEndTime"`
	LunchTime        string                 `json:"lunchTime"`
	FocusBlocks      bool                   `json:"focusBlocks"`
	BreakInterval    int                    `json:"breakInterval"`
	PersonalityType  string                 `json:"personalityType"`
	DailyCapacity    *profile.DailyCapacity `json:"dailyCapacity,omitempty"`
	UnavailableHours []string               `json:"unavailableHours,omitempty"`
}

// toParams converts the request. Field problems are collected into the
// returned ValidationError; a non-nil error means the body is malformed.
func (req generateScheduleRequest) toParams(loc *time.Location) (application.GenerateScheduleParams, *validation.ValidationError, error) {
	vErr := validation.New()

	var tasks []taskDTO
	raw := bytes.TrimSpace(req.Tasks)
	switch {
	case len(raw) == 0 || bytes.Equal(raw, []byte("null")):
		vErr.Add("tasks", "is required")
	case raw[0] != '[':
		vErr.Add("tasks", "must be an array")
	default:
		if err := json.Unmarshal(raw, &tasks); err != nil {
			return application.GenerateScheduleParams{}, nil, err
		}
	}

	out := scheduler.GenerateRequest{
		Tasks:  make([]scheduler.Task, 0, len(tasks)),
		Events: make([]scheduler.Event, 0, len(req.Events)),
		Preferences: scheduler.Preferences{
			WorkStartTime:   req.Preferences.WorkStartTime,
			WorkEndTime:     req.Preferences.WorkEndTime,
			LunchTime:       req.Preferences.LunchTime,
			FocusBlocks:     req.Preferences.FocusBlocks,
			BreakInterval:   req.Preferences.BreakInterval,
			PersonalityType: scheduler.Personality(req.Preferences.PersonalityType),
			DailyCapacity:   req.Preferences.DailyCapacity,
		},
		Date: req.Date,
	}

	for i, value := range req.Preferences.UnavailableHours {
		interval, err := timeofday.ParseInterval(value)
		if err != nil {
			vErr.Add(fmt.Sprintf("preferences.unavailableHours[%d]", i), "must be HH:MM-HH:MM with start before end")
			continue
		}
		out.Preferences.Unavailable = append(out.Preferences.Unavailable, interval)
	}

	for i, task := range tasks {
		if task.EstimatedHours != nil {
			field := fmt.Sprintf("tasks[%d].estimatedHours", i)
			switch hours := *task.EstimatedHours; {
			case hours < 0:
				vErr.Add(field, "must not be negative")
			case math.IsNaN(hours) || hours > maxEstimatedHours:
				vErr.Add(field, "must be between 0 and 24")
			}
		}
		converted := scheduler.Task{
			ID:             task.ID,
			Title:          task.Title,
			Priority:       scheduler.Priority(task.Priority),
			EstimatedHours: task.EstimatedHours,
			Status:         scheduler.TaskStatus(task.Status),
		}
		if task.DueDate != nil && *task.DueDate != "" {
			due, ok := parseTimestamp(*task.DueDate, loc)
			if !ok {
				vErr.Add(fmt.Sprintf("tasks[%d].dueDate", i), "must be RFC 3339 or YYYY-MM-DD")
			} else {
				converted.DueDate = &due
			}
		}
		out.Tasks = append(out.Tasks, converted)
	}

	for i, event := range req.Events {
		converted := scheduler.Event{ID: event.ID, Title: event.Title}
		if event.StartTime == "" {
			vErr.Add(fmt.Sprintf("events[%d].startTime", i), "is required")
		} else if start, ok := parseTimestamp(event.StartTime, loc); !ok {
			vErr.Add(fmt.Sprintf("events[%d].startTime", i), "must be RFC 3339 or YYYY-MM-DD")
		} else {
			converted.Start = start
		}
		if event.EndTime != nil && *event.EndTime != "" {
			end, ok := parseTimestamp(*event.EndTime, loc)
			if !ok {
				vErr.Add(fmt.Sprintf("events[%d].endTime", i), "must be RFC 3339 or YYYY-MM-DD")
			} else {
				converted.End = &end
			}
		}
		out.Events = append(out.Events, converted)
	}

	return application.GenerateScheduleParams{UserID: req.UserID, Request: out}, vErr, nil
}

// parseTimestamp accepts RFC 3339 timestamps and plain dates, which are read
// as midnight in loc.
func parseTimestamp(value string, loc *time.Location) (time.Time, bool) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, true
	}
	if t, err := time.ParseInLocation(time.DateOnly, value, loc); err == nil {
		return t, true
	}
	return time.Time{}, false
}
