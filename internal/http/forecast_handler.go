package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/example/capacity-planner/internal/application"
	"github.com/example/capacity-planner/internal/forecast"
	"github.com/example/capacity-planner/internal/profile"
	"github.com/example/capacity-planner/internal/validation"
	"github.com/example/capacity-planner/internal/workload"
)

type forecastService interface {
	Forecast(ctx context.Context, params application.ForecastParams) (forecast.FuturePrediction, error)
	ForecastMany(ctx context.Context, params []application.ForecastParams) ([]forecast.FuturePrediction, error)
	LatestPrediction(ctx context.Context, userID string) (forecast.FuturePrediction, error)
}

// ForecastHandler serves capacity forecasts.
type ForecastHandler struct {
	service   forecastService
	location  *time.Location
	responder responder
	logger    *slog.Logger
}

// NewForecastHandler constructs a handler. Dates in requests are interpreted
// in loc; a nil loc means UTC.
func NewForecastHandler(service forecastService, loc *time.Location, logger *slog.Logger) *ForecastHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &ForecastHandler{service: service, location: loc, responder: newResponder(logger), logger: defaultLogger(logger)}
}

// Create handles POST /forecasts.
func (h *ForecastHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req forecastRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	vErr := validation.New()
	params := req.toParams(h.location, "", vErr)
	if vErr.HasErrors() {
		h.responder.writeValidation(r.Context(), w, vErr)
		return
	}

	prediction, err := h.service.Forecast(r.Context(), params)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, prediction)
}

// CreateBatch handles POST /forecasts/batch. The response lists predictions
// in request order.
func (h *ForecastHandler) CreateBatch(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req struct {
		Requests []forecastRequest `json:"requests"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	vErr := validation.New()
	if len(req.Requests) == 0 {
		vErr.Add("requests", "is required")
	}
	params := make([]application.ForecastParams, 0, len(req.Requests))
	for i, item := range req.Requests {
		params = append(params, item.toParams(h.location, fmt.Sprintf("requests[%d].", i), vErr))
	}
	if vErr.HasErrors() {
		h.responder.writeValidation(r.Context(), w, vErr)
		return
	}

	handlerLogger(r.Context(), h.logger, "ForecastHandler", "CreateBatch").DebugContext(r.Context(), "running forecast batch", "size", len(params))

	predictions, err := h.service.ForecastMany(r.Context(), params)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, map[string]any{"predictions": predictions})
}

// Latest handles GET /forecasts/{userId}/latest.
func (h *ForecastHandler) Latest(w http.ResponseWriter, r *http.Request, userID string) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	userID = strings.TrimSpace(userID)
	if userID == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidUserID)
		return
	}

	prediction, err := h.service.LatestPrediction(r.Context(), userID)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, prediction)
}

type forecastRequest struct {
	UserID          string                   `json:"userId"`
	ResourceProfile *profile.ResourceProfile `json:"resourceProfile,omitempty"`
	Parameters      forecast.Parameters      `json:"parameters"`
	BaseDate        string                   `json:"baseDate,omitempty"`
	Workload        *workloadDTO             `json:"workload,omitempty"`
}

type workloadDTO struct {
	Items       []workItemDTO   `json:"items"`
	Hours       []dayHoursDTO   `json:"hours"`
	Commitments []commitmentDTO `json:"commitments"`
}

type workItemDTO struct {
	ID             string  `json:"id"`
	EstimatedHours float64 `json:"estimatedHours"`
	DueDate        string  `json:"dueDate,omitempty"`
	Date           string  `json:"date,omitempty"`
}

type dayHoursDTO struct {
	Date  string  `json:"date"`
	Hours float64 `json:"hours"`
}

type commitmentDTO struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Frequency       string   `json:"frequency"`
	Weekdays        []string `json:"weekdays,omitempty"`
	StartsOn        string   `json:"startsOn"`
	EndsOn          string   `json:"endsOn,omitempty"`
	DurationMinutes int      `json:"durationMinutes"`
}

// toParams converts the request, recording field problems under prefix.
func (req forecastRequest) toParams(loc *time.Location, prefix string, vErr *validation.ValidationError) application.ForecastParams {
	params := application.ForecastParams{
		UserID:     req.UserID,
		Profile:    req.ResourceProfile,
		Parameters: req.Parameters,
	}

	if req.BaseDate != "" {
		base, ok := parseTimestamp(req.BaseDate, loc)
		if !ok {
			vErr.Add(prefix+"baseDate", "must be RFC 3339 or YYYY-MM-DD")
		} else {
			params.BaseDate = base
		}
	}

	if req.Workload != nil {
		if snapshot := req.Workload.toSnapshot(req.UserID, loc, prefix+"workload.", vErr); snapshot != nil {
			params.Workload = snapshot
		}
	}
	return params
}

func (dto workloadDTO) toSnapshot(userID string, loc *time.Location, prefix string, vErr *validation.ValidationError) *workload.Snapshot {
	before := len(vErr.FieldErrors)
	snapshot := workload.NewSnapshot(loc)

	for i, item := range dto.Items {
		field := fmt.Sprintf("%sitems[%d]", prefix, i)
		converted := workload.Item{ID: item.ID, EstimatedHours: item.EstimatedHours}
		if item.EstimatedHours < 0 {
			vErr.Add(field+".estimatedHours", "must not be negative")
		}
		if item.DueDate != "" {
			due, ok := parseTimestamp(item.DueDate, loc)
			if !ok {
				vErr.Add(field+".dueDate", "must be RFC 3339 or YYYY-MM-DD")
			}
			converted.DueDate = &due
		}
		if item.Date != "" {
			date, ok := parseTimestamp(item.Date, loc)
			if !ok {
				vErr.Add(field+".date", "must be RFC 3339 or YYYY-MM-DD")
			}
			converted.Date = &date
		}
		snapshot.AddItem(userID, converted)
	}

	for i, entry := range dto.Hours {
		field := fmt.Sprintf("%shours[%d]", prefix, i)
		day, err := time.ParseInLocation(time.DateOnly, entry.Date, loc)
		if err != nil {
			vErr.Add(field+".date", "must be YYYY-MM-DD")
			continue
		}
		if entry.Hours < 0 {
			vErr.Add(field+".hours", "must not be negative")
			continue
		}
		snapshot.AddHours(userID, day, entry.Hours)
	}

	for i, c := range dto.Commitments {
		field := fmt.Sprintf("%scommitments[%d]", prefix, i)
		commitment, ok := c.toCommitment(loc, field, vErr)
		if !ok {
			continue
		}
		if err := snapshot.AddCommitment(userID, commitment); err != nil {
			switch {
			case errors.Is(err, workload.ErrInvalidFrequency) && commitment.Frequency == workload.FrequencyWeekly:
				vErr.Add(field+".weekdays", "is required")
			case errors.Is(err, workload.ErrInvalidFrequency):
				vErr.Add(field+".frequency", "must be one of once, daily, weekly")
			case errors.Is(err, workload.ErrInvalidDuration):
				vErr.Add(field+".durationMinutes", "must be positive")
			default:
				vErr.Add(field, err.Error())
			}
		}
	}

	if len(vErr.FieldErrors) > before {
		return nil
	}
	return snapshot
}

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

func (dto commitmentDTO) toCommitment(loc *time.Location, field string, vErr *validation.ValidationError) (workload.Commitment, bool) {
	before := len(vErr.FieldErrors)
	c := workload.Commitment{
		ID:        dto.ID,
		Title:     dto.Title,
		Frequency: workload.Frequency(strings.ToLower(dto.Frequency)),
		Duration:  time.Duration(dto.DurationMinutes) * time.Minute,
	}

	for j, name := range dto.Weekdays {
		day, ok := weekdayNames[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			vErr.Add(fmt.Sprintf("%s.weekdays[%d]", field, j), "must be one of sunday, monday, tuesday, wednesday, thursday, friday, saturday")
			continue
		}
		c.Weekdays = append(c.Weekdays, day)
	}

	starts, err := time.ParseInLocation(time.DateOnly, dto.StartsOn, loc)
	if err != nil {
		vErr.Add(field+".startsOn", "must be YYYY-MM-DD")
	}
	c.StartsOn = starts

	if dto.EndsOn != "" {
		ends, err := time.ParseInLocation(time.DateOnly, dto.EndsOn, loc)
		switch {
		case err != nil:
			vErr.Add(field+".endsOn", "must be YYYY-MM-DD")
		case ends.Before(starts):
			vErr.Add(field+".endsOn", "must be after "+dto.StartsOn)
		default:
			c.EndsOn = &ends
		}
	}

	return c, len(vErr.FieldErrors) == before
}
