package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/example/capacity-planner/internal/forecast"
	"github.com/example/capacity-planner/internal/persistence"
	"github.com/example/capacity-planner/internal/profile"
	"github.com/example/capacity-planner/internal/validation"
)

const defaultForecastConcurrency = 4

// ForecastParams carries one forecast. A nil Profile loads the stored
// profile for UserID; a nil Workload uses the service's workload source.
type ForecastParams struct {
	UserID     string
	Profile    *profile.ResourceProfile
	Parameters forecast.Parameters
	BaseDate   time.Time
	Workload   forecast.WorkloadSource
}

// ForecastServiceConfig tunes a ForecastService.
type ForecastServiceConfig struct {
	Location    *time.Location
	Validity    time.Duration
	CacheSize   int
	Concurrency int
}

// ForecastService runs capacity forecasts, caches them while valid and
// records each fresh prediction as history.
type ForecastService struct {
	profiles    ProfileLookup
	predictions persistence.PredictionRepository
	workload    forecast.WorkloadSource
	cache       *predictionCache
	location    *time.Location
	validity    time.Duration
	concurrency int
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewForecastService constructs a forecast service with the provided dependencies.
func NewForecastService(profiles ProfileLookup, predictions persistence.PredictionRepository, workload forecast.WorkloadSource, cfg ForecastServiceConfig, idGenerator func() string, now func() time.Time) (*ForecastService, error) {
	return NewForecastServiceWithLogger(profiles, predictions, workload, cfg, idGenerator, now, nil)
}

// NewForecastServiceWithLogger constructs a forecast service with a specified logger.
func NewForecastServiceWithLogger(profiles ProfileLookup, predictions persistence.PredictionRepository, workload forecast.WorkloadSource, cfg ForecastServiceConfig, idGenerator func() string, now func() time.Time, logger *slog.Logger) (*ForecastService, error) {
	if idGenerator == nil {
		idGenerator = func() string { return uuid.NewString() }
	}
	if now == nil {
		now = time.Now
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.Validity <= 0 {
		cfg.Validity = forecast.DefaultValidity
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = defaultForecastConcurrency
	}

	cache, err := newPredictionCache(cfg.CacheSize, now)
	if err != nil {
		return nil, err
	}

	return &ForecastService{
		profiles:    profiles,
		predictions: predictions,
		workload:    workload,
		cache:       cache,
		location:    cfg.Location,
		validity:    cfg.Validity,
		concurrency: cfg.Concurrency,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}, nil
}

func (s *ForecastService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "ForecastService", operation, attrs...)
}

// Forecast returns the prediction for params, serving an unexpired cached
// prediction when the workload snapshot is unchanged.
func (s *ForecastService) Forecast(ctx context.Context, params ForecastParams) (prediction forecast.FuturePrediction, err error) {
	if s == nil {
		err = fmt.Errorf("ForecastService is nil")
		return
	}

	cached := false
	logger := s.loggerWith(ctx, "Forecast", "user_id", params.UserID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to forecast capacity", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "capacity forecast ready",
			"cached", cached,
			"weeks", len(prediction.WeeklyCapacityPrediction),
			"overload_risk", prediction.RiskAlerts.OverloadRisk,
			"valid_until", humanize.RelTime(s.now(), prediction.ValidUntil, "ago", "from now"),
		)
	}()

	params.UserID = strings.TrimSpace(params.UserID)
	resolved, err := s.resolveProfile(ctx, params)
	if err != nil {
		return
	}

	workload := params.Workload
	if workload == nil {
		workload = s.workload
	}
	forecaster := forecast.NewForecaster(workload, s.history(logger), s.location, s.now, s.validity)

	snapshot, err := forecaster.Snapshot(ctx, forecast.Request{
		UserID:     params.UserID,
		Profile:    resolved,
		Parameters: params.Parameters,
		BaseDate:   params.BaseDate,
	})
	if err != nil {
		return
	}

	fingerprint, err := snapshotFingerprint(snapshot)
	if err != nil {
		return
	}
	if hit, ok := s.cache.Get(fingerprint); ok {
		cached = true
		prediction = hit
		return
	}

	prediction = forecast.Project(snapshot, s.validity)
	prediction.CalculatedAt = s.now()
	if prediction.Expired(prediction.CalculatedAt) {
		// A base date far enough in the past yields a prediction that is
		// already stale; hand it back without caching or recording it.
		return
	}

	s.cache.Store(fingerprint, prediction)
	s.record(ctx, logger, fingerprint, prediction)
	return
}

// ForecastMany runs the forecasts concurrently, bounded by the configured
// concurrency. Results keep the order of params; the first failure cancels
// the remaining forecasts and is returned.
func (s *ForecastService) ForecastMany(ctx context.Context, params []ForecastParams) ([]forecast.FuturePrediction, error) {
	if s == nil {
		return nil, fmt.Errorf("ForecastService is nil")
	}

	results := make([]forecast.FuturePrediction, len(params))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(s.concurrency)

	for i := range params {
		i := i
		group.Go(func() error {
			prediction, err := s.Forecast(groupCtx, params[i])
			if err != nil {
				return fmt.Errorf("forecast %s: %w", params[i].UserID, err)
			}
			results[i] = prediction
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// LatestPrediction returns the most recent recorded prediction for userID.
// Expired predictions are reported as ErrNotFound.
func (s *ForecastService) LatestPrediction(ctx context.Context, userID string) (forecast.FuturePrediction, error) {
	if s == nil {
		return forecast.FuturePrediction{}, fmt.Errorf("ForecastService is nil")
	}
	if strings.TrimSpace(userID) == "" {
		return forecast.FuturePrediction{}, validation.Field("userId", "is required")
	}
	if s.predictions == nil {
		return forecast.FuturePrediction{}, ErrNotConfigured
	}

	record, err := s.predictions.LatestPrediction(ctx, userID)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return forecast.FuturePrediction{}, ErrNotFound
		}
		return forecast.FuturePrediction{}, err
	}
	if !s.now().Before(record.ValidUntil) {
		return forecast.FuturePrediction{}, ErrNotFound
	}

	var prediction forecast.FuturePrediction
	if err := json.Unmarshal(record.Payload, &prediction); err != nil {
		return forecast.FuturePrediction{}, fmt.Errorf("decode prediction %s: %w", record.ID, err)
	}
	return prediction, nil
}

// InvalidateCache drops every cached prediction.
func (s *ForecastService) InvalidateCache() {
	if s == nil {
		return
	}
	s.cache.Purge()
}

func (s *ForecastService) resolveProfile(ctx context.Context, params ForecastParams) (profile.ResourceProfile, error) {
	if params.Profile != nil {
		return params.Profile.Clone(), nil
	}
	if params.UserID == "" {
		// Let the forecaster report the missing user alongside any other issue.
		return profile.ResourceProfile{}, nil
	}
	if s.profiles == nil {
		return profile.ResourceProfile{}, validation.Field("resourceProfile", "is required")
	}
	return s.profiles.GetProfile(ctx, params.UserID)
}

func (s *ForecastService) history(logger *slog.Logger) forecast.HistorySource {
	if s.predictions == nil {
		return nil
	}
	return predictionHistory{predictions: s.predictions, logger: logger}
}

func (s *ForecastService) record(ctx context.Context, logger *slog.Logger, fingerprint string, prediction forecast.FuturePrediction) {
	if s.predictions == nil {
		return
	}
	payload, err := json.Marshal(prediction)
	if err != nil {
		logger.WarnContext(ctx, "failed to encode prediction for history", "error", err)
		return
	}
	record := persistence.Prediction{
		ID:             s.idGenerator(),
		UserID:         prediction.UserID,
		PredictionDate: prediction.PredictionDate.Format(time.DateOnly),
		Fingerprint:    fingerprint,
		CalculatedAt:   prediction.CalculatedAt,
		ValidUntil:     prediction.ValidUntil,
		Payload:        payload,
	}
	if err := s.predictions.SavePrediction(ctx, record); err != nil {
		logger.WarnContext(ctx, "failed to record prediction history", "error", err, "prediction_id", record.ID)
		return
	}
	logger.DebugContext(ctx, "prediction recorded", "prediction_id", record.ID, "payload_size", humanize.Bytes(uint64(len(payload))))
}

// predictionHistory adapts the prediction repository to forecast.HistorySource.
type predictionHistory struct {
	predictions persistence.PredictionRepository
	logger      *slog.Logger
}

func (h predictionHistory) PredictionCount(ctx context.Context, userID string) (int, error) {
	count, err := h.predictions.CountPredictions(ctx, userID)
	if err != nil {
		h.logger.WarnContext(ctx, "prediction history unavailable, assuming none", "error", err)
		return 0, err
	}
	return count, nil
}
