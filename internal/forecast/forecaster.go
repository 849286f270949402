// Package forecast projects a user's capacity several weeks ahead.
//
// A forecast runs in two phases. The Forecaster first reads a snapshot of
// the user's workload and prediction history through the injected sources,
// then hands the snapshot to a pure projection that classifies each day,
// aggregates weekly and monthly figures, raises risk alerts and derives
// recommendations. Given the same snapshot the projection is deterministic.
package forecast

import (
	"context"
	"fmt"
	"time"

	"github.com/example/capacity-planner/internal/profile"
	"github.com/example/capacity-planner/internal/validation"
)

// DefaultValidity is how long a prediction stays servable after its
// prediction date.
const DefaultValidity = 24 * time.Hour

// DefaultForecastWeeks is used when a request leaves the period unset.
const DefaultForecastWeeks = 4

// MaxForecastWeeks bounds the horizon of a single request.
const MaxForecastWeeks = 12

// AnalysisDepth scales the confidence attached to a forecast.
type AnalysisDepth string

const (
	DepthBasic         AnalysisDepth = "basic"
	DepthStandard      AnalysisDepth = "standard"
	DepthComprehensive AnalysisDepth = "comprehensive"
)

// RiskTolerance controls how eagerly tasks are suggested for deferral.
type RiskTolerance string

const (
	ToleranceLow    RiskTolerance = "low"
	ToleranceMedium RiskTolerance = "medium"
	ToleranceHigh   RiskTolerance = "high"
)

// Weights balance the components of the monthly strain index.
type Weights struct {
	Workload float64 `json:"workload"`
	Deadline float64 `json:"deadline"`
	Energy   float64 `json:"energy"`
}

// DefaultWeights are applied when a request carries no weights.
var DefaultWeights = Weights{Workload: 0.5, Deadline: 0.3, Energy: 0.2}

// Parameters tune a single forecast.
type Parameters struct {
	AnalysisDepth          AnalysisDepth `json:"analysisDepth"`
	ForecastPeriod         int           `json:"forecastPeriod"`
	IncludeSeasonalFactors bool          `json:"includeSeasonalFactors"`
	IncludePersonalEvents  bool          `json:"includePersonalEvents"`
	RiskTolerance          RiskTolerance `json:"riskTolerance"`
	Weights                *Weights      `json:"weights,omitempty"`
}

// Request is the input of one forecast. A zero BaseDate means today in the
// forecaster's location.
type Request struct {
	UserID     string
	Profile    profile.ResourceProfile
	Parameters Parameters
	BaseDate   time.Time
}

// PlannedTask is a unit of queued work attributed to a day.
type PlannedTask struct {
	ID             string
	EstimatedHours float64
	DueDate        *time.Time
}

// DailyLoad is the workload attributed to one day. Hours counts committed
// time not tied to a task; Tasks contribute their own estimates on top.
type DailyLoad struct {
	Hours       float64
	Commitments int
	Tasks       []PlannedTask
}

// ScheduledHours is the total hours the day asks of the user.
func (l DailyLoad) ScheduledHours() float64 {
	total := l.Hours
	for _, task := range l.Tasks {
		total += taskHours(task)
	}
	return total
}

func taskHours(task PlannedTask) float64 {
	if task.EstimatedHours <= 0 {
		return profile.DefaultTaskHours
	}
	return task.EstimatedHours
}

// WorkloadSource supplies the queued workload for a user and day.
type WorkloadSource interface {
	DailyLoad(ctx context.Context, userID string, day time.Time) (DailyLoad, error)
}

// HistorySource reports how many predictions were previously issued for a
// user.
type HistorySource interface {
	PredictionCount(ctx context.Context, userID string) (int, error)
}

// Forecaster computes FuturePredictions. It holds no mutable state and is
// safe for concurrent use.
type Forecaster struct {
	workload WorkloadSource
	history  HistorySource
	location *time.Location
	now      func() time.Time
	validity time.Duration
}

// NewForecaster wires a Forecaster. Nil sources behave as an empty workload
// and an empty history; a nil location means UTC; a non-positive validity
// means DefaultValidity.
func NewForecaster(workload WorkloadSource, history HistorySource, loc *time.Location, now func() time.Time, validity time.Duration) *Forecaster {
	if loc == nil {
		loc = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	if validity <= 0 {
		validity = DefaultValidity
	}
	return &Forecaster{
		workload: workload,
		history:  history,
		location: loc,
		now:      now,
		validity: validity,
	}
}

// Snapshot is the immutable input of the projection phase.
type Snapshot struct {
	UserID         string
	Profile        profile.ResourceProfile
	Parameters     Parameters
	PredictionDate time.Time
	Loads          []DailyLoad
	HistoryCount   int
}

// Forecast validates req, snapshots the workload across the horizon and
// projects it. Missing or failing history never fails the forecast; a
// failing workload source does.
func (f *Forecaster) Forecast(ctx context.Context, req Request) (FuturePrediction, error) {
	if f == nil {
		return FuturePrediction{}, fmt.Errorf("Forecaster is nil")
	}

	snapshot, err := f.Snapshot(ctx, req)
	if err != nil {
		return FuturePrediction{}, err
	}
	prediction := Project(snapshot, f.validity)
	prediction.CalculatedAt = f.now()
	return prediction, nil
}

// Snapshot validates req and reads every input the projection needs.
func (f *Forecaster) Snapshot(ctx context.Context, req Request) (Snapshot, error) {
	if f == nil {
		return Snapshot{}, fmt.Errorf("Forecaster is nil")
	}
	params, err := normalizeRequest(req)
	if err != nil {
		return Snapshot{}, err
	}

	base := req.BaseDate
	if base.IsZero() {
		base = f.now()
	}
	base = base.In(f.location)
	predictionDate := time.Date(base.Year(), base.Month(), base.Day(), 0, 0, 0, 0, f.location)

	days := params.ForecastPeriod * 7
	loads := make([]DailyLoad, days)
	if f.workload != nil {
		for i := 0; i < days; i++ {
			if err := ctx.Err(); err != nil {
				return Snapshot{}, err
			}
			day := predictionDate.AddDate(0, 0, i)
			load, err := f.workload.DailyLoad(ctx, req.UserID, day)
			if err != nil {
				return Snapshot{}, fmt.Errorf("forecast: load workload for %s: %w", day.Format(dateLayout), err)
			}
			loads[i] = load
		}
	}

	historyCount := 0
	if f.history != nil {
		if count, err := f.history.PredictionCount(ctx, req.UserID); err == nil && count > 0 {
			historyCount = count
		}
	}

	return Snapshot{
		UserID:         req.UserID,
		Profile:        req.Profile.Clone(),
		Parameters:     params,
		PredictionDate: predictionDate,
		Loads:          loads,
		HistoryCount:   historyCount,
	}, nil
}

// normalizeRequest validates req and returns its parameters with defaults
// applied.
func normalizeRequest(req Request) (Parameters, error) {
	vErr := validation.New()
	if req.UserID == "" {
		vErr.Add("userId", "is required")
	}
	if err := req.Profile.Validate(); err != nil {
		if pErr, ok := validation.As(err); ok {
			vErr.MergePrefixed("resourceProfile", pErr)
		} else {
			return Parameters{}, err
		}
	}

	params := req.Parameters
	switch params.AnalysisDepth {
	case "":
		params.AnalysisDepth = DepthStandard
	case DepthBasic, DepthStandard, DepthComprehensive:
	default:
		vErr.Add("parameters.analysisDepth", "must be one of basic, standard, comprehensive")
	}
	switch {
	case params.ForecastPeriod == 0:
		params.ForecastPeriod = DefaultForecastWeeks
	case params.ForecastPeriod < 1 || params.ForecastPeriod > MaxForecastWeeks:
		vErr.Add("parameters.forecastPeriod", fmt.Sprintf("must be between 1 and %d", MaxForecastWeeks))
	}
	switch params.RiskTolerance {
	case "":
		params.RiskTolerance = ToleranceMedium
	case ToleranceLow, ToleranceMedium, ToleranceHigh:
	default:
		vErr.Add("parameters.riskTolerance", "must be one of low, medium, high")
	}
	if params.Weights == nil {
		weights := DefaultWeights
		params.Weights = &weights
	} else {
		weights := *params.Weights
		if weights.Workload < 0 || weights.Deadline < 0 || weights.Energy < 0 {
			vErr.Add("parameters.weights", "must not be negative")
		}
		params.Weights = &weights
	}

	if err := vErr.OrNil(); err != nil {
		return Parameters{}, err
	}
	return params, nil
}
