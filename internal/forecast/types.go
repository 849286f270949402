package forecast

import "time"

// CapacityStatus classifies a day's utilization.
type CapacityStatus string

const (
	StatusUnderutilized CapacityStatus = "underutilized"
	StatusOptimal       CapacityStatus = "optimal"
	StatusNearLimit     CapacityStatus = "near-limit"
	StatusOverloaded    CapacityStatus = "overloaded"
)

// ClassifyUtilization maps a utilization rate onto a status. The bands are
// [0,0.5), [0.5,0.8), [0.8,1.0) and [1.0,∞).
func ClassifyUtilization(rate float64) CapacityStatus {
	switch {
	case rate < 0.5:
		return StatusUnderutilized
	case rate < 0.8:
		return StatusOptimal
	case rate < 1.0:
		return StatusNearLimit
	default:
		return StatusOverloaded
	}
}

// RiskLevel is the coarse severity of a risk alert.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// DailyCapacityBreakdown is the projection for a single day.
type DailyCapacityBreakdown struct {
	Date              string         `json:"date"`
	DayOfWeek         string         `json:"dayOfWeek"`
	AvailableHours    float64        `json:"availableHours"`
	ScheduledHours    float64        `json:"scheduledHours"`
	UtilizationRate   float64        `json:"utilizationRate"`
	CapacityStatus    CapacityStatus `json:"capacityStatus"`
	ConflictingEvents int            `json:"conflictingEvents"`
	EnergyLevel       float64        `json:"energyLevel"`
	TaskIDs           []string       `json:"taskIds,omitempty"`
}

// AdjustmentSuggestions names the concrete moves that would relieve a week.
type AdjustmentSuggestions struct {
	TasksToMoveEarlier []string `json:"tasksToMoveEarlier"`
	TasksToDefer       []string `json:"tasksToDefer"`
	OptimalWorkDays    []string `json:"optimalWorkDays"`
}

// CapacityPrediction is the projection for one forecast week.
type CapacityPrediction struct {
	WeekNumber            int                      `json:"weekNumber"`
	WeekStartDate         string                   `json:"weekStartDate"`
	WeekEndDate           string                   `json:"weekEndDate"`
	AvailableCapacity     float64                  `json:"availableCapacity"`
	ScheduledWeight       float64                  `json:"scheduledWeight"`
	FlexibleWeight        float64                  `json:"flexibleWeight"`
	ReservedCapacity      float64                  `json:"reservedCapacity"`
	DailyBreakdown        []DailyCapacityBreakdown `json:"dailyBreakdown"`
	RiskDays              []string                 `json:"riskDays"`
	CriticalDays          []string                 `json:"criticalDays"`
	RecommendedActions    []string                 `json:"recommendedActions"`
	AdjustmentSuggestions AdjustmentSuggestions    `json:"adjustmentSuggestions"`
}

// TrendDirection summarises how utilization moves within a month.
type TrendDirection string

const (
	TrendIncreasing TrendDirection = "increasing"
	TrendStable     TrendDirection = "stable"
	TrendDecreasing TrendDirection = "decreasing"
)

// MonthlyTrend aggregates the projected days that fall into one calendar
// month.
type MonthlyTrend struct {
	Month              string         `json:"month"`
	AverageUtilization float64        `json:"averageUtilization"`
	PeakUtilization    float64        `json:"peakUtilization"`
	OverloadedDays     int            `json:"overloadedDays"`
	StrainIndex        float64        `json:"strainIndex"`
	Direction          TrendDirection `json:"direction"`
}

// RiskAlerts is the horizon-wide risk classification.
type RiskAlerts struct {
	OverloadRisk         RiskLevel `json:"overloadRisk"`
	BurnoutRisk          RiskLevel `json:"burnoutRisk"`
	DeadlineMissRisk     RiskLevel `json:"deadlineMissRisk"`
	ResourceConflictRisk RiskLevel `json:"resourceConflictRisk"`
}

// RecommendationType groups recommendations by the lever they pull.
type RecommendationType string

const (
	RecommendationRiskMitigation     RecommendationType = "risk-mitigation"
	RecommendationTaskScheduling     RecommendationType = "task-scheduling"
	RecommendationWorkloadBalance    RecommendationType = "workload-balance"
	RecommendationCapacityAdjustment RecommendationType = "capacity-adjustment"
)

// RecommendationPriority orders recommendations; urgent sorts first.
type RecommendationPriority string

const (
	PriorityUrgent RecommendationPriority = "urgent"
	PriorityHigh   RecommendationPriority = "high"
	PriorityMedium RecommendationPriority = "medium"
	PriorityLow    RecommendationPriority = "low"
)

func (p RecommendationPriority) rank() int {
	switch p {
	case PriorityUrgent:
		return 0
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	default:
		return 3
	}
}

// RecommendationItem is one rule-derived suggestion.
type RecommendationItem struct {
	ID               string                 `json:"id"`
	Type             RecommendationType     `json:"type"`
	Priority         RecommendationPriority `json:"priority"`
	Title            string                 `json:"title"`
	Description      string                 `json:"description"`
	Actionable       bool                   `json:"actionable"`
	EstimatedBenefit string                 `json:"estimatedBenefit"`
	EstimatedEffort  string                 `json:"estimatedEffort"`
	DueBy            string                 `json:"dueBy,omitempty"`
	RelatedTaskIDs   []string               `json:"relatedTaskIds,omitempty"`
}

// DataQuality grades how much prediction history backs the accuracy figure.
type DataQuality string

const (
	DataQualityInsufficient DataQuality = "insufficient"
	DataQualityLimited      DataQuality = "limited"
	DataQualityGood         DataQuality = "good"
	DataQualityExcellent    DataQuality = "excellent"
)

// PredictionAccuracy describes how far the forecast can be trusted.
type PredictionAccuracy struct {
	HistoricalAccuracy float64     `json:"historicalAccuracy"`
	ConfidenceLevel    float64     `json:"confidenceLevel"`
	DataQuality        DataQuality `json:"dataQuality"`
}

// FuturePrediction is the full multi-week forecast for one user. It is
// computed fresh per request and must not be reused once ValidUntil passes.
type FuturePrediction struct {
	UserID                   string               `json:"userId"`
	PredictionDate           time.Time            `json:"predictionDate"`
	WeeklyCapacityPrediction []CapacityPrediction `json:"weeklyCapacityPrediction"`
	MonthlyTrends            []MonthlyTrend       `json:"monthlyTrends"`
	RiskAlerts               RiskAlerts           `json:"riskAlerts"`
	Recommendations          []RecommendationItem `json:"recommendations"`
	PredictionAccuracy       PredictionAccuracy   `json:"predictionAccuracy"`
	CalculatedAt             time.Time            `json:"calculatedAt"`
	ValidUntil               time.Time            `json:"validUntil"`
}

// Expired reports whether the prediction may no longer be served at now.
func (p FuturePrediction) Expired(now time.Time) bool {
	return !now.Before(p.ValidUntil)
}
