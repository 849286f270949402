package forecast

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/example/capacity-planner/internal/profile"
)

const dateLayout = "2006-01-02"

// criticalUtilization marks a day as critical when exceeded.
const criticalUtilization = 1.2

var seasonalFactors = map[time.Month]float64{
	time.December: 1.10,
	time.January:  1.05,
	time.July:     0.95,
	time.August:   0.90,
}

// SeasonalFactor is the multiplier applied to scheduled hours in month.
func SeasonalFactor(month time.Month) float64 {
	if factor, ok := seasonalFactors[month]; ok {
		return factor
	}
	return 1.0
}

// Project turns a snapshot into a prediction. It performs no I/O and leaves
// CalculatedAt unset so two projections of one snapshot are identical.
func Project(s Snapshot, validity time.Duration) FuturePrediction {
	if validity <= 0 {
		validity = DefaultValidity
	}
	weeks := projectWeeks(s)
	alerts := classifyRisks(weeks)

	return FuturePrediction{
		UserID:                   s.UserID,
		PredictionDate:           s.PredictionDate,
		WeeklyCapacityPrediction: weeks,
		MonthlyTrends:            monthlyTrends(weeks, *s.Parameters.Weights),
		RiskAlerts:               alerts,
		Recommendations:          buildRecommendations(s.UserID, s.PredictionDate, weeks, alerts),
		PredictionAccuracy:       accuracy(s.HistoryCount, s.Parameters.AnalysisDepth),
		ValidUntil:               s.PredictionDate.Add(validity),
	}
}

// availableHours is the per-day capacity in hours and the number of personal
// commitments that reduce it.
func availableHours(p profile.ResourceProfile, includePersonal bool) (float64, int) {
	hours := p.TimeConstraints.MaxWorkingHours
	if !includePersonal {
		return hours, 0
	}
	minutes, count := p.PersonalConstraintMinutes()
	hours -= minutes.Hours()
	if hours < 1 {
		hours = 1
	}
	return hours, count
}

func energyBase(capacity profile.Level) float64 {
	switch capacity {
	case profile.LevelLow:
		return 0.6
	case profile.LevelHigh:
		return 0.9
	default:
		return 0.75
	}
}

func projectWeeks(s Snapshot) []CapacityPrediction {
	available, personalCount := availableHours(s.Profile, s.Parameters.IncludePersonalEvents)
	weeks := make([]CapacityPrediction, 0, s.Parameters.ForecastPeriod)

	for w := 0; w < s.Parameters.ForecastPeriod; w++ {
		weekStart := s.PredictionDate.AddDate(0, 0, 7*w)
		weekEnd := weekStart.AddDate(0, 0, 6)
		week := CapacityPrediction{
			WeekNumber:     w + 1,
			WeekStartDate:  weekStart.Format(dateLayout),
			WeekEndDate:    weekEnd.Format(dateLayout),
			DailyBreakdown: make([]DailyCapacityBreakdown, 0, 7),
			RiskDays:       []string{},
			CriticalDays:   []string{},
		}

		var weekTasks []PlannedTask
		for d := 0; d < 7; d++ {
			index := 7*w + d
			day := weekStart.AddDate(0, 0, d)
			var load DailyLoad
			if index < len(s.Loads) {
				load = s.Loads[index]
			}
			weekTasks = append(weekTasks, load.Tasks...)

			scheduled := load.ScheduledHours()
			if s.Parameters.IncludeSeasonalFactors {
				scheduled *= SeasonalFactor(day.Month())
			}
			// Thresholds apply to the exact rate; only reported figures are rounded.
			utilization := scheduled / available
			status := ClassifyUtilization(utilization)

			energy := energyBase(s.Profile.WorkingPattern.FocusCapacity) - 0.5*math.Max(0, utilization-0.8)
			breakdown := DailyCapacityBreakdown{
				Date:              day.Format(dateLayout),
				DayOfWeek:         day.Weekday().String(),
				AvailableHours:    round4(available),
				ScheduledHours:    round4(scheduled),
				UtilizationRate:   round4(utilization),
				CapacityStatus:    status,
				ConflictingEvents: load.Commitments + personalCount,
				EnergyLevel:       round4(clamp01(energy)),
				TaskIDs:           taskIDs(load.Tasks),
			}
			week.DailyBreakdown = append(week.DailyBreakdown, breakdown)

			if status == StatusOverloaded {
				week.RiskDays = append(week.RiskDays, breakdown.Date)
			}
			if utilization > criticalUtilization {
				week.CriticalDays = append(week.CriticalDays, breakdown.Date)
			}
		}

		applyWeights(&week, s.Profile, weekTasks)
		week.AdjustmentSuggestions = suggestAdjustments(week, weekEnd, weekTasks, s.Parameters.RiskTolerance)
		week.RecommendedActions = weeklyActions(week)
		weeks = append(weeks, week)
	}
	return weeks
}

// applyWeights fills the week-level capacity figures. They are carried from
// the profile unless the workload names concrete tasks, in which case the
// scheduled weight is derived from those tasks.
func applyWeights(week *CapacityPrediction, p profile.ResourceProfile, tasks []PlannedTask) {
	capacity := p.DailyCapacity
	week.AvailableCapacity = round4(p.CommitmentRatio)
	week.ReservedCapacity = round4(1 - p.CommitmentRatio)

	limit := float64(capacity.TotalWeightLimit)
	if limit <= 0 {
		limit = 1
	}

	if len(tasks) > 0 {
		workdays := 5.0
		if p.Preferences.WeekendWork {
			workdays = 7
		}
		var weight int
		for _, task := range tasks {
			weight += profile.Classify(taskHours(task)).Weight()
		}
		week.ScheduledWeight = round4(math.Min(1, float64(weight)/(limit*workdays)))
	} else {
		slotWeight := float64(capacity.LightTaskSlots*profile.TaskClassLight.Weight() + capacity.HeavyTaskSlots*profile.TaskClassHeavy.Weight())
		week.ScheduledWeight = round4(p.CommitmentRatio * math.Min(1, slotWeight/limit))
	}
	week.FlexibleWeight = round4(math.Max(0, week.AvailableCapacity-week.ScheduledWeight))
}

func suggestAdjustments(week CapacityPrediction, weekEnd time.Time, tasks []PlannedTask, tolerance RiskTolerance) AdjustmentSuggestions {
	out := AdjustmentSuggestions{
		TasksToMoveEarlier: []string{},
		TasksToDefer:       []string{},
		OptimalWorkDays:    []string{},
	}

	byID := make(map[string]PlannedTask, len(tasks))
	for _, task := range tasks {
		byID[task.ID] = task
	}
	seenEarlier := map[string]bool{}
	seenDefer := map[string]bool{}
	critical := make(map[string]bool, len(week.CriticalDays))
	for _, date := range week.CriticalDays {
		critical[date] = true
	}
	endOfWeek := weekEnd.AddDate(0, 0, 1)

	underutilizedSeen := false
	for _, day := range week.DailyBreakdown {
		switch day.CapacityStatus {
		case StatusUnderutilized:
			underutilizedSeen = true
		case StatusOptimal:
			out.OptimalWorkDays = append(out.OptimalWorkDays, day.Date)
		case StatusOverloaded:
			if underutilizedSeen {
				for _, id := range day.TaskIDs {
					if !seenEarlier[id] {
						seenEarlier[id] = true
						out.TasksToMoveEarlier = append(out.TasksToMoveEarlier, id)
					}
				}
			}
		}

		deferrable := false
		switch tolerance {
		case ToleranceLow:
			deferrable = day.CapacityStatus == StatusOverloaded
		case ToleranceHigh:
		default:
			deferrable = critical[day.Date]
		}
		if !deferrable {
			continue
		}
		for _, id := range day.TaskIDs {
			task := byID[id]
			if task.DueDate != nil && task.DueDate.Before(endOfWeek) {
				continue
			}
			if !seenDefer[id] {
				seenDefer[id] = true
				out.TasksToDefer = append(out.TasksToDefer, id)
			}
		}
	}
	return out
}

func weeklyActions(week CapacityPrediction) []string {
	actions := []string{}
	if n := len(week.RiskDays); n > 0 {
		actions = append(actions, fmt.Sprintf("Rebalance %d overloaded day(s): %s", n, strings.Join(week.RiskDays, ", ")))
	}
	if n := len(week.CriticalDays); n > 0 {
		actions = append(actions, fmt.Sprintf("Protect recovery time around critical day(s): %s", strings.Join(week.CriticalDays, ", ")))
	}
	if n := len(week.AdjustmentSuggestions.TasksToMoveEarlier); n > 0 {
		actions = append(actions, fmt.Sprintf("Start %d task(s) earlier in the week", n))
	}
	if n := len(week.AdjustmentSuggestions.TasksToDefer); n > 0 {
		actions = append(actions, fmt.Sprintf("Defer %d task(s) without a deadline this week", n))
	}
	if len(week.RiskDays) == 0 && week.FlexibleWeight > 0.3 {
		actions = append(actions, "Use spare capacity to pull work forward")
	}
	return actions
}

func taskIDs(tasks []PlannedTask) []string {
	if len(tasks) == 0 {
		return nil
	}
	ids := make([]string, 0, len(tasks))
	for _, task := range tasks {
		ids = append(ids, task.ID)
	}
	return ids
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
