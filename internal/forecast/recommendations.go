package forecast

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

var recommendationNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("capacity-planner/recommendation"))

// buildRecommendations applies the rules in order and then orders the
// result by priority, keeping rule order among equals.
func buildRecommendations(userID string, predictionDate time.Time, weeks []CapacityPrediction, alerts RiskAlerts) []RecommendationItem {
	items := []RecommendationItem{}
	newItem := func(kind RecommendationType, priority RecommendationPriority) RecommendationItem {
		key := userID + "|" + predictionDate.Format(dateLayout) + "|" + string(kind)
		return RecommendationItem{
			ID:         uuid.NewSHA1(recommendationNamespace, []byte(key)).String(),
			Type:       kind,
			Priority:   priority,
			Actionable: true,
		}
	}

	atRiskWeeks := 0
	firstRiskDay := ""
	for _, week := range weeks {
		if len(week.RiskDays) == 0 {
			continue
		}
		atRiskWeeks++
		if firstRiskDay == "" {
			firstRiskDay = week.RiskDays[0]
		}
	}
	if atRiskWeeks > 0 {
		item := newItem(RecommendationRiskMitigation, PriorityHigh)
		item.Title = "Reduce load in overloaded weeks"
		item.Description = fmt.Sprintf("%d of %d forecast week(s) contain overloaded days. Move or drop work before %s.", atRiskWeeks, len(weeks), firstRiskDay)
		item.EstimatedBenefit = "high"
		item.EstimatedEffort = "medium"
		item.DueBy = firstRiskDay
		items = append(items, item)
	}

	var moveEarlier []string
	seen := map[string]bool{}
	for _, week := range weeks {
		for _, id := range week.AdjustmentSuggestions.TasksToMoveEarlier {
			if !seen[id] {
				seen[id] = true
				moveEarlier = append(moveEarlier, id)
			}
		}
	}
	if len(moveEarlier) > 0 {
		item := newItem(RecommendationTaskScheduling, PriorityMedium)
		item.Title = "Start tasks earlier"
		item.Description = fmt.Sprintf("Move %d task(s) into lighter days earlier in their week: %s.", len(moveEarlier), strings.Join(moveEarlier, ", "))
		item.EstimatedBenefit = "medium"
		item.EstimatedEffort = "low"
		item.RelatedTaskIDs = moveEarlier
		items = append(items, item)
	}

	if alerts.BurnoutRisk == RiskHigh || alerts.BurnoutRisk == RiskCritical {
		item := newItem(RecommendationWorkloadBalance, PriorityUrgent)
		item.Title = "Rebalance workload to avoid burnout"
		item.Description = "Several days exceed capacity by more than 20%. Delegate, renegotiate deadlines or block recovery time."
		item.EstimatedBenefit = "high"
		item.EstimatedEffort = "high"
		items = append(items, item)
	}

	for _, week := range weeks {
		if week.AvailableCapacity > 0.3 && week.ScheduledWeight < week.AvailableCapacity*0.6 {
			item := newItem(RecommendationCapacityAdjustment, PriorityLow)
			item.Title = "Use spare capacity"
			item.Description = fmt.Sprintf("Week %d uses %.0f%% of the available capacity. Pull upcoming work forward.", week.WeekNumber, 100*week.ScheduledWeight/week.AvailableCapacity)
			item.EstimatedBenefit = "medium"
			item.EstimatedEffort = "low"
			items = append(items, item)
			break
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Priority.rank() < items[j].Priority.rank()
	})
	return items
}
