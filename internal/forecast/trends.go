package forecast

import "math"

// trendThreshold is the utilization change between the halves of a month
// that counts as movement.
const trendThreshold = 0.05

type monthBucket struct {
	month       string
	utilization []float64
	energy      []float64
	overloaded  int
}

// monthlyTrends groups projected days by calendar month, in horizon order.
func monthlyTrends(weeks []CapacityPrediction, weights Weights) []MonthlyTrend {
	var buckets []*monthBucket
	index := map[string]*monthBucket{}
	for _, week := range weeks {
		for _, day := range week.DailyBreakdown {
			month := day.Date[:7]
			bucket, ok := index[month]
			if !ok {
				bucket = &monthBucket{month: month}
				index[month] = bucket
				buckets = append(buckets, bucket)
			}
			bucket.utilization = append(bucket.utilization, day.UtilizationRate)
			bucket.energy = append(bucket.energy, day.EnergyLevel)
			if day.CapacityStatus == StatusOverloaded {
				bucket.overloaded++
			}
		}
	}

	weights = normalizeWeights(weights)
	trends := make([]MonthlyTrend, 0, len(buckets))
	for _, bucket := range buckets {
		avg := mean(bucket.utilization)
		peak := 0.0
		for _, u := range bucket.utilization {
			peak = math.Max(peak, u)
		}
		overloadShare := float64(bucket.overloaded) / float64(len(bucket.utilization))
		strain := weights.Workload*math.Min(avg, 1.5)/1.5 +
			weights.Deadline*overloadShare +
			weights.Energy*(1-mean(bucket.energy))

		trends = append(trends, MonthlyTrend{
			Month:              bucket.month,
			AverageUtilization: round4(avg),
			PeakUtilization:    round4(peak),
			OverloadedDays:     bucket.overloaded,
			StrainIndex:        round4(clamp01(strain)),
			Direction:          direction(bucket.utilization),
		})
	}
	return trends
}

func normalizeWeights(w Weights) Weights {
	total := w.Workload + w.Deadline + w.Energy
	if total <= 0 {
		return DefaultWeights
	}
	return Weights{Workload: w.Workload / total, Deadline: w.Deadline / total, Energy: w.Energy / total}
}

// direction compares the first and second half of a month's days.
func direction(values []float64) TrendDirection {
	if len(values) < 2 {
		return TrendStable
	}
	half := len(values) / 2
	delta := mean(values[len(values)-half:]) - mean(values[:half])
	switch {
	case delta > trendThreshold:
		return TrendIncreasing
	case delta < -trendThreshold:
		return TrendDecreasing
	default:
		return TrendStable
	}
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
