package forecast

import "math"

// HistoricalAccuracy grows with the number of prior predictions and is
// capped at 0.95. Without history it is a neutral 0.5.
func HistoricalAccuracy(historyCount int) float64 {
	if historyCount <= 0 {
		return 0.5
	}
	return math.Min(0.75+math.Min(float64(historyCount)/50, 0.2), 0.95)
}

func depthFactor(depth AnalysisDepth) float64 {
	switch depth {
	case DepthBasic:
		return 0.85
	case DepthComprehensive:
		return 1.0
	default:
		return 0.95
	}
}

// QualityFor grades the amount of prediction history.
func QualityFor(historyCount int) DataQuality {
	switch {
	case historyCount <= 0:
		return DataQualityInsufficient
	case historyCount < 10:
		return DataQualityLimited
	case historyCount < 30:
		return DataQualityGood
	default:
		return DataQualityExcellent
	}
}

func accuracy(historyCount int, depth AnalysisDepth) PredictionAccuracy {
	historical := HistoricalAccuracy(historyCount)
	return PredictionAccuracy{
		HistoricalAccuracy: round4(historical),
		ConfidenceLevel:    round4(clamp01(historical * depthFactor(depth))),
		DataQuality:        QualityFor(historyCount),
	}
}
