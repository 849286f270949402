package scheduler

import (
	"math"

	"github.com/example/capacity-planner/internal/timeofday"
)

const (
	baseProductivity   = 70.0
	sampleStepMinutes  = 30
	postLunchDipFactor = 0.8
)

var (
	postLunchDipStart = timeofday.MustParse("13:00")
	postLunchDipEnd   = timeofday.MustParse("14:30")
)

// Sample is one point of the productivity curve.
type Sample struct {
	Time         timeofday.Minutes
	Productivity int
}

// ProductivityCurve samples expected productivity every 30 minutes across
// [workStart, workEnd).
func ProductivityCurve(personality Personality, workStart, workEnd timeofday.Minutes) []Sample {
	if workEnd <= workStart {
		return nil
	}
	samples := make([]Sample, 0, int(workEnd-workStart)/sampleStepMinutes+1)
	for t := workStart; t < workEnd; t += sampleStepMinutes {
		samples = append(samples, Sample{Time: t, Productivity: ProductivityAt(personality, workStart, workEnd, t)})
	}
	return samples
}

// ProductivityAt evaluates the curve at an arbitrary minute of the workday.
// The result is always within [0,100].
func ProductivityAt(personality Personality, workStart, workEnd, at timeofday.Minutes) int {
	offset := at - workStart
	total := workEnd - workStart
	value := baseProductivity

	switch personality {
	case PersonalityMorning:
		if offset < 180 {
			value = 90
		} else if offset >= total-120 {
			value = 60
		}
	case PersonalityAfternoon:
		if offset < 120 {
			value = 60
		} else if offset >= 240 {
			value = 90
		}
	default:
		if offset >= 60 && offset <= 240 {
			value = 85
		} else if offset >= 360 && offset <= 480 {
			value = 80
		}
	}

	if at >= postLunchDipStart && at <= postLunchDipEnd {
		value *= postLunchDipFactor
	}
	return clampProductivity(value)
}

func clampProductivity(value float64) int {
	switch {
	case math.IsNaN(value) || value < 0:
		return 0
	case value > 100:
		return 100
	default:
		return int(math.Round(value))
	}
}
