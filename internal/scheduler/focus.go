package scheduler

import (
	"github.com/example/capacity-planner/internal/timeofday"
)

const focusMinutes timeofday.Minutes = 90

const (
	focusThreshold      = 85
	maxFocusBlocks      = 2
	meetingProductivity = 85
)

// focusWindows picks up to two curve samples at or above the focus
// threshold and returns 90-minute windows starting there. A window must end
// by workEnd and must not intersect any interval in occupied, nor another
// chosen window.
func focusWindows(curve []Sample, workEnd timeofday.Minutes, occupied []timeofday.Interval) []Sample {
	chosen := make([]Sample, 0, maxFocusBlocks)
	taken := make([]timeofday.Interval, 0, len(occupied)+maxFocusBlocks)
	taken = append(taken, occupied...)

	for _, sample := range curve {
		if len(chosen) == maxFocusBlocks {
			break
		}
		if sample.Productivity < focusThreshold {
			continue
		}
		window := timeofday.Interval{Start: sample.Time, End: sample.Time + focusMinutes}
		if window.End > workEnd || intersectsAny(window, taken) {
			continue
		}
		chosen = append(chosen, sample)
		taken = append(taken, window)
	}
	return chosen
}

func intersectsAny(candidate timeofday.Interval, intervals []timeofday.Interval) bool {
	for _, interval := range intervals {
		if candidate.Overlaps(interval) {
			return true
		}
	}
	return false
}
