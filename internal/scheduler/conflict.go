package scheduler

import (
	"sort"

	"github.com/example/capacity-planner/internal/timeofday"
)

// Overlap details two blocks of the same day that share at least one minute.
type Overlap struct {
	FirstBlockID  string `json:"firstBlockId"`
	SecondBlockID string `json:"secondBlockId"`
	StartTime     string `json:"startTime"`
	EndTime       string `json:"endTime"`
}

// DetectOverlaps reports every pair of blocks whose time ranges intersect.
// Blocks with unparsable times are ignored.
func DetectOverlaps(blocks []Block) []Overlap {
	type span struct {
		id       string
		interval timeofday.Interval
	}
	spans := make([]span, 0, len(blocks))
	for _, block := range blocks {
		start, err := timeofday.Parse(block.StartTime)
		if err != nil {
			continue
		}
		end, err := parseBlockEnd(block.EndTime)
		if err != nil {
			continue
		}
		spans = append(spans, span{id: block.ID, interval: timeofday.Interval{Start: start, End: end}})
	}
	sort.SliceStable(spans, func(i, j int) bool {
		return spans[i].interval.Start < spans[j].interval.Start
	})

	var overlaps []Overlap
	for i := range spans {
		for j := i + 1; j < len(spans); j++ {
			if spans[j].interval.Start >= spans[i].interval.End {
				break
			}
			if !spans[i].interval.Overlaps(spans[j].interval) {
				continue
			}
			start := spans[j].interval.Start
			end := spans[i].interval.End
			if spans[j].interval.End < end {
				end = spans[j].interval.End
			}
			overlaps = append(overlaps, Overlap{
				FirstBlockID:  spans[i].id,
				SecondBlockID: spans[j].id,
				StartTime:     start.String(),
				EndTime:       end.String(),
			})
		}
	}
	return overlaps
}

// parseBlockEnd accepts "24:00" for blocks that run to midnight.
func parseBlockEnd(value string) (timeofday.Minutes, error) {
	if value == "24:00" {
		return timeofday.MinutesPerDay, nil
	}
	return timeofday.Parse(value)
}
