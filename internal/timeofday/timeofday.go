// Package timeofday implements same-day clock arithmetic on minute offsets.
//
// Every schedule computation in the planner works on minutes since midnight
// so that interval math stays integer-exact. Values are rendered as "HH:MM"
// at the boundary, and lexicographic comparison of rendered values matches
// numeric ordering for the same day.
package timeofday

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// MinutesPerDay is the number of minutes in a calendar day.
const MinutesPerDay Minutes = 24 * 60

// ErrInvalidTime indicates a value is not a valid "HH:MM" clock time.
var ErrInvalidTime = errors.New("timeofday: invalid HH:MM value")

// ErrInvalidInterval indicates a value is not a valid "HH:MM-HH:MM" range.
var ErrInvalidInterval = errors.New("timeofday: invalid HH:MM-HH:MM interval")

// Minutes is an offset from midnight in whole minutes.
type Minutes int

// Parse converts an "HH:MM" string into a minute offset. Hours must be in
// [0,23] and minutes in [0,59]; single digit hours are accepted.
func Parse(value string) (Minutes, error) {
	value = strings.TrimSpace(value)
	hourPart, minutePart, ok := strings.Cut(value, ":")
	if !ok || len(minutePart) != 2 || hourPart == "" || len(hourPart) > 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, value)
	}
	hour, err := strconv.Atoi(hourPart)
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, value)
	}
	minute, err := strconv.Atoi(minutePart)
	if err != nil || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, value)
	}
	return Minutes(hour*60 + minute), nil
}

// MustParse is like Parse but panics on malformed input. Intended for
// constants and tests.
func MustParse(value string) Minutes {
	m, err := Parse(value)
	if err != nil {
		panic(err)
	}
	return m
}

// Of returns the minute offset of t within its own day and location.
func Of(t time.Time) Minutes {
	return Minutes(t.Hour()*60 + t.Minute())
}

// String renders the offset as zero padded "HH:MM".
func (m Minutes) String() string {
	if m < 0 {
		m = 0
	}
	return fmt.Sprintf("%02d:%02d", int(m)/60, int(m)%60)
}

// Hours converts the offset into fractional hours.
func (m Minutes) Hours() float64 {
	return float64(m) / 60
}

// FromHours converts fractional hours into whole minutes, rounding to the
// nearest minute. Results saturate at MinutesPerDay; NaN and non-positive
// values give 0.
func FromHours(hours float64) Minutes {
	if !(hours > 0) {
		return 0
	}
	if hours*60 >= float64(MinutesPerDay) {
		return MinutesPerDay
	}
	return Minutes(hours*60 + 0.5)
}

// Interval is a half-open [Start, End) range of minutes within one day.
type Interval struct {
	Start Minutes
	End   Minutes
}

// ParseInterval converts "HH:MM-HH:MM" into an Interval. The start must be
// strictly before the end.
func ParseInterval(value string) (Interval, error) {
	startPart, endPart, ok := strings.Cut(strings.TrimSpace(value), "-")
	if !ok {
		return Interval{}, fmt.Errorf("%w: %q", ErrInvalidInterval, value)
	}
	start, err := Parse(startPart)
	if err != nil {
		return Interval{}, fmt.Errorf("%w: %q", ErrInvalidInterval, value)
	}
	end, err := Parse(endPart)
	if err != nil {
		return Interval{}, fmt.Errorf("%w: %q", ErrInvalidInterval, value)
	}
	if end <= start {
		return Interval{}, fmt.Errorf("%w: %q must start before it ends", ErrInvalidInterval, value)
	}
	return Interval{Start: start, End: end}, nil
}

// String renders the interval as "HH:MM-HH:MM".
func (i Interval) String() string {
	return i.Start.String() + "-" + i.End.String()
}

// Duration returns the interval length; empty or inverted intervals yield 0.
func (i Interval) Duration() Minutes {
	if i.End <= i.Start {
		return 0
	}
	return i.End - i.Start
}

// Overlaps reports whether two half-open intervals share at least one minute.
func (i Interval) Overlaps(other Interval) bool {
	return i.Start < other.End && other.Start < i.End
}

// Contains reports whether m falls inside the half-open interval.
func (i Interval) Contains(m Minutes) bool {
	return m >= i.Start && m < i.End
}

// Merge sorts intervals by start and coalesces overlapping or adjacent ones.
// The input slice is not modified.
func Merge(intervals []Interval) []Interval {
	if len(intervals) == 0 {
		return nil
	}
	sorted := make([]Interval, 0, len(intervals))
	for _, interval := range intervals {
		if interval.Duration() > 0 {
			sorted = append(sorted, interval)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start < sorted[j].Start
	})

	merged := make([]Interval, 0, len(sorted))
	for _, interval := range sorted {
		if n := len(merged); n > 0 && interval.Start <= merged[n-1].End {
			if interval.End > merged[n-1].End {
				merged[n-1].End = interval.End
			}
			continue
		}
		merged = append(merged, interval)
	}
	return merged
}

// Gaps walks the busy set across window and returns every free interval of
// at least minLength minutes, including the trailing interval up to the
// window end. Busy intervals outside the window are ignored.
func Gaps(busy []Interval, window Interval, minLength Minutes) []Interval {
	if window.Duration() == 0 {
		return nil
	}
	cursor := window.Start
	free := make([]Interval, 0, len(busy)+1)
	emit := func(start, end Minutes) {
		if end > window.End {
			end = window.End
		}
		if end-start >= minLength && end > start {
			free = append(free, Interval{Start: start, End: end})
		}
	}

	for _, interval := range Merge(busy) {
		if interval.End <= cursor {
			continue
		}
		if interval.Start >= window.End {
			break
		}
		if interval.Start > cursor {
			emit(cursor, interval.Start)
		}
		if interval.End > cursor {
			cursor = interval.End
		}
	}
	if cursor < window.End {
		emit(cursor, window.End)
	}
	return free
}

// Total sums the durations of the merged intervals so overlapping ranges are
// not double counted.
func Total(intervals []Interval) Minutes {
	var total Minutes
	for _, interval := range Merge(intervals) {
		total += interval.Duration()
	}
	return total
}
