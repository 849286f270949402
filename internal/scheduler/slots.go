package scheduler

import (
	"github.com/example/capacity-planner/internal/profile"
	"github.com/example/capacity-planner/internal/timeofday"
)

// MinSlotMinutes is the shortest free interval worth offering to a task.
const MinSlotMinutes timeofday.Minutes = 30

// MaxTasksPerDay caps how many ranked tasks are considered for one day.
const MaxTasksPerDay = 8

const (
	lunchMinutes          timeofday.Minutes = 60
	breakMinutes          timeofday.Minutes = 15
	breakAfterMinutes     timeofday.Minutes = 90
	defaultMeetingMinutes timeofday.Minutes = 60
)

// FreeSlots returns the gaps between busy intervals (meetings and
// unavailable hours) inside the work window, discarding gaps shorter than
// MinSlotMinutes. Lunch counts as busy.
func FreeSlots(blocked []timeofday.Interval, lunch, workStart, workEnd timeofday.Minutes) []timeofday.Interval {
	busy := make([]timeofday.Interval, 0, len(blocked)+1)
	busy = append(busy, blocked...)
	busy = append(busy, timeofday.Interval{Start: lunch, End: lunch + lunchMinutes})
	return timeofday.Gaps(busy, timeofday.Interval{Start: workStart, End: workEnd}, MinSlotMinutes)
}

// placement is a task block, and optionally its trailing break, chosen by
// the allocator.
type placement struct {
	task     Task
	interval timeofday.Interval
	brk      *timeofday.Interval
}

// allocation is the allocator's output before blocks are materialised.
type allocation struct {
	placed      []placement
	unscheduled []UnscheduledTask
}

// allocate walks the free slots with a single cursor. Each ranked task is
// tested against the current slot only; a task that fits takes the slot
// start and moves the cursor on, the rest of that slot stays unused. A task
// that does not fit leaves the cursor where it is.
func allocate(ranked []ScoredTask, slots []timeofday.Interval, capacity *profile.DailyCapacity) allocation {
	var (
		out    allocation
		cursor int
		usage  profile.Usage
	)

	for i, scored := range ranked {
		task := scored.Task
		if i >= MaxTasksPerDay {
			out.unscheduled = append(out.unscheduled, unscheduled(task, ReasonOverDailyLimit))
			continue
		}

		hours := task.Hours()
		class := profile.Classify(hours)
		if capacity != nil && !usage.Fits(class, *capacity) {
			out.unscheduled = append(out.unscheduled, unscheduled(task, ReasonOverCapacity))
			continue
		}
		if cursor >= len(slots) {
			out.unscheduled = append(out.unscheduled, unscheduled(task, ReasonNoFreeSlot))
			continue
		}

		slot := slots[cursor]
		if hours*60 > float64(slot.End-slot.Start) {
			out.unscheduled = append(out.unscheduled, unscheduled(task, ReasonDoesNotFit))
			continue
		}
		duration := timeofday.FromHours(hours)
		if slot.Start+duration > slot.End {
			out.unscheduled = append(out.unscheduled, unscheduled(task, ReasonDoesNotFit))
			continue
		}

		p := placement{task: task, interval: timeofday.Interval{Start: slot.Start, End: slot.Start + duration}}
		if duration > breakAfterMinutes && cursor+1 < len(slots) && p.interval.End+breakMinutes <= slot.End {
			brk := timeofday.Interval{Start: p.interval.End, End: p.interval.End + breakMinutes}
			p.brk = &brk
		}
		out.placed = append(out.placed, p)
		usage = usage.Add(class)
		cursor++
	}
	return out
}

func unscheduled(task Task, reason UnscheduledReason) UnscheduledTask {
	return UnscheduledTask{TaskID: task.ID, Title: task.Title, Reason: reason}
}
