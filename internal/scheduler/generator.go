// Package scheduler turns a day's pending tasks and fixed commitments into an
// ordered timetable.
//
// Generation is a pure transform: tasks are ranked by priority and urgency,
// placed into the free slots left around meetings and lunch, padded with
// breaks after long work, and topped up with protected focus blocks at the
// high points of the user's productivity curve.
package scheduler

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/example/capacity-planner/internal/timeofday"
	"github.com/example/capacity-planner/internal/validation"
)

// DateLayout is the calendar date format used in requests and results.
const DateLayout = "2006-01-02"

var blockNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("capacity-planner/schedule-block"))

// Generator produces daily schedules. It holds no mutable state and is safe
// for concurrent use.
type Generator struct {
	location *time.Location
	now      func() time.Time
}

// NewGenerator constructs a Generator that interprets event times and the
// default date in loc. A nil loc means UTC and a nil now means time.Now.
func NewGenerator(loc *time.Location, now func() time.Time) *Generator {
	if loc == nil {
		loc = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return &Generator{location: loc, now: now}
}

type dayWindow struct {
	date        time.Time
	workStart   timeofday.Minutes
	workEnd     timeofday.Minutes
	lunch       timeofday.Minutes
	personality Personality
}

// Generate builds the timetable for req.Date. Malformed preferences, dates
// or events yield a *validation.ValidationError before any placement runs.
func (g *Generator) Generate(req GenerateRequest) (Result, error) {
	if g == nil {
		return Result{}, fmt.Errorf("Generator is nil")
	}

	now := g.now().In(g.location)
	window, vErr := g.resolveWindow(req, now)
	meetings, meetingIntervals := g.collectMeetings(req.Events, window, vErr)
	if err := vErr.OrNil(); err != nil {
		return Result{}, err
	}

	dateKey := window.date.Format(DateLayout)
	schedule := make([]Block, 0, len(meetings)+len(req.Tasks)+maxFocusBlocks)
	schedule = append(schedule, meetings...)

	pending := make([]Task, 0, len(req.Tasks))
	for _, task := range req.Tasks {
		if task.Status == TaskStatusDone {
			continue
		}
		pending = append(pending, task)
	}

	busy := make([]timeofday.Interval, 0, len(meetingIntervals)+len(req.Preferences.Unavailable))
	busy = append(busy, meetingIntervals...)
	busy = append(busy, req.Preferences.Unavailable...)

	slots := FreeSlots(busy, window.lunch, window.workStart, window.workEnd)
	alloc := allocate(RankTasks(pending, now), slots, req.Preferences.DailyCapacity)

	occupied := make([]timeofday.Interval, 0, len(busy)+2*len(alloc.placed)+1)
	occupied = append(occupied, busy...)
	occupied = append(occupied, timeofday.Interval{Start: window.lunch, End: window.lunch + lunchMinutes})

	for _, p := range alloc.placed {
		schedule = append(schedule, Block{
			ID:                    blockID(dateKey, BlockTypeTask, p.interval.Start, p.task.ID),
			StartTime:             p.interval.Start.String(),
			EndTime:               p.interval.End.String(),
			Title:                 p.task.Title,
			Type:                  BlockTypeTask,
			Priority:              blockPriority(p.task.Priority),
			EstimatedProductivity: ProductivityAt(window.personality, window.workStart, window.workEnd, p.interval.Start),
			TaskID:                p.task.ID,
		})
		occupied = append(occupied, p.interval)
		if p.brk != nil {
			schedule = append(schedule, Block{
				ID:                    blockID(dateKey, BlockTypeBreak, p.brk.Start, p.task.ID),
				StartTime:             p.brk.Start.String(),
				EndTime:               p.brk.End.String(),
				Title:                 "Break",
				Type:                  BlockTypeBreak,
				Priority:              BlockPriorityLow,
				EstimatedProductivity: ProductivityAt(window.personality, window.workStart, window.workEnd, p.brk.Start),
			})
			occupied = append(occupied, *p.brk)
		}
	}

	if req.Preferences.FocusBlocks {
		curve := ProductivityCurve(window.personality, window.workStart, window.workEnd)
		for _, sample := range focusWindows(curve, window.workEnd, occupied) {
			schedule = append(schedule, Block{
				ID:                    blockID(dateKey, BlockTypeFocus, sample.Time, ""),
				StartTime:             sample.Time.String(),
				EndTime:               (sample.Time + focusMinutes).String(),
				Title:                 "Focus time",
				Type:                  BlockTypeFocus,
				Priority:              BlockPriorityHigh,
				EstimatedProductivity: sample.Productivity,
			})
		}
	}

	sortBlocks(schedule)

	unscheduledTasks := alloc.unscheduled
	if unscheduledTasks == nil {
		unscheduledTasks = []UnscheduledTask{}
	}
	return Result{
		Date:     dateKey,
		Schedule: schedule,
		Metadata: Metadata{
			TotalTasks:            len(req.Tasks),
			ScheduledTasks:        len(alloc.placed),
			EstimatedProductivity: averageProductivity(schedule),
		},
		Unscheduled: unscheduledTasks,
		Overlaps:    DetectOverlaps(meetings),
	}, nil
}

func (g *Generator) resolveWindow(req GenerateRequest, now time.Time) (dayWindow, *validation.ValidationError) {
	vErr := validation.New()
	prefs := req.Preferences
	window := dayWindow{personality: prefs.PersonalityType}

	parseClock := func(field, value string) timeofday.Minutes {
		m, err := timeofday.Parse(value)
		if err != nil {
			vErr.Add(field, "must be HH:MM")
		}
		return m
	}
	window.workStart = parseClock("preferences.workStartTime", prefs.WorkStartTime)
	window.workEnd = parseClock("preferences.workEndTime", prefs.WorkEndTime)
	window.lunch = parseClock("preferences.lunchTime", prefs.LunchTime)
	if !vErr.HasErrors() && window.workEnd <= window.workStart {
		vErr.Add("preferences.workEndTime", "must be after workStartTime")
	}

	switch window.personality {
	case "":
		window.personality = PersonalityBalanced
	case PersonalityMorning, PersonalityAfternoon, PersonalityBalanced:
	default:
		vErr.Add("preferences.personalityType", "must be one of morning, afternoon, balanced")
	}
	if prefs.BreakInterval < 0 {
		vErr.Add("preferences.breakInterval", "must not be negative")
	}
	for i, interval := range prefs.Unavailable {
		if interval.Start < 0 || interval.End <= interval.Start || interval.End > timeofday.MinutesPerDay {
			vErr.Add(fmt.Sprintf("preferences.unavailableHours[%d]", i), "must be HH:MM-HH:MM with start before end")
		}
	}
	if prefs.DailyCapacity != nil && (prefs.DailyCapacity.LightTaskSlots < 0 || prefs.DailyCapacity.HeavyTaskSlots < 0 || prefs.DailyCapacity.TotalWeightLimit < 0) {
		vErr.Add("preferences.dailyCapacity", "must not be negative")
	}

	if req.Date == "" {
		window.date = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, g.location)
	} else {
		date, err := time.ParseInLocation(DateLayout, req.Date, g.location)
		if err != nil {
			vErr.Add("date", "must be YYYY-MM-DD")
		}
		window.date = date
	}
	return window, vErr
}

// collectMeetings converts the events that start on the requested date into
// meeting blocks and busy intervals. Events on other dates are ignored.
func (g *Generator) collectMeetings(events []Event, window dayWindow, vErr *validation.ValidationError) ([]Block, []timeofday.Interval) {
	dateKey := window.date.Format(DateLayout)
	blocks := make([]Block, 0, len(events))
	intervals := make([]timeofday.Interval, 0, len(events))

	for i, event := range events {
		if event.Start.IsZero() {
			vErr.Add(fmt.Sprintf("events[%d].startTime", i), "is required")
			continue
		}
		start := event.Start.In(g.location)
		if start.Format(DateLayout) != dateKey {
			continue
		}
		startMinute := timeofday.Of(start)
		endMinute := startMinute + defaultMeetingMinutes
		if event.End != nil {
			end := event.End.In(g.location)
			if !end.After(start) {
				vErr.Add(fmt.Sprintf("events[%d].endTime", i), "must be after startTime")
				continue
			}
			if end.Format(DateLayout) != dateKey {
				endMinute = timeofday.MinutesPerDay
			} else {
				endMinute = timeofday.Of(end)
			}
		}
		if endMinute > timeofday.MinutesPerDay {
			endMinute = timeofday.MinutesPerDay
		}

		interval := timeofday.Interval{Start: startMinute, End: endMinute}
		intervals = append(intervals, interval)
		blocks = append(blocks, Block{
			ID:                    blockID(dateKey, BlockTypeMeeting, startMinute, fmt.Sprintf("%s/%d", event.ID, i)),
			StartTime:             interval.Start.String(),
			EndTime:               interval.End.String(),
			Title:                 event.Title,
			Type:                  BlockTypeMeeting,
			Priority:              BlockPriorityHigh,
			EstimatedProductivity: meetingProductivity,
			EventID:               event.ID,
		})
	}
	return blocks, intervals
}

func blockID(date string, kind BlockType, start timeofday.Minutes, source string) string {
	key := date + "|" + string(kind) + "|" + start.String() + "|" + source
	return uuid.NewSHA1(blockNamespace, []byte(key)).String()
}

func blockPriority(priority Priority) BlockPriority {
	switch priority {
	case PriorityHigh:
		return BlockPriorityHigh
	case PriorityMedium:
		return BlockPriorityMedium
	default:
		return BlockPriorityLow
	}
}

func sortBlocks(blocks []Block) {
	sort.SliceStable(blocks, func(i, j int) bool {
		if blocks[i].StartTime != blocks[j].StartTime {
			return blocks[i].StartTime < blocks[j].StartTime
		}
		return blocks[i].EndTime < blocks[j].EndTime
	})
}

// averageProductivity is the rounded mean block productivity, 0 for an
// empty schedule.
func averageProductivity(blocks []Block) int {
	if len(blocks) == 0 {
		return 0
	}
	var sum int
	for _, block := range blocks {
		sum += block.EstimatedProductivity
	}
	return int(math.Round(float64(sum) / float64(len(blocks))))
}
