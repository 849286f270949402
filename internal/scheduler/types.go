package scheduler

import (
	"time"

	"github.com/example/capacity-planner/internal/profile"
	"github.com/example/capacity-planner/internal/timeofday"
)

// Priority is the importance a task was filed with.
type Priority string

const (
	PriorityHigh   Priority = "HIGH"
	PriorityMedium Priority = "MEDIUM"
	PriorityLow    Priority = "LOW"
)

// TaskStatus is the lifecycle state of a task in the external task store.
type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "TODO"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusDone       TaskStatus = "DONE"
)

// Task is a pending unit of work consumed read-only by the generator.
type Task struct {
	ID             string
	Title          string
	Priority       Priority
	DueDate        *time.Time
	EstimatedHours *float64
	Status         TaskStatus
}

// Hours returns the task estimate, falling back to the default when the
// estimate is missing, NaN or not positive.
func (t Task) Hours() float64 {
	if t.EstimatedHours == nil || !(*t.EstimatedHours > 0) {
		return profile.DefaultTaskHours
	}
	return *t.EstimatedHours
}

// Event is a fixed, non-movable commitment such as a meeting.
type Event struct {
	ID    string
	Title string
	Start time.Time
	End   *time.Time
}

// BlockType classifies a schedule block.
type BlockType string

const (
	BlockTypeTask    BlockType = "task"
	BlockTypeMeeting BlockType = "meeting"
	BlockTypeBreak   BlockType = "break"
	BlockTypeFocus   BlockType = "focus"
)

// BlockPriority is the lower-case priority carried by produced blocks.
type BlockPriority string

const (
	BlockPriorityHigh   BlockPriority = "high"
	BlockPriorityMedium BlockPriority = "medium"
	BlockPriorityLow    BlockPriority = "low"
)

// Block is one entry of a generated daily timetable. Times are same-day
// "HH:MM" strings.
type Block struct {
	ID                    string        `json:"id"`
	StartTime             string        `json:"startTime"`
	EndTime               string        `json:"endTime"`
	Title                 string        `json:"title"`
	Type                  BlockType     `json:"type"`
	Priority              BlockPriority `json:"priority"`
	EstimatedProductivity int           `json:"estimatedProductivity"`
	TaskID                string        `json:"taskId,omitempty"`
	EventID               string        `json:"eventId,omitempty"`
}

// Personality selects the shape of the productivity curve.
type Personality string

const (
	PersonalityMorning   Personality = "morning"
	PersonalityAfternoon Personality = "afternoon"
	PersonalityBalanced  Personality = "balanced"
)

// Preferences steer the daily generator. Times are "HH:MM".
type Preferences struct {
	WorkStartTime   string
	WorkEndTime     string
	LunchTime       string
	FocusBlocks     bool
	PersonalityType Personality

	// BreakInterval is validated and echoed but does not move breaks; the
	// break rule is fixed at breakAfterMinutes.
	BreakInterval int

	// DailyCapacity enables weighted slot accounting when set.
	DailyCapacity *profile.DailyCapacity

	// Unavailable hours are busy like meetings but produce no blocks.
	Unavailable []timeofday.Interval
}

// GenerateRequest is the input of one schedule generation. Date is
// "YYYY-MM-DD"; empty means today in the generator's location.
type GenerateRequest struct {
	Tasks       []Task
	Events      []Event
	Preferences Preferences
	Date        string
}

// UnscheduledReason explains why a task did not receive a block.
type UnscheduledReason string

const (
	ReasonDoesNotFit     UnscheduledReason = "does-not-fit"
	ReasonNoFreeSlot     UnscheduledReason = "no-free-slot"
	ReasonOverDailyLimit UnscheduledReason = "over-daily-limit"
	ReasonOverCapacity   UnscheduledReason = "over-capacity"
)

// UnscheduledTask reports a pending task the generator could not place.
type UnscheduledTask struct {
	TaskID string            `json:"taskId"`
	Title  string            `json:"title,omitempty"`
	Reason UnscheduledReason `json:"reason"`
}

// Metadata summarises a generated schedule.
type Metadata struct {
	TotalTasks            int `json:"totalTasks"`
	ScheduledTasks        int `json:"scheduledTasks"`
	EstimatedProductivity int `json:"estimatedProductivity"`
}

// Result is the output of one schedule generation.
type Result struct {
	Date        string            `json:"date"`
	Schedule    []Block           `json:"schedule"`
	Metadata    Metadata          `json:"metadata"`
	Unscheduled []UnscheduledTask `json:"unscheduled"`
	// Overlaps lists fixed commitments that collide with each other.
	Overlaps []Overlap `json:"overlaps,omitempty"`
}
