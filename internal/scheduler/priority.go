package scheduler

import (
	"math"
	"sort"
	"time"
)

// ScoredTask pairs a task with its ranking inputs.
type ScoredTask struct {
	Task          Task
	PriorityScore int
	UrgencyScore  int
}

// Score is the combined ranking value.
func (s ScoredTask) Score() int {
	return s.PriorityScore + s.UrgencyScore
}

// PriorityScore maps a task priority onto 3/2/1. Unknown priorities score
// the minimum.
func PriorityScore(priority Priority) int {
	switch priority {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	default:
		return 1
	}
}

// UrgencyScore grades how soon a task is due relative to now. Tasks without
// a due date score 0; overdue tasks score 5.
func UrgencyScore(due *time.Time, now time.Time) int {
	if due == nil {
		return 0
	}
	daysUntil := math.Ceil(due.Sub(now).Hours() / 24)
	switch {
	case daysUntil <= 0:
		return 5
	case daysUntil <= 1:
		return 4
	case daysUntil <= 3:
		return 3
	case daysUntil <= 7:
		return 2
	default:
		return 1
	}
}

// RankTasks scores each task and orders them by combined score, highest
// first. Ties keep their input order. The input slice is not modified.
func RankTasks(tasks []Task, now time.Time) []ScoredTask {
	ranked := make([]ScoredTask, len(tasks))
	for i, task := range tasks {
		ranked[i] = ScoredTask{
			Task:          task,
			PriorityScore: PriorityScore(task.Priority),
			UrgencyScore:  UrgencyScore(task.DueDate, now),
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score() > ranked[j].Score()
	})
	return ranked
}
