package scheduler

import (
	"testing"
	"time"
)

func TestUrgencyScore(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 5, 13, 8, 0, 0, 0, time.UTC)
	due := func(d time.Duration) *time.Time {
		v := now.Add(d)
		return &v
	}

	tests := []struct {
		name string
		due  *time.Time
		want int
	}{
		{"no due date", nil, 0},
		{"due yesterday", due(-24 * time.Hour), 5},
		{"due now", due(0), 5},
		{"due in twelve hours", due(12 * time.Hour), 4},
		{"due in three days", due(72 * time.Hour), 3},
		{"due in five days", due(5 * 24 * time.Hour), 2},
		{"due in seven days", due(7 * 24 * time.Hour), 2},
		{"due in ten days", due(10 * 24 * time.Hour), 1},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := UrgencyScore(tt.due, now); got != tt.want {
				t.Fatalf("UrgencyScore = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestPriorityScore(t *testing.T) {
	t.Parallel()

	if PriorityScore(PriorityHigh) != 3 || PriorityScore(PriorityMedium) != 2 || PriorityScore(PriorityLow) != 1 {
		t.Fatalf("unexpected priority scores")
	}
	if PriorityScore("URGENT") != 1 {
		t.Fatalf("expected unknown priority to degrade to the minimum score")
	}
}

func TestRankTasks_StableOrdering(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 5, 13, 8, 0, 0, 0, time.UTC)
	tomorrow := now.Add(20 * time.Hour)
	tasks := []Task{
		{ID: "a", Priority: PriorityLow},
		{ID: "b", Priority: PriorityMedium},
		{ID: "c", Priority: PriorityLow, DueDate: &tomorrow},
		{ID: "d", Priority: PriorityMedium},
		{ID: "e"},
	}

	ranked := RankTasks(tasks, now)
	got := make([]string, len(ranked))
	for i, scored := range ranked {
		got[i] = scored.Task.ID
	}
	want := []string{"c", "b", "d", "a", "e"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("RankTasks order = %v, want %v", got, want)
		}
	}
	if tasks[0].ID != "a" {
		t.Fatalf("RankTasks must not reorder the caller's slice")
	}
}
