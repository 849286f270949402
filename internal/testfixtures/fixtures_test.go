package testfixtures

import (
	"testing"

	"github.com/example/capacity-planner/internal/scheduler"
)

func TestNewProfileIsValid(t *testing.T) {
	p := NewProfile("user-1", WithMaxWorkingHours(10), WithDailyCapacity(3, 1, 6))
	if err := p.Validate(); err != nil {
		t.Fatalf("expected fixture profile to validate, got %v", err)
	}
	if p.TimeConstraints.MaxWorkingHours != 10 || p.DailyCapacity.TotalWeightLimit != 6 {
		t.Fatalf("options were not applied: %#v", p)
	}

	record := ProfileRecord(p)
	if record.UserID != "user-1" || record.UserType != "employee" || len(record.Document) == 0 {
		t.Fatalf("unexpected record: %#v", record)
	}
}

func TestNewTaskAndMeeting(t *testing.T) {
	task := NewTask("t1", WithPriority(scheduler.PriorityHigh), WithEstimate(2.5))
	if task.Hours() != 2.5 || task.Priority != scheduler.PriorityHigh || task.Status != scheduler.TaskStatusTodo {
		t.Fatalf("unexpected task: %#v", task)
	}

	meeting := NewMeeting("m1", "10:00", "")
	if meeting.End != nil {
		t.Fatalf("expected open-ended meeting")
	}
	if meeting.Start.Format("2006-01-02 15:04") != ReferenceDate()+" 10:00" {
		t.Fatalf("unexpected meeting start %v", meeting.Start)
	}
}
