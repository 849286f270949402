package validation

import (
	"errors"
	"fmt"
	"testing"
)

func TestValidationError_Error(t *testing.T) {
	t.Parallel()

	var err *ValidationError
	if err.Error() != "" {
		t.Fatalf("expected empty string for nil error, got %q", err.Error())
	}

	empty := &ValidationError{}
	if got := empty.Error(); got != "validation failed" {
		t.Fatalf("expected generic message for empty error, got %q", got)
	}

	withFields := &ValidationError{FieldErrors: map[string]string{"tasks": "is required", "date": "must be YYYY-MM-DD"}}
	want := "validation failed: date: must be YYYY-MM-DD; tasks: is required"
	if got := withFields.Error(); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestValidationError_HasErrors(t *testing.T) {
	t.Parallel()

	if (&ValidationError{}).HasErrors() {
		t.Fatalf("expected HasErrors to report false for empty error")
	}
	if !Field("field", "bad").HasErrors() {
		t.Fatalf("expected HasErrors to report true when fields are present")
	}
}

func TestValidationError_AddAndMerge(t *testing.T) {
	t.Parallel()

	base := &ValidationError{}
	base.Add("first", "value")
	base.Add("first", "ignored")
	if got := base.FieldErrors["first"]; got != "value" {
		t.Fatalf("expected first message to win, got %q", got)
	}

	base.Merge(&ValidationError{FieldErrors: map[string]string{"second": "another"}})
	if got := base.FieldErrors["second"]; got != "another" {
		t.Fatalf("expected merge to copy field, got %q", got)
	}

	base.MergePrefixed("dailyCapacity", Field("lightTaskSlots", "out of range"))
	if got := base.FieldErrors["dailyCapacity.lightTaskSlots"]; got != "out of range" {
		t.Fatalf("expected prefixed field, got %q", got)
	}

	base.Merge(nil)
	if len(base.FieldErrors) != 3 {
		t.Fatalf("expected merge with nil to leave fields unchanged")
	}
}

func TestValidationError_OrNil(t *testing.T) {
	t.Parallel()

	if err := New().OrNil(); err != nil {
		t.Fatalf("expected nil error for empty validation, got %v", err)
	}

	wrapped := fmt.Errorf("generate: %w", Field("tasks", "is required").OrNil())
	vErr, ok := As(wrapped)
	if !ok {
		t.Fatalf("expected As to unwrap the validation error")
	}
	if vErr.FieldErrors["tasks"] != "is required" {
		t.Fatalf("unexpected field errors %v", vErr.FieldErrors)
	}
	if _, ok := As(errors.New("plain")); ok {
		t.Fatalf("expected As to reject plain errors")
	}
}
