package application

import (
	"context"
	"fmt"
	"testing"

	"github.com/example/capacity-planner/internal/persistence"
	"github.com/example/capacity-planner/internal/validation"
)

func TestErrorKind(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "not found", err: fmt.Errorf("load profile: %w", ErrNotFound), want: "not_found"},
		{name: "not configured", err: ErrNotConfigured, want: "not_configured"},
		{name: "canceled", err: context.Canceled, want: "canceled"},
		{name: "deadline", err: fmt.Errorf("wrap: %w", context.DeadlineExceeded), want: "deadline_exceeded"},
		{name: "validation", err: fmt.Errorf("wrap: %w", validation.Field("userId", "is required")), want: "validation"},
		{name: "storage not found", err: fmt.Errorf("get: %w", persistence.ErrNotFound), want: "not_found"},
		{name: "constraint", err: fmt.Errorf("save: %w", persistence.ErrConstraintViolation), want: "constraint_violation"},
		{name: "busy", err: fmt.Errorf("save: %w", persistence.ErrBusy), want: "busy"},
		{name: "other", err: fmt.Errorf("boom"), want: "unexpected"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := ErrorKind(tc.err); got != tc.want {
				t.Fatalf("ErrorKind(%v) = %q, want %q", tc.err, got, tc.want)
			}
		})
	}
}
