package application

import (
	"errors"

	"github.com/example/capacity-planner/internal/validation"
)

var (
	// ErrNotFound is returned when the requested resource does not exist.
	ErrNotFound = errors.New("application: not found")
	// ErrNotConfigured is returned when a service is missing a collaborator it needs.
	ErrNotConfigured = errors.New("application: not configured")
)

// ValidationError captures field level validation issues that callers can surface to users.
type ValidationError = validation.ValidationError
