package persistence

import "errors"

// Storage sentinels. Backends wrap driver errors with these so callers can
// branch with errors.Is without importing a driver.
var (
	ErrNotFound            = errors.New("persistence: not found")
	ErrConstraintViolation = errors.New("persistence: constraint violation")
	// ErrBusy marks a transient lock conflict; the operation may be retried.
	ErrBusy = errors.New("persistence: storage busy")
)
