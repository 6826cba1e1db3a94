package domain

import "errors"

// Sentinel errors for business-rule violations. Services wrap these with
// context via fmt.Errorf("...: %w", err); the HTTP layer dispatches on them
// with errors.Is.
var (
	// ErrNotFound means a referenced entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict means a unique key is already taken (event+attendee pair,
	// attendance code, transaction reference, payment per registration).
	ErrConflict = errors.New("already exists")
	// ErrInvalidState means the operation is not legal in the entity's
	// current state.
	ErrInvalidState = errors.New("invalid state")
	// ErrCapacityExceeded means the event is at its registration limit.
	ErrCapacityExceeded = errors.New("event capacity exceeded")
	// ErrInvalidInput means the input is malformed.
	ErrInvalidInput = errors.New("invalid input")
)
