package booking

import "errors"

var (
	// ErrValidation wraps date-invariant failures; the wrapped message names
	// the violated rule.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound covers both missing bookings and bookings the caller does
	// not own, so existence never leaks across tenants or landlords.
	ErrNotFound = errors.New("booking not found")

	ErrPropertyNotFound = errors.New("property not found")

	// ErrConflict means the booking exists for the caller but is not in a
	// state the requested transition may leave.
	ErrConflict = errors.New("booking is not in a state that allows this operation")
)
