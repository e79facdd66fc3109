// Package service implements the business rules of the reservation
// system: the tour capacity ledger, the reservation lifecycle, tour and
// destination management and revenue aggregation.  Services talk to
// storage through narrow interfaces declared next to each consumer so
// that tests can run against in-memory fakes.
package service

import "errors"

// Validation errors returned to callers for user-facing display.  They
// are never retried; storage errors pass through unchanged.
var (
	// ErrTourNotAvailable is returned when a tour's status blocks new
	// reservations (FULL, CANCELLED or COMPLETED).
	ErrTourNotAvailable = errors.New("tour is not available for reservation")

	// ErrInsufficientCapacity is returned when a reservation asks for
	// more seats than the tour has left.
	ErrInsufficientCapacity = errors.New("not enough capacity for this reservation")

	// ErrInvalidCapacity is returned when an administrative capacity
	// override falls outside [0, max capacity].
	ErrInvalidCapacity = errors.New("capacity must be between 0 and the tour maximum")

	// ErrInvalidPeopleCount is returned when a reservation's people
	// count is zero or negative.
	ErrInvalidPeopleCount = errors.New("number of people must be positive")

	// ErrInvalidTransition is returned when a reservation status change
	// violates the lifecycle state machine.
	ErrInvalidTransition = errors.New("invalid reservation status transition")

	// ErrInvalidPaymentStatus is returned for unknown payment status values.
	ErrInvalidPaymentStatus = errors.New("unknown payment status")

	// ErrStartDateInPast is returned when a tour would start before today.
	ErrStartDateInPast = errors.New("tour start date cannot be in the past")

	// ErrEndBeforeStart is returned when a tour would end before it starts.
	ErrEndBeforeStart = errors.New("tour end date cannot be before start date")

	// ErrInvalidPrice is returned when a tour price is zero or negative.
	ErrInvalidPrice = errors.New("tour price must be positive")

	// ErrInvalidMaxCapacity is returned when a tour's maximum capacity
	// is zero or negative.
	ErrInvalidMaxCapacity = errors.New("tour capacity must be positive")
)
