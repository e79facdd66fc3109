// Package repository implements MySQL-backed storage for tours,
// reservations, destinations and users.  Row-not-found conditions are
// mapped to the sentinel errors below so that services and handlers
// never need to compare against sql.ErrNoRows themselves.
package repository

import "errors"

// ErrTourNotFound is returned when a tour id cannot be resolved.
var ErrTourNotFound = errors.New("tour not found")

// ErrReservationNotFound is returned when a reservation id cannot be
// resolved.
var ErrReservationNotFound = errors.New("reservation not found")

// ErrDestinationNotFound is returned when a destination id cannot be
// resolved.
var ErrDestinationNotFound = errors.New("destination not found")

// ErrUserNotFound is returned when a user id or email cannot be
// resolved.
var ErrUserNotFound = errors.New("user not found")

// ErrEmailTaken is returned when registering with an email that is
// already in use.
var ErrEmailTaken = errors.New("email already registered")

// ErrNameTaken is returned when creating a destination whose unique
// name already exists.
var ErrNameTaken = errors.New("name already in use")
