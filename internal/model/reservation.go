package model

import "time"

// ReservationStatus enumerates the lifecycle states of a reservation.
// Valid transitions are PENDING → CONFIRMED or CANCELLED, and
// CONFIRMED → CANCELLED or COMPLETED.  CANCELLED and COMPLETED are
// terminal.
type ReservationStatus string

const (
	ReservationStatusPending   ReservationStatus = "PENDING"
	ReservationStatusConfirmed ReservationStatus = "CONFIRMED"
	ReservationStatusCancelled ReservationStatus = "CANCELLED"
	ReservationStatusCompleted ReservationStatus = "COMPLETED"
)

// Terminal reports whether the reservation can no longer change state.
func (s ReservationStatus) Terminal() bool {
	return s == ReservationStatusCancelled || s == ReservationStatusCompleted
}

// Valid reports whether s is a known reservation status.
func (s ReservationStatus) Valid() bool {
	switch s {
	case ReservationStatusPending, ReservationStatusConfirmed,
		ReservationStatusCancelled, ReservationStatusCompleted:
		return true
	}
	return false
}

// PaymentStatus tracks payment progress independently of the
// reservation status; any known value may be set at any time.
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "PENDING"
	PaymentStatusPaid     PaymentStatus = "PAID"
	PaymentStatusRefunded PaymentStatus = "REFUNDED"
	PaymentStatusFailed   PaymentStatus = "FAILED"
)

// Valid reports whether s is a known payment status.
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusRefunded, PaymentStatusFailed:
		return true
	}
	return false
}

// Reservation records a booking of NumberOfPeople seats on a tour by a
// user.  UserID and TourID are immutable after creation.  TotalPriceCents
// is derived from the tour's per-person price and is recomputed whenever
// the people count changes.
//
// Fields:
//  ID              – primary key identifier.
//  UserID          – user who made the reservation.
//  TourID          – tour being reserved.
//  NumberOfPeople  – seats booked; positive.
//  TotalPriceCents – tour price × people, in cents.
//  Status          – see ReservationStatus.
//  PaymentStatus   – see PaymentStatus.
//  SpecialRequests – optional free-form requests from the customer.
//  ContactPhone    – contact phone number.
//  ContactEmail    – contact email address.
//  CreatedAt       – creation timestamp.
//  UpdatedAt       – last update timestamp.
type Reservation struct {
	ID              uint64            `json:"id"`
	UserID          uint64            `json:"user_id"`
	TourID          uint64            `json:"tour_id"`
	NumberOfPeople  int               `json:"number_of_people"`
	TotalPriceCents int64             `json:"total_price_cents"`
	Status          ReservationStatus `json:"status"`
	PaymentStatus   PaymentStatus     `json:"payment_status"`
	SpecialRequests string            `json:"special_requests,omitempty"`
	ContactPhone    string            `json:"contact_phone,omitempty"`
	ContactEmail    string            `json:"contact_email,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}
