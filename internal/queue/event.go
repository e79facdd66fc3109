// Package queue defines the message payloads exchanged over the broker
// and the publisher/consumer pair for reservation confirmations.
package queue

// ReservationConfirmedEvent is published when a reservation reaches
// CONFIRMED.  It carries enough context for downstream consumers to
// log, notify or feed analytics without querying the primary database.
type ReservationConfirmedEvent struct {
	ReservationID   uint64 `json:"reservation_id"`
	UserID          uint64 `json:"user_id"`
	TourID          uint64 `json:"tour_id"`
	TourName        string `json:"tour_name,omitempty"`
	StartDate       string `json:"start_date,omitempty"`
	NumberOfPeople  int    `json:"number_of_people"`
	TotalPriceCents int64  `json:"total_price_cents"`
	ConfirmedAt     string `json:"confirmed_at"`
}
