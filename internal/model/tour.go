package model

import "time"

// TourStatus enumerates the lifecycle states of a tour.  AVAILABLE and
// FULL are derived from the remaining capacity; CANCELLED and COMPLETED
// are terminal and are never overwritten by capacity changes.
type TourStatus string

const (
	TourStatusAvailable TourStatus = "AVAILABLE"
	TourStatusFull      TourStatus = "FULL"
	TourStatusCancelled TourStatus = "CANCELLED"
	TourStatusCompleted TourStatus = "COMPLETED"
)

// Terminal reports whether the status can no longer change as a result
// of capacity movements.
func (s TourStatus) Terminal() bool {
	return s == TourStatusCancelled || s == TourStatusCompleted
}

// TourType categorises how a tour is sold.
type TourType string

const (
	TourTypeGroup   TourType = "GROUP"
	TourTypePrivate TourType = "PRIVATE"
	TourTypeCustom  TourType = "CUSTOM"
)

// Tour represents a scheduled trip offering with a fixed price, a fixed
// maximum capacity and a date range.  CurrentCapacity is the number of
// seats still available and is only ever mutated through the capacity
// ledger, which keeps it inside [0, MaxCapacity] and keeps Status in
// sync with it.
//
// Fields:
//  ID              – primary key identifier.
//  Name            – display name of the tour.
//  Description     – free-form description.
//  DestinationID   – destination the tour travels to.
//  PriceCents      – per-person price in cents.
//  DurationDays    – length of the tour in days.
//  MaxCapacity     – total number of seats, fixed at creation.
//  CurrentCapacity – seats still available, in [0, MaxCapacity].
//  Status          – see TourStatus.
//  Type            – see TourType.
//  StartDate       – first day of the tour (date only, UTC midnight).
//  EndDate         – last day of the tour; never before StartDate.
//  ImageURL        – optional promotional image.
//  CreatedAt       – creation timestamp.
//  UpdatedAt       – last update timestamp.
type Tour struct {
	ID              uint64     `json:"id"`
	Name            string     `json:"name"`
	Description     string     `json:"description"`
	DestinationID   uint64     `json:"destination_id"`
	PriceCents      int64      `json:"price_cents"`
	DurationDays    int        `json:"duration_days"`
	MaxCapacity     int        `json:"max_capacity"`
	CurrentCapacity int        `json:"current_capacity"`
	Status          TourStatus `json:"status"`
	Type            TourType   `json:"type"`
	StartDate       time.Time  `json:"start_date"`
	EndDate         time.Time  `json:"end_date"`
	ImageURL        string     `json:"image_url,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}
