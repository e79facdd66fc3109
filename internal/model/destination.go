package model

import "time"

// DestinationType loosely categorises a destination for browsing.
type DestinationType string

const (
	DestinationTypeCity      DestinationType = "CITY"
	DestinationTypeBeach     DestinationType = "BEACH"
	DestinationTypeMountain  DestinationType = "MOUNTAIN"
	DestinationTypeCultural  DestinationType = "CULTURAL"
	DestinationTypeAdventure DestinationType = "ADVENTURE"
)

// Destination is a place tours travel to.  Names are unique.  Inactive
// destinations are hidden from public listings but keep their tours and
// reservations intact.
type Destination struct {
	ID          uint64          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Country     string          `json:"country"`
	City        string          `json:"city,omitempty"`
	Region      string          `json:"region,omitempty"`
	Type        DestinationType `json:"type"`
	Active      bool            `json:"active"`
	ImageURL    string          `json:"image_url,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
