package service

import (
	"context"

	"github.com/tourio/travel-reservation-api/internal/clock"
	"github.com/tourio/travel-reservation-api/internal/model"
)

// DestinationStore is the storage surface for destinations.
type DestinationStore interface {
	GetByID(ctx context.Context, id uint64) (*model.Destination, error)
	Create(ctx context.Context, d *model.Destination) error
	Update(ctx context.Context, d *model.Destination) error
	Delete(ctx context.Context, id uint64) error
	ListAll(ctx context.Context) ([]model.Destination, error)
	ListActive(ctx context.Context) ([]model.Destination, error)
}

// DestinationService manages the destination catalog.  Destinations are
// referenced by tours; deactivating one hides it from public listings
// without touching its tours.
type DestinationService struct {
	destinations DestinationStore
	clock        clock.Clock
}

// NewDestinationService constructs a DestinationService.
func NewDestinationService(destinations DestinationStore, clk clock.Clock) *DestinationService {
	if destinations == nil {
		panic("nil store passed to NewDestinationService")
	}
	if clk == nil {
		clk = clock.NewSystem()
	}
	return &DestinationService{destinations: destinations, clock: clk}
}

// CreateDestinationInput carries the fields of a new destination.
type CreateDestinationInput struct {
	Name        string
	Description string
	Country     string
	City        string
	Region      string
	Type        model.DestinationType
	ImageURL    string
}

// Create persists a new, active destination.  Duplicate names surface
// as the repository's conflict error.
func (s *DestinationService) Create(ctx context.Context, in CreateDestinationInput) (*model.Destination, error) {
	destType := in.Type
	if destType == "" {
		destType = model.DestinationTypeCity
	}
	now := s.clock.Now()
	d := &model.Destination{
		Name:        in.Name,
		Description: in.Description,
		Country:     in.Country,
		City:        in.City,
		Region:      in.Region,
		Type:        destType,
		Active:      true,
		ImageURL:    in.ImageURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.destinations.Create(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// UpdateDestinationInput is a full replacement of the editable fields,
// including the active flag.
type UpdateDestinationInput struct {
	Name        string
	Description string
	Country     string
	City        string
	Region      string
	Type        model.DestinationType
	Active      bool
	ImageURL    string
}

// Update edits a destination.
func (s *DestinationService) Update(ctx context.Context, id uint64, in UpdateDestinationInput) (*model.Destination, error) {
	d, err := s.destinations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	d.Name = in.Name
	d.Description = in.Description
	d.Country = in.Country
	d.City = in.City
	d.Region = in.Region
	if in.Type != "" {
		d.Type = in.Type
	}
	d.Active = in.Active
	d.ImageURL = in.ImageURL
	d.UpdatedAt = s.clock.Now()
	if err := s.destinations.Update(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// Delete removes a destination.
func (s *DestinationService) Delete(ctx context.Context, id uint64) error {
	if _, err := s.destinations.GetByID(ctx, id); err != nil {
		return err
	}
	return s.destinations.Delete(ctx, id)
}

// GetByID loads a single destination.
func (s *DestinationService) GetByID(ctx context.Context, id uint64) (*model.Destination, error) {
	return s.destinations.GetByID(ctx, id)
}

// ListAll returns every destination, active or not.
func (s *DestinationService) ListAll(ctx context.Context) ([]model.Destination, error) {
	return s.destinations.ListAll(ctx)
}

// ListActive returns only active destinations.
func (s *DestinationService) ListActive(ctx context.Context) ([]model.Destination, error) {
	return s.destinations.ListActive(ctx)
}
