package service

import (
	"context"
	"time"

	"github.com/tourio/travel-reservation-api/internal/clock"
	"github.com/tourio/travel-reservation-api/internal/model"
)

// TourStore is the full tour storage surface used by catalog
// management and browsing.  The ledger uses the narrower
// TourCapacityStore slice of the same implementation.
type TourStore interface {
	TourCapacityStore
	Create(ctx context.Context, t *model.Tour) error
	Delete(ctx context.Context, id uint64) error
	ListAll(ctx context.Context) ([]model.Tour, error)
	ListAvailable(ctx context.Context) ([]model.Tour, error)
	ListByStatus(ctx context.Context, status model.TourStatus) ([]model.Tour, error)
	ListByType(ctx context.Context, tourType model.TourType) ([]model.Tour, error)
	ListByDestination(ctx context.Context, destinationID uint64) ([]model.Tour, error)
	ListByPriceRange(ctx context.Context, minCents, maxCents int64) ([]model.Tour, error)
	ListByDateRange(ctx context.Context, from, to time.Time) ([]model.Tour, error)
	ListUpcoming(ctx context.Context, after time.Time) ([]model.Tour, error)
	Search(ctx context.Context, query string) ([]model.Tour, error)
}

// TourListCache caches whole tour listings keyed by list name.  A miss
// is reported through the boolean; Set and Invalidate are fire and
// forget.  A nil cache disables caching entirely.
type TourListCache interface {
	TourListInvalidator
	Get(ctx context.Context, key string) ([]model.Tour, bool)
	Set(ctx context.Context, key string, tours []model.Tour)
}

// Cache keys for the two hot listings, mirroring the original system's
// cached "all tours" and "available tours" queries.
const (
	cacheKeyAllTours       = "all"
	cacheKeyAvailableTours = "available"
)

// TourService manages the tour catalog.  Capacity and status writes are
// delegated to the ledger; everything else is plain CRUD plus the
// browse filters.  The two unfiltered listings are served from the
// cache when one is configured.
type TourService struct {
	tours  TourStore
	ledger *CapacityLedger
	cache  TourListCache
	clock  clock.Clock
}

// NewTourService constructs a TourService.  cache may be nil.
func NewTourService(tours TourStore, ledger *CapacityLedger, cache TourListCache, clk clock.Clock) *TourService {
	if tours == nil || ledger == nil {
		panic("nil dependency passed to NewTourService")
	}
	if clk == nil {
		clk = clock.NewSystem()
	}
	return &TourService{tours: tours, ledger: ledger, cache: cache, clock: clk}
}

// CreateTourInput carries the fields of a new tour.  Capacity starts at
// the maximum and the status at AVAILABLE.
type CreateTourInput struct {
	Name          string
	Description   string
	DestinationID uint64
	PriceCents    int64
	DurationDays  int
	MaxCapacity   int
	Type          model.TourType
	StartDate     time.Time
	EndDate       time.Time
	ImageURL      string
}

// Create validates and persists a new tour.  A tour cannot start before
// today, end before it starts, or carry a non-positive price or
// capacity.
func (s *TourService) Create(ctx context.Context, in CreateTourInput) (*model.Tour, error) {
	today := startOfDay(s.clock.Now())
	if in.StartDate.Before(today) {
		return nil, ErrStartDateInPast
	}
	if in.EndDate.Before(in.StartDate) {
		return nil, ErrEndBeforeStart
	}
	if in.PriceCents <= 0 {
		return nil, ErrInvalidPrice
	}
	if in.MaxCapacity <= 0 {
		return nil, ErrInvalidMaxCapacity
	}
	tourType := in.Type
	if tourType == "" {
		tourType = model.TourTypeGroup
	}
	now := s.clock.Now()
	t := &model.Tour{
		Name:            in.Name,
		Description:     in.Description,
		DestinationID:   in.DestinationID,
		PriceCents:      in.PriceCents,
		DurationDays:    in.DurationDays,
		MaxCapacity:     in.MaxCapacity,
		CurrentCapacity: in.MaxCapacity,
		Status:          model.TourStatusAvailable,
		Type:            tourType,
		StartDate:       in.StartDate,
		EndDate:         in.EndDate,
		ImageURL:        in.ImageURL,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.tours.Create(ctx, t); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return t, nil
}

// UpdateTourInput is a full replacement of a tour's editable fields.
// MaxCapacity is fixed at creation and CurrentCapacity moves only
// through SetCapacity, so neither appears here.
type UpdateTourInput struct {
	Name          string
	Description   string
	DestinationID uint64
	PriceCents    int64
	DurationDays  int
	Type          model.TourType
	StartDate     time.Time
	EndDate       time.Time
	ImageURL      string
}

// Update edits the descriptive fields of a tour.  Date and price rules
// from Create apply, except that the start date of an existing tour may
// already lie in the past.
func (s *TourService) Update(ctx context.Context, id uint64, in UpdateTourInput) (*model.Tour, error) {
	if in.EndDate.Before(in.StartDate) {
		return nil, ErrEndBeforeStart
	}
	if in.PriceCents <= 0 {
		return nil, ErrInvalidPrice
	}
	t, err := s.tours.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	t.Name = in.Name
	t.Description = in.Description
	t.DestinationID = in.DestinationID
	t.PriceCents = in.PriceCents
	t.DurationDays = in.DurationDays
	if in.Type != "" {
		t.Type = in.Type
	}
	t.StartDate = in.StartDate
	t.EndDate = in.EndDate
	t.ImageURL = in.ImageURL
	t.UpdatedAt = s.clock.Now()
	if err := s.tours.Update(ctx, t); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return t, nil
}

// SetCapacity routes the administrative capacity override through the
// ledger, which enforces the [0, max] bound and rederives the status.
func (s *TourService) SetCapacity(ctx context.Context, id uint64, newCapacity int) (*model.Tour, error) {
	return s.ledger.SetCapacity(ctx, id, newCapacity)
}

// Cancel marks a tour CANCELLED through the ledger.
func (s *TourService) Cancel(ctx context.Context, id uint64) (*model.Tour, error) {
	return s.ledger.CancelTour(ctx, id)
}

// Delete removes a tour from the catalog.
func (s *TourService) Delete(ctx context.Context, id uint64) error {
	if _, err := s.tours.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.tours.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// GetByID loads a single tour.
func (s *TourService) GetByID(ctx context.Context, id uint64) (*model.Tour, error) {
	return s.tours.GetByID(ctx, id)
}

// ListAll returns the whole catalog, served from the cache when warm.
func (s *TourService) ListAll(ctx context.Context) ([]model.Tour, error) {
	if s.cache != nil {
		if tours, ok := s.cache.Get(ctx, cacheKeyAllTours); ok {
			return tours, nil
		}
	}
	tours, err := s.tours.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Set(ctx, cacheKeyAllTours, tours)
	}
	return tours, nil
}

// ListAvailable returns AVAILABLE tours with seats left, served from
// the cache when warm.
func (s *TourService) ListAvailable(ctx context.Context) ([]model.Tour, error) {
	if s.cache != nil {
		if tours, ok := s.cache.Get(ctx, cacheKeyAvailableTours); ok {
			return tours, nil
		}
	}
	tours, err := s.tours.ListAvailable(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Set(ctx, cacheKeyAvailableTours, tours)
	}
	return tours, nil
}

// ListByStatus filters tours by status.
func (s *TourService) ListByStatus(ctx context.Context, status model.TourStatus) ([]model.Tour, error) {
	return s.tours.ListByStatus(ctx, status)
}

// ListByType filters tours by sale type.
func (s *TourService) ListByType(ctx context.Context, tourType model.TourType) ([]model.Tour, error) {
	return s.tours.ListByType(ctx, tourType)
}

// ListByDestination returns the tours travelling to one destination.
func (s *TourService) ListByDestination(ctx context.Context, destinationID uint64) ([]model.Tour, error) {
	return s.tours.ListByDestination(ctx, destinationID)
}

// ListByPriceRange filters tours by per-person price.
func (s *TourService) ListByPriceRange(ctx context.Context, minCents, maxCents int64) ([]model.Tour, error) {
	return s.tours.ListByPriceRange(ctx, minCents, maxCents)
}

// ListByDateRange returns tours starting inside [from, to].
func (s *TourService) ListByDateRange(ctx context.Context, from, to time.Time) ([]model.Tour, error) {
	return s.tours.ListByDateRange(ctx, from, to)
}

// ListUpcoming returns tours starting after today.
func (s *TourService) ListUpcoming(ctx context.Context) ([]model.Tour, error) {
	return s.tours.ListUpcoming(ctx, startOfDay(s.clock.Now()))
}

// Search matches the query against tour names and descriptions.
func (s *TourService) Search(ctx context.Context, query string) ([]model.Tour, error) {
	return s.tours.Search(ctx, query)
}

func (s *TourService) invalidate(ctx context.Context) {
	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
}

// startOfDay truncates t to UTC midnight; tour dates are date-only.
func startOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
