package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/tourio/travel-reservation-api/internal/model"
	"github.com/tourio/travel-reservation-api/internal/queue"
	"github.com/tourio/travel-reservation-api/internal/repository"
)

// fakeTourStore is an in-memory TourStore.  updateErrs is a script of
// errors returned by successive Update calls; nil entries succeed and
// an exhausted script always succeeds.
type fakeTourStore struct {
	mu         sync.Mutex
	tours      map[uint64]*model.Tour
	nextID     uint64
	updateErrs []error
}

func newFakeTourStore() *fakeTourStore {
	return &fakeTourStore{tours: make(map[uint64]*model.Tour)}
}

func (s *fakeTourStore) add(t model.Tour) *model.Tour {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	t.ID = s.nextID
	s.tours[t.ID] = &t
	return &t
}

func (s *fakeTourStore) GetByID(_ context.Context, id uint64) (*model.Tour, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tours[id]
	if !ok {
		return nil, repository.ErrTourNotFound
	}
	cp := *t
	return &cp, nil
}

func (s *fakeTourStore) Update(_ context.Context, t *model.Tour) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.updateErrs) > 0 {
		err := s.updateErrs[0]
		s.updateErrs = s.updateErrs[1:]
		if err != nil {
			return err
		}
	}
	if _, ok := s.tours[t.ID]; !ok {
		return repository.ErrTourNotFound
	}
	cp := *t
	s.tours[t.ID] = &cp
	return nil
}

func (s *fakeTourStore) Create(_ context.Context, t *model.Tour) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	t.ID = s.nextID
	cp := *t
	s.tours[t.ID] = &cp
	return nil
}

func (s *fakeTourStore) Delete(_ context.Context, id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tours[id]; !ok {
		return repository.ErrTourNotFound
	}
	delete(s.tours, id)
	return nil
}

func (s *fakeTourStore) list(keep func(*model.Tour) bool) []model.Tour {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Tour
	for _, t := range s.tours {
		if keep(t) {
			out = append(out, *t)
		}
	}
	return out
}

func (s *fakeTourStore) ListAll(context.Context) ([]model.Tour, error) {
	return s.list(func(*model.Tour) bool { return true }), nil
}

func (s *fakeTourStore) ListAvailable(context.Context) ([]model.Tour, error) {
	return s.list(func(t *model.Tour) bool {
		return t.Status == model.TourStatusAvailable && t.CurrentCapacity > 0
	}), nil
}

func (s *fakeTourStore) ListByStatus(_ context.Context, status model.TourStatus) ([]model.Tour, error) {
	return s.list(func(t *model.Tour) bool { return t.Status == status }), nil
}

func (s *fakeTourStore) ListByType(_ context.Context, tourType model.TourType) ([]model.Tour, error) {
	return s.list(func(t *model.Tour) bool { return t.Type == tourType }), nil
}

func (s *fakeTourStore) ListByDestination(_ context.Context, destID uint64) ([]model.Tour, error) {
	return s.list(func(t *model.Tour) bool { return t.DestinationID == destID }), nil
}

func (s *fakeTourStore) ListByPriceRange(_ context.Context, minCents, maxCents int64) ([]model.Tour, error) {
	return s.list(func(t *model.Tour) bool {
		return t.PriceCents >= minCents && t.PriceCents <= maxCents
	}), nil
}

func (s *fakeTourStore) ListByDateRange(_ context.Context, from, to time.Time) ([]model.Tour, error) {
	return s.list(func(t *model.Tour) bool {
		return !t.StartDate.Before(from) && !t.StartDate.After(to)
	}), nil
}

func (s *fakeTourStore) ListUpcoming(_ context.Context, after time.Time) ([]model.Tour, error) {
	return s.list(func(t *model.Tour) bool { return t.StartDate.After(after) }), nil
}

func (s *fakeTourStore) Search(_ context.Context, query string) ([]model.Tour, error) {
	q := strings.ToLower(query)
	return s.list(func(t *model.Tour) bool {
		return strings.Contains(strings.ToLower(t.Name), q) ||
			strings.Contains(strings.ToLower(t.Description), q)
	}), nil
}

// fakeReservationStore is an in-memory ReservationStore with an
// injectable Create failure.
type fakeReservationStore struct {
	mu           sync.Mutex
	reservations map[uint64]*model.Reservation
	nextID       uint64
	createErr    error
}

func newFakeReservationStore() *fakeReservationStore {
	return &fakeReservationStore{reservations: make(map[uint64]*model.Reservation)}
}

func (s *fakeReservationStore) GetByID(_ context.Context, id uint64) (*model.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reservations[id]
	if !ok {
		return nil, repository.ErrReservationNotFound
	}
	cp := *r
	return &cp, nil
}

func (s *fakeReservationStore) Create(_ context.Context, r *model.Reservation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return s.createErr
	}
	s.nextID++
	r.ID = s.nextID
	cp := *r
	s.reservations[r.ID] = &cp
	return nil
}

func (s *fakeReservationStore) Update(_ context.Context, r *model.Reservation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.reservations[r.ID]; !ok {
		return repository.ErrReservationNotFound
	}
	cp := *r
	s.reservations[r.ID] = &cp
	return nil
}

func (s *fakeReservationStore) Delete(_ context.Context, id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.reservations[id]; !ok {
		return repository.ErrReservationNotFound
	}
	delete(s.reservations, id)
	return nil
}

func (s *fakeReservationStore) list(keep func(*model.Reservation) bool) []model.Reservation {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Reservation
	for _, r := range s.reservations {
		if keep(r) {
			out = append(out, *r)
		}
	}
	return out
}

func (s *fakeReservationStore) ListAll(context.Context) ([]model.Reservation, error) {
	return s.list(func(*model.Reservation) bool { return true }), nil
}

func (s *fakeReservationStore) ListByUser(_ context.Context, userID uint64) ([]model.Reservation, error) {
	return s.list(func(r *model.Reservation) bool { return r.UserID == userID }), nil
}

func (s *fakeReservationStore) ListByTour(_ context.Context, tourID uint64) ([]model.Reservation, error) {
	return s.list(func(r *model.Reservation) bool { return r.TourID == tourID }), nil
}

func (s *fakeReservationStore) ListByStatus(_ context.Context, status model.ReservationStatus) ([]model.Reservation, error) {
	return s.list(func(r *model.Reservation) bool { return r.Status == status }), nil
}

func (s *fakeReservationStore) ListByPaymentStatus(_ context.Context, status model.PaymentStatus) ([]model.Reservation, error) {
	return s.list(func(r *model.Reservation) bool { return r.PaymentStatus == status }), nil
}

func (s *fakeReservationStore) ListByUserAndStatus(_ context.Context, userID uint64, status model.ReservationStatus) ([]model.Reservation, error) {
	return s.list(func(r *model.Reservation) bool {
		return r.UserID == userID && r.Status == status
	}), nil
}

func (s *fakeReservationStore) ListCreatedAfter(_ context.Context, since time.Time) ([]model.Reservation, error) {
	return s.list(func(r *model.Reservation) bool { return !r.CreatedAt.Before(since) }), nil
}

func (s *fakeReservationStore) ListByDestinationCountry(context.Context, string) ([]model.Reservation, error) {
	return nil, nil
}

func (s *fakeReservationStore) CountConfirmedByTour(_ context.Context, tourID uint64) (int64, error) {
	var n int64
	for range s.list(func(r *model.Reservation) bool {
		return r.TourID == tourID && r.Status == model.ReservationStatusConfirmed
	}) {
		n++
	}
	return n, nil
}

// fakeUserStore satisfies UserStore with a fixed set of users.
type fakeUserStore struct {
	users map[uint64]*model.User
}

func newFakeUserStore(ids ...uint64) *fakeUserStore {
	s := &fakeUserStore{users: make(map[uint64]*model.User)}
	for _, id := range ids {
		s.users[id] = &model.User{ID: id, Role: model.RoleCustomer, IsActive: true}
	}
	return s
}

func (s *fakeUserStore) GetByID(_ context.Context, id uint64) (*model.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return u, nil
}

// fakePublisher records published confirmation events.
type fakePublisher struct {
	mu     sync.Mutex
	events []queue.ReservationConfirmedEvent
	err    error
}

func (p *fakePublisher) PublishReservationConfirmed(_ context.Context, ev queue.ReservationConfirmedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, ev)
	return nil
}

func (p *fakePublisher) published() []queue.ReservationConfirmedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]queue.ReservationConfirmedEvent(nil), p.events...)
}

// fakeCache is an in-memory TourListCache that counts invalidations.
type fakeCache struct {
	mu          sync.Mutex
	entries     map[string][]model.Tour
	invalidated int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string][]model.Tour)}
}

func (c *fakeCache) Get(_ context.Context, key string) ([]model.Tour, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	tours, ok := c.entries[key]
	return tours, ok
}

func (c *fakeCache) Set(_ context.Context, key string, tours []model.Tour) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = tours
}

func (c *fakeCache) Invalidate(context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string][]model.Tour)
	c.invalidated++
}
