package service

import (
	"context"
	"sync"

	"github.com/tourio/travel-reservation-api/internal/model"
)

// TourCapacityStore is the slice of tour storage the ledger needs: a
// load and a durable write-back of capacity and status.
type TourCapacityStore interface {
	GetByID(ctx context.Context, id uint64) (*model.Tour, error)
	Update(ctx context.Context, t *model.Tour) error
}

// TourListInvalidator drops cached tour listings.  The ledger calls it
// after every capacity or status write so stale availability is never
// served.  A nil invalidator disables caching.
type TourListInvalidator interface {
	Invalidate(ctx context.Context)
}

// CapacityLedger is the sole authority over a tour's current capacity
// and the capacity-derived part of its status.  Every read-modify-write
// is serialized per tour through a keyed mutex, so two concurrent
// reservations can never both consume the same last seat; different
// tours proceed independently.
type CapacityLedger struct {
	store TourCapacityStore
	cache TourListInvalidator

	mu    sync.Mutex
	locks map[uint64]*sync.Mutex
}

// NewCapacityLedger constructs a ledger over the given tour store.
// cache may be nil when listing caches are disabled.
func NewCapacityLedger(store TourCapacityStore, cache TourListInvalidator) *CapacityLedger {
	if store == nil {
		panic("nil tour store passed to NewCapacityLedger")
	}
	return &CapacityLedger{
		store: store,
		cache: cache,
		locks: make(map[uint64]*sync.Mutex),
	}
}

// tourLock returns the mutex guarding capacity mutations for a single
// tour, creating it on first use.  Locks are never removed; the map
// grows with the number of distinct tours touched, which is bounded by
// the catalog size.
func (l *CapacityLedger) tourLock(tourID uint64) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.locks[tourID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[tourID] = m
	}
	return m
}

// deriveStatus computes the capacity-derived status.  CANCELLED and
// COMPLETED are authoritative and stick regardless of capacity.
func deriveStatus(capacity int, current model.TourStatus) model.TourStatus {
	if current.Terminal() {
		return current
	}
	if capacity == 0 {
		return model.TourStatusFull
	}
	return model.TourStatusAvailable
}

// TryReserve atomically debits count seats from the tour.  It fails
// with the tour store's not-found error when the tour is unknown, with
// ErrTourNotAvailable when the tour status blocks reservations, and
// with ErrInsufficientCapacity when fewer than count seats remain.  On
// success the updated tour (possibly now FULL) is returned.
func (l *CapacityLedger) TryReserve(ctx context.Context, tourID uint64, count int) (*model.Tour, error) {
	if count <= 0 {
		return nil, ErrInvalidPeopleCount
	}
	lock := l.tourLock(tourID)
	lock.Lock()
	defer lock.Unlock()

	t, err := l.store.GetByID(ctx, tourID)
	if err != nil {
		return nil, err
	}
	if t.Status != model.TourStatusAvailable {
		return nil, ErrTourNotAvailable
	}
	if count > t.CurrentCapacity {
		return nil, ErrInsufficientCapacity
	}
	t.CurrentCapacity -= count
	t.Status = deriveStatus(t.CurrentCapacity, t.Status)
	if err := l.store.Update(ctx, t); err != nil {
		return nil, err
	}
	l.invalidate(ctx)
	return t, nil
}

// Release atomically returns count seats to the tour.  The new value is
// clamped at the tour maximum so releasing is idempotent: callers that
// retry a compensating release after an ambiguous failure cannot push
// capacity past the maximum.  A FULL tour with freed seats flips back
// to AVAILABLE; CANCELLED and COMPLETED are left untouched.
func (l *CapacityLedger) Release(ctx context.Context, tourID uint64, count int) (*model.Tour, error) {
	if count <= 0 {
		return nil, ErrInvalidPeopleCount
	}
	lock := l.tourLock(tourID)
	lock.Lock()
	defer lock.Unlock()

	t, err := l.store.GetByID(ctx, tourID)
	if err != nil {
		return nil, err
	}
	c := t.CurrentCapacity + count
	if c > t.MaxCapacity {
		c = t.MaxCapacity
	}
	t.CurrentCapacity = c
	t.Status = deriveStatus(c, t.Status)
	if err := l.store.Update(ctx, t); err != nil {
		return nil, err
	}
	l.invalidate(ctx)
	return t, nil
}

// SetCapacity is the administrative override used by generic tour
// updates.  It fails with ErrInvalidCapacity when newCapacity falls
// outside [0, max capacity] and applies the same status derivation as
// Release.
func (l *CapacityLedger) SetCapacity(ctx context.Context, tourID uint64, newCapacity int) (*model.Tour, error) {
	lock := l.tourLock(tourID)
	lock.Lock()
	defer lock.Unlock()

	t, err := l.store.GetByID(ctx, tourID)
	if err != nil {
		return nil, err
	}
	if newCapacity < 0 || newCapacity > t.MaxCapacity {
		return nil, ErrInvalidCapacity
	}
	t.CurrentCapacity = newCapacity
	t.Status = deriveStatus(newCapacity, t.Status)
	if err := l.store.Update(ctx, t); err != nil {
		return nil, err
	}
	l.invalidate(ctx)
	return t, nil
}

// CancelTour marks the tour CANCELLED.  Capacity is left as-is; the
// terminal status alone blocks any further reservation.
func (l *CapacityLedger) CancelTour(ctx context.Context, tourID uint64) (*model.Tour, error) {
	lock := l.tourLock(tourID)
	lock.Lock()
	defer lock.Unlock()

	t, err := l.store.GetByID(ctx, tourID)
	if err != nil {
		return nil, err
	}
	t.Status = model.TourStatusCancelled
	if err := l.store.Update(ctx, t); err != nil {
		return nil, err
	}
	l.invalidate(ctx)
	return t, nil
}

func (l *CapacityLedger) invalidate(ctx context.Context) {
	if l.cache != nil {
		l.cache.Invalidate(ctx)
	}
}
