package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tourio/travel-reservation-api/internal/clock"
	"github.com/tourio/travel-reservation-api/internal/model"
)

func newTourFixture() (*fakeTourStore, *fakeCache, *TourService) {
	store := newFakeTourStore()
	cache := newFakeCache()
	ledger := NewCapacityLedger(store, cache)
	clk := clock.NewFixed(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	svc := NewTourService(store, ledger, cache, clk)
	return store, cache, svc
}

func validTourInput() CreateTourInput {
	return CreateTourInput{
		Name:          "Douro Valley",
		Description:   "Wine country by rail",
		DestinationID: 1,
		PriceCents:    25000,
		DurationDays:  4,
		MaxCapacity:   12,
		StartDate:     time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		EndDate:       time.Date(2026, 6, 4, 0, 0, 0, 0, time.UTC),
	}
}

func TestCreateTour(t *testing.T) {
	ctx := context.Background()

	t.Run("starts with full capacity and defaults", func(t *testing.T) {
		_, _, svc := newTourFixture()
		tour, err := svc.Create(ctx, validTourInput())
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		if tour.CurrentCapacity != 12 {
			t.Fatalf("current capacity = %d, want max 12", tour.CurrentCapacity)
		}
		if tour.Status != model.TourStatusAvailable {
			t.Fatalf("status = %s, want AVAILABLE", tour.Status)
		}
		if tour.Type != model.TourTypeGroup {
			t.Fatalf("type = %s, want default GROUP", tour.Type)
		}
	})

	t.Run("rejects a start date before today", func(t *testing.T) {
		_, _, svc := newTourFixture()
		in := validTourInput()
		in.StartDate = time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)
		if _, err := svc.Create(ctx, in); !errors.Is(err, ErrStartDateInPast) {
			t.Fatalf("err = %v, want ErrStartDateInPast", err)
		}
	})

	t.Run("accepts a tour starting today", func(t *testing.T) {
		_, _, svc := newTourFixture()
		in := validTourInput()
		in.StartDate = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
		in.EndDate = time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)
		if _, err := svc.Create(ctx, in); err != nil {
			t.Fatalf("Create: %v", err)
		}
	})

	t.Run("rejects an end date before the start", func(t *testing.T) {
		_, _, svc := newTourFixture()
		in := validTourInput()
		in.EndDate = in.StartDate.AddDate(0, 0, -1)
		if _, err := svc.Create(ctx, in); !errors.Is(err, ErrEndBeforeStart) {
			t.Fatalf("err = %v, want ErrEndBeforeStart", err)
		}
	})

	t.Run("rejects non-positive price and capacity", func(t *testing.T) {
		_, _, svc := newTourFixture()
		in := validTourInput()
		in.PriceCents = 0
		if _, err := svc.Create(ctx, in); !errors.Is(err, ErrInvalidPrice) {
			t.Fatalf("price: err = %v, want ErrInvalidPrice", err)
		}
		in = validTourInput()
		in.MaxCapacity = 0
		if _, err := svc.Create(ctx, in); !errors.Is(err, ErrInvalidMaxCapacity) {
			t.Fatalf("capacity: err = %v, want ErrInvalidMaxCapacity", err)
		}
	})
}

func TestTourListingCache(t *testing.T) {
	ctx := context.Background()
	_, cache, svc := newTourFixture()

	if _, err := svc.Create(ctx, validTourInput()); err != nil {
		t.Fatalf("Create: %v", err)
	}

	first, err := svc.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(first) != 1 {
		t.Fatalf("listed %d tours, want 1", len(first))
	}
	if _, ok := cache.Get(ctx, "all"); !ok {
		t.Fatal("listing was not cached")
	}

	// A second create must drop the cached listing.
	in := validTourInput()
	in.Name = "Azores Hike"
	if _, err := svc.Create(ctx, in); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, ok := cache.Get(ctx, "all"); ok {
		t.Fatal("stale listing survived a catalog mutation")
	}
	second, err := svc.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(second) != 2 {
		t.Fatalf("listed %d tours, want 2", len(second))
	}
}

func TestTourUpdateKeepsCapacity(t *testing.T) {
	ctx := context.Background()
	store, _, svc := newTourFixture()
	tour, err := svc.Create(ctx, validTourInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	ledger := NewCapacityLedger(store, nil)
	if _, err := ledger.TryReserve(ctx, tour.ID, 5); err != nil {
		t.Fatalf("TryReserve: %v", err)
	}

	updated, err := svc.Update(ctx, tour.ID, UpdateTourInput{
		Name:          "Douro Valley Deluxe",
		DestinationID: 1,
		PriceCents:    30000,
		DurationDays:  5,
		StartDate:     tour.StartDate,
		EndDate:       tour.EndDate,
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.CurrentCapacity != 7 || updated.MaxCapacity != 12 {
		t.Fatalf("update touched capacity: current=%d max=%d", updated.CurrentCapacity, updated.MaxCapacity)
	}
	if updated.PriceCents != 30000 {
		t.Fatalf("price = %d, want 30000", updated.PriceCents)
	}
}
