package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/tourio/travel-reservation-api/internal/clock"
	"github.com/tourio/travel-reservation-api/internal/model"
	"github.com/tourio/travel-reservation-api/internal/repository"
)

type fakeDestinationStore struct {
	mu           sync.Mutex
	destinations map[uint64]*model.Destination
	nextID       uint64
}

func newFakeDestinationStore() *fakeDestinationStore {
	return &fakeDestinationStore{destinations: make(map[uint64]*model.Destination)}
}

func (s *fakeDestinationStore) GetByID(_ context.Context, id uint64) (*model.Destination, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.destinations[id]
	if !ok {
		return nil, repository.ErrDestinationNotFound
	}
	cp := *d
	return &cp, nil
}

func (s *fakeDestinationStore) Create(_ context.Context, d *model.Destination) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.destinations {
		if existing.Name == d.Name {
			return repository.ErrNameTaken
		}
	}
	s.nextID++
	d.ID = s.nextID
	cp := *d
	s.destinations[d.ID] = &cp
	return nil
}

func (s *fakeDestinationStore) Update(_ context.Context, d *model.Destination) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.destinations[d.ID]; !ok {
		return repository.ErrDestinationNotFound
	}
	cp := *d
	s.destinations[d.ID] = &cp
	return nil
}

func (s *fakeDestinationStore) Delete(_ context.Context, id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.destinations[id]; !ok {
		return repository.ErrDestinationNotFound
	}
	delete(s.destinations, id)
	return nil
}

func (s *fakeDestinationStore) ListAll(context.Context) ([]model.Destination, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Destination
	for _, d := range s.destinations {
		out = append(out, *d)
	}
	return out, nil
}

func (s *fakeDestinationStore) ListActive(context.Context) ([]model.Destination, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Destination
	for _, d := range s.destinations {
		if d.Active {
			out = append(out, *d)
		}
	}
	return out, nil
}

func TestDestinationService(t *testing.T) {
	ctx := context.Background()
	store := newFakeDestinationStore()
	svc := NewDestinationService(store, clock.NewFixed(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)))

	t.Run("create defaults to an active city", func(t *testing.T) {
		d, err := svc.Create(ctx, CreateDestinationInput{Name: "Porto", Country: "Portugal"})
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		if !d.Active {
			t.Fatal("new destination is not active")
		}
		if d.Type != model.DestinationTypeCity {
			t.Fatalf("type = %s, want default CITY", d.Type)
		}
	})

	t.Run("duplicate names conflict", func(t *testing.T) {
		if _, err := svc.Create(ctx, CreateDestinationInput{Name: "Porto", Country: "Portugal"}); !errors.Is(err, repository.ErrNameTaken) {
			t.Fatalf("err = %v, want ErrNameTaken", err)
		}
	})

	t.Run("deactivation hides it from the active listing", func(t *testing.T) {
		d, err := svc.Create(ctx, CreateDestinationInput{Name: "Madeira", Country: "Portugal", Type: model.DestinationTypeBeach})
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		if _, err := svc.Update(ctx, d.ID, UpdateDestinationInput{
			Name: d.Name, Country: d.Country, Type: d.Type, Active: false,
		}); err != nil {
			t.Fatalf("Update: %v", err)
		}

		active, err := svc.ListActive(ctx)
		if err != nil {
			t.Fatalf("ListActive: %v", err)
		}
		for _, got := range active {
			if got.ID == d.ID {
				t.Fatal("deactivated destination still listed as active")
			}
		}
		all, err := svc.ListAll(ctx)
		if err != nil {
			t.Fatalf("ListAll: %v", err)
		}
		if len(all) != 2 {
			t.Fatalf("ListAll returned %d, want 2", len(all))
		}
	})
}
