package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tourio/travel-reservation-api/internal/clock"
	"github.com/tourio/travel-reservation-api/internal/model"
	"github.com/tourio/travel-reservation-api/internal/repository"
	"github.com/tourio/travel-reservation-api/internal/service"
)

// stubTourStore is the minimal in-memory store the tour handler tests
// need; listing filters the handler does not exercise return nothing.
type stubTourStore struct {
	tours  map[uint64]*model.Tour
	nextID uint64
}

func newStubTourStore() *stubTourStore {
	return &stubTourStore{tours: make(map[uint64]*model.Tour)}
}

func (s *stubTourStore) GetByID(_ context.Context, id uint64) (*model.Tour, error) {
	t, ok := s.tours[id]
	if !ok {
		return nil, repository.ErrTourNotFound
	}
	cp := *t
	return &cp, nil
}

func (s *stubTourStore) Create(_ context.Context, t *model.Tour) error {
	s.nextID++
	t.ID = s.nextID
	cp := *t
	s.tours[t.ID] = &cp
	return nil
}

func (s *stubTourStore) Update(_ context.Context, t *model.Tour) error {
	if _, ok := s.tours[t.ID]; !ok {
		return repository.ErrTourNotFound
	}
	cp := *t
	s.tours[t.ID] = &cp
	return nil
}

func (s *stubTourStore) Delete(_ context.Context, id uint64) error {
	delete(s.tours, id)
	return nil
}

func (s *stubTourStore) ListAll(context.Context) ([]model.Tour, error) {
	var out []model.Tour
	for _, t := range s.tours {
		out = append(out, *t)
	}
	return out, nil
}

func (s *stubTourStore) ListAvailable(context.Context) ([]model.Tour, error) {
	var out []model.Tour
	for _, t := range s.tours {
		if t.Status == model.TourStatusAvailable && t.CurrentCapacity > 0 {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (s *stubTourStore) ListByStatus(context.Context, model.TourStatus) ([]model.Tour, error) {
	return nil, nil
}
func (s *stubTourStore) ListByType(context.Context, model.TourType) ([]model.Tour, error) {
	return nil, nil
}
func (s *stubTourStore) ListByDestination(context.Context, uint64) ([]model.Tour, error) {
	return nil, nil
}
func (s *stubTourStore) ListByPriceRange(context.Context, int64, int64) ([]model.Tour, error) {
	return nil, nil
}
func (s *stubTourStore) ListByDateRange(context.Context, time.Time, time.Time) ([]model.Tour, error) {
	return nil, nil
}
func (s *stubTourStore) ListUpcoming(context.Context, time.Time) ([]model.Tour, error) {
	return nil, nil
}
func (s *stubTourStore) Search(context.Context, string) ([]model.Tour, error) {
	return nil, nil
}

func newTourHandler() (*stubTourStore, *TourHandler) {
	store := newStubTourStore()
	ledger := service.NewCapacityLedger(store, nil)
	clk := clock.NewFixed(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	svc := service.NewTourService(store, ledger, nil, clk)
	return store, NewTourHandler(svc)
}

func doJSON(t *testing.T, h echo.HandlerFunc, method, path, body string, params ...string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	e.Validator = NewRequestValidator()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	for i := 0; i+1 < len(params); i += 2 {
		c.SetParamNames(params[i])
		c.SetParamValues(params[i+1])
	}
	if err := h(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func TestTourHandlerGet(t *testing.T) {
	store, h := newTourHandler()
	store.Create(context.Background(), &model.Tour{
		Name:            "Douro Valley",
		PriceCents:      25000,
		MaxCapacity:     12,
		CurrentCapacity: 12,
		Status:          model.TourStatusAvailable,
	})

	t.Run("non-numeric id is a bad request", func(t *testing.T) {
		rec := doJSON(t, h.Get, http.MethodGet, "/v1/tours/abc", "", "id", "abc")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		rec := doJSON(t, h.Get, http.MethodGet, "/v1/tours/99", "", "id", "99")
		if rec.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", rec.Code)
		}
	})

	t.Run("known id returns the tour", func(t *testing.T) {
		rec := doJSON(t, h.Get, http.MethodGet, "/v1/tours/1", "", "id", "1")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		var got model.Tour
		if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if got.Name != "Douro Valley" {
			t.Fatalf("name = %q", got.Name)
		}
	})
}

func TestTourHandlerCreate(t *testing.T) {
	const validBody = `{
		"name": "Azores Hike",
		"destination_id": 1,
		"price_cents": 40000,
		"duration_days": 5,
		"max_capacity": 8,
		"start_date": "2026-07-01",
		"end_date": "2026-07-05"
	}`

	t.Run("valid tour is created with full capacity", func(t *testing.T) {
		_, h := newTourHandler()
		rec := doJSON(t, h.Create, http.MethodPost, "/v1/tours", validBody)
		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d, want 201 (body %s)", rec.Code, rec.Body.String())
		}
		var got model.Tour
		if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if got.CurrentCapacity != 8 || got.Status != model.TourStatusAvailable {
			t.Fatalf("got capacity=%d status=%s", got.CurrentCapacity, got.Status)
		}
	})

	t.Run("malformed date is a bad request", func(t *testing.T) {
		_, h := newTourHandler()
		body := strings.Replace(validBody, "2026-07-01", "01/07/2026", 1)
		rec := doJSON(t, h.Create, http.MethodPost, "/v1/tours", body)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("start date in the past is a bad request", func(t *testing.T) {
		_, h := newTourHandler()
		body := strings.Replace(validBody, "2026-07-01", "2025-07-01", 1)
		rec := doJSON(t, h.Create, http.MethodPost, "/v1/tours", body)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("missing required fields fail validation", func(t *testing.T) {
		_, h := newTourHandler()
		rec := doJSON(t, h.Create, http.MethodPost, "/v1/tours", `{"name":"No Dates"}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
	})
}
