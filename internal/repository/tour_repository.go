package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/tourio/travel-reservation-api/internal/model"
)

// TourRepo provides CRUD and browse queries for tours.  Capacity and
// status columns are written only through Update, which the capacity
// ledger calls from inside its per-tour exclusive scope; the repository
// itself performs no locking.
type TourRepo struct {
	db *sql.DB
}

// NewTourRepo returns a TourRepo bound to the given database.
func NewTourRepo(db *sql.DB) *TourRepo { return &TourRepo{db: db} }

const tourColumns = `id, name, description, destination_id, price_cents, duration_days,
       max_capacity, current_capacity, status, type, start_date, end_date,
       image_url, created_at, updated_at`

// scanTour reads one tour row in tourColumns order.
func scanTour(row interface{ Scan(...any) error }) (*model.Tour, error) {
	var t model.Tour
	var imageURL sql.NullString
	err := row.Scan(
		&t.ID, &t.Name, &t.Description, &t.DestinationID, &t.PriceCents, &t.DurationDays,
		&t.MaxCapacity, &t.CurrentCapacity, &t.Status, &t.Type, &t.StartDate, &t.EndDate,
		&imageURL, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if imageURL.Valid {
		t.ImageURL = imageURL.String
	}
	return &t, nil
}

// collectTours drains rows into a slice, returning an empty (non-nil)
// slice when there are no rows.
func collectTours(rows *sql.Rows) ([]model.Tour, error) {
	defer rows.Close()
	tours := make([]model.Tour, 0)
	for rows.Next() {
		t, err := scanTour(rows)
		if err != nil {
			return nil, err
		}
		tours = append(tours, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tours, nil
}

// GetByID returns a single tour or ErrTourNotFound.
func (r *TourRepo) GetByID(ctx context.Context, id uint64) (*model.Tour, error) {
	const q = `SELECT ` + tourColumns + ` FROM tours WHERE id = ?`
	t, err := scanTour(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTourNotFound
	}
	return t, err
}

// Create inserts a new tour and populates its generated ID.
func (r *TourRepo) Create(ctx context.Context, t *model.Tour) error {
	const q = `INSERT INTO tours
	           (name, description, destination_id, price_cents, duration_days,
	            max_capacity, current_capacity, status, type, start_date, end_date,
	            image_url, created_at, updated_at)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := r.db.ExecContext(ctx, q,
		t.Name, t.Description, t.DestinationID, t.PriceCents, t.DurationDays,
		t.MaxCapacity, t.CurrentCapacity, t.Status, t.Type, t.StartDate, t.EndDate,
		nullIfEmpty(t.ImageURL), t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	return nil
}

// Update writes back every mutable column, including capacity and
// status.  ErrTourNotFound is returned when the row vanished.
func (r *TourRepo) Update(ctx context.Context, t *model.Tour) error {
	const q = `UPDATE tours SET
	           name = ?, description = ?, destination_id = ?, price_cents = ?,
	           duration_days = ?, current_capacity = ?, status = ?, type = ?,
	           start_date = ?, end_date = ?, image_url = ?, updated_at = ?
	           WHERE id = ?`
	result, err := r.db.ExecContext(ctx, q,
		t.Name, t.Description, t.DestinationID, t.PriceCents,
		t.DurationDays, t.CurrentCapacity, t.Status, t.Type,
		t.StartDate, t.EndDate, nullIfEmpty(t.ImageURL), t.UpdatedAt,
		t.ID,
	)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// RowsAffected is 0 both for a missing row and for a no-op
		// write; re-check existence to disambiguate.
		if _, err := r.GetByID(ctx, t.ID); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a tour or returns ErrTourNotFound.
func (r *TourRepo) Delete(ctx context.Context, id uint64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tours WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrTourNotFound
	}
	return nil
}

// ListAll returns the whole catalog ordered by start date.
func (r *TourRepo) ListAll(ctx context.Context) ([]model.Tour, error) {
	const q = `SELECT ` + tourColumns + ` FROM tours ORDER BY start_date, id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	return collectTours(rows)
}

// ListAvailable returns AVAILABLE tours that still have seats.
func (r *TourRepo) ListAvailable(ctx context.Context) ([]model.Tour, error) {
	const q = `SELECT ` + tourColumns + ` FROM tours
	           WHERE current_capacity > 0 AND status = 'AVAILABLE'
	           ORDER BY start_date, id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	return collectTours(rows)
}

// ListByStatus filters by tour status.
func (r *TourRepo) ListByStatus(ctx context.Context, status model.TourStatus) ([]model.Tour, error) {
	const q = `SELECT ` + tourColumns + ` FROM tours WHERE status = ? ORDER BY start_date, id`
	rows, err := r.db.QueryContext(ctx, q, status)
	if err != nil {
		return nil, err
	}
	return collectTours(rows)
}

// ListByType filters by sale type.
func (r *TourRepo) ListByType(ctx context.Context, tourType model.TourType) ([]model.Tour, error) {
	const q = `SELECT ` + tourColumns + ` FROM tours WHERE type = ? ORDER BY start_date, id`
	rows, err := r.db.QueryContext(ctx, q, tourType)
	if err != nil {
		return nil, err
	}
	return collectTours(rows)
}

// ListByDestination returns tours travelling to one destination.
func (r *TourRepo) ListByDestination(ctx context.Context, destinationID uint64) ([]model.Tour, error) {
	const q = `SELECT ` + tourColumns + ` FROM tours WHERE destination_id = ? ORDER BY start_date, id`
	rows, err := r.db.QueryContext(ctx, q, destinationID)
	if err != nil {
		return nil, err
	}
	return collectTours(rows)
}

// ListByPriceRange filters by per-person price, inclusive on both ends.
func (r *TourRepo) ListByPriceRange(ctx context.Context, minCents, maxCents int64) ([]model.Tour, error) {
	const q = `SELECT ` + tourColumns + ` FROM tours
	           WHERE price_cents BETWEEN ? AND ? ORDER BY price_cents, id`
	rows, err := r.db.QueryContext(ctx, q, minCents, maxCents)
	if err != nil {
		return nil, err
	}
	return collectTours(rows)
}

// ListByDateRange returns tours starting inside [from, to].
func (r *TourRepo) ListByDateRange(ctx context.Context, from, to time.Time) ([]model.Tour, error) {
	const q = `SELECT ` + tourColumns + ` FROM tours
	           WHERE start_date BETWEEN ? AND ? ORDER BY start_date, id`
	rows, err := r.db.QueryContext(ctx, q, from, to)
	if err != nil {
		return nil, err
	}
	return collectTours(rows)
}

// ListUpcoming returns tours starting strictly after the given date.
func (r *TourRepo) ListUpcoming(ctx context.Context, after time.Time) ([]model.Tour, error) {
	const q = `SELECT ` + tourColumns + ` FROM tours WHERE start_date > ? ORDER BY start_date, id`
	rows, err := r.db.QueryContext(ctx, q, after)
	if err != nil {
		return nil, err
	}
	return collectTours(rows)
}

// Search matches the query against names and descriptions.
func (r *TourRepo) Search(ctx context.Context, query string) ([]model.Tour, error) {
	const q = `SELECT ` + tourColumns + ` FROM tours
	           WHERE name LIKE CONCAT('%', ?, '%') OR description LIKE CONCAT('%', ?, '%')
	           ORDER BY start_date, id`
	rows, err := r.db.QueryContext(ctx, q, query, query)
	if err != nil {
		return nil, err
	}
	return collectTours(rows)
}

// nullIfEmpty maps "" to SQL NULL for optional text columns.
func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
