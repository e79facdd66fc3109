package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/tourio/travel-reservation-api/internal/model"
)

// ReservationRepo provides CRUD and filtered reads for reservations.
// All timestamp columns are stored in UTC.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a ReservationRepo bound to the given
// database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

const reservationColumns = `id, user_id, tour_id, number_of_people, total_price_cents,
       status, payment_status, special_requests, contact_phone, contact_email,
       created_at, updated_at`

func scanReservation(row interface{ Scan(...any) error }) (*model.Reservation, error) {
	var res model.Reservation
	var special, phone, email sql.NullString
	err := row.Scan(
		&res.ID, &res.UserID, &res.TourID, &res.NumberOfPeople, &res.TotalPriceCents,
		&res.Status, &res.PaymentStatus, &special, &phone, &email,
		&res.CreatedAt, &res.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if special.Valid {
		res.SpecialRequests = special.String
	}
	if phone.Valid {
		res.ContactPhone = phone.String
	}
	if email.Valid {
		res.ContactEmail = email.String
	}
	return &res, nil
}

func collectReservations(rows *sql.Rows) ([]model.Reservation, error) {
	defer rows.Close()
	list := make([]model.Reservation, 0)
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *res)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

// GetByID returns a single reservation or ErrReservationNotFound.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (*model.Reservation, error) {
	const q = `SELECT ` + reservationColumns + ` FROM reservations WHERE id = ?`
	res, err := scanReservation(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReservationNotFound
	}
	return res, err
}

// Create inserts a new reservation and populates its generated ID.
func (r *ReservationRepo) Create(ctx context.Context, res *model.Reservation) error {
	const q = `INSERT INTO reservations
	           (user_id, tour_id, number_of_people, total_price_cents, status,
	            payment_status, special_requests, contact_phone, contact_email,
	            created_at, updated_at)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := r.db.ExecContext(ctx, q,
		res.UserID, res.TourID, res.NumberOfPeople, res.TotalPriceCents, res.Status,
		res.PaymentStatus, nullIfEmpty(res.SpecialRequests), nullIfEmpty(res.ContactPhone),
		nullIfEmpty(res.ContactEmail), res.CreatedAt, res.UpdatedAt,
	)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)
	return nil
}

// Update writes back the mutable columns.  UserID and TourID are
// immutable and deliberately absent from the statement.
func (r *ReservationRepo) Update(ctx context.Context, res *model.Reservation) error {
	const q = `UPDATE reservations SET
	           number_of_people = ?, total_price_cents = ?, status = ?,
	           payment_status = ?, special_requests = ?, contact_phone = ?,
	           contact_email = ?, updated_at = ?
	           WHERE id = ?`
	result, err := r.db.ExecContext(ctx, q,
		res.NumberOfPeople, res.TotalPriceCents, res.Status,
		res.PaymentStatus, nullIfEmpty(res.SpecialRequests), nullIfEmpty(res.ContactPhone),
		nullIfEmpty(res.ContactEmail), res.UpdatedAt,
		res.ID,
	)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		if _, err := r.GetByID(ctx, res.ID); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a reservation or returns ErrReservationNotFound.
func (r *ReservationRepo) Delete(ctx context.Context, id uint64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM reservations WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrReservationNotFound
	}
	return nil
}

// ListAll returns every reservation, newest first.
func (r *ReservationRepo) ListAll(ctx context.Context) ([]model.Reservation, error) {
	const q = `SELECT ` + reservationColumns + ` FROM reservations ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	return collectReservations(rows)
}

// ListByUser returns one user's reservations, newest first.
func (r *ReservationRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Reservation, error) {
	const q = `SELECT ` + reservationColumns + ` FROM reservations
	           WHERE user_id = ? ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	return collectReservations(rows)
}

// ListByTour returns one tour's reservations, newest first.
func (r *ReservationRepo) ListByTour(ctx context.Context, tourID uint64) ([]model.Reservation, error) {
	const q = `SELECT ` + reservationColumns + ` FROM reservations
	           WHERE tour_id = ? ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q, tourID)
	if err != nil {
		return nil, err
	}
	return collectReservations(rows)
}

// ListByStatus filters by reservation status.
func (r *ReservationRepo) ListByStatus(ctx context.Context, status model.ReservationStatus) ([]model.Reservation, error) {
	const q = `SELECT ` + reservationColumns + ` FROM reservations
	           WHERE status = ? ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q, status)
	if err != nil {
		return nil, err
	}
	return collectReservations(rows)
}

// ListByPaymentStatus filters by payment status.
func (r *ReservationRepo) ListByPaymentStatus(ctx context.Context, status model.PaymentStatus) ([]model.Reservation, error) {
	const q = `SELECT ` + reservationColumns + ` FROM reservations
	           WHERE payment_status = ? ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q, status)
	if err != nil {
		return nil, err
	}
	return collectReservations(rows)
}

// ListByUserAndStatus combines the user and status filters.
func (r *ReservationRepo) ListByUserAndStatus(ctx context.Context, userID uint64, status model.ReservationStatus) ([]model.Reservation, error) {
	const q = `SELECT ` + reservationColumns + ` FROM reservations
	           WHERE user_id = ? AND status = ? ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q, userID, status)
	if err != nil {
		return nil, err
	}
	return collectReservations(rows)
}

// ListCreatedAfter returns reservations created at or after since.
func (r *ReservationRepo) ListCreatedAfter(ctx context.Context, since time.Time) ([]model.Reservation, error) {
	const q = `SELECT ` + reservationColumns + ` FROM reservations
	           WHERE created_at >= ? ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q, since)
	if err != nil {
		return nil, err
	}
	return collectReservations(rows)
}

// ListByDestinationCountry returns reservations whose tour travels to
// the given country, joined through tours and destinations.
func (r *ReservationRepo) ListByDestinationCountry(ctx context.Context, country string) ([]model.Reservation, error) {
	const q = `SELECT r.id, r.user_id, r.tour_id, r.number_of_people, r.total_price_cents,
	                  r.status, r.payment_status, r.special_requests, r.contact_phone,
	                  r.contact_email, r.created_at, r.updated_at
	           FROM reservations r
	           JOIN tours t ON t.id = r.tour_id
	           JOIN destinations d ON d.id = t.destination_id
	           WHERE d.country = ?
	           ORDER BY r.created_at DESC, r.id DESC`
	rows, err := r.db.QueryContext(ctx, q, country)
	if err != nil {
		return nil, err
	}
	return collectReservations(rows)
}

// CountConfirmedByTour counts CONFIRMED reservations on a tour.
func (r *ReservationRepo) CountConfirmedByTour(ctx context.Context, tourID uint64) (int64, error) {
	const q = `SELECT COUNT(*) FROM reservations WHERE tour_id = ? AND status = 'CONFIRMED'`
	var n int64
	if err := r.db.QueryRowContext(ctx, q, tourID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// SumRevenueCents sums total prices over CONFIRMED and PAID
// reservations.  COALESCE keeps the aggregate at 0 when no row matches,
// never NULL.
func (r *ReservationRepo) SumRevenueCents(ctx context.Context) (int64, error) {
	const q = `SELECT COALESCE(SUM(total_price_cents), 0) FROM reservations
	           WHERE status = 'CONFIRMED' AND payment_status = 'PAID'`
	var total int64
	if err := r.db.QueryRowContext(ctx, q).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}
