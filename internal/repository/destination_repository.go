package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/tourio/travel-reservation-api/internal/model"
)

// DestinationRepo provides CRUD for destinations.  Destination names
// carry a unique index; violations map to ErrNameTaken.
type DestinationRepo struct {
	db *sql.DB
}

// NewDestinationRepo returns a DestinationRepo bound to the given
// database.
func NewDestinationRepo(db *sql.DB) *DestinationRepo { return &DestinationRepo{db: db} }

const destinationColumns = `id, name, description, country, city, region, type,
       active, image_url, created_at, updated_at`

func scanDestination(row interface{ Scan(...any) error }) (*model.Destination, error) {
	var d model.Destination
	var city, region, imageURL sql.NullString
	err := row.Scan(
		&d.ID, &d.Name, &d.Description, &d.Country, &city, &region, &d.Type,
		&d.Active, &imageURL, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if city.Valid {
		d.City = city.String
	}
	if region.Valid {
		d.Region = region.String
	}
	if imageURL.Valid {
		d.ImageURL = imageURL.String
	}
	return &d, nil
}

// GetByID returns a single destination or ErrDestinationNotFound.
func (r *DestinationRepo) GetByID(ctx context.Context, id uint64) (*model.Destination, error) {
	const q = `SELECT ` + destinationColumns + ` FROM destinations WHERE id = ?`
	d, err := scanDestination(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrDestinationNotFound
	}
	return d, err
}

// Create inserts a new destination and populates its generated ID.
func (r *DestinationRepo) Create(ctx context.Context, d *model.Destination) error {
	const q = `INSERT INTO destinations
	           (name, description, country, city, region, type, active, image_url,
	            created_at, updated_at)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := r.db.ExecContext(ctx, q,
		d.Name, d.Description, d.Country, nullIfEmpty(d.City), nullIfEmpty(d.Region),
		d.Type, d.Active, nullIfEmpty(d.ImageURL), d.CreatedAt, d.UpdatedAt,
	)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrNameTaken
		}
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	d.ID = uint64(id)
	return nil
}

// Update writes back a destination's editable columns.
func (r *DestinationRepo) Update(ctx context.Context, d *model.Destination) error {
	const q = `UPDATE destinations SET
	           name = ?, description = ?, country = ?, city = ?, region = ?,
	           type = ?, active = ?, image_url = ?, updated_at = ?
	           WHERE id = ?`
	result, err := r.db.ExecContext(ctx, q,
		d.Name, d.Description, d.Country, nullIfEmpty(d.City), nullIfEmpty(d.Region),
		d.Type, d.Active, nullIfEmpty(d.ImageURL), d.UpdatedAt,
		d.ID,
	)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrNameTaken
		}
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		if _, err := r.GetByID(ctx, d.ID); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a destination or returns ErrDestinationNotFound.
func (r *DestinationRepo) Delete(ctx context.Context, id uint64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM destinations WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrDestinationNotFound
	}
	return nil
}

// ListAll returns every destination ordered by name.
func (r *DestinationRepo) ListAll(ctx context.Context) ([]model.Destination, error) {
	const q = `SELECT ` + destinationColumns + ` FROM destinations ORDER BY name`
	return r.list(ctx, q)
}

// ListActive returns only active destinations ordered by name.
func (r *DestinationRepo) ListActive(ctx context.Context) ([]model.Destination, error) {
	const q = `SELECT ` + destinationColumns + ` FROM destinations WHERE active = TRUE ORDER BY name`
	return r.list(ctx, q)
}

func (r *DestinationRepo) list(ctx context.Context, q string, args ...any) ([]model.Destination, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	list := make([]model.Destination, 0)
	for rows.Next() {
		d, err := scanDestination(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

// isDuplicateKey recognises MySQL error 1062 without importing the
// driver's error type everywhere.
func isDuplicateKey(err error) bool {
	return err != nil && strings.Contains(err.Error(), "Error 1062")
}
