package repository

import (
	"context"
	"errors"
	"fmt"

	"clinic-directory/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository implements persistence over a pgx connection pool.
type Repository struct {
	db *pgxpool.Pool
}

// New creates a new PostgreSQL repository.
func New(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const clinicColumns = `
	id,
	kind,
	name,
	address,
	COALESCE(city, ''),
	COALESCE(phone, ''),
	COALESCE(website, ''),
	COALESCE(notes, ''),
	lat,
	lon,
	created_at,
	updated_at`

func scanClinic(row pgx.Row) (*models.Clinic, error) {
	var c models.Clinic
	err := row.Scan(
		&c.ID,
		&c.Kind,
		&c.Name,
		&c.Address,
		&c.City,
		&c.Phone,
		&c.Website,
		&c.Notes,
		&c.Lat,
		&c.Lon,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListClinics returns every clinic in the directory, in id order.
func (r *Repository) ListClinics(ctx context.Context) ([]models.Clinic, error) {
	sql := `SELECT` + clinicColumns + ` FROM clinics ORDER BY id`

	rows, err := r.db.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to list clinics: %w", err)
	}
	defer rows.Close()

	var clinics []models.Clinic
	for rows.Next() {
		c, err := scanClinic(rows)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan clinic: %w", err)
		}
		clinics = append(clinics, *c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating clinics: %w", err)
	}

	return clinics, nil
}

// SearchClinics returns clinics filtered by kind (empty means all kinds) and
// by a case-insensitive substring over name, address and city. Records with
// no city sort after all the others; within a city the order is by name.
func (r *Repository) SearchClinics(ctx context.Context, kind, query string, limit int) ([]models.Clinic, error) {
	sql := `SELECT` + clinicColumns + ` FROM clinics`
	var (
		where []string
		args  []any
	)
	if kind != "" {
		args = append(args, kind)
		where = append(where, fmt.Sprintf("kind = $%d", len(args)))
	}
	if query != "" {
		args = append(args, "%"+query+"%")
		n := len(args)
		where = append(where, fmt.Sprintf("(name ILIKE $%d OR address ILIKE $%d OR city ILIKE $%d)", n, n, n))
	}
	for i, w := range where {
		if i == 0 {
			sql += " WHERE " + w
		} else {
			sql += " AND " + w
		}
	}
	args = append(args, limit)
	sql += fmt.Sprintf(" ORDER BY city IS NULL, city, name LIMIT $%d", len(args))

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to search clinics: %w", err)
	}
	defer rows.Close()

	clinics := []models.Clinic{}
	for rows.Next() {
		c, err := scanClinic(rows)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan clinic: %w", err)
		}
		clinics = append(clinics, *c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating clinics: %w", err)
	}

	return clinics, nil
}

// GetClinic returns one clinic by id, or ErrNotFound.
func (r *Repository) GetClinic(ctx context.Context, id int64) (*models.Clinic, error) {
	sql := `SELECT` + clinicColumns + ` FROM clinics WHERE id = $1`

	c, err := scanClinic(r.db.QueryRow(ctx, sql, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("repository: failed to get clinic: %w", err)
	}
	return c, nil
}

// FindClinicByNameAddress returns the clinic with the exact name and address,
// or ErrNotFound. Bulk import uses it to decide between update and insert.
func (r *Repository) FindClinicByNameAddress(ctx context.Context, name, address string) (*models.Clinic, error) {
	sql := `SELECT` + clinicColumns + ` FROM clinics WHERE name = $1 AND address = $2 LIMIT 1`

	c, err := scanClinic(r.db.QueryRow(ctx, sql, name, address))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("repository: failed to find clinic: %w", err)
	}
	return c, nil
}

// CreateClinic inserts a new clinic and returns its assigned id. Empty
// optional fields are stored as NULL so that city ordering works.
func (r *Repository) CreateClinic(ctx context.Context, c *models.Clinic) (int64, error) {
	sql := `
		INSERT INTO clinics (kind, name, address, city, phone, website, notes, lat, lon)
		VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), NULLIF($6, ''), NULLIF($7, ''), $8, $9)
		RETURNING id`

	var id int64
	err := r.db.QueryRow(ctx, sql,
		c.Kind, c.Name, c.Address, c.City, c.Phone, c.Website, c.Notes, c.Lat, c.Lon,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("repository: failed to create clinic: %w", err)
	}
	return id, nil
}

// UpdateClinic overwrites every mutable field of the clinic identified by
// c.ID and bumps updated_at.
func (r *Repository) UpdateClinic(ctx context.Context, c *models.Clinic) error {
	sql := `
		UPDATE clinics
		SET kind = $2, name = $3, address = $4, city = NULLIF($5, ''), phone = NULLIF($6, ''),
			website = NULLIF($7, ''), notes = NULLIF($8, ''), lat = $9, lon = $10, updated_at = now()
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, sql,
		c.ID, c.Kind, c.Name, c.Address, c.City, c.Phone, c.Website, c.Notes, c.Lat, c.Lon,
	)
	if err != nil {
		return fmt.Errorf("repository: failed to update clinic: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// CorrectClinic sets the kind and coordinates of a clinic during
// reconciliation and bumps updated_at.
func (r *Repository) CorrectClinic(ctx context.Context, id int64, kind string, lat, lon *float64) error {
	sql := `UPDATE clinics SET kind = $2, lat = $3, lon = $4, updated_at = now() WHERE id = $1`

	if _, err := r.db.Exec(ctx, sql, id, kind, lat, lon); err != nil {
		return fmt.Errorf("repository: failed to correct clinic: %w", err)
	}
	return nil
}

// UpdateClinicCoords stores freshly resolved coordinates for a clinic.
func (r *Repository) UpdateClinicCoords(ctx context.Context, id int64, lat, lon float64) error {
	sql := `UPDATE clinics SET lat = $2, lon = $3, updated_at = now() WHERE id = $1`

	tag, err := r.db.Exec(ctx, sql, id, lat, lon)
	if err != nil {
		return fmt.Errorf("repository: failed to update clinic coordinates: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteClinic removes one clinic by id, or returns ErrNotFound.
func (r *Repository) DeleteClinic(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM clinics WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("repository: failed to delete clinic: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteClinics removes a batch of clinics in one statement.
func (r *Repository) DeleteClinics(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	if _, err := r.db.Exec(ctx, `DELETE FROM clinics WHERE id = ANY($1)`, ids); err != nil {
		return fmt.Errorf("repository: failed to delete clinics: %w", err)
	}
	return nil
}

// GetGeocodeResult returns the cache entry for the exact address key.
// ErrNotFound means the address was never looked up; an entry with nil
// coordinates means a lookup was attempted and found nothing.
func (r *Repository) GetGeocodeResult(ctx context.Context, address string) (*models.GeocodeResult, error) {
	sql := `SELECT address, lat, lon, updated_at FROM geocode_cache WHERE address = $1`

	var g models.GeocodeResult
	err := r.db.QueryRow(ctx, sql, address).Scan(&g.Address, &g.Lat, &g.Lon, &g.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("repository: failed to get geocode result: %w", err)
	}
	return &g, nil
}

// UpsertGeocodeResult records a lookup attempt, overwriting any prior entry
// for the address and refreshing its timestamp. Nil coordinates record a
// negative result.
func (r *Repository) UpsertGeocodeResult(ctx context.Context, address string, lat, lon *float64) error {
	sql := `
		INSERT INTO geocode_cache (address, lat, lon, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (address)
		DO UPDATE SET lat = EXCLUDED.lat, lon = EXCLUDED.lon, updated_at = now()`

	if _, err := r.db.Exec(ctx, sql, address, lat, lon); err != nil {
		return fmt.Errorf("repository: failed to upsert geocode result: %w", err)
	}
	return nil
}

// CreateLead stores a contact-form submission and returns its id.
func (r *Repository) CreateLead(ctx context.Context, lead *models.Lead) (int64, error) {
	sql := `
		INSERT INTO leads (name, email, phone, message, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	var id int64
	err := r.db.QueryRow(ctx, sql, lead.Name, lead.Email, lead.Phone, lead.Message, lead.CreatedAt).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("repository: failed to create lead: %w", err)
	}
	return id, nil
}
