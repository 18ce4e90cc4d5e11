package postgres

import (
	"context"
	"database/sql"
	"errors"

	"marketplace/internal/domain"
	"marketplace/internal/repository"
)

// ProviderRepository is a PostgreSQL implementation of repository.ProviderRepository.
type ProviderRepository struct {
	q Querier
}

// NewProviderRepository creates a new PostgreSQL provider repository.
func NewProviderRepository(db *sql.DB) *ProviderRepository {
	return &ProviderRepository{q: db}
}

// NewProviderRepositoryWithTx creates a provider repository using a transaction.
func NewProviderRepositoryWithTx(tx *sql.Tx) *ProviderRepository {
	return &ProviderRepository{q: tx}
}

const providerColumns = `id, first_name, last_name, email, phone, detailing_rating,
	service_radius_km, detailing_bio, latitude, longitude, created_at, updated_at`

// GetByID retrieves a provider by ID.
func (r *ProviderRepository) GetByID(ctx context.Context, id string) (*domain.Provider, error) {
	query := `SELECT ` + providerColumns + ` FROM users WHERE id = $1 AND is_detailing_provider`

	p, err := scanProvider(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

// GetAll retrieves all detailing providers in insertion order.
func (r *ProviderRepository) GetAll(ctx context.Context) ([]*domain.Provider, error) {
	query := `SELECT ` + providerColumns + ` FROM users WHERE is_detailing_provider ORDER BY created_at ASC`

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var providers []*domain.Provider
	for rows.Next() {
		p, err := scanProvider(rows)
		if err != nil {
			return nil, err
		}
		providers = append(providers, p)
	}
	return providers, rows.Err()
}

// UpdateDetailingRating stores a recomputed rolling average.
func (r *ProviderRepository) UpdateDetailingRating(ctx context.Context, id string, rating float64) error {
	query := `UPDATE users SET detailing_rating = $1, updated_at = NOW() WHERE id = $2`

	result, err := r.q.ExecContext(ctx, query, rating, id)
	if err != nil {
		return err
	}
	return requireRowsAffected(result)
}

// UpdateLocation stores a provider's current coordinates.
func (r *ProviderRepository) UpdateLocation(ctx context.Context, id string, lat, lng float64) error {
	query := `UPDATE users SET latitude = $1, longitude = $2, updated_at = NOW()
		WHERE id = $3 AND is_detailing_provider`

	result, err := r.q.ExecContext(ctx, query, lat, lng, id)
	if err != nil {
		return err
	}
	return requireRowsAffected(result)
}

func scanProvider(row rowScanner) (*domain.Provider, error) {
	var p domain.Provider
	var bio sql.NullString
	var lat, lng sql.NullFloat64

	if err := row.Scan(
		&p.ID,
		&p.FirstName,
		&p.LastName,
		&p.Email,
		&p.Phone,
		&p.DetailingRating,
		&p.ServiceRadiusKm,
		&bio,
		&lat,
		&lng,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return nil, err
	}

	p.Bio = bio.String
	if lat.Valid {
		p.Latitude = &lat.Float64
	}
	if lng.Valid {
		p.Longitude = &lng.Float64
	}

	return &p, nil
}

// DriverRepository is a PostgreSQL implementation of repository.DriverRepository.
type DriverRepository struct {
	q Querier
}

// NewDriverRepository creates a new PostgreSQL driver repository.
func NewDriverRepository(db *sql.DB) *DriverRepository {
	return &DriverRepository{q: db}
}

// NewDriverRepositoryWithTx creates a driver repository using a transaction.
func NewDriverRepositoryWithTx(tx *sql.Tx) *DriverRepository {
	return &DriverRepository{q: tx}
}

// GetByID retrieves a driver by ID.
func (r *DriverRepository) GetByID(ctx context.Context, id string) (*domain.Driver, error) {
	query := `
		SELECT id, first_name, last_name, phone, driver_license, driver_verified, driver_rating
		FROM users WHERE id = $1 AND is_driver
	`

	var d domain.Driver
	var license sql.NullString
	err := r.q.QueryRowContext(ctx, query, id).Scan(
		&d.ID,
		&d.FirstName,
		&d.LastName,
		&d.Phone,
		&license,
		&d.Verified,
		&d.DriverRating,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	d.License = license.String

	return &d, nil
}

// UpdateDriverRating stores a recomputed rolling average.
func (r *DriverRepository) UpdateDriverRating(ctx context.Context, id string, rating float64) error {
	query := `UPDATE users SET driver_rating = $1, updated_at = NOW() WHERE id = $2`

	result, err := r.q.ExecContext(ctx, query, rating, id)
	if err != nil {
		return err
	}
	return requireRowsAffected(result)
}
