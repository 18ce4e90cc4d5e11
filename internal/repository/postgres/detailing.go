package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"marketplace/internal/domain"
	"marketplace/internal/repository"
)

// DetailingServiceRepository is a PostgreSQL implementation of
// repository.DetailingServiceRepository. Name and description columns hold
// JSON language maps decoded into domain.LocalizedText.
type DetailingServiceRepository struct {
	q Querier
}

// NewDetailingServiceRepository creates a new PostgreSQL detailing service repository.
func NewDetailingServiceRepository(db *sql.DB) *DetailingServiceRepository {
	return &DetailingServiceRepository{q: db}
}

const detailingServiceColumns = `id, name, description, base_price, duration_minutes, is_active, created_at, updated_at`

// GetByID retrieves a service definition by ID.
func (r *DetailingServiceRepository) GetByID(ctx context.Context, id string) (*domain.DetailingService, error) {
	query := `SELECT ` + detailingServiceColumns + ` FROM detailing_services WHERE id = $1`

	svc, err := scanDetailingService(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return svc, nil
}

// ListActive retrieves all active service definitions in insertion order.
func (r *DetailingServiceRepository) ListActive(ctx context.Context) ([]*domain.DetailingService, error) {
	query := `SELECT ` + detailingServiceColumns + ` FROM detailing_services WHERE is_active ORDER BY created_at ASC`

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var services []*domain.DetailingService
	for rows.Next() {
		svc, err := scanDetailingService(rows)
		if err != nil {
			return nil, err
		}
		services = append(services, svc)
	}
	return services, rows.Err()
}

func scanDetailingService(row rowScanner) (*domain.DetailingService, error) {
	var svc domain.DetailingService
	var name, description []byte
	var durationMinutes int

	if err := row.Scan(
		&svc.ID,
		&name,
		&description,
		&svc.BasePrice,
		&durationMinutes,
		&svc.IsActive,
		&svc.CreatedAt,
		&svc.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if err := json.Unmarshal(name, &svc.Name); err != nil {
		// Legacy rows store a bare string in the column.
		svc.Name = domain.PlainText(string(name))
	}
	if err := json.Unmarshal(description, &svc.Description); err != nil {
		svc.Description = domain.PlainText(string(description))
	}
	svc.Duration = time.Duration(durationMinutes) * time.Minute

	return &svc, nil
}
