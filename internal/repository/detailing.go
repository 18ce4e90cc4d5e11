package repository

import (
	"context"

	"marketplace/internal/domain"
)

// DetailingServiceRepository defines the persistence operations for
// detailing service definitions.
type DetailingServiceRepository interface {
	// GetByID retrieves a service definition by ID.
	GetByID(ctx context.Context, id string) (*domain.DetailingService, error)

	// ListActive retrieves all active service definitions in insertion order.
	ListActive(ctx context.Context) ([]*domain.DetailingService, error)
}
