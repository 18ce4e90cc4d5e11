package repository

import (
	"context"

	"marketplace/internal/domain"
)

// ProviderRepository defines the persistence operations for detailing
// providers.
type ProviderRepository interface {
	// GetByID retrieves a provider by ID.
	GetByID(ctx context.Context, id string) (*domain.Provider, error)

	// GetAll retrieves all detailing providers in insertion order.
	GetAll(ctx context.Context) ([]*domain.Provider, error)

	// UpdateDetailingRating stores a recomputed rolling average.
	UpdateDetailingRating(ctx context.Context, id string, rating float64) error

	// UpdateLocation stores a provider's current coordinates.
	UpdateLocation(ctx context.Context, id string, lat, lng float64) error
}

// DriverRepository defines the persistence operations for vehicle
// owner-drivers.
type DriverRepository interface {
	// GetByID retrieves a driver by ID.
	GetByID(ctx context.Context, id string) (*domain.Driver, error)

	// UpdateDriverRating stores a recomputed rolling average.
	UpdateDriverRating(ctx context.Context, id string, rating float64) error
}
