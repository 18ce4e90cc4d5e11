package redis

import (
	"context"
	"time"

	"marketplace/internal/domain"
)

// LocationStoreInterface defines the interface for resource location operations.
type LocationStoreInterface interface {
	UpdateVehicleLocation(ctx context.Context, vehicleID string, lat, lng float64) error
	UpdateProviderLocation(ctx context.Context, providerID string, lat, lng float64) error
	NearbyVehicles(ctx context.Context, lat, lng, radiusKm float64) ([]ResourceLocation, error)
	NearbyProviders(ctx context.Context, lat, lng, radiusKm float64) ([]ResourceLocation, error)
	RemoveVehicleLocation(ctx context.Context, vehicleID string) error
}

// LockStoreInterface defines the interface for per-resource locking.
type LockStoreInterface interface {
	AcquireResourceLock(ctx context.Context, kind domain.BookingKind, resourceID string, ttl time.Duration) (bool, error)
	ReleaseResourceLock(ctx context.Context, kind domain.BookingKind, resourceID string) error
}

// Ensure concrete types implement interfaces.
var (
	_ LocationStoreInterface = (*LocationStore)(nil)
	_ LockStoreInterface     = (*LockStore)(nil)
)
