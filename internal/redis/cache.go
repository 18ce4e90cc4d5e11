package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// CacheStore handles entity caching in Redis.
type CacheStore struct {
	client *redis.Client
}

// NewCacheStore creates a new CacheStore.
func NewCacheStore(client *redis.Client) *CacheStore {
	return &CacheStore{client: client}
}

// VehicleCacheTTL is short because the availability flag flips on booking.
const VehicleCacheTTL = 15 * time.Second

const vehicleCachePrefix = "cache:vehicle:"

// CachedVehicle is the subset of vehicle state cached for quote and search
// hot paths. Rates are decimal strings; empty means no rate.
type CachedVehicle struct {
	ID          string `json:"id"`
	OwnerID     string `json:"owner_id"`
	HourlyRate  string `json:"hourly_rate,omitempty"`
	DailyRate   string `json:"daily_rate,omitempty"`
	IsAvailable bool   `json:"is_available"`
	IsApproved  bool   `json:"is_approved"`
}

// GetVehicle retrieves a vehicle from cache. Returns (nil, nil) on a miss.
func (s *CacheStore) GetVehicle(ctx context.Context, vehicleID string) (*CachedVehicle, error) {
	data, err := s.client.Get(ctx, vehicleCachePrefix+vehicleID).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var v CachedVehicle
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// SetVehicle stores a vehicle in cache.
func (s *CacheStore) SetVehicle(ctx context.Context, v *CachedVehicle) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, vehicleCachePrefix+v.ID, data, VehicleCacheTTL).Err()
}

// InvalidateVehicle drops a vehicle's cache entry. Called whenever the
// availability flag changes.
func (s *CacheStore) InvalidateVehicle(ctx context.Context, vehicleID string) error {
	return s.client.Del(ctx, vehicleCachePrefix+vehicleID).Err()
}
