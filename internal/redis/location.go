package redis

import (
	"context"

	"github.com/redis/go-redis/v9"
)

const (
	vehicleLocationKey  = "vehicles:locations"
	providerLocationKey = "providers:locations"
)

// ResourceLocation represents an indexed resource's position.
type ResourceLocation struct {
	ResourceID string
	Lat        float64
	Lng        float64
}

// LocationStore mirrors vehicle and provider coordinates into Redis GEO
// sets for fast nearby lookups. Postgres stays authoritative for the
// availability filters; this index only narrows the candidate pool.
type LocationStore struct {
	client *redis.Client
}

// NewLocationStore creates a new LocationStore.
func NewLocationStore(client *redis.Client) *LocationStore {
	return &LocationStore{client: client}
}

// UpdateVehicleLocation stores a vehicle's location using GEOADD.
func (s *LocationStore) UpdateVehicleLocation(ctx context.Context, vehicleID string, lat, lng float64) error {
	return s.geoAdd(ctx, vehicleLocationKey, vehicleID, lat, lng)
}

// UpdateProviderLocation stores a provider's location using GEOADD.
func (s *LocationStore) UpdateProviderLocation(ctx context.Context, providerID string, lat, lng float64) error {
	return s.geoAdd(ctx, providerLocationKey, providerID, lat, lng)
}

// NearbyVehicles returns vehicle locations within radiusKm of the center.
func (s *LocationStore) NearbyVehicles(ctx context.Context, lat, lng, radiusKm float64) ([]ResourceLocation, error) {
	return s.nearby(ctx, vehicleLocationKey, lat, lng, radiusKm)
}

// NearbyProviders returns provider locations within radiusKm of the center.
func (s *LocationStore) NearbyProviders(ctx context.Context, lat, lng, radiusKm float64) ([]ResourceLocation, error) {
	return s.nearby(ctx, providerLocationKey, lat, lng, radiusKm)
}

// RemoveVehicleLocation removes a vehicle from the geo index.
func (s *LocationStore) RemoveVehicleLocation(ctx context.Context, vehicleID string) error {
	return s.client.ZRem(ctx, vehicleLocationKey, vehicleID).Err()
}

func (s *LocationStore) geoAdd(ctx context.Context, key, id string, lat, lng float64) error {
	return s.client.GeoAdd(ctx, key, &redis.GeoLocation{
		Name:      id,
		Longitude: lng,
		Latitude:  lat,
	}).Err()
}

func (s *LocationStore) nearby(ctx context.Context, key string, lat, lng, radiusKm float64) ([]ResourceLocation, error) {
	results, err := s.client.GeoRadius(ctx, key, lng, lat, &redis.GeoRadiusQuery{
		Radius:    radiusKm,
		Unit:      "km",
		WithCoord: true,
		Sort:      "ASC",
	}).Result()
	if err != nil {
		return nil, err
	}

	locations := make([]ResourceLocation, 0, len(results))
	for _, r := range results {
		locations = append(locations, ResourceLocation{
			ResourceID: r.Name,
			Lat:        r.Latitude,
			Lng:        r.Longitude,
		})
	}
	return locations, nil
}
