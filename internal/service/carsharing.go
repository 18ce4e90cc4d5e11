package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"marketplace/internal/config"
	"marketplace/internal/domain"
	"marketplace/internal/geo"
	"marketplace/internal/pricing"
	"marketplace/internal/redis"
	"marketplace/internal/repository"
	"marketplace/internal/repository/postgres"
)

// defaultCarsharingWindow is applied to open-ended bookings: they are
// materialized as one-hour holds rather than stored without an end.
const defaultCarsharingWindow = time.Hour

// CarsharingService handles vehicle search, quoting and booking.
type CarsharingService struct {
	db            *sql.DB
	vehicleRepo   repository.VehicleRepository
	bookingRepo   repository.BookingRepository
	lockStore     redis.LockStoreInterface
	locationStore redis.LocationStoreInterface
	cacheStore    *redis.CacheStore
	notifier      *NotificationService
	cfg           config.MarketplaceConfig
}

// NewCarsharingService creates a new CarsharingService.
func NewCarsharingService(
	db *sql.DB,
	vehicleRepo repository.VehicleRepository,
	bookingRepo repository.BookingRepository,
	lockStore redis.LockStoreInterface,
	locationStore redis.LocationStoreInterface,
	cacheStore *redis.CacheStore,
	notifier *NotificationService,
	cfg config.MarketplaceConfig,
) *CarsharingService {
	return &CarsharingService{
		db:            db,
		vehicleRepo:   vehicleRepo,
		bookingRepo:   bookingRepo,
		lockStore:     lockStore,
		locationStore: locationStore,
		cacheStore:    cacheStore,
		notifier:      notifier,
		cfg:           cfg,
	}
}

// SearchVehiclesRequest contains the parameters for a vehicle search.
type SearchVehiclesRequest struct {
	Interval domain.Interval
	Lat      float64
	Lng      float64
	RadiusKm float64 // 0 uses the configured default
}

// FindAvailableVehicles returns the approved, available vehicles within the
// search radius that have no conflicting booking on the interval. The result
// keeps the pool's insertion order; no distance sorting.
func (s *CarsharingService) FindAvailableVehicles(ctx context.Context, req SearchVehiclesRequest) ([]*domain.Vehicle, error) {
	interval, err := normalizeInterval(req.Interval)
	if err != nil {
		return nil, err
	}
	if !isValidLatitude(req.Lat) || !isValidLongitude(req.Lng) {
		return nil, ErrInvalidLocation
	}

	radiusKm := req.RadiusKm
	if radiusKm <= 0 {
		radiusKm = s.cfg.CarsharingRadiusKm
	}
	center := geo.Point{Lat: req.Lat, Lng: req.Lng}

	vehicles, err := s.vehicleRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	available := make([]*domain.Vehicle, 0, len(vehicles))
	for _, vehicle := range vehicles {
		if !vehicle.IsApproved || !vehicle.IsAvailable {
			continue
		}
		// Vehicles without coordinates never match a geo search.
		if !vehicle.HasLocation() {
			continue
		}
		point := geo.Point{Lat: *vehicle.Latitude, Lng: *vehicle.Longitude}
		if !geo.WithinRadius(center, point, radiusKm) {
			continue
		}

		conflicts, err := s.bookingRepo.CountOverlapping(ctx,
			domain.BookingKindCarsharing, vehicle.ID,
			domain.ConflictStatuses(domain.BookingKindCarsharing), interval)
		if err != nil {
			return nil, err
		}
		if conflicts > 0 {
			continue
		}

		available = append(available, vehicle)
	}

	return available, nil
}

// Quote prices a vehicle booking without creating it. Quoting is
// deterministic: identical inputs always yield an identical price.
func (s *CarsharingService) Quote(ctx context.Context, vehicleID string, interval domain.Interval) (decimal.Decimal, error) {
	if vehicleID == "" {
		return decimal.Zero, ErrInvalidVehicleID
	}
	interval, err := normalizeInterval(interval)
	if err != nil {
		return decimal.Zero, err
	}

	vehicle, err := s.getVehicleCached(ctx, vehicleID)
	if err != nil {
		return decimal.Zero, err
	}
	if !hasRateFor(vehicle, interval) {
		return decimal.Zero, ErrVehicleRateMissing
	}

	return pricing.Carsharing(vehicle, interval), nil
}

// hasRateFor reports whether the vehicle carries the rate the interval
// would be billed at: short bookings can fall back to the daily rate, but
// a booking reaching the daily tier needs a daily rate.
func hasRateFor(vehicle *domain.Vehicle, interval domain.Interval) bool {
	if interval.Duration().Hours() < 24 && vehicle.HourlyRate.Valid {
		return true
	}
	return vehicle.DailyRate.Valid
}

// BookVehicleRequest contains the parameters for booking a vehicle.
type BookVehicleRequest struct {
	UserID    string
	VehicleID string
	Interval  domain.Interval
	Pickup    domain.Location
	Dropoff   *domain.Location
}

// Book creates a carsharing booking. The availability re-check and the
// insert run under a per-vehicle lock so two overlapping requests cannot
// both commit; the loser gets ErrResourceUnavailable. Creation flips the
// vehicle's availability flag: one active booking at a time.
func (s *CarsharingService) Book(ctx context.Context, req BookVehicleRequest) (*domain.Booking, error) {
	if req.UserID == "" {
		return nil, ErrInvalidUserID
	}
	if req.VehicleID == "" {
		return nil, ErrInvalidVehicleID
	}
	interval, err := normalizeInterval(req.Interval)
	if err != nil {
		return nil, err
	}
	if !isValidLatitude(req.Pickup.Lat) || !isValidLongitude(req.Pickup.Lng) {
		return nil, ErrInvalidLocation
	}

	if s.lockStore != nil {
		locked, err := s.lockStore.AcquireResourceLock(ctx, domain.BookingKindCarsharing, req.VehicleID, s.cfg.BookingLockTTL)
		if err != nil {
			return nil, err
		}
		if !locked {
			// Another booking attempt holds the vehicle.
			return nil, ErrResourceUnavailable
		}
		defer s.lockStore.ReleaseResourceLock(ctx, domain.BookingKindCarsharing, req.VehicleID)
	}

	// Re-read fresh state under the lock; the search result may be stale.
	vehicle, err := s.vehicleRepo.GetByID(ctx, req.VehicleID)
	if err != nil {
		return nil, err
	}
	if !vehicle.IsApproved || !vehicle.IsAvailable {
		return nil, ErrResourceUnavailable
	}

	conflicts, err := s.bookingRepo.CountOverlapping(ctx,
		domain.BookingKindCarsharing, vehicle.ID,
		domain.ConflictStatuses(domain.BookingKindCarsharing), interval)
	if err != nil {
		return nil, err
	}
	if conflicts > 0 {
		return nil, ErrResourceUnavailable
	}
	if !hasRateFor(vehicle, interval) {
		return nil, ErrVehicleRateMissing
	}

	now := time.Now()
	booking := &domain.Booking{
		ID:         uuid.New().String(),
		UserID:     req.UserID,
		Kind:       domain.BookingKindCarsharing,
		Status:     domain.BookingStatusPending,
		Interval:   interval,
		TotalPrice: pricing.Carsharing(vehicle, interval),
		CreatedAt:  now,
		UpdatedAt:  now,
		Carsharing: &domain.CarsharingDetails{
			VehicleID: vehicle.ID,
			DriverID:  vehicle.OwnerID,
			Pickup:    req.Pickup,
			Dropoff:   req.Dropoff,
		},
	}

	if err := s.persistBooking(ctx, booking, vehicle.ID); err != nil {
		return nil, err
	}

	if s.cacheStore != nil {
		_ = s.cacheStore.InvalidateVehicle(ctx, vehicle.ID)
	}
	if s.notifier != nil {
		s.notifier.NotifyBookingCreated(ctx, booking)
	}

	return booking, nil
}

// persistBooking writes the booking row and the availability flag flip in
// one transaction: either both land or neither does.
func (s *CarsharingService) persistBooking(ctx context.Context, booking *domain.Booking, vehicleID string) error {
	if s.db == nil {
		if err := s.bookingRepo.Create(ctx, booking); err != nil {
			return err
		}
		return s.vehicleRepo.SetAvailability(ctx, vehicleID, false)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	txBookingRepo := postgres.NewBookingRepositoryWithTx(tx)
	txVehicleRepo := postgres.NewVehicleRepositoryWithTx(tx)

	if err = txBookingRepo.Create(ctx, booking); err != nil {
		return err
	}
	if err = txVehicleRepo.SetAvailability(ctx, vehicleID, false); err != nil {
		return err
	}

	return tx.Commit()
}

// RegisterVehicle persists a new vehicle and mirrors its coordinates into
// the location index.
func (s *CarsharingService) RegisterVehicle(ctx context.Context, vehicle *domain.Vehicle) (*domain.Vehicle, error) {
	if vehicle.OwnerID == "" {
		return nil, ErrInvalidUserID
	}
	if vehicle.HasLocation() && (!isValidLatitude(*vehicle.Latitude) || !isValidLongitude(*vehicle.Longitude)) {
		return nil, ErrInvalidLocation
	}

	if vehicle.ID == "" {
		vehicle.ID = uuid.New().String()
	}
	now := time.Now()
	vehicle.CreatedAt = now
	vehicle.UpdatedAt = now

	if err := s.vehicleRepo.Create(ctx, vehicle); err != nil {
		return nil, err
	}

	if s.locationStore != nil && vehicle.HasLocation() {
		_ = s.locationStore.UpdateVehicleLocation(ctx, vehicle.ID, *vehicle.Latitude, *vehicle.Longitude)
	}

	return vehicle, nil
}

// GetVehicle retrieves a vehicle by ID.
func (s *CarsharingService) GetVehicle(ctx context.Context, vehicleID string) (*domain.Vehicle, error) {
	if vehicleID == "" {
		return nil, ErrInvalidVehicleID
	}
	return s.vehicleRepo.GetByID(ctx, vehicleID)
}

// getVehicleCached reads a vehicle through the cache; quoting only needs
// the rate columns. A miss falls back to the repository and refreshes the
// cache asynchronously.
func (s *CarsharingService) getVehicleCached(ctx context.Context, vehicleID string) (*domain.Vehicle, error) {
	if s.cacheStore != nil {
		cached, err := s.cacheStore.GetVehicle(ctx, vehicleID)
		if err == nil && cached != nil {
			return cachedToVehicle(cached), nil
		}
	}

	vehicle, err := s.vehicleRepo.GetByID(ctx, vehicleID)
	if err != nil {
		return nil, err
	}

	if s.cacheStore != nil {
		cached := vehicleToCached(vehicle)
		go func() {
			_ = s.cacheStore.SetVehicle(context.Background(), cached)
		}()
	}

	return vehicle, nil
}

func cachedToVehicle(c *redis.CachedVehicle) *domain.Vehicle {
	v := &domain.Vehicle{
		ID:          c.ID,
		OwnerID:     c.OwnerID,
		IsAvailable: c.IsAvailable,
		IsApproved:  c.IsApproved,
	}
	if c.HourlyRate != "" {
		if rate, err := decimal.NewFromString(c.HourlyRate); err == nil {
			v.HourlyRate = decimal.NullDecimal{Decimal: rate, Valid: true}
		}
	}
	if c.DailyRate != "" {
		if rate, err := decimal.NewFromString(c.DailyRate); err == nil {
			v.DailyRate = decimal.NullDecimal{Decimal: rate, Valid: true}
		}
	}
	return v
}

func vehicleToCached(v *domain.Vehicle) *redis.CachedVehicle {
	c := &redis.CachedVehicle{
		ID:          v.ID,
		OwnerID:     v.OwnerID,
		IsAvailable: v.IsAvailable,
		IsApproved:  v.IsApproved,
	}
	if v.HourlyRate.Valid {
		c.HourlyRate = v.HourlyRate.Decimal.String()
	}
	if v.DailyRate.Valid {
		c.DailyRate = v.DailyRate.Decimal.String()
	}
	return c
}

// normalizeInterval validates a requested interval and materializes the
// one-hour default window for open-ended requests.
func normalizeInterval(interval domain.Interval) (domain.Interval, error) {
	if !interval.Valid() {
		return domain.Interval{}, ErrInvalidInterval
	}
	if interval.OpenEnded() {
		interval.End = interval.Start.Add(defaultCarsharingWindow)
	}
	return interval, nil
}

func isValidLatitude(lat float64) bool {
	return lat >= -90 && lat <= 90
}

func isValidLongitude(lng float64) bool {
	return lng >= -180 && lng <= 180
}
