package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"marketplace/internal/config"
	"marketplace/internal/domain"
	"marketplace/internal/geo"
	"marketplace/internal/pricing"
	"marketplace/internal/redis"
	"marketplace/internal/repository"
)

// DetailingService handles provider search and detailing bookings.
// Providers carry no availability flag: a provider is available for an
// interval iff no confirmed or in-progress booking overlaps it.
type DetailingService struct {
	serviceRepo   repository.DetailingServiceRepository
	providerRepo  repository.ProviderRepository
	bookingRepo   repository.BookingRepository
	lockStore     redis.LockStoreInterface
	locationStore redis.LocationStoreInterface
	notifier      *NotificationService
	cfg           config.MarketplaceConfig
}

// NewDetailingService creates a new DetailingService.
func NewDetailingService(
	serviceRepo repository.DetailingServiceRepository,
	providerRepo repository.ProviderRepository,
	bookingRepo repository.BookingRepository,
	lockStore redis.LockStoreInterface,
	locationStore redis.LocationStoreInterface,
	notifier *NotificationService,
	cfg config.MarketplaceConfig,
) *DetailingService {
	return &DetailingService{
		serviceRepo:   serviceRepo,
		providerRepo:  providerRepo,
		bookingRepo:   bookingRepo,
		lockStore:     lockStore,
		locationStore: locationStore,
		notifier:      notifier,
		cfg:           cfg,
	}
}

// ProviderOffer is a provider able to perform a service at the requested
// time and place, with the price they would charge.
type ProviderOffer struct {
	Provider       *domain.Provider
	Service        *domain.DetailingService
	EstimatedPrice decimal.Decimal
}

// SearchProvidersRequest contains the parameters for a provider search.
type SearchProvidersRequest struct {
	ServiceID string
	Start     time.Time
	Lat       float64
	Lng       float64
	RadiusKm  float64 // advisory only; each provider's service radius binds
}

// FindAvailableProviders returns providers that can perform the service at
// the requested start time. The customer must lie within each provider's own
// service radius; the request's radius parameter does not constrain the
// result. Result keeps the pool's insertion order.
func (s *DetailingService) FindAvailableProviders(ctx context.Context, req SearchProvidersRequest) ([]ProviderOffer, error) {
	if req.ServiceID == "" {
		return nil, ErrInvalidServiceID
	}
	if req.Start.IsZero() {
		return nil, ErrInvalidInterval
	}
	if !isValidLatitude(req.Lat) || !isValidLongitude(req.Lng) {
		return nil, ErrInvalidLocation
	}

	svc, err := s.serviceRepo.GetByID(ctx, req.ServiceID)
	if err != nil {
		if err == repository.ErrNotFound {
			return []ProviderOffer{}, nil
		}
		return nil, err
	}
	if !svc.IsActive {
		return []ProviderOffer{}, nil
	}

	interval := domain.NewInterval(req.Start, req.Start.Add(svc.Duration))
	center := geo.Point{Lat: req.Lat, Lng: req.Lng}

	providers, err := s.providerRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	offers := make([]ProviderOffer, 0, len(providers))
	for _, provider := range providers {
		if !provider.HasLocation() {
			continue
		}
		point := geo.Point{Lat: *provider.Latitude, Lng: *provider.Longitude}
		if !geo.WithinRadius(center, point, provider.ServiceRadiusKm) {
			continue
		}

		conflicts, err := s.bookingRepo.CountOverlapping(ctx,
			domain.BookingKindDetailing, provider.ID,
			domain.ConflictStatuses(domain.BookingKindDetailing), interval)
		if err != nil {
			return nil, err
		}
		if conflicts > 0 {
			continue
		}

		offers = append(offers, ProviderOffer{
			Provider:       provider,
			Service:        svc,
			EstimatedPrice: pricing.Detailing(svc),
		})
	}

	return offers, nil
}

// ListServices retrieves the active detailing service definitions.
func (s *DetailingService) ListServices(ctx context.Context) ([]*domain.DetailingService, error) {
	return s.serviceRepo.ListActive(ctx)
}

// BookDetailingRequest contains the parameters for booking a detailing job.
type BookDetailingRequest struct {
	UserID     string
	ServiceID  string
	ProviderID string
	VehicleID  string
	Start      time.Time
	Location   domain.Location
	Notes      string
}

// Book creates a detailing booking. The interval's end is derived from the
// service duration; the price is the service's flat base price. Detailing
// bookings are created confirmed: there is no payment-gating step before
// provider commitment. The conflict re-check and insert run under a
// per-provider lock.
func (s *DetailingService) Book(ctx context.Context, req BookDetailingRequest) (*domain.Booking, error) {
	if req.UserID == "" {
		return nil, ErrInvalidUserID
	}
	if req.ServiceID == "" {
		return nil, ErrInvalidServiceID
	}
	if req.ProviderID == "" {
		return nil, ErrInvalidProviderID
	}
	if req.VehicleID == "" {
		return nil, ErrInvalidVehicleID
	}
	if req.Start.IsZero() {
		return nil, ErrInvalidInterval
	}
	if !isValidLatitude(req.Location.Lat) || !isValidLongitude(req.Location.Lng) {
		return nil, ErrInvalidLocation
	}

	svc, err := s.serviceRepo.GetByID(ctx, req.ServiceID)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, ErrServiceInactive
		}
		return nil, err
	}
	if !svc.IsActive {
		return nil, ErrServiceInactive
	}

	if _, err := s.providerRepo.GetByID(ctx, req.ProviderID); err != nil {
		return nil, err
	}

	interval := domain.NewInterval(req.Start, req.Start.Add(svc.Duration))

	if s.lockStore != nil {
		locked, err := s.lockStore.AcquireResourceLock(ctx, domain.BookingKindDetailing, req.ProviderID, s.cfg.BookingLockTTL)
		if err != nil {
			return nil, err
		}
		if !locked {
			return nil, ErrResourceUnavailable
		}
		defer s.lockStore.ReleaseResourceLock(ctx, domain.BookingKindDetailing, req.ProviderID)
	}

	conflicts, err := s.bookingRepo.CountOverlapping(ctx,
		domain.BookingKindDetailing, req.ProviderID,
		domain.ConflictStatuses(domain.BookingKindDetailing), interval)
	if err != nil {
		return nil, err
	}
	if conflicts > 0 {
		return nil, ErrResourceUnavailable
	}

	now := time.Now()
	booking := &domain.Booking{
		ID:         uuid.New().String(),
		UserID:     req.UserID,
		Kind:       domain.BookingKindDetailing,
		Status:     domain.BookingStatusConfirmed,
		Interval:   interval,
		TotalPrice: pricing.Detailing(svc),
		CreatedAt:  now,
		UpdatedAt:  now,
		Detailing: &domain.DetailingDetails{
			ServiceID:  req.ServiceID,
			ProviderID: req.ProviderID,
			VehicleID:  req.VehicleID,
			Location:   req.Location,
			Notes:      req.Notes,
		},
	}

	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.NotifyBookingCreated(ctx, booking)
	}

	return booking, nil
}

// UpdateProviderLocation stores a provider's coordinates and mirrors them
// into the location index.
func (s *DetailingService) UpdateProviderLocation(ctx context.Context, providerID string, lat, lng float64) error {
	if providerID == "" {
		return ErrInvalidProviderID
	}
	if !isValidLatitude(lat) || !isValidLongitude(lng) {
		return ErrInvalidLocation
	}

	if err := s.providerRepo.UpdateLocation(ctx, providerID, lat, lng); err != nil {
		return err
	}

	if s.locationStore != nil {
		if err := s.locationStore.UpdateProviderLocation(ctx, providerID, lat, lng); err != nil {
			return err
		}
	}
	return nil
}
