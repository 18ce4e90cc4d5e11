package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"marketplace/internal/config"
	"marketplace/internal/domain"
	"marketplace/internal/pricing"
	"marketplace/internal/redis"
	"marketplace/internal/repository"
	"marketplace/internal/repository/postgres"
)

// BusService handles route listings and seat bookings.
type BusService struct {
	db          *sql.DB
	busRepo     repository.BusRepository
	bookingRepo repository.BookingRepository
	lockStore   redis.LockStoreInterface
	notifier    *NotificationService
	cfg         config.MarketplaceConfig
}

// NewBusService creates a new BusService.
func NewBusService(
	db *sql.DB,
	busRepo repository.BusRepository,
	bookingRepo repository.BookingRepository,
	lockStore redis.LockStoreInterface,
	notifier *NotificationService,
	cfg config.MarketplaceConfig,
) *BusService {
	return &BusService{
		db:          db,
		busRepo:     busRepo,
		bookingRepo: bookingRepo,
		lockStore:   lockStore,
		notifier:    notifier,
		cfg:         cfg,
	}
}

// ListRoutes retrieves all routes.
func (s *BusService) ListRoutes(ctx context.Context) ([]*domain.BusRoute, error) {
	return s.busRepo.ListRoutes(ctx)
}

// ListSeats retrieves the seats on a route.
func (s *BusService) ListSeats(ctx context.Context, routeID string) ([]*domain.BusSeat, error) {
	if routeID == "" {
		return nil, ErrInvalidRouteID
	}
	if _, err := s.busRepo.GetRouteByID(ctx, routeID); err != nil {
		return nil, err
	}
	return s.busRepo.ListSeatsByRoute(ctx, routeID)
}

// BookSeatRequest contains the parameters for booking a bus seat.
type BookSeatRequest struct {
	UserID  string
	RouteID string
	SeatID  string
	Notes   string
}

// BookSeat creates a bus-seat booking at the route's fixed price. The seat's
// booked flag flips false -> true exactly once, in the same transaction as
// the booking row: there is never a flipped seat without a booking or a
// booking on an unflipped seat. A seat that is already booked surfaces as
// ErrResourceUnavailable.
func (s *BusService) BookSeat(ctx context.Context, req BookSeatRequest) (*domain.Booking, error) {
	if req.UserID == "" {
		return nil, ErrInvalidUserID
	}
	if req.RouteID == "" {
		return nil, ErrInvalidRouteID
	}
	if req.SeatID == "" {
		return nil, ErrInvalidSeatID
	}

	route, err := s.busRepo.GetRouteByID(ctx, req.RouteID)
	if err != nil {
		return nil, err
	}

	seat, err := s.busRepo.GetSeatByID(ctx, req.SeatID)
	if err != nil {
		return nil, err
	}
	if seat.RouteID != req.RouteID {
		return nil, ErrInvalidSeatID
	}
	if seat.IsBooked {
		return nil, ErrResourceUnavailable
	}

	if s.lockStore != nil {
		locked, err := s.lockStore.AcquireResourceLock(ctx, domain.BookingKindBusSeat, req.SeatID, s.cfg.BookingLockTTL)
		if err != nil {
			return nil, err
		}
		if !locked {
			return nil, ErrResourceUnavailable
		}
		defer s.lockStore.ReleaseResourceLock(ctx, domain.BookingKindBusSeat, req.SeatID)
	}

	now := time.Now()
	booking := &domain.Booking{
		ID:         uuid.New().String(),
		UserID:     req.UserID,
		Kind:       domain.BookingKindBusSeat,
		Status:     domain.BookingStatusPending,
		Interval:   domain.NewInterval(route.DepartureTime, time.Time{}),
		TotalPrice: pricing.BusSeat(route),
		CreatedAt:  now,
		UpdatedAt:  now,
		BusSeat: &domain.BusSeatDetails{
			RouteID:  route.ID,
			SeatID:   seat.ID,
			AgencyID: route.AgencyID,
			Notes:    req.Notes,
		},
	}

	if err := s.persistSeatBooking(ctx, booking, route.ID, seat.ID, now); err != nil {
		if errors.Is(err, repository.ErrSeatTaken) {
			return nil, ErrResourceUnavailable
		}
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.NotifyBookingCreated(ctx, booking)
	}

	return booking, nil
}

// persistSeatBooking writes the seat flag flip, the seat-count decrement and
// the booking row in one transaction. The guarded flag update is the
// authoritative arbiter under concurrency.
func (s *BusService) persistSeatBooking(ctx context.Context, booking *domain.Booking, routeID, seatID string, at time.Time) error {
	if s.db == nil {
		if err := s.busRepo.MarkSeatBooked(ctx, seatID, booking.UserID, at); err != nil {
			return err
		}
		if err := s.busRepo.DecrementAvailableSeats(ctx, routeID); err != nil {
			return err
		}
		return s.bookingRepo.Create(ctx, booking)
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

	txBusRepo := postgres.NewBusRepositoryWithTx(tx)
	txBookingRepo := postgres.NewBookingRepositoryWithTx(tx)

	if err = txBusRepo.MarkSeatBooked(ctx, seatID, booking.UserID, at); err != nil {
		return err
	}
	if err = txBusRepo.DecrementAvailableSeats(ctx, routeID); err != nil {
		return err
	}
	if err = txBookingRepo.Create(ctx, booking); err != nil {
		return err
	}

	return tx.Commit()
}
