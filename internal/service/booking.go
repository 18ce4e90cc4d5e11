package service

import (
	"context"
	"database/sql"
	"time"

	"marketplace/internal/config"
	"marketplace/internal/domain"
	"marketplace/internal/repository"
	"marketplace/internal/repository/postgres"
)

const historyLimit = 20

// BookingService owns the booking state machine shared by all variants:
// pending -> confirmed -> completed, with cancellation from any non-terminal
// state. Bookings are never deleted.
type BookingService struct {
	db          *sql.DB
	bookingRepo repository.BookingRepository
	vehicleRepo repository.VehicleRepository
	busRepo     repository.BusRepository
	notifier    *NotificationService
	cfg         config.MarketplaceConfig
}

// NewBookingService creates a new BookingService.
func NewBookingService(
	db *sql.DB,
	bookingRepo repository.BookingRepository,
	vehicleRepo repository.VehicleRepository,
	busRepo repository.BusRepository,
	notifier *NotificationService,
	cfg config.MarketplaceConfig,
) *BookingService {
	return &BookingService{
		db:          db,
		bookingRepo: bookingRepo,
		vehicleRepo: vehicleRepo,
		busRepo:     busRepo,
		notifier:    notifier,
		cfg:         cfg,
	}
}

// Get retrieves a booking by ID.
func (s *BookingService) Get(ctx context.Context, bookingID string) (*domain.Booking, error) {
	if bookingID == "" {
		return nil, ErrInvalidBookingID
	}
	return s.bookingRepo.GetByID(ctx, bookingID)
}

// Upcoming retrieves a user's active bookings.
func (s *BookingService) Upcoming(ctx context.Context, userID string) ([]*domain.Booking, error) {
	if userID == "" {
		return nil, ErrInvalidUserID
	}
	statuses := []domain.BookingStatus{
		domain.BookingStatusPending,
		domain.BookingStatusConfirmed,
		domain.BookingStatusInProgress,
	}
	return s.bookingRepo.ListByUser(ctx, userID, statuses, historyLimit)
}

// History retrieves a user's finished bookings, most recent first.
func (s *BookingService) History(ctx context.Context, userID string) ([]*domain.Booking, error) {
	if userID == "" {
		return nil, ErrInvalidUserID
	}
	statuses := []domain.BookingStatus{
		domain.BookingStatusCompleted,
		domain.BookingStatusCanceled,
	}
	return s.bookingRepo.ListByUser(ctx, userID, statuses, historyLimit)
}

// Cancel transitions a booking to canceled. Only the original requester may
// cancel, and only from a non-terminal state. Whether the held resource
// (vehicle flag, bus seat) is released is governed by the ReleaseOnCancel
// policy; the historical default keeps it held.
func (s *BookingService) Cancel(ctx context.Context, bookingID, requesterID string) (*domain.Booking, error) {
	if bookingID == "" {
		return nil, ErrInvalidBookingID
	}
	if requesterID == "" {
		return nil, ErrInvalidUserID
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.UserID != requesterID {
		return nil, ErrForbidden
	}
	if booking.Status.Terminal() {
		return nil, ErrBookingNotCancelable
	}

	now := time.Now()
	booking.Status = domain.BookingStatusCanceled
	booking.CanceledAt = now
	booking.UpdatedAt = now

	if err := s.persistCancel(ctx, booking); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.NotifyBookingCanceled(ctx, booking)
	}

	return booking, nil
}

func (s *BookingService) persistCancel(ctx context.Context, booking *domain.Booking) error {
	if s.db == nil {
		if err := s.bookingRepo.Update(ctx, booking); err != nil {
			return err
		}
		if !s.cfg.ReleaseOnCancel {
			return nil
		}
		switch booking.Kind {
		case domain.BookingKindCarsharing:
			return s.vehicleRepo.SetAvailability(ctx, booking.Carsharing.VehicleID, true)
		case domain.BookingKindBusSeat:
			return s.busRepo.ReleaseSeat(ctx, booking.BusSeat.SeatID)
		}
		return nil
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
	if err = txBookingRepo.Update(ctx, booking); err != nil {
		return err
	}
	if s.cfg.ReleaseOnCancel {
		switch booking.Kind {
		case domain.BookingKindCarsharing:
			txVehicleRepo := postgres.NewVehicleRepositoryWithTx(tx)
			if err = txVehicleRepo.SetAvailability(ctx, booking.Carsharing.VehicleID, true); err != nil {
				return err
			}
		case domain.BookingKindBusSeat:
			txBusRepo := postgres.NewBusRepositoryWithTx(tx)
			if err = txBusRepo.ReleaseSeat(ctx, booking.BusSeat.SeatID); err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

// Start moves a confirmed detailing booking to in_progress, marking the
// moment the provider begins work. Other booking kinds have no in-progress
// phase.
func (s *BookingService) Start(ctx context.Context, bookingID string) (*domain.Booking, error) {
	if bookingID == "" {
		return nil, ErrInvalidBookingID
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.Kind != domain.BookingKindDetailing {
		return nil, ErrBookingNotStartable
	}
	if booking.Status != domain.BookingStatusConfirmed {
		return nil, ErrBookingNotStartable
	}

	booking.Status = domain.BookingStatusInProgress
	booking.UpdatedAt = time.Now()

	if err := s.bookingRepo.Update(ctx, booking); err != nil {
		return nil, err
	}

	return booking, nil
}

// Complete marks an active booking completed, unlocking review submission.
func (s *BookingService) Complete(ctx context.Context, bookingID string) (*domain.Booking, error) {
	if bookingID == "" {
		return nil, ErrInvalidBookingID
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	switch booking.Status {
	case domain.BookingStatusConfirmed, domain.BookingStatusInProgress:
		// completable
	default:
		return nil, ErrBookingNotCompletable
	}

	booking.Status = domain.BookingStatusCompleted
	booking.UpdatedAt = time.Now()

	if err := s.bookingRepo.Update(ctx, booking); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.NotifyBookingCompleted(ctx, booking)
	}

	return booking, nil
}
