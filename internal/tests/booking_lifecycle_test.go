package tests

import (
	"context"
	"testing"
	"time"

	"marketplace/internal/config"
	"marketplace/internal/domain"
	"marketplace/internal/service"
)

func newBookingLifecycleService(bookingRepo *MockBookingRepository, vehicleRepo *MockVehicleRepository, busRepo *MockBusRepository, cfg config.MarketplaceConfig) *service.BookingService {
	return service.NewBookingService(nil, bookingRepo, vehicleRepo, busRepo, nil, cfg)
}

func pendingCarsharingBooking(id, userID, vehicleID string) *domain.Booking {
	now := time.Now()
	return &domain.Booking{
		ID:         id,
		UserID:     userID,
		Kind:       domain.BookingKindCarsharing,
		Status:     domain.BookingStatusPending,
		Interval:   testInterval(2),
		TotalPrice: dec("20"),
		CreatedAt:  now,
		UpdatedAt:  now,
		Carsharing: &domain.CarsharingDetails{VehicleID: vehicleID, DriverID: "driver-1"},
	}
}

func TestCancelRequesterOnly(t *testing.T) {
	ctx := context.Background()
	bookingRepo := NewMockBookingRepository()
	bookingRepo.AddBooking(pendingCarsharingBooking("b-1", "user-1", "v-1"))

	svc := newBookingLifecycleService(bookingRepo, NewMockVehicleRepository(), NewMockBusRepository(), testConfig())

	// Someone else cannot cancel.
	if _, err := svc.Cancel(ctx, "b-1", "user-2"); err != service.ErrForbidden {
		t.Errorf("expected ErrForbidden, got %v", err)
	}

	// The requester can.
	booking, err := svc.Cancel(ctx, "b-1", "user-1")
	if err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}
	if booking.Status != domain.BookingStatusCanceled {
		t.Errorf("expected canceled status, got %s", booking.Status)
	}
	if booking.CanceledAt.IsZero() {
		t.Error("expected CanceledAt to be set")
	}
}

func TestCancelTerminalStatesRejected(t *testing.T) {
	ctx := context.Background()
	bookingRepo := NewMockBookingRepository()

	completed := pendingCarsharingBooking("b-done", "user-1", "v-1")
	completed.Status = domain.BookingStatusCompleted
	bookingRepo.AddBooking(completed)

	canceled := pendingCarsharingBooking("b-canceled", "user-1", "v-1")
	canceled.Status = domain.BookingStatusCanceled
	bookingRepo.AddBooking(canceled)

	svc := newBookingLifecycleService(bookingRepo, NewMockVehicleRepository(), NewMockBusRepository(), testConfig())

	if _, err := svc.Cancel(ctx, "b-done", "user-1"); err != service.ErrBookingNotCancelable {
		t.Errorf("completed: expected ErrBookingNotCancelable, got %v", err)
	}
	if _, err := svc.Cancel(ctx, "b-canceled", "user-1"); err != service.ErrBookingNotCancelable {
		t.Errorf("canceled: expected ErrBookingNotCancelable, got %v", err)
	}
}

func TestCancelKeepsResourceHeldByDefault(t *testing.T) {
	ctx := context.Background()
	bookingRepo := NewMockBookingRepository()
	vehicleRepo := NewMockVehicleRepository()

	vehicle := newTestVehicle("v-1", 48.8566, 2.3522)
	vehicle.IsAvailable = false // held by the booking
	vehicleRepo.AddVehicle(vehicle)
	bookingRepo.AddBooking(pendingCarsharingBooking("b-1", "user-1", "v-1"))

	svc := newBookingLifecycleService(bookingRepo, vehicleRepo, NewMockBusRepository(), testConfig())

	if _, err := svc.Cancel(ctx, "b-1", "user-1"); err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}

	// Default policy: cancellation does not free the vehicle.
	if vehicleRepo.GetVehicle("v-1").IsAvailable {
		t.Error("expected vehicle to stay held after cancel")
	}
}

func TestCancelReleasesResourcesWhenConfigured(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig()
	cfg.ReleaseOnCancel = true

	bookingRepo := NewMockBookingRepository()
	vehicleRepo := NewMockVehicleRepository()
	busRepo := NewMockBusRepository()

	vehicle := newTestVehicle("v-1", 48.8566, 2.3522)
	vehicle.IsAvailable = false
	vehicleRepo.AddVehicle(vehicle)
	bookingRepo.AddBooking(pendingCarsharingBooking("b-car", "user-1", "v-1"))

	busRepo.AddRoute(newTestRoute("r-1", 39))
	busRepo.AddSeat(&domain.BusSeat{ID: "s-1", RouteID: "r-1", SeatNumber: "1A", IsBooked: true, BookedBy: "user-1"})
	bookingRepo.AddBooking(&domain.Booking{
		ID:       "b-bus",
		UserID:   "user-1",
		Kind:     domain.BookingKindBusSeat,
		Status:   domain.BookingStatusPending,
		Interval: domain.NewInterval(time.Date(2026, 6, 1, 8, 30, 0, 0, time.UTC), time.Time{}),
		BusSeat:  &domain.BusSeatDetails{RouteID: "r-1", SeatID: "s-1"},
	})

	svc := newBookingLifecycleService(bookingRepo, vehicleRepo, busRepo, cfg)

	if _, err := svc.Cancel(ctx, "b-car", "user-1"); err != nil {
		t.Fatalf("Cancel carsharing failed: %v", err)
	}
	if !vehicleRepo.GetVehicle("v-1").IsAvailable {
		t.Error("expected vehicle to be released")
	}

	if _, err := svc.Cancel(ctx, "b-bus", "user-1"); err != nil {
		t.Fatalf("Cancel bus failed: %v", err)
	}
	if busRepo.GetSeat("s-1").IsBooked {
		t.Error("expected seat to be released")
	}
	if got := busRepo.GetRoute("r-1").AvailableSeats; got != 40 {
		t.Errorf("expected seat count restored to 40, got %d", got)
	}
}

func TestStartDetailingOnly(t *testing.T) {
	ctx := context.Background()
	bookingRepo := NewMockBookingRepository()

	detailing := pendingCarsharingBooking("b-det", "user-1", "")
	detailing.Kind = domain.BookingKindDetailing
	detailing.Status = domain.BookingStatusConfirmed
	detailing.Carsharing = nil
	detailing.Detailing = &domain.DetailingDetails{ServiceID: "svc-1", ProviderID: "prov-1"}
	bookingRepo.AddBooking(detailing)

	carsharing := pendingCarsharingBooking("b-car", "user-1", "v-1")
	carsharing.Status = domain.BookingStatusConfirmed
	bookingRepo.AddBooking(carsharing)

	svc := newBookingLifecycleService(bookingRepo, NewMockVehicleRepository(), NewMockBusRepository(), testConfig())

	booking, err := svc.Start(ctx, "b-det")
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if booking.Status != domain.BookingStatusInProgress {
		t.Errorf("expected in_progress, got %s", booking.Status)
	}

	// Already started.
	if _, err := svc.Start(ctx, "b-det"); err != service.ErrBookingNotStartable {
		t.Errorf("expected ErrBookingNotStartable on repeat, got %v", err)
	}

	// Carsharing bookings have no in-progress phase.
	if _, err := svc.Start(ctx, "b-car"); err != service.ErrBookingNotStartable {
		t.Errorf("expected ErrBookingNotStartable for carsharing, got %v", err)
	}

	// An in-progress detailing booking can still complete.
	completed, err := svc.Complete(ctx, "b-det")
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if completed.Status != domain.BookingStatusCompleted {
		t.Errorf("expected completed, got %s", completed.Status)
	}
}

func TestCompleteTransitions(t *testing.T) {
	ctx := context.Background()
	bookingRepo := NewMockBookingRepository()

	confirmed := pendingCarsharingBooking("b-1", "user-1", "v-1")
	confirmed.Status = domain.BookingStatusConfirmed
	bookingRepo.AddBooking(confirmed)

	pending := pendingCarsharingBooking("b-2", "user-1", "v-1")
	bookingRepo.AddBooking(pending)

	svc := newBookingLifecycleService(bookingRepo, NewMockVehicleRepository(), NewMockBusRepository(), testConfig())

	booking, err := svc.Complete(ctx, "b-1")
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if booking.Status != domain.BookingStatusCompleted {
		t.Errorf("expected completed status, got %s", booking.Status)
	}

	// Unpaid pending bookings cannot complete.
	if _, err := svc.Complete(ctx, "b-2"); err != service.ErrBookingNotCompletable {
		t.Errorf("expected ErrBookingNotCompletable, got %v", err)
	}
	// Neither can an already completed one.
	if _, err := svc.Complete(ctx, "b-1"); err != service.ErrBookingNotCompletable {
		t.Errorf("expected ErrBookingNotCompletable on repeat, got %v", err)
	}
}

func TestUpcomingAndHistorySplit(t *testing.T) {
	ctx := context.Background()
	bookingRepo := NewMockBookingRepository()

	active := pendingCarsharingBooking("b-active", "user-1", "v-1")
	bookingRepo.AddBooking(active)

	done := pendingCarsharingBooking("b-done", "user-1", "v-2")
	done.Status = domain.BookingStatusCompleted
	bookingRepo.AddBooking(done)

	other := pendingCarsharingBooking("b-other", "user-2", "v-3")
	bookingRepo.AddBooking(other)

	svc := newBookingLifecycleService(bookingRepo, NewMockVehicleRepository(), NewMockBusRepository(), testConfig())

	upcoming, err := svc.Upcoming(ctx, "user-1")
	if err != nil {
		t.Fatalf("Upcoming failed: %v", err)
	}
	if len(upcoming) != 1 || upcoming[0].ID != "b-active" {
		t.Errorf("expected only b-active upcoming, got %v", upcoming)
	}

	history, err := svc.History(ctx, "user-1")
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(history) != 1 || history[0].ID != "b-done" {
		t.Errorf("expected only b-done in history, got %v", history)
	}
}
