package tests

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"marketplace/internal/domain"
	"marketplace/internal/service"
)

func parisPickup() domain.Location {
	return domain.Location{Address: "1 Rue de Rivoli", Lat: 48.8566, Lng: 2.3522}
}

func TestBookVehicleCreatesPendingAndHoldsVehicle(t *testing.T) {
	ctx := context.Background()
	vehicleRepo := NewMockVehicleRepository()
	bookingRepo := NewMockBookingRepository()
	vehicleRepo.AddVehicle(newTestVehicle("v-1", 48.8566, 2.3522))

	svc := newCarsharingService(vehicleRepo, bookingRepo)

	booking, err := svc.Book(ctx, service.BookVehicleRequest{
		UserID:    "user-1",
		VehicleID: "v-1",
		Interval:  testInterval(2),
		Pickup:    parisPickup(),
	})
	if err != nil {
		t.Fatalf("Book failed: %v", err)
	}

	if booking.Status != domain.BookingStatusPending {
		t.Errorf("expected pending status, got %s", booking.Status)
	}
	if booking.Kind != domain.BookingKindCarsharing {
		t.Errorf("expected carsharing kind, got %s", booking.Kind)
	}
	// 2h at hourly rate 10.
	if booking.TotalPrice.StringFixed(2) != "20.00" {
		t.Errorf("expected total 20.00, got %s", booking.TotalPrice.StringFixed(2))
	}
	if booking.Carsharing.DriverID != "owner-v-1" {
		t.Errorf("expected driver owner-v-1, got %s", booking.Carsharing.DriverID)
	}

	// Creation flips the exclusivity flag.
	if vehicleRepo.GetVehicle("v-1").IsAvailable {
		t.Error("expected vehicle to be held after booking")
	}
	if bookingRepo.GetBooking(booking.ID) == nil {
		t.Error("expected booking to be persisted")
	}
}

func TestBookVehicleOpenEndedUsesDefaultWindow(t *testing.T) {
	ctx := context.Background()
	vehicleRepo := NewMockVehicleRepository()
	bookingRepo := NewMockBookingRepository()
	vehicleRepo.AddVehicle(newTestVehicle("v-1", 48.8566, 2.3522))

	svc := newCarsharingService(vehicleRepo, bookingRepo)

	start := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	booking, err := svc.Book(ctx, service.BookVehicleRequest{
		UserID:    "user-1",
		VehicleID: "v-1",
		Interval:  domain.NewInterval(start, time.Time{}),
		Pickup:    parisPickup(),
	})
	if err != nil {
		t.Fatalf("Book failed: %v", err)
	}

	if got := booking.Interval.End.Sub(booking.Interval.Start); got != time.Hour {
		t.Errorf("expected one-hour default window, got %v", got)
	}
	// 1h at hourly rate 10.
	if booking.TotalPrice.StringFixed(2) != "10.00" {
		t.Errorf("expected total 10.00, got %s", booking.TotalPrice.StringFixed(2))
	}
}

func TestBookVehicleRejectsConflict(t *testing.T) {
	ctx := context.Background()
	vehicleRepo := NewMockVehicleRepository()
	bookingRepo := NewMockBookingRepository()
	vehicleRepo.AddVehicle(newTestVehicle("v-1", 48.8566, 2.3522))

	svc := newCarsharingService(vehicleRepo, bookingRepo)

	if _, err := svc.Book(ctx, service.BookVehicleRequest{
		UserID:    "user-1",
		VehicleID: "v-1",
		Interval:  testInterval(4),
		Pickup:    parisPickup(),
	}); err != nil {
		t.Fatalf("first Book failed: %v", err)
	}

	// Overlapping interval on the same vehicle loses.
	_, err := svc.Book(ctx, service.BookVehicleRequest{
		UserID:    "user-2",
		VehicleID: "v-1",
		Interval:  testInterval(2),
		Pickup:    parisPickup(),
	})
	if err != service.ErrResourceUnavailable {
		t.Errorf("expected ErrResourceUnavailable, got %v", err)
	}
}

// TestConcurrentBookingSingleWinner drives two goroutines at the same
// vehicle and overlapping interval: exactly one booking must be created.
func TestConcurrentBookingSingleWinner(t *testing.T) {
	ctx := context.Background()
	vehicleRepo := NewMockVehicleRepository()
	bookingRepo := NewMockBookingRepository()
	vehicleRepo.AddVehicle(newTestVehicle("v-1", 48.8566, 2.3522))

	svc := newCarsharingService(vehicleRepo, bookingRepo)

	const attempts = 8
	var wg sync.WaitGroup
	errs := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Book(ctx, service.BookVehicleRequest{
				UserID:    "user-concurrent",
				VehicleID: "v-1",
				Interval:  testInterval(3),
				Pickup:    parisPickup(),
			})
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		switch err {
		case nil:
			successes++
		case service.ErrResourceUnavailable:
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}

	if successes != 1 {
		t.Errorf("expected exactly 1 winner, got %d", successes)
	}
	if got := bookingRepo.CreateCallCount; got != 1 {
		t.Errorf("expected 1 booking created, got %d", got)
	}
}

func TestBookVehicleUnknownVehicle(t *testing.T) {
	svc := newCarsharingService(NewMockVehicleRepository(), NewMockBookingRepository())

	_, err := svc.Book(context.Background(), service.BookVehicleRequest{
		UserID:    "user-1",
		VehicleID: "v-missing",
		Interval:  testInterval(2),
		Pickup:    parisPickup(),
	})
	if err == nil {
		t.Fatal("expected error for unknown vehicle")
	}
}

func TestQuoteMatchesBookingPrice(t *testing.T) {
	ctx := context.Background()
	vehicleRepo := NewMockVehicleRepository()
	bookingRepo := NewMockBookingRepository()
	vehicleRepo.AddVehicle(newTestVehicle("v-1", 48.8566, 2.3522))

	svc := newCarsharingService(vehicleRepo, bookingRepo)

	quote, err := svc.Quote(ctx, "v-1", testInterval(30))
	if err != nil {
		t.Fatalf("Quote failed: %v", err)
	}

	booking, err := svc.Book(ctx, service.BookVehicleRequest{
		UserID:    "user-1",
		VehicleID: "v-1",
		Interval:  testInterval(30),
		Pickup:    parisPickup(),
	})
	if err != nil {
		t.Fatalf("Book failed: %v", err)
	}

	if !quote.Equal(booking.TotalPrice) {
		t.Errorf("quote %s and booking price %s differ", quote, booking.TotalPrice)
	}
	// 30h falls on the daily path: 2 days at 50.
	if quote.StringFixed(2) != "100.00" {
		t.Errorf("expected 100.00, got %s", quote.StringFixed(2))
	}
}

// TestHourlyOnlyVehicleRejectsDailyTier verifies that a vehicle without a
// daily rate cannot be quoted or booked into the daily billing tier, instead
// of silently pricing it at zero.
func TestHourlyOnlyVehicleRejectsDailyTier(t *testing.T) {
	ctx := context.Background()
	vehicleRepo := NewMockVehicleRepository()
	bookingRepo := NewMockBookingRepository()

	hourlyOnly := newTestVehicle("v-hourly", 48.8566, 2.3522)
	hourlyOnly.DailyRate = decimal.NullDecimal{}
	vehicleRepo.AddVehicle(hourlyOnly)

	svc := newCarsharingService(vehicleRepo, bookingRepo)

	// Under 24 hours the hourly rate applies.
	price, err := svc.Quote(ctx, "v-hourly", testInterval(2))
	if err != nil {
		t.Fatalf("short Quote failed: %v", err)
	}
	if price.StringFixed(2) != "20.00" {
		t.Errorf("expected 20.00, got %s", price.StringFixed(2))
	}

	// At 30 hours the daily tier applies and there is no rate for it.
	if _, err := svc.Quote(ctx, "v-hourly", testInterval(30)); err != service.ErrVehicleRateMissing {
		t.Errorf("Quote: expected ErrVehicleRateMissing, got %v", err)
	}

	_, err = svc.Book(ctx, service.BookVehicleRequest{
		UserID:    "user-1",
		VehicleID: "v-hourly",
		Interval:  testInterval(30),
		Pickup:    parisPickup(),
	})
	if err != service.ErrVehicleRateMissing {
		t.Errorf("Book: expected ErrVehicleRateMissing, got %v", err)
	}
	if bookingRepo.CreateCallCount != 0 {
		t.Errorf("expected no booking rows, got %d creates", bookingRepo.CreateCallCount)
	}
}
