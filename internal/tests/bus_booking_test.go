package tests

import (
	"context"
	"sync"
	"testing"
	"time"

	"marketplace/internal/domain"
	"marketplace/internal/service"
)

func newTestRoute(id string, seats int) *domain.BusRoute {
	return &domain.BusRoute{
		ID:             id,
		AgencyID:       "agency-1",
		Origin:         "Paris",
		Destination:    "Lyon",
		DepartureTime:  time.Date(2026, 6, 1, 8, 30, 0, 0, time.UTC),
		AvailableSeats: seats,
		Price:          dec("14.50"),
	}
}

func newBusTestService(busRepo *MockBusRepository, bookingRepo *MockBookingRepository) *service.BusService {
	return service.NewBusService(nil, busRepo, bookingRepo, NewMockLockStore(), nil, testConfig())
}

func TestBookSeatFlipsSeatOnce(t *testing.T) {
	ctx := context.Background()
	busRepo := NewMockBusRepository()
	bookingRepo := NewMockBookingRepository()

	busRepo.AddRoute(newTestRoute("r-1", 40))
	busRepo.AddSeat(&domain.BusSeat{ID: "s-12", RouteID: "r-1", SeatNumber: "12A"})

	svc := newBusTestService(busRepo, bookingRepo)

	booking, err := svc.BookSeat(ctx, service.BookSeatRequest{
		UserID:  "user-1",
		RouteID: "r-1",
		SeatID:  "s-12",
	})
	if err != nil {
		t.Fatalf("BookSeat failed: %v", err)
	}

	if booking.Status != domain.BookingStatusPending {
		t.Errorf("expected pending status, got %s", booking.Status)
	}
	if booking.TotalPrice.StringFixed(2) != "14.50" {
		t.Errorf("expected route price 14.50, got %s", booking.TotalPrice.StringFixed(2))
	}
	if !booking.Interval.OpenEnded() {
		t.Error("expected seat booking interval to be open-ended past departure")
	}

	seat := busRepo.GetSeat("s-12")
	if !seat.IsBooked {
		t.Error("expected seat flag to flip")
	}
	if seat.BookedBy != "user-1" {
		t.Errorf("expected seat booked by user-1, got %s", seat.BookedBy)
	}
	if got := busRepo.GetRoute("r-1").AvailableSeats; got != 39 {
		t.Errorf("expected 39 seats left, got %d", got)
	}

	// Second attempt on the same seat fails, whatever the interval.
	_, err = svc.BookSeat(ctx, service.BookSeatRequest{
		UserID:  "user-2",
		RouteID: "r-1",
		SeatID:  "s-12",
	})
	if err != service.ErrResourceUnavailable {
		t.Errorf("expected ErrResourceUnavailable, got %v", err)
	}
}

func TestBookSeatWrongRoute(t *testing.T) {
	busRepo := NewMockBusRepository()
	busRepo.AddRoute(newTestRoute("r-1", 40))
	busRepo.AddRoute(newTestRoute("r-2", 40))
	busRepo.AddSeat(&domain.BusSeat{ID: "s-1", RouteID: "r-1", SeatNumber: "1A"})

	svc := newBusTestService(busRepo, NewMockBookingRepository())

	_, err := svc.BookSeat(context.Background(), service.BookSeatRequest{
		UserID:  "user-1",
		RouteID: "r-2",
		SeatID:  "s-1",
	})
	if err != service.ErrInvalidSeatID {
		t.Errorf("expected ErrInvalidSeatID, got %v", err)
	}
}

// TestConcurrentSeatBookingSingleWinner races several bookings for the same
// seat; the guarded flag flip must admit exactly one.
func TestConcurrentSeatBookingSingleWinner(t *testing.T) {
	ctx := context.Background()
	busRepo := NewMockBusRepository()
	bookingRepo := NewMockBookingRepository()

	busRepo.AddRoute(newTestRoute("r-1", 40))
	busRepo.AddSeat(&domain.BusSeat{ID: "s-7", RouteID: "r-1", SeatNumber: "7C"})

	svc := newBusTestService(busRepo, bookingRepo)

	const attempts = 8
	var wg sync.WaitGroup
	errs := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.BookSeat(ctx, service.BookSeatRequest{
				UserID:  "user-race",
				RouteID: "r-1",
				SeatID:  "s-7",
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
	if got := busRepo.GetRoute("r-1").AvailableSeats; got != 39 {
		t.Errorf("expected exactly one decrement, seats left %d", got)
	}
}

func TestListSeatsRequiresRoute(t *testing.T) {
	svc := newBusTestService(NewMockBusRepository(), NewMockBookingRepository())
	if _, err := svc.ListSeats(context.Background(), ""); err != service.ErrInvalidRouteID {
		t.Errorf("expected ErrInvalidRouteID, got %v", err)
	}
}
