package tests

import (
	"context"
	"testing"
	"time"

	"marketplace/internal/domain"
	"marketplace/internal/service"
)

func completedCarsharingBooking(id, userID, driverID string) *domain.Booking {
	return &domain.Booking{
		ID:         id,
		UserID:     userID,
		Kind:       domain.BookingKindCarsharing,
		Status:     domain.BookingStatusCompleted,
		Interval:   testInterval(2),
		Carsharing: &domain.CarsharingDetails{VehicleID: "v-1", DriverID: driverID},
	}
}

func newReviewTestService(reviewRepo *MockReviewRepository, bookingRepo *MockBookingRepository, driverRepo *MockDriverRepository, providerRepo *MockProviderRepository) *service.ReviewService {
	return service.NewReviewService(nil, reviewRepo, bookingRepo, driverRepo, providerRepo)
}

func TestSubmitReviewOncePerBooking(t *testing.T) {
	ctx := context.Background()
	reviewRepo := NewMockReviewRepository()
	bookingRepo := NewMockBookingRepository()
	driverRepo := NewMockDriverRepository()

	driverRepo.AddDriver(&domain.Driver{ID: "driver-1"})
	bookingRepo.AddBooking(completedCarsharingBooking("b-1", "user-1", "driver-1"))

	svc := newReviewTestService(reviewRepo, bookingRepo, driverRepo, NewMockProviderRepository())

	review, err := svc.Submit(ctx, service.SubmitReviewRequest{
		BookingID:  "b-1",
		ReviewerID: "user-1",
		Rating:     5,
		Comment:    "spotless",
	})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if review.TargetID != "driver-1" {
		t.Errorf("expected target driver-1, got %s", review.TargetID)
	}
	if review.Type != domain.ReviewTypeCarsharing {
		t.Errorf("expected carsharing type, got %s", review.Type)
	}

	// Second review for the same booking is rejected.
	_, err = svc.Submit(ctx, service.SubmitReviewRequest{
		BookingID:  "b-1",
		ReviewerID: "user-1",
		Rating:     1,
	})
	if err != service.ErrReviewAlreadyExists {
		t.Errorf("expected ErrReviewAlreadyExists, got %v", err)
	}

	// The rating from the first review stands.
	if got := driverRepo.GetDriver("driver-1").DriverRating; got != 5.0 {
		t.Errorf("expected rating 5.0, got %v", got)
	}
}

func TestSubmitReviewRecomputesMean(t *testing.T) {
	ctx := context.Background()
	reviewRepo := NewMockReviewRepository()
	bookingRepo := NewMockBookingRepository()
	driverRepo := NewMockDriverRepository()

	driverRepo.AddDriver(&domain.Driver{ID: "driver-1"})
	bookingRepo.AddBooking(completedCarsharingBooking("b-1", "user-1", "driver-1"))
	bookingRepo.AddBooking(completedCarsharingBooking("b-2", "user-2", "driver-1"))
	bookingRepo.AddBooking(completedCarsharingBooking("b-3", "user-3", "driver-1"))

	svc := newReviewTestService(reviewRepo, bookingRepo, driverRepo, NewMockProviderRepository())

	for _, tc := range []struct {
		bookingID string
		userID    string
		rating    int
	}{
		{"b-1", "user-1", 5},
		{"b-2", "user-2", 3},
		{"b-3", "user-3", 4},
	} {
		if _, err := svc.Submit(ctx, service.SubmitReviewRequest{
			BookingID:  tc.bookingID,
			ReviewerID: tc.userID,
			Rating:     tc.rating,
		}); err != nil {
			t.Fatalf("Submit %s failed: %v", tc.bookingID, err)
		}
	}

	// Mean of 5, 3, 4.
	if got := driverRepo.GetDriver("driver-1").DriverRating; got != 4.0 {
		t.Errorf("expected rating 4.0, got %v", got)
	}
}

func TestSubmitReviewGuards(t *testing.T) {
	ctx := context.Background()
	reviewRepo := NewMockReviewRepository()
	bookingRepo := NewMockBookingRepository()
	driverRepo := NewMockDriverRepository()

	driverRepo.AddDriver(&domain.Driver{ID: "driver-1"})

	// Not yet completed.
	active := completedCarsharingBooking("b-active", "user-1", "driver-1")
	active.Status = domain.BookingStatusConfirmed
	bookingRepo.AddBooking(active)

	// Bus bookings carry no reviewable target.
	bookingRepo.AddBooking(&domain.Booking{
		ID:       "b-bus",
		UserID:   "user-1",
		Kind:     domain.BookingKindBusSeat,
		Status:   domain.BookingStatusCompleted,
		Interval: domain.NewInterval(time.Date(2026, 6, 1, 8, 30, 0, 0, time.UTC), time.Time{}),
		BusSeat:  &domain.BusSeatDetails{RouteID: "r-1", SeatID: "s-1"},
	})

	bookingRepo.AddBooking(completedCarsharingBooking("b-done", "user-1", "driver-1"))

	svc := newReviewTestService(reviewRepo, bookingRepo, driverRepo, NewMockProviderRepository())

	if _, err := svc.Submit(ctx, service.SubmitReviewRequest{BookingID: "b-active", ReviewerID: "user-1", Rating: 5}); err != service.ErrBookingNotCompleted {
		t.Errorf("expected ErrBookingNotCompleted, got %v", err)
	}
	if _, err := svc.Submit(ctx, service.SubmitReviewRequest{BookingID: "b-bus", ReviewerID: "user-1", Rating: 5}); err != service.ErrBookingNotReviewable {
		t.Errorf("expected ErrBookingNotReviewable, got %v", err)
	}
	if _, err := svc.Submit(ctx, service.SubmitReviewRequest{BookingID: "b-done", ReviewerID: "user-2", Rating: 5}); err != service.ErrForbidden {
		t.Errorf("expected ErrForbidden for a non-owner, got %v", err)
	}
	if _, err := svc.Submit(ctx, service.SubmitReviewRequest{BookingID: "b-done", ReviewerID: "user-1", Rating: 6}); err != service.ErrInvalidRating {
		t.Errorf("expected ErrInvalidRating, got %v", err)
	}
	if _, err := svc.Submit(ctx, service.SubmitReviewRequest{BookingID: "b-done", ReviewerID: "user-1", Rating: 0}); err != service.ErrInvalidRating {
		t.Errorf("expected ErrInvalidRating for zero, got %v", err)
	}
}

func TestSubmitDetailingReviewTargetsProvider(t *testing.T) {
	ctx := context.Background()
	reviewRepo := NewMockReviewRepository()
	bookingRepo := NewMockBookingRepository()
	providerRepo := NewMockProviderRepository()

	providerRepo.AddProvider(&domain.Provider{ID: "p-1", ServiceRadiusKm: 15})
	bookingRepo.AddBooking(&domain.Booking{
		ID:        "b-1",
		UserID:    "user-1",
		Kind:      domain.BookingKindDetailing,
		Status:    domain.BookingStatusCompleted,
		Interval:  testInterval(2),
		Detailing: &domain.DetailingDetails{ServiceID: "svc-1", ProviderID: "p-1", VehicleID: "v-1"},
	})

	svc := newReviewTestService(reviewRepo, bookingRepo, NewMockDriverRepository(), providerRepo)

	review, err := svc.Submit(ctx, service.SubmitReviewRequest{
		BookingID:  "b-1",
		ReviewerID: "user-1",
		Rating:     4,
	})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if review.Type != domain.ReviewTypeDetailing {
		t.Errorf("expected detailing type, got %s", review.Type)
	}
	if got := providerRepo.GetProvider("p-1").DetailingRating; got != 4.0 {
		t.Errorf("expected provider rating 4.0, got %v", got)
	}
}
