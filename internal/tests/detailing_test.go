package tests

import (
	"context"
	"testing"
	"time"

	"marketplace/internal/domain"
	"marketplace/internal/repository"
	"marketplace/internal/service"
)

func newTestProvider(id string, lat, lng, radiusKm float64) *domain.Provider {
	return &domain.Provider{
		ID:              id,
		FirstName:       "Jo",
		LastName:        "Detailer",
		ServiceRadiusKm: radiusKm,
		Latitude:        floatPtr(lat),
		Longitude:       floatPtr(lng),
	}
}

func newTestDetailingService(id string) *domain.DetailingService {
	return &domain.DetailingService{
		ID:        id,
		Name:      domain.LocalizedText{"en": "Full wash", "fr": "Lavage complet"},
		BasePrice: dec("79.99"),
		Duration:  90 * time.Minute,
		IsActive:  true,
	}
}

func newDetailingTestService(serviceRepo *MockDetailingServiceRepository, providerRepo *MockProviderRepository, bookingRepo *MockBookingRepository) *service.DetailingService {
	return service.NewDetailingService(serviceRepo, providerRepo, bookingRepo, NewMockLockStore(), NewMockLocationStore(), nil, testConfig())
}

// TestProviderOwnRadiusBinds verifies that a provider whose own service
// radius does not reach the customer is excluded even when the customer
// searched with a much larger radius.
func TestProviderOwnRadiusBinds(t *testing.T) {
	ctx := context.Background()
	serviceRepo := NewMockDetailingServiceRepository()
	providerRepo := NewMockProviderRepository()
	bookingRepo := NewMockBookingRepository()

	serviceRepo.AddService(newTestDetailingService("svc-1"))

	// Customer at Paris center. Versailles is roughly 18 km out: a provider
	// there with a 15 km radius cannot serve, one with 30 km can.
	providerRepo.AddProvider(newTestProvider("p-short", 48.8049, 2.1204, 15))
	providerRepo.AddProvider(newTestProvider("p-long", 48.8049, 2.1204, 30))

	svc := newDetailingTestService(serviceRepo, providerRepo, bookingRepo)

	offers, err := svc.FindAvailableProviders(ctx, service.SearchProvidersRequest{
		ServiceID: "svc-1",
		Start:     time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC),
		Lat:       48.8566,
		Lng:       2.3522,
		RadiusKm:  100, // advisory; must not override p-short's own radius
	})
	if err != nil {
		t.Fatalf("FindAvailableProviders failed: %v", err)
	}

	if len(offers) != 1 {
		t.Fatalf("expected 1 offer, got %d", len(offers))
	}
	if offers[0].Provider.ID != "p-long" {
		t.Errorf("expected p-long, got %s", offers[0].Provider.ID)
	}
	if offers[0].EstimatedPrice.StringFixed(2) != "79.99" {
		t.Errorf("expected flat price 79.99, got %s", offers[0].EstimatedPrice.StringFixed(2))
	}
}

func TestProviderSearchIgnoresPendingBookings(t *testing.T) {
	ctx := context.Background()
	serviceRepo := NewMockDetailingServiceRepository()
	providerRepo := NewMockProviderRepository()
	bookingRepo := NewMockBookingRepository()

	serviceRepo.AddService(newTestDetailingService("svc-1"))
	providerRepo.AddProvider(newTestProvider("p-1", 48.8566, 2.3522, 15))

	start := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)

	// A pending detailing booking does not block: only confirmed and
	// in-progress commitments count for detailing.
	bookingRepo.AddBooking(&domain.Booking{
		ID:        "b-pending",
		UserID:    "user-2",
		Kind:      domain.BookingKindDetailing,
		Status:    domain.BookingStatusPending,
		Interval:  domain.NewInterval(start, start.Add(90*time.Minute)),
		Detailing: &domain.DetailingDetails{ProviderID: "p-1", ServiceID: "svc-1"},
	})

	svc := newDetailingTestService(serviceRepo, providerRepo, bookingRepo)

	offers, err := svc.FindAvailableProviders(ctx, service.SearchProvidersRequest{
		ServiceID: "svc-1",
		Start:     start,
		Lat:       48.8566,
		Lng:       2.3522,
	})
	if err != nil {
		t.Fatalf("FindAvailableProviders failed: %v", err)
	}
	if len(offers) != 1 {
		t.Fatalf("expected pending booking to be ignored, got %d offers", len(offers))
	}

	// A confirmed booking on the same window does block.
	bookingRepo.AddBooking(&domain.Booking{
		ID:        "b-confirmed",
		UserID:    "user-3",
		Kind:      domain.BookingKindDetailing,
		Status:    domain.BookingStatusConfirmed,
		Interval:  domain.NewInterval(start, start.Add(90*time.Minute)),
		Detailing: &domain.DetailingDetails{ProviderID: "p-1", ServiceID: "svc-1"},
	})

	offers, err = svc.FindAvailableProviders(ctx, service.SearchProvidersRequest{
		ServiceID: "svc-1",
		Start:     start,
		Lat:       48.8566,
		Lng:       2.3522,
	})
	if err != nil {
		t.Fatalf("FindAvailableProviders failed: %v", err)
	}
	if len(offers) != 0 {
		t.Fatalf("expected confirmed booking to block, got %d offers", len(offers))
	}
}

func TestProviderSearchInactiveServiceReturnsEmpty(t *testing.T) {
	ctx := context.Background()
	serviceRepo := NewMockDetailingServiceRepository()
	providerRepo := NewMockProviderRepository()
	bookingRepo := NewMockBookingRepository()

	inactive := newTestDetailingService("svc-off")
	inactive.IsActive = false
	serviceRepo.AddService(inactive)
	providerRepo.AddProvider(newTestProvider("p-1", 48.8566, 2.3522, 15))

	svc := newDetailingTestService(serviceRepo, providerRepo, bookingRepo)

	offers, err := svc.FindAvailableProviders(ctx, service.SearchProvidersRequest{
		ServiceID: "svc-off",
		Start:     time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC),
		Lat:       48.8566,
		Lng:       2.3522,
	})
	if err != nil {
		t.Fatalf("FindAvailableProviders failed: %v", err)
	}
	if len(offers) != 0 {
		t.Errorf("expected no offers for an inactive service, got %d", len(offers))
	}

	// Unknown service behaves the same.
	offers, err = svc.FindAvailableProviders(ctx, service.SearchProvidersRequest{
		ServiceID: "svc-missing",
		Start:     time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC),
		Lat:       48.8566,
		Lng:       2.3522,
	})
	if err != nil {
		t.Fatalf("FindAvailableProviders failed: %v", err)
	}
	if len(offers) != 0 {
		t.Errorf("expected no offers for an unknown service, got %d", len(offers))
	}
}

func TestBookDetailingCreatesConfirmed(t *testing.T) {
	ctx := context.Background()
	serviceRepo := NewMockDetailingServiceRepository()
	providerRepo := NewMockProviderRepository()
	bookingRepo := NewMockBookingRepository()

	serviceRepo.AddService(newTestDetailingService("svc-1"))
	providerRepo.AddProvider(newTestProvider("p-1", 48.8566, 2.3522, 15))

	svc := newDetailingTestService(serviceRepo, providerRepo, bookingRepo)

	start := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	booking, err := svc.Book(ctx, service.BookDetailingRequest{
		UserID:     "user-1",
		ServiceID:  "svc-1",
		ProviderID: "p-1",
		VehicleID:  "v-1",
		Start:      start,
		Location:   domain.Location{Address: "2 Rue de la Paix", Lat: 48.8566, Lng: 2.3522},
	})
	if err != nil {
		t.Fatalf("Book failed: %v", err)
	}

	// Detailing bookings skip the payment gate and start confirmed.
	if booking.Status != domain.BookingStatusConfirmed {
		t.Errorf("expected confirmed status, got %s", booking.Status)
	}
	if booking.TotalPrice.StringFixed(2) != "79.99" {
		t.Errorf("expected flat price 79.99, got %s", booking.TotalPrice.StringFixed(2))
	}
	// End derives from the service duration.
	if got := booking.Interval.End.Sub(booking.Interval.Start); got != 90*time.Minute {
		t.Errorf("expected 90m window, got %v", got)
	}
}

func TestBookDetailingConflictLoses(t *testing.T) {
	ctx := context.Background()
	serviceRepo := NewMockDetailingServiceRepository()
	providerRepo := NewMockProviderRepository()
	bookingRepo := NewMockBookingRepository()

	serviceRepo.AddService(newTestDetailingService("svc-1"))
	providerRepo.AddProvider(newTestProvider("p-1", 48.8566, 2.3522, 15))

	svc := newDetailingTestService(serviceRepo, providerRepo, bookingRepo)

	start := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	req := service.BookDetailingRequest{
		UserID:     "user-1",
		ServiceID:  "svc-1",
		ProviderID: "p-1",
		VehicleID:  "v-1",
		Start:      start,
		Location:   domain.Location{Lat: 48.8566, Lng: 2.3522},
	}

	if _, err := svc.Book(ctx, req); err != nil {
		t.Fatalf("first Book failed: %v", err)
	}

	// Second booking overlaps the provider's confirmed window.
	req.UserID = "user-2"
	req.Start = start.Add(30 * time.Minute)
	if _, err := svc.Book(ctx, req); err != service.ErrResourceUnavailable {
		t.Errorf("expected ErrResourceUnavailable, got %v", err)
	}

	// A back-to-back slot at the exact end of the first window is fine.
	req.UserID = "user-3"
	req.Start = start.Add(90 * time.Minute)
	if _, err := svc.Book(ctx, req); err != nil {
		t.Errorf("expected touching slot to book, got %v", err)
	}
}

func TestBookDetailingInactiveService(t *testing.T) {
	serviceRepo := NewMockDetailingServiceRepository()
	providerRepo := NewMockProviderRepository()
	inactive := newTestDetailingService("svc-off")
	inactive.IsActive = false
	serviceRepo.AddService(inactive)
	providerRepo.AddProvider(newTestProvider("p-1", 48.8566, 2.3522, 15))

	svc := newDetailingTestService(serviceRepo, providerRepo, NewMockBookingRepository())

	_, err := svc.Book(context.Background(), service.BookDetailingRequest{
		UserID:     "user-1",
		ServiceID:  "svc-off",
		ProviderID: "p-1",
		VehicleID:  "v-1",
		Start:      time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC),
		Location:   domain.Location{Lat: 48.8566, Lng: 2.3522},
	})
	if err != service.ErrServiceInactive {
		t.Errorf("expected ErrServiceInactive, got %v", err)
	}
}

// TestUpdateProviderLocationRelocatesMatching verifies that a location
// update changes the coordinates the availability search filters on, not
// just the geo index mirror.
func TestUpdateProviderLocationRelocatesMatching(t *testing.T) {
	ctx := context.Background()
	serviceRepo := NewMockDetailingServiceRepository()
	providerRepo := NewMockProviderRepository()
	bookingRepo := NewMockBookingRepository()

	serviceRepo.AddService(newTestDetailingService("svc-1"))

	// Provider starts in Versailles, ~18 km from the Paris search center,
	// with a radius too short to serve it.
	providerRepo.AddProvider(newTestProvider("p-1", 48.8049, 2.1204, 10))

	svc := newDetailingTestService(serviceRepo, providerRepo, bookingRepo)

	req := service.SearchProvidersRequest{
		ServiceID: "svc-1",
		Start:     time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC),
		Lat:       48.8566,
		Lng:       2.3522,
	}

	offers, err := svc.FindAvailableProviders(ctx, req)
	if err != nil {
		t.Fatalf("FindAvailableProviders failed: %v", err)
	}
	if len(offers) != 0 {
		t.Fatalf("expected no offers before relocation, got %d", len(offers))
	}

	if err := svc.UpdateProviderLocation(ctx, "p-1", 48.8566, 2.3522); err != nil {
		t.Fatalf("UpdateProviderLocation failed: %v", err)
	}

	stored := providerRepo.GetProvider("p-1")
	if stored.Latitude == nil || *stored.Latitude != 48.8566 {
		t.Error("expected stored latitude to be updated")
	}

	offers, err = svc.FindAvailableProviders(ctx, req)
	if err != nil {
		t.Fatalf("FindAvailableProviders failed after relocation: %v", err)
	}
	if len(offers) != 1 || offers[0].Provider.ID != "p-1" {
		t.Fatalf("expected relocated provider to match, got %d offers", len(offers))
	}
}

func TestUpdateProviderLocationUnknownProvider(t *testing.T) {
	svc := newDetailingTestService(NewMockDetailingServiceRepository(), NewMockProviderRepository(), NewMockBookingRepository())

	err := svc.UpdateProviderLocation(context.Background(), "p-missing", 48.8566, 2.3522)
	if err != repository.ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
