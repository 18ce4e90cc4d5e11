package repository

import (
	"context"

	"marketplace/internal/domain"
)

// BookingRepository defines the persistence operations for bookings.
// Bookings are never deleted; they form the audit trail.
type BookingRepository interface {
	// Create persists a new booking.
	Create(ctx context.Context, booking *domain.Booking) error

	// GetByID retrieves a booking by ID.
	GetByID(ctx context.Context, id string) (*domain.Booking, error)

	// ListByUser retrieves a user's bookings filtered by status,
	// most recent start time first.
	ListByUser(ctx context.Context, userID string, statuses []domain.BookingStatus, limit int) ([]*domain.Booking, error)

	// Update updates a booking's mutable header fields (status, timestamps).
	Update(ctx context.Context, booking *domain.Booking) error

	// CountOverlapping counts bookings of the given kind on the given
	// resource whose status is in statuses and whose interval overlaps
	// [start, end) under the half-open rule. Open-ended stored bookings
	// conflict with any interval starting after their start.
	CountOverlapping(ctx context.Context, kind domain.BookingKind, resourceID string, statuses []domain.BookingStatus, interval domain.Interval) (int, error)
}
