package repository

import (
	"context"

	"marketplace/internal/domain"
)

// ReviewRepository defines the persistence operations for reviews.
type ReviewRepository interface {
	// Create persists a new review. Returns ErrDuplicate when a review for
	// the same booking already exists.
	Create(ctx context.Context, review *domain.Review) error

	// GetByBookingID retrieves the review for a booking, if any.
	GetByBookingID(ctx context.Context, bookingID string) (*domain.Review, error)

	// ListByTarget retrieves all reviews of the given type targeting a user.
	ListByTarget(ctx context.Context, targetID string, reviewType domain.ReviewType) ([]*domain.Review, error)
}
