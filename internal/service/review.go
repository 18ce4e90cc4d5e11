package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"marketplace/internal/domain"
	"marketplace/internal/repository"
	"marketplace/internal/repository/postgres"
)

// ReviewService handles review submission and the rolling rating averages on
// drivers and detailing providers.
type ReviewService struct {
	db           *sql.DB
	reviewRepo   repository.ReviewRepository
	bookingRepo  repository.BookingRepository
	driverRepo   repository.DriverRepository
	providerRepo repository.ProviderRepository
}

// NewReviewService creates a new ReviewService.
func NewReviewService(
	db *sql.DB,
	reviewRepo repository.ReviewRepository,
	bookingRepo repository.BookingRepository,
	driverRepo repository.DriverRepository,
	providerRepo repository.ProviderRepository,
) *ReviewService {
	return &ReviewService{
		db:           db,
		reviewRepo:   reviewRepo,
		bookingRepo:  bookingRepo,
		driverRepo:   driverRepo,
		providerRepo: providerRepo,
	}
}

// SubmitReviewRequest carries the input for Submit.
type SubmitReviewRequest struct {
	BookingID  string
	ReviewerID string
	Rating     int
	Comment    string
}

// Submit records a review against a completed booking and recomputes the
// target's rating average. One review per booking, by the booking's own user,
// and only after completion. Bus seat bookings are not reviewable.
func (s *ReviewService) Submit(ctx context.Context, req SubmitReviewRequest) (*domain.Review, error) {
	if req.BookingID == "" {
		return nil, ErrInvalidBookingID
	}
	if req.ReviewerID == "" {
		return nil, ErrInvalidUserID
	}
	if req.Rating < 1 || req.Rating > 5 {
		return nil, ErrInvalidRating
	}

	booking, err := s.bookingRepo.GetByID(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}

	if booking.UserID != req.ReviewerID {
		return nil, ErrForbidden
	}
	if booking.Status != domain.BookingStatusCompleted {
		return nil, ErrBookingNotCompleted
	}

	review := &domain.Review{
		ID:         uuid.New().String(),
		BookingID:  booking.ID,
		ReviewerID: req.ReviewerID,
		Rating:     req.Rating,
		Comment:    req.Comment,
		CreatedAt:  time.Now(),
	}

	switch booking.Kind {
	case domain.BookingKindCarsharing:
		review.Type = domain.ReviewTypeCarsharing
		review.TargetID = booking.Carsharing.DriverID
		review.VehicleID = booking.Carsharing.VehicleID
	case domain.BookingKindDetailing:
		review.Type = domain.ReviewTypeDetailing
		review.TargetID = booking.Detailing.ProviderID
		review.VehicleID = booking.Detailing.VehicleID
	default:
		return nil, ErrBookingNotReviewable
	}

	if err := s.persistReview(ctx, review); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrReviewAlreadyExists
		}
		return nil, err
	}

	return review, nil
}

// persistReview inserts the review and recomputes the target's average in one
// transaction. The average is recomputed from scratch so concurrent submits
// converge on the same value regardless of ordering.
func (s *ReviewService) persistReview(ctx context.Context, review *domain.Review) error {
	if s.db == nil {
		if err := s.reviewRepo.Create(ctx, review); err != nil {
			return err
		}
		return s.recomputeRating(ctx, s.reviewRepo, s.driverRepo, s.providerRepo, review)
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

	txReviewRepo := postgres.NewReviewRepositoryWithTx(tx)
	if err = txReviewRepo.Create(ctx, review); err != nil {
		return err
	}
	if err = s.recomputeRating(ctx, txReviewRepo,
		postgres.NewDriverRepositoryWithTx(tx),
		postgres.NewProviderRepositoryWithTx(tx),
		review); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *ReviewService) recomputeRating(
	ctx context.Context,
	reviews repository.ReviewRepository,
	drivers repository.DriverRepository,
	providers repository.ProviderRepository,
	review *domain.Review,
) error {
	all, err := reviews.ListByTarget(ctx, review.TargetID, review.Type)
	if err != nil {
		return err
	}
	if len(all) == 0 {
		// The freshly created review is always part of the list; an empty
		// result means the repo and the create disagree.
		all = []*domain.Review{review}
	}

	var sum int
	for _, r := range all {
		sum += r.Rating
	}
	avg := float64(sum) / float64(len(all))

	if review.Type == domain.ReviewTypeCarsharing {
		return drivers.UpdateDriverRating(ctx, review.TargetID, avg)
	}
	return providers.UpdateDetailingRating(ctx, review.TargetID, avg)
}

// ForBooking returns the review attached to a booking, if any.
func (s *ReviewService) ForBooking(ctx context.Context, bookingID string) (*domain.Review, error) {
	if bookingID == "" {
		return nil, ErrInvalidBookingID
	}
	return s.reviewRepo.GetByBookingID(ctx, bookingID)
}

// ListByTarget returns all reviews of a type targeting a driver or provider.
func (s *ReviewService) ListByTarget(ctx context.Context, targetID string, reviewType domain.ReviewType) ([]*domain.Review, error) {
	if targetID == "" {
		return nil, ErrInvalidUserID
	}
	return s.reviewRepo.ListByTarget(ctx, targetID, reviewType)
}
