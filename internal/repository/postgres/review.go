package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"marketplace/internal/domain"
	"marketplace/internal/repository"
)

// ReviewRepository is a PostgreSQL implementation of repository.ReviewRepository.
type ReviewRepository struct {
	q Querier
}

// NewReviewRepository creates a new PostgreSQL review repository.
func NewReviewRepository(db *sql.DB) *ReviewRepository {
	return &ReviewRepository{q: db}
}

// NewReviewRepositoryWithTx creates a review repository using a transaction.
func NewReviewRepositoryWithTx(tx *sql.Tx) *ReviewRepository {
	return &ReviewRepository{q: tx}
}

const reviewColumns = `id, booking_id, reviewer_id, target_id, vehicle_id, rating, comment, review_type, created_at`

// Create persists a new review. The unique index on booking_id enforces one
// review per booking; violations surface as ErrDuplicate.
func (r *ReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	query := `
		INSERT INTO reviews (` + reviewColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.q.ExecContext(ctx, query,
		review.ID,
		review.BookingID,
		review.ReviewerID,
		review.TargetID,
		nullString(review.VehicleID),
		review.Rating,
		nullString(review.Comment),
		review.Type,
		review.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return repository.ErrDuplicate
		}
		return err
	}
	return nil
}

// GetByBookingID retrieves the review for a booking.
func (r *ReviewRepository) GetByBookingID(ctx context.Context, bookingID string) (*domain.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE booking_id = $1`

	review, err := scanReview(r.q.QueryRowContext(ctx, query, bookingID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return review, nil
}

// ListByTarget retrieves all reviews of the given type targeting a user.
func (r *ReviewRepository) ListByTarget(ctx context.Context, targetID string, reviewType domain.ReviewType) ([]*domain.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE target_id = $1 AND review_type = $2 ORDER BY created_at ASC`

	rows, err := r.q.QueryContext(ctx, query, targetID, reviewType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []*domain.Review
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, review)
	}
	return reviews, rows.Err()
}

func scanReview(row rowScanner) (*domain.Review, error) {
	var review domain.Review
	var vehicleID, comment sql.NullString

	if err := row.Scan(
		&review.ID,
		&review.BookingID,
		&review.ReviewerID,
		&review.TargetID,
		&vehicleID,
		&review.Rating,
		&comment,
		&review.Type,
		&review.CreatedAt,
	); err != nil {
		return nil, err
	}

	review.VehicleID = vehicleID.String
	review.Comment = comment.String
	return &review, nil
}
