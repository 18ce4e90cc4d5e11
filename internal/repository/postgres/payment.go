package postgres

import (
	"context"
	"database/sql"
	"errors"

	"marketplace/internal/domain"
	"marketplace/internal/repository"
)

// PaymentRepository is a PostgreSQL implementation of repository.PaymentRepository.
type PaymentRepository struct {
	q Querier
}

// NewPaymentRepository creates a new PostgreSQL payment repository.
func NewPaymentRepository(db *sql.DB) *PaymentRepository {
	return &PaymentRepository{q: db}
}

// NewPaymentRepositoryWithTx creates a payment repository using a transaction.
func NewPaymentRepositoryWithTx(tx *sql.Tx) *PaymentRepository {
	return &PaymentRepository{q: tx}
}

const paymentColumns = `id, booking_id, user_id, amount, currency, payment_method, status, gateway, transaction_id, idempotency_key, created_at`

// Create persists a new payment.
func (r *PaymentRepository) Create(ctx context.Context, p *domain.Payment) error {
	query := `
		INSERT INTO payments (` + paymentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.q.ExecContext(ctx, query,
		p.ID,
		p.BookingID,
		p.UserID,
		p.Amount,
		p.Currency,
		p.Method,
		p.Status,
		nullString(p.Gateway),
		nullString(p.TransactionID),
		p.IdempotencyKey,
		p.CreatedAt,
	)
	return err
}

// GetByID retrieves a payment by ID.
func (r *PaymentRepository) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`

	p, err := scanPayment(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

// GetByIdempotencyKey retrieves a payment by idempotency key, (nil, nil) on miss.
func (r *PaymentRepository) GetByIdempotencyKey(ctx context.Context, key string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE idempotency_key = $1`

	p, err := scanPayment(r.q.QueryRowContext(ctx, query, key))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return p, nil
}

// UpdateStatus updates a payment's status and transaction reference.
func (r *PaymentRepository) UpdateStatus(ctx context.Context, id string, status domain.PaymentStatus, transactionID string) error {
	query := `UPDATE payments SET status = $1, transaction_id = $2 WHERE id = $3`

	result, err := r.q.ExecContext(ctx, query, status, nullString(transactionID), id)
	if err != nil {
		return err
	}
	return requireRowsAffected(result)
}

func scanPayment(row rowScanner) (*domain.Payment, error) {
	var p domain.Payment
	var gateway, transactionID sql.NullString

	if err := row.Scan(
		&p.ID,
		&p.BookingID,
		&p.UserID,
		&p.Amount,
		&p.Currency,
		&p.Method,
		&p.Status,
		&gateway,
		&transactionID,
		&p.IdempotencyKey,
		&p.CreatedAt,
	); err != nil {
		return nil, err
	}

	p.Gateway = gateway.String
	p.TransactionID = transactionID.String
	return &p, nil
}
