package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"marketplace/internal/config"
	"marketplace/internal/domain"
	"marketplace/internal/repository"
	"marketplace/internal/repository/postgres"
)

// PSP is the payment service provider gateway. Charge returns whether the
// charge succeeded and the gateway's transaction reference.
type PSP interface {
	Name() string
	Charge(ctx context.Context, amount decimal.Decimal, currency string, method domain.PaymentMethod) (bool, string, error)
}

// MockPSP approves every charge. Stands in until a real gateway is wired.
type MockPSP struct {
	// Decline forces failure, for exercising the failure path.
	Decline bool
}

func (m *MockPSP) Name() string { return "mock" }

func (m *MockPSP) Charge(_ context.Context, _ decimal.Decimal, _ string, _ domain.PaymentMethod) (bool, string, error) {
	if m.Decline {
		return false, "", nil
	}
	return true, "txn-" + uuid.New().String(), nil
}

// PaymentService charges pending bookings and confirms them on success. A
// failed charge records the failed payment but leaves the booking pending so
// the user can retry.
type PaymentService struct {
	db          *sql.DB
	paymentRepo repository.PaymentRepository
	bookingRepo repository.BookingRepository
	psp         PSP
	notifier    *NotificationService
	cfg         config.MarketplaceConfig
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(
	db *sql.DB,
	paymentRepo repository.PaymentRepository,
	bookingRepo repository.BookingRepository,
	psp PSP,
	notifier *NotificationService,
	cfg config.MarketplaceConfig,
) *PaymentService {
	return &PaymentService{
		db:          db,
		paymentRepo: paymentRepo,
		bookingRepo: bookingRepo,
		psp:         psp,
		notifier:    notifier,
		cfg:         cfg,
	}
}

// ConfirmRequest carries the input for Confirm.
type ConfirmRequest struct {
	BookingID string
	UserID    string
	Method    domain.PaymentMethod
}

// Confirm charges the booking's total and moves it pending -> confirmed.
// Replays with the same booking return the already-recorded payment instead of
// charging twice.
func (s *PaymentService) Confirm(ctx context.Context, req ConfirmRequest) (*domain.Payment, error) {
	if req.BookingID == "" {
		return nil, ErrInvalidBookingID
	}
	if req.UserID == "" {
		return nil, ErrInvalidUserID
	}
	switch req.Method {
	case domain.PaymentMethodCard, domain.PaymentMethodWallet, domain.PaymentMethodCash:
	default:
		return nil, ErrInvalidPaymentMethod
	}

	booking, err := s.bookingRepo.GetByID(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}
	if booking.UserID != req.UserID {
		return nil, ErrForbidden
	}

	idempotencyKey := fmt.Sprintf("payment:%s", booking.ID)
	existing, err := s.paymentRepo.GetByIdempotencyKey(ctx, idempotencyKey)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.Status == domain.PaymentStatusPaid {
		return existing, nil
	}

	if booking.Status != domain.BookingStatusPending {
		return nil, ErrBookingNotPayable
	}

	// A failed or dangling attempt is retried in place; the key stays
	// one-row-per-booking.
	payment := existing
	if payment == nil {
		payment = &domain.Payment{
			ID:             uuid.New().String(),
			BookingID:      booking.ID,
			UserID:         req.UserID,
			Amount:         booking.TotalPrice,
			Currency:       s.cfg.Currency,
			Method:         req.Method,
			Status:         domain.PaymentStatusPending,
			Gateway:        s.psp.Name(),
			IdempotencyKey: idempotencyKey,
			CreatedAt:      time.Now(),
		}
		if err := s.paymentRepo.Create(ctx, payment); err != nil {
			return nil, err
		}
	}

	approved, txnID, err := s.psp.Charge(ctx, payment.Amount, payment.Currency, payment.Method)
	if err != nil {
		return nil, err
	}

	if !approved {
		payment.Status = domain.PaymentStatusFailed
		if err := s.paymentRepo.UpdateStatus(ctx, payment.ID, payment.Status, ""); err != nil {
			return nil, err
		}
		if s.notifier != nil {
			s.notifier.NotifyPaymentResult(ctx, payment)
		}
		return payment, nil
	}

	payment.Status = domain.PaymentStatusPaid
	payment.TransactionID = txnID
	booking.Status = domain.BookingStatusConfirmed
	booking.UpdatedAt = time.Now()

	if err := s.persistOutcome(ctx, payment, booking); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.NotifyPaymentResult(ctx, payment)
	}

	return payment, nil
}

// persistOutcome commits the paid payment and the confirmed booking together.
func (s *PaymentService) persistOutcome(ctx context.Context, payment *domain.Payment, booking *domain.Booking) error {
	if s.db == nil {
		if err := s.paymentRepo.UpdateStatus(ctx, payment.ID, payment.Status, payment.TransactionID); err != nil {
			return err
		}
		return s.bookingRepo.Update(ctx, booking)
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

	txPaymentRepo := postgres.NewPaymentRepositoryWithTx(tx)
	if err = txPaymentRepo.UpdateStatus(ctx, payment.ID, payment.Status, payment.TransactionID); err != nil {
		return err
	}
	txBookingRepo := postgres.NewBookingRepositoryWithTx(tx)
	if err = txBookingRepo.Update(ctx, booking); err != nil {
		return err
	}

	return tx.Commit()
}

// Get retrieves a payment by ID.
func (s *PaymentService) Get(ctx context.Context, id string) (*domain.Payment, error) {
	if id == "" {
		return nil, ErrInvalidBookingID
	}
	return s.paymentRepo.GetByID(ctx, id)
}
