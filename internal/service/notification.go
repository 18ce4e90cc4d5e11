package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"marketplace/internal/domain"
	"marketplace/internal/repository"
)

// NotificationService persists in-app notifications and dispatches push and
// email delivery in the background. Delivery is best-effort: failures are
// logged and never propagate into the booking outcome.
type NotificationService struct {
	notificationRepo repository.NotificationRepository
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(notificationRepo repository.NotificationRepository) *NotificationService {
	return &NotificationService{notificationRepo: notificationRepo}
}

// Notify stores an in-app notification and triggers background delivery.
func (s *NotificationService) Notify(ctx context.Context, userID string, title, message domain.LocalizedText, kind domain.NotificationType, relatedID string) {
	notification := &domain.Notification{
		ID:        uuid.New().String(),
		UserID:    userID,
		Title:     title,
		Message:   message,
		Type:      kind,
		RelatedID: relatedID,
		CreatedAt: time.Now(),
	}

	if s.notificationRepo != nil {
		if err := s.notificationRepo.Create(ctx, notification); err != nil {
			log.Printf("notification store failed: user=%s related=%s err=%v", userID, relatedID, err)
			return
		}
	}

	// Push/email dispatch is decoupled from the request; the booking has
	// already committed by the time this runs.
	go s.dispatch(notification)
}

// NotifyBookingCreated notifies the requester that a booking was created.
func (s *NotificationService) NotifyBookingCreated(ctx context.Context, booking *domain.Booking) {
	title := domain.PlainText("Booking created")
	message := domain.PlainText(fmt.Sprintf("Your %s booking is %s.", booking.Kind, booking.Status))
	s.Notify(ctx, booking.UserID, title, message, domain.NotificationTypeBooking, booking.ID)
}

// NotifyBookingCanceled notifies the requester that a booking was canceled.
func (s *NotificationService) NotifyBookingCanceled(ctx context.Context, booking *domain.Booking) {
	title := domain.PlainText("Booking canceled")
	message := domain.PlainText(fmt.Sprintf("Your %s booking has been canceled.", booking.Kind))
	s.Notify(ctx, booking.UserID, title, message, domain.NotificationTypeBooking, booking.ID)
}

// NotifyBookingCompleted notifies the requester that a booking completed and
// can now be reviewed.
func (s *NotificationService) NotifyBookingCompleted(ctx context.Context, booking *domain.Booking) {
	title := domain.PlainText("Booking completed")
	message := domain.PlainText(fmt.Sprintf("Your %s booking is complete. You can now leave a review.", booking.Kind))
	s.Notify(ctx, booking.UserID, title, message, domain.NotificationTypeBooking, booking.ID)
}

// NotifyPaymentResult notifies the payer of a payment outcome.
func (s *NotificationService) NotifyPaymentResult(ctx context.Context, payment *domain.Payment) {
	title := domain.PlainText("Payment " + string(payment.Status))
	message := domain.PlainText(fmt.Sprintf("Payment of %s %s is %s.", payment.Amount.StringFixed(2), payment.Currency, payment.Status))
	s.Notify(ctx, payment.UserID, title, message, domain.NotificationTypePayment, payment.ID)
}

// dispatch delivers a stored notification over push and email channels.
func (s *NotificationService) dispatch(notification *domain.Notification) {
	// Real delivery would go through FCM/APNs and an email provider here.
	log.Printf("[NOTIFY] user=%s type=%s title=%q",
		notification.UserID, notification.Type, notification.Title.Resolve(domain.DefaultLang))
}
