package repository

import (
	"context"

	"marketplace/internal/domain"
)

// NotificationRepository defines the persistence operations for in-app
// notifications.
type NotificationRepository interface {
	// Create persists a new notification.
	Create(ctx context.Context, notification *domain.Notification) error

	// ListByUser retrieves a user's notifications, newest first.
	ListByUser(ctx context.Context, userID string, limit int) ([]*domain.Notification, error)

	// MarkRead marks a notification as read.
	MarkRead(ctx context.Context, id, userID string) error
}
