package domain

import "time"

// NotificationType categorizes in-app notifications.
type NotificationType string

const (
	NotificationTypeBooking NotificationType = "booking"
	NotificationTypePayment NotificationType = "payment"
	NotificationTypeAlert   NotificationType = "alert"
)

// Notification is a persisted in-app notification. Title and message are
// stored as localized text and resolved at the presentation boundary.
type Notification struct {
	ID        string
	UserID    string
	Title     LocalizedText
	Message   LocalizedText
	Type      NotificationType
	RelatedID string // id of the related booking or payment
	IsRead    bool
	CreatedAt time.Time
}
