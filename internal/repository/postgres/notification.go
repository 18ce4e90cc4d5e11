package postgres

import (
	"context"
	"database/sql"
	"encoding/json"

	"marketplace/internal/domain"
)

// NotificationRepository is a PostgreSQL implementation of
// repository.NotificationRepository. Title and message columns hold JSON
// language maps.
type NotificationRepository struct {
	q Querier
}

// NewNotificationRepository creates a new PostgreSQL notification repository.
func NewNotificationRepository(db *sql.DB) *NotificationRepository {
	return &NotificationRepository{q: db}
}

const notificationColumns = `id, user_id, title, message, notification_type, related_id, is_read, created_at`

// Create persists a new notification.
func (r *NotificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	query := `
		INSERT INTO notifications (` + notificationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	title, err := json.Marshal(n.Title)
	if err != nil {
		return err
	}
	message, err := json.Marshal(n.Message)
	if err != nil {
		return err
	}

	_, err = r.q.ExecContext(ctx, query,
		n.ID,
		n.UserID,
		title,
		message,
		n.Type,
		nullString(n.RelatedID),
		n.IsRead,
		n.CreatedAt,
	)
	return err
}

// ListByUser retrieves a user's notifications, newest first.
func (r *NotificationRepository) ListByUser(ctx context.Context, userID string, limit int) ([]*domain.Notification, error) {
	query := `
		SELECT ` + notificationColumns + `
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.q.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []*domain.Notification
	for rows.Next() {
		var n domain.Notification
		var title, message []byte
		var relatedID sql.NullString

		if err := rows.Scan(
			&n.ID,
			&n.UserID,
			&title,
			&message,
			&n.Type,
			&relatedID,
			&n.IsRead,
			&n.CreatedAt,
		); err != nil {
			return nil, err
		}

		if err := json.Unmarshal(title, &n.Title); err != nil {
			n.Title = domain.PlainText(string(title))
		}
		if err := json.Unmarshal(message, &n.Message); err != nil {
			n.Message = domain.PlainText(string(message))
		}
		n.RelatedID = relatedID.String
		notifications = append(notifications, &n)
	}
	return notifications, rows.Err()
}

// MarkRead marks a notification as read. Scoped to the owning user.
func (r *NotificationRepository) MarkRead(ctx context.Context, id, userID string) error {
	query := `UPDATE notifications SET is_read = TRUE WHERE id = $1 AND user_id = $2`

	result, err := r.q.ExecContext(ctx, query, id, userID)
	if err != nil {
		return err
	}
	return requireRowsAffected(result)
}
