package repository

import (
	"context"
	"encoding/json"

	"github.com/todor147/EduCoachBack/internal/models"
)

type NotificationRepository struct {
	db DBTX
}

func NewNotificationRepository(db DBTX) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(
	ctx context.Context,
	userID int64,
	eventType string,
	payload json.RawMessage,
) (*models.Notification, error) {
	query := `
		INSERT INTO notifications (user_id, event_type, payload, is_read)
		VALUES ($1, $2, $3, FALSE)
		RETURNING id, user_id, event_type, payload, is_read, created_at
	`
	var notification models.Notification
	err := r.db.QueryRow(ctx, query, userID, eventType, payload).Scan(
		&notification.ID,
		&notification.UserID,
		&notification.EventType,
		&notification.Payload,
		&notification.IsRead,
		&notification.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &notification, nil
}

func (r *NotificationRepository) ListForUser(
	ctx context.Context,
	userID int64,
	unreadOnly bool,
) ([]models.Notification, error) {
	query := `
		SELECT id, user_id, event_type, payload, is_read, created_at
		FROM notifications
		WHERE user_id = $1 AND ($2 = FALSE OR is_read = FALSE)
		ORDER BY created_at DESC, id DESC
	`
	rows, err := r.db.Query(ctx, query, userID, unreadOnly)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notifications := make([]models.Notification, 0)
	for rows.Next() {
		var notification models.Notification
		if err := rows.Scan(
			&notification.ID,
			&notification.UserID,
			&notification.EventType,
			&notification.Payload,
			&notification.IsRead,
			&notification.CreatedAt,
		); err != nil {
			return nil, err
		}
		notifications = append(notifications, notification)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return notifications, nil
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID int64) error {
	_, err := r.db.Exec(ctx, `
		UPDATE notifications
		SET is_read = TRUE
		WHERE user_id = $1 AND is_read = FALSE
	`, userID)
	return err
}
