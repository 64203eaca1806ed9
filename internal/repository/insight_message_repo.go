package repository

import (
	"context"

	"github.com/todor147/EduCoachBack/internal/models"
)

type InsightMessageRepository struct {
	db DBTX
}

func NewInsightMessageRepository(db DBTX) *InsightMessageRepository {
	return &InsightMessageRepository{db: db}
}

func (r *InsightMessageRepository) Create(
	ctx context.Context,
	requestID int64,
	senderID int64,
	receiverID int64,
	content string,
	status models.ModerationStatus,
) (*models.InsightMessage, error) {
	query := `
		INSERT INTO insight_messages (request_id, sender_id, receiver_id, content, status, is_read)
		VALUES ($1, $2, $3, $4, $5, FALSE)
		RETURNING id, request_id, sender_id, receiver_id, content, status, is_read, created_at
	`
	var message models.InsightMessage
	err := r.db.QueryRow(ctx, query, requestID, senderID, receiverID, content, status).Scan(
		&message.ID,
		&message.RequestID,
		&message.SenderID,
		&message.ReceiverID,
		&message.Content,
		&message.Status,
		&message.IsRead,
		&message.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &message, nil
}

func (r *InsightMessageRepository) ListByRequest(
	ctx context.Context,
	requestID int64,
) ([]models.InsightMessage, error) {
	query := `
		SELECT id, request_id, sender_id, receiver_id, content, status, is_read, created_at
		FROM insight_messages
		WHERE request_id = $1 AND status = 'approved'
		ORDER BY created_at ASC, id ASC
	`
	return r.scanMessages(ctx, query, requestID)
}

func (r *InsightMessageRepository) ListByRequestSince(
	ctx context.Context,
	requestID int64,
	lastID int64,
) ([]models.InsightMessage, error) {
	query := `
		SELECT id, request_id, sender_id, receiver_id, content, status, is_read, created_at
		FROM insight_messages
		WHERE request_id = $1 AND status = 'approved' AND id > $2
		ORDER BY created_at ASC, id ASC
	`
	return r.scanMessages(ctx, query, requestID, lastID)
}

func (r *InsightMessageRepository) MarkMessagesRead(
	ctx context.Context,
	messageIDs []int64,
	readerID int64,
) error {
	if len(messageIDs) == 0 {
		return nil
	}
	_, err := r.db.Exec(ctx, `
		UPDATE insight_messages
		SET is_read = TRUE
		WHERE id = ANY($1)
		  AND receiver_id = $2
		  AND is_read = FALSE
	`, messageIDs, readerID)
	return err
}

func (r *InsightMessageRepository) ListPending(ctx context.Context) ([]models.InsightMessage, error) {
	query := `
		SELECT id, request_id, sender_id, receiver_id, content, status, is_read, created_at
		FROM insight_messages
		WHERE status = 'pending'
		ORDER BY created_at DESC, id DESC
	`
	return r.scanMessages(ctx, query)
}

func (r *InsightMessageRepository) UpdateStatus(
	ctx context.Context,
	messageID int64,
	status models.ModerationStatus,
) (*models.InsightMessage, error) {
	query := `
		UPDATE insight_messages
		SET status = $2
		WHERE id = $1
		RETURNING id, request_id, sender_id, receiver_id, content, status, is_read, created_at
	`
	var message models.InsightMessage
	err := r.db.QueryRow(ctx, query, messageID, status).Scan(
		&message.ID,
		&message.RequestID,
		&message.SenderID,
		&message.ReceiverID,
		&message.Content,
		&message.Status,
		&message.IsRead,
		&message.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &message, nil
}

func (r *InsightMessageRepository) scanMessages(
	ctx context.Context,
	query string,
	args ...any,
) ([]models.InsightMessage, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := make([]models.InsightMessage, 0)
	for rows.Next() {
		var message models.InsightMessage
		if err := rows.Scan(
			&message.ID,
			&message.RequestID,
			&message.SenderID,
			&message.ReceiverID,
			&message.Content,
			&message.Status,
			&message.IsRead,
			&message.CreatedAt,
		); err != nil {
			return nil, err
		}
		messages = append(messages, message)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return messages, nil
}
