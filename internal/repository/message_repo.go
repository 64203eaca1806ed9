package repository

import (
	"context"
	"database/sql"

	"github.com/todor147/EduCoachBack/internal/models"
)

type MessageRepository struct {
	db DBTX
}

func NewMessageRepository(db DBTX) *MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) Create(
	ctx context.Context,
	senderID int64,
	receiverID int64,
	content string,
	status models.ModerationStatus,
) (*models.Message, error) {
	query := `
		INSERT INTO messages (sender_id, receiver_id, content, status, is_read)
		VALUES ($1, $2, $3, $4, FALSE)
		RETURNING id, sender_id, receiver_id, content, status, is_read, created_at
	`

	var message models.Message
	err := r.db.QueryRow(ctx, query, senderID, receiverID, content, status).Scan(
		&message.ID,
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

func (r *MessageRepository) GetByID(ctx context.Context, messageID int64) (*models.Message, error) {
	query := `
		SELECT id, sender_id, receiver_id, content, status, is_read, created_at
		FROM messages
		WHERE id = $1
	`
	var message models.Message
	err := r.db.QueryRow(ctx, query, messageID).Scan(
		&message.ID,
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

// ListConversation returns the approved messages exchanged between the two
// participants in insertion order. Pending and rejected messages never
// appear here; they only surface through the moderation queue.
func (r *MessageRepository) ListConversation(
	ctx context.Context,
	participantID int64,
	partnerID int64,
) ([]models.Message, error) {
	query := `
		SELECT id, sender_id, receiver_id, content, status, is_read, created_at
		FROM messages
		WHERE status = 'approved'
		  AND ((sender_id = $1 AND receiver_id = $2) OR (sender_id = $2 AND receiver_id = $1))
		ORDER BY created_at ASC, id ASC
	`
	return r.scanMessages(ctx, query, participantID, partnerID)
}

// ListConversationSince is the incremental poll: only messages with an id
// strictly above the caller's watermark, same ordering as the full fetch.
func (r *MessageRepository) ListConversationSince(
	ctx context.Context,
	participantID int64,
	partnerID int64,
	lastID int64,
) ([]models.Message, error) {
	query := `
		SELECT id, sender_id, receiver_id, content, status, is_read, created_at
		FROM messages
		WHERE status = 'approved'
		  AND id > $3
		  AND ((sender_id = $1 AND receiver_id = $2) OR (sender_id = $2 AND receiver_id = $1))
		ORDER BY created_at ASC, id ASC
	`
	return r.scanMessages(ctx, query, participantID, partnerID, lastID)
}

func (r *MessageRepository) MarkMessagesRead(
	ctx context.Context,
	messageIDs []int64,
	readerID int64,
) error {
	if len(messageIDs) == 0 {
		return nil
	}
	_, err := r.db.Exec(ctx, `
		UPDATE messages
		SET is_read = TRUE
		WHERE id = ANY($1)
		  AND receiver_id = $2
		  AND is_read = FALSE
	`, messageIDs, readerID)
	return err
}

func (r *MessageRepository) ListPending(ctx context.Context) ([]models.Message, error) {
	query := `
		SELECT id, sender_id, receiver_id, content, status, is_read, created_at
		FROM messages
		WHERE status = 'pending'
		ORDER BY created_at DESC, id DESC
	`
	return r.scanMessages(ctx, query)
}

// UpdateStatus overwrites the moderation status unconditionally, matching
// the moderation queue contract: re-moderating an already-decided item is
// an idempotent overwrite, not an error.
func (r *MessageRepository) UpdateStatus(
	ctx context.Context,
	messageID int64,
	status models.ModerationStatus,
) (*models.Message, error) {
	query := `
		UPDATE messages
		SET status = $2
		WHERE id = $1
		RETURNING id, sender_id, receiver_id, content, status, is_read, created_at
	`
	var message models.Message
	err := r.db.QueryRow(ctx, query, messageID, status).Scan(
		&message.ID,
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

// ListConversationSummaries builds the inbox: one row per conversation
// partner with the latest approved message and the count of unread approved
// messages addressed to the participant.
func (r *MessageRepository) ListConversationSummaries(
	ctx context.Context,
	participantID int64,
) ([]models.ConversationSummary, error) {
	query := `
		SELECT
			p.partner_id,
			lm.id,
			lm.sender_id,
			lm.receiver_id,
			lm.content,
			lm.status,
			lm.is_read,
			lm.created_at,
			COALESCE(uc.unread_count, 0)
		FROM (
			SELECT DISTINCT
				CASE WHEN sender_id = $1 THEN receiver_id ELSE sender_id END AS partner_id
			FROM messages
			WHERE status = 'approved'
			  AND (sender_id = $1 OR receiver_id = $1)
		) p
		LEFT JOIN LATERAL (
			SELECT id, sender_id, receiver_id, content, status, is_read, created_at
			FROM messages
			WHERE status = 'approved'
			  AND ((sender_id = $1 AND receiver_id = p.partner_id)
			    OR (sender_id = p.partner_id AND receiver_id = $1))
			ORDER BY created_at DESC, id DESC
			LIMIT 1
		) lm ON TRUE
		LEFT JOIN LATERAL (
			SELECT COUNT(*) AS unread_count
			FROM messages
			WHERE status = 'approved'
			  AND sender_id = p.partner_id
			  AND receiver_id = $1
			  AND is_read = FALSE
		) uc ON TRUE
		ORDER BY lm.created_at DESC NULLS LAST, p.partner_id ASC
	`

	rows, err := r.db.Query(ctx, query, participantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := make([]models.ConversationSummary, 0)
	for rows.Next() {
		var summary models.ConversationSummary
		var messageID sql.NullInt64
		var senderID sql.NullInt64
		var receiverID sql.NullInt64
		var content sql.NullString
		var status sql.NullString
		var isRead sql.NullBool
		var createdAt sql.NullTime

		if err := rows.Scan(
			&summary.PartnerID,
			&messageID,
			&senderID,
			&receiverID,
			&content,
			&status,
			&isRead,
			&createdAt,
			&summary.UnreadCount,
		); err != nil {
			return nil, err
		}

		if messageID.Valid {
			summary.LastMessage = &models.Message{
				ID:         messageID.Int64,
				SenderID:   senderID.Int64,
				ReceiverID: receiverID.Int64,
				Content:    content.String,
				Status:     models.ModerationStatus(status.String),
				IsRead:     isRead.Bool,
				CreatedAt:  createdAt.Time,
			}
		}

		summaries = append(summaries, summary)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return summaries, nil
}

func (r *MessageRepository) scanMessages(
	ctx context.Context,
	query string,
	args ...any,
) ([]models.Message, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := make([]models.Message, 0)
	for rows.Next() {
		var message models.Message
		if err := rows.Scan(
			&message.ID,
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
