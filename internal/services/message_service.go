package services

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/todor147/EduCoachBack/internal/models"
	"github.com/todor147/EduCoachBack/internal/notify"
	"github.com/todor147/EduCoachBack/internal/repository"
)

type userReader interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

type contentScreener interface {
	Screen(ctx context.Context, text string) (string, bool, error)
}

type MessageService struct {
	db          *pgxpool.Pool
	messageRepo *repository.MessageRepository
	userRepo    userReader
	filter      contentScreener
	notifier    notify.Notifier
}

// SendResult reports whether the message went straight through or was held
// for moderation. Held messages are never delivered until an admin
// approves them.
type SendResult struct {
	Message         *models.Message
	NeedsModeration bool
}

func NewMessageService(
	db *pgxpool.Pool,
	messageRepo *repository.MessageRepository,
	userRepo userReader,
	filter contentScreener,
	notifier notify.Notifier,
) *MessageService {
	return &MessageService{
		db:          db,
		messageRepo: messageRepo,
		userRepo:    userRepo,
		filter:      filter,
		notifier:    notifier,
	}
}

func (s *MessageService) Send(
	ctx context.Context,
	senderID int64,
	receiverID int64,
	content string,
) (*SendResult, error) {
	if receiverID <= 0 || receiverID == senderID {
		return nil, ErrInvalidReceiver
	}

	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return nil, ErrEmptyContent
	}

	receiver, err := s.userRepo.GetByID(ctx, receiverID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrReceiverNotFound
		}
		return nil, err
	}
	if receiver.IsBanned {
		return nil, ErrInvalidReceiver
	}

	_, flagged, err := s.filter.Screen(ctx, trimmed)
	if err != nil {
		return nil, err
	}

	status := models.StatusApproved
	if flagged {
		status = models.StatusPending
	}

	message, err := s.messageRepo.Create(ctx, senderID, receiverID, trimmed, status)
	if err != nil {
		return nil, err
	}

	// Pending messages are not announced; the receiver learns about them
	// only if moderation approves, via the polling endpoints.
	if status == models.StatusApproved && s.notifier != nil {
		s.notifier.Notify(ctx, receiverID, "message.received", map[string]any{
			"message_id": message.ID,
			"sender_id":  senderID,
		})
	}

	return &SendResult{
		Message:         message,
		NeedsModeration: status == models.StatusPending,
	}, nil
}

// GetConversation returns the full approved history between the caller and
// the partner and marks messages addressed to the caller as read. The
// read-marking runs in the same transaction, after the rows are fetched.
func (s *MessageService) GetConversation(
	ctx context.Context,
	actorID int64,
	partnerID int64,
) ([]models.Message, error) {
	if partnerID <= 0 || partnerID == actorID {
		return nil, ErrInvalidInput
	}
	if _, err := s.userRepo.GetByID(ctx, partnerID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return s.fetchAndMarkRead(ctx, actorID, func(repo *repository.MessageRepository) ([]models.Message, error) {
		return repo.ListConversation(ctx, actorID, partnerID)
	})
}

// Poll is the incremental fetch: approved messages with id above the
// caller's watermark. Returns the new watermark alongside the messages so
// the client can repeat the call on its interval.
func (s *MessageService) Poll(
	ctx context.Context,
	actorID int64,
	partnerID int64,
	lastID int64,
) ([]models.Message, int64, error) {
	if partnerID <= 0 || partnerID == actorID || lastID < 0 {
		return nil, 0, ErrInvalidInput
	}

	messages, err := s.fetchAndMarkRead(ctx, actorID, func(repo *repository.MessageRepository) ([]models.Message, error) {
		return repo.ListConversationSince(ctx, actorID, partnerID, lastID)
	})
	if err != nil {
		return nil, 0, err
	}

	newLastID := lastID
	if len(messages) > 0 {
		newLastID = messages[len(messages)-1].ID
	}
	return messages, newLastID, nil
}

func (s *MessageService) ListConversations(
	ctx context.Context,
	actorID int64,
) ([]models.ConversationSummary, error) {
	return s.messageRepo.ListConversationSummaries(ctx, actorID)
}

func (s *MessageService) fetchAndMarkRead(
	ctx context.Context,
	actorID int64,
	fetch func(repo *repository.MessageRepository) ([]models.Message, error),
) ([]models.Message, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	txMessageRepo := repository.NewMessageRepository(tx)

	messages, err := fetch(txMessageRepo)
	if err != nil {
		return nil, err
	}

	inboundIDs := make([]int64, 0, len(messages))
	for _, message := range messages {
		if message.ReceiverID == actorID {
			inboundIDs = append(inboundIDs, message.ID)
		}
	}

	if err := txMessageRepo.MarkMessagesRead(ctx, inboundIDs, actorID); err != nil {
		return nil, err
	}

	for i := range messages {
		if messages[i].ReceiverID == actorID {
			messages[i].IsRead = true
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return messages, nil
}
