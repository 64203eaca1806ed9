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

type completedSessionChecker interface {
	HasCompletedSession(ctx context.Context, userID int64, coachID int64) (bool, error)
}

type InsightSendResult struct {
	Message         *models.InsightMessage
	NeedsModeration bool
}

// InsightService manages insight requests and their message channel. A
// request targets a verified customer of a coach; only once the customer
// accepts may the two parties exchange messages, through the same
// moderation pipeline as direct messages.
type InsightService struct {
	db          *pgxpool.Pool
	requestRepo *repository.InsightRequestRepository
	messageRepo *repository.InsightMessageRepository
	sessionRepo completedSessionChecker
	userRepo    userReader
	filter      contentScreener
	notifier    notify.Notifier
}

func NewInsightService(
	db *pgxpool.Pool,
	requestRepo *repository.InsightRequestRepository,
	messageRepo *repository.InsightMessageRepository,
	sessionRepo completedSessionChecker,
	userRepo userReader,
	filter contentScreener,
	notifier notify.Notifier,
) *InsightService {
	return &InsightService{
		db:          db,
		requestRepo: requestRepo,
		messageRepo: messageRepo,
		sessionRepo: sessionRepo,
		userRepo:    userRepo,
		filter:      filter,
		notifier:    notifier,
	}
}

func (s *InsightService) CreateRequest(
	ctx context.Context,
	requesterID int64,
	customerID int64,
	coachID int64,
	message *string,
) (*models.InsightRequest, error) {
	if customerID <= 0 || coachID <= 0 || customerID == requesterID {
		return nil, ErrInvalidInput
	}
	if message != nil && strings.TrimSpace(*message) == "" {
		return nil, ErrInvalidInput
	}

	coach, err := s.userRepo.GetByID(ctx, coachID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCoachNotFound
		}
		return nil, err
	}
	if coach.Role != "coach" {
		return nil, ErrInvalidInput
	}

	customer, err := s.userRepo.GetByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if customer.IsBanned {
		return nil, ErrInvalidInput
	}

	verified, err := s.sessionRepo.HasCompletedSession(ctx, customerID, coachID)
	if err != nil {
		return nil, err
	}
	if !verified {
		return nil, ErrNotVerifiedCustomer
	}

	open, err := s.requestRepo.HasOpenRequest(ctx, requesterID, customerID, coachID)
	if err != nil {
		return nil, err
	}
	if open {
		return nil, ErrDuplicateRequest
	}

	request, err := s.requestRepo.Create(ctx, requesterID, customerID, coachID, message)
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.Notify(ctx, customerID, "insight.requested", map[string]any{
			"request_id":   request.ID,
			"requester_id": requesterID,
			"coach_id":     coachID,
		})
	}

	return request, nil
}

// Respond lets the verified customer accept or reject a pending request.
// Rejection is terminal: the request can never be reopened and no messages
// may ever flow on it.
func (s *InsightService) Respond(
	ctx context.Context,
	actorID int64,
	requestID int64,
	action string,
) (*models.InsightRequest, error) {
	request, err := s.getRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request.CustomerID != actorID {
		return nil, ErrForbidden
	}

	var next models.InsightRequestStatus
	switch strings.ToLower(strings.TrimSpace(action)) {
	case "accept", "accepted":
		next = models.InsightAccepted
	case "reject", "rejected":
		next = models.InsightRejected
	default:
		return nil, ErrInvalidStatus
	}

	updated, err := s.requestRepo.UpdateStatusIfPending(ctx, requestID, next)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRequestClosed
		}
		return nil, err
	}

	if next == models.InsightAccepted && s.notifier != nil {
		s.notifier.Notify(ctx, updated.RequesterID, "insight.accepted", map[string]any{
			"request_id":  updated.ID,
			"customer_id": updated.CustomerID,
		})
	}

	return updated, nil
}

func (s *InsightService) ListRequests(
	ctx context.Context,
	actorID int64,
) ([]models.InsightRequest, error) {
	return s.requestRepo.ListForUser(ctx, actorID)
}

func (s *InsightService) SendMessage(
	ctx context.Context,
	actorID int64,
	requestID int64,
	content string,
) (*InsightSendResult, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return nil, ErrEmptyContent
	}

	request, err := s.getRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	receiverID, err := counterpart(request, actorID)
	if err != nil {
		return nil, err
	}
	if request.Status != models.InsightAccepted {
		return nil, ErrRequestClosed
	}

	_, flagged, err := s.filter.Screen(ctx, trimmed)
	if err != nil {
		return nil, err
	}

	status := models.StatusApproved
	if flagged {
		status = models.StatusPending
	}

	message, err := s.messageRepo.Create(ctx, requestID, actorID, receiverID, trimmed, status)
	if err != nil {
		return nil, err
	}

	if status == models.StatusApproved && s.notifier != nil {
		s.notifier.Notify(ctx, receiverID, "message.received", map[string]any{
			"request_id": requestID,
			"message_id": message.ID,
			"sender_id":  actorID,
		})
	}

	return &InsightSendResult{
		Message:         message,
		NeedsModeration: status == models.StatusPending,
	}, nil
}

// GetConversation fails closed: a caller who is not a party to the request
// gets ErrForbidden, never an empty list.
func (s *InsightService) GetConversation(
	ctx context.Context,
	actorID int64,
	requestID int64,
) ([]models.InsightMessage, error) {
	request, err := s.getRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if _, err := counterpart(request, actorID); err != nil {
		return nil, err
	}

	return s.fetchAndMarkRead(ctx, actorID, func(repo *repository.InsightMessageRepository) ([]models.InsightMessage, error) {
		return repo.ListByRequest(ctx, requestID)
	})
}

func (s *InsightService) Poll(
	ctx context.Context,
	actorID int64,
	requestID int64,
	lastID int64,
) ([]models.InsightMessage, int64, error) {
	if lastID < 0 {
		return nil, 0, ErrInvalidInput
	}

	request, err := s.getRequest(ctx, requestID)
	if err != nil {
		return nil, 0, err
	}
	if _, err := counterpart(request, actorID); err != nil {
		return nil, 0, err
	}

	messages, err := s.fetchAndMarkRead(ctx, actorID, func(repo *repository.InsightMessageRepository) ([]models.InsightMessage, error) {
		return repo.ListByRequestSince(ctx, requestID, lastID)
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

func (s *InsightService) getRequest(
	ctx context.Context,
	requestID int64,
) (*models.InsightRequest, error) {
	if requestID <= 0 {
		return nil, ErrInvalidInput
	}
	request, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return request, nil
}

// counterpart returns the other designated party, or ErrForbidden when the
// actor is not a party to the request at all.
func counterpart(request *models.InsightRequest, actorID int64) (int64, error) {
	switch actorID {
	case request.RequesterID:
		return request.CustomerID, nil
	case request.CustomerID:
		return request.RequesterID, nil
	default:
		return 0, ErrForbidden
	}
}

func (s *InsightService) fetchAndMarkRead(
	ctx context.Context,
	actorID int64,
	fetch func(repo *repository.InsightMessageRepository) ([]models.InsightMessage, error),
) ([]models.InsightMessage, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	txMessageRepo := repository.NewInsightMessageRepository(tx)

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
