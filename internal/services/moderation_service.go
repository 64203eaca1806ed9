package services

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/todor147/EduCoachBack/internal/models"
	"github.com/todor147/EduCoachBack/internal/moderation"
	"github.com/todor147/EduCoachBack/internal/repository"
)

// ModerationService backs the admin queue: pending submissions of every
// kind, approve/reject actions, and the banned word list itself.
type ModerationService struct {
	db             *pgxpool.Pool
	messageRepo    *repository.MessageRepository
	insightMsgRepo *repository.InsightMessageRepository
	reviewRepo     *repository.ReviewRepository
	bannedWordRepo *repository.BannedWordRepository
	filter         *moderation.Filter
}

func NewModerationService(
	db *pgxpool.Pool,
	messageRepo *repository.MessageRepository,
	insightMsgRepo *repository.InsightMessageRepository,
	reviewRepo *repository.ReviewRepository,
	bannedWordRepo *repository.BannedWordRepository,
	filter *moderation.Filter,
) *ModerationService {
	return &ModerationService{
		db:             db,
		messageRepo:    messageRepo,
		insightMsgRepo: insightMsgRepo,
		reviewRepo:     reviewRepo,
		bannedWordRepo: bannedWordRepo,
		filter:         filter,
	}
}

func (s *ModerationService) ListPendingMessages(ctx context.Context) ([]models.Message, error) {
	return s.messageRepo.ListPending(ctx)
}

func (s *ModerationService) ListPendingInsightMessages(ctx context.Context) ([]models.InsightMessage, error) {
	return s.insightMsgRepo.ListPending(ctx)
}

func (s *ModerationService) ListPendingReviews(ctx context.Context) ([]models.Review, error) {
	return s.reviewRepo.ListPending(ctx)
}

// ModerateMessage applies approve/reject as an idempotent overwrite,
// regardless of the item's current status. Approval makes the message
// visible through the polling endpoints; the original submission-time
// notification is not re-sent.
func (s *ModerationService) ModerateMessage(
	ctx context.Context,
	messageID int64,
	action string,
) (*models.Message, error) {
	status, err := parseModerationAction(action)
	if err != nil {
		return nil, err
	}
	if messageID <= 0 {
		return nil, ErrInvalidInput
	}

	message, err := s.messageRepo.UpdateStatus(ctx, messageID, status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return message, nil
}

func (s *ModerationService) ModerateInsightMessage(
	ctx context.Context,
	messageID int64,
	action string,
) (*models.InsightMessage, error) {
	status, err := parseModerationAction(action)
	if err != nil {
		return nil, err
	}
	if messageID <= 0 {
		return nil, ErrInvalidInput
	}

	message, err := s.insightMsgRepo.UpdateStatus(ctx, messageID, status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return message, nil
}

// ModerateReview changes the review status and recomputes the coach
// aggregate in the same transaction, since rejecting removes the rating
// from the average and approving keeps it in.
func (s *ModerationService) ModerateReview(
	ctx context.Context,
	reviewID int64,
	action string,
) (*models.Review, error) {
	status, err := parseModerationAction(action)
	if err != nil {
		return nil, err
	}
	if reviewID <= 0 {
		return nil, ErrInvalidInput
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	txReviewRepo := repository.NewReviewRepository(tx)
	txCoachProfileRepo := repository.NewCoachProfileRepository(tx)

	review, err := txReviewRepo.UpdateStatus(ctx, reviewID, status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if err := txCoachProfileRepo.RecomputeRating(ctx, review.CoachID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return review, nil
}

func (s *ModerationService) ListBannedWords(ctx context.Context) ([]models.BannedWord, error) {
	return s.bannedWordRepo.List(ctx)
}

func (s *ModerationService) AddBannedWord(ctx context.Context, word string) (*models.BannedWord, error) {
	normalized := strings.ToLower(strings.TrimSpace(word))
	if normalized == "" {
		return nil, ErrInvalidInput
	}

	banned, err := s.bannedWordRepo.Add(ctx, normalized)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrDuplicateWord
		}
		return nil, err
	}

	s.filter.Invalidate()
	return banned, nil
}

func (s *ModerationService) RemoveBannedWord(ctx context.Context, wordID int64) error {
	if wordID <= 0 {
		return ErrInvalidInput
	}

	removed, err := s.bannedWordRepo.Remove(ctx, wordID)
	if err != nil {
		return err
	}
	if !removed {
		return ErrNotFound
	}

	s.filter.Invalidate()
	return nil
}

func parseModerationAction(action string) (models.ModerationStatus, error) {
	switch strings.ToLower(strings.TrimSpace(action)) {
	case "approve", "approved":
		return models.StatusApproved, nil
	case "reject", "rejected":
		return models.StatusRejected, nil
	default:
		return "", ErrInvalidStatus
	}
}
