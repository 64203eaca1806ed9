package services

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/todor147/EduCoachBack/internal/models"
	"github.com/todor147/EduCoachBack/internal/repository"
)

type sessionReader interface {
	GetByID(ctx context.Context, sessionID int64) (*models.Session, error)
}

type ReviewService struct {
	db          *pgxpool.Pool
	reviewRepo  *repository.ReviewRepository
	sessionRepo sessionReader
	filter      contentScreener
}

// SubmitReviewResult reports whether the review is visible immediately or
// held for moderation. Either way the coach aggregate already includes it:
// pending reviews count toward the average until rejected.
type SubmitReviewResult struct {
	Review  *models.Review
	Visible bool
}

func NewReviewService(
	db *pgxpool.Pool,
	reviewRepo *repository.ReviewRepository,
	sessionRepo sessionReader,
	filter contentScreener,
) *ReviewService {
	return &ReviewService{
		db:          db,
		reviewRepo:  reviewRepo,
		sessionRepo: sessionRepo,
		filter:      filter,
	}
}

func (s *ReviewService) Submit(
	ctx context.Context,
	actorID int64,
	sessionID int64,
	rating int,
	comment *string,
) (*SubmitReviewResult, error) {
	if sessionID <= 0 {
		return nil, ErrInvalidInput
	}
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}

	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if session.UserID != actorID {
		return nil, ErrForbidden
	}
	if session.Status != models.SessionCompleted {
		return nil, ErrSessionNotCompleted
	}

	exists, err := s.reviewRepo.ExistsForSession(ctx, sessionID, actorID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateReview
	}

	status := models.StatusApproved
	if comment != nil {
		trimmedComment := strings.TrimSpace(*comment)
		if trimmedComment == "" {
			comment = nil
		} else {
			comment = &trimmedComment
			_, flagged, err := s.filter.Screen(ctx, trimmedComment)
			if err != nil {
				return nil, err
			}
			if flagged {
				status = models.StatusPending
			}
		}
	}

	// Insert and aggregate recompute are atomic: a review must never land
	// without the coach rating reflecting it, and vice versa.
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	txReviewRepo := repository.NewReviewRepository(tx)
	txCoachProfileRepo := repository.NewCoachProfileRepository(tx)

	review, err := txReviewRepo.Create(ctx, repository.CreateReviewInput{
		SessionID: sessionID,
		UserID:    actorID,
		CoachID:   session.CoachID,
		Rating:    rating,
		Comment:   comment,
		Status:    status,
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrDuplicateReview
		}
		return nil, err
	}

	if err := txCoachProfileRepo.RecomputeRating(ctx, session.CoachID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &SubmitReviewResult{
		Review:  review,
		Visible: status == models.StatusApproved,
	}, nil
}

// ListForCoach returns the publicly visible reviews of a coach: approved
// only, even though pending ones already count toward the average.
func (s *ReviewService) ListForCoach(
	ctx context.Context,
	coachID int64,
) ([]models.Review, error) {
	if coachID <= 0 {
		return nil, ErrInvalidInput
	}
	return s.reviewRepo.ListApprovedByCoach(ctx, coachID)
}
