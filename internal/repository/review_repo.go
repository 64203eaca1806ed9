package repository

import (
	"context"

	"github.com/todor147/EduCoachBack/internal/models"
)

type CreateReviewInput struct {
	SessionID int64
	UserID    int64
	CoachID   int64
	Rating    int
	Comment   *string
	Status    models.ModerationStatus
}

type ReviewRepository struct {
	db DBTX
}

func NewReviewRepository(db DBTX) *ReviewRepository {
	return &ReviewRepository{db: db}
}

func (r *ReviewRepository) Create(
	ctx context.Context,
	input CreateReviewInput,
) (*models.Review, error) {
	query := `
		INSERT INTO reviews (session_id, user_id, coach_id, rating, comment, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, session_id, user_id, coach_id, rating, comment, status, created_at
	`
	var review models.Review
	err := r.db.QueryRow(
		ctx,
		query,
		input.SessionID,
		input.UserID,
		input.CoachID,
		input.Rating,
		input.Comment,
		input.Status,
	).Scan(
		&review.ID,
		&review.SessionID,
		&review.UserID,
		&review.CoachID,
		&review.Rating,
		&review.Comment,
		&review.Status,
		&review.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *ReviewRepository) GetByID(ctx context.Context, reviewID int64) (*models.Review, error) {
	query := `
		SELECT id, session_id, user_id, coach_id, rating, comment, status, created_at
		FROM reviews
		WHERE id = $1
	`
	var review models.Review
	err := r.db.QueryRow(ctx, query, reviewID).Scan(
		&review.ID,
		&review.SessionID,
		&review.UserID,
		&review.CoachID,
		&review.Rating,
		&review.Comment,
		&review.Status,
		&review.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *ReviewRepository) ExistsForSession(
	ctx context.Context,
	sessionID int64,
	userID int64,
) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM reviews WHERE session_id = $1 AND user_id = $2
		)
	`
	var exists bool
	if err := r.db.QueryRow(ctx, query, sessionID, userID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *ReviewRepository) ListPending(ctx context.Context) ([]models.Review, error) {
	query := `
		SELECT id, session_id, user_id, coach_id, rating, comment, status, created_at
		FROM reviews
		WHERE status = 'pending'
		ORDER BY created_at DESC, id DESC
	`
	return r.scanReviews(ctx, query)
}

func (r *ReviewRepository) ListApprovedByCoach(
	ctx context.Context,
	coachID int64,
) ([]models.Review, error) {
	query := `
		SELECT id, session_id, user_id, coach_id, rating, comment, status, created_at
		FROM reviews
		WHERE coach_id = $1 AND status = 'approved'
		ORDER BY created_at DESC, id DESC
	`
	return r.scanReviews(ctx, query, coachID)
}

func (r *ReviewRepository) UpdateStatus(
	ctx context.Context,
	reviewID int64,
	status models.ModerationStatus,
) (*models.Review, error) {
	query := `
		UPDATE reviews
		SET status = $2
		WHERE id = $1
		RETURNING id, session_id, user_id, coach_id, rating, comment, status, created_at
	`
	var review models.Review
	err := r.db.QueryRow(ctx, query, reviewID, status).Scan(
		&review.ID,
		&review.SessionID,
		&review.UserID,
		&review.CoachID,
		&review.Rating,
		&review.Comment,
		&review.Status,
		&review.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *ReviewRepository) scanReviews(
	ctx context.Context,
	query string,
	args ...any,
) ([]models.Review, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reviews := make([]models.Review, 0)
	for rows.Next() {
		var review models.Review
		if err := rows.Scan(
			&review.ID,
			&review.SessionID,
			&review.UserID,
			&review.CoachID,
			&review.Rating,
			&review.Comment,
			&review.Status,
			&review.CreatedAt,
		); err != nil {
			return nil, err
		}
		reviews = append(reviews, review)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return reviews, nil
}
