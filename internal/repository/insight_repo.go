package repository

import (
	"context"

	"github.com/todor147/EduCoachBack/internal/models"
)

type InsightRequestRepository struct {
	db DBTX
}

func NewInsightRequestRepository(db DBTX) *InsightRequestRepository {
	return &InsightRequestRepository{db: db}
}

func (r *InsightRequestRepository) Create(
	ctx context.Context,
	requesterID int64,
	customerID int64,
	coachID int64,
	message *string,
) (*models.InsightRequest, error) {
	query := `
		INSERT INTO insight_requests (requester_id, customer_id, coach_id, status, message)
		VALUES ($1, $2, $3, 'pending', $4)
		RETURNING id, requester_id, customer_id, coach_id, status, message, created_at, updated_at
	`
	var request models.InsightRequest
	err := r.db.QueryRow(ctx, query, requesterID, customerID, coachID, message).Scan(
		&request.ID,
		&request.RequesterID,
		&request.CustomerID,
		&request.CoachID,
		&request.Status,
		&request.Message,
		&request.CreatedAt,
		&request.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *InsightRequestRepository) GetByID(
	ctx context.Context,
	requestID int64,
) (*models.InsightRequest, error) {
	query := `
		SELECT id, requester_id, customer_id, coach_id, status, message, created_at, updated_at
		FROM insight_requests
		WHERE id = $1
	`
	var request models.InsightRequest
	err := r.db.QueryRow(ctx, query, requestID).Scan(
		&request.ID,
		&request.RequesterID,
		&request.CustomerID,
		&request.CoachID,
		&request.Status,
		&request.Message,
		&request.CreatedAt,
		&request.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &request, nil
}

// HasOpenRequest reports whether a pending or accepted request already links
// the same requester, customer and coach.
func (r *InsightRequestRepository) HasOpenRequest(
	ctx context.Context,
	requesterID int64,
	customerID int64,
	coachID int64,
) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM insight_requests
			WHERE requester_id = $1
			  AND customer_id = $2
			  AND coach_id = $3
			  AND status IN ('pending', 'accepted')
		)
	`
	var exists bool
	if err := r.db.QueryRow(ctx, query, requesterID, customerID, coachID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// UpdateStatusIfPending transitions a request out of pending exactly once.
// Responding to an already-decided request yields pgx.ErrNoRows.
func (r *InsightRequestRepository) UpdateStatusIfPending(
	ctx context.Context,
	requestID int64,
	status models.InsightRequestStatus,
) (*models.InsightRequest, error) {
	query := `
		UPDATE insight_requests
		SET status = $2, updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
		RETURNING id, requester_id, customer_id, coach_id, status, message, created_at, updated_at
	`
	var request models.InsightRequest
	err := r.db.QueryRow(ctx, query, requestID, status).Scan(
		&request.ID,
		&request.RequesterID,
		&request.CustomerID,
		&request.CoachID,
		&request.Status,
		&request.Message,
		&request.CreatedAt,
		&request.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &request, nil
}

// ListForUser returns requests the user is a party to, newest first.
func (r *InsightRequestRepository) ListForUser(
	ctx context.Context,
	userID int64,
) ([]models.InsightRequest, error) {
	query := `
		SELECT id, requester_id, customer_id, coach_id, status, message, created_at, updated_at
		FROM insight_requests
		WHERE requester_id = $1 OR customer_id = $1
		ORDER BY created_at DESC, id DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	requests := make([]models.InsightRequest, 0)
	for rows.Next() {
		var request models.InsightRequest
		if err := rows.Scan(
			&request.ID,
			&request.RequesterID,
			&request.CustomerID,
			&request.CoachID,
			&request.Status,
			&request.Message,
			&request.CreatedAt,
			&request.UpdatedAt,
		); err != nil {
			return nil, err
		}
		requests = append(requests, request)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return requests, nil
}
