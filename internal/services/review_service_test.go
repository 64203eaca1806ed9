package services

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/todor147/EduCoachBack/internal/models"
)

type stubSessionReader struct {
	session *models.Session
	err     error
}

func (s *stubSessionReader) GetByID(context.Context, int64) (*models.Session, error) {
	return s.session, s.err
}

func TestSubmitReviewRatingBoundaries(t *testing.T) {
	service := NewReviewService(nil, nil, &stubSessionReader{err: pgx.ErrNoRows}, nil)

	// Ratings outside 1..5 are rejected before any storage access.
	for _, rating := range []int{-1, 0, 6, 100} {
		if _, err := service.Submit(context.Background(), 42, 11, rating, nil); !errors.Is(err, ErrInvalidRating) {
			t.Fatalf("rating %d: expected ErrInvalidRating, got %v", rating, err)
		}
	}

	// Ratings 1 and 5 pass validation and reach the session lookup.
	for _, rating := range []int{1, 5} {
		if _, err := service.Submit(context.Background(), 42, 11, rating, nil); !errors.Is(err, ErrNotFound) {
			t.Fatalf("rating %d: expected ErrNotFound from missing session, got %v", rating, err)
		}
	}
}

func TestSubmitReviewRequiresOwnCompletedSession(t *testing.T) {
	t.Run("someone else's session", func(t *testing.T) {
		service := NewReviewService(nil, nil, &stubSessionReader{
			session: &models.Session{ID: 11, UserID: 99, CoachID: 7, Status: models.SessionCompleted},
		}, nil)

		if _, err := service.Submit(context.Background(), 42, 11, 4, nil); !errors.Is(err, ErrForbidden) {
			t.Fatalf("expected ErrForbidden, got %v", err)
		}
	})

	t.Run("session not completed", func(t *testing.T) {
		service := NewReviewService(nil, nil, &stubSessionReader{
			session: &models.Session{ID: 11, UserID: 42, CoachID: 7, Status: models.SessionConfirmed},
		}, nil)

		if _, err := service.Submit(context.Background(), 42, 11, 4, nil); !errors.Is(err, ErrSessionNotCompleted) {
			t.Fatalf("expected ErrSessionNotCompleted, got %v", err)
		}
	})
}

func TestSubmitReviewInvalidSession(t *testing.T) {
	service := NewReviewService(nil, nil, &stubSessionReader{}, nil)

	if _, err := service.Submit(context.Background(), 42, 0, 4, nil); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
