package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/todor147/EduCoachBack/internal/models"
	"github.com/todor147/EduCoachBack/internal/services"
)

type stubReviewService struct {
	submitResult  *services.SubmitReviewResult
	submitErr     error
	listResult    []models.Review
	listErr       error
	lastActorID   int64
	lastSessionID int64
	lastRating    int
}

func (s *stubReviewService) Submit(_ context.Context, actorID, sessionID int64, rating int, _ *string) (*services.SubmitReviewResult, error) {
	s.lastActorID = actorID
	s.lastSessionID = sessionID
	s.lastRating = rating
	return s.submitResult, s.submitErr
}

func (s *stubReviewService) ListForCoach(_ context.Context, coachID int64) ([]models.Review, error) {
	return s.listResult, s.listErr
}

func newReviewTestApp(service *stubReviewService, userID, role string) *fiber.App {
	handler := NewReviewHandler(service)
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user_id", userID)
		c.Locals("role", role)
		return c.Next()
	})
	app.Post("/api/v1/reviews", handler.Submit)
	return app
}

func postReview(t *testing.T, app *fiber.App, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/reviews", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	return resp
}

func TestSubmitReviewCleanCommentIsPublished(t *testing.T) {
	service := &stubReviewService{
		submitResult: &services.SubmitReviewResult{
			Review:  &models.Review{ID: 5, SessionID: 11, UserID: 42, CoachID: 7, Rating: 4, Status: models.StatusApproved},
			Visible: true,
		},
	}
	app := newReviewTestApp(service, "42", "user")

	resp := postReview(t, app, `{"session_id": 11, "rating": 4, "comment": "great coach"}`)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	body := decodeBody(t, resp)
	if body["visible"] != true {
		t.Fatalf("expected visible true, got %v", body["visible"])
	}
	if service.lastSessionID != 11 || service.lastRating != 4 {
		t.Fatalf("service saw session=%d rating=%d", service.lastSessionID, service.lastRating)
	}
}

func TestSubmitReviewFlaggedCommentIsHeld(t *testing.T) {
	service := &stubReviewService{
		submitResult: &services.SubmitReviewResult{
			Review:  &models.Review{ID: 6, Rating: 1, Status: models.StatusPending},
			Visible: false,
		},
	}
	app := newReviewTestApp(service, "42", "user")

	resp := postReview(t, app, `{"session_id": 11, "rating": 1, "comment": "what a scam"}`)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	body := decodeBody(t, resp)
	if body["visible"] != false {
		t.Fatalf("expected visible false, got %v", body["visible"])
	}
}

func TestSubmitReviewCoachRoleIsForbidden(t *testing.T) {
	app := newReviewTestApp(&stubReviewService{}, "7", "coach")

	resp := postReview(t, app, `{"session_id": 11, "rating": 4}`)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}
}

func TestSubmitReviewErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"invalid rating", services.ErrInvalidRating, http.StatusBadRequest},
		{"duplicate", services.ErrDuplicateReview, http.StatusConflict},
		{"session not completed", services.ErrSessionNotCompleted, http.StatusBadRequest},
		{"not own session", services.ErrForbidden, http.StatusForbidden},
		{"unknown session", services.ErrNotFound, http.StatusNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := newReviewTestApp(&stubReviewService{submitErr: tc.err}, "42", "user")

			resp := postReview(t, app, `{"session_id": 11, "rating": 3}`)
			defer resp.Body.Close()

			if resp.StatusCode != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, resp.StatusCode)
			}
		})
	}
}
