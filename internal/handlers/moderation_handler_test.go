package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/todor147/EduCoachBack/internal/middleware"
	"github.com/todor147/EduCoachBack/internal/models"
	"github.com/todor147/EduCoachBack/internal/services"
)

type stubModerationService struct {
	pendingMessages        []models.Message
	pendingInsightMessages []models.InsightMessage
	pendingReviews         []models.Review
	moderateMessageResult  *models.Message
	moderateMessageErr     error
	moderateInsightResult  *models.InsightMessage
	moderateInsightErr     error
	moderateReviewResult   *models.Review
	moderateReviewErr      error
	words                  []models.BannedWord
	addResult              *models.BannedWord
	addErr                 error
	removeErr              error
	lastTargetID           int64
	lastAction             string
	lastWord               string
}

func (s *stubModerationService) ListPendingMessages(context.Context) ([]models.Message, error) {
	return s.pendingMessages, nil
}

func (s *stubModerationService) ListPendingInsightMessages(context.Context) ([]models.InsightMessage, error) {
	return s.pendingInsightMessages, nil
}

func (s *stubModerationService) ListPendingReviews(context.Context) ([]models.Review, error) {
	return s.pendingReviews, nil
}

func (s *stubModerationService) ModerateMessage(_ context.Context, messageID int64, action string) (*models.Message, error) {
	s.lastTargetID = messageID
	s.lastAction = action
	return s.moderateMessageResult, s.moderateMessageErr
}

func (s *stubModerationService) ModerateInsightMessage(_ context.Context, messageID int64, action string) (*models.InsightMessage, error) {
	s.lastTargetID = messageID
	s.lastAction = action
	return s.moderateInsightResult, s.moderateInsightErr
}

func (s *stubModerationService) ModerateReview(_ context.Context, reviewID int64, action string) (*models.Review, error) {
	s.lastTargetID = reviewID
	s.lastAction = action
	return s.moderateReviewResult, s.moderateReviewErr
}

func (s *stubModerationService) ListBannedWords(context.Context) ([]models.BannedWord, error) {
	return s.words, nil
}

func (s *stubModerationService) AddBannedWord(_ context.Context, word string) (*models.BannedWord, error) {
	s.lastWord = word
	return s.addResult, s.addErr
}

func (s *stubModerationService) RemoveBannedWord(_ context.Context, wordID int64) error {
	s.lastTargetID = wordID
	return s.removeErr
}

func newModerationTestApp(service *stubModerationService, role string) *fiber.App {
	handler := NewModerationHandler(service)
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user_id", "1")
		c.Locals("role", role)
		return c.Next()
	})
	admin := app.Group("/api/v1/admin", middleware.AdminRequired())
	admin.Get("/moderation/messages", handler.ListPendingMessages)
	admin.Put("/moderation/messages/:id", handler.ModerateMessage)
	admin.Put("/moderation/reviews/:id", handler.ModerateReview)
	admin.Post("/banned-words", handler.AddBannedWord)
	admin.Delete("/banned-words/:id", handler.RemoveBannedWord)
	return app
}

func TestModerationEndpointsRequireAdminRole(t *testing.T) {
	app := newModerationTestApp(&stubModerationService{}, "user")

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/admin/moderation/messages", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}
}

func TestListPendingMessagesReturnsQueue(t *testing.T) {
	service := &stubModerationService{
		pendingMessages: []models.Message{
			{ID: 3, SenderID: 42, ReceiverID: 7, Content: "flagged", Status: models.StatusPending},
		},
	}
	app := newModerationTestApp(service, "admin")

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/admin/moderation/messages", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	body := decodeBody(t, resp)
	messages, ok := body["messages"].([]any)
	if !ok || len(messages) != 1 {
		t.Fatalf("expected one pending message, got %v", body["messages"])
	}
}

func TestModerateMessagePassesAction(t *testing.T) {
	service := &stubModerationService{
		moderateMessageResult: &models.Message{ID: 3, Status: models.StatusApproved},
	}
	app := newModerationTestApp(service, "admin")

	req := httptest.NewRequest(http.MethodPut, "/api/v1/admin/moderation/messages/3", strings.NewReader(`{"action": "approve"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if service.lastTargetID != 3 || service.lastAction != "approve" {
		t.Fatalf("service saw id=%d action=%q", service.lastTargetID, service.lastAction)
	}
}

func TestModerateMessageUnknownActionIsBadRequest(t *testing.T) {
	service := &stubModerationService{moderateMessageErr: services.ErrInvalidStatus}
	app := newModerationTestApp(service, "admin")

	req := httptest.NewRequest(http.MethodPut, "/api/v1/admin/moderation/messages/3", strings.NewReader(`{"action": "maybe"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestModerateMessageMissingTargetIsNotFound(t *testing.T) {
	service := &stubModerationService{moderateMessageErr: services.ErrNotFound}
	app := newModerationTestApp(service, "admin")

	req := httptest.NewRequest(http.MethodPut, "/api/v1/admin/moderation/messages/9999", strings.NewReader(`{"action": "reject"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestAddBannedWordDuplicateIsConflict(t *testing.T) {
	service := &stubModerationService{addErr: services.ErrDuplicateWord}
	app := newModerationTestApp(service, "admin")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/banned-words", strings.NewReader(`{"word": "scam"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.StatusCode)
	}
}

func TestRemoveBannedWord(t *testing.T) {
	service := &stubModerationService{}
	app := newModerationTestApp(service, "admin")

	resp, err := app.Test(httptest.NewRequest(http.MethodDelete, "/api/v1/admin/banned-words/4", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if service.lastTargetID != 4 {
		t.Fatalf("expected word id 4, got %d", service.lastTargetID)
	}
}
