package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/todor147/EduCoachBack/internal/models"
	"github.com/todor147/EduCoachBack/internal/services"
)

type stubMessageService struct {
	sendResult        *services.SendResult
	sendErr           error
	conversation      []models.Message
	conversationErr   error
	pollResult        []models.Message
	pollLastID        int64
	pollErr           error
	summaries         []models.ConversationSummary
	summariesErr      error
	lastSenderID      int64
	lastReceiverID    int64
	lastContent       string
	lastPartnerID     int64
	lastPollWatermark int64
}

func (s *stubMessageService) Send(_ context.Context, senderID, receiverID int64, content string) (*services.SendResult, error) {
	s.lastSenderID = senderID
	s.lastReceiverID = receiverID
	s.lastContent = content
	return s.sendResult, s.sendErr
}

func (s *stubMessageService) GetConversation(_ context.Context, actorID, partnerID int64) ([]models.Message, error) {
	s.lastSenderID = actorID
	s.lastPartnerID = partnerID
	return s.conversation, s.conversationErr
}

func (s *stubMessageService) Poll(_ context.Context, actorID, partnerID, lastID int64) ([]models.Message, int64, error) {
	s.lastSenderID = actorID
	s.lastPartnerID = partnerID
	s.lastPollWatermark = lastID
	return s.pollResult, s.pollLastID, s.pollErr
}

func (s *stubMessageService) ListConversations(_ context.Context, actorID int64) ([]models.ConversationSummary, error) {
	s.lastSenderID = actorID
	return s.summaries, s.summariesErr
}

func newMessageTestApp(service *stubMessageService, userID string) *fiber.App {
	handler := NewMessageHandler(service)
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user_id", userID)
		c.Locals("role", "user")
		return c.Next()
	})
	app.Post("/api/v1/messages", handler.Send)
	app.Get("/api/v1/messages/:partnerID", handler.GetConversation)
	app.Get("/api/v1/messages/:partnerID/poll", handler.Poll)
	app.Get("/api/v1/conversations", handler.ListConversations)
	return app
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return body
}

func TestSendMessageCleanContentDeliversImmediately(t *testing.T) {
	service := &stubMessageService{
		sendResult: &services.SendResult{
			Message: &models.Message{
				ID:         12,
				SenderID:   42,
				ReceiverID: 7,
				Content:    "Hello, how are you?",
				Status:     models.StatusApproved,
			},
		},
	}
	app := newMessageTestApp(service, "42")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/messages", strings.NewReader(`{
		"receiver_id": 7,
		"content": "Hello, how are you?"
	}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	body := decodeBody(t, resp)
	if body["needs_moderation"] != false {
		t.Fatalf("expected needs_moderation false, got %v", body["needs_moderation"])
	}
	if body["message_id"] != float64(12) {
		t.Fatalf("expected message_id 12, got %v", body["message_id"])
	}
	if body["content"] != "Hello, how are you?" {
		t.Fatalf("unexpected content %v", body["content"])
	}
	if service.lastSenderID != 42 || service.lastReceiverID != 7 {
		t.Fatalf("service saw sender=%d receiver=%d", service.lastSenderID, service.lastReceiverID)
	}
}

func TestSendMessageFlaggedContentIsHeld(t *testing.T) {
	service := &stubMessageService{
		sendResult: &services.SendResult{
			Message: &models.Message{
				ID:     13,
				Status: models.StatusPending,
			},
			NeedsModeration: true,
		},
	}
	app := newMessageTestApp(service, "42")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/messages", strings.NewReader(`{
		"receiver_id": 7,
		"content": "this is a scam"
	}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", resp.StatusCode)
	}
	body := decodeBody(t, resp)
	if body["needs_moderation"] != true {
		t.Fatalf("expected needs_moderation true, got %v", body["needs_moderation"])
	}
	// Held messages leak neither id nor content.
	if _, ok := body["message_id"]; ok {
		t.Fatal("held message response must not include message_id")
	}
	if _, ok := body["content"]; ok {
		t.Fatal("held message response must not include content")
	}
}

func TestSendMessageUnknownReceiverIsNotFound(t *testing.T) {
	service := &stubMessageService{sendErr: services.ErrReceiverNotFound}
	app := newMessageTestApp(service, "42")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/messages", strings.NewReader(`{
		"receiver_id": 9999,
		"content": "hello"
	}`))
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

func TestSendMessageEmptyContentIsBadRequest(t *testing.T) {
	service := &stubMessageService{sendErr: services.ErrEmptyContent}
	app := newMessageTestApp(service, "42")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/messages", strings.NewReader(`{
		"receiver_id": 7,
		"content": "   "
	}`))
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

func TestGetConversationReturnsMessagesAndWatermark(t *testing.T) {
	service := &stubMessageService{
		conversation: []models.Message{
			{ID: 4, SenderID: 7, ReceiverID: 42, Content: "hi", Status: models.StatusApproved},
			{ID: 9, SenderID: 42, ReceiverID: 7, Content: "hello", Status: models.StatusApproved},
		},
	}
	app := newMessageTestApp(service, "42")

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/messages/7", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	body := decodeBody(t, resp)
	if body["last_id"] != float64(9) {
		t.Fatalf("expected last_id 9, got %v", body["last_id"])
	}
	if service.lastPartnerID != 7 {
		t.Fatalf("expected partner 7, got %d", service.lastPartnerID)
	}
}

func TestPollPassesWatermarkAndReturnsNewOne(t *testing.T) {
	service := &stubMessageService{
		pollResult: []models.Message{{ID: 15, Content: "new one"}},
		pollLastID: 15,
	}
	app := newMessageTestApp(service, "42")

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/messages/7/poll?last_id=9", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if service.lastPollWatermark != 9 {
		t.Fatalf("expected watermark 9, got %d", service.lastPollWatermark)
	}
	body := decodeBody(t, resp)
	if body["last_id"] != float64(15) {
		t.Fatalf("expected last_id 15, got %v", body["last_id"])
	}
}

func TestPollRejectsNegativeWatermark(t *testing.T) {
	app := newMessageTestApp(&stubMessageService{}, "42")

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/messages/7/poll?last_id=-1", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestListConversationsReturnsSummaries(t *testing.T) {
	service := &stubMessageService{
		summaries: []models.ConversationSummary{
			{PartnerID: 7, UnreadCount: 3, LastMessage: &models.Message{ID: 9, Content: "hello"}},
		},
	}
	app := newMessageTestApp(service, "42")

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/conversations", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	body := decodeBody(t, resp)
	conversations, ok := body["conversations"].([]any)
	if !ok || len(conversations) != 1 {
		t.Fatalf("expected one conversation, got %v", body["conversations"])
	}
}
