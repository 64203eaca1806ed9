package handlers

import (
	"context"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/todor147/EduCoachBack/internal/models"
	"github.com/todor147/EduCoachBack/internal/services"
)

type messageApplicationService interface {
	Send(ctx context.Context, senderID int64, receiverID int64, content string) (*services.SendResult, error)
	GetConversation(ctx context.Context, actorID int64, partnerID int64) ([]models.Message, error)
	Poll(ctx context.Context, actorID int64, partnerID int64, lastID int64) ([]models.Message, int64, error)
	ListConversations(ctx context.Context, actorID int64) ([]models.ConversationSummary, error)
}

type MessageHandler struct {
	service messageApplicationService
}

func NewMessageHandler(service messageApplicationService) *MessageHandler {
	return &MessageHandler{service: service}
}

type sendMessageRequest struct {
	ReceiverID int64  `json:"receiver_id"`
	Content    string `json:"content"`
}

func (h *MessageHandler) Send(c *fiber.Ctx) error {
	actorID, err := parseActorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req sendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	result, err := h.service.Send(c.Context(), actorID, req.ReceiverID, req.Content)
	if err != nil {
		return mapServiceError(c, err)
	}

	if result.NeedsModeration {
		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
			"success":          true,
			"message":          "Message held for moderation",
			"needs_moderation": true,
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":          true,
		"message":          "Message sent",
		"needs_moderation": false,
		"message_id":       result.Message.ID,
		"content":          result.Message.Content,
	})
}

func (h *MessageHandler) GetConversation(c *fiber.Ctx) error {
	actorID, err := parseActorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	partnerID, err := strconv.ParseInt(c.Params("partnerID"), 10, 64)
	if err != nil || partnerID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid partner id"})
	}

	messages, err := h.service.GetConversation(c.Context(), actorID, partnerID)
	if err != nil {
		return mapServiceError(c, err)
	}

	lastID := int64(0)
	if len(messages) > 0 {
		lastID = messages[len(messages)-1].ID
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"messages": messages,
		"last_id":  lastID,
	})
}

func (h *MessageHandler) Poll(c *fiber.Ctx) error {
	actorID, err := parseActorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	partnerID, err := strconv.ParseInt(c.Params("partnerID"), 10, 64)
	if err != nil || partnerID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid partner id"})
	}

	lastID, err := strconv.ParseInt(c.Query("last_id", "0"), 10, 64)
	if err != nil || lastID < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid last_id"})
	}

	messages, newLastID, err := h.service.Poll(c.Context(), actorID, partnerID, lastID)
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"messages": messages,
		"last_id":  newLastID,
	})
}

func (h *MessageHandler) ListConversations(c *fiber.Ctx) error {
	actorID, err := parseActorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	conversations, err := h.service.ListConversations(c.Context(), actorID)
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(fiber.Map{"conversations": conversations})
}
