package handlers

import (
	"context"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/todor147/EduCoachBack/internal/models"
	"github.com/todor147/EduCoachBack/internal/services"
)

type insightApplicationService interface {
	CreateRequest(ctx context.Context, requesterID int64, customerID int64, coachID int64, message *string) (*models.InsightRequest, error)
	Respond(ctx context.Context, actorID int64, requestID int64, action string) (*models.InsightRequest, error)
	ListRequests(ctx context.Context, actorID int64) ([]models.InsightRequest, error)
	SendMessage(ctx context.Context, actorID int64, requestID int64, content string) (*services.InsightSendResult, error)
	GetConversation(ctx context.Context, actorID int64, requestID int64) ([]models.InsightMessage, error)
	Poll(ctx context.Context, actorID int64, requestID int64, lastID int64) ([]models.InsightMessage, int64, error)
}

type InsightHandler struct {
	service insightApplicationService
}

func NewInsightHandler(service insightApplicationService) *InsightHandler {
	return &InsightHandler{service: service}
}

type createInsightRequest struct {
	CustomerID int64   `json:"customer_id"`
	CoachID    int64   `json:"coach_id"`
	Message    *string `json:"message"`
}

type respondInsightRequest struct {
	Action string `json:"action"`
}

type insightMessageRequest struct {
	Content string `json:"content"`
}

func (h *InsightHandler) CreateRequest(c *fiber.Ctx) error {
	actorID, err := parseActorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req createInsightRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	request, err := h.service.CreateRequest(c.Context(), actorID, req.CustomerID, req.CoachID, req.Message)
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"request": request})
}

func (h *InsightHandler) ListRequests(c *fiber.Ctx) error {
	actorID, err := parseActorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	requests, err := h.service.ListRequests(c.Context(), actorID)
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(fiber.Map{"requests": requests})
}

func (h *InsightHandler) Respond(c *fiber.Ctx) error {
	actorID, err := parseActorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	requestID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || requestID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request id"})
	}

	var req respondInsightRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	request, err := h.service.Respond(c.Context(), actorID, requestID, req.Action)
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(fiber.Map{"request": request})
}

func (h *InsightHandler) SendMessage(c *fiber.Ctx) error {
	actorID, err := parseActorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	requestID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || requestID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request id"})
	}

	var req insightMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	result, err := h.service.SendMessage(c.Context(), actorID, requestID, req.Content)
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

func (h *InsightHandler) GetConversation(c *fiber.Ctx) error {
	actorID, err := parseActorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	requestID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || requestID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request id"})
	}

	messages, err := h.service.GetConversation(c.Context(), actorID, requestID)
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

func (h *InsightHandler) Poll(c *fiber.Ctx) error {
	actorID, err := parseActorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	requestID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || requestID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request id"})
	}

	lastID, err := strconv.ParseInt(c.Query("last_id", "0"), 10, 64)
	if err != nil || lastID < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid last_id"})
	}

	messages, newLastID, err := h.service.Poll(c.Context(), actorID, requestID, lastID)
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"messages": messages,
		"last_id":  newLastID,
	})
}
