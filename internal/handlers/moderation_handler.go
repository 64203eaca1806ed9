package handlers

import (
	"context"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/todor147/EduCoachBack/internal/models"
)

type moderationApplicationService interface {
	ListPendingMessages(ctx context.Context) ([]models.Message, error)
	ListPendingInsightMessages(ctx context.Context) ([]models.InsightMessage, error)
	ListPendingReviews(ctx context.Context) ([]models.Review, error)
	ModerateMessage(ctx context.Context, messageID int64, action string) (*models.Message, error)
	ModerateInsightMessage(ctx context.Context, messageID int64, action string) (*models.InsightMessage, error)
	ModerateReview(ctx context.Context, reviewID int64, action string) (*models.Review, error)
	ListBannedWords(ctx context.Context) ([]models.BannedWord, error)
	AddBannedWord(ctx context.Context, word string) (*models.BannedWord, error)
	RemoveBannedWord(ctx context.Context, wordID int64) error
}

// ModerationHandler is the admin surface: pending queues, approve/reject
// actions and the banned word list.
type ModerationHandler struct {
	service moderationApplicationService
}

func NewModerationHandler(service moderationApplicationService) *ModerationHandler {
	return &ModerationHandler{service: service}
}

type moderationActionRequest struct {
	Action string `json:"action"`
}

type addBannedWordRequest struct {
	Word string `json:"word"`
}

func (h *ModerationHandler) ListPendingMessages(c *fiber.Ctx) error {
	messages, err := h.service.ListPendingMessages(c.Context())
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(fiber.Map{"messages": messages})
}

func (h *ModerationHandler) ListPendingInsightMessages(c *fiber.Ctx) error {
	messages, err := h.service.ListPendingInsightMessages(c.Context())
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(fiber.Map{"messages": messages})
}

func (h *ModerationHandler) ListPendingReviews(c *fiber.Ctx) error {
	reviews, err := h.service.ListPendingReviews(c.Context())
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(fiber.Map{"reviews": reviews})
}

func (h *ModerationHandler) ModerateMessage(c *fiber.Ctx) error {
	messageID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || messageID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid message id"})
	}

	var req moderationActionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	message, err := h.service.ModerateMessage(c.Context(), messageID, req.Action)
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "message": message})
}

func (h *ModerationHandler) ModerateInsightMessage(c *fiber.Ctx) error {
	messageID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || messageID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid message id"})
	}

	var req moderationActionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	message, err := h.service.ModerateInsightMessage(c.Context(), messageID, req.Action)
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "message": message})
}

func (h *ModerationHandler) ModerateReview(c *fiber.Ctx) error {
	reviewID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || reviewID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid review id"})
	}

	var req moderationActionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	review, err := h.service.ModerateReview(c.Context(), reviewID, req.Action)
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "review": review})
}

func (h *ModerationHandler) ListBannedWords(c *fiber.Ctx) error {
	words, err := h.service.ListBannedWords(c.Context())
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(fiber.Map{"words": words})
}

func (h *ModerationHandler) AddBannedWord(c *fiber.Ctx) error {
	var req addBannedWordRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	word, err := h.service.AddBannedWord(c.Context(), req.Word)
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"word": word})
}

func (h *ModerationHandler) RemoveBannedWord(c *fiber.Ctx) error {
	wordID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || wordID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid word id"})
	}

	if err := h.service.RemoveBannedWord(c.Context(), wordID); err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(fiber.Map{"success": true})
}
