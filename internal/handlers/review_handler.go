package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/todor147/EduCoachBack/internal/models"
	"github.com/todor147/EduCoachBack/internal/services"
)

type reviewApplicationService interface {
	Submit(ctx context.Context, actorID int64, sessionID int64, rating int, comment *string) (*services.SubmitReviewResult, error)
	ListForCoach(ctx context.Context, coachID int64) ([]models.Review, error)
}

type ReviewHandler struct {
	service reviewApplicationService
}

func NewReviewHandler(service reviewApplicationService) *ReviewHandler {
	return &ReviewHandler{service: service}
}

type submitReviewRequest struct {
	SessionID int64   `json:"session_id"`
	Rating    int     `json:"rating"`
	Comment   *string `json:"comment"`
}

func (h *ReviewHandler) Submit(c *fiber.Ctx) error {
	role, ok := c.Locals("role").(string)
	if !ok || role != "user" {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}

	actorID, err := parseActorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req submitReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	result, err := h.service.Submit(c.Context(), actorID, req.SessionID, req.Rating, req.Comment)
	if err != nil {
		return mapServiceError(c, err)
	}

	message := "Review published"
	if !result.Visible {
		message = "Review submitted and awaiting moderation"
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": message,
		"visible": result.Visible,
		"review":  result.Review,
	})
}
