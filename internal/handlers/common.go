package handlers

import (
	"errors"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/todor147/EduCoachBack/internal/services"
)

func parseActorID(c *fiber.Ctx) (int64, error) {
	userIDValue := c.Locals("user_id")
	userIDStr, ok := userIDValue.(string)
	if !ok {
		return 0, strconv.ErrSyntax
	}
	return strconv.ParseInt(userIDStr, 10, 64)
}

func parsePositiveInt(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}

// mapServiceError translates service sentinel errors into JSON responses.
// Unrecognized errors are logged and surfaced as a generic 500 so storage
// detail never leaks to clients.
func mapServiceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	case errors.Is(err, services.ErrInvalidReceiver):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid receiver"})
	case errors.Is(err, services.ErrReceiverNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Receiver not found"})
	case errors.Is(err, services.ErrEmptyContent):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Content must not be empty"})
	case errors.Is(err, services.ErrInvalidRating):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Rating must be an integer between 1 and 5"})
	case errors.Is(err, services.ErrDuplicateReview):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "A review for this session already exists"})
	case errors.Is(err, services.ErrSessionNotCompleted):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Session must be completed before it can be reviewed"})
	case errors.Is(err, services.ErrNotVerifiedCustomer):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Target user is not a verified customer of this coach"})
	case errors.Is(err, services.ErrDuplicateRequest):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "An open insight request already exists"})
	case errors.Is(err, services.ErrRequestClosed):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Insight request is not open for this action"})
	case errors.Is(err, services.ErrDuplicateWord):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Banned word already exists"})
	case errors.Is(err, services.ErrInvalidStatus):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid status or action"})
	case errors.Is(err, services.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Requested time conflicts with an existing session"})
	case errors.Is(err, services.ErrCoachNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Coach not found"})
	case errors.Is(err, services.ErrNotFound), errors.Is(err, pgx.ErrNoRows):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Not found"})
	case errors.Is(err, services.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request"})
	default:
		log.Printf("internal error handling %s %s: %v", c.Method(), c.Path(), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}
}
