package handlers

import (
	"context"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/todor147/EduCoachBack/internal/models"
)

type coachProfileLister interface {
	ListAll(ctx context.Context) ([]models.CoachProfile, error)
	GetByUserID(ctx context.Context, userID int64) (*models.CoachProfile, error)
	UpdateProfile(ctx context.Context, userID int64, fullName, bio *string, hourlyRate *float64) (*models.CoachProfile, error)
}

type coachReviewLister interface {
	ListForCoach(ctx context.Context, coachID int64) ([]models.Review, error)
}

type CoachHandler struct {
	coachProfileRepo coachProfileLister
	reviewService    coachReviewLister
}

func NewCoachHandler(coachProfileRepo coachProfileLister, reviewService coachReviewLister) *CoachHandler {
	return &CoachHandler{
		coachProfileRepo: coachProfileRepo,
		reviewService:    reviewService,
	}
}

func (h *CoachHandler) ListCoaches(c *fiber.Ctx) error {
	coaches, err := h.coachProfileRepo.ListAll(c.Context())
	if err != nil {
		return mapServiceError(c, err)
	}

	page := parsePositiveInt(c.Query("page"), 1)
	limit := parsePositiveInt(c.Query("limit"), defaultPageLimit)
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	total := len(coaches)
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	return c.JSON(fiber.Map{
		"coaches":    coaches[start:end],
		"pagination": buildPaginationMeta(page, limit, total),
	})
}

func (h *CoachHandler) GetCoach(c *fiber.Ctx) error {
	coachID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || coachID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid coach id"})
	}

	coach, err := h.coachProfileRepo.GetByUserID(c.Context(), coachID)
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(fiber.Map{"coach": coach})
}

type updateProfileRequest struct {
	FullName   *string  `json:"full_name"`
	Bio        *string  `json:"bio"`
	HourlyRate *float64 `json:"hourly_rate"`
}

// UpdateProfile lets a coach edit their own listing. Absent fields keep
// their stored values.
func (h *CoachHandler) UpdateProfile(c *fiber.Ctx) error {
	userID, err := parseActorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}
	if role, _ := c.Locals("role").(string); role != "coach" {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Only coaches can update a coach profile"})
	}

	var req updateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.HourlyRate != nil && *req.HourlyRate < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Hourly rate must not be negative"})
	}

	profile, err := h.coachProfileRepo.UpdateProfile(c.Context(), userID, req.FullName, req.Bio, req.HourlyRate)
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(fiber.Map{"coach": profile})
}

func (h *CoachHandler) ListReviews(c *fiber.Ctx) error {
	coachID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || coachID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid coach id"})
	}

	reviews, err := h.reviewService.ListForCoach(c.Context(), coachID)
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(fiber.Map{"reviews": reviews})
}
