package handlers

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/todor147/EduCoachBack/internal/models"
	notifyws "github.com/todor147/EduCoachBack/internal/websocket"
	"github.com/todor147/EduCoachBack/pkg/utils"
)

type notificationStore interface {
	ListForUser(ctx context.Context, userID int64, unreadOnly bool) ([]models.Notification, error)
	MarkAllRead(ctx context.Context, userID int64) error
}

type NotificationHandler struct {
	repo      notificationStore
	hub       *notifyws.Hub
	jwtSecret string
}

func NewNotificationHandler(repo notificationStore, hub *notifyws.Hub, jwtSecret string) *NotificationHandler {
	return &NotificationHandler{repo: repo, hub: hub, jwtSecret: jwtSecret}
}

func (h *NotificationHandler) List(c *fiber.Ctx) error {
	userID, err := parseActorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	unreadOnly := c.Query("unread") == "true"
	notifications, err := h.repo.ListForUser(c.Context(), userID, unreadOnly)
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(fiber.Map{"notifications": notifications})
}

func (h *NotificationHandler) MarkAllRead(c *fiber.Ctx) error {
	userID, err := parseActorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	if err := h.repo.MarkAllRead(c.Context(), userID); err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(fiber.Map{"success": true})
}

// WebSocketAuth authenticates the upgrade request. Browsers cannot set an
// Authorization header on WebSocket dials, so the token is accepted from
// the query string too.
func (h *NotificationHandler) WebSocketAuth(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return c.Status(fiber.StatusUpgradeRequired).JSON(fiber.Map{"error": "WebSocket upgrade required"})
	}

	claims, err := h.parseWSClaims(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid or expired token"})
	}

	c.Locals("user_id", claims.UserID)
	c.Locals("role", claims.Role)
	return c.Next()
}

func (h *NotificationHandler) HandleWebSocket(conn *websocket.Conn) {
	userID, _ := conn.Locals("user_id").(string)
	client := notifyws.NewClient(h.hub, conn, userID)

	h.hub.Register(client)
	go client.WritePump()
	client.ReadPump()
}

func (h *NotificationHandler) parseWSClaims(c *fiber.Ctx) (*utils.Claims, error) {
	tokenString := strings.TrimSpace(c.Query("token"))
	if tokenString == "" {
		authHeader := strings.TrimSpace(c.Get("Authorization"))
		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				tokenString = parts[1]
			}
		}
	}

	if tokenString == "" {
		return nil, errors.New("missing token")
	}

	return utils.ValidateToken(tokenString, h.jwtSecret)
}
