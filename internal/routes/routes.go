package routes

import (
	"time"

	websocket "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/todor147/EduCoachBack/internal/config"
	"github.com/todor147/EduCoachBack/internal/handlers"
	"github.com/todor147/EduCoachBack/internal/middleware"
	"github.com/todor147/EduCoachBack/internal/moderation"
	"github.com/todor147/EduCoachBack/internal/notify"
	"github.com/todor147/EduCoachBack/internal/repository"
	"github.com/todor147/EduCoachBack/internal/services"
	notifyws "github.com/todor147/EduCoachBack/internal/websocket"
)

func RegisterRoutes(app *fiber.App, cfg *config.Config, db *pgxpool.Pool, taskClient *asynq.Client) {
	userRepo := repository.NewUserRepository(db)
	coachProfileRepo := repository.NewCoachProfileRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	insightRepo := repository.NewInsightRequestRepository(db)
	insightMsgRepo := repository.NewInsightMessageRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	bannedWordRepo := repository.NewBannedWordRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	filter := moderation.NewFilter(bannedWordRepo, time.Duration(cfg.WordListTTL)*time.Second)
	hub := notifyws.NewHub()
	notifier := notify.NewService(notificationRepo, hub, taskClient)

	messageService := services.NewMessageService(db, messageRepo, userRepo, filter, notifier)
	insightService := services.NewInsightService(db, insightRepo, insightMsgRepo, sessionRepo, userRepo, filter, notifier)
	reviewService := services.NewReviewService(db, reviewRepo, sessionRepo, filter)
	moderationService := services.NewModerationService(db, messageRepo, insightMsgRepo, reviewRepo, bannedWordRepo, filter)
	sessionService := services.NewSessionService(db, sessionRepo, userRepo)

	authHandler := handlers.NewAuthHandler(db, userRepo, coachProfileRepo, cfg.JWTSecret)
	coachHandler := handlers.NewCoachHandler(coachProfileRepo, reviewService)
	sessionHandler := handlers.NewSessionHandler(sessionService)
	messageHandler := handlers.NewMessageHandler(messageService)
	insightHandler := handlers.NewInsightHandler(insightService)
	reviewHandler := handlers.NewReviewHandler(reviewService)
	moderationHandler := handlers.NewModerationHandler(moderationService)
	notificationHandler := handlers.NewNotificationHandler(notificationRepo, hub, cfg.JWTSecret)

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Get("/me", middleware.AuthRequired(cfg.JWTSecret), authHandler.Me)

	authProtected := api.Group("/v1", middleware.AuthRequired(cfg.JWTSecret))

	coaches := authProtected.Group("/coaches")
	coaches.Get("", coachHandler.ListCoaches)
	coaches.Put("/profile", coachHandler.UpdateProfile)
	coaches.Get("/:id", coachHandler.GetCoach)
	coaches.Get("/:id/reviews", coachHandler.ListReviews)

	sessions := authProtected.Group("/sessions")
	sessions.Post("/book", sessionHandler.BookSession)
	sessions.Get("", sessionHandler.ListSessions)
	sessions.Get("/:id", sessionHandler.GetSession)
	sessions.Put("/:id/status", sessionHandler.UpdateStatus)

	messages := authProtected.Group("/messages")
	messages.Post("", messageHandler.Send)
	messages.Get("/:partnerID", messageHandler.GetConversation)
	messages.Get("/:partnerID/poll", messageHandler.Poll)

	authProtected.Get("/conversations", messageHandler.ListConversations)

	insights := authProtected.Group("/insights")
	insights.Post("", insightHandler.CreateRequest)
	insights.Get("", insightHandler.ListRequests)
	insights.Put("/:id/respond", insightHandler.Respond)
	insights.Post("/:id/messages", insightHandler.SendMessage)
	insights.Get("/:id/messages", insightHandler.GetConversation)
	insights.Get("/:id/messages/poll", insightHandler.Poll)

	authProtected.Post("/reviews", reviewHandler.Submit)

	notifications := authProtected.Group("/notifications")
	notifications.Get("", notificationHandler.List)
	notifications.Put("/read", notificationHandler.MarkAllRead)

	admin := authProtected.Group("/admin", middleware.AdminRequired())
	admin.Get("/moderation/messages", moderationHandler.ListPendingMessages)
	admin.Put("/moderation/messages/:id", moderationHandler.ModerateMessage)
	admin.Get("/moderation/insight-messages", moderationHandler.ListPendingInsightMessages)
	admin.Put("/moderation/insight-messages/:id", moderationHandler.ModerateInsightMessage)
	admin.Get("/moderation/reviews", moderationHandler.ListPendingReviews)
	admin.Put("/moderation/reviews/:id", moderationHandler.ModerateReview)
	admin.Get("/banned-words", moderationHandler.ListBannedWords)
	admin.Post("/banned-words", moderationHandler.AddBannedWord)
	admin.Delete("/banned-words/:id", moderationHandler.RemoveBannedWord)

	api.Use("/v1/ws", notificationHandler.WebSocketAuth)
	api.Get("/v1/ws", websocket.New(notificationHandler.HandleWebSocket))
}
