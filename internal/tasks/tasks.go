package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5"
	"github.com/todor147/EduCoachBack/internal/models"
)

const TypeNotificationEmail = "notification:email"

// NotificationEmailPayload carries enough to compose the offline
// notification email; the worker resolves the recipient address itself.
type NotificationEmailPayload struct {
	UserID    int64           `json:"user_id"`
	EventType string          `json:"event_type"`
	Payload   json.RawMessage `json:"payload"`
}

func NewClient(redisAddr string) *asynq.Client {
	return asynq.NewClient(asynq.RedisClientOpt{Addr: redisAddr})
}

func NewNotificationEmailTask(
	userID int64,
	eventType string,
	payload json.RawMessage,
) (*asynq.Task, error) {
	encoded, err := json.Marshal(NotificationEmailPayload{
		UserID:    userID,
		EventType: eventType,
		Payload:   payload,
	})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeNotificationEmail, encoded), nil
}

type userReader interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

// Processor handles queued notification tasks in cmd/worker.
type Processor struct {
	userRepo userReader
	mailer   Mailer
}

func NewProcessor(userRepo userReader, mailer Mailer) *Processor {
	return &Processor{
		userRepo: userRepo,
		mailer:   mailer,
	}
}

func (p *Processor) HandleNotificationEmail(ctx context.Context, task *asynq.Task) error {
	var payload NotificationEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("decode %s payload: %w: %w", TypeNotificationEmail, err, asynq.SkipRetry)
	}

	user, err := p.userRepo.GetByID(ctx, payload.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Printf("notification email: user %d no longer exists, dropping task", payload.UserID)
			return nil
		}
		return err
	}

	subject, body := composeEmail(payload)
	return p.mailer.Send(user.Email, subject, body)
}

func composeEmail(payload NotificationEmailPayload) (string, string) {
	switch payload.EventType {
	case "message.received":
		return "You have a new message on EduCoach",
			"Someone sent you a new message. Log in to read and reply."
	case "insight.requested":
		return "A learner would like your insight",
			"A prospective customer asked about your experience with a coach. Log in to respond."
	case "insight.accepted":
		return "Your insight request was accepted",
			"The verified customer accepted your request. You can now exchange messages."
	default:
		return "EduCoach notification",
			"You have new activity on EduCoach. Log in to take a look."
	}
}

// SetupServer builds the asynq server and routing for cmd/worker.
func SetupServer(redisAddr string, processor *Processor) (*asynq.Server, *asynq.ServeMux) {
	srv := asynq.NewServer(
		asynq.RedisClientOpt{Addr: redisAddr},
		asynq.Config{
			Concurrency: 5,
			Queues: map[string]int{
				"default": 1,
			},
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				log.Printf("task %s failed: %v", task.Type(), err)
			}),
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeNotificationEmail, processor.HandleNotificationEmail)

	return srv, mux
}
