package notify

import (
	"context"
	"encoding/json"
	"log"
	"strconv"

	"github.com/hibiken/asynq"
	"github.com/todor147/EduCoachBack/internal/models"
	"github.com/todor147/EduCoachBack/internal/tasks"
)

// Notifier raises a side-effecting notification toward a receiver. Callers
// invoke it after their own transaction has committed; a delivery failure
// is logged, never propagated into the triggering operation.
type Notifier interface {
	Notify(ctx context.Context, receiverID int64, eventType string, payload any)
}

type notificationStore interface {
	Create(ctx context.Context, userID int64, eventType string, payload json.RawMessage) (*models.Notification, error)
}

type pusher interface {
	Push(userID string, payload []byte) bool
}

type taskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Service persists every notification, pushes it over the websocket hub,
// and falls back to a queued email when no connection took the push.
type Service struct {
	store    notificationStore
	hub      pusher
	enqueuer taskEnqueuer
}

func NewService(store notificationStore, hub pusher, enqueuer taskEnqueuer) *Service {
	return &Service{
		store:    store,
		hub:      hub,
		enqueuer: enqueuer,
	}
}

type event struct {
	EventType string `json:"event_type"`
	Payload   any    `json:"payload"`
}

func (s *Service) Notify(ctx context.Context, receiverID int64, eventType string, payload any) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		log.Printf("notify %s for user %d: encode payload: %v", eventType, receiverID, err)
		return
	}

	if s.store != nil {
		if _, err := s.store.Create(ctx, receiverID, eventType, encoded); err != nil {
			log.Printf("notify %s for user %d: persist: %v", eventType, receiverID, err)
		}
	}

	pushed := false
	if s.hub != nil {
		frame, err := json.Marshal(event{EventType: eventType, Payload: payload})
		if err == nil {
			pushed = s.hub.Push(strconv.FormatInt(receiverID, 10), frame)
		}
	}
	if pushed || s.enqueuer == nil {
		return
	}

	task, err := tasks.NewNotificationEmailTask(receiverID, eventType, encoded)
	if err != nil {
		log.Printf("notify %s for user %d: build email task: %v", eventType, receiverID, err)
		return
	}
	if _, err := s.enqueuer.EnqueueContext(ctx, task); err != nil {
		log.Printf("notify %s for user %d: enqueue email task: %v", eventType, receiverID, err)
	}
}
