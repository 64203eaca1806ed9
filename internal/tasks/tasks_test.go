package tasks

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/todor147/EduCoachBack/internal/models"
)

type stubUserReader struct {
	user *models.User
	err  error
}

func (s *stubUserReader) GetByID(context.Context, int64) (*models.User, error) {
	return s.user, s.err
}

type recordingMailer struct {
	to      string
	subject string
	body    string
	calls   int
}

func (m *recordingMailer) Send(to, subject, body string) error {
	m.calls++
	m.to = to
	m.subject = subject
	m.body = body
	return nil
}

func TestHandleNotificationEmailSendsToUser(t *testing.T) {
	mailer := &recordingMailer{}
	processor := NewProcessor(&stubUserReader{
		user: &models.User{ID: 42, Email: "learner@example.com"},
	}, mailer)

	task, err := NewNotificationEmailTask(42, "message.received", []byte(`{"message_id":9}`))
	if err != nil {
		t.Fatalf("NewNotificationEmailTask: %v", err)
	}

	if err := processor.HandleNotificationEmail(context.Background(), task); err != nil {
		t.Fatalf("HandleNotificationEmail: %v", err)
	}
	if mailer.calls != 1 || mailer.to != "learner@example.com" {
		t.Fatalf("expected one email to learner@example.com, got %d to %q", mailer.calls, mailer.to)
	}
	if mailer.subject == "" || mailer.body == "" {
		t.Fatal("expected a composed subject and body")
	}
}

func TestHandleNotificationEmailDropsTaskForMissingUser(t *testing.T) {
	mailer := &recordingMailer{}
	processor := NewProcessor(&stubUserReader{err: pgx.ErrNoRows}, mailer)

	task, err := NewNotificationEmailTask(9999, "insight.accepted", nil)
	if err != nil {
		t.Fatalf("NewNotificationEmailTask: %v", err)
	}

	if err := processor.HandleNotificationEmail(context.Background(), task); err != nil {
		t.Fatalf("expected missing user to be dropped without error, got %v", err)
	}
	if mailer.calls != 0 {
		t.Fatalf("expected no email, got %d", mailer.calls)
	}
}
