package models

import "time"

// Session statuses: pending -> confirmed -> completed, with cancelled
// reachable from pending/confirmed. Only completed sessions make a learner
// a verified customer of the coach and eligible to leave a review.
const (
	SessionPending   = "pending"
	SessionConfirmed = "confirmed"
	SessionCompleted = "completed"
	SessionCancelled = "cancelled"
)

type Session struct {
	ID              int64     `json:"id"`
	UserID          int64     `json:"user_id"`
	CoachID         int64     `json:"coach_id"`
	ScheduledAt     time.Time `json:"scheduled_at"`
	DurationMinutes int       `json:"duration_minutes"`
	Status          string    `json:"status"`
	Notes           *string   `json:"notes"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
