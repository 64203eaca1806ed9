package models

import "time"

// InsightRequestStatus tracks the lifecycle of an insight request: the
// verified customer either accepts (opening a message channel) or rejects
// (terminal, no messages may ever be exchanged).
type InsightRequestStatus string

const (
	InsightPending  InsightRequestStatus = "pending"
	InsightAccepted InsightRequestStatus = "accepted"
	InsightRejected InsightRequestStatus = "rejected"
)

// InsightRequest asks a verified past customer of a coach to share their
// experience with a prospective customer.
type InsightRequest struct {
	ID          int64                `json:"id"`
	RequesterID int64                `json:"requester_id"`
	CustomerID  int64                `json:"customer_id"`
	CoachID     int64                `json:"coach_id"`
	Status      InsightRequestStatus `json:"status"`
	Message     *string              `json:"message,omitempty"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

// InsightMessage is scoped to an accepted InsightRequest and goes through
// the same moderation pipeline as direct messages.
type InsightMessage struct {
	ID         int64            `json:"id"`
	RequestID  int64            `json:"request_id"`
	SenderID   int64            `json:"sender_id"`
	ReceiverID int64            `json:"receiver_id"`
	Content    string           `json:"content"`
	Status     ModerationStatus `json:"status"`
	IsRead     bool             `json:"is_read"`
	CreatedAt  time.Time        `json:"created_at"`
}
