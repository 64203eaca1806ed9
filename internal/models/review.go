package models

import (
	"encoding/json"
	"time"
)

type Review struct {
	ID        int64            `json:"id"`
	SessionID int64            `json:"session_id"`
	UserID    int64            `json:"user_id"`
	CoachID   int64            `json:"coach_id"`
	Rating    int              `json:"rating"`
	Comment   *string          `json:"comment,omitempty"`
	Status    ModerationStatus `json:"status"`
	CreatedAt time.Time        `json:"created_at"`
}

type BannedWord struct {
	ID        int64     `json:"id"`
	Word      string    `json:"word"`
	CreatedAt time.Time `json:"created_at"`
}

type Notification struct {
	ID        int64           `json:"id"`
	UserID    int64           `json:"user_id"`
	EventType string          `json:"event_type"`
	Payload   json.RawMessage `json:"payload"`
	IsRead    bool            `json:"is_read"`
	CreatedAt time.Time       `json:"created_at"`
}
