package models

import "time"

type CoachProfile struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	FullName    *string   `json:"full_name"`
	Bio         *string   `json:"bio"`
	HourlyRate  *float64  `json:"hourly_rate"`
	Rating      *float64  `json:"rating"`
	ReviewCount int       `json:"review_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
