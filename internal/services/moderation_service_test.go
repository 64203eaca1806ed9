package services

import (
	"errors"
	"testing"

	"github.com/todor147/EduCoachBack/internal/models"
)

func TestParseModerationAction(t *testing.T) {
	cases := []struct {
		action string
		want   models.ModerationStatus
		err    error
	}{
		{"approve", models.StatusApproved, nil},
		{"approved", models.StatusApproved, nil},
		{"  Approve ", models.StatusApproved, nil},
		{"reject", models.StatusRejected, nil},
		{"REJECTED", models.StatusRejected, nil},
		{"pending", "", ErrInvalidStatus},
		{"", "", ErrInvalidStatus},
		{"delete", "", ErrInvalidStatus},
	}

	for _, tc := range cases {
		got, err := parseModerationAction(tc.action)
		if !errors.Is(err, tc.err) {
			t.Fatalf("parseModerationAction(%q) err = %v, want %v", tc.action, err, tc.err)
		}
		if got != tc.want {
			t.Fatalf("parseModerationAction(%q) = %q, want %q", tc.action, got, tc.want)
		}
	}
}
