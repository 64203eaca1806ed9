package services

import "errors"

// Sentinel errors shared by the application services. Validation and
// authorization failures are detected before any mutation; handlers map
// them onto HTTP statuses with errors.Is.
var (
	ErrForbidden           = errors.New("forbidden")
	ErrNotFound            = errors.New("not found")
	ErrInvalidInput        = errors.New("invalid input")
	ErrConflict            = errors.New("conflict")
	ErrInvalidStatus       = errors.New("invalid status")
	ErrCoachNotFound       = errors.New("coach not found")
	ErrInvalidReceiver     = errors.New("invalid receiver")
	ErrReceiverNotFound    = errors.New("receiver not found")
	ErrEmptyContent        = errors.New("empty content")
	ErrInvalidRating       = errors.New("invalid rating")
	ErrDuplicateReview     = errors.New("review already exists for this session")
	ErrSessionNotCompleted = errors.New("session not completed")
	ErrNotVerifiedCustomer = errors.New("not a verified customer of this coach")
	ErrDuplicateRequest    = errors.New("an open insight request already exists")
	ErrRequestClosed       = errors.New("insight request is not accepted")
	ErrDuplicateWord       = errors.New("banned word already exists")
)
