package services

import "errors"

// Sentinel errors shared across stores and route handlers.
var (
	// ErrNotFound indicates a referenced profile, notification or record is absent.
	ErrNotFound = errors.New("item not found")

	// ErrValidation indicates missing or malformed required fields.
	ErrValidation = errors.New("invalid request")

	// ErrAlreadyConnected indicates the edge already exists. Benign; handlers
	// report it as success with an informational message.
	ErrAlreadyConnected = errors.New("already connected")

	// ErrDuplicateNotification indicates an unviewed request between the same
	// pair already exists. Benign for the proximity path.
	ErrDuplicateNotification = errors.New("pending notification exists")

	// ErrProfileExists indicates signup/create with a userId that is taken.
	ErrProfileExists = errors.New("profile already exists")

	// ErrInvalidCredentials indicates a failed login.
	ErrInvalidCredentials = errors.New("incorrect password")

	// ErrConditionFailed indicates a conditional write lost; callers map it to
	// a domain sentinel.
	ErrConditionFailed = errors.New("conditional write failed")
)
