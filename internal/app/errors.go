package app

import "errors"

var (
	// ErrInvalidID is returned when an identifier does not decode to a
	// valid object id. Raised before any storage access.
	ErrInvalidID = errors.New("invalid identifier")

	ErrInvalidEmail     = errors.New("invalid email format")
	ErrInvalidStartTime = errors.New("invalid start_time")
	ErrEmptyUpdate      = errors.New("no fields to update")

	ErrUsernameTaken = errors.New("username already in use")
	ErrEmailTaken    = errors.New("email already registered")

	// ErrInvalidCredentials is shown to end users and deliberately does
	// not distinguish unknown email from wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrUserNotFound       = errors.New("user not found")
	ErrLectureNotFound    = errors.New("lecture not found")
	ErrInvitationNotFound = errors.New("invitation not found")
	ErrAttendanceNotFound = errors.New("attendance record not found")
	ErrFeedbackNotFound   = errors.New("feedback not found")

	// ErrCodeSpaceExhausted is returned when the bounded lecture code
	// allocation loop runs out of attempts under contention.
	ErrCodeSpaceExhausted = errors.New("could not allocate a unique lecture code")
)
