package model

import (
	"errors"
	"fmt"
	"time"
)

// Common errors used across the application
var (
	// Input errors
	ErrInvalidInput = errors.New("invalid input")

	// Lookup errors
	ErrUserNotFound    = errors.New("user not found")
	ErrSportNotFound   = errors.New("sport not found")
	ErrSessionNotFound = errors.New("session not found")

	// Join errors
	ErrNotJoinable   = errors.New("session not found or not joinable")
	ErrSessionFull   = errors.New("session is full")
	ErrAlreadyJoined = errors.New("already joined")
	ErrTimeConflict  = errors.New("time conflict with another joined session")

	// Authorization errors
	ErrForbidden          = errors.New("forbidden")
	ErrNotCreator         = fmt.Errorf("%w: only the creator can cancel a session", ErrForbidden)
	ErrAdminRequired      = fmt.Errorf("%w: admin access required", ErrForbidden)
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")

	// Infrastructure errors
	ErrUnavailable = errors.New("storage unavailable")
)

// Invalid returns an ErrInvalidInput carrying a description of what was wrong
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// TimeConflictDisplayLayout is how the conflicting session's start is shown to callers
const TimeConflictDisplayLayout = "Mon, 02 Jan 2006 15:04 MST"

// TimeConflictError names the session that blocks a join. It matches ErrTimeConflict.
type TimeConflictError struct {
	SessionID SessionID
	SportName string
	DateTime  time.Time
}

func (e *TimeConflictError) Error() string {
	return fmt.Sprintf("You are already joined to another session at this time: %s on %s",
		e.SportName, e.DateTime.Format(TimeConflictDisplayLayout))
}

// Is makes errors.Is(err, ErrTimeConflict) hold
func (e *TimeConflictError) Is(target error) bool {
	return target == ErrTimeConflict
}

// UnavailableError wraps a persistence fault. It matches ErrUnavailable.
type UnavailableError struct {
	Op  string
	Err error
}

// Unavailable wraps err as a persistence fault for operation op
func Unavailable(op string, err error) error {
	return &UnavailableError{Op: op, Err: err}
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Op, ErrUnavailable, e.Err)
}

func (e *UnavailableError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrUnavailable) hold
func (e *UnavailableError) Is(target error) bool {
	return target == ErrUnavailable
}
