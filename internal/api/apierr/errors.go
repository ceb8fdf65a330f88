package apierr

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/SarvaniBalivada/sports-schedular/internal/model"
	"github.com/SarvaniBalivada/sports-schedular/internal/services/auth"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeForbidden          = "FORBIDDEN"
	CodeUserNotFound       = "USER_NOT_FOUND"
	CodeSportNotFound      = "SPORT_NOT_FOUND"
	CodeSessionNotFound    = "SESSION_NOT_FOUND"
	CodeNotJoinable        = "NOT_JOINABLE"
	CodeSessionFull        = "SESSION_FULL"
	CodeAlreadyJoined      = "ALREADY_JOINED"
	CodeTimeConflict       = "TIME_CONFLICT"
	CodeEmailTaken         = "EMAIL_TAKEN"
	CodeRateLimited        = "RATE_LIMITED"
	CodeUnavailable        = "UNAVAILABLE"
	CodeInternalError      = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	// Check for specific error types
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	// TimeConflictError carries the conflicting session in its message
	var conflict *model.TimeConflictError
	if errors.As(err, &conflict) {
		return &httpError{http.StatusConflict, APIError{CodeTimeConflict, conflict.Error()}}
	}

	switch {
	case errors.Is(err, model.ErrInvalidInput):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, detail(err, model.ErrInvalidInput, "Invalid request")}}

	// Map lookup errors
	case errors.Is(err, model.ErrUserNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeUserNotFound, "User not found"}}
	case errors.Is(err, model.ErrSportNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeSportNotFound, "Sport not found"}}
	case errors.Is(err, model.ErrSessionNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeSessionNotFound, "Session not found"}}

	// Map join errors
	case errors.Is(err, model.ErrNotJoinable):
		return &httpError{http.StatusNotFound, APIError{CodeNotJoinable, "Session not found or not joinable"}}
	case errors.Is(err, model.ErrSessionFull):
		return &httpError{http.StatusConflict, APIError{CodeSessionFull, "Session is full"}}
	case errors.Is(err, model.ErrAlreadyJoined):
		return &httpError{http.StatusConflict, APIError{CodeAlreadyJoined, "Already joined this session"}}
	case errors.Is(err, model.ErrTimeConflict):
		return &httpError{http.StatusConflict, APIError{CodeTimeConflict, "You are already joined to another session at this time"}}

	// Map auth errors
	case errors.Is(err, model.ErrForbidden):
		return &httpError{http.StatusForbidden, APIError{CodeForbidden, detail(err, model.ErrForbidden, "Forbidden")}}
	case errors.Is(err, model.ErrInvalidCredentials):
		return &httpError{http.StatusUnauthorized, APIError{CodeInvalidCredentials, "Invalid email or password"}}
	case errors.Is(err, auth.ErrInvalidToken):
		return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Invalid or expired token"}}
	case errors.Is(err, model.ErrEmailTaken):
		return &httpError{http.StatusConflict, APIError{CodeEmailTaken, "Email already registered"}}

	case errors.Is(err, model.ErrUnavailable):
		return &httpError{http.StatusServiceUnavailable, APIError{CodeUnavailable, "Service temporarily unavailable, try again later"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// detail strips the sentinel prefix from a wrapped error, falling back when
// nothing was added
func detail(err, sentinel error, fallback string) string {
	msg := strings.TrimPrefix(err.Error(), sentinel.Error()+": ")
	if msg == "" || msg == sentinel.Error() {
		return fallback
	}
	return msg
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Authentication required"}}
}

// NewRateLimitedError creates a too-many-requests error
func NewRateLimitedError() error {
	return &httpError{http.StatusTooManyRequests, APIError{CodeRateLimited, "Too many requests, slow down"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
