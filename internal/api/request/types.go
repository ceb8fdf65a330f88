package request

import (
	"fmt"
	"time"
)

// DateLayout is the calendar date format accepted in query parameters
const DateLayout = "2006-01-02"

// SignupRequest is the request body for creating an account
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

// SigninRequest is the request body for signing in
type SigninRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ProfileRequest is the request body for updating the caller's profile
type ProfileRequest struct {
	Name            string `json:"name,omitempty"`
	CurrentPassword string `json:"current_password,omitempty"`
	NewPassword     string `json:"new_password,omitempty"`
}

// CreateSportRequest is the request body for adding a sport
type CreateSportRequest struct {
	Name string `json:"name"`
}

// CreateSessionRequest is the request body for scheduling a session.
// DateTime is RFC 3339.
type CreateSessionRequest struct {
	SportID    int64     `json:"sport_id"`
	DateTime   time.Time `json:"date_time"`
	Venue      string    `json:"venue"`
	MaxPlayers int       `json:"max_players"`
	Players    []int64   `json:"players,omitempty"`
}

// CancelSessionRequest is the request body for cancelling a session
type CancelSessionRequest struct {
	Reason string `json:"reason,omitempty"`
}

// ParseDate parses an optional YYYY-MM-DD value. An empty value yields the zero time.
func ParseDate(name, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s must be a date in YYYY-MM-DD format", name)
	}
	return t, nil
}
