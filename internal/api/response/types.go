package response

import (
	"time"

	"github.com/SarvaniBalivada/sports-schedular/internal/model"
	"github.com/SarvaniBalivada/sports-schedular/internal/services/auth"
)

// User represents an account in API responses
type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// UserFromModel converts a model.User to a response User
func UserFromModel(u *model.User) User {
	return User{
		ID:        int64(u.ID),
		Name:      u.Name,
		Email:     u.Email,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
	}
}

// AuthResponse is the response for sign-up and sign-in
type AuthResponse struct {
	User      User      `json:"user"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// AuthResponseFromSession creates an AuthResponse from a session
func AuthResponseFromSession(s *auth.Session) AuthResponse {
	return AuthResponse{
		User:      UserFromModel(&s.User),
		Token:     s.Token,
		ExpiresAt: s.ExpiresAt,
	}
}

// Sport represents a sport
type Sport struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedBy int64     `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

// SportFromModel converts model.Sport
func SportFromModel(s *model.Sport) Sport {
	return Sport{
		ID:        int64(s.ID),
		Name:      s.Name,
		CreatedBy: int64(s.CreatedBy),
		CreatedAt: s.CreatedAt,
	}
}

// SportsFromModel converts a list of sports
func SportsFromModel(sports []model.Sport) []Sport {
	out := make([]Sport, 0, len(sports))
	for i := range sports {
		out = append(out, SportFromModel(&sports[i]))
	}
	return out
}

// Session represents a scheduled session as seen by the caller
type Session struct {
	ID             int64     `json:"id"`
	SportID        int64     `json:"sport_id"`
	SportName      string    `json:"sport_name,omitempty"`
	CreatorID      int64     `json:"creator_id"`
	CreatorName    string    `json:"creator_name,omitempty"`
	DateTime       time.Time `json:"date_time"`
	Venue          string    `json:"venue"`
	MaxPlayers     int       `json:"max_players"`
	Status         string    `json:"status"`
	CancelReason   string    `json:"cancel_reason,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	CurrentPlayers int       `json:"current_players"`
	IsJoinable     bool      `json:"is_joinable"`
	HasJoined      bool      `json:"has_joined"`
	Team           int       `json:"team,omitempty"`
}

func sessionFromModel(s *model.Session) Session {
	return Session{
		ID:           int64(s.ID),
		SportID:      int64(s.SportID),
		CreatorID:    int64(s.CreatorID),
		DateTime:     s.DateTime,
		Venue:        s.Venue,
		MaxPlayers:   s.MaxPlayers,
		Status:       string(s.Status),
		CancelReason: s.CancelReason,
		CreatedAt:    s.CreatedAt,
	}
}

// SessionFromView converts a model.SessionView
func SessionFromView(v *model.SessionView) Session {
	out := sessionFromModel(&v.Session)
	out.SportName = v.SportName
	out.CreatorName = v.CreatorName
	out.CurrentPlayers = v.CurrentPlayers
	out.IsJoinable = v.IsJoinable
	out.HasJoined = v.HasJoined
	if v.HasJoined {
		out.Team = int(v.Team)
	}
	return out
}

// SessionsFromViews converts a listing
func SessionsFromViews(views []model.SessionView) []Session {
	out := make([]Session, 0, len(views))
	for i := range views {
		out = append(out, SessionFromView(&views[i]))
	}
	return out
}

// Member is a player placed on a team
type Member struct {
	PlayerID int64 `json:"player_id"`
	Team     int   `json:"team"`
}

// SeedFailure explains why a requested player was not added at creation
type SeedFailure struct {
	PlayerID int64  `json:"player_id"`
	Reason   string `json:"reason"`
}

// CreatedSession is the response for session creation
type CreatedSession struct {
	Session
	Players      []Member      `json:"players"`
	SeedFailures []SeedFailure `json:"seed_failures"`
}

// CreatedSessionFromModel converts model.CreatedSession
func CreatedSessionFromModel(c *model.CreatedSession) CreatedSession {
	out := CreatedSession{
		Session:      sessionFromModel(c.Session),
		Players:      make([]Member, 0, len(c.Seeded)),
		SeedFailures: make([]SeedFailure, 0, len(c.SeedFailures)),
	}
	out.CurrentPlayers = len(c.Seeded)
	for _, m := range c.Seeded {
		out.Players = append(out.Players, Member{PlayerID: int64(m.PlayerID), Team: int(m.Team)})
	}
	for _, f := range c.SeedFailures {
		out.SeedFailures = append(out.SeedFailures, SeedFailure{PlayerID: int64(f.PlayerID), Reason: f.Reason})
	}
	return out
}

// JoinResponse is the response for joining a session
type JoinResponse struct {
	Message string `json:"message"`
	Team    int    `json:"team"`
}

// MessageResponse carries a human-readable acknowledgement
type MessageResponse struct {
	Message string `json:"message"`
}

// SportCount is one row of the popularity ranking
type SportCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Report is the response for the sessions report
type Report struct {
	StartDate       string       `json:"start_date"`
	EndDate         string       `json:"end_date"`
	TotalSessions   int          `json:"total_sessions"`
	SportPopularity []SportCount `json:"sport_popularity"`
}

// ReportFromModel converts model.Report, rendering dates with layout
func ReportFromModel(r *model.Report, layout string) Report {
	out := Report{
		StartDate:       r.Range.Start.Format(layout),
		EndDate:         r.Range.End.Format(layout),
		TotalSessions:   r.TotalSessions,
		SportPopularity: make([]SportCount, 0, len(r.SportPopularity)),
	}
	for _, c := range r.SportPopularity {
		out.SportPopularity = append(out.SportPopularity, SportCount{Name: c.Name, Count: c.Count})
	}
	return out
}

// Health is the response for the health endpoint
type Health struct {
	Status string `json:"status"`
}
