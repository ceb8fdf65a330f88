package model

import "time"

// SessionID uniquely identifies a scheduled session
type SessionID int64

// SessionStatus is the lifecycle state of a session
type SessionStatus string

const (
	SessionStatusActive    SessionStatus = "active"
	SessionStatusCancelled SessionStatus = "cancelled"
)

// Team is one of the two sides a session's roster is split into
type Team int

const (
	Team1 Team = 1
	Team2 Team = 2
)

// Valid reports whether t is one of the two teams
func (t Team) Valid() bool {
	return t == Team1 || t == Team2
}

// SeedTeam returns the team for the k-th (0-indexed) player of a creation roster.
// Teams alternate in list order starting with team 1.
func SeedTeam(k int) Team {
	return Team(k%2 + 1)
}

// Session is a scheduled instance of a sport at a venue and time.
// The current player count is never stored; it is derived from memberships.
type Session struct {
	ID           SessionID     `db:"id"`
	SportID      SportID       `db:"sport_id"`
	CreatorID    UserID        `db:"creator_id"`
	DateTime     time.Time     `db:"date_time"`
	Venue        string        `db:"venue"`
	MaxPlayers   int           `db:"max_players"`
	Status       SessionStatus `db:"status"`
	CancelReason string        `db:"cancel_reason"`
	CreatedAt    time.Time     `db:"created_at"`
}

// IsActive reports whether the session has not been cancelled
func (s *Session) IsActive() bool {
	return s.Status == SessionStatusActive
}

// IsOpen reports whether the session is active and scheduled strictly after now
func (s *Session) IsOpen(now time.Time) bool {
	return s.IsActive() && s.DateTime.After(now)
}

// IsJoinable reports whether a player could join given the live member count.
// The join operation applies the same two gates in the same order.
func (s *Session) IsJoinable(now time.Time, currentPlayers int) bool {
	return s.IsOpen(now) && currentPlayers < s.MaxPlayers
}

// Membership binds one player to one session and one team
type Membership struct {
	SessionID SessionID `db:"session_id"`
	PlayerID  UserID    `db:"player_id"`
	Team      Team      `db:"team"`
	JoinedAt  time.Time `db:"joined_at"`
}

// TeamCounts holds the live membership count per team for a session
type TeamCounts struct {
	Team1 int
	Team2 int
}

// Total returns the live membership count
func (c TeamCounts) Total() int {
	return c.Team1 + c.Team2
}

// Add records one more member on team t
func (c *TeamCounts) Add(t Team) {
	switch t {
	case Team1:
		c.Team1++
	case Team2:
		c.Team2++
	}
}

// Next returns the team a new joiner is assigned to: the smaller side, team 1 on a tie
func (c TeamCounts) Next() Team {
	if c.Team2 < c.Team1 {
		return Team2
	}
	return Team1
}

// NewSession is the input for creating a session
type NewSession struct {
	SportID     SportID
	DateTime    time.Time
	Venue       string
	MaxPlayers  int
	SeedPlayers []UserID
}

// SeedFailure records a pre-seeded player that could not be added at creation
type SeedFailure struct {
	PlayerID UserID
	Reason   string
}

// CreatedSession is the outcome of session creation. The session exists even
// when some seed insertions failed.
type CreatedSession struct {
	Session      *Session
	Seeded       []Membership
	SeedFailures []SeedFailure
}

// SessionView is a session with the fields derived for a particular viewer
type SessionView struct {
	Session
	SportName      string
	CreatorName    string
	CurrentPlayers int
	IsJoinable     bool
	HasJoined      bool
	// Team is the viewer's team when HasJoined is true
	Team Team
}

// SessionFilter narrows a session listing. ViewerID is always required;
// it drives HasJoined and Team.
type SessionFilter struct {
	ViewerID  UserID
	CreatorID UserID // zero means any creator
	JoinedBy  UserID // zero means no membership restriction
	// ActiveOnly restricts the listing to sessions that are not cancelled
	ActiveOnly bool
}
