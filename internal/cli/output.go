package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter
func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		_, _ = fmt.Fprintln(o.w, string(data))
	} else {
		_, _ = fmt.Fprintf(o.w, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		_, _ = fmt.Fprintln(o.w, string(data))
	} else {
		_, _ = fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case User:
		o.printUser(v)
	case AuthResult:
		o.printAuthResult(v)
	case Sport:
		o.printf("Sport: %s (%d)\n", v.Name, v.ID)
	case []Sport:
		o.printSports(v)
	case []Session:
		o.printSessions(v)
	case CreatedSession:
		o.printCreatedSession(v)
	case JoinResult:
		o.printf("%s (team %d)\n", v.Message, v.Team)
	case Report:
		o.printReport(v)
	case HealthResult:
		o.printf("Status: %s\n", v.Status)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

func (o *Output) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(o.w, format, args...)
}

// User response type (matches API)
type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// AuthResult combines the account and its token
type AuthResult struct {
	User      User      `json:"user"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Sport response type
type Sport struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Session response type
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
	CurrentPlayers int       `json:"current_players"`
	IsJoinable     bool      `json:"is_joinable"`
	HasJoined      bool      `json:"has_joined"`
	Team           int       `json:"team,omitempty"`
}

// Member response type
type Member struct {
	PlayerID int64 `json:"player_id"`
	Team     int   `json:"team"`
}

// SeedFailure response type
type SeedFailure struct {
	PlayerID int64  `json:"player_id"`
	Reason   string `json:"reason"`
}

// CreatedSession response type
type CreatedSession struct {
	Session
	Players      []Member      `json:"players"`
	SeedFailures []SeedFailure `json:"seed_failures"`
}

// JoinResult response type
type JoinResult struct {
	Message string `json:"message"`
	Team    int    `json:"team"`
}

// MessageResult response type
type MessageResult struct {
	Message string `json:"message"`
}

// SportCount response type
type SportCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Report response type
type Report struct {
	StartDate       string       `json:"start_date"`
	EndDate         string       `json:"end_date"`
	TotalSessions   int          `json:"total_sessions"`
	SportPopularity []SportCount `json:"sport_popularity"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

const timeLayout = "Mon 02 Jan 2006 15:04 MST"

func (o *Output) printUser(u User) {
	o.printf("User: %s (%d)\n", u.Name, u.ID)
	o.printf("Email: %s\n", u.Email)
	o.printf("Role: %s\n", u.Role)
}

func (o *Output) printAuthResult(a AuthResult) {
	o.printUser(a.User)
	o.printf("Token: %s\n", a.Token)
	if !a.ExpiresAt.IsZero() {
		o.printf("Expires: %s\n", a.ExpiresAt.Format(timeLayout))
	}
}

func (o *Output) printSports(sports []Sport) {
	if len(sports) == 0 {
		o.printf("No sports\n")
		return
	}
	tw := tabwriter.NewWriter(o.w, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tNAME")
	for _, s := range sports {
		_, _ = fmt.Fprintf(tw, "%d\t%s\n", s.ID, s.Name)
	}
	_ = tw.Flush()
}

func (o *Output) printSessions(sessions []Session) {
	if len(sessions) == 0 {
		o.printf("No sessions\n")
		return
	}
	tw := tabwriter.NewWriter(o.w, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tSPORT\tWHEN\tVENUE\tPLAYERS\tSTATUS\tJOINED")
	for _, s := range sessions {
		joined := "-"
		if s.HasJoined {
			joined = fmt.Sprintf("team %d", s.Team)
		}
		status := s.Status
		if s.IsJoinable {
			status += " (open)"
		}
		_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d/%d\t%s\t%s\n",
			s.ID, s.SportName, s.DateTime.Format(timeLayout), s.Venue,
			s.CurrentPlayers, s.MaxPlayers, status, joined)
	}
	_ = tw.Flush()
}

func (o *Output) printCreatedSession(c CreatedSession) {
	o.printf("Session: %d\n", c.ID)
	o.printf("When: %s\n", c.DateTime.Format(timeLayout))
	o.printf("Venue: %s\n", c.Venue)
	o.printf("Players: %d/%d\n", c.CurrentPlayers, c.MaxPlayers)
	for _, m := range c.Players {
		o.printf("  - player %d on team %d\n", m.PlayerID, m.Team)
	}
	if len(c.SeedFailures) > 0 {
		reasons := make([]string, 0, len(c.SeedFailures))
		for _, f := range c.SeedFailures {
			reasons = append(reasons, fmt.Sprintf("%d (%s)", f.PlayerID, f.Reason))
		}
		o.printf("Not added: %s\n", strings.Join(reasons, ", "))
	}
}

func (o *Output) printReport(r Report) {
	o.printf("Sessions %s to %s: %d\n", r.StartDate, r.EndDate, r.TotalSessions)
	for i, c := range r.SportPopularity {
		o.printf("  %d. %s: %d\n", i+1, c.Name, c.Count)
	}
}
