package sqlstore

import (
	"context"
	"database/sql"
	"strings"

	"github.com/SarvaniBalivada/sports-schedular/internal/model"
)

const sessionColumns = `s.id, s.sport_id, s.creator_id, s.date_time, s.venue, s.max_players, s.status, s.cancel_reason, s.created_at`

// Session operations

func (s *Store) SaveSession(ctx context.Context, session *model.Session) error {
	session.DateTime = ts(session.DateTime)
	session.CreatedAt = ts(session.CreatedAt)
	err := s.get(ctx, &session.ID,
		`INSERT INTO sessions (sport_id, creator_id, date_time, venue, max_players, status, cancel_reason, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?) RETURNING id`,
		session.SportID, session.CreatorID, session.DateTime, session.Venue,
		session.MaxPlayers, session.Status, session.CancelReason, session.CreatedAt)
	return classify("save session", err, nil, model.ErrSportNotFound)
}

func (s *Store) GetSession(ctx context.Context, id model.SessionID) (*model.Session, error) {
	return s.getSession(ctx, `SELECT `+sessionColumns+` FROM sessions s WHERE s.id = ?`, id)
}

func (s *Store) GetSessionForUpdate(ctx context.Context, id model.SessionID) (*model.Session, error) {
	return s.getSession(ctx, s.forUpdate(`SELECT `+sessionColumns+` FROM sessions s WHERE s.id = ?`), id)
}

func (s *Store) getSession(ctx context.Context, query string, id model.SessionID) (*model.Session, error) {
	var session model.Session
	if err := s.get(ctx, &session, query, id); err != nil {
		return nil, classifyRow("get session", err, model.ErrSessionNotFound)
	}
	normalizeSession(&session)
	return &session, nil
}

func (s *Store) UpdateSessionStatus(ctx context.Context, id model.SessionID, status model.SessionStatus, reason string) error {
	res, err := s.exec(ctx,
		`UPDATE sessions SET status = ?, cancel_reason = ? WHERE id = ?`,
		status, reason, id)
	if err != nil {
		return classify("update session status", err, nil, nil)
	}
	return requireRow("update session status", res, model.ErrSessionNotFound)
}

type sessionViewRow struct {
	model.Session
	SportName      string        `db:"sport_name"`
	CreatorName    string        `db:"creator_name"`
	CurrentPlayers int           `db:"current_players"`
	ViewerTeam     sql.NullInt64 `db:"viewer_team"`
}

func (s *Store) ListSessionViews(ctx context.Context, filter model.SessionFilter) ([]model.SessionView, error) {
	var b strings.Builder
	b.WriteString(`SELECT ` + sessionColumns + `,
		sp.name AS sport_name,
		u.name AS creator_name,
		(SELECT COUNT(*) FROM session_players c WHERE c.session_id = s.id) AS current_players,
		me.team AS viewer_team
	FROM sessions s
	JOIN sports sp ON sp.id = s.sport_id
	JOIN users u ON u.id = s.creator_id
	LEFT JOIN session_players me ON me.session_id = s.id AND me.player_id = ?
	WHERE 1 = 1`)
	args := []any{filter.ViewerID}

	if filter.CreatorID != 0 {
		b.WriteString(` AND s.creator_id = ?`)
		args = append(args, filter.CreatorID)
	}
	if filter.ActiveOnly {
		b.WriteString(` AND s.status = ?`)
		args = append(args, model.SessionStatusActive)
	}
	if filter.JoinedBy != 0 {
		b.WriteString(` AND EXISTS (SELECT 1 FROM session_players j WHERE j.session_id = s.id AND j.player_id = ?)`)
		args = append(args, filter.JoinedBy)
	}
	b.WriteString(` ORDER BY s.date_time DESC, s.id DESC`)

	rows := []sessionViewRow{}
	if err := s.selectAll(ctx, &rows, b.String(), args...); err != nil {
		return nil, classify("list sessions", err, nil, nil)
	}

	views := make([]model.SessionView, 0, len(rows))
	for _, row := range rows {
		normalizeSession(&row.Session)
		view := model.SessionView{
			Session:        row.Session,
			SportName:      row.SportName,
			CreatorName:    row.CreatorName,
			CurrentPlayers: row.CurrentPlayers,
		}
		if row.ViewerTeam.Valid {
			view.HasJoined = true
			view.Team = model.Team(row.ViewerTeam.Int64)
		}
		views = append(views, view)
	}
	return views, nil
}

// Membership operations

func (s *Store) SaveMembership(ctx context.Context, m *model.Membership) error {
	m.JoinedAt = ts(m.JoinedAt)
	_, err := s.exec(ctx,
		`INSERT INTO session_players (session_id, player_id, team, joined_at) VALUES (?, ?, ?, ?)`,
		m.SessionID, m.PlayerID, m.Team, m.JoinedAt)
	return classify("save membership", err, model.ErrAlreadyJoined, model.ErrUserNotFound)
}

func (s *Store) IsMember(ctx context.Context, sessionID model.SessionID, playerID model.UserID) (bool, error) {
	var n int
	err := s.get(ctx, &n,
		`SELECT COUNT(*) FROM session_players WHERE session_id = ? AND player_id = ?`,
		sessionID, playerID)
	if err != nil {
		return false, classify("check membership", err, nil, nil)
	}
	return n > 0, nil
}

func (s *Store) CountMembers(ctx context.Context, sessionID model.SessionID) (model.TeamCounts, error) {
	var rows []struct {
		Team  model.Team `db:"team"`
		Count int        `db:"n"`
	}
	err := s.selectAll(ctx, &rows,
		`SELECT team, COUNT(*) AS n FROM session_players WHERE session_id = ? GROUP BY team`,
		sessionID)
	if err != nil {
		return model.TeamCounts{}, classify("count members", err, nil, nil)
	}

	var counts model.TeamCounts
	for _, row := range rows {
		switch row.Team {
		case model.Team1:
			counts.Team1 = row.Count
		case model.Team2:
			counts.Team2 = row.Count
		}
	}
	return counts, nil
}

func (s *Store) ListActiveSlots(ctx context.Context, playerID model.UserID) ([]model.SessionSlot, error) {
	slots := []model.SessionSlot{}
	err := s.selectAll(ctx, &slots,
		`SELECT s.id, sp.name AS sport_name, s.date_time, s.venue
		 FROM session_players m
		 JOIN sessions s ON s.id = m.session_id
		 JOIN sports sp ON sp.id = s.sport_id
		 WHERE m.player_id = ? AND s.status = ?
		 ORDER BY s.id`,
		playerID, model.SessionStatusActive)
	if err != nil {
		return nil, classify("list active slots", err, nil, nil)
	}
	for i := range slots {
		slots[i].DateTime = slots[i].DateTime.UTC()
	}
	return slots, nil
}

func normalizeSession(session *model.Session) {
	session.DateTime = session.DateTime.UTC()
	session.CreatedAt = session.CreatedAt.UTC()
}

type rowsAffected interface {
	RowsAffected() (int64, error)
}

// requireRow reports notFound when a write matched no rows
func requireRow(op string, res rowsAffected, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return model.Unavailable(op, err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}
