package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/SarvaniBalivada/sports-schedular/internal/dependencies/clock"
	"github.com/SarvaniBalivada/sports-schedular/internal/model"
	"github.com/SarvaniBalivada/sports-schedular/internal/storage"
)

// Storage is an in-memory implementation of the storage interface.
// A transaction holds the store-wide lock for its whole duration, so
// transactions are serializable.
type Storage struct {
	mu    *sync.Mutex
	st    *state
	clock clock.Clock
	inTx  bool
}

type state struct {
	users      map[model.UserID]model.User
	emailIndex map[string]model.UserID
	sports     map[model.SportID]model.Sport
	sessions   map[model.SessionID]model.Session
	members    map[model.SessionID][]model.Membership
	revoked    map[string]time.Time

	nextUserID    model.UserID
	nextSportID   model.SportID
	nextSessionID model.SessionID
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		mu:    &sync.Mutex{},
		clock: clock.New(),
		st: &state{
			users:      make(map[model.UserID]model.User),
			emailIndex: make(map[string]model.UserID),
			sports:     make(map[model.SportID]model.Sport),
			sessions:   make(map[model.SessionID]model.Session),
			members:    make(map[model.SessionID][]model.Membership),
			revoked:    make(map[string]time.Time),
		},
	}
}

// Ensure Storage implements the interfaces
var (
	_ storage.Storage       = (*Storage)(nil)
	_ storage.TokenDenylist = (*Storage)(nil)
)

// lock acquires the store lock unless the caller already holds it through WithinTx
func (s *Storage) lock() func() {
	if s.inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

// WithinTx runs fn while holding the store lock and rolls back on error
func (s *Storage) WithinTx(ctx context.Context, fn func(ctx context.Context, tx storage.Storage) error) error {
	if s.inTx {
		return fn(ctx, s)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.st.clone()
	tx := &Storage{mu: s.mu, st: s.st, clock: s.clock, inTx: true}
	if err := fn(ctx, tx); err != nil {
		*s.st = *snapshot
		return err
	}
	return nil
}

func (st *state) clone() *state {
	c := &state{
		users:         make(map[model.UserID]model.User, len(st.users)),
		emailIndex:    make(map[string]model.UserID, len(st.emailIndex)),
		sports:        make(map[model.SportID]model.Sport, len(st.sports)),
		sessions:      make(map[model.SessionID]model.Session, len(st.sessions)),
		members:       make(map[model.SessionID][]model.Membership, len(st.members)),
		revoked:       make(map[string]time.Time, len(st.revoked)),
		nextUserID:    st.nextUserID,
		nextSportID:   st.nextSportID,
		nextSessionID: st.nextSessionID,
	}
	for k, v := range st.users {
		c.users[k] = v
	}
	for k, v := range st.emailIndex {
		c.emailIndex[k] = v
	}
	for k, v := range st.sports {
		c.sports[k] = v
	}
	for k, v := range st.sessions {
		c.sessions[k] = v
	}
	for k, v := range st.members {
		c.members[k] = append([]model.Membership(nil), v...)
	}
	for k, v := range st.revoked {
		c.revoked[k] = v
	}
	return c
}

// User operations

func (s *Storage) SaveUser(ctx context.Context, user *model.User) error {
	defer s.lock()()
	if _, ok := s.st.emailIndex[user.Email]; ok {
		return model.ErrEmailTaken
	}
	s.st.nextUserID++
	user.ID = s.st.nextUserID
	s.st.users[user.ID] = *user
	s.st.emailIndex[user.Email] = user.ID
	return nil
}

func (s *Storage) UpdateUser(ctx context.Context, user *model.User) error {
	defer s.lock()()
	existing, ok := s.st.users[user.ID]
	if !ok {
		return model.ErrUserNotFound
	}
	if existing.Email != user.Email {
		if _, taken := s.st.emailIndex[user.Email]; taken {
			return model.ErrEmailTaken
		}
		delete(s.st.emailIndex, existing.Email)
		s.st.emailIndex[user.Email] = user.ID
	}
	s.st.users[user.ID] = *user
	return nil
}

func (s *Storage) GetUser(ctx context.Context, id model.UserID) (*model.User, error) {
	defer s.lock()()
	user, ok := s.st.users[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	return &user, nil
}

func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	defer s.lock()()
	id, ok := s.st.emailIndex[email]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	user := s.st.users[id]
	return &user, nil
}

func (s *Storage) LockUser(ctx context.Context, id model.UserID) error {
	defer s.lock()()
	if _, ok := s.st.users[id]; !ok {
		return model.ErrUserNotFound
	}
	return nil
}

// Sport operations

func (s *Storage) SaveSport(ctx context.Context, sport *model.Sport) error {
	defer s.lock()()
	if _, ok := s.st.users[sport.CreatedBy]; !ok {
		return model.ErrUserNotFound
	}
	s.st.nextSportID++
	sport.ID = s.st.nextSportID
	s.st.sports[sport.ID] = *sport
	return nil
}

func (s *Storage) GetSport(ctx context.Context, id model.SportID) (*model.Sport, error) {
	defer s.lock()()
	sport, ok := s.st.sports[id]
	if !ok {
		return nil, model.ErrSportNotFound
	}
	return &sport, nil
}

func (s *Storage) ListSports(ctx context.Context) ([]model.Sport, error) {
	defer s.lock()()
	sports := make([]model.Sport, 0, len(s.st.sports))
	for _, sport := range s.st.sports {
		sports = append(sports, sport)
	}
	sort.Slice(sports, func(i, j int) bool {
		if !sports[i].CreatedAt.Equal(sports[j].CreatedAt) {
			return sports[i].CreatedAt.After(sports[j].CreatedAt)
		}
		return sports[i].ID > sports[j].ID
	})
	return sports, nil
}

// Session operations

func (s *Storage) SaveSession(ctx context.Context, session *model.Session) error {
	defer s.lock()()
	if _, ok := s.st.sports[session.SportID]; !ok {
		return model.ErrSportNotFound
	}
	if _, ok := s.st.users[session.CreatorID]; !ok {
		return model.ErrUserNotFound
	}
	s.st.nextSessionID++
	session.ID = s.st.nextSessionID
	s.st.sessions[session.ID] = *session
	return nil
}

func (s *Storage) GetSession(ctx context.Context, id model.SessionID) (*model.Session, error) {
	defer s.lock()()
	session, ok := s.st.sessions[id]
	if !ok {
		return nil, model.ErrSessionNotFound
	}
	return &session, nil
}

func (s *Storage) GetSessionForUpdate(ctx context.Context, id model.SessionID) (*model.Session, error) {
	return s.GetSession(ctx, id)
}

func (s *Storage) UpdateSessionStatus(ctx context.Context, id model.SessionID, status model.SessionStatus, reason string) error {
	defer s.lock()()
	session, ok := s.st.sessions[id]
	if !ok {
		return model.ErrSessionNotFound
	}
	session.Status = status
	session.CancelReason = reason
	s.st.sessions[id] = session
	return nil
}

func (s *Storage) ListSessionViews(ctx context.Context, filter model.SessionFilter) ([]model.SessionView, error) {
	defer s.lock()()

	views := make([]model.SessionView, 0)
	for _, session := range s.st.sessions {
		if filter.CreatorID != 0 && session.CreatorID != filter.CreatorID {
			continue
		}
		if filter.ActiveOnly && !session.IsActive() {
			continue
		}

		members := s.st.members[session.ID]
		view := model.SessionView{
			Session:        session,
			SportName:      s.st.sports[session.SportID].Name,
			CreatorName:    s.st.users[session.CreatorID].Name,
			CurrentPlayers: len(members),
		}
		for _, m := range members {
			if m.PlayerID == filter.ViewerID {
				view.HasJoined = true
				view.Team = m.Team
			}
		}
		if filter.JoinedBy != 0 && !s.hasMember(session.ID, filter.JoinedBy) {
			continue
		}
		views = append(views, view)
	}

	sort.Slice(views, func(i, j int) bool {
		if !views[i].DateTime.Equal(views[j].DateTime) {
			return views[i].DateTime.After(views[j].DateTime)
		}
		return views[i].ID > views[j].ID
	})
	return views, nil
}

// Membership operations

func (s *Storage) SaveMembership(ctx context.Context, m *model.Membership) error {
	defer s.lock()()
	if _, ok := s.st.sessions[m.SessionID]; !ok {
		return model.ErrSessionNotFound
	}
	if _, ok := s.st.users[m.PlayerID]; !ok {
		return model.ErrUserNotFound
	}
	if !m.Team.Valid() {
		return model.Invalid("team must be 1 or 2")
	}
	if s.hasMember(m.SessionID, m.PlayerID) {
		return model.ErrAlreadyJoined
	}
	s.st.members[m.SessionID] = append(s.st.members[m.SessionID], *m)
	return nil
}

func (s *Storage) IsMember(ctx context.Context, sessionID model.SessionID, playerID model.UserID) (bool, error) {
	defer s.lock()()
	return s.hasMember(sessionID, playerID), nil
}

func (s *Storage) hasMember(sessionID model.SessionID, playerID model.UserID) bool {
	for _, m := range s.st.members[sessionID] {
		if m.PlayerID == playerID {
			return true
		}
	}
	return false
}

func (s *Storage) CountMembers(ctx context.Context, sessionID model.SessionID) (model.TeamCounts, error) {
	defer s.lock()()
	var counts model.TeamCounts
	for _, m := range s.st.members[sessionID] {
		counts.Add(m.Team)
	}
	return counts, nil
}

func (s *Storage) ListActiveSlots(ctx context.Context, playerID model.UserID) ([]model.SessionSlot, error) {
	defer s.lock()()
	var slots []model.SessionSlot
	for sessionID, members := range s.st.members {
		session := s.st.sessions[sessionID]
		if !session.IsActive() {
			continue
		}
		for _, m := range members {
			if m.PlayerID != playerID {
				continue
			}
			slots = append(slots, model.SessionSlot{
				SessionID: session.ID,
				SportName: s.st.sports[session.SportID].Name,
				DateTime:  session.DateTime,
				Venue:     session.Venue,
			})
		}
	}
	sort.Slice(slots, func(i, j int) bool { return slots[i].SessionID < slots[j].SessionID })
	return slots, nil
}

// Reporting operations

func (s *Storage) CountSessions(ctx context.Context, from, to time.Time) (int, error) {
	defer s.lock()()
	total := 0
	for _, session := range s.st.sessions {
		if inRange(session.DateTime, from, to) {
			total++
		}
	}
	return total, nil
}

func (s *Storage) CountSessionsBySport(ctx context.Context, from, to time.Time) ([]model.SportCount, error) {
	defer s.lock()()
	byName := make(map[string]int)
	for _, session := range s.st.sessions {
		if !inRange(session.DateTime, from, to) {
			continue
		}
		byName[s.st.sports[session.SportID].Name]++
	}

	counts := make([]model.SportCount, 0, len(byName))
	for name, n := range byName {
		counts = append(counts, model.SportCount{Name: name, Count: n})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Name < counts[j].Name
	})
	return counts, nil
}

func inRange(t, from, to time.Time) bool {
	return !t.Before(from) && t.Before(to)
}

// Token denylist operations

// SetClock replaces the clock used to expire denylist entries
func (s *Storage) SetClock(c clock.Clock) {
	defer s.lock()()
	s.clock = c
}

// Revoke records a token ID until expiresAt and drops entries that have
// already expired.
func (s *Storage) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	defer s.lock()()
	now := s.clock.Now()
	for id, exp := range s.st.revoked {
		if exp.Before(now) {
			delete(s.st.revoked, id)
		}
	}
	if expiresAt.Before(now) {
		return nil
	}
	s.st.revoked[tokenID] = expiresAt
	return nil
}

func (s *Storage) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	defer s.lock()()
	exp, ok := s.st.revoked[tokenID]
	return ok && !exp.Before(s.clock.Now()), nil
}

// RevokedCount returns the number of live denylist entries (for testing)
func (s *Storage) RevokedCount() int {
	defer s.lock()()
	return len(s.st.revoked)
}
