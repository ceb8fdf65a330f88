package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SarvaniBalivada/sports-schedular/internal/dependencies/mocks"
	"github.com/SarvaniBalivada/sports-schedular/internal/model"
	"github.com/SarvaniBalivada/sports-schedular/internal/storage"
	"github.com/stretchr/testify/suite"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
	clock   *mocks.MockClock
	ctx     context.Context
	base    time.Time
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.ctx = context.Background()
	s.base = time.Date(2024, 6, 1, 18, 0, 0, 0, time.UTC)
	s.clock = mocks.NewMockClock(s.base)
	s.storage.SetClock(s.clock)
}

func (s *StorageSuite) user(name, email string) *model.User {
	u := &model.User{Name: name, Email: email, PasswordHash: "x", Role: model.RolePlayer}
	s.Require().NoError(s.storage.SaveUser(s.ctx, u))
	return u
}

func (s *StorageSuite) sport(name string, by model.UserID) *model.Sport {
	sp := &model.Sport{Name: name, CreatedBy: by, CreatedAt: s.base}
	s.Require().NoError(s.storage.SaveSport(s.ctx, sp))
	return sp
}

func (s *StorageSuite) session(sport model.SportID, creator model.UserID, at time.Time) *model.Session {
	sess := &model.Session{
		SportID:    sport,
		CreatorID:  creator,
		DateTime:   at,
		Venue:      "Court 1",
		MaxPlayers: 4,
		Status:     model.SessionStatusActive,
	}
	s.Require().NoError(s.storage.SaveSession(s.ctx, sess))
	return sess
}

// User tests

func (s *StorageSuite) TestSaveAndGetUser() {
	u := s.user("Alice", "alice@example.com")
	s.Equal(model.UserID(1), u.ID)

	got, err := s.storage.GetUser(s.ctx, u.ID)
	s.Require().NoError(err)
	s.Equal("Alice", got.Name)

	byEmail, err := s.storage.GetUserByEmail(s.ctx, "alice@example.com")
	s.Require().NoError(err)
	s.Equal(u.ID, byEmail.ID)
}

func (s *StorageSuite) TestDuplicateEmail() {
	s.user("Alice", "alice@example.com")
	err := s.storage.SaveUser(s.ctx, &model.User{Name: "Other", Email: "alice@example.com"})
	s.ErrorIs(err, model.ErrEmailTaken)
}

func (s *StorageSuite) TestGetUserNotFound() {
	_, err := s.storage.GetUser(s.ctx, 42)
	s.ErrorIs(err, model.ErrUserNotFound)

	_, err = s.storage.GetUserByEmail(s.ctx, "nobody@example.com")
	s.ErrorIs(err, model.ErrUserNotFound)
}

func (s *StorageSuite) TestUpdateUser() {
	u := s.user("Alice", "alice@example.com")
	u.Name = "Alicia"
	s.Require().NoError(s.storage.UpdateUser(s.ctx, u))

	got, err := s.storage.GetUser(s.ctx, u.ID)
	s.Require().NoError(err)
	s.Equal("Alicia", got.Name)
}

// Sport tests

func (s *StorageSuite) TestListSportsNewestFirst() {
	admin := s.user("Admin", "admin@example.com")
	older := &model.Sport{Name: "Tennis", CreatedBy: admin.ID, CreatedAt: s.base}
	newer := &model.Sport{Name: "Football", CreatedBy: admin.ID, CreatedAt: s.base.Add(time.Minute)}
	s.Require().NoError(s.storage.SaveSport(s.ctx, older))
	s.Require().NoError(s.storage.SaveSport(s.ctx, newer))

	sports, err := s.storage.ListSports(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(sports, 2)
	s.Equal("Football", sports[0].Name)
	s.Equal("Tennis", sports[1].Name)
}

func (s *StorageSuite) TestGetSportNotFound() {
	_, err := s.storage.GetSport(s.ctx, 9)
	s.ErrorIs(err, model.ErrSportNotFound)
}

// Session and membership tests

func (s *StorageSuite) TestMembershipUniqueness() {
	u := s.user("Alice", "alice@example.com")
	sp := s.sport("Football", u.ID)
	sess := s.session(sp.ID, u.ID, s.base)

	m := &model.Membership{SessionID: sess.ID, PlayerID: u.ID, Team: model.Team1}
	s.Require().NoError(s.storage.SaveMembership(s.ctx, m))
	s.ErrorIs(s.storage.SaveMembership(s.ctx, m), model.ErrAlreadyJoined)

	isMember, err := s.storage.IsMember(s.ctx, sess.ID, u.ID)
	s.Require().NoError(err)
	s.True(isMember)
}

func (s *StorageSuite) TestSaveMembershipUnknownPlayer() {
	u := s.user("Alice", "alice@example.com")
	sp := s.sport("Football", u.ID)
	sess := s.session(sp.ID, u.ID, s.base)

	err := s.storage.SaveMembership(s.ctx, &model.Membership{SessionID: sess.ID, PlayerID: 99, Team: model.Team1})
	s.ErrorIs(err, model.ErrUserNotFound)
}

func (s *StorageSuite) TestCountMembers() {
	a := s.user("Alice", "alice@example.com")
	b := s.user("Bob", "bob@example.com")
	c := s.user("Cara", "cara@example.com")
	sp := s.sport("Football", a.ID)
	sess := s.session(sp.ID, a.ID, s.base)

	s.Require().NoError(s.storage.SaveMembership(s.ctx, &model.Membership{SessionID: sess.ID, PlayerID: a.ID, Team: model.Team1}))
	s.Require().NoError(s.storage.SaveMembership(s.ctx, &model.Membership{SessionID: sess.ID, PlayerID: b.ID, Team: model.Team2}))
	s.Require().NoError(s.storage.SaveMembership(s.ctx, &model.Membership{SessionID: sess.ID, PlayerID: c.ID, Team: model.Team1}))

	counts, err := s.storage.CountMembers(s.ctx, sess.ID)
	s.Require().NoError(err)
	s.Equal(model.TeamCounts{Team1: 2, Team2: 1}, counts)
}

func (s *StorageSuite) TestListSessionViews() {
	a := s.user("Alice", "alice@example.com")
	b := s.user("Bob", "bob@example.com")
	sp := s.sport("Football", a.ID)
	early := s.session(sp.ID, a.ID, s.base)
	late := s.session(sp.ID, b.ID, s.base.Add(24*time.Hour))
	s.Require().NoError(s.storage.SaveMembership(s.ctx, &model.Membership{SessionID: early.ID, PlayerID: b.ID, Team: model.Team2}))

	views, err := s.storage.ListSessionViews(s.ctx, model.SessionFilter{ViewerID: b.ID})
	s.Require().NoError(err)
	s.Require().Len(views, 2)
	s.Equal(late.ID, views[0].ID)
	s.Equal(early.ID, views[1].ID)
	s.Equal("Football", views[1].SportName)
	s.Equal("Alice", views[1].CreatorName)
	s.Equal(1, views[1].CurrentPlayers)
	s.True(views[1].HasJoined)
	s.Equal(model.Team2, views[1].Team)
	s.False(views[0].HasJoined)

	mine, err := s.storage.ListSessionViews(s.ctx, model.SessionFilter{ViewerID: a.ID, CreatorID: a.ID})
	s.Require().NoError(err)
	s.Require().Len(mine, 1)
	s.Equal(early.ID, mine[0].ID)

	joined, err := s.storage.ListSessionViews(s.ctx, model.SessionFilter{ViewerID: b.ID, JoinedBy: b.ID})
	s.Require().NoError(err)
	s.Require().Len(joined, 1)
	s.Equal(early.ID, joined[0].ID)
}

func (s *StorageSuite) TestListActiveSlotsSkipsCancelled() {
	a := s.user("Alice", "alice@example.com")
	sp := s.sport("Football", a.ID)
	kept := s.session(sp.ID, a.ID, s.base)
	dropped := s.session(sp.ID, a.ID, s.base.Add(time.Hour))
	for _, id := range []model.SessionID{kept.ID, dropped.ID} {
		s.Require().NoError(s.storage.SaveMembership(s.ctx, &model.Membership{SessionID: id, PlayerID: a.ID, Team: model.Team1}))
	}
	s.Require().NoError(s.storage.UpdateSessionStatus(s.ctx, dropped.ID, model.SessionStatusCancelled, "rain"))

	slots, err := s.storage.ListActiveSlots(s.ctx, a.ID)
	s.Require().NoError(err)
	s.Require().Len(slots, 1)
	s.Equal(kept.ID, slots[0].SessionID)
	s.Equal("Football", slots[0].SportName)
}

// Transaction tests

func (s *StorageSuite) TestWithinTxRollsBackOnError() {
	a := s.user("Alice", "alice@example.com")
	sp := s.sport("Football", a.ID)
	sess := s.session(sp.ID, a.ID, s.base)

	boom := errors.New("boom")
	err := s.storage.WithinTx(s.ctx, func(ctx context.Context, tx storage.Storage) error {
		if err := tx.SaveMembership(ctx, &model.Membership{SessionID: sess.ID, PlayerID: a.ID, Team: model.Team1}); err != nil {
			return err
		}
		return boom
	})
	s.ErrorIs(err, boom)

	isMember, err := s.storage.IsMember(s.ctx, sess.ID, a.ID)
	s.Require().NoError(err)
	s.False(isMember)
}

func (s *StorageSuite) TestWithinTxCommits() {
	a := s.user("Alice", "alice@example.com")
	sp := s.sport("Football", a.ID)
	sess := s.session(sp.ID, a.ID, s.base)

	err := s.storage.WithinTx(s.ctx, func(ctx context.Context, tx storage.Storage) error {
		return tx.SaveMembership(ctx, &model.Membership{SessionID: sess.ID, PlayerID: a.ID, Team: model.Team1})
	})
	s.Require().NoError(err)

	counts, err := s.storage.CountMembers(s.ctx, sess.ID)
	s.Require().NoError(err)
	s.Equal(1, counts.Total())
}

// Report tests

func (s *StorageSuite) TestCountSessionsBySport() {
	a := s.user("Admin", "admin@example.com")
	football := s.sport("Football", a.ID)
	tennis := s.sport("Tennis", a.ID)
	s.session(football.ID, a.ID, s.base)
	s.session(football.ID, a.ID, s.base.Add(time.Hour))
	s.session(football.ID, a.ID, s.base.Add(2*time.Hour))
	s.session(tennis.ID, a.ID, s.base)
	s.session(tennis.ID, a.ID, s.base.AddDate(0, 1, 0))

	from := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC)

	counts, err := s.storage.CountSessionsBySport(s.ctx, from, to)
	s.Require().NoError(err)
	s.Equal([]model.SportCount{{Name: "Football", Count: 3}, {Name: "Tennis", Count: 1}}, counts)

	total, err := s.storage.CountSessions(s.ctx, from, to)
	s.Require().NoError(err)
	s.Equal(4, total)
}

// Denylist tests

func (s *StorageSuite) TestRevoke() {
	revoked, err := s.storage.IsRevoked(s.ctx, "jti-1")
	s.Require().NoError(err)
	s.False(revoked)

	s.Require().NoError(s.storage.Revoke(s.ctx, "jti-1", s.base.Add(time.Hour)))

	revoked, err = s.storage.IsRevoked(s.ctx, "jti-1")
	s.Require().NoError(err)
	s.True(revoked)
}

func (s *StorageSuite) TestRevokePrunesExpiredEntries() {
	s.Require().NoError(s.storage.Revoke(s.ctx, "short", s.base.Add(time.Minute)))
	s.Require().NoError(s.storage.Revoke(s.ctx, "long", s.base.Add(time.Hour)))
	s.Equal(2, s.storage.RevokedCount())

	s.clock.Advance(10 * time.Minute)

	revoked, err := s.storage.IsRevoked(s.ctx, "short")
	s.Require().NoError(err)
	s.False(revoked)

	s.Require().NoError(s.storage.Revoke(s.ctx, "next", s.base.Add(2*time.Hour)))
	s.Equal(2, s.storage.RevokedCount())

	revoked, err = s.storage.IsRevoked(s.ctx, "long")
	s.Require().NoError(err)
	s.True(revoked)
}

func (s *StorageSuite) TestRevokeIgnoresExpiredToken() {
	s.Require().NoError(s.storage.Revoke(s.ctx, "stale", s.base.Add(-time.Second)))
	s.Equal(0, s.storage.RevokedCount())
}
