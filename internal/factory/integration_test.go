package factory

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/SarvaniBalivada/sports-schedular/internal/metrics"
	"github.com/SarvaniBalivada/sports-schedular/internal/model"
	"github.com/SarvaniBalivada/sports-schedular/internal/services/auth"
	redisstorage "github.com/SarvaniBalivada/sports-schedular/internal/storage/redis"
	"github.com/SarvaniBalivada/sports-schedular/internal/storage/sqlstore"
)

type IntegrationSuite struct {
	suite.Suite
	app *TestApp
	ctx context.Context
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationSuite))
}

func (s *IntegrationSuite) SetupTest() {
	s.app = NewTestApp()
	s.ctx = context.Background()
}

func (s *IntegrationSuite) signup(name, email string) model.Identity {
	session, err := s.app.AuthService.Signup(s.ctx, name, email, "password1", "")
	s.Require().NoError(err)
	identity, err := s.app.AuthService.Authenticate(s.ctx, session.Token)
	s.Require().NoError(err)
	return identity
}

func (s *IntegrationSuite) admin() model.Identity {
	user, err := s.app.AuthService.EnsureAdmin(s.ctx, "Root", "root@example.com", "password1")
	s.Require().NoError(err)
	return model.Identity{UserID: user.ID, Email: user.Email, Role: user.Role}
}

// Test: a full scheduling day from sport creation to the admin report
func (s *IntegrationSuite) TestSchedulingFlow() {
	admin := s.admin()
	alice := s.signup("Alice", "alice@example.com")
	bob := s.signup("Bob", "bob@example.com")
	carol := s.signup("Carol", "carol@example.com")

	// Step 1: admin adds a sport
	football, err := s.app.SportService.CreateSport(s.ctx, admin, "Football")
	s.Require().NoError(err)

	// Step 2: Alice schedules a match with Bob pre-seeded
	kickoff := TestAppStart.Add(48 * time.Hour)
	created, err := s.app.SessionService.CreateSession(s.ctx, alice.UserID, model.NewSession{
		SportID:     football.ID,
		DateTime:    kickoff,
		Venue:       "Park",
		MaxPlayers:  3,
		SeedPlayers: []model.UserID{alice.UserID, bob.UserID},
	})
	s.Require().NoError(err)
	s.Len(created.Seeded, 2)
	s.Empty(created.SeedFailures)

	// Step 3: teams are level, so Carol lands on team 1
	team, err := s.app.SessionService.JoinSession(s.ctx, carol.UserID, created.Session.ID)
	s.Require().NoError(err)
	s.Equal(model.Team1, team)

	// Step 4: the session is now full
	dave := s.signup("Dave", "dave@example.com")
	_, err = s.app.SessionService.JoinSession(s.ctx, dave.UserID, created.Session.ID)
	s.ErrorIs(err, model.ErrSessionFull)

	// Step 5: Carol's joined view carries her team
	joined, err := s.app.SessionService.ListJoinedSessions(s.ctx, carol.UserID)
	s.Require().NoError(err)
	s.Require().Len(joined, 1)
	s.True(joined[0].HasJoined)
	s.Equal(model.Team1, joined[0].Team)
	s.Equal(3, joined[0].CurrentPlayers)
	s.False(joined[0].IsJoinable)

	// Step 6: Alice cancels and the session drops out of joined lists
	s.Require().NoError(s.app.SessionService.CancelSession(s.ctx, alice.UserID, created.Session.ID, "rain"))
	joined, err = s.app.SessionService.ListJoinedSessions(s.ctx, carol.UserID)
	s.Require().NoError(err)
	s.Empty(joined)

	// Step 7: the report still counts the cancelled session
	rep, err := s.app.ReportService.SessionReport(s.ctx, admin, model.DateRange{})
	s.Require().NoError(err)
	s.Equal(1, rep.TotalSessions)
	s.Equal([]model.SportCount{{Name: "Football", Count: 1}}, rep.SportPopularity)

	// Join metrics saw one success and one rejection
	s.Equal(1.0, promtestutil.ToFloat64(s.app.Metrics.JoinAttempts().WithLabelValues(metrics.OutcomeJoined)))
	s.Equal(1.0, promtestutil.ToFloat64(s.app.Metrics.JoinAttempts().WithLabelValues(metrics.OutcomeFull)))
}

// Test: sign-out revokes through the shared denylist
func (s *IntegrationSuite) TestSignoutThroughApp() {
	session, err := s.app.AuthService.Signup(s.ctx, "Alice", "alice@example.com", "password1", "")
	s.Require().NoError(err)

	s.Require().NoError(s.app.AuthService.Signout(s.ctx, session.Token))

	_, err = s.app.AuthService.Authenticate(s.ctx, session.Token)
	s.ErrorIs(err, auth.ErrInvalidToken)
}

// Test: sessions become unjoinable once the clock passes their start
func (s *IntegrationSuite) TestJoinAfterStartRejected() {
	admin := s.admin()
	alice := s.signup("Alice", "alice@example.com")
	bob := s.signup("Bob", "bob@example.com")

	tennis, err := s.app.SportService.CreateSport(s.ctx, admin, "Tennis")
	s.Require().NoError(err)
	created, err := s.app.SessionService.CreateSession(s.ctx, alice.UserID, model.NewSession{
		SportID:    tennis.ID,
		DateTime:   TestAppStart.Add(time.Hour),
		Venue:      "Court 2",
		MaxPlayers: 4,
	})
	s.Require().NoError(err)

	s.app.MockClock.Advance(2 * time.Hour)

	_, err = s.app.SessionService.JoinSession(s.ctx, bob.UserID, created.Session.ID)
	s.ErrorIs(err, model.ErrNotJoinable)
}

func TestNewWithSQLiteAndRedis(t *testing.T) {
	mini := miniredis.RunT(t)
	ctx := context.Background()

	sqlCfg := sqlstore.DefaultConfig()
	sqlCfg.DSN = filepath.Join(t.TempDir(), "app.db")
	redisCfg := redisstorage.DefaultConfig()
	redisCfg.URL = "redis://" + mini.Addr()

	app, err := New(ctx, Config{
		StorageType: StorageTypeSQLite,
		SQLConfig:   &sqlCfg,
		Migrate:     true,
		RedisConfig: &redisCfg,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	require.NoError(t, app.Ping(ctx))

	session, err := app.AuthService.Signup(ctx, "Alice", "alice@example.com", "password1", "")
	require.NoError(t, err)
	require.NoError(t, app.AuthService.Signout(ctx, session.Token))

	_, err = app.AuthService.Authenticate(ctx, session.Token)
	require.Error(t, err)
	require.Len(t, mini.Keys(), 1)
}

func TestNewWithSQLiteKeepsRevocationsInDatabase(t *testing.T) {
	ctx := context.Background()
	sqlCfg := sqlstore.DefaultConfig()
	sqlCfg.DSN = filepath.Join(t.TempDir(), "app.db")
	cfg := Config{StorageType: StorageTypeSQLite, SQLConfig: &sqlCfg, Migrate: true}
	cfg.AuthConfig.Secret = "shared-secret"

	app, err := New(ctx, cfg)
	require.NoError(t, err)
	_, isStore := app.Denylist.(*sqlstore.Store)
	require.True(t, isStore)

	session, err := app.AuthService.Signup(ctx, "Alice", "alice@example.com", "password1", "")
	require.NoError(t, err)
	require.NoError(t, app.AuthService.Signout(ctx, session.Token))
	require.NoError(t, app.Close())

	// a restarted app still rejects the token
	app, err = New(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	_, err = app.AuthService.Authenticate(ctx, session.Token)
	require.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestNewRejectsUnknownStorage(t *testing.T) {
	_, err := New(context.Background(), Config{StorageType: "mongo"})
	require.Error(t, err)

	_, err = New(context.Background(), Config{StorageType: StorageTypePostgres})
	require.Error(t, err)
}

func TestNewDefaultsToMemory(t *testing.T) {
	app, err := New(context.Background(), Config{})
	require.NoError(t, err)
	require.NoError(t, app.Ping(context.Background()))
	require.NoError(t, app.Close())
}
