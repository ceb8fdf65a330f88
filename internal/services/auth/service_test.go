package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"github.com/SarvaniBalivada/sports-schedular/internal/dependencies/mocks"
	"github.com/SarvaniBalivada/sports-schedular/internal/model"
	"github.com/SarvaniBalivada/sports-schedular/internal/storage/memory"
	"github.com/SarvaniBalivada/sports-schedular/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.storage.SetClock(s.clock)
	cfg := DefaultConfig()
	cfg.Secret = "test-secret"
	cfg.BcryptCost = bcrypt.MinCost
	s.service = New(s.storage, s.storage, s.clock, testutil.NopLogger(), cfg)
	s.ctx = context.Background()
}

func (s *ServiceSuite) signup(email string) *Session {
	session, err := s.service.Signup(s.ctx, "Alice", email, "password1", "")
	s.Require().NoError(err)
	return session
}

// Signup tests

func (s *ServiceSuite) TestSignupDefaultsToPlayer() {
	session := s.signup("Alice@Example.com ")

	s.NotEmpty(session.Token)
	s.Equal("alice@example.com", session.User.Email)
	s.Equal(model.RolePlayer, session.User.Role)
	s.NotEqual("password1", session.User.PasswordHash)
	s.Equal(s.clock.Now().Add(24*time.Hour), session.ExpiresAt)
}

func (s *ServiceSuite) TestSignupDuplicateEmail() {
	s.signup("alice@example.com")

	_, err := s.service.Signup(s.ctx, "Other", "ALICE@example.com", "password2", model.RolePlayer)
	s.ErrorIs(err, model.ErrEmailTaken)
}

func (s *ServiceSuite) TestSignupValidation() {
	cases := map[string]struct {
		name, email, password string
		role                  model.Role
	}{
		"missing name":   {"", "a@example.com", "password1", ""},
		"bad email":      {"A", "not-an-email", "password1", ""},
		"short password": {"A", "a@example.com", "123", ""},
		"unknown role":   {"A", "a@example.com", "password1", "coach"},
	}
	for name, tc := range cases {
		s.Run(name, func() {
			_, err := s.service.Signup(s.ctx, tc.name, tc.email, tc.password, tc.role)
			s.ErrorIs(err, model.ErrInvalidInput)
		})
	}
}

func (s *ServiceSuite) TestAdminSignupGated() {
	_, err := s.service.Signup(s.ctx, "Root", "root@example.com", "password1", model.RoleAdmin)
	s.ErrorIs(err, model.ErrForbidden)

	cfg := DefaultConfig()
	cfg.Secret = "test-secret"
	cfg.BcryptCost = bcrypt.MinCost
	cfg.AllowAdminSignup = true
	open := New(s.storage, s.storage, s.clock, testutil.NopLogger(), cfg)

	session, err := open.Signup(s.ctx, "Root", "root@example.com", "password1", model.RoleAdmin)
	s.Require().NoError(err)
	s.Equal(model.RoleAdmin, session.User.Role)
}

// Signin tests

func (s *ServiceSuite) TestSigninSucceeds() {
	created := s.signup("alice@example.com")

	session, err := s.service.Signin(s.ctx, " ALICE@example.com", "password1")
	s.Require().NoError(err)
	s.Equal(created.User.ID, session.User.ID)
}

func (s *ServiceSuite) TestSigninFailuresLookAlike() {
	s.signup("alice@example.com")

	_, err := s.service.Signin(s.ctx, "alice@example.com", "wrong")
	s.ErrorIs(err, model.ErrInvalidCredentials)

	_, err = s.service.Signin(s.ctx, "nobody@example.com", "password1")
	s.ErrorIs(err, model.ErrInvalidCredentials)
}

// Token tests

func (s *ServiceSuite) TestAuthenticateResolvesIdentity() {
	session := s.signup("alice@example.com")

	identity, err := s.service.Authenticate(s.ctx, session.Token)
	s.Require().NoError(err)
	s.Equal(session.User.ID, identity.UserID)
	s.Equal(model.RolePlayer, identity.Role)
	s.Equal("alice@example.com", identity.Email)
}

func (s *ServiceSuite) TestTokenExpires() {
	session := s.signup("alice@example.com")

	s.clock.Advance(25 * time.Hour)

	_, err := s.service.Authenticate(s.ctx, session.Token)
	s.ErrorIs(err, ErrInvalidToken)
}

func (s *ServiceSuite) TestTokenFromOtherSecretRejected() {
	cfg := DefaultConfig()
	cfg.Secret = "another-secret"
	cfg.BcryptCost = bcrypt.MinCost
	other := New(memory.New(), memory.New(), s.clock, testutil.NopLogger(), cfg)
	foreign, err := other.Signup(s.ctx, "Mallory", "m@example.com", "password1", "")
	s.Require().NoError(err)

	_, err = s.service.Authenticate(s.ctx, foreign.Token)
	s.ErrorIs(err, ErrInvalidToken)

	_, err = s.service.Authenticate(s.ctx, "garbage")
	s.ErrorIs(err, ErrInvalidToken)
}

func (s *ServiceSuite) TestSignoutRevokesOnlyThatToken() {
	first := s.signup("alice@example.com")
	second, err := s.service.Signin(s.ctx, "alice@example.com", "password1")
	s.Require().NoError(err)

	s.Require().NoError(s.service.Signout(s.ctx, first.Token))

	_, err = s.service.Authenticate(s.ctx, first.Token)
	s.ErrorIs(err, ErrInvalidToken)

	_, err = s.service.Authenticate(s.ctx, second.Token)
	s.NoError(err)
}

// Profile tests

func (s *ServiceSuite) TestUpdateName() {
	session := s.signup("alice@example.com")

	user, err := s.service.UpdateProfile(s.ctx, session.User.ID, ProfileUpdate{Name: "Alicia"})
	s.Require().NoError(err)
	s.Equal("Alicia", user.Name)
}

func (s *ServiceSuite) TestUpdatePassword() {
	session := s.signup("alice@example.com")

	_, err := s.service.UpdateProfile(s.ctx, session.User.ID, ProfileUpdate{
		CurrentPassword: "password1",
		NewPassword:     "password2",
	})
	s.Require().NoError(err)

	_, err = s.service.Signin(s.ctx, "alice@example.com", "password1")
	s.ErrorIs(err, model.ErrInvalidCredentials)
	_, err = s.service.Signin(s.ctx, "alice@example.com", "password2")
	s.NoError(err)
}

func (s *ServiceSuite) TestUpdatePasswordRules() {
	session := s.signup("alice@example.com")

	_, err := s.service.UpdateProfile(s.ctx, session.User.ID, ProfileUpdate{NewPassword: "password2"})
	s.ErrorIs(err, model.ErrInvalidInput)

	_, err = s.service.UpdateProfile(s.ctx, session.User.ID, ProfileUpdate{
		CurrentPassword: "wrong",
		NewPassword:     "password2",
	})
	s.ErrorIs(err, model.ErrInvalidCredentials)

	_, err = s.service.UpdateProfile(s.ctx, session.User.ID, ProfileUpdate{Name: "Alicia", CurrentPassword: "wrong"})
	s.ErrorIs(err, model.ErrInvalidCredentials)

	_, err = s.service.UpdateProfile(s.ctx, session.User.ID, ProfileUpdate{})
	s.ErrorIs(err, model.ErrInvalidInput)
}

// EnsureAdmin tests

func (s *ServiceSuite) TestEnsureAdminCreatesOnce() {
	first, err := s.service.EnsureAdmin(s.ctx, "Root", "root@example.com", "password1")
	s.Require().NoError(err)
	s.Equal(model.RoleAdmin, first.Role)

	second, err := s.service.EnsureAdmin(s.ctx, "Root", "ROOT@example.com", "different")
	s.Require().NoError(err)
	s.Equal(first.ID, second.ID)

	session, err := s.service.Signin(s.ctx, "root@example.com", "password1")
	s.Require().NoError(err)
	s.Equal(model.RoleAdmin, session.User.Role)
}
