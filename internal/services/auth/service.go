package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/SarvaniBalivada/sports-schedular/internal/dependencies/clock"
	"github.com/SarvaniBalivada/sports-schedular/internal/model"
	"github.com/SarvaniBalivada/sports-schedular/internal/storage"
)

// Errors
var (
	ErrInvalidToken = errors.New("invalid or expired token")
)

// MinPasswordLength is the shortest password accepted at sign-up
const MinPasswordLength = 6

// Session is the result of a successful sign-up or sign-in
type Session struct {
	Token     string
	User      model.User
	ExpiresAt time.Time
}

// Claims are the JWT claims carried by an access token
type Claims struct {
	Role  model.Role `json:"role"`
	Email string     `json:"email"`
	jwt.RegisteredClaims
}

// Service handles accounts, credentials and access tokens
type Service struct {
	storage  storage.Storage
	denylist storage.TokenDenylist
	clock    clock.Clock
	logger   *slog.Logger

	secret           []byte
	tokenTTL         time.Duration
	bcryptCost       int
	allowAdminSignup bool
}

// Config holds configuration for the auth service
type Config struct {
	// Secret signs access tokens. A random secret is generated when empty,
	// which invalidates tokens on restart.
	Secret           string
	TokenTTL         time.Duration
	BcryptCost       int
	AllowAdminSignup bool
}

// DefaultConfig returns default auth configuration
func DefaultConfig() Config {
	return Config{
		TokenTTL:   24 * time.Hour,
		BcryptCost: bcrypt.DefaultCost,
	}
}

// New creates a new auth Service
func New(storage storage.Storage, denylist storage.TokenDenylist, clock clock.Clock, logger *slog.Logger, cfg Config) *Service {
	defaults := DefaultConfig()
	if cfg.TokenTTL == 0 {
		cfg.TokenTTL = defaults.TokenTTL
	}
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = defaults.BcryptCost
	}

	secret := []byte(cfg.Secret)
	if len(secret) == 0 {
		secret = make([]byte, 64)
		_, _ = rand.Read(secret)
		logger.Warn("no token secret configured, generated an ephemeral one")
	}

	return &Service{
		storage:          storage,
		denylist:         denylist,
		clock:            clock,
		logger:           logger,
		secret:           secret,
		tokenTTL:         cfg.TokenTTL,
		bcryptCost:       cfg.BcryptCost,
		allowAdminSignup: cfg.AllowAdminSignup,
	}
}

// NormalizeEmail lowercases and trims an email address for storage and lookup
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Signup registers an account and signs it in. Role defaults to player.
func (s *Service) Signup(ctx context.Context, name, email, password string, role model.Role) (*Session, error) {
	name = strings.TrimSpace(name)
	email = NormalizeEmail(email)
	if role == "" {
		role = model.RolePlayer
	}

	switch {
	case name == "":
		return nil, model.Invalid("name is required")
	case email == "" || !strings.Contains(email, "@"):
		return nil, model.Invalid("a valid email is required")
	case len(password) < MinPasswordLength:
		return nil, model.Invalid("password must be at least %d characters", MinPasswordLength)
	case !role.Valid():
		return nil, model.Invalid("role must be player or admin")
	}
	if role == model.RoleAdmin && !s.allowAdminSignup {
		return nil, fmt.Errorf("%w: admin accounts cannot be self-registered", model.ErrForbidden)
	}

	user, err := s.createUser(ctx, name, email, password, role)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user signed up", "user_id", user.ID, "role", user.Role)
	return s.issue(user)
}

func (s *Service) createUser(ctx context.Context, name, email, password string, role model.Role) (*model.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.storage.SaveUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Signin verifies credentials and issues a token. Unknown emails and wrong
// passwords are indistinguishable to the caller.
func (s *Service) Signin(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.storage.GetUserByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, model.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, model.ErrInvalidCredentials
	}

	return s.issue(user)
}

// Signout revokes the token until it would have expired
func (s *Service) Signout(ctx context.Context, token string) error {
	claims, err := s.parse(token)
	if err != nil {
		return err
	}
	return s.denylist.Revoke(ctx, claims.ID, claims.ExpiresAt.Time)
}

// Authenticate resolves a bearer token to the caller's identity
func (s *Service) Authenticate(ctx context.Context, token string) (model.Identity, error) {
	claims, err := s.parse(token)
	if err != nil {
		return model.Identity{}, err
	}

	revoked, err := s.denylist.IsRevoked(ctx, claims.ID)
	if err != nil {
		return model.Identity{}, err
	}
	if revoked {
		return model.Identity{}, ErrInvalidToken
	}

	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return model.Identity{}, ErrInvalidToken
	}
	return model.Identity{
		UserID: model.UserID(id),
		Email:  claims.Email,
		Role:   claims.Role,
	}, nil
}

// GetUser returns an account by ID
func (s *Service) GetUser(ctx context.Context, id model.UserID) (*model.User, error) {
	return s.storage.GetUser(ctx, id)
}

// ProfileUpdate holds the optional fields of a profile change
type ProfileUpdate struct {
	Name            string
	CurrentPassword string
	NewPassword     string
}

// UpdateProfile changes the caller's name and/or password. A new password
// requires the current one; a current password given alone is still checked.
func (s *Service) UpdateProfile(ctx context.Context, id model.UserID, upd ProfileUpdate) (*model.User, error) {
	name := strings.TrimSpace(upd.Name)
	if name == "" && upd.CurrentPassword == "" && upd.NewPassword == "" {
		return nil, model.Invalid("no changes provided")
	}
	if upd.NewPassword != "" && upd.CurrentPassword == "" {
		return nil, model.Invalid("current password is required to set a new password")
	}
	if upd.NewPassword != "" && len(upd.NewPassword) < MinPasswordLength {
		return nil, model.Invalid("password must be at least %d characters", MinPasswordLength)
	}

	user, err := s.storage.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.CurrentPassword != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(upd.CurrentPassword)); err != nil {
			return nil, model.ErrInvalidCredentials
		}
	}

	changed := false
	if name != "" && name != user.Name {
		user.Name = name
		changed = true
	}
	if upd.NewPassword != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(upd.NewPassword), s.bcryptCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
		changed = true
	}
	if !changed {
		return user, nil
	}

	user.UpdatedAt = s.clock.Now()
	if err := s.storage.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info("profile updated", "user_id", user.ID)
	return user, nil
}

// EnsureAdmin creates an admin account with the given credentials when no
// account uses the email yet. An existing account is left untouched.
func (s *Service) EnsureAdmin(ctx context.Context, name, email, password string) (*model.User, error) {
	email = NormalizeEmail(email)
	existing, err := s.storage.GetUserByEmail(ctx, email)
	if err == nil {
		if existing.Role != model.RoleAdmin {
			s.logger.Warn("bootstrap admin email belongs to a non-admin account", "user_id", existing.ID)
		}
		return existing, nil
	}
	if !errors.Is(err, model.ErrUserNotFound) {
		return nil, err
	}

	if strings.TrimSpace(name) == "" {
		name = "Admin"
	}
	user, err := s.createUser(ctx, strings.TrimSpace(name), email, password, model.RoleAdmin)
	if err != nil {
		return nil, err
	}
	s.logger.Info("bootstrap admin created", "user_id", user.ID)
	return user, nil
}

// issue signs a fresh access token for user
func (s *Service) issue(user *model.User) (*Session, error) {
	now := s.clock.Now()
	expiresAt := now.Add(s.tokenTTL)

	claims := Claims{
		Role:  user.Role,
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(int64(user.ID), 10),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, User: *user, ExpiresAt: expiresAt}, nil
}

func (s *Service) parse(token string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.clock.Now),
		jwt.WithExpirationRequired(),
	)
	if err != nil || claims.ID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
