package storage

import (
	"context"
	"time"

	"github.com/SarvaniBalivada/sports-schedular/internal/model"
)

// Storage defines the interface for relational persistence.
// Faults in the underlying store surface as model.ErrUnavailable;
// constraint violations surface as the matching model sentinel.
type Storage interface {
	// User operations
	SaveUser(ctx context.Context, user *model.User) error
	UpdateUser(ctx context.Context, user *model.User) error
	GetUser(ctx context.Context, id model.UserID) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	// LockUser blocks concurrent transactions touching the same user until commit
	LockUser(ctx context.Context, id model.UserID) error

	// Sport operations
	SaveSport(ctx context.Context, sport *model.Sport) error
	GetSport(ctx context.Context, id model.SportID) (*model.Sport, error)
	ListSports(ctx context.Context) ([]model.Sport, error)

	// Session operations
	SaveSession(ctx context.Context, session *model.Session) error
	GetSession(ctx context.Context, id model.SessionID) (*model.Session, error)
	// GetSessionForUpdate reads a session and locks it until the transaction ends
	GetSessionForUpdate(ctx context.Context, id model.SessionID) (*model.Session, error)
	UpdateSessionStatus(ctx context.Context, id model.SessionID, status model.SessionStatus, reason string) error
	ListSessionViews(ctx context.Context, filter model.SessionFilter) ([]model.SessionView, error)

	// Membership operations
	SaveMembership(ctx context.Context, m *model.Membership) error
	IsMember(ctx context.Context, sessionID model.SessionID, playerID model.UserID) (bool, error)
	CountMembers(ctx context.Context, sessionID model.SessionID) (model.TeamCounts, error)
	// ListActiveSlots returns the active sessions the player is a member of
	ListActiveSlots(ctx context.Context, playerID model.UserID) ([]model.SessionSlot, error)

	// Reporting operations
	// CountSessionsBySport counts sessions scheduled in [from, to) per sport, most popular first
	CountSessionsBySport(ctx context.Context, from, to time.Time) ([]model.SportCount, error)
	CountSessions(ctx context.Context, from, to time.Time) (int, error)

	// WithinTx runs fn against a transactional view of the store.
	// fn's writes are committed when it returns nil and discarded otherwise.
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx Storage) error) error
}

// TokenDenylist records revoked credential tokens until they would have expired anyway
type TokenDenylist interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
