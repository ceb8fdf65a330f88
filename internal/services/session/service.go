package session

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/SarvaniBalivada/sports-schedular/internal/dependencies/clock"
	"github.com/SarvaniBalivada/sports-schedular/internal/metrics"
	"github.com/SarvaniBalivada/sports-schedular/internal/model"
	"github.com/SarvaniBalivada/sports-schedular/internal/storage"
)

// Config holds configuration for the session service
type Config struct {
	// Location decides which calendar date a session falls on for conflict checks
	Location *time.Location
}

// DefaultConfig returns default session configuration
func DefaultConfig() Config {
	return Config{Location: time.UTC}
}

// Service owns the session lifecycle: creation, joining, cancellation and listings
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	metrics *metrics.Metrics
	logger  *slog.Logger
	loc     *time.Location
}

// New creates a new session Service
func New(storage storage.Storage, clock clock.Clock, metrics *metrics.Metrics, logger *slog.Logger, cfg Config) *Service {
	if cfg.Location == nil {
		cfg.Location = DefaultConfig().Location
	}
	return &Service{
		storage: storage,
		clock:   clock,
		metrics: metrics,
		logger:  logger,
		loc:     cfg.Location,
	}
}

// Location returns the zone calendar dates are evaluated in
func (s *Service) Location() *time.Location {
	return s.loc
}

// CreateSession schedules a session and seeds its roster. Seeds alternate
// between teams in list order. A seed that cannot be inserted is reported in
// the result; the session itself is kept.
func (s *Service) CreateSession(ctx context.Context, requester model.UserID, in model.NewSession) (*model.CreatedSession, error) {
	venue := strings.TrimSpace(in.Venue)
	switch {
	case in.SportID == 0:
		return nil, model.Invalid("sport is required")
	case in.DateTime.IsZero():
		return nil, model.Invalid("date and time are required")
	case venue == "":
		return nil, model.Invalid("venue is required")
	case in.MaxPlayers <= 0:
		return nil, model.Invalid("max players must be greater than zero")
	}

	if _, err := s.storage.GetSport(ctx, in.SportID); err != nil {
		if errors.Is(err, model.ErrSportNotFound) {
			return nil, model.Invalid("sport %d does not exist", in.SportID)
		}
		return nil, err
	}

	now := s.clock.Now()
	session := &model.Session{
		SportID:    in.SportID,
		CreatorID:  requester,
		DateTime:   in.DateTime.UTC(),
		Venue:      venue,
		MaxPlayers: in.MaxPlayers,
		Status:     model.SessionStatusActive,
		CreatedAt:  now,
	}
	if err := s.storage.SaveSession(ctx, session); err != nil {
		if errors.Is(err, model.ErrSportNotFound) {
			return nil, model.Invalid("sport %d does not exist", in.SportID)
		}
		return nil, err
	}
	s.metrics.RecordSessionCreated()

	result := &model.CreatedSession{
		Session:      session,
		Seeded:       []model.Membership{},
		SeedFailures: []model.SeedFailure{},
	}
	for k, playerID := range in.SeedPlayers {
		m := &model.Membership{
			SessionID: session.ID,
			PlayerID:  playerID,
			Team:      model.SeedTeam(k),
			JoinedAt:  now,
		}
		if err := s.storage.SaveMembership(ctx, m); err != nil {
			s.logger.Warn("seed player not added",
				"session_id", session.ID,
				"player_id", playerID,
				"error", err,
			)
			result.SeedFailures = append(result.SeedFailures, model.SeedFailure{
				PlayerID: playerID,
				Reason:   seedFailureReason(err),
			})
			continue
		}
		result.Seeded = append(result.Seeded, *m)
	}

	s.logger.Info("session created",
		"session_id", session.ID,
		"sport_id", session.SportID,
		"creator_id", requester,
		"seeded", len(result.Seeded),
	)
	return result, nil
}

func seedFailureReason(err error) string {
	switch {
	case errors.Is(err, model.ErrAlreadyJoined):
		return "already in session"
	case errors.Is(err, model.ErrUserNotFound):
		return "player does not exist"
	default:
		return "could not add player"
	}
}

// JoinSession adds the requester to a session and returns the assigned team.
// The gates are evaluated in order inside one transaction: joinability,
// capacity, duplicate membership, then time conflicts.
func (s *Service) JoinSession(ctx context.Context, requester model.UserID, sessionID model.SessionID) (model.Team, error) {
	var team model.Team
	err := s.storage.WithinTx(ctx, func(ctx context.Context, tx storage.Storage) error {
		session, err := tx.GetSessionForUpdate(ctx, sessionID)
		if err != nil {
			if errors.Is(err, model.ErrSessionNotFound) {
				return model.ErrNotJoinable
			}
			return err
		}
		if !session.IsOpen(s.clock.Now()) {
			return model.ErrNotJoinable
		}

		counts, err := tx.CountMembers(ctx, sessionID)
		if err != nil {
			return err
		}
		if counts.Total() >= session.MaxPlayers {
			return model.ErrSessionFull
		}

		member, err := tx.IsMember(ctx, sessionID, requester)
		if err != nil {
			return err
		}
		if member {
			return model.ErrAlreadyJoined
		}

		if err := tx.LockUser(ctx, requester); err != nil {
			return err
		}
		slots, err := tx.ListActiveSlots(ctx, requester)
		if err != nil {
			return err
		}
		if conflict := model.FindConflict(session, slots, s.loc); conflict != nil {
			return &model.TimeConflictError{
				SessionID: conflict.SessionID,
				SportName: conflict.SportName,
				DateTime:  conflict.DateTime.In(s.loc),
			}
		}

		team = counts.Next()
		return tx.SaveMembership(ctx, &model.Membership{
			SessionID: sessionID,
			PlayerID:  requester,
			Team:      team,
			JoinedAt:  s.clock.Now(),
		})
	})

	s.metrics.RecordJoin(joinOutcome(err))
	if err != nil {
		return 0, err
	}

	s.logger.Info("player joined session",
		"session_id", sessionID,
		"player_id", requester,
		"team", int(team),
	)
	return team, nil
}

func joinOutcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeJoined
	case errors.Is(err, model.ErrNotJoinable):
		return metrics.OutcomeNotJoinable
	case errors.Is(err, model.ErrSessionFull):
		return metrics.OutcomeFull
	case errors.Is(err, model.ErrAlreadyJoined):
		return metrics.OutcomeAlreadyJoined
	case errors.Is(err, model.ErrTimeConflict):
		return metrics.OutcomeTimeConflict
	default:
		return metrics.OutcomeError
	}
}

// CancelSession marks a session cancelled. Only the creator may cancel;
// cancelling again replaces the recorded reason.
func (s *Service) CancelSession(ctx context.Context, requester model.UserID, sessionID model.SessionID, reason string) error {
	err := s.storage.WithinTx(ctx, func(ctx context.Context, tx storage.Storage) error {
		session, err := tx.GetSessionForUpdate(ctx, sessionID)
		if err != nil {
			return err
		}
		if session.CreatorID != requester {
			return model.ErrNotCreator
		}
		return tx.UpdateSessionStatus(ctx, sessionID, model.SessionStatusCancelled, strings.TrimSpace(reason))
	})
	if err != nil {
		return err
	}

	s.metrics.RecordSessionCancelled()
	s.logger.Info("session cancelled", "session_id", sessionID, "creator_id", requester)
	return nil
}

// ListSessions returns every session, newest first, as seen by the requester
func (s *Service) ListSessions(ctx context.Context, requester model.UserID) ([]model.SessionView, error) {
	return s.list(ctx, model.SessionFilter{ViewerID: requester})
}

// ListMySessions returns the sessions the requester created
func (s *Service) ListMySessions(ctx context.Context, requester model.UserID) ([]model.SessionView, error) {
	return s.list(ctx, model.SessionFilter{ViewerID: requester, CreatorID: requester})
}

// ListJoinedSessions returns the active sessions the requester is a member of
func (s *Service) ListJoinedSessions(ctx context.Context, requester model.UserID) ([]model.SessionView, error) {
	return s.list(ctx, model.SessionFilter{ViewerID: requester, JoinedBy: requester, ActiveOnly: true})
}

func (s *Service) list(ctx context.Context, filter model.SessionFilter) ([]model.SessionView, error) {
	views, err := s.storage.ListSessionViews(ctx, filter)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	for i := range views {
		views[i].IsJoinable = views[i].Session.IsJoinable(now, views[i].CurrentPlayers)
	}
	return views, nil
}
