package sport

import (
	"context"
	"log/slog"
	"strings"

	"github.com/SarvaniBalivada/sports-schedular/internal/dependencies/clock"
	"github.com/SarvaniBalivada/sports-schedular/internal/model"
	"github.com/SarvaniBalivada/sports-schedular/internal/storage"
)

// Service manages the catalogue of sports sessions can be scheduled for
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger
}

// New creates a new sport Service
func New(storage storage.Storage, clock clock.Clock, logger *slog.Logger) *Service {
	return &Service{storage: storage, clock: clock, logger: logger}
}

// CreateSport adds a sport. Only admins may create sports.
func (s *Service) CreateSport(ctx context.Context, requester model.Identity, name string) (*model.Sport, error) {
	if !requester.IsAdmin() {
		return nil, model.ErrAdminRequired
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, model.Invalid("sport name is required")
	}

	sport := &model.Sport{
		Name:      name,
		CreatedBy: requester.UserID,
		CreatedAt: s.clock.Now(),
	}
	if err := s.storage.SaveSport(ctx, sport); err != nil {
		return nil, err
	}

	s.logger.Info("sport created", "sport_id", sport.ID, "name", sport.Name, "created_by", requester.UserID)
	return sport, nil
}

// ListSports returns all sports, newest first
func (s *Service) ListSports(ctx context.Context) ([]model.Sport, error) {
	return s.storage.ListSports(ctx)
}
