package sqlstore

import (
	"context"

	"github.com/SarvaniBalivada/sports-schedular/internal/model"
)

func (s *Store) SaveSport(ctx context.Context, sport *model.Sport) error {
	sport.CreatedAt = ts(sport.CreatedAt)
	err := s.get(ctx, &sport.ID,
		`INSERT INTO sports (name, created_by, created_at) VALUES (?, ?, ?) RETURNING id`,
		sport.Name, sport.CreatedBy, sport.CreatedAt)
	return classify("save sport", err, nil, model.ErrUserNotFound)
}

func (s *Store) GetSport(ctx context.Context, id model.SportID) (*model.Sport, error) {
	var sport model.Sport
	err := s.get(ctx, &sport, `SELECT id, name, created_by, created_at FROM sports WHERE id = ?`, id)
	if err != nil {
		return nil, classifyRow("get sport", err, model.ErrSportNotFound)
	}
	sport.CreatedAt = sport.CreatedAt.UTC()
	return &sport, nil
}

func (s *Store) ListSports(ctx context.Context) ([]model.Sport, error) {
	sports := []model.Sport{}
	err := s.selectAll(ctx, &sports,
		`SELECT id, name, created_by, created_at FROM sports ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, classify("list sports", err, nil, nil)
	}
	for i := range sports {
		sports[i].CreatedAt = sports[i].CreatedAt.UTC()
	}
	return sports, nil
}
