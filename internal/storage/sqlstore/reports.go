package sqlstore

import (
	"context"
	"time"

	"github.com/SarvaniBalivada/sports-schedular/internal/model"
)

func (s *Store) CountSessions(ctx context.Context, from, to time.Time) (int, error) {
	var total int
	err := s.get(ctx, &total,
		`SELECT COUNT(*) FROM sessions WHERE date_time >= ? AND date_time < ?`,
		ts(from), ts(to))
	if err != nil {
		return 0, classify("count sessions", err, nil, nil)
	}
	return total, nil
}

func (s *Store) CountSessionsBySport(ctx context.Context, from, to time.Time) ([]model.SportCount, error) {
	counts := []model.SportCount{}
	err := s.selectAll(ctx, &counts,
		`SELECT sp.name AS name, COUNT(s.id) AS session_count
		 FROM sessions s
		 JOIN sports sp ON sp.id = s.sport_id
		 WHERE s.date_time >= ? AND s.date_time < ?
		 GROUP BY sp.name
		 ORDER BY session_count DESC, sp.name ASC`,
		ts(from), ts(to))
	if err != nil {
		return nil, classify("count sessions by sport", err, nil, nil)
	}
	return counts, nil
}
