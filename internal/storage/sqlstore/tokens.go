package sqlstore

import (
	"context"
	"time"

	"github.com/SarvaniBalivada/sports-schedular/internal/storage"
)

var _ storage.TokenDenylist = (*Store)(nil)

// Revoke records a token ID until expiresAt. Rows for tokens that have
// already expired are pruned on the way.
func (s *Store) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	now := ts(s.clock.Now())
	if _, err := s.exec(ctx, `DELETE FROM revoked_tokens WHERE expires_at < ?`, now); err != nil {
		return classify("prune revoked tokens", err, nil, nil)
	}
	_, err := s.exec(ctx,
		`INSERT INTO revoked_tokens (token_id, expires_at) VALUES (?, ?)
		 ON CONFLICT (token_id) DO NOTHING`,
		tokenID, ts(expiresAt))
	return classify("revoke token", err, nil, nil)
}

func (s *Store) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	var n int
	err := s.get(ctx, &n,
		`SELECT COUNT(*) FROM revoked_tokens WHERE token_id = ? AND expires_at >= ?`,
		tokenID, ts(s.clock.Now()))
	if err != nil {
		return false, classify("check revoked token", err, nil, nil)
	}
	return n > 0, nil
}
