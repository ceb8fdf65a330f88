package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/SarvaniBalivada/sports-schedular/internal/dependencies/clock"
	"github.com/SarvaniBalivada/sports-schedular/internal/model"
	"github.com/SarvaniBalivada/sports-schedular/internal/storage"
)

// Denylist is a Redis-backed token denylist. Each revoked token ID is a key
// that expires when the token itself would have.
type Denylist struct {
	client *redis.Client
	clock  clock.Clock
}

// New creates a new Redis denylist
func New(cfg Config, clk clock.Clock) (*Denylist, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return &Denylist{client: client, clock: clk}, nil
}

// NewWithClient creates a Redis denylist with an existing client (for testing)
func NewWithClient(client *redis.Client, clk clock.Clock) *Denylist {
	return &Denylist{client: client, clock: clk}
}

// Close closes the Redis connection
func (d *Denylist) Close() error {
	return d.client.Close()
}

// Ping checks the connection
func (d *Denylist) Ping(ctx context.Context) error {
	return d.client.Ping(ctx).Err()
}

// Ensure Denylist implements the interface
var _ storage.TokenDenylist = (*Denylist)(nil)

func (d *Denylist) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	ttl := expiresAt.Sub(d.clock.Now())
	if ttl <= 0 {
		// already expired, nothing to deny
		return nil
	}
	if err := d.client.Set(ctx, revokedTokenKey(tokenID), "1", ttl).Err(); err != nil {
		return model.Unavailable("revoke token", err)
	}
	return nil
}

func (d *Denylist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := d.client.Exists(ctx, revokedTokenKey(tokenID)).Result()
	if err != nil {
		return false, model.Unavailable("check revoked token", err)
	}
	return n > 0, nil
}
