package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimitConfig configures per-client request throttling
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate per client; zero disables limiting
	RequestsPerSecond float64
	Burst             int
	// IdleTTL is how long an unused client limiter is kept
	IdleTTL time.Duration
}

// DefaultRateLimitConfig returns defaults suited to credential endpoints
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		RequestsPerSecond: 1,
		Burst:             10,
		IdleTTL:           10 * time.Minute,
	}
}

// DeniedHandler writes the response for a throttled request
type DeniedHandler func(w http.ResponseWriter, r *http.Request)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter throttles requests per client address with token buckets
type RateLimiter struct {
	mu       sync.Mutex
	clients  map[string]*clientLimiter
	cfg      RateLimitConfig
	logger   *slog.Logger
	denied   DeniedHandler
	now      func() time.Time
	lastScan time.Time
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(cfg RateLimitConfig, logger *slog.Logger, denied DeniedHandler) *RateLimiter {
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = DefaultRateLimitConfig().IdleTTL
	}
	if denied == nil {
		denied = func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
		}
	}
	return &RateLimiter{
		clients: make(map[string]*clientLimiter),
		cfg:     cfg,
		logger:  logger,
		denied:  denied,
		now:     time.Now,
	}
}

// allow reports whether the client identified by key may proceed
func (rl *RateLimiter) allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if now.Sub(rl.lastScan) > rl.cfg.IdleTTL {
		for k, c := range rl.clients {
			if now.Sub(c.lastSeen) > rl.cfg.IdleTTL {
				delete(rl.clients, k)
			}
		}
		rl.lastScan = now
	}

	c, ok := rl.clients[key]
	if !ok {
		c = &clientLimiter{limiter: rate.NewLimiter(rate.Limit(rl.cfg.RequestsPerSecond), rl.cfg.Burst)}
		rl.clients[key] = c
	}
	c.lastSeen = now
	return c.limiter.AllowN(now, 1)
}

// Handler returns the rate limiting middleware
func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	if rl.cfg.RequestsPerSecond <= 0 {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := clientKey(r)
		if !rl.allow(key) {
			rl.logger.Warn("rate limit exceeded",
				slog.String("client", key),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
			)
			w.Header().Set("Retry-After", "1")
			rl.denied(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
