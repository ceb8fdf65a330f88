package factory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/SarvaniBalivada/sports-schedular/internal/dependencies/clock"
	"github.com/SarvaniBalivada/sports-schedular/internal/metrics"
	"github.com/SarvaniBalivada/sports-schedular/internal/services/auth"
	"github.com/SarvaniBalivada/sports-schedular/internal/services/report"
	"github.com/SarvaniBalivada/sports-schedular/internal/services/session"
	"github.com/SarvaniBalivada/sports-schedular/internal/services/sport"
	"github.com/SarvaniBalivada/sports-schedular/internal/storage"
	"github.com/SarvaniBalivada/sports-schedular/internal/storage/memory"
	redisstorage "github.com/SarvaniBalivada/sports-schedular/internal/storage/redis"
	"github.com/SarvaniBalivada/sports-schedular/internal/storage/sqlstore"
)

// Storage type constants
const (
	StorageTypeMemory   = "memory"
	StorageTypeSQLite   = sqlstore.DriverSQLite
	StorageTypePostgres = sqlstore.DriverPostgres
)

// App contains all wired application components
type App struct {
	// Storage
	Storage  storage.Storage
	Denylist storage.TokenDenylist

	// External dependencies
	Clock   clock.Clock
	Metrics *metrics.Metrics

	// Services
	AuthService    *auth.Service
	SportService   *sport.Service
	SessionService *session.Service
	ReportService  *report.Service

	closers []io.Closer
}

// Config holds configuration for the application factory
type Config struct {
	// AuthConfig holds configuration for the auth service (optional)
	// Zero fields fall back to auth.DefaultConfig()
	AuthConfig auth.Config
	// SessionConfig holds configuration for the session service (optional)
	SessionConfig session.Config
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory", "sqlite" or "postgres")
	// If empty, defaults to "memory"
	StorageType string
	// SQLConfig holds database settings (required if StorageType is "sqlite" or "postgres")
	SQLConfig *sqlstore.Config
	// Migrate applies pending schema migrations before the store is used
	Migrate bool
	// RedisConfig enables the Redis token denylist (optional)
	// If nil, revoked tokens are tracked by the storage backend in process
	RedisConfig *redisstorage.Config
}

// New creates a new application with all dependencies wired
func New(ctx context.Context, cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	clk := clock.New()

	var (
		store   storage.Storage
		closers []io.Closer
	)
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeSQLite, StorageTypePostgres:
		if cfg.SQLConfig == nil {
			return nil, fmt.Errorf("SQLConfig required when StorageType is %s", storageType)
		}
		sqlCfg := *cfg.SQLConfig
		sqlCfg.Driver = storageType
		if cfg.Migrate {
			version, err := sqlstore.Migrate(sqlCfg)
			if err != nil {
				return nil, err
			}
			logger.Info("schema migrated", "driver", sqlCfg.Driver, "version", version)
		}
		sqlStore, err := sqlstore.Open(ctx, sqlCfg)
		if err != nil {
			return nil, err
		}
		store = sqlStore
		closers = append(closers, sqlStore)
	default:
		return nil, errors.New("invalid StorageType: must be 'memory', 'sqlite' or 'postgres'")
	}

	var denylist storage.TokenDenylist
	if cfg.RedisConfig != nil {
		redisDenylist, err := redisstorage.New(*cfg.RedisConfig, clk)
		if err != nil {
			closeAll(closers)
			return nil, err
		}
		denylist = redisDenylist
		closers = append(closers, redisDenylist)
	} else {
		// sqlstore persists revocations in revoked_tokens; memory keeps them per process
		d, ok := store.(storage.TokenDenylist)
		if !ok {
			d = memory.New()
		}
		denylist = d
	}

	app := newWithDependencies(store, denylist, clk, metrics.New(), cfg.AuthConfig, cfg.SessionConfig, logger)
	app.closers = closers
	return app, nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	denylist storage.TokenDenylist,
	clk clock.Clock,
	m *metrics.Metrics,
	authCfg auth.Config,
	sessionCfg session.Config,
	logger *slog.Logger,
) *App {
	// expire stored revocations on the app's clock
	for _, dep := range []any{store, denylist} {
		if c, ok := dep.(clockSetter); ok {
			c.SetClock(clk)
		}
	}

	// Create services
	authService := auth.New(store, denylist, clk, logger, authCfg)
	sportService := sport.New(store, clk, logger)
	sessionService := session.New(store, clk, m, logger, sessionCfg)
	reportService := report.New(store, sessionService.Location())

	return &App{
		Storage:        store,
		Denylist:       denylist,
		Clock:          clk,
		Metrics:        m,
		AuthService:    authService,
		SportService:   sportService,
		SessionService: sessionService,
		ReportService:  reportService,
	}
}

type clockSetter interface {
	SetClock(c clock.Clock)
}

type pinger interface {
	Ping(ctx context.Context) error
}

// Ping checks that every external backend is reachable
func (a *App) Ping(ctx context.Context) error {
	for _, dep := range []any{a.Storage, a.Denylist} {
		if p, ok := dep.(pinger); ok {
			if err := p.Ping(ctx); err != nil {
				return err
			}
		}
	}
	return nil
}

// Close releases connections held by the storage backends
func (a *App) Close() error {
	return closeAll(a.closers)
}

func closeAll(closers []io.Closer) error {
	var errs []error
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
