package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/SarvaniBalivada/sports-schedular/internal/dependencies/clock"
	"github.com/SarvaniBalivada/sports-schedular/internal/model"
	"github.com/SarvaniBalivada/sports-schedular/internal/storage"
)

// Supported database/sql driver names
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

func init() {
	// modernc registers itself as "sqlite", which sqlx does not know by default
	sqlx.BindDriver(DriverSQLite, sqlx.QUESTION)
}

// Config holds relational store settings
type Config struct {
	// Driver is "postgres" or "sqlite"
	Driver string
	// DSN is a postgres:// URL for PostgreSQL or a file path for SQLite
	DSN string

	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

// DefaultConfig returns a single-node SQLite configuration
func DefaultConfig() Config {
	return Config{
		Driver:          DriverSQLite,
		DSN:             "sportsched.db",
		MaxOpenConns:    10,
		ConnMaxLifetime: 30 * time.Minute,
	}
}

// Store is a sqlx-backed implementation of the storage interface for
// PostgreSQL and SQLite. Queries are written with ? placeholders and
// rebound for the active driver.
type Store struct {
	db    *sqlx.DB
	q     sqlx.ExtContext
	tx    *sqlx.Tx
	clock clock.Clock
}

// Ensure Store implements the interface
var _ storage.Storage = (*Store)(nil)

// Open connects to the configured database
func Open(ctx context.Context, cfg Config) (*Store, error) {
	var dsn string
	switch cfg.Driver {
	case DriverPostgres:
		dsn = cfg.DSN
	case DriverSQLite:
		dsn = sqliteDSN(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := sqlx.Open(cfg.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s db: %w", cfg.Driver, err)
	}

	if cfg.Driver == DriverSQLite {
		// one writer at a time; transactions are serialized on this connection
		db.SetMaxOpenConns(1)
	} else if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s db: %w", cfg.Driver, err)
	}

	return NewWithDB(db), nil
}

// NewWithDB wraps an existing connection (for testing)
func NewWithDB(db *sqlx.DB) *Store {
	return &Store{db: db, q: db, clock: clock.New()}
}

func sqliteDSN(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_time_format=sqlite"
}

// SetClock replaces the clock used to expire revoked tokens
func (s *Store) SetClock(c clock.Clock) {
	s.clock = c
}

// Close closes the underlying connection pool
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks the connection
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return model.Unavailable("ping", err)
	}
	return nil
}

func (s *Store) isPostgres() bool {
	return s.db.DriverName() == DriverPostgres
}

// rebind converts ? placeholders to the driver's bind style
func (s *Store) rebind(query string) string {
	return s.db.Rebind(query)
}

// forUpdate appends a row lock clause where the dialect has one
func (s *Store) forUpdate(query string) string {
	if s.isPostgres() {
		return query + " FOR UPDATE"
	}
	return query
}

func (s *Store) get(ctx context.Context, dest any, query string, args ...any) error {
	return sqlx.GetContext(ctx, s.q, dest, s.rebind(query), args...)
}

func (s *Store) selectAll(ctx context.Context, dest any, query string, args ...any) error {
	return sqlx.SelectContext(ctx, s.q, dest, s.rebind(query), args...)
}

func (s *Store) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return s.q.ExecContext(ctx, s.rebind(query), args...)
}

// WithinTx runs fn inside a database transaction
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, tx storage.Storage) error) error {
	if s.tx != nil {
		return fn(ctx, s)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return model.Unavailable("begin transaction", err)
	}

	txStore := &Store{db: s.db, q: tx, tx: tx, clock: s.clock}
	if err := fn(ctx, txStore); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return classify("commit transaction", err, nil, nil)
	}
	return nil
}

// ts normalizes an instant to the stored precision
func ts(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}
