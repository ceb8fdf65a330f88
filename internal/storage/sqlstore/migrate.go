package sqlstore

import (
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrationsFS embed.FS

// Migrate applies all pending schema migrations for the configured database.
// It opens and closes its own connection.
func Migrate(cfg Config) (uint, error) {
	var databaseURL string
	switch cfg.Driver {
	case DriverPostgres:
		databaseURL = cfg.DSN
	case DriverSQLite:
		databaseURL = "sqlite://" + strings.TrimPrefix(cfg.DSN, "sqlite://")
	default:
		return 0, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	src, err := iofs.New(migrationsFS, "migrations/"+cfg.Driver)
	if err != nil {
		return 0, fmt.Errorf("load migrations: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, databaseURL)
	if err != nil {
		return 0, fmt.Errorf("init migrations: %w", err)
	}
	defer func() {
		_, _ = m.Close()
	}()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return 0, fmt.Errorf("apply migrations: %w", err)
	}

	version, _, err := m.Version()
	if err != nil {
		return 0, fmt.Errorf("read migration version: %w", err)
	}
	return version, nil
}
