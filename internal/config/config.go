package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// EnvPrefix is prepended to every server setting
const EnvPrefix = "SPORTSCHED_"

// Storage backends
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds the server configuration read from the environment
type Config struct {
	Host     string `env:"HOST"`
	Port     int    `env:"PORT" envDefault:"3004"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	DatabaseDriver string `env:"DATABASE_DRIVER" envDefault:"sqlite"`
	DatabaseURL    string `env:"DATABASE_URL"`
	Migrate        bool   `env:"MIGRATE" envDefault:"true"`

	// RedisURL enables the shared token denylist; empty keeps it in process
	RedisURL string `env:"REDIS_URL"`

	JWTSecret        string        `env:"JWT_SECRET"`
	TokenTTL         time.Duration `env:"TOKEN_TTL" envDefault:"24h"`
	AllowAdminSignup bool          `env:"ALLOW_ADMIN_SIGNUP"`

	AdminName     string `env:"ADMIN_NAME" envDefault:"Admin"`
	AdminEmail    string `env:"ADMIN_EMAIL"`
	AdminPassword string `env:"ADMIN_PASSWORD"`

	Timezone string `env:"TIMEZONE" envDefault:"UTC"`

	AuthRateLimit float64 `env:"AUTH_RATE_LIMIT" envDefault:"1"`
	AuthRateBurst int     `env:"AUTH_RATE_BURST" envDefault:"10"`

	// CORSOrigins lists browser origins allowed to call the API; "*" allows any
	CORSOrigins []string `env:"CORS_ORIGINS" envDefault:"*" envSeparator:","`

	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`

	// unprefixed PostgreSQL settings, used when DatabaseURL is empty
	db legacyDB
}

// legacyDB are the discrete connection settings of older deployments
type legacyDB struct {
	User     string `env:"DB_USER"`
	Password string `env:"DB_PASSWORD"`
	Host     string `env:"DB_HOST" envDefault:"localhost"`
	Port     string `env:"DB_PORT" envDefault:"5432"`
	Name     string `env:"DB_NAME"`
}

// Load reads an optional dotenv file, then parses the process environment.
// Variables already set in the environment win over the file.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}
	return Parse(nil)
}

// Parse builds a Config from environ, or from the process environment when environ is nil
func Parse(environ map[string]string) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix, Environment: environ}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := env.ParseWithOptions(&cfg.db, env.Options{Environment: environ}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks settings that cannot be expressed as struct tags
func (c *Config) Validate() error {
	switch c.DatabaseDriver {
	case DriverMemory, DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("%sDATABASE_DRIVER must be memory, sqlite or postgres, got %q", EnvPrefix, c.DatabaseDriver)
	}
	if c.DatabaseDriver == DriverPostgres && c.DatabaseURL == "" && c.db.Name == "" {
		return fmt.Errorf("%sDATABASE_URL or DB_NAME is required for postgres", EnvPrefix)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("%sPORT out of range: %d", EnvPrefix, c.Port)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	if (c.AdminEmail == "") != (c.AdminPassword == "") {
		return fmt.Errorf("%sADMIN_EMAIL and %sADMIN_PASSWORD must be set together", EnvPrefix, EnvPrefix)
	}
	return nil
}

// DSN returns the connection string for the configured driver
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	switch c.DatabaseDriver {
	case DriverPostgres:
		u := url.URL{
			Scheme:   "postgres",
			Host:     net.JoinHostPort(c.db.Host, c.db.Port),
			Path:     "/" + c.db.Name,
			RawQuery: "sslmode=disable",
		}
		if c.db.User != "" {
			if c.db.Password != "" {
				u.User = url.UserPassword(c.db.User, c.db.Password)
			} else {
				u.User = url.User(c.db.User)
			}
		}
		return u.String()
	case DriverSQLite:
		return "sportsched.db"
	default:
		return ""
	}
}

// Location returns the zone used for calendar-date rules
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%sTIMEZONE: %w", EnvPrefix, err)
	}
	return loc, nil
}

// Level returns the configured log level
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("%sLOG_LEVEL: %w", EnvPrefix, err)
	}
	return level, nil
}

// BootstrapAdmin reports whether an admin account should be ensured at start-up
func (c *Config) BootstrapAdmin() bool {
	return c.AdminEmail != "" && c.AdminPassword != ""
}
