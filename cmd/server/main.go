package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/SarvaniBalivada/sports-schedular/internal/api"
	"github.com/SarvaniBalivada/sports-schedular/internal/config"
	"github.com/SarvaniBalivada/sports-schedular/internal/factory"
	"github.com/SarvaniBalivada/sports-schedular/internal/middleware"
	"github.com/SarvaniBalivada/sports-schedular/internal/services/auth"
	"github.com/SarvaniBalivada/sports-schedular/internal/services/session"
	redisstorage "github.com/SarvaniBalivada/sports-schedular/internal/storage/redis"
	"github.com/SarvaniBalivada/sports-schedular/internal/storage/sqlstore"
)

func main() {
	envFile := flag.String("env-file", ".env", "dotenv file to load before reading the environment")
	flag.Parse()

	// Bootstrap logger until the configured level is known
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load(*envFile)
	if err != nil {
		logger.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Set up logging with JSON output
	level, _ := cfg.Level()
	logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	loc, _ := cfg.Location()

	// Build factory config from environment
	authCfg := auth.DefaultConfig()
	authCfg.Secret = cfg.JWTSecret
	authCfg.TokenTTL = cfg.TokenTTL
	authCfg.AllowAdminSignup = cfg.AllowAdminSignup

	factoryCfg := factory.Config{
		AuthConfig:    authCfg,
		SessionConfig: session.Config{Location: loc},
		Logger:        logger,
		StorageType:   cfg.DatabaseDriver,
		Migrate:       cfg.Migrate,
	}

	if cfg.DatabaseDriver != config.DriverMemory {
		sqlCfg := sqlstore.DefaultConfig()
		sqlCfg.Driver = cfg.DatabaseDriver
		sqlCfg.DSN = cfg.DSN()
		factoryCfg.SQLConfig = &sqlCfg
	}

	// Configure Redis if a URL is given
	if cfg.RedisURL != "" {
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.RedisURL
		factoryCfg.RedisConfig = &redisCfg
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Create application factory
	app, err := factory.New(ctx, factoryCfg)
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Warn("closing storage", slog.String("error", err.Error()))
		}
	}()

	if cfg.BootstrapAdmin() {
		if _, err := app.AuthService.EnsureAdmin(ctx, cfg.AdminName, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			logger.Error("failed to bootstrap admin", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	rateLimit := middleware.DefaultRateLimitConfig()
	rateLimit.RequestsPerSecond = cfg.AuthRateLimit
	rateLimit.Burst = cfg.AuthRateBurst

	// Create API router
	router := api.NewRouter(api.RouterConfig{
		Logger:              logger,
		Metrics:             app.Metrics,
		AuthService:         app.AuthService,
		SportService:        app.SportService,
		SessionService:      app.SessionService,
		ReportService:       app.ReportService,
		CredentialRateLimit: rateLimit,
		CORSOrigins:         cfg.CORSOrigins,
		HealthCheck: func(r *http.Request) error {
			return app.Ping(r.Context())
		},
	})

	// Create server
	serverConfig := api.DefaultServerConfig()
	serverConfig.Host = cfg.Host
	serverConfig.Port = cfg.Port
	serverConfig.ShutdownTimeout = cfg.ShutdownTimeout
	server := api.NewServer(router, serverConfig, logger)

	logger.Info("server configured",
		slog.String("addr", server.Addr()),
		slog.String("storage", cfg.DatabaseDriver),
		slog.String("timezone", loc.String()),
	)

	if err := server.Run(ctx); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
