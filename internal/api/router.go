package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/SarvaniBalivada/sports-schedular/internal/api/apierr"
	"github.com/SarvaniBalivada/sports-schedular/internal/api/handler"
	"github.com/SarvaniBalivada/sports-schedular/internal/api/middleware"
	"github.com/SarvaniBalivada/sports-schedular/internal/api/response"
	"github.com/SarvaniBalivada/sports-schedular/internal/metrics"
	basemw "github.com/SarvaniBalivada/sports-schedular/internal/middleware"
	"github.com/SarvaniBalivada/sports-schedular/internal/services/auth"
	"github.com/SarvaniBalivada/sports-schedular/internal/services/report"
	"github.com/SarvaniBalivada/sports-schedular/internal/services/session"
	"github.com/SarvaniBalivada/sports-schedular/internal/services/sport"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger         *slog.Logger
	Metrics        *metrics.Metrics
	AuthService    *auth.Service
	SportService   *sport.Service
	SessionService *session.Service
	ReportService  *report.Service
	// CredentialRateLimit throttles sign-up and sign-in per client address
	CredentialRateLimit basemw.RateLimitConfig
	// CORSOrigins enables cross-origin access for browser clients; empty disables it
	CORSOrigins []string
	// HealthCheck reports whether backing stores are reachable; nil means always healthy
	HealthCheck func(r *http.Request) error
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(notFoundHandler)

	// Create handlers
	authHandler := handler.NewAuthHandler(cfg.AuthService)
	sportHandler := handler.NewSportHandler(cfg.SportService)
	sessionHandler := handler.NewSessionHandler(cfg.SessionService)
	reportHandler := handler.NewReportHandler(cfg.ReportService)

	// Create middleware
	authMiddleware := middleware.Auth(cfg.AuthService)
	loggingMiddleware := basemw.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger, cfg.Metrics)
	credentialLimiter := basemw.NewRateLimiter(cfg.CredentialRateLimit, cfg.Logger, rateLimitedHandler)

	if cfg.Metrics != nil {
		r.Handle("/metrics", cfg.Metrics.Handler()).Methods(http.MethodGet)
	}

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(basemw.AssignRequestID)
	api.Use(loggingMiddleware)
	api.Use(recoveryMiddleware)
	if cfg.Metrics != nil {
		api.Use(cfg.Metrics.Middleware)
	}

	// Account routes (no auth required for signing up or in)
	api.Handle("/auth/signup", credentialLimiter.Handler(http.HandlerFunc(authHandler.Signup))).Methods(http.MethodPost)
	api.Handle("/auth/signin", credentialLimiter.Handler(http.HandlerFunc(authHandler.Signin))).Methods(http.MethodPost)

	// Protected account routes
	account := api.PathPrefix("/auth").Subrouter()
	account.Use(authMiddleware)
	account.HandleFunc("/signout", authHandler.Signout).Methods(http.MethodPost)
	account.HandleFunc("/me", authHandler.GetMe).Methods(http.MethodGet)
	account.HandleFunc("/profile", authHandler.UpdateProfile).Methods(http.MethodPut)

	// Sport routes: listing is public, creation is admin only
	api.HandleFunc("/sports", sportHandler.List).Methods(http.MethodGet)
	sports := api.PathPrefix("/sports").Subrouter()
	sports.Use(authMiddleware)
	sports.Use(middleware.RequireAdmin)
	sports.HandleFunc("", sportHandler.Create).Methods(http.MethodPost)

	// Session routes (all require auth)
	sessions := api.PathPrefix("/sessions").Subrouter()
	sessions.Use(authMiddleware)
	sessions.HandleFunc("", sessionHandler.Create).Methods(http.MethodPost)
	sessions.HandleFunc("", sessionHandler.List).Methods(http.MethodGet)
	sessions.HandleFunc("/mine", sessionHandler.ListMine).Methods(http.MethodGet)
	sessions.HandleFunc("/joined", sessionHandler.ListJoined).Methods(http.MethodGet)
	sessions.HandleFunc("/{id:[0-9]+}/join", sessionHandler.Join).Methods(http.MethodPost)
	sessions.HandleFunc("/{id:[0-9]+}/cancel", sessionHandler.Cancel).Methods(http.MethodPost)

	// Admin routes
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(authMiddleware)
	admin.Use(middleware.RequireAdmin)
	admin.HandleFunc("/reports/sessions", reportHandler.Sessions).Methods(http.MethodGet)

	// Health check endpoint (no auth)
	api.HandleFunc("/health", healthHandler(cfg.HealthCheck, cfg.Logger)).Methods(http.MethodGet)

	if len(cfg.CORSOrigins) > 0 {
		return basemw.NewCORS(cfg.CORSOrigins).Handler(r)
	}
	return r
}

func healthHandler(check func(r *http.Request) error, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			if err := check(r); err != nil {
				logger.Warn("health check failed", "error", err)
				response.JSON(w, http.StatusServiceUnavailable, response.Health{Status: "unavailable"})
				return
			}
		}
		response.JSON(w, http.StatusOK, response.Health{Status: "ok"})
	}
}

func rateLimitedHandler(w http.ResponseWriter, _ *http.Request) {
	apierr.WriteError(w, apierr.NewRateLimitedError())
}

func notFoundHandler(w http.ResponseWriter, _ *http.Request) {
	response.JSON(w, http.StatusNotFound, apierr.ErrorResponse{Error: apierr.APIError{
		Code:    "NOT_FOUND",
		Message: "Route not found",
	}})
}
