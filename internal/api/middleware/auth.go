package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/SarvaniBalivada/sports-schedular/internal/api/apierr"
	"github.com/SarvaniBalivada/sports-schedular/internal/model"
	"github.com/SarvaniBalivada/sports-schedular/internal/services/auth"
)

type contextKey string

const (
	identityContextKey contextKey = "identity"
	tokenContextKey    contextKey = "token"
)

// Auth creates authentication middleware
func Auth(authService *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token == "" {
				apierr.WriteError(w, apierr.NewUnauthorizedError())
				return
			}

			identity, err := authService.Authenticate(r.Context(), token)
			if err != nil {
				apierr.WriteError(w, err)
				return
			}

			ctx := r.Context()
			ctx = context.WithValue(ctx, identityContextKey, identity)
			ctx = context.WithValue(ctx, tokenContextKey, token)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin rejects authenticated callers without the admin role.
// It must run after Auth.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := GetIdentity(r.Context())
		if !ok {
			apierr.WriteError(w, apierr.NewUnauthorizedError())
			return
		}
		if !identity.IsAdmin() {
			apierr.WriteError(w, model.ErrAdminRequired)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// extractToken extracts the bearer token from the request
func extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return ""
}

// GetIdentity returns the authenticated caller from the request context
func GetIdentity(ctx context.Context) (model.Identity, bool) {
	identity, ok := ctx.Value(identityContextKey).(model.Identity)
	return identity, ok
}

// GetToken returns the bearer token the caller authenticated with
func GetToken(ctx context.Context) string {
	token, _ := ctx.Value(tokenContextKey).(string)
	return token
}

// MustGetIdentity returns the authenticated caller or panics
func MustGetIdentity(ctx context.Context) model.Identity {
	identity, ok := GetIdentity(ctx)
	if !ok {
		panic("no identity in context - auth middleware not applied?")
	}
	return identity
}
