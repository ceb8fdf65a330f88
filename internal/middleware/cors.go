package middleware

import (
	"net/http"
	"slices"
	"strings"
)

const (
	corsAllowMethods  = "GET, POST, PUT, OPTIONS"
	corsAllowHeaders  = "Content-Type, Authorization, " + RequestIDHeader
	corsExposeHeaders = RequestIDHeader + ", Retry-After"
	corsMaxAge        = "3600"
)

// CORS answers cross-origin requests from the allowed origins. "*" allows
// any origin. Preflight OPTIONS requests are answered directly with 204.
type CORS struct {
	origins  []string
	allowAll bool
}

// NewCORS creates CORS middleware for the given origins
func NewCORS(origins []string) *CORS {
	c := &CORS{}
	for _, o := range origins {
		o = strings.TrimSpace(strings.TrimSuffix(o, "/"))
		if o == "" {
			continue
		}
		if o == "*" {
			c.allowAll = true
		}
		c.origins = append(c.origins, o)
	}
	return c
}

// Handler wraps next with CORS headers and preflight handling
func (c *CORS) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin == "" {
			next.ServeHTTP(w, r)
			return
		}

		allowed := c.allowAll || slices.Contains(c.origins, origin)
		if allowed {
			h := w.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Add("Vary", "Origin")
			h.Set("Access-Control-Allow-Methods", corsAllowMethods)
			h.Set("Access-Control-Allow-Headers", corsAllowHeaders)
			h.Set("Access-Control-Expose-Headers", corsExposeHeaders)
			h.Set("Access-Control-Max-Age", corsMaxAge)
		}

		if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
			if !allowed {
				w.WriteHeader(http.StatusForbidden)
				return
			}
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
