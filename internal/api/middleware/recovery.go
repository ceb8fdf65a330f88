package middleware

import (
	"log/slog"
	"net/http"

	"github.com/SarvaniBalivada/sports-schedular/internal/api/apierr"
	"github.com/SarvaniBalivada/sports-schedular/internal/metrics"
	"github.com/SarvaniBalivada/sports-schedular/internal/middleware"
)

// Recovery turns handler panics into the JSON internal error and counts them
// when m is non-nil.
func Recovery(logger *slog.Logger, m *metrics.Metrics) func(http.Handler) http.Handler {
	return middleware.Recovery(logger, func(w http.ResponseWriter, _ *http.Request, _ any) {
		if m != nil {
			m.RecordPanic()
		}
		apierr.WriteError(w, apierr.NewInternalError())
	})
}
