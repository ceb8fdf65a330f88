package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "sportsched"

// Join outcome label values
const (
	OutcomeJoined        = "joined"
	OutcomeNotJoinable   = "not_joinable"
	OutcomeFull          = "full"
	OutcomeAlreadyJoined = "already_joined"
	OutcomeTimeConflict  = "time_conflict"
	OutcomeError         = "error"
)

// Metrics holds the application's Prometheus collectors on a private registry
type Metrics struct {
	Registry *prometheus.Registry

	httpInFlight prometheus.Gauge
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	httpPanics   prometheus.Counter

	joinAttempts      *prometheus.CounterVec
	sessionsCreated   prometheus.Counter
	sessionsCancelled prometheus.Counter
}

// New creates and registers all collectors
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		httpInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		}, []string{"method", "path", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		}, []string{"method", "path"}),
		httpPanics: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "panics_total",
			Help:      "Handler panics recovered.",
		}),
		joinAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sessions",
			Name:      "join_attempts_total",
			Help:      "Join attempts by outcome.",
		}, []string{"outcome"}),
		sessionsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sessions",
			Name:      "created_total",
			Help:      "Sessions created.",
		}),
		sessionsCancelled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sessions",
			Name:      "cancelled_total",
			Help:      "Session cancellations.",
		}),
	}

	m.Registry.MustRegister(
		m.httpInFlight,
		m.httpRequests,
		m.httpDuration,
		m.httpPanics,
		m.joinAttempts,
		m.sessionsCreated,
		m.sessionsCancelled,
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)
	return m
}

// Handler returns an HTTP handler exposing the registered metrics
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

// RecordPanic counts one recovered handler panic
func (m *Metrics) RecordPanic() {
	m.httpPanics.Inc()
}

// Panics exposes the recovered panic counter
func (m *Metrics) Panics() prometheus.Counter {
	return m.httpPanics
}

// RecordJoin counts one join attempt
func (m *Metrics) RecordJoin(outcome string) {
	m.joinAttempts.WithLabelValues(outcome).Inc()
}

// RecordSessionCreated counts one created session
func (m *Metrics) RecordSessionCreated() {
	m.sessionsCreated.Inc()
}

// RecordSessionCancelled counts one cancellation
func (m *Metrics) RecordSessionCancelled() {
	m.sessionsCancelled.Inc()
}

// JoinAttempts exposes the join outcome counter
func (m *Metrics) JoinAttempts() *prometheus.CounterVec {
	return m.joinAttempts
}

// SessionsCreated exposes the creation counter
func (m *Metrics) SessionsCreated() prometheus.Counter {
	return m.sessionsCreated
}

// SessionsCancelled exposes the cancellation counter
func (m *Metrics) SessionsCancelled() prometheus.Counter {
	return m.sessionsCancelled
}

// Middleware records request metrics labelled by the matched route template.
// It must be installed with mux.Router.Use so the route is known.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		m.httpInFlight.Inc()
		defer m.httpInFlight.Dec()

		next.ServeHTTP(rec, r)

		path := routeTemplate(r)
		method := strings.ToUpper(r.Method)
		m.httpRequests.WithLabelValues(method, path, strconv.Itoa(rec.status)).Inc()
		m.httpDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	})
}

// routeTemplate keeps label cardinality bounded by using /sessions/{id}/join
// rather than the concrete path
func routeTemplate(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return "unmatched"
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
