// Package observability wires Prometheus metrics for the portal. A nil
// *Metrics is valid and records nothing.
package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/aussiebroadwan/portal/pkg/httpx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Auth metrics
	AuthAttemptsTotal   *prometheus.CounterVec
	SessionChecksTotal  *prometheus.CounterVec
	SessionsPurgedTotal prometheus.Counter

	registry *prometheus.Registry
}

// NewMetrics creates and registers all portal metrics on registry.
func NewMetrics(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "portal_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "portal_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		AuthAttemptsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "portal_auth_attempts_total",
				Help: "Login and registration attempts by outcome",
			},
			[]string{"action", "outcome"},
		),
		SessionChecksTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "portal_session_checks_total",
				Help: "Session guard evaluations by resulting state",
			},
			[]string{"guard", "state"},
		),
		SessionsPurgedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "portal_sessions_purged_total",
				Help: "Expired sessions removed by housekeeping",
			},
		),
		registry: registry,
	}

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.AuthAttemptsTotal,
		m.SessionChecksTotal,
		m.SessionsPurgedTotal,
	)

	return m
}

// RecordAuth counts a login or register attempt. outcome is "success",
// "rejected" or "error".
func (m *Metrics) RecordAuth(action, outcome string) {
	if m == nil {
		return
	}
	m.AuthAttemptsTotal.WithLabelValues(action, outcome).Inc()
}

// RecordSessionCheck counts one guard evaluation.
func (m *Metrics) RecordSessionCheck(guard, state string) {
	if m == nil {
		return
	}
	m.SessionChecksTotal.WithLabelValues(guard, state).Inc()
}

// RecordPurged adds n to the purged session counter.
func (m *Metrics) RecordPurged(n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.SessionsPurgedTotal.Add(float64(n))
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// HTTPMiddleware instruments requests. The route label is the matched mux
// pattern so path parameters don't explode cardinality.
func (m *Metrics) HTTPMiddleware() httpx.Middleware {
	return func(next http.Handler) http.Handler {
		if m == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := httpx.NewStatusRecorder(w)

			next.ServeHTTP(rec, r)

			route := r.Pattern
			if route == "" {
				route = "unmatched"
			}
			m.HTTPRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(rec.Status())).Inc()
			m.HTTPRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
		})
	}
}
