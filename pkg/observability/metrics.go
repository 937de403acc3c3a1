package observability

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors for the registry.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	HTTPInFlight        prometheus.Gauge

	LoginsTotal         *prometheus.CounterVec
	AuthzDecisionsTotal *prometheus.CounterVec
	CacheHitsTotal      *prometheus.CounterVec
	CacheMissTotal      *prometheus.CounterVec

	DBConnectionsActive prometheus.Gauge
	DBConnectionsIdle   prometheus.Gauge
}

// NewMetrics creates and registers all collectors on a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mockerhub_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "mockerhub_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		HTTPInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "mockerhub_http_requests_in_flight",
				Help: "Number of HTTP requests currently being served",
			},
		),

		LoginsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mockerhub_logins_total",
				Help: "Total number of login attempts",
			},
			[]string{"status"},
		),
		AuthzDecisionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mockerhub_authz_decisions_total",
				Help: "Total number of authorization decisions",
			},
			[]string{"outcome"},
		),
		CacheHitsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mockerhub_cache_hits_total",
				Help: "Total number of cache hits",
			},
			[]string{"cache"},
		),
		CacheMissTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mockerhub_cache_misses_total",
				Help: "Total number of cache misses",
			},
			[]string{"cache"},
		),

		DBConnectionsActive: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "mockerhub_db_connections_active",
				Help: "Number of open database connections",
			},
		),
		DBConnectionsIdle: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "mockerhub_db_connections_idle",
				Help: "Number of idle database connections",
			},
		),
	}

	m.registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.HTTPInFlight,
		m.LoginsTotal,
		m.AuthzDecisionsTotal,
		m.CacheHitsTotal,
		m.CacheMissTotal,
		m.DBConnectionsActive,
		m.DBConnectionsIdle,
	)
	return m
}

// Handler serves the metrics endpoint for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveRequest records one completed HTTP request.
func (m *Metrics) ObserveRequest(method, path, status string, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// ObserveLogin records one login attempt by outcome. Safe on a nil receiver
// so callers do not branch on whether metrics are enabled.
func (m *Metrics) ObserveLogin(success bool) {
	if m == nil {
		return
	}
	m.LoginsTotal.WithLabelValues(outcomeLabel(success, "success", "failure")).Inc()
}

// ObserveAuthzDecision records one authorization decision. Safe on a nil
// receiver.
func (m *Metrics) ObserveAuthzDecision(allowed bool) {
	if m == nil {
		return
	}
	m.AuthzDecisionsTotal.WithLabelValues(outcomeLabel(allowed, "allowed", "denied")).Inc()
}

// ObserveCacheLookup records one cache lookup against the named cache. Safe
// on a nil receiver.
func (m *Metrics) ObserveCacheLookup(cache string, hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.CacheHitsTotal.WithLabelValues(cache).Inc()
		return
	}
	m.CacheMissTotal.WithLabelValues(cache).Inc()
}

func outcomeLabel(ok bool, pos, neg string) string {
	if ok {
		return pos
	}
	return neg
}

// CollectDBStats samples database pool statistics until ctx is done.
func (m *Metrics) CollectDBStats(ctx context.Context, db *sql.DB, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			stats := db.Stats()
			m.DBConnectionsActive.Set(float64(stats.OpenConnections))
			m.DBConnectionsIdle.Set(float64(stats.Idle))
		}
	}
}
