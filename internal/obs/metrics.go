package obs

import (
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
)

// Metrics tracks application metrics using atomic counters.
type Metrics struct {
	requests    atomic.Int64
	cacheHits   atomic.Int64
	fetchErrors atomic.Int64
	noTrip      atomic.Int64
	logger      *slog.Logger
}

// NewMetrics creates a new Metrics instance.
func NewMetrics(logger *slog.Logger) *Metrics {
	return &Metrics{
		logger: logger,
	}
}

// IncRequests increments the total request counter.
func (m *Metrics) IncRequests() {
	m.requests.Add(1)
}

// IncCacheHits increments the plan cache hits counter.
func (m *Metrics) IncCacheHits() {
	m.cacheHits.Add(1)
}

// IncFetchErrors increments the forecast fetch errors counter.
func (m *Metrics) IncFetchErrors() {
	m.fetchErrors.Add(1)
}

// IncNoTrip increments the unsatisfiable-request counter.
func (m *Metrics) IncNoTrip() {
	m.noTrip.Add(1)
}

// Snapshot returns current metric values.
func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		Requests:    m.requests.Load(),
		CacheHits:   m.cacheHits.Load(),
		FetchErrors: m.fetchErrors.Load(),
		NoTrip:      m.noTrip.Load(),
	}
}

// MetricsSnapshot represents a point-in-time snapshot of metrics.
type MetricsSnapshot struct {
	Requests    int64
	CacheHits   int64
	FetchErrors int64
	NoTrip      int64
}

// HealthHandler returns a handler for /healthz requests.
func HealthHandler(logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			logger.Error("failed to write health response", "error", err)
		}
	}
}

// MetricsHandler returns a handler for /metrics requests in Prometheus format.
func (m *Metrics) MetricsHandler() http.HandlerFunc {
	counters := []struct {
		name string
		help string
		load func(MetricsSnapshot) int64
	}{
		{"requests_total", "Total number of requests", func(s MetricsSnapshot) int64 { return s.Requests }},
		{"cache_hits_total", "Total number of plan cache hits", func(s MetricsSnapshot) int64 { return s.CacheHits }},
		{"forecast_fetch_errors_total", "Total number of forecast fetch errors", func(s MetricsSnapshot) int64 { return s.FetchErrors }},
		{"no_trip_found_total", "Total number of unsatisfiable plan requests", func(s MetricsSnapshot) int64 { return s.NoTrip }},
	}

	return func(w http.ResponseWriter, r *http.Request) {
		snapshot := m.Snapshot()

		w.Header().Set("Content-Type", "text/plain; version=0.0.4")
		w.WriteHeader(http.StatusOK)

		for _, c := range counters {
			_, err := fmt.Fprintf(w, "# HELP %s %s\n# TYPE %s counter\n%s %d\n",
				c.name, c.help, c.name, c.name, c.load(snapshot))
			if err != nil {
				m.logger.Error("failed to write metrics", "error", err)
				return
			}
		}
	}
}
