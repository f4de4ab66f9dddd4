package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Terminal session metrics
	SessionsActive prometheus.Gauge
	SessionsTotal  prometheus.Counter
	SpawnFailures  prometheus.Counter

	// Terminal I/O metrics
	WritesTotal   prometheus.Counter
	WriteBytes    prometheus.Counter
	WriteErrors   prometheus.Counter
	OutputBytes   prometheus.Counter
	EventsDropped prometheus.Counter

	// WebSocket metrics
	WSConnections prometheus.Gauge
	WSMessages    *prometheus.CounterVec

	// System metrics
	Uptime    prometheus.Gauge
	startTime time.Time
}

// NewMetrics creates a new metrics collector
func NewMetrics() *Metrics {
	m := &Metrics{
		startTime: time.Now(),

		// HTTP metrics
		RequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "termdeck_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "termdeck_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),

		// Terminal session metrics
		SessionsActive: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "termdeck_sessions_active",
				Help: "Number of live terminal sessions",
			},
		),
		SessionsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "termdeck_sessions_total",
				Help: "Total number of terminal sessions created",
			},
		),
		SpawnFailures: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "termdeck_spawn_failures_total",
				Help: "Total number of failed shell spawns",
			},
		),

		// Terminal I/O metrics
		WritesTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "termdeck_writes_total",
				Help: "Total number of input payloads written to sessions",
			},
		),
		WriteBytes: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "termdeck_write_bytes_total",
				Help: "Total input bytes written to sessions",
			},
		),
		WriteErrors: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "termdeck_write_errors_total",
				Help: "Total number of failed session writes",
			},
		),
		OutputBytes: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "termdeck_output_bytes_total",
				Help: "Total output bytes read from sessions",
			},
		),
		EventsDropped: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "termdeck_events_dropped_total",
				Help: "Total number of data events dropped on a full stream",
			},
		),

		// WebSocket metrics
		WSConnections: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "termdeck_ws_connections",
				Help: "Number of active WebSocket connections",
			},
		),
		WSMessages: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "termdeck_ws_messages_total",
				Help: "Total number of WebSocket messages",
			},
			[]string{"direction", "type"},
		),

		// System metrics
		Uptime: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "termdeck_uptime_seconds",
				Help: "Backend uptime in seconds",
			},
		),
	}

	// Start uptime updater
	go m.updateUptime()

	return m
}

// updateUptime continuously updates the uptime metric
func (m *Metrics) updateUptime() {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for range ticker.C {
		m.Uptime.Set(time.Since(m.startTime).Seconds())
	}
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// SetSessionsActive sets the number of live sessions
func (m *Metrics) SetSessionsActive(count int) {
	m.SessionsActive.Set(float64(count))
}

// IncSessionsTotal increments the sessions created counter
func (m *Metrics) IncSessionsTotal() {
	m.SessionsTotal.Inc()
}

// IncSpawnFailures increments the failed spawn counter
func (m *Metrics) IncSpawnFailures() {
	m.SpawnFailures.Inc()
}

// RecordWrite records one input payload and its size
func (m *Metrics) RecordWrite(bytes int) {
	m.WritesTotal.Inc()
	m.WriteBytes.Add(float64(bytes))
}

// IncWriteErrors increments the failed write counter
func (m *Metrics) IncWriteErrors() {
	m.WriteErrors.Inc()
}

// RecordOutput records output bytes read from a session
func (m *Metrics) RecordOutput(bytes int) {
	m.OutputBytes.Add(float64(bytes))
}

// IncEventsDropped increments the dropped event counter
func (m *Metrics) IncEventsDropped() {
	m.EventsDropped.Inc()
}

// RecordWSMessage records a WebSocket message
func (m *Metrics) RecordWSMessage(direction, msgType string) {
	m.WSMessages.WithLabelValues(direction, msgType).Inc()
}

// IncWSConnections increments WebSocket connections
func (m *Metrics) IncWSConnections() {
	m.WSConnections.Inc()
}

// DecWSConnections decrements WebSocket connections
func (m *Metrics) DecWSConnections() {
	m.WSConnections.Dec()
}
