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
	SessionsActive  prometheus.Gauge
	SessionsSpawned prometheus.Counter
	SessionExits    *prometheus.CounterVec
	OutputBytes     prometheus.Counter
	WriteErrors     prometheus.Counter

	// Event bus metrics
	EventsPublished *prometheus.CounterVec
	EventsDropped   prometheus.Counter
	Subscribers     prometheus.Gauge

	// WebSocket metrics
	WSConnections prometheus.Gauge
	WSMessages    *prometheus.CounterVec

	// System metrics
	Uptime    prometheus.Gauge
	startTime time.Time

	registry *prometheus.Registry
}

// NewMetrics creates a new metrics collector registered on its own registry,
// so multiple instances (tests) never collide on the default registry.
func NewMetrics() *Metrics {
	return newMetrics(prometheus.NewRegistry())
}

// NewMetricsWith registers the collectors on the provided registry.
func NewMetricsWith(reg *prometheus.Registry) *Metrics {
	return newMetrics(reg)
}

func newMetrics(reg *prometheus.Registry) *Metrics {
	factory := promauto.With(reg)

	m := &Metrics{
		startTime: time.Now(),
		registry:  reg,

		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "backend_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "backend_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),

		SessionsActive: factory.NewGauge(prometheus.GaugeOpts{
			Name: "backend_terminal_sessions_active",
			Help: "Number of terminal sessions currently running",
		}),
		SessionsSpawned: factory.NewCounter(prometheus.CounterOpts{
			Name: "backend_terminal_sessions_spawned_total",
			Help: "Total number of terminal sessions spawned",
		}),
		SessionExits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "backend_terminal_session_exits_total",
				Help: "Total number of terminal session exits by reason",
			},
			[]string{"reason"},
		),
		OutputBytes: factory.NewCounter(prometheus.CounterOpts{
			Name: "backend_terminal_output_bytes_total",
			Help: "Total bytes read from PTY masters",
		}),
		WriteErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "backend_terminal_write_errors_total",
			Help: "Total failed writes to PTY masters",
		}),

		EventsPublished: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "backend_events_published_total",
				Help: "Total events published on the bus by type",
			},
			[]string{"type"},
		),
		EventsDropped: factory.NewCounter(prometheus.CounterOpts{
			Name: "backend_events_dropped_total",
			Help: "Total events dropped due to a full subscriber buffer",
		}),
		Subscribers: factory.NewGauge(prometheus.GaugeOpts{
			Name: "backend_events_subscribers",
			Help: "Number of active event bus subscribers",
		}),

		WSConnections: factory.NewGauge(prometheus.GaugeOpts{
			Name: "backend_ws_connections",
			Help: "Number of active WebSocket connections",
		}),
		WSMessages: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "backend_ws_messages_total",
				Help: "Total WebSocket messages by direction and type",
			},
			[]string{"direction", "type"},
		),

		Uptime: factory.NewGauge(prometheus.GaugeOpts{
			Name: "backend_uptime_seconds",
			Help: "Time since the backend started",
		}),
	}

	return m
}

// RecordHTTPRequest records metrics for one HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
	m.Uptime.Set(time.Since(m.startTime).Seconds())
}

// Registry returns the backing Prometheus registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
