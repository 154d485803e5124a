package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the server's Prometheus collectors. Each Server owns its own
// registry so tests can run servers side by side.
type Metrics struct {
	SessionsActive prometheus.Gauge
	SessionsTotal  prometheus.Counter
	EventsTotal    *prometheus.CounterVec
	EventDuration  prometheus.Histogram
	OpsSent        prometheus.Counter
	BytesSent      prometheus.Counter
	Errors         *prometheus.CounterVec
}

// NewMetrics registers the fern collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		SessionsActive: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "fern",
			Subsystem: "server",
			Name:      "sessions_active",
			Help:      "Currently connected sessions.",
		}),
		SessionsTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: "fern",
			Subsystem: "server",
			Name:      "sessions_total",
			Help:      "Sessions accepted since start.",
		}),
		EventsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fern",
			Subsystem: "server",
			Name:      "events_total",
			Help:      "Client events processed, by event name.",
		}, []string{"event"}),
		EventDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: "fern",
			Subsystem: "server",
			Name:      "event_duration_seconds",
			Help:      "Time to dispatch an event and flush the resulting mutations.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 14),
		}),
		OpsSent: f.NewCounter(prometheus.CounterOpts{
			Namespace: "fern",
			Subsystem: "server",
			Name:      "ops_sent_total",
			Help:      "Host mutation ops streamed to clients.",
		}),
		BytesSent: f.NewCounter(prometheus.CounterOpts{
			Namespace: "fern",
			Subsystem: "server",
			Name:      "bytes_sent_total",
			Help:      "Bytes written to WebSocket connections.",
		}),
		Errors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fern",
			Subsystem: "server",
			Name:      "errors_total",
			Help:      "Session errors, by kind.",
		}, []string{"kind"}),
	}
}
