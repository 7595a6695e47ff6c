// Package metrics exposes Prometheus counters for analytics ingestion,
// dashboard generation, and the chat proxy.
package metrics

import (
	"net/http"
	"time"

	"bridgeanchor/internal/analytics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "bridgeanchor"

// otherEventType is the label used for event types outside the known set,
// since eventType is client-controlled and would otherwise be unbounded.
const otherEventType = "other"

var knownEventTypes = map[string]struct{}{
	analytics.EventSessionStart:      {},
	analytics.EventSessionEnd:        {},
	analytics.EventMessageSent:       {},
	analytics.EventFeedbackSubmitted: {},
}

// Collector owns a private registry and the application metrics.
// A nil *Collector is valid and records nothing.
type Collector struct {
	registry *prometheus.Registry

	eventsIngested    *prometheus.CounterVec
	storeEvents       prometheus.Gauge
	dashboardRequests *prometheus.CounterVec
	chatRequests      *prometheus.CounterVec
	chatDuration      prometheus.Histogram
}

// NewCollector creates and registers all metrics. If registry is nil a new
// one is created.
func NewCollector(registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	c := &Collector{
		registry: registry,
		eventsIngested: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "analytics",
				Name:      "events_ingested_total",
				Help:      "Total number of analytics events recorded",
			},
			[]string{"event_type"},
		),
		storeEvents: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "analytics",
				Name:      "store_events",
				Help:      "Number of events currently held in the in-memory store",
			},
		),
		dashboardRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "dashboard_requests_total",
				Help:      "Total number of dashboard aggregations by status",
			},
			[]string{"status"},
		),
		chatRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "chat",
				Name:      "requests_total",
				Help:      "Total number of chat requests by outcome",
			},
			[]string{"outcome"},
		),
		chatDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "chat",
				Name:      "request_duration_seconds",
				Help:      "Duration of chat requests including the upstream call",
				// LLM latencies, 100ms - 30s
				Buckets: []float64{0.1, 0.25, 0.5, 1.0, 2.0, 5.0, 10.0, 30.0},
			},
		),
	}

	registry.MustRegister(
		c.eventsIngested,
		c.storeEvents,
		c.dashboardRequests,
		c.chatRequests,
		c.chatDuration,
	)

	return c
}

// RecordEvent counts one ingested event and updates the store size.
func (c *Collector) RecordEvent(eventType string, storeSize int) {
	if c == nil {
		return
	}
	if _, ok := knownEventTypes[eventType]; !ok {
		eventType = otherEventType
	}
	c.eventsIngested.WithLabelValues(eventType).Inc()
	c.storeEvents.Set(float64(storeSize))
}

// RecordDashboard counts one dashboard request ("success" or "error").
func (c *Collector) RecordDashboard(status string) {
	if c == nil {
		return
	}
	c.dashboardRequests.WithLabelValues(status).Inc()
}

// RecordChat counts one chat request and observes its duration.
func (c *Collector) RecordChat(outcome string, duration time.Duration) {
	if c == nil {
		return
	}
	c.chatRequests.WithLabelValues(outcome).Inc()
	c.chatDuration.Observe(duration.Seconds())
}

// Handler returns the Prometheus scrape handler for the collector's registry.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
		ErrorHandling:     promhttp.ContinueOnError,
	})
}
