// Package metrics exports session activity as Prometheus metrics.
package metrics

import (
	"context"
	"net/http"

	"github.com/bizzai/go-session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector records session activity events. It implements
// session.ActivitySink.
type Collector struct {
	events         *prometheus.CounterVec
	authenticated  prometheus.Gauge
	lastTransition prometheus.Gauge
}

var _ session.ActivitySink = (*Collector)(nil)

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bizz_session_events_total",
			Help: "Session activity events by type.",
		}, []string{"event"}),
		authenticated: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "bizz_session_authenticated",
			Help: "1 while a session identity is held, 0 otherwise.",
		}),
		lastTransition: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "bizz_session_last_event_timestamp_seconds",
			Help: "Unix time of the last session activity event.",
		}),
	}

	reg.MustRegister(
		c.events,
		c.authenticated,
		c.lastTransition,
	)

	return c
}

// Record implements session.ActivitySink.
func (c *Collector) Record(_ context.Context, event session.ActivityEvent) error {
	c.events.WithLabelValues(string(event.EventType)).Inc()

	switch event.To {
	case session.StateAuthenticated:
		c.authenticated.Set(1)
	case session.StateAnonymous:
		c.authenticated.Set(0)
	}

	if !event.OccurredAt.IsZero() {
		c.lastTransition.Set(float64(event.OccurredAt.UnixNano()) / 1e9)
	}
	return nil
}

// Handler returns the scrape handler for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
