// Package metrics exposes counters and gauges describing live menu
// tracking: open overlays, running sessions and their outcomes.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics groups the collectors registered for one engine instance.
type Metrics struct {
	OverlaysOpen   prometheus.Gauge
	SessionsActive prometheus.Gauge
	Workers        prometheus.Gauge
	Deliveries     prometheus.Counter
	Outcomes       *prometheus.CounterVec
	Drops          *prometheus.CounterVec
}

// New registers a fresh collector set on reg. A nil registerer yields
// collectors that are not exported anywhere.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		OverlaysOpen: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "menutrack",
			Subsystem: "overlay",
			Name:      "open",
			Help:      "Number of overlay windows currently open",
		}),
		SessionsActive: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "menutrack",
			Subsystem: "tracking",
			Name:      "sessions_active",
			Help:      "Number of tracking sessions currently open, submenus included",
		}),
		Workers: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "menutrack",
			Subsystem: "runner",
			Name:      "workers",
			Help:      "Number of tracking worker goroutines running",
		}),
		Deliveries: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "menutrack",
			Subsystem: "runner",
			Name:      "deliveries_total",
			Help:      "Total number of chosen items delivered to the invocation sink",
		}),
		Outcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "menutrack",
			Subsystem: "tracking",
			Name:      "outcomes_total",
			Help:      "Root session outcomes by kind",
		}, []string{"outcome"}),
		Drops: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "menutrack",
			Subsystem: "runner",
			Name:      "dropped_total",
			Help:      "Tracking requests dropped before a session started",
		}, []string{"reason"}),
	}
}

// Discard returns collectors registered nowhere, for tests and embedders
// that do not export metrics.
func Discard() *Metrics {
	return New(nil)
}
