// Package metrics exposes Prometheus instrumentation for the rate limiter.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the rate limiter's Prometheus collectors.
type Metrics struct {
	Decisions *prometheus.CounterVec
}

// New creates and registers the rate limit metrics.
func New() *Metrics {
	return &Metrics{
		Decisions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "nidegypt_rate_limit_decisions_total",
			Help: "Rate limit decisions by outcome",
		}, []string{"outcome"}),
	}
}

// RecordAdmitted counts an admitted request.
func (m *Metrics) RecordAdmitted() {
	m.Decisions.WithLabelValues("admitted").Inc()
}

// RecordDenied counts a denied request.
func (m *Metrics) RecordDenied() {
	m.Decisions.WithLabelValues("denied").Inc()
}
