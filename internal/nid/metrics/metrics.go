// Package metrics exposes Prometheus instrumentation for the decoder.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the decoder's Prometheus collectors.
type Metrics struct {
	Decodes   *prometheus.CounterVec
	BatchSize prometheus.Histogram
}

// New creates and registers the decoder metrics.
func New() *Metrics {
	return &Metrics{
		Decodes: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "nidegypt_decodes_total",
			Help: "Identifier decodes by verdict",
		}, []string{"verdict"}),
		BatchSize: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "nidegypt_bulk_batch_size",
			Help:    "Size of bulk decode batches",
			Buckets: []float64{1, 5, 10, 25, 50, 100},
		}),
	}
}

// RecordDecode counts one decode by its overall verdict.
func (m *Metrics) RecordDecode(valid bool) {
	verdict := "invalid"
	if valid {
		verdict = "valid"
	}
	m.Decodes.WithLabelValues(verdict).Inc()
}

// RecordBatch observes a bulk batch size.
func (m *Metrics) RecordBatch(size int) {
	m.BatchSize.Observe(float64(size))
}
