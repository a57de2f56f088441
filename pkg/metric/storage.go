package metric

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var _ Storage = (*storageMetrics)(nil)

type storageMetrics struct {
	duration *prometheus.HistogramVec
	failures *prometheus.CounterVec
}

func newStorageMetrics(registry *promRegistry) *storageMetrics {
	duration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Duration of repository operations in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
		},
		[]string{"operation"},
	)

	failures := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "db_query_failures_total",
			Help: "Total number of failed repository operations",
		},
		[]string{"operation"},
	)

	registry.registry.MustRegister(duration, failures)

	return &storageMetrics{
		duration: duration,
		failures: failures,
	}
}

func (m *storageMetrics) ObserveQuery(operation string, duration time.Duration, err error) {
	m.duration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		m.failures.WithLabelValues(operation).Inc()
	}
}
