package metric

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var _ Transaction = (*transactionMetrics)(nil)

type transactionMetrics struct {
	duration *prometheus.HistogramVec
	attempts *prometheus.CounterVec
}

func newTransactionMetrics(registry *promRegistry) *transactionMetrics {
	duration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_transaction_duration_seconds",
			Help:    "Wall time of a transactional operation including retries, by outcome",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"operation", "outcome"},
	)

	attempts := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "db_transaction_attempts_total",
			Help: "Transaction attempts, labelled with the attempt number that finished the operation",
		},
		[]string{"operation", "attempts"},
	)

	registry.registry.MustRegister(duration, attempts)

	return &transactionMetrics{
		duration: duration,
		attempts: attempts,
	}
}

func (m *transactionMetrics) Observe(
	operation string,
	duration time.Duration,
	attempts int,
	err error,
) {
	outcome := "committed"
	if err != nil {
		outcome = "failed"
	}
	m.duration.WithLabelValues(operation, outcome).Observe(duration.Seconds())
	m.attempts.WithLabelValues(operation, strconv.Itoa(attempts)).Inc()
}
