package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the ledger module.
type Metrics struct {
	// Operation outcomes by operation name and result ("ok" or the
	// domain error code).
	OperationOutcome *prometheus.CounterVec

	// Operation latency by operation name.
	OperationLatency *prometheus.HistogramVec

	// Distribution of per-interaction score increments.
	InteractionScore prometheus.Histogram
}

// New creates a Metrics instance with all ledger metrics registered.
func New() *Metrics {
	return &Metrics{
		OperationOutcome: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "humanproof_ledger_operations_total",
			Help: "Total ledger operations by name and outcome",
		}, []string{"operation", "outcome"}),

		OperationLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "humanproof_ledger_operation_duration_seconds",
			Help:    "Duration of ledger operations including store commit",
			Buckets: []float64{0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"operation"}),

		InteractionScore: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "humanproof_ledger_interaction_score_increments",
			Help:    "Distribution of per-interaction score increments",
			Buckets: []float64{0, 10, 25, 50, 100, 150, 200, 250, 310},
		}),
	}
}

// RecordOperation records one operation outcome with its duration.
func (m *Metrics) RecordOperation(operation, outcome string, d time.Duration) {
	if m != nil {
		m.OperationOutcome.WithLabelValues(operation, outcome).Inc()
		m.OperationLatency.WithLabelValues(operation).Observe(d.Seconds())
	}
}

// ObserveInteractionScore records one computed score increment.
func (m *Metrics) ObserveInteractionScore(increment uint64) {
	if m != nil {
		m.InteractionScore.Observe(float64(increment))
	}
}
