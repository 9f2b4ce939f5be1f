// Package telemetry provides Prometheus metrics and OpenTelemetry tracing for wordfinder.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "wordfinder"

const (
	// OutcomeApplied labels filter operations that changed the constraint set
	OutcomeApplied = "applied"
	// OutcomeConflict labels exclude/include requests rejected by a conflict
	OutcomeConflict = "conflict"
	// OutcomeContradiction labels patterns that fix an excluded letter
	OutcomeContradiction = "contradiction"
)

// FilterMetrics holds the instruments for sessions and filter operations.
// A nil *FilterMetrics records nothing.
type FilterMetrics struct {
	activeSessions  prometheus.Gauge
	evictedSessions prometheus.Counter
	operations      *prometheus.CounterVec
	remainingWords  prometheus.Histogram
}

// NewFilterMetrics registers the filter instruments with reg.
// If reg is nil, it returns nil (no-op metrics).
func NewFilterMetrics(reg prometheus.Registerer) *FilterMetrics {
	if reg == nil {
		return nil
	}

	return &FilterMetrics{
		activeSessions: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions_active",
			Help:      "Number of live filtering sessions",
		}),
		evictedSessions: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_evicted_total",
			Help:      "Number of sessions evicted after their TTL expired",
		}),
		operations: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "filter_operations_total",
			Help:      "Number of filter operations by operation and outcome",
		}, []string{"operation", "outcome"}),
		remainingWords: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "filter_remaining_words",
			Help:      "Number of words left after a filter operation",
			Buckets:   []float64{0, 1, 2, 5, 10, 25, 50, 100, 500, 1000, 5000},
		}),
	}
}

// SetActiveSessions records the current number of sessions
func (m *FilterMetrics) SetActiveSessions(n int) {
	if m == nil {
		return
	}
	m.activeSessions.Set(float64(n))
}

// RecordEvictions counts sessions removed by the janitor
func (m *FilterMetrics) RecordEvictions(n int) {
	if m == nil || n == 0 {
		return
	}
	m.evictedSessions.Add(float64(n))
}

// RecordOperation counts one filter operation and the size of its result
func (m *FilterMetrics) RecordOperation(operation, outcome string, remaining int) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(operation, outcome).Inc()
	m.remainingWords.Observe(float64(remaining))
}
