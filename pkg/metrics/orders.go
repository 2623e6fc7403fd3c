package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// OrderMetrics records order lifecycle and reconciliation activity. All
// methods are nil-safe so services can run without a registry in tests.
type OrderMetrics struct {
	created           *prometheus.CounterVec
	transitions       *prometheus.CounterVec
	sequenceRetries   prometheus.Counter
	reconcileDuration prometheus.Histogram
	shortagesDetected prometheus.Counter
}

// NewOrderMetrics registers the order metrics on the provided registerer.
func NewOrderMetrics(reg prometheus.Registerer) *OrderMetrics {
	if reg == nil {
		return &OrderMetrics{}
	}
	created := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "purchase_orders_created_total",
		Help: "Purchase orders created, by category.",
	}, []string{"category"})
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "purchase_order_status_transitions_total",
		Help: "Status transitions applied, by target status.",
	}, []string{"to_status"})
	sequenceRetries := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "purchase_order_sequence_collisions_total",
		Help: "Order number collisions surfaced to callers for retry.",
	})
	reconcileDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "fulfillment_reconcile_duration_seconds",
		Help:    "Duration of fulfillment reconciliation runs.",
		Buckets: prometheus.DefBuckets,
	})
	shortages := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "fulfillment_shortages_detected_total",
		Help: "Reconciliation runs that reported at least one shortage.",
	})
	reg.MustRegister(created, transitions, sequenceRetries, reconcileDuration, shortages)
	return &OrderMetrics{
		created:           created,
		transitions:       transitions,
		sequenceRetries:   sequenceRetries,
		reconcileDuration: reconcileDuration,
		shortagesDetected: shortages,
	}
}

// IncCreated counts a successfully created order.
func (m *OrderMetrics) IncCreated(category string) {
	if m == nil || m.created == nil {
		return
	}
	m.created.WithLabelValues(category).Inc()
}

// IncTransition counts an applied status transition.
func (m *OrderMetrics) IncTransition(toStatus string) {
	if m == nil || m.transitions == nil {
		return
	}
	m.transitions.WithLabelValues(toStatus).Inc()
}

// IncSequenceCollision counts a surfaced order-number collision.
func (m *OrderMetrics) IncSequenceCollision() {
	if m == nil || m.sequenceRetries == nil {
		return
	}
	m.sequenceRetries.Inc()
}

// ObserveReconcile records the duration of one reconciliation run.
func (m *OrderMetrics) ObserveReconcile(duration time.Duration) {
	if m == nil || m.reconcileDuration == nil {
		return
	}
	m.reconcileDuration.Observe(duration.Seconds())
}

// IncShortageDetected counts a reconciliation run with shortages.
func (m *OrderMetrics) IncShortageDetected() {
	if m == nil || m.shortagesDetected == nil {
		return
	}
	m.shortagesDetected.Inc()
}
