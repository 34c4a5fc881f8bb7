package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// WorkflowMetrics records counters for the fulfillment pipeline.
type WorkflowMetrics struct {
	routedItems *prometheus.CounterVec
	approvals   *prometheus.CounterVec
	settlements prometheus.Counter
	duration    *prometheus.HistogramVec
}

// NewWorkflowMetrics registers the workflow metrics on the provided registerer.
func NewWorkflowMetrics(reg prometheus.Registerer) *WorkflowMetrics {
	if reg == nil {
		return &WorkflowMetrics{}
	}
	routedItems := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order_items_routed_total",
		Help: "Order items routed, labeled by outcome.",
	}, []string{"outcome"})
	approvals := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "entry_approvals_total",
		Help: "Approved production and packaging entries.",
	}, []string{"kind"})
	settlements := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orders_settled_total",
		Help: "Orders released for sale.",
	})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "workflow_operation_duration_seconds",
		Help:    "Duration of workflow operations in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
	reg.MustRegister(routedItems, approvals, settlements, duration)
	return &WorkflowMetrics{
		routedItems: routedItems,
		approvals:   approvals,
		settlements: settlements,
		duration:    duration,
	}
}

// IncRoutedItem increments the routed item counter for the given outcome.
func (m *WorkflowMetrics) IncRoutedItem(outcome string) {
	if m == nil || m.routedItems == nil {
		return
	}
	m.routedItems.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// IncApproval increments the approval counter for the given entry kind.
func (m *WorkflowMetrics) IncApproval(kind string) {
	if m == nil || m.approvals == nil {
		return
	}
	m.approvals.WithLabelValues(normalizeLabel(kind)).Inc()
}

// IncSettlement increments the settled order counter.
func (m *WorkflowMetrics) IncSettlement() {
	if m == nil || m.settlements == nil {
		return
	}
	m.settlements.Inc()
}

// ObserveDuration records the duration of the named operation.
func (m *WorkflowMetrics) ObserveDuration(operation string, duration time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(operation)).Observe(duration.Seconds())
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
