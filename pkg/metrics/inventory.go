package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// InventoryMetrics counts stock movements recorded by the engine.
type InventoryMetrics struct {
	adjustments *prometheus.CounterVec
	kitIssues   prometheus.Counter
	rejections  *prometheus.CounterVec
}

// NewInventoryMetrics registers the inventory engine metrics on the provided registerer.
func NewInventoryMetrics(reg prometheus.Registerer) *InventoryMetrics {
	if reg == nil {
		return &InventoryMetrics{}
	}
	adjustments := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "inventory_adjustments_total",
		Help: "Stock adjustments applied, labeled by direction.",
	}, []string{"type"})
	kitIssues := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "inventory_kit_issues_total",
		Help: "Kits successfully issued.",
	})
	rejections := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "inventory_rejections_total",
		Help: "Stock operations rejected, labeled by reason.",
	}, []string{"reason"})
	reg.MustRegister(adjustments, kitIssues, rejections)
	return &InventoryMetrics{
		adjustments: adjustments,
		kitIssues:   kitIssues,
		rejections:  rejections,
	}
}

// IncAdjustment increments the counter for the given transaction type.
func (m *InventoryMetrics) IncAdjustment(txType string) {
	if m == nil || m.adjustments == nil {
		return
	}
	m.adjustments.WithLabelValues(normalizeLabel(txType)).Inc()
}

// IncKitIssue increments the issued-kit counter.
func (m *InventoryMetrics) IncKitIssue() {
	if m == nil || m.kitIssues == nil {
		return
	}
	m.kitIssues.Inc()
}

// IncRejection increments the rejection counter for the given reason.
func (m *InventoryMetrics) IncRejection(reason string) {
	if m == nil || m.rejections == nil {
		return
	}
	m.rejections.WithLabelValues(normalizeLabel(reason)).Inc()
}
