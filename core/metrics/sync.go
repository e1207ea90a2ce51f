package metrics

import (
	"time"

	"warehouse-sync/core/reconcile"

	"github.com/prometheus/client_golang/prometheus"
)

// SyncMetrics exports engine activity to Prometheus.
// It implements reconcile.Metrics; a nil *SyncMetrics records nothing.
type SyncMetrics struct {
	updates      *prometheus.CounterVec
	conflicts    *prometheus.CounterVec
	propagation  prometheus.Histogram
	failures     *prometheus.CounterVec
	warehouseLag *prometheus.GaugeVec
}

var _ reconcile.Metrics = (*SyncMetrics)(nil)

// NewSyncMetrics registers the sync metrics on the provided registerer.
func NewSyncMetrics(reg prometheus.Registerer) *SyncMetrics {
	if reg == nil {
		return &SyncMetrics{}
	}
	updates := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "inventory_updates_total",
		Help: "Local inventory updates applied, by operation.",
	}, []string{"operation"})
	conflicts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "inventory_conflicts_total",
		Help: "Version conflicts detected during propagation, by resolution.",
	}, []string{"resolution"})
	propagation := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "inventory_propagation_duration_seconds",
		Help:    "Time to fan one update out to every target warehouse.",
		Buckets: prometheus.DefBuckets,
	})
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "inventory_propagation_failures_total",
		Help: "Failed deliveries, by target warehouse.",
	}, []string{"warehouse"})
	lag := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "warehouse_sync_lag",
		Help: "Accumulated failed propagations per warehouse.",
	}, []string{"warehouse"})
	reg.MustRegister(updates, conflicts, propagation, failures, lag)
	return &SyncMetrics{
		updates:      updates,
		conflicts:    conflicts,
		propagation:  propagation,
		failures:     failures,
		warehouseLag: lag,
	}
}

// ObserveUpdate counts a locally applied update.
func (m *SyncMetrics) ObserveUpdate(op reconcile.Operation) {
	if m == nil || m.updates == nil {
		return
	}
	m.updates.WithLabelValues(normalizeLabel(string(op))).Inc()
}

// ObserveConflict counts a detected conflict.
func (m *SyncMetrics) ObserveConflict(res reconcile.Resolution) {
	if m == nil || m.conflicts == nil {
		return
	}
	m.conflicts.WithLabelValues(normalizeLabel(string(res))).Inc()
}

// ObservePropagation records one fan-out duration.
func (m *SyncMetrics) ObservePropagation(d time.Duration) {
	if m == nil || m.propagation == nil {
		return
	}
	m.propagation.Observe(d.Seconds())
}

// ObservePropagationFailure counts a failed delivery to warehouseID.
func (m *SyncMetrics) ObservePropagationFailure(warehouseID string) {
	if m == nil || m.failures == nil {
		return
	}
	m.failures.WithLabelValues(normalizeLabel(warehouseID)).Inc()
}

// SetLag publishes the current lag of warehouseID.
func (m *SyncMetrics) SetLag(warehouseID string, lag int) {
	if m == nil || m.warehouseLag == nil {
		return
	}
	m.warehouseLag.WithLabelValues(normalizeLabel(warehouseID)).Set(float64(lag))
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
