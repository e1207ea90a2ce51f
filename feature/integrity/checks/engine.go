package checks

import (
	"warehouse-sync/core/reconcile"
)

// EngineReport summarizes replication health.
type EngineReport struct {
	Status              string   `json:"status"` // "ok", "degraded"
	Healthy             bool     `json:"healthy"`
	AvgLag              float64  `json:"avg_lag"`
	QueueLength         int      `json:"queue_length"`
	UnresolvedConflicts int      `json:"unresolved_conflicts"`
	LaggingWarehouses   []string `json:"lagging_warehouses"`
	InactiveWarehouses  []string `json:"inactive_warehouses"`
}

// CheckEngine derives a report from the engine's sync status.
func CheckEngine(status reconcile.SyncStatus) EngineReport {
	report := EngineReport{
		Status:              "ok",
		Healthy:             status.Healthy,
		AvgLag:              status.AvgLag,
		QueueLength:         status.QueueLength,
		UnresolvedConflicts: status.UnresolvedConflicts,
		LaggingWarehouses:   []string{},
		InactiveWarehouses:  []string{},
	}
	for _, w := range status.Warehouses {
		if w.Lag > 0 {
			report.LaggingWarehouses = append(report.LaggingWarehouses, w.ID)
		}
		if w.Status == reconcile.StatusInactive {
			report.InactiveWarehouses = append(report.InactiveWarehouses, w.ID)
		}
	}
	if !status.Healthy {
		report.Status = "degraded"
	}
	return report
}
