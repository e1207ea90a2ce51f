// Package metrics exposes the sync engine's Prometheus collectors.
//
// SyncMetrics is handed to reconcile.NewEngine through reconcile.WithMetrics
// and served by the start command on /metrics.
package metrics
