// Package reconcile implements the multi-warehouse inventory reconciliation
// engine.
//
// Every warehouse keeps its own view of per-product stock. Mutations are
// applied at an origin warehouse, stamped with the next record version, and
// then fanned out to every other active warehouse in the background.
//
// # Architecture
//
// The engine consists of four components:
//
// 1. Registry: the set of warehouses and their InventoryRecords. Records are
// created lazily on the first update and serialized by a per-(warehouse,
// product) mutex.
//
// 2. Applier: applies set/add/subtract/reserve/release to one record. Reserve
// is the only operation that can fail and never mutates on failure.
//
// 3. Propagator: queues each update on a FIFO lane keyed by (origin, product)
// and delivers it to every other active warehouse concurrently. A target that
// already holds a version at or past the incoming one raises a Conflict,
// resolved on the spot with last-write-wins on the update timestamp.
// Delivery failures and timeouts bump the target's lag counter and never
// affect other targets.
//
// 4. Fulfillment: picks the nearest active warehouse with enough available
// stock, using haversine distance.
//
// # Events
//
// Subscribers attach to the engine Bus for EventUpdated and EventConflict.
//
// # Usage Example
//
//	engine := reconcile.NewEngine(cfg.Sync, logger)
//	_ = engine.RegisterWarehouse("ams", reconcile.Location{Latitude: 52.37, Longitude: 4.89})
//	_ = engine.RegisterWarehouse("ber", reconcile.Location{Latitude: 52.52, Longitude: 13.40})
//
//	_, err := engine.UpdateInventory(ctx, "ams", "sku-1", 100, reconcile.OpSet)
//	_ = engine.Flush(ctx)
//
//	candidate, ok := engine.FindOptimalWarehouse("sku-1", 2, destination)
package reconcile
