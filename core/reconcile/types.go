package reconcile

import "time"

// Operation is the kind of mutation carried by an InventoryUpdate.
type Operation string

const (
	// OpSet overwrites the on-hand quantity.
	OpSet Operation = "set"
	// OpAdd increases the on-hand quantity.
	OpAdd Operation = "add"
	// OpSubtract decreases the on-hand quantity, never below zero.
	OpSubtract Operation = "subtract"
	// OpReserve holds stock for an in-flight order.
	OpReserve Operation = "reserve"
	// OpRelease returns held stock, never below zero.
	OpRelease Operation = "release"
)

// Valid reports whether op is a known operation.
func (op Operation) Valid() bool {
	switch op {
	case OpSet, OpAdd, OpSubtract, OpReserve, OpRelease:
		return true
	default:
		return false
	}
}

// WarehouseStatus controls whether a warehouse takes part in propagation
// and fulfillment.
type WarehouseStatus string

const (
	StatusActive   WarehouseStatus = "active"
	StatusInactive WarehouseStatus = "inactive"
)

// Location is the geographic position of a warehouse or a delivery destination.
type Location struct {
	// Latitude in decimal degrees.
	Latitude float64 `json:"lat"`
	// Longitude in decimal degrees.
	Longitude float64 `json:"lng"`
	// Label is a free-form name (city, site code).
	Label string `json:"label,omitempty"`
}

// InventoryRecord is the stock state of one product at one warehouse.
type InventoryRecord struct {
	// Quantity is the on-hand count.
	Quantity int64 `json:"quantity"`

	// Reserved is the amount held for in-flight orders. Never exceeds Quantity.
	Reserved int64 `json:"reserved"`

	// Version is bumped by every applied update, starting at 0.
	Version int64 `json:"version"`

	// LastUpdated is the timestamp of the update that produced Version.
	LastUpdated time.Time `json:"last_updated"`
}

// Available returns the stock that can still be reserved.
func (r InventoryRecord) Available() int64 {
	return r.Quantity - r.Reserved
}

// InventoryUpdate is an immutable record of one mutation intent.
type InventoryUpdate struct {
	ID            string    `json:"id"`
	WarehouseID   string    `json:"warehouse_id"`
	ProductID     string    `json:"product_id"`
	Quantity      int64     `json:"quantity"`
	Operation     Operation `json:"operation"`
	Timestamp     time.Time `json:"timestamp"`
	TargetVersion int64     `json:"target_version"`
}

// Resolution tags how a conflict was settled.
type Resolution string

const (
	ResolutionAcceptedIncoming Resolution = "accepted_incoming"
	ResolutionKeptCurrent      Resolution = "kept_current"
)

// Conflict records a stale-version collision detected at a non-origin warehouse.
type Conflict struct {
	ID          string          `json:"id"`
	WarehouseID string          `json:"warehouse_id"`
	ProductID   string          `json:"product_id"`
	Incoming    InventoryUpdate `json:"incoming"`
	Current     InventoryRecord `json:"current"`
	DetectedAt  time.Time       `json:"detected_at"`
	Resolved    bool            `json:"resolved"`
	Resolution  Resolution      `json:"resolution"`
}

// WarehouseView is a point-in-time copy of a warehouse, safe to hand out.
type WarehouseView struct {
	ID        string                     `json:"id"`
	Location  Location                   `json:"location"`
	Status    WarehouseStatus            `json:"status"`
	Lag       int                        `json:"lag"`
	LastSync  time.Time                  `json:"last_sync"`
	Inventory map[string]InventoryRecord `json:"inventory"`
}

// WarehouseStock is one warehouse's share of a product's global inventory.
type WarehouseStock struct {
	WarehouseID string `json:"warehouse_id"`
	Quantity    int64  `json:"quantity"`
	Reserved    int64  `json:"reserved"`
	Available   int64  `json:"available"`
}

// GlobalInventory aggregates a product's stock across warehouses.
type GlobalInventory struct {
	ProductID      string           `json:"product_id"`
	TotalQuantity  int64            `json:"total_quantity"`
	TotalReserved  int64            `json:"total_reserved"`
	TotalAvailable int64            `json:"total_available"`
	Warehouses     []WarehouseStock `json:"warehouses"`
}

// Candidate is the warehouse chosen to fulfil an order line.
type Candidate struct {
	WarehouseID string   `json:"warehouse_id"`
	Location    Location `json:"location"`
	Available   int64    `json:"available"`
	// DistanceKm is the great-circle distance to the destination.
	DistanceKm float64 `json:"distance_km"`
}

// Outcome is the result of delivering an update to one target warehouse.
type Outcome string

const (
	OutcomeApplied  Outcome = "applied"
	OutcomeConflict Outcome = "conflict"
	OutcomeFailed   Outcome = "failed"
)

// PropagationResult is the settled outcome for one target of a fan-out.
type PropagationResult struct {
	WarehouseID string     `json:"warehouse_id"`
	Outcome     Outcome    `json:"outcome"`
	Resolution  Resolution `json:"resolution,omitempty"`
	Err         error      `json:"-"`
}

// WarehouseSyncState summarizes a warehouse inside SyncStatus.
type WarehouseSyncState struct {
	ID       string          `json:"id"`
	Status   WarehouseStatus `json:"status"`
	Lag      int             `json:"lag"`
	LastSync time.Time       `json:"last_sync"`
	Products int             `json:"products"`
}

// SyncStatus is the health summary of the reconciliation engine.
type SyncStatus struct {
	Warehouses          []WarehouseSyncState `json:"warehouses"`
	QueueLength         int                  `json:"queue_length"`
	Conflicts           int                  `json:"conflicts"`
	UnresolvedConflicts int                  `json:"unresolved_conflicts"`
	AvgLag              float64              `json:"avg_lag"`
	Healthy             bool                 `json:"healthy"`
}

// Snapshot is the full engine state used for persistence and archival.
type Snapshot struct {
	TakenAt    time.Time       `json:"taken_at"`
	Warehouses []WarehouseView `json:"warehouses"`
	Conflicts  []Conflict      `json:"conflicts"`
}
