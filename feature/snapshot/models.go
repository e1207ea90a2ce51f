package snapshot

import (
	"time"

	"warehouse-sync/core/reconcile"
)

// WarehouseRow persists one warehouse of the latest snapshot.
type WarehouseRow struct {
	ID        string     `gorm:"primaryKey;size:64"`
	Latitude  float64    `gorm:"not null"`
	Longitude float64    `gorm:"not null"`
	Label     string     `gorm:"size:255"`
	Status    string     `gorm:"size:16;not null"`
	Lag       int        `gorm:"not null"`
	LastSync  *time.Time // nil until the first sync
}

func (WarehouseRow) TableName() string { return "warehouses" }

// RecordRow persists one (warehouse, product) inventory record.
type RecordRow struct {
	WarehouseID string    `gorm:"primaryKey;size:64"`
	ProductID   string    `gorm:"primaryKey;size:128"`
	Quantity    int64     `gorm:"not null"`
	Reserved    int64     `gorm:"not null"`
	Version     int64     `gorm:"not null"`
	LastUpdated time.Time `gorm:"not null"`
}

func (RecordRow) TableName() string { return "inventory_records" }

// ConflictRow persists one entry of the conflict log.
type ConflictRow struct {
	ID          string                    `gorm:"primaryKey;size:64"`
	Seq         int                       `gorm:"not null;index"`
	WarehouseID string                    `gorm:"size:64;not null"`
	ProductID   string                    `gorm:"size:128;not null"`
	Incoming    reconcile.InventoryUpdate `gorm:"serializer:json"`
	Current     reconcile.InventoryRecord `gorm:"serializer:json"`
	DetectedAt  time.Time                 `gorm:"not null"`
	Resolved    bool                      `gorm:"not null"`
	Resolution  string                    `gorm:"size:32"`
}

func (ConflictRow) TableName() string { return "inventory_conflicts" }

// SnapshotRow records when a snapshot was saved and how large it was.
type SnapshotRow struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	TakenAt    time.Time `gorm:"not null;index" json:"taken_at"`
	Warehouses int       `gorm:"not null" json:"warehouses"`
	Records    int       `gorm:"not null" json:"records"`
	Conflicts  int       `gorm:"not null" json:"conflicts"`
}

func (SnapshotRow) TableName() string { return "inventory_snapshots" }

// Models lists every persisted model, in migration order.
func Models() []any {
	return []any{&WarehouseRow{}, &RecordRow{}, &ConflictRow{}, &SnapshotRow{}}
}
