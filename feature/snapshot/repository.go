package snapshot

import (
	"context"
	"fmt"
	"sort"
	"time"

	"warehouse-sync/core/reconcile"

	"gorm.io/gorm"
)

const insertBatchSize = 500

// Repository stores the latest engine snapshot in the relational database.
// Each Save replaces the previous state tables and appends a SnapshotRow.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a repository on db.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Migrate creates or updates the snapshot tables.
func (r *Repository) Migrate(ctx context.Context) error {
	if err := r.db.WithContext(ctx).AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("migrate snapshot tables: %w", err)
	}
	return nil
}

// Save replaces the persisted state with s in one transaction.
func (r *Repository) Save(ctx context.Context, s reconcile.Snapshot) (SnapshotRow, error) {
	warehouses, records, conflicts := toRows(s)
	meta := SnapshotRow{
		TakenAt:    s.TakenAt.UTC(),
		Warehouses: len(warehouses),
		Records:    len(records),
		Conflicts:  len(conflicts),
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range []any{&RecordRow{}, &ConflictRow{}, &WarehouseRow{}} {
			if err := tx.Where("1 = 1").Delete(model).Error; err != nil {
				return fmt.Errorf("clear %T: %w", model, err)
			}
		}
		if len(warehouses) > 0 {
			if err := tx.CreateInBatches(warehouses, insertBatchSize).Error; err != nil {
				return fmt.Errorf("insert warehouses: %w", err)
			}
		}
		if len(records) > 0 {
			if err := tx.CreateInBatches(records, insertBatchSize).Error; err != nil {
				return fmt.Errorf("insert records: %w", err)
			}
		}
		if len(conflicts) > 0 {
			if err := tx.CreateInBatches(conflicts, insertBatchSize).Error; err != nil {
				return fmt.Errorf("insert conflicts: %w", err)
			}
		}
		return tx.Create(&meta).Error
	})
	if err != nil {
		return SnapshotRow{}, fmt.Errorf("save snapshot: %w", err)
	}
	return meta, nil
}

// Latest returns metadata of the most recent save, false when none exists.
func (r *Repository) Latest(ctx context.Context) (SnapshotRow, bool, error) {
	var metas []SnapshotRow
	if err := r.db.WithContext(ctx).Order("id DESC").Limit(1).Find(&metas).Error; err != nil {
		return SnapshotRow{}, false, fmt.Errorf("load snapshot metadata: %w", err)
	}
	if len(metas) == 0 {
		return SnapshotRow{}, false, nil
	}
	return metas[0], true, nil
}

// Load reads the persisted snapshot, false when nothing was saved yet.
func (r *Repository) Load(ctx context.Context) (reconcile.Snapshot, bool, error) {
	meta, ok, err := r.Latest(ctx)
	if err != nil || !ok {
		return reconcile.Snapshot{}, ok, err
	}

	db := r.db.WithContext(ctx)
	var warehouses []WarehouseRow
	if err := db.Order("id").Find(&warehouses).Error; err != nil {
		return reconcile.Snapshot{}, false, fmt.Errorf("load warehouses: %w", err)
	}
	var records []RecordRow
	if err := db.Find(&records).Error; err != nil {
		return reconcile.Snapshot{}, false, fmt.Errorf("load records: %w", err)
	}
	var conflicts []ConflictRow
	if err := db.Order("seq").Find(&conflicts).Error; err != nil {
		return reconcile.Snapshot{}, false, fmt.Errorf("load conflicts: %w", err)
	}
	return fromRows(meta.TakenAt, warehouses, records, conflicts), true, nil
}

func toRows(s reconcile.Snapshot) ([]WarehouseRow, []RecordRow, []ConflictRow) {
	warehouses := make([]WarehouseRow, 0, len(s.Warehouses))
	var records []RecordRow
	for _, w := range s.Warehouses {
		row := WarehouseRow{
			ID:        w.ID,
			Latitude:  w.Location.Latitude,
			Longitude: w.Location.Longitude,
			Label:     w.Location.Label,
			Status:    string(w.Status),
			Lag:       w.Lag,
		}
		if !w.LastSync.IsZero() {
			ls := w.LastSync.UTC()
			row.LastSync = &ls
		}
		warehouses = append(warehouses, row)

		products := make([]string, 0, len(w.Inventory))
		for p := range w.Inventory {
			products = append(products, p)
		}
		sort.Strings(products)
		for _, p := range products {
			rec := w.Inventory[p]
			records = append(records, RecordRow{
				WarehouseID: w.ID,
				ProductID:   p,
				Quantity:    rec.Quantity,
				Reserved:    rec.Reserved,
				Version:     rec.Version,
				LastUpdated: rec.LastUpdated.UTC(),
			})
		}
	}

	conflicts := make([]ConflictRow, 0, len(s.Conflicts))
	for i, c := range s.Conflicts {
		conflicts = append(conflicts, ConflictRow{
			ID:          c.ID,
			Seq:         i,
			WarehouseID: c.WarehouseID,
			ProductID:   c.ProductID,
			Incoming:    c.Incoming,
			Current:     c.Current,
			DetectedAt:  c.DetectedAt.UTC(),
			Resolved:    c.Resolved,
			Resolution:  string(c.Resolution),
		})
	}
	return warehouses, records, conflicts
}

func fromRows(takenAt time.Time, warehouses []WarehouseRow, records []RecordRow, conflicts []ConflictRow) reconcile.Snapshot {
	byWarehouse := make(map[string]map[string]reconcile.InventoryRecord, len(warehouses))
	for _, rec := range records {
		inv := byWarehouse[rec.WarehouseID]
		if inv == nil {
			inv = make(map[string]reconcile.InventoryRecord)
			byWarehouse[rec.WarehouseID] = inv
		}
		inv[rec.ProductID] = reconcile.InventoryRecord{
			Quantity:    rec.Quantity,
			Reserved:    rec.Reserved,
			Version:     rec.Version,
			LastUpdated: rec.LastUpdated,
		}
	}

	s := reconcile.Snapshot{
		TakenAt:    takenAt,
		Warehouses: make([]reconcile.WarehouseView, 0, len(warehouses)),
		Conflicts:  make([]reconcile.Conflict, 0, len(conflicts)),
	}
	for _, w := range warehouses {
		view := reconcile.WarehouseView{
			ID:        w.ID,
			Location:  reconcile.Location{Latitude: w.Latitude, Longitude: w.Longitude, Label: w.Label},
			Status:    reconcile.WarehouseStatus(w.Status),
			Lag:       w.Lag,
			Inventory: byWarehouse[w.ID],
		}
		if view.Inventory == nil {
			view.Inventory = make(map[string]reconcile.InventoryRecord)
		}
		if w.LastSync != nil {
			view.LastSync = *w.LastSync
		}
		s.Warehouses = append(s.Warehouses, view)
	}
	for _, c := range conflicts {
		s.Conflicts = append(s.Conflicts, reconcile.Conflict{
			ID:          c.ID,
			WarehouseID: c.WarehouseID,
			ProductID:   c.ProductID,
			Incoming:    c.Incoming,
			Current:     c.Current,
			DetectedAt:  c.DetectedAt,
			Resolved:    c.Resolved,
			Resolution:  reconcile.Resolution(c.Resolution),
		})
	}
	return s
}
