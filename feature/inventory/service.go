package inventory

import (
	"context"
	"fmt"

	"warehouse-sync/core/reconcile"

	"go.uber.org/zap"
)

// Service exposes the sync engine to the HTTP layer.
type Service struct {
	engine *reconcile.Engine
	logger *zap.Logger
}

// NewService creates a new inventory service.
func NewService(engine *reconcile.Engine, logger *zap.Logger) *Service {
	return &Service{engine: engine, logger: logger}
}

// RegisterWarehouse adds a warehouse and returns its initial view.
func (s *Service) RegisterWarehouse(req RegisterWarehouseRequest) (reconcile.WarehouseView, error) {
	if err := s.engine.RegisterWarehouse(req.ID, req.Location); err != nil {
		return reconcile.WarehouseView{}, err
	}
	return s.engine.GetWarehouse(req.ID)
}

// ListWarehouses returns every warehouse sorted by ID.
func (s *Service) ListWarehouses() []reconcile.WarehouseView {
	return s.engine.ListWarehouses()
}

// GetWarehouse returns one warehouse.
func (s *Service) GetWarehouse(id string) (reconcile.WarehouseView, error) {
	return s.engine.GetWarehouse(id)
}

// SetStatus toggles a warehouse between active and inactive.
func (s *Service) SetStatus(id string, status reconcile.WarehouseStatus) (reconcile.WarehouseView, error) {
	if err := s.engine.SetWarehouseStatus(id, status); err != nil {
		return reconcile.WarehouseView{}, err
	}
	return s.engine.GetWarehouse(id)
}

// Update applies an operation at the origin warehouse.
// Quantities from clients must be non-negative, including for set.
func (s *Service) Update(ctx context.Context, warehouseID, productID string, req UpdateRequest) (UpdateResponse, error) {
	if req.Quantity < 0 {
		return UpdateResponse{}, fmt.Errorf("quantity must not be negative: %w", reconcile.ErrInvalidInput)
	}
	u, err := s.engine.UpdateInventory(ctx, warehouseID, productID, req.Quantity, req.Operation)
	if err != nil {
		return UpdateResponse{}, err
	}
	return s.respond(u)
}

// Reserve holds stock at a warehouse.
func (s *Service) Reserve(ctx context.Context, warehouseID, productID string, quantity int64) (UpdateResponse, error) {
	return s.Update(ctx, warehouseID, productID, UpdateRequest{Quantity: quantity, Operation: reconcile.OpReserve})
}

// Release returns held stock at a warehouse.
func (s *Service) Release(ctx context.Context, warehouseID, productID string, quantity int64) (UpdateResponse, error) {
	return s.Update(ctx, warehouseID, productID, UpdateRequest{Quantity: quantity, Operation: reconcile.OpRelease})
}

// Commit converts a reservation into a deduction and returns the resulting record.
func (s *Service) Commit(ctx context.Context, warehouseID, productID string, quantity int64) (reconcile.InventoryRecord, error) {
	if quantity < 0 {
		return reconcile.InventoryRecord{}, fmt.Errorf("quantity must not be negative: %w", reconcile.ErrInvalidInput)
	}
	if err := s.engine.CommitReservation(ctx, warehouseID, productID, quantity); err != nil {
		return reconcile.InventoryRecord{}, err
	}
	return s.record(warehouseID, productID)
}

// Global aggregates a product across all warehouses.
func (s *Service) Global(productID string) reconcile.GlobalInventory {
	return s.engine.GetGlobalInventory(productID)
}

// Fulfillment picks the warehouse that should ship an order line.
func (s *Service) Fulfillment(productID string, quantity int64, destination reconcile.Location) (*reconcile.Candidate, bool) {
	return s.engine.FindOptimalWarehouse(productID, quantity, destination)
}

// SyncStatus reports lag, queue depth and health.
func (s *Service) SyncStatus() reconcile.SyncStatus {
	return s.engine.GetSyncStatus()
}

// Conflicts returns the newest conflicts first, at most limit when positive.
func (s *Service) Conflicts(limit int) []reconcile.Conflict {
	all := s.engine.Conflicts()
	out := make([]reconcile.Conflict, 0, len(all))
	for i := len(all) - 1; i >= 0; i-- {
		if limit > 0 && len(out) == limit {
			break
		}
		out = append(out, all[i])
	}
	return out
}

func (s *Service) respond(u reconcile.InventoryUpdate) (UpdateResponse, error) {
	rec, err := s.record(u.WarehouseID, u.ProductID)
	if err != nil {
		return UpdateResponse{}, err
	}
	return UpdateResponse{Update: u, Record: rec}, nil
}

func (s *Service) record(warehouseID, productID string) (reconcile.InventoryRecord, error) {
	w, err := s.engine.GetWarehouse(warehouseID)
	if err != nil {
		return reconcile.InventoryRecord{}, err
	}
	return w.Inventory[productID], nil
}
