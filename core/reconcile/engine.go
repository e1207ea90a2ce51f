package reconcile

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Metrics receives engine telemetry. Implementations must be safe for
// concurrent use.
type Metrics interface {
	ObserveUpdate(op Operation)
	ObserveConflict(res Resolution)
	ObservePropagation(d time.Duration)
	ObservePropagationFailure(warehouseID string)
	SetLag(warehouseID string, lag int)
}

type nopMetrics struct{}

func (nopMetrics) ObserveUpdate(Operation) {}
func (nopMetrics) ObserveConflict(Resolution) {}
func (nopMetrics) ObservePropagation(time.Duration) {}
func (nopMetrics) ObservePropagationFailure(string) {}
func (nopMetrics) SetLag(string, int) {}

// Probe checks that a target warehouse is reachable before an update is
// delivered to it. A returned error counts as a propagation failure.
type Probe interface {
	Reach(ctx context.Context, warehouseID string) error
}

// ProbeFunc adapts a function to the Probe interface.
type ProbeFunc func(ctx context.Context, warehouseID string) error

// Reach calls f.
func (f ProbeFunc) Reach(ctx context.Context, warehouseID string) error {
	return f(ctx, warehouseID)
}

// Option customizes an Engine.
type Option func(*Engine)

// WithClock overrides the wall clock used to stamp updates and conflicts.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithMetrics installs a telemetry sink.
func WithMetrics(m Metrics) Option {
	return func(e *Engine) {
		if m != nil {
			e.metrics = m
		}
	}
}

// WithProbe installs a reachability check run before each target delivery.
func WithProbe(p Probe) Option {
	return func(e *Engine) { e.probe = p }
}

// WithIDGenerator overrides the generator for update and conflict IDs.
func WithIDGenerator(gen func() string) Option {
	return func(e *Engine) { e.newID = gen }
}

// Engine is the inventory reconciliation engine. It owns the warehouse
// registry, the sync queue and the conflict log.
type Engine struct {
	registry *Registry
	bus      *Bus
	cfg      Config
	logger   *zap.Logger
	metrics  Metrics
	probe    Probe
	now      func() time.Time
	newID    func() string

	ctx    context.Context
	cancel context.CancelFunc

	mu        sync.Mutex
	history   []InventoryUpdate
	conflicts []Conflict
	lanes     map[string]*lane
	inflight  int
	closed    bool
}

// NewEngine creates an engine with an empty registry.
func NewEngine(cfg Config, logger *zap.Logger, opts ...Option) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	e := &Engine{
		registry: NewRegistry(),
		bus:      NewBus(logger),
		cfg:      cfg,
		logger:   logger,
		metrics:  nopMetrics{},
		now:      time.Now,
		newID:    func() string { return uuid.NewString() },
		ctx:      ctx,
		cancel:   cancel,
		lanes:    make(map[string]*lane),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Registry exposes the warehouse registry.
func (e *Engine) Registry() *Registry { return e.registry }

// Bus exposes the event bus for subscribers.
func (e *Engine) Bus() *Bus { return e.bus }

// RegisterWarehouse adds a warehouse to the registry.
func (e *Engine) RegisterWarehouse(id string, loc Location) error {
	if err := e.registry.RegisterWarehouse(id, loc); err != nil {
		return err
	}
	e.logger.Info("Warehouse registered", zap.String("warehouse_id", id), zap.String("location", loc.Label))
	return nil
}

// UpdateInventory applies op to the origin warehouse, assigns the next
// version and queues the update for propagation to the other warehouses.
// Propagation runs in the background; use Flush to wait for it.
func (e *Engine) UpdateInventory(ctx context.Context, warehouseID, productID string, quantity int64, op Operation) (InventoryUpdate, error) {
	updates, err := e.apply(ctx, warehouseID, productID, quantity, op)
	if err != nil {
		return InventoryUpdate{}, err
	}
	return updates[0], nil
}

// ReserveInventory holds quantity units for an order.
func (e *Engine) ReserveInventory(ctx context.Context, warehouseID, productID string, quantity int64) (InventoryUpdate, error) {
	return e.UpdateInventory(ctx, warehouseID, productID, quantity, OpReserve)
}

// ReleaseInventory returns quantity held units to available stock.
func (e *Engine) ReleaseInventory(ctx context.Context, warehouseID, productID string, quantity int64) (InventoryUpdate, error) {
	return e.UpdateInventory(ctx, warehouseID, productID, quantity, OpRelease)
}

// CommitReservation turns a reservation into a permanent deduction by
// releasing the held units and subtracting them from on-hand stock.
// Both steps land under one record lock with consecutive versions, so no
// other update can observe or act on the released units.
func (e *Engine) CommitReservation(ctx context.Context, warehouseID, productID string, quantity int64) error {
	if _, err := e.apply(ctx, warehouseID, productID, quantity, OpRelease, OpSubtract); err != nil {
		return fmt.Errorf("commit reservation: %w", err)
	}
	return nil
}

// apply runs ops in order against one record while holding its lock. Either
// every op is stored and queued or none is.
func (e *Engine) apply(ctx context.Context, warehouseID, productID string, quantity int64, ops ...Operation) ([]InventoryUpdate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for _, op := range ops {
		if err := validateUpdate(productID, quantity, op); err != nil {
			return nil, err
		}
	}
	w, err := e.registry.get(warehouseID)
	if err != nil {
		return nil, err
	}

	rec := w.record(productID)
	rec.mu.Lock()
	cur := rec.current()
	updates := make([]InventoryUpdate, 0, len(ops))
	for _, op := range ops {
		u := InventoryUpdate{
			ID:            e.newID(),
			WarehouseID:   warehouseID,
			ProductID:     productID,
			Quantity:      quantity,
			Operation:     op,
			Timestamp:     e.now(),
			TargetVersion: cur.Version + 1,
		}
		next, err := applyOperation(cur, u)
		if err != nil {
			rec.mu.Unlock()
			return nil, fmt.Errorf("%s at %s: %w", op, warehouseID, err)
		}
		cur = next
		updates = append(updates, u)
	}
	rec.store(cur)
	// Enqueued under the record lock so lanes see versions in assignment order.
	for _, u := range updates {
		e.enqueue(u)
	}
	rec.mu.Unlock()

	for i := range updates {
		u := updates[i]
		w.touchSync(u.Timestamp)
		e.metrics.ObserveUpdate(u.Operation)
		e.logger.Debug("Inventory updated",
			zap.String("warehouse_id", warehouseID),
			zap.String("product_id", productID),
			zap.String("operation", string(u.Operation)),
			zap.Int64("quantity", quantity),
			zap.Int64("version", u.TargetVersion))
		e.bus.Publish(Event{Kind: EventUpdated, WarehouseID: warehouseID, Update: &u})
	}
	return updates, nil
}

// GetWarehouse returns a copy of one warehouse.
func (e *Engine) GetWarehouse(id string) (WarehouseView, error) {
	return e.registry.GetWarehouse(id)
}

// ListWarehouses returns copies of all warehouses sorted by ID.
func (e *Engine) ListWarehouses() []WarehouseView {
	return e.registry.ListWarehouses()
}

// SetWarehouseStatus activates or deactivates a warehouse.
func (e *Engine) SetWarehouseStatus(id string, status WarehouseStatus) error {
	if err := e.registry.SetWarehouseStatus(id, status); err != nil {
		return err
	}
	e.logger.Info("Warehouse status changed", zap.String("warehouse_id", id), zap.String("status", string(status)))
	return nil
}

// GetGlobalInventory aggregates a product across warehouses.
func (e *Engine) GetGlobalInventory(productID string) GlobalInventory {
	return e.registry.GetGlobalInventory(productID)
}

// FindOptimalWarehouse selects the warehouse to fulfil an order line.
func (e *Engine) FindOptimalWarehouse(productID string, quantity int64, destination Location) (*Candidate, bool) {
	return e.registry.FindOptimalWarehouse(productID, quantity, destination)
}

// Conflicts returns a copy of the conflict log in detection order.
func (e *Engine) Conflicts() []Conflict {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Conflict, len(e.conflicts))
	copy(out, e.conflicts)
	return out
}

// SyncQueue returns a copy of every update queued for propagation, oldest first.
func (e *Engine) SyncQueue() []InventoryUpdate {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]InventoryUpdate, len(e.history))
	copy(out, e.history)
	return out
}

// GetSyncStatus reports lag, queue depth and conflict counts.
func (e *Engine) GetSyncStatus() SyncStatus {
	views := e.registry.ListWarehouses()

	status := SyncStatus{Warehouses: make([]WarehouseSyncState, 0, len(views))}
	total := 0
	for _, v := range views {
		status.Warehouses = append(status.Warehouses, WarehouseSyncState{
			ID:       v.ID,
			Status:   v.Status,
			Lag:      v.Lag,
			LastSync: v.LastSync,
			Products: len(v.Inventory),
		})
		total += v.Lag
	}
	if len(views) > 0 {
		status.AvgLag = float64(total) / float64(len(views))
	}

	e.mu.Lock()
	status.QueueLength = e.inflight
	status.Conflicts = len(e.conflicts)
	for _, c := range e.conflicts {
		if !c.Resolved {
			status.UnresolvedConflicts++
		}
	}
	e.mu.Unlock()

	status.Healthy = status.UnresolvedConflicts == 0 && status.AvgLag < e.cfg.healthyLag()
	return status
}

// Snapshot captures all warehouses and the conflict log.
func (e *Engine) Snapshot() Snapshot {
	return Snapshot{
		TakenAt:    e.now(),
		Warehouses: e.registry.ListWarehouses(),
		Conflicts:  e.Conflicts(),
	}
}

// Restore replaces the registry and conflict log with the snapshot content.
// It must not run concurrently with updates.
func (e *Engine) Restore(s Snapshot) error {
	if err := e.registry.replace(s.Warehouses); err != nil {
		return fmt.Errorf("restore snapshot: %w", err)
	}
	e.mu.Lock()
	e.conflicts = append([]Conflict(nil), s.Conflicts...)
	e.mu.Unlock()

	e.logger.Info("Snapshot restored",
		zap.Int("warehouses", len(s.Warehouses)),
		zap.Int("conflicts", len(s.Conflicts)),
		zap.Time("taken_at", s.TakenAt))
	return nil
}

// Flush blocks until every queued propagation has settled or ctx is done.
func (e *Engine) Flush(ctx context.Context) error {
	ticker := time.NewTicker(5 * time.Millisecond)
	defer ticker.Stop()
	for {
		e.mu.Lock()
		n := e.inflight
		e.mu.Unlock()
		if n == 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("flush with %d pending propagations: %w", n, ctx.Err())
		case <-ticker.C:
		}
	}
}

// Shutdown stops queueing new propagations, waits for pending ones until
// ctx is done, then cancels whatever is still in flight.
func (e *Engine) Shutdown(ctx context.Context) error {
	e.mu.Lock()
	e.closed = true
	e.mu.Unlock()

	err := e.Flush(ctx)
	e.cancel()
	return err
}

func validateUpdate(productID string, quantity int64, op Operation) error {
	if productID == "" {
		return fmt.Errorf("%w: product id is required", ErrInvalidInput)
	}
	if !op.Valid() {
		return fmt.Errorf("%w: unknown operation %q", ErrInvalidInput, op)
	}
	if op != OpSet && quantity < 0 {
		return fmt.Errorf("%w: quantity must not be negative", ErrInvalidInput)
	}
	return nil
}
