package reconcile

import (
	"fmt"
	"sort"
	"sync"
	"time"
)

// record guards the stock state of one (warehouse, product) key.
// Every mutation of state happens with mu held.
type record struct {
	mu sync.Mutex
	// present is false until the first update lands, so a rejected reserve
	// against an unknown product leaves no trace in reads.
	present bool
	state   InventoryRecord
}

func (r *record) current() InventoryRecord {
	if !r.present {
		return InventoryRecord{}
	}
	return r.state
}

func (r *record) store(next InventoryRecord) {
	r.state = next
	r.present = true
}

// snapshot reads the record under its lock.
func (r *record) snapshot() (InventoryRecord, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state, r.present
}

type warehouse struct {
	id       string
	location Location

	mu        sync.Mutex
	status    WarehouseStatus
	lag       int
	lastSync  time.Time
	inventory map[string]*record
}

func newWarehouse(id string, loc Location) *warehouse {
	return &warehouse{
		id:        id,
		location:  loc,
		status:    StatusActive,
		inventory: make(map[string]*record),
	}
}

// record returns the record for productID, creating an empty one on first use.
func (w *warehouse) record(productID string) *record {
	w.mu.Lock()
	defer w.mu.Unlock()
	rec, ok := w.inventory[productID]
	if !ok {
		rec = &record{}
		w.inventory[productID] = rec
	}
	return rec
}

// lookup returns the record for productID without creating it.
func (w *warehouse) lookup(productID string) (*record, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	rec, ok := w.inventory[productID]
	return rec, ok
}

func (w *warehouse) isActive() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.status == StatusActive
}

func (w *warehouse) incLag() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.lag++
	return w.lag
}

func (w *warehouse) touchSync(at time.Time) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if at.After(w.lastSync) {
		w.lastSync = at
	}
}

func (w *warehouse) view() WarehouseView {
	w.mu.Lock()
	recs := make(map[string]*record, len(w.inventory))
	for id, rec := range w.inventory {
		recs[id] = rec
	}
	v := WarehouseView{
		ID:       w.id,
		Location: w.location,
		Status:   w.status,
		Lag:      w.lag,
		LastSync: w.lastSync,
	}
	w.mu.Unlock()

	// Record locks are never taken while holding w.mu.
	v.Inventory = make(map[string]InventoryRecord, len(recs))
	for id, rec := range recs {
		if state, ok := rec.snapshot(); ok {
			v.Inventory[id] = state
		}
	}
	return v
}

// Registry holds the known warehouses and their inventory state.
type Registry struct {
	mu         sync.RWMutex
	warehouses map[string]*warehouse
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{warehouses: make(map[string]*warehouse)}
}

// RegisterWarehouse adds a new active warehouse with empty inventory.
func (r *Registry) RegisterWarehouse(id string, loc Location) error {
	if id == "" {
		return fmt.Errorf("%w: warehouse id is required", ErrInvalidInput)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.warehouses[id]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateWarehouse, id)
	}
	r.warehouses[id] = newWarehouse(id, loc)
	return nil
}

// GetWarehouse returns a copy of the warehouse state.
func (r *Registry) GetWarehouse(id string) (WarehouseView, error) {
	w, err := r.get(id)
	if err != nil {
		return WarehouseView{}, err
	}
	return w.view(), nil
}

// ListWarehouses returns copies of all warehouses sorted by ID.
func (r *Registry) ListWarehouses() []WarehouseView {
	all := r.all()
	views := make([]WarehouseView, 0, len(all))
	for _, w := range all {
		views = append(views, w.view())
	}
	return views
}

// SetWarehouseStatus flips a warehouse between active and inactive.
func (r *Registry) SetWarehouseStatus(id string, status WarehouseStatus) error {
	if status != StatusActive && status != StatusInactive {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidInput, status)
	}
	w, err := r.get(id)
	if err != nil {
		return err
	}
	w.mu.Lock()
	w.status = status
	w.mu.Unlock()
	return nil
}

// GetGlobalInventory sums a product's stock over the warehouses that hold a
// record for it. Warehouses without a record are left out, not counted as zero.
func (r *Registry) GetGlobalInventory(productID string) GlobalInventory {
	out := GlobalInventory{ProductID: productID, Warehouses: []WarehouseStock{}}
	for _, w := range r.all() {
		rec, ok := w.lookup(productID)
		if !ok {
			continue
		}
		state, present := rec.snapshot()
		if !present {
			continue
		}
		out.TotalQuantity += state.Quantity
		out.TotalReserved += state.Reserved
		out.Warehouses = append(out.Warehouses, WarehouseStock{
			WarehouseID: w.id,
			Quantity:    state.Quantity,
			Reserved:    state.Reserved,
			Available:   state.Available(),
		})
	}
	out.TotalAvailable = out.TotalQuantity - out.TotalReserved
	return out
}

func (r *Registry) get(id string) (*warehouse, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	w, ok := r.warehouses[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrWarehouseNotFound, id)
	}
	return w, nil
}

// all returns every warehouse sorted by ID for deterministic iteration.
func (r *Registry) all() []*warehouse {
	r.mu.RLock()
	list := make([]*warehouse, 0, len(r.warehouses))
	for _, w := range r.warehouses {
		list = append(list, w)
	}
	r.mu.RUnlock()

	sort.Slice(list, func(i, j int) bool {
		return list[i].id < list[j].id
	})
	return list
}

// replace swaps the registry content for the given warehouses.
func (r *Registry) replace(views []WarehouseView) error {
	next := make(map[string]*warehouse, len(views))
	for _, v := range views {
		if v.ID == "" {
			return fmt.Errorf("%w: warehouse id is required", ErrInvalidInput)
		}
		if _, dup := next[v.ID]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateWarehouse, v.ID)
		}
		w := newWarehouse(v.ID, v.Location)
		if v.Status != "" {
			w.status = v.Status
		}
		w.lag = v.Lag
		w.lastSync = v.LastSync
		for productID, state := range v.Inventory {
			rec := &record{}
			rec.store(state)
			w.inventory[productID] = rec
		}
		next[v.ID] = w
	}

	r.mu.Lock()
	r.warehouses = next
	r.mu.Unlock()
	return nil
}
