package reconcile

import (
	"sync"

	"go.uber.org/zap"
)

// EventKind names an event emitted by the engine.
type EventKind string

const (
	// EventUpdated fires after an update is applied to any warehouse.
	EventUpdated EventKind = "inventory:updated"
	// EventConflict fires after a version conflict is detected and resolved.
	EventConflict EventKind = "inventory:conflict"
)

// Event is delivered to subscribers. Exactly one of Update or Conflict is set.
type Event struct {
	Kind        EventKind        `json:"kind"`
	WarehouseID string           `json:"warehouse_id"`
	Update      *InventoryUpdate `json:"update,omitempty"`
	Conflict    *Conflict        `json:"conflict,omitempty"`
}

// Handler receives engine events. Handlers run synchronously on the
// goroutine that produced the event and must not block for long.
type Handler func(Event)

// Bus is a small observer list keyed by event kind.
type Bus struct {
	mu       sync.RWMutex
	nextID   int
	handlers map[EventKind]map[int]Handler
	logger   *zap.Logger
}

// NewBus creates an empty bus. A nil logger is replaced by a no-op logger.
func NewBus(logger *zap.Logger) *Bus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bus{
		handlers: make(map[EventKind]map[int]Handler),
		logger:   logger,
	}
}

// Subscribe registers h for kind and returns a function that removes it.
func (b *Bus) Subscribe(kind EventKind, h Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	if b.handlers[kind] == nil {
		b.handlers[kind] = make(map[int]Handler)
	}
	b.handlers[kind][id] = h

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.handlers[kind], id)
			b.mu.Unlock()
		})
	}
}

// Publish delivers ev to every subscriber of its kind. A panicking handler
// is logged and does not stop delivery to the others.
func (b *Bus) Publish(ev Event) {
	b.mu.RLock()
	hs := make([]Handler, 0, len(b.handlers[ev.Kind]))
	for _, h := range b.handlers[ev.Kind] {
		hs = append(hs, h)
	}
	b.mu.RUnlock()

	for _, h := range hs {
		b.deliver(h, ev)
	}
}

func (b *Bus) deliver(h Handler, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("Event handler panicked",
				zap.String("kind", string(ev.Kind)),
				zap.Any("panic", r))
		}
	}()
	h(ev)
}
