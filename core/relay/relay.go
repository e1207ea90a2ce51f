package relay

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"warehouse-sync/core/reconcile"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const publishTimeout = 2 * time.Second

// publisher is the slice of the redis client the relay needs.
type publisher interface {
	Publish(ctx context.Context, channel string, message any) *redis.IntCmd
}

// Relay forwards engine events to Redis pub/sub channels.
// Events are queued without blocking the engine and published by one goroutine,
// so per-channel publication order matches emission order.
type Relay struct {
	pub     publisher
	prefix  string
	logger  *zap.Logger
	events  chan reconcile.Event
	dropped atomic.Int64

	unsubs []func()
	wg     sync.WaitGroup
	once   sync.Once

	// mu orders enqueue against close(events).
	mu     sync.RWMutex
	closed bool
}

// NewClient builds a go-redis client from cfg and verifies connectivity.
func NewClient(ctx context.Context, cfg Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// New creates a relay publishing through pub. Call Attach to start forwarding.
func New(pub publisher, cfg Config, logger *zap.Logger) *Relay {
	if logger == nil {
		logger = zap.NewNop()
	}
	size := cfg.BufferSize
	if size <= 0 {
		size = 256
	}
	prefix := cfg.ChannelPrefix
	if prefix == "" {
		prefix = "warehouse-sync"
	}
	return &Relay{
		pub:    pub,
		prefix: prefix,
		logger: logger,
		events: make(chan reconcile.Event, size),
	}
}

// Channel returns the Redis channel an event kind is published on.
func (r *Relay) Channel(kind reconcile.EventKind) string {
	return r.prefix + ":" + string(kind)
}

// Dropped returns how many events were discarded because the buffer was full.
func (r *Relay) Dropped() int64 {
	return r.dropped.Load()
}

// Attach subscribes the relay to bus and starts the publishing goroutine.
func (r *Relay) Attach(bus *reconcile.Bus) {
	r.unsubs = append(r.unsubs,
		bus.Subscribe(reconcile.EventUpdated, r.enqueue),
		bus.Subscribe(reconcile.EventConflict, r.enqueue),
	)
	r.wg.Add(1)
	go r.run()
}

func (r *Relay) enqueue(ev reconcile.Event) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return
	}
	select {
	case r.events <- ev:
	default:
		n := r.dropped.Add(1)
		r.logger.Warn("Relay buffer full, dropping event",
			zap.String("kind", string(ev.Kind)),
			zap.String("warehouse", ev.WarehouseID),
			zap.Int64("dropped_total", n),
		)
	}
}

func (r *Relay) run() {
	defer r.wg.Done()
	for ev := range r.events {
		r.publish(ev)
	}
}

func (r *Relay) publish(ev reconcile.Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		r.logger.Error("Failed to encode event", zap.Error(err))
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	channel := r.Channel(ev.Kind)
	if err := r.pub.Publish(ctx, channel, payload).Err(); err != nil {
		r.logger.Warn("Failed to publish event",
			zap.String("channel", channel),
			zap.String("warehouse", ev.WarehouseID),
			zap.Error(err),
		)
	}
}

// Close unsubscribes from the bus and publishes what is still buffered.
// It returns early with ctx's error if draining takes too long.
func (r *Relay) Close(ctx context.Context) error {
	r.once.Do(func() {
		for _, unsub := range r.unsubs {
			unsub()
		}
		r.mu.Lock()
		r.closed = true
		close(r.events)
		r.mu.Unlock()
	})

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
