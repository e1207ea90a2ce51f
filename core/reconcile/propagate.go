package reconcile

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// lane is a FIFO of updates sharing an (origin, product) key. One goroutine
// drains a lane at a time so targets see a key's versions in order.
type lane struct {
	queue   []InventoryUpdate
	running bool
}

func laneKey(u InventoryUpdate) string {
	return u.WarehouseID + "|" + u.ProductID
}

// enqueue records u in the sync queue and schedules its propagation.
// Callers hold the origin record lock.
func (e *Engine) enqueue(u InventoryUpdate) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.history = append(e.history, u)
	if e.closed {
		return
	}

	key := laneKey(u)
	l, ok := e.lanes[key]
	if !ok {
		l = &lane{}
		e.lanes[key] = l
	}
	l.queue = append(l.queue, u)
	e.inflight++
	if !l.running {
		l.running = true
		go e.drain(key)
	}
}

func (e *Engine) drain(key string) {
	for {
		e.mu.Lock()
		l := e.lanes[key]
		if len(l.queue) == 0 {
			l.running = false
			delete(e.lanes, key)
			e.mu.Unlock()
			return
		}
		u := l.queue[0]
		l.queue = l.queue[1:]
		e.mu.Unlock()

		e.Propagate(e.ctx, u)

		e.mu.Lock()
		e.inflight--
		e.mu.Unlock()
	}
}

// Propagate delivers u to every active warehouse except its origin and
// returns one settled result per target, sorted by warehouse ID. A failing
// target only increments its own lag; it never affects the others.
func (e *Engine) Propagate(ctx context.Context, u InventoryUpdate) []PropagationResult {
	start := time.Now()

	var targets []*warehouse
	for _, w := range e.registry.all() {
		if w.id == u.WarehouseID || !w.isActive() {
			continue
		}
		targets = append(targets, w)
	}

	results := make([]PropagationResult, len(targets))
	var g errgroup.Group
	g.SetLimit(e.cfg.maxParallel())
	for i, target := range targets {
		g.Go(func() error {
			results[i] = e.deliver(ctx, target, u)
			return nil
		})
	}
	_ = g.Wait()

	e.metrics.ObservePropagation(time.Since(start))
	return results
}

// Delivery states shared between deliver and its syncTarget goroutine.
const (
	deliveryPending int32 = iota
	deliveryCommitted
	deliveryAbandoned
)

// deliver runs syncTarget under the per-target timeout and books failures.
// A delivery that has begun mutating the target is always reported with its
// real outcome, even when the timeout fires while it finishes.
func (e *Engine) deliver(ctx context.Context, target *warehouse, u InventoryUpdate) PropagationResult {
	tctx, cancel := context.WithTimeout(ctx, e.cfg.PropagationTimeout())
	defer cancel()

	var state atomic.Int32
	commit := func() bool { return state.CompareAndSwap(deliveryPending, deliveryCommitted) }

	done := make(chan PropagationResult, 1)
	go func() {
		done <- e.syncTarget(tctx, target, u, commit)
	}()

	var res PropagationResult
	select {
	case res = <-done:
	case <-tctx.Done():
		if state.CompareAndSwap(deliveryPending, deliveryAbandoned) {
			res = PropagationResult{
				WarehouseID: target.id,
				Outcome:     OutcomeFailed,
				Err:         fmt.Errorf("deliver to %s: %w", target.id, tctx.Err()),
			}
		} else {
			res = <-done
		}
	}

	if res.Outcome == OutcomeFailed {
		lag := target.incLag()
		e.metrics.ObservePropagationFailure(target.id)
		e.metrics.SetLag(target.id, lag)
		e.logger.Warn("Propagation failed",
			zap.String("update_id", u.ID),
			zap.String("origin", u.WarehouseID),
			zap.String("target", target.id),
			zap.String("product_id", u.ProductID),
			zap.Int("lag", lag),
			zap.Error(res.Err))
		return res
	}

	target.touchSync(e.now())
	return res
}

// syncTarget applies u at target, or records and resolves a conflict when
// the target already holds a version at or past u.TargetVersion. commit is
// called under the record lock before any change; false means the caller
// has given up and nothing may be written.
func (e *Engine) syncTarget(ctx context.Context, target *warehouse, u InventoryUpdate, commit func() bool) PropagationResult {
	failed := func(err error) PropagationResult {
		return PropagationResult{WarehouseID: target.id, Outcome: OutcomeFailed, Err: err}
	}

	if e.probe != nil {
		if err := e.probe.Reach(ctx, target.id); err != nil {
			return failed(fmt.Errorf("target %s unreachable: %w", target.id, err))
		}
	}

	rec := target.record(u.ProductID)
	rec.mu.Lock()
	if err := ctx.Err(); err != nil {
		rec.mu.Unlock()
		return failed(err)
	}
	if !commit() {
		rec.mu.Unlock()
		return failed(context.DeadlineExceeded)
	}
	cur := rec.current()

	if cur.Version < u.TargetVersion {
		next, err := applyOperation(cur, u)
		if err != nil {
			rec.mu.Unlock()
			return failed(err)
		}
		rec.store(next)
		rec.mu.Unlock()

		e.bus.Publish(Event{Kind: EventUpdated, WarehouseID: target.id, Update: &u})
		return PropagationResult{WarehouseID: target.id, Outcome: OutcomeApplied}
	}

	c := Conflict{
		ID:          e.newID(),
		WarehouseID: target.id,
		ProductID:   u.ProductID,
		Incoming:    u,
		Current:     cur,
		DetectedAt:  e.now(),
		Resolution:  ResolutionKeptCurrent,
	}
	var applyErr error
	if u.Timestamp.After(cur.LastUpdated) {
		next, err := applyOperation(cur, u)
		if err == nil {
			// Version never moves backwards at the target.
			next.Version = max(cur.Version, u.TargetVersion)
			rec.store(next)
			c.Resolution = ResolutionAcceptedIncoming
		}
		applyErr = err
	}
	c.Resolved = true
	rec.mu.Unlock()

	e.recordConflict(c, applyErr)
	res := PropagationResult{WarehouseID: target.id, Outcome: OutcomeConflict, Resolution: c.Resolution}
	if c.Resolution == ResolutionAcceptedIncoming {
		e.bus.Publish(Event{Kind: EventUpdated, WarehouseID: target.id, Update: &u})
	}
	return res
}

func (e *Engine) recordConflict(c Conflict, applyErr error) {
	e.mu.Lock()
	e.conflicts = append(e.conflicts, c)
	e.mu.Unlock()

	e.metrics.ObserveConflict(c.Resolution)
	fields := []zap.Field{
		zap.String("conflict_id", c.ID),
		zap.String("warehouse_id", c.WarehouseID),
		zap.String("product_id", c.ProductID),
		zap.Int64("incoming_version", c.Incoming.TargetVersion),
		zap.Int64("current_version", c.Current.Version),
		zap.String("resolution", string(c.Resolution)),
	}
	if applyErr != nil {
		// Incoming won on timestamp but could not be applied (e.g. reserve over available).
		fields = append(fields, zap.NamedError("apply_error", applyErr))
	}
	e.logger.Info("Inventory conflict resolved", fields...)
	e.bus.Publish(Event{Kind: EventConflict, WarehouseID: c.WarehouseID, Conflict: &c})
}
