package reconcile

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setUpdate(origin string, version int64, qty int64, ts time.Time) InventoryUpdate {
	return InventoryUpdate{
		ID:            fmt.Sprintf("%s-v%d", origin, version),
		WarehouseID:   origin,
		ProductID:     "sku1",
		Quantity:      qty,
		Operation:     OpSet,
		Timestamp:     ts,
		TargetVersion: version,
	}
}

func TestPropagate_OutOfOrderKeepsLaterTimestamp(t *testing.T) {
	e := newTestEngine(t)
	require.NoError(t, e.RegisterWarehouse("A", Location{}))
	require.NoError(t, e.RegisterWarehouse("C", Location{}))

	t1 := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Second)
	older := setUpdate("A", 1, 10, t1)
	newer := setUpdate("A", 2, 20, t2)

	res := e.Propagate(context.Background(), newer)
	require.Len(t, res, 1)
	assert.Equal(t, OutcomeApplied, res[0].Outcome)

	res = e.Propagate(context.Background(), older)
	require.Len(t, res, 1)
	assert.Equal(t, OutcomeConflict, res[0].Outcome)
	assert.Equal(t, ResolutionKeptCurrent, res[0].Resolution)

	rec := recordOf(t, e, "C", "sku1")
	assert.Equal(t, int64(20), rec.Quantity)
	assert.Equal(t, int64(2), rec.Version)

	conflicts := e.Conflicts()
	require.Len(t, conflicts, 1)
	assert.True(t, conflicts[0].Resolved)
	assert.Equal(t, "C", conflicts[0].WarehouseID)
	assert.Equal(t, older, conflicts[0].Incoming)
	assert.Equal(t, int64(2), conflicts[0].Current.Version)
}

func TestPropagate_LaterTimestampWinsEvenWithLowerVersion(t *testing.T) {
	e := newTestEngine(t)
	require.NoError(t, e.RegisterWarehouse("A", Location{}))
	require.NoError(t, e.RegisterWarehouse("C", Location{}))

	t1 := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Second)
	lowVersionLate := setUpdate("A", 1, 10, t2)
	highVersionEarly := setUpdate("A", 2, 20, t1)

	e.Propagate(context.Background(), highVersionEarly)
	res := e.Propagate(context.Background(), lowVersionLate)
	require.Len(t, res, 1)
	assert.Equal(t, ResolutionAcceptedIncoming, res[0].Resolution)

	rec := recordOf(t, e, "C", "sku1")
	assert.Equal(t, int64(10), rec.Quantity)
	assert.Equal(t, int64(2), rec.Version, "version never decreases")
	assert.Equal(t, t2, rec.LastUpdated)

	conflicts := e.Conflicts()
	require.Len(t, conflicts, 1)
	assert.Equal(t, ResolutionAcceptedIncoming, conflicts[0].Resolution)
	assert.Equal(t, 0, e.GetSyncStatus().UnresolvedConflicts)
}

func TestPropagate_EqualTimestampKeepsCurrent(t *testing.T) {
	e := newTestEngine(t)
	require.NoError(t, e.RegisterWarehouse("A", Location{}))
	require.NoError(t, e.RegisterWarehouse("C", Location{}))

	ts := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	e.Propagate(context.Background(), setUpdate("A", 1, 7, ts))
	res := e.Propagate(context.Background(), setUpdate("A", 1, 99, ts))

	assert.Equal(t, ResolutionKeptCurrent, res[0].Resolution)
	assert.Equal(t, int64(7), recordOf(t, e, "C", "sku1").Quantity)
}

func TestPropagate_ConflictEventCarriesResolution(t *testing.T) {
	e := newTestEngine(t)
	require.NoError(t, e.RegisterWarehouse("A", Location{}))
	require.NoError(t, e.RegisterWarehouse("C", Location{}))

	var got []Conflict
	e.Bus().Subscribe(EventConflict, func(ev Event) {
		got = append(got, *ev.Conflict)
	})

	ts := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	e.Propagate(context.Background(), setUpdate("A", 2, 1, ts))
	e.Propagate(context.Background(), setUpdate("A", 1, 1, ts.Add(-time.Second)))

	require.Len(t, got, 1)
	assert.Equal(t, ResolutionKeptCurrent, got[0].Resolution)
	assert.True(t, got[0].Resolved)
}

func TestPropagate_FailureIsIsolatedPerTarget(t *testing.T) {
	probe := ProbeFunc(func(ctx context.Context, id string) error {
		if id == "B" {
			return errors.New("connection refused")
		}
		return nil
	})
	e := newTestEngine(t, WithProbe(probe))
	require.NoError(t, e.RegisterWarehouse("A", Location{}))
	require.NoError(t, e.RegisterWarehouse("B", Location{}))
	require.NoError(t, e.RegisterWarehouse("C", Location{}))

	res := e.Propagate(context.Background(), setUpdate("A", 1, 5, time.Now()))
	require.Len(t, res, 2)
	assert.Equal(t, "B", res[0].WarehouseID)
	assert.Equal(t, OutcomeFailed, res[0].Outcome)
	assert.Error(t, res[0].Err)
	assert.Equal(t, "C", res[1].WarehouseID)
	assert.Equal(t, OutcomeApplied, res[1].Outcome)

	b, err := e.GetWarehouse("B")
	require.NoError(t, err)
	assert.Equal(t, 1, b.Lag)
	assert.Empty(t, b.Inventory)

	c, err := e.GetWarehouse("C")
	require.NoError(t, err)
	assert.Equal(t, 0, c.Lag)
	assert.Equal(t, int64(5), c.Inventory["sku1"].Quantity)
	assert.False(t, c.LastSync.IsZero())
}

func TestPropagate_TimeoutMarksLag(t *testing.T) {
	stuck := ProbeFunc(func(ctx context.Context, id string) error {
		if id == "B" {
			<-ctx.Done()
			return ctx.Err()
		}
		return nil
	})
	e := NewEngine(Config{PropagationTimeoutMs: 20}, zap.NewNop(), WithProbe(stuck))
	require.NoError(t, e.RegisterWarehouse("A", Location{}))
	require.NoError(t, e.RegisterWarehouse("B", Location{}))
	require.NoError(t, e.RegisterWarehouse("C", Location{}))

	start := time.Now()
	res := e.Propagate(context.Background(), setUpdate("A", 1, 5, time.Now()))
	assert.Less(t, time.Since(start), time.Second)

	require.Len(t, res, 2)
	assert.Equal(t, OutcomeFailed, res[0].Outcome)
	assert.ErrorIs(t, res[0].Err, context.DeadlineExceeded)
	assert.Equal(t, OutcomeApplied, res[1].Outcome)

	b, err := e.GetWarehouse("B")
	require.NoError(t, err)
	assert.Equal(t, 1, b.Lag)
}

func TestPropagate_ApplyErrorAtTargetMarksLag(t *testing.T) {
	e := newTestEngine(t)
	require.NoError(t, e.RegisterWarehouse("A", Location{}))
	require.NoError(t, e.RegisterWarehouse("B", Location{}))

	u := InventoryUpdate{
		ID:            "r1",
		WarehouseID:   "A",
		ProductID:     "sku1",
		Quantity:      4,
		Operation:     OpReserve,
		Timestamp:     time.Now(),
		TargetVersion: 1,
	}
	res := e.Propagate(context.Background(), u)
	require.Len(t, res, 1)
	assert.Equal(t, OutcomeFailed, res[0].Outcome)
	assert.ErrorIs(t, res[0].Err, ErrInsufficientInventory)

	b, err := e.GetWarehouse("B")
	require.NoError(t, err)
	assert.Equal(t, 1, b.Lag)
	assert.Empty(t, b.Inventory)
}

func TestPropagate_SkipsInactiveWarehouses(t *testing.T) {
	e := newTestEngine(t)
	require.NoError(t, e.RegisterWarehouse("A", Location{}))
	require.NoError(t, e.RegisterWarehouse("B", Location{}))
	require.NoError(t, e.RegisterWarehouse("C", Location{}))
	require.NoError(t, e.SetWarehouseStatus("B", StatusInactive))

	res := e.Propagate(context.Background(), setUpdate("A", 1, 5, time.Now()))
	require.Len(t, res, 1)
	assert.Equal(t, "C", res[0].WarehouseID)

	b, err := e.GetWarehouse("B")
	require.NoError(t, err)
	assert.Empty(t, b.Inventory)
	assert.Zero(t, b.Lag)

	assert.ErrorIs(t, e.SetWarehouseStatus("B", WarehouseStatus("paused")), ErrInvalidInput)
	assert.ErrorIs(t, e.SetWarehouseStatus("Z", StatusActive), ErrWarehouseNotFound)
}

func TestPropagate_LanePreservesVersionOrder(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	require.NoError(t, e.RegisterWarehouse("A", Location{}))
	require.NoError(t, e.RegisterWarehouse("B", Location{}))

	for i := 1; i <= 40; i++ {
		_, err := e.UpdateInventory(ctx, "A", "sku1", int64(i), OpSet)
		require.NoError(t, err)
	}
	flush(t, e)

	a := recordOf(t, e, "A", "sku1")
	b := recordOf(t, e, "B", "sku1")
	assert.Equal(t, int64(40), a.Version)
	assert.Equal(t, a.Quantity, b.Quantity)
	assert.Equal(t, a.Version, b.Version)
	assert.Empty(t, e.Conflicts(), "in-order delivery never conflicts")
}

func TestPropagate_ConcurrentOriginsConverge(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	for _, id := range []string{"A", "B", "C"} {
		require.NoError(t, e.RegisterWarehouse(id, Location{}))
	}

	var wg sync.WaitGroup
	for _, origin := range []string{"A", "B", "C"} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 20; i++ {
				_, err := e.UpdateInventory(ctx, origin, "sku1", 1, OpAdd)
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()
	flush(t, e)

	for _, id := range []string{"A", "B", "C"} {
		rec := recordOf(t, e, id, "sku1")
		assert.GreaterOrEqual(t, rec.Version, int64(20))
		assert.GreaterOrEqual(t, rec.Quantity, int64(0))
		assert.LessOrEqual(t, rec.Reserved, rec.Quantity)
	}
	for _, c := range e.Conflicts() {
		assert.True(t, c.Resolved)
	}
	assert.Len(t, e.SyncQueue(), 60)
}

// stallingClock sleeps once on the first reading after it is armed.
type stallingClock struct {
	base  *stepClock
	stall atomic.Bool
	delay time.Duration
}

func (c *stallingClock) Now() time.Time {
	if c.stall.CompareAndSwap(true, false) {
		time.Sleep(c.delay)
	}
	return c.base.Now()
}

func newTimeoutEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	e := NewEngine(Config{PropagationTimeoutMs: 20}, zap.NewNop(), opts...)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = e.Shutdown(ctx)
	})
	return e
}

func TestPropagate_TimeoutAfterCommitReportsRealOutcome(t *testing.T) {
	clock := &stallingClock{base: newStepClock(), delay: 150 * time.Millisecond}
	e := newTimeoutEngine(t, WithClock(clock.Now))
	require.NoError(t, e.RegisterWarehouse("A", Location{}))
	require.NoError(t, e.RegisterWarehouse("C", Location{}))

	t1 := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	res := e.Propagate(context.Background(), setUpdate("A", 5, 50, t1.Add(time.Second)))
	require.Len(t, res, 1)
	require.Equal(t, OutcomeApplied, res[0].Outcome)

	// The conflict timestamp is read after the target is locked, and the
	// stall outlasts the delivery timeout.
	clock.stall.Store(true)
	res = e.Propagate(context.Background(), setUpdate("A", 1, 10, t1))
	require.Len(t, res, 1)
	assert.Equal(t, OutcomeConflict, res[0].Outcome)
	assert.Equal(t, ResolutionKeptCurrent, res[0].Resolution)
	assert.NoError(t, res[0].Err)

	assert.Len(t, e.Conflicts(), 1)
	v, err := e.GetWarehouse("C")
	require.NoError(t, err)
	assert.Equal(t, 0, v.Lag)
	assert.Equal(t, int64(50), v.Inventory["sku1"].Quantity)
}

func TestPropagate_TimeoutBeforeCommitLeavesTargetUntouched(t *testing.T) {
	slow := ProbeFunc(func(ctx context.Context, warehouseID string) error {
		<-ctx.Done()
		return nil
	})
	e := newTimeoutEngine(t, WithClock(newStepClock().Now), WithProbe(slow))
	require.NoError(t, e.RegisterWarehouse("A", Location{}))
	require.NoError(t, e.RegisterWarehouse("C", Location{}))

	res := e.Propagate(context.Background(), setUpdate("A", 1, 10, time.Now()))
	require.Len(t, res, 1)
	assert.Equal(t, OutcomeFailed, res[0].Outcome)
	assert.ErrorIs(t, res[0].Err, context.DeadlineExceeded)

	// Let the abandoned delivery finish before inspecting the target.
	time.Sleep(50 * time.Millisecond)
	v, err := e.GetWarehouse("C")
	require.NoError(t, err)
	assert.Equal(t, 1, v.Lag)
	assert.NotContains(t, v.Inventory, "sku1")
}
