package inventory

import (
	"context"
	"testing"
	"time"

	"warehouse-sync/core/reconcile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestService_ConflictsNewestFirst(t *testing.T) {
	engine := reconcile.NewEngine(reconcile.Config{}, zap.NewNop())
	t.Cleanup(func() { _ = engine.Shutdown(context.Background()) })
	svc := NewService(engine, zap.NewNop())

	require.NoError(t, engine.RegisterWarehouse("a", reconcile.Location{}))
	require.NoError(t, engine.RegisterWarehouse("b", reconcile.Location{}))
	ctx := context.Background()

	// Replaying the same stale update twice at b produces two conflicts.
	u, err := engine.UpdateInventory(ctx, "a", "sku1", 5, reconcile.OpSet)
	require.NoError(t, err)
	flushCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	require.NoError(t, engine.Flush(flushCtx))
	engine.Propagate(ctx, u)
	second := u
	second.ID = "replay-2"
	engine.Propagate(ctx, second)

	all := svc.Conflicts(0)
	require.Len(t, all, 2)
	assert.Equal(t, "replay-2", all[0].Incoming.ID)

	assert.Len(t, svc.Conflicts(1), 1)
}

func TestService_UpdateRejectsNegative(t *testing.T) {
	engine := reconcile.NewEngine(reconcile.Config{}, zap.NewNop())
	t.Cleanup(func() { _ = engine.Shutdown(context.Background()) })
	svc := NewService(engine, zap.NewNop())
	require.NoError(t, engine.RegisterWarehouse("a", reconcile.Location{}))

	_, err := svc.Update(context.Background(), "a", "sku1", UpdateRequest{Quantity: -3, Operation: reconcile.OpSet})
	assert.ErrorIs(t, err, reconcile.ErrInvalidInput)
}
