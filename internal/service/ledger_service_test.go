package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvallbona/stockledger/internal/domain"
	"github.com/mvallbona/stockledger/internal/schema"
)

func TestReconcileSetsQuantities(t *testing.T) {
	env := newTestEnv(t)
	_, _, item, locA, locB := env.seed(t)
	ctx := context.Background()

	entries, err := env.ledgerSvc.Reconcile(ctx, item.ID, map[string]int{
		locA.ID: 5,
		locB.ID: 2,
	})
	require.NoError(t, err)
	require.Len(t, entries, 2)

	byLocation := make(map[string]int)
	for _, e := range entries {
		byLocation[e.LocationID] = e.Quantity
	}
	assert.Equal(t, 5, byLocation[locA.ID])
	assert.Equal(t, 2, byLocation[locB.ID])
}

func TestReconcilePrunesNonPositiveQuantities(t *testing.T) {
	env := newTestEnv(t)
	_, _, item, locA, locB := env.seed(t)
	ctx := context.Background()

	entries, err := env.ledgerSvc.Reconcile(ctx, item.ID, map[string]int{
		locA.ID: 5,
		locB.ID: 0,
	})
	require.NoError(t, err)
	require.Len(t, entries, 1, "zero-quantity entry must be pruned, not stored")
	assert.Equal(t, locA.ID, entries[0].LocationID)

	// Negative quantities are pruned the same way.
	entries, err = env.ledgerSvc.Reconcile(ctx, item.ID, map[string]int{
		locA.ID: 5,
		locB.ID: -3,
	})
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestReconcileReplacesExistingState(t *testing.T) {
	env := newTestEnv(t)
	_, _, item, locA, locB := env.seed(t)
	ctx := context.Background()

	_, err := env.ledgerSvc.Reconcile(ctx, item.ID, map[string]int{locA.ID: 5, locB.ID: 2})
	require.NoError(t, err)

	// Replace-all: locA changes, locB is absent from the desired state and
	// must disappear.
	entries, err := env.ledgerSvc.Reconcile(ctx, item.ID, map[string]int{locA.ID: 7})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, locA.ID, entries[0].LocationID)
	assert.Equal(t, 7, entries[0].Quantity)
}

func TestReconcileEmptyDesiredRemovesAll(t *testing.T) {
	env := newTestEnv(t)
	_, _, item, locA, _ := env.seed(t)
	ctx := context.Background()

	_, err := env.ledgerSvc.Reconcile(ctx, item.ID, map[string]int{locA.ID: 5})
	require.NoError(t, err)

	entries, err := env.ledgerSvc.Reconcile(ctx, item.ID, map[string]int{})
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestReconcileIdempotent(t *testing.T) {
	env := newTestEnv(t)
	_, _, item, locA, locB := env.seed(t)
	ctx := context.Background()

	desired := map[string]int{locA.ID: 5, locB.ID: 2}
	first, err := env.ledgerSvc.Reconcile(ctx, item.ID, desired)
	require.NoError(t, err)
	second, err := env.ledgerSvc.Reconcile(ctx, item.ID, desired)
	require.NoError(t, err)

	require.Len(t, second, len(first))
	// Unchanged entries keep their row identity across a no-op reconcile.
	firstIDs := make(map[string]string)
	for _, e := range first {
		firstIDs[e.LocationID] = e.ID
	}
	for _, e := range second {
		assert.Equal(t, firstIDs[e.LocationID], e.ID)
	}
}

func TestReconcileUnknownItem(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t)

	_, err := env.ledgerSvc.Reconcile(context.Background(), "no-such-item", map[string]int{"l": 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReconcileConcurrencyConflict(t *testing.T) {
	env := newTestEnv(t)
	_, _, item, locA, _ := env.seed(t)

	// Simulate an in-flight operation on the same item subtree.
	release, ok := env.locks.TryAcquire(subtreeKey(schema.Items, item.ID))
	require.True(t, ok)
	defer release()

	_, err := env.ledgerSvc.Reconcile(context.Background(), item.ID, map[string]int{locA.ID: 1})
	assert.ErrorIs(t, err, domain.ErrConcurrencyConflict)

	// Other items are not affected by the held lock.
	release()
	_, err = env.ledgerSvc.Reconcile(context.Background(), item.ID, map[string]int{locA.ID: 1})
	assert.NoError(t, err)
}

func TestEntriesUnknownItem(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.ledgerSvc.Entries(context.Background(), "no-such-item")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
