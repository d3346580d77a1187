package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvallbona/stockledger/internal/domain"
)

func TestApplyReplaceInsertsAndDeletes(t *testing.T) {
	d := openTestDB(t)
	_, _, item, location := seedTaxonomy(t, d)
	store := NewItemLocationStore(d)
	ctx := context.Background()

	err := store.ApplyReplace(ctx, item.ID, nil, []domain.LedgerInsert{{LocationID: location.ID, Quantity: 5}})
	require.NoError(t, err)

	entries, err := store.ListByItemID(ctx, item.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 5, entries[0].Quantity)
	assert.Equal(t, location.ID, entries[0].LocationID)

	// Quantity change: delete then re-insert in one call.
	err = store.ApplyReplace(ctx, item.ID, []string{location.ID}, []domain.LedgerInsert{{LocationID: location.ID, Quantity: 3}})
	require.NoError(t, err)

	entries, err = store.ListByItemID(ctx, item.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 3, entries[0].Quantity)

	// Removal only.
	err = store.ApplyReplace(ctx, item.ID, []string{location.ID}, nil)
	require.NoError(t, err)

	entries, err = store.ListByItemID(ctx, item.ID)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestApplyReplaceIsAtomic(t *testing.T) {
	d := openTestDB(t)
	_, _, item, location := seedTaxonomy(t, d)
	store := NewItemLocationStore(d)
	ctx := context.Background()

	require.NoError(t, store.ApplyReplace(ctx, item.ID, nil,
		[]domain.LedgerInsert{{LocationID: location.ID, Quantity: 2}}))

	// Second insert references a missing location, so the whole call must
	// roll back, leaving the prior entry untouched.
	err := store.ApplyReplace(ctx, item.ID, []string{location.ID}, []domain.LedgerInsert{
		{LocationID: location.ID, Quantity: 7},
		{LocationID: "missing-location", Quantity: 1},
	})
	require.Error(t, err)

	entries, err := store.ListByItemID(ctx, item.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 2, entries[0].Quantity, "failed replace must not leave partial state")
}

func TestItemLocationUniquePairEnforced(t *testing.T) {
	d := openTestDB(t)
	_, _, item, location := seedTaxonomy(t, d)
	store := NewItemLocationStore(d)
	ctx := context.Background()

	require.NoError(t, store.ApplyReplace(ctx, item.ID, nil,
		[]domain.LedgerInsert{{LocationID: location.ID, Quantity: 1}}))

	err := store.ApplyReplace(ctx, item.ID, nil,
		[]domain.LedgerInsert{{LocationID: location.ID, Quantity: 2}})
	assert.Error(t, err, "second entry for the same (item, location) pair must be rejected")
}
