package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvallbona/stockledger/internal/domain"
	"github.com/mvallbona/stockledger/internal/schema"
)

func TestCreateItemValidation(t *testing.T) {
	env := newTestEnv(t)
	family, subfamily, _, _, _ := env.seed(t)
	ctx := context.Background()

	valid := domain.Item{
		Name:        "X32",
		Model:       "Behringer X32",
		FamilyID:    family.ID,
		SubfamilyID: subfamily.ID,
		Usage:       domain.UsageExternal,
	}

	tests := []struct {
		name   string
		mutate func(*domain.Item)
		field  string
	}{
		{"missing name", func(i *domain.Item) { i.Name = "" }, "name"},
		{"missing model", func(i *domain.Item) { i.Model = "" }, "model"},
		{"missing family", func(i *domain.Item) { i.FamilyID = "" }, "family_id"},
		{"missing subfamily", func(i *domain.Item) { i.SubfamilyID = "" }, "subfamily_id"},
		{"bad usage", func(i *domain.Item) { i.Usage = "decorative" }, "usage"},
		{"unknown subfamily", func(i *domain.Item) { i.SubfamilyID = "no-such-id" }, "subfamily_id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := valid
			tt.mutate(&item)

			_, err := env.inventory.CreateItem(ctx, &item)
			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}

	created, err := env.inventory.CreateItem(ctx, &valid)
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
}

func TestCreateItemSubfamilyMustBelongToFamily(t *testing.T) {
	env := newTestEnv(t)
	_, subfamily, _, _, _ := env.seed(t)
	ctx := context.Background()

	other, err := env.inventory.CreateFamily(ctx, "Lighting")
	require.NoError(t, err)

	_, err = env.inventory.CreateItem(ctx, &domain.Item{
		Name:        "Fresnel",
		Model:       "ARRI 650",
		FamilyID:    other.ID,
		SubfamilyID: subfamily.ID, // belongs to "Audio", not "Lighting"
		Usage:       domain.UsageInternal,
	})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "subfamily_id", verr.Field)
}

func TestCreateSubfamilyUnknownFamily(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.inventory.CreateSubfamily(context.Background(), "Cables", "no-such-family")
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "family_id", verr.Field)
}

func TestDeleteFamilyCascades(t *testing.T) {
	env := newTestEnv(t)
	family, _, item, locA, _ := env.seed(t)
	ctx := context.Background()

	_, err := env.ledgerSvc.Reconcile(ctx, item.ID, map[string]int{locA.ID: 3})
	require.NoError(t, err)

	plan, err := env.inventory.DeleteFamily(ctx, family.ID)
	require.NoError(t, err)

	// family + subfamily + item + ledger entry, children first.
	assert.Equal(t, 4, plan.TotalRows())
	assert.Equal(t, []schema.Entity{
		schema.ItemLocations, schema.Items, schema.Subfamilies, schema.Families,
	}, plan.Entities())

	families, err := env.inventory.ListFamilies(ctx)
	require.NoError(t, err)
	assert.Empty(t, families)
	items, err := env.inventory.ListItems(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)

	// Locations are not part of the family subtree and survive.
	locations, err := env.inventory.ListLocations(ctx)
	require.NoError(t, err)
	assert.Len(t, locations, 2)
}

func TestDeleteLocationCascadesOnlyLedgerEntries(t *testing.T) {
	env := newTestEnv(t)
	_, _, item, locA, locB := env.seed(t)
	ctx := context.Background()

	_, err := env.ledgerSvc.Reconcile(ctx, item.ID, map[string]int{locA.ID: 3, locB.ID: 1})
	require.NoError(t, err)

	plan, err := env.inventory.DeleteLocation(ctx, locA.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, plan.TotalRows())

	// The item survives; only the entry at the deleted location is gone.
	entries, err := env.ledgerSvc.Entries(ctx, item.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, locB.ID, entries[0].LocationID)
}

func TestDeleteItemWithoutDependents(t *testing.T) {
	env := newTestEnv(t)
	_, _, item, _, _ := env.seed(t)
	ctx := context.Background()

	plan, err := env.inventory.DeleteItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, plan.TotalRows())
	assert.Equal(t, []schema.Entity{schema.Items}, plan.Entities())
}

func TestDeleteConflictsWithInFlightReconcile(t *testing.T) {
	env := newTestEnv(t)
	_, _, item, _, _ := env.seed(t)

	release, ok := env.locks.TryAcquire(subtreeKey(schema.Items, item.ID))
	require.True(t, ok)
	defer release()

	_, err := env.inventory.DeleteItem(context.Background(), item.ID)
	assert.ErrorIs(t, err, domain.ErrConcurrencyConflict)
}

func TestDeleteUserIsDirect(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user, err := env.inventory.CreateUser(ctx, "admin@example.org", domain.RoleAdmin)
	require.NoError(t, err)

	require.NoError(t, env.inventory.DeleteUser(ctx, user.ID))
	assert.ErrorIs(t, env.inventory.DeleteUser(ctx, user.ID), domain.ErrNotFound)
}

func TestCreateUserValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.inventory.CreateUser(ctx, "", domain.RoleAdmin)
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)

	_, err = env.inventory.CreateUser(ctx, "someone@example.org", "superuser")
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "role", verr.Field)
}
