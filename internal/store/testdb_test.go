package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mvallbona/stockledger/internal/db"
	"github.com/mvallbona/stockledger/internal/domain"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	d, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })
	return d
}

// seedTaxonomy creates a family, a subfamily in it, an item in both, and
// a location; returned in that order.
func seedTaxonomy(t *testing.T, d *sql.DB) (*domain.Family, *domain.Subfamily, *domain.Item, *domain.Location) {
	t.Helper()
	ctx := context.Background()

	family, err := NewFamilyStore(d).Create(ctx, "Audio")
	require.NoError(t, err)

	subfamily, err := NewSubfamilyStore(d).Create(ctx, "Microphones", family.ID)
	require.NoError(t, err)

	item, err := NewItemStore(d).Create(ctx, &domain.Item{
		Name:        "SM58",
		Model:       "Shure SM58",
		FamilyID:    family.ID,
		SubfamilyID: subfamily.ID,
		Usage:       domain.UsageInternal,
	})
	require.NoError(t, err)

	location, err := NewLocationStore(d).Create(ctx, "Main warehouse")
	require.NoError(t, err)

	return family, subfamily, item, location
}
