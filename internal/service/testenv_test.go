package service

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mvallbona/stockledger/internal/cascade"
	"github.com/mvallbona/stockledger/internal/db"
	"github.com/mvallbona/stockledger/internal/domain"
	"github.com/mvallbona/stockledger/internal/logging"
	"github.com/mvallbona/stockledger/internal/store"
)

// testEnv wires real sqlite-backed stores to the services under test.
type testEnv struct {
	db        *sql.DB
	families  *store.FamilyStore
	subfams   *store.SubfamilyStore
	locations *store.LocationStore
	users     *store.UserStore
	items     *store.ItemStore
	ledger    *store.ItemLocationStore
	bulk      *store.BulkStore
	reports   *store.ReportStore
	locks     *KeyedLock

	inventory *InventoryService
	ledgerSvc *LedgerService
	backup    *BackupService
	reportSvc *ReportService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	d, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })

	logger := logging.Discard()
	env := &testEnv{
		db:        d,
		families:  store.NewFamilyStore(d),
		subfams:   store.NewSubfamilyStore(d),
		locations: store.NewLocationStore(d),
		users:     store.NewUserStore(d),
		items:     store.NewItemStore(d),
		ledger:    store.NewItemLocationStore(d),
		bulk:      store.NewBulkStore(d),
		reports:   store.NewReportStore(d),
		locks:     NewKeyedLock(),
	}

	planner := cascade.NewPlanner(env.bulk, logger)
	env.inventory = NewInventoryService(
		env.families, env.subfams, env.locations, env.users, env.items,
		planner, env.bulk, env.locks, logger,
	)
	env.ledgerSvc = NewLedgerService(env.items, env.ledger, env.locks, logger)
	env.backup = NewBackupService(
		env.users, env.families, env.subfams, env.locations, env.items, env.ledger,
		env.bulk, logger,
	)
	env.reportSvc = NewReportService(env.reports, logger)
	return env
}

// seed creates a family, subfamily, item and two locations.
func (e *testEnv) seed(t *testing.T) (*domain.Family, *domain.Subfamily, *domain.Item, *domain.Location, *domain.Location) {
	t.Helper()
	ctx := context.Background()

	family, err := e.families.Create(ctx, "Audio")
	require.NoError(t, err)
	subfamily, err := e.subfams.Create(ctx, "Microphones", family.ID)
	require.NoError(t, err)
	item, err := e.items.Create(ctx, &domain.Item{
		Name:        "SM58",
		Model:       "Shure SM58",
		FamilyID:    family.ID,
		SubfamilyID: subfamily.ID,
		Usage:       domain.UsageInternal,
	})
	require.NoError(t, err)
	locA, err := e.locations.Create(ctx, "Main warehouse")
	require.NoError(t, err)
	locB, err := e.locations.Create(ctx, "Studio B")
	require.NoError(t, err)

	return family, subfamily, item, locA, locB
}
