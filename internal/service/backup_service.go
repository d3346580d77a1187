package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/mvallbona/stockledger/internal/domain"
	"github.com/mvallbona/stockledger/internal/schema"
)

// Snapshot is the whole-store backup document. Each key holds the full
// row set of one entity type; ids and creation timestamps are preserved
// through a restore.
type Snapshot struct {
	Users         []*domain.User         `json:"users"`
	Families      []*domain.Family       `json:"families"`
	Subfamilies   []*domain.Subfamily    `json:"subfamilies"`
	Locations     []*domain.Location     `json:"locations"`
	Items         []*domain.Item         `json:"items"`
	ItemLocations []*domain.ItemLocation `json:"item_locations"`
	Timestamp     time.Time              `json:"timestamp"`
}

// Filename returns the download name for the snapshot.
func (s *Snapshot) Filename() string {
	return "backup-" + s.Timestamp.Format("2006-01-02") + ".json"
}

// ledgerLister is the subset of store.ItemLocationStore that export needs.
type ledgerLister interface {
	ListAll(ctx context.Context) ([]*domain.ItemLocation, error)
}

// bulkRepository is the subset of store.BulkStore that restore needs.
type bulkRepository interface {
	WithDeferredIntegrity(ctx context.Context, fn func(tx *sql.Tx) error) error
	Truncate(ctx context.Context, tx *sql.Tx, entity schema.Entity) (int64, error)
	InsertUsers(ctx context.Context, tx *sql.Tx, rows []*domain.User) error
	InsertFamilies(ctx context.Context, tx *sql.Tx, rows []*domain.Family) error
	InsertSubfamilies(ctx context.Context, tx *sql.Tx, rows []*domain.Subfamily) error
	InsertLocations(ctx context.Context, tx *sql.Tx, rows []*domain.Location) error
	InsertItems(ctx context.Context, tx *sql.Tx, rows []*domain.Item) error
	InsertItemLocations(ctx context.Context, tx *sql.Tx, rows []*domain.ItemLocation) error
}

// BackupService exports whole-store snapshots and restores them
// destructively. At most one restore runs at a time.
type BackupService struct {
	users       userRepository
	families    familyRepository
	subfamilies subfamilyRepository
	locations   locationRepository
	items       itemRepository
	ledger      ledgerLister
	bulk        bulkRepository
	logger      *slog.Logger

	restoreMu sync.Mutex
}

func NewBackupService(
	users userRepository,
	families familyRepository,
	subfamilies subfamilyRepository,
	locations locationRepository,
	items itemRepository,
	ledger ledgerLister,
	bulk bulkRepository,
	logger *slog.Logger,
) *BackupService {
	return &BackupService{
		users:       users,
		families:    families,
		subfamilies: subfamilies,
		locations:   locations,
		items:       items,
		ledger:      ledger,
		bulk:        bulk,
		logger:      logger,
	}
}

// Export assembles a snapshot of every entity type. It performs only
// reads, so no ordering constraint or lock applies.
func (s *BackupService) Export(ctx context.Context) (*Snapshot, error) {
	snap := &Snapshot{Timestamp: time.Now().UTC()}
	var err error

	if snap.Users, err = s.users.List(ctx); err != nil {
		return nil, &domain.StoreError{Phase: "export", Entity: string(schema.Users), Err: err}
	}
	if snap.Families, err = s.families.List(ctx); err != nil {
		return nil, &domain.StoreError{Phase: "export", Entity: string(schema.Families), Err: err}
	}
	if snap.Subfamilies, err = s.subfamilies.List(ctx); err != nil {
		return nil, &domain.StoreError{Phase: "export", Entity: string(schema.Subfamilies), Err: err}
	}
	if snap.Locations, err = s.locations.List(ctx); err != nil {
		return nil, &domain.StoreError{Phase: "export", Entity: string(schema.Locations), Err: err}
	}
	if snap.Items, err = s.items.List(ctx); err != nil {
		return nil, &domain.StoreError{Phase: "export", Entity: string(schema.Items), Err: err}
	}
	if snap.ItemLocations, err = s.ledger.ListAll(ctx); err != nil {
		return nil, &domain.StoreError{Phase: "export", Entity: string(schema.ItemLocations), Err: err}
	}

	s.logger.Info("backup exported",
		"users", len(snap.Users),
		"families", len(snap.Families),
		"subfamilies", len(snap.Subfamilies),
		"locations", len(snap.Locations),
		"items", len(snap.Items),
		"item_locations", len(snap.ItemLocations),
	)
	return snap, nil
}

// Restore replaces the whole store with the uploaded snapshot. Clearing
// and loading run inside a single transaction with foreign-key checks
// deferred, so a failed restore rolls back to the pre-restore state and
// enforcement is back on every exit path.
func (s *BackupService) Restore(ctx context.Context, data []byte) error {
	if !s.restoreMu.TryLock() {
		return domain.ErrConcurrencyConflict
	}
	defer s.restoreMu.Unlock()

	run := newRestoreRun()
	if err := run.to(PhaseValidating); err != nil {
		return err
	}

	snap, err := parseSnapshot(data)
	if err != nil {
		run.fail()
		s.logger.Error("restore rejected", "phase", PhaseValidating, "error", err)
		return err
	}

	err = s.bulk.WithDeferredIntegrity(ctx, func(tx *sql.Tx) error {
		if err := run.to(PhaseClearing); err != nil {
			return err
		}
		order := schema.DestructiveOrder()
		if err := schema.VerifyOrder(schema.Destructive, order); err != nil {
			return err
		}
		for _, entity := range order {
			n, err := s.bulk.Truncate(ctx, tx, entity)
			if err != nil {
				return &domain.StoreError{Phase: string(PhaseClearing), Entity: string(entity), Err: err}
			}
			s.logger.Debug("cleared entity", "entity", string(entity), "rows", n)
		}

		if err := run.to(PhaseLoading); err != nil {
			return err
		}
		loadOrder := schema.ConstructiveOrder()
		if err := schema.VerifyOrder(schema.Constructive, loadOrder); err != nil {
			return err
		}
		for _, entity := range loadOrder {
			if err := s.load(ctx, tx, entity, snap); err != nil {
				return &domain.StoreError{Phase: string(PhaseLoading), Entity: string(entity), Err: err}
			}
		}
		return nil
	})
	if err != nil {
		run.fail()
		s.logger.Error("restore failed", "phase", run.phase, "error", err)
		return err
	}

	if err := run.to(PhaseDone); err != nil {
		return err
	}
	s.logger.Info("restore complete",
		"items", len(snap.Items),
		"item_locations", len(snap.ItemLocations),
	)
	return nil
}

func (s *BackupService) load(ctx context.Context, tx *sql.Tx, entity schema.Entity, snap *Snapshot) error {
	switch entity {
	case schema.Users:
		return s.bulk.InsertUsers(ctx, tx, snap.Users)
	case schema.Families:
		return s.bulk.InsertFamilies(ctx, tx, snap.Families)
	case schema.Subfamilies:
		return s.bulk.InsertSubfamilies(ctx, tx, snap.Subfamilies)
	case schema.Locations:
		return s.bulk.InsertLocations(ctx, tx, snap.Locations)
	case schema.Items:
		return s.bulk.InsertItems(ctx, tx, snap.Items)
	case schema.ItemLocations:
		return s.bulk.InsertItemLocations(ctx, tx, snap.ItemLocations)
	default:
		return fmt.Errorf("unknown entity %q", entity)
	}
}

// parseSnapshot validates the uploaded document shape. Missing entity
// keys are tolerated as empty sets so older snapshots keep working; keys
// outside the known shape are rejected.
func parseSnapshot(data []byte) (*Snapshot, error) {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return nil, &domain.RestoreShapeError{Reason: fmt.Sprintf("not a JSON object: %v", err)}
	}

	known := map[string]bool{"timestamp": true}
	for _, e := range schema.Entities() {
		known[string(e)] = true
	}
	for key := range keys {
		if !known[key] {
			return nil, &domain.RestoreShapeError{Reason: fmt.Sprintf("unexpected key %q", key)}
		}
	}

	snap := &Snapshot{}
	if err := json.Unmarshal(data, snap); err != nil {
		return nil, &domain.RestoreShapeError{Reason: fmt.Sprintf("malformed entity rows: %v", err)}
	}
	return snap, nil
}
