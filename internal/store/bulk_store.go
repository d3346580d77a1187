package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mvallbona/stockledger/internal/cascade"
	"github.com/mvallbona/stockledger/internal/domain"
	"github.com/mvallbona/stockledger/internal/schema"
)

// BulkStore covers the whole-table and cross-entity operations used by the
// cascade engine and the backup coordinator: child-row lookup, plan
// execution, truncation and raw row loading.
type BulkStore struct {
	db *sql.DB
}

func NewBulkStore(db *sql.DB) *BulkStore {
	return &BulkStore{db: db}
}

// fkColumns maps (child, parent) to the referencing column, mirroring the
// schema edge set.
var fkColumns = map[schema.Entity]map[schema.Entity]string{
	schema.Subfamilies: {
		schema.Families: "family_id",
	},
	schema.Items: {
		schema.Families:    "family_id",
		schema.Subfamilies: "subfamily_id",
	},
	schema.ItemLocations: {
		schema.Items:     "item_id",
		schema.Locations: "location_id",
	},
}

// ChildIDs returns the ids of rows in child referencing any of parentIDs.
// Implements cascade.ChildLookup.
func (s *BulkStore) ChildIDs(ctx context.Context, child, parent schema.Entity, parentIDs []string) ([]string, error) {
	if len(parentIDs) == 0 {
		return nil, nil
	}
	column, ok := fkColumns[child][parent]
	if !ok {
		return nil, fmt.Errorf("no foreign key from %s to %s", child, parent)
	}

	query := fmt.Sprintf(
		"SELECT id FROM %s WHERE %s IN (%s) ORDER BY id ASC",
		child, column, placeholders(len(parentIDs)),
	)
	rows, err := s.db.QueryContext(ctx, query, toArgs(parentIDs)...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s children: %w", child, err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("failed to close rows", "error", err)
		}
	}()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan child id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating child ids: %w", err)
	}

	return ids, nil
}

// ExecutePlan deletes the plan's rows step by step inside one transaction.
// Steps must already be in destructive order; the caller verifies this
// before any write is attempted.
func (s *BulkStore) ExecutePlan(ctx context.Context, plan *cascade.Plan) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, step := range plan.Steps {
		query := fmt.Sprintf(
			"DELETE FROM %s WHERE id IN (%s)",
			step.Entity, placeholders(len(step.IDs)),
		)
		if _, err := tx.ExecContext(ctx, query, toArgs(step.IDs)...); err != nil {
			return &domain.StoreError{Phase: "cascade", Entity: string(step.Entity), Err: err}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit cascade plan: %w", err)
	}
	return nil
}

// WithDeferredIntegrity runs fn inside one transaction with foreign-key
// checks deferred to commit time. The pragma is transaction-scoped, so
// enforcement is restored on every exit path, commit and rollback alike.
func (s *BulkStore) WithDeferredIntegrity(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "PRAGMA defer_foreign_keys = ON"); err != nil {
		return fmt.Errorf("failed to defer foreign keys: %w", err)
	}

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Truncate deletes every row of one entity within the given transaction
// and returns the number of rows removed.
func (s *BulkStore) Truncate(ctx context.Context, tx *sql.Tx, entity schema.Entity) (int64, error) {
	if !schema.Known(entity) {
		return 0, fmt.Errorf("unknown entity %q", entity)
	}
	result, err := tx.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s", entity))
	if err != nil {
		return 0, fmt.Errorf("failed to truncate %s: %w", entity, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n, nil
}

// The InsertX methods load snapshot rows verbatim, preserving ids and
// creation timestamps.

func (s *BulkStore) InsertUsers(ctx context.Context, tx *sql.Tx, rows []*domain.User) error {
	for _, r := range rows {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO users (id, email, role, created_at) VALUES (?, ?, ?, ?)
		`, r.ID, r.Email, string(r.Role), r.CreatedAt); err != nil {
			return fmt.Errorf("failed to insert user %s: %w", r.ID, err)
		}
	}
	return nil
}

func (s *BulkStore) InsertFamilies(ctx context.Context, tx *sql.Tx, rows []*domain.Family) error {
	for _, r := range rows {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO families (id, name, created_at) VALUES (?, ?, ?)
		`, r.ID, r.Name, r.CreatedAt); err != nil {
			return fmt.Errorf("failed to insert family %s: %w", r.ID, err)
		}
	}
	return nil
}

func (s *BulkStore) InsertSubfamilies(ctx context.Context, tx *sql.Tx, rows []*domain.Subfamily) error {
	for _, r := range rows {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO subfamilies (id, name, family_id, created_at) VALUES (?, ?, ?, ?)
		`, r.ID, r.Name, r.FamilyID, r.CreatedAt); err != nil {
			return fmt.Errorf("failed to insert subfamily %s: %w", r.ID, err)
		}
	}
	return nil
}

func (s *BulkStore) InsertLocations(ctx context.Context, tx *sql.Tx, rows []*domain.Location) error {
	for _, r := range rows {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO locations (id, name, created_at) VALUES (?, ?, ?)
		`, r.ID, r.Name, r.CreatedAt); err != nil {
			return fmt.Errorf("failed to insert location %s: %w", r.ID, err)
		}
	}
	return nil
}

func (s *BulkStore) InsertItems(ctx context.Context, tx *sql.Tx, rows []*domain.Item) error {
	for _, r := range rows {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO items (id, name, model, family_id, subfamily_id, usage, image_url, observations, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, r.ID, r.Name, r.Model, r.FamilyID, r.SubfamilyID, string(r.Usage), r.ImageURL, r.Observations, r.CreatedAt); err != nil {
			return fmt.Errorf("failed to insert item %s: %w", r.ID, err)
		}
	}
	return nil
}

func (s *BulkStore) InsertItemLocations(ctx context.Context, tx *sql.Tx, rows []*domain.ItemLocation) error {
	for _, r := range rows {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO item_locations (id, item_id, location_id, quantity, created_at)
			VALUES (?, ?, ?, ?, ?)
		`, r.ID, r.ItemID, r.LocationID, r.Quantity, r.CreatedAt); err != nil {
			return fmt.Errorf("failed to insert item location %s: %w", r.ID, err)
		}
	}
	return nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func toArgs(ids []string) []any {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}
