package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/mvallbona/stockledger/internal/domain"
)

type ItemLocationStore struct {
	db *sql.DB
}

func NewItemLocationStore(db *sql.DB) *ItemLocationStore {
	return &ItemLocationStore{db: db}
}

func (s *ItemLocationStore) ListByItemID(ctx context.Context, itemID string) ([]*domain.ItemLocation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, item_id, location_id, quantity, created_at
		FROM item_locations WHERE item_id = ?
		ORDER BY location_id ASC
	`, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to list item locations: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("failed to close rows", "error", err)
		}
	}()

	var entries []*domain.ItemLocation
	for rows.Next() {
		entry := &domain.ItemLocation{}
		if err := rows.Scan(&entry.ID, &entry.ItemID, &entry.LocationID, &entry.Quantity, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan item location: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating item locations: %w", err)
	}

	return entries, nil
}

// ListAll returns every ledger entry in the store; used by backup export.
func (s *ItemLocationStore) ListAll(ctx context.Context) ([]*domain.ItemLocation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, item_id, location_id, quantity, created_at
		FROM item_locations ORDER BY item_id ASC, location_id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list item locations: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("failed to close rows", "error", err)
		}
	}()

	var entries []*domain.ItemLocation
	for rows.Next() {
		entry := &domain.ItemLocation{}
		if err := rows.Scan(&entry.ID, &entry.ItemID, &entry.LocationID, &entry.Quantity, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan item location: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating item locations: %w", err)
	}

	return entries, nil
}

// ApplyReplace removes the entries for deleteLocationIDs and inserts the
// given pairs, all within one transaction. Deletes run before inserts so
// the (item_id, location_id) uniqueness constraint never trips on a
// quantity change. Either every write lands or none do.
func (s *ItemLocationStore) ApplyReplace(ctx context.Context, itemID string, deleteLocationIDs []string, inserts []domain.LedgerInsert) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, locationID := range deleteLocationIDs {
		if _, err := tx.ExecContext(ctx, `
			DELETE FROM item_locations WHERE item_id = ? AND location_id = ?
		`, itemID, locationID); err != nil {
			return fmt.Errorf("failed to delete item location: %w", err)
		}
	}

	for _, in := range inserts {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO item_locations (id, item_id, location_id, quantity)
			VALUES (?, ?, ?, ?)
		`, uuid.NewString(), itemID, in.LocationID, in.Quantity); err != nil {
			return fmt.Errorf("failed to insert item location: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
