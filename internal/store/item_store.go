package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/mvallbona/stockledger/internal/domain"
)

type ItemStore struct {
	db *sql.DB
}

func NewItemStore(db *sql.DB) *ItemStore {
	return &ItemStore{db: db}
}

// Create inserts the item row only. Populating the item's per-location
// quantities is a separate, later step through the ledger.
func (s *ItemStore) Create(ctx context.Context, item *domain.Item) (*domain.Item, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO items (id, name, model, family_id, subfamily_id, usage, image_url, observations)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, id, item.Name, item.Model, item.FamilyID, item.SubfamilyID, string(item.Usage), item.ImageURL, item.Observations)
	if err != nil {
		return nil, fmt.Errorf("failed to create item: %w", err)
	}

	return s.GetByID(ctx, id)
}

func (s *ItemStore) GetByID(ctx context.Context, id string) (*domain.Item, error) {
	item := &domain.Item{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, model, family_id, subfamily_id, usage, image_url, observations, created_at
		FROM items WHERE id = ?
	`, id).Scan(&item.ID, &item.Name, &item.Model, &item.FamilyID, &item.SubfamilyID,
		&item.Usage, &item.ImageURL, &item.Observations, &item.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}

	return item, nil
}

func (s *ItemStore) List(ctx context.Context) ([]*domain.Item, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, model, family_id, subfamily_id, usage, image_url, observations, created_at
		FROM items ORDER BY name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("failed to close rows", "error", err)
		}
	}()

	var items []*domain.Item
	for rows.Next() {
		item := &domain.Item{}
		if err := rows.Scan(&item.ID, &item.Name, &item.Model, &item.FamilyID, &item.SubfamilyID,
			&item.Usage, &item.ImageURL, &item.Observations, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating items: %w", err)
	}

	return items, nil
}

func (s *ItemStore) Update(ctx context.Context, item *domain.Item) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE items
		SET name = ?, model = ?, family_id = ?, subfamily_id = ?, usage = ?, image_url = ?, observations = ?
		WHERE id = ?
	`, item.Name, item.Model, item.FamilyID, item.SubfamilyID, string(item.Usage),
		item.ImageURL, item.Observations, item.ID)
	if err != nil {
		return fmt.Errorf("failed to update item: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return domain.ErrNotFound
	}

	return nil
}
