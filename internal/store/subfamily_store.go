package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/mvallbona/stockledger/internal/domain"
)

type SubfamilyStore struct {
	db *sql.DB
}

func NewSubfamilyStore(db *sql.DB) *SubfamilyStore {
	return &SubfamilyStore{db: db}
}

func (s *SubfamilyStore) Create(ctx context.Context, name, familyID string) (*domain.Subfamily, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO subfamilies (id, name, family_id) VALUES (?, ?, ?)
	`, id, name, familyID)
	if err != nil {
		return nil, fmt.Errorf("failed to create subfamily: %w", err)
	}

	return s.GetByID(ctx, id)
}

func (s *SubfamilyStore) GetByID(ctx context.Context, id string) (*domain.Subfamily, error) {
	subfamily := &domain.Subfamily{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, family_id, created_at FROM subfamilies WHERE id = ?
	`, id).Scan(&subfamily.ID, &subfamily.Name, &subfamily.FamilyID, &subfamily.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get subfamily: %w", err)
	}

	return subfamily, nil
}

func (s *SubfamilyStore) List(ctx context.Context) ([]*domain.Subfamily, error) {
	return s.list(ctx, `
		SELECT id, name, family_id, created_at FROM subfamilies ORDER BY name ASC
	`)
}

// ListByFamilyID returns the subfamilies of one family; the report filter
// UI narrows its subfamily choices with this.
func (s *SubfamilyStore) ListByFamilyID(ctx context.Context, familyID string) ([]*domain.Subfamily, error) {
	return s.list(ctx, `
		SELECT id, name, family_id, created_at FROM subfamilies
		WHERE family_id = ? ORDER BY name ASC
	`, familyID)
}

func (s *SubfamilyStore) list(ctx context.Context, query string, args ...any) ([]*domain.Subfamily, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list subfamilies: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("failed to close rows", "error", err)
		}
	}()

	var subfamilies []*domain.Subfamily
	for rows.Next() {
		subfamily := &domain.Subfamily{}
		if err := rows.Scan(&subfamily.ID, &subfamily.Name, &subfamily.FamilyID, &subfamily.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan subfamily: %w", err)
		}
		subfamilies = append(subfamilies, subfamily)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating subfamilies: %w", err)
	}

	return subfamilies, nil
}

func (s *SubfamilyStore) Update(ctx context.Context, id, name, familyID string) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE subfamilies SET name = ?, family_id = ? WHERE id = ?
	`, name, familyID, id)
	if err != nil {
		return fmt.Errorf("failed to update subfamily: %w", err)
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
