package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/mvallbona/stockledger/internal/domain"
)

type FamilyStore struct {
	db *sql.DB
}

func NewFamilyStore(db *sql.DB) *FamilyStore {
	return &FamilyStore{db: db}
}

func (s *FamilyStore) Create(ctx context.Context, name string) (*domain.Family, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO families (id, name) VALUES (?, ?)
	`, id, name)
	if err != nil {
		return nil, fmt.Errorf("failed to create family: %w", err)
	}

	return s.GetByID(ctx, id)
}

func (s *FamilyStore) GetByID(ctx context.Context, id string) (*domain.Family, error) {
	family := &domain.Family{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, created_at FROM families WHERE id = ?
	`, id).Scan(&family.ID, &family.Name, &family.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get family: %w", err)
	}

	return family, nil
}

func (s *FamilyStore) List(ctx context.Context) ([]*domain.Family, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, created_at FROM families ORDER BY name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list families: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("failed to close rows", "error", err)
		}
	}()

	var families []*domain.Family
	for rows.Next() {
		family := &domain.Family{}
		if err := rows.Scan(&family.ID, &family.Name, &family.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan family: %w", err)
		}
		families = append(families, family)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating families: %w", err)
	}

	return families, nil
}

func (s *FamilyStore) Update(ctx context.Context, id, name string) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE families SET name = ? WHERE id = ?
	`, name, id)
	if err != nil {
		return fmt.Errorf("failed to update family: %w", err)
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
