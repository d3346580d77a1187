package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/mvallbona/stockledger/internal/domain"
)

type ReportStore struct {
	db *sql.DB
}

func NewReportStore(db *sql.DB) *ReportStore {
	return &ReportStore{db: db}
}

// Query returns items joined with family and subfamily names, each with
// its full ledger. Family, subfamily and usage filters are pushed into
// SQL; the location filter is applied by the caller after the join.
func (s *ReportStore) Query(ctx context.Context, filters domain.ReportFilters) ([]*domain.ReportItem, error) {
	query := `
		SELECT i.id, i.name, i.model, f.id, f.name, sf.id, sf.name, i.usage, i.observations
		FROM items i
		JOIN families f ON f.id = i.family_id
		JOIN subfamilies sf ON sf.id = i.subfamily_id
		WHERE 1 = 1
	`
	var args []any
	if filters.FamilyID != "" {
		query += " AND i.family_id = ?"
		args = append(args, filters.FamilyID)
	}
	if filters.SubfamilyID != "" {
		query += " AND i.subfamily_id = ?"
		args = append(args, filters.SubfamilyID)
	}
	if filters.Usage != "" {
		query += " AND i.usage = ?"
		args = append(args, string(filters.Usage))
	}
	query += " ORDER BY i.name ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query report items: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("failed to close rows", "error", err)
		}
	}()

	var items []*domain.ReportItem
	byID := make(map[string]*domain.ReportItem)
	for rows.Next() {
		item := &domain.ReportItem{}
		if err := rows.Scan(&item.ID, &item.Name, &item.Model, &item.FamilyID, &item.FamilyName,
			&item.SubfamilyID, &item.SubfamilyName, &item.Usage, &item.Observations); err != nil {
			return nil, fmt.Errorf("failed to scan report item: %w", err)
		}
		items = append(items, item)
		byID[item.ID] = item
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating report items: %w", err)
	}

	if len(items) == 0 {
		return items, nil
	}

	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}

	entryQuery := fmt.Sprintf(`
		SELECT il.item_id, l.id, l.name, il.quantity
		FROM item_locations il
		JOIN locations l ON l.id = il.location_id
		WHERE il.item_id IN (%s)
		ORDER BY l.name ASC
	`, placeholders(len(ids)))

	entryRows, err := s.db.QueryContext(ctx, entryQuery, toArgs(ids)...)
	if err != nil {
		return nil, fmt.Errorf("failed to query report ledger entries: %w", err)
	}
	defer func() {
		if err := entryRows.Close(); err != nil {
			slog.Error("failed to close rows", "error", err)
		}
	}()

	for entryRows.Next() {
		var itemID string
		entry := domain.ReportEntry{}
		if err := entryRows.Scan(&itemID, &entry.LocationID, &entry.LocationName, &entry.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan report ledger entry: %w", err)
		}
		if item, ok := byID[itemID]; ok {
			item.Locations = append(item.Locations, entry)
		}
	}
	if err := entryRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating report ledger entries: %w", err)
	}

	return items, nil
}
