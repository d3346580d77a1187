package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/mvallbona/stockledger/internal/domain"
	"github.com/mvallbona/stockledger/internal/schema"
)

// ledgerRepository is the subset of store.ItemLocationStore that
// LedgerService requires.
type ledgerRepository interface {
	ListByItemID(ctx context.Context, itemID string) ([]*domain.ItemLocation, error)
	ApplyReplace(ctx context.Context, itemID string, deleteLocationIDs []string, inserts []domain.LedgerInsert) error
}

// itemGetter is the subset of store.ItemStore that LedgerService requires.
type itemGetter interface {
	GetByID(ctx context.Context, id string) (*domain.Item, error)
}

// LedgerService reconciles the per-location quantities of one item to a
// desired state under replace-all semantics.
type LedgerService struct {
	items   itemGetter
	entries ledgerRepository
	locks   *KeyedLock
	logger  *slog.Logger
}

func NewLedgerService(items itemGetter, entries ledgerRepository, locks *KeyedLock, logger *slog.Logger) *LedgerService {
	return &LedgerService{items: items, entries: entries, locks: locks, logger: logger}
}

// subtreeKey is the exclusion key shared by ledger reconciliation and
// cascade deletion of the same entity.
func subtreeKey(entity schema.Entity, id string) string {
	return string(entity) + ":" + id
}

// Reconcile replaces the full set of per-location quantities for itemID
// with desired. Entries with quantity <= 0 are pruned, not stored; an
// empty desired map removes every entry. At most one reconciliation per
// item runs at a time; a second caller gets ErrConcurrencyConflict.
func (s *LedgerService) Reconcile(ctx context.Context, itemID string, desired map[string]int) ([]*domain.ItemLocation, error) {
	release, ok := s.locks.TryAcquire(subtreeKey(schema.Items, itemID))
	if !ok {
		return nil, domain.ErrConcurrencyConflict
	}
	defer release()

	item, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}

	// Canonical desired state: positive quantities only.
	canonical := make(map[string]int, len(desired))
	for locationID, qty := range desired {
		if qty > 0 {
			canonical[locationID] = qty
		}
	}

	current, err := s.entries.ListByItemID(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to read current ledger: %w", err)
	}

	var deletes []string
	existing := make(map[string]int, len(current))
	for _, entry := range current {
		existing[entry.LocationID] = entry.Quantity
		want, keep := canonical[entry.LocationID]
		if !keep || want != entry.Quantity {
			deletes = append(deletes, entry.LocationID)
		}
	}

	var inserts []domain.LedgerInsert
	for locationID, qty := range canonical {
		if have, ok := existing[locationID]; ok && have == qty {
			continue
		}
		inserts = append(inserts, domain.LedgerInsert{LocationID: locationID, Quantity: qty})
	}
	sort.Slice(inserts, func(i, j int) bool { return inserts[i].LocationID < inserts[j].LocationID })
	sort.Strings(deletes)

	if len(deletes) == 0 && len(inserts) == 0 {
		return current, nil
	}

	if err := s.entries.ApplyReplace(ctx, itemID, deletes, inserts); err != nil {
		return nil, fmt.Errorf("failed to reconcile ledger: %w", err)
	}

	s.logger.Info("ledger reconciled",
		"item_id", itemID,
		"deleted", len(deletes),
		"inserted", len(inserts),
		"locations", len(canonical),
	)

	return s.entries.ListByItemID(ctx, itemID)
}

// Entries returns the current ledger for an item.
func (s *LedgerService) Entries(ctx context.Context, itemID string) ([]*domain.ItemLocation, error) {
	item, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return s.entries.ListByItemID(ctx, itemID)
}
