// Package cascade computes explicit deletion plans for entities with
// dependents, instead of trusting the backing store to cascade on its own.
package cascade

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/mvallbona/stockledger/internal/schema"
)

// ChildLookup resolves the ids of rows in child that reference any of the
// given parent ids. Implemented by the store layer; the planner itself
// performs no writes.
type ChildLookup interface {
	ChildIDs(ctx context.Context, child, parent schema.Entity, parentIDs []string) ([]string, error)
}

// Deletion is one step of a plan: delete these ids from this entity.
type Deletion struct {
	Entity schema.Entity
	IDs    []string
}

// Plan is an ordered list of deletions, children before parents. The
// caller executes the steps against the store in the given order.
type Plan struct {
	Steps []Deletion
}

// TotalRows returns the number of rows the plan would remove.
func (p *Plan) TotalRows() int {
	n := 0
	for _, s := range p.Steps {
		n += len(s.IDs)
	}
	return n
}

// Entities returns the entity sequence of the plan's steps.
func (p *Plan) Entities() []schema.Entity {
	out := make([]schema.Entity, 0, len(p.Steps))
	for _, s := range p.Steps {
		out = append(out, s.Entity)
	}
	return out
}

type Planner struct {
	lookup ChildLookup
	logger *slog.Logger
}

func NewPlanner(lookup ChildLookup, logger *slog.Logger) *Planner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Planner{lookup: lookup, logger: logger}
}

// Plan walks the reverse foreign-key edges from (root, id) and collects
// every dependent row, transitively. Entities are visited in constructive
// order so each parent's id set is complete before its children are
// resolved; one pass is always sufficient. The returned steps are in
// destructive order and are verified against the orderer before being
// handed to the caller.
func (p *Planner) Plan(ctx context.Context, root schema.Entity, id string) (*Plan, error) {
	if !schema.Known(root) {
		return nil, fmt.Errorf("cascade: unknown entity %q", root)
	}

	collected := map[schema.Entity]map[string]struct{}{
		root: {id: {}},
	}

	for _, parent := range schema.ConstructiveOrder() {
		ids := collected[parent]
		if len(ids) == 0 {
			continue
		}
		parentIDs := sortedIDs(ids)
		for _, child := range schema.Children(parent) {
			childIDs, err := p.lookup.ChildIDs(ctx, child, parent, parentIDs)
			if err != nil {
				return nil, fmt.Errorf("cascade: resolving %s referencing %s: %w", child, parent, err)
			}
			if len(childIDs) == 0 {
				continue
			}
			if collected[child] == nil {
				collected[child] = make(map[string]struct{}, len(childIDs))
			}
			for _, cid := range childIDs {
				collected[child][cid] = struct{}{}
			}
		}
	}

	plan := &Plan{}
	for _, e := range schema.DestructiveOrder() {
		if ids := collected[e]; len(ids) > 0 {
			plan.Steps = append(plan.Steps, Deletion{Entity: e, IDs: sortedIDs(ids)})
		}
	}

	// A plan that fails this check indicates an orderer bug; fatal.
	if err := schema.VerifyOrder(schema.Destructive, plan.Entities()); err != nil {
		return nil, err
	}

	p.logger.Debug("cascade plan built",
		"root", string(root),
		"root_id", id,
		"steps", len(plan.Steps),
		"rows", plan.TotalRows(),
	)
	return plan, nil
}

func sortedIDs(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
