package cascade

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvallbona/stockledger/internal/schema"
)

// fakeLookup maps (child, parent, parentID) -> child ids.
type fakeLookup struct {
	rows map[schema.Entity]map[schema.Entity]map[string][]string
}

func (f *fakeLookup) ChildIDs(_ context.Context, child, parent schema.Entity, parentIDs []string) ([]string, error) {
	var out []string
	for _, pid := range parentIDs {
		out = append(out, f.rows[child][parent][pid]...)
	}
	return out, nil
}

func taxonomyFixture() *fakeLookup {
	// One family with one subfamily, one item, two ledger entries.
	return &fakeLookup{rows: map[schema.Entity]map[schema.Entity]map[string][]string{
		schema.Subfamilies: {
			schema.Families: {"fam1": {"sub1"}},
		},
		schema.Items: {
			schema.Families:    {"fam1": {"item1"}},
			schema.Subfamilies: {"sub1": {"item1"}},
		},
		schema.ItemLocations: {
			schema.Items:     {"item1": {"il1", "il2"}},
			schema.Locations: {},
		},
	}}
}

func TestPlanFamilyCascade(t *testing.T) {
	planner := NewPlanner(taxonomyFixture(), nil)

	plan, err := planner.Plan(context.Background(), schema.Families, "fam1")
	require.NoError(t, err)

	require.Len(t, plan.Steps, 4)
	assert.Equal(t, []schema.Entity{
		schema.ItemLocations, schema.Items, schema.Subfamilies, schema.Families,
	}, plan.Entities())

	assert.Equal(t, []string{"il1", "il2"}, plan.Steps[0].IDs)
	assert.Equal(t, []string{"item1"}, plan.Steps[1].IDs)
	assert.Equal(t, []string{"sub1"}, plan.Steps[2].IDs)
	assert.Equal(t, []string{"fam1"}, plan.Steps[3].IDs)
	assert.Equal(t, 5, plan.TotalRows())
}

func TestPlanLocationCascade(t *testing.T) {
	lookup := &fakeLookup{rows: map[schema.Entity]map[schema.Entity]map[string][]string{
		schema.ItemLocations: {
			schema.Locations: {"loc1": {"il1"}},
		},
	}}
	planner := NewPlanner(lookup, nil)

	plan, err := planner.Plan(context.Background(), schema.Locations, "loc1")
	require.NoError(t, err)

	assert.Equal(t, []schema.Entity{schema.ItemLocations, schema.Locations}, plan.Entities())
	assert.Equal(t, []string{"il1"}, plan.Steps[0].IDs)
}

func TestPlanLeafEntityHasSingleStep(t *testing.T) {
	planner := NewPlanner(&fakeLookup{}, nil)

	plan, err := planner.Plan(context.Background(), schema.Users, "u1")
	require.NoError(t, err)
	require.Len(t, plan.Steps, 1)
	assert.Equal(t, schema.Users, plan.Steps[0].Entity)
	assert.Equal(t, []string{"u1"}, plan.Steps[0].IDs)
}

func TestPlanDeduplicatesSharedDescendants(t *testing.T) {
	// item1 is reachable from fam1 both directly and through sub1; it must
	// appear in the plan exactly once.
	planner := NewPlanner(taxonomyFixture(), nil)

	plan, err := planner.Plan(context.Background(), schema.Families, "fam1")
	require.NoError(t, err)
	assert.Equal(t, []string{"item1"}, plan.Steps[1].IDs)
}

func TestPlanRejectsUnknownEntity(t *testing.T) {
	planner := NewPlanner(&fakeLookup{}, nil)
	_, err := planner.Plan(context.Background(), schema.Entity("widgets"), "x")
	require.Error(t, err)
}
