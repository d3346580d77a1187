// Package schema is the static definition of the inventory entity set and
// its foreign-key dependency graph, plus the safe bulk-operation orderings
// derived from it.
package schema

import "fmt"

// Entity names an entity type. The value doubles as the store table name
// and the snapshot document key.
type Entity string

const (
	Users         Entity = "users"
	Families      Entity = "families"
	Subfamilies   Entity = "subfamilies"
	Locations     Entity = "locations"
	Items         Entity = "items"
	ItemLocations Entity = "item_locations"
)

// declOrder is the canonical declaration order used as a deterministic
// tie-break when two entities have no dependency between them.
var declOrder = []Entity{Users, Families, Subfamilies, Locations, Items, ItemLocations}

// Edge is a directed foreign-key dependency from a child entity to the
// parent entity it references.
type Edge struct {
	Child  Entity
	Parent Entity
}

var edges = []Edge{
	{Child: Subfamilies, Parent: Families},
	{Child: Items, Parent: Families},
	{Child: Items, Parent: Subfamilies},
	{Child: ItemLocations, Parent: Items},
	{Child: ItemLocations, Parent: Locations},
}

// Entities returns all entity types in canonical declaration order.
func Entities() []Entity {
	out := make([]Entity, len(declOrder))
	copy(out, declOrder)
	return out
}

// Edges returns the foreign-key edge set (child -> parent).
func Edges() []Edge {
	out := make([]Edge, len(edges))
	copy(out, edges)
	return out
}

// Parents returns the entities e references, in declaration order.
func Parents(e Entity) []Entity {
	var out []Entity
	for _, edge := range edges {
		if edge.Child == e {
			out = append(out, edge.Parent)
		}
	}
	return out
}

// Children returns the entities that reference e, in declaration order.
func Children(e Entity) []Entity {
	var out []Entity
	for _, edge := range edges {
		if edge.Parent == e {
			out = append(out, edge.Child)
		}
	}
	return out
}

// Known reports whether e is one of the six defined entity types.
func Known(e Entity) bool {
	for _, d := range declOrder {
		if d == e {
			return true
		}
	}
	return false
}

// The orderings are computed once at init. The edge set is static, so a
// cycle here is a programming error, not a runtime condition.
var constructive = mustTopoSort()

// mustTopoSort runs Kahn's algorithm over the child->parent edges,
// emitting parents before children. Ties are broken by declaration order
// so the result is total and deterministic.
func mustTopoSort() []Entity {
	index := make(map[Entity]int, len(declOrder))
	for i, e := range declOrder {
		index[e] = i
	}

	// indeg counts unresolved parents per entity.
	indeg := make([]int, len(declOrder))
	children := make([][]int, len(declOrder))
	for _, edge := range edges {
		p, c := index[edge.Parent], index[edge.Child]
		children[p] = append(children[p], c)
		indeg[c]++
	}

	done := make([]bool, len(declOrder))
	order := make([]Entity, 0, len(declOrder))
	for len(order) < len(declOrder) {
		next := -1
		for i := range declOrder {
			if !done[i] && indeg[i] == 0 {
				next = i
				break
			}
		}
		if next == -1 {
			panic(fmt.Sprintf("schema: dependency cycle among entities, ordered %d of %d", len(order), len(declOrder)))
		}
		done[next] = true
		order = append(order, declOrder[next])
		for _, c := range children[next] {
			indeg[c]--
		}
	}
	return order
}
