package schema

import (
	"fmt"

	"github.com/mvallbona/stockledger/internal/domain"
)

// Direction selects which of the two safe total orderings to use for a
// bulk operation.
type Direction int

const (
	// Destructive orders children before parents; safe for bulk delete.
	Destructive Direction = iota
	// Constructive orders parents before children; safe for bulk insert.
	Constructive
)

func (d Direction) String() string {
	if d == Destructive {
		return "destructive"
	}
	return "constructive"
}

// Order returns the deterministic total ordering over all six entity
// types for the given direction. The result is a fresh slice.
func Order(d Direction) []Entity {
	out := make([]Entity, len(constructive))
	copy(out, constructive)
	if d == Destructive {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return out
}

// DestructiveOrder returns children-before-parents ordering for deletes.
func DestructiveOrder() []Entity { return Order(Destructive) }

// ConstructiveOrder returns parents-before-children ordering for inserts.
func ConstructiveOrder() []Entity { return Order(Constructive) }

// VerifyOrder checks that seq respects the foreign-key ordering for the
// given direction before any write is attempted. Entities absent from seq
// are ignored; a violation returns a ReferentialIntegrityError, which
// callers treat as fatal.
func VerifyOrder(d Direction, seq []Entity) error {
	pos := make(map[Entity]int, len(seq))
	for i, e := range seq {
		if !Known(e) {
			return &domain.ReferentialIntegrityError{
				Entity: string(e),
				Detail: "unknown entity type in write sequence",
			}
		}
		if prev, dup := pos[e]; dup {
			return &domain.ReferentialIntegrityError{
				Entity: string(e),
				Detail: fmt.Sprintf("entity appears twice in write sequence (positions %d and %d)", prev, i),
			}
		}
		pos[e] = i
	}

	for _, edge := range edges {
		ci, cok := pos[edge.Child]
		pi, pok := pos[edge.Parent]
		if !cok || !pok {
			continue
		}
		switch d {
		case Destructive:
			if ci > pi {
				return &domain.ReferentialIntegrityError{
					Entity: string(edge.Parent),
					Detail: fmt.Sprintf("%s would be deleted before dependent %s", edge.Parent, edge.Child),
				}
			}
		case Constructive:
			if pi > ci {
				return &domain.ReferentialIntegrityError{
					Entity: string(edge.Child),
					Detail: fmt.Sprintf("%s would be inserted before referenced %s", edge.Child, edge.Parent),
				}
			}
		}
	}
	return nil
}
