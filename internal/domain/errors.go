package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when an entity row doesn't exist.
	ErrNotFound = errors.New("stockledger: not found")

	// ErrConcurrencyConflict is returned when a lock for the item, subtree
	// or restore is already held. Safe to retry.
	ErrConcurrencyConflict = errors.New("stockledger: operation already in flight, try again")
)

// ValidationError reports a missing or inconsistent field. It is raised
// before any mutation is attempted.
type ValidationError struct {
	Entity string
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s.%s: %s", e.Entity, e.Field, e.Reason)
}

// ReferentialIntegrityError reports a write sequence that violates the
// foreign-key ordering. It indicates a schema or orderer bug and is never
// retried.
type ReferentialIntegrityError struct {
	Entity string
	Detail string
}

func (e *ReferentialIntegrityError) Error() string {
	return fmt.Sprintf("referential integrity violation at %s: %s", e.Entity, e.Detail)
}

// StoreError wraps a read or write the underlying store rejected, tagged
// with the phase and entity being processed so partial state is diagnosable.
type StoreError struct {
	Phase  string
	Entity string
	Err    error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store error during %s (%s): %v", e.Phase, e.Entity, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// RestoreShapeError reports an uploaded backup document that is missing or
// malformed. It is raised before any mutation is attempted.
type RestoreShapeError struct {
	Reason string
}

func (e *RestoreShapeError) Error() string {
	return fmt.Sprintf("invalid backup document: %s", e.Reason)
}
