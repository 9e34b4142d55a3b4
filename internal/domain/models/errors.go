package models

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation indicates the request was rejected before any write.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound indicates an update or delete referenced an absent transaction.
	ErrNotFound = errors.New("transaction not found")
	// ErrPersistence indicates the store was unreachable or rejected the write.
	ErrPersistence = errors.New("persistence failed")
	// ErrPartialSideEffect indicates the primary write succeeded but the mirror write did not.
	ErrPartialSideEffect = errors.New("financial mirror write failed")
	// ErrProductNotFound is returned by catalog lookups for unknown product ids.
	ErrProductNotFound = errors.New("product not found")
	// ErrNothingToAdjust is returned when a physical count matches the projected stock.
	ErrNothingToAdjust = fmt.Errorf("%w: nothing to adjust", ErrValidation)
)

// Phase names the step of a ledger operation that failed.
type Phase string

const (
	PhaseValidation   Phase = "validation"
	PhasePrimaryWrite Phase = "primary_write"
	PhaseMirrorWrite  Phase = "mirror_write"
	PhaseCatalog      Phase = "catalog_lookup"
)

// LedgerError annotates a failure with the operation and phase it came from.
// It unwraps to both its kind sentinel and the underlying cause.
type LedgerError struct {
	Op    string
	Phase Phase
	Kind  error
	Err   error
}

func (e *LedgerError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Phase, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Phase, e.Err)
}

// Unwrap exposes the kind and cause to errors.Is and errors.As.
func (e *LedgerError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// NewValidationError builds a validation failure with a formatted reason.
func NewValidationError(op, format string, args ...any) *LedgerError {
	return &LedgerError{Op: op, Phase: PhaseValidation, Kind: ErrValidation, Err: fmt.Errorf(format, args...)}
}

// NewNotFoundError reports a missing transaction id.
func NewNotFoundError(op, id string) *LedgerError {
	return &LedgerError{Op: op, Phase: PhasePrimaryWrite, Kind: ErrNotFound, Err: fmt.Errorf("id %s", id)}
}

// NewPersistenceError wraps a store failure.
func NewPersistenceError(op string, err error) *LedgerError {
	return &LedgerError{Op: op, Phase: PhasePrimaryWrite, Kind: ErrPersistence, Err: err}
}

// NewPartialSideEffectError wraps a failed mirror write.
func NewPartialSideEffectError(op string, err error) *LedgerError {
	return &LedgerError{Op: op, Phase: PhaseMirrorWrite, Kind: ErrPartialSideEffect, Err: err}
}

// PhaseOf returns the phase recorded on err, or "" when err carries none.
func PhaseOf(err error) Phase {
	var le *LedgerError
	if errors.As(err, &le) {
		return le.Phase
	}
	return ""
}
