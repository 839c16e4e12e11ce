package schema

import (
	"errors"
	"fmt"
)

// Sentinel errors for every failure a specification build can raise.
// Match them with errors.Is; the concrete value is a *SpecError.
var (
	ErrFormat        = errors.New("date format error")
	ErrOrdering      = errors.New("ordering error")
	ErrFrequency     = errors.New("frequency error")
	ErrCohortCount   = errors.New("cohort count error")
	ErrNoControlSilo = errors.New("no control silo")
	ErrRoster        = errors.New("roster error")
	ErrWindow        = errors.New("observation window error")
	ErrWeighting     = errors.New("weighting error")
)

// SpecError describes a validation failure tied to an optional silo.
type SpecError struct {
	Kind error  // one of the Err* sentinels
	Silo string // offending silo, empty when the failure is roster-wide
	Msg  string
}

// Error implements the error interface.
func (e *SpecError) Error() string {
	if e.Silo != "" {
		return fmt.Sprintf("%v: silo %q: %s", e.Kind, e.Silo, e.Msg)
	}
	return fmt.Sprintf("%v: %s", e.Kind, e.Msg)
}

// Unwrap exposes the sentinel so errors.Is works.
func (e *SpecError) Unwrap() error {
	return e.Kind
}

// NewSpecError builds a roster-wide SpecError.
func NewSpecError(kind error, format string, args ...any) *SpecError {
	return &SpecError{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// NewSiloError builds a SpecError for one silo.
func NewSiloError(kind error, silo string, format string, args ...any) *SpecError {
	return &SpecError{Kind: kind, Silo: silo, Msg: fmt.Sprintf(format, args...)}
}
