// Package gen maps a resolved schema model to generated Go source
// implementing a type-safe query DSL.
package gen

import (
	"errors"
	"fmt"
)

// Sentinel errors for the generator's failure classes.
var (
	// ErrInvariant indicates the generator received a model that violates
	// the schema invariants. The parser never produces such a model, so
	// hitting it means a programmer error, not bad user input.
	ErrInvariant = errors.New("typedql: model invariant violated")
	// ErrNaming indicates that two schema names map onto the same
	// generated Go identifier.
	ErrNaming = errors.New("typedql: conflicting generated names")
	// ErrOutput indicates an I/O failure while writing generated files.
	// The caller may retry after resolving the filesystem problem.
	ErrOutput = errors.New("typedql: cannot write generated output")
)

// InvariantError reports a model that failed the defensive re-validation.
type InvariantError struct {
	Cause error
}

// Error returns the error string.
func (e *InvariantError) Error() string {
	return fmt.Sprintf("typedql: model invariant violated: %v", e.Cause)
}

// Unwrap returns the underlying validation error.
func (e *InvariantError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the invariant sentinel.
func (e *InvariantError) Is(target error) bool {
	return target == ErrInvariant
}

// IsInvariant reports whether err is (or wraps) an InvariantError.
func IsInvariant(err error) bool {
	return errors.Is(err, ErrInvariant)
}

// NamingError reports two schema names colliding on one Go identifier.
type NamingError struct {
	Type  string
	Field string
	Ident string
}

// Error returns the error string.
func (e *NamingError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("typedql: field %s.%s collides with another field on generated identifier %q", e.Type, e.Field, e.Ident)
	}
	return fmt.Sprintf("typedql: type %s collides with another type on generated identifier %q", e.Type, e.Ident)
}

// Is reports whether the target matches the naming sentinel.
func (e *NamingError) Is(target error) bool {
	return target == ErrNaming
}

// OutputError reports a failure writing one generated file.
type OutputError struct {
	Path  string
	Cause error
}

// Error returns the error string.
func (e *OutputError) Error() string {
	return fmt.Sprintf("typedql: cannot write generated output %s: %v", e.Path, e.Cause)
}

// Unwrap returns the underlying I/O error.
func (e *OutputError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the output sentinel.
func (e *OutputError) Is(target error) bool {
	return target == ErrOutput
}

// IsOutput reports whether err is (or wraps) an OutputError.
func IsOutput(err error) bool {
	return errors.Is(err, ErrOutput)
}
