package parse

import (
	"errors"
	"fmt"
)

// Sentinel errors for the parser's failure classes. The structured error
// types below match these through errors.Is.
var (
	// ErrSyntax indicates malformed schema text.
	ErrSyntax = errors.New("typedql: syntax error")
	// ErrDuplicate indicates a duplicate type or field definition.
	ErrDuplicate = errors.New("typedql: duplicate definition")
	// ErrUnresolved indicates a field type referencing an undefined name.
	ErrUnresolved = errors.New("typedql: unresolved type")
)

// SyntaxError reports malformed schema text at a position.
type SyntaxError struct {
	Pos Pos
	Msg string
}

// Error returns the error string.
func (e *SyntaxError) Error() string {
	return fmt.Sprintf("typedql: syntax error at %s: %s", e.Pos, e.Msg)
}

// Is reports whether the target matches the syntax sentinel.
func (e *SyntaxError) Is(target error) bool {
	return target == ErrSyntax
}

// NewSyntaxError creates a SyntaxError at the given position.
func NewSyntaxError(pos Pos, format string, args ...any) *SyntaxError {
	return &SyntaxError{Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

// IsSyntaxError reports whether err is (or wraps) a SyntaxError.
func IsSyntaxError(err error) bool {
	return errors.Is(err, ErrSyntax)
}

// DuplicateDefinitionError reports a second definition of an already seen
// name: a type declared twice, a field declared twice within one type, or
// a second schema block.
type DuplicateDefinitionError struct {
	Pos  Pos
	Kind string // "type", "field" or "schema"
	Type string // owning type for field duplicates
	Name string
}

// Error returns the error string.
func (e *DuplicateDefinitionError) Error() string {
	if e.Kind == "field" {
		return fmt.Sprintf("typedql: duplicate field %q on type %q at %s", e.Name, e.Type, e.Pos)
	}
	return fmt.Sprintf("typedql: duplicate %s %q at %s", e.Kind, e.Name, e.Pos)
}

// Is reports whether the target matches the duplicate sentinel.
func (e *DuplicateDefinitionError) Is(target error) bool {
	return target == ErrDuplicate
}

// IsDuplicateDefinition reports whether err is (or wraps) a
// DuplicateDefinitionError.
func IsDuplicateDefinition(err error) bool {
	return errors.Is(err, ErrDuplicate)
}

// UnresolvedTypeError reports a reference to a type name that is not
// defined anywhere in the schema.
type UnresolvedTypeError struct {
	Pos   Pos
	Type  string // type owning the referencing field; empty for the root
	Field string // referencing field; empty for the root
	Name  string // the undefined name
}

// Error returns the error string.
func (e *UnresolvedTypeError) Error() string {
	if e.Type == "" {
		return fmt.Sprintf("typedql: root query type %q is not defined (at %s)", e.Name, e.Pos)
	}
	return fmt.Sprintf("typedql: field %s.%s references undefined type %q at %s", e.Type, e.Field, e.Name, e.Pos)
}

// Is reports whether the target matches the unresolved sentinel.
func (e *UnresolvedTypeError) Is(target error) bool {
	return target == ErrUnresolved
}

// IsUnresolvedType reports whether err is (or wraps) an
// UnresolvedTypeError.
func IsUnresolvedType(err error) bool {
	return errors.Is(err, ErrUnresolved)
}
