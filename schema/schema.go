package schema

import (
	"fmt"
	"strings"
)

// ScalarType is one of the builtin scalar types.
type ScalarType int

// Builtin scalars. The zero value means "not a scalar".
const (
	ScalarInvalid ScalarType = iota
	ScalarString
	ScalarInt
	ScalarFloat
	ScalarBoolean
	ScalarID
)

var scalarNames = map[ScalarType]string{
	ScalarString:  "String",
	ScalarInt:     "Int",
	ScalarFloat:   "Float",
	ScalarBoolean: "Boolean",
	ScalarID:      "ID",
}

// String returns the SDL name of the scalar.
func (s ScalarType) String() string {
	if name, ok := scalarNames[s]; ok {
		return name
	}
	return fmt.Sprintf("ScalarType(%d)", int(s))
}

// LookupScalar maps an SDL name to its builtin scalar type.
func LookupScalar(name string) (ScalarType, bool) {
	for s, n := range scalarNames {
		if n == name {
			return s, true
		}
	}
	return ScalarInvalid, false
}

// RefKind discriminates the three shapes a type reference can take.
type RefKind int

const (
	// RefScalar references a builtin scalar.
	RefScalar RefKind = iota
	// RefNamed references an object type by name.
	RefNamed
	// RefList wraps an element reference as a list.
	RefList
)

// A TypeRef references a scalar, a named object type, or a list thereof,
// optionally marked non-null. Named references hold only the type name;
// they resolve through [Schema.Type].
type TypeRef struct {
	Kind    RefKind
	Scalar  ScalarType // set when Kind is RefScalar
	Named   string     // set when Kind is RefNamed
	Elem    *TypeRef   // set when Kind is RefList
	NonNull bool
}

// ScalarRef returns a reference to a builtin scalar.
func ScalarRef(s ScalarType) *TypeRef {
	return &TypeRef{Kind: RefScalar, Scalar: s}
}

// NamedRef returns a reference to the object type with the given name.
func NamedRef(name string) *TypeRef {
	return &TypeRef{Kind: RefNamed, Named: name}
}

// ListRef returns a list reference wrapping elem.
func ListRef(elem *TypeRef) *TypeRef {
	return &TypeRef{Kind: RefList, Elem: elem}
}

// AsNonNull returns a copy of the reference marked non-null.
func (r *TypeRef) AsNonNull() *TypeRef {
	c := *r
	c.NonNull = true
	return &c
}

// String renders the reference in SDL notation, e.g. "[Character!]!".
func (r *TypeRef) String() string {
	var b strings.Builder
	switch r.Kind {
	case RefScalar:
		b.WriteString(r.Scalar.String())
	case RefNamed:
		b.WriteString(r.Named)
	case RefList:
		b.WriteByte('[')
		b.WriteString(r.Elem.String())
		b.WriteByte(']')
	}
	if r.NonNull {
		b.WriteByte('!')
	}
	return b.String()
}

// A Field is one named, typed field of a type definition.
type Field struct {
	Name string
	Type *TypeRef
}

// A TypeDefinition is one object type: a name and its ordered fields.
type TypeDefinition struct {
	name   string
	fields []*Field
	index  map[string]*Field
}

// NewTypeDefinition builds a type definition. Field names are assumed
// unique; the parser enforces this before construction and
// [Schema.Validate] re-checks it.
func NewTypeDefinition(name string, fields ...*Field) *TypeDefinition {
	td := &TypeDefinition{
		name:   name,
		fields: fields,
		index:  make(map[string]*Field, len(fields)),
	}
	for _, f := range fields {
		td.index[f.Name] = f
	}
	return td
}

// Name returns the type name.
func (t *TypeDefinition) Name() string {
	return t.name
}

// Fields returns the fields in declaration order.
func (t *TypeDefinition) Fields() []*Field {
	return t.fields
}

// Field returns the field with the given name, or nil.
func (t *TypeDefinition) Field(name string) *Field {
	return t.index[name]
}

// A Schema is a fully collected, reference-resolved schema: the type table
// plus the name of the root query type. It is immutable after construction
// and safe for concurrent readers.
type Schema struct {
	types []*TypeDefinition
	index map[string]*TypeDefinition
	query string
}

// New builds a schema from the given root query type name and type
// definitions, preserving declaration order. Invariants (unique type
// names, resolvable references, existing root) are the parser's
// responsibility; Validate re-checks them.
func New(query string, types ...*TypeDefinition) *Schema {
	s := &Schema{
		types: types,
		index: make(map[string]*TypeDefinition, len(types)),
		query: query,
	}
	for _, t := range types {
		s.index[t.name] = t
	}
	return s
}

// Types returns all type definitions in declaration order.
func (s *Schema) Types() []*TypeDefinition {
	return s.types
}

// Type returns the definition of the named type, or nil.
func (s *Schema) Type(name string) *TypeDefinition {
	return s.index[name]
}

// QueryTypeName returns the name of the root query type.
func (s *Schema) QueryTypeName() string {
	return s.query
}

// QueryType returns the definition of the root query type, or nil.
func (s *Schema) QueryType() *TypeDefinition {
	return s.index[s.query]
}

// Resolve returns the definition a named reference points at. It reports
// false for references that do not resolve, which cannot happen for
// parser-produced schemas.
func (s *Schema) Resolve(r *TypeRef) (*TypeDefinition, bool) {
	for r.Kind == RefList {
		r = r.Elem
	}
	if r.Kind != RefNamed {
		return nil, false
	}
	t, ok := s.index[r.Named]
	return t, ok
}

// Validate re-checks the model invariants: type names unique, field names
// unique per type, every named reference resolvable, and the root query
// type present. The parser establishes all of these; Validate exists so
// the code generator can defend against hand-built models.
func (s *Schema) Validate() error {
	seen := make(map[string]bool, len(s.types))
	for _, t := range s.types {
		if seen[t.name] {
			return fmt.Errorf("schema: duplicate type %q", t.name)
		}
		seen[t.name] = true

		fields := make(map[string]bool, len(t.fields))
		for _, f := range t.fields {
			if fields[f.Name] {
				return fmt.Errorf("schema: duplicate field %q on type %q", f.Name, t.name)
			}
			fields[f.Name] = true
			if err := s.validateRef(t.name, f.Name, f.Type); err != nil {
				return err
			}
		}
	}
	if s.index[s.query] == nil {
		return fmt.Errorf("schema: root query type %q is not defined", s.query)
	}
	return nil
}

func (s *Schema) validateRef(typeName, fieldName string, r *TypeRef) error {
	for r.Kind == RefList {
		r = r.Elem
	}
	if r.Kind == RefNamed && s.index[r.Named] == nil {
		return fmt.Errorf("schema: field %s.%s references undefined type %q", typeName, fieldName, r.Named)
	}
	return nil
}
