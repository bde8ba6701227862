package typedql

// Field identifies a single schema field inside a selection. Generated
// packages declare one Field constant per schema field; they are the
// value-level counterpart of the type-level slot flip performed by the
// generated selection methods.
type Field string

// A SelectionSet is the value-level record of which fields of one schema
// type have been selected. It is kept in lockstep with the type-level slot
// accumulation of the generated builders: the generated method that flips a
// slot to [Value] is also the only code path that adds the matching Field
// here, so the two representations cannot disagree.
//
// Sets are persistent: Add and AddSub return an extended copy and never
// mutate the receiver, so a builder value may be branched into independent
// selections safely.
type SelectionSet struct {
	typeName string
	fields   []selectedField
	index    map[Field]int
}

type selectedField struct {
	name Field
	sub  *SelectionSet
}

// NewSelectionSet returns an empty selection over the given schema type.
func NewSelectionSet(typeName string) *SelectionSet {
	return &SelectionSet{typeName: typeName}
}

// TypeName returns the schema type this selection ranges over.
func (s *SelectionSet) TypeName() string {
	return s.typeName
}

// Fields returns the selected field names in insertion order.
func (s *SelectionSet) Fields() []Field {
	names := make([]Field, len(s.fields))
	for i, f := range s.fields {
		names[i] = f.name
	}
	return names
}

// Sub returns the nested selection recorded for the given field, or nil if
// the field is unselected or scalar.
func (s *SelectionSet) Sub(name Field) *SelectionSet {
	if i, ok := s.index[name]; ok {
		return s.fields[i].sub
	}
	return nil
}

// Len returns the number of selected fields.
func (s *SelectionSet) Len() int {
	return len(s.fields)
}

// Has reports whether the given field is selected.
func (s *SelectionSet) Has(name Field) bool {
	_, ok := s.index[name]
	return ok
}

// Add returns a copy of the selection extended with the given scalar field.
// Adding a field twice is a no-op on the value level, matching the
// idempotent type-level flip.
func (s *SelectionSet) Add(name Field) *SelectionSet {
	return s.add(name, nil)
}

// AddSub returns a copy of the selection extended with the given field and
// its nested sub-selection.
func (s *SelectionSet) AddSub(name Field, sub *SelectionSet) *SelectionSet {
	return s.add(name, sub)
}

func (s *SelectionSet) add(name Field, sub *SelectionSet) *SelectionSet {
	if _, ok := s.index[name]; ok {
		return s
	}
	next := &SelectionSet{
		typeName: s.typeName,
		fields:   make([]selectedField, len(s.fields), len(s.fields)+1),
		index:    make(map[Field]int, len(s.index)+1),
	}
	copy(next.fields, s.fields)
	for k, v := range s.index {
		next.index[k] = v
	}
	next.index[name] = len(next.fields)
	next.fields = append(next.fields, selectedField{name: name, sub: sub})
	return next
}

// A Sub is a finished sub-selection handle, returned by the generated Sub
// method of every non-root builder. The type parameter D carries the
// response data shape of the sub-selection so that the enclosing generated
// select function can thread it into its own result type.
type Sub[D any] struct {
	set *SelectionSet
}

// NewSub wraps a selection set as a sub-selection handle. It is called by
// generated code and rarely useful directly.
func NewSub[D any](set *SelectionSet) Sub[D] {
	return Sub[D]{set: set}
}

// Set returns the underlying selection set.
func (s Sub[D]) Set() *SelectionSet {
	return s.set
}
