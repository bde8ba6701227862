package typedql

import (
	"strings"

	"github.com/google/uuid"
)

// A Request is the value-level descriptor of one query: which fields were
// requested, rooted at the schema's query type. It is what a [Transport]
// serializes onto the wire; the type-level selection tracking never reaches
// the network.
type Request struct {
	// ID identifies one dispatch of the request, for transports and logs.
	ID uuid.UUID
	// OperationName is the optional GraphQL operation name.
	OperationName string

	root *SelectionSet
}

// Selection returns the root selection set of the request.
func (r *Request) Selection() *SelectionSet {
	return r.root
}

// Query renders the request as GraphQL query text. Fields appear in the
// order they were selected; rendering the same request twice yields
// identical text.
func (r *Request) Query() string {
	var b strings.Builder
	b.WriteString("query")
	if r.OperationName != "" {
		b.WriteByte(' ')
		b.WriteString(r.OperationName)
	}
	b.WriteByte(' ')
	writeSet(&b, r.root)
	return b.String()
}

func writeSet(b *strings.Builder, set *SelectionSet) {
	b.WriteByte('{')
	for i, f := range set.fields {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(string(f.name))
		if f.sub != nil {
			b.WriteByte(' ')
			writeSet(b, f.sub)
		}
	}
	b.WriteByte('}')
}

// An Operation pairs a finished request with the response data shape D it
// decodes into. The generated Build method of the root selection builder is
// the only producer, which keeps D and the request in lockstep.
type Operation[D any] struct {
	req Request
}

// NewOperation wraps a root selection set as an executable operation. It is
// called by generated code.
func NewOperation[D any](root *SelectionSet) Operation[D] {
	return Operation[D]{req: Request{ID: uuid.New(), root: root}}
}

// WithOperationName returns a copy of the operation with the given GraphQL
// operation name.
func (op Operation[D]) WithOperationName(name string) Operation[D] {
	op.req.OperationName = name
	return op
}

// Request returns the request descriptor of the operation.
func (op Operation[D]) Request() *Request {
	return &op.req
}
