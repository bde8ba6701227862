package typedql

import (
	"errors"
	"fmt"
	"strings"
)

// Standard sentinel errors for the client runtime.
var (
	// ErrNoTransport is returned by Send when the client has no transport.
	ErrNoTransport = errors.New("typedql: client has no transport")
)

// Error is one GraphQL error object reported by the server.
type Error struct {
	Message string `json:"message"`
	Path    []any  `json:"path,omitempty"`
}

// Error returns the error string.
func (e Error) Error() string {
	if len(e.Path) == 0 {
		return fmt.Sprintf("typedql: server error: %s", e.Message)
	}
	parts := make([]string, len(e.Path))
	for i, p := range e.Path {
		parts[i] = fmt.Sprint(p)
	}
	return fmt.Sprintf("typedql: server error at %s: %s", strings.Join(parts, "."), e.Message)
}

// Errors is the list of GraphQL errors carried by one response.
type Errors []Error

// Error returns the error string of all contained errors.
func (e Errors) Error() string {
	switch len(e) {
	case 0:
		return "typedql: no errors"
	case 1:
		return e[0].Error()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "typedql: %d server errors:", len(e))
	for _, err := range e {
		b.WriteString("\n\t")
		b.WriteString(err.Message)
	}
	return b.String()
}
