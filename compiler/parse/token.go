package parse

import "fmt"

// Pos is a 1-based line/column position in the schema source.
type Pos struct {
	Line   int
	Column int
}

// String renders the position as "line:column".
func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

type tokenKind int

const (
	tokenEOF tokenKind = iota
	tokenName
	tokenLBrace
	tokenRBrace
	tokenLBracket
	tokenRBracket
	tokenColon
	tokenBang
	tokenInvalid
)

func (k tokenKind) String() string {
	switch k {
	case tokenEOF:
		return "end of input"
	case tokenName:
		return "name"
	case tokenLBrace:
		return `"{"`
	case tokenRBrace:
		return `"}"`
	case tokenLBracket:
		return `"["`
	case tokenRBracket:
		return `"]"`
	case tokenColon:
		return `":"`
	case tokenBang:
		return `"!"`
	default:
		return "invalid token"
	}
}

type token struct {
	kind   tokenKind
	source string
	pos    Pos
}

func (t token) String() string {
	if t.kind == tokenName || t.kind == tokenInvalid {
		return fmt.Sprintf("%q", t.source)
	}
	return t.kind.String()
}
