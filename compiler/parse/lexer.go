package parse

// lexer splits schema source into tokens, tracking line/column positions.
// Commas and comments are treated as whitespace, as in the GraphQL
// specification.
type lexer struct {
	input string
	off   int
	pos   Pos
}

func newLexer(input string) *lexer {
	return &lexer{input: input, pos: Pos{Line: 1, Column: 1}}
}

// lex tokenizes the whole input. Unrecognized bytes become single
// tokenInvalid tokens; the parser turns the first of those into a
// SyntaxError.
func lex(input string) []token {
	l := newLexer(input)
	var tokens []token
	for {
		tok := l.next()
		tokens = append(tokens, tok)
		if tok.kind == tokenEOF {
			return tokens
		}
	}
}

func (l *lexer) next() token {
	l.skipIgnored()
	start := l.pos
	if l.off >= len(l.input) {
		return token{kind: tokenEOF, pos: start}
	}
	switch c := l.input[l.off]; {
	case c == '{':
		return token{kind: tokenLBrace, source: l.consume(1), pos: start}
	case c == '}':
		return token{kind: tokenRBrace, source: l.consume(1), pos: start}
	case c == '[':
		return token{kind: tokenLBracket, source: l.consume(1), pos: start}
	case c == ']':
		return token{kind: tokenRBracket, source: l.consume(1), pos: start}
	case c == ':':
		return token{kind: tokenColon, source: l.consume(1), pos: start}
	case c == '!':
		return token{kind: tokenBang, source: l.consume(1), pos: start}
	case isNameStart(c):
		n := 1
		for l.off+n < len(l.input) && isNameContinue(l.input[l.off+n]) {
			n++
		}
		return token{kind: tokenName, source: l.consume(n), pos: start}
	default:
		return token{kind: tokenInvalid, source: l.consume(1), pos: start}
	}
}

func (l *lexer) skipIgnored() {
	for l.off < len(l.input) {
		switch l.input[l.off] {
		case ' ', '\t', '\r', ',', '\n':
			l.consume(1)
		case '#':
			for l.off < len(l.input) && l.input[l.off] != '\n' {
				l.consume(1)
			}
		default:
			return
		}
	}
}

func (l *lexer) consume(n int) string {
	s := l.input[l.off : l.off+n]
	for i := 0; i < n; i++ {
		if s[i] == '\n' {
			l.pos.Line++
			l.pos.Column = 1
		} else {
			l.pos.Column++
		}
	}
	l.off += n
	return s
}

func isNameStart(c byte) bool {
	return c == '_' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func isNameContinue(c byte) bool {
	return isNameStart(c) || ('0' <= c && c <= '9')
}
