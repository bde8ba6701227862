// Package parse turns GraphQL schema definition text into a validated,
// reference-resolved schema model.
//
// The parser is a small recursive descent over an explicit grammar for the
// supported SDL subset:
//
//	document  := (schemaDef | typeDef)*
//	schemaDef := "schema" "{" "query" ":" Name "}"
//	typeDef   := "type" Name "{" fieldDef* "}"
//	fieldDef  := Name ":" typeRef
//	typeRef   := (Name | "[" typeRef "]") "!"?
//
// Syntax errors fail fast with the offending position. Semantic errors
// (duplicate definitions, unresolved type references) are accumulated over
// the whole document and returned joined, so one run reports every
// problem. Reference resolution runs after all types are collected, so
// forward, self and mutual references are legal. On any error the parser
// returns no model at all.
package parse

import (
	"errors"
	"fmt"

	"github.com/syssam/typedql/schema"
)

// Parse parses schema source text into a schema model.
func Parse(src string) (*schema.Schema, error) {
	p := &parser{tokens: lex(src)}
	doc, err := p.document()
	if err != nil {
		return nil, err
	}
	return analyze(doc)
}

type parser struct {
	tokens []token
	i      int
}

// Raw, position-carrying shapes produced by the syntactic pass. The
// semantic pass in analyze turns them into the schema model.
type (
	document struct {
		schemas []rawSchema
		types   []rawType
	}

	rawSchema struct {
		pos   Pos
		query string
	}

	rawType struct {
		pos    Pos
		name   string
		fields []rawField
	}

	rawField struct {
		pos  Pos
		name string
		typ  *schema.TypeRef
		ref  namedRef // the named type the field references, if any
	}

	namedRef struct {
		pos  Pos
		name string
	}
)

func (p *parser) peek() token {
	return p.tokens[p.i]
}

func (p *parser) next() token {
	tok := p.tokens[p.i]
	if tok.kind != tokenEOF {
		p.i++
	}
	return tok
}

func (p *parser) expect(kind tokenKind) (token, error) {
	tok := p.next()
	if tok.kind != kind {
		return tok, unexpected(tok, kind.String())
	}
	return tok, nil
}

func (p *parser) expectKeyword(word string) (token, error) {
	tok := p.next()
	if tok.kind != tokenName || tok.source != word {
		return tok, unexpected(tok, fmt.Sprintf("%q", word))
	}
	return tok, nil
}

// unexpected builds the syntax error for an out-of-place token. Bytes the
// lexer could not tokenize get their own message regardless of what the
// grammar wanted at that point.
func unexpected(tok token, want string) *SyntaxError {
	if tok.kind == tokenInvalid {
		return NewSyntaxError(tok.pos, "unrecognized symbol %s", tok)
	}
	return NewSyntaxError(tok.pos, "expected %s, found %s", want, tok)
}

func (p *parser) document() (*document, error) {
	doc := new(document)
	for {
		tok := p.peek()
		switch {
		case tok.kind == tokenEOF:
			return doc, nil
		case tok.kind == tokenName && tok.source == "type":
			td, err := p.typeDef()
			if err != nil {
				return nil, err
			}
			doc.types = append(doc.types, td)
		case tok.kind == tokenName && tok.source == "schema":
			sd, err := p.schemaDef()
			if err != nil {
				return nil, err
			}
			doc.schemas = append(doc.schemas, sd)
		case tok.kind == tokenInvalid:
			return nil, NewSyntaxError(tok.pos, "unrecognized symbol %s", tok)
		default:
			return nil, NewSyntaxError(tok.pos, "expected type or schema definition, found %s", tok)
		}
	}
}

func (p *parser) schemaDef() (rawSchema, error) {
	kw, _ := p.expectKeyword("schema")
	sd := rawSchema{pos: kw.pos}
	if _, err := p.expect(tokenLBrace); err != nil {
		return sd, err
	}
	if _, err := p.expectKeyword("query"); err != nil {
		return sd, err
	}
	if _, err := p.expect(tokenColon); err != nil {
		return sd, err
	}
	name, err := p.expect(tokenName)
	if err != nil {
		return sd, err
	}
	sd.query = name.source
	_, err = p.expect(tokenRBrace)
	return sd, err
}

func (p *parser) typeDef() (rawType, error) {
	p.expectKeyword("type")
	name, err := p.expect(tokenName)
	if err != nil {
		return rawType{}, err
	}
	td := rawType{pos: name.pos, name: name.source}
	if _, err := p.expect(tokenLBrace); err != nil {
		return td, err
	}
	for {
		tok := p.peek()
		switch tok.kind {
		case tokenRBrace:
			p.next()
			return td, nil
		case tokenName:
			f, err := p.fieldDef()
			if err != nil {
				return td, err
			}
			td.fields = append(td.fields, f)
		default:
			return td, unexpected(tok, `field name or "}"`)
		}
	}
}

func (p *parser) fieldDef() (rawField, error) {
	name := p.next()
	f := rawField{pos: name.pos, name: name.source}
	if _, err := p.expect(tokenColon); err != nil {
		return f, err
	}
	typ, ref, err := p.typeRef()
	if err != nil {
		return f, err
	}
	f.typ, f.ref = typ, ref
	return f, nil
}

func (p *parser) typeRef() (*schema.TypeRef, namedRef, error) {
	tok := p.next()
	var (
		ref  *schema.TypeRef
		nref namedRef
	)
	switch tok.kind {
	case tokenName:
		if s, ok := schema.LookupScalar(tok.source); ok {
			ref = schema.ScalarRef(s)
		} else {
			ref = schema.NamedRef(tok.source)
			nref = namedRef{pos: tok.pos, name: tok.source}
		}
	case tokenLBracket:
		elem, n, err := p.typeRef()
		if err != nil {
			return nil, nref, err
		}
		if _, err := p.expect(tokenRBracket); err != nil {
			return nil, nref, err
		}
		ref, nref = schema.ListRef(elem), n
	default:
		return nil, nref, unexpected(tok, "type reference")
	}
	if p.peek().kind == tokenBang {
		p.next()
		ref = ref.AsNonNull()
	}
	return ref, nref, nil
}

// analyze is the semantic pass: duplicate detection while collecting the
// type table, then reference resolution over the fully collected table.
func analyze(doc *document) (*schema.Schema, error) {
	var errs []error

	table := make(map[string]rawType, len(doc.types))
	var order []rawType
	for _, rt := range doc.types {
		if _, builtin := schema.LookupScalar(rt.name); builtin {
			errs = append(errs, &DuplicateDefinitionError{Pos: rt.pos, Kind: "type", Name: rt.name})
			continue
		}
		if _, ok := table[rt.name]; ok {
			errs = append(errs, &DuplicateDefinitionError{Pos: rt.pos, Kind: "type", Name: rt.name})
			continue
		}

		seen := make(map[string]bool, len(rt.fields))
		fields := rt.fields[:0:0]
		for _, f := range rt.fields {
			if seen[f.name] {
				errs = append(errs, &DuplicateDefinitionError{Pos: f.pos, Kind: "field", Type: rt.name, Name: f.name})
				continue
			}
			seen[f.name] = true
			fields = append(fields, f)
		}
		rt.fields = fields
		table[rt.name] = rt
		order = append(order, rt)
	}

	root := namedRef{pos: Pos{Line: 1, Column: 1}, name: "Query"}
	for i, sd := range doc.schemas {
		if i > 0 {
			errs = append(errs, &DuplicateDefinitionError{Pos: sd.pos, Kind: "schema", Name: "schema"})
			continue
		}
		root = namedRef{pos: sd.pos, name: sd.query}
	}

	for _, rt := range order {
		for _, f := range rt.fields {
			if f.ref.name == "" {
				continue
			}
			if _, ok := table[f.ref.name]; !ok {
				errs = append(errs, &UnresolvedTypeError{Pos: f.ref.pos, Type: rt.name, Field: f.name, Name: f.ref.name})
			}
		}
	}
	if _, ok := table[root.name]; !ok {
		errs = append(errs, &UnresolvedTypeError{Pos: root.pos, Name: root.name})
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	types := make([]*schema.TypeDefinition, len(order))
	for i, rt := range order {
		fields := make([]*schema.Field, len(rt.fields))
		for j, f := range rt.fields {
			fields[j] = &schema.Field{Name: f.name, Type: f.typ}
		}
		types[i] = schema.NewTypeDefinition(rt.name, fields...)
	}
	return schema.New(root.name, types...), nil
}
