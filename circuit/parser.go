//
// Copyright (c) 2019-2021 Markku Rossi
//
// All rights reserved.
//

package circuit

import (
	"strings"
	"unicode"

	"github.com/nachonavarro/gabes/gabeserr"
)

// Parse reads a circuit program in the gabes grammar:
//
//	GATE(type, identifier, <left>, <right>)
//
// where <left>/<right> is either a bare wire identifier or a nested
// GATE(...). NOT takes a single child and no trailing comma. Parsing
// fails with a *gabeserr.ParseError on any malformed input.
func Parse(src string) (*Circuit, error) {
	p := &parser{toks: tokenize(src)}
	root, err := p.parseGate()
	if err != nil {
		return nil, err
	}
	if p.pos != len(p.toks) {
		return nil, gabeserr.NewParseError("unexpected trailing input after gate %q", root.Identifier)
	}

	c := &Circuit{Root: root}
	seen := map[string]bool{}
	collectInputs(root, seen, &c.Inputs)
	return c, nil
}

type token struct {
	kind token_kind
	text string
}

type token_kind int

const (
	tokIdent token_kind = iota
	tokLParen
	tokRParen
	tokComma
)

func tokenize(src string) []token {
	var toks []token
	var buf strings.Builder
	flush := func() {
		if buf.Len() > 0 {
			toks = append(toks, token{kind: tokIdent, text: buf.String()})
			buf.Reset()
		}
	}
	for _, r := range src {
		switch {
		case r == '(':
			flush()
			toks = append(toks, token{kind: tokLParen})
		case r == ')':
			flush()
			toks = append(toks, token{kind: tokRParen})
		case r == ',':
			flush()
			toks = append(toks, token{kind: tokComma})
		case unicode.IsSpace(r):
			flush()
		default:
			buf.WriteRune(r)
		}
	}
	flush()
	return toks
}

type parser struct {
	toks []token
	pos  int
	next int
}

func (p *parser) peek() (token, bool) {
	if p.pos >= len(p.toks) {
		return token{}, false
	}
	return p.toks[p.pos], true
}

func (p *parser) expect(kind token_kind, what string) (token, error) {
	t, ok := p.peek()
	if !ok || t.kind != kind {
		return token{}, gabeserr.NewParseError("expected %s", what)
	}
	p.pos++
	return t, nil
}

// parseGate parses `GATE(type, identifier, <left>[, <right>])`.
func (p *parser) parseGate() (*Gate, error) {
	kw, err := p.expect(tokIdent, "gate type keyword")
	if err != nil {
		return nil, err
	}
	if kw.text != "GATE" {
		return nil, gabeserr.NewParseError("expected GATE, got %q", kw.text)
	}
	if _, err := p.expect(tokLParen, "'(' after GATE"); err != nil {
		return nil, err
	}

	typeTok, err := p.expect(tokIdent, "gate type")
	if err != nil {
		return nil, err
	}
	op, err := ParseOperation(typeTok.text)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokComma, "',' after gate type"); err != nil {
		return nil, err
	}

	idTok, err := p.expect(tokIdent, "gate identifier")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokComma, "',' after gate identifier"); err != nil {
		return nil, err
	}

	left, err := p.parseChild()
	if err != nil {
		return nil, err
	}

	g := &Gate{ID: p.nextID(), Identifier: idTok.text, Op: op, Left: left}

	if op.Arity() == 2 {
		if _, err := p.expect(tokComma, "',' before right operand"); err != nil {
			return nil, err
		}
		right, err := p.parseChild()
		if err != nil {
			return nil, err
		}
		g.Right = right
	}

	if _, err := p.expect(tokRParen, "')' closing GATE"); err != nil {
		return nil, err
	}
	return g, nil
}

func (p *parser) nextID() int {
	id := p.next
	p.next++
	return id
}

// parseChild parses either a bare identifier or a nested GATE(...).
func (p *parser) parseChild() (Node, error) {
	t, ok := p.peek()
	if !ok {
		return Node{}, gabeserr.NewParseError("unexpected end of input, expected operand")
	}
	if t.kind == tokIdent && t.text == "GATE" {
		g, err := p.parseGate()
		if err != nil {
			return Node{}, err
		}
		return sub(g), nil
	}
	if t.kind != tokIdent {
		return Node{}, gabeserr.NewParseError("expected wire identifier or GATE(...), got %q", t.text)
	}
	p.pos++
	return leaf(t.text), nil
}
