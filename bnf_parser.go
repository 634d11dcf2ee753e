package bnfsampler

import (
	"fmt"
)

// bnfParser is a hand-rolled recursive-descent reader for the surface
// syntax from spec §6:
//
//	<start> ::= 'lit' <ref> | <any!> | <except!('ar')> <rest>
//	<rest>  ::= <except!([chars])>
//
// It follows the shape of langlang/go/base_parser.go (a cursor over the
// raw source, Peek/expect-style helpers, position-carrying errors) scaled
// down to this much smaller grammar: no backtracking log is needed, because
// every production is chosen by a single lookahead character except the
// check for the start of the next rule (atRuleStart), which snapshots the
// parser and restores it.
type bnfParser struct {
	src    string
	pos    int
	line   int
	column int
}

func newBNFParser(src string) *bnfParser {
	return &bnfParser{src: src, line: 1, column: 1}
}

func (p *bnfParser) errorf(format string, args ...interface{}) error {
	return &GrammarBuildError{
		Rule:    fmt.Sprintf("line %d:%d", p.line, p.column),
		Message: fmt.Sprintf(format, args...),
	}
}

func (p *bnfParser) eof() bool { return p.pos >= len(p.src) }

func (p *bnfParser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.src[p.pos]
}

func (p *bnfParser) peekAt(offset int) byte {
	if p.pos+offset >= len(p.src) {
		return 0
	}
	return p.src[p.pos+offset]
}

func (p *bnfParser) advance() byte {
	c := p.src[p.pos]
	p.pos++
	if c == '\n' {
		p.line++
		p.column = 1
	} else {
		p.column++
	}
	return c
}

func (p *bnfParser) skipWS() {
	for !p.eof() {
		c := p.peek()
		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			p.advance()
		case c == '#':
			for !p.eof() && p.peek() != '\n' {
				p.advance()
			}
		default:
			return
		}
	}
}

func (p *bnfParser) consumeLiteralStr(s string) bool {
	if p.pos+len(s) > len(p.src) {
		return false
	}
	if p.src[p.pos:p.pos+len(s)] != s {
		return false
	}
	for range s {
		p.advance()
	}
	return true
}

// parseGrammar parses every rule in the source and returns them in
// declaration order.
func (p *bnfParser) parseGrammar() ([]*ruleNode, error) {
	var rules []*ruleNode
	p.skipWS()
	for !p.eof() {
		rule, err := p.parseRule()
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
		p.skipWS()
	}
	if len(rules) == 0 {
		return nil, p.errorf("grammar text is empty")
	}
	return rules, nil
}

func (p *bnfParser) parseRule() (*ruleNode, error) {
	name, isSpecial, err := p.parseAngleHead()
	if err != nil {
		return nil, err
	}
	if isSpecial {
		return nil, p.errorf("expected a plain <name> rule head, found a special form")
	}
	p.skipWS()
	if !p.consumeLiteralStr("::=") {
		return nil, p.errorf("expected '::=' after <%s>", name)
	}
	var alts []*sequenceNode
	for {
		seq, err := p.parseSequence()
		if err != nil {
			return nil, err
		}
		alts = append(alts, seq)
		p.skipWS()
		if p.peek() == '|' {
			p.advance()
			continue
		}
		break
	}
	return &ruleNode{Name: name, Alternatives: alts}, nil
}

func (p *bnfParser) parseSequence() (*sequenceNode, error) {
	seq := &sequenceNode{}
	for {
		p.skipWS()
		if p.eof() || p.peek() == '|' {
			break
		}
		if p.atRuleStart() {
			break
		}
		el, err := p.parseElement()
		if err != nil {
			return nil, err
		}
		seq.Elements = append(seq.Elements, el)
	}
	if len(seq.Elements) == 0 {
		return nil, p.errorf("empty alternative (sequences must have at least one element)")
	}
	return seq, nil
}

// atRuleStart reports whether the parser is looking at "<ident>" followed
// by "::=", which marks the start of the *next* rule rather than a
// nonterminal reference inside the current sequence.
func (p *bnfParser) atRuleStart() bool {
	if p.peek() != '<' {
		return false
	}
	save := *p
	defer func() { *p = save }()

	p.advance()
	start := p.pos
	for !p.eof() && isNameByte(p.peek()) {
		p.advance()
	}
	if p.pos == start || p.peek() != '>' {
		return false
	}
	p.advance()
	p.skipWS()
	return p.consumeLiteralStr("::=")
}

func isNameByte(c byte) bool {
	return c == '_' || c == '-' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func (p *bnfParser) parseElement() (elementNode, error) {
	c := p.peek()
	switch {
	case c == '\'' || c == '"':
		b, err := p.parseQuoted()
		if err != nil {
			return nil, err
		}
		return &literalElement{Value: b}, nil
	case c == '<':
		return p.parseAngleElement()
	default:
		return nil, p.errorf("unexpected character %q", c)
	}
}

func (p *bnfParser) parseQuoted() ([]byte, error) {
	quote := p.advance()
	start := p.pos
	for {
		if p.eof() {
			return nil, p.errorf("unterminated string literal")
		}
		c := p.peek()
		if c == '\\' {
			p.advance()
			if p.eof() {
				return nil, p.errorf("dangling escape in string literal")
			}
			p.advance()
			continue
		}
		if c == quote {
			break
		}
		p.advance()
	}
	raw := p.src[start:p.pos]
	p.advance() // closing quote
	return unescapeBytes(raw)
}

// parseAngleHead parses a bare "<ident>" and reports whether it was
// instead a special form (<any!> or <except!...>), which the caller is
// not expecting at this position.
func (p *bnfParser) parseAngleHead() (string, bool, error) {
	if p.peek() != '<' {
		return "", false, p.errorf("expected '<', found %q", p.peek())
	}
	p.advance()
	start := p.pos
	for !p.eof() && isNameByte(p.peek()) {
		p.advance()
	}
	name := p.src[start:p.pos]
	if name == "" {
		return "", false, p.errorf("expected a name after '<'")
	}
	special := p.peek() == '!'
	if special {
		return name, true, nil
	}
	if p.peek() != '>' {
		return "", false, p.errorf("expected '>' to close <%s>", name)
	}
	p.advance()
	return name, false, nil
}

func (p *bnfParser) parseAngleElement() (elementNode, error) {
	start := *p
	name, special, err := p.parseAngleHead()
	if err != nil {
		return nil, err
	}
	if !special {
		return &refElement{Name: name}, nil
	}
	switch name {
	case "any":
		if !p.consumeLiteralStr("!>") {
			return nil, p.errorf("expected '!>' to close <any!>")
		}
		return &anyElement{}, nil
	case "except":
		if !p.consumeLiteralStr("!(") {
			return nil, p.errorf("expected '!(' after <except")
		}
		p.skipWS()
		el, err := p.parseExceptBody()
		if err != nil {
			return nil, err
		}
		p.skipWS()
		if !p.consumeLiteralStr(")>") {
			return nil, p.errorf("expected ')>' to close <except!(...)>")
		}
		return el, nil
	default:
		*p = start
		return nil, p.errorf("unknown special form <%s!...>", name)
	}
}

func (p *bnfParser) parseExceptBody() (elementNode, error) {
	c := p.peek()
	switch {
	case c == '\'' || c == '"':
		b, err := p.parseQuoted()
		if err != nil {
			return nil, err
		}
		return &exceptLiteralElement{Value: b}, nil
	case c == '[':
		p.advance()
		p.skipWS()
		start := p.pos
		for !p.eof() && isNameByte(p.peek()) {
			p.advance()
		}
		name := p.src[start:p.pos]
		if name == "" {
			return nil, p.errorf("expected a nonterminal name inside [...]")
		}
		p.skipWS()
		if p.peek() != ']' {
			return nil, p.errorf("expected ']' to close [%s", name)
		}
		p.advance()
		return &exceptRefElement{Name: name}, nil
	default:
		return nil, p.errorf("expected a quoted literal or [name] inside except!(...)")
	}
}
