package bnfsampler

import "fmt"

// Compile parses BNF source (spec §6) and lowers it into the Grammar IR
// (§3/§4.A), performing every build-time check §4.A requires: undefined
// nonterminal references, left recursion (via the left-corner closure),
// and except-nonterminal nesting. It mirrors the two-phase shape of
// langlang's GrammarFromBytes -> compile pipeline in api.go: parse to an
// AST first, then walk the AST with a builder that resolves names and
// validates invariants.
func Compile(src string, cfg *Config) (*Grammar, error) {
	rules, err := newBNFParser(src).parseGrammar()
	if err != nil {
		return nil, err
	}

	b := &grammarBuilder{nameIndex: make(map[string]int)}
	for _, r := range rules {
		if _, exists := b.nameIndex[r.Name]; exists {
			return nil, &GrammarBuildError{Rule: r.Name, Message: "nonterminal declared more than once"}
		}
		id := len(b.names)
		b.names = append(b.names, r.Name)
		b.nameIndex[r.Name] = id
	}

	g := &Grammar{
		Start:       0,
		Names:       b.names,
		Productions: make([][]Production, len(b.names)),
		nameIndex:   b.nameIndex,
	}

	for i, r := range rules {
		prods := make([]Production, 0, len(r.Alternatives))
		for _, seq := range r.Alternatives {
			prod, err := b.buildSequence(seq)
			if err != nil {
				return nil, err
			}
			prods = append(prods, prod)
		}
		g.Productions[i] = prods
	}

	if err := checkLeftRecursion(g); err != nil {
		return nil, err
	}
	if err := checkExceptNonterminalNesting(g); err != nil {
		return nil, err
	}
	return g, nil
}

type grammarBuilder struct {
	names     []string
	nameIndex map[string]int
}

// buildSequence lowers one alternative's elements into a Production,
// resolving nonterminal names and fusing adjacent literal terminals the way
// the builder's invariant requires (a literal immediately followed by
// another literal in the same sequence collapses into one Terminal
// symbol).
func (b *grammarBuilder) buildSequence(seq *sequenceNode) (Production, error) {
	var prod Production
	for _, el := range seq.Elements {
		sym, err := b.buildElement(el)
		if err != nil {
			return nil, err
		}
		if sym.Kind == SymbolTerminal && len(prod) > 0 && prod[len(prod)-1].Kind == SymbolTerminal {
			last := &prod[len(prod)-1]
			last.Literal = append(append([]byte{}, last.Literal...), sym.Literal...)
			continue
		}
		prod = append(prod, sym)
	}
	return prod, nil
}

func (b *grammarBuilder) buildElement(el elementNode) (Symbol, error) {
	bld := &elementBuilder{b: b}
	if err := el.Accept(bld); err != nil {
		return Symbol{}, err
	}
	return bld.out, nil
}

// elementBuilder implements elementVisitor (bnf_ast.go) to turn one AST
// element into one Symbol, resolving nonterminal names against the
// builder's name table.
type elementBuilder struct {
	b   *grammarBuilder
	out Symbol
}

func (eb *elementBuilder) VisitLiteral(n *literalElement) error {
	if len(n.Value) == 0 {
		return &GrammarBuildError{Message: "empty string literals are not allowed"}
	}
	eb.out = Terminal(n.Value)
	return nil
}

func (eb *elementBuilder) VisitRef(n *refElement) error {
	id, ok := eb.b.nameIndex[n.Name]
	if !ok {
		return &GrammarBuildError{Rule: n.Name, Message: "reference to undefined nonterminal"}
	}
	eb.out = Nonterminal(id)
	return nil
}

func (eb *elementBuilder) VisitAny(n *anyElement) error {
	eb.out = AnyToken()
	return nil
}

func (eb *elementBuilder) VisitExceptLiteral(n *exceptLiteralElement) error {
	if len(n.Value) == 0 {
		return &GrammarBuildError{Message: "<except!('')> excludes nothing; this is almost certainly a mistake"}
	}
	eb.out = ExceptLiteral(n.Value)
	return nil
}

func (eb *elementBuilder) VisitExceptRef(n *exceptRefElement) error {
	id, ok := eb.b.nameIndex[n.Name]
	if !ok {
		return &GrammarBuildError{Rule: n.Name, Message: "<except!([...])> refers to an undefined nonterminal"}
	}
	eb.out = ExceptNonterminal(id)
	return nil
}

// checkLeftRecursion computes, for every nonterminal, the set of
// nonterminals reachable as a "left corner" (the leading nonterminal of
// some alternative, transitively) and fails if a nonterminal is in its own
// left-corner set. Left recursion is a Non-goal (spec §5) so it is rejected
// at build time instead of causing the engine to diverge at runtime.
func checkLeftRecursion(g *Grammar) error {
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make([]int, len(g.Names))

	var visit func(id int) error
	visit = func(id int) error {
		switch color[id] {
		case gray:
			return &GrammarBuildError{Rule: g.Names[id], Message: "left-recursive cycle through this nonterminal"}
		case black:
			return nil
		}
		color[id] = gray
		for _, prod := range g.Productions[id] {
			if len(prod) == 0 {
				continue
			}
			first := prod[0]
			if first.Kind == SymbolNonterminal {
				if err := visit(first.NonterminalID); err != nil {
					return err
				}
			}
		}
		color[id] = black
		return nil
	}

	for id := range g.Names {
		if color[id] == white {
			if err := visit(id); err != nil {
				return err
			}
		}
	}
	return nil
}

// checkExceptNonterminalNesting enforces invariant (iv) from §4.A: for
// every ExceptNonterminal(n) symbol in the grammar, none of the
// productions reachable from n may themselves contain an
// ExceptNonterminal symbol. This keeps except.go's finite-literal-set
// fast path (and its recursive fallback) from having to reason about
// exclusions nested inside exclusions.
func checkExceptNonterminalNesting(g *Grammar) error {
	reachable := make([][]bool, len(g.Names))
	for id := range g.Names {
		reachable[id] = computeReachable(g, id)
	}

	for id, prods := range g.Productions {
		for _, prod := range prods {
			for _, sym := range prod {
				if sym.Kind != SymbolExceptNonterminal {
					continue
				}
				n := sym.NonterminalID
				for other := range g.Names {
					if !reachable[n][other] {
						continue
					}
					for _, p2 := range g.Productions[other] {
						for _, s2 := range p2 {
							if s2.Kind == SymbolExceptNonterminal {
								return &GrammarBuildError{
									Rule: g.Names[id],
									Message: fmt.Sprintf(
										"<except!([%s])> is not allowed: %s transitively contains another except form (%s)",
										g.Names[n], g.Names[n], g.Names[other]),
								}
							}
						}
					}
				}
			}
		}
	}
	return nil
}

func computeReachable(g *Grammar, start int) []bool {
	seen := make([]bool, len(g.Names))
	var stack []int
	seen[start] = true
	stack = append(stack, start)
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, prod := range g.Productions[id] {
			for _, sym := range prod {
				var next int
				switch sym.Kind {
				case SymbolNonterminal, SymbolExceptNonterminal:
					next = sym.NonterminalID
				default:
					continue
				}
				if !seen[next] {
					seen[next] = true
					stack = append(stack, next)
				}
			}
		}
	}
	return seen
}
