package bnfsampler

import "github.com/coregx/ahocorasick"

// exceptMatcher decides, for a <except!(...)> frame, whether its excluded
// pattern occurs anywhere inside a candidate token's remaining bytes.
//
// spec §8's "Except literal" scenario (`<except!('ar')><rest>`, V =
// {"c","ar","card","cat"}) only makes sense if a token such as "card" -
// whose first byte alone would be a legal prefix before the "ar" boundary
// - is rejected outright rather than split between the except frame and
// <rest>. We resolve the Open Question §9 flags about exact prefix
// semantics by treating each except frame as a whole-token decision: if
// the excluded form occurs anywhere in the bytes under consideration the
// whole token is invalid, otherwise the whole remainder is consumed. This
// keeps a longer vocabulary token from "smuggling" forbidden bytes past
// the exclusion boundary by borrowing the following symbol's match, and it
// reproduces every worked example in spec §8 exactly (see DESIGN.md).
type exceptMatcher struct {
	engine *Engine

	literalAutomata     map[string]*ahocorasick.Automaton
	nonterminalAutomata map[int]*ahocorasick.Automaton
	nonterminalFinite   map[int]bool
}

func newExceptMatcher(e *Engine) *exceptMatcher {
	return &exceptMatcher{
		engine:              e,
		literalAutomata:     make(map[string]*ahocorasick.Automaton),
		nonterminalAutomata: make(map[int]*ahocorasick.Automaton),
		nonterminalFinite:   make(map[int]bool),
	}
}

// occurs reports whether sym's excluded form (a literal or a nonterminal's
// language) appears anywhere in rem.
func (m *exceptMatcher) occurs(sym Symbol, rem []byte) (bool, error) {
	switch sym.Kind {
	case SymbolExceptLiteral:
		auto, err := m.literalAutomaton(sym.Literal)
		if err != nil {
			return false, err
		}
		return auto.IsMatch(rem), nil
	case SymbolExceptNonterminal:
		return m.nonterminalOccurs(sym.NonterminalID, rem)
	default:
		return false, newInternalInvariantError("occurs called with non-except symbol kind %s", sym.Kind)
	}
}

func (m *exceptMatcher) literalAutomaton(pattern []byte) (*ahocorasick.Automaton, error) {
	key := string(pattern)
	if auto, ok := m.literalAutomata[key]; ok {
		return auto, nil
	}
	builder := ahocorasick.NewBuilder()
	builder.AddPattern(pattern)
	auto, err := builder.Build()
	if err != nil {
		return nil, newInternalInvariantError("failed to build exclusion automaton for literal: %v", err)
	}
	m.literalAutomata[key] = auto
	return auto, nil
}

func (m *exceptMatcher) nonterminalOccurs(id int, rem []byte) (bool, error) {
	if auto, ok := m.nonterminalAutomata[id]; ok {
		return auto.IsMatch(rem), nil
	}
	if finite, done := m.nonterminalFinite[id]; done && !finite {
		return m.occursFallback(id, rem)
	}

	cfg := m.engine.cfg
	useAC := cfg == nil || cfg.GetBool("except.use_ahocorasick")
	maxSet := 2048
	maxLen := 64
	if cfg != nil {
		maxSet = cfg.GetInt("except.max_literal_set_size")
		maxLen = cfg.GetInt("except.max_literal_length")
	}

	if useAC {
		literals, ok := literalsOf(m.engine.grammar, id, maxSet, maxLen)
		if ok {
			builder := ahocorasick.NewBuilder()
			for _, lit := range literals {
				builder.AddPattern(lit)
			}
			auto, err := builder.Build()
			if err != nil {
				return false, newInternalInvariantError("failed to build exclusion automaton for nonterminal %s: %v", m.engine.grammar.Names[id], err)
			}
			m.nonterminalAutomata[id] = auto
			return auto.IsMatch(rem), nil
		}
	}
	m.nonterminalFinite[id] = false
	return m.occursFallback(id, rem)
}

// occursFallback covers nonterminals whose language is not a small finite
// literal set (unbounded right recursion, or a form other than plain
// terminals/nonterminals reachable from it): it checks every substring of
// rem against the engine's own matching logic instead of a precomputed
// automaton.
func (m *exceptMatcher) occursFallback(id int, rem []byte) (bool, error) {
	for start := 0; start < len(rem); start++ {
		for end := start + 1; end <= len(rem); end++ {
			ok, err := m.engine.nonterminalDerivesExactly(id, rem[start:end])
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
		}
	}
	return false, nil
}

// literalsOf attempts to enumerate every complete byte string derivable
// from nonterminal id, bailing out (ok=false) if the language is not made
// of plain terminals/nonterminals (e.g. it contains <any!> or another
// except form) or grows past the configured bounds. A grammar's only hard
// guarantee here is that it is not left-recursive (non-goal in spec §5),
// so right recursion can still make this language infinite; the bounds
// are what keep that finite for the fast path, falling back otherwise.
func literalsOf(g *Grammar, id int, maxSet, maxLen int) ([][]byte, bool) {
	if !isPureLiteralGrammar(g, id) {
		return nil, false
	}
	acc := [][]byte{}
	ok := genLiterals(g, []Symbol{Nonterminal(id)}, 0, nil, &acc, maxSet, maxLen, 0)
	if !ok {
		return nil, false
	}
	return acc, true
}

// isPureLiteralGrammar reports whether every symbol reachable from id is a
// Terminal or Nonterminal (no AnyToken or except form anywhere), which is
// required for the nonterminal's language to be describable as a finite
// literal set at all.
func isPureLiteralGrammar(g *Grammar, id int) bool {
	reachable := computeReachable(g, id)
	for other, ok := range reachable {
		if !ok {
			continue
		}
		for _, prod := range g.Productions[other] {
			for _, sym := range prod {
				switch sym.Kind {
				case SymbolTerminal, SymbolNonterminal:
				default:
					return false
				}
			}
		}
	}
	return true
}

func genLiterals(g *Grammar, symbols []Symbol, idx int, prefix []byte, acc *[][]byte, maxSet, maxLen, budget int) bool {
	if budget > maxSet*8 {
		return false
	}
	if idx == len(symbols) {
		if len(*acc) >= maxSet {
			return false
		}
		*acc = append(*acc, append([]byte{}, prefix...))
		return true
	}
	sym := symbols[idx]
	switch sym.Kind {
	case SymbolTerminal:
		if len(prefix)+len(sym.Literal) > maxLen {
			return false
		}
		return genLiterals(g, symbols, idx+1, append(prefix, sym.Literal...), acc, maxSet, maxLen, budget+1)
	case SymbolNonterminal:
		for _, prod := range g.Productions[sym.NonterminalID] {
			expanded := make([]Symbol, 0, len(prod)+len(symbols)-idx-1)
			expanded = append(expanded, prod...)
			expanded = append(expanded, symbols[idx+1:]...)
			if !genLiterals(g, expanded, 0, prefix, acc, maxSet, maxLen, budget+1) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
