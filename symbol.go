package bnfsampler

// SymbolKind tags the variants of Symbol described by the data model:
// Terminal, Nonterminal, AnyToken, ExceptLiteral and ExceptNonterminal.
type SymbolKind int

const (
	SymbolTerminal SymbolKind = iota
	SymbolNonterminal
	SymbolAny
	SymbolExceptLiteral
	SymbolExceptNonterminal
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolTerminal:
		return "Terminal"
	case SymbolNonterminal:
		return "Nonterminal"
	case SymbolAny:
		return "AnyToken"
	case SymbolExceptLiteral:
		return "ExceptLiteral"
	case SymbolExceptNonterminal:
		return "ExceptNonterminal"
	default:
		return "Unknown"
	}
}

// Symbol is the tagged value from §3 of the data model. Consecutive literal
// terminals are fused at grammar build time, so every Terminal carries its
// full byte string rather than a single byte or rune.
type Symbol struct {
	Kind SymbolKind

	// Literal holds the terminal bytes for SymbolTerminal and the
	// excluded literal bytes for SymbolExceptLiteral.
	Literal []byte

	// NonterminalID addresses Names/Productions in a Grammar, for
	// SymbolNonterminal and SymbolExceptNonterminal.
	NonterminalID int
}

func Terminal(b []byte) Symbol {
	return Symbol{Kind: SymbolTerminal, Literal: b}
}

func Nonterminal(id int) Symbol {
	return Symbol{Kind: SymbolNonterminal, NonterminalID: id}
}

func AnyToken() Symbol {
	return Symbol{Kind: SymbolAny}
}

func ExceptLiteral(b []byte) Symbol {
	return Symbol{Kind: SymbolExceptLiteral, Literal: b}
}

func ExceptNonterminal(id int) Symbol {
	return Symbol{Kind: SymbolExceptNonterminal, NonterminalID: id}
}

// Production is one ordered alternative: a sequence of Symbols that must
// match in turn for this alternative to be used.
type Production []Symbol

// Grammar is the immutable IR described by §3/§4.A: a mapping from
// nonterminal id to its ordered alternatives, plus the start id. Built once
// by Compile (grammarbuild.go) and shared read-only across every Sampler.
type Grammar struct {
	Start int

	// Names maps a nonterminal id to its source name, used only for
	// diagnostics (error messages, pretty-printing).
	Names []string

	// Productions maps a nonterminal id to its ordered list of
	// alternatives, exactly as declared in the grammar text.
	Productions [][]Production

	nameIndex map[string]int
}

// NonterminalCount returns the number of distinct nonterminals in the
// grammar.
func (g *Grammar) NonterminalCount() int {
	return len(g.Names)
}

// Lookup resolves a nonterminal name to its id.
func (g *Grammar) Lookup(name string) (int, bool) {
	id, ok := g.nameIndex[name]
	return id, ok
}
