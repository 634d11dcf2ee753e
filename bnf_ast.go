package bnfsampler

// This file mirrors the shape of langlang/go/grammar_ast.go and
// grammar_ast_visitor.go: every node implements Accept against a small
// visitor interface instead of exposing its fields to every caller. The
// grammar here is far smaller than PEG's, so there is one visitor with one
// method per element kind rather than langlang's larger node set.

// ruleNode is one `<name> ::= alt | alt | ...` declaration.
type ruleNode struct {
	Name         string
	Alternatives []*sequenceNode
}

// sequenceNode is one alternative: a juxtaposed run of elements.
type sequenceNode struct {
	Elements []elementNode
}

// elementNode is the AST counterpart of Symbol, before nonterminal names
// have been resolved to dense ids and left-recursion has been checked.
type elementNode interface {
	Accept(v elementVisitor) error
}

type elementVisitor interface {
	VisitLiteral(n *literalElement) error
	VisitRef(n *refElement) error
	VisitAny(n *anyElement) error
	VisitExceptLiteral(n *exceptLiteralElement) error
	VisitExceptRef(n *exceptRefElement) error
}

type literalElement struct{ Value []byte }

func (n *literalElement) Accept(v elementVisitor) error { return v.VisitLiteral(n) }

type refElement struct{ Name string }

func (n *refElement) Accept(v elementVisitor) error { return v.VisitRef(n) }

type anyElement struct{}

func (n *anyElement) Accept(v elementVisitor) error { return v.VisitAny(n) }

type exceptLiteralElement struct{ Value []byte }

func (n *exceptLiteralElement) Accept(v elementVisitor) error { return v.VisitExceptLiteral(n) }

type exceptRefElement struct{ Name string }

func (n *exceptRefElement) Accept(v elementVisitor) error { return v.VisitExceptRef(n) }
