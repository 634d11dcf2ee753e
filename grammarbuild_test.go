package bnfsampler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileValidGrammars(t *testing.T) {
	tests := []struct {
		Name   string
		Source string
	}{
		{Name: "single rule", Source: `<start> ::= 'hello'`},
		{Name: "alternation", Source: `<start> ::= 'A' | 'B'`},
		{Name: "right recursion", Source: "<seq> ::= <any!> | <any!> <seq>"},
		{Name: "comment and blank lines", Source: "# a grammar\n\n<start> ::= 'x'\n"},
		{Name: "except literal", Source: "<start> ::= <except!('ar')> <rest>\n<rest> ::= 'ard'"},
		{Name: "except nonterminal", Source: "<start> ::= <except!([digits])> <rest>\n<digits> ::= '0' | '1'\n<rest> ::= 'z'"},
	}
	for _, tt := range tests {
		t.Run(tt.Name, func(t *testing.T) {
			g, err := Compile(tt.Source, nil)
			require.NoError(t, err)
			assert.NotNil(t, g)
			assert.Greater(t, g.NonterminalCount(), 0)
		})
	}
}

func TestCompileLiteralFusion(t *testing.T) {
	g, err := Compile(`<start> ::= 'ap' 'ple'`, nil)
	require.NoError(t, err)
	prods := g.Productions[g.Start]
	require.Len(t, prods, 1)
	require.Len(t, prods[0], 1)
	assert.Equal(t, SymbolTerminal, prods[0][0].Kind)
	assert.Equal(t, []byte("apple"), prods[0][0].Literal)
}

func TestCompileRejectsUndefinedNonterminal(t *testing.T) {
	_, err := Compile(`<start> ::= <missing>`, nil)
	require.Error(t, err)
	var buildErr *GrammarBuildError
	assert.ErrorAs(t, err, &buildErr)
}

func TestCompileRejectsLeftRecursion(t *testing.T) {
	_, err := Compile("<a> ::= <a> 'x' | 'y'", nil)
	require.Error(t, err)
	var buildErr *GrammarBuildError
	assert.ErrorAs(t, err, &buildErr)
}

func TestCompileAllowsRightRecursion(t *testing.T) {
	_, err := Compile("<a> ::= 'x' <a> | 'y'", nil)
	assert.NoError(t, err)
}

func TestCompileRejectsNestedExceptNonterminal(t *testing.T) {
	src := "<start> ::= <except!([outer])> 'z'\n" +
		"<outer> ::= <except!([inner])>\n" +
		"<inner> ::= 'a'"
	_, err := Compile(src, nil)
	require.Error(t, err)
	var buildErr *GrammarBuildError
	assert.ErrorAs(t, err, &buildErr)
}

func TestCompileRejectsDuplicateRule(t *testing.T) {
	_, err := Compile("<a> ::= 'x'\n<a> ::= 'y'", nil)
	require.Error(t, err)
}

func TestCompileRejectsEmptyLiteral(t *testing.T) {
	_, err := Compile(`<start> ::= ''`, nil)
	assert.Error(t, err)
}
