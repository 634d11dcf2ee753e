package bnfsampler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// admissibleLabels turns a tokenset into the sorted-by-id set of token
// strings, for easy comparison against a worked example's expected set.
func admissibleLabels(t *testing.T, sampler *Sampler, vocab *Vocabulary) []string {
	t.Helper()
	set, err := sampler.AllPossibleTokens()
	require.NoError(t, err)
	var labels []string
	for _, id := range set.Slice() {
		labels = append(labels, string(vocab.Tokens[id]))
	}
	return labels
}

func mustCompile(t *testing.T, src string) *Grammar {
	t.Helper()
	g, err := Compile(src, nil)
	require.NoError(t, err)
	return g
}

func mustVocab(t *testing.T, tokens ...string) *Vocabulary {
	t.Helper()
	return vocabOf(tokens...)
}

func acceptByText(t *testing.T, sampler *Sampler, vocab *Vocabulary, text string) error {
	t.Helper()
	for id, tok := range vocab.Tokens {
		if string(tok) == text {
			return sampler.AcceptToken(id)
		}
	}
	t.Fatalf("vocabulary has no token %q", text)
	return nil
}

// TestExactSequence covers the "Exact sequence" scenario from §8.
func TestExactSequence(t *testing.T) {
	g := mustCompile(t, "<start> ::= <A> <B> <C>\n<A> ::= 'boy'\n<B> ::= 'next'\n<C> ::= 'door'")
	vocab := mustVocab(t, "boy", "next", "door", "cat")
	sampler := New(g, vocab, nil)

	assert.ElementsMatch(t, []string{"boy"}, admissibleLabels(t, sampler, vocab))

	require.NoError(t, acceptByText(t, sampler, vocab, "boy"))
	assert.ElementsMatch(t, []string{"next"}, admissibleLabels(t, sampler, vocab))

	require.NoError(t, acceptByText(t, sampler, vocab, "next"))
	assert.ElementsMatch(t, []string{"door"}, admissibleLabels(t, sampler, vocab))

	require.NoError(t, acceptByText(t, sampler, vocab, "door"))
	assert.True(t, sampler.IsTerminated())

	err := acceptByText(t, sampler, vocab, "cat")
	require.Error(t, err)
	var terminated *SamplerTerminated
	assert.ErrorAs(t, err, &terminated)
}

// TestAlternation covers the "Alternation" scenario from §8.
func TestAlternation(t *testing.T) {
	g := mustCompile(t, "<start> ::= 'A' | 'B'")
	vocab := mustVocab(t, "A", "B", "C")
	sampler := New(g, vocab, nil)
	assert.ElementsMatch(t, []string{"A", "B"}, admissibleLabels(t, sampler, vocab))
}

// TestAnyTokenRightRecursion covers the "Right recursion with <any!>"
// scenario from §8: the admissible set is always the whole vocabulary and
// the sampler never terminates or rejects.
func TestAnyTokenRightRecursion(t *testing.T) {
	g := mustCompile(t, "<seq> ::= <any!> | <any!> <seq>")
	vocab := mustVocab(t, "A", "B", "C")
	sampler := New(g, vocab, nil)

	assert.ElementsMatch(t, []string{"A", "B", "C"}, admissibleLabels(t, sampler, vocab))
	require.NoError(t, acceptByText(t, sampler, vocab, "B"))
	assert.False(t, sampler.IsTerminated())
	assert.ElementsMatch(t, []string{"A", "B", "C"}, admissibleLabels(t, sampler, vocab))
}

// TestDNA covers the "DNA" scenario from §8.
func TestDNA(t *testing.T) {
	g := mustCompile(t, "<start> ::= <seq>\n<seq> ::= <base> | <base> <seq>\n<base> ::= 'A' | 'C' | 'G' | 'T'")
	vocab := mustVocab(t, "A", "C", "G", "T", "N")
	sampler := New(g, vocab, nil)

	assert.ElementsMatch(t, []string{"A", "C", "G", "T"}, admissibleLabels(t, sampler, vocab))
	require.NoError(t, acceptByText(t, sampler, vocab, "A"))
	assert.ElementsMatch(t, []string{"A", "C", "G", "T"}, admissibleLabels(t, sampler, vocab))

	err := acceptByText(t, sampler, vocab, "N")
	require.Error(t, err)
	var rejected *TokenRejected
	assert.ErrorAs(t, err, &rejected)
}

// TestPartialTerminal covers the "Partial terminal" scenario from §8 and
// testable property #5 (longest vocabulary prefix wins).
func TestPartialTerminal(t *testing.T) {
	g := mustCompile(t, "<start> ::= 'apple66666'")
	vocab := mustVocab(t, "apple", "66", "666")
	sampler := New(g, vocab, nil)

	assert.ElementsMatch(t, []string{"apple"}, admissibleLabels(t, sampler, vocab))
	require.NoError(t, acceptByText(t, sampler, vocab, "apple"))

	assert.ElementsMatch(t, []string{"666"}, admissibleLabels(t, sampler, vocab))
	require.NoError(t, acceptByText(t, sampler, vocab, "666"))

	assert.ElementsMatch(t, []string{"66"}, admissibleLabels(t, sampler, vocab))
	require.NoError(t, acceptByText(t, sampler, vocab, "66"))

	assert.True(t, sampler.IsTerminated())
}

// TestExceptLiteral covers the "Except literal" scenario from §8 and the
// monolithic whole-token except semantics recorded in DESIGN.md.
func TestExceptLiteral(t *testing.T) {
	g := mustCompile(t, "<start> ::= <except!('ar')> <rest>\n<rest> ::= 'ard'")
	vocab := mustVocab(t, "c", "ar", "card", "cat")
	sampler := New(g, vocab, nil)

	assert.ElementsMatch(t, []string{"c", "cat"}, admissibleLabels(t, sampler, vocab))

	err := acceptByText(t, sampler, vocab, "ar")
	require.Error(t, err)
	err = acceptByText(t, sampler, vocab, "card")
	require.Error(t, err)

	require.NoError(t, acceptByText(t, sampler, vocab, "cat"))
}

// TestAcceptTokenFailureLeavesStateUnchanged covers testable property #3.
func TestAcceptTokenFailureLeavesStateUnchanged(t *testing.T) {
	g := mustCompile(t, "<start> ::= 'A' | 'B'")
	vocab := mustVocab(t, "A", "B", "C")
	sampler := New(g, vocab, nil)

	before := admissibleLabels(t, sampler, vocab)
	err := acceptByText(t, sampler, vocab, "C")
	require.Error(t, err)
	assert.Equal(t, before, admissibleLabels(t, sampler, vocab))
	assert.False(t, sampler.IsTerminated())
}

// TestTerminatedSamplerRejectsEverything covers AcceptToken/AllPossibleTokens
// behavior once IsTerminated() is true.
func TestTerminatedSamplerRejectsEverything(t *testing.T) {
	g := mustCompile(t, "<start> ::= 'A'")
	vocab := mustVocab(t, "A")
	sampler := New(g, vocab, nil)
	require.NoError(t, acceptByText(t, sampler, vocab, "A"))
	require.True(t, sampler.IsTerminated())

	set, err := sampler.AllPossibleTokens()
	require.NoError(t, err)
	assert.Equal(t, 0, set.Count())

	err = sampler.AcceptToken(0)
	require.Error(t, err)
	var terminated *SamplerTerminated
	assert.ErrorAs(t, err, &terminated)
}

// TestAllPossibleTokensAgreesWithAcceptToken covers testable properties #1
// and #2: every admissible token is accepted by a clone of the state, and
// every non-admissible one is rejected.
func TestAllPossibleTokensAgreesWithAcceptToken(t *testing.T) {
	g := mustCompile(t, "<start> ::= <seq>\n<seq> ::= <base> | <base> <seq>\n<base> ::= 'A' | 'C' | 'G' | 'T'")
	vocab := mustVocab(t, "A", "C", "G", "T", "N")

	sampler := New(g, vocab, nil)
	set, err := sampler.AllPossibleTokens()
	require.NoError(t, err)
	admissible := make(map[int]bool)
	for _, id := range set.Slice() {
		admissible[id] = true
	}

	for id := range vocab.Tokens {
		clone := New(g, vocab, nil)
		err := clone.AcceptToken(id)
		if admissible[id] {
			assert.NoError(t, err, "token %q should have been accepted", vocab.Tokens[id])
		} else {
			assert.Error(t, err, "token %q should have been rejected", vocab.Tokens[id])
		}
	}
}
