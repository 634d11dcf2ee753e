package bnfsampler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func vocabOf(tokens ...string) *Vocabulary {
	v := &Vocabulary{}
	for _, tok := range tokens {
		v.Tokens = append(v.Tokens, []byte(tok))
	}
	return v
}

func TestTrieLongestPrefix(t *testing.T) {
	vocab := vocabOf("apple", "66", "666")
	trie := BuildTrie(vocab)

	id, length, ok := trie.LongestPrefix([]byte("66666"))
	require.True(t, ok)
	assert.Equal(t, 3, length)
	assert.Equal(t, []byte("666"), vocab.Tokens[id])

	_, _, ok = trie.LongestPrefix([]byte("zzz"))
	assert.False(t, ok)

	id, length, ok = trie.LongestPrefix([]byte("apple pie"))
	require.True(t, ok)
	assert.Equal(t, 5, length)
	assert.Equal(t, []byte("apple"), vocab.Tokens[id])
}

func TestTrieEnumerateFrom(t *testing.T) {
	vocab := vocabOf("c", "ar", "card", "cat")
	trie := BuildTrie(vocab)

	var got []string
	trie.EnumerateFrom(trie.Root(), func(id int) {
		got = append(got, string(vocab.Tokens[id]))
	})
	assert.ElementsMatch(t, []string{"c", "ar", "card", "cat"}, got)

	cNode := trie.Child(trie.Root(), 'c')
	require.NotNil(t, cNode)
	var fromC []string
	trie.EnumerateFrom(cNode, func(id int) {
		fromC = append(fromC, string(vocab.Tokens[id]))
	})
	assert.ElementsMatch(t, []string{"c", "card", "cat"}, fromC)
}

func TestTrieSharedPrefixNode(t *testing.T) {
	// "c" is both a complete token and a proper prefix of "card"/"cat".
	trie := BuildTrie(vocabOf("c", "card", "cat"))
	n := trie.Root()
	for _, b := range []byte("c") {
		n = trie.Child(n, b)
	}
	require.NotNil(t, n)
	assert.True(t, n.hasToken)
	assert.NotEmpty(t, n.children)
}
