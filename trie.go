package bnfsampler

// Trie is the vocabulary-indexed byte trie from §4.B: every vocabulary
// token is a root-to-node path, and a node may carry a token id even when
// it also has children (one token can be a proper prefix of another).
//
// Nothing in the retrieved example pack implements a prefix trie (grepping
// the whole corpus for "trie" turns up nothing but an unrelated comment in
// one of the other_examples/ files), so this type has no third-party
// grounding; see DESIGN.md for why it is deliberately plain stdlib-style
// Go rather than an adapted dependency.
type Trie struct {
	root *trieNode
}

type trieNode struct {
	children map[byte]*trieNode
	tokenID  int
	hasToken bool
}

func newTrieNode() *trieNode {
	return &trieNode{children: make(map[byte]*trieNode)}
}

// BuildTrie indexes every token in vocab into a fresh Trie. The result is
// immutable from the caller's point of view and safe to share across many
// concurrent Samplers, same as the Grammar it is paired with.
func BuildTrie(vocab *Vocabulary) *Trie {
	t := &Trie{root: newTrieNode()}
	for id, tok := range vocab.Tokens {
		n := t.root
		for _, b := range tok {
			child, ok := n.children[b]
			if !ok {
				child = newTrieNode()
				n.children[b] = child
			}
			n = child
		}
		n.tokenID = id
		n.hasToken = true
	}
	return t
}

// Root returns the trie's root node, the starting point for any walk.
func (t *Trie) Root() *trieNode { return t.root }

// Child follows the edge labeled b from n, returning nil if no token
// shares that prefix.
func (t *Trie) Child(n *trieNode, b byte) *trieNode {
	if n == nil {
		return nil
	}
	return n.children[b]
}

// LongestPrefix finds the longest vocabulary token that is a prefix of
// bytes, per the "longest vocabulary prefix wins" tie-break rule used by
// both the engine's Terminal matching (§4.D.1) and the enumerator
// (§4.D.2). ok is false when no vocabulary token is a prefix of bytes at
// all.
func (t *Trie) LongestPrefix(bytes []byte) (tokenID int, length int, ok bool) {
	n := t.root
	bestID, bestLen, found := -1, 0, false
	for i, b := range bytes {
		child := n.children[b]
		if child == nil {
			break
		}
		n = child
		if n.hasToken {
			bestID, bestLen, found = n.tokenID, i+1, true
		}
	}
	return bestID, bestLen, found
}

// EnumerateFrom calls fn once for every token id whose path passes
// through n, i.e. every token that shares n's prefix (including n itself
// if it terminates a token).
func (t *Trie) EnumerateFrom(n *trieNode, fn func(tokenID int)) {
	if n == nil {
		return
	}
	if n.hasToken {
		fn(n.tokenID)
	}
	for _, child := range n.children {
		t.EnumerateFrom(child, fn)
	}
}
