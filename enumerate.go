package bnfsampler

import "github.com/Dan-wanna-M/bnf-sampler/internal/tokenset"

// enumerator implements the joint trie/grammar walk from §4.D.2: for a
// committed State it produces the set of vocabulary tokens that would not
// be Invalid if fed next, as a pure function of (Grammar, Vocabulary,
// State).
//
// <any!> and except forms are resolved a token at a time (when they succeed
// they consume every remaining byte of the token under consideration, per
// engine.go/except.go), so their
// branches enumerate every token under the current trie node directly.
// Terminal frames are the one case needing a true byte-by-byte joint
// descent, both for sub-linear pruning and to enforce the longest-
// vocabulary-prefix rule from the Terminal case in engine.go.
type enumerator struct {
	grammar  *Grammar
	trie     *Trie
	vocab    *Vocabulary
	except   *exceptMatcher
	pool     *framePool
	bitset   *tokenset.Set
	maxDepth int
	err      error
}

// AllPossibleTokens computes the admissible-token bitset for s. An empty,
// all-zero set is returned (with no error) once s.IsTerminated().
func (e *Engine) AllPossibleTokens(s State) (*tokenset.Set, error) {
	bitset := tokenset.New(e.vocab.Len())
	if s.IsTerminated() {
		return bitset, nil
	}
	en := &enumerator{
		grammar:  e.grammar,
		trie:     e.trie,
		vocab:    e.vocab,
		except:   e.except,
		pool:     e.pool,
		bitset:   bitset,
		maxDepth: e.maxDepth,
	}
	leaves, err := epsilonClosure(e.grammar, e.pool, s.top, 0, e.maxDepth)
	if err != nil {
		return nil, err
	}
	for _, leaf := range leaves {
		if leaf == nil {
			continue
		}
		en.handleLeaf(leaf, e.trie.Root(), 0)
		if en.err != nil {
			return nil, en.err
		}
	}
	return bitset, nil
}

// epsilonClosure expands every Nonterminal frame reachable from top
// without consuming any bytes, returning the frontier of leaf frames
// (Terminal/Any/Except) together with nil for every alternative that
// completes the grammar with zero more symbols. Left recursion is
// rejected at grammar build time, so the underlying left-corner graph is
// acyclic and this always terminates.
//
// pool is the engine's real frame pool, shared with commit-mode
// backtracking (engine.go's runNonterminal), so enumeration's allocations
// are served from the same free list rather than a throwaway one. A
// freshly pushed production's head frame (newTop) is handed back to pool
// the moment this call establishes it was only a transit node — i.e. it
// never appears in the returned leaf set, which is exactly the case where
// newTop.sym.Kind == SymbolNonterminal. top itself is never released here:
// it belongs to whichever caller allocated it (the committed State for
// the outermost call, or the enclosing loop iteration for a recursive
// one), and only that owner knows it is safe to hand back.
func epsilonClosure(g *Grammar, pool *framePool, top *frame, depth, maxDepth int) ([]*frame, error) {
	if depth > maxDepth {
		return nil, newInternalInvariantError("epsilon closure recursion exceeded %d", maxDepth)
	}
	if top == nil {
		return []*frame{nil}, nil
	}
	if top.sym.Kind != SymbolNonterminal {
		return []*frame{top}, nil
	}
	var out []*frame
	for _, prod := range g.Productions[top.sym.NonterminalID] {
		newTop := pushProduction(pool, prod, top.next)
		sub, err := epsilonClosure(g, pool, newTop, depth+1, maxDepth)
		if err != nil {
			return nil, err
		}
		if newTop.sym.Kind == SymbolNonterminal {
			pool.release(newTop)
		}
		out = append(out, sub...)
	}
	return out, nil
}

func (en *enumerator) handleLeaf(leaf *frame, node *trieNode, depth int) {
	if en.err != nil {
		return
	}
	switch leaf.sym.Kind {
	case SymbolAny:
		en.trie.EnumerateFrom(node, func(id int) { en.bitset.Set(id) })
	case SymbolExceptLiteral, SymbolExceptNonterminal:
		en.trie.EnumerateFrom(node, func(id int) {
			if en.err != nil {
				return
			}
			full := en.vocab.Tokens[id]
			suffix := full[depth:]
			occurs, err := en.except.occurs(leaf.sym, suffix)
			if err != nil {
				en.err = err
				return
			}
			if !occurs {
				en.bitset.Set(id)
			}
		})
	case SymbolTerminal:
		en.descendTerminal(leaf, node, depth)
	default:
		en.err = newInternalInvariantError("unexpected leaf symbol kind %v in enumeration", leaf.sym.Kind)
	}
}

func (en *enumerator) descendTerminal(leaf *frame, node *trieNode, depth int) {
	lit := leaf.sym.Literal
	cursor := leaf.cursor
	_, lmaxLen, _ := en.trie.LongestPrefix(lit[cursor:])

	var descend func(n *trieNode, litOff, tokDepth int)
	descend = func(n *trieNode, litOff, tokDepth int) {
		if en.err != nil {
			return
		}
		if litOff == len(lit) {
			en.continuation(n, tokDepth, leaf.next)
			return
		}
		b := lit[litOff]
		child := en.trie.Child(n, b)
		if child == nil {
			return
		}
		newLitOff := litOff + 1
		if child.hasToken && newLitOff-cursor == lmaxLen {
			en.bitset.Set(child.tokenID)
		}
		descend(child, newLitOff, tokDepth+1)
	}
	descend(node, cursor, depth)
}

// continuation is reached once a Terminal frame's literal is fully
// matched along the trie path that ends at node: tail is whatever comes
// next on the stack, to be explored from the same trie position since
// the same in-flight token's bytes continue to satisfy it.
func (en *enumerator) continuation(node *trieNode, depth int, tail *frame) {
	if en.err != nil {
		return
	}
	if tail == nil {
		if node.hasToken {
			en.bitset.Set(node.tokenID)
		}
		return
	}
	leaves, err := epsilonClosure(en.grammar, en.pool, tail, 0, en.maxDepth)
	if err != nil {
		en.err = err
		return
	}
	for _, l := range leaves {
		if l == nil {
			if node.hasToken {
				en.bitset.Set(node.tokenID)
			}
			continue
		}
		en.handleLeaf(l, node, depth)
	}
}
