package bnfsampler

// Status is the three-way result of feeding a token to the engine in
// commit mode (§4.D.1).
type Status int

const (
	// Invalid means the token cannot extend state at all; state is left
	// unchanged by the caller.
	Invalid Status = iota
	// Partial means the token was fully consumed but the grammar is not
	// yet fully derived; more tokens are expected.
	Partial
	// Accepted means the token was fully consumed and the grammar has
	// been fully derived; the sampler is now terminated.
	Accepted
)

func (s Status) String() string {
	switch s {
	case Invalid:
		return "Invalid"
	case Partial:
		return "Partial"
	case Accepted:
		return "Accepted"
	default:
		return "Unknown"
	}
}

// Engine is the recursive-descent matcher from §4.D: a Grammar paired
// with the Vocabulary Trie it enumerates against. NewWithTrie builds one
// Engine per Sampler. The Grammar, Trie and Vocabulary it points to are
// only read, but the Engine's own frame pool and except-automaton caches
// change during matching, so an Engine is not safe for concurrent use.
type Engine struct {
	grammar *Grammar
	trie    *Trie
	vocab   *Vocabulary
	cfg     *Config
	except  *exceptMatcher
	pool    *framePool
	maxDepth int
}

// NewEngine builds the matcher for a compiled Grammar and its paired
// Vocabulary/Trie. cfg may be nil, in which case engine defaults (pooling
// on, a generous recursion ceiling) apply.
func NewEngine(g *Grammar, trie *Trie, vocab *Vocabulary, cfg *Config) *Engine {
	pool := true
	depth := 4096
	if cfg != nil {
		pool = cfg.GetBool("engine.pool_states")
		depth = cfg.GetInt("engine.max_recursion_depth")
	}
	e := &Engine{grammar: g, trie: trie, vocab: vocab, cfg: cfg, maxDepth: depth}
	e.pool = newFramePool(pool)
	e.except = newExceptMatcher(e)
	return e
}

// Feed is commit-mode matching (§4.D.1): it consumes tokenBytes entirely
// against state, trying alternatives in declaration order and
// backtracking (simply by recursing into the next alternative; nothing
// is mutated in place, so there is nothing to roll back) whenever one
// fails. On Invalid the returned State is the zero value and the caller
// must keep using its prior, already-committed State.
func (e *Engine) Feed(s State, tokenBytes []byte) (State, Status, error) {
	if s.IsTerminated() {
		if len(tokenBytes) == 0 {
			return s, Accepted, nil
		}
		return State{}, Invalid, nil
	}
	top, _, status, err := e.run(s.top, tokenBytes, 0, 0)
	if err != nil {
		return State{}, Invalid, err
	}
	if status == Invalid {
		return State{}, Invalid, nil
	}
	return State{top: top}, status, nil
}

// run advances through the stack starting at top, consuming token[pos:]
// byte by byte across as many frames as the current call needs. depth
// guards against the engine recursing past what a well-formed Grammar
// should ever require (build-time checks rule out left recursion, but a
// pathological right-recursive <except!([n])> closure or a
// programmer-supplied Grammar assembled outside Compile could still
// misbehave).
func (e *Engine) run(top *frame, token []byte, pos int, depth int) (*frame, int, Status, error) {
	if depth > e.maxDepth {
		return nil, pos, Invalid, newInternalInvariantError("recursion depth exceeded %d while matching a token", e.maxDepth)
	}
	if top == nil {
		if pos == len(token) {
			return nil, pos, Accepted, nil
		}
		return nil, pos, Invalid, nil
	}

	switch top.sym.Kind {
	case SymbolTerminal:
		return e.runTerminal(top, token, pos, depth)
	case SymbolNonterminal:
		return e.runNonterminal(top, token, pos, depth)
	case SymbolAny:
		return e.run(top.next, token, len(token), depth+1)
	case SymbolExceptLiteral, SymbolExceptNonterminal:
		return e.runExcept(top, token, pos, depth)
	default:
		return nil, pos, Invalid, newInternalInvariantError("unknown symbol kind %v", top.sym.Kind)
	}
}

func (e *Engine) runNonterminal(top *frame, token []byte, pos int, depth int) (*frame, int, Status, error) {
	prods := e.grammar.Productions[top.sym.NonterminalID]
	for _, prod := range prods {
		newTop := pushProduction(e.pool, prod, top.next)
		rf, rp, rs, err := e.run(newTop, token, pos, depth+1)
		if err != nil {
			return nil, pos, Invalid, err
		}
		if rs != Invalid {
			return rf, rp, rs, nil
		}
		e.releaseAttempt(newTop, top.next)
	}
	return nil, pos, Invalid, nil
}

// releaseAttempt hands the frames freshly pushed for one failed production
// attempt (everything from start down to, but not including, until) back
// to the engine's pool. A failed alternative never contributes any of its
// frames to a returned State (runTerminal only returns a frame on
// Accepted/Partial, never on Invalid), so the whole chain pushProduction
// built for this attempt is safe to reclaim as soon as the attempt fails.
func (e *Engine) releaseAttempt(start, until *frame) {
	for start != nil && start != until {
		next := start.next
		e.pool.release(start)
		start = next
	}
}

func (e *Engine) runTerminal(top *frame, token []byte, pos int, depth int) (*frame, int, Status, error) {
	lit := top.sym.Literal
	cursor := top.cursor
	i, p := cursor, pos
	for i < len(lit) && p < len(token) {
		if lit[i] != token[p] {
			return nil, pos, Invalid, nil
		}
		i++
		p++
	}
	if i == len(lit) {
		return e.run(top.next, token, p, depth+1)
	}

	consumedThisCall := i - cursor
	if consumedThisCall == 0 {
		nf := e.pool.acquire(top.sym, cursor, top.next)
		return nf, p, Partial, nil
	}

	// The fed token ran out before the terminal finished. Per spec §4.F
	// / §8's "Terminal longest-match" property, this is only a valid
	// acceptance if no strictly longer vocabulary token would also have
	// matched this terminal's remaining bytes from the same cursor.
	_, lmaxLen, ok := e.trie.LongestPrefix(lit[cursor:])
	if ok && consumedThisCall < lmaxLen {
		return nil, pos, Invalid, nil
	}
	nf := e.pool.acquire(top.sym, i, top.next)
	return nf, p, Partial, nil
}

func (e *Engine) runExcept(top *frame, token []byte, pos int, depth int) (*frame, int, Status, error) {
	rem := token[pos:]
	occurs, err := e.except.occurs(top.sym, rem)
	if err != nil {
		return nil, pos, Invalid, err
	}
	if occurs {
		return nil, pos, Invalid, nil
	}
	return e.run(top.next, token, len(token), depth+1)
}

// nonterminalDerivesExactly reports whether nonterminal id can derive
// exactly b with nothing left over, used by except.go's fallback matcher
// for nonterminals whose language isn't a small finite literal set.
func (e *Engine) nonterminalDerivesExactly(id int, b []byte) (bool, error) {
	f := &frame{sym: Nonterminal(id)}
	_, rp, status, err := e.run(f, b, 0, 0)
	if err != nil {
		return false, err
	}
	return status == Accepted && rp == len(b), nil
}
