package bnfsampler

// frame is one entry of the stack described by §4.C: a pending Symbol,
// its partial-match cursor (meaningful only while Sym.Kind is
// SymbolTerminal), and the return-tail it resumes into once it is popped.
// frame is never mutated after creation; the stack as a whole is a
// persistent singly linked list, so every State value is a cheap O(1)
// clone of the chain it points into, which is how choice-points in the
// engine afford to snapshot state before trying an alternative.
type frame struct {
	sym    Symbol
	cursor int
	next   *frame
}

// State is a snapshot of the stack at a point in decoding. The zero value
// is not meaningful; use StartState to build the initial one from a
// Grammar's start nonterminal.
type State struct {
	top *frame
}

// StartState builds the initial stack: a single frame holding the
// grammar's start nonterminal.
func StartState(g *Grammar) State {
	return State{top: &frame{sym: Nonterminal(g.Start)}}
}

// IsTerminated reports whether the stack is empty, i.e. the grammar has
// been fully derived and no further tokens can be accepted (§4.F).
func (s State) IsTerminated() bool {
	return s.top == nil
}

// pushProduction returns the frame chain obtained by pushing prod's
// symbols (in order) ahead of tail, without touching tail or any frame
// reachable from it. This is the one place new frames are allocated for a
// nonterminal expansion; framePool recycles the allocations when pooling
// is enabled.
func pushProduction(pool *framePool, prod Production, tail *frame) *frame {
	top := tail
	for i := len(prod) - 1; i >= 0; i-- {
		top = pool.acquire(prod[i], 0, top)
	}
	return top
}

// framePool is the "pool state clones for enumeration" supplemental
// feature from SPEC_FULL.md §4: enumeration explores many short-lived
// branches per decoding step, each pushing and discarding frames, so a
// per-Sampler free-list avoids handing every branch to the garbage
// collector. Frames handed out by acquire are only ever reused once the
// caller is done walking the branch that held them. Frames go back via
// release when a commit-mode alternative fails (engine.go's
// releaseAttempt) and when enumeration's epsilonClosure is done with a
// transit frame.
type framePool struct {
	free    []*frame
	enabled bool
}

func newFramePool(enabled bool) *framePool {
	return &framePool{enabled: enabled}
}

func (p *framePool) acquire(sym Symbol, cursor int, next *frame) *frame {
	if p.enabled && len(p.free) > 0 {
		f := p.free[len(p.free)-1]
		p.free = p.free[:len(p.free)-1]
		f.sym, f.cursor, f.next = sym, cursor, next
		return f
	}
	return &frame{sym: sym, cursor: cursor, next: next}
}

// release returns f (but not the frames reachable through f.next, which
// are either shared with committed state or released by their own
// caller) to the pool.
func (p *framePool) release(f *frame) {
	if !p.enabled || f == nil {
		return
	}
	p.free = append(p.free, f)
}
