package bnfsampler

import (
	"github.com/Dan-wanna-M/bnf-sampler/internal/tokenset"
	"github.com/google/uuid"
)

// Sampler is the façade from §4.F: the only type most callers need. It
// pairs an Engine of its own (built over a Grammar, Trie and Vocabulary
// that many Samplers may share read-only, per §5) with one mutable State
// private to this Sampler.
type Sampler struct {
	id     uuid.UUID
	engine *Engine
	state  State
}

// New builds a Sampler over a compiled Grammar and its paired
// Vocabulary/Trie, stamping it with its own session uuid so concurrent
// sessions can be told apart in logs and error messages.
func New(g *Grammar, vocab *Vocabulary, cfg *Config) *Sampler {
	trie := BuildTrie(vocab)
	return NewWithTrie(g, trie, vocab, cfg)
}

// NewWithTrie is New, but accepts an already-built Trie so that many
// Samplers sharing one Grammar/Vocabulary pair do not each rebuild it.
func NewWithTrie(g *Grammar, trie *Trie, vocab *Vocabulary, cfg *Config) *Sampler {
	return &Sampler{
		id:     uuid.New(),
		engine: NewEngine(g, trie, vocab, cfg),
		state:  StartState(g),
	}
}

// ID returns this Sampler's session id.
func (s *Sampler) ID() uuid.UUID { return s.id }

// IsTerminated reports whether the grammar has been fully derived; no
// further tokens can be accepted once this is true.
func (s *Sampler) IsTerminated() bool { return s.state.IsTerminated() }

// Reset returns the Sampler to its initial state, as if New had just been
// called, without rebuilding the Engine.
func (s *Sampler) Reset() {
	s.state = StartState(s.engine.grammar)
}

// AllPossibleTokens returns the set of vocabulary token ids that would
// succeed if passed to AcceptToken right now (§4.E). The returned set is
// empty once IsTerminated().
func (s *Sampler) AllPossibleTokens() (*tokenset.Set, error) {
	return s.engine.AllPossibleTokens(s.state)
}

// AcceptToken commits tokenID against the current state. On success the
// Sampler's state advances and nil is returned. On failure the Sampler's
// state is left exactly as it was: either TokenRejected (the commit-mode
// feed reached Invalid) or SamplerTerminated (the grammar was already
// fully derived).
func (s *Sampler) AcceptToken(tokenID int) error {
	if s.state.IsTerminated() {
		return &SamplerTerminated{SessionID: s.id.String()}
	}
	if tokenID < 0 || tokenID >= len(s.engine.vocab.Tokens) {
		return &TokenRejected{TokenID: tokenID, Reason: "token id out of range"}
	}
	tokenBytes := s.engine.vocab.Tokens[tokenID]
	next, status, err := s.engine.Feed(s.state, tokenBytes)
	if err != nil {
		return err
	}
	if status == Invalid {
		return &TokenRejected{TokenID: tokenID, Reason: "rejected by grammar"}
	}
	s.state = next
	return nil
}
