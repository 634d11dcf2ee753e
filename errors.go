package bnfsampler

import "fmt"

// GrammarBuildError is returned by Compile when the grammar text cannot be
// parsed (Rule then holds the line:column of the problem) or when it
// violates a build-time invariant: a duplicate or undefined nonterminal, an
// empty literal, a left-recursive cycle, or an <except!([n])> whose
// nonterminal transitively contains another <except!([...])>. A malformed
// escape sequence inside a literal is returned as a plain error instead.
// It plays the role
// langlang's ParsingError plays for its own compiler: a typed, labeled
// failure carrying enough context to point at the offending rule.
type GrammarBuildError struct {
	Rule    string
	Message string
}

func (e *GrammarBuildError) Error() string {
	if e.Rule == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Rule, e.Message)
}

// TokenRejected is returned by Sampler.AcceptToken when the engine's
// commit-mode feed reaches Invalid for the offered token. The sampler's
// state is left unchanged when this error is returned.
type TokenRejected struct {
	TokenID int
	Reason  string
}

func (e *TokenRejected) Error() string {
	return fmt.Sprintf("token %d rejected: %s", e.TokenID, e.Reason)
}

// SamplerTerminated is returned by AcceptToken once IsTerminated() is true:
// the grammar has already been fully derived and no further tokens can be
// accepted. AllPossibleTokens does not return it; it returns an empty set.
type SamplerTerminated struct {
	SessionID string
}

func (e *SamplerTerminated) Error() string {
	return fmt.Sprintf("sampler %s has already terminated", e.SessionID)
}

// internalInvariantError is the distinguished fatal error surfaced when the
// engine detects a condition the grammar builder was supposed to have ruled
// out already (runaway recursion depth, an unknown symbol kind on the
// stack, a failure to build an exclusion automaton). Unlike TokenRejected this is
// not a normal per-token outcome; it means the Grammar or Engine was
// constructed inconsistently.
type internalInvariantError struct {
	Detail string
}

func (e *internalInvariantError) Error() string {
	return fmt.Sprintf("bnfsampler: internal invariant violated: %s", e.Detail)
}

func newInternalInvariantError(format string, args ...interface{}) error {
	return &internalInvariantError{Detail: fmt.Sprintf(format, args...)}
}

// IsFatal reports whether err is the distinguished internal-invariant
// error described in spec §7: the one class of error a caller should
// treat as unrecoverable, rather than retry with a different token the
// way it would after a TokenRejected or SamplerTerminated.
func IsFatal(err error) bool {
	_, ok := err.(*internalInvariantError)
	return ok
}
