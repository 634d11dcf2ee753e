package bnfsampler

import (
	"bufio"
	"fmt"
	"io"
)

// Vocabulary is the fixed, dense-id-indexed set V from the data model.
// Tokens[i] is the raw byte string for token id i; there are no gaps and
// no duplicates once LoadVocabulary has returned successfully.
type Vocabulary struct {
	Tokens [][]byte
}

// Len reports the vocabulary size, |V|.
func (v *Vocabulary) Len() int { return len(v.Tokens) }

// LoadVocabulary reads one vocabulary entry per line from r. Each line is
// unescaped with the same \t \r \n \\ \' \" \uXXXX \xHH rules as grammar
// literals (escape.go), so a token's raw bytes need not be valid UTF-8 on
// the wire. Token ids are assigned densely in file order. Empty lines are
// skipped unless cfg disables vocab.reject_empty, in which case an empty
// line after unescaping yields the empty token (still only one such entry
// is allowed, same as any other duplicate).
func LoadVocabulary(r io.Reader, cfg *Config) (*Vocabulary, error) {
	rejectEmpty := true
	rejectDup := true
	if cfg != nil {
		rejectEmpty = cfg.GetBool("vocab.reject_empty")
		rejectDup = cfg.GetBool("vocab.reject_duplicates")
	}

	vocab := &Vocabulary{}
	seen := make(map[string]int)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if line == "" && rejectEmpty {
			continue
		}
		b, err := unescapeBytes(line)
		if err != nil {
			return nil, fmt.Errorf("bnfsampler: vocabulary line %d: %w", lineNo, err)
		}
		if len(b) == 0 && rejectEmpty {
			return nil, fmt.Errorf("bnfsampler: vocabulary line %d: empty token is not allowed", lineNo)
		}
		key := string(b)
		if prior, ok := seen[key]; ok && rejectDup {
			return nil, fmt.Errorf("bnfsampler: vocabulary line %d: duplicate of token %d", lineNo, prior)
		}
		seen[key] = len(vocab.Tokens)
		vocab.Tokens = append(vocab.Tokens, b)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("bnfsampler: reading vocabulary: %w", err)
	}
	if len(vocab.Tokens) == 0 {
		return nil, fmt.Errorf("bnfsampler: vocabulary is empty")
	}
	return vocab, nil
}
