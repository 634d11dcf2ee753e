package bnfsampler

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadVocabulary(t *testing.T) {
	r := strings.NewReader("apple\n66\n666\n")
	vocab, err := LoadVocabulary(r, nil)
	require.NoError(t, err)
	require.Equal(t, 3, vocab.Len())
	assert.Equal(t, []byte("apple"), vocab.Tokens[0])
	assert.Equal(t, []byte("66"), vocab.Tokens[1])
	assert.Equal(t, []byte("666"), vocab.Tokens[2])
}

func TestLoadVocabularyUnescapes(t *testing.T) {
	r := strings.NewReader(`a\tb` + "\n" + `\x41\x42`)
	vocab, err := LoadVocabulary(r, nil)
	require.NoError(t, err)
	require.Equal(t, 2, vocab.Len())
	assert.Equal(t, []byte("a\tb"), vocab.Tokens[0])
	assert.Equal(t, []byte("AB"), vocab.Tokens[1])
}

func TestLoadVocabularyRejectsDuplicates(t *testing.T) {
	r := strings.NewReader("a\nb\na\n")
	_, err := LoadVocabulary(r, nil)
	assert.Error(t, err)
}

func TestLoadVocabularyAllowsDuplicatesWhenDisabled(t *testing.T) {
	cfg := NewConfig()
	cfg.SetBool("vocab.reject_duplicates", false)
	r := strings.NewReader("a\nb\na\n")
	vocab, err := LoadVocabulary(r, cfg)
	require.NoError(t, err)
	assert.Equal(t, 3, vocab.Len())
}

func TestLoadVocabularySkipsBlankLinesByDefault(t *testing.T) {
	r := strings.NewReader("a\n\nb\n")
	vocab, err := LoadVocabulary(r, nil)
	require.NoError(t, err)
	require.Equal(t, 2, vocab.Len())
	assert.Equal(t, []byte("a"), vocab.Tokens[0])
	assert.Equal(t, []byte("b"), vocab.Tokens[1])
}

func TestLoadVocabularyRejectsEmptyVocabulary(t *testing.T) {
	r := strings.NewReader("")
	_, err := LoadVocabulary(r, nil)
	assert.Error(t, err)
}
