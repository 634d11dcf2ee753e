package bnfsampler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnescapeBytes(t *testing.T) {
	tests := []struct {
		Name     string
		Input    string
		Expected []byte
	}{
		{Name: "plain bytes", Input: "abc", Expected: []byte("abc")},
		{Name: "named escapes", Input: `a\nb\tc\r\\\'\"`, Expected: []byte("a\nb\tc\r\\'\"")},
		{Name: "hex byte", Input: `\x41`, Expected: []byte{0x41}},
		{Name: "unicode four hex", Input: "\\u0041", Expected: []byte{0x41}},
		{Name: "unicode braced", Input: `\u{41}`, Expected: []byte{0x41}},
		{Name: "unicode braced wide", Input: `\u{1F600}`, Expected: []byte{0xF0, 0x9F, 0x98, 0x80}},
	}
	for _, tt := range tests {
		t.Run(tt.Name, func(t *testing.T) {
			got, err := unescapeBytes(tt.Input)
			require.NoError(t, err)
			assert.Equal(t, tt.Expected, got)
		})
	}
}

// TestEscapeEquivalence covers testable property #6: \xHH and \uXXXX must
// reduce to byte-identical output for the same codepoint, whether or not
// that codepoint fits in one byte.
func TestEscapeEquivalence(t *testing.T) {
	hex, err := unescapeBytes(`\xC3\xA9`)
	require.NoError(t, err)
	unicode, err := unescapeBytes("\\u00E9")
	require.NoError(t, err)
	assert.Equal(t, hex, unicode)
	assert.Equal(t, []byte{0xC3, 0xA9}, hex)

	single, err := unescapeBytes(`\x41`)
	require.NoError(t, err)
	singleU, err := unescapeBytes("\\u0041")
	require.NoError(t, err)
	assert.Equal(t, single, singleU)
}

func TestUnescapeBytesErrors(t *testing.T) {
	tests := []struct {
		Name  string
		Input string
	}{
		{Name: "dangling backslash", Input: `abc\`},
		{Name: "unknown escape", Input: `\q`},
		{Name: "truncated hex", Input: `\x4`},
		{Name: "invalid hex digit", Input: `\xZZ`},
		{Name: "truncated unicode", Input: `\u12`},
		{Name: "unterminated braced unicode", Input: `\u{41`},
		{Name: "empty braced unicode", Input: `\u{}`},
	}
	for _, tt := range tests {
		t.Run(tt.Name, func(t *testing.T) {
			_, err := unescapeBytes(tt.Input)
			assert.Error(t, err)
		})
	}
}
