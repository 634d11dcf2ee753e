package bnfsampler

import (
	"fmt"
	"unicode/utf8"
)

// unescapeBytes walks a quoted literal's body (already stripped of its
// surrounding quotes) and resolves backslash escapes into the raw bytes they
// denote. It follows the dispatch style of langlang's unescapeChar in
// grammar_parser_v2.go, extended with \xHH so that \xC3\xA9 and the
// \u escape for U+00E9 produce byte-identical output for the same codepoint.
func unescapeBytes(s string) ([]byte, error) {
	out := make([]byte, 0, len(s))
	i := 0
	for i < len(s) {
		c := s[i]
		if c != '\\' {
			out = append(out, c)
			i++
			continue
		}
		if i+1 >= len(s) {
			return nil, fmt.Errorf("bnfsampler: dangling escape at end of literal")
		}
		switch s[i+1] {
		case 'n':
			out = append(out, '\n')
			i += 2
		case 'r':
			out = append(out, '\r')
			i += 2
		case 't':
			out = append(out, '\t')
			i += 2
		case '\\':
			out = append(out, '\\')
			i += 2
		case '\'':
			out = append(out, '\'')
			i += 2
		case '"':
			out = append(out, '"')
			i += 2
		case 'x':
			b, consumed, err := unescapeHexByte(s[i:])
			if err != nil {
				return nil, err
			}
			out = append(out, b)
			i += consumed
		case 'u':
			r, consumed, err := unescapeUnicode(s[i:])
			if err != nil {
				return nil, err
			}
			var buf [utf8.UTFMax]byte
			n := utf8.EncodeRune(buf[:], r)
			out = append(out, buf[:n]...)
			i += consumed
		default:
			return nil, fmt.Errorf("bnfsampler: unknown escape \\%c", s[i+1])
		}
	}
	return out, nil
}

// unescapeHexByte parses \xHH (exactly two hex digits) starting at s[0:]=='\x...'
// and returns the raw byte it denotes, distinct from a UTF-8 codepoint escape.
func unescapeHexByte(s string) (byte, int, error) {
	if len(s) < 4 {
		return 0, 0, fmt.Errorf("bnfsampler: truncated \\x escape")
	}
	hi, ok1 := hexVal(s[2])
	lo, ok2 := hexVal(s[3])
	if !ok1 || !ok2 {
		return 0, 0, fmt.Errorf("bnfsampler: invalid \\x escape %q", s[:4])
	}
	return hi<<4 | lo, 4, nil
}

// unescapeUnicode parses \uXXXX (exactly four hex digits) or \u{X...} (one to
// six hex digits) and returns the codepoint plus the number of source bytes
// consumed, including the leading "\u".
func unescapeUnicode(s string) (rune, int, error) {
	if len(s) < 2 {
		return 0, 0, fmt.Errorf("bnfsampler: truncated \\u escape")
	}
	if len(s) >= 3 && s[2] == '{' {
		end := 3
		for end < len(s) && s[end] != '}' {
			end++
		}
		if end >= len(s) {
			return 0, 0, fmt.Errorf("bnfsampler: unterminated \\u{...} escape")
		}
		digits := s[3:end]
		if len(digits) == 0 || len(digits) > 6 {
			return 0, 0, fmt.Errorf("bnfsampler: \\u{...} escape must have 1-6 hex digits")
		}
		v, err := parseHex(digits)
		if err != nil {
			return 0, 0, err
		}
		return rune(v), end + 1, nil
	}
	if len(s) < 6 {
		return 0, 0, fmt.Errorf("bnfsampler: truncated \\uXXXX escape")
	}
	v, err := parseHex(s[2:6])
	if err != nil {
		return 0, 0, err
	}
	return rune(v), 6, nil
}

func parseHex(digits string) (uint32, error) {
	var v uint32
	for _, c := range []byte(digits) {
		d, ok := hexVal(c)
		if !ok {
			return 0, fmt.Errorf("bnfsampler: invalid hex digit %q", c)
		}
		v = v<<4 | uint32(d)
	}
	return v, nil
}

func hexVal(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	default:
		return 0, false
	}
}
