package jyaml

import (
	"math"
	"strconv"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/shapestone/shape-jyaml/internal/errs"
)

const hexDigits = "0123456789ABCDEF"

// appendDoubleQuoted appends s as a double-quoted JYAML string.
// With escapeUnicode every non-ASCII code point becomes a \u escape, using a
// surrogate pair above the Basic Multilingual Plane.
func appendDoubleQuoted(buf []byte, s string, escapeUnicode bool) []byte {
	buf = append(buf, '"')
	start := 0
	for i := 0; i < len(s); {
		c := s[i]
		if c < utf8.RuneSelf {
			var esc byte
			switch c {
			case '"':
				esc = '"'
			case '\\':
				esc = '\\'
			case '\n':
				esc = 'n'
			case '\r':
				esc = 'r'
			case '\t':
				esc = 't'
			case '\b':
				esc = 'b'
			case '\f':
				esc = 'f'
			default:
				if c >= 0x20 && c != 0x7F {
					i++
					continue
				}
			}
			buf = append(buf, s[start:i]...)
			if esc != 0 {
				buf = append(buf, '\\', esc)
			} else {
				buf = appendUnicodeEscape(buf, rune(c))
			}
			i++
			start = i
			continue
		}

		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			// Invalid UTF-8 is replaced with U+FFFD.
			buf = append(buf, s[start:i]...)
			buf = appendUnicodeEscape(buf, utf8.RuneError)
			i++
			start = i
			continue
		}
		if !escapeUnicode && !isC1Control(r) {
			i += size
			continue
		}
		buf = append(buf, s[start:i]...)
		if r > 0xFFFF {
			hi, lo := utf16.EncodeRune(r)
			buf = appendUnicodeEscape(buf, hi)
			buf = appendUnicodeEscape(buf, lo)
		} else {
			buf = appendUnicodeEscape(buf, r)
		}
		i += size
		start = i
	}
	buf = append(buf, s[start:]...)
	return append(buf, '"')
}

// appendSingleQuoted appends s as a single-quoted string. Only ' and \ are
// escaped; callers check canSingleQuote first.
func appendSingleQuoted(buf []byte, s string) []byte {
	buf = append(buf, '\'')
	start := 0
	for i := 0; i < len(s); i++ {
		if c := s[i]; c == '\'' || c == '\\' {
			buf = append(buf, s[start:i]...)
			buf = append(buf, '\\', c)
			start = i + 1
		}
	}
	buf = append(buf, s[start:]...)
	return append(buf, '\'')
}

// canSingleQuote reports whether s can be written between single quotes.
// Single-quoted strings have no escapes for control characters or code points.
func canSingleQuote(s string, escapeUnicode bool) bool {
	for _, r := range s {
		if r < 0x20 || r == 0x7F || r == utf8.RuneError || isC1Control(r) {
			return false
		}
		if escapeUnicode && r >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

func appendUnicodeEscape(buf []byte, r rune) []byte {
	return append(buf, '\\', 'u',
		hexDigits[r>>12&0xF], hexDigits[r>>8&0xF], hexDigits[r>>4&0xF], hexDigits[r&0xF])
}

func isC1Control(r rune) bool {
	return r >= 0x80 && r <= 0x9F
}

// appendFloat appends the shortest representation of f that parses back as a
// float. NaN and infinities have no JYAML representation.
func appendFloat(buf []byte, f float64) ([]byte, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return buf, errs.NewSerialization("cannot serialize %v", f)
	}
	start := len(buf)
	buf = strconv.AppendFloat(buf, f, 'g', -1, 64)
	for _, c := range buf[start:] {
		if c == '.' || c == 'e' || c == 'E' {
			return buf, nil
		}
	}
	return append(buf, '.', '0'), nil
}
