package parser

import (
	"strings"
	"unicode/utf8"
)

// escapeError reports a malformed escape sequence at a byte offset of
// the text being decoded.
type escapeError struct {
	pos int
	msg string
}

// decodeEscapes decodes the escape sequences of s within [from,
// len(s)), stopping early at an unescaped occurrence of quote (pass 0
// to disable the quote test). It returns the decoded text and the
// position where decoding stopped: the index of the terminating
// quote, or len(s).
//
// The decoder never validates that a decoded code point is a Unicode
// scalar value; ill-formed results surface as replacement characters
// when the string is built.
func decodeEscapes(s string, from int, quote byte) (string, int, *escapeError) {
	var b strings.Builder
	i := from
	for i < len(s) {
		c := s[i]
		if quote != 0 && c == quote {
			return b.String(), i, nil
		}
		if c != '\\' {
			b.WriteByte(c)
			i++
			continue
		}
		if i+1 >= len(s) {
			// A backslash at end of line stays literal.
			b.WriteByte('\\')
			return b.String(), len(s), nil
		}
		e := s[i+1]
		switch e {
		case '\'', '"', '?', '\\':
			b.WriteByte(e)
			i += 2
		case 'a':
			b.WriteByte('\a')
			i += 2
		case 'b':
			b.WriteByte('\b')
			i += 2
		case 'f':
			b.WriteByte('\f')
			i += 2
		case 'n':
			b.WriteByte('\n')
			i += 2
		case 'r':
			b.WriteByte('\r')
			i += 2
		case 't':
			b.WriteByte('\t')
			i += 2
		case 'v':
			b.WriteByte('\v')
			i += 2
		case 'o':
			n, width, err := decodeOctal(s, i+2)
			if err != nil {
				return "", i, err
			}
			b.WriteByte(byte(n))
			i += 2 + width
		case 'x':
			n, err := decodeHex(s, i+2, 2)
			if err != nil {
				return "", i, err
			}
			b.WriteByte(byte(n))
			i += 2 + 2
		case 'u':
			n, err := decodeHex(s, i+2, 4)
			if err != nil {
				return "", i, err
			}
			b.WriteRune(rune(n))
			i += 2 + 4
		case 'U':
			n, err := decodeHex(s, i+2, 8)
			if err != nil {
				return "", i, err
			}
			b.WriteRune(rune(n))
			i += 2 + 8
		default:
			// Unknown escapes keep both characters.
			b.WriteByte('\\')
			b.WriteByte(e)
			i += 2
		}
	}
	return b.String(), len(s), nil
}

// decodeOctal reads 1-3 octal digits starting at pos. Zero digits is
// an error, as is a value that does not fit a code unit.
func decodeOctal(s string, pos int) (uint32, int, *escapeError) {
	i := pos
	var n uint32
	for i < len(s) && i-pos < 3 {
		c := s[i]
		if c < '0' || c > '7' {
			break
		}
		n = n*8 + uint32(c-'0')
		i++
	}
	if i == pos {
		if pos >= len(s) {
			return 0, 0, &escapeError{pos, "Incomplete octal value"}
		}
		return 0, 0, &escapeError{pos, "Bad octal value"}
	}
	if n > 0xFF {
		return 0, 0, &escapeError{pos, "Bad octal value"}
	}
	return n, i - pos, nil
}

// decodeHex reads exactly width hex digits starting at pos.
func decodeHex(s string, pos, width int) (uint32, *escapeError) {
	if pos+width > len(s) {
		return 0, &escapeError{pos, "Incomplete hexadecimal value"}
	}
	var n uint32
	for i := pos; i < pos+width; i++ {
		d, ok := hexVal(s[i])
		if !ok {
			return 0, &escapeError{i, "Bad hexadecimal value"}
		}
		n = n*16 + d
	}
	return n, nil
}

func hexVal(c byte) (uint32, bool) {
	switch {
	case c >= '0' && c <= '9':
		return uint32(c - '0'), true
	case c >= 'a' && c <= 'f':
		return uint32(c-'a') + 10, true
	case c >= 'A' && c <= 'F':
		return uint32(c-'A') + 10, true
	}
	return 0, false
}

// decodeSpan decodes escapes of the current line within [from, to).
func (p *Parser) decodeSpan(from, to int, quote byte) (string, int, error) {
	if to > len(p.line) {
		to = len(p.line)
	}
	s, stop, eerr := decodeEscapes(p.line[:to], from, quote)
	if eerr != nil {
		return "", stop, p.errAt(eerr.pos, eerr.msg)
	}
	return s, stop, nil
}

// decodeSegment decodes a full collected segment that originated on
// the given source line.
func decodeSegment(seg string, lineNum int) (string, error) {
	s, _, eerr := decodeEscapes(seg, 0, 0)
	if eerr != nil {
		return "", &ParseError{
			Line: lineNum,
			Col:  utf8.RuneCountInString(seg[:eerr.pos]),
			Msg:  eerr.msg,
		}
	}
	return s, nil
}

// findUnescapedQuote scans line from pos for quote, skipping
// characters protected by a backslash. Returns -1 when the line holds
// no terminator.
func findUnescapedQuote(line string, pos int, quote byte) int {
	i := pos
	for i < len(line) {
		switch line[i] {
		case '\\':
			i += 2
		case quote:
			return i
		default:
			i++
		}
	}
	return -1
}
