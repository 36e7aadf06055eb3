package parser

import (
	"errors"
	"math"
	"strconv"

	"github.com/petbrain/amw/pkg/value"
)

// Terminator sets for the number parser: characters that may follow a
// number besides whitespace and end of line.
const (
	blockNumTerm = "#:"
	jsonNumTerm  = "#:,}]"
)

// parseNumber parses the number starting at pos on the current line.
// The sign has already been consumed by the caller and is passed as
// +1 or -1. Returns the value and the position just past its text.
//
// Integers accept radix prefixes 0b/0o/0x (only when the first digit
// is zero), digit separators `_` and `'` between digits, and overflow
// against the uint64 range is a hard error. A fraction or exponent
// switches to floating point, which is decimal only.
func (p *Parser) parseNumber(pos, sign int, term string) (value.Value, int, error) {
	line := p.line
	n := len(line)
	i := pos
	if i >= n || !isDigit(line[i]) {
		return value.Value{}, i, p.errAt(i, "Bad number")
	}

	radix := 10
	if line[i] == '0' && i+1 < n {
		switch line[i+1] {
		case 'b', 'B':
			radix = 2
		case 'o', 'O':
			radix = 8
		case 'x', 'X':
			radix = 16
		}
		if radix != 10 {
			i += 2
		}
	}

	var u uint64
	var digits []byte
	overflow := false
	lastSep := false
	firstZero := false
	for i < n {
		c := line[i]
		if c == '_' || c == '\'' {
			if len(digits) == 0 {
				return value.Value{}, i, p.errAt(i, "Separator is not allowed in the beginning of number")
			}
			if lastSep {
				return value.Value{}, i, p.errAt(i, "Duplicate separator in the number")
			}
			lastSep = true
			i++
			continue
		}
		d, ok := digitVal(c, radix)
		if !ok {
			break
		}
		if len(digits) == 0 && c == '0' {
			firstZero = true
		}
		lastSep = false
		digits = append(digits, c)
		if u > (math.MaxUint64-uint64(d))/uint64(radix) {
			overflow = true
		}
		u = u*uint64(radix) + uint64(d)
		i++
	}
	if len(digits) == 0 {
		return value.Value{}, i, p.errAt(i, "Bad number")
	}
	if lastSep {
		return value.Value{}, i - 1, p.errAt(i-1, "Separator is not allowed in the end of number")
	}

	isFloat := false
	if i < n && (line[i] == '.' || line[i] == 'e' || line[i] == 'E') {
		if radix != 10 {
			return value.Value{}, i, p.errAt(i, "Only decimal representation is supported for floating point numbers")
		}
		isFloat = true
	}

	// Non-zero decimal integers must not carry leading zeros, so that
	// they cannot be mistaken for octal.
	if radix == 10 && firstZero && len(digits) > 1 {
		return value.Value{}, pos, p.errAt(pos, "Bad number")
	}

	if isFloat {
		text := append([]byte{}, digits...)
		if line[i] == '.' {
			text = append(text, '.')
			i++
			var err error
			var frac []byte
			frac, i, err = p.scanSeparatedDigits(i)
			if err != nil {
				return value.Value{}, i, err
			}
			if len(frac) == 0 {
				return value.Value{}, i, p.errAt(i, "Bad number")
			}
			text = append(text, frac...)
		}
		if i < n && (line[i] == 'e' || line[i] == 'E') {
			text = append(text, 'e')
			i++
			if i < n && (line[i] == '+' || line[i] == '-') {
				text = append(text, line[i])
				i++
			}
			var err error
			var exp []byte
			exp, i, err = p.scanSeparatedDigits(i)
			if err != nil {
				return value.Value{}, i, err
			}
			if len(exp) == 0 {
				return value.Value{}, i, p.errAt(i, "Bad exponent")
			}
			text = append(text, exp...)
		}
		if err := p.checkNumTerm(i, term); err != nil {
			return value.Value{}, i, err
		}
		f, err := strconv.ParseFloat(string(text), 64)
		if err != nil {
			var numErr *strconv.NumError
			if errors.As(err, &numErr) && numErr.Err == strconv.ErrRange {
				return value.Value{}, i, p.errAt(pos, "Floating point overflow")
			}
			return value.Value{}, i, p.errAt(pos, "Floating point conversion error")
		}
		return value.NewFloat(float64(sign) * f), i, nil
	}

	if err := p.checkNumTerm(i, term); err != nil {
		return value.Value{}, i, err
	}
	if overflow {
		return value.Value{}, i, p.errAt(pos, "Numeric overflow")
	}
	if sign < 0 {
		if u == 0 {
			return value.NewInt(0), i, nil
		}
		if u > math.MaxInt64 {
			return value.Value{}, i, p.errAt(pos, "Integer overflow")
		}
		return value.NewInt(-int64(u)), i, nil
	}
	if u > math.MaxInt64 {
		return value.NewUint(u), i, nil
	}
	return value.NewInt(int64(u)), i, nil
}

// scanSeparatedDigits reads a run of decimal digits with `_`/`'`
// separators, returning the digits with separators stripped.
func (p *Parser) scanSeparatedDigits(pos int) ([]byte, int, error) {
	line := p.line
	i := pos
	var digits []byte
	lastSep := false
	for i < len(line) {
		c := line[i]
		if c == '_' || c == '\'' {
			if len(digits) == 0 {
				return nil, i, p.errAt(i, "Separator is not allowed in the beginning of number")
			}
			if lastSep {
				return nil, i, p.errAt(i, "Duplicate separator in the number")
			}
			lastSep = true
			i++
			continue
		}
		if !isDigit(c) {
			break
		}
		lastSep = false
		digits = append(digits, c)
		i++
	}
	if lastSep {
		return nil, i - 1, p.errAt(i-1, "Separator is not allowed in the end of number")
	}
	return digits, i, nil
}

// checkNumTerm verifies that the character after a number is
// whitespace, end of line, or one of the allowed terminators.
func (p *Parser) checkNumTerm(pos int, term string) error {
	if pos >= len(p.line) {
		return nil
	}
	c := p.line[pos]
	if c == ' ' || c == '\t' {
		return nil
	}
	for j := 0; j < len(term); j++ {
		if c == term[j] {
			return nil
		}
	}
	return p.errAt(pos, "Bad number")
}

func digitVal(c byte, radix int) (int, bool) {
	var d int
	switch {
	case c >= '0' && c <= '9':
		d = int(c - '0')
	case c >= 'a' && c <= 'z':
		d = int(c-'a') + 10
	case c >= 'A' && c <= 'Z':
		d = int(c-'A') + 10
	default:
		return 0, false
	}
	if d >= radix {
		return 0, false
	}
	return d, true
}
