package parser

import (
	"math"

	"github.com/petbrain/amw/pkg/value"
)

// parseDateTimeBlock is the sub-parser behind the `datetime`
// conversion specifier. The block must hold exactly one date-time,
// optionally followed by whitespace and a comment.
func (p *Parser) parseDateTimeBlock() (value.Value, error) {
	start := skipSpaces(p.line, p.blockIndent)
	dt, end, err := p.parseDateTimeAt(start)
	if err != nil {
		return value.Value{}, err
	}
	if err := p.requireLineEnd(end, "Bad date/time"); err != nil {
		return value.Value{}, err
	}
	if err := p.drainBlock("Extra data after parsed value"); err != nil {
		return value.Value{}, err
	}
	return value.NewDateTime(dt), nil
}

// parseTimestampBlock is the sub-parser behind the `timestamp`
// conversion specifier: seconds since the epoch with an optional
// nanosecond fraction.
func (p *Parser) parseTimestampBlock() (value.Value, error) {
	start := skipSpaces(p.line, p.blockIndent)
	ts, end, err := p.parseTimestampAt(start)
	if err != nil {
		return value.Value{}, err
	}
	if err := p.requireLineEnd(end, "Bad timestamp"); err != nil {
		return value.Value{}, err
	}
	if err := p.drainBlock("Extra data after parsed value"); err != nil {
		return value.Value{}, err
	}
	return value.NewTimestamp(ts), nil
}

// parseDateTimeAt reads YYYY[-]MM[-]DD, optionally followed by `T` or
// whitespace and HH[:]MM[:]SS, an optional 1-9 digit fraction, and an
// optional `Z` or ±HH[:]MM offset. The offset is stored as signed
// minutes.
func (p *Parser) parseDateTimeAt(pos int) (value.DateTimeValue, int, error) {
	line := p.line
	var dt value.DateTimeValue
	i := pos

	year, i, ok := readFixedDigits(line, i, 4)
	if !ok {
		return dt, i, p.errAt(i, "Bad date/time")
	}
	i = skipByte(line, i, '-')
	month, i, ok := readFixedDigits(line, i, 2)
	if !ok {
		return dt, i, p.errAt(i, "Bad date/time")
	}
	i = skipByte(line, i, '-')
	day, i, ok := readFixedDigits(line, i, 2)
	if !ok {
		return dt, i, p.errAt(i, "Bad date/time")
	}
	dt.Year, dt.Month, dt.Day = year, month, day

	// Optional time of day, introduced by `T` or whitespace.
	j := i
	if j < len(line) && (line[j] == 'T' || line[j] == ' ' || line[j] == '\t') {
		if line[j] == 'T' {
			j++
		} else {
			j = skipSpaces(line, j)
		}
		if j < len(line) && isDigit(line[j]) {
			hour, k, ok := readFixedDigits(line, j, 2)
			if !ok {
				return dt, k, p.errAt(k, "Bad date/time")
			}
			k = skipByte(line, k, ':')
			minute, k, ok := readFixedDigits(line, k, 2)
			if !ok {
				return dt, k, p.errAt(k, "Bad date/time")
			}
			k = skipByte(line, k, ':')
			second, k, ok := readFixedDigits(line, k, 2)
			if !ok {
				return dt, k, p.errAt(k, "Bad date/time")
			}
			dt.Hour, dt.Minute, dt.Second = hour, minute, second
			i = k
		} else if line[i] == 'T' {
			return dt, j, p.errAt(j, "Bad date/time")
		}
	}

	if i < len(line) && line[i] == '.' {
		ns, k, err := p.parseNanoFraction(i)
		if err != nil {
			return dt, k, err
		}
		dt.Nanosecond = int(ns)
		i = k
	}

	if i < len(line) {
		switch line[i] {
		case 'Z':
			dt.HasOffset = true
			i++
		case '+', '-':
			neg := line[i] == '-'
			i++
			hh, k, ok := readFixedDigits(line, i, 2)
			if !ok {
				return dt, k, p.errAt(k, "Bad date/time")
			}
			k = skipByte(line, k, ':')
			mm, k, ok := readFixedDigits(line, k, 2)
			if !ok {
				return dt, k, p.errAt(k, "Bad date/time")
			}
			if hh > 23 || mm > 59 {
				return dt, k, p.errAt(k, "Bad date/time")
			}
			off := hh*60 + mm
			if neg {
				off = -off
			}
			dt.Offset = off
			dt.HasOffset = true
			i = k
		}
	}
	return dt, i, nil
}

// parseTimestampAt reads a non-negative decimal second count with an
// optional nanosecond fraction.
func (p *Parser) parseTimestampAt(pos int) (value.TimestampValue, int, error) {
	line := p.line
	var ts value.TimestampValue
	i := pos
	if i >= len(line) || !isDigit(line[i]) {
		return ts, i, p.errAt(i, "Bad timestamp")
	}
	var sec uint64
	for i < len(line) && isDigit(line[i]) {
		d := uint64(line[i] - '0')
		if sec > (math.MaxUint64-d)/10 {
			return ts, i, p.errAt(pos, "Numeric overflow")
		}
		sec = sec*10 + d
		i++
	}
	ts.Seconds = sec
	if i < len(line) && line[i] == '.' {
		ns, k, err := p.parseNanoFraction(i)
		if err != nil {
			return ts, k, p.errAt(i, "Bad timestamp")
		}
		ts.Nanoseconds = ns
		i = k
	}
	return ts, i, nil
}

// parseNanoFraction reads `.` followed by 1-9 fractional digits and
// scales the result to nanoseconds. A tenth digit is an error.
func (p *Parser) parseNanoFraction(pos int) (uint32, int, error) {
	line := p.line
	i := pos + 1
	var n uint32
	count := 0
	for i < len(line) && isDigit(line[i]) {
		if count == 9 {
			return 0, i, p.errAt(i, "Bad date/time")
		}
		n = n*10 + uint32(line[i]-'0')
		count++
		i++
	}
	if count == 0 {
		return 0, i, p.errAt(i, "Bad date/time")
	}
	for ; count < 9; count++ {
		n *= 10
	}
	return n, i, nil
}

// requireLineEnd verifies that only whitespace and a comment remain
// after pos on the current line.
func (p *Parser) requireLineEnd(pos int, msg string) error {
	i := skipSpaces(p.line, pos)
	if i < len(p.line) && p.line[i] != '#' {
		return p.errAt(i, msg)
	}
	return nil
}

// readFixedDigits reads exactly count ASCII digits.
func readFixedDigits(line string, pos, count int) (int, int, bool) {
	n := 0
	i := pos
	for ; i < pos+count; i++ {
		if i >= len(line) || !isDigit(line[i]) {
			return 0, i, false
		}
		n = n*10 + int(line[i]-'0')
	}
	return n, i, true
}

// skipByte advances past c when it is the character at pos.
func skipByte(line string, pos int, c byte) int {
	if pos < len(line) && line[pos] == c {
		return pos + 1
	}
	return pos
}
