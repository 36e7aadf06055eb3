package parser

import (
	"errors"
	"strings"

	"github.com/petbrain/amw/pkg/value"
)

// keySep describes a key-value separator: where the mapping value
// starts and, when the separator names one, the conversion specifier
// that parses it. A valuePos at or past the end of line means the
// value lives on the following lines.
type keySep struct {
	valuePos int
	spec     string
	fn       SubParser
}

// parsedKey carries what the map loop needs after parsing a key.
type parsedKey struct {
	keyCol int
	sep    keySep
}

// parseBlockValue is the default sub-parser: one block-mode value.
func (p *Parser) parseBlockValue() (value.Value, error) {
	v, _, err := p.parseValue(false)
	return v, err
}

// parseValue parses the value beginning on the current line. The
// leading character decides the production: a conversion specifier,
// a list or negative number after `-`, a quoted string, a keyword, a
// number, and otherwise a map or a literal string. With wantKey the
// caller needs a map key: composite values are rejected and a scalar
// is returned together with its separator.
func (p *Parser) parseValue(wantKey bool) (value.Value, *parsedKey, error) {
	var zero value.Value
	start := skipSpaces(p.line, p.blockIndent)
	if start >= len(p.line) {
		return zero, nil, p.errIndent("Empty block")
	}

	switch c := p.line[start]; {
	case c == ':':
		if wantKey {
			return zero, nil, p.errAt(start, "Map key expected and it cannot start with colon")
		}
		if _, fn, after, ok := p.lookupSpecifier(start); ok {
			q := skipSpaces(p.line, after)
			if q >= len(p.line) || p.line[q] == '#' {
				// The specifier is the whole line: the named
				// sub-parser takes over the rest of the enclosing
				// block.
				if err := p.readBlockLine(); err != nil {
					if errors.Is(err, ErrEndOfBlock) {
						return zero, nil, p.errIndent("Unexpected end of block")
					}
					return zero, nil, err
				}
				v, err := fn(p)
				return v, nil, err
			}
			v, err := p.parseBlockHere(after, fn)
			return v, nil, err
		}
		// Not a registered specifier: the block is a literal string.
		v, err := p.parseBlockHere(start, (*Parser).parseLiteralBlock)
		return v, nil, err

	case c == '-':
		if start+1 < len(p.line) && isDigit(p.line[start+1]) {
			v, end, err := p.parseNumber(start+1, -1, blockNumTerm)
			if err != nil {
				return zero, nil, err
			}
			return p.finishValue(v, start, end, wantKey)
		}
		if start+1 >= len(p.line) || p.line[start+1] == ' ' || p.line[start+1] == '\t' {
			if wantKey {
				return zero, nil, p.errAt(start, "Map key expected and it cannot be a list")
			}
			v, err := p.parseList(start)
			return v, nil, err
		}
		return p.parseStringOrMap(start, wantKey)

	case c == '"' || c == '\'':
		v, end, multiline, err := p.parseQuoted(start)
		if err != nil {
			return zero, nil, err
		}
		if multiline {
			if wantKey {
				return zero, nil, p.errAt(start, "Map key expected")
			}
			return v, nil, nil
		}
		if end < len(p.line) {
			switch p.line[end] {
			case ' ', '\t', ':', '#':
			default:
				return zero, nil, p.errAt(end, "Bad character after quoted string")
			}
		}
		return p.finishValue(v, start, end, wantKey)

	case strings.HasPrefix(p.line[start:], "null"):
		return p.finishValue(value.NewNull(), start, start+4, wantKey)
	case strings.HasPrefix(p.line[start:], "true"):
		return p.finishValue(value.NewBool(true), start, start+4, wantKey)
	case strings.HasPrefix(p.line[start:], "false"):
		return p.finishValue(value.NewBool(false), start, start+5, wantKey)

	case c == '+' || isDigit(c):
		pos := start
		if c == '+' {
			pos++
		}
		if pos < len(p.line) && isDigit(p.line[pos]) {
			v, end, err := p.parseNumber(pos, +1, blockNumTerm)
			if err != nil {
				return zero, nil, err
			}
			return p.finishValue(v, start, end, wantKey)
		}
		return p.parseStringOrMap(start, wantKey)
	}

	return p.parseStringOrMap(start, wantKey)
}

// finishValue applies the value-end check to a scalar that may turn
// out to be a map key: after trailing spaces the line must end, carry
// a comment, or carry a key-value separator.
func (p *Parser) finishValue(v value.Value, startCol, end int, wantKey bool) (value.Value, *parsedKey, error) {
	var zero value.Value
	i := skipSpaces(p.line, end)
	if i >= len(p.line) || p.line[i] == '#' {
		if wantKey {
			return zero, nil, p.errAt(i, "Map key expected")
		}
		// The scalar is the whole value: nothing else may remain in
		// its block.
		if err := p.drainBlock("Extra data after parsed value"); err != nil {
			return zero, nil, err
		}
		return v, nil, nil
	}
	if p.line[i] == ':' {
		if sep, ok := p.isKeySep(i); ok {
			if wantKey {
				return v, &parsedKey{keyCol: startCol, sep: sep}, nil
			}
			return p.mapFromFirst(v, startCol, sep)
		}
	}
	return zero, nil, p.errAt(i, "Unexpected character")
}

// isKeySep decides whether the colon at pos separates a key from a
// value: it must be followed by end of line, by whitespace and then
// anything but a bare colon, or by a registered `:name:` specifier.
func (p *Parser) isKeySep(pos int) (keySep, bool) {
	line := p.line
	next := pos + 1
	if next >= len(line) {
		return keySep{valuePos: next}, true
	}
	switch c := line[next]; c {
	case ' ', '\t':
		q := skipSpaces(line, next)
		if q >= len(line) {
			return keySep{valuePos: q}, true
		}
		if line[q] == '#' {
			return keySep{valuePos: len(line)}, true
		}
		if line[q] == ':' {
			if name, fn, after, ok := p.lookupSpecifier(q); ok {
				return keySep{valuePos: after, spec: name, fn: fn}, true
			}
			return keySep{}, false
		}
		return keySep{valuePos: q}, true
	case ':':
		if name, fn, after, ok := p.lookupSpecifier(next); ok {
			return keySep{valuePos: after, spec: name, fn: fn}, true
		}
	}
	return keySep{}, false
}

// parseStringOrMap handles the fallthrough production: a line that
// carries a key-value separator starts a map, anything else makes the
// whole block a literal string.
func (p *Parser) parseStringOrMap(start int, wantKey bool) (value.Value, *parsedKey, error) {
	var zero value.Value
	for k := start; k < len(p.line); k++ {
		if p.line[k] != ':' {
			continue
		}
		sep, ok := p.isKeySep(k)
		if !ok {
			continue
		}
		key := value.NewString(trimTrailingSpace(p.line[start:k]))
		if wantKey {
			return key, &parsedKey{keyCol: start, sep: sep}, nil
		}
		return p.mapFromFirst(key, start, sep)
	}
	if wantKey {
		return zero, nil, p.errAt(start, "Not a key")
	}
	v, err := p.parseBlockHere(start, (*Parser).parseLiteralBlock)
	return v, nil, err
}

// parseList parses the list whose first `-` sits at dashCol. Every
// item's dash must sit in the same column.
func (p *Parser) parseList(dashCol int) (value.Value, error) {
	var zero value.Value
	arr := value.NewArray()
	for {
		if dashCol >= len(p.line) || p.line[dashCol] != '-' {
			return zero, p.errAt(dashCol, "Bad list item")
		}
		after := dashCol + 1
		if after < len(p.line) && p.line[after] != ' ' && p.line[after] != '\t' {
			return zero, p.errAt(after, "Bad list item")
		}
		var v value.Value
		var err error
		q := skipSpaces(p.line, after)
		if q >= len(p.line) || p.line[q] == '#' {
			v, err = p.parseBlockNext(dashCol+2, (*Parser).parseBlockValue)
		} else {
			v, err = p.parseBlockHere(q, (*Parser).parseBlockValue)
		}
		if err != nil {
			return zero, err
		}
		arr.Append(v)
		if err := p.readBlockLine(); err != nil {
			if errors.Is(err, ErrEndOfBlock) {
				return arr, nil
			}
			return zero, err
		}
		if p.indent != dashCol {
			return zero, p.errIndent("Bad indentation of list item")
		}
	}
}

// mapFromFirst parses a map whose first key and separator are already
// in hand. Later keys must sit in the first key's column; an equal
// key overwrites the earlier entry.
func (p *Parser) mapFromFirst(firstKey value.Value, keyCol int, sep keySep) (value.Value, *parsedKey, error) {
	var zero value.Value
	m := value.NewMap()
	key, kc, s := firstKey, keyCol, sep
	for {
		v, err := p.parseMapValue(kc, s)
		if err != nil {
			return zero, nil, err
		}
		if err := m.Set(key, v); err != nil {
			return zero, nil, err
		}
		if err := p.readBlockLine(); err != nil {
			if errors.Is(err, ErrEndOfBlock) {
				return m, nil, nil
			}
			return zero, nil, err
		}
		if p.indent != keyCol {
			return zero, nil, p.errIndent("Bad indentation of map key")
		}
		k2, pk, err := p.parseValue(true)
		if err != nil {
			return zero, nil, err
		}
		if pk == nil {
			return zero, nil, p.errIndent("Map key expected")
		}
		key, kc, s = k2, pk.keyCol, pk.sep
	}
}

// parseMapValue parses one mapping value: inline when content follows
// the separator on the same line, otherwise from the following lines
// indented past the key.
func (p *Parser) parseMapValue(keyCol int, sep keySep) (value.Value, error) {
	fn := (*Parser).parseBlockValue
	if sep.fn != nil {
		fn = sep.fn
	}
	vstart := skipSpaces(p.line, sep.valuePos)
	if vstart >= len(p.line) || p.line[vstart] == '#' {
		return p.parseBlockNext(keyCol+1, fn)
	}
	return p.parseBlockHere(sep.valuePos, fn)
}
