package parser

import (
	"errors"
	"strings"

	"github.com/petbrain/amw/pkg/value"
)

// parseJSONBlock is the sub-parser behind the `json` conversion
// specifier: a strict JSON value, except that `#`-comments count as
// whitespace between tokens. Nothing but the value may remain in the
// block.
func (p *Parser) parseJSONBlock() (value.Value, error) {
	v, end, err := p.parseJSONValue(p.blockIndent)
	if err != nil {
		return value.Value{}, err
	}
	i := skipSpaces(p.line, end)
	if i < len(p.line) && p.line[i] != '#' {
		return value.Value{}, p.errAt(i, "Garbage after JSON value")
	}
	// The end-of-line test alone is not enough: the block may carry
	// more lines, and those must be empty too.
	if err := p.drainBlock("Garbage after JSON value"); err != nil {
		return value.Value{}, err
	}
	return v, nil
}

// parseJSONValue parses one JSON value starting at or after pos.
// Whitespace includes line breaks: the scan follows the block across
// lines through the block reader.
func (p *Parser) parseJSONValue(pos int) (value.Value, int, error) {
	i, err := p.jsonSkipWS(pos)
	if err != nil {
		return value.Value{}, i, err
	}
	switch c := p.line[i]; {
	case c == '{':
		return p.parseJSONObject(i)
	case c == '[':
		return p.parseJSONArray(i)
	case c == '"':
		s, end, err := p.parseJSONString(i)
		if err != nil {
			return value.Value{}, end, err
		}
		return value.NewString(s), end, nil
	case c == '-':
		if i+1 >= len(p.line) || !isDigit(p.line[i+1]) {
			return value.Value{}, i, p.errAt(i, "Unexpected character")
		}
		return p.jsonNumber(i+1, -1)
	case isDigit(c):
		return p.jsonNumber(i, +1)
	case strings.HasPrefix(p.line[i:], "null"):
		return p.jsonKeyword(i, 4, value.NewNull())
	case strings.HasPrefix(p.line[i:], "true"):
		return p.jsonKeyword(i, 4, value.NewBool(true))
	case strings.HasPrefix(p.line[i:], "false"):
		return p.jsonKeyword(i, 5, value.NewBool(false))
	}
	return value.Value{}, i, p.errAt(i, "Unexpected character")
}

func (p *Parser) jsonNumber(pos, sign int) (value.Value, int, error) {
	return p.parseNumber(pos, sign, jsonNumTerm)
}

func (p *Parser) jsonKeyword(pos, width int, v value.Value) (value.Value, int, error) {
	end := pos + width
	if end < len(p.line) {
		switch c := p.line[end]; c {
		case ' ', '\t', ',', '}', ']', '#', ':':
		default:
			return value.Value{}, end, p.errAt(end, "Unexpected character")
		}
	}
	return v, end, nil
}

// parseJSONString parses a double-quoted JSON string, which must
// close on the line it opened.
func (p *Parser) parseJSONString(pos int) (string, int, error) {
	qpos := findUnescapedQuote(p.line, pos+1, '"')
	if qpos < 0 {
		return "", pos, p.errAt(len(p.line), "String has no closing quote")
	}
	s, _, err := p.decodeSpan(pos+1, qpos, '"')
	if err != nil {
		return "", pos, err
	}
	return s, qpos + 1, nil
}

func (p *Parser) parseJSONArray(pos int) (value.Value, int, error) {
	if err := p.enterJSON(pos); err != nil {
		return value.Value{}, pos, err
	}
	defer p.leaveJSON()

	arr := value.NewArray()
	i, err := p.jsonSkipWS(pos + 1)
	if err != nil {
		return value.Value{}, i, err
	}
	if p.line[i] == ']' {
		return arr, i + 1, nil
	}
	for {
		var v value.Value
		v, i, err = p.parseJSONValue(i)
		if err != nil {
			return value.Value{}, i, err
		}
		arr.Append(v)
		i, err = p.jsonSkipWS(i)
		if err != nil {
			return value.Value{}, i, err
		}
		switch p.line[i] {
		case ',':
			i++
		case ']':
			return arr, i + 1, nil
		default:
			return value.Value{}, i, p.errAt(i, "Array items must be separated with comma")
		}
	}
}

func (p *Parser) parseJSONObject(pos int) (value.Value, int, error) {
	if err := p.enterJSON(pos); err != nil {
		return value.Value{}, pos, err
	}
	defer p.leaveJSON()

	m := value.NewMap()
	i, err := p.jsonSkipWS(pos + 1)
	if err != nil {
		return value.Value{}, i, err
	}
	if p.line[i] == '}' {
		return m, i + 1, nil
	}
	for {
		if p.line[i] != '"' {
			return value.Value{}, i, p.errAt(i, "Unexpected character")
		}
		var key string
		key, i, err = p.parseJSONString(i)
		if err != nil {
			return value.Value{}, i, err
		}
		i, err = p.jsonSkipWS(i)
		if err != nil {
			return value.Value{}, i, err
		}
		if p.line[i] != ':' {
			return value.Value{}, i, p.errAt(i, "Values must be separated from keys with colon")
		}
		var v value.Value
		v, i, err = p.parseJSONValue(i + 1)
		if err != nil {
			return value.Value{}, i, err
		}
		m.Set(value.NewString(key), v)
		i, err = p.jsonSkipWS(i)
		if err != nil {
			return value.Value{}, i, err
		}
		switch p.line[i] {
		case ',':
			i, err = p.jsonSkipWS(i + 1)
			if err != nil {
				return value.Value{}, i, err
			}
		case '}':
			return m, i + 1, nil
		default:
			return value.Value{}, i, p.errAt(i, "Object members must be separated with comma")
		}
	}
}

func (p *Parser) enterJSON(pos int) error {
	if p.jsonDepth >= maxJSONDepth {
		return p.errAt(pos, "Maximum recursion depth exceeded")
	}
	p.jsonDepth++
	return nil
}

func (p *Parser) leaveJSON() { p.jsonDepth-- }

// jsonSkipWS advances past spaces, comments, and line breaks,
// returning the position of the next token on the (possibly new)
// current line. Running out of block is an error inside JSON.
func (p *Parser) jsonSkipWS(pos int) (int, error) {
	i := pos
	for {
		i = skipSpaces(p.line, i)
		if i < len(p.line) && p.line[i] != '#' {
			return i, nil
		}
		if err := p.readBlockLine(); err != nil {
			if errors.Is(err, ErrEndOfBlock) {
				return 0, p.errIndent("Unexpected end of block")
			}
			return 0, err
		}
		i = 0
	}
}
