package parser

import (
	"errors"
	"io"

	"github.com/petbrain/amw/pkg/value"
)

// quoteSegment is one collected piece of a multi-line quoted string,
// tagged with its source line for error reporting.
type quoteSegment struct {
	text    string
	lineNum int
}

// parseQuoted parses a quoted string whose opening quote sits at
// start on the current line. The closing quote must match the opening
// one; a quote preceded by a backslash does not terminate.
//
// When the closing quote appears on the same line, the value may
// still become a map key, and end is the position just past the
// closing quote. Otherwise the string continues over the following
// lines: they must be indented past the opening line and are
// dedented, folded, and escape-decoded. Multi-line strings cannot be
// keys, and multiline is reported true with end meaningless.
func (p *Parser) parseQuoted(start int) (v value.Value, end int, multiline bool, err error) {
	quote := p.line[start]

	if qpos := findUnescapedQuote(p.line, start+1, quote); qpos >= 0 {
		s, _, err := p.decodeSpan(start+1, qpos, quote)
		if err != nil {
			return value.Value{}, 0, false, err
		}
		return value.NewString(s), qpos + 1, false, nil
	}

	segs := []quoteSegment{{p.line[start+1:], p.lineNum}}
	openIndent := p.indent

	// Continuation lines form a nested block indented past the line
	// that opened the string. Comment skipping is off: a `#` line
	// inside the string is string content.
	savedIndent := p.blockIndent
	savedSkip := p.skipComments
	p.blockIndent = openIndent + 1
	p.skipComments = false
	segs, err = p.collectQuoted(segs, quote, openIndent)
	p.blockIndent = savedIndent
	p.skipComments = savedSkip
	if err != nil {
		return value.Value{}, 0, false, err
	}

	folded, err := assembleQuoted(segs)
	if err != nil {
		return value.Value{}, 0, false, err
	}
	// The value is complete: nothing else may remain in its block.
	if err := p.drainBlock("Extra data after parsed value"); err != nil {
		return value.Value{}, 0, false, err
	}
	return value.NewString(folded), 0, true, nil
}

// collectQuoted gathers continuation lines until a line carries the
// closing quote at or after the block indent. If the block ends
// first, one more line is read: a line that begins with the quote
// character at the opening line's indent closes the string as a
// degenerate empty continuation; anything else is an error.
func (p *Parser) collectQuoted(segs []quoteSegment, quote byte, openIndent int) ([]quoteSegment, error) {
	for {
		err := p.readBlockLine()
		if err == nil {
			line := p.line
			if qpos := findUnescapedQuote(line, 0, quote); qpos >= 0 && qpos >= p.blockIndent {
				segs = append(segs, quoteSegment{line[:qpos], p.lineNum})
				return segs, p.requireLineEnd(qpos+1, "Bad character after quoted string")
			}
			segs = append(segs, quoteSegment{line, p.lineNum})
			continue
		}
		if !errors.Is(err, ErrEndOfBlock) {
			return nil, err
		}

		// Block exit without a closing quote: accept a lone quote
		// aligned with the opening line.
		if p.eof {
			return nil, p.errIndent("String has no closing quote")
		}
		if err := p.nextLine(); err != nil {
			if err == io.EOF {
				p.eof = true
				return nil, p.errIndent("String has no closing quote")
			}
			return nil, err
		}
		if p.indent == openIndent && openIndent < len(p.line) && p.line[openIndent] == quote {
			return segs, p.requireLineEnd(openIndent+1, "Bad character after quoted string")
		}
		p.src.UnreadLine(p.line)
		p.line = ""
		p.indent = 0
		return nil, p.errIndent("String has no closing quote")
	}
}

// assembleQuoted dedents the continuation segments to their common
// leading-space prefix, decodes each segment's escapes, and folds the
// result into one string. The opening segment keeps its exact text.
func assembleQuoted(segs []quoteSegment) (string, error) {
	texts := make([]string, len(segs)-1)
	for i, seg := range segs[1:] {
		texts[i] = seg.text
	}
	texts = dedent(texts)

	decoded := make([]string, len(segs))
	for i, seg := range segs {
		t := seg.text
		if i > 0 {
			t = texts[i-1]
		}
		d, err := decodeSegment(t, seg.lineNum)
		if err != nil {
			return "", err
		}
		decoded[i] = d
	}
	return fold(decoded), nil
}
