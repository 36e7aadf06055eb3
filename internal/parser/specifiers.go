package parser

import (
	"errors"
	"strings"

	"github.com/petbrain/amw/pkg/value"
)

// parseRawBlock joins the block's lines verbatim with LF, keeping any
// indentation beyond the block indent. More than one line gains a
// trailing LF.
func (p *Parser) parseRawBlock() (value.Value, error) {
	ls, err := p.CollectBlock()
	if err != nil {
		return value.Value{}, err
	}
	return value.NewString(joinLines(ls)), nil
}

// parseLiteralBlock is raw with the lines dedented to their common
// leading-space prefix and trailing empty lines dropped.
func (p *Parser) parseLiteralBlock() (value.Value, error) {
	ls, err := p.CollectBlock()
	if err != nil {
		return value.Value{}, err
	}
	ls = dedent(ls)
	for len(ls) > 0 && ls[len(ls)-1] == "" {
		ls = ls[:len(ls)-1]
	}
	return value.NewString(joinLines(ls)), nil
}

// parseFoldedBlock dedents the block and folds it into a single
// string: adjacent non-empty lines join with one space, an empty line
// becomes a literal LF, and a line that already starts with
// whitespace joins without the space.
func (p *Parser) parseFoldedBlock() (value.Value, error) {
	ls, err := p.CollectBlock()
	if err != nil {
		return value.Value{}, err
	}
	return value.NewString(fold(dedent(ls))), nil
}

func joinLines(ls []string) string {
	s := strings.Join(ls, "\n")
	if len(ls) > 1 {
		s += "\n"
	}
	return s
}

// dedent strips the longest common leading-space prefix of the
// non-empty lines from every line.
func dedent(ls []string) []string {
	common := -1
	for _, l := range ls {
		if l == "" {
			continue
		}
		n := countIndent(l)
		if common < 0 || n < common {
			common = n
		}
	}
	if common <= 0 {
		return ls
	}
	out := make([]string, len(ls))
	for i, l := range ls {
		if l == "" {
			out[i] = ""
			continue
		}
		out[i] = l[common:]
	}
	return out
}

// fold joins the given lines into one string. Trailing empty lines do
// not contribute.
func fold(ls []string) string {
	var b strings.Builder
	pendingLF := 0
	wrote := false
	for _, l := range ls {
		if l == "" {
			if wrote {
				pendingLF++
			}
			continue
		}
		if wrote {
			if pendingLF > 0 {
				for ; pendingLF > 0; pendingLF-- {
					b.WriteByte('\n')
				}
			} else if l[0] != ' ' && l[0] != '\t' {
				b.WriteByte(' ')
			}
		}
		pendingLF = 0
		b.WriteString(l)
		wrote = true
	}
	return b.String()
}

// scanSpecifier recognizes a `:name:` conversion specifier starting
// at pos. The name must be non-empty and contain no whitespace or
// colon. Returns the name and the position just past the closing
// colon. Recognition is purely lexical; the caller decides what an
// unregistered name means.
func scanSpecifier(line string, pos int) (string, int, bool) {
	if pos >= len(line) || line[pos] != ':' {
		return "", 0, false
	}
	i := pos + 1
	for i < len(line) {
		c := line[i]
		if c == ':' {
			if i == pos+1 {
				return "", 0, false
			}
			return line[pos+1 : i], i + 1, true
		}
		if c == ' ' || c == '\t' || c == '#' {
			return "", 0, false
		}
		i++
	}
	return "", 0, false
}

// lookupSpecifier resolves a lexical `:name:` at pos against the
// registry. Unregistered names are not specifiers.
func (p *Parser) lookupSpecifier(pos int) (string, SubParser, int, bool) {
	name, after, ok := scanSpecifier(p.line, pos)
	if !ok {
		return "", nil, 0, false
	}
	fn, ok := p.custom[name]
	if !ok {
		return "", nil, 0, false
	}
	return name, fn, after, true
}

// drainBlock consumes the remainder of the current block, requiring
// it to hold nothing but blank and comment lines.
func (p *Parser) drainBlock(msg string) error {
	for {
		if err := p.readBlockLine(); err != nil {
			if errors.Is(err, ErrEndOfBlock) {
				return nil
			}
			return err
		}
		if p.line == "" || p.isCommentLine() {
			continue
		}
		return p.errIndent(msg)
	}
}
