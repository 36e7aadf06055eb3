// Package amw parses the amw markup format: an indentation-sensitive
// notation whose block mode gives YAML-like lists, maps, and literal
// or folded strings, and whose inline mode is strict JSON. The two
// modes meet in conversion specifiers, `:name:` tokens that hand a
// subordinate block to a named sub-parser.
//
// # Parsing APIs
//
//   - Parse(string) - parses a document from a string in memory
//   - ParseReader(io.Reader) - parses from any io.Reader
//   - ParseJSON / ParseJSONReader - parse with the JSON grammar at
//     the top level
//   - Validate(string) - checks syntax, discards the value
//
// The parsing functions return a value.Value: a dynamically typed tree of
// nulls, booleans, integers, floats, strings, date-times, timestamps,
// arrays, and maps.
//
// An empty input (or one holding only comments) returns io.EOF.
//
// # Thread safety
//
// Every call creates its own parser state, so the package-level
// functions are safe for concurrent use. A Parser value is bound to
// one input and must not be shared.
//
// # Conversion specifiers
//
// The built-in specifiers are raw, literal, folded, datetime,
// timestamp, and json. NewParser followed by Register adds custom
// ones:
//
//	p := amw.NewParser(strings.NewReader(input))
//	p.Register("upper", func(s *amw.ParserState) (value.Value, error) {
//		lines, err := s.CollectBlock()
//		if err != nil {
//			return value.Value{}, err
//		}
//		return value.NewString(strings.ToUpper(strings.Join(lines, "\n"))), nil
//	})
//	v, err := p.Parse()
//
// # JSON deviation
//
// The JSON grammar accepts `#`-comments as whitespace between tokens.
// This is intentional, so that commented block documents can embed
// `:json:` islands, and it deliberately deviates from RFC 8259.
// ParseJSON inherits the deviation.
package amw

import (
	"io"
	"strings"

	"github.com/petbrain/amw/internal/lines"
	"github.com/petbrain/amw/internal/parser"
	"github.com/petbrain/amw/pkg/value"
)

// ParserState is the state handed to conversion-specifier
// sub-parsers. See the parser methods Line, Indent, BlockIndent,
// LineNumber, ReadBlockLine, CollectBlock, and Errorf.
type ParserState = parser.Parser

// SubParser parses the current block and returns its value.
type SubParser = parser.SubParser

// ParseError describes a syntax error: 1-based line, code-point
// column, and a description.
type ParseError = parser.ParseError

// Parser parses one input with an optionally extended specifier
// registry.
type Parser struct {
	p *parser.Parser
}

// NewParser creates a parser reading from r.
func NewParser(r io.Reader) *Parser {
	return &Parser{p: parser.New(lines.New(r))}
}

// Register adds or replaces the sub-parser for conversion specifier
// name. Registrations must happen before parsing begins; a later
// registration for the same name wins.
func (pr *Parser) Register(name string, fn SubParser) {
	pr.p.Register(name, fn)
}

// Parse reads the whole input as a single block-mode value.
func (pr *Parser) Parse() (value.Value, error) {
	return pr.p.Parse()
}

// ParseJSON reads the whole input as a single JSON value.
func (pr *Parser) ParseJSON() (value.Value, error) {
	return pr.p.ParseJSON()
}

// Parse parses a document from a string.
//
// Example:
//
//	v, err := amw.Parse("name: Alice\nage: 30\n")
//	name, _ := v.GetString("name") // string value "Alice"
func Parse(input string) (value.Value, error) {
	return NewParser(strings.NewReader(input)).Parse()
}

// ParseReader parses a document from an io.Reader. The reader is
// consumed line by line; memory use is bounded by the longest line
// and the size of the resulting value.
func ParseReader(r io.Reader) (value.Value, error) {
	return NewParser(r).Parse()
}

// ParseJSON parses a JSON document from a string, with `#`-comments
// allowed between tokens.
func ParseJSON(input string) (value.Value, error) {
	return NewParser(strings.NewReader(input)).ParseJSON()
}

// ParseJSONReader parses a JSON document from an io.Reader.
func ParseJSONReader(r io.Reader) (value.Value, error) {
	return NewParser(r).ParseJSON()
}

// Validate checks whether input is a syntactically valid document.
// It returns nil for valid input, io.EOF for empty input, and a
// *ParseError describing the first syntax problem otherwise.
func Validate(input string) error {
	_, err := Parse(input)
	return err
}
