package amw

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/petbrain/amw/pkg/value"
)

// Encode renders v in canonical block form: maps as `key: value`
// lines, arrays as `- item` lines, nested containers indented by two
// spaces, date-times and timestamps through their conversion
// specifiers, and empty containers as `:json:` islands. Strings that
// would not re-parse verbatim are double-quoted with escapes, so the
// output is always line-oriented.
//
// Parsing the canonical form yields a value equal to the input,
// except that unsigned integers within the int64 range normalize to
// signed ones, which is what the parser itself produces. Values that
// have no source form at all - non-finite floats, containers used as
// map keys, date-time or timestamp keys - are errors.
func Encode(v value.Value) (string, error) {
	var b strings.Builder
	if err := encodeValue(&b, v, 0); err != nil {
		return "", err
	}
	return b.String(), nil
}

// An Encoder writes canonical block form to a stream.
type Encoder struct {
	w io.Writer
}

// NewEncoder creates an Encoder writing to w.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

// Encode writes the canonical block form of v.
func (e *Encoder) Encode(v value.Value) error {
	s, err := Encode(v)
	if err != nil {
		return err
	}
	_, err = io.WriteString(e.w, s)
	return err
}

func encodeValue(b *strings.Builder, v value.Value, indent int) error {
	switch v.Kind() {
	case value.Array:
		items := v.Items()
		if len(items) == 0 {
			writeIndent(b, indent)
			b.WriteString(":json: []\n")
			return nil
		}
		for _, it := range items {
			if s, ok, err := scalarText(it); err != nil {
				return err
			} else if ok {
				writeIndent(b, indent)
				b.WriteString("- ")
				b.WriteString(s)
				b.WriteByte('\n')
			} else {
				writeIndent(b, indent)
				b.WriteString("-\n")
				if err := encodeValue(b, it, indent+2); err != nil {
					return err
				}
			}
		}
		return nil

	case value.Map:
		entries := v.Entries()
		if len(entries) == 0 {
			writeIndent(b, indent)
			b.WriteString(":json: {}\n")
			return nil
		}
		for _, e := range entries {
			k, err := keyText(e.Key)
			if err != nil {
				return err
			}
			if s, ok, err := scalarText(e.Val); err != nil {
				return err
			} else if ok {
				writeIndent(b, indent)
				b.WriteString(k)
				b.WriteString(": ")
				b.WriteString(s)
				b.WriteByte('\n')
			} else {
				writeIndent(b, indent)
				b.WriteString(k)
				b.WriteString(":\n")
				if err := encodeValue(b, e.Val, indent+2); err != nil {
					return err
				}
			}
		}
		return nil
	}

	s, _, err := scalarText(v)
	if err != nil {
		return err
	}
	writeIndent(b, indent)
	b.WriteString(s)
	b.WriteByte('\n')
	return nil
}

// scalarText renders a scalar inline, reporting ok=false for
// containers.
func scalarText(v value.Value) (string, bool, error) {
	switch v.Kind() {
	case value.Null:
		return "null", true, nil
	case value.Bool:
		b, _ := v.Bool()
		return strconv.FormatBool(b), true, nil
	case value.Int:
		i, _ := v.Int()
		return strconv.FormatInt(i, 10), true, nil
	case value.Uint:
		u, _ := v.Uint()
		return strconv.FormatUint(u, 10), true, nil
	case value.Float:
		f, _ := v.Float()
		return floatText(f)
	case value.String:
		s, _ := v.Str()
		if plainSafe(s) {
			return s, true, nil
		}
		return quoteString(s), true, nil
	case value.DateTime:
		dt, _ := v.Date()
		return ":datetime: " + dt.String(), true, nil
	case value.Timestamp:
		ts, _ := v.Stamp()
		return ":timestamp: " + ts.String(), true, nil
	}
	return "", false, nil
}

// keyText renders a map key. Only scalars with a literal source form
// may be keys; date-times and timestamps would need a conversion
// specifier, which cannot start a key.
func keyText(k value.Value) (string, error) {
	switch k.Kind() {
	case value.DateTime, value.Timestamp:
		return "", fmt.Errorf("amw: cannot encode %s as a map key", k.Kind())
	case value.Array, value.Map:
		return "", fmt.Errorf("amw: cannot encode %s as a map key", k.Kind())
	}
	s, _, err := scalarText(k)
	return s, err
}

func floatText(f float64) (string, bool, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", true, fmt.Errorf("amw: cannot encode non-finite float %v", f)
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s, true, nil
}

// plainSafe reports whether s re-parses as exactly the same string
// when written without quotes. The test is conservative: anything
// that could be mistaken for another production gets quoted.
func plainSafe(s string) bool {
	if s == "" {
		return false
	}
	if s[0] == ' ' || s[len(s)-1] == ' ' {
		return false
	}
	switch s[0] {
	case '-', ':', '"', '\'', '#', '+', '\t':
		return false
	}
	if s[0] >= '0' && s[0] <= '9' {
		return false
	}
	for _, prefix := range [...]string{"null", "true", "false"} {
		if strings.HasPrefix(s, prefix) {
			return false
		}
	}
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == ':' || c == '#' || c == '\\' || c == '\t':
			return false
		case c < 0x20 || c == 0x7F:
			return false
		}
	}
	return true
}

// quoteString renders s as a double-quoted single-line string using
// the parser's escape set.
func quoteString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\a':
			b.WriteString(`\a`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\v':
			b.WriteString(`\v`)
		default:
			if c < 0x20 || c == 0x7F {
				fmt.Fprintf(&b, `\x%02X`, c)
			} else {
				b.WriteByte(c)
			}
		}
	}
	b.WriteByte('"')
	return b.String()
}

func writeIndent(b *strings.Builder, n int) {
	for i := 0; i < n; i++ {
		b.WriteByte(' ')
	}
}
