package amw

import (
	"testing"

	"github.com/petbrain/amw/pkg/value"
)

// FuzzParse checks that no input crashes the parser and that every
// accepted value survives an encode/re-parse round trip.
func FuzzParse(f *testing.F) {
	f.Add("key: value")
	f.Add("a: 1\nb: 2")
	f.Add("- 1\n- 2\n- 3")
	f.Add("s: :literal:\n  hello\n  world")
	f.Add("j: :json: {\"x\": [1, 2, 3], \"y\": null}")
	f.Add("t: \"multi\n line\n string\"")
	f.Add("d: :datetime: 2024-02-29T12:34:56.5Z")
	f.Add("t: :timestamp: 1700000000.5")
	f.Add("n: -0x7F\nm: 1_000")
	f.Add("# comment\n\nx: y")
	f.Add(":raw:\n  text")

	f.Fuzz(func(t *testing.T, data string) {
		v, err := Parse(data)
		if err != nil {
			return
		}
		text, err := Encode(v)
		if err != nil {
			// Parser output is always encodable.
			t.Fatalf("cannot encode parsed value %s: %v", v, err)
		}
		again, err := Parse(text)
		if err != nil {
			t.Fatalf("canonical form does not re-parse: %v\ninput: %q\ncanonical:\n%s", err, data, text)
		}
		if !value.Equal(v, again) {
			t.Fatalf("round trip changed the value\ninput: %q\ncanonical:\n%s", data, text)
		}
	})
}

// FuzzParseJSON checks that no input crashes the JSON grammar.
func FuzzParseJSON(f *testing.F) {
	f.Add(`{"a": 1}`)
	f.Add(`[1, 2, 3]`)
	f.Add(`"string"`)
	f.Add(`{ # comment
  "a": [true, false, null]
}`)
	f.Add(`-12.5e-3`)

	f.Fuzz(func(t *testing.T, data string) {
		_, _ = ParseJSON(data)
	})
}
