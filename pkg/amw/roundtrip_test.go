package amw

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petbrain/amw/pkg/value"
)

// roundTrip encodes v, re-parses the result, and requires equality.
// It returns the canonical text for the idempotence check.
func roundTrip(t *testing.T, v value.Value) string {
	t.Helper()
	text, err := Encode(v)
	require.NoError(t, err, "value %s", v)
	got, err := Parse(text)
	require.NoError(t, err, "canonical form:\n%s", text)
	require.True(t, value.Equal(v, got),
		"round trip changed the value\ncanonical form:\n%s\nwant: %s\ngot:  %s", text, v, got)
	return text
}

func sampleValues() []value.Value {
	mixed := value.NewMap()
	mixed.Set(value.NewString("name"), value.NewString("demo"))
	mixed.Set(value.NewString("count"), value.NewInt(-3))
	mixed.Set(value.NewString("big"), value.NewUint(18446744073709551615))
	mixed.Set(value.NewString("ratio"), value.NewFloat(0.125))
	mixed.Set(value.NewString("on"), value.NewBool(true))
	mixed.Set(value.NewString("none"), value.NewNull())
	mixed.Set(value.NewString("when"), value.NewDateTime(value.DateTimeValue{
		Year: 2024, Month: 2, Day: 29,
		Hour: 12, Minute: 34, Second: 56,
		Nanosecond: 500_000_000, HasOffset: true,
	}))
	mixed.Set(value.NewString("at"), value.NewTimestamp(value.TimestampValue{
		Seconds: 1700000000, Nanoseconds: 1,
	}))

	nested := value.NewMap()
	inner := value.NewMap()
	inner.Set(value.NewString("deep"), value.NewArray(
		value.NewInt(1),
		value.NewArray(value.NewInt(2), value.NewInt(3)),
	))
	nested.Set(value.NewString("outer"), inner)
	nested.Set(value.NewInt(7), value.NewString("int key"))
	nested.Set(value.NewBool(false), value.NewString("bool key"))
	nested.Set(value.NewNull(), value.NewString("null key"))

	strs := value.NewArray(
		value.NewString("plain"),
		value.NewString("two words"),
		value.NewString("needs: quoting"),
		value.NewString("multi\nline\ntext"),
		value.NewString(""),
		value.NewString("  leading and trailing  "),
		value.NewString("tab\there"),
		value.NewString("#comment-ish"),
		value.NewString("-dash"),
		value.NewString("007"),
		value.NewString("nullable"),
		value.NewString("\"quoted\""),
		value.NewString("unicode héllo ✓"),
		value.NewString("esc \\ and \x01"),
	)

	return []value.Value{
		value.NewNull(),
		value.NewBool(false),
		value.NewInt(0),
		value.NewInt(-9223372036854775807),
		value.NewUint(9223372036854775808),
		value.NewFloat(2.5),
		value.NewFloat(-1e100),
		value.NewFloat(3.141592653589793),
		value.NewString("hello"),
		value.NewDateTime(value.DateTimeValue{Year: 1999, Month: 12, Day: 31}),
		value.NewTimestamp(value.TimestampValue{Seconds: 0}),
		value.NewArray(),
		value.NewMap(),
		mixed,
		nested,
		strs,
	}
}

func TestRoundTrip(t *testing.T) {
	for _, v := range sampleValues() {
		roundTrip(t, v)
	}
}

func TestRoundTripIdempotent(t *testing.T) {
	// Encoding a re-parsed canonical form reproduces the text.
	for _, v := range sampleValues() {
		text := roundTrip(t, v)
		again, err := Parse(text)
		require.NoError(t, err)
		text2, err := Encode(again)
		require.NoError(t, err)
		assert.Equal(t, text, text2)
	}
}

func TestEncodeRejectsNonFinite(t *testing.T) {
	_, err := Encode(value.NewFloat(math.Inf(1)))
	assert.Error(t, err)
	_, err = Encode(value.NewFloat(math.NaN()))
	assert.Error(t, err)
}

func TestEncodeRejectsDateTimeKey(t *testing.T) {
	m := value.NewMap()
	m.Set(value.NewDateTime(value.DateTimeValue{Year: 2024, Month: 1, Day: 1}), value.NewInt(1))
	_, err := Encode(m)
	assert.Error(t, err)
}

func TestCanonicalShapes(t *testing.T) {
	m := value.NewMap()
	m.Set(value.NewString("a"), value.NewInt(1))
	m.Set(value.NewString("xs"), value.NewArray(value.NewInt(1), value.NewInt(2)))
	text, err := Encode(m)
	require.NoError(t, err)
	assert.Equal(t, "a: 1\nxs:\n  - 1\n  - 2\n", text)

	text, err = Encode(value.NewArray())
	require.NoError(t, err)
	assert.Equal(t, ":json: []\n", text)
}
