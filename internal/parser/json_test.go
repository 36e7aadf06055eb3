package parser

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petbrain/amw/internal/lines"
	"github.com/petbrain/amw/pkg/value"
)

func parseJSONDoc(t *testing.T, input string) value.Value {
	t.Helper()
	v, err := New(lines.NewString(input)).ParseJSON()
	require.NoError(t, err, "input:\n%s", input)
	return v
}

func parseJSONFail(t *testing.T, input string) *ParseError {
	t.Helper()
	_, err := New(lines.NewString(input)).ParseJSON()
	require.Error(t, err, "input:\n%s", input)
	var pe *ParseError
	require.ErrorAs(t, err, &pe, "input:\n%s", input)
	return pe
}

func TestJSONScalars(t *testing.T) {
	for _, tc := range []struct {
		input string
		want  value.Value
	}{
		{"null", value.NewNull()},
		{"true", value.NewBool(true)},
		{"false", value.NewBool(false)},
		{"42", value.NewInt(42)},
		{"-7", value.NewInt(-7)},
		{"2.5", value.NewFloat(2.5)},
		{"1e2", value.NewFloat(100)},
		{`"hi"`, value.NewString("hi")},
		{`"a\nb"`, value.NewString("a\nb")},
		{`"A"`, value.NewString("A")},
	} {
		v := parseJSONDoc(t, tc.input+"\n")
		assert.True(t, value.Equal(v, tc.want), "input %q: got %s", tc.input, v)
	}
}

func TestJSONContainers(t *testing.T) {
	v := parseJSONDoc(t, `{"x": [1, 2, 3], "y": null}`+"\n")
	require.Equal(t, value.Map, v.Kind())
	x, ok := v.GetString("x")
	require.True(t, ok)
	assert.True(t, value.Equal(x,
		value.NewArray(value.NewInt(1), value.NewInt(2), value.NewInt(3))))
	y, ok := v.GetString("y")
	require.True(t, ok)
	assert.True(t, y.IsNull())

	v = parseJSONDoc(t, "[]\n")
	assert.Equal(t, 0, v.Len())
	v = parseJSONDoc(t, "{}\n")
	assert.Equal(t, 0, v.Len())

	v = parseJSONDoc(t, `[{"a": 1}, [2], "three"]`+"\n")
	require.Equal(t, 3, v.Len())
}

func TestJSONAcrossLines(t *testing.T) {
	v := parseJSONDoc(t, "{\n  \"a\": 1,\n  \"b\": [\n    2,\n    3\n  ]\n}\n")
	b, ok := v.GetString("b")
	require.True(t, ok)
	assert.Equal(t, 2, b.Len())
}

func TestJSONComments(t *testing.T) {
	// Comments count as whitespace between tokens; this deviates
	// from RFC 8259 on purpose.
	v := parseJSONDoc(t, "{ # config\n  \"a\": 1, # first\n  \"b\": 2\n} # done\n")
	require.Equal(t, 2, v.Len())
}

func TestJSONDuplicateKeys(t *testing.T) {
	v := parseJSONDoc(t, `{"a": 1, "a": 2}`+"\n")
	require.Equal(t, 1, v.Len())
	a, _ := v.GetString("a")
	assert.True(t, value.Equal(a, value.NewInt(2)))
}

func TestJSONErrors(t *testing.T) {
	for _, tc := range []struct {
		input string
		msg   string
	}{
		{`{"a": 1,}`, "Unexpected character"},
		{`[1,]`, "Unexpected character"},
		{`[1 2]`, "Array items must be separated with comma"},
		{`{"a" 1}`, "Values must be separated from keys with colon"},
		{`{"a": 1 "b": 2}`, "Object members must be separated with comma"},
		{`{a: 1}`, "Unexpected character"},
		{`tru`, "Unexpected character"},
		{`truex`, "Unexpected character"},
		{`+1`, "Unexpected character"},
		{`"open`, "String has no closing quote"},
		{`[1] x`, "Garbage after JSON value"},
		{`[`, "Unexpected end of block"},
		{`{"a":`, "Unexpected end of block"},
	} {
		pe := parseJSONFail(t, tc.input+"\n")
		assert.Equal(t, tc.msg, pe.Msg, "input %q", tc.input)
	}
}

func TestJSONTrailingCommaPosition(t *testing.T) {
	pe := parseJSONFail(t, `{"a": 1,}`+"\n")
	assert.Equal(t, "Unexpected character", pe.Msg)
	assert.Equal(t, 1, pe.Line)
	assert.Equal(t, 8, pe.Col)
}

func TestJSONGarbageOnLaterLine(t *testing.T) {
	// The end-of-line check alone is not enough: data further down
	// the block is garbage too.
	pe := parseJSONFail(t, "[1]\nx\n")
	assert.Equal(t, "Garbage after JSON value", pe.Msg)
	assert.Equal(t, 2, pe.Line)
}

func TestJSONDepthCap(t *testing.T) {
	ok := strings.Repeat("[", 100) + strings.Repeat("]", 100)
	v := parseJSONDoc(t, ok+"\n")
	require.Equal(t, value.Array, v.Kind())

	pe := parseJSONFail(t, strings.Repeat("[", 101)+strings.Repeat("]", 101)+"\n")
	assert.Equal(t, "Maximum recursion depth exceeded", pe.Msg)
}

func TestJSONSpecifierInline(t *testing.T) {
	v := parseDoc(t, `j: :json: {"x": [1, 2, 3], "y": null}`+"\n")
	j, ok := v.GetString("j")
	require.True(t, ok)
	require.Equal(t, value.Map, j.Kind())
	x, _ := j.GetString("x")
	assert.Equal(t, 3, x.Len())
}

func TestJSONSpecifierBlock(t *testing.T) {
	v := parseDoc(t, "j: :json:\n  [1,\n   2]\n")
	j, ok := v.GetString("j")
	require.True(t, ok)
	assert.True(t, value.Equal(j, value.NewArray(value.NewInt(1), value.NewInt(2))))
}

func TestJSONSpecifierGarbage(t *testing.T) {
	pe := parseFail(t, "j: :json: [1] extra\n")
	assert.Equal(t, "Garbage after JSON value", pe.Msg)
}

func TestJSONEmptyInput(t *testing.T) {
	_, err := New(lines.NewString("")).ParseJSON()
	assert.ErrorIs(t, err, io.EOF)
}
