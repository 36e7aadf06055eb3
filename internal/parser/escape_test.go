package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeEscapes(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`plain`, "plain"},
		{`a\nb`, "a\nb"},
		{`\a\b\f\n\r\t\v`, "\a\b\f\n\r\t\v"},
		{`\'\"\?\\`, `'"?\`},
		{`\o101`, "A"},
		{`\o7x`, "\x07x"},
		{`\x41`, "A"},
		{`A`, "A"},
		{`é`, "é"},
		{`\U0001F600`, "\U0001F600"},
		{`\q`, `\q`},       // unknown escapes stay literal
		{`end\`, `end\`},   // backslash at end of line stays literal
		{`\x41\o101c`, "AAc"},
	}
	for _, tc := range tests {
		got, stop, err := decodeEscapes(tc.in, 0, 0)
		require.Nil(t, err, "input %q", tc.in)
		assert.Equal(t, tc.want, got, "input %q", tc.in)
		assert.Equal(t, len(tc.in), stop, "input %q", tc.in)
	}
}

func TestDecodeEscapeErrors(t *testing.T) {
	tests := []struct {
		in  string
		msg string
	}{
		{`\o`, "Incomplete octal value"},
		{`\o9`, "Bad octal value"},
		{`\o777`, "Bad octal value"}, // exceeds one code unit
		{`\x4`, "Incomplete hexadecimal value"},
		{`\xG1`, "Bad hexadecimal value"},
		{`\u00`, "Incomplete hexadecimal value"},
		{`\u00zz`, "Bad hexadecimal value"},
		{`\U0001F60`, "Incomplete hexadecimal value"},
	}
	for _, tc := range tests {
		_, _, err := decodeEscapes(tc.in, 0, 0)
		require.NotNil(t, err, "input %q", tc.in)
		assert.Equal(t, tc.msg, err.msg, "input %q", tc.in)
	}
}

func TestDecodeStopsAtQuote(t *testing.T) {
	got, stop, err := decodeEscapes(`ab\"cd"rest`, 0, '"')
	require.Nil(t, err)
	assert.Equal(t, `ab"cd`, got)
	assert.Equal(t, 6, stop)
}

func TestFindUnescapedQuote(t *testing.T) {
	assert.Equal(t, 4, findUnescapedQuote(`"abc"`, 1, '"'))
	assert.Equal(t, 7, findUnescapedQuote(`"a\"b\\"x`, 1, '"')) // quote after the escaped backslash terminates
	assert.Equal(t, -1, findUnescapedQuote(`"abc\"`, 1, '"'))
	assert.Equal(t, -1, findUnescapedQuote(`no quotes`, 0, '"'))
}
