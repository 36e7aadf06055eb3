package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petbrain/amw/pkg/value"
)

func parseDate(t *testing.T, lit string) value.DateTimeValue {
	t.Helper()
	v := parseDoc(t, "d: :datetime: "+lit+"\n")
	d, ok := v.GetString("d")
	require.True(t, ok)
	dt, err := d.Date()
	require.NoError(t, err)
	return dt
}

func TestDateTime(t *testing.T) {
	dt := parseDate(t, "2024-02-29T12:34:56.5Z")
	assert.Equal(t, value.DateTimeValue{
		Year: 2024, Month: 2, Day: 29,
		Hour: 12, Minute: 34, Second: 56,
		Nanosecond: 500_000_000,
		HasOffset:  true,
	}, dt)

	// Separators are optional.
	dt = parseDate(t, "20240229")
	assert.Equal(t, value.DateTimeValue{Year: 2024, Month: 2, Day: 29}, dt)

	// Whitespace may introduce the time of day.
	dt = parseDate(t, "2024-02-29 12:34:56+05:30")
	assert.Equal(t, 330, dt.Offset)
	assert.True(t, dt.HasOffset)
	assert.Equal(t, 12, dt.Hour)

	dt = parseDate(t, "2024-02-29T01:02:03-01:15")
	assert.Equal(t, -75, dt.Offset)

	// Date only, no offset.
	dt = parseDate(t, "1999-12-31")
	assert.Equal(t, value.DateTimeValue{Year: 1999, Month: 12, Day: 31}, dt)

	// Full nanosecond fraction.
	dt = parseDate(t, "2024-01-01T00:00:00.123456789")
	assert.Equal(t, 123456789, dt.Nanosecond)

	// Trailing comment allowed.
	dt = parseDate(t, "2024-01-02 # launch day")
	assert.Equal(t, 2, dt.Day)
}

func TestDateTimeErrors(t *testing.T) {
	for _, lit := range []string{
		"2024",
		"2024-02",
		"24-02-29",
		"2024-02-29T",
		"2024-02-29T12",
		"2024-02-29T12:34",
		"2024-02-29T12:34:56.1234567890", // ten fractional digits
		"2024-02-29T12:34:56+05",
		"2024-02-29 nonsense",
	} {
		pe := parseFail(t, "d: :datetime: "+lit+"\n")
		assert.Equal(t, "Bad date/time", pe.Msg, "input %q", lit)
	}
}

func TestTimestamp(t *testing.T) {
	v := parseDoc(t, "t: :timestamp: 1700000000.123\n")
	tv, ok := v.GetString("t")
	require.True(t, ok)
	ts, err := tv.Stamp()
	require.NoError(t, err)
	assert.Equal(t, value.TimestampValue{Seconds: 1700000000, Nanoseconds: 123_000_000}, ts)

	v = parseDoc(t, "t: :timestamp: 0\n")
	tv, _ = v.GetString("t")
	ts, _ = tv.Stamp()
	assert.Equal(t, value.TimestampValue{}, ts)

	v = parseDoc(t, "t: :timestamp: 123456789.000000001 # epoch-ish\n")
	tv, _ = v.GetString("t")
	ts, _ = tv.Stamp()
	assert.Equal(t, uint32(1), ts.Nanoseconds)
}

func TestTimestampErrors(t *testing.T) {
	for _, lit := range []string{"abc", "-5", "12.34.56", "1.1234567890"} {
		pe := parseFail(t, "t: :timestamp: "+lit+"\n")
		assert.Equal(t, "Bad timestamp", pe.Msg, "input %q", lit)
	}
	pe := parseFail(t, "t: :timestamp: 99999999999999999999999\n")
	assert.Equal(t, "Numeric overflow", pe.Msg)
}
