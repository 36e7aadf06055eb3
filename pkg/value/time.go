package value

import (
	"fmt"
	"strings"
	"time"
)

// DateTimeValue is a calendar date with an optional time of day and an
// optional UTC offset. The offset is stored in signed minutes east of
// UTC; HasOffset distinguishes an explicit +00:00 from no offset.
type DateTimeValue struct {
	Year       int
	Month      int
	Day        int
	Hour       int
	Minute     int
	Second     int
	Nanosecond int
	Offset     int
	HasOffset  bool
}

// Time converts the date-time to a time.Time. Without an explicit
// offset the value is interpreted as UTC.
func (dt DateTimeValue) Time() time.Time {
	loc := time.UTC
	if dt.HasOffset && dt.Offset != 0 {
		loc = time.FixedZone("", dt.Offset*60)
	}
	return time.Date(dt.Year, time.Month(dt.Month), dt.Day,
		dt.Hour, dt.Minute, dt.Second, dt.Nanosecond, loc)
}

// String renders the date-time in ISO-like form.
func (dt DateTimeValue) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%04d-%02d-%02d", dt.Year, dt.Month, dt.Day)
	if dt.Hour != 0 || dt.Minute != 0 || dt.Second != 0 || dt.Nanosecond != 0 {
		fmt.Fprintf(&b, "T%02d:%02d:%02d", dt.Hour, dt.Minute, dt.Second)
		if dt.Nanosecond != 0 {
			b.WriteString(fracString(uint32(dt.Nanosecond)))
		}
	}
	if dt.HasOffset {
		if dt.Offset == 0 {
			b.WriteByte('Z')
		} else {
			off := dt.Offset
			sign := byte('+')
			if off < 0 {
				sign = '-'
				off = -off
			}
			fmt.Fprintf(&b, "%c%02d:%02d", sign, off/60, off%60)
		}
	}
	return b.String()
}

// TimestampValue is a count of seconds since the Unix epoch with
// nanosecond resolution.
type TimestampValue struct {
	Seconds     uint64
	Nanoseconds uint32
}

// Time converts the timestamp to a time.Time in UTC.
func (ts TimestampValue) Time() time.Time {
	return time.Unix(int64(ts.Seconds), int64(ts.Nanoseconds)).UTC()
}

// String renders the timestamp as decimal seconds with an optional
// fraction.
func (ts TimestampValue) String() string {
	s := fmt.Sprintf("%d", ts.Seconds)
	if ts.Nanoseconds != 0 {
		s += fracString(ts.Nanoseconds)
	}
	return s
}

// fracString renders ns as ".fffffffff" with trailing zeros removed.
func fracString(ns uint32) string {
	s := fmt.Sprintf(".%09d", ns)
	return strings.TrimRight(s, "0")
}
