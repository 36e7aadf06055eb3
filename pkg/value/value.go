// Package value defines the dynamically typed tree produced by the
// parser: null, booleans, signed and unsigned integers, floats,
// strings, date-times, timestamps, ordered sequences, and ordered
// mappings whose keys may be any scalar value.
package value

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrType is returned when a value is accessed as the wrong kind.
var ErrType = errors.New("type error")

// Kind identifies the type a Value holds.
type Kind int

// Possible value kinds. The zero Value has kind Null.
const (
	Null Kind = iota
	Bool
	Int
	Uint
	Float
	String
	DateTime
	Timestamp
	Array
	Map
	numKinds
)

var kindStrings = [numKinds]string{
	"null",
	"bool",
	"int",
	"uint",
	"float",
	"string",
	"datetime",
	"timestamp",
	"array",
	"map",
}

// String returns the name of the kind.
func (k Kind) String() string {
	if k < 0 || k >= numKinds {
		return "<unknown>"
	}
	return kindStrings[k]
}

// Value is a tagged union over the parser's leaf and container types.
// Values are cheap to copy; Array and Map values share their backing
// storage when copied.
type Value struct {
	kind Kind
	b    bool
	i    int64
	u    uint64
	f    float64
	s    string
	dt   DateTimeValue
	ts   TimestampValue
	arr  *arrayValue
	m    *mapValue
}

type arrayValue struct {
	items []Value
}

// NewNull returns the null value.
func NewNull() Value { return Value{} }

// NewBool returns a boolean value.
func NewBool(b bool) Value { return Value{kind: Bool, b: b} }

// NewInt returns a signed integer value.
func NewInt(i int64) Value { return Value{kind: Int, i: i} }

// NewUint returns an unsigned integer value.
func NewUint(u uint64) Value { return Value{kind: Uint, u: u} }

// NewFloat returns a floating point value.
func NewFloat(f float64) Value { return Value{kind: Float, f: f} }

// NewString returns a string value.
func NewString(s string) Value { return Value{kind: String, s: s} }

// NewDateTime returns a date-time value.
func NewDateTime(dt DateTimeValue) Value { return Value{kind: DateTime, dt: dt} }

// NewTimestamp returns a timestamp value.
func NewTimestamp(ts TimestampValue) Value { return Value{kind: Timestamp, ts: ts} }

// NewArray returns an array value holding the given items.
func NewArray(items ...Value) Value {
	return Value{kind: Array, arr: &arrayValue{items: items}}
}

// NewMap returns an empty map value.
func NewMap() Value {
	return Value{kind: Map, m: &mapValue{index: make(map[mapKey]int)}}
}

// Kind returns the kind of the value.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the value is null.
func (v Value) IsNull() bool { return v.kind == Null }

// Bool returns the boolean held by the value.
func (v Value) Bool() (bool, error) {
	if v.kind != Bool {
		return false, fmt.Errorf("%w: %s is not bool", ErrType, v.kind)
	}
	return v.b, nil
}

// Int returns the signed integer held by the value.
func (v Value) Int() (int64, error) {
	if v.kind != Int {
		return 0, fmt.Errorf("%w: %s is not int", ErrType, v.kind)
	}
	return v.i, nil
}

// Uint returns the unsigned integer held by the value.
func (v Value) Uint() (uint64, error) {
	if v.kind != Uint {
		return 0, fmt.Errorf("%w: %s is not uint", ErrType, v.kind)
	}
	return v.u, nil
}

// Float returns the float held by the value.
func (v Value) Float() (float64, error) {
	if v.kind != Float {
		return 0, fmt.Errorf("%w: %s is not float", ErrType, v.kind)
	}
	return v.f, nil
}

// Str returns the string held by the value.
func (v Value) Str() (string, error) {
	if v.kind != String {
		return "", fmt.Errorf("%w: %s is not string", ErrType, v.kind)
	}
	return v.s, nil
}

// Date returns the date-time held by the value.
func (v Value) Date() (DateTimeValue, error) {
	if v.kind != DateTime {
		return DateTimeValue{}, fmt.Errorf("%w: %s is not datetime", ErrType, v.kind)
	}
	return v.dt, nil
}

// Stamp returns the timestamp held by the value.
func (v Value) Stamp() (TimestampValue, error) {
	if v.kind != Timestamp {
		return TimestampValue{}, fmt.Errorf("%w: %s is not timestamp", ErrType, v.kind)
	}
	return v.ts, nil
}

// Len returns the number of items in an array, entries in a map, or
// bytes in a string, and zero for every other kind.
func (v Value) Len() int {
	switch v.kind {
	case Array:
		return len(v.arr.items)
	case Map:
		return len(v.m.entries)
	case String:
		return len(v.s)
	}
	return 0
}

// IsScalar reports whether the value may be used as a map key.
func (v Value) IsScalar() bool {
	return v.kind != Array && v.kind != Map
}

// Append adds items to an array value.
func (v Value) Append(items ...Value) error {
	if v.kind != Array {
		return fmt.Errorf("%w: %s is not array", ErrType, v.kind)
	}
	v.arr.items = append(v.arr.items, items...)
	return nil
}

// Item returns the i-th item of an array value.
func (v Value) Item(i int) (Value, error) {
	if v.kind != Array {
		return Value{}, fmt.Errorf("%w: %s is not array", ErrType, v.kind)
	}
	if i < 0 || i >= len(v.arr.items) {
		return Value{}, fmt.Errorf("array index %d out of range [0, %d)", i, len(v.arr.items))
	}
	return v.arr.items[i], nil
}

// Items returns the backing slice of an array value, or nil.
func (v Value) Items() []Value {
	if v.kind != Array {
		return nil
	}
	return v.arr.items
}

// String renders the value for debugging output. It is not the
// canonical encoding; see the amw package encoder for that.
func (v Value) String() string {
	switch v.kind {
	case Null:
		return "null"
	case Bool:
		return strconv.FormatBool(v.b)
	case Int:
		return strconv.FormatInt(v.i, 10)
	case Uint:
		return strconv.FormatUint(v.u, 10)
	case Float:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case String:
		return strconv.Quote(v.s)
	case DateTime:
		return v.dt.String()
	case Timestamp:
		return v.ts.String()
	case Array:
		s := "["
		for i, it := range v.arr.items {
			if i > 0 {
				s += ", "
			}
			s += it.String()
		}
		return s + "]"
	case Map:
		s := "{"
		for i, e := range v.m.entries {
			if i > 0 {
				s += ", "
			}
			s += e.Key.String() + ": " + e.Val.String()
		}
		return s + "}"
	}
	return "<invalid>"
}

// Equal reports deep structural equality of two values. Arrays compare
// item by item in order; maps compare as unordered key/value sets.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case Null:
		return true
	case Bool:
		return a.b == b.b
	case Int:
		return a.i == b.i
	case Uint:
		return a.u == b.u
	case Float:
		return a.f == b.f
	case String:
		return a.s == b.s
	case DateTime:
		return a.dt == b.dt
	case Timestamp:
		return a.ts == b.ts
	case Array:
		if len(a.arr.items) != len(b.arr.items) {
			return false
		}
		for i := range a.arr.items {
			if !Equal(a.arr.items[i], b.arr.items[i]) {
				return false
			}
		}
		return true
	case Map:
		if len(a.m.entries) != len(b.m.entries) {
			return false
		}
		for _, e := range a.m.entries {
			got, ok := b.Get(e.Key)
			if !ok || !Equal(e.Val, got) {
				return false
			}
		}
		return true
	}
	return false
}
