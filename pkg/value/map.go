package value

import "fmt"

// MapEntry is one key/value pair of a map value.
type MapEntry struct {
	Key Value
	Val Value
}

// mapKey is the comparable projection of a scalar Value, used to index
// map entries. All fields of DateTimeValue and TimestampValue are
// comparable, so the struct as a whole is a valid Go map key.
type mapKey struct {
	kind Kind
	b    bool
	i    int64
	u    uint64
	f    float64
	s    string
	dt   DateTimeValue
	ts   TimestampValue
}

type mapValue struct {
	entries []MapEntry
	index   map[mapKey]int
}

func scalarKey(v Value) (mapKey, error) {
	if !v.IsScalar() {
		return mapKey{}, fmt.Errorf("%w: %s cannot be a map key", ErrType, v.kind)
	}
	return mapKey{
		kind: v.kind,
		b:    v.b,
		i:    v.i,
		u:    v.u,
		f:    v.f,
		s:    v.s,
		dt:   v.dt,
		ts:   v.ts,
	}, nil
}

// Set inserts or replaces the entry for key. A later Set with an equal
// key overwrites the earlier value in place, keeping the original
// entry order.
func (v Value) Set(key, val Value) error {
	if v.kind != Map {
		return fmt.Errorf("%w: %s is not map", ErrType, v.kind)
	}
	k, err := scalarKey(key)
	if err != nil {
		return err
	}
	if i, ok := v.m.index[k]; ok {
		v.m.entries[i].Val = val
		return nil
	}
	v.m.index[k] = len(v.m.entries)
	v.m.entries = append(v.m.entries, MapEntry{Key: key, Val: val})
	return nil
}

// Get returns the value stored under key.
func (v Value) Get(key Value) (Value, bool) {
	if v.kind != Map {
		return Value{}, false
	}
	k, err := scalarKey(key)
	if err != nil {
		return Value{}, false
	}
	i, ok := v.m.index[k]
	if !ok {
		return Value{}, false
	}
	return v.m.entries[i].Val, true
}

// HasKey reports whether the map contains key.
func (v Value) HasKey(key Value) bool {
	_, ok := v.Get(key)
	return ok
}

// GetString returns the value stored under the string key s.
func (v Value) GetString(s string) (Value, bool) {
	return v.Get(NewString(s))
}

// Entries returns the map's key/value pairs in insertion order, or nil.
func (v Value) Entries() []MapEntry {
	if v.kind != Map {
		return nil
	}
	return v.m.entries
}
