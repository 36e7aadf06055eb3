package amw

import (
	"fmt"
	"time"

	"github.com/petbrain/amw/pkg/value"
)

// Decode converts a parsed value into plain Go data: nil, bool,
// int64, uint64, float64, string, time.Time, []any, and maps. Maps
// whose keys are all strings decode to map[string]any; maps with
// other key kinds decode to map[any]any. Entry order is not
// preserved.
func Decode(v value.Value) any {
	switch v.Kind() {
	case value.Null:
		return nil
	case value.Bool:
		b, _ := v.Bool()
		return b
	case value.Int:
		i, _ := v.Int()
		return i
	case value.Uint:
		u, _ := v.Uint()
		return u
	case value.Float:
		f, _ := v.Float()
		return f
	case value.String:
		s, _ := v.Str()
		return s
	case value.DateTime:
		dt, _ := v.Date()
		return dt.Time()
	case value.Timestamp:
		ts, _ := v.Stamp()
		return ts.Time()
	case value.Array:
		items := v.Items()
		out := make([]any, len(items))
		for i, it := range items {
			out[i] = Decode(it)
		}
		return out
	case value.Map:
		entries := v.Entries()
		allStrings := true
		for _, e := range entries {
			if e.Key.Kind() != value.String {
				allStrings = false
				break
			}
		}
		if allStrings {
			out := make(map[string]any, len(entries))
			for _, e := range entries {
				k, _ := e.Key.Str()
				out[k] = Decode(e.Val)
			}
			return out
		}
		out := make(map[any]any, len(entries))
		for _, e := range entries {
			out[Decode(e.Key)] = Decode(e.Val)
		}
		return out
	}
	return nil
}

// Build converts plain Go data into a value tree. It accepts the
// types Decode produces, the smaller Go numeric types, and
// value.Value itself (returned as-is).
func Build(x any) (value.Value, error) {
	switch t := x.(type) {
	case nil:
		return value.NewNull(), nil
	case value.Value:
		return t, nil
	case bool:
		return value.NewBool(t), nil
	case int:
		return value.NewInt(int64(t)), nil
	case int8:
		return value.NewInt(int64(t)), nil
	case int16:
		return value.NewInt(int64(t)), nil
	case int32:
		return value.NewInt(int64(t)), nil
	case int64:
		return value.NewInt(t), nil
	case uint:
		return value.NewUint(uint64(t)), nil
	case uint8:
		return value.NewUint(uint64(t)), nil
	case uint16:
		return value.NewUint(uint64(t)), nil
	case uint32:
		return value.NewUint(uint64(t)), nil
	case uint64:
		return value.NewUint(t), nil
	case float32:
		return value.NewFloat(float64(t)), nil
	case float64:
		return value.NewFloat(t), nil
	case string:
		return value.NewString(t), nil
	case time.Time:
		_, off := t.Zone()
		return value.NewDateTime(value.DateTimeValue{
			Year:       t.Year(),
			Month:      int(t.Month()),
			Day:        t.Day(),
			Hour:       t.Hour(),
			Minute:     t.Minute(),
			Second:     t.Second(),
			Nanosecond: t.Nanosecond(),
			Offset:     off / 60,
			HasOffset:  true,
		}), nil
	case []any:
		arr := value.NewArray()
		for _, it := range t {
			v, err := Build(it)
			if err != nil {
				return value.Value{}, err
			}
			arr.Append(v)
		}
		return arr, nil
	case map[string]any:
		m := value.NewMap()
		for k, it := range t {
			v, err := Build(it)
			if err != nil {
				return value.Value{}, err
			}
			m.Set(value.NewString(k), v)
		}
		return m, nil
	case map[any]any:
		m := value.NewMap()
		for k, it := range t {
			kv, err := Build(k)
			if err != nil {
				return value.Value{}, err
			}
			v, err := Build(it)
			if err != nil {
				return value.Value{}, err
			}
			if err := m.Set(kv, v); err != nil {
				return value.Value{}, err
			}
		}
		return m, nil
	}
	return value.Value{}, fmt.Errorf("amw: cannot build a value from %T", x)
}
