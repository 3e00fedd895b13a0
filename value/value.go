// Package value implements the tagged-sum data model shared by plan
// arguments, the executor's context, and tool outputs.
package value

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Kind tags which variant a Value holds.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindList
	KindMap
)

// Value is a JSON-shaped value: null, bool, number, string, ordered list, or
// string-keyed map. It is the universe tool outputs, context entries, and
// resolved arguments all live in.
type Value struct {
	kind Kind
	b    bool
	n    float64
	s    string
	list []Value
	m    map[string]Value
}

// Null is the null value.
var Null = Value{kind: KindNull}

// Bool wraps a boolean.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Number wraps a float64.
func Number(n float64) Value { return Value{kind: KindNumber, n: n} }

// String wraps a string.
func String(s string) Value { return Value{kind: KindString, s: s} }

// List wraps an ordered sequence.
func List(items []Value) Value { return Value{kind: KindList, list: items} }

// Map wraps a string-keyed mapping.
func Map(m map[string]Value) Value { return Value{kind: KindMap, m: m} }

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsNull() bool { return v.kind == KindNull }

// AsBool returns the boolean payload and whether the value was a Bool.
func (v Value) AsBool() (bool, bool) {
	if v.kind != KindBool {
		return false, false
	}
	return v.b, true
}

// AsNumber returns the numeric payload and whether the value was a Number.
func (v Value) AsNumber() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	return v.n, true
}

// AsString returns the string payload and whether the value was a String.
func (v Value) AsString() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.s, true
}

// AsList returns the list payload and whether the value was a List.
func (v Value) AsList() ([]Value, bool) {
	if v.kind != KindList {
		return nil, false
	}
	return v.list, true
}

// AsMap returns the map payload and whether the value was a Map.
func (v Value) AsMap() (map[string]Value, bool) {
	if v.kind != KindMap {
		return nil, false
	}
	return v.m, true
}

// Field walks a single map key, returning the field value and whether the
// receiver was a Map containing that key.
func (v Value) Field(key string) (Value, bool) {
	m, ok := v.AsMap()
	if !ok {
		return Null, false
	}
	fv, ok := m[key]
	return fv, ok
}

// Truthy implements the engine's truthiness rule for a bare reference used
// as a guard: non-empty, non-zero, non-false, non-null.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindNull:
		return false
	case KindBool:
		return v.b
	case KindNumber:
		return v.n != 0
	case KindString:
		return v.s != ""
	case KindList:
		return len(v.list) > 0
	case KindMap:
		return len(v.m) > 0
	default:
		return false
	}
}

// Equal reports structural equality.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == other.b
	case KindNumber:
		return v.n == other.n
	case KindString:
		return v.s == other.s
	case KindList:
		if len(v.list) != len(other.list) {
			return false
		}
		for i := range v.list {
			if !v.list[i].Equal(other.list[i]) {
				return false
			}
		}
		return true
	case KindMap:
		if len(v.m) != len(other.m) {
			return false
		}
		for k, mv := range v.m {
			ov, ok := other.m[k]
			if !ok || !mv.Equal(ov) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// FromNative converts an `interface{}` produced by encoding/json or
// gopkg.in/yaml.v3 decoding into a Value. Unknown concrete types are
// rejected — callers should only ever see the JSON-shaped universe.
func FromNative(native interface{}) (Value, error) {
	switch n := native.(type) {
	case nil:
		return Null, nil
	case bool:
		return Bool(n), nil
	case float64:
		return Number(n), nil
	case int:
		return Number(float64(n)), nil
	case int64:
		return Number(float64(n)), nil
	case string:
		return String(n), nil
	case []interface{}:
		items := make([]Value, len(n))
		for i, item := range n {
			cv, err := FromNative(item)
			if err != nil {
				return Null, err
			}
			items[i] = cv
		}
		return List(items), nil
	case map[string]interface{}:
		m := make(map[string]Value, len(n))
		for k, item := range n {
			cv, err := FromNative(item)
			if err != nil {
				return Null, err
			}
			m[k] = cv
		}
		return Map(m), nil
	case map[interface{}]interface{}:
		// gopkg.in/yaml.v3 with certain decode paths yields this shape.
		m := make(map[string]Value, len(n))
		for k, item := range n {
			ks, ok := k.(string)
			if !ok {
				return Null, fmt.Errorf("value: non-string map key %v", k)
			}
			cv, err := FromNative(item)
			if err != nil {
				return Null, err
			}
			m[ks] = cv
		}
		return Map(m), nil
	default:
		return Null, fmt.Errorf("value: unsupported native type %T", native)
	}
}

// Native converts back to plain `interface{}` (for JSON re-encoding in
// events and results).
func (v Value) Native() interface{} {
	switch v.kind {
	case KindNull:
		return nil
	case KindBool:
		return v.b
	case KindNumber:
		return v.n
	case KindString:
		return v.s
	case KindList:
		out := make([]interface{}, len(v.list))
		for i, item := range v.list {
			out[i] = item.Native()
		}
		return out
	case KindMap:
		out := make(map[string]interface{}, len(v.m))
		for k, item := range v.m {
			out[k] = item.Native()
		}
		return out
	default:
		return nil
	}
}

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Native())
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(data []byte) error {
	var native interface{}
	if err := json.Unmarshal(data, &native); err != nil {
		return err
	}
	cv, err := FromNative(native)
	if err != nil {
		return err
	}
	*v = cv
	return nil
}

// String renders a compact debug representation (not used for hashing or
// equality, only for log fields and error messages).
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindBool:
		return fmt.Sprintf("%t", v.b)
	case KindNumber:
		return fmt.Sprintf("%g", v.n)
	case KindString:
		return v.s
	case KindList:
		return fmt.Sprintf("%v", v.Native())
	case KindMap:
		keys := make([]string, 0, len(v.m))
		for k := range v.m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return fmt.Sprintf("%v", keys)
	default:
		return ""
	}
}
