package model

import (
	"encoding/json"
	"math"
	"slices"
)

// Object is a decoded JSON object.
type Object = map[string]any

// Clone returns a deep copy of v.
func Clone(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, x := range t {
			out[k] = Clone(x)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, x := range t {
			out[i] = Clone(x)
		}
		return out
	case []string:
		return slices.Clone(t)
	default:
		return v
	}
}

// CloneObject returns a deep copy of obj.
func CloneObject(obj Object) Object {
	if obj == nil {
		return nil
	}
	return Clone(obj).(map[string]any)
}

// Has reports whether obj has a non-null value for key.
func Has(obj Object, key string) bool {
	v, ok := obj[key]
	return ok && v != nil
}

// ID returns the id of obj.
func ID(obj Object) string {
	return String(obj, "id")
}

// String returns obj[key] if it is a string.
func String(obj Object, key string) string {
	s, _ := obj[key].(string)
	return s
}

// Bool returns obj[key] if it is a boolean.
func Bool(obj Object, key string) bool {
	b, _ := obj[key].(bool)
	return b
}

// Number converts a decoded JSON number.
func Number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

// Float returns obj[key] as a float.
func Float(obj Object, key string) (float64, bool) {
	return Number(obj[key])
}

// Int returns obj[key] as an int, truncating fractions.
func Int(obj Object, key string) (int, bool) {
	f, ok := Float(obj, key)
	if !ok || math.IsNaN(f) {
		return 0, false
	}
	return toInt(f), true
}

// toInt truncates f, saturating at the int range.
func toInt(f float64) int {
	switch {
	case f >= math.MaxInt:
		return math.MaxInt
	case f <= math.MinInt:
		return math.MinInt
	}
	return int(f)
}

// Ints returns obj[key] as a list of ints, skipping non-numbers.
func Ints(obj Object, key string) []int {
	var out []int
	for _, v := range Slice(obj, key) {
		if f, ok := Number(v); ok && !math.IsNaN(f) {
			out = append(out, toInt(f))
		}
	}
	return out
}

// Slice returns obj[key] as a list. A scalar value is wrapped.
func Slice(obj Object, key string) []any {
	switch v := obj[key].(type) {
	case nil:
		return nil
	case []any:
		return v
	case []string:
		out := make([]any, len(v))
		for i, s := range v {
			out[i] = s
		}
		return out
	default:
		return []any{v}
	}
}

// Map returns obj[key] if it is an object.
func Map(obj Object, key string) Object {
	m, _ := obj[key].(map[string]any)
	return m
}

// RefID returns the id a reference value points to: the string itself, or
// the id of an inline object.
func RefID(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case map[string]any:
		return ID(t)
	}
	return ""
}

// Ref returns the id referenced by a scalar relationship.
func Ref(obj Object, key string) string {
	return RefID(obj[key])
}

// Refs returns the ids referenced by a relationship, skipping empty values.
func Refs(obj Object, key string) []string {
	var out []string
	for _, v := range Slice(obj, key) {
		if id := RefID(v); id != "" {
			out = append(out, id)
		}
	}
	return out
}

// HasRef reports whether the relationship key of obj references id.
func HasRef(obj Object, key, id string) bool {
	return slices.Contains(Refs(obj, key), id)
}

// AddRef appends id to the relationship key unless already present.
// It reports whether the list changed.
func AddRef(obj Object, key, id string) bool {
	if id == "" || HasRef(obj, key, id) {
		return false
	}
	obj[key] = append(Slice(obj, key), id)
	return true
}

// RemoveRef removes every reference to id from the relationship key.
func RemoveRef(obj Object, key, id string) bool {
	items := Slice(obj, key)
	out := make([]any, 0, len(items))
	for _, v := range items {
		if RefID(v) != id {
			out = append(out, v)
		}
	}
	if len(out) == len(items) {
		return false
	}
	obj[key] = out
	return true
}

// SetDefault sets obj[key] = v unless key already has a value.
func SetDefault(obj Object, key string, v any) {
	if !Has(obj, key) {
		obj[key] = v
	}
}

// StringList converts ids to a JSON list value.
func StringList(ids ...string) []any {
	out := make([]any, len(ids))
	for i, id := range ids {
		out[i] = id
	}
	return out
}
