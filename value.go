package objschema

import (
	"maps"
	"reflect"
	"slices"

	json "github.com/goccy/go-json"
)

// Clone returns a deep copy of a schema tree. Objects, plain maps and slices
// of them are copied; scalars are returned as is.
func Clone(v any) any {
	switch t := v.(type) {
	case *Object:
		return t.Clone()
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[k] = Clone(vv)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, vv := range t {
			out[i] = Clone(vv)
		}
		return out
	case []*Object:
		out := make([]*Object, len(t))
		for i, o := range t {
			out[i] = o.Clone()
		}
		return out
	case []map[string]any:
		out := make([]map[string]any, len(t))
		for i, m := range t {
			out[i], _ = Clone(m).(map[string]any)
		}
		return out
	case []string:
		return slices.Clone(t)
	default:
		return v
	}
}

// asArray views the array shapes a tree may hold as []any. Elements are
// shared, not copied.
func asArray(v any) ([]any, bool) {
	switch t := v.(type) {
	case []any:
		return t, true
	case []*Object:
		out := make([]any, len(t))
		for i, o := range t {
			out[i] = o
		}
		return out, true
	case []map[string]any:
		out := make([]any, len(t))
		for i, m := range t {
			out[i] = m
		}
		return out, true
	}
	return nil, false
}

// Equal reports whether two schema trees are structurally equal. Object key
// order is significant. Numbers decoded from JSON compare by their text.
func Equal(a, b any) bool {
	switch x := a.(type) {
	case *Object:
		y, ok := b.(*Object)
		if !ok {
			return false
		}
		if x.Len() != y.Len() {
			return false
		}
		for i, k := range x.keys {
			if y.keys[i] != k || !Equal(x.vals[k], y.vals[k]) {
				return false
			}
		}
		return true
	case []any:
		y, ok := b.([]any)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if !Equal(x[i], y[i]) {
				return false
			}
		}
		return true
	case json.Number:
		y, ok := b.(json.Number)
		return ok && x == y
	default:
		return reflect.DeepEqual(a, b)
	}
}

// objectFromMap converts a plain map into an Object with sorted keys. Values
// are shared, not copied.
func objectFromMap(m map[string]any) *Object {
	o := &Object{keys: slices.Sorted(maps.Keys(m)), vals: make(map[string]any, len(m))}
	for k, v := range m {
		o.vals[k] = v
	}
	return o
}

// stringList extracts the string entries of a JSON array.
func stringList(v any) []string {
	switch t := v.(type) {
	case []string:
		return slices.Clone(t)
	case []any:
		out := make([]string, 0, len(t))
		for _, e := range t {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// dedupe drops repeated names, keeping the first occurrence.
func dedupe(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

// toArray renders names as a JSON array value.
func toArray(names []string) []any {
	out := make([]any, len(names))
	for i, n := range names {
		out[i] = n
	}
	return out
}
