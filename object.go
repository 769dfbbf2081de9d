package objschema

import (
	"bytes"
	"fmt"
	"slices"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Object is a JSON object whose keys keep their insertion order. It is the
// record shape of every schema tree handled by this package.
//
// The zero value is an empty object ready to use. Transforms in this package
// never modify the Objects they receive; Set and Delete are meant for callers
// building schemas.
type Object struct {
	keys []string
	vals map[string]any
}

// NewObject returns an empty Object.
func NewObject() *Object { return &Object{vals: map[string]any{}} }

// ObjectOf builds an Object from alternating key/value arguments:
//
//	ObjectOf("type", "object", "properties", ObjectOf("a", ObjectOf("type", "string")))
//
// It panics when a key is not a string or the argument count is odd.
func ObjectOf(kv ...any) *Object {
	if len(kv)%2 != 0 {
		panic("objschema: ObjectOf requires an even number of arguments")
	}
	o := &Object{keys: make([]string, 0, len(kv)/2), vals: make(map[string]any, len(kv)/2)}
	for i := 0; i < len(kv); i += 2 {
		k, ok := kv[i].(string)
		if !ok {
			panic(fmt.Sprintf("objschema: ObjectOf key at position %d is %T, not string", i, kv[i]))
		}
		o.Set(k, kv[i+1])
	}
	return o
}

// Len reports the number of keys.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.keys)
}

// Keys returns the keys in order. The slice is a copy.
func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}
	return slices.Clone(o.keys)
}

// Get returns the value stored under key.
func (o *Object) Get(key string) (any, bool) {
	if o == nil {
		return nil, false
	}
	v, ok := o.vals[key]
	return v, ok
}

// Has reports whether key is present.
func (o *Object) Has(key string) bool {
	_, ok := o.Get(key)
	return ok
}

// Set stores value under key. An existing key keeps its position; a new key
// is appended. Set returns o to allow chaining.
func (o *Object) Set(key string, value any) *Object {
	if o.vals == nil {
		o.vals = make(map[string]any)
	}
	if _, ok := o.vals[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.vals[key] = value
	return o
}

// Delete removes key and reports whether it was present.
func (o *Object) Delete(key string) bool {
	if o == nil {
		return false
	}
	if _, ok := o.vals[key]; !ok {
		return false
	}
	delete(o.vals, key)
	o.keys = slices.DeleteFunc(o.keys, func(k string) bool { return k == key })
	return true
}

// Range calls fn for every member in order until fn returns false.
func (o *Object) Range(fn func(key string, value any) bool) {
	if o == nil {
		return
	}
	for _, k := range o.keys {
		if !fn(k, o.vals[k]) {
			return
		}
	}
}

// Clone returns a deep copy of o.
func (o *Object) Clone() *Object {
	if o == nil {
		return nil
	}
	out := &Object{keys: slices.Clone(o.keys), vals: make(map[string]any, len(o.vals))}
	for k, v := range o.vals {
		out.vals[k] = Clone(v)
	}
	return out
}

// shallowClone copies the member list but shares the values.
func (o *Object) shallowClone() *Object {
	out := &Object{keys: slices.Clone(o.keys), vals: make(map[string]any, len(o.vals))}
	for k, v := range o.vals {
		out.vals[k] = v
	}
	return out
}

// Type returns the "type" member when it is a string.
func (o *Object) Type() string {
	t, _ := o.Get("type")
	s, _ := t.(string)
	return s
}

// Required returns the string entries of the "required" member.
func (o *Object) Required() []string {
	v, _ := o.Get("required")
	return stringList(v)
}

// Properties returns the "properties" member when it is an object.
func (o *Object) Properties() *Object {
	v, _ := o.Get("properties")
	return asObject(v)
}

// String renders o as compact JSON.
func (o *Object) String() string {
	b, err := EncodeJSON(o)
	if err != nil {
		return fmt.Sprintf("<invalid object: %v>", err)
	}
	return string(b)
}

// MarshalJSON writes the members in order.
func (o *Object) MarshalJSON() ([]byte, error) {
	if o == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(o.vals[k])
		if err != nil {
			return nil, fmt.Errorf("objschema: encoding %q: %w", k, err)
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON replaces o with the decoded object, keeping the input order.
func (o *Object) UnmarshalJSON(data []byte) error {
	obj, err := ParseJSONObject(data)
	if err != nil {
		return err
	}
	*o = *obj
	return nil
}

// MarshalYAML renders o as a mapping node so the key order survives.
func (o *Object) MarshalYAML() (any, error) {
	return toYAMLNode(o)
}

// UnmarshalYAML replaces o with the decoded mapping, keeping the input order.
func (o *Object) UnmarshalYAML(n *yaml.Node) error {
	v, err := fromYAMLNode(n, newYAMLDecoder(ParseOpt{}))
	if err != nil {
		return err
	}
	obj, ok := v.(*Object)
	if !ok {
		return Issues{newIssue(CodeInvalidType, "/", nil, map[string]string{"expected": "object"})}
	}
	*o = *obj
	return nil
}

// asObject returns v as a record, converting plain maps.
func asObject(v any) *Object {
	switch t := v.(type) {
	case *Object:
		return t
	case map[string]any:
		return objectFromMap(t)
	}
	return nil
}
