package objschema

import "slices"

// MergeProps merges two object schemas into a new one.
//
// Top-level members are taken from s1 and then s2, s2 winning conflicts.
// properties and patternProperties are merged member by member the same way;
// properties is always present in the result, patternProperties only when
// either side has it. required is the union of both lists without
// duplicates, s1 entries first, and is dropped when empty.
func MergeProps(s1, s2 *Object) (*Object, error) {
	if err := assertObjectSchema(s1); err != nil {
		return nil, err
	}
	if err := assertObjectSchema(s2); err != nil {
		return nil, err
	}

	out := s1.Clone()
	s2.Range(func(k string, v any) bool {
		out.Set(k, Clone(v))
		return true
	})

	setRequired(out, dedupe(append(s1.Required(), s2.Required()...)))

	props := mergeMembers(s1, s2, "properties")
	if props == nil {
		props = NewObject()
	}
	out.Set("properties", props)

	if pp := mergeMembers(s1, s2, "patternProperties"); pp != nil {
		out.Set("patternProperties", pp)
	} else {
		out.Delete("patternProperties")
	}
	return out, nil
}

// PickProps keeps only the named properties of an object schema. required
// keeps the names of the surviving properties and is dropped when it ends up
// empty.
func PickProps(s *Object, keys ...string) (*Object, error) {
	return filterProps(s, keys, true)
}

// OmitProps removes the named properties from an object schema, together with
// their required entries. Entries naming no surviving property are dropped as
// well, and so is required when it ends up empty.
func OmitProps(s *Object, keys ...string) (*Object, error) {
	return filterProps(s, keys, false)
}

func filterProps(s *Object, keys []string, keep bool) (*Object, error) {
	if err := assertObjectSchema(s); err != nil {
		return nil, err
	}
	selected := func(name string) bool { return slices.Contains(keys, name) == keep }

	props := NewObject()
	s.Properties().Range(func(k string, v any) bool {
		if selected(k) {
			props.Set(k, Clone(v))
		}
		return true
	})

	out := s.Clone()
	setRequired(out, dedupe(slices.DeleteFunc(s.Required(), func(n string) bool { return !props.Has(n) })))
	out.Set("properties", props)
	return out, nil
}

// RequireProps adds keys to the required list of an object schema, keeping
// existing entries first and dropping duplicates.
func RequireProps(s *Object, keys ...string) (*Object, error) {
	if err := assertObjectSchema(s); err != nil {
		return nil, err
	}
	out := s.Clone()
	setRequired(out, dedupe(append(s.Required(), keys...)))
	return out, nil
}

// RequireAllProps marks every property of an object schema as required, in
// properties order. required is dropped when there are no properties.
func RequireAllProps(s *Object) (*Object, error) {
	if err := assertObjectSchema(s); err != nil {
		return nil, err
	}
	out := s.Clone()
	setRequired(out, s.Properties().Keys())
	return out, nil
}

// OptionalProps removes keys from the required list of an object schema.
// required is dropped when it ends up empty.
func OptionalProps(s *Object, keys ...string) (*Object, error) {
	if err := assertObjectSchema(s); err != nil {
		return nil, err
	}
	out := s.Clone()
	setRequired(out, dedupe(slices.DeleteFunc(s.Required(), func(n string) bool { return slices.Contains(keys, n) })))
	return out, nil
}

// OptionalAllProps makes every property of an object schema optional.
func OptionalAllProps(s *Object) (*Object, error) {
	if err := assertObjectSchema(s); err != nil {
		return nil, err
	}
	out := s.Clone()
	out.Delete("required")
	return out, nil
}

// setRequired stores names as the required member, or removes the member when
// names is empty.
func setRequired(o *Object, names []string) {
	if len(names) == 0 {
		o.Delete("required")
		return
	}
	o.Set("required", toArray(names))
}

// mergeMembers merges the records stored under key in s1 and s2. It returns
// nil when neither side has one.
func mergeMembers(s1, s2 *Object, key string) *Object {
	v1, _ := s1.Get(key)
	v2, _ := s2.Get(key)
	r1, r2 := asObject(v1), asObject(v2)
	if r1 == nil && r2 == nil {
		return nil
	}
	out := NewObject()
	for _, r := range []*Object{r1, r2} {
		r.Range(func(k string, v any) bool {
			out.Set(k, Clone(v))
			return true
		})
	}
	return out
}
