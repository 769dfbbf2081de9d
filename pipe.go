package objschema

import "fmt"

// Step is one transform of a Pipe.
type Step func(*Object) (*Object, error)

// Pipe runs s through steps in order and returns the final schema. It stops
// at the first failing step; the error names the step position and wraps the
// step's error.
//
//	out, err := Pipe(base,
//		Merge(extra),
//		Omit("internal"),
//		Require("id"),
//		Seal(),
//	)
func Pipe(s *Object, steps ...Step) (*Object, error) {
	cur := s
	for i, step := range steps {
		if step == nil {
			continue
		}
		next, err := step(cur)
		if err != nil {
			return nil, fmt.Errorf("objschema: pipe step %d: %w", i+1, err)
		}
		cur = next
	}
	if cur == s {
		cur = s.Clone()
	}
	return cur, nil
}

// Merge returns a Step merging other into the piped schema (see MergeProps).
func Merge(other *Object) Step {
	return func(s *Object) (*Object, error) { return MergeProps(s, other) }
}

// Pick returns a Step applying PickProps.
func Pick(keys ...string) Step {
	return func(s *Object) (*Object, error) { return PickProps(s, keys...) }
}

// Omit returns a Step applying OmitProps.
func Omit(keys ...string) Step {
	return func(s *Object) (*Object, error) { return OmitProps(s, keys...) }
}

// Require returns a Step applying RequireProps.
func Require(keys ...string) Step {
	return func(s *Object) (*Object, error) { return RequireProps(s, keys...) }
}

// RequireAll returns a Step applying RequireAllProps.
func RequireAll() Step { return RequireAllProps }

// Optional returns a Step applying OptionalProps.
func Optional(keys ...string) Step {
	return func(s *Object) (*Object, error) { return OptionalProps(s, keys...) }
}

// OptionalAll returns a Step applying OptionalAllProps.
func OptionalAll() Step { return OptionalAllProps }

// Seal returns a Step applying SealObjectDeep.
func Seal() Step {
	return func(s *Object) (*Object, error) { return SealObjectDeep(s), nil }
}

// Unseal returns a Step applying UnsealObjectDeep.
func Unseal() Step {
	return func(s *Object) (*Object, error) { return UnsealObjectDeep(s), nil }
}
