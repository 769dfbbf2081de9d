package jsonschema

import (
	"fmt"

	json "github.com/goccy/go-json"

	"github.com/reoring/objschema"
)

// Schema is a typed JSON Schema representation covering the keywords the
// objschema transforms act on. Field order decides member order once the
// schema is converted to an Object; map members are sorted.
type Schema struct {
	// Core
	Type        string `json:"type,omitempty"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Format      string `json:"format,omitempty"`
	Default     any    `json:"default,omitempty"`
	Enum        []any  `json:"enum,omitempty"`

	// Object
	Required             []string           `json:"required,omitempty"`
	Properties           map[string]*Schema `json:"properties,omitempty"`
	PatternProperties    map[string]*Schema `json:"patternProperties,omitempty"`
	AdditionalProperties any                `json:"additionalProperties,omitempty"`

	// Array
	Items    *Schema `json:"items,omitempty"`
	MinItems *int    `json:"minItems,omitempty"`
	MaxItems *int    `json:"maxItems,omitempty"`

	// Combinators
	AllOf []*Schema `json:"allOf,omitempty"`
	AnyOf []*Schema `json:"anyOf,omitempty"`
	OneOf []*Schema `json:"oneOf,omitempty"`
	Not   *Schema   `json:"not,omitempty"`
}

// Object converts s into an order-preserving schema tree.
func (s *Schema) Object() (*objschema.Object, error) {
	if s == nil {
		return nil, fmt.Errorf("jsonschema: nil schema")
	}
	v, err := objschema.FromValue(s)
	if err != nil {
		return nil, err
	}
	o, ok := v.(*objschema.Object)
	if !ok {
		return nil, fmt.Errorf("jsonschema: schema encoded as %T, not an object", v)
	}
	return o, nil
}

// FromObject converts a schema tree back into the typed form. Keywords the
// struct does not model are dropped.
func FromObject(o *objschema.Object) (*Schema, error) {
	b, err := objschema.EncodeJSON(o)
	if err != nil {
		return nil, err
	}
	var s Schema
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("jsonschema: decoding schema: %w", err)
	}
	return &s, nil
}

type plainSchema Schema

// UnmarshalJSON decodes s, turning additionalProperties into a bool or a
// *Schema at every level.
func (s *Schema) UnmarshalJSON(b []byte) error {
	var p plainSchema
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	if m, ok := p.AdditionalProperties.(map[string]any); ok {
		sub, err := schemaFromMap(m)
		if err != nil {
			return err
		}
		p.AdditionalProperties = sub
	}
	*s = Schema(p)
	return nil
}

func schemaFromMap(m map[string]any) (*Schema, error) {
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	var s Schema
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("jsonschema: decoding additionalProperties: %w", err)
	}
	return &s, nil
}
