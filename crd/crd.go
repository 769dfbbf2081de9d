package crd

import (
	"errors"
	"fmt"

	"github.com/reoring/objschema"
)

// ErrNotFound is returned when no CustomResourceDefinition of a bundle
// matches the selector.
var ErrNotFound = errors.New("crd: CustomResourceDefinition not found")

const kindCRD = "CustomResourceDefinition"

// ExtractSchema returns the JSON Schema carried by doc. doc may be a bare
// {"openAPIV3Schema": ...} wrapper or a CustomResourceDefinition, in which
// case spec.versions[].schema.openAPIV3Schema is used (preferring a served
// version), then the legacy spec.validation.openAPIV3Schema.
func ExtractSchema(doc *objschema.Object) (*objschema.Object, bool) {
	if s := child(doc, "openAPIV3Schema"); s != nil {
		return s, true
	}
	spec := child(doc, "spec")
	if spec == nil {
		return nil, false
	}
	if vers, ok := get(spec, "versions").([]any); ok {
		var firstFound *objschema.Object
		for _, v := range vers {
			vm, _ := v.(*objschema.Object)
			if vm == nil {
				continue
			}
			served := true
			if sv, ok := get(vm, "served").(bool); ok {
				served = sv
			}
			oas := child(child(vm, "schema"), "openAPIV3Schema")
			if oas == nil {
				continue
			}
			if served {
				return oas, true
			}
			if firstFound == nil {
				firstFound = oas
			}
		}
		if firstFound != nil {
			return firstFound, true
		}
	}
	if oas := child(child(spec, "validation"), "openAPIV3Schema"); oas != nil {
		return oas, true
	}
	return nil, false
}

// FindByKind scans a multi-document YAML bundle and returns the schema of the
// first CustomResourceDefinition whose spec.names.kind equals kind. opts are
// applied to the whole bundle, so duplicate keys are checked in every
// document.
func FindByKind(data []byte, kind string, opts ...objschema.ParseOpt) (*objschema.Object, error) {
	return find(data, opts, func(doc *objschema.Object) bool {
		k, _ := get(child(child(doc, "spec"), "names"), "kind").(string)
		return k == kind
	}, "kind "+kind)
}

// FindByName scans a multi-document YAML bundle and returns the schema of the
// CustomResourceDefinition with the given metadata.name.
func FindByName(data []byte, name string, opts ...objschema.ParseOpt) (*objschema.Object, error) {
	return find(data, opts, func(doc *objschema.Object) bool {
		n, _ := get(child(doc, "metadata"), "name").(string)
		return n == name
	}, "name "+name)
}

func find(data []byte, opts []objschema.ParseOpt, match func(*objschema.Object) bool, what string) (*objschema.Object, error) {
	docs, err := objschema.ParseYAMLStream(data, opts...)
	if err != nil {
		return nil, err
	}
	for _, d := range docs {
		doc, _ := d.(*objschema.Object)
		if doc == nil {
			continue
		}
		if k, _ := get(doc, "kind").(string); k != kindCRD || !match(doc) {
			continue
		}
		s, ok := ExtractSchema(doc)
		if !ok {
			return nil, fmt.Errorf("crd: %s has no openAPIV3Schema: %w", what, ErrNotFound)
		}
		return s, nil
	}
	return nil, fmt.Errorf("crd: %s: %w", what, ErrNotFound)
}

func get(o *objschema.Object, key string) any {
	v, _ := o.Get(key)
	return v
}

func child(o *objschema.Object, key string) *objschema.Object {
	c, _ := get(o, key).(*objschema.Object)
	return c
}
