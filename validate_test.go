package objschema_test

import (
	"testing"

	json "github.com/goccy/go-json"
	jschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/reoring/objschema"
)

// compile hands a transformed schema to an independent JSON Schema validator.
func compile(t *testing.T, name string, schema any) *jschema.Schema {
	t.Helper()
	s, err := jschema.CompileString("mem:"+name, mustEncode(t, schema))
	if err != nil {
		t.Fatalf("compile %s: %v", name, err)
	}
	return s
}

func instance(t *testing.T, src string) any {
	t.Helper()
	var v any
	if err := json.Unmarshal([]byte(src), &v); err != nil {
		t.Fatalf("instance %s: %v", src, err)
	}
	return v
}

func TestValidator_SealedSchemaRejectsUnknownMembers(t *testing.T) {
	base := mustObject(t, `{
		"type": "object",
		"required": ["id"],
		"properties": {
			"id": {"type": "string"},
			"address": {"type": "object", "properties": {"street": {"type": "string"}}}
		}
	}`)
	open := compile(t, "open", base)
	sealed := compile(t, "sealed", objschema.SealDeep(base))

	for _, src := range []string{
		`{"id":"u1"}`,
		`{"id":"u1","address":{"street":"main"}}`,
	} {
		if err := sealed.Validate(instance(t, src)); err != nil {
			t.Fatalf("sealed schema should accept %s: %v", src, err)
		}
	}
	for _, src := range []string{
		`{"id":"u1","extra":1}`,
		`{"id":"u1","address":{"street":"main","zip":"1"}}`,
	} {
		if err := open.Validate(instance(t, src)); err != nil {
			t.Fatalf("open schema should accept %s: %v", src, err)
		}
		if err := sealed.Validate(instance(t, src)); err == nil {
			t.Fatalf("sealed schema should reject %s", src)
		}
	}

	unsealed := compile(t, "unsealed", objschema.UnsealDeep(objschema.SealDeep(base)))
	if err := unsealed.Validate(instance(t, `{"id":"u1","address":{"zip":"1"},"x":true}`)); err != nil {
		t.Fatalf("unsealed schema should accept unknown members: %v", err)
	}
}

func TestValidator_CombinatorBranchesKeepTheirSemantics(t *testing.T) {
	// Sealing the allOf branches would make the combination unsatisfiable
	// for any instance carrying both a and b.
	base := mustObject(t, `{
		"allOf": [
			{"type": "object", "properties": {"a": {"type": "string"}}, "required": ["a"]},
			{"type": "object", "properties": {"b": {"type": "number"}}, "required": ["b"]}
		]
	}`)
	sealed := compile(t, "allof", objschema.SealDeep(base))
	if err := sealed.Validate(instance(t, `{"a":"x","b":1}`)); err != nil {
		t.Fatalf("combination should still validate: %v", err)
	}
}

func TestValidator_PipeOutput(t *testing.T) {
	out, err := objschema.Pipe(
		mustObject(t, `{"type":"object","required":["a"],"properties":{"a":{"type":"string"}}}`),
		objschema.Merge(mustObject(t, `{"type":"object","properties":{"b":{"type":"string"}}}`)),
		objschema.Omit("a"),
		objschema.Require("b"),
		objschema.Seal(),
	)
	if err != nil {
		t.Fatal(err)
	}
	s := compile(t, "pipe", out)
	if err := s.Validate(instance(t, `{"b":"ok"}`)); err != nil {
		t.Fatalf("expected valid: %v", err)
	}
	for _, src := range []string{`{}`, `{"b":"ok","a":"gone"}`} {
		if err := s.Validate(instance(t, src)); err == nil {
			t.Fatalf("expected %s to be rejected", src)
		}
	}
}
