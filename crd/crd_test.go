package crd_test

import (
	"errors"
	"testing"

	"github.com/reoring/objschema"
	"github.com/reoring/objschema/crd"
)

const bundle = `apiVersion: v1
kind: Namespace
metadata:
  name: widgets
---
apiVersion: apiextensions.k8s.io/v1
kind: CustomResourceDefinition
metadata:
  name: widgets.example.com
spec:
  group: example.com
  names:
    kind: Widget
    plural: widgets
  versions:
    - name: v1alpha1
      served: false
      schema:
        openAPIV3Schema:
          type: object
          description: old
    - name: v1
      served: true
      schema:
        openAPIV3Schema:
          type: object
          properties:
            spec:
              type: object
              properties:
                size:
                  type: integer
---
apiVersion: apiextensions.k8s.io/v1beta1
kind: CustomResourceDefinition
metadata:
  name: gadgets.example.com
spec:
  names:
    kind: Gadget
  validation:
    openAPIV3Schema:
      type: object
      description: legacy
`

func TestFindByKind(t *testing.T) {
	s, err := crd.FindByKind([]byte(bundle), "Widget")
	if err != nil {
		t.Fatal(err)
	}
	want := `{"type":"object","properties":{"spec":{"type":"object","properties":{"size":{"type":"integer"}}}}}`
	if s.String() != want {
		t.Fatalf("got  %s\nwant %s", s, want)
	}
}

func TestFindByName_LegacyValidation(t *testing.T) {
	s, err := crd.FindByName([]byte(bundle), "gadgets.example.com")
	if err != nil {
		t.Fatal(err)
	}
	if s.String() != `{"type":"object","description":"legacy"}` {
		t.Fatalf("got %s", s)
	}
}

func TestFind_NotFound(t *testing.T) {
	if _, err := crd.FindByKind([]byte(bundle), "Namespace"); !errors.Is(err, crd.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := crd.FindByName([]byte(bundle), "widgets"); !errors.Is(err, crd.ErrNotFound) {
		t.Fatalf("non-CRD documents must not match, got %v", err)
	}
	noSchema := "kind: CustomResourceDefinition\nmetadata:\n  name: empty\nspec:\n  names:\n    kind: Empty\n"
	if _, err := crd.FindByKind([]byte(noSchema), "Empty"); !errors.Is(err, crd.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for CRD without schema, got %v", err)
	}
}

func TestFind_InvalidYAML(t *testing.T) {
	_, err := crd.FindByKind([]byte("kind: [unclosed"), "Widget")
	if iss, ok := objschema.AsIssues(err); !ok || iss[0].Code != objschema.CodeParseError {
		t.Fatalf("expected parse_error, got %v", err)
	}
}

func TestFind_DuplicateKeysFollowParseOpt(t *testing.T) {
	dup := "kind: CustomResourceDefinition\nmetadata:\n  name: dup\nspec:\n  names:\n    kind: Dup\n  validation:\n    openAPIV3Schema:\n      type: object\n      type: object\n"
	if _, err := crd.FindByKind([]byte(dup), "Dup"); err != nil {
		t.Fatalf("default options: %v", err)
	}
	strict := objschema.ParseOpt{Strictness: objschema.Strictness{OnDuplicateKey: objschema.Error}}
	_, err := crd.FindByKind([]byte(dup), "Dup", strict)
	iss, ok := objschema.AsIssues(err)
	if !ok || iss[0].Code != objschema.CodeDuplicateKey || iss[0].Path != "/spec/validation/openAPIV3Schema/type" {
		t.Fatalf("expected duplicate_key, got %v", err)
	}
	if _, err := crd.FindByName([]byte(dup), "dup", strict); err == nil {
		t.Fatalf("expected duplicate_key from FindByName")
	}
}

func TestExtractSchema(t *testing.T) {
	cases := []struct {
		name string
		doc  string
		want string
	}{
		{
			name: "bare wrapper",
			doc:  `{"openAPIV3Schema":{"type":"object"}}`,
			want: `{"type":"object"}`,
		},
		{
			name: "first version when none served",
			doc:  `{"spec":{"versions":[{"served":false,"schema":{"openAPIV3Schema":{"title":"a"}}},{"served":false,"schema":{"openAPIV3Schema":{"title":"b"}}}]}}`,
			want: `{"title":"a"}`,
		},
		{
			name: "served flag defaults to true",
			doc:  `{"spec":{"versions":[{"name":"x"},{"schema":{"openAPIV3Schema":{"title":"c"}}}]}}`,
			want: `{"title":"c"}`,
		},
		{
			name: "versions without schema fall back to validation",
			doc:  `{"spec":{"versions":[{"name":"v1"}],"validation":{"openAPIV3Schema":{"title":"legacy"}}}}`,
			want: `{"title":"legacy"}`,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			doc, err := objschema.ParseJSONObject([]byte(tc.doc))
			if err != nil {
				t.Fatal(err)
			}
			s, ok := crd.ExtractSchema(doc)
			if !ok {
				t.Fatalf("no schema found")
			}
			if s.String() != tc.want {
				t.Fatalf("got %s, want %s", s, tc.want)
			}
		})
	}

	if _, ok := crd.ExtractSchema(objschema.ObjectOf("kind", "Service")); ok {
		t.Fatalf("unexpected schema")
	}
	if _, ok := crd.ExtractSchema(nil); ok {
		t.Fatalf("unexpected schema for nil")
	}
}
