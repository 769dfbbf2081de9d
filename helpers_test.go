package objschema_test

import (
	"testing"

	json "github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"

	"github.com/reoring/objschema"
)

func mustObject(t *testing.T, src string) *objschema.Object {
	t.Helper()
	o, err := objschema.ParseJSONObject([]byte(src))
	if err != nil {
		t.Fatalf("parse %s: %v", src, err)
	}
	return o
}

func mustEncode(t *testing.T, v any) string {
	t.Helper()
	b, err := objschema.EncodeJSON(v)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	return string(b)
}

// generic decodes JSON text into plain maps so comparisons ignore key order.
func generic(t *testing.T, src string) any {
	t.Helper()
	var v any
	if err := json.Unmarshal([]byte(src), &v); err != nil {
		t.Fatalf("unmarshal %s: %v", src, err)
	}
	return v
}

// assertSameJSON compares got with want ignoring object key order.
func assertSameJSON(t *testing.T, got any, want string) {
	t.Helper()
	if diff := cmp.Diff(generic(t, want), generic(t, mustEncode(t, got))); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

// assertExactJSON compares got with want including object key order.
func assertExactJSON(t *testing.T, got any, want string) {
	t.Helper()
	w := mustEncode(t, mustObjectOrValue(t, want))
	if g := mustEncode(t, got); g != w {
		t.Fatalf("got:\n%s\nwant:\n%s", g, w)
	}
}

func mustObjectOrValue(t *testing.T, src string) any {
	t.Helper()
	v, err := objschema.ParseJSON([]byte(src))
	if err != nil {
		t.Fatalf("parse %s: %v", src, err)
	}
	return v
}

// assertUnchanged fails when the encoding of v differs from before.
func assertUnchanged(t *testing.T, v any, before string) {
	t.Helper()
	if after := mustEncode(t, v); after != before {
		t.Fatalf("input was modified:\nbefore: %s\nafter:  %s", before, after)
	}
}
