package objschema_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/reoring/objschema"
)

// ---- Helpers ----

// wideSchemaJSON returns an object schema with n object properties, each with
// a nested object and an anyOf branch.
func wideSchemaJSON(n int) []byte {
	var b strings.Builder
	b.WriteString(`{"type":"object","required":["p0"],"properties":{`)
	for i := 0; i < n; i++ {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, `"p%d":{"type":"object","properties":{"inner":{"type":"object","properties":{"v":{"type":"string"}}},"alt":{"anyOf":[{"type":"object"},{"type":"string"}]}}}`, i)
	}
	b.WriteString(`}}`)
	return []byte(b.String())
}

func mustParse(tb testing.TB, data []byte) *objschema.Object {
	tb.Helper()
	o, err := objschema.ParseJSONObject(data)
	if err != nil {
		tb.Fatalf("parse failed: %v", err)
	}
	return o
}

// ---- Benchmarks ----

func Benchmark_SealDeep(b *testing.B) {
	for _, n := range []int{10, 100, 1000} {
		b.Run(fmt.Sprintf("props=%d", n), func(b *testing.B) {
			s := mustParse(b, wideSchemaJSON(n))
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_ = objschema.SealObjectDeep(s)
			}
		})
	}
}

func Benchmark_UnsealDeep(b *testing.B) {
	s := objschema.SealObjectDeep(mustParse(b, wideSchemaJSON(100)))
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = objschema.UnsealObjectDeep(s)
	}
}

func Benchmark_Pipe(b *testing.B) {
	s := mustParse(b, wideSchemaJSON(100))
	extra := objschema.ObjectOf("type", "object", "properties", objschema.ObjectOf("extra", objschema.ObjectOf("type", "string")))
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, err := objschema.Pipe(s,
			objschema.Merge(extra),
			objschema.Omit("p1", "p2"),
			objschema.RequireAll(),
			objschema.Seal(),
		)
		if err != nil {
			b.Fatal(err)
		}
	}
}

func Benchmark_ParseJSON(b *testing.B) {
	data := wideSchemaJSON(100)
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := objschema.ParseJSON(data); err != nil {
			b.Fatal(err)
		}
	}
}

func Benchmark_EncodeJSON(b *testing.B) {
	s := mustParse(b, wideSchemaJSON(100))
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := objschema.EncodeJSON(s); err != nil {
			b.Fatal(err)
		}
	}
}
