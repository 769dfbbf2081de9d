package gojson

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	eng "github.com/reoring/objschema/internal/engine"
)

func collect(t *testing.T, src eng.TokenSource) []eng.Token {
	t.Helper()
	var out []eng.Token
	for {
		tok, err := src.NextToken()
		if errors.Is(err, io.EOF) {
			return out
		}
		if err != nil {
			t.Fatalf("NextToken: %v", err)
		}
		out = append(out, tok)
	}
}

func TestTokens_KeysAndValues(t *testing.T) {
	got := collect(t, NewBytes([]byte(`{"k":"v","n":-1.25e2,"arr":["s",true,null,{}],"o":{"x":"k"}}`)))
	want := []eng.Token{
		{Kind: eng.KindBeginObject},
		{Kind: eng.KindKey, String: "k"},
		{Kind: eng.KindString, String: "v"},
		{Kind: eng.KindKey, String: "n"},
		{Kind: eng.KindNumber, Number: "-1.25e2"},
		{Kind: eng.KindKey, String: "arr"},
		{Kind: eng.KindBeginArray},
		{Kind: eng.KindString, String: "s"},
		{Kind: eng.KindBool, Bool: true},
		{Kind: eng.KindNull},
		{Kind: eng.KindBeginObject},
		{Kind: eng.KindEndObject},
		{Kind: eng.KindEndArray},
		{Kind: eng.KindKey, String: "o"},
		{Kind: eng.KindBeginObject},
		{Kind: eng.KindKey, String: "x"},
		{Kind: eng.KindString, String: "k"},
		{Kind: eng.KindEndObject},
		{Kind: eng.KindEndObject},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("tokens (-want +got):\n%s", diff)
	}
}

func TestTokens_TopLevelScalar(t *testing.T) {
	got := collect(t, NewReader(strings.NewReader(` "just a string" `)))
	want := []eng.Token{{Kind: eng.KindString, String: "just a string"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("tokens (-want +got):\n%s", diff)
	}
}

func TestTokens_BigNumbersKeepText(t *testing.T) {
	got := collect(t, NewBytes([]byte(`[12345678901234567890123,0.1000]`)))
	if got[1].Number != "12345678901234567890123" || got[2].Number != "0.1000" {
		t.Fatalf("numbers lost precision: %+v", got)
	}
}

func TestTokens_InvalidInput(t *testing.T) {
	src := NewBytes([]byte(`{"a":@}`))
	var err error
	for err == nil {
		_, err = src.NextToken()
	}
	if errors.Is(err, io.EOF) {
		t.Fatalf("expected a syntax error, got EOF")
	}
}
