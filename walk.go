package objschema

import (
	"context"
	"log/slog"

	"github.com/reoring/objschema/internal/logging"
)

// elementKey is the position marker given to array members. It never names a
// keyword, so members are classified by their own contents only.
const elementKey = "[]"

// Walk returns a new tree in which fn has been applied to every plain object
// schema (a record whose "type" is "object") of node, depth first.
//
// fn runs before the record's members are walked, so members it adds or
// removes are walked (or not) accordingly. It receives a private copy of the
// record: it may add, replace or delete members, but must not modify nested
// values in place. A nil result keeps the record as it was.
//
// Subschemas of the combinators allOf, anyOf, oneOf and not are copied
// without being walked. A member only counts as a combinator when it is not
// itself a named property, so {"properties": {"not": {...}}} is walked like
// any other property schema. Records nested inside combinator branches are
// left alone even when they contain their own "properties".
//
// Walk never fails: values of unexpected shape are copied unchanged. Plain
// map[string]any records are accepted and come back as *Object with their keys
// sorted; []*Object and []map[string]any come back as []any.
func Walk(node any, fn func(*Object) *Object) any {
	return walk(node, "", "", fn)
}

// walk threads the key under which node sits and the key under which its
// parent sits; together they decide whether node is a combinator position.
func walk(node any, key, parent string, fn func(*Object) *Object) any {
	switch t := node.(type) {
	case *Object, map[string]any:
		if IsObjectCombinator(key) && !IsPropertiesKeyword(parent) {
			traceSkip(key, parent)
			return Clone(node)
		}
		return walkObject(asObject(t), key, fn)
	case []any, []*Object, []map[string]any:
		if IsArrayCombinator(key) && !IsPropertiesKeyword(parent) {
			traceSkip(key, parent)
			return Clone(node)
		}
		arr, _ := asArray(t)
		out := make([]any, len(arr))
		for i, e := range arr {
			out[i] = walk(e, elementKey, key, fn)
		}
		return out
	default:
		return Clone(node)
	}
}

func walkObject(o *Object, key string, fn func(*Object) *Object) *Object {
	if o == nil {
		return nil
	}
	if o.Type() == "object" && fn != nil {
		if r := fn(o.shallowClone()); r != nil {
			o = r
		}
	}
	out := &Object{keys: make([]string, 0, len(o.keys)), vals: make(map[string]any, len(o.keys))}
	for _, k := range o.keys {
		out.keys = append(out.keys, k)
		out.vals[k] = walk(o.vals[k], k, key, fn)
	}
	return out
}

func traceSkip(key, parent string) {
	l := logging.Logger()
	if !l.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	l.Debug("combinator subtree left unchanged", "keyword", key, "parent", parent)
}
