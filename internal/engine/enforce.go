package engine

import (
	"strconv"
	"strings"
)

// DuplicateStrictness controls duplicate key handling.
type DuplicateStrictness int

const (
	DupIgnore DuplicateStrictness = iota
	DupWarn
	DupError
)

// EnforceOptions controls runtime enforcement behavior.
type EnforceOptions struct {
	OnDuplicate DuplicateStrictness
	// MaxDepth bounds container nesting; 0 disables the check.
	MaxDepth int
	// IssueSink receives non-fatal issues (duplicate keys under DupWarn).
	IssueSink func(SimpleIssue)
}

type containerKind int

const (
	kindObject containerKind = iota
	kindArray
)

type frame struct {
	kind         containerKind
	keys         map[string]struct{}
	expectingKey bool
	path         string
	nextIndex    int
	pendingKey   string
}

// WrapWithEnforcement returns a TokenSource that enforces the duplicate key
// policy and the maximum nesting depth, and stamps every token with its JSON
// Pointer.
func WrapWithEnforcement(inner TokenSource, opt EnforceOptions) TokenSource {
	return &enforcingSource{inner: inner, opt: opt}
}

type enforcingSource struct {
	inner TokenSource
	opt   EnforceOptions
	stack []frame
}

func (e *enforcingSource) NextToken() (Token, error) {
	tok, err := e.inner.NextToken()
	if err != nil {
		return Token{}, err
	}
	tok.Path = e.pathFor(tok)

	switch tok.Kind {
	case KindBeginObject, KindBeginArray:
		f := frame{kind: kindArray, path: tok.Path}
		if tok.Kind == KindBeginObject {
			f = frame{kind: kindObject, keys: make(map[string]struct{}), expectingKey: true, path: tok.Path}
		}
		e.stack = append(e.stack, f)
		if e.opt.MaxDepth > 0 && len(e.stack) > e.opt.MaxDepth {
			return Token{}, IssueError{SimpleIssue{
				Code:    CodeMaxDepth,
				Path:    NormalizePath(tok.Path),
				Message: "max depth " + strconv.Itoa(e.opt.MaxDepth) + " exceeded",
			}}
		}
	case KindEndObject, KindEndArray:
		if n := len(e.stack); n > 0 {
			e.stack = e.stack[:n-1]
		}
		e.valueDone()
	case KindKey:
		if n := len(e.stack); n > 0 {
			top := &e.stack[n-1]
			if top.kind == kindObject && top.expectingKey {
				if _, dup := top.keys[tok.String]; dup && e.opt.OnDuplicate != DupIgnore {
					si := SimpleIssue{
						Code:    CodeDuplicateKey,
						Path:    NormalizePath(tok.Path),
						Message: "key '" + tok.String + "' duplicated",
						Key:     tok.String,
					}
					if e.opt.OnDuplicate == DupError {
						return Token{}, IssueError{si}
					}
					if e.opt.IssueSink != nil {
						e.opt.IssueSink(si)
					}
				}
				top.keys[tok.String] = struct{}{}
				top.expectingKey = false
				top.pendingKey = tok.String
			}
		}
	default:
		e.valueDone()
	}
	return tok, nil
}

// valueDone flips the enclosing object back to expecting a key once a member
// value has been fully consumed.
func (e *enforcingSource) valueDone() {
	if n := len(e.stack); n > 0 {
		top := &e.stack[n-1]
		if top.kind == kindObject && !top.expectingKey {
			top.expectingKey = true
			top.pendingKey = ""
		}
	}
}

func (e *enforcingSource) pathFor(tok Token) string {
	if len(e.stack) == 0 {
		return ""
	}
	top := &e.stack[len(e.stack)-1]
	switch tok.Kind {
	case KindKey:
		return JoinPointer(top.path, tok.String)
	case KindEndObject, KindEndArray:
		return top.path
	}
	if top.kind == kindArray {
		p := JoinPointer(top.path, strconv.Itoa(top.nextIndex))
		top.nextIndex++
		return p
	}
	if !top.expectingKey {
		return JoinPointer(top.path, top.pendingKey)
	}
	return top.path
}

// NormalizePath renders the root pointer as "/" for display.
func NormalizePath(p string) string {
	if p == "" {
		return "/"
	}
	return p
}

var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

// JoinPointer appends one reference token to a JSON Pointer.
func JoinPointer(base, token string) string {
	return base + "/" + pointerEscaper.Replace(token)
}
