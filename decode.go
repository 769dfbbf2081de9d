package objschema

import (
	"bytes"
	"errors"
	"io"
	"math"
	"strconv"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	eng "github.com/reoring/objschema/internal/engine"
	"github.com/reoring/objschema/internal/logging"
	"github.com/reoring/objschema/source/gojson"
)

// Severity expresses how an input anomaly is treated.
type Severity int

const (
	Ignore Severity = iota
	Warn
	Error
)

// Strictness configures enforcement for duplicate keys.
type Strictness struct {
	// OnDuplicateKey selects the duplicate key policy. With Ignore and Warn
	// the last value wins and keeps the position of the first occurrence;
	// Warn also logs the duplicate. Error fails the parse.
	OnDuplicateKey Severity
}

// ParseOpt bundles parsing options. The zero value accepts any well-formed
// input.
type ParseOpt struct {
	Strictness Strictness
	MaxDepth   int   // Maximum container nesting; 0 means unlimited.
	MaxBytes   int64 // Maximum input size; 0 means unlimited.
}

// ParseJSON decodes a JSON document into a schema tree, keeping object key
// order. Numbers are kept as json.Number.
func ParseJSON(data []byte, opts ...ParseOpt) (any, error) {
	opt := lastOpt(opts)
	if err := checkSize(int64(len(data)), opt); err != nil {
		return nil, err
	}
	if err := checkJSONSyntax(data); err != nil {
		return nil, err
	}
	return decodeJSON(gojson.NewBytes(data), opt)
}

// ParseJSONReader is ParseJSON over a reader. The reader is read to the end.
func ParseJSONReader(r io.Reader, opts ...ParseOpt) (any, error) {
	opt := lastOpt(opts)
	if opt.MaxBytes > 0 {
		r = io.LimitReader(r, opt.MaxBytes+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, Issues{newIssue(CodeParseError, "/", err, map[string]string{"reason": err.Error()})}
	}
	return ParseJSON(data, opt)
}

// ParseJSONObject is ParseJSON for documents whose root must be an object.
func ParseJSONObject(data []byte, opts ...ParseOpt) (*Object, error) {
	v, err := ParseJSON(data, opts...)
	if err != nil {
		return nil, err
	}
	return requireObjectRoot(v)
}

// ParseYAML decodes the first document of a YAML stream into a schema tree,
// keeping mapping order. An empty stream yields nil.
func ParseYAML(data []byte, opts ...ParseOpt) (any, error) {
	docs, err := parseYAMLDocs(data, lastOpt(opts), 1)
	if err != nil || len(docs) == 0 {
		return nil, err
	}
	return docs[0], nil
}

// ParseYAMLObject is ParseYAML for documents whose root must be a mapping.
func ParseYAMLObject(data []byte, opts ...ParseOpt) (*Object, error) {
	v, err := ParseYAML(data, opts...)
	if err != nil {
		return nil, err
	}
	return requireObjectRoot(v)
}

// ParseYAMLStream decodes every document of a multi-document YAML stream.
func ParseYAMLStream(data []byte, opts ...ParseOpt) ([]any, error) {
	return parseYAMLDocs(data, lastOpt(opts), -1)
}

// FromValue converts an arbitrary Go value (for example a typed schema
// struct) into a schema tree by encoding it as JSON and decoding it in order.
func FromValue(v any) (any, error) {
	if o, ok := v.(*Object); ok {
		return o.Clone(), nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, Issues{newIssue(CodeInvalidType, "/", err, map[string]string{"expected": "JSON-encodable value"})}
	}
	return ParseJSON(b)
}

func lastOpt(opts []ParseOpt) ParseOpt {
	if len(opts) == 0 {
		return ParseOpt{}
	}
	return opts[len(opts)-1]
}

func checkSize(n int64, opt ParseOpt) error {
	if opt.MaxBytes > 0 && n > opt.MaxBytes {
		return Issues{newIssue(CodeTruncated, "/", nil, nil)}
	}
	return nil
}

func requireObjectRoot(v any) (*Object, error) {
	if o := asObject(v); o != nil {
		return o, nil
	}
	return nil, Issues{newIssue(CodeInvalidType, "/", nil, map[string]string{"expected": "object"})}
}

// ---- JSON ----

func toEngineDup(s Severity) eng.DuplicateStrictness {
	switch s {
	case Error:
		return eng.DupError
	case Warn:
		return eng.DupWarn
	default:
		return eng.DupIgnore
	}
}

func warnDuplicate(si eng.SimpleIssue) {
	logging.Logger().Warn("duplicate key in input", "path", si.Path, "key", si.Key)
}

// checkJSONSyntax validates the grammar of the first value in data. The token
// stream skips separators without checking them, so missing, doubled or
// trailing commas and colons are caught here. Empty input and trailing data
// are left to decodeJSON.
func checkJSONSyntax(data []byte) error {
	rest := bytes.TrimLeft(data, " \t\r\n")
	if len(rest) == 0 {
		return nil
	}
	if rest[0] == ',' || rest[0] == ':' {
		return Issues{newIssue(CodeParseError, "/", nil, map[string]string{"reason": "unexpected " + strconv.QuoteRune(rune(rest[0])) + " before top-level value"})}
	}
	dec := json.NewDecoder(bytes.NewReader(rest))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return Issues{newIssue(CodeParseError, "/", err, map[string]string{"reason": err.Error()})}
	}
	return nil
}

type jsonDecoder struct {
	src eng.TokenSource
}

func decodeJSON(src eng.TokenSource, opt ParseOpt) (any, error) {
	d := jsonDecoder{src: eng.WrapWithEnforcement(src, eng.EnforceOptions{
		OnDuplicate: toEngineDup(opt.Strictness.OnDuplicateKey),
		MaxDepth:    opt.MaxDepth,
		IssueSink:   warnDuplicate,
	})}
	tok, err := d.src.NextToken()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, Issues{newIssue(CodeParseError, "/", err, map[string]string{"reason": "empty input"})}
		}
		return nil, toIssues(err)
	}
	v, err := d.value(tok)
	if err != nil {
		return nil, toIssues(err)
	}
	if _, err := d.src.NextToken(); !errors.Is(err, io.EOF) {
		if err != nil {
			return nil, toIssues(err)
		}
		return nil, Issues{newIssue(CodeParseError, "/", nil, map[string]string{"reason": "unexpected data after top-level value"})}
	}
	return v, nil
}

func (d jsonDecoder) value(tok eng.Token) (any, error) {
	switch tok.Kind {
	case eng.KindBeginObject:
		o := NewObject()
		for {
			kt, err := d.next()
			if err != nil {
				return nil, err
			}
			if kt.Kind == eng.KindEndObject {
				return o, nil
			}
			if kt.Kind != eng.KindKey {
				return nil, unexpected(kt)
			}
			vt, err := d.next()
			if err != nil {
				return nil, err
			}
			v, err := d.value(vt)
			if err != nil {
				return nil, err
			}
			o.Set(kt.String, v)
		}
	case eng.KindBeginArray:
		arr := []any{}
		for {
			et, err := d.next()
			if err != nil {
				return nil, err
			}
			if et.Kind == eng.KindEndArray {
				return arr, nil
			}
			v, err := d.value(et)
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
	case eng.KindString:
		return tok.String, nil
	case eng.KindNumber:
		return json.Number(tok.Number), nil
	case eng.KindBool:
		return tok.Bool, nil
	case eng.KindNull:
		return nil, nil
	}
	return nil, unexpected(tok)
}

// next reads a token inside a container, where the end of input is an error.
func (d jsonDecoder) next() (eng.Token, error) {
	tok, err := d.src.NextToken()
	if errors.Is(err, io.EOF) {
		return eng.Token{}, io.ErrUnexpectedEOF
	}
	return tok, err
}

func unexpected(tok eng.Token) error {
	return eng.IssueError{SimpleIssue: eng.SimpleIssue{
		Code:    eng.CodeParseError,
		Path:    eng.NormalizePath(tok.Path),
		Message: "unexpected " + tok.Kind.String() + " token",
	}}
}

// toIssues maps engine and decoder errors onto the public error model.
func toIssues(err error) error {
	var ie eng.IssueError
	if errors.As(err, &ie) {
		data := map[string]string{}
		switch ie.Code {
		case eng.CodeDuplicateKey:
			data["key"] = ie.Key
		case eng.CodeParseError:
			data["reason"] = ie.Message
		}
		return Issues{newIssue(ie.Code, ie.Path, nil, data)}
	}
	return Issues{newIssue(CodeParseError, "/", err, map[string]string{"reason": err.Error()})}
}

// ---- YAML ----

func parseYAMLDocs(data []byte, opt ParseOpt, limit int) ([]any, error) {
	if err := checkSize(int64(len(data)), opt); err != nil {
		return nil, err
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	var docs []any
	for limit < 0 || len(docs) < limit {
		var n yaml.Node
		if err := dec.Decode(&n); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, Issues{newIssue(CodeParseError, "/", err, map[string]string{"reason": err.Error()})}
		}
		v, err := fromYAMLNode(&n, newYAMLDecoder(opt))
		if err != nil {
			return nil, err
		}
		docs = append(docs, v)
	}
	return docs, nil
}

// yamlDecoder converts one document. It keeps the same alias budget as
// yaml.v3 applies when decoding into Go values, which a yaml.Node walk would
// otherwise bypass.
type yamlDecoder struct {
	opt ParseOpt

	decodeCount int
	aliasCount  int
	aliasDepth  int
	expanding   map[*yaml.Node]bool
}

func newYAMLDecoder(opt ParseOpt) *yamlDecoder {
	return &yamlDecoder{opt: opt, expanding: map[*yaml.Node]bool{}}
}

const (
	aliasRatioRangeLow  = 400000
	aliasRatioRangeHigh = 4000000
)

// allowedAliasRatio is the share of decoded nodes that may come from alias
// expansion: 99% for small documents, falling to 10% for very large ones.
func allowedAliasRatio(decodeCount int) float64 {
	switch {
	case decodeCount <= aliasRatioRangeLow:
		return 0.99
	case decodeCount >= aliasRatioRangeHigh:
		return 0.10
	default:
		return 0.99 - 0.89*(float64(decodeCount-aliasRatioRangeLow)/float64(aliasRatioRangeHigh-aliasRatioRangeLow))
	}
}

// count records one decoded node and fails once alias expansion dominates.
func (yd *yamlDecoder) count(path string) error {
	yd.decodeCount++
	if yd.aliasDepth > 0 {
		yd.aliasCount++
	}
	if yd.aliasCount > 100 && yd.decodeCount > 1000 && float64(yd.aliasCount)/float64(yd.decodeCount) > allowedAliasRatio(yd.decodeCount) {
		return Issues{newIssue(CodeParseError, eng.NormalizePath(path), nil, map[string]string{"reason": "document contains excessive aliasing"})}
	}
	return nil
}

func (yd *yamlDecoder) alias(n *yaml.Node, path string, depth int) (any, error) {
	if yd.expanding[n.Alias] {
		return nil, Issues{newIssue(CodeParseError, eng.NormalizePath(path), nil, map[string]string{"reason": "anchor " + strconv.Quote(n.Value) + " value contains itself"})}
	}
	yd.expanding[n.Alias] = true
	yd.aliasDepth++
	v, err := yd.node(n.Alias, path, depth)
	yd.aliasDepth--
	delete(yd.expanding, n.Alias)
	return v, err
}

func fromYAMLNode(n *yaml.Node, yd *yamlDecoder) (any, error) {
	return yd.node(n, "", 0)
}

func (yd *yamlDecoder) node(n *yaml.Node, path string, depth int) (any, error) {
	if err := yd.count(path); err != nil {
		return nil, err
	}
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return yd.node(n.Content[0], path, depth)
	case yaml.AliasNode:
		return yd.alias(n, path, depth)
	case yaml.MappingNode:
		if err := yd.checkDepth(path, depth+1); err != nil {
			return nil, err
		}
		return yd.mapping(n, path, depth+1)
	case yaml.SequenceNode:
		if err := yd.checkDepth(path, depth+1); err != nil {
			return nil, err
		}
		arr := make([]any, 0, len(n.Content))
		for i, c := range n.Content {
			v, err := yd.node(c, eng.JoinPointer(path, strconv.Itoa(i)), depth+1)
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
		return arr, nil
	case yaml.ScalarNode:
		return yd.scalar(n, path)
	}
	return nil, nil
}

func (yd *yamlDecoder) mapping(n *yaml.Node, path string, depth int) (*Object, error) {
	o := NewObject()
	// keys that came from a merge key (<<) may be overridden silently
	merged := map[string]bool{}
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, vn := n.Content[i], n.Content[i+1]
		if err := yd.count(path); err != nil {
			return nil, err
		}
		if k.Kind == yaml.AliasNode {
			k = k.Alias
		}
		if k.ShortTag() == "!!merge" {
			if err := yd.merge(o, vn, path, depth, merged); err != nil {
				return nil, err
			}
			continue
		}
		kp := eng.JoinPointer(path, k.Value)
		if o.Has(k.Value) && !merged[k.Value] {
			if err := yd.duplicate(kp, k.Value); err != nil {
				return nil, err
			}
		}
		delete(merged, k.Value)
		v, err := yd.node(vn, kp, depth)
		if err != nil {
			return nil, err
		}
		o.Set(k.Value, v)
	}
	return o, nil
}

// merge applies a YAML merge key: members of the referenced mapping(s) are
// added unless already present.
func (yd *yamlDecoder) merge(o *Object, vn *yaml.Node, path string, depth int, merged map[string]bool) error {
	sources := []*yaml.Node{vn}
	if vn.Kind == yaml.SequenceNode {
		sources = vn.Content
	}
	for _, src := range sources {
		v, err := yd.node(src, path, depth-1)
		if err != nil {
			return err
		}
		m, ok := v.(*Object)
		if !ok {
			return Issues{newIssue(CodeInvalidType, eng.NormalizePath(path), nil, map[string]string{"expected": "mapping for merge key"})}
		}
		m.Range(func(k string, v any) bool {
			if !o.Has(k) {
				o.Set(k, v)
				merged[k] = true
			}
			return true
		})
	}
	return nil
}

func (yd *yamlDecoder) duplicate(path, key string) error {
	switch yd.opt.Strictness.OnDuplicateKey {
	case Error:
		return Issues{newIssue(CodeDuplicateKey, path, nil, map[string]string{"key": key})}
	case Warn:
		warnDuplicate(eng.SimpleIssue{Code: eng.CodeDuplicateKey, Path: path, Key: key})
	}
	return nil
}

func (yd *yamlDecoder) checkDepth(path string, depth int) error {
	if yd.opt.MaxDepth > 0 && depth > yd.opt.MaxDepth {
		return Issues{newIssue(CodeMaxDepth, eng.NormalizePath(path), nil, nil)}
	}
	return nil
}

func (yd *yamlDecoder) scalar(n *yaml.Node, path string) (any, error) {
	switch n.ShortTag() {
	case "!!null":
		return nil, nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, yamlScalarError(path, err)
		}
		return b, nil
	case "!!int", "!!float":
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, yamlScalarError(path, err)
		}
		return yamlNumber(v, path)
	default:
		// !!str, !!timestamp, !!binary and custom tags keep their text
		return n.Value, nil
	}
}

func yamlNumber(v any, path string) (any, error) {
	switch x := v.(type) {
	case int:
		return json.Number(strconv.Itoa(x)), nil
	case int64:
		return json.Number(strconv.FormatInt(x, 10)), nil
	case uint64:
		return json.Number(strconv.FormatUint(x, 10)), nil
	case float64:
		if math.IsInf(x, 0) || math.IsNaN(x) {
			return nil, Issues{newIssue(CodeParseError, eng.NormalizePath(path), nil, map[string]string{"reason": "non-finite number"})}
		}
		return json.Number(strconv.FormatFloat(x, 'g', -1, 64)), nil
	}
	return v, nil
}

func yamlScalarError(path string, err error) error {
	return Issues{newIssue(CodeParseError, eng.NormalizePath(path), err, map[string]string{"reason": err.Error()})}
}
