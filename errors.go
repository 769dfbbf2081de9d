package objschema

import (
	"errors"
	"fmt"
	"strings"

	"github.com/reoring/objschema/i18n"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeNotObjectSchema = "not_object_schema"
	CodeInvalidType     = "invalid_type"
	CodeDuplicateKey    = "duplicate_key"
	CodeMaxDepth        = "max_depth"
	CodeTruncated       = "truncated"
	CodeParseError      = "parse_error"
)

// ErrNotObjectSchema is the cause of every precondition failure of the
// shallow property operations.
var ErrNotObjectSchema = errors.New("objschema: schema type is not \"object\"")

// Issue represents a single error entry.
type Issue struct {
	Path    string // JSON Pointer (for example: /properties/a/type).
	Code    string // One of the codes listed above.
	Message string
	Hint    string // Optional: remediation hints.
	Cause   error  // Optional: underlying error.
	// Params carries structured parameters (e.g., {"got": "string"}) for
	// i18n and logging.
	Params map[string]any
}

// Issues is a collection of errors that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	lim := min(len(iss), maxShown)
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. not_object_schema at /type: schema is expected ...
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
		if it.Message != "" {
			b.WriteString(": ")
			b.WriteString(it.Message)
		}
	}
	if n := len(iss); n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// Unwrap exposes the causes so errors.Is and errors.As see through Issues.
func (iss Issues) Unwrap() []error {
	var errs []error
	for _, it := range iss {
		if it.Cause != nil {
			errs = append(errs, it.Cause)
		}
	}
	return errs
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	return append(dst, more...)
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// newIssue builds an Issue whose message is resolved through the i18n
// translator. data feeds both the message and Params.
func newIssue(code, path string, cause error, data map[string]string) Issue {
	it := Issue{
		Path:    path,
		Code:    code,
		Message: i18n.T(code, data),
		Cause:   cause,
	}
	if len(data) > 0 {
		it.Params = make(map[string]any, len(data))
		for k, v := range data {
			it.Params[k] = v
		}
	}
	return it
}

// assertObjectSchema fails unless s is a record whose type is "object".
func assertObjectSchema(s *Object) error {
	if s == nil {
		return Issues{newIssue(CodeNotObjectSchema, "/type", ErrNotObjectSchema, map[string]string{"got": "nil schema"})}
	}
	t, ok := s.Get("type")
	if str, isStr := t.(string); ok && isStr && str == "object" {
		return nil
	}
	got := "missing"
	if ok {
		got = describe(t)
	}
	return Issues{newIssue(CodeNotObjectSchema, "/type", ErrNotObjectSchema, map[string]string{"got": got})}
}

func describe(v any) string {
	switch t := v.(type) {
	case string:
		return fmt.Sprintf("%q", t)
	case nil:
		return "null"
	default:
		if b, err := EncodeJSON(v); err == nil {
			return string(b)
		}
		return fmt.Sprintf("%v", v)
	}
}
