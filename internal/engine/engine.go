package engine

// Kind represents token kinds from a generic source.
type Kind int

const (
	KindBeginObject Kind = iota
	KindEndObject
	KindBeginArray
	KindEndArray
	KindKey
	KindString
	KindNumber
	KindBool
	KindNull
)

func (k Kind) String() string {
	switch k {
	case KindBeginObject:
		return "begin-object"
	case KindEndObject:
		return "end-object"
	case KindBeginArray:
		return "begin-array"
	case KindEndArray:
		return "end-array"
	case KindKey:
		return "key"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindNull:
		return "null"
	}
	return "unknown"
}

// Token represents a streaming token. Numbers keep their textual form so that
// decoding never loses precision.
type Token struct {
	Kind   Kind
	String string
	Number string
	Bool   bool
	// Path is the JSON Pointer of the value (or key) this token belongs to.
	// It is only populated by the enforcement wrapper.
	Path string
}

// TokenSource is a minimal interface required by the engine.
type TokenSource interface {
	NextToken() (Token, error)
}

// Issue codes produced by the engine. They mirror the public codes of the
// root package.
const (
	CodeDuplicateKey = "duplicate_key"
	CodeMaxDepth     = "max_depth"
	CodeParseError   = "parse_error"
)

// SimpleIssue is a minimal issue representation used by internal helpers.
type SimpleIssue struct {
	Code    string
	Path    string
	Message string
	// Key is set for duplicate_key issues.
	Key string
}

// IssueError is a lightweight error carrying a SimpleIssue.
type IssueError struct{ SimpleIssue }

func (e IssueError) Error() string { return e.SimpleIssue.Message }
