package i18n

import "sync"

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "key" or "got").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	switch t.lang {
	case "ja":
		switch code {
		case "not_object_schema":
			return withDetail("スキーマの type は \"object\" である必要があります", "got", data)
		case "invalid_type":
			return withDetail("型が不正です", "expected", data)
		case "duplicate_key":
			return withDetail("キーが重複しています", "key", data)
		case "max_depth":
			return "ネストが深すぎます"
		case "truncated":
			return "入力サイズの上限を超えました"
		case "parse_error":
			return withDetail("解析エラー", "reason", data)
		}
	default: // "en"
		switch code {
		case "not_object_schema":
			return withDetail(`schema is expected to have a "type" property set to "object"`, "got", data)
		case "invalid_type":
			return withDetail("invalid type", "expected", data)
		case "duplicate_key":
			return withDetail("duplicate key", "key", data)
		case "max_depth":
			return "max depth exceeded"
		case "truncated":
			return "input exceeds max bytes"
		case "parse_error":
			return withDetail("parse error", "reason", data)
		}
	}
	return code
}

func withDetail(msg, field string, data map[string]string) string {
	if v := data[field]; v != "" {
		return msg + " (" + field + ": " + v + ")"
	}
	return msg
}

var (
	mu                sync.RWMutex
	currentTranslator Translator = dictTranslator{lang: "en"}
)

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	SetTranslator(dictTranslator{lang: lang})
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version). nil restores the English dictionary.
func SetTranslator(tr Translator) {
	if tr == nil {
		tr = dictTranslator{lang: "en"}
	}
	mu.Lock()
	currentTranslator = tr
	mu.Unlock()
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string {
	mu.RLock()
	tr := currentTranslator
	mu.RUnlock()
	return tr.Message(code, data)
}
