package i18n

import "strings"

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "expected" or "key"); placeholders are written as {name}.
type Translator interface {
	Message(code string, data map[string]string) string
}

var catalogs = map[string]map[string]string{
	"en": {
		"invalid_type":      "invalid type: expected {expected}",
		"duplicate_key":     "duplicate key {key}",
		"parse_error":       "parse error",
		"truncated":         "input exceeds {max} bytes",
		"unsupported_shape": "unsupported schema shape ({attempts} candidates failed)",
	},
	"ja": {
		"invalid_type":      "型が不正です（期待: {expected}）",
		"duplicate_key":     "キー {key} が重複しています",
		"parse_error":       "解析エラー",
		"truncated":         "入力が {max} バイトを超えています",
		"unsupported_shape": "未対応のスキーマ形状です（{attempts} 候補すべて失敗）",
	},
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	msg, ok := catalogs[t.lang][code]
	if !ok {
		return code
	}
	return expand(msg, data)
}

// expand substitutes {name} placeholders. A placeholder without data is
// dropped along with the space before it.
func expand(msg string, data map[string]string) string {
	var b strings.Builder
	for {
		i := strings.IndexByte(msg, '{')
		if i < 0 {
			b.WriteString(msg)
			return b.String()
		}
		j := strings.IndexByte(msg[i:], '}')
		if j < 0 {
			b.WriteString(msg)
			return b.String()
		}
		if v, ok := data[msg[i+1:i+j]]; ok {
			b.WriteString(msg[:i])
			b.WriteString(v)
		} else {
			b.WriteString(strings.TrimRight(msg[:i], " "))
		}
		msg = msg[i+j+1:]
	}
}

var currentTranslator Translator = dictTranslator{lang: "en"}

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if _, ok := catalogs[lang]; !ok {
		lang = "en"
	}
	currentTranslator = dictTranslator{lang: lang}
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		currentTranslator = dictTranslator{lang: "en"}
		return
	}
	currentTranslator = tr
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string { return currentTranslator.Message(code, data) }
