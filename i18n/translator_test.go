package i18n

import "testing"

func TestTranslator_DefaultAndJapanese(t *testing.T) {
	// default is en
	if msg := T("invalid_type", map[string]string{"expected": "string"}); msg != "invalid type: expected string" {
		t.Fatalf("unexpected message %q", msg)
	}

	SetLanguage("ja")
	defer SetLanguage("en")
	if msg := T("parse_error", nil); msg != "解析エラー" {
		t.Fatalf("expected japanese message, got %q", msg)
	}
}

func TestTranslator_MissingDataDropsPlaceholder(t *testing.T) {
	if msg := T("duplicate_key", nil); msg != "duplicate key" {
		t.Fatalf("got %q", msg)
	}
	if msg := T("truncated", map[string]string{"max": "10"}); msg != "input exceeds 10 bytes" {
		t.Fatalf("got %q", msg)
	}
}

func TestTranslator_UnknownCodeAndLanguage(t *testing.T) {
	if msg := T("no_such_code", nil); msg != "no_such_code" {
		t.Fatalf("got %q", msg)
	}
	SetLanguage("xx")
	if msg := T("parse_error", nil); msg != "parse error" {
		t.Fatalf("unknown language should fall back to en, got %q", msg)
	}
}

type upper struct{}

func (upper) Message(code string, _ map[string]string) string { return "X-" + code }

func TestSetTranslator(t *testing.T) {
	SetTranslator(upper{})
	defer SetTranslator(nil)
	if msg := T("parse_error", nil); msg != "X-parse_error" {
		t.Fatalf("got %q", msg)
	}
}
