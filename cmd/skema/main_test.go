package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func runCLI(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	var out, errb bytes.Buffer
	code := run(args, strings.NewReader(stdin), &out, &errb)
	return code, out.String(), errb.String()
}

func TestFmt_JSONCanonical(t *testing.T) {
	code, out, errs := runCLI(t, `{"type":"string","minLength":1,"description":"d"}`, "fmt", "-sort", "-indent", "", "-")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errs)
	}
	if out != `{"description":"d","minLength":1,"type":"string"}`+"\n" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestFmt_YAMLFileToJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "s.yaml")
	if err := os.WriteFile(path, []byte("type: integer\nminimum: 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	code, out, errs := runCLI(t, "", "fmt", "-out", "json", "-indent", "", path)
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errs)
	}
	if out != `{"type":"integer","minimum":1}`+"\n" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestCheck_ReportsIssues(t *testing.T) {
	code, _, errs := runCLI(t, `{"type":"string","maxLength":"x"}`, "check", "-")
	if code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	if !strings.HasPrefix(errs, "unsupported_shape at /maxLength") {
		t.Fatalf("unexpected report %q", errs)
	}

	code, out, _ := runCLI(t, `true`, "check", "-")
	if code != 0 || out != "ok: true\n" {
		t.Fatalf("exit %d, out %q", code, out)
	}
}

func TestCheck_StrictDuplicates(t *testing.T) {
	in := `{"type":"string","type":"null"}`
	code, _, errs := runCLI(t, in, "check", "-strict", "-")
	if code != 1 || !strings.Contains(errs, "duplicate_key at /type") {
		t.Fatalf("exit %d, stderr %q", code, errs)
	}

	code, out, errs := runCLI(t, in, "check", "-v", "-")
	if code != 0 || out != "ok: null\n" {
		t.Fatalf("exit %d, out %q", code, out)
	}
	if !strings.Contains(errs, "warning: duplicate_key at /type") {
		t.Fatalf("expected verbose warning, got %q", errs)
	}
}

func TestInspect(t *testing.T) {
	code, out, errs := runCLI(t, `{"type":"object","properties":{"name":{"type":"string","minLength":1}},"required":["name"]}`, "inspect", "-")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errs)
	}
	want := "object required=[name]\n  properties.name: string minLength=1\n"
	if out != want {
		t.Fatalf("got:\n%s\nwant:\n%s", out, want)
	}
}

func TestUsage(t *testing.T) {
	if code, _, _ := runCLI(t, ""); code != 2 {
		t.Fatalf("expected exit 2, got %d", code)
	}
	if code, _, _ := runCLI(t, "", "bogus"); code != 2 {
		t.Fatalf("expected exit 2, got %d", code)
	}
	if code, _, _ := runCLI(t, "", "check"); code != 1 {
		t.Fatalf("missing FILE should fail, got %d", code)
	}
}
