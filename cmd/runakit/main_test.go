package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"runakit/internal/driver"
	"runakit/internal/edit"
	"runakit/internal/source"
)

func writeRuna(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

// execute runs the root command with args. Flag values persist on the
// package-level commands, so every test spells out the flags it relies on.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestFmtStdout(t *testing.T) {
	path := writeRuna(t, t.TempDir(), "main.runa", "If x:\nDisplay x\n")
	out, err := execute(t, "fmt", "--stdout", "--ui", "off", "--no-cache", path)
	if err != nil {
		t.Fatalf("fmt: %v", err)
	}
	if out != "If x:\n    Display x\n" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestWordsRewritesAndSummarizes(t *testing.T) {
	path := writeRuna(t, t.TempDir(), "calc.runa", "Let c be a + b\nNote: a + b\n")
	out, err := execute(t, "words", "--ui", "off", "--no-cache", path)
	if err != nil {
		t.Fatalf("words: %v", err)
	}
	if !strings.Contains(out, "Converted 1 mathematical symbols to words") {
		t.Fatalf("missing summary in %q", out)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "Let c be a  plus  b\nNote: a + b\n" {
		t.Fatalf("unexpected content %q", data)
	}
}

func TestCheckJSONFailsOnProblems(t *testing.T) {
	path := writeRuna(t, t.TempDir(), "bad.runa", "If x:\nDisplay x\n")
	out, err := execute(t, "check", "--format", "json", "--ui", "off", "--no-cache", path)
	if err == nil {
		t.Fatalf("expected check to fail")
	}
	if !strings.Contains(out, "W2001") {
		t.Fatalf("expected indentation diagnostic, got %s", out)
	}
}

func TestResolveCursor(t *testing.T) {
	path := writeRuna(t, t.TempDir(), "a.runa", "Let é be 1\nDisplay é\n")
	cur, err := resolveCursor(path, "2", "9")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if cur.line.Text != "Display é" || cur.offset != len("Display ") {
		t.Fatalf("unexpected cursor line=%q byte=%d", cur.line.Text, cur.offset)
	}
	if _, err := resolveCursor(path, "0", "1"); err == nil {
		t.Fatalf("expected error for line 0")
	}
	if _, err := resolveCursor(path, "9", "1"); err == nil {
		t.Fatalf("expected error for line past end")
	}
}

func TestRewritePayloadUsesHostPositions(t *testing.T) {
	doc := source.FromString("x.runa", "𝑥 + 1")
	results := []driver.Result{{
		Path:     "x.runa",
		Changed:  true,
		Document: doc,
		Edits:    []edit.Edit{edit.Replace(0, 5, 6, "plus")},
	}}
	payload := buildRewritePayload(results, true)
	if len(payload) != 1 || len(payload[0].Edits) != 1 || !payload[0].Check {
		t.Fatalf("unexpected payload %+v", payload)
	}
	// 𝑥 is two UTF-16 units
	if got := payload[0].Edits[0].Range.Start.Character; got != 3 {
		t.Fatalf("expected UTF-16 start 3, got %d", got)
	}

	var buf bytes.Buffer
	if err := renderRewriteJSON(&buf, results, false); err != nil {
		t.Fatalf("json: %v", err)
	}
	var decoded []rewriteResult
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded[0].Path != "x.runa" || !decoded[0].Changed {
		t.Fatalf("unexpected decoded %+v", decoded[0])
	}
}

func TestReadModes(t *testing.T) {
	if m, err := readUIMode(" ON "); err != nil || m != uiModeOn {
		t.Fatalf("readUIMode: %v %v", m, err)
	}
	if _, err := readUIMode("sometimes"); err == nil {
		t.Fatalf("expected error")
	}
	if m, err := readColorMode(""); err != nil || m != "auto" {
		t.Fatalf("readColorMode: %v %v", m, err)
	}
	if _, err := readColorMode("rainbow"); err == nil {
		t.Fatalf("expected error")
	}
}
