package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/vmihailenco/msgpack/v5"

	"runakit/internal/config"
	"runakit/internal/diag"
	"runakit/internal/lint"
	"runakit/internal/source"
)

func checkedBag(t *testing.T, doc *source.Document) *diag.Bag {
	t.Helper()
	bag := diag.NewBag(10)
	lint.Check(doc, config.Defaults(), bag)
	bag.Sort()
	return bag
}

// TestPathModes проверяет различные режимы форматирования путей
func TestPathModes(t *testing.T) {
	doc := source.FromLines("/home/user/project/src/test.runa", "Let a be b * 2")
	bag := checkedBag(t, doc)
	docs := Documents{}
	docs.Add(doc)

	tests := []struct {
		name     string
		mode     PathMode
		contains string
	}{
		{"Absolute path", PathModeAbsolute, "/home/user/project/src/test.runa:1:12"},
		{"Relative path", PathModeRelative, "src/test.runa:1:12"},
		{"Basename only", PathModeBasename, "test.runa:1:12"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			Pretty(&buf, bag, docs, PrettyOpts{PathMode: tt.mode, BaseDir: "/home/user/project"})
			output := buf.String()
			if !strings.Contains(output, tt.contains) {
				t.Errorf("Expected output to contain %q, got:\n%s", tt.contains, output)
			}
			if !strings.Contains(output, "WARNING W1001") {
				t.Errorf("Expected severity and code in output, got:\n%s", output)
			}
		})
	}
}

func TestPrettyCaretUsesDisplayWidth(t *testing.T) {
	// "Let 数 be a + b": the CJK rune is two columns wide
	doc := source.FromLines("w.runa", "Let 数 be a + b")
	bag := checkedBag(t, doc)
	docs := Documents{}
	docs.Add(doc)

	var buf bytes.Buffer
	Pretty(&buf, bag, docs, PrettyOpts{})
	lines := strings.Split(buf.String(), "\n")
	if len(lines) < 3 {
		t.Fatalf("unexpected output:\n%s", buf.String())
	}
	if !strings.HasPrefix(lines[0], "w.runa:1:12:") {
		t.Fatalf("expected rune column 12, got %q", lines[0])
	}
	caret := lines[2]
	idx := strings.Index(caret, "^")
	bar := strings.Index(caret, "|")
	if idx < 0 || bar < 0 {
		t.Fatalf("missing caret line: %q", caret)
	}
	// text starts two columns after the bar; "Let 数 be a " is 12 columns wide
	if got := idx - (bar + 2); got != 12 {
		t.Fatalf("caret at column %d, want 12:\n%s", got, buf.String())
	}
}

func TestPrettyFixesAndPreview(t *testing.T) {
	doc := source.FromLines("example.runa", "If x:", "Display x")
	bag := checkedBag(t, doc)
	docs := Documents{}
	docs.Add(doc)

	var buf bytes.Buffer
	Pretty(&buf, bag, docs, PrettyOpts{PathMode: PathModeBasename, ShowFixes: true, ShowPreview: true})
	output := buf.String()

	for _, want := range []string{
		"fix #1: Reindent line (always-safe, id=indent-2, preferred)",
		`apply="    "`,
		"preview:",
		"- Display x",
		"+     Display x",
	} {
		if !strings.Contains(output, want) {
			t.Fatalf("expected %q in output, got:\n%s", want, output)
		}
	}
}

func TestPrettyColor(t *testing.T) {
	doc := source.FromLines("c.runa", "Let a be 1 + 2")
	bag := checkedBag(t, doc)
	var plain, colored bytes.Buffer
	Pretty(&plain, bag, nil, PrettyOpts{})
	Pretty(&colored, bag, nil, PrettyOpts{Color: true})
	if strings.Contains(plain.String(), "\x1b[") {
		t.Fatalf("plain output has escape codes: %q", plain.String())
	}
	if !strings.Contains(colored.String(), "\x1b[") {
		t.Fatalf("colored output lacks escape codes: %q", colored.String())
	}
}

func TestJSONOutput(t *testing.T) {
	doc := source.FromLines("j.runa", "Let 𝑥 be a + b")
	bag := checkedBag(t, doc)
	docs := Documents{}
	docs.Add(doc)

	var buf bytes.Buffer
	if err := JSON(&buf, bag, docs, JSONOpts{IncludePositions: true, IncludeFixes: true}); err != nil {
		t.Fatalf("json: %v", err)
	}
	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Count != 1 || out.Diagnostics[0].Code != "W1001" || out.Diagnostics[0].Severity != "warning" {
		t.Fatalf("unexpected output %+v", out)
	}
	loc := out.Diagnostics[0].Location
	// 𝑥 is 4 bytes and 2 UTF-16 units
	if loc.StartByte != 14 || loc.Range == nil || loc.Range.Start.Character != 12 {
		t.Fatalf("unexpected location %+v", loc)
	}
	fixes := out.Diagnostics[0].Fixes
	if len(fixes) != 1 || fixes[0].Edits[0].OldText != "Let 𝑥 be a + b" {
		t.Fatalf("unexpected fixes %+v", fixes)
	}
}

func TestMsgpackOutput(t *testing.T) {
	doc := source.FromLines("m.runa", "If x:", "Display x")
	bag := checkedBag(t, doc)
	var buf bytes.Buffer
	if err := Msgpack(&buf, bag, nil, JSONOpts{Max: 1}); err != nil {
		t.Fatalf("msgpack: %v", err)
	}
	var out DiagnosticsOutput
	if err := msgpack.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Count != 1 || out.Diagnostics[0].Code != "W2001" {
		t.Fatalf("unexpected output %+v", out)
	}
}

func TestSarifOutput(t *testing.T) {
	doc := source.FromLines("s.runa", "If a > b:", "Display a")
	bag := checkedBag(t, doc)
	var buf bytes.Buffer
	if err := Sarif(&buf, bag, nil, SarifRunMeta{ToolName: "runakit", ToolVersion: "test"}); err != nil {
		t.Fatalf("sarif: %v", err)
	}
	var log sarifLog
	if err := json.Unmarshal(buf.Bytes(), &log); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if log.Version != "2.1.0" || len(log.Runs) != 1 {
		t.Fatalf("unexpected log %+v", log)
	}
	run := log.Runs[0]
	if len(run.Results) != 2 || len(run.Tool.Driver.Rules) != 2 {
		t.Fatalf("unexpected run %+v", run)
	}
	if run.Results[0].Locations[0].PhysicalLocation.Region.StartColumn != 6 {
		t.Fatalf("unexpected region %+v", run.Results[0].Locations[0].PhysicalLocation.Region)
	}
}
