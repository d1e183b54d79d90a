package config

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestDefaults(t *testing.T) {
	s := Defaults()
	if s.IndentSize() != 4 {
		t.Fatalf("IndentSize = %d, want 4", s.IndentSize())
	}
	if !s.MathSymbolEnforcement() || !s.CompletionEnabled() || !s.IncludeBuiltins() {
		t.Fatalf("boolean defaults must be true")
	}
}

func TestLookupFallback(t *testing.T) {
	s := Defaults()
	if got := s.Int("format.missing", 7); got != 7 {
		t.Fatalf("Int fallback = %d, want 7", got)
	}
	if got := s.Bool(KeyIndentSize, true); !got {
		t.Fatalf("Bool on int value should fall back to default")
	}
	if got := s.String("x", "y"); got != "y" {
		t.Fatalf("String fallback = %q", got)
	}
}

func TestWithDoesNotMutate(t *testing.T) {
	base := Defaults()
	next := base.With(KeyIndentSize, 2)
	if base.IndentSize() != 4 || next.IndentSize() != 2 {
		t.Fatalf("With mutated the receiver: base=%d next=%d", base.IndentSize(), next.IndentSize())
	}
	if base.Fingerprint() == next.Fingerprint() {
		t.Fatalf("fingerprints should differ")
	}
}

func TestLoadFlattensTables(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	content := "[format]\nindentSize = 2\n\n[diagnostics]\nmathSymbolEnforcement = false\n\n[editor]\ntheme = \"dark\"\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	f, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if f.Settings.IndentSize() != 2 {
		t.Fatalf("IndentSize = %d, want 2", f.Settings.IndentSize())
	}
	if f.Settings.MathSymbolEnforcement() {
		t.Fatalf("expected math enforcement off")
	}
	if !f.Settings.CompletionEnabled() {
		t.Fatalf("missing keys must keep defaults")
	}
	if !slices.Equal(f.Unknown, []string{"editor.theme"}) {
		t.Fatalf("Unknown = %v", f.Unknown)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := map[string]string{
		"wrong type":   "[format]\nindentSize = \"wide\"\n",
		"out of range": "[format]\nindentSize = 0\n",
		"bool type":    "[diagnostics]\nmathSymbolEnforcement = 1\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), FileName)
			if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
				t.Fatalf("write: %v", err)
			}
			if _, err := Load(path); !errors.Is(err, ErrInvalidSetting) {
				t.Fatalf("expected ErrInvalidSetting, got %v", err)
			}
		})
	}
}

func TestLoadRejectsBrokenTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte("[format\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestDiscoverWalksUp(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "src", "pkg")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, FileName), []byte("[format]\nindentSize = 8\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	file := filepath.Join(nested, "main.runa")
	if err := os.WriteFile(file, []byte("Display 1\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	f, err := Discover(file)
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	if f.Path != filepath.Join(root, FileName) {
		t.Fatalf("Path = %q", f.Path)
	}
	if f.Settings.IndentSize() != 8 {
		t.Fatalf("IndentSize = %d, want 8", f.Settings.IndentSize())
	}
}

func TestWriteDefaultRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteDefault(&buf); err != nil {
		t.Fatalf("write default: %v", err)
	}
	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	f, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v\n%s", err, buf.String())
	}
	if len(f.Unknown) != 0 {
		t.Fatalf("default file has unknown keys: %v", f.Unknown)
	}
	if f.Settings.Fingerprint() != Defaults().Fingerprint() {
		t.Fatalf("fingerprint mismatch:\n%s\n%s", f.Settings.Fingerprint(), Defaults().Fingerprint())
	}
}
