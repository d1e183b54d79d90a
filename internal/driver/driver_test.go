package driver

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"runakit/internal/config"
	"runakit/internal/diag"
	"runakit/internal/fix"
	"runakit/internal/observ"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

type recordingSink struct {
	mu     sync.Mutex
	events []Event
}

func (s *recordingSink) OnEvent(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
}

func TestCollectFiltersAndSorts(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.runa", "")
	writeFile(t, dir, "a.runa", "")
	writeFile(t, dir, "notes.txt", "")
	writeFile(t, dir, "sub/c.runa", "")
	writeFile(t, dir, ".hidden/d.runa", "")

	files, err := Collect(context.Background(), []string{dir, filepath.Join(dir, "a.runa")})
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	want := []string{
		filepath.Join(dir, "a.runa"),
		filepath.Join(dir, "b.runa"),
		filepath.Join(dir, "sub", "c.runa"),
	}
	if strings.Join(files, ",") != strings.Join(want, ",") {
		t.Fatalf("unexpected files:\n got %v\nwant %v", files, want)
	}
}

func TestCollectEmpty(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "x.txt", "")
	if _, err := Collect(context.Background(), []string{dir}); !errors.Is(err, ErrNoSourceFiles) {
		t.Fatalf("expected ErrNoSourceFiles, got %v", err)
	}
}

func TestFormatPathsWritesAndPreservesMode(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "main.runa", "If x:\nDisplay x\nOtherwise:\nDisplay y\n")
	sink := &recordingSink{}

	results, err := FormatPaths(context.Background(), []string{dir}, Options{
		Settings: config.Defaults(),
		Progress: sink,
		Timer:    observ.NewTimer(),
	})
	if err != nil {
		t.Fatalf("format: %v", err)
	}
	if len(results) != 1 || !results[0].Changed || results[0].EditCount != 2 {
		t.Fatalf("unexpected results %+v", results)
	}
	if got := readFile(t, path); got != "If x:\n    Display x\nOtherwise:\n    Display y\n" {
		t.Fatalf("unexpected content %q", got)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("mode not preserved: %v", info.Mode().Perm())
	}
	if len(sink.events) == 0 || sink.events[0].Status != StatusQueued {
		t.Fatalf("expected queued event first, got %+v", sink.events)
	}
}

func TestFormatPathsCheckAndStdout(t *testing.T) {
	dir := t.TempDir()
	original := "While x:\r\nLet x be x minus 1\r\n"
	path := writeFile(t, dir, "loop.runa", original)

	results, err := FormatPaths(context.Background(), []string{path}, Options{Settings: config.Defaults(), Mode: ModeCheck})
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !results[0].Changed || readFile(t, path) != original {
		t.Fatalf("check mode must report without writing")
	}

	results, err = FormatPaths(context.Background(), []string{path}, Options{Settings: config.Defaults(), Mode: ModeStdout})
	if err != nil {
		t.Fatalf("stdout: %v", err)
	}
	if got := string(results[0].Output); got != "While x:\r\n    Let x be x minus 1\r\n" {
		t.Fatalf("unexpected stdout output %q", got)
	}
	if readFile(t, path) != original {
		t.Fatalf("stdout mode must not write")
	}
}

func TestFormatPathsIndentSizeSetting(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.runa", "If x:\nDisplay x")
	settings := config.Defaults().With(config.KeyIndentSize, 2)
	if _, err := FormatPaths(context.Background(), []string{path}, Options{Settings: settings}); err != nil {
		t.Fatalf("format: %v", err)
	}
	if got := readFile(t, path); got != "If x:\n  Display x" {
		t.Fatalf("unexpected content %q", got)
	}

	bad := config.Defaults().With(config.KeyIndentSize, 0)
	if _, err := FormatPaths(context.Background(), []string{path}, Options{Settings: bad}); !errors.Is(err, config.ErrInvalidSetting) {
		t.Fatalf("expected ErrInvalidSetting, got %v", err)
	}
}

func TestConvertPaths(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "m.runa", "Let c be a + b\nNote: a + b\nDisplay \"x - y\nIf a >= b:\n")
	results, err := ConvertPaths(context.Background(), []string{path}, Options{Settings: config.Defaults()})
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if results[0].EditCount != 2 {
		t.Fatalf("expected 2 changed lines, got %d", results[0].EditCount)
	}
	want := "Let c be a  plus  b\nNote: a + b\nDisplay \"x - y\nIf a  is greater than or equal to  b:\n"
	if got := readFile(t, path); got != want {
		t.Fatalf("unexpected content:\n got %q\nwant %q", got, want)
	}
}

func TestConvertPathsDisabledByEnforcement(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "m.runa", "Let c be a + b\n")
	off := config.Defaults().With(config.KeyMathSymbolEnforcement, false)
	results, err := ConvertPaths(context.Background(), []string{path}, Options{Settings: off})
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if results[0].Changed || results[0].EditCount != 0 {
		t.Fatalf("expected no conversion, got %+v", results[0])
	}
	if got := readFile(t, path); got != "Let c be a + b\n" {
		t.Fatalf("file changed: %q", got)
	}
}

func TestCheckPaths(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.runa", "If a > b:\nDisplay a\n")
	writeFile(t, dir, "b.runa", "Display 1\n")

	results, err := CheckPaths(context.Background(), []string{dir}, Options{Settings: config.Defaults()})
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if n := len(results[0].Diagnostics); n != 2 {
		t.Fatalf("expected 2 diagnostics in a.runa, got %d", n)
	}
	if results[0].Diagnostics[0].Code != diag.MathSymbol {
		t.Fatalf("expected math diagnostic first, got %v", results[0].Diagnostics[0].Code)
	}
	if len(results[1].Diagnostics) != 0 {
		t.Fatalf("expected clean b.runa")
	}

	off := config.Defaults().With(config.KeyMathSymbolEnforcement, false)
	results, err = CheckPaths(context.Background(), []string{dir}, Options{Settings: off})
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if n := len(results[0].Diagnostics); n != 1 || results[0].Diagnostics[0].Code != diag.Indentation {
		t.Fatalf("expected only the indentation diagnostic, got %+v", results[0].Diagnostics)
	}
}

func TestStampCacheSkipsCleanFiles(t *testing.T) {
	dir := t.TempDir()
	cache, err := OpenStampCache(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatalf("open cache: %v", err)
	}
	path := writeFile(t, dir, "a.runa", "If x:\nDisplay x\n")
	opts := Options{Settings: config.Defaults(), Cache: cache}

	first, err := FormatPaths(context.Background(), []string{path}, opts)
	if err != nil || !first[0].Changed {
		t.Fatalf("first run: %+v, %v", first, err)
	}
	second, err := FormatPaths(context.Background(), []string{path}, opts)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if !second[0].Cached || second[0].Changed {
		t.Fatalf("expected cached clean result, got %+v", second[0])
	}

	// different settings miss the stamp
	opts.Settings = opts.Settings.With(config.KeyIndentSize, 2)
	third, err := FormatPaths(context.Background(), []string{path}, opts)
	if err != nil {
		t.Fatalf("third run: %v", err)
	}
	if third[0].Cached || !third[0].Changed {
		t.Fatalf("expected fresh run with new settings, got %+v", third[0])
	}

	if err := cache.DropAll(); err != nil {
		t.Fatalf("drop: %v", err)
	}
	clean, err := cache.IsClean(StageFmt, [32]byte{1}, "x")
	if err != nil || clean {
		t.Fatalf("expected miss after drop, got %v, %v", clean, err)
	}
}

func TestPerFileErrors(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.runa", "Display 1")
	missing := filepath.Join(dir, "missing.runa")

	if _, err := FormatPaths(context.Background(), []string{good, missing}, Options{Settings: config.Defaults()}); err == nil {
		t.Fatalf("expected collect error for missing path")
	}

	results, err := CheckPaths(context.Background(), []string{good}, Options{Settings: config.Defaults()})
	if err != nil || Errors(results) != nil {
		t.Fatalf("unexpected error: %v / %v", err, Errors(results))
	}
	s := Summarize(results)
	if s.Files != 1 || s.Failed != 0 || s.Changed != 0 {
		t.Fatalf("unexpected summary %+v", s)
	}
}

func TestFixFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "f.runa", "If a + b:\nDisplay a\n")
	opts := Options{Settings: config.Defaults()}

	res, err := FixFile(context.Background(), path, opts, fix.ApplyOptions{Mode: fix.ApplyModeAll})
	if err != nil {
		t.Fatalf("fix: %v", err)
	}
	if len(res.Apply.Applied) != 1 {
		t.Fatalf("expected one safe fix, got %+v", res.Apply.Applied)
	}
	if got := readFile(t, path); got != "If a + b:\n    Display a\n" {
		t.Fatalf("unexpected content %q", got)
	}

	if _, err := FixFile(context.Background(), path, opts, fix.ApplyOptions{Mode: fix.ApplyModeAll, AllowHeuristics: true}); err != nil {
		t.Fatalf("fix heuristics: %v", err)
	}
	if got := readFile(t, path); got != "If a  plus  b:\n    Display a\n" {
		t.Fatalf("unexpected content %q", got)
	}

	_, err = FixFile(context.Background(), path, opts, fix.ApplyOptions{Mode: fix.ApplyModeAll, AllowHeuristics: true})
	if !errors.Is(err, fix.ErrNoFixes) {
		t.Fatalf("expected ErrNoFixes on a clean file, got %v", err)
	}
}

func TestChannelSink(t *testing.T) {
	ch := make(chan Event, 1)
	ChannelSink{Ch: ch}.OnEvent(Event{File: "a", Status: StatusDone})
	if ev := <-ch; ev.File != "a" {
		t.Fatalf("unexpected event %+v", ev)
	}
	ChannelSink{}.OnEvent(Event{}) // nil channel is a no-op
}
