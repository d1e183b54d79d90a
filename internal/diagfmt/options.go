package diagfmt

import (
	"path/filepath"
	"strings"

	"runakit/internal/source"
)

// PathMode specifies how file paths are displayed.
type PathMode uint8

const (
	// PathModeAuto shows paths relative to BaseDir when that is shorter.
	PathModeAuto PathMode = iota
	PathModeAbsolute
	PathModeRelative
	PathModeBasename
)

// ParsePathMode converts a flag value to a PathMode.
func ParsePathMode(s string) (PathMode, bool) {
	switch strings.ToLower(s) {
	case "", "auto":
		return PathModeAuto, true
	case "absolute", "abs":
		return PathModeAbsolute, true
	case "relative", "rel":
		return PathModeRelative, true
	case "basename", "base":
		return PathModeBasename, true
	}
	return PathModeAuto, false
}

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color       bool
	Context     int // lines of context above and below
	PathMode    PathMode
	BaseDir     string
	ShowFixes   bool
	ShowPreview bool
}

// JSONOpts configures JSON, msgpack and SARIF output of diagnostics.
type JSONOpts struct {
	IncludePositions bool // добавить UTF-16 колонки для редакторов
	PathMode         PathMode
	BaseDir          string
	Max              int // обрезка вывода, не Bag
	IncludeFixes     bool
}

// SarifRunMeta provides metadata for SARIF output.
type SarifRunMeta struct {
	ToolName       string
	ToolVersion    string
	InvocationArgs []string
}

// Documents resolves diagnostic paths to the snapshots they were computed on.
type Documents map[string]*source.Document

// Add registers doc under its path.
func (d Documents) Add(doc *source.Document) {
	if doc != nil {
		d[doc.Path()] = doc
	}
}

func (d Documents) lookup(path string) *source.Document {
	if d == nil {
		return nil
	}
	return d[path]
}

func formatPath(path string, mode PathMode, base string) string {
	switch mode {
	case PathModeAbsolute:
		if abs, err := filepath.Abs(filepath.FromSlash(path)); err == nil {
			return filepath.ToSlash(abs)
		}
	case PathModeBasename:
		return filepath.Base(path)
	case PathModeRelative:
		if rel, ok := relativeTo(path, base); ok {
			return rel
		}
	case PathModeAuto:
		if rel, ok := relativeTo(path, base); ok && len(rel) < len(path) {
			return rel
		}
	}
	return path
}

func relativeTo(path, base string) (string, bool) {
	if base == "" {
		return "", false
	}
	absPath, err := filepath.Abs(filepath.FromSlash(path))
	if err != nil {
		return "", false
	}
	absBase, err := filepath.Abs(base)
	if err != nil {
		return "", false
	}
	rel, err := filepath.Rel(absBase, absPath)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", false
	}
	return filepath.ToSlash(rel), true
}
