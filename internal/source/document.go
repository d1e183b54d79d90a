package source

import (
	"crypto/sha256"
	"fmt"
	"os"
	"strings"
)

// Document is an immutable snapshot of a text file split into lines.
// Transformers read it and never modify it.
type Document struct {
	path  string
	lines []Line
	hash  [32]byte
	flags DocFlags
}

// NewDocument builds a document from already-normalized text.
func NewDocument(path string, content []byte, flags DocFlags) *Document {
	parts := strings.Split(string(content), "\n")
	lines := make([]Line, len(parts))
	for i, text := range parts {
		lines[i] = Line{Index: i, Text: text}
	}
	return &Document{
		path:  normalizePath(path),
		lines: lines,
		hash:  sha256.Sum256(content),
		flags: flags,
	}
}

// FromString creates a virtual document, mostly for tests and stdin.
func FromString(name, text string) *Document {
	return NewDocument(name, []byte(text), DocVirtual)
}

// FromLines joins lines with LF and creates a virtual document.
func FromLines(name string, lines ...string) *Document {
	return FromString(name, strings.Join(lines, "\n"))
}

// Load reads a file from disk, strips or decodes a BOM and folds CRLF into LF.
func Load(path string) (*Document, error) {
	// #nosec G304 -- path is provided by the caller
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(path, raw)
}

// Decode normalizes raw file bytes the same way Load does.
func Decode(path string, raw []byte) (*Document, error) {
	content, flags, err := decodeBOM(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: decode: %w", path, err)
	}
	content, hadCRLF := normalizeCRLF(content)
	if hadCRLF {
		flags |= DocNormalizedCRLF
	}
	return NewDocument(path, content, flags), nil
}

// Path returns the slash-normalized path of the document.
func (d *Document) Path() string { return d.path }

// Hash returns the SHA-256 of the normalized content.
func (d *Document) Hash() [32]byte { return d.hash }

// Flags returns load-time metadata.
func (d *Document) Flags() DocFlags { return d.flags }

// LineCount returns the number of lines. A trailing newline yields a final empty line.
func (d *Document) LineCount() int { return len(d.lines) }

// Line returns the line at the given 0-based index.
func (d *Document) Line(i int) Line {
	if i < 0 || i >= len(d.lines) {
		return Line{Index: i}
	}
	return d.lines[i]
}

// Lines returns a copy of the lines.
func (d *Document) Lines() []Line {
	return append([]Line(nil), d.lines...)
}

// Texts returns the raw text of every line.
func (d *Document) Texts() []string {
	out := make([]string, len(d.lines))
	for i, l := range d.lines {
		out[i] = l.Text
	}
	return out
}

// Text returns the normalized (LF) content.
func (d *Document) Text() string {
	return strings.Join(d.Texts(), "\n")
}

// Bytes renders the document back into its on-disk shape: CRLF and a UTF-8 BOM
// are restored when they were present on load. Transcoded UTF-16 input is
// written back as UTF-8.
func (d *Document) Bytes() []byte {
	sep := "\n"
	if d.flags&DocNormalizedCRLF != 0 {
		sep = "\r\n"
	}
	body := strings.Join(d.Texts(), sep)
	if d.flags&DocHadBOM != 0 {
		return append(append([]byte(nil), utf8BOM...), body...)
	}
	return []byte(body)
}

// WithTexts returns a new snapshot with replaced line texts and the same path and flags.
func (d *Document) WithTexts(texts []string) *Document {
	return NewDocument(d.path, []byte(strings.Join(texts, "\n")), d.flags)
}
