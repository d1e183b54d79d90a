package edit

import (
	"fmt"
	"unicode/utf8"

	"fortio.org/safecast"

	"runakit/internal/source"
)

// Position is a 0-based line and UTF-16 character offset, the unit editor hosts use.
type Position struct {
	Line      uint32 `json:"line" msgpack:"line"`
	Character uint32 `json:"character" msgpack:"character"`
}

// Range is a half-open range of positions.
type Range struct {
	Start Position `json:"start" msgpack:"start"`
	End   Position `json:"end" msgpack:"end"`
}

// HostEdit is an edit in host coordinates.
type HostEdit struct {
	Range   Range  `json:"range" msgpack:"range"`
	NewText string `json:"newText" msgpack:"newText"`
}

// ToHost converts byte-span edits into host positions using doc for line text.
func ToHost(doc *source.Document, edits []Edit) ([]HostEdit, error) {
	out := make([]HostEdit, 0, len(edits))
	for _, e := range edits {
		text := doc.Line(e.Line).Text
		start, err := positionFor(e.Line, text, e.Span.Start)
		if err != nil {
			return nil, err
		}
		end, err := positionFor(e.Line, text, e.Span.End)
		if err != nil {
			return nil, err
		}
		out = append(out, HostEdit{Range: Range{Start: start, End: end}, NewText: e.NewText})
	}
	return out, nil
}

func positionFor(line int, text string, byteOff int) (Position, error) {
	l, err := safecast.Conv[uint32](line)
	if err != nil {
		return Position{}, fmt.Errorf("line %d: %w", line, err)
	}
	c, err := safecast.Conv[uint32](UTF16Column(text, byteOff))
	if err != nil {
		return Position{}, fmt.Errorf("line %d column: %w", line, err)
	}
	return Position{Line: l, Character: c}, nil
}

// UTF16Column counts UTF-16 code units in text[:byteOff].
func UTF16Column(text string, byteOff int) int {
	if byteOff > len(text) {
		byteOff = len(text)
	}
	units := 0
	for i := 0; i < byteOff; {
		r, size := utf8.DecodeRuneInString(text[i:])
		if r > 0xFFFF {
			units += 2
		} else {
			units++
		}
		i += size
	}
	return units
}

// ByteOffset converts a rune column into a byte offset within text, clamped to its length.
func ByteOffset(text string, runeCol int) int {
	if runeCol <= 0 {
		return 0
	}
	n := 0
	for i := range text {
		if n == runeCol {
			return i
		}
		n++
	}
	return len(text)
}
