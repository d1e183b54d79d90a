// Package edit describes line-level text replacements and applies them as one batch.
package edit

import (
	"errors"
	"fmt"
	"sort"

	"runakit/internal/source"
)

var (
	// ErrConflict is returned when two edits on the same line overlap.
	ErrConflict = errors.New("overlapping edits")
	// ErrOutOfRange is returned when an edit points past the end of a line or document.
	ErrOutOfRange = errors.New("edit out of range")
)

// Span is a half-open byte range [Start, End) inside one line.
type Span struct {
	Start int
	End   int
}

// Len returns the span length in bytes.
func (s Span) Len() int { return s.End - s.Start }

// Empty reports whether the span covers no bytes.
func (s Span) Empty() bool { return s.Start == s.End }

// Edit replaces Span on line Line with NewText.
type Edit struct {
	Line    int
	Span    Span
	NewText string
}

// Replace creates an edit for an explicit span.
func Replace(line, start, end int, text string) Edit {
	return Edit{Line: line, Span: Span{Start: start, End: end}, NewText: text}
}

// ReplaceLine creates an edit that swaps the whole text of l.
func ReplaceLine(l source.Line, text string) Edit {
	return Replace(l.Index, 0, len(l.Text), text)
}

func (e Edit) String() string {
	return fmt.Sprintf("%d:%d-%d %q", e.Line, e.Span.Start, e.Span.End, e.NewText)
}

// Overlaps reports whether two edits touch the same bytes of the same line.
// Two insertions at one point never overlap; an insertion conflicts with a
// non-empty span only when it falls strictly inside it.
func Overlaps(a, b Edit) bool {
	if a.Line != b.Line {
		return false
	}
	aStart, aEnd := a.Span.Start, a.Span.End
	bStart, bEnd := b.Span.Start, b.Span.End

	if aStart == aEnd && bStart == bEnd {
		return false
	}
	if aStart == aEnd {
		return bStart <= aStart && aStart < bEnd
	}
	if bStart == bEnd {
		return aStart <= bStart && bStart < aEnd
	}
	return aStart < bEnd && bStart < aEnd
}

// Apply applies the whole batch to doc and returns a new snapshot.
// Either every edit is applied or none is.
func Apply(doc *source.Document, edits []Edit) (*source.Document, error) {
	if len(edits) == 0 {
		return doc, nil
	}
	byLine := make(map[int][]Edit)
	for _, e := range edits {
		if e.Line < 0 || e.Line >= doc.LineCount() {
			return nil, fmt.Errorf("%w: line %d", ErrOutOfRange, e.Line)
		}
		byLine[e.Line] = append(byLine[e.Line], e)
	}

	texts := doc.Texts()
	for line, group := range byLine {
		out, err := applyLine(texts[line], group)
		if err != nil {
			return nil, err
		}
		texts[line] = out
	}
	return doc.WithTexts(texts), nil
}

// applyLine applies edits right to left so earlier offsets stay valid.
func applyLine(text string, edits []Edit) (string, error) {
	sorted := append([]Edit(nil), edits...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Span.Start == sorted[j].Span.Start {
			return sorted[i].Span.End > sorted[j].Span.End
		}
		return sorted[i].Span.Start > sorted[j].Span.Start
	})
	for i := 1; i < len(sorted); i++ {
		if Overlaps(sorted[i-1], sorted[i]) {
			return "", fmt.Errorf("%w: %s and %s", ErrConflict, sorted[i], sorted[i-1])
		}
	}
	for _, e := range sorted {
		if e.Span.Start < 0 || e.Span.End < e.Span.Start || e.Span.End > len(text) {
			return "", fmt.Errorf("%w: %s on line of length %d", ErrOutOfRange, e, len(text))
		}
		text = text[:e.Span.Start] + e.NewText + text[e.Span.End:]
	}
	return text, nil
}

// Sort orders edits by line, then start offset.
func Sort(edits []Edit) {
	sort.SliceStable(edits, func(i, j int) bool {
		if edits[i].Line != edits[j].Line {
			return edits[i].Line < edits[j].Line
		}
		return edits[i].Span.Start < edits[j].Span.Start
	})
}
