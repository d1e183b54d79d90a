package format

import (
	"regexp"
	"strings"
	"unicode"

	"runakit/internal/edit"
	"runakit/internal/source"
)

var (
	dedentPattern = regexp.MustCompile(`^(Otherwise|Catch|Finally)\b`)
	// Otherwise opens a block as well; Otherwise if stays listed for readability.
	blockPattern = regexp.MustCompile(`^(If|Otherwise if|Otherwise|Unless|When|Match|For|While|Loop|Try|Catch|Finally|Process|Type)\b.*:$`)
)

// walk visits every non-blank line with the nesting level it belongs to.
// The level is one integer, reset per call; it never goes below zero.
func walk(doc *source.Document, visit func(line source.Line, level int)) {
	level := 0
	for i := 0; i < doc.LineCount(); i++ {
		line := doc.Line(i)
		trimmed := strings.TrimSpace(line.Text)
		if trimmed == "" {
			continue
		}
		if dedentPattern.MatchString(trimmed) {
			level = max(0, level-1)
		}
		visit(line, level)
		// вложенность растёт только со следующей строки
		if blockPattern.MatchString(trimmed) {
			level++
		}
	}
}

// Indent computes the edits that make every non-blank line start with
// level*IndentSize spaces. Lines already at the expected indentation produce no edit.
func Indent(doc *source.Document, opt Options) []edit.Edit {
	opt = opt.withDefaults()
	var edits []edit.Edit
	walk(doc, func(line source.Line, level int) {
		expected := strings.Repeat(" ", level*opt.IndentSize)
		current := leadingSpace(line.Text)
		if current != expected {
			edits = append(edits, edit.Replace(line.Index, 0, len(current), expected))
		}
	})
	return edits
}

// Levels returns the nesting level assigned to each line; blank lines get -1.
func Levels(doc *source.Document) []int {
	out := make([]int, doc.LineCount())
	for i := range out {
		out[i] = -1
	}
	walk(doc, func(line source.Line, level int) {
		out[line.Index] = level
	})
	return out
}

// leadingSpace returns the whitespace run a line starts with, Unicode spaces
// such as NBSP included.
func leadingSpace(text string) string {
	return text[:len(text)-len(strings.TrimLeftFunc(text, unicode.IsSpace))]
}
