// Package words rewrites operator symbols into natural-language phrases.
package words

import (
	"regexp"
	"strings"

	"runakit/internal/edit"
	"runakit/internal/source"
)

// CommentMarker starts a line comment.
const CommentMarker = "Note:"

// Two-character operators come first: the regexp engine takes the leftmost
// alternative, so ">=" must be tried before ">".
var symbolPattern = regexp.MustCompile(`==|!=|>=|<=|\+|-|\*|/|%|>|<`)

// mathRunPattern matches any run of operator characters, convertible or not.
var mathRunPattern = regexp.MustCompile(`[+*/%<>=!-]+`)

var phrases = map[string]string{
	"+":  "plus",
	"-":  "minus",
	"*":  "multiplied by",
	"/":  "divided by",
	"%":  "modulo",
	"==": "equals",
	"!=": "does not equal",
	">":  "is greater than",
	"<":  "is less than",
	">=": "is greater than or equal to",
	"<=": "is less than or equal to",
}

// Phrase returns the natural-language phrase for a symbol, without padding.
func Phrase(symbol string) (string, bool) {
	p, ok := phrases[symbol]
	return p, ok
}

// IsComment reports whether the trimmed line starts with the comment marker.
func IsComment(text string) bool {
	return strings.HasPrefix(strings.TrimSpace(text), CommentMarker)
}

// InStringContext is a quote-parity check: an odd count of ' or " marks the
// whole line as string context. Escapes and multi-line strings are not tracked.
func InStringContext(text string) bool {
	return strings.Count(text, "'")%2 != 0 || strings.Count(text, `"`)%2 != 0
}

// Convertible reports whether ConvertLine would consider the line at all.
func Convertible(text string) bool {
	return !IsComment(text) && !InStringContext(text)
}

// ConvertLine replaces every operator symbol with its phrase padded by one space
// on each side. Surrounding whitespace is kept as is.
func ConvertLine(text string) (string, bool) {
	if !Convertible(text) {
		return text, false
	}
	out := symbolPattern.ReplaceAllStringFunc(text, func(sym string) string {
		return " " + phrases[sym] + " "
	})
	return out, out != text
}

// Result is the outcome of one pass over a document.
type Result struct {
	Edits        []edit.Edit
	ChangedLines int
}

// Convert produces one whole-line edit per changed line.
func Convert(doc *source.Document) Result {
	var res Result
	for i := 0; i < doc.LineCount(); i++ {
		line := doc.Line(i)
		out, changed := ConvertLine(line.Text)
		if !changed {
			continue
		}
		res.Edits = append(res.Edits, edit.ReplaceLine(line, out))
	}
	res.ChangedLines = len(res.Edits)
	return res
}

// SymbolMatch is a run of operator characters found in a line.
type SymbolMatch struct {
	Symbol string
	Span   edit.Span
}

// Convertible reports whether the run contains at least one symbol with a phrase.
func (m SymbolMatch) Convertible() bool {
	return symbolPattern.MatchString(m.Symbol)
}

// FindSymbols returns every run of operator characters in text, in order.
func FindSymbols(text string) []SymbolMatch {
	locs := mathRunPattern.FindAllStringIndex(text, -1)
	out := make([]SymbolMatch, 0, len(locs))
	for _, loc := range locs {
		out = append(out, SymbolMatch{
			Symbol: text[loc[0]:loc[1]],
			Span:   edit.Span{Start: loc[0], End: loc[1]},
		})
	}
	return out
}
