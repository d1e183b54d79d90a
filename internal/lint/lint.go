// Package lint turns the two transformers into diagnostics with quick fixes.
package lint

import (
	"fmt"

	"runakit/internal/config"
	"runakit/internal/diag"
	"runakit/internal/edit"
	"runakit/internal/format"
	"runakit/internal/source"
	"runakit/internal/words"
)

// Check reports indentation and math-symbol findings for doc into bag.
// It returns false when the bag filled up before every finding was recorded.
func Check(doc *source.Document, settings config.Settings, bag *diag.Bag) bool {
	if !checkIndentation(doc, settings, bag) {
		return false
	}
	if settings.MathSymbolEnforcement() {
		return checkMathSymbols(doc, bag)
	}
	return true
}

func checkIndentation(doc *source.Document, settings config.Settings, bag *diag.Bag) bool {
	size := settings.IndentSize()
	for _, e := range format.Indent(doc, format.Options{IndentSize: size}) {
		msg := fmt.Sprintf("expected indentation of %d spaces, found %d", len(e.NewText), e.Span.Len())
		d := diag.NewWarning(diag.Indentation, doc.Path(), e.Line, e.Span, msg).WithFix(diag.Fix{
			ID:            fmt.Sprintf("indent-%d", e.Line+1),
			Title:         "Reindent line",
			Applicability: diag.FixApplicabilityAlwaysSafe,
			IsPreferred:   true,
			Edits:         []edit.Edit{e},
		})
		if !bag.Add(d) {
			return false
		}
	}
	return true
}

// checkMathSymbols reports every convertible symbol run separately. All runs
// on a line share the whole-line fix, so fix.Apply keeps only the first copy.
func checkMathSymbols(doc *source.Document, bag *diag.Bag) bool {
	for i := 0; i < doc.LineCount(); i++ {
		line := doc.Line(i)
		if !words.Convertible(line.Text) {
			continue
		}
		converted, changed := words.ConvertLine(line.Text)
		if !changed {
			continue
		}
		fix := diag.Fix{
			ID:            fmt.Sprintf("words-%d", line.Index+1),
			Title:         "Convert symbols to words",
			Applicability: diag.FixApplicabilitySafeWithHeuristics,
			Edits:         []edit.Edit{edit.ReplaceLine(line, converted)},
		}
		for _, m := range words.FindSymbols(line.Text) {
			if !m.Convertible() {
				continue
			}
			msg := fmt.Sprintf("math symbol %q should be written in natural language", m.Symbol)
			d := diag.NewWarning(diag.MathSymbol, doc.Path(), line.Index, m.Span, msg).WithFix(fix)
			if !bag.Add(d) {
				return false
			}
		}
	}
	return true
}
