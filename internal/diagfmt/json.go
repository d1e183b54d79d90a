package diagfmt

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/vmihailenco/msgpack/v5"

	"runakit/internal/diag"
	"runakit/internal/edit"
)

// LocationJSON представляет местоположение в файле для JSON
type LocationJSON struct {
	File      string      `json:"file" msgpack:"file"`
	Line      int         `json:"line" msgpack:"line"` // 1-based
	StartByte int         `json:"start_byte" msgpack:"start_byte"`
	EndByte   int         `json:"end_byte" msgpack:"end_byte"`
	Range     *edit.Range `json:"range,omitempty" msgpack:"range,omitempty"`
}

// FixEditJSON представляет одно редактирование для JSON
type FixEditJSON struct {
	Location LocationJSON `json:"location" msgpack:"location"`
	NewText  string       `json:"new_text" msgpack:"new_text"`
	OldText  string       `json:"old_text,omitempty" msgpack:"old_text,omitempty"`
}

// FixJSON представляет предложение по исправлению для JSON
type FixJSON struct {
	ID            string        `json:"id,omitempty" msgpack:"id,omitempty"`
	Title         string        `json:"title" msgpack:"title"`
	Applicability string        `json:"applicability" msgpack:"applicability"`
	IsPreferred   bool          `json:"is_preferred,omitempty" msgpack:"is_preferred,omitempty"`
	Edits         []FixEditJSON `json:"edits,omitempty" msgpack:"edits,omitempty"`
}

// DiagnosticJSON представляет диагностику в JSON формате
type DiagnosticJSON struct {
	Severity string       `json:"severity" msgpack:"severity"`
	Code     string       `json:"code" msgpack:"code"`
	Title    string       `json:"title" msgpack:"title"`
	Message  string       `json:"message" msgpack:"message"`
	Location LocationJSON `json:"location" msgpack:"location"`
	Fixes    []FixJSON    `json:"fixes,omitempty" msgpack:"fixes,omitempty"`
}

// DiagnosticsOutput представляет корневую структуру JSON вывода
type DiagnosticsOutput struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics" msgpack:"diagnostics"`
	Count       int              `json:"count" msgpack:"count"`
}

func makeLocation(path string, line int, span edit.Span, docs Documents, opts JSONOpts) LocationJSON {
	loc := LocationJSON{
		File:      formatPath(path, opts.PathMode, opts.BaseDir),
		Line:      line + 1,
		StartByte: span.Start,
		EndByte:   span.End,
	}
	if !opts.IncludePositions {
		return loc
	}
	doc := docs.lookup(path)
	if doc == nil {
		return loc
	}
	host, err := edit.ToHost(doc, []edit.Edit{{Line: line, Span: span}})
	if err == nil && len(host) == 1 {
		r := host[0].Range
		loc.Range = &r
	}
	return loc
}

// BuildDiagnosticsOutput формирует структуру вывода без сериализации.
func BuildDiagnosticsOutput(bag *diag.Bag, docs Documents, opts JSONOpts) DiagnosticsOutput {
	items := bag.Items()
	maxItems := len(items)
	if opts.Max > 0 && opts.Max < maxItems {
		maxItems = opts.Max
	}

	diagnostics := make([]DiagnosticJSON, 0, maxItems)
	for _, d := range items[:maxItems] {
		dj := DiagnosticJSON{
			Severity: strings.ToLower(d.Severity.String()),
			Code:     d.Code.ID(),
			Title:    d.Code.Title(),
			Message:  d.Message,
			Location: makeLocation(d.Path, d.Line, d.Span, docs, opts),
		}
		if opts.IncludeFixes && len(d.Fixes) > 0 {
			dj.Fixes = make([]FixJSON, 0, len(d.Fixes))
			for _, f := range d.Fixes {
				fj := FixJSON{
					ID:            f.ID,
					Title:         f.Title,
					Applicability: f.Applicability.String(),
					IsPreferred:   f.IsPreferred,
					Edits:         make([]FixEditJSON, 0, len(f.Edits)),
				}
				for _, e := range f.Edits {
					ej := FixEditJSON{
						Location: makeLocation(d.Path, e.Line, e.Span, docs, opts),
						NewText:  e.NewText,
					}
					if doc := docs.lookup(d.Path); doc != nil {
						text := doc.Line(e.Line).Text
						if e.Span.End <= len(text) {
							ej.OldText = text[e.Span.Start:e.Span.End]
						}
					}
					fj.Edits = append(fj.Edits, ej)
				}
				dj.Fixes = append(dj.Fixes, fj)
			}
		}
		diagnostics = append(diagnostics, dj)
	}

	return DiagnosticsOutput{
		Diagnostics: diagnostics,
		Count:       len(diagnostics),
	}
}

// JSON форматирует диагностики в JSON формат.
func JSON(w io.Writer, bag *diag.Bag, docs Documents, opts JSONOpts) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(BuildDiagnosticsOutput(bag, docs, opts))
}

// Msgpack writes the same structure as JSON in MessagePack.
func Msgpack(w io.Writer, bag *diag.Bag, docs Documents, opts JSONOpts) error {
	return msgpack.NewEncoder(w).Encode(BuildDiagnosticsOutput(bag, docs, opts))
}
