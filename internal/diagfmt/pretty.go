package diagfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"runakit/internal/diag"
	"runakit/internal/edit"
	"runakit/internal/source"
)

const tabWidth = 4

type palette struct {
	err, warn, info, code, path, caret, gutter, add, del *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgBlue, color.Bold),
		code:   color.New(color.Bold),
		path:   color.New(color.Bold),
		caret:  color.New(color.FgGreen, color.Bold),
		gutter: color.New(color.FgBlue),
		add:    color.New(color.FgGreen),
		del:    color.New(color.FgRed),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.code, p.path, p.caret, p.gutter, p.add, p.del} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем строку с подчёркиванием ^~~~ по Span, затем fixes.
func Pretty(w io.Writer, bag *diag.Bag, docs Documents, opts PrettyOpts) {
	p := newPalette(opts.Color)
	for _, d := range bag.Items() {
		doc := docs.lookup(d.Path)
		path := formatPath(d.Path, opts.PathMode, opts.BaseDir)
		col := d.Span.Start + 1
		if doc != nil {
			col = runeColumn(doc.Line(d.Line).Text, d.Span.Start) + 1
		}
		fmt.Fprintf(w, "%s: %s %s: %s\n",
			p.path.Sprintf("%s:%d:%d", path, d.Line+1, col),
			p.severity(d.Severity).Sprint(d.Severity.String()),
			p.code.Sprint(d.Code.ID()),
			d.Message,
		)
		if doc != nil {
			writeSnippet(w, p, doc, d, opts.Context)
		}
		if opts.ShowFixes {
			writeFixes(w, p, doc, d, opts.ShowPreview)
		}
	}
}

func writeSnippet(w io.Writer, p palette, doc *source.Document, d diag.Diagnostic, context int) {
	if d.Line < 0 || d.Line >= doc.LineCount() {
		return
	}
	first := max(0, d.Line-context)
	last := min(doc.LineCount()-1, d.Line+context)
	gutterWidth := len(strconv.Itoa(last + 1))

	for i := first; i <= last; i++ {
		text := doc.Line(i).Text
		fmt.Fprintf(w, " %s %s\n", p.gutter.Sprintf("%*d |", gutterWidth, i+1), expandTabs(text))
		if i != d.Line {
			continue
		}
		start := min(max(d.Span.Start, 0), len(text))
		end := min(max(d.Span.End, start), len(text))
		pad := runewidth.StringWidth(expandTabs(text[:start]))
		width := runewidth.StringWidth(expandTabs(text[start:end]))
		marker := "^"
		if width > 1 {
			marker += strings.Repeat("~", width-1)
		}
		fmt.Fprintf(w, " %s %s%s\n", p.gutter.Sprintf("%*s |", gutterWidth, ""), strings.Repeat(" ", pad), p.caret.Sprint(marker))
	}
}

func writeFixes(w io.Writer, p palette, doc *source.Document, d diag.Diagnostic, preview bool) {
	for i, f := range d.Fixes {
		meta := []string{f.Applicability.String()}
		if f.ID != "" {
			meta = append(meta, "id="+f.ID)
		}
		if f.IsPreferred {
			meta = append(meta, "preferred")
		}
		fmt.Fprintf(w, "  fix #%d: %s (%s)\n", i+1, f.Title, strings.Join(meta, ", "))
		for _, e := range f.Edits {
			fmt.Fprintf(w, "    edit %d:%d-%d apply=%q\n", e.Line+1, e.Span.Start+1, e.Span.End+1, e.NewText)
		}
		if !preview || doc == nil {
			continue
		}
		before, after, ok := fixPreview(doc, f.Edits)
		if !ok {
			continue
		}
		fmt.Fprintln(w, "    preview:")
		for _, line := range before {
			fmt.Fprintf(w, "      %s\n", p.del.Sprint("- "+expandTabs(line)))
		}
		for _, line := range after {
			fmt.Fprintf(w, "      %s\n", p.add.Sprint("+ "+expandTabs(line)))
		}
	}
}

// fixPreview returns the touched lines before and after applying edits.
func fixPreview(doc *source.Document, edits []edit.Edit) (before, after []string, ok bool) {
	next, err := edit.Apply(doc, edits)
	if err != nil {
		return nil, nil, false
	}
	seen := make(map[int]bool, len(edits))
	for _, e := range edits {
		if seen[e.Line] {
			continue
		}
		seen[e.Line] = true
		before = append(before, doc.Line(e.Line).Text)
		after = append(after, next.Line(e.Line).Text)
	}
	return before, after, true
}

func runeColumn(text string, byteOff int) int {
	return utf8.RuneCountInString(text[:min(max(byteOff, 0), len(text))])
}

func expandTabs(s string) string {
	if !strings.Contains(s, "\t") {
		return s
	}
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabWidth))
}
