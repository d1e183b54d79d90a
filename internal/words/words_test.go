package words

import (
	"strings"
	"testing"

	"runakit/internal/edit"
	"runakit/internal/source"
)

func TestConvertLine(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"sum and product", "Let total be a + b * c", "Let total be a  plus  b  multiplied by  c"},
		{"longest match ge", "a >= b", "a  is greater than or equal to  b"},
		{"longest match le", "a<=b", "a is less than or equal to b"},
		{"equality", "If a == b:", "If a  equals  b:"},
		{"inequality", "If a != b:", "If a  does not equal  b:"},
		{"division and modulo", "x / y % z", "x  divided by  y  modulo  z"},
		{"comparison", "a > b < c", "a  is greater than  b  is less than  c"},
		{"minus", "Set n to n - 1", "Set n to n  minus  1"},
		{"even quotes", `Display "a" + "b"`, `Display "a"  plus  "b"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, changed := ConvertLine(tt.in)
			if !changed {
				t.Fatalf("expected a change for %q", tt.in)
			}
			if got != tt.want {
				t.Fatalf("ConvertLine(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestConvertNeverSplitsTwoCharOperators(t *testing.T) {
	for _, in := range []string{"a >= b", "a <= b", "a == b", "a != b"} {
		got, _ := ConvertLine(in)
		if strings.Contains(got, "=") || strings.Contains(got, "!") {
			t.Fatalf("partial substitution in %q -> %q", in, got)
		}
	}
}

func TestConvertSkipsComments(t *testing.T) {
	for _, in := range []string{"Note: a + b", "    Note: x >= y"} {
		if got, changed := ConvertLine(in); changed || got != in {
			t.Fatalf("comment line changed: %q -> %q", in, got)
		}
	}
}

func TestConvertSkipsOddQuotes(t *testing.T) {
	for _, in := range []string{`Display "a + b`, `Display 'it's' + 1`, `x + "y" + "`} {
		if got, changed := ConvertLine(in); changed || got != in {
			t.Fatalf("string-context line changed: %q -> %q", in, got)
		}
	}
}

func TestConvertNoSymbols(t *testing.T) {
	if _, changed := ConvertLine("Let total be a plus b"); changed {
		t.Fatalf("expected no change")
	}
	// A lone "=" or "!" has no phrase.
	if _, changed := ConvertLine("Let a = b!"); changed {
		t.Fatalf("expected no change for unmapped symbols")
	}
}

func TestConvertDocument(t *testing.T) {
	doc := source.FromLines("a.runa",
		"Note: a + b",
		"Let c be a + b",
		"Display \"total\"",
		"Display 'x - y",
		"If c >= 10:",
	)
	res := Convert(doc)
	if res.ChangedLines != 2 || len(res.Edits) != 2 {
		t.Fatalf("expected 2 changed lines, got %d (%v)", res.ChangedLines, res.Edits)
	}
	if res.Edits[0].Line != 1 || res.Edits[1].Line != 4 {
		t.Fatalf("unexpected edit lines %v", res.Edits)
	}
	if res.Edits[0].Span != (edit.Span{Start: 0, End: len("Let c be a + b")}) {
		t.Fatalf("expected whole-line span, got %v", res.Edits[0].Span)
	}

	next, err := edit.Apply(doc, res.Edits)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	for _, i := range []int{0, 2, 3} {
		if next.Line(i).Text != doc.Line(i).Text {
			t.Fatalf("line %d changed: %q", i, next.Line(i).Text)
		}
	}
	if got := next.Line(4).Text; got != "If c  is greater than or equal to  10:" {
		t.Fatalf("unexpected line 4: %q", got)
	}
}

func TestFindSymbols(t *testing.T) {
	matches := FindSymbols("a += b = c")
	if len(matches) != 2 {
		t.Fatalf("expected 2 runs, got %v", matches)
	}
	if matches[0].Symbol != "+=" || matches[0].Span != (edit.Span{Start: 2, End: 4}) {
		t.Fatalf("unexpected first run %+v", matches[0])
	}
	if !matches[0].Convertible() {
		t.Fatalf("%q contains + and should be convertible", matches[0].Symbol)
	}
	if matches[1].Convertible() {
		t.Fatalf("lone = is not convertible")
	}
}

func TestPhrase(t *testing.T) {
	if p, ok := Phrase("%"); !ok || p != "modulo" {
		t.Fatalf("Phrase(%%) = %q, %v", p, ok)
	}
	if _, ok := Phrase("="); ok {
		t.Fatalf("= must not have a phrase")
	}
}
