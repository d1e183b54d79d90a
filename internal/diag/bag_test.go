package diag

import (
	"testing"

	"runakit/internal/edit"
)

func TestBagLimit(t *testing.T) {
	b := NewBag(1)
	if !b.Add(NewWarning(MathSymbol, "a.runa", 0, edit.Span{}, "x")) {
		t.Fatalf("first add should succeed")
	}
	if b.Add(NewWarning(MathSymbol, "a.runa", 1, edit.Span{}, "y")) {
		t.Fatalf("second add should hit the limit")
	}
	if !b.Full() || b.Len() != 1 {
		t.Fatalf("unexpected bag state: full=%v len=%d", b.Full(), b.Len())
	}
}

func TestBagSortAndDedup(t *testing.T) {
	b := NewBag(0)
	b.Add(NewWarning(Indentation, "b.runa", 0, edit.Span{}, "indent"))
	b.Add(NewWarning(MathSymbol, "a.runa", 2, edit.Span{Start: 4, End: 5}, "plus"))
	b.Add(NewWarning(MathSymbol, "a.runa", 0, edit.Span{Start: 1, End: 2}, "minus"))
	b.Add(NewWarning(MathSymbol, "a.runa", 0, edit.Span{Start: 1, End: 2}, "minus again"))
	b.Sort()
	b.Dedup()

	items := b.Items()
	if len(items) != 3 {
		t.Fatalf("expected 3 items after dedup, got %d", len(items))
	}
	if items[0].Path != "a.runa" || items[0].Line != 0 {
		t.Fatalf("unexpected first item %+v", items[0])
	}
	if items[2].Path != "b.runa" {
		t.Fatalf("unexpected last item %+v", items[2])
	}
	if !b.HasWarnings() || b.HasErrors() {
		t.Fatalf("expected warnings only")
	}
}

func TestCodeID(t *testing.T) {
	if MathSymbol.ID() != "W1001" {
		t.Fatalf("MathSymbol.ID() = %q", MathSymbol.ID())
	}
	if IOLoadFileError.ID() != "E9001" {
		t.Fatalf("IOLoadFileError.ID() = %q", IOLoadFileError.ID())
	}
	if Indentation.Title() == "" {
		t.Fatalf("expected a title")
	}
}

func TestLocationIsOneBased(t *testing.T) {
	d := NewWarning(MathSymbol, "a.runa", 2, edit.Span{Start: 4, End: 5}, "m")
	if got := d.Location(); got != "a.runa:3:5" {
		t.Fatalf("Location() = %q", got)
	}
}
