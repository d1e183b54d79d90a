package observ

import (
	"strings"
	"testing"
	"time"
)

func TestTimerReport(t *testing.T) {
	tm := NewTimer()
	outer := tm.Begin("fmt")
	inner := tm.Begin("collect")
	time.Sleep(2 * time.Millisecond)
	tm.End(inner, "3 files")
	tm.End(outer, "")
	tm.End(42, "ignored")

	report := tm.Report()
	if len(report.Phases) != 2 {
		t.Fatalf("expected 2 phases, got %d", len(report.Phases))
	}
	if report.Phases[1].Note != "3 files" {
		t.Fatalf("unexpected note %q", report.Phases[1].Note)
	}
	if report.TotalMS < report.Phases[1].DurationMS {
		t.Fatalf("total %.2f shorter than inner phase %.2f", report.TotalMS, report.Phases[1].DurationMS)
	}
	// nested phases must not be summed
	if report.TotalMS > report.Phases[0].DurationMS+report.Phases[1].DurationMS {
		t.Fatalf("total %.2f looks summed", report.TotalMS)
	}
	if !strings.Contains(tm.Summary(), "collect") {
		t.Fatalf("summary misses phase:\n%s", tm.Summary())
	}
}

func TestEmptyTimer(t *testing.T) {
	if r := NewTimer().Report(); r.TotalMS != 0 || len(r.Phases) != 0 {
		t.Fatalf("expected empty report, got %+v", r)
	}
}
