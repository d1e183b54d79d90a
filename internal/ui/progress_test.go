package ui

import (
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"

	"runakit/internal/driver"
)

func TestProgressModelTracksEvents(t *testing.T) {
	events := make(chan driver.Event)
	m := NewProgressModel("fmt", []string{"a.runa", "b.runa"}, events).(*progressModel)

	m.applyEvent(driver.Event{File: "a.runa", Stage: driver.StageFmt, Status: driver.StatusWorking})
	if m.items[0].status != "formatting" {
		t.Fatalf("unexpected status %q", m.items[0].status)
	}
	m.applyEvent(driver.Event{File: "a.runa", Stage: driver.StageFmt, Status: driver.StatusDone})
	m.applyEvent(driver.Event{File: "a.runa", Stage: driver.StageFmt, Status: driver.StatusDone})
	m.applyEvent(driver.Event{File: "b.runa", Stage: driver.StageFmt, Status: driver.StatusError})
	m.applyEvent(driver.Event{File: "other.runa", Stage: driver.StageFmt, Status: driver.StatusDone})
	if m.finished != 2 || m.failed != 1 {
		t.Fatalf("unexpected counters finished=%d failed=%d", m.finished, m.failed)
	}

	view := m.View()
	if !strings.Contains(view, "fmt 2/2") || !strings.Contains(view, "1 failed") {
		t.Fatalf("unexpected view:\n%s", view)
	}
}

func TestProgressModelQuitsWhenEventsClose(t *testing.T) {
	events := make(chan driver.Event)
	close(events)
	m := NewProgressModel("check", []string{"a.runa"}, events).(*progressModel)
	if _, ok := m.listenForEvent()().(doneMsg); !ok {
		t.Fatalf("expected doneMsg on closed channel")
	}
	m.Update(doneMsg{})
	if !m.done || !strings.HasPrefix(stripANSI(m.View()), "done: ") {
		t.Fatalf("expected done view, got:\n%s", m.View())
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("src/very/long/path.runa", 10); got != "src/ver..." {
		t.Fatalf("unexpected truncation %q", got)
	}
	if got := truncate("日本語のファイル.runa", 9); got != "日本語..." || runewidth.StringWidth(got) != 9 {
		t.Fatalf("unexpected wide truncation %q", got)
	}
	if got := truncate("short", 10); got != "short" {
		t.Fatalf("unexpected %q", got)
	}
}

func stripANSI(s string) string {
	var b strings.Builder
	inEsc := false
	for _, r := range s {
		switch {
		case r == '\x1b':
			inEsc = true
		case inEsc && (r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z'):
			inEsc = false
		case !inEsc:
			b.WriteRune(r)
		}
	}
	return b.String()
}
