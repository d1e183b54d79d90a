package fix

import (
	"errors"
	"fmt"
	"sort"

	"runakit/internal/diag"
	"runakit/internal/edit"
	"runakit/internal/source"
)

// ErrNoFixes is returned when no fixes were applied.
var ErrNoFixes = errors.New("no applicable fixes found")

// ApplyMode determines selection strategy for fixes.
type ApplyMode uint8

const (
	ApplyModeOnce ApplyMode = iota
	ApplyModeAll
	ApplyModeID
)

// ApplyOptions configures how fixes are selected.
type ApplyOptions struct {
	Mode     ApplyMode
	TargetID string
	// AllowHeuristics lets ApplyModeAll pick SafeWithHeuristics fixes too.
	AllowHeuristics bool
}

// AppliedFix records a successfully applied fix.
type AppliedFix struct {
	ID            string
	Title         string
	Code          diag.Code
	Message       string
	Applicability diag.FixApplicability
	Line          int
	EditCount     int
}

// SkippedFix captures a skipped fix with a reason.
type SkippedFix struct {
	ID     string
	Title  string
	Reason string
}

// ApplyResult aggregates applied and skipped fixes plus the rewritten snapshot.
type ApplyResult struct {
	Applied   []AppliedFix
	Skipped   []SkippedFix
	EditCount int
	Document  *source.Document
}

type candidate struct {
	diag  diag.Diagnostic
	fix   diag.Fix
	order int
}

// Apply collects fixes from diagnostics on doc, selects a subset according to
// opts and applies them as one batch. doc itself is never modified.
func Apply(doc *source.Document, diagnostics []diag.Diagnostic, opts ApplyOptions) (*ApplyResult, error) {
	result := &ApplyResult{
		Applied:  make([]AppliedFix, 0),
		Skipped:  make([]SkippedFix, 0),
		Document: doc,
	}
	if doc == nil {
		return result, fmt.Errorf("fix: document is nil")
	}

	candidates, buildSkips := gatherCandidates(diagnostics)
	result.Skipped = append(result.Skipped, buildSkips...)
	if len(candidates) == 0 {
		return result, ErrNoFixes
	}

	sortCandidates(candidates)

	selected, selectionSkips := selectCandidates(candidates, opts)
	result.Skipped = append(result.Skipped, selectionSkips...)
	if len(selected) == 0 {
		return result, ErrNoFixes
	}

	applied, staged, conflictSkips := stageCandidates(doc, selected)
	result.Skipped = append(result.Skipped, conflictSkips...)
	if len(applied) == 0 {
		return result, ErrNoFixes
	}

	next, err := edit.Apply(doc, staged)
	if err != nil {
		return result, fmt.Errorf("fix: %w", err)
	}
	result.Applied = applied
	result.EditCount = len(staged)
	result.Document = next
	return result, nil
}

// gatherCandidates flattens diagnostics into candidates. Fixes without edits
// and fixes whose ID was already seen are reported as skipped. Empty IDs are
// synthesised from the code and location.
func gatherCandidates(diagnostics []diag.Diagnostic) ([]candidate, []SkippedFix) {
	cands := make([]candidate, 0)
	skips := make([]SkippedFix, 0)
	seen := make(map[string]bool)

	order := 0
	for _, d := range diagnostics {
		for idx, f := range d.Fixes {
			if len(f.Edits) == 0 {
				skips = append(skips, SkippedFix{ID: f.ID, Title: f.Title, Reason: "fix has no edits"})
				continue
			}
			if f.ID == "" {
				f.ID = fmt.Sprintf("%s-%d-%d-%d", d.Code.ID(), d.Line+1, d.Span.Start, idx)
			}
			if seen[f.ID] {
				skips = append(skips, SkippedFix{ID: f.ID, Title: f.Title, Reason: "duplicate fix id"})
				continue
			}
			seen[f.ID] = true
			cands = append(cands, candidate{diag: d, fix: f, order: order})
			order++
		}
	}
	return cands, skips
}

// sortCandidates orders by line, span start, span end, insertion order, code,
// preference (preferred first), ID and title.
func sortCandidates(candidates []candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		di, dj := candidates[i].diag, candidates[j].diag
		if di.Line != dj.Line {
			return di.Line < dj.Line
		}
		if di.Span.Start != dj.Span.Start {
			return di.Span.Start < dj.Span.Start
		}
		if di.Span.End != dj.Span.End {
			return di.Span.End < dj.Span.End
		}
		if candidates[i].order != candidates[j].order {
			return candidates[i].order < candidates[j].order
		}
		if di.Code != dj.Code {
			return di.Code < dj.Code
		}
		if candidates[i].fix.IsPreferred != candidates[j].fix.IsPreferred {
			return candidates[i].fix.IsPreferred
		}
		if candidates[i].fix.ID != candidates[j].fix.ID {
			return candidates[i].fix.ID < candidates[j].fix.ID
		}
		return candidates[i].fix.Title < candidates[j].fix.Title
	})
}

func selectCandidates(candidates []candidate, opts ApplyOptions) ([]candidate, []SkippedFix) {
	switch opts.Mode {
	case ApplyModeID:
		for _, cand := range candidates {
			if cand.fix.ID == opts.TargetID {
				return []candidate{cand}, nil
			}
		}
		return nil, []SkippedFix{{ID: opts.TargetID, Reason: "fix id not found"}}
	case ApplyModeAll:
		selected := make([]candidate, 0, len(candidates))
		skipped := make([]SkippedFix, 0)
		for _, cand := range candidates {
			switch {
			case cand.fix.Applicability == diag.FixApplicabilityAlwaysSafe:
				selected = append(selected, cand)
			case cand.fix.Applicability == diag.FixApplicabilitySafeWithHeuristics && opts.AllowHeuristics:
				selected = append(selected, cand)
			default:
				skipped = append(skipped, SkippedFix{
					ID:     cand.fix.ID,
					Title:  cand.fix.Title,
					Reason: fmt.Sprintf("applicability is %s", cand.fix.Applicability),
				})
			}
		}
		return selected, skipped
	case ApplyModeOnce:
		// первый безопасный, иначе первый вообще
		for _, cand := range candidates {
			if cand.fix.Applicability == diag.FixApplicabilityAlwaysSafe {
				return []candidate{cand}, nil
			}
		}
		return []candidate{candidates[0]}, nil
	default:
		return nil, nil
	}
}

// stageCandidates accepts candidates in order, skipping any whose edits overlap
// edits that were already accepted.
func stageCandidates(doc *source.Document, selected []candidate) ([]AppliedFix, []edit.Edit, []SkippedFix) {
	applied := make([]AppliedFix, 0, len(selected))
	skipped := make([]SkippedFix, 0)
	var staged []edit.Edit

	for _, cand := range selected {
		if reason := conflictReason(doc, staged, cand.fix.Edits); reason != "" {
			skipped = append(skipped, SkippedFix{ID: cand.fix.ID, Title: cand.fix.Title, Reason: reason})
			continue
		}
		staged = append(staged, cand.fix.Edits...)
		applied = append(applied, AppliedFix{
			ID:            cand.fix.ID,
			Title:         cand.fix.Title,
			Code:          cand.diag.Code,
			Message:       cand.diag.Message,
			Applicability: cand.fix.Applicability,
			Line:          cand.diag.Line,
			EditCount:     len(cand.fix.Edits),
		})
	}
	edit.Sort(staged)
	return applied, staged, skipped
}

func conflictReason(doc *source.Document, existing, edits []edit.Edit) string {
	for i, e := range edits {
		if e.Line < 0 || e.Line >= doc.LineCount() || e.Span.End > len(doc.Line(e.Line).Text) {
			return "edit span out of range"
		}
		for _, prev := range existing {
			if edit.Overlaps(prev, e) {
				return fmt.Sprintf("conflicts with previously applied edits on line %d", e.Line+1)
			}
		}
		for _, other := range edits[:i] {
			if edit.Overlaps(other, e) {
				return "fix contains overlapping edits"
			}
		}
	}
	return ""
}
