package diag

import (
	"fmt"

	"runakit/internal/edit"
)

// FixApplicability expresses how confident a fix is.
type FixApplicability uint8

const (
	FixApplicabilityAlwaysSafe FixApplicability = iota
	FixApplicabilitySafeWithHeuristics
	FixApplicabilityManualReview
)

func (a FixApplicability) String() string {
	switch a {
	case FixApplicabilityAlwaysSafe:
		return "always-safe"
	case FixApplicabilitySafeWithHeuristics:
		return "safe-with-heuristics"
	case FixApplicabilityManualReview:
		return "manual-review"
	}
	return "unknown"
}

// Fix is a structured correction.
type Fix struct {
	ID            string
	Title         string
	Applicability FixApplicability
	IsPreferred   bool
	Edits         []edit.Edit
}

// Diagnostic is one finding in one document.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Path     string
	Line     int       // 0-based
	Span     edit.Span // bytes within Line
	Fixes    []Fix
}

// New builds a diagnostic without fixes.
func New(sev Severity, code Code, path string, line int, span edit.Span, msg string) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Message:  msg,
		Path:     path,
		Line:     line,
		Span:     span,
	}
}

// NewWarning is New with SevWarning.
func NewWarning(code Code, path string, line int, span edit.Span, msg string) Diagnostic {
	return New(SevWarning, code, path, line, span, msg)
}

// WithFix returns a copy with an additional fix.
func (d Diagnostic) WithFix(fix Fix) Diagnostic {
	d.Fixes = append(append([]Fix(nil), d.Fixes...), fix)
	return d
}

// Location renders "path:line:col" with 1-based line and byte column.
func (d Diagnostic) Location() string {
	return fmt.Sprintf("%s:%d:%d", d.Path, d.Line+1, d.Span.Start+1)
}
