// Package diag defines the diagnostic model shared by lint, fix and the CLI.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity – tri-level enum (Info, Warning, Error).
//   - Code – compact numeric identifier with a stable string form.
//   - Message – short and actionable.
//   - Line/Span – the primary location as a 0-based line and a byte span in it.
//   - Fixes – optional Fix records with concrete edits.
//
// Fix carries a Title, an Applicability (AlwaysSafe, SafeWithHeuristics,
// ManualReview), an optional ID and the edits. Fixes are data only; internal/fix
// selects and applies them.
//
// Package diag does no formatting or IO. Rendering lives in internal/diagfmt.
package diag
