// Package trace records what the driver does while it walks files.
//
// # Usage
//
//	runakit fmt --trace=- --trace-level=detail ./src
//
// # Tracers
//
//   - Nop: no-op tracer used when tracing is disabled
//   - StreamTracer: writes each event immediately (file or stderr)
//   - RingTracer: keeps the last N events in memory for a dump on failure
//   - MultiTracer: fans out to several tracers
//
// # Levels
//
//   - LevelOff: no tracing
//   - LevelError: ring buffer only, dumped when a command fails
//   - LevelPhase: driver and pass boundaries
//   - LevelDetail: per-file events
//   - LevelDebug: everything
//
// Tracers travel through context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span, ctx := trace.Start(ctx, trace.ScopePass, "format")
//	defer span.End("")
package trace
