// Package trace records where the analysis spends its time.
//
// Spans mark the driver batch, each pass and each unit handled by a worker.
// A Tracer travels through the pipeline in a context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	ctx, span := trace.Child(ctx, trace.ScopePass, "parse")
//	defer span.End("")
//
// Levels select how much is emitted:
//
//   - LevelOff: nothing
//   - LevelError: only failures reported with Point
//   - LevelPhase: driver and pass boundaries
//   - LevelDetail: per-unit spans as well
//   - LevelDebug: everything
//
// StreamTracer writes events as they happen and RingTracer keeps the most
// recent ones in memory; Tee combines them.
package trace
