// Package pipeline executes an ordered list of scanners against one input.
//
// # Execution modes
//
// Sequential mode runs scanners one after another in registration order.
// Each scanner receives the current sanitized text, so later scanners see
// the redactions of earlier ones. When a short-circuit threshold is set and
// the running combined risk score reaches it, remaining scanners are never
// launched: once a request is already over the rejection threshold, further
// detectors cannot change the accept/reject outcome.
//
// Parallel mode launches every scanner concurrently against the same
// original input. Scanners always run to completion once launched; there is
// no mid-flight cancellation, which keeps the combine semantics
// deterministic. Results are reassembled into registration order before
// combining, so entity and risk factor ordering is stable regardless of
// completion order.
//
// In both modes a scanner error aborts the whole run (fail-fast). Batch
// isolation across independent inputs belongs to package batch.
package pipeline
