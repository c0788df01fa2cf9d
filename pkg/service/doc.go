// Package service wires scanners, hooks, caching, auditing, and metrics
// into the scan operations the API exposes.
//
// # Scan flow
//
// Every request gets a fresh vault, so scanner cross-talk is scoped to a
// single request. The flow for one scan is:
//
//  1. Resolve the scanner roster from the registry (allow-list or all
//     applicable for the phase).
//  2. Run pre-scan hooks. A rejection blocks the request without running
//     any scanner; an approval skips scanners and allows it.
//  3. Consult the result cache.
//  4. On a miss, execute the pipeline (sequential or parallel) and cache
//     the combined result.
//  5. Apply any pre-scan risk adjustment, then run post-scan hooks.
//  6. Record metrics and an audit record.
//
// Batch scans run the same flow per item under bounded concurrency.
package service
