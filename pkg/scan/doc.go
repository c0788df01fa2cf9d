// Package scan defines the scanner abstraction and the scan result model.
//
// # Overview
//
// A Scanner is the unit of detection logic: pattern matchers, statistical
// checks, and ML-backed classifiers all implement the same small interface
// so heterogeneous detectors can be held in one registry and orchestrated
// uniformly by the pipeline.
//
// A Result is the verdict produced by one scanner invocation. Results are
// value objects: builder-style With* methods extend a result, and Combine
// folds several results into one using a fixed algebra:
//
//   - IsValid: logical AND (any failing scanner fails the whole)
//   - RiskScore: MAX (worst case dominates, never averaged)
//   - Entities and RiskFactors: concatenated in scanner execution order
//   - Metadata: shallow merge, later entries win
//
// # Registry
//
// The Registry holds scanners in registration order, which is significant:
// it is the execution order in sequential pipeline mode and the tie-break
// order when combining parallel results. Requesting an unregistered scanner
// by name is a hard error, distinct from an empty roster.
package scan
