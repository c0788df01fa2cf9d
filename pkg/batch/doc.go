// Package batch runs many independent scan requests concurrently under a
// bounded concurrency limit.
//
// # Overview
//
// The executor holds a counting semaphore of MaxConcurrent permits. Each
// item acquires a permit before its pipeline run and releases it on
// completion, bounding peak parallel pipeline executions regardless of
// batch size.
//
// # Failure isolation
//
// A failing item (scanner error or panic) is converted into a per-item
// failure and never aborts sibling items. For every batch the invariant
// len(Items) + FailureCount == number of submitted inputs holds.
//
// # Ordering
//
// Results are collected in completion order, not submission order. Each
// item carries a correlation ID so callers can match results to inputs.
package batch
