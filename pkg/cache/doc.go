// Package cache provides a TTL-bounded in-memory cache for scan verdicts.
//
// Repeated scans of identical text with the same scanner roster are common
// in retry-heavy clients, so verdicts are cached under a 64-bit xxhash of
// the phase, the roster, and the text. Entries expire after the configured
// TTL and the cache evicts the oldest entries once it reaches its size
// bound.
//
// The cache stores combined results only. Per-request vault state is never
// cached; a hit bypasses scanner execution entirely.
package cache
