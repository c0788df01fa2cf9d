// Package vault provides per-request shared state for scanners and hooks.
//
// # Overview
//
// A Vault is a typed key/value store scoped to a single inspection request.
// It is created once per top-level scan (prompt scan, output scan, or one
// batch item), shared by reference across every scanner and hook invoked for
// that request, and discarded when the request completes. It replaces global
// mutable state: anything a scanner wants to communicate to another scanner
// or to a hook goes through the vault.
//
// # Thread Safety
//
// All vault operations are safe for concurrent use from multiple goroutines.
// The vault provides per-key atomicity only: there is no cross-key
// transactional guarantee, and concurrent writers to the same key are a
// read-modify-write race the callers must avoid themselves.
//
// # Usage
//
//	v := vault.New()
//	if err := v.Set("secrets:count", 3); err != nil { ... }
//
//	var count int
//	ok, err := v.Get("secrets:count", &count)
package vault
