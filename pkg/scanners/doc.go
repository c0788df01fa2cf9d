// Package scanners provides the built-in pattern-based detectors.
//
// Every scanner here implements scan.Scanner and is registered by name with
// the scanner registry. The set is intentionally limited to deterministic
// pattern and length checks; ML-backed classification is an external
// concern consumed through the same interface.
//
// Built-in scanners:
//
//   - ban_substrings: blocks configured substrings, optional redaction
//   - regex: configurable deny patterns with per-pattern redaction
//   - secrets: API keys, tokens, and private key material
//   - token_limit: approximate token budget guard
package scanners
