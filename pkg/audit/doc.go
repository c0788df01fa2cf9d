// Package audit records scan verdicts for compliance review.
//
// Every completed scan produces a Record: scan ID, phase, roster, verdict,
// risk score, entity count, and timing. Records never include the scanned
// text itself, only derived metadata, so the audit trail cannot leak the
// content it was protecting.
//
// # Storage
//
// Two Storage backends are provided:
//   - MemoryStorage: bounded ring for tests and ephemeral deployments
//   - SQLiteStorage: durable single-file store with WAL mode
//
// # Recording
//
// The Recorder writes asynchronously so scan latency never waits on
// storage. Records are buffered on a channel; when the buffer fills, new
// records are dropped and counted rather than blocking the scan path.
//
// # Retention
//
// The Pruner deletes records older than the retention period. A cron-based
// Scheduler runs it on the configured schedule (default daily at 03:00).
package audit
