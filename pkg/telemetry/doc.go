// Package telemetry groups the observability subpackages.
//
// Subpackages:
//   - logging: structured logging built on log/slog
//   - metrics: Prometheus metric collection and export
package telemetry
