// Package metrics provides Prometheus metric collection for the sentra
// service.
//
// The Collector owns a private registry and pre-registered metric vectors
// covering scan execution, batch processing, and the result cache. Every
// recording method is a no-op when metrics are disabled, so call sites never
// branch on configuration.
//
// Exported metrics (all prefixed with the configured namespace):
//   - scans_total{phase, outcome}
//   - scan_duration_seconds{phase}
//   - scan_risk_score{phase}
//   - scanner_executions_total{scanner, outcome}
//   - scanner_duration_seconds{scanner}
//   - batch_items_total{outcome}
//   - batch_in_flight
//   - cache_hits_total / cache_misses_total
package metrics
