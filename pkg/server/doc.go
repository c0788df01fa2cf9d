// Package server provides the HTTP API for the sentra scanning service.
//
// # Routes
//
//	POST /v1/scan/prompt  scan text headed into a model
//	POST /v1/scan/output  scan text produced by a model
//	POST /v1/scan/batch   scan many inputs with bounded concurrency
//	GET  /v1/scanners     list registered scanners
//	GET  /healthz         liveness probe
//	GET  /metrics         Prometheus exposition (when enabled)
//
// # Status codes
//
// Validation failures (empty input, malformed JSON, out-of-range
// concurrency) return 422. Requesting an unknown scanner returns 404.
// Scanning with an empty registry returns 400. A batch request returns 200
// whenever the batch itself ran; per-item failures are reported inside the
// response body.
package server
