package config

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/robfig/cron/v3"
)

// FieldError describes a single invalid configuration field.
type FieldError struct {
	// Field is the dotted YAML path, e.g. "scan.reject_threshold".
	Field string

	// Message explains what is wrong with the value.
	Message string
}

// Error implements the error interface.
func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError aggregates all field errors found during validation so
// operators can fix the file in one pass.
type ValidationError struct {
	Errors []*FieldError
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return "configuration validation failed: " + e.Errors[0].Error()
	}
	msgs := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		msgs[i] = fe.Error()
	}
	return fmt.Sprintf("configuration validation failed (%d errors): %s",
		len(e.Errors), strings.Join(msgs, "; "))
}

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true,
}

var validLogFormats = map[string]bool{
	"json": true, "text": true,
}

var validAuditBackends = map[string]bool{
	"memory": true, "sqlite": true,
}

// metricNamespaceRe matches valid Prometheus namespace prefixes.
var metricNamespaceRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// Validate checks the configuration for errors. It collects every problem
// it finds and returns them as a single *ValidationError.
func (c *Config) Validate() error {
	var errs []*FieldError

	fail := func(field, format string, args ...any) {
		errs = append(errs, &FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	if c.Server.ListenAddress == "" {
		fail("server.listen_address", "must not be empty")
	}
	if c.Server.ReadTimeout < 0 {
		fail("server.read_timeout", "must not be negative")
	}
	if c.Server.WriteTimeout < 0 {
		fail("server.write_timeout", "must not be negative")
	}
	if c.Server.ShutdownTimeout < 0 {
		fail("server.shutdown_timeout", "must not be negative")
	}
	if c.Server.MaxBodyBytes < 0 {
		fail("server.max_body_bytes", "must not be negative")
	}

	if t := c.Scan.ShortCircuitThreshold; t < 0 || t > 1 {
		fail("scan.short_circuit_threshold", "must be between 0.0 and 1.0, got %g", t)
	}
	if t := c.Scan.RejectThreshold; t < 0 || t > 1 {
		fail("scan.reject_threshold", "must be between 0.0 and 1.0, got %g", t)
	}

	if c.Scan.Scanners.BanSubstrings.Enabled && len(c.Scan.Scanners.BanSubstrings.Substrings) == 0 {
		fail("scan.scanners.ban_substrings.substrings", "must not be empty when the scanner is enabled")
	}
	if c.Scan.Scanners.Regex.Enabled && len(c.Scan.Scanners.Regex.Patterns) == 0 {
		fail("scan.scanners.regex.patterns", "must not be empty when the scanner is enabled")
	}
	for i, p := range c.Scan.Scanners.Regex.Patterns {
		if p.Name == "" {
			fail(fmt.Sprintf("scan.scanners.regex.patterns[%d].name", i), "must not be empty")
		}
		if _, err := regexp.Compile(p.Expr); err != nil {
			fail(fmt.Sprintf("scan.scanners.regex.patterns[%d].expr", i), "invalid regular expression: %v", err)
		}
		if p.Score < 0 || p.Score > 1 {
			fail(fmt.Sprintf("scan.scanners.regex.patterns[%d].score", i), "must be between 0.0 and 1.0, got %g", p.Score)
		}
	}
	if c.Scan.Scanners.TokenLimit.Enabled && c.Scan.Scanners.TokenLimit.Limit <= 0 {
		fail("scan.scanners.token_limit.limit", "must be greater than 0, got %d", c.Scan.Scanners.TokenLimit.Limit)
	}

	if c.Batch.DefaultConcurrent < 1 {
		fail("batch.default_concurrent", "must be at least 1, got %d", c.Batch.DefaultConcurrent)
	}
	if c.Batch.MaxConcurrent < 1 {
		fail("batch.max_concurrent", "must be at least 1, got %d", c.Batch.MaxConcurrent)
	}
	if c.Batch.DefaultConcurrent > c.Batch.MaxConcurrent {
		fail("batch.default_concurrent", "must not exceed batch.max_concurrent (%d), got %d",
			c.Batch.MaxConcurrent, c.Batch.DefaultConcurrent)
	}
	if c.Batch.MaxItems < 1 {
		fail("batch.max_items", "must be at least 1, got %d", c.Batch.MaxItems)
	}

	if c.Cache.TTL < 0 {
		fail("cache.ttl", "must not be negative")
	}
	if c.Cache.MaxEntries < 1 {
		fail("cache.max_entries", "must be at least 1, got %d", c.Cache.MaxEntries)
	}

	if !validAuditBackends[c.Audit.Backend] {
		fail("audit.backend", "must be one of: memory, sqlite; got %q", c.Audit.Backend)
	}
	if c.Audit.Backend == "sqlite" && c.Audit.SQLitePath == "" {
		fail("audit.sqlite_path", "must not be empty for the sqlite backend")
	}
	if c.Audit.RetentionDays < 0 {
		fail("audit.retention_days", "must not be negative, got %d", c.Audit.RetentionDays)
	}
	if c.Audit.PruneSchedule != "" {
		if _, err := cron.ParseStandard(c.Audit.PruneSchedule); err != nil {
			fail("audit.prune_schedule", "invalid cron expression: %v", err)
		}
	}

	if !validLogLevels[c.Logging.Level] {
		fail("logging.level", "must be one of: debug, info, warn, error; got %q", c.Logging.Level)
	}
	if !validLogFormats[c.Logging.Format] {
		fail("logging.format", "must be one of: json, text; got %q", c.Logging.Format)
	}

	if c.Metrics.Namespace != "" && !metricNamespaceRe.MatchString(c.Metrics.Namespace) {
		fail("metrics.namespace", "must match %s, got %q", metricNamespaceRe.String(), c.Metrics.Namespace)
	}

	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}
