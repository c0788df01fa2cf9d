package config

import "time"

// Config is the root configuration for the sentra service.
type Config struct {
	// Server configures the HTTP API listener.
	Server ServerConfig `yaml:"server"`

	// Scan configures pipeline execution and the built-in scanners.
	Scan ScanConfig `yaml:"scan"`

	// Batch bounds batch scan concurrency.
	Batch BatchConfig `yaml:"batch"`

	// Cache configures the scan result cache.
	Cache CacheConfig `yaml:"cache"`

	// Audit configures verdict recording and retention.
	Audit AuditConfig `yaml:"audit"`

	// Logging configures structured log output.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics configures Prometheus metric export.
	Metrics MetricsConfig `yaml:"metrics"`
}

// ServerConfig controls the HTTP API server.
type ServerConfig struct {
	// ListenAddress is the host:port the API listens on.
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading a request.
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration for writing a response.
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the keep-alive idle limit.
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// MaxBodyBytes caps the accepted request body size.
	MaxBodyBytes int64 `yaml:"max_body_bytes"`
}

// ScanConfig controls how scanners execute.
type ScanConfig struct {
	// ShortCircuitThreshold stops sequential execution once the running
	// maximum risk score reaches it. Zero disables short-circuiting.
	ShortCircuitThreshold float64 `yaml:"short_circuit_threshold"`

	// Parallel runs scanners concurrently instead of sequentially.
	// Short-circuiting does not apply in parallel mode.
	Parallel bool `yaml:"parallel"`

	// RejectThreshold marks combined results at or above it invalid.
	// Zero disables the threshold hook.
	RejectThreshold float64 `yaml:"reject_threshold"`

	// Scanners configures the built-in detectors.
	Scanners ScannersConfig `yaml:"scanners"`
}

// ScannersConfig holds per-scanner settings. A scanner is registered only
// when its Enabled flag is set.
type ScannersConfig struct {
	BanSubstrings BanSubstringsSettings `yaml:"ban_substrings"`
	Regex         RegexSettings         `yaml:"regex"`
	Secrets       SecretsSettings       `yaml:"secrets"`
	TokenLimit    TokenLimitSettings    `yaml:"token_limit"`
}

// BanSubstringsSettings configures the ban_substrings scanner.
type BanSubstringsSettings struct {
	Enabled       bool     `yaml:"enabled"`
	Substrings    []string `yaml:"substrings"`
	CaseSensitive bool     `yaml:"case_sensitive"`
	MatchWord     bool     `yaml:"match_word"`
	Redact        bool     `yaml:"redact"`
}

// RegexSettings configures the regex scanner.
type RegexSettings struct {
	Enabled  bool              `yaml:"enabled"`
	Patterns []RegexPatternDef `yaml:"patterns"`
}

// RegexPatternDef is one deny pattern for the regex scanner.
type RegexPatternDef struct {
	// Name labels entities produced by this pattern.
	Name string `yaml:"name"`

	// Expr is the regular expression, compiled at startup.
	Expr string `yaml:"expr"`

	// Replacement substitutes matches in the sanitized text. Empty
	// disables redaction for this pattern.
	Replacement string `yaml:"replacement"`

	// Score is the risk contributed when the pattern matches.
	Score float64 `yaml:"score"`
}

// SecretsSettings configures the secrets scanner.
type SecretsSettings struct {
	Enabled bool `yaml:"enabled"`
	Redact  bool `yaml:"redact"`
}

// TokenLimitSettings configures the token_limit scanner.
type TokenLimitSettings struct {
	Enabled bool `yaml:"enabled"`
	Limit   int  `yaml:"limit"`
}

// BatchConfig bounds batch scan concurrency.
type BatchConfig struct {
	// DefaultConcurrent is used when a request omits maxConcurrent.
	DefaultConcurrent int `yaml:"default_concurrent"`

	// MaxConcurrent is the ceiling enforced at the API boundary.
	MaxConcurrent int `yaml:"max_concurrent"`

	// MaxItems caps the number of items in a single batch request.
	MaxItems int `yaml:"max_items"`
}

// CacheConfig controls the scan result cache.
type CacheConfig struct {
	Enabled bool `yaml:"enabled"`

	// TTL is how long a cached verdict stays valid.
	TTL time.Duration `yaml:"ttl"`

	// MaxEntries bounds memory use. Oldest entries are evicted first.
	MaxEntries int `yaml:"max_entries"`
}

// AuditConfig controls verdict recording and retention.
type AuditConfig struct {
	Enabled bool `yaml:"enabled"`

	// Backend selects the storage implementation: "memory" or "sqlite".
	Backend string `yaml:"backend"`

	// SQLitePath is the database file for the sqlite backend.
	SQLitePath string `yaml:"sqlite_path"`

	// RetentionDays bounds how long records are kept. Zero keeps forever.
	RetentionDays int `yaml:"retention_days"`

	// PruneSchedule is a cron expression for retention sweeps.
	PruneSchedule string `yaml:"prune_schedule"`
}

// LoggingConfig controls structured log output.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`

	// Format is "json" or "text".
	Format string `yaml:"format"`
}

// MetricsConfig controls Prometheus metric export.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`

	// Namespace prefixes every metric name.
	Namespace string `yaml:"namespace"`
}
