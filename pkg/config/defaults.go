package config

import "time"

// Default values applied to any field left unset in the YAML file.
const (
	// DefaultListenAddress binds to localhost only.
	DefaultListenAddress = "127.0.0.1:8741"

	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 10 * time.Second

	// DefaultMaxBodyBytes caps request bodies at 1 MiB.
	DefaultMaxBodyBytes = 1 << 20

	// DefaultTokenLimit matches common model context budgets.
	DefaultTokenLimit = 4096

	DefaultBatchConcurrent    = 4
	DefaultBatchMaxConcurrent = 10
	DefaultBatchMaxItems      = 100

	DefaultCacheTTL        = 5 * time.Minute
	DefaultCacheMaxEntries = 10000

	DefaultAuditBackend    = "memory"
	DefaultAuditSQLitePath = "sentra-audit.db"

	// DefaultAuditRetentionDays keeps 30 days of scan records.
	DefaultAuditRetentionDays = 30

	// DefaultAuditPruneSchedule runs retention sweeps at 03:00 daily.
	DefaultAuditPruneSchedule = "0 3 * * *"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	DefaultMetricsNamespace = "sentra"
)

// DefaultConfig returns a Config populated entirely from defaults. The
// secrets and token_limit scanners are enabled out of the box; pattern-based
// scanners need explicit configuration to be useful.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	cfg.Scan.Scanners.Secrets.Enabled = true
	cfg.Scan.Scanners.Secrets.Redact = true
	cfg.Scan.Scanners.TokenLimit.Enabled = true
	return cfg
}

// ApplyDefaults fills in zero-valued fields with defaults. Explicitly
// configured values are left untouched.
func (c *Config) ApplyDefaults() {
	if c.Server.ListenAddress == "" {
		c.Server.ListenAddress = DefaultListenAddress
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = DefaultReadTimeout
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = DefaultWriteTimeout
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = DefaultIdleTimeout
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if c.Server.MaxBodyBytes == 0 {
		c.Server.MaxBodyBytes = DefaultMaxBodyBytes
	}

	if c.Scan.Scanners.TokenLimit.Limit == 0 {
		c.Scan.Scanners.TokenLimit.Limit = DefaultTokenLimit
	}

	if c.Batch.DefaultConcurrent == 0 {
		c.Batch.DefaultConcurrent = DefaultBatchConcurrent
	}
	if c.Batch.MaxConcurrent == 0 {
		c.Batch.MaxConcurrent = DefaultBatchMaxConcurrent
	}
	if c.Batch.MaxItems == 0 {
		c.Batch.MaxItems = DefaultBatchMaxItems
	}

	if c.Cache.TTL == 0 {
		c.Cache.TTL = DefaultCacheTTL
	}
	if c.Cache.MaxEntries == 0 {
		c.Cache.MaxEntries = DefaultCacheMaxEntries
	}

	if c.Audit.Backend == "" {
		c.Audit.Backend = DefaultAuditBackend
	}
	if c.Audit.SQLitePath == "" {
		c.Audit.SQLitePath = DefaultAuditSQLitePath
	}
	if c.Audit.RetentionDays == 0 {
		c.Audit.RetentionDays = DefaultAuditRetentionDays
	}
	if c.Audit.PruneSchedule == "" {
		c.Audit.PruneSchedule = DefaultAuditPruneSchedule
	}

	if c.Logging.Level == "" {
		c.Logging.Level = DefaultLogLevel
	}
	if c.Logging.Format == "" {
		c.Logging.Format = DefaultLogFormat
	}

	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultMetricsNamespace
	}
}
