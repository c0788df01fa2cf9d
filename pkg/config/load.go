package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file, applies defaults, and
// validates the result. Returns an error if the file cannot be read, the
// YAML is malformed, or validation fails.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration in %s: %w", path, err)
	}

	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and then
// applies environment variable overrides before validating. Environment
// variables always take precedence over file values.
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	cfg.ApplyDefaults()
	applyEnvOverrides(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration in %s: %w", path, err)
	}

	return &cfg, nil
}

// LoadOrDefault loads configuration from path if the file exists, and
// returns DefaultConfig otherwise. Any other load error is returned as-is.
func LoadOrDefault(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := DefaultConfig()
		applyEnvOverrides(cfg)
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	return LoadConfigWithEnvOverrides(path)
}

// applyEnvOverrides overlays SENTRA_* environment variables onto cfg.
// Unparseable values are ignored so a stray variable cannot take the
// service down; validation still runs afterwards.
func applyEnvOverrides(cfg *Config) {
	setString(&cfg.Server.ListenAddress, "SENTRA_SERVER_LISTEN_ADDRESS")
	setDuration(&cfg.Server.ReadTimeout, "SENTRA_SERVER_READ_TIMEOUT")
	setDuration(&cfg.Server.WriteTimeout, "SENTRA_SERVER_WRITE_TIMEOUT")
	setDuration(&cfg.Server.ShutdownTimeout, "SENTRA_SERVER_SHUTDOWN_TIMEOUT")

	setFloat(&cfg.Scan.ShortCircuitThreshold, "SENTRA_SCAN_SHORT_CIRCUIT_THRESHOLD")
	setFloat(&cfg.Scan.RejectThreshold, "SENTRA_SCAN_REJECT_THRESHOLD")
	setBool(&cfg.Scan.Parallel, "SENTRA_SCAN_PARALLEL")

	setInt(&cfg.Batch.DefaultConcurrent, "SENTRA_BATCH_DEFAULT_CONCURRENT")
	setInt(&cfg.Batch.MaxConcurrent, "SENTRA_BATCH_MAX_CONCURRENT")

	setBool(&cfg.Cache.Enabled, "SENTRA_CACHE_ENABLED")
	setDuration(&cfg.Cache.TTL, "SENTRA_CACHE_TTL")

	setBool(&cfg.Audit.Enabled, "SENTRA_AUDIT_ENABLED")
	setString(&cfg.Audit.Backend, "SENTRA_AUDIT_BACKEND")
	setString(&cfg.Audit.SQLitePath, "SENTRA_AUDIT_SQLITE_PATH")

	setString(&cfg.Logging.Level, "SENTRA_LOGGING_LEVEL")
	setString(&cfg.Logging.Format, "SENTRA_LOGGING_FORMAT")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setFloat(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}
