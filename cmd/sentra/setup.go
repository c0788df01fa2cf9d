package main

import (
	"fmt"
	"log/slog"

	"sentra-hq/sentra/pkg/audit"
	"sentra-hq/sentra/pkg/cache"
	"sentra-hq/sentra/pkg/config"
	"sentra-hq/sentra/pkg/hooks"
	"sentra-hq/sentra/pkg/scan"
	"sentra-hq/sentra/pkg/scanners"
	"sentra-hq/sentra/pkg/service"
	"sentra-hq/sentra/pkg/telemetry/metrics"
)

// buildRegistry constructs the scanner registry from configuration.
// Registration order determines sequential execution order: cheap guards
// first, pattern scanners after.
func buildRegistry(cfg *config.Config) (*scan.Registry, error) {
	registry := scan.NewRegistry()
	sc := cfg.Scan.Scanners

	if sc.TokenLimit.Enabled {
		s, err := scanners.NewTokenLimit(scanners.TokenLimitConfig{Limit: sc.TokenLimit.Limit})
		if err != nil {
			return nil, fmt.Errorf("token_limit scanner: %w", err)
		}
		if err := registry.Register(s); err != nil {
			return nil, err
		}
	}

	if sc.Secrets.Enabled {
		s := scanners.NewSecrets(scanners.SecretsConfig{Redact: sc.Secrets.Redact})
		if err := registry.Register(s); err != nil {
			return nil, err
		}
	}

	if sc.BanSubstrings.Enabled {
		s, err := scanners.NewBanSubstrings(scanners.BanSubstringsConfig{
			Substrings:    sc.BanSubstrings.Substrings,
			CaseSensitive: sc.BanSubstrings.CaseSensitive,
			MatchWord:     sc.BanSubstrings.MatchWord,
			Redact:        sc.BanSubstrings.Redact,
		})
		if err != nil {
			return nil, fmt.Errorf("ban_substrings scanner: %w", err)
		}
		if err := registry.Register(s); err != nil {
			return nil, err
		}
	}

	if sc.Regex.Enabled {
		patterns := make([]scanners.RegexPattern, len(sc.Regex.Patterns))
		for i, p := range sc.Regex.Patterns {
			patterns[i] = scanners.RegexPattern{
				Name:        p.Name,
				Expr:        p.Expr,
				Replacement: p.Replacement,
				Score:       p.Score,
			}
		}
		s, err := scanners.NewRegex(scanners.RegexConfig{Patterns: patterns})
		if err != nil {
			return nil, fmt.Errorf("regex scanner: %w", err)
		}
		if err := registry.Register(s); err != nil {
			return nil, err
		}
	}

	return registry, nil
}

// buildService assembles the scan service and its supporting pieces from
// configuration. The returned storage is non-nil when auditing is enabled,
// so the caller can attach retention to the same backend. The returned
// cleanup closes the recorder and storage.
func buildService(
	cfg *config.Config,
	thresholds *config.ThresholdSource,
	collector *metrics.Collector,
	logger *slog.Logger,
) (*service.Service, audit.Storage, func(), error) {
	registry, err := buildRegistry(cfg)
	if err != nil {
		return nil, nil, nil, err
	}

	h := hooks.New().WithLogger(logger)
	if cfg.Scan.RejectThreshold > 0 {
		h.WithPostScan(hooks.NewConfigThresholdHook(thresholds))
	}

	var resultCache *cache.Cache
	if cfg.Cache.Enabled {
		resultCache, err = cache.New(cfg.Cache.TTL, cfg.Cache.MaxEntries)
		if err != nil {
			return nil, nil, nil, err
		}
	}

	cleanup := func() {}
	var storage audit.Storage
	var recorder *audit.Recorder
	if cfg.Audit.Enabled {
		switch cfg.Audit.Backend {
		case "sqlite":
			storage, err = audit.NewSQLiteStorage(audit.SQLiteConfig{Path: cfg.Audit.SQLitePath}, logger)
			if err != nil {
				return nil, nil, nil, err
			}
		default:
			storage = audit.NewMemoryStorage(0)
		}
		recorder = audit.NewRecorder(storage, 0, logger)
		cleanup = func() {
			recorder.Close()
			if err := storage.Close(); err != nil {
				logger.Error("failed to close audit storage", "error", err)
			}
		}
	}

	svc, err := service.New(service.Options{
		Registry:              registry,
		Hooks:                 h,
		Cache:                 resultCache,
		Recorder:              recorder,
		Metrics:               collector,
		Logger:                logger,
		ShortCircuitThreshold: cfg.Scan.ShortCircuitThreshold,
		Parallel:              cfg.Scan.Parallel,
		DefaultConcurrent:     cfg.Batch.DefaultConcurrent,
		MaxConcurrent:         cfg.Batch.MaxConcurrent,
	})
	if err != nil {
		cleanup()
		return nil, nil, nil, err
	}

	return svc, storage, cleanup, nil
}
