// Package config provides configuration management for the sentra service.
//
// This package handles loading and validating configuration from YAML files
// with environment variable overrides. Values are applied in the following
// order (later overrides earlier):
//
//  1. Default values (defined in defaults.go)
//  2. Values from the YAML file
//  3. Environment variable overrides
//  4. Validation (fails fast if invalid)
//
// # Configuration Loading
//
// Configuration can be loaded in two ways:
//
//  1. From a YAML file only:
//     cfg, err := config.LoadConfig("config.yaml")
//
//  2. From a YAML file with environment variable overrides:
//     cfg, err := config.LoadConfigWithEnvOverrides("config.yaml")
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention SENTRA_SECTION_FIELD.
// For example:
//
//   - SENTRA_SERVER_LISTEN_ADDRESS overrides server.listen_address
//   - SENTRA_SCAN_REJECT_THRESHOLD overrides scan.reject_threshold
//   - SENTRA_LOGGING_LEVEL overrides logging.level
//
// # Live Reload
//
// A fsnotify-based watcher can reload the file on change, letting operators
// adjust scan thresholds without a restart:
//
//	w, err := config.NewWatcher("config.yaml", logger)
//	w.OnChange(func(cfg *config.Config) { ... })
//	w.Start(ctx)
//
// Reloads that fail validation are logged and discarded; the previous
// configuration stays in effect.
package config
