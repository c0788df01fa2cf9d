package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"sentra-hq/sentra/pkg/audit"
	"sentra-hq/sentra/pkg/config"
	"sentra-hq/sentra/pkg/server"
	"sentra-hq/sentra/pkg/telemetry/logging"
	"sentra-hq/sentra/pkg/telemetry/metrics"
)

var runFlags struct {
	listenAddress string
	logLevel      string
	dryRun        bool
	watch         bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the sentra API server",
	Long: `Start the sentra API server with the specified configuration.

Examples:
  # Start with default config
  sentra run

  # Start with custom config
  sentra run --config /etc/sentra/config.yaml

  # Override listen address
  sentra run --listen 0.0.0.0:9000

  # Reload scan thresholds on config file changes
  sentra run --watch

  # Validate config without starting the server
  sentra run --dry-run`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.listenAddress, "listen", "l", "", "override listen address")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "validate config without starting the server")
	runCmd.Flags().BoolVar(&runFlags.watch, "watch", false, "reload configuration on file changes")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadOrDefault(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if runFlags.listenAddress != "" {
		cfg.Server.ListenAddress = runFlags.listenAddress
	}
	if runFlags.logLevel != "" {
		cfg.Logging.Level = runFlags.logLevel
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}

	logger, err := logging.New(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	if runFlags.dryRun {
		fmt.Println("configuration valid")
		return nil
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	thresholds := config.NewThresholdSource(cfg.Scan.RejectThreshold)
	if runFlags.watch {
		watcher, err := config.NewWatcher(cfgFile, logger)
		if err != nil {
			return fmt.Errorf("failed to start config watcher: %w", err)
		}
		watcher.OnChange(func(updated *config.Config) {
			thresholds.Update(updated.Scan.RejectThreshold)
		})
		if err := watcher.Start(ctx); err != nil {
			return err
		}
		defer watcher.Close()
	}

	collector := metrics.NewCollector(metrics.Config{
		Enabled:   cfg.Metrics.Enabled,
		Namespace: cfg.Metrics.Namespace,
	}, nil)

	svc, auditStorage, cleanup, err := buildService(cfg, thresholds, collector, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	if auditStorage != nil && cfg.Audit.PruneSchedule != "" {
		pruner := audit.NewPruner(auditStorage, audit.RetentionConfig{
			RetentionDays: cfg.Audit.RetentionDays,
			Schedule:      cfg.Audit.PruneSchedule,
		}, logger)
		if err := audit.NewScheduler(pruner).Start(ctx); err != nil {
			return err
		}
	}

	srv, err := server.New(server.Options{
		Config:        cfg.Server,
		Service:       svc,
		Metrics:       collector,
		Logger:        logger,
		MaxBatchItems: cfg.Batch.MaxItems,
	})
	if err != nil {
		return err
	}

	return srv.Start(ctx)
}
