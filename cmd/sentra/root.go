package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "sentra",
	Short: "Sentra - content security scanning for LLM traffic",
	Long: `Sentra scans prompts and model outputs for secrets, banned content,
and policy violations before they cross a trust boundary.

It provides:
  - Configurable scanner pipelines with sequential or parallel execution
  - Risk scoring with short-circuiting and redaction
  - Pre- and post-scan policy hooks
  - Batch scanning with bounded concurrency
  - A durable audit trail of every verdict`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
