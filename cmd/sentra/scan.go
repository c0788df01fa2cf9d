package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"sentra-hq/sentra/pkg/config"
	"sentra-hq/sentra/pkg/service"
	"sentra-hq/sentra/pkg/telemetry/logging"
)

var scanFlags struct {
	output   bool
	scanners []string
	jsonOut  bool
}

var scanCmd = &cobra.Command{
	Use:   "scan [text]",
	Short: "Scan a single text from the command line",
	Long: `Scan a single text using the configured scanners and print the verdict.
Reads from stdin when no argument is given.

Examples:
  # Scan a prompt
  sentra scan "is this safe?"

  # Scan model output from a pipe
  cat response.txt | sentra scan --output

  # Restrict to specific scanners
  sentra scan --scanner secrets --scanner token_limit "text"

  # Machine-readable verdict
  sentra scan --json "text"

The exit code is 0 for a valid verdict and 2 for an invalid one.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().BoolVar(&scanFlags.output, "output", false, "scan as model output instead of a prompt")
	scanCmd.Flags().StringArrayVar(&scanFlags.scanners, "scanner", nil, "restrict to a scanner (repeatable)")
	scanCmd.Flags().BoolVar(&scanFlags.jsonOut, "json", false, "print the verdict as JSON")
}

func runScan(cmd *cobra.Command, args []string) error {
	input, err := scanInput(args)
	if err != nil {
		return err
	}

	cfg, err := config.LoadOrDefault(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// One-shot scans log warnings only, keeping stdout for the verdict.
	level := "warn"
	if verbose {
		level = "debug"
	}
	logger, err := logging.New(logging.Config{Level: level, Format: "text", Writer: os.Stderr})
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	thresholds := config.NewThresholdSource(cfg.Scan.RejectThreshold)
	svc, _, cleanup, err := buildService(cfg, thresholds, nil, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	req := service.Request{Input: input, Scanners: scanFlags.scanners, NoCache: true}

	var verdict *service.Verdict
	if scanFlags.output {
		verdict, err = svc.ScanOutput(cmd.Context(), req)
	} else {
		verdict, err = svc.ScanPrompt(cmd.Context(), req)
	}
	if err != nil {
		return err
	}

	if scanFlags.jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(verdict); err != nil {
			return err
		}
	} else {
		printVerdict(verdict)
	}

	if !verdict.Result.IsValid {
		// Distinct from usage errors (1) so scripts can branch on it.
		os.Exit(2)
	}
	return nil
}

func scanInput(args []string) (string, error) {
	if len(args) == 1 && args[0] != "-" {
		return args[0], nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("no input: pass text as an argument or on stdin")
	}
	return string(data), nil
}

func printVerdict(v *service.Verdict) {
	status := "VALID"
	if !v.Result.IsValid {
		status = "INVALID"
	}
	fmt.Printf("%s  risk=%.2f  phase=%s  scanners=%v\n", status, v.Result.RiskScore, v.Phase, v.Scanners)

	if v.Blocked {
		fmt.Printf("blocked: %s\n", v.BlockReason)
	}
	for _, e := range v.Result.Entities {
		fmt.Printf("  entity %s [%d:%d] %q\n", e.Type, e.Start, e.End, e.Text)
	}
	for _, rf := range v.Result.RiskFactors {
		fmt.Printf("  risk %s (%s): %s\n", rf.Name, rf.Severity, rf.Description)
	}
	if v.Result.SanitizedText != "" && len(v.Result.Entities) > 0 {
		fmt.Printf("sanitized: %s\n", v.Result.SanitizedText)
	}
}
