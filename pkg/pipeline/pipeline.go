package pipeline

import (
	"context"
	"log/slog"

	"sentra-hq/sentra/pkg/scan"
	"sentra-hq/sentra/pkg/vault"
)

// Pipeline orchestrates an ordered set of scanners against one input and
// folds their results into a single combined verdict.
type Pipeline struct {
	scanners     []scan.Scanner
	shortCircuit bool
	threshold    float64
	logger       *slog.Logger
}

// New creates an empty pipeline.
func New() *Pipeline {
	return &Pipeline{
		logger: slog.Default().With("component", "pipeline"),
	}
}

// Add appends a scanner. Registration order is the execution order in
// sequential mode and the result assembly order in parallel mode.
func (p *Pipeline) Add(s scan.Scanner) *Pipeline {
	p.scanners = append(p.scanners, s)
	return p
}

// WithShortCircuit enables sequential short-circuiting: once the running
// combined risk score meets or exceeds threshold, remaining scanners are
// skipped entirely.
func (p *Pipeline) WithShortCircuit(threshold float64) *Pipeline {
	p.shortCircuit = true
	p.threshold = threshold
	return p
}

// WithLogger sets the logger used for per-scanner debug output.
func (p *Pipeline) WithLogger(logger *slog.Logger) *Pipeline {
	if logger != nil {
		p.logger = logger
	}
	return p
}

// Len returns the number of scanners in the pipeline.
func (p *Pipeline) Len() int {
	return len(p.scanners)
}

// Execute runs the scanners sequentially in registration order.
//
// Each scanner receives the current sanitized text, so later scanners see
// earlier redactions. With short-circuiting enabled, scanners after the one
// that pushes the running MAX risk over the threshold are never launched,
// and the partial result set is combined and returned.
func (p *Pipeline) Execute(ctx context.Context, input string, v *vault.Vault) (*scan.Result, error) {
	results := make([]*scan.Result, 0, len(p.scanners))
	current := input
	maxRisk := 0.0

	for _, s := range p.scanners {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		res, err := s.Scan(ctx, current, v)
		if err != nil {
			return nil, wrapScannerErr(s, err)
		}
		results = append(results, res)

		p.logger.Debug("scanner completed",
			"scanner", s.Name(),
			"risk_score", res.RiskScore,
			"is_valid", res.IsValid,
		)

		// Compare against the scanner's own input: a redaction down to the
		// empty string is still a redaction.
		if res.SanitizedText != current {
			current = res.SanitizedText
		}
		if res.RiskScore > maxRisk {
			maxRisk = res.RiskScore
		}

		if p.shortCircuit && maxRisk >= p.threshold {
			p.logger.Debug("short-circuiting pipeline",
				"scanner", s.Name(),
				"risk_score", maxRisk,
				"threshold", p.threshold,
			)
			break
		}
	}

	combined := scan.Combine(input, results)
	combined.SanitizedText = current
	return combined, nil
}

// ExecuteParallel runs every scanner concurrently against the original
// input. Scanners run to completion once launched; results are reassembled
// into registration order before combining. The sanitized text of the
// combined result is taken from the first-registered scanner that changed
// the text, since parallel scanners do not see each other's edits.
func (p *Pipeline) ExecuteParallel(ctx context.Context, input string, v *vault.Vault) (*scan.Result, error) {
	if len(p.scanners) == 0 {
		return scan.Combine(input, nil), nil
	}

	type outcome struct {
		res *scan.Result
		err error
	}

	outcomes := make([]outcome, len(p.scanners))
	done := make(chan int, len(p.scanners))

	for i, s := range p.scanners {
		go func(i int, s scan.Scanner) {
			res, err := s.Scan(ctx, input, v)
			if err != nil {
				err = wrapScannerErr(s, err)
			}
			outcomes[i] = outcome{res: res, err: err}
			done <- i
		}(i, s)
	}

	for range p.scanners {
		<-done
	}

	// Fail fast on the first error in registration order so the returned
	// error is deterministic regardless of completion order.
	results := make([]*scan.Result, 0, len(p.scanners))
	for _, o := range outcomes {
		if o.err != nil {
			return nil, o.err
		}
		results = append(results, o.res)
	}

	combined := scan.Combine(input, results)
	combined.SanitizedText = input
	for _, res := range results {
		if res.SanitizedText != input {
			combined.SanitizedText = res.SanitizedText
			break
		}
	}
	return combined, nil
}

// wrapScannerErr tags an error with the scanner that produced it.
func wrapScannerErr(s scan.Scanner, err error) error {
	if _, ok := err.(*scan.ScannerError); ok {
		return err
	}
	return &scan.ScannerError{Scanner: s.Name(), Err: err}
}
