package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"sentra-hq/sentra/pkg/audit"
	"sentra-hq/sentra/pkg/cache"
	"sentra-hq/sentra/pkg/hooks"
	"sentra-hq/sentra/pkg/pipeline"
	"sentra-hq/sentra/pkg/scan"
	"sentra-hq/sentra/pkg/telemetry/metrics"
	"sentra-hq/sentra/pkg/vault"
)

// Options configures a Service. Registry is required; everything else is
// optional.
type Options struct {
	Registry *scan.Registry
	Hooks    *hooks.Hooks
	Cache    *cache.Cache
	Recorder *audit.Recorder
	Metrics  *metrics.Collector
	Logger   *slog.Logger

	// ShortCircuitThreshold stops sequential scans early once the running
	// risk reaches it. Zero disables short-circuiting.
	ShortCircuitThreshold float64

	// Parallel runs scanners concurrently.
	Parallel bool

	// DefaultConcurrent is the batch concurrency used when a request does
	// not specify one.
	DefaultConcurrent int

	// MaxConcurrent caps batch concurrency.
	MaxConcurrent int
}

// Service executes scan operations.
type Service struct {
	registry *scan.Registry
	hooks    *hooks.Hooks
	cache    *cache.Cache
	recorder *audit.Recorder
	metrics  *metrics.Collector
	logger   *slog.Logger

	shortCircuit float64
	parallel     bool

	defaultConcurrent int
	maxConcurrent     int
}

// New creates a Service.
func New(opts Options) (*Service, error) {
	if opts.Registry == nil {
		return nil, fmt.Errorf("service: registry is required")
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Hooks == nil {
		opts.Hooks = hooks.New()
	}
	if opts.DefaultConcurrent < 1 {
		opts.DefaultConcurrent = 4
	}
	if opts.MaxConcurrent < 1 {
		opts.MaxConcurrent = 10
	}
	if opts.DefaultConcurrent > opts.MaxConcurrent {
		return nil, fmt.Errorf("service: default concurrency %d exceeds max %d",
			opts.DefaultConcurrent, opts.MaxConcurrent)
	}

	return &Service{
		registry:          opts.Registry,
		hooks:             opts.Hooks,
		cache:             opts.Cache,
		recorder:          opts.Recorder,
		metrics:           opts.Metrics,
		logger:            opts.Logger.With("component", "service"),
		shortCircuit:      opts.ShortCircuitThreshold,
		parallel:          opts.Parallel,
		defaultConcurrent: opts.DefaultConcurrent,
		maxConcurrent:     opts.MaxConcurrent,
	}, nil
}

// Request is one scan request.
type Request struct {
	// RequestID correlates logs and audit records. Assigned if empty.
	RequestID string

	// Input is the text to scan.
	Input string

	// Scanners is an optional allow-list of scanner names. Empty runs all
	// scanners applicable to the phase, in registration order.
	Scanners []string

	// NoCache bypasses the result cache for this request.
	NoCache bool
}

// Verdict is the outcome of one scan.
type Verdict struct {
	// ScanID uniquely identifies this scan.
	ScanID string

	// RequestID echoes the request correlation ID.
	RequestID string

	// Phase is "input" or "output".
	Phase string

	// Scanners lists the scanner names that applied, in execution order.
	Scanners []string

	// Result is the combined scan result.
	Result *scan.Result

	// Blocked reports that a pre-scan hook rejected the request before
	// any scanner ran.
	Blocked bool

	// BlockReason carries the hook's reason when Blocked is set.
	BlockReason string

	// CacheHit reports the verdict came from the result cache.
	CacheHit bool

	// Duration is the end-to-end scan time.
	Duration time.Duration
}

// ScanPrompt scans text headed into a model.
func (s *Service) ScanPrompt(ctx context.Context, req Request) (*Verdict, error) {
	return s.scanPhase(ctx, req, scan.TypeInput)
}

// ScanOutput scans text produced by a model.
func (s *Service) ScanOutput(ctx context.Context, req Request) (*Verdict, error) {
	return s.scanPhase(ctx, req, scan.TypeOutput)
}

// Registry exposes the scanner registry for introspection endpoints.
func (s *Service) Registry() *scan.Registry {
	return s.registry
}

func (s *Service) scanPhase(ctx context.Context, req Request, phase scan.Type) (*Verdict, error) {
	start := time.Now()
	phaseName := phase.String()

	if req.RequestID == "" {
		req.RequestID = uuid.New().String()
	}

	scanners, err := s.registry.Select(req.Scanners, phase)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(scanners))
	for i, sc := range scanners {
		names[i] = sc.Name()
	}

	verdict := &Verdict{
		ScanID:    uuid.New().String(),
		RequestID: req.RequestID,
		Phase:     phaseName,
		Scanners:  names,
	}

	v := vault.New()
	if err := s.hooks.Register(v); err != nil {
		return nil, err
	}

	pre, err := s.hooks.ExecutePreScan(ctx, req.Input, v)
	if err != nil {
		return nil, err
	}

	switch pre.Decision {
	case hooks.DecisionApproved:
		verdict.Result = scan.Pass(req.Input)
		verdict.Duration = time.Since(start)
		s.finish(verdict, req.Input)
		return verdict, nil

	case hooks.DecisionRejected:
		verdict.Result = scan.NewResult(req.Input, false, 1.0)
		verdict.Blocked = true
		verdict.BlockReason = pre.Reason
		verdict.Duration = time.Since(start)
		s.finish(verdict, req.Input)
		return verdict, nil
	}

	result, cacheHit, err := s.executeScanners(ctx, req, phaseName, names, scanners, v)
	if err != nil {
		s.recordMetrics(phaseName, "error", time.Since(start), 0)
		return nil, err
	}
	verdict.CacheHit = cacheHit

	if pre.Decision == hooks.DecisionModify && pre.Adjustment != 0 {
		adjusted := *result
		adjusted.RiskScore = clamp(result.RiskScore + pre.Adjustment)
		result = &adjusted
	}

	result, err = s.hooks.ExecutePostScan(ctx, result, v)
	if err != nil {
		return nil, err
	}

	verdict.Result = result
	verdict.Duration = time.Since(start)
	s.finish(verdict, req.Input)
	return verdict, nil
}

// executeScanners returns the combined pipeline result, consulting and
// populating the cache when enabled. Cached results are pre-hook pipeline
// output, so hook decisions always reflect current configuration.
func (s *Service) executeScanners(
	ctx context.Context,
	req Request,
	phaseName string,
	names []string,
	scanners []scan.Scanner,
	v *vault.Vault,
) (*scan.Result, bool, error) {
	useCache := s.cache != nil && !req.NoCache
	var key cache.Key
	if useCache {
		key = cache.NewKey(phaseName, names, req.Input)
		if cached := s.cache.Get(key); cached != nil {
			if s.metrics != nil {
				s.metrics.RecordCacheHit()
			}
			return cached, true, nil
		}
		if s.metrics != nil {
			s.metrics.RecordCacheMiss()
		}
	}

	p := pipeline.New().WithLogger(s.logger)
	if s.shortCircuit > 0 {
		p.WithShortCircuit(s.shortCircuit)
	}
	for _, sc := range scanners {
		p.Add(sc)
	}

	var result *scan.Result
	var err error
	if s.parallel {
		result, err = p.ExecuteParallel(ctx, req.Input, v)
	} else {
		result, err = p.Execute(ctx, req.Input, v)
	}
	if err != nil {
		return nil, false, err
	}

	if useCache {
		s.cache.Put(key, result)
	}
	return result, false, nil
}

// finish emits metrics and the audit record for a completed verdict.
func (s *Service) finish(verdict *Verdict, input string) {
	outcome := "valid"
	if !verdict.Result.IsValid {
		outcome = "invalid"
	}
	s.recordMetrics(verdict.Phase, outcome, verdict.Duration, verdict.Result.RiskScore)

	if s.recorder != nil {
		s.recorder.Record(&audit.Record{
			ID:          verdict.ScanID,
			RequestID:   verdict.RequestID,
			Phase:       verdict.Phase,
			Scanners:    verdict.Scanners,
			Valid:       verdict.Result.IsValid,
			RiskScore:   verdict.Result.RiskScore,
			EntityCount: len(verdict.Result.Entities),
			Redacted:    verdict.Result.SanitizedText != input,
			Blocked:     verdict.Blocked,
			BlockReason: verdict.BlockReason,
			CacheHit:    verdict.CacheHit,
			Duration:    verdict.Duration,
		})
	}

	s.logger.Info("scan complete",
		"scan_id", verdict.ScanID,
		"request_id", verdict.RequestID,
		"phase", verdict.Phase,
		"valid", verdict.Result.IsValid,
		"risk_score", verdict.Result.RiskScore,
		"blocked", verdict.Blocked,
		"cache_hit", verdict.CacheHit,
		"duration_ms", verdict.Duration.Milliseconds(),
	)
}

func (s *Service) recordMetrics(phase, outcome string, duration time.Duration, risk float64) {
	if s.metrics != nil {
		s.metrics.RecordScan(phase, outcome, duration, risk)
	}
}

func clamp(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
