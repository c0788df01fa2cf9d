package pipeline

import (
	"context"
	"errors"
	"math/rand"
	"sync/atomic"
	"testing"
	"time"

	"sentra-hq/sentra/pkg/scan"
	"sentra-hq/sentra/pkg/vault"
)

// fakeScanner is a configurable test double. It records invocations,
// optionally sleeps to simulate slow detectors, and can redact text.
type fakeScanner struct {
	name    string
	risk    float64
	valid   bool
	delay   time.Duration
	redact  string // when non-empty, returned as the sanitized text
	err     error
	calls   atomic.Int64
	factors []scan.RiskFactor
}

func (f *fakeScanner) Name() string        { return f.name }
func (f *fakeScanner) Type() scan.Type     { return scan.TypeInput }
func (f *fakeScanner) Description() string { return "fake scanner for tests" }

func (f *fakeScanner) Scan(ctx context.Context, input string, v *vault.Vault) (*scan.Result, error) {
	f.calls.Add(1)
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.err != nil {
		return nil, f.err
	}

	sanitized := input
	if f.redact != "" {
		sanitized = f.redact
	}
	res := scan.NewResult(sanitized, f.valid, f.risk)
	res.Entities = append(res.Entities, scan.NewEntity(f.name, input, 0, len(input), 1.0))
	res.RiskFactors = append(res.RiskFactors, f.factors...)
	return res, nil
}

func TestPipeline_SequentialOrder(t *testing.T) {
	p := New().
		Add(&fakeScanner{name: "first", risk: 0.3, valid: true}).
		Add(&fakeScanner{name: "second", risk: 0.5, valid: true})

	res, err := p.Execute(context.Background(), "test input", vault.New())
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if res.RiskScore != 0.5 {
		t.Errorf("Expected max risk 0.5, got %f", res.RiskScore)
	}
	if len(res.Entities) != 2 {
		t.Fatalf("Expected 2 entities, got %d", len(res.Entities))
	}
	if res.Entities[0].Type != "first" || res.Entities[1].Type != "second" {
		t.Errorf("Expected registration order, got %v", res.Entities)
	}
}

func TestPipeline_ShortCircuit(t *testing.T) {
	hot := &fakeScanner{name: "hot", risk: 0.95, valid: false}
	never := &fakeScanner{name: "never", risk: 0.2, valid: true}

	p := New().Add(hot).Add(never).WithShortCircuit(0.9)

	res, err := p.Execute(context.Background(), "test input", vault.New())
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if got := never.calls.Load(); got != 0 {
		t.Errorf("Expected scanner after threshold never invoked, got %d calls", got)
	}
	if res.RiskScore != 0.95 {
		t.Errorf("Expected risk from scanners before cutoff only, got %f", res.RiskScore)
	}
	if len(res.Entities) != 1 {
		t.Errorf("Expected partial result set, got %d entities", len(res.Entities))
	}
}

func TestPipeline_ShortCircuitExactThreshold(t *testing.T) {
	at := &fakeScanner{name: "at", risk: 0.9, valid: false}
	after := &fakeScanner{name: "after", risk: 0.1, valid: true}

	p := New().Add(at).Add(after).WithShortCircuit(0.9)

	if _, err := p.Execute(context.Background(), "x", vault.New()); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	// Meets-or-exceeds: a score equal to the threshold short-circuits.
	if got := after.calls.Load(); got != 0 {
		t.Errorf("Expected short-circuit at exact threshold, got %d calls", got)
	}
}

func TestPipeline_NoShortCircuitWithoutThreshold(t *testing.T) {
	second := &fakeScanner{name: "second", risk: 0.1, valid: true}
	p := New().
		Add(&fakeScanner{name: "first", risk: 1.0, valid: false}).
		Add(second)

	if _, err := p.Execute(context.Background(), "x", vault.New()); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if got := second.calls.Load(); got != 1 {
		t.Errorf("Expected all scanners to run without a threshold, got %d calls", got)
	}
}

func TestPipeline_SequentialChainsSanitizedText(t *testing.T) {
	seen := ""
	observer := &fakeScanner{name: "observer", valid: true}

	p := New().
		Add(&fakeScanner{name: "redactor", valid: true, redact: "clean text"}).
		Add(scannerFunc{name: "probe", fn: func(ctx context.Context, input string, v *vault.Vault) (*scan.Result, error) {
			seen = input
			return observer.Scan(ctx, input, v)
		}})

	res, err := p.Execute(context.Background(), "dirty text", vault.New())
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if seen != "clean text" {
		t.Errorf("Expected later scanner to see earlier redaction, saw %q", seen)
	}
	if res.SanitizedText != "clean text" {
		t.Errorf("Expected final sanitized text, got %q", res.SanitizedText)
	}
}

func TestPipeline_SequentialErrorFailsFast(t *testing.T) {
	after := &fakeScanner{name: "after", valid: true}
	p := New().
		Add(&fakeScanner{name: "broken", err: errors.New("backend unavailable")}).
		Add(after)

	_, err := p.Execute(context.Background(), "x", vault.New())
	var serr *scan.ScannerError
	if !errors.As(err, &serr) {
		t.Fatalf("Expected ScannerError, got %v", err)
	}
	if serr.Scanner != "broken" {
		t.Errorf("Expected failing scanner name, got %q", serr.Scanner)
	}
	if got := after.calls.Load(); got != 0 {
		t.Errorf("Expected no scanners after failure, got %d calls", got)
	}
}

func TestPipeline_ParallelOrderPreserved(t *testing.T) {
	// Randomized delays: result order must match registration order for
	// any permutation of completion times.
	rng := rand.New(rand.NewSource(7))

	for trial := 0; trial < 10; trial++ {
		p := New()
		want := []string{"s0", "s1", "s2", "s3", "s4"}
		for _, name := range want {
			p.Add(&fakeScanner{
				name:  name,
				valid: true,
				delay: time.Duration(rng.Intn(20)) * time.Millisecond,
			})
		}

		res, err := p.ExecuteParallel(context.Background(), "input", vault.New())
		if err != nil {
			t.Fatalf("ExecuteParallel failed: %v", err)
		}

		if len(res.Entities) != len(want) {
			t.Fatalf("Expected %d entities, got %d", len(want), len(res.Entities))
		}
		for i, e := range res.Entities {
			if e.Type != want[i] {
				t.Fatalf("trial %d: entity %d = %q, want %q", trial, i, e.Type, want[i])
			}
		}
	}
}

func TestPipeline_ParallelMatchesSequential(t *testing.T) {
	build := func() *Pipeline {
		return New().
			Add(&fakeScanner{name: "a", risk: 0.2, valid: true, delay: 15 * time.Millisecond}).
			Add(&fakeScanner{name: "b", risk: 0.6, valid: false, delay: 1 * time.Millisecond}).
			Add(&fakeScanner{name: "c", risk: 0.4, valid: true})
	}

	seq, err := build().Execute(context.Background(), "input", vault.New())
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	par, err := build().ExecuteParallel(context.Background(), "input", vault.New())
	if err != nil {
		t.Fatalf("ExecuteParallel failed: %v", err)
	}

	if seq.RiskScore != par.RiskScore || seq.IsValid != par.IsValid {
		t.Errorf("Expected identical verdicts, seq=(%f,%v) par=(%f,%v)",
			seq.RiskScore, seq.IsValid, par.RiskScore, par.IsValid)
	}
	if len(seq.Entities) != len(par.Entities) {
		t.Fatalf("Expected same entity count, %d vs %d", len(seq.Entities), len(par.Entities))
	}
	for i := range seq.Entities {
		if seq.Entities[i].Type != par.Entities[i].Type {
			t.Errorf("Entity %d differs: %q vs %q", i, seq.Entities[i].Type, par.Entities[i].Type)
		}
	}
}

func TestPipeline_ParallelFirstRedactorWins(t *testing.T) {
	p := New().
		Add(&fakeScanner{name: "slow-redactor", valid: true, redact: "first-redaction", delay: 20 * time.Millisecond}).
		Add(&fakeScanner{name: "fast-redactor", valid: true, redact: "second-redaction"})

	res, err := p.ExecuteParallel(context.Background(), "input", vault.New())
	if err != nil {
		t.Fatalf("ExecuteParallel failed: %v", err)
	}

	// First-registered redactor wins regardless of completion order.
	if res.SanitizedText != "first-redaction" {
		t.Errorf("Expected first-registered redaction, got %q", res.SanitizedText)
	}
}

func TestPipeline_ParallelNoShortCircuit(t *testing.T) {
	tail := &fakeScanner{name: "tail", risk: 0.1, valid: true, delay: 10 * time.Millisecond}
	p := New().
		Add(&fakeScanner{name: "hot", risk: 1.0, valid: false}).
		Add(tail).
		WithShortCircuit(0.5)

	if _, err := p.ExecuteParallel(context.Background(), "x", vault.New()); err != nil {
		t.Fatalf("ExecuteParallel failed: %v", err)
	}
	// Once launched, parallel scanners always run to completion.
	if got := tail.calls.Load(); got != 1 {
		t.Errorf("Expected parallel scanner to complete, got %d calls", got)
	}
}

func TestPipeline_ParallelErrorDeterministic(t *testing.T) {
	p := New().
		Add(&fakeScanner{name: "err-slow", err: errors.New("slow failure"), delay: 15 * time.Millisecond}).
		Add(&fakeScanner{name: "err-fast", err: errors.New("fast failure")})

	_, err := p.ExecuteParallel(context.Background(), "x", vault.New())
	var serr *scan.ScannerError
	if !errors.As(err, &serr) {
		t.Fatalf("Expected ScannerError, got %v", err)
	}
	// First error in registration order, not completion order.
	if serr.Scanner != "err-slow" {
		t.Errorf("Expected error from first-registered scanner, got %q", serr.Scanner)
	}
}

func TestPipeline_EmptyIsIdentity(t *testing.T) {
	for _, mode := range []string{"sequential", "parallel"} {
		p := New()
		var res *scan.Result
		var err error
		if mode == "sequential" {
			res, err = p.Execute(context.Background(), "Hello world", vault.New())
		} else {
			res, err = p.ExecuteParallel(context.Background(), "Hello world", vault.New())
		}
		if err != nil {
			t.Fatalf("%s: execute failed: %v", mode, err)
		}
		if !res.IsValid || res.RiskScore != 0.0 || res.SanitizedText != "Hello world" || len(res.Entities) != 0 {
			t.Errorf("%s: expected identity result, got %+v", mode, res)
		}
	}
}

func TestPipeline_VaultShared(t *testing.T) {
	writer := scannerFunc{name: "writer", fn: func(ctx context.Context, input string, v *vault.Vault) (*scan.Result, error) {
		if err := v.Set("writer:flag", true); err != nil {
			return nil, err
		}
		return scan.Pass(input), nil
	}}
	reader := scannerFunc{name: "reader", fn: func(ctx context.Context, input string, v *vault.Vault) (*scan.Result, error) {
		var flag bool
		ok, err := v.Get("writer:flag", &flag)
		if err != nil {
			return nil, err
		}
		if !ok || !flag {
			return scan.Fail(input, 1.0), nil
		}
		return scan.Pass(input), nil
	}}

	// Sequential mode guarantees the writer's vault write is visible to
	// the reader.
	res, err := New().Add(writer).Add(reader).Execute(context.Background(), "x", vault.New())
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if !res.IsValid {
		t.Error("Expected reader to observe writer's vault entry")
	}
}

func TestPipeline_SequentialContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := New().Add(&fakeScanner{name: "a", valid: true})
	if _, err := p.Execute(ctx, "x", vault.New()); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestPipeline_SequentialFullRedactionChains(t *testing.T) {
	seen := "unset"
	p := New().
		Add(scannerFunc{name: "wipe", fn: func(ctx context.Context, input string, v *vault.Vault) (*scan.Result, error) {
			return scan.NewResult("", false, 0.5), nil
		}}).
		Add(scannerFunc{name: "tail", fn: func(ctx context.Context, input string, v *vault.Vault) (*scan.Result, error) {
			seen = input
			return scan.Pass(input), nil
		}})

	res, err := p.Execute(context.Background(), "wipe me", vault.New())
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	// Redacting everything is still a redaction, not a no-op.
	if seen != "" {
		t.Errorf("Expected later scanner to see the full redaction, saw %q", seen)
	}
	if res.SanitizedText != "" {
		t.Errorf("Expected empty sanitized text, got %q", res.SanitizedText)
	}
}

func TestPipeline_ParallelFullRedactionWins(t *testing.T) {
	p := New().
		Add(scannerFunc{name: "wipe", fn: func(ctx context.Context, input string, v *vault.Vault) (*scan.Result, error) {
			return scan.NewResult("", false, 0.5), nil
		}}).
		Add(&fakeScanner{name: "pass", valid: true})

	res, err := p.ExecuteParallel(context.Background(), "wipe me", vault.New())
	if err != nil {
		t.Fatalf("ExecuteParallel failed: %v", err)
	}
	if res.SanitizedText != "" {
		t.Errorf("Expected empty sanitized text from full redaction, got %q", res.SanitizedText)
	}
}

// scannerFunc adapts a function to the Scanner interface.
type scannerFunc struct {
	name string
	fn   func(ctx context.Context, input string, v *vault.Vault) (*scan.Result, error)
}

func (s scannerFunc) Name() string        { return s.name }
func (s scannerFunc) Type() scan.Type     { return scan.TypeInput }
func (s scannerFunc) Description() string { return "test scanner" }

func (s scannerFunc) Scan(ctx context.Context, input string, v *vault.Vault) (*scan.Result, error) {
	return s.fn(ctx, input, v)
}
