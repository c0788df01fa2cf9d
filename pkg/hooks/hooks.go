package hooks

import (
	"context"
	"fmt"
	"log/slog"

	"sentra-hq/sentra/pkg/scan"
	"sentra-hq/sentra/pkg/vault"
)

// Kind tags a HookResult.
type Kind int

const (
	// KindContinue proceeds to the next hook or to the detectors.
	KindContinue Kind = iota
	// KindSkip approves or rejects without further processing.
	KindSkip
	// KindModify applies an additive risk score adjustment.
	KindModify
	// KindError reports a hook failure with an explicit fallback.
	KindError
)

// HookResult is the tagged outcome of one hook invocation.
type HookResult struct {
	Kind       Kind
	Reason     string   // Skip: why; Error: message
	Allow      bool     // Skip: approve (true) or reject (false)
	Adjustment float64  // Modify: additive risk score delta
	Fallback   Fallback // Error: how to resolve the failure
}

// Continue returns a pass-through result.
func Continue() HookResult {
	return HookResult{Kind: KindContinue}
}

// SkipApproved approves the content without running detectors.
func SkipApproved(reason string) HookResult {
	return HookResult{Kind: KindSkip, Reason: reason, Allow: true}
}

// SkipRejected rejects the content without running detectors.
func SkipRejected(reason string) HookResult {
	return HookResult{Kind: KindSkip, Reason: reason, Allow: false}
}

// Modify applies an additive risk score adjustment.
func Modify(adjustment float64) HookResult {
	return HookResult{Kind: KindModify, Adjustment: adjustment}
}

// Error reports a hook failure resolved through fallback.
func Error(message string, fallback Fallback) HookResult {
	return HookResult{Kind: KindError, Reason: message, Fallback: fallback}
}

// Fallback selects how a hook failure is resolved.
type Fallback int

const (
	// FallbackContinue ignores the error and proceeds. The default.
	FallbackContinue Fallback = iota
	// FallbackAllow treats the content as approved.
	FallbackAllow
	// FallbackBlock treats the content as rejected.
	FallbackBlock
	// FallbackFail propagates a hard pipeline error.
	FallbackFail
)

// String returns the lowercase name of the fallback.
func (f Fallback) String() string {
	switch f {
	case FallbackAllow:
		return "allow"
	case FallbackBlock:
		return "block"
	case FallbackFail:
		return "fail"
	default:
		return "continue"
	}
}

// ScanHook intercepts a scan before or after detector execution.
//
// OnPreScan and OnPostScan may return a HookResult to steer the scan, or an
// error when the hook itself failed; errors are mapped through Fallback.
type ScanHook interface {
	// Name identifies the hook.
	Name() string

	// OnPreScan runs before detectors over the raw content.
	OnPreScan(ctx context.Context, content string, v *vault.Vault) (HookResult, error)

	// OnPostScan runs after detectors over the combined result.
	OnPostScan(ctx context.Context, result *scan.Result, v *vault.Vault) (HookResult, error)

	// Enabled reports whether the hook participates at all.
	Enabled() bool

	// Fallback resolves errors returned by OnPreScan/OnPostScan.
	Fallback() Fallback
}

// PreScanDecision tags a PreScanResult.
type PreScanDecision int

const (
	// DecisionContinue proceeds to detector execution.
	DecisionContinue PreScanDecision = iota
	// DecisionApproved skips detectors, content allowed.
	DecisionApproved
	// DecisionRejected skips detectors, content blocked.
	DecisionRejected
	// DecisionModify proceeds to detectors with a risk adjustment.
	DecisionModify
)

// PreScanResult is the outcome of the pre-scan hook chain.
type PreScanResult struct {
	Decision   PreScanDecision
	Reason     string
	Adjustment float64
}

// ShouldScan reports whether detector execution should proceed.
func (r PreScanResult) ShouldScan() bool {
	return r.Decision == DecisionContinue || r.Decision == DecisionModify
}

// Hooks holds ordered pre-scan and post-scan hook chains.
type Hooks struct {
	preScan  []ScanHook
	postScan []ScanHook
	logger   *slog.Logger
}

// New creates an empty hook container.
func New() *Hooks {
	return &Hooks{
		logger: slog.Default().With("component", "hooks"),
	}
}

// WithPreScan appends a pre-scan hook.
func (h *Hooks) WithPreScan(hook ScanHook) *Hooks {
	h.preScan = append(h.preScan, hook)
	return h
}

// WithPostScan appends a post-scan hook.
func (h *Hooks) WithPostScan(hook ScanHook) *Hooks {
	h.postScan = append(h.postScan, hook)
	return h
}

// WithLogger sets the logger used for hook failures.
func (h *Hooks) WithLogger(logger *slog.Logger) *Hooks {
	if logger != nil {
		h.logger = logger
	}
	return h
}

// HasHooks reports whether any hook is registered.
func (h *Hooks) HasHooks() bool {
	return len(h.preScan) > 0 || len(h.postScan) > 0
}

// PreScanCount returns the number of registered pre-scan hooks.
func (h *Hooks) PreScanCount() int { return len(h.preScan) }

// PostScanCount returns the number of registered post-scan hooks.
func (h *Hooks) PostScanCount() int { return len(h.postScan) }

// Register records the hook roster in the vault so scanners can discover
// which interceptors are active for the request.
func (h *Hooks) Register(v *vault.Vault) error {
	pre := make([]string, 0, len(h.preScan))
	for _, hook := range h.preScan {
		pre = append(pre, hook.Name())
	}
	post := make([]string, 0, len(h.postScan))
	for _, hook := range h.postScan {
		post = append(post, hook.Name())
	}

	if err := v.Set("runtime_hooks:pre_scan", pre); err != nil {
		return err
	}
	return v.Set("runtime_hooks:post_scan", post)
}

// ExecutePreScan runs the enabled pre-scan hooks in registration order.
// The first hook returning Skip or Modify stops further evaluation
// (first-decisive-hook wins). Hook errors are mapped through the hook's
// fallback: Allow and Block decide immediately, Continue moves on, Fail
// propagates.
func (h *Hooks) ExecutePreScan(ctx context.Context, content string, v *vault.Vault) (PreScanResult, error) {
	for _, hook := range h.preScan {
		if !hook.Enabled() {
			continue
		}

		res, err := hook.OnPreScan(ctx, content, v)
		if err != nil {
			res = Error(err.Error(), hook.Fallback())
		}

		switch res.Kind {
		case KindContinue:
			continue

		case KindSkip:
			if res.Allow {
				return PreScanResult{Decision: DecisionApproved, Reason: res.Reason}, nil
			}
			return PreScanResult{Decision: DecisionRejected, Reason: res.Reason}, nil

		case KindModify:
			return PreScanResult{Decision: DecisionModify, Adjustment: res.Adjustment}, nil

		case KindError:
			switch res.Fallback {
			case FallbackAllow:
				return PreScanResult{
					Decision: DecisionApproved,
					Reason:   fmt.Sprintf("hook error (allowed): %s", res.Reason),
				}, nil
			case FallbackBlock:
				return PreScanResult{
					Decision: DecisionRejected,
					Reason:   fmt.Sprintf("hook error (blocked): %s", res.Reason),
				}, nil
			case FallbackFail:
				return PreScanResult{}, &HookError{Hook: hook.Name(), Phase: "pre_scan", Message: res.Reason}
			default:
				h.logger.Warn("pre-scan hook failed, continuing",
					"hook", hook.Name(),
					"error", res.Reason,
				)
				continue
			}
		}
	}

	return PreScanResult{Decision: DecisionContinue}, nil
}

// ExecutePostScan runs the enabled post-scan hooks in registration order
// over the already-combined result. Modify adjusts the risk score additively
// (clamped to [0,1]) and records the adjustment in metadata. A rejecting
// Skip forces the result invalid with risk 1.0 and stops further hooks.
// Errors follow the hook's fallback, with Block forcing rejection and
// recording the error in metadata.
func (h *Hooks) ExecutePostScan(ctx context.Context, result *scan.Result, v *vault.Vault) (*scan.Result, error) {
	for _, hook := range h.postScan {
		if !hook.Enabled() {
			continue
		}

		res, err := hook.OnPostScan(ctx, result, v)
		if err != nil {
			res = Error(err.Error(), hook.Fallback())
		}

		switch res.Kind {
		case KindContinue:
			continue

		case KindModify:
			result.RiskScore = clamp(result.RiskScore + res.Adjustment)
			result.WithMetadata("hook_adjustment", res.Adjustment)

		case KindSkip:
			if !res.Allow {
				result.IsValid = false
				result.RiskScore = 1.0
			}
			result.WithMetadata("hook_override", res.Reason)
			return result, nil

		case KindError:
			switch res.Fallback {
			case FallbackBlock:
				result.IsValid = false
				result.RiskScore = 1.0
				result.WithMetadata("hook_error", fmt.Sprintf("blocked: %s", res.Reason))
				return result, nil
			case FallbackFail:
				return nil, &HookError{Hook: hook.Name(), Phase: "post_scan", Message: res.Reason}
			default:
				h.logger.Warn("post-scan hook failed, continuing",
					"hook", hook.Name(),
					"error", res.Reason,
				)
				continue
			}
		}
	}

	return result, nil
}

// HookError is a hook failure escalated under FallbackFail.
type HookError struct {
	Hook    string
	Phase   string
	Message string
}

// Error implements the error interface.
func (e *HookError) Error() string {
	return fmt.Sprintf("%s hook %q failed: %s", e.Phase, e.Hook, e.Message)
}

// clamp bounds a risk score to [0, 1].
func clamp(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
