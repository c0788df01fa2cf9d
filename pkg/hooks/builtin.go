package hooks

import (
	"context"
	"fmt"

	"sentra-hq/sentra/pkg/scan"
	"sentra-hq/sentra/pkg/vault"
)

// BaseHook provides no-op defaults for optional ScanHook methods. Embed it
// and override what the hook actually needs.
type BaseHook struct {
	HookName     string
	Disabled     bool
	FallbackMode Fallback
}

// Name returns the hook name.
func (b *BaseHook) Name() string { return b.HookName }

// OnPreScan continues by default.
func (b *BaseHook) OnPreScan(ctx context.Context, content string, v *vault.Vault) (HookResult, error) {
	return Continue(), nil
}

// OnPostScan continues by default.
func (b *BaseHook) OnPostScan(ctx context.Context, result *scan.Result, v *vault.Vault) (HookResult, error) {
	return Continue(), nil
}

// Enabled reports whether the hook participates.
func (b *BaseHook) Enabled() bool { return !b.Disabled }

// Fallback returns the configured failure fallback.
func (b *BaseHook) Fallback() Fallback { return b.FallbackMode }

// PolicyDecision is an externally-populated verdict a policy system can
// place in the vault ahead of detector execution.
type PolicyDecision struct {
	Block  bool   `json:"block"`
	Reason string `json:"reason"`
}

// PolicyPreCheckHook consults a cached policy decision in the vault and
// rejects the content before any detector runs. The policy system that
// populates the key stays invisible to the pipeline.
type PolicyPreCheckHook struct {
	BaseHook
	CheckType string
}

// NewPolicyPreCheckHook creates a pre-scan hook keyed by check type.
func NewPolicyPreCheckHook(checkType string) *PolicyPreCheckHook {
	return &PolicyPreCheckHook{
		BaseHook:  BaseHook{HookName: "policy_pre_check"},
		CheckType: checkType,
	}
}

// OnPreScan rejects when a cached blocking decision exists for the check
// type, and continues otherwise.
func (h *PolicyPreCheckHook) OnPreScan(ctx context.Context, content string, v *vault.Vault) (HookResult, error) {
	var decision PolicyDecision
	ok, err := v.Get(fmt.Sprintf("policy_cache:%s", h.CheckType), &decision)
	if err != nil {
		return HookResult{}, err
	}
	if ok && decision.Block {
		return SkipRejected(decision.Reason), nil
	}
	return Continue(), nil
}

// ThresholdProvider supplies the current rejection threshold for a result.
// The config system implements it; a hot reload changes the value between
// requests without touching the hook chain.
type ThresholdProvider interface {
	Threshold() float64
}

// ConfigThresholdHook marks results whose risk score reaches the configured
// threshold as invalid during post-scan, letting operators tighten or relax
// the verdict without redeploying scanners.
type ConfigThresholdHook struct {
	BaseHook
	Provider ThresholdProvider
}

// NewConfigThresholdHook creates a post-scan hook bound to a threshold
// provider.
func NewConfigThresholdHook(p ThresholdProvider) *ConfigThresholdHook {
	return &ConfigThresholdHook{
		BaseHook: BaseHook{HookName: "config_threshold"},
		Provider: p,
	}
}

// OnPostScan rejects results at or above the configured threshold.
func (h *ConfigThresholdHook) OnPostScan(ctx context.Context, result *scan.Result, v *vault.Vault) (HookResult, error) {
	if h.Provider == nil {
		return Continue(), nil
	}

	threshold := h.Provider.Threshold()
	if threshold > 0 && result.RiskScore >= threshold && result.IsValid {
		return SkipRejected(fmt.Sprintf("risk score %.2f at or above threshold %.2f", result.RiskScore, threshold)), nil
	}
	return Continue(), nil
}
