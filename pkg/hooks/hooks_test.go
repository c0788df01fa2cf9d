package hooks

import (
	"context"
	"errors"
	"testing"

	"sentra-hq/sentra/pkg/scan"
	"sentra-hq/sentra/pkg/vault"
)

// testHook returns canned results and records invocations.
type testHook struct {
	BaseHook
	pre    HookResult
	post   HookResult
	preErr error
	called int
}

func (h *testHook) OnPreScan(ctx context.Context, content string, v *vault.Vault) (HookResult, error) {
	h.called++
	return h.pre, h.preErr
}

func (h *testHook) OnPostScan(ctx context.Context, result *scan.Result, v *vault.Vault) (HookResult, error) {
	h.called++
	return h.post, nil
}

func TestExecutePreScan_Empty(t *testing.T) {
	res, err := New().ExecutePreScan(context.Background(), "content", vault.New())
	if err != nil {
		t.Fatalf("ExecutePreScan failed: %v", err)
	}
	if res.Decision != DecisionContinue || !res.ShouldScan() {
		t.Errorf("Expected continue decision, got %+v", res)
	}
}

func TestExecutePreScan_FirstDecisiveWins(t *testing.T) {
	first := &testHook{BaseHook: BaseHook{HookName: "first"}, pre: SkipApproved("pre-approved")}
	second := &testHook{BaseHook: BaseHook{HookName: "second"}, pre: SkipRejected("should not run")}

	res, err := New().WithPreScan(first).WithPreScan(second).
		ExecutePreScan(context.Background(), "content", vault.New())
	if err != nil {
		t.Fatalf("ExecutePreScan failed: %v", err)
	}

	if res.Decision != DecisionApproved || res.Reason != "pre-approved" {
		t.Errorf("Expected first hook's approval, got %+v", res)
	}
	if second.called != 0 {
		t.Errorf("Expected second hook never invoked, got %d calls", second.called)
	}
}

func TestExecutePreScan_ModifyStopsChain(t *testing.T) {
	modifier := &testHook{BaseHook: BaseHook{HookName: "modifier"}, pre: Modify(0.2)}
	after := &testHook{BaseHook: BaseHook{HookName: "after"}, pre: SkipRejected("unreachable")}

	res, err := New().WithPreScan(modifier).WithPreScan(after).
		ExecutePreScan(context.Background(), "content", vault.New())
	if err != nil {
		t.Fatalf("ExecutePreScan failed: %v", err)
	}

	if res.Decision != DecisionModify || res.Adjustment != 0.2 {
		t.Errorf("Expected modify decision, got %+v", res)
	}
	if !res.ShouldScan() {
		t.Error("Expected modify to still run detectors")
	}
	if after.called != 0 {
		t.Errorf("Expected chain to stop at modify, got %d calls", after.called)
	}
}

func TestExecutePreScan_Rejected(t *testing.T) {
	hook := &testHook{BaseHook: BaseHook{HookName: "rejector"}, pre: SkipRejected("banned topic")}

	res, err := New().WithPreScan(hook).ExecutePreScan(context.Background(), "content", vault.New())
	if err != nil {
		t.Fatalf("ExecutePreScan failed: %v", err)
	}
	if res.Decision != DecisionRejected || res.ShouldScan() {
		t.Errorf("Expected rejection without scanning, got %+v", res)
	}
}

func TestExecutePreScan_DisabledSkipped(t *testing.T) {
	disabled := &testHook{
		BaseHook: BaseHook{HookName: "disabled", Disabled: true},
		pre:      SkipRejected("should not apply"),
	}

	res, err := New().WithPreScan(disabled).ExecutePreScan(context.Background(), "content", vault.New())
	if err != nil {
		t.Fatalf("ExecutePreScan failed: %v", err)
	}
	if disabled.called != 0 {
		t.Errorf("Expected disabled hook skipped, got %d calls", disabled.called)
	}
	if res.Decision != DecisionContinue {
		t.Errorf("Expected continue, got %+v", res)
	}
}

func TestExecutePreScan_ErrorFallbacks(t *testing.T) {
	cases := []struct {
		fallback Fallback
		want     PreScanDecision
		wantErr  bool
	}{
		{FallbackAllow, DecisionApproved, false},
		{FallbackBlock, DecisionRejected, false},
		{FallbackContinue, DecisionContinue, false},
		{FallbackFail, DecisionContinue, true},
	}

	for _, tc := range cases {
		t.Run(tc.fallback.String(), func(t *testing.T) {
			hook := &testHook{
				BaseHook: BaseHook{HookName: "failing"},
				pre:      Error("backend down", tc.fallback),
			}

			res, err := New().WithPreScan(hook).ExecutePreScan(context.Background(), "content", vault.New())
			if tc.wantErr {
				var herr *HookError
				if !errors.As(err, &herr) {
					t.Fatalf("Expected HookError, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ExecutePreScan failed: %v", err)
			}
			if res.Decision != tc.want {
				t.Errorf("Expected decision %v, got %v", tc.want, res.Decision)
			}
		})
	}
}

func TestExecutePreScan_ReturnedErrorUsesHookFallback(t *testing.T) {
	hook := &testHook{
		BaseHook: BaseHook{HookName: "erroring", FallbackMode: FallbackBlock},
		preErr:   errors.New("exploded"),
	}

	res, err := New().WithPreScan(hook).ExecutePreScan(context.Background(), "content", vault.New())
	if err != nil {
		t.Fatalf("ExecutePreScan failed: %v", err)
	}
	if res.Decision != DecisionRejected {
		t.Errorf("Expected Block fallback to reject, got %+v", res)
	}
}

func TestExecutePostScan_Modify(t *testing.T) {
	hook := &testHook{BaseHook: BaseHook{HookName: "adjuster"}, post: Modify(0.3)}

	result := scan.NewResult("text", true, 0.5)
	out, err := New().WithPostScan(hook).ExecutePostScan(context.Background(), result, vault.New())
	if err != nil {
		t.Fatalf("ExecutePostScan failed: %v", err)
	}

	if out.RiskScore != 0.8 {
		t.Errorf("Expected adjusted risk 0.8, got %f", out.RiskScore)
	}
	if out.Metadata["hook_adjustment"] != 0.3 {
		t.Errorf("Expected adjustment recorded in metadata, got %v", out.Metadata)
	}
}

func TestExecutePostScan_ModifyClamped(t *testing.T) {
	hook := &testHook{BaseHook: BaseHook{HookName: "adjuster"}, post: Modify(0.9)}

	out, err := New().WithPostScan(hook).
		ExecutePostScan(context.Background(), scan.NewResult("text", true, 0.5), vault.New())
	if err != nil {
		t.Fatalf("ExecutePostScan failed: %v", err)
	}
	if out.RiskScore != 1.0 {
		t.Errorf("Expected clamp to 1.0, got %f", out.RiskScore)
	}
}

func TestExecutePostScan_RejectingSkipStops(t *testing.T) {
	rejector := &testHook{BaseHook: BaseHook{HookName: "rejector"}, post: SkipRejected("policy override")}
	after := &testHook{BaseHook: BaseHook{HookName: "after"}, post: Modify(-1.0)}

	out, err := New().WithPostScan(rejector).WithPostScan(after).
		ExecutePostScan(context.Background(), scan.NewResult("text", true, 0.1), vault.New())
	if err != nil {
		t.Fatalf("ExecutePostScan failed: %v", err)
	}

	if out.IsValid || out.RiskScore != 1.0 {
		t.Errorf("Expected forced rejection, got valid=%v risk=%f", out.IsValid, out.RiskScore)
	}
	if out.Metadata["hook_override"] != "policy override" {
		t.Errorf("Expected override reason in metadata, got %v", out.Metadata)
	}
	if after.called != 0 {
		t.Errorf("Expected chain to stop, got %d calls", after.called)
	}
}

func TestExecutePostScan_ErrorBlockFallback(t *testing.T) {
	hook := &testHook{
		BaseHook: BaseHook{HookName: "failing"},
		post:     Error("policy engine down", FallbackBlock),
	}

	out, err := New().WithPostScan(hook).
		ExecutePostScan(context.Background(), scan.NewResult("text", true, 0.1), vault.New())
	if err != nil {
		t.Fatalf("ExecutePostScan failed: %v", err)
	}

	if out.IsValid || out.RiskScore != 1.0 {
		t.Errorf("Expected blocked result, got valid=%v risk=%f", out.IsValid, out.RiskScore)
	}
	if out.Metadata["hook_error"] == nil {
		t.Error("Expected hook error recorded in metadata")
	}
}

func TestExecutePostScan_ErrorFailFallback(t *testing.T) {
	hook := &testHook{
		BaseHook: BaseHook{HookName: "failing"},
		post:     Error("fatal", FallbackFail),
	}

	_, err := New().WithPostScan(hook).
		ExecutePostScan(context.Background(), scan.NewResult("text", true, 0.1), vault.New())
	var herr *HookError
	if !errors.As(err, &herr) {
		t.Fatalf("Expected HookError, got %v", err)
	}
	if herr.Hook != "failing" || herr.Phase != "post_scan" {
		t.Errorf("Expected hook identity in error, got %+v", herr)
	}
}

func TestRegister(t *testing.T) {
	h := New().
		WithPreScan(&testHook{BaseHook: BaseHook{HookName: "pre-1"}}).
		WithPreScan(&testHook{BaseHook: BaseHook{HookName: "pre-2"}}).
		WithPostScan(&testHook{BaseHook: BaseHook{HookName: "post-1"}})

	v := vault.New()
	if err := h.Register(v); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	var pre []string
	if ok, err := v.Get("runtime_hooks:pre_scan", &pre); err != nil || !ok || len(pre) != 2 {
		t.Errorf("Expected 2 pre-scan names, got %v (ok=%v err=%v)", pre, ok, err)
	}

	var post []string
	if ok, err := v.Get("runtime_hooks:post_scan", &post); err != nil || !ok || len(post) != 1 {
		t.Errorf("Expected 1 post-scan name, got %v (ok=%v err=%v)", post, ok, err)
	}
}

func TestPolicyPreCheckHook(t *testing.T) {
	hook := NewPolicyPreCheckHook("prompt-injection")
	v := vault.New()

	res, err := hook.OnPreScan(context.Background(), "content", v)
	if err != nil || res.Kind != KindContinue {
		t.Fatalf("Expected continue without a cached decision, got %+v err=%v", res, err)
	}

	v.Set("policy_cache:prompt-injection", PolicyDecision{Block: true, Reason: "tenant policy"})
	res, err = hook.OnPreScan(context.Background(), "content", v)
	if err != nil {
		t.Fatalf("OnPreScan failed: %v", err)
	}
	if res.Kind != KindSkip || res.Allow {
		t.Errorf("Expected rejection from cached decision, got %+v", res)
	}
}

type staticThreshold float64

func (s staticThreshold) Threshold() float64 { return float64(s) }

func TestConfigThresholdHook(t *testing.T) {
	hook := NewConfigThresholdHook(staticThreshold(0.7))

	res, err := hook.OnPostScan(context.Background(), scan.NewResult("t", true, 0.5), vault.New())
	if err != nil || res.Kind != KindContinue {
		t.Fatalf("Expected continue below threshold, got %+v err=%v", res, err)
	}

	res, err = hook.OnPostScan(context.Background(), scan.NewResult("t", true, 0.8), vault.New())
	if err != nil {
		t.Fatalf("OnPostScan failed: %v", err)
	}
	if res.Kind != KindSkip || res.Allow {
		t.Errorf("Expected rejection at threshold, got %+v", res)
	}
}
