package scan

import (
	"math/rand"
	"testing"
)

func TestResult_Pass(t *testing.T) {
	r := Pass("hello")
	if !r.IsValid {
		t.Error("Expected passing result to be valid")
	}
	if r.RiskScore != 0.0 {
		t.Errorf("Expected risk 0.0, got %f", r.RiskScore)
	}
	if r.SanitizedText != "hello" {
		t.Errorf("Expected text unchanged, got %q", r.SanitizedText)
	}
	if r.Severity() != SeverityNone {
		t.Errorf("Expected severity none, got %v", r.Severity())
	}
}

func TestResult_Fail(t *testing.T) {
	r := Fail("bad", 0.85)
	if r.IsValid {
		t.Error("Expected failing result to be invalid")
	}
	if r.RiskScore != 0.85 {
		t.Errorf("Expected risk 0.85, got %f", r.RiskScore)
	}
	if r.Severity() != SeverityHigh {
		t.Errorf("Expected severity high, got %v", r.Severity())
	}
}

func TestResult_ScoreClamped(t *testing.T) {
	if r := NewResult("x", false, 1.7); r.RiskScore != 1.0 {
		t.Errorf("Expected clamp to 1.0, got %f", r.RiskScore)
	}
	if r := NewResult("x", true, -0.3); r.RiskScore != 0.0 {
		t.Errorf("Expected clamp to 0.0, got %f", r.RiskScore)
	}
}

func TestResult_Builder(t *testing.T) {
	r := Pass("text").
		WithEntity(NewEntity("email", "a@b.com", 0, 7, 0.95)).
		WithRiskFactor(RiskFactor{Name: "pii", Description: "email detected", Severity: SeverityLow, Score: 0.2}).
		WithMetadata("scanner", "test")

	if len(r.Entities) != 1 {
		t.Errorf("Expected 1 entity, got %d", len(r.Entities))
	}
	if len(r.RiskFactors) != 1 {
		t.Errorf("Expected 1 risk factor, got %d", len(r.RiskFactors))
	}
	if r.Metadata["scanner"] != "test" {
		t.Errorf("Expected metadata scanner=test, got %v", r.Metadata["scanner"])
	}
}

func TestCombine_Empty(t *testing.T) {
	combined := Combine("original", nil)
	if !combined.IsValid {
		t.Error("Expected identity to be valid")
	}
	if combined.RiskScore != 0.0 {
		t.Errorf("Expected identity risk 0.0, got %f", combined.RiskScore)
	}
	if combined.SanitizedText != "original" {
		t.Errorf("Expected original text, got %q", combined.SanitizedText)
	}
	if len(combined.Entities) != 0 {
		t.Errorf("Expected no entities, got %d", len(combined.Entities))
	}
}

func TestCombine_MaxRiskAndValidity(t *testing.T) {
	results := []*Result{
		Fail("text", 0.3),
		Fail("text", 0.7),
		Pass("text"),
	}

	combined := Combine("text", results)
	if combined.RiskScore != 0.7 {
		t.Errorf("Expected max risk 0.7, got %f", combined.RiskScore)
	}
	if combined.IsValid {
		t.Error("Expected combined result to be invalid")
	}
}

// Combine must take the maximum score and AND the validity for any inputs,
// never averaging.
func TestCombine_Property(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for trial := 0; trial < 100; trial++ {
		n := 1 + rng.Intn(8)
		results := make([]*Result, 0, n)
		wantMax := 0.0
		wantValid := true

		for i := 0; i < n; i++ {
			score := rng.Float64()
			valid := rng.Intn(2) == 0
			if score > wantMax {
				wantMax = score
			}
			wantValid = wantValid && valid
			results = append(results, NewResult("t", valid, score))
		}

		combined := Combine("t", results)
		if combined.RiskScore != wantMax {
			t.Fatalf("trial %d: expected max %f, got %f", trial, wantMax, combined.RiskScore)
		}
		if combined.IsValid != wantValid {
			t.Fatalf("trial %d: expected valid=%v, got %v", trial, wantValid, combined.IsValid)
		}
	}
}

func TestCombine_OrderPreserved(t *testing.T) {
	r1 := Pass("text").WithEntity(NewEntity("a", "x", 0, 1, 1)).
		WithRiskFactor(RiskFactor{Name: "first"})
	r2 := Pass("text").WithEntity(NewEntity("b", "y", 1, 2, 1)).
		WithRiskFactor(RiskFactor{Name: "second"})

	combined := Combine("text", []*Result{r1, r2})
	if combined.Entities[0].Type != "a" || combined.Entities[1].Type != "b" {
		t.Errorf("Expected entity order a,b got %v", combined.Entities)
	}
	if combined.RiskFactors[0].Name != "first" || combined.RiskFactors[1].Name != "second" {
		t.Errorf("Expected risk factor order preserved, got %v", combined.RiskFactors)
	}
}

func TestCombine_SanitizedLastNonIdentityWins(t *testing.T) {
	results := []*Result{
		Pass("original"),
		NewResult("redacted-1", true, 0.1),
		Pass("original"),
		NewResult("redacted-2", true, 0.2),
		Pass("original"),
	}

	combined := Combine("original", results)
	if combined.SanitizedText != "redacted-2" {
		t.Errorf("Expected last non-identity sanitization, got %q", combined.SanitizedText)
	}
}

func TestCombine_MetadataLastWins(t *testing.T) {
	r1 := Pass("t").WithMetadata("key", "first").WithMetadata("only1", 1)
	r2 := Pass("t").WithMetadata("key", "second")

	combined := Combine("t", []*Result{r1, r2})
	if combined.Metadata["key"] != "second" {
		t.Errorf("Expected later metadata to win, got %v", combined.Metadata["key"])
	}
	if combined.Metadata["only1"] != 1 {
		t.Errorf("Expected unrelated key preserved, got %v", combined.Metadata["only1"])
	}
}

func TestSeverityForScore(t *testing.T) {
	cases := []struct {
		score float64
		want  Severity
	}{
		{0.0, SeverityNone},
		{0.1, SeverityLow},
		{0.4, SeverityMedium},
		{0.7, SeverityHigh},
		{0.9, SeverityCritical},
		{1.0, SeverityCritical},
	}

	for _, tc := range cases {
		if got := SeverityForScore(tc.score); got != tc.want {
			t.Errorf("SeverityForScore(%f) = %v, want %v", tc.score, got, tc.want)
		}
	}
}

func TestSeverity_Ordering(t *testing.T) {
	if !(SeverityCritical > SeverityHigh && SeverityHigh > SeverityMedium &&
		SeverityMedium > SeverityLow && SeverityLow > SeverityNone) {
		t.Error("Expected severity levels to be strictly ordered")
	}
}
