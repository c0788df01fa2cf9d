package scanners

import (
	"context"
	"strings"
	"testing"

	"sentra-hq/sentra/pkg/vault"
)

func TestTokenLimit_Validation(t *testing.T) {
	if _, err := NewTokenLimit(TokenLimitConfig{Limit: 0}); err == nil {
		t.Error("Expected error for zero limit")
	}
}

func TestTokenLimit_UnderLimit(t *testing.T) {
	s, err := NewTokenLimit(TokenLimitConfig{Limit: 100})
	if err != nil {
		t.Fatalf("NewTokenLimit failed: %v", err)
	}

	res, err := s.Scan(context.Background(), "a short prompt", vault.New())
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if !res.IsValid {
		t.Error("Expected short input to pass")
	}
	if res.Metadata["token_count"] == nil {
		t.Error("Expected token count in metadata")
	}
}

func TestTokenLimit_OverLimit(t *testing.T) {
	s, _ := NewTokenLimit(TokenLimitConfig{Limit: 10})

	long := strings.Repeat("word ", 50)
	res, err := s.Scan(context.Background(), long, vault.New())
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	if res.IsValid {
		t.Error("Expected over-limit input to fail")
	}
	// A length guard reports a risk factor but no specific span.
	if len(res.Entities) != 0 {
		t.Errorf("Expected no entities, got %d", len(res.Entities))
	}
	if len(res.RiskFactors) != 1 {
		t.Fatalf("Expected one risk factor, got %d", len(res.RiskFactors))
	}
	if res.RiskScore <= 0 || res.RiskScore > 1 {
		t.Errorf("Expected risk in (0,1], got %f", res.RiskScore)
	}
	if res.SanitizedText != long {
		t.Error("Expected text unchanged")
	}
}
