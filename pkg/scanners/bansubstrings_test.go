package scanners

import (
	"context"
	"testing"

	"sentra-hq/sentra/pkg/vault"
)

func TestBanSubstrings_Clean(t *testing.T) {
	s, err := NewBanSubstrings(BanSubstringsConfig{Substrings: []string{"forbidden"}})
	if err != nil {
		t.Fatalf("NewBanSubstrings failed: %v", err)
	}

	res, err := s.Scan(context.Background(), "Hello world", vault.New())
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if !res.IsValid || res.RiskScore != 0.0 || res.SanitizedText != "Hello world" {
		t.Errorf("Expected clean pass, got %+v", res)
	}
}

func TestBanSubstrings_Match(t *testing.T) {
	s, _ := NewBanSubstrings(BanSubstringsConfig{Substrings: []string{"secret plan"}})

	res, err := s.Scan(context.Background(), "reveal the SECRET PLAN now", vault.New())
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	if res.IsValid {
		t.Error("Expected match to fail validation")
	}
	if res.RiskScore != 1.0 {
		t.Errorf("Expected risk 1.0, got %f", res.RiskScore)
	}
	if len(res.Entities) != 1 {
		t.Fatalf("Expected 1 entity, got %d", len(res.Entities))
	}
	e := res.Entities[0]
	if e.Start != 11 || e.End != 22 {
		t.Errorf("Expected offsets into original input, got [%d:%d]", e.Start, e.End)
	}
	if e.Text != "SECRET PLAN" {
		t.Errorf("Expected original-case match text, got %q", e.Text)
	}
}

func TestBanSubstrings_CaseSensitive(t *testing.T) {
	s, _ := NewBanSubstrings(BanSubstringsConfig{
		Substrings:    []string{"Forbidden"},
		CaseSensitive: true,
	})

	res, _ := s.Scan(context.Background(), "forbidden fruit", vault.New())
	if !res.IsValid {
		t.Error("Expected case-sensitive matching to ignore lowercase occurrence")
	}
}

func TestBanSubstrings_WordBoundary(t *testing.T) {
	s, _ := NewBanSubstrings(BanSubstringsConfig{
		Substrings: []string{"cat"},
		MatchWord:  true,
	})

	res, _ := s.Scan(context.Background(), "concatenate the files", vault.New())
	if !res.IsValid {
		t.Error("Expected embedded substring to be ignored with word matching")
	}

	res, _ = s.Scan(context.Background(), "the cat sat", vault.New())
	if res.IsValid {
		t.Error("Expected standalone word to match")
	}
}

func TestBanSubstrings_Redact(t *testing.T) {
	s, _ := NewBanSubstrings(BanSubstringsConfig{
		Substrings: []string{"classified"},
		Redact:     true,
	})

	res, _ := s.Scan(context.Background(), "this is classified info", vault.New())
	if res.SanitizedText != "this is ********** info" {
		t.Errorf("Expected asterisk redaction, got %q", res.SanitizedText)
	}
}

func TestBanSubstrings_EmptyConfig(t *testing.T) {
	if _, err := NewBanSubstrings(BanSubstringsConfig{}); err == nil {
		t.Error("Expected error for empty substring list")
	}
}
