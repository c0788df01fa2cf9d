package scanners

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"sentra-hq/sentra/pkg/scan"
	"sentra-hq/sentra/pkg/vault"
)

// TokenLimitConfig configures the token_limit scanner.
type TokenLimitConfig struct {
	// Limit is the maximum allowed approximate token count.
	Limit int `yaml:"limit"`
}

// DefaultTokenLimitConfig returns the default limit.
func DefaultTokenLimitConfig() TokenLimitConfig {
	return TokenLimitConfig{Limit: 4096}
}

// TokenLimit rejects inputs whose approximate token count exceeds the
// configured budget. It is a length guard: an over-limit result is invalid
// with a risk factor but no entity, since there is no specific span of
// concern.
type TokenLimit struct {
	config TokenLimitConfig
}

// NewTokenLimit creates the scanner. The limit must be positive.
func NewTokenLimit(cfg TokenLimitConfig) (*TokenLimit, error) {
	if cfg.Limit <= 0 {
		return nil, fmt.Errorf("token_limit: limit must be greater than 0, got %d", cfg.Limit)
	}
	return &TokenLimit{config: cfg}, nil
}

// Name implements scan.Scanner.
func (t *TokenLimit) Name() string { return "token_limit" }

// Type implements scan.Scanner.
func (t *TokenLimit) Type() scan.Type { return scan.TypeInput }

// Description implements scan.Scanner.
func (t *TokenLimit) Description() string {
	return "Rejects inputs exceeding the approximate token budget"
}

// Scan implements scan.Scanner.
func (t *TokenLimit) Scan(ctx context.Context, input string, v *vault.Vault) (*scan.Result, error) {
	count := approximateTokens(input)
	if count <= t.config.Limit {
		return scan.Pass(input).WithMetadata("token_count", count), nil
	}

	over := float64(count-t.config.Limit) / float64(t.config.Limit)
	score := 0.5 + over
	res := scan.NewResult(input, false, score)
	res.WithRiskFactor(scan.RiskFactor{
		Name:        "token_limit_exceeded",
		Description: fmt.Sprintf("approximately %d tokens exceeds limit of %d", count, t.config.Limit),
		Severity:    scan.SeverityMedium,
		Score:       res.RiskScore,
	})
	res.WithMetadata("token_count", count)
	res.WithMetadata("token_limit", t.config.Limit)
	return res, nil
}

// approximateTokens estimates the token count without a model-specific
// tokenizer: the larger of rune-count/4 and the word count, which tracks
// common BPE vocabularies closely enough for a budget guard.
func approximateTokens(text string) int {
	byRunes := utf8.RuneCountInString(text) / 4
	byWords := len(strings.Fields(text))
	if byWords > byRunes {
		return byWords
	}
	return byRunes
}
