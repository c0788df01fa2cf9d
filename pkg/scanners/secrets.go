package scanners

import (
	"context"
	"fmt"
	"regexp"

	"sentra-hq/sentra/pkg/scan"
	"sentra-hq/sentra/pkg/vault"
)

// SecretsConfig configures the secrets scanner.
type SecretsConfig struct {
	// Redact replaces detected secrets with a type-tagged placeholder.
	// Default true.
	Redact bool `yaml:"redact"`
}

// DefaultSecretsConfig returns the default configuration.
func DefaultSecretsConfig() SecretsConfig {
	return SecretsConfig{Redact: true}
}

// secretPattern pairs a secret type with its detection expression.
// Patterns are chosen for precision over recall: a false block on a
// legitimate prompt is worse than a missed low-entropy string.
type secretPattern struct {
	kind string
	re   *regexp.Regexp
}

var secretPatterns = []secretPattern{
	{"aws_access_key", regexp.MustCompile(`\b(?:AKIA|ASIA)[0-9A-Z]{16}\b`)},
	{"github_token", regexp.MustCompile(`\bgh[pousr]_[A-Za-z0-9]{36,255}\b`)},
	{"slack_token", regexp.MustCompile(`\bxox[baprs]-[0-9A-Za-z-]{10,}\b`)},
	{"stripe_key", regexp.MustCompile(`\b[rs]k_live_[0-9a-zA-Z]{24,}\b`)},
	{"openai_key", regexp.MustCompile(`\bsk-[A-Za-z0-9_-]{20,}\b`)},
	{"private_key", regexp.MustCompile(`-----BEGIN (?:RSA |EC |OPENSSH |DSA )?PRIVATE KEY-----`)},
	{"jwt", regexp.MustCompile(`\beyJ[A-Za-z0-9_-]{10,}\.[A-Za-z0-9_-]{10,}\.[A-Za-z0-9_-]{10,}\b`)},
	{"password_assignment", regexp.MustCompile(`(?i)\bpassword\s*[:=]\s*\S{8,}`)},
}

// Secrets detects API keys, tokens, and private key material.
type Secrets struct {
	config SecretsConfig
}

// NewSecrets creates the scanner.
func NewSecrets(cfg SecretsConfig) *Secrets {
	return &Secrets{config: cfg}
}

// Name implements scan.Scanner.
func (s *Secrets) Name() string { return "secrets" }

// Type implements scan.Scanner.
func (s *Secrets) Type() scan.Type { return scan.TypeBidirectional }

// Description implements scan.Scanner.
func (s *Secrets) Description() string {
	return "Detects API keys, tokens, and private key material"
}

// Scan implements scan.Scanner.
func (s *Secrets) Scan(ctx context.Context, input string, v *vault.Vault) (*scan.Result, error) {
	sanitized := input
	var entities []scan.Entity
	kinds := make(map[string]int)

	for _, p := range secretPatterns {
		locs := p.re.FindAllStringIndex(input, -1)
		for _, loc := range locs {
			entities = append(entities, scan.NewEntity(p.kind, input[loc[0]:loc[1]], loc[0], loc[1], 0.95))
			kinds[p.kind]++
		}
		if len(locs) > 0 && s.config.Redact {
			sanitized = p.re.ReplaceAllString(sanitized, fmt.Sprintf("[REDACTED:%s]", p.kind))
		}
	}

	if len(entities) == 0 {
		return scan.Pass(input), nil
	}

	res := scan.NewResult(sanitized, false, 1.0)
	res.Entities = entities
	res.WithRiskFactor(scan.RiskFactor{
		Name:        "secrets_detected",
		Description: fmt.Sprintf("found %d secret(s) of %d type(s)", len(entities), len(kinds)),
		Severity:    scan.SeverityCritical,
		Score:       1.0,
	})
	res.WithMetadata("secret_count", len(entities))
	return res, nil
}
