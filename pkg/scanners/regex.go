package scanners

import (
	"context"
	"fmt"
	"regexp"

	"sentra-hq/sentra/pkg/scan"
	"sentra-hq/sentra/pkg/vault"
)

// RegexPattern is one configurable deny pattern.
type RegexPattern struct {
	// Name labels entities produced by this pattern.
	Name string `yaml:"name"`

	// Expr is the regular expression (Go syntax).
	Expr string `yaml:"expr"`

	// Replacement substitutes matches in the sanitized text. Empty means
	// no redaction for this pattern.
	Replacement string `yaml:"replacement"`

	// Score is the risk contributed when the pattern matches. Defaults
	// to 1.0.
	Score float64 `yaml:"score"`
}

// RegexConfig configures the regex scanner.
type RegexConfig struct {
	Patterns []RegexPattern `yaml:"patterns"`
}

// Regex matches configurable deny patterns against the scanned text.
type Regex struct {
	patterns []compiledPattern
}

type compiledPattern struct {
	RegexPattern
	re *regexp.Regexp
}

// NewRegex compiles the configured patterns. A malformed expression is a
// configuration error, surfaced at construction rather than at scan time.
func NewRegex(cfg RegexConfig) (*Regex, error) {
	if len(cfg.Patterns) == 0 {
		return nil, fmt.Errorf("regex: at least one pattern is required")
	}

	patterns := make([]compiledPattern, 0, len(cfg.Patterns))
	for _, p := range cfg.Patterns {
		re, err := regexp.Compile(p.Expr)
		if err != nil {
			return nil, fmt.Errorf("regex: compile pattern %q: %w", p.Name, err)
		}
		if p.Score <= 0 {
			p.Score = 1.0
		}
		if p.Name == "" {
			p.Name = "regex_match"
		}
		patterns = append(patterns, compiledPattern{RegexPattern: p, re: re})
	}
	return &Regex{patterns: patterns}, nil
}

// Name implements scan.Scanner.
func (r *Regex) Name() string { return "regex" }

// Type implements scan.Scanner.
func (r *Regex) Type() scan.Type { return scan.TypeBidirectional }

// Description implements scan.Scanner.
func (r *Regex) Description() string {
	return "Matches configurable deny patterns with optional redaction"
}

// Scan implements scan.Scanner.
func (r *Regex) Scan(ctx context.Context, input string, v *vault.Vault) (*scan.Result, error) {
	sanitized := input
	maxScore := 0.0
	var entities []scan.Entity
	var factors []scan.RiskFactor

	for _, p := range r.patterns {
		locs := p.re.FindAllStringIndex(input, -1)
		if len(locs) == 0 {
			continue
		}

		for _, loc := range locs {
			entities = append(entities, scan.NewEntity(p.Name, input[loc[0]:loc[1]], loc[0], loc[1], 1.0))
		}
		factors = append(factors, scan.RiskFactor{
			Name:        p.Name,
			Description: fmt.Sprintf("pattern %q matched %d time(s)", p.Name, len(locs)),
			Severity:    scan.SeverityForScore(p.Score),
			Score:       p.Score,
		})
		if p.Score > maxScore {
			maxScore = p.Score
		}
		if p.Replacement != "" {
			sanitized = p.re.ReplaceAllString(sanitized, p.Replacement)
		}
	}

	if len(entities) == 0 {
		return scan.Pass(input), nil
	}

	res := scan.NewResult(sanitized, false, maxScore)
	res.Entities = entities
	res.RiskFactors = factors
	res.WithMetadata("matches_count", len(entities))
	return res, nil
}
