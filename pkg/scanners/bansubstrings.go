package scanners

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"sentra-hq/sentra/pkg/scan"
	"sentra-hq/sentra/pkg/vault"
)

// BanSubstringsConfig configures the ban_substrings scanner.
type BanSubstringsConfig struct {
	// Substrings are the banned terms.
	Substrings []string `yaml:"substrings"`

	// CaseSensitive controls whether matching respects case. Default false.
	CaseSensitive bool `yaml:"case_sensitive"`

	// MatchWord requires matches to sit on word boundaries.
	MatchWord bool `yaml:"match_word"`

	// Redact replaces matches with asterisks in the sanitized text.
	Redact bool `yaml:"redact"`
}

// BanSubstrings detects and blocks configured substrings in input text.
type BanSubstrings struct {
	config   BanSubstringsConfig
	patterns []string // lowercased when case-insensitive
}

// NewBanSubstrings creates the scanner. At least one substring is required.
func NewBanSubstrings(cfg BanSubstringsConfig) (*BanSubstrings, error) {
	if len(cfg.Substrings) == 0 {
		return nil, fmt.Errorf("ban_substrings: at least one substring is required")
	}

	patterns := make([]string, len(cfg.Substrings))
	for i, s := range cfg.Substrings {
		if s == "" {
			return nil, fmt.Errorf("ban_substrings: empty substring at index %d", i)
		}
		if cfg.CaseSensitive {
			patterns[i] = s
		} else {
			patterns[i] = strings.ToLower(s)
		}
	}

	return &BanSubstrings{config: cfg, patterns: patterns}, nil
}

// Name implements scan.Scanner.
func (b *BanSubstrings) Name() string { return "ban_substrings" }

// Type implements scan.Scanner.
func (b *BanSubstrings) Type() scan.Type { return scan.TypeBidirectional }

// Description implements scan.Scanner.
func (b *BanSubstrings) Description() string {
	return "Detects and blocks banned substrings in text"
}

type substringMatch struct {
	start, end int
	pattern    string
}

// Scan implements scan.Scanner.
func (b *BanSubstrings) Scan(ctx context.Context, input string, v *vault.Vault) (*scan.Result, error) {
	matches := b.findMatches(input)
	if len(matches) == 0 {
		return scan.Pass(input), nil
	}

	sanitized := input
	if b.config.Redact {
		sanitized = redactSpans(input, matches)
	}

	patterns := make([]string, 0, len(matches))
	res := scan.NewResult(sanitized, false, 1.0)
	for _, m := range matches {
		e := scan.NewEntity("banned_substring", input[m.start:m.end], m.start, m.end, 1.0)
		e.Metadata = map[string]string{"pattern": m.pattern}
		res.WithEntity(e)
		patterns = append(patterns, m.pattern)
	}

	res.WithRiskFactor(scan.RiskFactor{
		Name:        "banned_content",
		Description: fmt.Sprintf("found %d banned substring(s)", len(matches)),
		Severity:    scan.SeverityHigh,
		Score:       1.0,
	})
	res.WithMetadata("matches_count", len(matches))
	res.WithMetadata("patterns_matched", patterns)
	return res, nil
}

// findMatches locates every banned substring occurrence, honoring word
// boundaries when configured.
func (b *BanSubstrings) findMatches(input string) []substringMatch {
	search := input
	if !b.config.CaseSensitive {
		search = strings.ToLower(input)
	}

	var matches []substringMatch
	for _, pattern := range b.patterns {
		for from := 0; ; {
			idx := strings.Index(search[from:], pattern)
			if idx < 0 {
				break
			}
			start := from + idx
			end := start + len(pattern)
			from = start + 1

			if b.config.MatchWord && !onWordBoundary(input, start, end) {
				continue
			}
			matches = append(matches, substringMatch{start: start, end: end, pattern: pattern})
		}
	}
	return matches
}

// onWordBoundary reports whether input[start:end] is not embedded in a
// larger alphanumeric run.
func onWordBoundary(input string, start, end int) bool {
	if start > 0 {
		if r := rune(input[start-1]); unicode.IsLetter(r) || unicode.IsDigit(r) {
			return false
		}
	}
	if end < len(input) {
		if r := rune(input[end]); unicode.IsLetter(r) || unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// redactSpans replaces each matched span with asterisks of equal length,
// preserving all offsets.
func redactSpans(input string, matches []substringMatch) string {
	out := []byte(input)
	for _, m := range matches {
		for i := m.start; i < m.end; i++ {
			out[i] = '*'
		}
	}
	return string(out)
}
