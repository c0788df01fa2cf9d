package scan

// Severity classifies how dangerous a risk factor or result is.
type Severity int

const (
	// SeverityNone indicates no detected risk.
	SeverityNone Severity = iota
	// SeverityLow covers scores in (0.0, 0.4).
	SeverityLow
	// SeverityMedium covers scores in [0.4, 0.7).
	SeverityMedium
	// SeverityHigh covers scores in [0.7, 0.9).
	SeverityHigh
	// SeverityCritical covers scores in [0.9, 1.0].
	SeverityCritical
)

// String returns the lowercase name of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	case SeverityCritical:
		return "critical"
	default:
		return "none"
	}
}

// SeverityForScore maps a risk score to its severity level.
func SeverityForScore(score float64) Severity {
	switch {
	case score >= 0.9:
		return SeverityCritical
	case score >= 0.7:
		return SeverityHigh
	case score >= 0.4:
		return SeverityMedium
	case score > 0.0:
		return SeverityLow
	default:
		return SeverityNone
	}
}

// Entity is a located span of concern detected in the scanned text.
// Start and End are byte offsets into the original input, not the
// sanitized output.
type Entity struct {
	Type       string            `json:"type"`
	Text       string            `json:"text"`
	Start      int               `json:"start"`
	End        int               `json:"end"`
	Confidence float64           `json:"confidence"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// NewEntity creates an entity with an empty metadata map.
func NewEntity(entityType, text string, start, end int, confidence float64) Entity {
	return Entity{
		Type:       entityType,
		Text:       text,
		Start:      start,
		End:        end,
		Confidence: confidence,
	}
}

// RiskFactor is a named contributor to a result's risk assessment.
type RiskFactor struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Severity    Severity `json:"severity"`
	Score       float64  `json:"score"`
}

// Result is the verdict record produced by one scanner invocation or by
// combining several. Treat it as immutable after construction: the With*
// methods extend and return the receiver for builder-style chaining during
// construction only.
type Result struct {
	// SanitizedText is the possibly-modified version of the scanned text.
	// A scanner that takes no action returns the input unchanged.
	SanitizedText string `json:"sanitizedText"`

	// IsValid reports whether the text passed this scan.
	IsValid bool `json:"isValid"`

	// RiskScore is in [0.0, 1.0]; higher is more dangerous.
	RiskScore float64 `json:"riskScore"`

	// Entities are the concrete spans of concern, in detection order.
	Entities []Entity `json:"entities,omitempty"`

	// RiskFactors are the named contributing reasons, in detection order.
	RiskFactors []RiskFactor `json:"riskFactors,omitempty"`

	// Metadata carries free-form scanner-specific details.
	Metadata map[string]any `json:"metadata,omitempty"`
}

// NewResult creates a result with the given verdict. The risk score is
// clamped to [0, 1].
func NewResult(sanitized string, valid bool, riskScore float64) *Result {
	return &Result{
		SanitizedText: sanitized,
		IsValid:       valid,
		RiskScore:     clampScore(riskScore),
	}
}

// Pass creates a passing result: valid, zero risk, text unchanged.
// It is the identity element of Combine.
func Pass(text string) *Result {
	return NewResult(text, true, 0.0)
}

// Fail creates a failing result with the given risk score.
func Fail(text string, riskScore float64) *Result {
	return NewResult(text, false, riskScore)
}

// WithEntity appends an entity and returns the result.
func (r *Result) WithEntity(e Entity) *Result {
	r.Entities = append(r.Entities, e)
	return r
}

// WithRiskFactor appends a risk factor and returns the result.
func (r *Result) WithRiskFactor(f RiskFactor) *Result {
	r.RiskFactors = append(r.RiskFactors, f)
	return r
}

// WithMetadata sets a metadata key and returns the result.
// Later writes win on duplicate keys.
func (r *Result) WithMetadata(key string, value any) *Result {
	if r.Metadata == nil {
		r.Metadata = make(map[string]any)
	}
	r.Metadata[key] = value
	return r
}

// Severity returns the severity level implied by the risk score.
func (r *Result) Severity() Severity {
	return SeverityForScore(r.RiskScore)
}

// Combine folds results into one verdict:
//
//   - IsValid is the AND of all inputs.
//   - RiskScore is the MAX of all inputs.
//   - Entities and RiskFactors are concatenated in input order.
//   - Metadata is shallow-merged, later entries winning on collisions.
//   - SanitizedText is the last input whose text differs from original;
//     if no scanner modified the text it stays the original.
//
// Combining zero results yields the identity: a passing result with risk
// 0.0 and the original text unchanged.
func Combine(original string, results []*Result) *Result {
	combined := Pass(original)
	if len(results) == 0 {
		return combined
	}

	for _, r := range results {
		if r == nil {
			continue
		}
		combined.IsValid = combined.IsValid && r.IsValid
		if r.RiskScore > combined.RiskScore {
			combined.RiskScore = r.RiskScore
		}
		combined.Entities = append(combined.Entities, r.Entities...)
		combined.RiskFactors = append(combined.RiskFactors, r.RiskFactors...)
		for k, v := range r.Metadata {
			if combined.Metadata == nil {
				combined.Metadata = make(map[string]any)
			}
			combined.Metadata[k] = v
		}
		if r.SanitizedText != original {
			combined.SanitizedText = r.SanitizedText
		}
	}

	combined.RiskScore = clampScore(combined.RiskScore)
	return combined
}

// clampScore bounds a risk score to [0, 1].
func clampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
