package server

import "sentra-hq/sentra/pkg/service"

// ScanRequest is the body of POST /v1/scan/prompt and /v1/scan/output.
type ScanRequest struct {
	// Input is the text to scan. Required.
	Input string `json:"input"`

	// Scanners is an optional allow-list of scanner names.
	Scanners []string `json:"scanners,omitempty"`

	// NoCache bypasses the result cache for this request.
	NoCache bool `json:"noCache,omitempty"`
}

// EntityView is a detected span in API form.
type EntityView struct {
	Type       string         `json:"type"`
	Text       string         `json:"text"`
	Start      int            `json:"start"`
	End        int            `json:"end"`
	Confidence float64           `json:"confidence"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// RiskFactorView is a named risk contribution in API form.
type RiskFactorView struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Severity    string  `json:"severity"`
	Score       float64 `json:"score"`
}

// VerdictView is the API form of a scan verdict.
type VerdictView struct {
	ScanID        string           `json:"scanId"`
	RequestID     string           `json:"requestId"`
	Phase         string           `json:"phase"`
	Scanners      []string         `json:"scanners"`
	IsValid       bool             `json:"isValid"`
	RiskScore     float64          `json:"riskScore"`
	SanitizedText string           `json:"sanitizedText"`
	Entities      []EntityView     `json:"entities"`
	RiskFactors   []RiskFactorView `json:"riskFactors"`
	Blocked       bool             `json:"blocked,omitempty"`
	BlockReason   string           `json:"blockReason,omitempty"`
	CacheHit      bool             `json:"cacheHit"`
	DurationMs    int64            `json:"durationMs"`
}

// BatchScanRequest is the body of POST /v1/scan/batch.
type BatchScanRequest struct {
	Items []BatchItemRequest `json:"items"`

	// MaxConcurrent bounds parallel items. Zero uses the server default.
	MaxConcurrent int `json:"maxConcurrent,omitempty"`
}

// BatchItemRequest is one input within a batch.
type BatchItemRequest struct {
	// ID correlates the item with its result. Assigned if empty.
	ID string `json:"id,omitempty"`

	Input    string   `json:"input"`
	Scanners []string `json:"scanners,omitempty"`
	NoCache  bool     `json:"noCache,omitempty"`
}

// BatchItemView is one item's outcome. Exactly one of Verdict and Error is
// present.
type BatchItemView struct {
	ID      string       `json:"id"`
	Verdict *VerdictView `json:"verdict,omitempty"`
	Error   string       `json:"error,omitempty"`
}

// BatchScanResponse is the body of a batch scan result.
type BatchScanResponse struct {
	Items      []BatchItemView `json:"items"`
	Succeeded  int             `json:"succeeded"`
	Failed     int             `json:"failed"`
	DurationMs int64           `json:"durationMs"`
}

// ScannerView describes a registered scanner.
type ScannerView struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

// ScannersResponse is the body of GET /v1/scanners.
type ScannersResponse struct {
	Scanners []ScannerView `json:"scanners"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries the error type and human-readable message.
type ErrorDetail struct {
	// Type is one of "validation_error", "not_found", "no_scanners",
	// "internal_error".
	Type    string `json:"type"`
	Message string `json:"message"`
}

func verdictView(v *service.Verdict) *VerdictView {
	out := &VerdictView{
		ScanID:        v.ScanID,
		RequestID:     v.RequestID,
		Phase:         v.Phase,
		Scanners:      v.Scanners,
		IsValid:       v.Result.IsValid,
		RiskScore:     v.Result.RiskScore,
		SanitizedText: v.Result.SanitizedText,
		Entities:      []EntityView{},
		RiskFactors:   []RiskFactorView{},
		Blocked:       v.Blocked,
		BlockReason:   v.BlockReason,
		CacheHit:      v.CacheHit,
		DurationMs:    v.Duration.Milliseconds(),
	}
	for _, e := range v.Result.Entities {
		out.Entities = append(out.Entities, EntityView{
			Type:       e.Type,
			Text:       e.Text,
			Start:      e.Start,
			End:        e.End,
			Confidence: e.Confidence,
			Metadata:   e.Metadata,
		})
	}
	for _, rf := range v.Result.RiskFactors {
		out.RiskFactors = append(out.RiskFactors, RiskFactorView{
			Name:        rf.Name,
			Description: rf.Description,
			Severity:    rf.Severity.String(),
			Score:       rf.Score,
		})
	}
	return out
}
