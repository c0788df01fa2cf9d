package scan

import (
	"context"

	"sentra-hq/sentra/pkg/vault"
)

// Type classifies which phase a scanner is eligible for.
type Type int

const (
	// TypeInput scanners inspect prompts before they reach the model.
	TypeInput Type = iota
	// TypeOutput scanners inspect model responses before they reach the user.
	TypeOutput
	// TypeBidirectional scanners are eligible for both phases.
	TypeBidirectional
)

// String returns the lowercase name of the scanner type.
func (t Type) String() string {
	switch t {
	case TypeOutput:
		return "output"
	case TypeBidirectional:
		return "bidirectional"
	default:
		return "input"
	}
}

// Matches reports whether a scanner of type t is eligible for phase.
func (t Type) Matches(phase Type) bool {
	return t == phase || t == TypeBidirectional
}

// Scanner is the capability interface implemented by every detector.
//
// Scan inspects the input text and returns a verdict. The returned result's
// SanitizedText must default to the input unchanged when no action is taken.
// An error return means the scanner could not complete (bad configuration,
// unavailable backend); "scan completed, text is invalid" is expressed via
// Result.IsValid, never via an error.
//
// A scanner may read and write keys in the shared vault but must not mutate
// state outside it. Scan may block on I/O and must honor ctx cancellation
// for any such waits.
type Scanner interface {
	// Name identifies the scanner; it is the key callers use in allow-lists.
	Name() string

	// Type selects which phase the scanner is eligible for.
	Type() Type

	// Description is a short human-readable summary.
	Description() string

	// Scan inspects input and returns a verdict or a ScannerError.
	Scan(ctx context.Context, input string, v *vault.Vault) (*Result, error)
}
