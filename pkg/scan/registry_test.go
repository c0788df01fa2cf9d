package scan

import (
	"context"
	"errors"
	"testing"

	"sentra-hq/sentra/pkg/vault"
)

type stubScanner struct {
	name string
	typ  Type
}

func (s *stubScanner) Name() string        { return s.name }
func (s *stubScanner) Type() Type          { return s.typ }
func (s *stubScanner) Description() string { return "stub" }

func (s *stubScanner) Scan(ctx context.Context, input string, v *vault.Vault) (*Result, error) {
	return Pass(input), nil
}

func TestRegistry_Register(t *testing.T) {
	r := NewRegistry()

	if err := r.Register(&stubScanner{name: "a", typ: TypeInput}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if err := r.Register(&stubScanner{name: "a", typ: TypeInput}); err == nil {
		t.Error("Expected duplicate registration to fail")
	}

	if _, ok := r.Get("a"); !ok {
		t.Error("Expected scanner a to be registered")
	}
	if r.Len() != 1 {
		t.Errorf("Expected 1 scanner, got %d", r.Len())
	}
}

func TestRegistry_ForPhase(t *testing.T) {
	r := NewRegistry()
	r.Register(&stubScanner{name: "in", typ: TypeInput})
	r.Register(&stubScanner{name: "out", typ: TypeOutput})
	r.Register(&stubScanner{name: "both", typ: TypeBidirectional})

	input := r.ForPhase(TypeInput)
	if len(input) != 2 || input[0].Name() != "in" || input[1].Name() != "both" {
		t.Errorf("Expected [in both] for input phase, got %v", names(input))
	}

	output := r.ForPhase(TypeOutput)
	if len(output) != 2 || output[0].Name() != "out" || output[1].Name() != "both" {
		t.Errorf("Expected [out both] for output phase, got %v", names(output))
	}
}

func TestRegistry_SelectAll(t *testing.T) {
	r := NewRegistry()
	r.Register(&stubScanner{name: "a", typ: TypeInput})
	r.Register(&stubScanner{name: "b", typ: TypeInput})

	selected, err := r.Select(nil, TypeInput)
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if len(selected) != 2 {
		t.Errorf("Expected 2 scanners, got %d", len(selected))
	}
}

func TestRegistry_SelectByName(t *testing.T) {
	r := NewRegistry()
	r.Register(&stubScanner{name: "a", typ: TypeInput})
	r.Register(&stubScanner{name: "b", typ: TypeInput})

	selected, err := r.Select([]string{"b"}, TypeInput)
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if len(selected) != 1 || selected[0].Name() != "b" {
		t.Errorf("Expected [b], got %v", names(selected))
	}
}

func TestRegistry_SelectUnknownName(t *testing.T) {
	r := NewRegistry()
	r.Register(&stubScanner{name: "a", typ: TypeInput})

	_, err := r.Select([]string{"nonexistent"}, TypeInput)
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("Expected NotFoundError, got %v", err)
	}
	if nf.Name != "nonexistent" {
		t.Errorf("Expected name in error, got %q", nf.Name)
	}
}

func TestRegistry_SelectWrongPhase(t *testing.T) {
	r := NewRegistry()
	r.Register(&stubScanner{name: "out-only", typ: TypeOutput})

	// Requesting an output scanner for the input phase is "not found",
	// not a silent skip.
	_, err := r.Select([]string{"out-only"}, TypeInput)
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("Expected NotFoundError, got %v", err)
	}
}

func TestRegistry_SelectEmptyRoster(t *testing.T) {
	r := NewRegistry()
	r.Register(&stubScanner{name: "out", typ: TypeOutput})

	_, err := r.Select(nil, TypeInput)
	if !errors.Is(err, ErrNoScanners) {
		t.Fatalf("Expected ErrNoScanners, got %v", err)
	}
}

func names(scanners []Scanner) []string {
	out := make([]string, 0, len(scanners))
	for _, s := range scanners {
		out = append(out, s.Name())
	}
	return out
}
