package scan

import (
	"fmt"
	"sync"
)

// Registry holds scanners in registration order.
//
// Registration order is significant: it is the execution order in sequential
// pipeline mode and the assembly order when combining parallel results.
type Registry struct {
	mu       sync.RWMutex
	scanners []Scanner
	byName   map[string]Scanner
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byName: make(map[string]Scanner),
	}
}

// Register adds a scanner. Registering a duplicate name is an error.
func (r *Registry) Register(s Scanner) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := s.Name()
	if _, exists := r.byName[name]; exists {
		return fmt.Errorf("scanner already registered: %s", name)
	}

	r.scanners = append(r.scanners, s)
	r.byName[name] = s
	return nil
}

// Get returns the scanner registered under name.
func (r *Registry) Get(name string) (Scanner, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.byName[name]
	return s, ok
}

// Names returns all registered scanner names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.scanners))
	for _, s := range r.scanners {
		names = append(names, s.Name())
	}
	return names
}

// Len returns the number of registered scanners.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.scanners)
}

// ForPhase returns all scanners eligible for phase, in registration order.
func (r *Registry) ForPhase(phase Type) []Scanner {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Scanner
	for _, s := range r.scanners {
		if s.Type().Matches(phase) {
			out = append(out, s)
		}
	}
	return out
}

// Select resolves a caller-supplied allow-list of names against the phase
// roster. An empty list means "all scanners eligible for the phase". An
// unknown or phase-ineligible name yields a NotFoundError; an empty final
// roster yields ErrNoScanners.
func (r *Registry) Select(names []string, phase Type) ([]Scanner, error) {
	if len(names) == 0 {
		all := r.ForPhase(phase)
		if len(all) == 0 {
			return nil, ErrNoScanners
		}
		return all, nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Scanner, 0, len(names))
	for _, name := range names {
		s, ok := r.byName[name]
		if !ok || !s.Type().Matches(phase) {
			return nil, &NotFoundError{Name: name}
		}
		out = append(out, s)
	}
	return out, nil
}
