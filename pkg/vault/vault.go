package vault

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"
)

// Vault is a thread-safe key/value store scoped to one inspection request.
//
// Values are stored JSON-serialized so that heterogeneous scanners can
// exchange structured data without sharing concrete types. A type mismatch
// on Get is an error, never a silent miss.
type Vault struct {
	mu   sync.RWMutex
	data map[string]json.RawMessage
}

// New creates an empty vault.
func New() *Vault {
	return &Vault{
		data: make(map[string]json.RawMessage),
	}
}

// Set stores a value under key, replacing any previous value.
// The value must be JSON-serializable.
func (v *Vault) Set(key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return &Error{Op: "set", Key: key, Err: fmt.Errorf("serialize value: %w", err)}
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	v.data[key] = raw
	return nil
}

// Get retrieves the value stored under key into out, which must be a
// non-nil pointer. It returns false if the key is absent. A stored value
// that cannot be deserialized into out is an error, not a miss.
func (v *Vault) Get(key string, out any) (bool, error) {
	v.mu.RLock()
	raw, ok := v.data[key]
	v.mu.RUnlock()

	if !ok {
		return false, nil
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return false, &Error{Op: "get", Key: key, Err: fmt.Errorf("deserialize value: %w", err)}
	}
	return true, nil
}

// Has reports whether key exists in the vault.
func (v *Vault) Has(key string) bool {
	v.mu.RLock()
	defer v.mu.RUnlock()

	_, ok := v.data[key]
	return ok
}

// Remove deletes key from the vault. Removing an absent key is a no-op.
func (v *Vault) Remove(key string) {
	v.mu.Lock()
	defer v.mu.Unlock()

	delete(v.data, key)
}

// Clear removes all entries.
func (v *Vault) Clear() {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.data = make(map[string]json.RawMessage)
}

// Keys returns all keys in sorted order.
func (v *Vault) Keys() []string {
	v.mu.RLock()
	defer v.mu.RUnlock()

	keys := make([]string, 0, len(v.data))
	for k := range v.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of entries.
func (v *Vault) Len() int {
	v.mu.RLock()
	defer v.mu.RUnlock()

	return len(v.data)
}

// IsEmpty reports whether the vault has no entries.
func (v *Vault) IsEmpty() bool {
	return v.Len() == 0
}

// Error describes a failed vault operation.
type Error struct {
	Op  string // "set" or "get"
	Key string
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("vault %s %q: %v", e.Op, e.Key, e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}
