package audit

import (
	"context"
	"fmt"
	"time"
)

// Record is the audit trail entry for one completed scan. It carries
// derived metadata only; the scanned text is never stored.
type Record struct {
	// ID is a UUID v4 assigned when the record is created.
	ID string `json:"id"`

	// RequestID correlates the record with the API request that caused it.
	RequestID string `json:"request_id"`

	// Phase is "input" or "output".
	Phase string `json:"phase"`

	// Scanners lists the scanner names that ran, in execution order.
	Scanners []string `json:"scanners"`

	// Valid is the combined verdict.
	Valid bool `json:"valid"`

	// RiskScore is the combined risk score.
	RiskScore float64 `json:"risk_score"`

	// EntityCount is the number of entities detected across all scanners.
	EntityCount int `json:"entity_count"`

	// Redacted reports whether sanitization changed the text.
	Redacted bool `json:"redacted"`

	// Blocked reports whether a hook rejected the request before scanning.
	Blocked bool `json:"blocked"`

	// BlockReason carries the hook's reason when Blocked is set.
	BlockReason string `json:"block_reason,omitempty"`

	// CacheHit reports whether the verdict came from the result cache.
	CacheHit bool `json:"cache_hit"`

	// Duration is the end-to-end scan time.
	Duration time.Duration `json:"duration"`

	// RecordedAt is when the scan completed.
	RecordedAt time.Time `json:"recorded_at"`
}

// Storage persists audit records.
type Storage interface {
	// Store persists a record.
	Store(ctx context.Context, rec *Record) error

	// Count returns the total number of stored records.
	Count(ctx context.Context) (int64, error)

	// List returns up to limit records, newest first.
	List(ctx context.Context, limit int) ([]*Record, error)

	// DeleteOlderThan removes records recorded before the cutoff and
	// returns how many were deleted.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)

	// Close releases storage resources.
	Close() error
}

// StorageError wraps a backend failure with the backend name and operation.
type StorageError struct {
	Backend string
	Op      string
	Err     error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	return fmt.Sprintf("audit storage %s: %s: %v", e.Backend, e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *StorageError) Unwrap() error { return e.Err }

func newStorageError(backend, op string, err error) *StorageError {
	return &StorageError{Backend: backend, Op: op, Err: err}
}
