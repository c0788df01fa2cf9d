package scan

import (
	"errors"
	"fmt"
)

// ErrNoScanners is returned when no scanner is available for, or requested
// in, the current phase. It is distinct from an unknown scanner name.
var ErrNoScanners = errors.New("no scanners available or requested")

// NotFoundError is returned when a caller requests a scanner name that is
// not registered for the current phase. It is a hard error, never a silent
// skip.
type NotFoundError struct {
	Name string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("scanner not found: %s", e.Name)
}

// ScannerError wraps a detector's failure to complete a scan. It is fatal
// to the pipeline run that produced it but isolated per batch item.
type ScannerError struct {
	Scanner string
	Err     error
}

// Error implements the error interface.
func (e *ScannerError) Error() string {
	return fmt.Sprintf("scanner %q failed: %v", e.Scanner, e.Err)
}

// Unwrap returns the underlying error.
func (e *ScannerError) Unwrap() error {
	return e.Err
}
