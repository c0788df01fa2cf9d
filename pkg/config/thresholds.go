package config

import (
	"math"
	"sync/atomic"
)

// ThresholdSource exposes the current reject threshold to code holding a
// long-lived reference, such as the post-scan threshold hook. It is safe
// for concurrent use and can be updated live from a Watcher callback:
//
//	src := config.NewThresholdSource(cfg.Scan.RejectThreshold)
//	w.OnChange(func(cfg *config.Config) { src.Update(cfg.Scan.RejectThreshold) })
type ThresholdSource struct {
	bits atomic.Uint64
}

// NewThresholdSource creates a source with the given initial threshold.
func NewThresholdSource(threshold float64) *ThresholdSource {
	s := &ThresholdSource{}
	s.Update(threshold)
	return s
}

// Threshold returns the current value.
func (s *ThresholdSource) Threshold() float64 {
	return math.Float64frombits(s.bits.Load())
}

// Update replaces the current value.
func (s *ThresholdSource) Update(threshold float64) {
	s.bits.Store(math.Float64bits(threshold))
}
