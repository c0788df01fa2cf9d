package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"sentra-hq/sentra/pkg/batch"
)

// BatchItemResult is the outcome of one batch item. Exactly one of Verdict
// and Error is set.
type BatchItemResult struct {
	ID      string
	Verdict *Verdict
	Error   string
}

// BatchResult aggregates a finished batch. Items appear in completion
// order, identified by their correlation IDs.
type BatchResult struct {
	Items     []BatchItemResult
	Succeeded int
	Failed    int
	Duration  time.Duration
}

// itemOutcome carries a per-item verdict or error through the executor so
// scan failures surface per item instead of failing the batch.
type itemOutcome struct {
	verdict *Verdict
	err     error
}

// ScanBatch scans every request independently with bounded concurrency.
// maxConcurrent of zero uses the configured default; values above the
// configured ceiling are rejected, as are colliding caller-supplied item
// IDs. One item failing never affects the others, and the batch as a whole
// always succeeds.
func (s *Service) ScanBatch(ctx context.Context, reqs []Request, maxConcurrent int) (*BatchResult, error) {
	if maxConcurrent == 0 {
		maxConcurrent = s.defaultConcurrent
	}
	if maxConcurrent < 1 || maxConcurrent > s.maxConcurrent {
		return nil, fmt.Errorf("service: max concurrent must be between 1 and %d, got %d",
			s.maxConcurrent, maxConcurrent)
	}

	executor, err := batch.NewExecutor(maxConcurrent)
	if err != nil {
		return nil, err
	}

	items := make([]batch.Item, len(reqs))
	ids := make(map[string]bool, len(reqs))
	for i, req := range reqs {
		if req.RequestID == "" {
			req.RequestID = uuid.New().String()
		}
		// Results are keyed by ID, so a collision would make two items
		// indistinguishable in the response.
		if ids[req.RequestID] {
			return nil, fmt.Errorf("service: duplicate batch item id %q", req.RequestID)
		}
		ids[req.RequestID] = true
		items[i] = batch.Item{
			ID:           req.RequestID,
			Input:        req.Input,
			Scanners:     req.Scanners,
			CacheEnabled: !req.NoCache,
		}
	}

	res := batch.Run(ctx, executor, items, func(ctx context.Context, item batch.Item) (itemOutcome, error) {
		if s.metrics != nil {
			s.metrics.BatchItemStarted()
			defer s.metrics.BatchItemFinished()
		}
		verdict, err := s.ScanPrompt(ctx, Request{
			RequestID: item.ID,
			Input:     item.Input,
			Scanners:  item.Scanners,
			NoCache:   !item.CacheEnabled,
		})
		// Scan errors become per-item outcomes; only panics and
		// cancellation count as executor-level failures.
		return itemOutcome{verdict: verdict, err: err}, nil
	})

	out := &BatchResult{Duration: res.TotalTime}
	seen := make(map[string]bool, len(res.Items))
	for _, item := range res.Items {
		seen[item.ID] = true
		r := BatchItemResult{ID: item.ID}
		if item.Value.err != nil {
			r.Error = item.Value.err.Error()
			out.Failed++
		} else {
			r.Verdict = item.Value.verdict
			out.Succeeded++
		}
		out.Items = append(out.Items, r)
		s.recordBatchItem(r)
	}

	// Items lost to panics or cancellation still get an entry.
	for _, item := range items {
		if seen[item.ID] {
			continue
		}
		r := BatchItemResult{ID: item.ID, Error: "item was not processed"}
		out.Items = append(out.Items, r)
		out.Failed++
		s.recordBatchItem(r)
	}

	s.logger.Info("batch scan complete",
		"items", len(reqs),
		"succeeded", out.Succeeded,
		"failed", out.Failed,
		"max_concurrent", maxConcurrent,
		"duration_ms", out.Duration.Milliseconds(),
	)

	return out, nil
}

func (s *Service) recordBatchItem(r BatchItemResult) {
	if s.metrics == nil {
		return
	}
	if r.Error != "" {
		s.metrics.RecordBatchItem("error")
		return
	}
	if r.Verdict.Result.IsValid {
		s.metrics.RecordBatchItem("valid")
	} else {
		s.metrics.RecordBatchItem("invalid")
	}
}
