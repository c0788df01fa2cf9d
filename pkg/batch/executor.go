package batch

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Item is one unit of work in a batch: an identified input plus the
// scanner allow-list to apply to it.
type Item struct {
	// ID correlates the item's outcome with its input. The caller supplies
	// it (or the service layer assigns one) because results are not
	// returned in submission order.
	ID string

	// Input is the text to scan.
	Input string

	// Scanners is an optional allow-list of scanner names; empty means
	// "all applicable".
	Scanners []string

	// CacheEnabled controls whether the item's verdict may be served from
	// and stored in the result cache.
	CacheEnabled bool
}

// ItemResult is the outcome of one successfully processed item.
type ItemResult[T any] struct {
	ID    string
	Value T
}

// Result aggregates a finished batch.
type Result[T any] struct {
	// Items holds the successful outcomes in completion order.
	Items []ItemResult[T]

	// SuccessCount and FailureCount always sum to the number of
	// submitted items.
	SuccessCount int
	FailureCount int

	// TotalTime is the wall-clock duration of the whole batch.
	TotalTime time.Duration
}

// Executor runs independent work items with bounded concurrency.
type Executor struct {
	maxConcurrent int
	logger        *slog.Logger
}

// NewExecutor creates an executor. maxConcurrent must be at least 1.
func NewExecutor(maxConcurrent int) (*Executor, error) {
	if maxConcurrent < 1 {
		return nil, fmt.Errorf("max concurrent must be at least 1, got %d", maxConcurrent)
	}
	return &Executor{
		maxConcurrent: maxConcurrent,
		logger:        slog.Default().With("component", "batch"),
	}, nil
}

// MaxConcurrent returns the configured concurrency bound.
func (e *Executor) MaxConcurrent() int {
	return e.maxConcurrent
}

// Run processes every item through fn, at most MaxConcurrent at a time.
//
// Each item's failure (error or panic) is isolated: it increments the
// failure count and is logged, but sibling items proceed. Run returns when
// all items have completed; ctx cancellation is observed between permit
// acquisition attempts, with already-running items finishing normally.
func Run[T any](ctx context.Context, e *Executor, items []Item, fn func(ctx context.Context, item Item) (T, error)) *Result[T] {
	start := time.Now()

	res := &Result[T]{}
	if len(items) == 0 {
		res.TotalTime = time.Since(start)
		return res
	}

	semaphore := make(chan struct{}, e.maxConcurrent)

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)

	for _, item := range items {
		wg.Add(1)
		go func(item Item) {
			defer wg.Done()

			select {
			case semaphore <- struct{}{}:
			case <-ctx.Done():
				mu.Lock()
				res.FailureCount++
				mu.Unlock()
				return
			}
			defer func() { <-semaphore }()

			value, err := runItem(ctx, item, fn)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				res.FailureCount++
				e.logger.Warn("batch item failed",
					"item_id", item.ID,
					"error", err,
				)
				return
			}
			res.Items = append(res.Items, ItemResult[T]{ID: item.ID, Value: value})
			res.SuccessCount++
		}(item)
	}

	wg.Wait()
	res.TotalTime = time.Since(start)
	return res
}

// runItem invokes fn with panic isolation so a misbehaving scanner cannot
// take down sibling items.
func runItem[T any](ctx context.Context, item Item, fn func(ctx context.Context, item Item) (T, error)) (value T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("batch item panicked: %v", r)
		}
	}()
	return fn(ctx, item)
}
