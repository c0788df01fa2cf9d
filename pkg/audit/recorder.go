package audit

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// DefaultBufferSize is the recorder's channel capacity.
const DefaultBufferSize = 1000

// Recorder persists records asynchronously so the scan path never waits on
// storage. When the buffer fills, records are dropped and counted rather
// than blocking.
type Recorder struct {
	storage Storage
	logger  *slog.Logger

	records chan *Record
	dropped atomic.Int64
	stored  atomic.Int64

	stopOnce sync.Once
	done     chan struct{}
}

// NewRecorder creates a recorder and starts its writer goroutine. A
// non-positive bufferSize uses DefaultBufferSize.
func NewRecorder(storage Storage, bufferSize int, logger *slog.Logger) *Recorder {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	if logger == nil {
		logger = slog.Default()
	}

	r := &Recorder{
		storage: storage,
		logger:  logger.With("component", "audit.recorder"),
		records: make(chan *Record, bufferSize),
		done:    make(chan struct{}),
	}
	go r.writeLoop()
	return r
}

// Record queues a record for storage. The record's ID and RecordedAt are
// filled in if unset. Returns false if the buffer was full and the record
// was dropped.
func (r *Recorder) Record(rec *Record) bool {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.RecordedAt.IsZero() {
		rec.RecordedAt = time.Now()
	}

	select {
	case r.records <- rec:
		return true
	default:
		n := r.dropped.Add(1)
		if n == 1 || n%100 == 0 {
			r.logger.Warn("audit buffer full, dropping records", "dropped_total", n)
		}
		return false
	}
}

// Stored returns how many records have been written to storage.
func (r *Recorder) Stored() int64 { return r.stored.Load() }

// Dropped returns how many records were dropped due to a full buffer.
func (r *Recorder) Dropped() int64 { return r.dropped.Load() }

// Close drains the buffer, waits for the writer goroutine, and returns.
// The underlying storage is not closed.
func (r *Recorder) Close() {
	r.stopOnce.Do(func() {
		close(r.records)
		<-r.done
	})
}

func (r *Recorder) writeLoop() {
	defer close(r.done)

	for rec := range r.records {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := r.storage.Store(ctx, rec)
		cancel()
		if err != nil {
			r.logger.Error("failed to store audit record",
				"record_id", rec.ID,
				"error", err,
			)
			continue
		}
		r.stored.Add(1)
	}
}
