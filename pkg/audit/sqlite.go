package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

const schema = `
CREATE TABLE IF NOT EXISTS scan_records (
    id TEXT PRIMARY KEY,
    request_id TEXT NOT NULL,
    phase TEXT NOT NULL,
    scanners TEXT NOT NULL,
    valid BOOLEAN NOT NULL,
    risk_score REAL NOT NULL,
    entity_count INTEGER NOT NULL,
    redacted BOOLEAN NOT NULL,
    blocked BOOLEAN NOT NULL,
    block_reason TEXT,
    cache_hit BOOLEAN NOT NULL,
    duration_ns INTEGER NOT NULL,
    recorded_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_scan_records_recorded_at ON scan_records(recorded_at);
CREATE INDEX IF NOT EXISTS idx_scan_records_request_id ON scan_records(request_id);
`

// SQLiteConfig configures the SQLite backend.
type SQLiteConfig struct {
	// Path is the database file path.
	Path string

	// BusyTimeout is how long to wait for locks before failing.
	// Default: 5 seconds.
	BusyTimeout time.Duration
}

// SQLiteStorage persists records in a single SQLite file with WAL mode
// enabled for concurrent readers.
type SQLiteStorage struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteStorage opens (creating if needed) the database at cfg.Path and
// initializes the schema.
func NewSQLiteStorage(cfg SQLiteConfig, logger *slog.Logger) (*SQLiteStorage, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("audit: sqlite path cannot be empty")
	}
	if cfg.BusyTimeout == 0 {
		cfg.BusyTimeout = 5 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}

	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=%d&_synchronous=NORMAL",
		cfg.Path, cfg.BusyTimeout.Milliseconds())

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, newStorageError("sqlite", "open", err)
	}

	// SQLite supports a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, newStorageError("sqlite", "create_schema", err)
	}

	logger = logger.With("component", "audit.sqlite")
	logger.Info("audit storage initialized", "path", cfg.Path)

	return &SQLiteStorage{db: db, logger: logger}, nil
}

// Store implements Storage.
func (s *SQLiteStorage) Store(ctx context.Context, rec *Record) error {
	scanners, err := json.Marshal(rec.Scanners)
	if err != nil {
		return newStorageError("sqlite", "marshal_scanners", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO scan_records (
			id, request_id, phase, scanners, valid, risk_score,
			entity_count, redacted, blocked, block_reason, cache_hit,
			duration_ns, recorded_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.RequestID, rec.Phase, string(scanners), rec.Valid,
		rec.RiskScore, rec.EntityCount, rec.Redacted, rec.Blocked,
		rec.BlockReason, rec.CacheHit, rec.Duration.Nanoseconds(),
		rec.RecordedAt.UTC(),
	)
	if err != nil {
		return newStorageError("sqlite", "insert", err)
	}
	return nil
}

// Count implements Storage.
func (s *SQLiteStorage) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM scan_records`).Scan(&n)
	if err != nil {
		return 0, newStorageError("sqlite", "count", err)
	}
	return n, nil
}

// List implements Storage.
func (s *SQLiteStorage) List(ctx context.Context, limit int) ([]*Record, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, request_id, phase, scanners, valid, risk_score,
		       entity_count, redacted, blocked, block_reason, cache_hit,
		       duration_ns, recorded_at
		FROM scan_records
		ORDER BY recorded_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, newStorageError("sqlite", "query", err)
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		var rec Record
		var scanners string
		var durationNs int64
		if err := rows.Scan(
			&rec.ID, &rec.RequestID, &rec.Phase, &scanners, &rec.Valid,
			&rec.RiskScore, &rec.EntityCount, &rec.Redacted, &rec.Blocked,
			&rec.BlockReason, &rec.CacheHit, &durationNs, &rec.RecordedAt,
		); err != nil {
			return nil, newStorageError("sqlite", "scan_row", err)
		}
		if err := json.Unmarshal([]byte(scanners), &rec.Scanners); err != nil {
			return nil, newStorageError("sqlite", "unmarshal_scanners", err)
		}
		rec.Duration = time.Duration(durationNs)
		records = append(records, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, newStorageError("sqlite", "iterate", err)
	}
	return records, nil
}

// DeleteOlderThan implements Storage.
func (s *SQLiteStorage) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM scan_records WHERE recorded_at < ?`, cutoff.UTC())
	if err != nil {
		return 0, newStorageError("sqlite", "delete", err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, newStorageError("sqlite", "rows_affected", err)
	}
	return deleted, nil
}

// Close implements Storage.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}
