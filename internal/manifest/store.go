package manifest

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Store keeps build history in SQLite. Use ":memory:" for tests or a file
// path under the output directory for persistence.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// OpenStore opens (and initializes) a build history database.
func OpenStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	s := &Store{db: db}
	if err := s.initialize(); err != nil {
		_ = db.Close() // Best effort cleanup on initialization error
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return s, nil
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS builds (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		build_id TEXT NOT NULL UNIQUE,
		started_at INTEGER NOT NULL,
		duration_ms INTEGER NOT NULL,
		content_hash TEXT NOT NULL,
		page_count INTEGER NOT NULL,
		outcome TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_builds_started_at ON builds(started_at);
	CREATE INDEX IF NOT EXISTS idx_builds_content_hash ON builds(content_hash);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Append records a completed build.
func (s *Store) Append(ctx context.Context, r *BuildRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO builds (build_id, started_at, duration_ms, content_hash, page_count, outcome) VALUES (?, ?, ?, ?, ?, ?)",
		r.BuildID, r.StartedAt.Unix(), r.Duration.Milliseconds(), r.ContentHash, r.PageCount, r.Outcome,
	)
	if err != nil {
		return fmt.Errorf("insert build: %w", err)
	}
	return nil
}

// Summary is a build history row without per-page digests.
type Summary struct {
	BuildID     string
	StartedAt   time.Time
	Duration    time.Duration
	ContentHash string
	PageCount   int
	Outcome     string
}

// Latest returns the most recent build, or nil when history is empty.
func (s *Store) Latest(ctx context.Context) (*Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		"SELECT build_id, started_at, duration_ms, content_hash, page_count, outcome FROM builds ORDER BY id DESC LIMIT 1")
	sum, err := scanSummary(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return sum, err
}

// Recent returns up to limit builds, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT build_id, started_at, duration_ms, content_hash, page_count, outcome FROM builds ORDER BY id DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("query builds: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		sum, err := scanSummary(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *sum)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSummary(row rowScanner) (*Summary, error) {
	var s Summary
	var started int64
	var durationMS int64
	if err := row.Scan(&s.BuildID, &started, &durationMS, &s.ContentHash, &s.PageCount, &s.Outcome); err != nil {
		return nil, err
	}
	s.StartedAt = time.Unix(started, 0)
	s.Duration = time.Duration(durationMS) * time.Millisecond
	return &s, nil
}

// Close releases the underlying database.
func (s *Store) Close() error { return s.db.Close() }
