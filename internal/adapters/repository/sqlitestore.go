package repository

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/radar/internal/domain/stats"
	"github.com/okian/radar/pkg/logger"
	"github.com/okian/radar/pkg/metrics"

	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS entries (
	seq      INTEGER PRIMARY KEY AUTOINCREMENT,
	name     TEXT    NOT NULL,
	photo    TEXT    NOT NULL,
	category TEXT    NOT NULL,
	value    INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS entries_by_name ON entries (name);
CREATE INDEX IF NOT EXISTS entries_by_category ON entries (category, value DESC, seq);
`

// SQLiteStore keeps leaderboard rows in a SQLite table keyed by an
// autoincrement sequence, so insertion order survives replacement the same
// way it does in JSONStore.
type SQLiteStore struct {
	mu     sync.Mutex
	db     *sql.DB
	path   string
	opts   options
	closed atomic.Bool
}

// OpenSQLite opens (or creates) the database at path and applies the schema.
func OpenSQLite(ctx context.Context, path string, opts ...Option) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("%w: sqlite path is required", ErrInvalidPath)
	}
	cleanPath := filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(cleanPath), 0o755); err != nil {
		return nil, fmt.Errorf("create sqlite dir: %w", err)
	}

	dsn := "file:" + cleanPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// One connection keeps writers serialized inside SQLite as well.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply sqlite schema: %w", err)
	}

	s := &SQLiteStore{db: db, path: cleanPath, opts: buildOptions(opts)}
	metrics.UpdateTotalNames(s.Count(ctx))
	s.opts.logger.Info(ctx, "opened sqlite leaderboard", logger.String("path", cleanPath))
	return s, nil
}

// Load implements Store.Load.
func (s *SQLiteStore) Load(ctx context.Context) ([]Entry, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, photo, category, value FROM entries ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("load entries: %w", err)
	}
	return scanEntries(rows)
}

// Upsert implements Store.Upsert as a single transaction.
func (s *SQLiteStore) Upsert(ctx context.Context, name, photo string, set stats.StatSet) error {
	start := time.Now()
	defer func() {
		metrics.RecordStoreUpsertLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	if err := s.ready(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin upsert: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM entries WHERE name = ?`, name); err != nil {
		metrics.RecordErrorByComponent("repository", "write")
		return fmt.Errorf("delete entries: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO entries (name, photo, category, value) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, row := range rowsFor(name, photo, set) {
		if _, err := stmt.ExecContext(ctx, row.Name, row.Photo, row.Category, row.Value); err != nil {
			metrics.RecordErrorByComponent("repository", "write")
			return fmt.Errorf("insert entry: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		metrics.RecordErrorByComponent("repository", "write")
		return fmt.Errorf("commit upsert: %w", err)
	}

	metrics.UpdateTotalNames(s.Count(ctx))
	s.opts.logger.Debug(ctx, "leaderboard upserted", logger.String("name", name))
	return nil
}

// QueryTop implements Store.QueryTop.
func (s *SQLiteStore) QueryTop(ctx context.Context, category string, limit int) ([]Entry, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreQueryLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	if limit < 1 {
		metrics.RecordErrorByComponent("repository", "invalid_limit")
		return nil, ErrInvalidLimit
	}
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, photo, category, value FROM entries
		  WHERE category = ?
		  ORDER BY value DESC, seq ASC
		  LIMIT ?`,
		category, limit)
	if err != nil {
		return nil, fmt.Errorf("query top: %w", err)
	}
	return scanEntries(rows)
}

// Count implements Store.Count.
func (s *SQLiteStore) Count(ctx context.Context) int {
	if s.ready(ctx) != nil {
		return 0
	}
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(DISTINCT name) FROM entries`).Scan(&n); err != nil {
		s.opts.logger.Warn(ctx, "count names failed", logger.Error(err))
		return 0
	}
	return n
}

// Close implements Store.Close.
func (s *SQLiteStore) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

func (s *SQLiteStore) ready(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.closed.Load() {
		return ErrStoreClosed
	}
	return nil
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	defer func() { _ = rows.Close() }()

	out := []Entry{}
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Name, &e.Photo, &e.Category, &e.Value); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}
	return out, nil
}
