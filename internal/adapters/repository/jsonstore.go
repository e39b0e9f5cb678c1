package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/okian/radar/internal/domain/stats"
	"github.com/okian/radar/pkg/logger"
	"github.com/okian/radar/pkg/metrics"
)

// JSONStore keeps the whole leaderboard in one JSON array file and rewrites
// it on every Upsert.
//
// Writes go to a temporary file in the same directory which is then renamed
// over the target, so readers see either the old or the new collection.
type JSONStore struct {
	mu     sync.RWMutex
	path   string
	opts   options
	closed bool
}

// NewJSONStore opens the leaderboard file at path, creating the parent
// directory and an empty collection if the file does not exist yet.
func NewJSONStore(ctx context.Context, path string, opts ...Option) (*JSONStore, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: leaderboard path is required", ErrInvalidPath)
	}
	s := &JSONStore{
		path: filepath.Clean(path),
		opts: buildOptions(opts),
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return nil, fmt.Errorf("create leaderboard dir: %w", err)
	}
	if _, err := os.Stat(s.path); errors.Is(err, fs.ErrNotExist) {
		if err := s.write([]Entry{}); err != nil {
			return nil, err
		}
		s.opts.logger.Info(ctx, "created leaderboard file", logger.String("path", s.path))
	} else if err != nil {
		return nil, fmt.Errorf("stat leaderboard file: %w", err)
	}

	entries, err := s.read(ctx)
	if err != nil {
		return nil, err
	}
	metrics.UpdateTotalNames(countNames(entries))
	return s, nil
}

// Path returns the leaderboard file location.
func (s *JSONStore) Path() string { return s.path }

// Load implements Store.Load.
func (s *JSONStore) Load(ctx context.Context) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrStoreClosed
	}
	return s.read(ctx)
}

// Upsert implements Store.Upsert. The read-modify-write cycle runs under the
// store's write lock.
func (s *JSONStore) Upsert(ctx context.Context, name, photo string, set stats.StatSet) error {
	start := time.Now()
	defer func() {
		metrics.RecordStoreUpsertLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStoreClosed
	}

	current, err := s.read(ctx)
	if err != nil {
		metrics.RecordErrorByComponent("repository", "read")
		return err
	}
	next := replaceName(current, name, photo, set)
	if err := s.write(next); err != nil {
		metrics.RecordErrorByComponent("repository", "write")
		return err
	}

	metrics.UpdateTotalNames(countNames(next))
	s.opts.logger.Debug(ctx, "leaderboard upserted",
		logger.String("name", name),
		logger.Int("entries", len(next)),
	)
	return nil
}

// QueryTop implements Store.QueryTop.
func (s *JSONStore) QueryTop(ctx context.Context, category string, limit int) ([]Entry, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreQueryLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	if limit < 1 {
		metrics.RecordErrorByComponent("repository", "invalid_limit")
		return nil, ErrInvalidLimit
	}
	entries, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	return topByCategory(entries, category, limit), nil
}

// Count implements Store.Count.
func (s *JSONStore) Count(ctx context.Context) int {
	entries, err := s.Load(ctx)
	if err != nil {
		return 0
	}
	return countNames(entries)
}

// Close implements Store.Close.
func (s *JSONStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// read loads the file. Missing or malformed content is an empty collection;
// other I/O failures are returned.
func (s *JSONStore) read(ctx context.Context) ([]Entry, error) {
	b, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []Entry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read leaderboard: %w", err)
	}

	var entries []Entry
	if err := json.Unmarshal(b, &entries); err != nil {
		metrics.RecordMalformedLoad()
		s.opts.logger.Warn(ctx, "malformed leaderboard file; treating as empty",
			logger.String("path", s.path),
			logger.Error(err),
		)
		return []Entry{}, nil
	}
	if entries == nil {
		entries = []Entry{}
	}
	return entries, nil
}

// write replaces the file contents with entries via temp file and rename.
func (s *JSONStore) write(entries []Entry) error {
	b, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encode leaderboard: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp leaderboard: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp leaderboard: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync temp leaderboard: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp leaderboard: %w", err)
	}
	if err := os.Chmod(tmpName, s.opts.fileMode); err != nil {
		return fmt.Errorf("chmod temp leaderboard: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace leaderboard: %w", err)
	}
	return nil
}
