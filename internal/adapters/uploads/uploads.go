// Package uploads stores submitted photos on the local filesystem.
package uploads

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/okian/radar/pkg/logger"
	"github.com/okian/radar/pkg/metrics"
)

const (
	defaultMaxBytes     = 16 << 20
	defaultFileMode     = 0o644
	generatedNamePrefix = "upload-"
)

// Store writes uploads into a single flat directory. Files are keyed by their
// sanitized original name; the last writer of a name wins.
type Store struct {
	dir      string
	maxBytes int64
	fileMode os.FileMode
	logger   logger.Logger
}

// Option applies a configuration option to the Store.
type Option func(*Store)

// WithMaxBytes caps the size of a single upload.
func WithMaxBytes(n int64) Option {
	return func(s *Store) {
		if n > 0 {
			s.maxBytes = n
		}
	}
}

// WithFileMode sets the permissions of stored files.
func WithFileMode(mode os.FileMode) Option {
	return func(s *Store) {
		if mode != 0 {
			s.fileMode = mode
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates dir if needed and returns a Store writing there.
func New(dir string, opts ...Option) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: upload dir is required", ErrInvalidDir)
	}
	s := &Store{
		dir:      filepath.Clean(dir),
		maxBytes: defaultMaxBytes,
		fileMode: defaultFileMode,
		logger:   logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return s, nil
}

// Dir returns the upload directory.
func (s *Store) Dir() string { return s.dir }

// MaxBytes returns the per-upload size limit.
func (s *Store) MaxBytes() int64 { return s.maxBytes }

// Save copies r into the upload directory under the sanitized form of
// filename and returns the stored name. When sanitizing leaves nothing, a
// random name is generated instead.
func (s *Store) Save(ctx context.Context, filename string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	stored := SecureFilename(filename)
	if stored == "" {
		stored = generatedNamePrefix + uuid.NewString()
		s.logger.Debug(ctx, "upload name sanitized to empty; generated one",
			logger.String("original", filename),
			logger.String("stored", stored),
		)
	}

	tmp, err := os.CreateTemp(s.dir, ".upload-*.tmp")
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrSave, err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	n, err := io.Copy(tmp, io.LimitReader(r, s.maxBytes+1))
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrSave, err)
	}
	if n > s.maxBytes {
		return "", fmt.Errorf("%w: more than %d bytes", ErrTooLarge, s.maxBytes)
	}
	if err := os.Chmod(tmpName, s.fileMode); err != nil {
		return "", fmt.Errorf("%w: %w", ErrSave, err)
	}
	if err := os.Rename(tmpName, filepath.Join(s.dir, stored)); err != nil {
		return "", fmt.Errorf("%w: %w", ErrSave, err)
	}

	metrics.RecordUploadBytes(n)
	s.logger.Debug(ctx, "upload stored",
		logger.String("file", stored),
		logger.Int64("bytes", n),
	)
	return stored, nil
}

// IsTooLarge reports whether err is a size-limit rejection.
func IsTooLarge(err error) bool {
	return errors.Is(err, ErrTooLarge)
}
