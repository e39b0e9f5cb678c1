package repository

import (
	"os"

	"github.com/okian/radar/pkg/logger"
)

const defaultFileMode os.FileMode = 0o644

type options struct {
	logger   logger.Logger
	fileMode os.FileMode
}

// Option applies a configuration option to a store.
type Option func(*options)

// WithLogger sets the logger used for recoverable conditions such as a
// malformed leaderboard file.
func WithLogger(l logger.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithFileMode sets the permissions of files the store creates.
func WithFileMode(mode os.FileMode) Option {
	return func(o *options) {
		if mode != 0 {
			o.fileMode = mode
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{
		logger:   logger.Nop(),
		fileMode: defaultFileMode,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
