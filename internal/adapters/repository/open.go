package repository

import (
	"context"
	"fmt"
)

// Backend names a Store implementation.
type Backend string

// Supported backends.
const (
	BackendJSON   Backend = "json"
	BackendSQLite Backend = "sqlite"
)

// Open constructs the Store for backend at path.
func Open(ctx context.Context, backend Backend, path string, opts ...Option) (Store, error) {
	switch backend {
	case BackendJSON, "":
		return NewJSONStore(ctx, path, opts...)
	case BackendSQLite:
		return OpenSQLite(ctx, path, opts...)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, backend)
	}
}
