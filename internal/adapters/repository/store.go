// Package repository persists leaderboard entries and answers top-N queries.
package repository

import (
	"context"

	"github.com/okian/radar/internal/domain/stats"
	"github.com/okian/radar/internal/domain/types"
)

// Entry is one persisted leaderboard row.
type Entry = types.Entry

// Store provides read/write access to the leaderboard.
//
// Implementations serialize Upsert so that concurrent submissions cannot
// lose each other's rows.
type Store interface {
	// Load returns every entry in insertion order. Absent or unreadable
	// persisted data yields an empty slice and no error.
	Load(ctx context.Context) ([]Entry, error)

	// Upsert removes all entries for name (exact match) and appends one entry
	// per category of s, in category order, all carrying photo.
	Upsert(ctx context.Context, name, photo string, s stats.StatSet) error

	// QueryTop returns at most limit entries of category ordered by value
	// descending. Ties keep their insertion order. Returns ErrInvalidLimit
	// when limit < 1.
	QueryTop(ctx context.Context, category string, limit int) ([]Entry, error)

	// Count returns the number of distinct names on the leaderboard.
	Count(ctx context.Context) int

	// Close releases resources. Further calls return ErrStoreClosed.
	Close() error
}
