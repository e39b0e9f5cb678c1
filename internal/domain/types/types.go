// Package types contains common types used across the application
package types

// Entry is one persisted leaderboard row: a single category score for a name.
type Entry struct {
	Name     string `json:"name"`
	Photo    string `json:"photo"`
	Category string `json:"category"`
	Value    int    `json:"value"`
}

// RankedEntry is an Entry with its 1-based position in a query result.
type RankedEntry struct {
	Rank int `json:"rank"`
	Entry
}

// Rank numbers entries in the order given, starting at 1.
func Rank(entries []Entry) []RankedEntry {
	out := make([]RankedEntry, len(entries))
	for i, e := range entries {
		out[i] = RankedEntry{Rank: i + 1, Entry: e}
	}
	return out
}
