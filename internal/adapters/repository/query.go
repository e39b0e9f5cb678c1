package repository

import (
	"sort"

	"github.com/okian/radar/internal/domain/stats"
)

// replaceName drops every entry for name and appends the rows for s.
// The input slice is not modified.
func replaceName(entries []Entry, name, photo string, s stats.StatSet) []Entry {
	out := make([]Entry, 0, len(entries)+stats.NumCategories)
	for _, e := range entries {
		if e.Name != name {
			out = append(out, e)
		}
	}
	return append(out, rowsFor(name, photo, s)...)
}

// rowsFor expands a StatSet into entries in category order.
func rowsFor(name, photo string, s stats.StatSet) []Entry {
	scores := s.Scores()
	rows := make([]Entry, len(scores))
	for i, sc := range scores {
		rows[i] = Entry{
			Name:     name,
			Photo:    photo,
			Category: string(sc.Category),
			Value:    sc.Value,
		}
	}
	return rows
}

// topByCategory filters by exact category, stable-sorts by value descending
// and truncates to limit.
func topByCategory(entries []Entry, category string, limit int) []Entry {
	var out []Entry
	for _, e := range entries {
		if e.Category == category {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Value > out[j].Value
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func countNames(entries []Entry) int {
	seen := make(map[string]struct{}, len(entries)/stats.NumCategories+1)
	for _, e := range entries {
		seen[e.Name] = struct{}{}
	}
	return len(seen)
}
