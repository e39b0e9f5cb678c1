package smoketest

import (
	"fmt"

	"github.com/okian/radar/internal/domain/stats"
)

// verifyBoard checks one category board: ranks count up from 1, values never
// increase, and every row for a name this run submitted carries the value
// the generator gives that name. It returns the number of such rows.
func verifyBoard(category stats.Category, entries []boardEntry, submitted map[string]bool) (int, error) {
	verified := 0
	for i, e := range entries {
		if e.Rank != i+1 {
			return verified, fmt.Errorf("%s: row %d has rank %d", category, i, e.Rank)
		}
		if e.Category != category.String() {
			return verified, fmt.Errorf("%s: row %d has category %q", category, i, e.Category)
		}
		if i > 0 && e.Value > entries[i-1].Value {
			return verified, fmt.Errorf("%s: row %d (%d) outranks row %d (%d)", category, i, e.Value, i-1, entries[i-1].Value)
		}
		if !submitted[e.Name] {
			continue
		}
		want, _ := stats.Generate(e.Name).Get(category)
		if e.Value != want {
			return verified, fmt.Errorf("%s: %q has %d, generator gives %d", category, e.Name, e.Value, want)
		}
		verified++
	}
	return verified, nil
}

// expectedTop returns the best value among names for category.
func expectedTop(category stats.Category, names []string) int {
	best := -1
	for _, n := range names {
		if v, _ := stats.Generate(n).Get(category); v > best {
			best = v
		}
	}
	return best
}
