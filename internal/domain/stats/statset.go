package stats

// MaxScore is the inclusive upper bound of every score.
const MaxScore = 100

// Score is one category value.
type Score struct {
	Category Category
	Value    int
}

// StatSet holds one score per category. The zero value has all scores 0.
type StatSet struct {
	values [NumCategories]int
}

// Get returns the score for c. ok is false for categories outside the set.
func (s StatSet) Get(c Category) (value int, ok bool) {
	i := c.index()
	if i < 0 {
		return 0, false
	}
	return s.values[i], true
}

// Scores returns every score in category order.
func (s StatSet) Scores() []Score {
	out := make([]Score, NumCategories)
	for i, c := range categories {
		out[i] = Score{Category: c, Value: s.values[i]}
	}
	return out
}

// Values returns the raw scores in category order.
func (s StatSet) Values() []int {
	out := make([]int, NumCategories)
	copy(out, s.values[:])
	return out
}

// Map returns the scores keyed by category label.
func (s StatSet) Map() map[string]int {
	out := make(map[string]int, NumCategories)
	for i, c := range categories {
		out[string(c)] = s.values[i]
	}
	return out
}

// FromValues builds a StatSet from scores in category order, clamping each
// into [0, MaxScore]. Missing trailing values are 0; extra values are ignored.
func FromValues(values ...int) StatSet {
	var s StatSet
	for i := 0; i < NumCategories && i < len(values); i++ {
		v := values[i]
		if v < 0 {
			v = 0
		}
		if v > MaxScore {
			v = MaxScore
		}
		s.values[i] = v
	}
	return s
}
