package match

import "sort"

const (
	// DefaultMinScore is the minimum similarity for a column to be suggested.
	DefaultMinScore = 0.6
	// DefaultMaxSuggestions bounds the suggestion list in error messages.
	DefaultMaxSuggestions = 3
)

// Suggestion is a present column ranked against a missing one.
type Suggestion struct {
	Column string
	Score  float64
}

// SuggestionList is sorted by score (descending), then by column name.
type SuggestionList []Suggestion

func (l SuggestionList) Len() int      { return len(l) }
func (l SuggestionList) Swap(i, j int) { l[i], l[j] = l[j], l[i] }
func (l SuggestionList) Less(i, j int) bool {
	if l[i].Score != l[j].Score {
		return l[i].Score > l[j].Score
	}

	return l[i].Column < l[j].Column
}

// Columns returns the suggested column names.
func (l SuggestionList) Columns() []string {
	if len(l) == 0 {
		return nil
	}

	out := make([]string, len(l))
	for i, s := range l {
		out[i] = s.Column
	}

	return out
}

// SuggestColumns ranks present columns by similarity to want. Only columns
// sharing want's prefix are considered, so suggestions never cross into a
// sibling nested scope.
func SuggestColumns(want, prefix string, present []string, limit int) SuggestionList {
	if limit <= 0 {
		limit = DefaultMaxSuggestions
	}

	var out SuggestionList

	for _, col := range present {
		if !HasPrefix(col, prefix) {
			continue
		}

		score := ColumnSimilarity(want, col)
		if score < DefaultMinScore {
			continue
		}

		out = append(out, Suggestion{Column: col, Score: score})
	}

	sort.Sort(out)

	if len(out) > limit {
		out = out[:limit]
	}

	return out
}
