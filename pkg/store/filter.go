package store

import "strings"

// FilterState is an immutable snapshot of the filter widgets: a kind filter,
// a status filter and a free-text search term. Empty values match everything.
type FilterState struct {
	Kind   string
	Status string
	Search string
}

// IsZero reports whether no filter is active.
func (f FilterState) IsZero() bool {
	return f.Kind == "" && f.Status == "" && f.Search == ""
}

// Project derives the filtered view of a record sequence. It is a pure
// function: the result is always a subsequence of records in the original
// order, all active predicates are ANDed, and the search term matches
// case-insensitively against each record's fixed searchable text.
func Project[T Record](records []T, state FilterState) []T {
	if state.IsZero() {
		return records
	}

	search := strings.ToLower(state.Search)
	out := make([]T, 0, len(records))
	for _, r := range records {
		if state.Kind != "" && r.FilterKind() != state.Kind {
			continue
		}
		if state.Status != "" && r.FilterStatus() != state.Status {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(r.SearchText()), search) {
			continue
		}
		out = append(out, r)
	}
	return out
}
