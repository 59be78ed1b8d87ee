package undoable

import (
	"slices"

	"github.com/dshills/undoable/internal/history"
)

// Filter decides whether candidate is committed to the history.
// Returning false updates the present without recording a checkpoint.
type Filter[S any] func(action Action, candidate S, h history.History[S]) bool

// IncludeAction returns a filter keeping only the given action types.
func IncludeAction[S any](types ...string) Filter[S] {
	types = slices.Clone(types)
	return func(action Action, _ S, _ history.History[S]) bool {
		return slices.Contains(types, action.Type)
	}
}

// ExcludeAction returns a filter dropping the given action types.
func ExcludeAction[S any](types ...string) Filter[S] {
	types = slices.Clone(types)
	return func(action Action, _ S, _ history.History[S]) bool {
		return !slices.Contains(types, action.Type)
	}
}

// CombineFilters returns a filter keeping a state only when every filter
// keeps it. Nil filters are skipped; with no filters left it returns nil.
func CombineFilters[S any](filters ...Filter[S]) Filter[S] {
	active := make([]Filter[S], 0, len(filters))
	for _, f := range filters {
		if f != nil {
			active = append(active, f)
		}
	}

	switch len(active) {
	case 0:
		return nil
	case 1:
		return active[0]
	}

	return func(action Action, candidate S, h history.History[S]) bool {
		for _, f := range active {
			if !f(action, candidate, h) {
				return false
			}
		}
		return true
	}
}
