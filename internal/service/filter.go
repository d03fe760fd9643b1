package service

import (
	"strings"

	"golang.org/x/text/cases"
)

// MatchesQuery reports whether any field contains query, ignoring case.
// A blank query matches everything.
func MatchesQuery(query string, fields ...string) bool {
	fold := cases.Fold()
	needle := fold.String(strings.TrimSpace(query))
	if needle == "" {
		return true
	}
	for _, field := range fields {
		if strings.Contains(fold.String(field), needle) {
			return true
		}
	}
	return false
}

// FilterByQuery returns the items whose fields match query, keeping their order.
func FilterByQuery[T any](items []T, query string, fields func(T) []string) []T {
	if strings.TrimSpace(query) == "" {
		return items
	}
	filtered := make([]T, 0, len(items))
	for _, item := range items {
		if MatchesQuery(query, fields(item)...) {
			filtered = append(filtered, item)
		}
	}
	return filtered
}
