// ABOUTME: Client-side filtering and pagination for list screens
// ABOUTME: Pure helpers over slices; inputs are never modified

package listview

import "strings"

// Page is one slice of a paginated list.
type Page[T any] struct {
	Items      []T
	PageIndex  int
	PageSize   int
	TotalItems int
	TotalPages int
}

// FilterByText keeps items where any field contains query, ignoring case.
// An empty query keeps everything. Order is preserved.
func FilterByText[T any](items []T, query string, fields ...func(T) string) []T {
	q := strings.ToLower(query)
	if q == "" || len(fields) == 0 {
		return clone(items)
	}
	return FilterBy(items, func(item T) bool {
		for _, field := range fields {
			if strings.Contains(strings.ToLower(field(item)), q) {
				return true
			}
		}
		return false
	})
}

// FilterBy keeps items for which keep returns true.
func FilterBy[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}

// Paginate returns page pageIndex (starting at 1) of items. A page outside
// the available range has no items; a size below one is treated as one.
func Paginate[T any](items []T, pageIndex, pageSize int) Page[T] {
	if pageSize < 1 {
		pageSize = 1
	}
	total := len(items)
	pages := total / pageSize
	if total%pageSize != 0 {
		pages++
	}
	p := Page[T]{
		Items:      []T{},
		PageIndex:  pageIndex,
		PageSize:   pageSize,
		TotalItems: total,
		TotalPages: pages,
	}

	// Bounds are checked on the page number so the offset cannot overflow.
	if pageIndex < 1 || pageIndex > pages {
		return p
	}
	start := (pageIndex - 1) * pageSize
	end := start + min(pageSize, total-start)
	p.Items = clone(items[start:end])
	return p
}

func clone[T any](items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	return out
}

// MatchField builds a FilterBy predicate for an exact, case-insensitive
// field match. An empty value matches everything.
func MatchField[T any](value string, field func(T) string) func(T) bool {
	return func(item T) bool {
		return value == "" || strings.EqualFold(field(item), value)
	}
}
