package pagination

import "strconv"

// PageSize is the fixed number of items per page.
const PageSize = 10

// Paginate returns the 1-based page of items. Pages past the end (or below 1)
// yield an empty, non-nil slice; callers decide whether that is an error.
func Paginate[T any](items []T, page, size int) []T {
	if page < 1 || size < 1 {
		return []T{}
	}
	start := (page - 1) * size
	if start >= len(items) {
		return []T{}
	}
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// ParsePage reads a page query value, defaulting to 1 when it is missing or
// not an integer. Zero and negative pages are returned as is so Paginate
// yields an empty page for them.
func ParsePage(raw string) int {
	if raw == "" {
		return 1
	}
	page, err := strconv.Atoi(raw)
	if err != nil {
		return 1
	}
	return page
}
