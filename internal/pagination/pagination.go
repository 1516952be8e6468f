// Package pagination slices listings into pages.
package pagination

// DefaultPageSize is used when callers do not ask for a size.
const DefaultPageSize = 10

// Paginate returns the items of page (1-based) and the number of pages.
// A set smaller than one page is a single page. Pages past the end are empty.
func Paginate[T any](items []T, page, pageSize int) ([]T, int) {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if len(items) < pageSize {
		pageSize = max(len(items), 1)
	}
	total := (len(items) + pageSize - 1) / pageSize
	if page < 1 {
		page = 1
	}
	start := (page - 1) * pageSize
	if start >= len(items) {
		return []T{}, total
	}
	end := min(start+pageSize, len(items))
	return items[start:end], total
}
