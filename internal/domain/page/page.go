// Package page derives page counts and slices for the filtered view.
package page

// DefaultPerPage is used until the viewport reports a page size.
const DefaultPerPage = 9

// TotalPages returns ceil(n/perPage), or 0 when there is nothing to show.
func TotalPages(n, perPage int) int {
	if n <= 0 || perPage <= 0 {
		return 0
	}
	return (n + perPage - 1) / perPage
}

// Clamp bounds p to [1, totalPages]. With no pages the only position is 1.
func Clamp(p, totalPages int) int {
	if totalPages < 1 {
		return 1
	}
	if p < 1 {
		return 1
	}
	if p > totalPages {
		return totalPages
	}
	return p
}

// Next returns the following page, staying put on the last one.
func Next(p, totalPages int) int {
	if p >= totalPages {
		return Clamp(p, totalPages)
	}
	return Clamp(p+1, totalPages)
}

// Prev returns the preceding page, staying put on the first one.
func Prev(p int) int {
	if p <= 1 {
		return 1
	}
	return p - 1
}

// Bounds returns the half-open [start, end) range of page p over n items.
// Out-of-range pages yield an empty range.
func Bounds(n, p, perPage int) (start, end int) {
	if n <= 0 || perPage <= 0 || p < 1 {
		return 0, 0
	}
	start = (p - 1) * perPage
	if start >= n {
		return n, n
	}
	end = start + perPage
	if end > n {
		end = n
	}
	return start, end
}

// Slice returns the items of page p.
func Slice[T any](items []T, p, perPage int) []T {
	start, end := Bounds(len(items), p, perPage)
	return items[start:end]
}
