// Package sheets lays tags out on printable pages and exports them.
package sheets

import "ms-nametags/internal/models"

// PageSize is how many badges fit on one letter page.
const PageSize = 3

// Sheet is one printed page.
type Sheet struct {
	Number int          `json:"number"`
	Tags   []models.Tag `json:"tags"`
}

// Chunk splits items into consecutive pages of size, keeping order. Every page
// but the last is full; empty input gives no pages. A size below one is
// treated as PageSize.
func Chunk[T any](items []T, size int) [][]T {
	if size < 1 {
		size = PageSize
	}
	pages := make([][]T, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		page := make([]T, end-start)
		copy(page, items[start:end])
		pages = append(pages, page)
	}
	return pages
}

// Paginate numbers the pages of tags starting at 1.
func Paginate(tags []models.Tag) []Sheet {
	chunks := Chunk(tags, PageSize)
	out := make([]Sheet, len(chunks))
	for i, c := range chunks {
		out[i] = Sheet{Number: i + 1, Tags: c}
	}
	return out
}
