package pagination

// Page carries everything a list view needs to render pagination controls.
type Page struct {
	Number     int   `json:"page"`
	Size       int   `json:"page_size"`
	TotalItems int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// Clamp normalizes a requested page number. Anything below 1 becomes 1;
// out-of-range pages are kept as-is so they resolve to an empty item set.
func Clamp(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

// Offset converts a 1-indexed page into a SQL OFFSET.
func Offset(page, size int) int {
	return (Clamp(page) - 1) * size
}

// New builds page metadata from a total row count.
func New(page, size int, total int64) Page {
	page = Clamp(page)
	totalPages := int((total + int64(size) - 1) / int64(size))
	return Page{
		Number:     page,
		Size:       size,
		TotalItems: total,
		TotalPages: totalPages,
	}
}

// HasPrev reports whether a previous page exists.
func (p Page) HasPrev() bool { return p.Number > 1 }

// HasNext reports whether a next page exists.
func (p Page) HasNext() bool { return p.Number < p.TotalPages }

// Prev returns the previous page number, never below 1.
func (p Page) Prev() int {
	if p.Number <= 1 {
		return 1
	}
	return p.Number - 1
}

// Next returns the next page number, never beyond the last page.
func (p Page) Next() int {
	if p.Number >= p.TotalPages {
		return p.TotalPages
	}
	return p.Number + 1
}
