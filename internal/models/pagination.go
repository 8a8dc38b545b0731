package models

import "math"

// Pagination describes one page of a filtered result set. HasNext and
// HasPrev are derived from CurrentPage and TotalPages.
type Pagination struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	TotalCount  int64 `json:"totalCount"`
	Limit       int   `json:"limit"`
	HasNext     bool  `json:"hasNext"`
	HasPrev     bool  `json:"hasPrev"`
}

// NewPagination builds pagination metadata for page of size limit over total matches
func NewPagination(page, limit int, total int64) Pagination {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 1
	}
	if total < 0 {
		total = 0
	}
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return Pagination{
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalCount:  total,
		Limit:       limit,
		HasNext:     page < totalPages,
		HasPrev:     page > 1,
	}
}

// WithPage returns a copy moved to page n with the flags recomputed
func (p Pagination) WithPage(n int) Pagination {
	return NewPagination(n, p.Limit, p.TotalCount)
}

// Offset is the number of matches skipped before this page
func (p Pagination) Offset() int64 {
	return PageOffset(p.CurrentPage, p.Limit)
}

// PageOffset is the number of matches skipped before page when pages hold
// limit matches. It saturates at math.MaxInt64 instead of overflowing.
func PageOffset(page, limit int) int64 {
	if page < 1 || limit < 1 {
		return 0
	}
	skipped := int64(page - 1)
	if skipped > math.MaxInt64/int64(limit) {
		return math.MaxInt64
	}
	return skipped * int64(limit)
}
