package domain

import "math"

const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// Page is one slice of a newest-first listing.
type Page[T any] struct {
	Items      []T `json:"items"`
	TotalPages int `json:"totalPages"`
	Page       int `json:"page"`
}

// NormalizePaging applies the listing defaults to unset or non-positive values.
func NormalizePaging(page, limit int) (int, int) {
	if page <= 0 {
		page = DefaultPage
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	return page, limit
}

// Offset returns the number of records to skip for page. It saturates at
// math.MaxInt instead of overflowing.
func Offset(page, limit int) int {
	if page <= 1 || limit <= 0 {
		return 0
	}
	if page-1 > math.MaxInt/limit {
		return math.MaxInt
	}
	return (page - 1) * limit
}

// PastEnd reports whether page starts after the last of total records.
func PastEnd(total int64, page, limit int) bool {
	return int64(Offset(page, limit)) >= total
}

// NewPage builds a Page with totalPages = ceil(total/limit).
func NewPage[T any](items []T, total int64, page, limit int) Page[T] {
	if items == nil {
		items = []T{}
	}
	totalPages := 0
	if limit > 0 {
		totalPages = int((total + int64(limit) - 1) / int64(limit))
	}
	return Page[T]{Items: items, TotalPages: totalPages, Page: page}
}
