package entity

const (
	DefaultPage  = 1
	DefaultLimit = 12
	MaxLimit     = 100
)

// PageRequest is a 1-based page and a page size.
type PageRequest struct {
	Page  int
	Limit int
}

// Normalize clamps the request into valid bounds using def as the default limit.
func (p PageRequest) Normalize(def int) PageRequest {
	if def <= 0 {
		def = DefaultLimit
	}
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.Limit < 1 {
		p.Limit = def
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p
}

// Offset is the number of records to skip.
func (p PageRequest) Offset() int { return (p.Page - 1) * p.Limit }

type Pagination struct {
	CurrentPage   int   `json:"currentPage"`
	Limit         int   `json:"limit"`
	TotalPages    int   `json:"totalPages"`
	TotalProducts int64 `json:"totalProducts"`
	HasNext       bool  `json:"hasNext"`
	HasPrev       bool  `json:"hasPrev"`
}

// NewPagination computes the page metadata for total records.
func NewPagination(p PageRequest, total int64) Pagination {
	pages := 0
	if p.Limit > 0 {
		pages = int((total + int64(p.Limit) - 1) / int64(p.Limit))
	}
	return Pagination{
		CurrentPage:   p.Page,
		Limit:         p.Limit,
		TotalPages:    pages,
		TotalProducts: total,
		HasNext:       p.Page < pages,
		HasPrev:       p.Page > 1,
	}
}

// Page is a slice of results with its pagination metadata.
type Page[T any] struct {
	Items      []T
	Pagination Pagination
}
