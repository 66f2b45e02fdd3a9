package fleet

import (
	"net/url"
	"strconv"
)

// PageRequest mirrors the backend's pagination query contract.
type PageRequest struct {
	Page          int
	Size          int
	SortBy        string
	SortDirection string // "asc" or "desc"
}

func (p PageRequest) query() url.Values {
	q := url.Values{}
	q.Set("page", strconv.Itoa(p.Page))
	if p.Size > 0 {
		q.Set("size", strconv.Itoa(p.Size))
	}
	if p.SortBy != "" {
		q.Set("sortBy", p.SortBy)
	}
	if p.SortDirection != "" {
		q.Set("sortDirection", p.SortDirection)
	}
	return q
}

// Page is one page of a listing, in the shape the backend already sends.
type Page[T any] struct {
	Content       []T   `json:"content"`
	Page          int   `json:"page"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	First         bool  `json:"first"`
	Last          bool  `json:"last"`
}
