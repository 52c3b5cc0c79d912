package service

import (
	"math"

	"blogapi/internal/models"
)

const (
	PostsPageSize         = 10
	CategoryPostsPageSize = 6
	CommentsPageSize      = 10
)

// Page describes the slice of a list that was returned.
type Page struct {
	Current    int
	TotalPages int
	Total      int64
}

// offsetFor returns the row offset of page, saturating instead of overflowing.
func offsetFor(page, limit int) int {
	if page < 1 {
		page = 1
	}
	if page-1 > math.MaxInt/limit {
		return math.MaxInt
	}
	return (page - 1) * limit
}

// pageFor builds page metadata, rejecting a page past the last one when there are rows.
func pageFor(page, limit int, total int64) (Page, error) {
	if page < 1 {
		page = 1
	}
	totalPages := (total + int64(limit) - 1) / int64(limit)
	if total > 0 && int64(page) > totalPages {
		return Page{}, models.NewInvalidPageError()
	}
	return Page{Current: page, TotalPages: int(totalPages), Total: total}, nil
}
