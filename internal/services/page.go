package services

import "math"

// Page is one page of a paginated listing.
type Page[T any] struct {
	Items   []T   `json:"items"`
	Page    int   `json:"page"`
	PerPage int   `json:"per_page"`
	Total   int64 `json:"total"`
}

// Pages is the number of pages; 0 when there are no items.
func (p Page[T]) Pages() int {
	if p.PerPage <= 0 || p.Total <= 0 {
		return 0
	}
	return int((p.Total + int64(p.PerPage) - 1) / int64(p.PerPage))
}

// HasPrev reports whether a page precedes this one.
func (p Page[T]) HasPrev() bool { return p.Page > 1 }

// HasNext reports whether a page follows this one.
func (p Page[T]) HasNext() bool { return p.Page < p.Pages() }

// PrevNum is the number of the previous page. Only meaningful when HasPrev.
func (p Page[T]) PrevNum() int { return p.Page - 1 }

// NextNum is the number of the next page. Only meaningful when HasNext.
func (p Page[T]) NextNum() int { return p.Page + 1 }

// Numbers lists the page links to show: the first two pages, the last two,
// and a window around the current one. A 0 marks a gap.
func (p Page[T]) Numbers() []int {
	const (
		leftEdge     = 2
		leftCurrent  = 2
		rightCurrent = 4
		rightEdge    = 2
	)
	pages := p.Pages()
	var out []int
	last := 0
	for n := 1; n <= pages; n++ {
		if n <= leftEdge ||
			(n > p.Page-leftCurrent-1 && n < p.Page+rightCurrent) ||
			n > pages-rightEdge {
			if last+1 != n {
				out = append(out, 0)
			}
			out = append(out, n)
			last = n
		}
	}
	return out
}

// Bucket is the items of one category in a faceted listing.
type Bucket[T any] struct {
	Category string `json:"category"`
	Items    []T    `json:"items"`
}

// window turns a 1-based page into an offset/limit pair. Pages whose
// offset would overflow an int are pinned past any real result set.
func window(page, perPage int) (offset, limit int) {
	if page < 1 {
		page = 1
	}
	if perPage > 0 && page-1 > math.MaxInt/perPage {
		return math.MaxInt / perPage * perPage, perPage
	}
	return (page - 1) * perPage, perPage
}

func newPage[T any](items []T, page, perPage int, total int64) (Page[T], error) {
	if items == nil {
		items = []T{}
	}
	p := Page[T]{Items: items, Page: page, PerPage: perPage, Total: total}
	if page > 1 && (len(items) == 0 || page > p.Pages()) {
		return p, ErrPageOutOfRange
	}
	return p, nil
}
