package state

import "github.com/cuongdevv/track/internal/trackstat"

// NewPagination returns the default paging position: server-side, first page,
// default page size.
func NewPagination() Pagination {
	return Pagination{
		ItemsPerPage: DefaultPageSize,
		CurrentPage:  1,
		TotalPages:   1,
		TotalItems:   0,
		ServerSide:   true,
	}
}

// SetPage clamps n into [1, TotalPages] and moves to it.
func (p *Pagination) SetPage(n int) {
	if n < 1 {
		n = 1
	}
	if n > p.TotalPages {
		n = p.TotalPages
	}
	p.CurrentPage = n
}

// SetPageSize changes the page size and resets to the first page.
func (p *Pagination) SetPageSize(size int) {
	if size < 1 {
		size = DefaultPageSize
	}
	p.ItemsPerPage = size
	p.CurrentPage = 1
}

// ApplyServer overwrites the local paging totals with the server's
// authoritative pagination block.
func (p *Pagination) ApplyServer(meta trackstat.PageMeta) {
	p.ServerSide = true
	p.TotalItems = meta.TotalItems
	p.TotalPages = meta.TotalPages
	if p.TotalPages < 1 {
		p.TotalPages = 1
	}
	if meta.Page >= 1 {
		p.CurrentPage = meta.Page
	}
	if p.CurrentPage > p.TotalPages {
		p.CurrentPage = p.TotalPages
	}
}

// ApplyLocal recomputes totals from a locally held dataset and clamps the
// current page into range.
func (p *Pagination) ApplyLocal(totalItems int) {
	p.ServerSide = false
	p.TotalItems = totalItems
	p.TotalPages = (totalItems + p.ItemsPerPage - 1) / p.ItemsPerPage
	if p.TotalPages < 1 {
		p.TotalPages = 1
	}
	if p.CurrentPage > p.TotalPages {
		p.CurrentPage = p.TotalPages
	}
	if p.CurrentPage < 1 {
		p.CurrentPage = 1
	}
}

// PageSlice returns the bounds of the visible page within a dataset of n
// items. Only meaningful in client-side mode; in server-side mode the held
// data already is the page.
func (p Pagination) PageSlice(n int) (start, end int) {
	start = (p.CurrentPage - 1) * p.ItemsPerPage
	if start > n {
		start = n
	}
	end = start + p.ItemsPerPage
	if end > n {
		end = n
	}
	return start, end
}
