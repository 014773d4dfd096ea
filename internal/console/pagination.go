package console

import "github.com/GTDGit/vendor_console/pkg/vendoractivo"

// Pagination is the console's page state. Total and Pages always reflect
// the last successful fetch.
type Pagination struct {
	Page  int `json:"page" yaml:"page"`
	Limit int `json:"limit" yaml:"limit"`
	Total int `json:"total" yaml:"total"`
	Pages int `json:"pages" yaml:"pages"`
}

func initialPagination() Pagination {
	return Pagination{Page: 1, Limit: vendoractivo.PageSize}
}

// InRange reports whether n is a page the operator may navigate to.
func (p Pagination) InRange(n int) bool {
	return n >= 1 && n <= p.Pages
}

// HasPrev reports whether a previous page exists.
func (p Pagination) HasPrev() bool { return p.Page > 1 }

// HasNext reports whether a next page exists.
func (p Pagination) HasNext() bool { return p.Page < p.Pages }

// apply replaces the server-authoritative fields with a fetch result. The
// requested page is kept when the server does not echo one.
func (p Pagination) apply(requested int, server vendoractivo.Pagination) Pagination {
	next := Pagination{
		Page:  requested,
		Limit: p.Limit,
		Total: server.Total,
		Pages: server.Pages,
	}
	if server.Page > 0 {
		next.Page = server.Page
	}
	if server.Limit > 0 {
		next.Limit = server.Limit
	}
	return next
}

// PageItem is one entry of the page-number strip: either a page number or
// an ellipsis marker standing for a gap.
type PageItem struct {
	Number   int  `json:"number,omitempty" yaml:"number,omitempty"`
	Current  bool `json:"current,omitempty" yaml:"current,omitempty"`
	Ellipsis bool `json:"ellipsis,omitempty" yaml:"ellipsis,omitempty"`
}

// PageWindow derives the page strip: the first and last page, the current
// page and its neighbours, with one ellipsis per gap. Nothing is rendered
// when there is at most one page.
func PageWindow(current, pages int) []PageItem {
	if pages <= 1 {
		return nil
	}

	items := make([]PageItem, 0, 7)
	last := 0
	for n := 1; n <= pages; n++ {
		if n != 1 && n != pages && abs(n-current) > 1 {
			continue
		}
		if last != 0 && n-last > 1 {
			items = append(items, PageItem{Ellipsis: true})
		}
		items = append(items, PageItem{Number: n, Current: n == current})
		last = n
	}
	return items
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
