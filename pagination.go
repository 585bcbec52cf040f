package facet

import (
	"net/url"
	"strconv"
)

// DefaultPageSize is the search API's result page size.
const DefaultPageSize = 100

// Pagination describes the paging state for one search result set.
//
// It is a pure function of the result count, the page size and the
// requested page, computed by Paginate.
type Pagination struct {
	TotalPages int
	ShowPrev   bool
	ShowNext   bool
	NextPage   *int
	PrevPage   *int
}

// TotalPages returns the number of pages needed for a result count,
// never less than one.
//
// Example:
//
//	facet.TotalPages(0, 100)    // 1
//	facet.TotalPages(101, 100)  // 2
//	facet.TotalPages(1001, 100) // 11
func TotalPages(total, pageSize int) int {
	if total <= pageSize {
		return 1
	}

	pages := total / pageSize
	if total%pageSize != 0 {
		pages++
	}

	return pages
}

// Paginate computes the pagination state for a result count.
//
// Pass page == 0 for an unpaginated request (no page parameter given).
// A requested page beyond the last page clamps PrevPage to the last page,
// so stale links degrade to the final page instead of a dead end.
func Paginate(numResults, pageSize, page int) Pagination {
	totalPages := TotalPages(numResults, pageSize)
	p := Pagination{TotalPages: totalPages}

	if page > 0 {
		if numResults > pageSize {
			next := page + 1
			p.NextPage = &next
		}

		if page > 1 {
			prev := page - 1
			p.PrevPage = &prev
			p.ShowPrev = true
		}
		if page > totalPages {
			prev := totalPages
			p.PrevPage = &prev
		}

		if totalPages > 1 && page < totalPages {
			p.ShowNext = true
		}

		return p
	}

	// no page given: we are on the first, unpaginated page
	if numResults > pageSize {
		next := 2
		p.NextPage = &next
	}
	if totalPages > 1 {
		p.ShowNext = true
	}

	return p
}

// ValidPage parses a page parameter. Valid pages are positive integers;
// anything else reports false, and the caller treats the search as
// unpaginated rather than failing.
//
// Example:
//
//	facet.ValidPage("100") // 100, true
//	facet.ValidPage("-1")  // 0, false
//	facet.ValidPage("aa")  // 0, false
func ValidPage(raw string) (int, bool) {
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 0, false
	}

	return page, true
}

// PageLinkArgs returns the request's parameters without the page key, for
// building next and previous page links without re-deriving the rest of
// the query string.
func PageLinkArgs(request *Request) url.Values {
	values := request.Values()
	values.Del(PageParameterName)

	return values
}

// ParsePageLink parses a search-API prev/next link back into a request,
// so "go to this page" links can be built without re-deriving page
// arithmetic.
func ParsePageLink(rawURL string) (*Request, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}

	return ParseRequest(u.Query()), nil
}
