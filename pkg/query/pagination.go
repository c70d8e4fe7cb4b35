package query

import "math"

// Pagination is the navigation derived from page, limit and a total count.
// NextPage / PrevPage are only meaningful when HasNext / HasPrev are set.
type Pagination struct {
	HasNext   bool
	NextPage  int
	HasPrev   bool
	PrevPage  int
	PageLimit int
}

// BuildPagination never rejects out-of-range pages: a page past the end just
// has no next page.
func BuildPagination(page, limit int, totalCount int64) Pagination {
	p := Pagination{PageLimit: limit}

	if endIndex, ok := mulNoOverflow(int64(page), int64(limit)); ok && endIndex < totalCount {
		p.HasNext = true
		p.NextPage = page + 1
	}
	if startIndex, ok := mulNoOverflow(int64(page-1), int64(limit)); !ok || startIndex > 0 {
		p.HasPrev = true
		p.PrevPage = page - 1
	}
	return p
}

// Pagination computes navigation for this descriptor's page and limit.
func (d Descriptor) Pagination(totalCount int64) Pagination {
	return BuildPagination(d.Page, d.Limit, totalCount)
}

// mulNoOverflow reports ok=false when a*b does not fit in int64. Only
// positive overflow is possible for the inputs used here.
func mulNoOverflow(a, b int64) (int64, bool) {
	if a > 0 && b > 0 && a > math.MaxInt64/b {
		return 0, false
	}
	return a * b, true
}
