// Package pagination splits an ordered result set into fixed-size pages.
//
// Requested page numbers never produce an error: anything missing or
// non-numeric is page 1, and out-of-range numbers are clamped to the first or
// last page.
package pagination

import (
	"errors"
	"strconv"
	"strings"
)

// PerPage is the page size used by every feed.
const PerPage = 10

type Paginator struct {
	Count   int
	PerPage int
}

func New(count, perPage int) *Paginator {
	if perPage < 1 {
		perPage = PerPage
	}
	if count < 0 {
		count = 0
	}
	return &Paginator{Count: count, PerPage: perPage}
}

// NumPages is at least 1; an empty result still has an (empty) first page.
func (p *Paginator) NumPages() int {
	if p.Count == 0 {
		return 1
	}
	return (p.Count + p.PerPage - 1) / p.PerPage
}

// Page resolves a raw query value such as the "page" parameter.
func (p *Paginator) Page(raw string) Page {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return p.Number(1)
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) && !strings.HasPrefix(raw, "-") {
			return p.Number(p.NumPages())
		}
		return p.Number(1)
	}
	return p.Number(n)
}

// Number returns page n clamped to [1, NumPages].
func (p *Paginator) Number(n int) Page {
	last := p.NumPages()
	if n < 1 {
		n = 1
	}
	if n > last {
		n = last
	}
	return Page{Number: n, NumPages: last, Count: p.Count, PerPage: p.PerPage}
}

// Page describes one page of a result set. It holds no items itself; callers
// use Offset/Limit against the store or Slice against an in-memory sequence.
type Page struct {
	Number   int
	NumPages int
	Count    int
	PerPage  int
}

func (pg Page) Offset() int {
	return (pg.Number - 1) * pg.PerPage
}

func (pg Page) Limit() int {
	return pg.PerPage
}

// Len is the number of items that fall on this page.
func (pg Page) Len() int {
	n := pg.Count - pg.Offset()
	if n > pg.PerPage {
		n = pg.PerPage
	}
	if n < 0 {
		return 0
	}
	return n
}

func (pg Page) HasNext() bool {
	return pg.Number < pg.NumPages
}

func (pg Page) HasPrevious() bool {
	return pg.Number > 1
}

func (pg Page) HasOtherPages() bool {
	return pg.HasNext() || pg.HasPrevious()
}

func (pg Page) NextNumber() int {
	if !pg.HasNext() {
		return pg.Number
	}
	return pg.Number + 1
}

func (pg Page) PreviousNumber() int {
	if !pg.HasPrevious() {
		return pg.Number
	}
	return pg.Number - 1
}

// StartIndex is the 1-based index of the first item on the page, 0 when empty.
func (pg Page) StartIndex() int {
	if pg.Count == 0 {
		return 0
	}
	return pg.Offset() + 1
}

// EndIndex is the 1-based index of the last item on the page.
func (pg Page) EndIndex() int {
	return pg.Offset() + pg.Len()
}

// Range lists every page number, for rendering page links.
func (pg Page) Range() []int {
	out := make([]int, pg.NumPages)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

// Slice returns the items of an ordered sequence that fall on pg.
func Slice[T any](items []T, pg Page) []T {
	start := pg.Offset()
	if start >= len(items) {
		return []T{}
	}
	end := start + pg.PerPage
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
