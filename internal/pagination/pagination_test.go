package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func TestPageSlicesItems(t *testing.T) {
	items := seq(23)
	p := New(len(items), PerPage)

	tests := []struct {
		raw   string
		want  []int
		page  int
		next  bool
		prev  bool
		start int
		end   int
	}{
		{raw: "", want: seq(10), page: 1, next: true, prev: false, start: 1, end: 10},
		{raw: "2", want: seq(20)[10:], page: 2, next: true, prev: true, start: 11, end: 20},
		{raw: "3", want: []int{20, 21, 22}, page: 3, next: false, prev: true, start: 21, end: 23},
	}
	for _, tt := range tests {
		t.Run("page="+tt.raw, func(t *testing.T) {
			pg := p.Page(tt.raw)
			assert.Equal(t, tt.page, pg.Number)
			assert.Equal(t, tt.want, Slice(items, pg))
			assert.Equal(t, tt.next, pg.HasNext())
			assert.Equal(t, tt.prev, pg.HasPrevious())
			assert.Equal(t, tt.start, pg.StartIndex())
			assert.Equal(t, tt.end, pg.EndIndex())
			assert.Equal(t, len(tt.want), pg.Len())
		})
	}
}

func TestPageClampsOutOfRange(t *testing.T) {
	p := New(13, PerPage)

	assert.Equal(t, 2, p.NumPages())
	assert.Equal(t, 2, p.Page("7").Number)
	assert.Equal(t, 2, p.Page("99999999999999999999999").Number)
	assert.Equal(t, 1, p.Page("0").Number)
	assert.Equal(t, 1, p.Page("-3").Number)
	assert.Equal(t, 1, p.Page("-99999999999999999999999").Number)
	assert.Equal(t, 1, p.Page("abc").Number)
	assert.Equal(t, 1, p.Page("1.5").Number)
	assert.Equal(t, 2, p.Page(" 2 ").Number)
}

func TestEmptyResultHasOneEmptyPage(t *testing.T) {
	p := New(0, PerPage)
	pg := p.Page("4")

	assert.Equal(t, 1, pg.Number)
	assert.Equal(t, 1, pg.NumPages)
	assert.Equal(t, 0, pg.Len())
	assert.Equal(t, 0, pg.StartIndex())
	assert.False(t, pg.HasOtherPages())
	assert.Empty(t, Slice([]string{}, pg))
}

func TestPageKContainsExpectedWindow(t *testing.T) {
	for n := 0; n <= 35; n++ {
		items := seq(n)
		p := New(n, PerPage)
		for k := 1; k <= p.NumPages(); k++ {
			got := Slice(items, p.Number(k))
			lo, hi := (k-1)*10, k*10
			if hi > n {
				hi = n
			}
			assert.Equal(t, items[lo:hi], got, "n=%d k=%d", n, k)
		}
	}
}

func TestNeighbourNumbers(t *testing.T) {
	pg := New(25, PerPage).Number(2)
	assert.Equal(t, 3, pg.NextNumber())
	assert.Equal(t, 1, pg.PreviousNumber())
	assert.Equal(t, []int{1, 2, 3}, pg.Range())

	last := New(25, PerPage).Number(3)
	assert.Equal(t, 3, last.NextNumber())
}

func TestNewGuardsBadInput(t *testing.T) {
	p := New(-5, 0)
	assert.Equal(t, 0, p.Count)
	assert.Equal(t, PerPage, p.PerPage)
}
