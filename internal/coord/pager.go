package coord

import (
	"strconv"
	"strings"
)

// UnknownTotal is the page total of a read that has not returned yet.
const UnknownTotal = -1

// Pager is a committed 0-based page cursor plus the 1-based text the user
// is editing. The zero value is not ready; use NewPager.
type Pager struct {
	cursor int
	input  string
}

// NewPager returns a pager on the first page.
func NewPager() Pager {
	return Pager{input: "1"}
}

// Cursor returns the committed 0-based page index.
func (p *Pager) Cursor() int { return p.cursor }

// Input returns the edit buffer.
func (p *Pager) Input() string { return p.input }

// Edit replaces the edit buffer without touching the cursor.
func (p *Pager) Edit(text string) { p.input = text }

// Commit parses the edit buffer and moves the cursor there. Non-numeric or
// empty input means page 1; the result is clamped to [1, max(total, 1)].
func (p *Pager) Commit(totalPages int) {
	n, err := strconv.Atoi(strings.TrimSpace(p.input))
	if err != nil {
		n = 1
	}
	n = clamp(n, 1, max(totalPages, 1))
	p.cursor = n - 1
	p.sync()
}

// Next advances one page. It is allowed while the total is UnknownTotal;
// otherwise it stops at the last page, and a known empty list has none.
func (p *Pager) Next(totalPages int) bool {
	if !p.CanNext(totalPages) {
		return false
	}
	p.cursor++
	p.sync()
	return true
}

// Prev moves back one page, stopping at the first.
func (p *Pager) Prev() bool {
	if !p.CanPrev() {
		return false
	}
	p.cursor--
	p.sync()
	return true
}

// CanNext reports whether Next would move.
func (p *Pager) CanNext(totalPages int) bool {
	return totalPages == UnknownTotal || p.cursor+1 < totalPages
}

// CanPrev reports whether Prev would move.
func (p *Pager) CanPrev() bool { return p.cursor > 0 }

// Reset returns to the first page.
func (p *Pager) Reset() {
	p.cursor = 0
	p.sync()
}

func (p *Pager) sync() { p.input = strconv.Itoa(p.cursor + 1) }

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}

// totalPages is ceil(n/size); zero for an empty list.
func totalPages(n, size int) int {
	if n <= 0 || size <= 0 {
		return 0
	}
	return (n + size - 1) / size
}
