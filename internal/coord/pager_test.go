package coord

import "testing"

func TestPagerStartsOnFirstPage(t *testing.T) {
	p := NewPager()
	if p.Cursor() != 0 || p.Input() != "1" {
		t.Errorf("NewPager = (%d, %q), want (0, \"1\")", p.Cursor(), p.Input())
	}
}

func TestPagerCommitClamps(t *testing.T) {
	tests := []struct {
		input      string
		total      int
		wantCursor int
		wantInput  string
	}{
		{"3", 5, 2, "3"},
		{"99", 5, 4, "5"},
		{"0", 5, 0, "1"},
		{"-4", 5, 0, "1"},
		{"abc", 5, 0, "1"},
		{"", 5, 0, "1"},
		{" 2 ", 5, 1, "2"},
		{"7", 0, 0, "1"},
		{"66", 66, 65, "66"},
		{"67", 66, 65, "66"},
	}
	for _, tt := range tests {
		p := NewPager()
		p.Edit(tt.input)
		p.Commit(tt.total)
		if p.Cursor() != tt.wantCursor || p.Input() != tt.wantInput {
			t.Errorf("Commit(%q, total=%d) = (%d, %q), want (%d, %q)",
				tt.input, tt.total, p.Cursor(), p.Input(), tt.wantCursor, tt.wantInput)
		}
	}
}

func TestPagerEditDoesNotMoveCursor(t *testing.T) {
	p := NewPager()
	p.Edit("12")
	if p.Cursor() != 0 {
		t.Errorf("Edit moved cursor to %d", p.Cursor())
	}
	if p.Input() != "12" {
		t.Errorf("Input = %q, want 12", p.Input())
	}
}

func TestPagerNextPrev(t *testing.T) {
	p := NewPager()

	if p.Prev() {
		t.Error("Prev on first page should be blocked")
	}

	if !p.Next(3) || !p.Next(3) {
		t.Fatal("Next should advance within total")
	}
	if p.Next(3) {
		t.Error("Next on last page should be blocked")
	}
	if p.Cursor() != 2 || p.Input() != "3" {
		t.Errorf("after two Next = (%d, %q)", p.Cursor(), p.Input())
	}

	if !p.Prev() || p.Cursor() != 1 || p.Input() != "2" {
		t.Errorf("Prev = (%d, %q), want (1, \"2\")", p.Cursor(), p.Input())
	}
}

func TestPagerNextWithUnknownTotal(t *testing.T) {
	p := NewPager()
	for i := 0; i < 3; i++ {
		if !p.Next(UnknownTotal) {
			t.Fatalf("Next with an unknown total should be permitted (step %d)", i)
		}
	}
	if p.Cursor() != 3 {
		t.Errorf("cursor = %d, want 3", p.Cursor())
	}
}

func TestPagerNextBlockedOnEmptyTotal(t *testing.T) {
	p := NewPager()
	if p.Next(0) || p.CanNext(0) {
		t.Error("Next must not move when the list is known to be empty")
	}
	if p.Cursor() != 0 || p.Input() != "1" {
		t.Errorf("pager = (%d, %q), want (0, \"1\")", p.Cursor(), p.Input())
	}
}

func TestPagerNextResyncsPendingEdit(t *testing.T) {
	p := NewPager()
	p.Edit("40")
	p.Next(10)
	if p.Input() != "2" {
		t.Errorf("Next should resync buffer, got %q", p.Input())
	}
}

func TestPagerReset(t *testing.T) {
	p := NewPager()
	p.Next(5)
	p.Next(5)
	p.Reset()
	if p.Cursor() != 0 || p.Input() != "1" {
		t.Errorf("Reset = (%d, %q)", p.Cursor(), p.Input())
	}
}

func TestTotalPages(t *testing.T) {
	tests := []struct{ n, size, want int }{
		{1302, 20, 66},
		{1300, 20, 65},
		{1, 20, 1},
		{0, 20, 0},
		{45, 20, 3},
		{10, 0, 0},
	}
	for _, tt := range tests {
		if got := totalPages(tt.n, tt.size); got != tt.want {
			t.Errorf("totalPages(%d, %d) = %d, want %d", tt.n, tt.size, got, tt.want)
		}
	}
}
