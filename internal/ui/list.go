package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/abelbrown/pokedex/internal/catalog"
	"github.com/abelbrown/pokedex/internal/coord"
)

// RenderList renders up to height rows of items, scrolled so the cursor
// row is visible.
func RenderList(items []catalog.EntityRef, cursor, width, height int, isFavorite func(int) bool) string {
	if height < 1 {
		height = 1
	}
	offset := calcScrollOffset(len(items), cursor, height)

	var b strings.Builder
	for i := offset; i < len(items) && i < offset+height; i++ {
		fav := isFavorite != nil && isFavorite(items[i].ID)
		b.WriteString(renderRow(items[i], i == cursor, fav, width))
		b.WriteString("\n")
	}
	return b.String()
}

// calcScrollOffset returns the first visible index that keeps cursor on screen.
func calcScrollOffset(n, cursor, height int) int {
	if n == 0 || cursor < 0 {
		return 0
	}
	if cursor >= n {
		cursor = n - 1
	}
	if cursor >= height {
		return cursor - height + 1
	}
	return 0
}

func renderRow(ref catalog.EntityRef, selected, favorite bool, width int) string {
	star := "  "
	if favorite {
		star = StarStyle.Render("★ ")
	}
	id := fmt.Sprintf("#%03d", ref.ID)
	name := truncateRunes(catalog.FormatName(ref.Name), max(width-14, 8))

	if selected {
		return SelectedItem.Render(fmt.Sprintf("%s %s %s", star, id, name))
	}
	return NormalItem.Render(star + IDStyle.Render(id) + " " + name)
}

// RenderPagination renders the page control of a paged mode. The go-to
// field shows input while it is being edited.
func RenderPagination(p *coord.PageInfo, input string, editing bool, width int) string {
	if p == nil {
		return ""
	}

	prev := "‹ prev"
	if p.Cursor == 0 {
		prev = PaginationDisabled.Render(prev)
	}
	next := "next ›"
	if p.TotalPages != coord.UnknownTotal && p.Cursor+1 >= p.TotalPages {
		next = PaginationDisabled.Render(next)
	}

	total := "?"
	if p.TotalPages != coord.UnknownTotal {
		total = fmt.Sprint(p.TotalPages)
	}
	field := "[" + p.Input + "]"
	if editing {
		field = "[" + input + "]"
	}

	line := fmt.Sprintf("%s   Page %s of %s   %s", prev, field, total, next)
	return Pagination.Width(width).Align(lipgloss.Center).Render(line)
}

// RenderStatusBar renders the bottom bar: position, sync state and help.
func RenderStatusBar(position string, syncing bool, helpView string, width int) string {
	left := " " + position + " "
	if syncing {
		left += SyncStyle.Render("⟳ syncing ")
	}

	padding := width - lipgloss.Width(left) - lipgloss.Width(helpView) - 2
	if padding < 0 {
		padding = 0
	}
	return StatusBar.Width(width).Render(left + strings.Repeat(" ", padding) + helpView)
}

// emptyMessage is the list placeholder when a mode has nothing to show.
func emptyMessage(v coord.View, search string) string {
	switch v.Mode {
	case coord.ModeFavorites:
		if search != "" {
			return fmt.Sprintf("No favorites match %q.", search)
		}
		return "No favorites yet. Press s on a Pokemon to star it."
	case coord.ModeSearch:
		return fmt.Sprintf("No Pokemon match %q.", search)
	default:
		return "No Pokemon found."
	}
}

// truncateRunes shortens s to at most n runes, marking the cut with "…".
func truncateRunes(s string, n int) string {
	r := []rune(s)
	if n <= 0 {
		return ""
	}
	if len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}
