package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/abelbrown/pokedex/internal/otel"
)

// debugPanelChrome is the number of terminal lines consumed by DebugPanel's
// border (top + bottom = 2) and vertical padding (top + bottom = 2).
// Must be updated if DebugPanel style changes.
const debugPanelChrome = 4

// debugOverlay renders the debug panel: query stats, recent problems and
// recent events. Empty when there is no ring to read from.
func debugOverlay(ring *otel.RingBuffer, session string, cacheKeys int, width, height int) string {
	if ring == nil {
		return ""
	}

	stats := ring.Stats()

	var lines []string
	lines = append(lines, DebugHeaderStyle.Render("Query Stats"))
	lines = append(lines, fmt.Sprintf("  Catalog:    %d responses, %d errors",
		stats[otel.KindCatalogResponse], stats[otel.KindCatalogError]))
	lines = append(lines, fmt.Sprintf("  Queries:    %d done, %d errors, %d deduped, %d refreshed",
		stats[otel.KindQueryDone], stats[otel.KindQueryError], stats[otel.KindQueryDedupHit], stats[otel.KindQueryRefresh]))
	lines = append(lines, fmt.Sprintf("  Favorites:  %d toggles, %d save errors",
		stats[otel.KindFavoriteToggle], stats[otel.KindFavoritesSave]))
	lines = append(lines, fmt.Sprintf("  Cache:      %d keys", cacheKeys))
	lines = append(lines, fmt.Sprintf("  Buffer:     %d / %d events", ring.Len(), ring.Cap()))
	if session != "" {
		lines = append(lines, "  Session:    "+session)
	}
	lines = append(lines, "")

	if problems := ring.Problems(5); len(problems) > 0 {
		lines = append(lines, DebugHeaderStyle.Render("Recent Problems"))
		for _, e := range problems {
			lines = append(lines, eventLine(e))
		}
		lines = append(lines, "")
	}

	lines = append(lines, DebugHeaderStyle.Render("Recent Events"))
	for _, e := range ring.Last(20) {
		lines = append(lines, eventLine(e))
	}

	// Truncate to fit terminal height (subtract chrome added by DebugPanel border/padding)
	maxHeight := height - debugPanelChrome
	if maxHeight < 1 {
		maxHeight = 1
	}
	if len(lines) > maxHeight {
		lines = lines[:maxHeight]
	}

	panelWidth := 84
	if panelWidth > width-4 {
		panelWidth = width - 4
	}
	if panelWidth < 20 {
		panelWidth = 20
	}

	return DebugPanel.Width(panelWidth).Render(strings.Join(lines, "\n"))
}

func eventLine(e otel.Event) string {
	line := fmt.Sprintf("  %6s  %-20s", formatAge(time.Since(e.Time)), string(e.Kind))
	if e.Key != "" {
		line += "  " + truncateRunes(e.Key, 28)
	} else if e.Query != "" {
		line += "  " + truncateRunes(e.Query, 28)
	}
	if e.Msg != "" {
		line += "  " + truncateRunes(e.Msg, 30)
	}
	if e.Err != "" {
		line += "  ERR:" + truncateRunes(e.Err, 30)
	}
	return line
}

// formatAge formats a duration as a compact human string.
// Handles negative durations from clock skew by clamping to "0ms".
func formatAge(d time.Duration) string {
	if d < 0 {
		return "0ms"
	}
	switch {
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	default:
		return fmt.Sprintf("%.0fm", d.Minutes())
	}
}

// debugStatusBar renders the status bar for the debug overlay.
func debugStatusBar(width int) string {
	keys := StatusBarKey.Render("ctrl+d") + StatusBarText.Render(":close")
	return StatusBar.Width(width).Render("  [DEBUG]  " + keys)
}
