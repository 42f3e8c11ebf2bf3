package ui

import (
	"fmt"
	"strings"

	"github.com/abelbrown/pokedex/internal/catalog"
)

// statBarWidth is the number of cells of a full (200) stat bar.
const statBarWidth = 20

// renderDetail renders the detail panel of a species.
func renderDetail(d *catalog.Detail, favorite bool, width int) string {
	var lines []string

	title := DetailTitle.Render(fmt.Sprintf("#%03d %s", d.ID, catalog.FormatName(d.Name)))
	if favorite {
		title += " " + StarStyle.Render("★")
	}
	lines = append(lines, title, "")

	var types strings.Builder
	for _, t := range d.TypeNames() {
		types.WriteString(TypeBadge.Render(catalog.FormatName(t)))
	}
	lines = append(lines, types.String(), "")

	lines = append(lines,
		fmt.Sprintf("Height  %.1f m", d.HeightMeters()),
		fmt.Sprintf("Weight  %.1f kg", d.WeightKg()),
		"",
	)

	for _, s := range d.Stats {
		filled := int(s.BarFraction()*statBarWidth + 0.5)
		bar := StatBar.Render(strings.Repeat("█", filled)) + IDStyle.Render(strings.Repeat("░", statBarWidth-filled))
		lines = append(lines, fmt.Sprintf("%-16s %3d %s", truncateRunes(catalog.FormatName(s.Stat.Name), 16), s.BaseStat, bar))
	}

	if len(d.Abilities) > 0 {
		lines = append(lines, "", "Abilities")
		for _, a := range d.Abilities {
			name := catalog.FormatName(a.Ability.Name)
			if a.IsHidden {
				name += IDStyle.Render(" (hidden)")
			}
			lines = append(lines, "  "+name)
		}
	}

	lines = append(lines, "", IDStyle.Render(truncateRunes(d.Artwork(), max(width-4, 10))))
	return DetailPanel.Width(max(width-2, 20)).Render(strings.Join(lines, "\n"))
}
