package main

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abelbrown/pokedex/internal/catalog"
	"github.com/abelbrown/pokedex/internal/query"
)

var showCmd = &cobra.Command{
	Use:   "show ID|NAME",
	Short: "Show the details of one species",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func runShow(cmd *cobra.Command, args []string) error {
	id := strings.ToLower(strings.TrimSpace(args[0]))

	e, err := setup(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer e.Close()

	v, err := e.cache.Fetch(cmd.Context(), query.NewKey("pokemon", "detail", id), func(ctx context.Context) (any, error) {
		return e.client.GetDetail(ctx, id)
	})
	if catalog.StatusOf(err) == http.StatusNotFound {
		return fmt.Errorf("show: no Pokemon %q", id)
	}
	if err != nil {
		return fmt.Errorf("show: %w", err)
	}
	d := v.(*catalog.Detail)

	out := cmd.OutOrStdout()
	if jsonOutput {
		return printJSON(out, map[string]any{
			"id":        d.ID,
			"name":      d.Name,
			"types":     d.TypeNames(),
			"height_m":  d.HeightMeters(),
			"weight_kg": d.WeightKg(),
			"stats":     statMap(d),
			"abilities": abilityNames(d),
			"artwork":   d.Artwork(),
			"favorite":  e.favs.IsFavorite(d.ID),
		})
	}

	star := ""
	if e.favs.IsFavorite(d.ID) {
		star = " ★"
	}
	fmt.Fprintf(out, "#%03d %s%s\n", d.ID, catalog.FormatName(d.Name), star)

	types := make([]string, 0, len(d.Types))
	for _, t := range d.TypeNames() {
		types = append(types, catalog.FormatName(t))
	}
	fmt.Fprintf(out, "Types:   %s\n", strings.Join(types, ", "))
	fmt.Fprintf(out, "Height:  %.1f m\n", d.HeightMeters())
	fmt.Fprintf(out, "Weight:  %.1f kg\n\n", d.WeightKg())

	w := newTabWriter(out)
	for _, s := range d.Stats {
		fmt.Fprintf(w, "%s\t%d\t%s\n", catalog.FormatName(s.Stat.Name), s.BaseStat, statBar(s))
	}
	w.Flush()

	if names := abilityNames(d); len(names) > 0 {
		fmt.Fprintf(out, "\nAbilities: %s\n", strings.Join(names, ", "))
	}
	fmt.Fprintf(out, "Artwork:   %s\n", d.Artwork())
	return nil
}

func statBar(s catalog.Stat) string {
	const width = 20
	filled := int(s.BarFraction()*width + 0.5)
	return strings.Repeat("#", filled) + strings.Repeat(".", width-filled)
}

func statMap(d *catalog.Detail) map[string]int {
	m := make(map[string]int, len(d.Stats))
	for _, s := range d.Stats {
		m[s.Stat.Name] = s.BaseStat
	}
	return m
}

func abilityNames(d *catalog.Detail) []string {
	names := make([]string, 0, len(d.Abilities))
	for _, a := range d.Abilities {
		n := catalog.FormatName(a.Ability.Name)
		if a.IsHidden {
			n += " (hidden)"
		}
		names = append(names, n)
	}
	return names
}
