package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abelbrown/pokedex/internal/catalog"
	"github.com/abelbrown/pokedex/internal/favorites"
)

var favoritesCmd = &cobra.Command{
	Use:     "favorites",
	Aliases: []string{"favs"},
	Short:   "Manage favorite Pokemon",
	Long:    "List, toggle, export and clear the favorites stored in the local database.",
}

var favoritesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List favorites in Pokedex order",
	Args:  cobra.NoArgs,
	RunE:  runFavoritesList,
}

var favoritesToggleCmd = &cobra.Command{
	Use:   "toggle ID NAME",
	Short: "Add a species to favorites, or remove it if present",
	Args:  cobra.ExactArgs(2),
	RunE:  runFavoritesToggle,
}

var favoritesExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the favorites collection as JSON",
	Args:  cobra.NoArgs,
	RunE:  runFavoritesExport,
}

var favoritesClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every favorite",
	Args:  cobra.NoArgs,
	RunE:  runFavoritesClear,
}

func init() {
	favoritesCmd.AddCommand(favoritesListCmd)
	favoritesCmd.AddCommand(favoritesToggleCmd)
	favoritesCmd.AddCommand(favoritesExportCmd)
	favoritesCmd.AddCommand(favoritesClearCmd)
}

func runFavoritesList(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer e.Close()

	list := e.favs.List()
	out := cmd.OutOrStdout()

	if jsonOutput {
		return printJSON(out, map[string]any{"favorites": list, "total": len(list)})
	}

	if len(list) == 0 {
		fmt.Fprintln(out, "No favorites yet.")
		return nil
	}

	w := newTabWriter(out)
	fmt.Fprintln(w, "ID\tNAME")
	for _, f := range list {
		fmt.Fprintf(w, "#%03d\t%s\n", f.ID, catalog.FormatName(f.Name))
	}
	w.Flush()
	return nil
}

func runFavoritesToggle(cmd *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil || id < 1 {
		return fmt.Errorf("favorites toggle: invalid id %q", args[0])
	}
	name := strings.ToLower(strings.TrimSpace(args[1]))
	if name == "" {
		return fmt.Errorf("favorites toggle: empty name")
	}

	e, err := setup(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer e.Close()

	added := e.favs.Toggle(favorites.Entry{ID: id, Name: name})

	out := cmd.OutOrStdout()
	if jsonOutput {
		return printJSON(out, map[string]any{"id": id, "name": name, "favorite": added})
	}
	if added {
		fmt.Fprintf(out, "Added #%03d %s to favorites.\n", id, catalog.FormatName(name))
	} else {
		fmt.Fprintf(out, "Removed #%03d %s from favorites.\n", id, catalog.FormatName(name))
	}
	return nil
}

// runFavoritesExport prints the stored payload format, so the output can be
// written back into the favorites slot of another database.
func runFavoritesExport(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer e.Close()

	entries := make(map[int]favorites.Entry)
	for _, f := range e.favs.List() {
		entries[f.ID] = f
	}
	data, err := favorites.Encode(entries)
	if err != nil {
		return fmt.Errorf("favorites export: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

// runFavoritesClear drops the favorites slot; the next load starts empty.
func runFavoritesClear(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer e.Close()

	n := e.favs.Len()
	if err := e.store.Delete(favorites.StorageKey); err != nil {
		return fmt.Errorf("favorites clear: %w", err)
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		return printJSON(out, map[string]any{"cleared": n})
	}
	fmt.Fprintf(out, "Cleared %d favorites.\n", n)
	return nil
}
