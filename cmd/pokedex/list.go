package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/abelbrown/pokedex/internal/catalog"
	"github.com/abelbrown/pokedex/internal/coord"
	"github.com/abelbrown/pokedex/internal/favorites"
	"github.com/abelbrown/pokedex/internal/query"
)

var (
	browsePage int
	typePage   int
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "List one page of the national Pokedex",
	Args:  cobra.NoArgs,
	RunE:  runBrowse,
}

var searchCmd = &cobra.Command{
	Use:   "search TEXT",
	Short: "List every species whose name contains TEXT",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSearch,
}

var typeCmd = &cobra.Command{
	Use:   "type NAME",
	Short: "List one page of the species of a type",
	Args:  cobra.ExactArgs(1),
	RunE:  runType,
}

var typesCmd = &cobra.Command{
	Use:   "types",
	Short: "List the selectable types",
	Args:  cobra.NoArgs,
	RunE:  runTypes,
}

func init() {
	browseCmd.Flags().IntVar(&browsePage, "page", 1, "Page number, clamped to the last page")
	typeCmd.Flags().IntVar(&typePage, "page", 1, "Page number, clamped to the last page")
}

func runBrowse(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer e.Close()

	c := coord.New(e.cfg.UI.PageSize)
	v, err := goToPage(cmd.Context(), e, c, browsePage)
	if err != nil {
		return fmt.Errorf("browse: %w", err)
	}
	return printView(cmd.OutOrStdout(), v, e.favs)
}

func runSearch(cmd *cobra.Command, args []string) error {
	text := strings.TrimSpace(strings.Join(args, " "))
	if text == "" {
		return fmt.Errorf("search: empty search text")
	}

	e, err := setup(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer e.Close()

	c := coord.New(e.cfg.UI.PageSize)
	c.SetSearch(text)
	v, err := loadView(cmd.Context(), e, c)
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}
	return printView(cmd.OutOrStdout(), v, e.favs)
}

func runType(cmd *cobra.Command, args []string) error {
	name := strings.ToLower(strings.TrimSpace(args[0]))
	if name == "" {
		return fmt.Errorf("type: empty type name")
	}

	e, err := setup(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer e.Close()

	c := coord.New(e.cfg.UI.PageSize)
	c.SelectCategory(name)
	v, err := goToPage(cmd.Context(), e, c, typePage)
	if catalog.StatusOf(err) == http.StatusNotFound {
		return fmt.Errorf("type: unknown type %q (see 'pokedex types')", name)
	}
	if err != nil {
		return fmt.Errorf("type: %w", err)
	}
	return printView(cmd.OutOrStdout(), v, e.favs)
}

func runTypes(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer e.Close()

	c := coord.New(e.cfg.UI.PageSize)
	if err := fetchKey(cmd.Context(), e, c, c.CategoriesKey()); err != nil {
		return fmt.Errorf("types: %w", err)
	}
	names := coord.Categories(c.Sources(e.cache))

	out := cmd.OutOrStdout()
	if jsonOutput {
		return printJSON(out, map[string]any{"types": names, "total": len(names)})
	}
	for _, n := range names {
		fmt.Fprintf(out, "%-10s %s\n", n, catalog.FormatName(n))
	}
	return nil
}

// activeKey is the one read the current mode lists from; empty for
// favorites, which are local.
func activeKey(c *coord.Coordinator) query.Key {
	switch c.Mode() {
	case coord.ModeSearch:
		return c.AllKey()
	case coord.ModeCategory:
		return c.MembersKey()
	case coord.ModeFavorites:
		return ""
	}
	return c.PageKey()
}

// fetchKey runs the planned read for key, if the coordinator plans one.
func fetchKey(ctx context.Context, e *env, c *coord.Coordinator, key query.Key) error {
	if key == "" {
		return nil
	}
	for _, r := range c.Requests(e.client) {
		if r.Key == key {
			_, err := e.cache.Fetch(ctx, r.Key, r.Fetch)
			return err
		}
	}
	return nil
}

// loadView fetches the active read and derives the list from it.
func loadView(ctx context.Context, e *env, c *coord.Coordinator) (coord.View, error) {
	if err := fetchKey(ctx, e, c, activeKey(c)); err != nil {
		return coord.View{}, err
	}
	v := c.View(e.cache, e.favs.List())
	return v, v.Err
}

// goToPage loads the first page to learn the total, then commits page the
// same way the page input does.
func goToPage(ctx context.Context, e *env, c *coord.Coordinator, page int) (coord.View, error) {
	v, err := loadView(ctx, e, c)
	if err != nil || page == 1 || v.Pagination == nil {
		return v, err
	}
	p := c.ActivePager()
	p.Edit(strconv.Itoa(page))
	p.Commit(v.Pagination.TotalPages)
	return loadView(ctx, e, c)
}

type listedItem struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Favorite bool   `json:"favorite"`
}

// printView writes the derived list as a table, or JSON with --json.
func printView(w io.Writer, v coord.View, favs *favorites.Store) error {
	items := make([]listedItem, len(v.Items))
	for i, it := range v.Items {
		items[i] = listedItem{ID: it.ID, Name: it.Name, Favorite: favs.IsFavorite(it.ID)}
	}

	if jsonOutput {
		out := map[string]any{
			"mode":  v.Mode.String(),
			"items": items,
		}
		if v.Count > 0 {
			out["count"] = v.Count
		}
		if p := v.Pagination; p != nil {
			out["page"] = p.Cursor + 1
			out["total_pages"] = p.TotalPages
		}
		return printJSON(w, out)
	}

	if v.Empty() {
		fmt.Fprintln(w, "No Pokemon found.")
		return nil
	}

	tw := newTabWriter(w)
	fmt.Fprintln(tw, "ID\tNAME\tFAV")
	for _, it := range items {
		star := ""
		if it.Favorite {
			star = "★"
		}
		fmt.Fprintf(tw, "#%03d\t%s\t%s\n", it.ID, catalog.FormatName(it.Name), star)
	}
	tw.Flush()

	switch {
	case v.Pagination != nil && v.Count > 0:
		fmt.Fprintf(w, "\nPage %d of %d (%d species)\n", v.Pagination.Cursor+1, v.Pagination.TotalPages, v.Count)
	case v.Pagination != nil:
		fmt.Fprintf(w, "\nPage %d of %d\n", v.Pagination.Cursor+1, v.Pagination.TotalPages)
	default:
		fmt.Fprintf(w, "\n%d matches\n", len(items))
	}
	return nil
}

// printJSON marshals v to JSON and writes to the given writer.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// newTabWriter returns a configured tabwriter for aligned columns.
func newTabWriter(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}
