package coord

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/abelbrown/pokedex/internal/catalog"
	"github.com/abelbrown/pokedex/internal/favorites"
	"github.com/abelbrown/pokedex/internal/query"
)

// hiddenCategories are types PokeAPI lists that hold no regular species.
var hiddenCategories = map[string]bool{"unknown": true, "shadow": true}

// Sources is the cached state of every remote read the view can draw from.
// A read that is not active is the zero Result.
type Sources struct {
	Page       query.Result[catalog.PageResponse]
	All        query.Result[catalog.PageResponse]
	Members    query.Result[catalog.TypeMembers]
	Categories query.Result[catalog.CategoryList]
}

// PageInfo describes the pagination control of a paged mode.
type PageInfo struct {
	Cursor     int
	TotalPages int // UnknownTotal until the backing read has data
	Input      string
}

// View is what the list pane shows.
type View struct {
	Mode       Mode
	Items      []catalog.EntityRef
	Loading    bool
	Syncing    bool // background refetch behind visible data
	Err        error
	Pagination *PageInfo // nil for search and favorites
	Count      int       // total species, once the browse page is known
}

// Empty reports whether there is nothing to list and nothing pending.
func (v View) Empty() bool {
	return len(v.Items) == 0 && !v.Loading && v.Err == nil
}

// Derive computes the view for in from the cached reads and favorites.
func Derive(in Inputs, src Sources, favs []favorites.Entry) View {
	size := in.PageSize
	if size <= 0 {
		size = catalog.DefaultPageSize
	}

	v := View{Mode: ResolveMode(in)}
	if src.Page.Data != nil {
		v.Count = src.Page.Data.Count
	}

	switch v.Mode {
	case ModeFavorites:
		v.Items = favoriteRefs(favs, in.Search())
		return v

	case ModeSearch:
		v.Items = []catalog.EntityRef{}
		if src.All.Data != nil {
			v.Items = catalog.MapRefs(matchName(src.All.Data.Results, in.Search()))
		}
		v.Loading = src.All.IsLoading
		v.Err = src.All.Err

	case ModeCategory:
		var all []catalog.EntityRef
		pages := UnknownTotal
		if src.Members.Data != nil {
			all = catalog.MapRefs(src.Members.Data.Members())
			pages = totalPages(len(all), size)
		}
		v.Items = window(all, in.CategoryCursor, size)
		v.Pagination = &PageInfo{
			Cursor:     in.CategoryCursor,
			TotalPages: pages,
			Input:      in.CategoryInput,
		}
		v.Loading = src.Members.IsLoading
		v.Err = src.Members.Err

	default:
		v.Items = []catalog.EntityRef{}
		pages := UnknownTotal
		if src.Page.Data != nil {
			v.Items = catalog.MapRefs(src.Page.Data.Results)
			pages = totalPages(src.Page.Data.Count, size)
		}
		v.Pagination = &PageInfo{
			Cursor:     in.BrowseCursor,
			TotalPages: pages,
			Input:      in.BrowseInput,
		}
		v.Loading = src.Page.IsLoading
		v.Err = src.Page.Err
	}

	fetching := src.Page.IsFetching || src.All.IsFetching || src.Members.IsFetching
	v.Syncing = fetching && !v.Loading
	return v
}

// Categories returns the selectable type names, minus unknown and shadow.
func Categories(src Sources) []string {
	if src.Categories.Data == nil {
		return nil
	}
	var out []string
	for _, name := range src.Categories.Data.Names() {
		if !hiddenCategories[name] {
			out = append(out, name)
		}
	}
	return out
}

func window(items []catalog.EntityRef, cursor, size int) []catalog.EntityRef {
	start := cursor * size
	if start < 0 || start >= len(items) {
		return []catalog.EntityRef{}
	}
	end := min(start+size, len(items))
	return items[start:end]
}

func matchName(items []catalog.NamedResource, text string) []catalog.NamedResource {
	fold := cases.Fold()
	needle := fold.String(text)
	out := make([]catalog.NamedResource, 0)
	for _, it := range items {
		if strings.Contains(fold.String(it.Name), needle) {
			out = append(out, it)
		}
	}
	return out
}

func favoriteRefs(favs []favorites.Entry, text string) []catalog.EntityRef {
	var needle string
	fold := cases.Fold()
	if text != "" {
		needle = fold.String(text)
	}
	out := make([]catalog.EntityRef, 0, len(favs))
	for _, f := range favs {
		if needle != "" && !strings.Contains(fold.String(f.Name), needle) {
			continue
		}
		out = append(out, catalog.EntityRef{ID: f.ID, Name: f.Name})
	}
	return out
}
