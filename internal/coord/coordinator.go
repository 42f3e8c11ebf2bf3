// Package coord decides what the Pokedex list shows.
//
// A Coordinator holds the user's inputs (search text, selected type,
// favorites toggle and the two pagers) and turns them into query keys and,
// together with the cached results, into a View. It is owned by the UI
// loop and is not safe for concurrent use; the Refresher is.
package coord

import (
	"context"

	"github.com/abelbrown/pokedex/internal/catalog"
	"github.com/abelbrown/pokedex/internal/favorites"
	"github.com/abelbrown/pokedex/internal/query"
)

// Loader is the subset of the catalog client the coordinator plans reads for.
type Loader interface {
	GetPage(ctx context.Context, offset, limit int) (*catalog.PageResponse, error)
	GetAll(ctx context.Context) (*catalog.PageResponse, error)
	GetCategories(ctx context.Context) (*catalog.CategoryList, error)
	GetTypeMembers(ctx context.Context, category string) (*catalog.TypeMembers, error)
}

// Request pairs a cache key with the read that fills it.
type Request struct {
	Key   query.Key
	Fetch query.Fetcher
}

// Coordinator is the view state machine.
type Coordinator struct {
	search    string
	category  string
	favorites bool

	browse   Pager
	catPager Pager
	pageSize int
}

// New creates a Coordinator in browse mode on page 1. A non-positive
// pageSize means catalog.DefaultPageSize.
func New(pageSize int) *Coordinator {
	if pageSize <= 0 {
		pageSize = catalog.DefaultPageSize
	}
	return &Coordinator{
		browse:   NewPager(),
		catPager: NewPager(),
		pageSize: pageSize,
	}
}

// SelectCategory filters by type. It resets the type pager, clears the
// search text and leaves favorites. An empty name removes the filter.
func (c *Coordinator) SelectCategory(name string) {
	c.category = name
	c.catPager.Reset()
	c.search = ""
	c.favorites = false
}

// ToggleFavorites flips the favorites view and drops the type filter.
// The search text is kept.
func (c *Coordinator) ToggleFavorites() {
	c.favorites = !c.favorites
	c.category = ""
	c.catPager.Reset()
}

// SetSearch updates the search text only.
func (c *Coordinator) SetSearch(text string) {
	c.search = text
}

// Inputs snapshots the current state.
func (c *Coordinator) Inputs() Inputs {
	return Inputs{
		SearchText:       c.search,
		SelectedCategory: c.category,
		FavoritesActive:  c.favorites,
		BrowseCursor:     c.browse.Cursor(),
		BrowseInput:      c.browse.Input(),
		CategoryCursor:   c.catPager.Cursor(),
		CategoryInput:    c.catPager.Input(),
		PageSize:         c.pageSize,
	}
}

// Mode returns the current mode.
func (c *Coordinator) Mode() Mode { return ResolveMode(c.Inputs()) }

func (c *Coordinator) BrowsePager() *Pager   { return &c.browse }
func (c *Coordinator) CategoryPager() *Pager { return &c.catPager }
func (c *Coordinator) PageSize() int         { return c.pageSize }

// ActivePager returns the pager of the current mode, or nil when the mode
// is not paginated.
func (c *Coordinator) ActivePager() *Pager {
	switch c.Mode() {
	case ModeBrowse:
		return &c.browse
	case ModeCategory:
		return &c.catPager
	}
	return nil
}

// PageKey is the key of the browse page at the current cursor.
func (c *Coordinator) PageKey() query.Key {
	return query.NewKey("pokemon", "page", c.browse.Cursor(), c.pageSize)
}

// AllKey is the key of the full species list used by search.
func (c *Coordinator) AllKey() query.Key {
	return query.NewKey("pokemon", "all")
}

// MembersKey is the key of the selected type's members; empty when no
// type is selected.
func (c *Coordinator) MembersKey() query.Key {
	if c.category == "" {
		return ""
	}
	return query.NewKey("pokemon", "type", c.category)
}

// CategoriesKey is the key of the type list.
func (c *Coordinator) CategoriesKey() query.Key {
	return query.NewKey("types")
}

// Requests returns the reads that back the current inputs. The browse page,
// the full list and the type list are always active; type members only
// while a type is selected.
func (c *Coordinator) Requests(l Loader) []Request {
	offset, limit := c.browse.Cursor()*c.pageSize, c.pageSize
	reqs := []Request{
		{Key: c.PageKey(), Fetch: func(ctx context.Context) (any, error) { return l.GetPage(ctx, offset, limit) }},
		{Key: c.AllKey(), Fetch: func(ctx context.Context) (any, error) { return l.GetAll(ctx) }},
		{Key: c.CategoriesKey(), Fetch: func(ctx context.Context) (any, error) { return l.GetCategories(ctx) }},
	}
	if category := c.category; category != "" {
		reqs = append(reqs, Request{
			Key:   c.MembersKey(),
			Fetch: func(ctx context.Context) (any, error) { return l.GetTypeMembers(ctx, category) },
		})
	}
	return reqs
}

// Sources reads the current keys from the cache.
func (c *Coordinator) Sources(cache *query.Cache) Sources {
	src := Sources{
		Page:       query.Get[catalog.PageResponse](cache, c.PageKey()),
		All:        query.Get[catalog.PageResponse](cache, c.AllKey()),
		Categories: query.Get[catalog.CategoryList](cache, c.CategoriesKey()),
	}
	if key := c.MembersKey(); key != "" {
		src.Members = query.Get[catalog.TypeMembers](cache, key)
	}
	return src
}

// View derives the list for the current inputs.
func (c *Coordinator) View(cache *query.Cache, favs []favorites.Entry) View {
	return Derive(c.Inputs(), c.Sources(cache), favs)
}
