package coord

import "strings"

// Mode is the active viewing mode. It is never stored; ResolveMode computes
// it from Inputs every time.
type Mode int

const (
	ModeBrowse Mode = iota
	ModeSearch
	ModeCategory
	ModeFavorites
)

func (m Mode) String() string {
	switch m {
	case ModeSearch:
		return "search"
	case ModeCategory:
		return "category"
	case ModeFavorites:
		return "favorites"
	default:
		return "browse"
	}
}

// Inputs is the user-controlled state the view is derived from.
type Inputs struct {
	SearchText       string
	SelectedCategory string // empty means no filter
	FavoritesActive  bool

	BrowseCursor   int
	BrowseInput    string
	CategoryCursor int
	CategoryInput  string
	PageSize       int
}

// Search returns the search text with surrounding whitespace removed.
func (in Inputs) Search() string {
	return strings.TrimSpace(in.SearchText)
}

// ResolveMode picks the mode; first match wins:
// favorites, search, category, browse.
func ResolveMode(in Inputs) Mode {
	switch {
	case in.FavoritesActive:
		return ModeFavorites
	case in.Search() != "":
		return ModeSearch
	case in.SelectedCategory != "":
		return ModeCategory
	default:
		return ModeBrowse
	}
}
