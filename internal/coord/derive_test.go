package coord

import (
	"errors"
	"fmt"
	"testing"

	"github.com/abelbrown/pokedex/internal/catalog"
	"github.com/abelbrown/pokedex/internal/favorites"
	"github.com/abelbrown/pokedex/internal/query"
)

func resource(id int, name string) catalog.NamedResource {
	return catalog.NamedResource{Name: name, URL: fmt.Sprintf("https://pokeapi.co/api/v2/pokemon/%d/", id)}
}

func membersOf(n int) *catalog.TypeMembers {
	tm := &catalog.TypeMembers{Name: "fire"}
	for i := 1; i <= n; i++ {
		tm.Pokemon = append(tm.Pokemon, catalog.TypeMember{Pokemon: resource(i, fmt.Sprintf("mon-%d", i)), Slot: 1})
	}
	return tm
}

func TestResolveModePrecedence(t *testing.T) {
	tests := []struct {
		name string
		in   Inputs
		want Mode
	}{
		{"nothing", Inputs{}, ModeBrowse},
		{"blank search", Inputs{SearchText: "   "}, ModeBrowse},
		{"search", Inputs{SearchText: "pika"}, ModeSearch},
		{"category", Inputs{SelectedCategory: "fire"}, ModeCategory},
		{"search beats category", Inputs{SearchText: "char", SelectedCategory: "fire"}, ModeSearch},
		{"favorites beats search", Inputs{SearchText: "char", FavoritesActive: true}, ModeFavorites},
		{"favorites beats all", Inputs{SearchText: "x", SelectedCategory: "fire", FavoritesActive: true}, ModeFavorites},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveMode(tt.in); got != tt.want {
				t.Errorf("ResolveMode = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDeriveBrowse(t *testing.T) {
	page := &catalog.PageResponse{Count: 1302, Results: []catalog.NamedResource{
		resource(1, "bulbasaur"),
		{Name: "broken", URL: "https://pokeapi.co/api/v2/pokemon/x/"},
		resource(2, "ivysaur"),
	}}
	in := Inputs{BrowseCursor: 0, BrowseInput: "1", PageSize: 20}

	v := Derive(in, Sources{Page: query.Result[catalog.PageResponse]{Data: page}}, nil)

	if v.Mode != ModeBrowse {
		t.Fatalf("mode = %v", v.Mode)
	}
	if len(v.Items) != 2 || v.Items[1] != (catalog.EntityRef{ID: 2, Name: "ivysaur"}) {
		t.Errorf("items = %+v", v.Items)
	}
	if v.Pagination == nil || v.Pagination.TotalPages != 66 || v.Pagination.Input != "1" {
		t.Errorf("pagination = %+v", v.Pagination)
	}
	if v.Count != 1302 {
		t.Errorf("count = %d", v.Count)
	}
}

func TestDeriveBrowseUnknownTotal(t *testing.T) {
	v := Derive(Inputs{PageSize: 20}, Sources{Page: query.Result[catalog.PageResponse]{IsLoading: true, IsFetching: true}}, nil)
	if !v.Loading {
		t.Error("browse should be loading")
	}
	if v.Syncing {
		t.Error("syncing must not show while the primary read is loading")
	}
	if v.Pagination.TotalPages != UnknownTotal {
		t.Errorf("total pages should be unknown until loaded, got %d", v.Pagination.TotalPages)
	}
	if v.Items == nil || len(v.Items) != 0 {
		t.Errorf("items should be empty, got %#v", v.Items)
	}
}

func TestDeriveSearch(t *testing.T) {
	all := &catalog.PageResponse{Results: []catalog.NamedResource{
		resource(4, "charmander"),
		resource(5, "charmeleon"),
		resource(6, "charizard"),
		resource(25, "pikachu"),
		{Name: "charbroken", URL: "nope"},
	}}
	in := Inputs{SearchText: "  CHAR  ", SelectedCategory: "water"}

	v := Derive(in, Sources{All: query.Result[catalog.PageResponse]{Data: all}}, nil)
	if v.Mode != ModeSearch {
		t.Fatalf("mode = %v", v.Mode)
	}
	if len(v.Items) != 3 {
		t.Fatalf("expected 3 case-insensitive matches, got %+v", v.Items)
	}
	if v.Pagination != nil {
		t.Error("search is not paginated")
	}
}

func TestDeriveSearchBeforeLoad(t *testing.T) {
	v := Derive(Inputs{SearchText: "pika"}, Sources{All: query.Result[catalog.PageResponse]{IsLoading: true, IsFetching: true}}, nil)
	if !v.Loading || len(v.Items) != 0 {
		t.Errorf("search before load = %+v", v)
	}
}

func TestDeriveCategoryWindow(t *testing.T) {
	members := query.Result[catalog.TypeMembers]{Data: membersOf(45)}

	tests := []struct {
		cursor    int
		wantLen   int
		wantFirst int
	}{
		{0, 20, 1},
		{1, 20, 21},
		{2, 5, 41},
		{3, 0, 0},
	}
	for _, tt := range tests {
		in := Inputs{SelectedCategory: "fire", CategoryCursor: tt.cursor, PageSize: 20}
		v := Derive(in, Sources{Members: members}, nil)
		if len(v.Items) != tt.wantLen {
			t.Errorf("cursor %d: len = %d, want %d", tt.cursor, len(v.Items), tt.wantLen)
			continue
		}
		if tt.wantLen > 0 && v.Items[0].ID != tt.wantFirst {
			t.Errorf("cursor %d: first id = %d, want %d", tt.cursor, v.Items[0].ID, tt.wantFirst)
		}
		if v.Pagination.TotalPages != 3 {
			t.Errorf("cursor %d: total pages = %d, want 3", tt.cursor, v.Pagination.TotalPages)
		}
	}
}

func TestDeriveCategoryLoadingVsEmpty(t *testing.T) {
	in := Inputs{SelectedCategory: "stellar", PageSize: 20}

	loading := Derive(in, Sources{Members: query.Result[catalog.TypeMembers]{IsLoading: true, IsFetching: true}}, nil)
	if loading.Pagination.TotalPages != UnknownTotal {
		t.Errorf("total pages while loading = %d, want unknown", loading.Pagination.TotalPages)
	}

	empty := Derive(in, Sources{Members: query.Result[catalog.TypeMembers]{Data: membersOf(0)}}, nil)
	if empty.Pagination.TotalPages != 0 {
		t.Errorf("total pages of a loaded empty type = %d, want 0", empty.Pagination.TotalPages)
	}
	if !empty.Empty() {
		t.Error("a loaded empty type should be the empty state")
	}
}

func TestDeriveFavorites(t *testing.T) {
	favs := []favorites.Entry{{ID: 1, Name: "bulbasaur"}, {ID: 6, Name: "charizard"}, {ID: 25, Name: "pikachu"}}
	src := Sources{Page: query.Result[catalog.PageResponse]{Err: errors.New("down"), IsFetching: true}}

	v := Derive(Inputs{FavoritesActive: true}, src, favs)
	if v.Mode != ModeFavorites || len(v.Items) != 3 {
		t.Fatalf("favorites view = %+v", v)
	}
	if v.Loading || v.Err != nil || v.Pagination != nil {
		t.Errorf("favorites never load, fail or paginate: %+v", v)
	}

	v = Derive(Inputs{FavoritesActive: true, SearchText: " Char "}, src, favs)
	if len(v.Items) != 1 || v.Items[0].ID != 6 {
		t.Errorf("narrowed favorites = %+v", v.Items)
	}
}

func TestDeriveSyncing(t *testing.T) {
	page := query.Result[catalog.PageResponse]{Data: &catalog.PageResponse{Count: 1}}
	all := query.Result[catalog.PageResponse]{IsFetching: true}

	v := Derive(Inputs{}, Sources{Page: page, All: all}, nil)
	if !v.Syncing {
		t.Error("any background read should show syncing")
	}
}

func TestDeriveErrorFollowsActiveRead(t *testing.T) {
	boom := errors.New("request failed with status 500")
	src := Sources{
		Page:    query.Result[catalog.PageResponse]{Err: boom},
		Members: query.Result[catalog.TypeMembers]{Data: membersOf(2)},
	}

	if v := Derive(Inputs{}, src, nil); !errors.Is(v.Err, boom) {
		t.Errorf("browse should report page error, got %v", v.Err)
	}
	if v := Derive(Inputs{SelectedCategory: "fire"}, src, nil); v.Err != nil {
		t.Errorf("category should not report page error, got %v", v.Err)
	}
}

func TestCategoriesDropsHidden(t *testing.T) {
	list := &catalog.CategoryList{Results: []catalog.NamedResource{
		{Name: "normal"}, {Name: "fire"}, {Name: "unknown"}, {Name: "shadow"}, {Name: "water"},
	}}
	got := Categories(Sources{Categories: query.Result[catalog.CategoryList]{Data: list}})
	want := []string{"normal", "fire", "water"}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("Categories = %v, want %v", got, want)
	}
	if Categories(Sources{}) != nil {
		t.Error("no data should give no categories")
	}
}

func TestViewEmpty(t *testing.T) {
	if !(View{}).Empty() {
		t.Error("zero view should be empty")
	}
	if (View{Loading: true}).Empty() {
		t.Error("loading view is not empty")
	}
}
