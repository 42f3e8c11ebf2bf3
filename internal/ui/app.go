package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/abelbrown/pokedex/internal/catalog"
	"github.com/abelbrown/pokedex/internal/coord"
	"github.com/abelbrown/pokedex/internal/favorites"
	"github.com/abelbrown/pokedex/internal/otel"
	"github.com/abelbrown/pokedex/internal/query"
)

// detailMinWidth is the terminal width from which the detail panel is shown
// beside the list instead of replacing it.
const detailMinWidth = 90

// Catalog is the remote catalog the App reads from.
type Catalog interface {
	coord.Loader
	GetDetail(ctx context.Context, idOrName string) (*catalog.Detail, error)
}

// Favorites is the persisted favorites set.
type Favorites interface {
	Toggle(e favorites.Entry) bool
	IsFavorite(id int) bool
	List() []favorites.Entry
	Len() int
}

// ObsConfig wires observability into the App.
type ObsConfig struct {
	Ring *otel.RingBuffer
	Log  *otel.Logger
}

// AppConfig holds the App's collaborators.
type AppConfig struct {
	Ctx         context.Context
	Coordinator *coord.Coordinator
	Cache       *query.Cache
	Catalog     Catalog
	Favorites   Favorites

	// OnActive receives the reads backing the current view whenever they
	// change, e.g. to point the background refresher at them.
	OnActive func([]coord.Request)

	ShowDebug bool
	Obs       ObsConfig
}

type focus int

const (
	focusList focus = iota
	focusSearch
	focusPage
	focusPicker
)

// App is the root Bubble Tea model.
// App does NOT own the network or the database; reads run as tea.Cmds
// through the query cache and the view is re-derived on every render.
type App struct {
	ctx      context.Context
	coord    *coord.Coordinator
	cache    *query.Cache
	catalog  Catalog
	favs     Favorites
	onActive func([]coord.Request)
	obs      ObsConfig

	search  textinput.Model
	page    textinput.Model
	picker  typePicker
	spinner spinner.Model
	help    help.Model

	focus        focus
	cursor       int
	detailID     int // 0 when closed
	debugVisible bool
	lastMode     coord.Mode

	width  int
	height int
	ready  bool
}

// NewAppWithConfig creates an App. Missing collaborators get in-memory
// defaults; a nil Catalog means no remote reads are made.
func NewAppWithConfig(cfg AppConfig) App {
	if cfg.Ctx == nil {
		cfg.Ctx = context.Background()
	}
	if cfg.Coordinator == nil {
		cfg.Coordinator = coord.New(0)
	}
	if cfg.Cache == nil {
		cfg.Cache = query.New(0, cfg.Obs.Log)
	}
	if cfg.Favorites == nil {
		cfg.Favorites = favorites.New(nil, cfg.Obs.Log)
	}

	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "Search Pokemon by name..."
	search.PromptStyle = lipgloss.NewStyle().Foreground(colorHighlight).Bold(true)
	search.CharLimit = 40

	page := textinput.New()
	page.Prompt = ""
	page.CharLimit = 5
	page.Width = 5

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(colorHighlight)

	return App{
		ctx:          cfg.Ctx,
		coord:        cfg.Coordinator,
		cache:        cfg.Cache,
		catalog:      cfg.Catalog,
		favs:         cfg.Favorites,
		onActive:     cfg.OnActive,
		obs:          cfg.Obs,
		search:       search,
		page:         page,
		picker:       newTypePicker(),
		spinner:      s,
		help:         help.New(),
		debugVisible: cfg.ShowDebug,
		lastMode:     cfg.Coordinator.Mode(),
	}
}

// Init starts the spinner and the reads of the initial view.
func (a App) Init() tea.Cmd {
	return tea.Batch(a.spinner.Tick, a.sync())
}

// Update handles messages and returns the updated model and any commands.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if otel.TraceEnabled() {
		a.obs.Log.Debug(otel.KindMsgReceived, "ui", fmt.Sprintf("%T", msg))
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if otel.TraceEnabled() {
			a.obs.Log.Debug(otel.KindKeyPress, "ui", msg.String())
		}
		return a.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.help.Width = msg.Width
		a.search.Width = max(msg.Width-8, 10)
		a.picker.SetWidth(msg.Width)
		return a, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case QueryDone:
		a.settled(msg.Key)
		return a, nil

	case RefreshUpdate:
		if msg.Done {
			a.settled(msg.Key)
		}
		return a, nil

	case DetailLoaded:
		return a, nil
	}

	// cursor blink and other input internals
	var cmd tea.Cmd
	switch a.focus {
	case focusSearch:
		a.search, cmd = a.search.Update(msg)
	case focusPage:
		a.page, cmd = a.page.Update(msg)
	case focusPicker:
		a.picker, cmd, _, _ = a.picker.Update(msg)
	}
	return a, cmd
}

// settled reacts to a finished read.
func (a *App) settled(key query.Key) {
	if key == a.coord.CategoriesKey() {
		a.picker.SetTypes(coord.Categories(a.coord.Sources(a.cache)))
	}
	a.clampCursor()
}

// handleKeyMsg processes keyboard input.
func (a App) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return a, tea.Quit
	}
	if key.Matches(msg, keys.Debug) {
		a.debugVisible = !a.debugVisible
		return a, nil
	}
	if a.debugVisible {
		switch {
		case key.Matches(msg, keys.Escape):
			a.debugVisible = false
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		}
		return a, nil
	}

	switch a.focus {
	case focusPicker:
		return a.handlePickerKey(msg)
	case focusSearch:
		return a.handleSearchKey(msg)
	case focusPage:
		return a.handlePageKey(msg)
	}
	return a.handleListKey(msg)
}

func (a App) handlePickerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var (
		cmd    tea.Cmd
		sel    string
		chosen bool
	)
	a.picker, cmd, sel, chosen = a.picker.Update(msg)
	if chosen {
		a.coord.SelectCategory(sel)
		a.search.SetValue("")
		a.cursor = 0
		a.detailID = 0
		a.focus = focusList
		return a, tea.Batch(cmd, a.sync())
	}
	if !a.picker.IsActive() {
		a.focus = focusList
	}
	return a, cmd
}

func (a App) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, keys.Escape) || msg.Type == tea.KeyEnter {
		a.search.Blur()
		a.focus = focusList
		return a, nil
	}

	old := a.search.Value()
	var cmd tea.Cmd
	a.search, cmd = a.search.Update(msg)
	if a.search.Value() == old {
		return a, cmd
	}
	a.coord.SetSearch(a.search.Value())
	a.cursor = 0
	return a, tea.Batch(cmd, a.sync())
}

func (a App) handlePageKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	pager := a.coord.ActivePager()
	if pager == nil {
		a.page.Blur()
		a.focus = focusList
		return a, nil
	}

	if key.Matches(msg, keys.Escape) || msg.Type == tea.KeyEnter {
		total := a.currentView().Pagination.TotalPages
		pager.Edit(a.page.Value())
		pager.Commit(total)
		a.page.Blur()
		a.focus = focusList
		a.cursor = 0
		a.obs.Log.Emit(otel.Event{Level: otel.LevelInfo, Kind: otel.KindPageCommit, Comp: "ui", Count: pager.Cursor() + 1, Msg: a.coord.Mode().String()})
		return a, a.sync()
	}

	var cmd tea.Cmd
	a.page, cmd = a.page.Update(msg)
	pager.Edit(a.page.Value())
	return a, cmd
}

func (a App) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	v := a.currentView()

	switch {
	case key.Matches(msg, keys.Quit):
		return a, tea.Quit

	case key.Matches(msg, keys.Down):
		if a.cursor < len(v.Items)-1 {
			a.cursor++
		}
		return a, a.followDetail(v)

	case key.Matches(msg, keys.Up):
		if a.cursor > 0 {
			a.cursor--
		}
		return a, a.followDetail(v)

	case key.Matches(msg, keys.Top):
		a.cursor = 0
		return a, nil

	case key.Matches(msg, keys.Bottom):
		if len(v.Items) > 0 {
			a.cursor = len(v.Items) - 1
		}
		return a, nil

	case key.Matches(msg, keys.Next):
		if p := a.coord.ActivePager(); p != nil && p.Next(v.Pagination.TotalPages) {
			a.cursor = 0
			return a, a.sync()
		}
		return a, nil

	case key.Matches(msg, keys.Prev):
		if p := a.coord.ActivePager(); p != nil && p.Prev() {
			a.cursor = 0
			return a, a.sync()
		}
		return a, nil

	case key.Matches(msg, keys.GoTo):
		p := a.coord.ActivePager()
		if p == nil || (v.Mode == coord.ModeBrowse && v.Pagination.TotalPages == coord.UnknownTotal) {
			return a, nil
		}
		a.page.SetValue(p.Input())
		a.page.CursorEnd()
		a.page.Focus()
		a.focus = focusPage
		return a, textinput.Blink

	case key.Matches(msg, keys.Search):
		a.search.Focus()
		a.focus = focusSearch
		return a, textinput.Blink

	case key.Matches(msg, keys.Types):
		a.picker.SetTypes(coord.Categories(a.coord.Sources(a.cache)))
		a.focus = focusPicker
		return a, a.picker.Activate(a.coord.Inputs().SelectedCategory)

	case key.Matches(msg, keys.Favorites):
		a.coord.ToggleFavorites()
		a.cursor = 0
		return a, a.sync()

	case key.Matches(msg, keys.Star):
		if ref, ok := a.selected(v); ok {
			a.favs.Toggle(favorites.Entry{ID: ref.ID, Name: ref.Name})
			a.clampCursor()
		}
		return a, nil

	case key.Matches(msg, keys.Detail):
		if ref, ok := a.selected(v); ok {
			return a, a.openDetail(ref.ID)
		}
		return a, nil

	case key.Matches(msg, keys.Escape):
		switch {
		case a.detailID != 0:
			a.detailID = 0
		case a.coord.Inputs().SearchText != "":
			a.search.SetValue("")
			a.coord.SetSearch("")
			a.cursor = 0
			return a, a.sync()
		}
		return a, nil

	case key.Matches(msg, keys.Refresh):
		return a, a.reload()

	case key.Matches(msg, keys.Help):
		a.help.ShowAll = !a.help.ShowAll
		return a, nil
	}

	return a, nil
}

// sync starts the reads the current view needs and reports them to
// OnActive. Reads already cached and fresh are not repeated.
func (a *App) sync() tea.Cmd {
	if mode := a.coord.Mode(); mode != a.lastMode {
		a.obs.Log.Emit(otel.Event{Level: otel.LevelInfo, Kind: otel.KindModeChange, Comp: "ui", Msg: mode.String(), Extra: map[string]any{"from": a.lastMode.String()}})
		a.lastMode = mode
	}
	if a.catalog == nil {
		return nil
	}

	reqs := a.coord.Requests(a.catalog)
	if a.onActive != nil {
		a.onActive(reqs)
	}

	var cmds []tea.Cmd
	for _, req := range reqs {
		if a.cache.Ensure(req.Key) {
			cmds = append(cmds, a.fetch(req))
		}
	}
	return tea.Batch(cmds...)
}

func (a *App) fetch(req coord.Request) tea.Cmd {
	ctx, cache := a.ctx, a.cache
	return func() tea.Msg {
		err := cache.Run(ctx, req.Key, req.Fetch)
		return QueryDone{Key: req.Key, Err: err}
	}
}

// reload drops every active read, including failed ones, and fetches again.
func (a *App) reload() tea.Cmd {
	if a.catalog == nil {
		return nil
	}
	reqs := a.coord.Requests(a.catalog)
	stale := make([]query.Key, 0, len(reqs)+1)
	for _, r := range reqs {
		stale = append(stale, r.Key)
	}
	if a.detailID != 0 {
		stale = append(stale, detailKey(a.detailID))
	}
	a.cache.Invalidate(stale...)

	cmds := []tea.Cmd{a.sync()}
	if a.detailID != 0 {
		cmds = append(cmds, a.openDetail(a.detailID))
	}
	return tea.Batch(cmds...)
}

func detailKey(id int) query.Key {
	return query.NewKey("pokemon", "detail", id)
}

// openDetail shows the detail panel for id, loading it if needed.
func (a *App) openDetail(id int) tea.Cmd {
	a.detailID = id
	if a.catalog == nil {
		return nil
	}
	k := detailKey(id)
	if !a.cache.Ensure(k) {
		return nil
	}
	ctx, cache, cat := a.ctx, a.cache, a.catalog
	return func() tea.Msg {
		err := cache.Run(ctx, k, func(ctx context.Context) (any, error) {
			return cat.GetDetail(ctx, strconv.Itoa(id))
		})
		r := query.Get[catalog.Detail](cache, k)
		return DetailLoaded{ID: id, Detail: r.Data, Err: err}
	}
}

// followDetail keeps an open detail panel on the selected row.
func (a *App) followDetail(v coord.View) tea.Cmd {
	if a.detailID == 0 {
		return nil
	}
	if ref, ok := a.selected(v); ok && ref.ID != a.detailID {
		return a.openDetail(ref.ID)
	}
	return nil
}

func (a *App) currentView() coord.View {
	return a.coord.View(a.cache, a.favs.List())
}

func (a *App) selected(v coord.View) (catalog.EntityRef, bool) {
	if a.cursor < 0 || a.cursor >= len(v.Items) {
		return catalog.EntityRef{}, false
	}
	return v.Items[a.cursor], true
}

func (a *App) clampCursor() {
	n := len(a.currentView().Items)
	if a.cursor >= n {
		a.cursor = max(n-1, 0)
	}
}

// View renders the UI.
func (a App) View() string {
	if !a.ready {
		return "Loading..."
	}

	if a.debugVisible {
		overlay := debugOverlay(a.obs.Ring, a.obs.Log.SessionID(), a.cache.Len(), a.width, a.height-1)
		if overlay == "" {
			overlay = MutedStyle.Render("event log disabled")
		}
		return overlay + "\n" + debugStatusBar(a.width)
	}

	v := a.currentView()

	header := a.renderHeader(v)
	searchBar := SearchBar.Width(a.width).Render(a.search.View())
	pagination := ""
	if v.Pagination != nil && !(v.Mode == coord.ModeCategory && v.Pagination.TotalPages <= 1) {
		pagination = RenderPagination(v.Pagination, a.page.Value(), a.focus == focusPage, a.width)
	}
	helpView := a.help.View(keys)
	status := RenderStatusBar(a.position(v), v.Syncing, helpView, a.width)

	chrome := lipgloss.Height(header) + lipgloss.Height(searchBar) + lipgloss.Height(status)
	if pagination != "" {
		chrome += lipgloss.Height(pagination)
	}
	bodyHeight := max(a.height-chrome, 1)

	var body string
	if a.focus == focusPicker {
		body = a.picker.View()
	} else {
		body = a.renderBody(v, bodyHeight)
	}
	body = lipgloss.NewStyle().Height(bodyHeight).MaxHeight(bodyHeight).Render(body)

	parts := []string{header, searchBar, body}
	if pagination != "" {
		parts = append(parts, pagination)
	}
	parts = append(parts, status)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (a App) renderHeader(v coord.View) string {
	left := "POKEDEX"
	if v.Count > 0 {
		left += fmt.Sprintf(" │ %d species", v.Count)
	}
	left += fmt.Sprintf(" │ ★ %d", a.favs.Len())

	in := a.coord.Inputs()
	var badges string
	if in.SelectedCategory != "" {
		badges += Badge.Render("Type: " + catalog.FormatName(in.SelectedCategory))
	}
	if in.FavoritesActive {
		badges += Badge.Render("Viewing favorites")
	}

	right := ""
	if v.Loading || v.Syncing {
		right = a.spinner.View()
	}

	line := left + badges
	padding := a.width - lipgloss.Width(line) - lipgloss.Width(right) - 2
	if padding < 0 {
		padding = 0
	}
	return Header.Width(a.width).Render(line + strings.Repeat(" ", padding) + right)
}

func (a App) renderBody(v coord.View, height int) string {
	var list string
	switch {
	case v.Loading:
		list = MutedStyle.Render(a.spinner.View() + " Loading Pokemon...")
	case v.Err != nil:
		list = ErrorStyle.Render("Could not load Pokemon") + "\n" +
			MutedStyle.Render(v.Err.Error()+" · press r to retry")
	case v.Empty():
		list = MutedStyle.Render(emptyMessage(v, a.coord.Inputs().Search()))
	default:
		listWidth := a.width
		if a.detailID != 0 && a.width >= detailMinWidth {
			listWidth = a.width / 2
		}
		list = RenderList(v.Items, a.cursor, listWidth, height, a.favs.IsFavorite)
	}

	if a.detailID == 0 {
		return list
	}
	detail := a.renderDetailPanel(a.width / 2)
	if a.width < detailMinWidth {
		return detail
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(a.width/2).Render(list),
		detail)
}

func (a App) renderDetailPanel(width int) string {
	if a.width < detailMinWidth {
		width = a.width
	}
	r := query.Get[catalog.Detail](a.cache, detailKey(a.detailID))
	switch {
	case r.Data != nil:
		return renderDetail(r.Data, a.favs.IsFavorite(a.detailID), width)
	case r.Err != nil:
		return DetailPanel.Width(max(width-2, 20)).Render(ErrorStyle.Render("Could not load details") + "\n" + MutedStyle.Render(r.Err.Error()))
	default:
		return DetailPanel.Width(max(width-2, 20)).Render(a.spinner.View() + " Loading details...")
	}
}

func (a App) position(v coord.View) string {
	mode := "[" + v.Mode.String() + "]"
	switch {
	case v.Loading:
		return mode + " loading"
	case v.Err != nil:
		return mode + " error"
	case v.Empty():
		return mode + " 0/0"
	}
	return fmt.Sprintf("%s %d/%d", mode, a.cursor+1, len(v.Items))
}

// Cursor returns the current cursor position (for testing).
func (a App) Cursor() int {
	return a.cursor
}

// Items returns the rows currently listed (for testing).
func (a App) Items() []catalog.EntityRef {
	return a.currentView().Items
}
