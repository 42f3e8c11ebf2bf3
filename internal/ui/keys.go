package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit      key.Binding
	Up        key.Binding
	Down      key.Binding
	Top       key.Binding
	Bottom    key.Binding
	Next      key.Binding
	Prev      key.Binding
	GoTo      key.Binding
	Search    key.Binding
	Types     key.Binding
	Favorites key.Binding
	Star      key.Binding
	Detail    key.Binding
	Escape    key.Binding
	Refresh   key.Binding
	Help      key.Binding
	Debug     key.Binding
}

var keys = keyMap{
	Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Up:        key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("↑/k", "up")),
	Down:      key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("↓/j", "down")),
	Top:       key.NewBinding(key.WithKeys("home"), key.WithHelp("home", "top")),
	Bottom:    key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "bottom")),
	Next:      key.NewBinding(key.WithKeys("l", "right", "pgdown"), key.WithHelp("→/l", "next page")),
	Prev:      key.NewBinding(key.WithKeys("h", "left", "pgup"), key.WithHelp("←/h", "prev page")),
	GoTo:      key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "go to page")),
	Search:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
	Types:     key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "types")),
	Favorites: key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "favorites")),
	Star:      key.NewBinding(key.WithKeys("s", " "), key.WithHelp("s", "star")),
	Detail:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
	Escape:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	Refresh:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
	Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Debug:     key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d", "debug")),
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Search, k.Types, k.Favorites, k.Star, k.Prev, k.Next, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Top, k.Bottom, k.Detail},
		{k.Prev, k.Next, k.GoTo},
		{k.Search, k.Types, k.Favorites, k.Star},
		{k.Refresh, k.Debug, k.Help, k.Escape, k.Quit},
	}
}
