package ui

import "github.com/charmbracelet/lipgloss"

// Colors used in the application.
var (
	colorPrimary   = lipgloss.Color("160") // Pokedex red
	colorSecondary = lipgloss.Color("241") // Gray
	colorMuted     = lipgloss.Color("240") // Darker gray
	colorHighlight = lipgloss.Color("220") // Yellow
	colorSuccess   = lipgloss.Color("78")  // Green
	colorAccent    = lipgloss.Color("39")  // Blue
)

// Header style for the top bar.
var Header = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("255")).
	Background(colorPrimary).
	Padding(0, 1)

// Badge style for the active type and favorites markers in the header.
var Badge = lipgloss.NewStyle().
	Foreground(lipgloss.Color("232")).
	Background(colorHighlight).
	Padding(0, 1).
	MarginLeft(1)

// SelectedItem style for the currently highlighted row.
var SelectedItem = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("255")).
	Background(colorAccent).
	Padding(0, 1)

// NormalItem style for other rows.
var NormalItem = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Padding(0, 1)

// IDStyle renders the "#025" prefix.
var IDStyle = lipgloss.NewStyle().
	Foreground(colorSecondary)

// StarStyle marks favorites.
var StarStyle = lipgloss.NewStyle().
	Foreground(colorHighlight).
	Bold(true)

// StatusBar style for the bottom status bar.
var StatusBar = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Background(lipgloss.Color("236")).
	Padding(0, 1)

// StatusBarKey style for key hints in status bar.
var StatusBarKey = lipgloss.NewStyle().
	Foreground(colorHighlight).
	Bold(true)

// StatusBarText style for descriptive text in status bar.
var StatusBarText = lipgloss.NewStyle().
	Foreground(colorSecondary)

// ErrorStyle for displaying errors.
var ErrorStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("196")).
	Bold(true).
	Padding(0, 1)

// MutedStyle for empty states and hints.
var MutedStyle = lipgloss.NewStyle().
	Foreground(colorMuted).
	Padding(0, 1)

// SyncStyle for the background-sync indicator.
var SyncStyle = lipgloss.NewStyle().
	Foreground(colorSuccess)

// SearchBar style for the search input bar.
var SearchBar = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Padding(0, 1)

// Pagination style for the page control line.
var Pagination = lipgloss.NewStyle().
	Foreground(colorSecondary).
	Padding(0, 1)

// PaginationDisabled renders an unavailable prev/next arrow.
var PaginationDisabled = lipgloss.NewStyle().
	Foreground(lipgloss.Color("237"))

// DetailPanel frames the selected species.
var DetailPanel = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(colorPrimary).
	Padding(0, 1)

// DetailTitle for the species name.
var DetailTitle = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorHighlight)

// TypeBadge for a species type.
var TypeBadge = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Background(lipgloss.Color("238")).
	Padding(0, 1).
	MarginRight(1)

// StatBar fill.
var StatBar = lipgloss.NewStyle().
	Foreground(colorSuccess)

// PickerPanel frames the type picker.
var PickerPanel = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(colorAccent).
	Padding(0, 1)

// DebugPanel frames the debug overlay.
var DebugPanel = lipgloss.NewStyle().
	Border(lipgloss.NormalBorder()).
	BorderForeground(colorMuted).
	Padding(1, 1)

// DebugHeaderStyle for section titles in the debug overlay.
var DebugHeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorAccent)
