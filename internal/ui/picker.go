package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/abelbrown/pokedex/internal/catalog"
)

// allTypesLabel is the first picker row; choosing it clears the filter.
const allTypesLabel = "All types"

// pickerRows caps how many types are listed at once.
const pickerRows = 12

// typePicker is the type filter popup: a filter input over the type names.
type typePicker struct {
	input    textinput.Model
	types    []string
	filtered []string // "" stands for all types
	cursor   int
	width    int
	active   bool
}

func newTypePicker() typePicker {
	ti := textinput.New()
	ti.Placeholder = "filter types..."
	ti.Prompt = "type: "
	ti.PromptStyle = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	ti.CharLimit = 24
	return typePicker{input: ti, filtered: []string{""}}
}

// SetTypes replaces the selectable types, keeping the filter.
func (p *typePicker) SetTypes(types []string) {
	p.types = types
	p.filter()
}

// Activate shows the picker with the cursor on current.
func (p *typePicker) Activate(current string) tea.Cmd {
	p.active = true
	p.input.SetValue("")
	p.input.Focus()
	p.filter()
	p.cursor = 0
	for i, t := range p.filtered {
		if t == current {
			p.cursor = i
		}
	}
	return textinput.Blink
}

// Deactivate hides the picker.
func (p *typePicker) Deactivate() {
	p.active = false
	p.input.Blur()
}

func (p typePicker) IsActive() bool { return p.active }

func (p *typePicker) SetWidth(w int) {
	p.width = w
	p.input.Width = max(w-12, 8)
}

// Update handles input while active. chosen is true when the user picked a
// row; selected is then the type name, or "" for all types.
func (p typePicker) Update(msg tea.Msg) (picker typePicker, cmd tea.Cmd, selected string, chosen bool) {
	if !p.active {
		return p, nil, "", false
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc":
			p.Deactivate()
			return p, nil, "", false

		case "enter":
			if len(p.filtered) == 0 {
				return p, nil, "", false
			}
			sel := p.filtered[p.cursor]
			p.Deactivate()
			return p, nil, sel, true

		case "up", "ctrl+p":
			if p.cursor > 0 {
				p.cursor--
			}
			return p, nil, "", false

		case "down", "ctrl+n":
			if p.cursor < len(p.filtered)-1 {
				p.cursor++
			}
			return p, nil, "", false
		}
	}

	old := p.input.Value()
	p.input, cmd = p.input.Update(msg)
	if p.input.Value() != old {
		p.filter()
	}
	return p, cmd, "", false
}

func (p *typePicker) filter() {
	q := strings.ToLower(strings.TrimSpace(p.input.Value()))
	matches := make([]string, 0, len(p.types)+1)
	if q == "" {
		matches = append(matches, "")
	}
	for _, t := range p.types {
		if q == "" || strings.Contains(t, q) {
			matches = append(matches, t)
		}
	}
	p.filtered = matches
	if p.cursor >= len(p.filtered) {
		p.cursor = max(0, len(p.filtered)-1)
	}
}

// View renders the picker.
func (p typePicker) View() string {
	if !p.active {
		return ""
	}

	var b strings.Builder
	b.WriteString(p.input.View())
	b.WriteString("\n")

	if len(p.filtered) == 0 {
		b.WriteString(MutedStyle.Render("no matching types"))
	}

	start := 0
	if p.cursor >= pickerRows {
		start = p.cursor - pickerRows + 1
	}
	end := min(start+pickerRows, len(p.filtered))
	for i := start; i < end; i++ {
		label := allTypesLabel
		if p.filtered[i] != "" {
			label = catalog.FormatName(p.filtered[i])
		}
		if i == p.cursor {
			b.WriteString(SelectedItem.Render("> " + label))
		} else {
			b.WriteString(NormalItem.Render("  " + label))
		}
		if i < end-1 {
			b.WriteString("\n")
		}
	}

	width := p.width - 4
	if width < 24 {
		width = 24
	}
	return PickerPanel.Width(width).Render(b.String())
}
