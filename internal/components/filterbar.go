package components

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/renato0307/ktopo/internal/types"
	"github.com/renato0307/ktopo/internal/ui"
)

// FilterBar reads the fuzzy filter. While active every key goes to the input
// and each change is broadcast as a FilterUpdateMsg.
type FilterBar struct {
	input textinput.Model
	theme *ui.Theme
}

func NewFilterBar(theme *ui.Theme) *FilterBar {
	input := textinput.New()
	input.Prompt = "/"
	input.Placeholder = "filter (prefix with ! to negate)"
	input.PromptStyle = lipgloss.NewStyle().Foreground(theme.Accent)
	input.TextStyle = lipgloss.NewStyle().Foreground(theme.Foreground)
	return &FilterBar{input: input, theme: theme}
}

// Active reports whether the bar is taking input
func (f *FilterBar) Active() bool {
	return f.input.Focused()
}

// Value is the current filter
func (f *FilterBar) Value() string {
	return f.input.Value()
}

// Activate focuses the input
func (f *FilterBar) Activate() tea.Cmd {
	return f.input.Focus()
}

// Update handles keys while active. enter keeps the filter and leaves the
// bar; esc clears it.
func (f *FilterBar) Update(msg tea.KeyMsg) (*FilterBar, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		f.input.Blur()
		return f, nil
	case tea.KeyEsc:
		f.input.Blur()
		f.input.Reset()
		return f, func() tea.Msg { return types.ClearFilterMsg{} }
	}

	before := f.input.Value()
	var cmd tea.Cmd
	f.input, cmd = f.input.Update(msg)
	if value := f.input.Value(); value != before {
		return f, tea.Batch(cmd, func() tea.Msg { return types.FilterUpdateMsg{Filter: value} })
	}
	return f, cmd
}

// Clear drops the filter without broadcasting
func (f *FilterBar) Clear() {
	f.input.Blur()
	f.input.Reset()
}

func (f *FilterBar) View() string {
	if !f.input.Focused() && f.input.Value() == "" {
		return ""
	}
	if !f.input.Focused() {
		return lipgloss.NewStyle().Foreground(f.theme.Muted).Render("filter: " + f.input.Value())
	}
	return f.input.View()
}
