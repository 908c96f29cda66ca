// Package modals holds overlays drawn on top of the current screen
package modals

import (
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/renato0307/ktopo/internal/types"
	"github.com/renato0307/ktopo/internal/ui"
)

const (
	pickerWidth     = 60
	pickerMinHeight = 10
)

type screenItem struct {
	id    string
	title string
	help  string
}

func (i screenItem) FilterValue() string { return i.title }
func (i screenItem) Title() string       { return i.title }
func (i screenItem) Description() string { return i.help }

// ScreenPicker lists the screens and switches to the chosen one
type ScreenPicker struct {
	list   list.Model
	style  lipgloss.Style
	height int
}

func NewScreenPicker(screens []types.Screen, theme *ui.Theme) *ScreenPicker {
	items := make([]list.Item, len(screens))
	for i, screen := range screens {
		items[i] = screenItem{
			id:    screen.ID(),
			title: screen.Title(),
			help:  screen.HelpText(),
		}
	}

	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Go to screen"
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(true)
	l.KeyMap.Quit.SetEnabled(false)
	l.Styles.Title = lipgloss.NewStyle().Bold(true).Foreground(theme.Primary)

	p := &ScreenPicker{
		list: l,
		style: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(1, 2),
	}
	p.SetSize(pickerWidth, pickerMinHeight)
	return p
}

// Update handles keys while the picker is open. Enter emits a
// ScreenSwitchMsg, esc a ClosePickerMsg unless a filter is being typed.
func (p *ScreenPicker) Update(msg tea.Msg) (*ScreenPicker, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && p.list.FilterState() != list.Filtering {
		switch key.String() {
		case "enter":
			if item, ok := p.list.SelectedItem().(screenItem); ok {
				return p, func() tea.Msg {
					return types.ScreenSwitchMsg{ScreenID: item.id}
				}
			}
			return p, nil
		case "esc":
			if p.list.FilterState() == list.FilterApplied {
				p.list.ResetFilter()
				return p, nil
			}
			return p, func() tea.Msg { return types.ClosePickerMsg{} }
		}
	}

	var cmd tea.Cmd
	p.list, cmd = p.list.Update(msg)
	return p, cmd
}

// SetSize sizes the picker for a terminal of the given height; the width is fixed
func (p *ScreenPicker) SetSize(_, height int) {
	p.height = max(height*8/10, pickerMinHeight)
	// border and padding
	p.list.SetSize(pickerWidth-6, p.height-4)
}

// Selected returns the id of the highlighted screen
func (p *ScreenPicker) Selected() string {
	if item, ok := p.list.SelectedItem().(screenItem); ok {
		return item.id
	}
	return ""
}

func (p *ScreenPicker) View() string {
	return p.style.Width(pickerWidth).Height(p.height).Render(p.list.View())
}

// CenteredView places the picker in the middle of the terminal
func (p *ScreenPicker) CenteredView(width, height int) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, p.View())
}
