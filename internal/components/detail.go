package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/renato0307/ktopo/internal/types"
	"github.com/renato0307/ktopo/internal/ui"
)

// Detail displays a resource's YAML or description full screen
type Detail struct {
	kind     types.DetailKind
	name     string
	content  string
	width    int
	viewport viewport.Model
	theme    *ui.Theme
}

// NewDetail creates a detail view; call SetSize before rendering
func NewDetail(msg types.ShowDetailMsg, theme *ui.Theme) *Detail {
	d := &Detail{
		kind:     msg.Kind,
		name:     msg.Name,
		content:  msg.Content,
		width:    80,
		theme:    theme,
		viewport: viewport.New(80, 24-DetailReservedLines),
	}
	d.viewport.SetContent(d.render())
	return d
}

// SetSize updates the size of the view
func (d *Detail) SetSize(width, height int) {
	d.width = width
	d.viewport.Width = width
	d.viewport.Height = max(1, height-DetailReservedLines)
	d.viewport.SetContent(d.render())
}

// Update scrolls the content; g and G jump to the ends
func (d *Detail) Update(msg tea.Msg) (*Detail, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "home", "g":
			d.viewport.GotoTop()
			return d, nil
		case "end", "G":
			d.viewport.GotoBottom()
			return d, nil
		}
	}

	var cmd tea.Cmd
	d.viewport, cmd = d.viewport.Update(msg)
	return d, cmd
}

// Offset is the first visible line
func (d *Detail) Offset() int {
	return d.viewport.YOffset
}

func (d *Detail) View() string {
	titleStyle := lipgloss.NewStyle().
		Foreground(d.theme.Primary).
		Bold(true)
	hintStyle := lipgloss.NewStyle().
		Foreground(d.theme.Muted)

	title := titleStyle.Render(d.kind.String() + ": " + d.name)
	hint := hintStyle.Render("[ESC] Back  [↑↓/jk] Scroll  [PgUp/PgDn] Page  [g/G] Top/Bottom")

	headerLine := lipgloss.JoinHorizontal(
		lipgloss.Top,
		title,
		strings.Repeat(" ", max(0, d.width-lipgloss.Width(title)-lipgloss.Width(hint))),
		hint,
	)
	separator := hintStyle.Render(strings.Repeat("─", d.width))

	scrollInfo := ""
	total := d.viewport.TotalLineCount()
	if total > d.viewport.Height {
		last := min(d.viewport.YOffset+d.viewport.Height, total)
		scrollInfo = hintStyle.Render(fmt.Sprintf("  %d-%d of %d", d.viewport.YOffset+1, last, total))
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		headerLine,
		separator,
		d.viewport.View(),
		scrollInfo,
	)
}

func (d *Detail) render() string {
	if d.kind == types.DetailYAML {
		return highlightYAML(d.content, d.theme)
	}
	return d.content
}

// highlightYAML colors keys and values line by line
func highlightYAML(yaml string, theme *ui.Theme) string {
	lines := strings.Split(yaml, "\n")

	keyStyle := lipgloss.NewStyle().Foreground(theme.Primary)
	valueStyle := lipgloss.NewStyle().Foreground(theme.Success)
	commentStyle := lipgloss.NewStyle().Foreground(theme.Muted)

	highlighted := make([]string, 0, len(lines))
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			highlighted = append(highlighted, commentStyle.Render(line))
			continue
		}

		if key, value, found := strings.Cut(line, ":"); found {
			highlighted = append(highlighted, keyStyle.Render(key+":")+valueStyle.Render(value))
			continue
		}

		highlighted = append(highlighted, line)
	}

	return strings.Join(highlighted, "\n")
}
