package components

import (
	"github.com/charmbracelet/lipgloss"
)

type Layout struct {
	width  int
	height int
}

func NewLayout(width, height int) *Layout {
	return &Layout{
		width:  width,
		height: height,
	}
}

func (l *Layout) SetSize(width, height int) {
	l.width = width
	l.height = height
}

// CalculateBodyHeight returns the available height for the body content
func (l *Layout) CalculateBodyHeight() int {
	// header (1) + empty line (1) + filter (1) + help (1) + status (1)
	reserved := 5
	bodyHeight := l.height - reserved
	if bodyHeight < 3 {
		bodyHeight = 3
	}
	return bodyHeight
}

// Render stacks the sections, skipping empty header and body
func (l *Layout) Render(header, body, filter, help, status string) string {
	sections := []string{}

	if header != "" {
		sections = append(sections, header, "")
	}

	if body != "" {
		sections = append(sections, body)
	}

	sections = append(sections, filter, help, status)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
