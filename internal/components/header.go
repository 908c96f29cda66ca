package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/renato0307/ktopo/internal/topology"
	"github.com/renato0307/ktopo/internal/types"
	"github.com/renato0307/ktopo/internal/ui"
)

type Header struct {
	appName     string
	screenTitle string
	context     string
	namespace   string
	nodes       int
	edges       int
	groups      int
	lastRefresh time.Time
	width       int
	theme       *ui.Theme
	now         func() time.Time
}

func NewHeader(ctx *types.AppContext, appName string) *Header {
	return &Header{
		appName: appName,
		context: ctx.Context,
		theme:   ctx.Theme,
		now:     time.Now,
	}
}

func (h *Header) SetScreenTitle(title string) {
	h.screenTitle = title
}

func (h *Header) SetNamespace(namespace string) {
	h.namespace = namespace
}

// SetCounts records the size of the last topology
func (h *Header) SetCounts(data *topology.Data) {
	if data == nil {
		h.nodes, h.edges, h.groups = 0, 0, 0
		return
	}
	h.nodes = len(data.Graph.Nodes)
	h.edges = len(data.Graph.Edges)
	h.groups = len(data.Graph.Groups)
}

func (h *Header) SetLastRefresh(t time.Time) {
	h.lastRefresh = t
}

func (h *Header) SetWidth(width int) {
	h.width = width
}

func (h *Header) View() string {
	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(h.theme.Primary)

	timingStyle := lipgloss.NewStyle().
		Foreground(h.theme.Muted).
		Padding(0, 1)

	// "Nodes • dummy/my-app • 9 nodes, 3 edges, 2 groups"
	leftParts := []string{}
	if h.screenTitle != "" {
		leftParts = append(leftParts, h.screenTitle)
	}

	if h.namespace != "" {
		location := h.namespace
		if h.context != "" {
			location = h.context + "/" + h.namespace
		}
		leftParts = append(leftParts, location)
	}

	if h.nodes > 0 {
		leftParts = append(leftParts, fmt.Sprintf("%d nodes, %d edges, %d groups", h.nodes, h.edges, h.groups))
	}

	leftText := strings.Join(leftParts, " • ")
	if leftText == "" {
		leftText = h.appName
	}
	left := headerStyle.Render(leftText)

	var right string
	if !h.lastRefresh.IsZero() {
		right = timingStyle.Render("Last refresh: " + Ago(h.now().Sub(h.lastRefresh)))
	}

	spacing := h.width - lipgloss.Width(left) - lipgloss.Width(right)
	if spacing < 0 {
		spacing = 0
	}

	spacer := lipgloss.NewStyle().
		Width(spacing).
		Render("")

	return lipgloss.JoinHorizontal(lipgloss.Top, left, spacer, right)
}

// Ago formats an elapsed duration as "5s ago", "3m ago" or "2h ago"
func Ago(elapsed time.Duration) string {
	switch {
	case elapsed < time.Minute:
		return fmt.Sprintf("%ds ago", int(elapsed.Seconds()))
	case elapsed < time.Hour:
		return fmt.Sprintf("%dm ago", int(elapsed.Minutes()))
	default:
		return fmt.Sprintf("%dh ago", int(elapsed.Hours()))
	}
}
