package screens

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/renato0307/ktopo/internal/commands"
	"github.com/renato0307/ktopo/internal/k8s"
	"github.com/renato0307/ktopo/internal/messages"
	"github.com/renato0307/ktopo/internal/pipeline"
	"github.com/renato0307/ktopo/internal/topology"
	"github.com/renato0307/ktopo/internal/types"
)

var nodeColumns = []Column{
	{Title: "Name", Width: 0},
	{Title: "Kind", Width: 18},
	{Title: "Type", Width: 15},
	{Title: "Group", Width: 18},
	{Title: "Status", Width: 16},
	{Title: "Pods", Width: 6},
	{Title: "Connects To", Width: 24},
	{Title: "URL", Width: 0},
}

// NodesScreen lists the topology nodes with their rolled up pod status
type NodesScreen struct {
	*TableScreen
	ctx  *types.AppContext
	data *topology.Data
}

func NewNodesScreen(ctx *types.AppContext) *NodesScreen {
	s := &NodesScreen{ctx: ctx}
	s.TableScreen = NewTableScreen(
		NodesScreenID,
		"Nodes",
		"/: filter • y: yaml • d: describe • u: copy url • e: copy edit url • E/K: toggle event sources/knative • tab: next • ?: help",
		nodeColumns,
		s.rows,
		ctx.Theme,
	)
	return s
}

func (s *NodesScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		if cmd, handled := s.handleKey(key); handled {
			return s, cmd
		}
	}
	return s, s.update(msg)
}

// SetSize leaves one line for the status summary
func (s *NodesScreen) SetSize(width, height int) {
	s.TableScreen.SetSize(width, max(1, height-1))
}

func (s *NodesScreen) View() string {
	return lipgloss.JoinVertical(lipgloss.Left, s.table.View(), s.summary())
}

// SelectedNode returns the node under the cursor
func (s *NodesScreen) SelectedNode() (*topology.Node, bool) {
	row, ok := s.Selected()
	if !ok || s.data == nil {
		return nil, false
	}
	node, ok := s.data.Topology[row.Key]
	return node, ok
}

func (s *NodesScreen) rows(result *pipeline.Result) []Row {
	if result == nil || result.Data == nil {
		s.data = nil
		return nil
	}
	s.data = result.Data

	groupOf := make(map[string]string)
	for _, g := range s.data.Graph.Groups {
		for _, id := range g.Nodes {
			groupOf[id] = g.Name
		}
	}

	targets := make(map[string][]string)
	for _, e := range s.data.Graph.Edges {
		if e.Type != topology.EdgeConnectsTo {
			continue
		}
		if target, ok := s.data.Topology[e.Target]; ok {
			targets[e.Source] = append(targets[e.Source], target.Name)
		}
	}

	nodes := s.data.Nodes()
	rows := make([]Row, 0, len(nodes))
	for _, n := range nodes {
		status := n.Data.DonutStatus
		rows = append(rows, Row{
			Key: n.ID,
			Cells: []string{
				n.Name,
				n.Data.Kind,
				n.Type,
				groupOf[n.ID],
				status.Status,
				fmt.Sprintf("%d/%d", status.Ready, status.Desired),
				strings.Join(targets[n.ID], ","),
				n.Data.URL,
			},
		})
	}
	return rows
}

func (s *NodesScreen) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	keys := s.ctx.Keys
	switch msg.String() {
	case keys.YAML:
		return s.showDetail(types.DetailYAML), true
	case keys.Describe:
		return s.showDetail(types.DetailDescribe), true
	case keys.CopyURL:
		return s.copy("route URL", func(n *topology.Node) string { return n.Data.URL }), true
	case keys.CopyEdit:
		return s.copy("edit URL", func(n *topology.Node) string { return n.Data.EditURL }), true
	case keys.ToggleEventSources:
		return s.toggle("event sources", func(d *topology.DisplayFilters) *bool { return &d.EventSources }), true
	case keys.ToggleKnativeServices:
		return s.toggle("knative services", func(d *topology.DisplayFilters) *bool { return &d.KnativeServices }), true
	}
	return nil, false
}

func (s *NodesScreen) showDetail(kind types.DetailKind) tea.Cmd {
	node, ok := s.SelectedNode()
	if !ok {
		return messages.InfoCmd("No node selected")
	}
	obj := topology.ResourceObject(node)
	if obj == nil {
		return messages.ErrorCmd("Node %s has no resource", node.Name)
	}

	content := k8s.Describe(obj)
	if kind == types.DetailYAML {
		yaml, err := k8s.FormatYAML(obj)
		if err != nil {
			return messages.ErrorCmd("YAML failed: %v", err)
		}
		content = yaml
	}

	return func() tea.Msg {
		return types.ShowDetailMsg{Kind: kind, Name: node.Name, Content: content}
	}
}

func (s *NodesScreen) copy(what string, field func(*topology.Node) string) tea.Cmd {
	node, ok := s.SelectedNode()
	if !ok {
		return messages.InfoCmd("No node selected")
	}
	text, err := commands.CopyToClipboard(s.ctx.Copy, what, field(node))
	if err != nil {
		return messages.ErrorCmd("Copy failed: %v", err)
	}
	return messages.SuccessCmd("%s", text)
}

// toggle flips a display filter and asks for a refresh
func (s *NodesScreen) toggle(what string, field func(*topology.DisplayFilters) *bool) tea.Cmd {
	p := s.ctx.Pipeline
	if p == nil {
		return nil
	}
	filters := p.Filters()
	flag := field(&filters.Display)
	*flag = !*flag
	p.SetFilters(filters)

	state := "Hiding"
	if *flag {
		state = "Showing"
	}
	return tea.Batch(
		messages.InfoCmd("%s %s", state, what),
		func() tea.Msg { return types.RefreshRequestMsg{} },
	)
}

// summary renders the node count per status, colored by severity
func (s *NodesScreen) summary() string {
	if s.data == nil {
		return ""
	}

	counts := make(map[string]int)
	for _, n := range s.data.Topology {
		if n.Data.DonutStatus.Status != "" {
			counts[n.Data.DonutStatus.Status]++
		}
	}

	statuses := make([]string, 0, len(counts))
	for status := range counts {
		statuses = append(statuses, status)
	}
	sort.Strings(statuses)

	parts := make([]string, 0, len(statuses))
	for _, status := range statuses {
		parts = append(parts, s.theme.StatusStyle(status).Render(fmt.Sprintf("%s %d", status, counts[status])))
	}
	return strings.Join(parts, " • ")
}
