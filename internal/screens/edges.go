package screens

import (
	"strconv"
	"strings"

	"github.com/renato0307/ktopo/internal/pipeline"
	"github.com/renato0307/ktopo/internal/types"
)

// NewEdgesScreen lists connections between nodes by name
func NewEdgesScreen(ctx *types.AppContext) *TableScreen {
	return NewTableScreen(
		EdgesScreenID,
		"Edges",
		"/: filter • tab: next • ?: help",
		[]Column{
			{Title: "Source", Width: 0},
			{Title: "Target", Width: 0},
			{Title: "Type", Width: 20},
		},
		edgeRows,
		ctx.Theme,
	)
}

func edgeRows(result *pipeline.Result) []Row {
	if result == nil || result.Data == nil {
		return nil
	}
	data := result.Data

	name := func(id string) string {
		if n, ok := data.Topology[id]; ok {
			return n.Name
		}
		return id
	}

	rows := make([]Row, 0, len(data.Graph.Edges))
	for _, e := range data.Graph.Edges {
		rows = append(rows, Row{
			Key:   e.ID,
			Cells: []string{name(e.Source), name(e.Target), e.Type},
		})
	}
	return rows
}

// NewGroupsScreen lists the applications and their members
func NewGroupsScreen(ctx *types.AppContext) *TableScreen {
	return NewTableScreen(
		GroupsScreenID,
		"Groups",
		"/: filter • tab: next • ?: help",
		[]Column{
			{Title: "Application", Width: 30},
			{Title: "Nodes", Width: 6},
			{Title: "Members", Width: 0},
		},
		groupRows,
		ctx.Theme,
	)
}

func groupRows(result *pipeline.Result) []Row {
	if result == nil || result.Data == nil {
		return nil
	}
	data := result.Data

	rows := make([]Row, 0, len(data.Graph.Groups))
	for _, g := range data.Graph.Groups {
		members := make([]string, 0, len(g.Nodes))
		for _, id := range g.Nodes {
			if n, ok := data.Topology[id]; ok {
				members = append(members, n.Name)
			}
		}
		rows = append(rows, Row{
			Key:   g.ID,
			Cells: []string{g.Name, strconv.Itoa(len(g.Nodes)), strings.Join(members, ", ")},
		})
	}
	return rows
}
