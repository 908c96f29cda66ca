package topology

// Default node sizes handed to the layout layer
const (
	NodeWidth  = 104
	NodeHeight = 104
)

// ModelNode is a node as the layout layer sees it. Group nodes carry their
// member ids in Children and no Data.
type ModelNode struct {
	ID       string   `json:"id"`
	Type     string   `json:"type"`
	Label    string   `json:"label"`
	Width    int      `json:"width,omitempty"`
	Height   int      `json:"height,omitempty"`
	Group    bool     `json:"group,omitempty"`
	Children []string `json:"children,omitempty"`
	Data     *Node    `json:"data,omitempty"`
}

// ModelEdge is an edge as the layout layer sees it
type ModelEdge struct {
	ID     string `json:"id"`
	Type   string `json:"type"`
	Source string `json:"source"`
	Target string `json:"target"`
}

// Model is the layout ready form of Data
type Model struct {
	Nodes []ModelNode `json:"nodes"`
	Edges []ModelEdge `json:"edges"`
}

// ModelFromData converts transform output into layout nodes, one per topology
// entry followed by one group node per part-of group
func ModelFromData(data *Data) *Model {
	model := &Model{Nodes: []ModelNode{}, Edges: []ModelEdge{}}
	if data == nil {
		return model
	}

	for _, id := range data.Graph.Nodes {
		node, ok := data.Topology[id]
		if !ok {
			continue
		}
		model.Nodes = append(model.Nodes, ModelNode{
			ID:     id,
			Type:   node.Type,
			Label:  node.Name,
			Width:  NodeWidth,
			Height: NodeHeight,
			Data:   node,
		})
	}

	for _, g := range data.Graph.Groups {
		model.Nodes = append(model.Nodes, ModelNode{
			ID:       g.ID,
			Type:     TypeGroup,
			Label:    g.Name,
			Group:    true,
			Children: append([]string(nil), g.Nodes...),
		})
	}

	for _, e := range data.Graph.Edges {
		model.Edges = append(model.Edges, ModelEdge(e))
	}

	return model
}
