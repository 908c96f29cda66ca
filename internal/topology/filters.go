package topology

// DisplayFilters toggles whole node types
type DisplayFilters struct {
	EventSources    bool `json:"eventSources"`
	KnativeServices bool `json:"knativeServices"`
}

// Filters is the user controlled view configuration
type Filters struct {
	Display DisplayFilters `json:"display"`
}

// DefaultFilters shows everything
func DefaultFilters() Filters {
	return Filters{
		Display: DisplayFilters{
			EventSources:    true,
			KnativeServices: true,
		},
	}
}

// hiddenTypes returns the node types the filters exclude
func (f Filters) hiddenTypes() map[string]bool {
	hidden := make(map[string]bool)
	if !f.Display.EventSources {
		hidden[TypeEventSource] = true
	}
	if !f.Display.KnativeServices {
		hidden[TypeKnativeService] = true
	}
	return hidden
}

// applyFilters drops hidden nodes from the topology and the graph
func applyFilters(data *Data, filters Filters) {
	hidden := filters.hiddenTypes()
	if len(hidden) == 0 {
		return
	}

	remove := make(map[string]struct{})
	for uid, node := range data.Topology {
		if hidden[node.Type] {
			remove[uid] = struct{}{}
		}
	}
	for uid := range remove {
		delete(data.Topology, uid)
	}
	data.Graph = data.Graph.withoutNodes(remove)
}
