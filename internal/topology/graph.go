package topology

// Builder accumulates nodes, edges and part-of groups. Nodes and edges are
// kept in insertion order; adding the same node or edge twice is a no-op.
type Builder struct {
	nodes   []string
	nodeSet map[string]struct{}
	partOf  map[string]string

	edges   []Edge
	edgeSet map[edgeKey]struct{}
}

type edgeKey struct {
	source, target string
}

func NewBuilder() *Builder {
	return &Builder{
		nodeSet: make(map[string]struct{}),
		partOf:  make(map[string]string),
		edgeSet: make(map[edgeKey]struct{}),
	}
}

// AddNode adds a node with an optional part-of group. Returns false if the
// node was already present.
func (b *Builder) AddNode(uid, partOf string) bool {
	if uid == "" {
		return false
	}
	if _, ok := b.nodeSet[uid]; ok {
		return false
	}
	b.nodeSet[uid] = struct{}{}
	b.nodes = append(b.nodes, uid)
	if partOf != "" {
		b.partOf[uid] = partOf
	}
	return true
}

// HasNode reports whether uid was added
func (b *Builder) HasNode(uid string) bool {
	_, ok := b.nodeSet[uid]
	return ok
}

// Nodes returns the node UIDs added so far
func (b *Builder) Nodes() []string {
	return append([]string(nil), b.nodes...)
}

// AddEdge adds a directed edge. Only the first edge per (source, target) is kept.
func (b *Builder) AddEdge(source, target, edgeType string) bool {
	if source == "" || target == "" || source == target {
		return false
	}
	key := edgeKey{source, target}
	if _, ok := b.edgeSet[key]; ok {
		return false
	}
	b.edgeSet[key] = struct{}{}
	b.edges = append(b.edges, Edge{
		ID:     source + "_" + target,
		Type:   edgeType,
		Source: source,
		Target: target,
	})
	return true
}

// Build returns the graph. Edges pointing at unknown nodes are dropped.
func (b *Builder) Build() Graph {
	graph := Graph{
		Nodes:  append([]string{}, b.nodes...),
		Edges:  []Edge{},
		Groups: []Group{},
	}

	for _, e := range b.edges {
		if b.HasNode(e.Source) && b.HasNode(e.Target) {
			graph.Edges = append(graph.Edges, e)
		}
	}

	index := make(map[string]int)
	for _, uid := range b.nodes {
		name, ok := b.partOf[uid]
		if !ok {
			continue
		}
		i, seen := index[name]
		if !seen {
			i = len(graph.Groups)
			index[name] = i
			graph.Groups = append(graph.Groups, Group{ID: GroupID(name), Name: name})
		}
		graph.Groups[i].Nodes = append(graph.Groups[i].Nodes, uid)
	}

	return graph
}

// GroupID is the id used for the group of a part-of value
func GroupID(name string) string {
	return "group:" + name
}

// withoutNodes returns a copy of g without the given nodes, their edges and
// any group left empty
func (g Graph) withoutNodes(remove map[string]struct{}) Graph {
	if len(remove) == 0 {
		return g
	}
	out := Graph{Nodes: []string{}, Edges: []Edge{}, Groups: []Group{}}
	for _, uid := range g.Nodes {
		if _, ok := remove[uid]; !ok {
			out.Nodes = append(out.Nodes, uid)
		}
	}
	for _, e := range g.Edges {
		_, src := remove[e.Source]
		_, dst := remove[e.Target]
		if !src && !dst {
			out.Edges = append(out.Edges, e)
		}
	}
	for _, grp := range g.Groups {
		members := []string{}
		for _, uid := range grp.Nodes {
			if _, ok := remove[uid]; !ok {
				members = append(members, uid)
			}
		}
		if len(members) > 0 {
			out.Groups = append(out.Groups, Group{ID: grp.ID, Name: grp.Name, Nodes: members})
		}
	}
	return out
}
