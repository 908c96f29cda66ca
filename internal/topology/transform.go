package topology

import (
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"github.com/renato0307/ktopo/internal/k8s"
)

// Options tunes a transform. The zero value is usable.
type Options struct {
	// CheURL enables Che workspace factory edit links
	CheURL string
	// ExtensionFuncs correlate ecosystem specific resources, in order
	ExtensionFuncs []ExtensionFunc
	// Filters defaults to DefaultFilters when nil
	Filters *Filters
}

// Transform builds the topology for the given kinds. It never fails: missing or
// broken data makes the graph smaller. Every call returns fresh values and the
// input snapshot is not modified.
func Transform(resources k8s.Resources, includeKinds []k8s.Kind, opts Options) *Data {
	b := NewBuilder()
	topology := make(map[string]*Node)

	for _, kind := range includeKinds {
		for _, obj := range resources.Items(kind) {
			uid := string(obj.GetUID())
			if uid == "" {
				continue
			}
			if _, exists := topology[uid]; exists {
				continue
			}
			topology[uid] = workloadNode(obj, resources, opts)
			partOf, _ := k8s.Label(obj, LabelPartOf)
			b.AddNode(uid, partOf)
		}
	}

	addKnativeServices(b, topology, resources, opts)

	for _, uid := range b.Nodes() {
		node := topology[uid]
		for _, target := range ConnectionTargets(node.Resources.Obj, resources) {
			b.AddEdge(uid, target, EdgeConnectsTo)
		}
	}

	addEventSources(b, topology, resources)

	data := &Data{Graph: b.Build(), Topology: topology}

	filters := DefaultFilters()
	if opts.Filters != nil {
		filters = *opts.Filters
	}
	applyFilters(data, filters)

	return data
}

func workloadNode(obj *unstructured.Unstructured, resources k8s.Resources, opts Options) *Node {
	item := Correlate(obj, resources, opts.ExtensionFuncs)

	status := ComputeStatus(item.Pods, obj)
	if item.Current != nil {
		status.Current = item.Current.GetName()
	}
	if item.Previous != nil {
		status.Previous = item.Previous.GetName()
		replicas, _, _ := unstructured.NestedInt64(item.Previous.Object, "status", "replicas")
		status.IsRollingOut = replicas > 0
	}

	uid := string(obj.GetUID())
	return &Node{
		ID:        uid,
		Name:      obj.GetName(),
		Type:      TypeWorkload,
		Resources: item,
		Data: WorkloadData{
			Kind:              obj.GetKind(),
			URL:               RouteURL(item),
			EditURL:           editURL(obj, opts.CheURL),
			BuilderImage:      BuilderImage(obj, resources),
			IsKnativeResource: IsKnativeResource(obj),
			DonutStatus:       status,
		},
	}
}

// ResourceObject returns the primary object of a node, or nil
func ResourceObject(node *Node) *unstructured.Unstructured {
	if node == nil || node.Resources == nil {
		return nil
	}
	return node.Resources.Obj
}
