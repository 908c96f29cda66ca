// Package topology turns resource snapshots into a graph of workloads with
// aggregated pod status, connections and application groups.
package topology

import (
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
)

// Node types
const (
	TypeWorkload       = "workload"
	TypeKnativeService = "knative-service"
	TypeEventSource    = "event-source"
	TypeGroup          = "part-of"
)

// Edge types
const (
	EdgeConnectsTo      = "connects-to"
	EdgeEventSourceLink = "event-source-link"
	EdgeServiceBinding  = "service-binding"
)

// Well known labels and annotations
const (
	LabelPartOf          = "app.kubernetes.io/part-of"
	LabelInstance        = "app.kubernetes.io/instance"
	LabelName            = "app.kubernetes.io/name"
	LabelRuntime         = "app.openshift.io/runtime"
	LabelKnativeService  = "serving.knative.dev/service"
	LabelKnativeConfig   = "serving.knative.dev/configuration"
	LabelKnativeRevision = "serving.knative.dev/revision"

	AnnotationConnectsTo = "app.openshift.io/connects-to"
	AnnotationVCSURI     = "app.openshift.io/vcs-uri"
	AnnotationEditURL    = "app.openshift.io/edit-url"
	AnnotationIdledAt    = "idling.alpha.openshift.io/idled-at"
)

// Edge connects two node UIDs. Stored directed from source to target.
type Edge struct {
	ID     string `json:"id"`
	Type   string `json:"type"`
	Source string `json:"source"`
	Target string `json:"target"`
}

// Group is an application made of every node sharing a part-of label value
type Group struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Nodes []string `json:"nodes"`
}

// Graph is the layout input: node UIDs, edges and groups
type Graph struct {
	Nodes  []string `json:"nodes"`
	Edges  []Edge   `json:"edges"`
	Groups []Group  `json:"groups"`
}

// KnativeItem holds the serverless resources related to a workload
type KnativeItem struct {
	Revisions      []*unstructured.Unstructured `json:"revisions"`
	Configurations []*unstructured.Unstructured `json:"configurations"`
	Routes         []*unstructured.Unstructured `json:"ksroutes"`
}

// OverviewItem references every resource that contributes to a node.
// The objects are shared with the input snapshot and must not be mutated.
type OverviewItem struct {
	Obj      *unstructured.Unstructured   `json:"obj"`
	Current  *unstructured.Unstructured   `json:"current,omitempty"`
	Previous *unstructured.Unstructured   `json:"previous,omitempty"`
	Pods     []*unstructured.Unstructured `json:"pods"`
	Services []*unstructured.Unstructured `json:"services"`
	Routes   []*unstructured.Unstructured `json:"routes"`
	KnativeItem
}

// WorkloadData is the computed part of a node
type WorkloadData struct {
	Kind              string      `json:"kind"`
	URL               string      `json:"url,omitempty"`
	EditURL           string      `json:"editUrl,omitempty"`
	BuilderImage      string      `json:"builderImage,omitempty"`
	IsKnativeResource bool        `json:"isKnativeResource"`
	DonutStatus       DonutStatus `json:"donutStatus"`
}

// Node is one entry of the topology map
type Node struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Type      string        `json:"type"`
	Resources *OverviewItem `json:"resources"`
	Data      WorkloadData  `json:"data"`
}

// Data is the result of a transform
type Data struct {
	Graph    Graph            `json:"graph"`
	Topology map[string]*Node `json:"topology"`
}

// Nodes returns the topology entries in graph order
func (d *Data) Nodes() []*Node {
	nodes := make([]*Node, 0, len(d.Graph.Nodes))
	for _, id := range d.Graph.Nodes {
		if n, ok := d.Topology[id]; ok {
			nodes = append(nodes, n)
		}
	}
	return nodes
}

// FindNode looks a node up by UID, then by name
func (d *Data) FindNode(ref string) (*Node, bool) {
	if n, ok := d.Topology[ref]; ok {
		return n, true
	}
	for _, n := range d.Nodes() {
		if n.Name == ref {
			return n, true
		}
	}
	return nil, false
}
