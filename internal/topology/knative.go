package topology

import (
	"strings"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"github.com/renato0307/ktopo/internal/k8s"
)

const knativeServingGroup = "serving.knative.dev"

// KnativeExtensions is the default set of serverless correlation functions
var KnativeExtensions = []ExtensionFunc{
	KnativeRevisions,
	KnativeConfigurations,
	KnativeRoutes,
}

// IsKnativeResource reports whether obj is managed by Knative serving
func IsKnativeResource(obj *unstructured.Unstructured) bool {
	if strings.HasPrefix(obj.GetAPIVersion(), knativeServingGroup+"/") {
		return true
	}
	l := obj.GetLabels()
	for _, key := range []string{LabelKnativeService, LabelKnativeConfig, LabelKnativeRevision} {
		if _, ok := l[key]; ok {
			return true
		}
	}
	return false
}

// KnativeRevisions returns the revisions owning obj, or owned by the
// configurations obj owns
func KnativeRevisions(obj *unstructured.Unstructured, resources k8s.Resources) KnativeItem {
	var revisions []*unstructured.Unstructured
	for _, uid := range k8s.OwnerUIDs(obj, "Revision") {
		if rev := resources.FindByUID(k8s.KindKnativeRevision, uid); rev != nil {
			revisions = append(revisions, rev)
		}
	}

	configs := ownedBy(resources.Items(k8s.KindKnativeConfiguration), string(obj.GetUID()))
	for _, cfg := range configs {
		revisions = appendUnique(revisions, ownedBy(resources.Items(k8s.KindKnativeRevision), string(cfg.GetUID()))...)
	}
	return KnativeItem{Revisions: revisions}
}

// KnativeConfigurations returns the configurations owning obj's revisions,
// or owned by obj
func KnativeConfigurations(obj *unstructured.Unstructured, resources k8s.Resources) KnativeItem {
	var configs []*unstructured.Unstructured
	for _, rev := range KnativeRevisions(obj, resources).Revisions {
		for _, uid := range k8s.OwnerUIDs(rev, "Configuration") {
			if cfg := resources.FindByUID(k8s.KindKnativeConfiguration, uid); cfg != nil {
				configs = appendUnique(configs, cfg)
			}
		}
	}
	configs = appendUnique(configs, ownedBy(resources.Items(k8s.KindKnativeConfiguration), string(obj.GetUID()))...)
	return KnativeItem{Configurations: configs}
}

// KnativeRoutes returns the Knative routes owned by obj or labelled with the
// Knative service obj belongs to
func KnativeRoutes(obj *unstructured.Unstructured, resources k8s.Resources) KnativeItem {
	service, _ := k8s.Label(obj, LabelKnativeService)
	if service == "" && strings.HasPrefix(obj.GetAPIVersion(), knativeServingGroup+"/") && obj.GetKind() == "Service" {
		service = obj.GetName()
	}

	var routes []*unstructured.Unstructured
	uid := string(obj.GetUID())
	for _, route := range resources.Items(k8s.KindKnativeRoute) {
		label, _ := k8s.Label(route, LabelKnativeService)
		if k8s.IsOwnedBy(route, uid) || (service != "" && label == service) {
			routes = append(routes, route)
		}
	}
	return KnativeItem{Routes: routes}
}

func ownedBy(objs []*unstructured.Unstructured, uid string) []*unstructured.Unstructured {
	var owned []*unstructured.Unstructured
	for _, obj := range objs {
		if k8s.IsOwnedBy(obj, uid) {
			owned = append(owned, obj)
		}
	}
	return owned
}

// addKnativeServices turns every Knative service into a knative-service node.
// Its pods are the pods labelled with the service name.
func addKnativeServices(b *Builder, topology map[string]*Node, resources k8s.Resources, opts Options) {
	for _, ksvc := range resources.Items(k8s.KindKnativeService) {
		uid := string(ksvc.GetUID())
		if _, exists := topology[uid]; exists {
			continue
		}

		item := Correlate(ksvc, resources, opts.ExtensionFuncs)
		for _, pod := range resources.Items(k8s.KindPod) {
			if name, _ := k8s.Label(pod, LabelKnativeService); name == ksvc.GetName() {
				item.Pods = appendUnique(item.Pods, pod)
			}
		}

		status := ComputeStatus(item.Pods, ksvc)
		if len(item.Pods) == 0 {
			status = placeholderStatus(DonutStatus{Tally: map[string]int{}, Pods: []*unstructured.Unstructured{}}, ksvc, StatusAutoscaledToZero)
		}

		url, _, _ := unstructured.NestedString(ksvc.Object, "status", "url")
		topology[uid] = &Node{
			ID:        uid,
			Name:      ksvc.GetName(),
			Type:      TypeKnativeService,
			Resources: item,
			Data: WorkloadData{
				Kind:              ksvc.GetKind(),
				URL:               url,
				EditURL:           editURL(ksvc, opts.CheURL),
				BuilderImage:      BuilderImage(ksvc, resources),
				IsKnativeResource: true,
				DonutStatus:       status,
			},
		}
		partOf, _ := k8s.Label(ksvc, LabelPartOf)
		b.AddNode(uid, partOf)
	}
}

// addEventSources adds every event source as a node linked to its sink
func addEventSources(b *Builder, topology map[string]*Node, resources k8s.Resources) {
	for _, kind := range k8s.EventSourceKinds {
		for _, src := range resources.Items(kind) {
			uid := string(src.GetUID())
			if _, exists := topology[uid]; exists {
				continue
			}
			topology[uid] = &Node{
				ID:   uid,
				Name: src.GetName(),
				Type: TypeEventSource,
				Resources: &OverviewItem{
					Obj:      src,
					Pods:     []*unstructured.Unstructured{},
					Services: []*unstructured.Unstructured{},
					Routes:   []*unstructured.Unstructured{},
				},
				Data: WorkloadData{
					Kind: src.GetKind(),
					DonutStatus: DonutStatus{
						Status: StatusUnknown,
						Tally:  map[string]int{},
						Pods:   []*unstructured.Unstructured{},
					},
				},
			}
			partOf, _ := k8s.Label(src, LabelPartOf)
			b.AddNode(uid, partOf)

			if sink := sinkUID(src, resources); sink != "" {
				b.AddEdge(uid, sink, EdgeEventSourceLink)
			}
		}
	}
}

// sinkUID resolves spec.sink (or spec.sink.ref) to a Knative service UID
func sinkUID(src *unstructured.Unstructured, resources k8s.Resources) string {
	sink, found, _ := unstructured.NestedMap(src.Object, "spec", "sink")
	if !found {
		return ""
	}
	if ref, ok := sink["ref"].(map[string]interface{}); ok {
		sink = ref
	}
	kind, _ := sink["kind"].(string)
	name, _ := sink["name"].(string)
	if kind != "Service" || name == "" {
		return ""
	}
	for _, ksvc := range resources.Items(k8s.KindKnativeService) {
		if ksvc.GetName() == name {
			return string(ksvc.GetUID())
		}
	}
	return ""
}
