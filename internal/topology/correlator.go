package topology

import (
	"sort"
	"strconv"
	"strings"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/labels"
	"k8s.io/apimachinery/pkg/util/json"

	"github.com/renato0307/ktopo/internal/k8s"
)

// ExtensionFunc correlates ecosystem specific resources (e.g. Knative
// revisions) with a workload. It must not mutate its inputs.
type ExtensionFunc func(obj *unstructured.Unstructured, resources k8s.Resources) KnativeItem

// controllerKinds are the intermediate owners between a workload and its pods
var controllerKinds = []k8s.Kind{k8s.KindReplicaSet, k8s.KindReplicationController}

// revisionAnnotations hold the rollout revision of a ReplicaSet or ReplicationController
var revisionAnnotations = []string{
	"deployment.kubernetes.io/revision",
	"openshift.io/deployment-config.latest-version",
}

// Correlate gathers everything related to a workload: its pods (directly owned
// or through a ReplicaSet/ReplicationController), current and previous
// controllers, services selecting its pods, routes to those services and the
// results of every extension function.
func Correlate(obj *unstructured.Unstructured, resources k8s.Resources, extensions []ExtensionFunc) *OverviewItem {
	item := &OverviewItem{
		Obj:      obj,
		Pods:     []*unstructured.Unstructured{},
		Services: []*unstructured.Unstructured{},
		Routes:   []*unstructured.Unstructured{},
		KnativeItem: KnativeItem{
			Revisions:      []*unstructured.Unstructured{},
			Configurations: []*unstructured.Unstructured{},
			Routes:         []*unstructured.Unstructured{},
		},
	}

	uid := string(obj.GetUID())
	controllers := ownedControllers(uid, resources)
	if len(controllers) > 0 {
		item.Current = controllers[0]
	}
	if len(controllers) > 1 {
		item.Previous = controllers[1]
	}

	owners := map[string]struct{}{uid: {}}
	for _, c := range controllers {
		owners[string(c.GetUID())] = struct{}{}
	}
	for _, pod := range resources.Items(k8s.KindPod) {
		for _, ref := range pod.GetOwnerReferences() {
			if _, ok := owners[string(ref.UID)]; ok {
				item.Pods = append(item.Pods, pod)
				break
			}
		}
	}

	item.Services = selectingServices(obj, resources)
	item.Routes = routesForServices(item.Services, resources)

	for _, fn := range extensions {
		if fn == nil {
			continue
		}
		res := fn(obj, resources)
		item.Revisions = appendUnique(item.Revisions, res.Revisions...)
		item.Configurations = appendUnique(item.Configurations, res.Configurations...)
		item.KnativeItem.Routes = appendUnique(item.KnativeItem.Routes, res.Routes...)
	}

	return item
}

// ownedControllers returns the ReplicaSets/ReplicationControllers owned by uid,
// newest revision first
func ownedControllers(uid string, resources k8s.Resources) []*unstructured.Unstructured {
	var owned []*unstructured.Unstructured
	for _, kind := range controllerKinds {
		for _, c := range resources.Items(kind) {
			if k8s.IsOwnedBy(c, uid) {
				owned = append(owned, c)
			}
		}
	}
	sort.SliceStable(owned, func(i, j int) bool {
		return controllerRevision(owned[i]) > controllerRevision(owned[j])
	})
	return owned
}

func controllerRevision(u *unstructured.Unstructured) int64 {
	for _, key := range revisionAnnotations {
		if v, ok := k8s.Annotation(u, key); ok {
			if n, err := strconv.ParseInt(v, 10, 64); err == nil {
				return n
			}
		}
	}
	return 0
}

// selectingServices returns the services whose selector matches the workload's pod template
func selectingServices(obj *unstructured.Unstructured, resources k8s.Resources) []*unstructured.Unstructured {
	services := []*unstructured.Unstructured{}
	podLabels := k8s.TemplateLabels(obj)
	if len(podLabels) == 0 {
		return services
	}
	for _, svc := range resources.Items(k8s.KindService) {
		selector, _, _ := unstructured.NestedStringMap(svc.Object, "spec", "selector")
		if len(selector) == 0 {
			continue
		}
		if labels.SelectorFromSet(selector).Matches(labels.Set(podLabels)) {
			services = append(services, svc)
		}
	}
	return services
}

// routesForServices returns the OpenShift routes pointing at any of the services
func routesForServices(services []*unstructured.Unstructured, resources k8s.Resources) []*unstructured.Unstructured {
	routes := []*unstructured.Unstructured{}
	if len(services) == 0 {
		return routes
	}
	names := make(map[string]struct{}, len(services))
	for _, svc := range services {
		names[svc.GetName()] = struct{}{}
	}
	for _, route := range resources.Items(k8s.KindRoute) {
		if _, ok := names[routeBackend(route)]; ok {
			routes = append(routes, route)
		}
	}
	return routes
}

func routeBackend(route *unstructured.Unstructured) string {
	kind, _, _ := unstructured.NestedString(route.Object, "spec", "to", "kind")
	if kind != "" && kind != "Service" {
		return ""
	}
	name, _, _ := unstructured.NestedString(route.Object, "spec", "to", "name")
	return name
}

// ConnectsTo parses the connects-to annotation of obj. The value is a JSON list
// of names or of {"apiVersion","kind","name"} references; anything that is not
// JSON is read as a comma separated list. Malformed values yield nil.
func ConnectsTo(obj *unstructured.Unstructured) []string {
	value, ok := k8s.Annotation(obj, AnnotationConnectsTo)
	if !ok {
		return nil
	}
	return parseConnectsTo(value)
}

func parseConnectsTo(value string) []string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}

	var entries []interface{}
	if err := json.Unmarshal([]byte(value), &entries); err != nil {
		if strings.HasPrefix(value, "[") || strings.HasPrefix(value, "{") {
			// Broken JSON is not a name list
			return nil
		}
		var names []string
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				names = append(names, part)
			}
		}
		return names
	}

	var names []string
	for _, entry := range entries {
		switch v := entry.(type) {
		case string:
			if v != "" {
				names = append(names, v)
			}
		case map[string]interface{}:
			if name, ok := v["name"].(string); ok && name != "" {
				names = append(names, name)
			}
		}
	}
	return names
}

// ResolveName finds the UID of the workload a connects-to name refers to.
// The app.kubernetes.io/instance label wins over metadata.name.
func ResolveName(name string, resources k8s.Resources) (string, bool) {
	candidates := connectableObjects(resources)
	for _, obj := range candidates {
		if instance, ok := k8s.Label(obj, LabelInstance); ok && instance == name {
			return string(obj.GetUID()), true
		}
	}
	for _, obj := range candidates {
		if obj.GetName() == name {
			return string(obj.GetUID()), true
		}
	}
	return "", false
}

// ConnectionTargets resolves the connects-to annotation of obj into UIDs.
// Unknown names are dropped.
func ConnectionTargets(obj *unstructured.Unstructured, resources k8s.Resources) []string {
	var targets []string
	for _, name := range ConnectsTo(obj) {
		if uid, ok := ResolveName(name, resources); ok && uid != string(obj.GetUID()) {
			targets = append(targets, uid)
		}
	}
	return targets
}

// ConnectionName is the name other workloads use to reference obj
func ConnectionName(obj *unstructured.Unstructured) string {
	if instance, ok := k8s.Label(obj, LabelInstance); ok && instance != "" {
		return instance
	}
	return obj.GetName()
}

func connectableObjects(resources k8s.Resources) []*unstructured.Unstructured {
	var objs []*unstructured.Unstructured
	for _, kind := range k8s.WorkloadKinds {
		objs = append(objs, resources.Items(kind)...)
	}
	return append(objs, resources.Items(k8s.KindKnativeService)...)
}

func appendUnique(dst []*unstructured.Unstructured, objs ...*unstructured.Unstructured) []*unstructured.Unstructured {
	for _, obj := range objs {
		if obj == nil {
			continue
		}
		dup := false
		for _, existing := range dst {
			if existing.GetUID() == obj.GetUID() {
				dup = true
				break
			}
		}
		if !dup {
			dst = append(dst, obj)
		}
	}
	return dst
}
