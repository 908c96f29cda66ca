package k8s

import (
	"k8s.io/apimachinery/pkg/runtime/schema"
)

// Kind identifies a resource collection inside a snapshot (e.g. "deployments")
type Kind string

const (
	KindDeployment            Kind = "deployments"
	KindDeploymentConfig      Kind = "deploymentConfigs"
	KindStatefulSet           Kind = "statefulSets"
	KindDaemonSet             Kind = "daemonSets"
	KindPod                   Kind = "pods"
	KindReplicaSet            Kind = "replicaSets"
	KindReplicationController Kind = "replicationControllers"
	KindService               Kind = "services"
	KindRoute                 Kind = "routes"
	KindClusterServiceVersion Kind = "clusterServiceVersions"
	KindServiceBindingRequest Kind = "serviceBindingRequests"

	// Knative serving
	KindKnativeService       Kind = "ksservices"
	KindKnativeConfiguration Kind = "configurations"
	KindKnativeRevision      Kind = "revisions"
	KindKnativeRoute         Kind = "ksroutes"

	// Knative eventing sources
	KindEventSourceCronJob   Kind = "eventSourceCronjob"
	KindEventSourceContainer Kind = "eventSourceContainers"
	KindEventSourceAPIServer Kind = "eventSourceApiserver"
	KindEventSourceCamel     Kind = "eventSourceCamel"
	KindEventSourceKafka     Kind = "eventSourceKafka"
)

// KindConfig describes how a Kind maps onto the API server
type KindConfig struct {
	GVR        schema.GroupVersionResource
	ObjectKind string // Kind as it appears in ownerReferences
	Name       string
	Namespaced bool
	Workload   bool // Can be rendered as a workload node
	Optional   bool // Missing API (e.g. no OpenShift/Knative) is not an error
}

var kindRegistry = map[Kind]KindConfig{
	KindDeployment: {
		GVR:        schema.GroupVersionResource{Group: "apps", Version: "v1", Resource: "deployments"},
		ObjectKind: "Deployment",
		Name:       "Deployments",
		Namespaced: true,
		Workload:   true,
	},
	KindDeploymentConfig: {
		GVR:        schema.GroupVersionResource{Group: "apps.openshift.io", Version: "v1", Resource: "deploymentconfigs"},
		ObjectKind: "DeploymentConfig",
		Name:       "Deployment Configs",
		Namespaced: true,
		Workload:   true,
		Optional:   true,
	},
	KindStatefulSet: {
		GVR:        schema.GroupVersionResource{Group: "apps", Version: "v1", Resource: "statefulsets"},
		ObjectKind: "StatefulSet",
		Name:       "Stateful Sets",
		Namespaced: true,
		Workload:   true,
	},
	KindDaemonSet: {
		GVR:        schema.GroupVersionResource{Group: "apps", Version: "v1", Resource: "daemonsets"},
		ObjectKind: "DaemonSet",
		Name:       "Daemon Sets",
		Namespaced: true,
		Workload:   true,
	},
	KindPod: {
		GVR:        schema.GroupVersionResource{Group: "", Version: "v1", Resource: "pods"},
		ObjectKind: "Pod",
		Name:       "Pods",
		Namespaced: true,
	},
	KindReplicaSet: {
		GVR:        schema.GroupVersionResource{Group: "apps", Version: "v1", Resource: "replicasets"},
		ObjectKind: "ReplicaSet",
		Name:       "Replica Sets",
		Namespaced: true,
	},
	KindReplicationController: {
		GVR:        schema.GroupVersionResource{Group: "", Version: "v1", Resource: "replicationcontrollers"},
		ObjectKind: "ReplicationController",
		Name:       "Replication Controllers",
		Namespaced: true,
	},
	KindService: {
		GVR:        schema.GroupVersionResource{Group: "", Version: "v1", Resource: "services"},
		ObjectKind: "Service",
		Name:       "Services",
		Namespaced: true,
	},
	KindRoute: {
		GVR:        schema.GroupVersionResource{Group: "route.openshift.io", Version: "v1", Resource: "routes"},
		ObjectKind: "Route",
		Name:       "Routes",
		Namespaced: true,
		Optional:   true,
	},
	KindClusterServiceVersion: {
		GVR:        schema.GroupVersionResource{Group: "operators.coreos.com", Version: "v1alpha1", Resource: "clusterserviceversions"},
		ObjectKind: "ClusterServiceVersion",
		Name:       "Cluster Service Versions",
		Namespaced: true,
		Optional:   true,
	},
	KindServiceBindingRequest: {
		GVR:        schema.GroupVersionResource{Group: "apps.openshift.io", Version: "v1alpha1", Resource: "servicebindingrequests"},
		ObjectKind: "ServiceBindingRequest",
		Name:       "Service Binding Requests",
		Namespaced: true,
		Optional:   true,
	},
	KindKnativeService: {
		GVR:        schema.GroupVersionResource{Group: "serving.knative.dev", Version: "v1alpha1", Resource: "services"},
		ObjectKind: "Service",
		Name:       "Knative Services",
		Namespaced: true,
		Optional:   true,
	},
	KindKnativeConfiguration: {
		GVR:        schema.GroupVersionResource{Group: "serving.knative.dev", Version: "v1alpha1", Resource: "configurations"},
		ObjectKind: "Configuration",
		Name:       "Configurations",
		Namespaced: true,
		Optional:   true,
	},
	KindKnativeRevision: {
		GVR:        schema.GroupVersionResource{Group: "serving.knative.dev", Version: "v1alpha1", Resource: "revisions"},
		ObjectKind: "Revision",
		Name:       "Revisions",
		Namespaced: true,
		Optional:   true,
	},
	KindKnativeRoute: {
		GVR:        schema.GroupVersionResource{Group: "serving.knative.dev", Version: "v1alpha1", Resource: "routes"},
		ObjectKind: "Route",
		Name:       "Knative Routes",
		Namespaced: true,
		Optional:   true,
	},
	KindEventSourceCronJob: {
		GVR:        schema.GroupVersionResource{Group: "sources.eventing.knative.dev", Version: "v1alpha1", Resource: "cronjobsources"},
		ObjectKind: "CronJobSource",
		Name:       "CronJob Sources",
		Namespaced: true,
		Optional:   true,
	},
	KindEventSourceContainer: {
		GVR:        schema.GroupVersionResource{Group: "sources.eventing.knative.dev", Version: "v1alpha1", Resource: "containersources"},
		ObjectKind: "ContainerSource",
		Name:       "Container Sources",
		Namespaced: true,
		Optional:   true,
	},
	KindEventSourceAPIServer: {
		GVR:        schema.GroupVersionResource{Group: "sources.eventing.knative.dev", Version: "v1alpha1", Resource: "apiserversources"},
		ObjectKind: "ApiServerSource",
		Name:       "ApiServer Sources",
		Namespaced: true,
		Optional:   true,
	},
	KindEventSourceCamel: {
		GVR:        schema.GroupVersionResource{Group: "sources.eventing.knative.dev", Version: "v1alpha1", Resource: "camelsources"},
		ObjectKind: "CamelSource",
		Name:       "Camel Sources",
		Namespaced: true,
		Optional:   true,
	},
	KindEventSourceKafka: {
		GVR:        schema.GroupVersionResource{Group: "sources.eventing.knative.dev", Version: "v1alpha1", Resource: "kafkasources"},
		ObjectKind: "KafkaSource",
		Name:       "Kafka Sources",
		Namespaced: true,
		Optional:   true,
	},
}

// WorkloadKinds is the default node selection, in display order
var WorkloadKinds = []Kind{
	KindDeploymentConfig,
	KindDeployment,
	KindStatefulSet,
	KindDaemonSet,
}

// EventSourceKinds lists the Knative eventing source collections
var EventSourceKinds = []Kind{
	KindEventSourceCronJob,
	KindEventSourceContainer,
	KindEventSourceAPIServer,
	KindEventSourceCamel,
	KindEventSourceKafka,
}

// GetKindConfig returns the registry entry for a kind
func GetKindConfig(kind Kind) (KindConfig, bool) {
	cfg, ok := kindRegistry[kind]
	return cfg, ok
}

// GetGVRForKind returns the GroupVersionResource for a kind string
func GetGVRForKind(kind string) (schema.GroupVersionResource, bool) {
	cfg, ok := kindRegistry[Kind(kind)]
	return cfg.GVR, ok
}

// AllKinds returns every registered kind
func AllKinds() []Kind {
	kinds := make([]Kind, 0, len(kindRegistry))
	for k := range kindRegistry {
		kinds = append(kinds, k)
	}
	return kinds
}

// ParseKinds converts kind strings into Kinds, rejecting unknown values
func ParseKinds(values []string) ([]Kind, []string) {
	kinds := make([]Kind, 0, len(values))
	var unknown []string
	for _, v := range values {
		if _, ok := kindRegistry[Kind(v)]; !ok {
			unknown = append(unknown, v)
			continue
		}
		kinds = append(kinds, Kind(v))
	}
	return kinds, unknown
}

// ConfigForObject finds the registry entry matching an object's apiVersion and kind
func ConfigForObject(apiVersion, objectKind string) (Kind, KindConfig, bool) {
	gv, err := schema.ParseGroupVersion(apiVersion)
	if err != nil {
		return "", KindConfig{}, false
	}
	for kind, cfg := range kindRegistry {
		if cfg.ObjectKind == objectKind && cfg.GVR.Group == gv.Group {
			return kind, cfg, true
		}
	}
	return "", KindConfig{}, false
}
