package dummy

import (
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"github.com/renato0307/ktopo/internal/k8s"
)

// Namespace is the namespace every fixture object lives in
const Namespace = "testproject1"

// Fixture UIDs referenced by tests and by the dummy provider
const (
	NodejsDCUID        = "02f680df-680f-11e9-b69e-5254003f9382"
	JenkinsDCUID       = "0c9e6d33-680f-11e9-b69e-5254003f9382"
	AnalyticsUID       = "e187afa2-53b1-406d-a619-cf9ff1468031"
	WitUID             = "e187afa2-53b1-406d-a619-cf9ff1468032"
	CouchbaseUID       = "e187afa2-53b1-406d-a619-cf9ff1468033"
	DaemonSetUID       = "0c4a82c9-a6e6-11e9-a20f-52fdfc072182"
	StatefulSetUID     = "1e4a8b33-a6e6-11e9-a20f-52fdfc072182"
	CouchbaseCSVUID    = "f0a5c2b8-a6e7-11e9-a20f-52fdfc072182"
	NodejsServiceUID   = "6a8c2d25-680f-11e9-b69e-5254003f9382"
	NodejsRouteUID     = "6a9d8f4e-680f-11e9-b69e-5254003f9382"
	KnativeDeployUID   = "cea9496b-8ce0-11e9-bb7b-0ebb55b110b8"
	ScaledToZeroUID    = "02c34a0e-9638-11e9-b134-06a61d886b62"
	KnativeServiceUID  = "cea9496b-8ce0-11e9-bb7b-0ebb55b110b1"
	KnativeConfigUID   = "1317f615-9636-11e9-b134-06a61d886b60"
	KnativeRevisionUID = "bccf6a0b-95e9-11e9-b134-06a61d886b62"
	KnativeRouteUID    = "1317f615-9636-11e9-b134-06a61d886b61"
	CronJobSourceUID   = "1317f615-9636-11e9-b134-06a61d886b689"
)

// Annotation values used by tests
const (
	NodejsVCSURI   = "https://github.com/redhat-developer/topology-example"
	KnativeURL     = "http://overlayimage.knativeapps.apps.bpetersen-june-23.devcluster.openshift.com"
	NodejsHost     = "nodejs-testproject1.apps.example.com"
	CouchbaseIcon  = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="
	CouchbaseMedia = "image/png"
	ApplicationOne = "application-1"
)

// MockResources returns a fresh snapshot with plain workloads: two deployment
// configs, three deployments (one operator backed), a daemon set and a stateful set.
func MockResources() k8s.Resources {
	nodejs := newObject("apps.openshift.io/v1", "DeploymentConfig", "nodejs", NodejsDCUID).
		labels("app", "nodejs", "app.openshift.io/runtime", "nodejs").
		annotations("app.openshift.io/vcs-uri", NodejsVCSURI).
		set(int64(1), "spec", "replicas").
		set(podTemplate(map[string]string{"app": "nodejs", "deploymentconfig": "nodejs"}), "spec", "template").
		set(int64(1), "status", "readyReplicas").
		set(int64(1), "status", "latestVersion").
		build()
	jenkins := newObject("apps.openshift.io/v1", "DeploymentConfig", "jenkins", JenkinsDCUID).
		labels("app", "jenkins-ephemeral").
		set(int64(1), "spec", "replicas").
		set(podTemplate(map[string]string{"name": "jenkins"}), "spec", "template").
		set(int64(1), "status", "readyReplicas").
		set(int64(1), "status", "latestVersion").
		build()

	analytics := deployment("analytics-deployment", AnalyticsUID).
		labels("app.kubernetes.io/instance", "analytics", "app.kubernetes.io/part-of", ApplicationOne).
		annotations("app.openshift.io/connects-to", `["wit"]`).
		build()
	wit := deployment("wit-deployment", WitUID).
		labels("app.kubernetes.io/instance", "wit", "app.kubernetes.io/part-of", ApplicationOne).
		build()
	couchbase := deployment("couchbase-operator", CouchbaseUID).
		labels("app.kubernetes.io/instance", "couchbase-operator").
		owner("operators.coreos.com/v1alpha1", "ClusterServiceVersion", "couchbase-operator.v1.1.0", CouchbaseCSVUID).
		build()

	daemonSet := newObject("apps/v1", "DaemonSet", "daemonset-testing", DaemonSetUID).
		labels("app", "daemonset-testing").
		set(podTemplate(map[string]string{"app": "daemonset-testing"}), "spec", "template").
		set(int64(1), "status", "desiredNumberScheduled").
		set(int64(1), "status", "numberReady").
		build()
	statefulSet := newObject("apps/v1", "StatefulSet", "alertmanager-main", StatefulSetUID).
		labels("alertmanager", "main").
		set(int64(1), "spec", "replicas").
		set(podTemplate(map[string]string{"alertmanager": "main"}), "spec", "template").
		set(int64(1), "status", "readyReplicas").
		build()

	csv := newObject("operators.coreos.com/v1alpha1", "ClusterServiceVersion", "couchbase-operator.v1.1.0", CouchbaseCSVUID).
		set("Couchbase Operator", "spec", "displayName").
		set([]interface{}{
			map[string]interface{}{"base64data": CouchbaseIcon, "mediatype": CouchbaseMedia},
		}, "spec", "icon").
		build()

	service := newObject("v1", "Service", "nodejs", NodejsServiceUID).
		labels("app", "nodejs").
		set(map[string]interface{}{"app": "nodejs", "deploymentconfig": "nodejs"}, "spec", "selector").
		build()
	route := newObject("route.openshift.io/v1", "Route", "nodejs", NodejsRouteUID).
		labels("app", "nodejs").
		set(NodejsHost, "spec", "host").
		set(map[string]interface{}{"kind": "Service", "name": "nodejs"}, "spec", "to").
		build()

	return k8s.Resources{
		k8s.KindDeploymentConfig: k8s.NewSnapshot(nodejs, jenkins),
		k8s.KindDeployment:       k8s.NewSnapshot(analytics, wit, couchbase),
		k8s.KindDaemonSet:        k8s.NewSnapshot(daemonSet),
		k8s.KindStatefulSet:      k8s.NewSnapshot(statefulSet),
		k8s.KindReplicationController: k8s.NewSnapshot(
			replicationController("nodejs-1", "rc-nodejs-1", "nodejs", NodejsDCUID),
			replicationController("jenkins-1", "rc-jenkins-1", "jenkins", JenkinsDCUID),
		),
		k8s.KindReplicaSet: k8s.NewSnapshot(
			replicaSet("analytics-deployment-59dd7c47d4", "rs-analytics", "analytics-deployment", AnalyticsUID),
			replicaSet("wit-deployment-656cc8b469", "rs-wit", "wit-deployment", WitUID),
			replicaSet("couchbase-operator-6c5f6b49d4", "rs-couchbase", "couchbase-operator", CouchbaseUID),
		),
		k8s.KindPod: k8s.NewSnapshot(
			runningPod("nodejs-1-2cpzq", "pod-nodejs", "ReplicationController", "nodejs-1", "rc-nodejs-1").build(),
			runningPod("jenkins-1-wvrxk", "pod-jenkins", "ReplicationController", "jenkins-1", "rc-jenkins-1").build(),
			runningPod("analytics-deployment-59dd7c47d4-6btjb", "pod-analytics", "ReplicaSet", "analytics-deployment-59dd7c47d4", "rs-analytics").build(),
			runningPod("wit-deployment-656cc8b469-2n6nl", "pod-wit", "ReplicaSet", "wit-deployment-656cc8b469", "rs-wit").build(),
			runningPod("couchbase-operator-6c5f6b49d4-2dhnd", "pod-couchbase", "ReplicaSet", "couchbase-operator-6c5f6b49d4", "rs-couchbase").build(),
			runningPod("daemonset-testing-62h94", "pod-daemonset", "DaemonSet", "daemonset-testing", DaemonSetUID).build(),
			runningPod("alertmanager-main-0", "pod-statefulset", "StatefulSet", "alertmanager-main", StatefulSetUID).build(),
		),
		k8s.KindService:               k8s.NewSnapshot(service),
		k8s.KindRoute:                 k8s.NewSnapshot(route),
		k8s.KindClusterServiceVersion: k8s.NewSnapshot(csv),
	}
}

// MockKnativeResources returns a fresh snapshot of a single Knative service
// "overlayimage" with its configuration, revision, route, two revision
// deployments (one scaled to zero) and a cron job event source sinking into it.
func MockKnativeResources() k8s.Resources {
	knativeLabels := []string{
		"serving.knative.dev/configuration", "overlayimage",
		"serving.knative.dev/configurationGeneration", "1",
		"serving.knative.dev/revision", "overlayimage-fdqsf",
		"serving.knative.dev/revisionUID", KnativeRevisionUID,
		"serving.knative.dev/service", "overlayimage",
		"app.kubernetes.io/part-of", "overlayimage-app",
	}

	active := deployment("overlayimage-fdqsf-deployment", KnativeDeployUID).
		labels(knativeLabels...).
		owner("serving.knative.dev/v1alpha1", "Revision", "overlayimage-fdqsf", KnativeRevisionUID).
		build()
	scaledToZero := deployment("overlayimage-9jsl8-deployment", ScaledToZeroUID).
		labels(knativeLabels...).
		labels("serving.knative.dev/revision", "overlayimage-9jsl8").
		owner("serving.knative.dev/v1alpha1", "Revision", "overlayimage-9jsl8", "bccf6a0b-95e9-11e9-b134-06a61d886b63").
		set(int64(0), "spec", "replicas").
		set(int64(0), "status", "readyReplicas").
		build()

	ksvc := newObject("serving.knative.dev/v1alpha1", "Service", "overlayimage", KnativeServiceUID).
		labels("app.kubernetes.io/part-of", "overlayimage-app").
		set(KnativeURL, "status", "url").
		set("overlayimage-fdqsf", "status", "latestReadyRevisionName").
		build()
	configuration := newObject("serving.knative.dev/v1alpha1", "Configuration", "overlayimage", KnativeConfigUID).
		labels("serving.knative.dev/route", "overlayimage", "serving.knative.dev/service", "overlayimage").
		owner("serving.knative.dev/v1alpha1", "Service", "overlayimage", KnativeServiceUID).
		set("overlayimage-fdqsf", "status", "latestCreatedRevisionName").
		set("overlayimage-fdqsf", "status", "latestReadyRevisionName").
		build()
	revision := newObject("serving.knative.dev/v1alpha1", "Revision", "overlayimage-fdqsf", KnativeRevisionUID).
		labels(
			"serving.knative.dev/configuration", "overlayimage",
			"serving.knative.dev/configurationGeneration", "1",
			"serving.knative.dev/service", "overlayimage",
		).
		owner("serving.knative.dev/v1alpha1", "Configuration", "overlayimage", KnativeConfigUID).
		set("docker.io/openshift/hello-openshift", "spec", "container", "image").
		build()
	ksroute := newObject("serving.knative.dev/v1alpha1", "Route", "overlayimage", KnativeRouteUID).
		labels("serving.knative.dev/service", "overlayimage").
		owner("serving.knative.dev/v1alpha1", "Service", "overlayimage", KnativeServiceUID).
		set(KnativeURL, "status", "url").
		build()

	cronSource := newObject("sources.eventing.knative.dev/v1alpha1", "CronJobSource", "cronjob-event-source", CronJobSourceUID).
		labels("app.kubernetes.io/part-of", "overlayimage-app").
		set("*/2 * * * *", "spec", "schedule").
		set(map[string]interface{}{
			"apiVersion": "serving.knative.dev/v1alpha1",
			"kind":       "Service",
			"name":       "overlayimage",
		}, "spec", "sink").
		build()

	return k8s.Resources{
		k8s.KindDeploymentConfig: k8s.NewSnapshot(),
		k8s.KindDeployment:       k8s.NewSnapshot(active, scaledToZero),
		k8s.KindReplicaSet: k8s.NewSnapshot(
			replicaSet("overlayimage-fdqsf-deployment-6cb4b6d5d8", "rs-overlayimage", "overlayimage-fdqsf-deployment", KnativeDeployUID),
		),
		k8s.KindPod: k8s.NewSnapshot(
			runningPod("overlayimage-fdqsf-deployment-6cb4b6d5d8-2mx9v", "pod-overlayimage", "ReplicaSet", "overlayimage-fdqsf-deployment-6cb4b6d5d8", "rs-overlayimage").
				labels("serving.knative.dev/service", "overlayimage").
				build(),
		),
		k8s.KindKnativeService:       k8s.NewSnapshot(ksvc),
		k8s.KindKnativeConfiguration: k8s.NewSnapshot(configuration),
		k8s.KindKnativeRevision:      k8s.NewSnapshot(revision),
		k8s.KindKnativeRoute:         k8s.NewSnapshot(ksroute),
		k8s.KindEventSourceCronJob:   k8s.NewSnapshot(cronSource),
	}
}

// Merge concatenates snapshots kind by kind. Load errors from either side win.
func Merge(sets ...k8s.Resources) k8s.Resources {
	out := make(k8s.Resources)
	for _, set := range sets {
		for kind, snap := range set {
			cur, ok := out[kind]
			if !ok {
				cur = k8s.NewSnapshot()
			}
			if snap.LoadError != "" {
				cur.LoadError = snap.LoadError
			}
			cur.Data = append(append([]*unstructured.Unstructured{}, cur.Data...), snap.Data...)
			out[kind] = cur
		}
	}
	return out
}

func deployment(name, uid string) *object {
	return newObject("apps/v1", "Deployment", name, uid).
		set(int64(1), "spec", "replicas").
		set(podTemplate(map[string]string{"app": name}), "spec", "template").
		set(int64(1), "status", "readyReplicas").
		set(int64(1), "status", "availableReplicas").
		annotations("deployment.kubernetes.io/revision", "1")
}

func replicaSet(name, uid, ownerName, ownerUID string) *unstructured.Unstructured {
	return newObject("apps/v1", "ReplicaSet", name, uid).
		annotations("deployment.kubernetes.io/revision", "1").
		owner("apps/v1", "Deployment", ownerName, ownerUID).
		set(int64(1), "spec", "replicas").
		set(int64(1), "status", "readyReplicas").
		build()
}

func replicationController(name, uid, ownerName, ownerUID string) *unstructured.Unstructured {
	return newObject("v1", "ReplicationController", name, uid).
		annotations("openshift.io/deployment-config.latest-version", "1").
		owner("apps.openshift.io/v1", "DeploymentConfig", ownerName, ownerUID).
		set(int64(1), "spec", "replicas").
		set(int64(1), "status", "readyReplicas").
		build()
}
