package topology

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"github.com/renato0307/ktopo/internal/k8s"
	"github.com/renato0307/ktopo/internal/k8s/dummy"
)

func TestParseConnectsTo(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  []string
	}{
		{name: "json names", value: `["wit","analytics"]`, want: []string{"wit", "analytics"}},
		{name: "json references", value: `[{"apiVersion":"apps/v1","kind":"Deployment","name":"wit"}]`, want: []string{"wit"}},
		{name: "mixed", value: `["wit",{"name":"db"},{"kind":"Deployment"},42]`, want: []string{"wit", "db"}},
		{name: "comma list", value: "wit, analytics ,", want: []string{"wit", "analytics"}},
		{name: "single name", value: "wit", want: []string{"wit"}},
		{name: "broken json", value: `["wit"`, want: nil},
		{name: "json object", value: `{"name":"wit"}`, want: nil},
		{name: "empty", value: "  ", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseConnectsTo(tt.value))
		})
	}
}

func TestResolveName(t *testing.T) {
	resources := dummy.MockResources()

	uid, ok := ResolveName("wit", resources)
	require.True(t, ok)
	assert.Equal(t, dummy.WitUID, uid)

	// falls back to metadata.name
	uid, ok = ResolveName("nodejs", resources)
	require.True(t, ok)
	assert.Equal(t, dummy.NodejsDCUID, uid)

	_, ok = ResolveName("missing", resources)
	assert.False(t, ok)
}

func TestResolveName_InstanceLabelWins(t *testing.T) {
	resources := dummy.MockResources()
	// jenkins takes the name "wit" while the wit deployment keeps its instance label
	resources.Items(k8s.KindDeploymentConfig)[1].SetName("wit")

	uid, ok := ResolveName("wit", resources)
	require.True(t, ok)
	assert.Equal(t, dummy.WitUID, uid)
}

func TestConnectionName(t *testing.T) {
	resources := dummy.MockResources()

	assert.Equal(t, "analytics", ConnectionName(resources.Items(k8s.KindDeployment)[0]))
	assert.Equal(t, "nodejs", ConnectionName(resources.Items(k8s.KindDeploymentConfig)[0]))
}

func TestCorrelate_PodsThroughControllers(t *testing.T) {
	resources := dummy.MockResources()
	nodejs := resources.Items(k8s.KindDeploymentConfig)[0]

	item := Correlate(nodejs, resources, nil)
	require.Len(t, item.Pods, 1)
	assert.Equal(t, "nodejs-1-2cpzq", item.Pods[0].GetName())
	require.NotNil(t, item.Current)
	assert.Equal(t, "nodejs-1", item.Current.GetName())
	assert.Nil(t, item.Previous)
	assert.Same(t, nodejs, item.Obj)
}

func TestCorrelate_CurrentAndPrevious(t *testing.T) {
	resources := dummy.MockResources()
	analytics := resources.Items(k8s.KindDeployment)[0]

	newer := resources.Items(k8s.KindReplicaSet)[0].DeepCopy()
	newer.SetName("analytics-deployment-7f9b8c6d5")
	newer.SetUID("rs-analytics-2")
	newer.SetAnnotations(map[string]string{"deployment.kubernetes.io/revision": "2"})

	pod := resources.Items(k8s.KindPod)[2].DeepCopy()
	pod.SetName("analytics-deployment-7f9b8c6d5-x2x2x")
	pod.SetUID("pod-analytics-2")
	refs := pod.GetOwnerReferences()
	refs[0].UID = "rs-analytics-2"
	pod.SetOwnerReferences(refs)

	resources = resources.
		WithSnapshot(k8s.KindReplicaSet, k8s.NewSnapshot(append(resources.Items(k8s.KindReplicaSet), newer)...)).
		WithSnapshot(k8s.KindPod, k8s.NewSnapshot(append(resources.Items(k8s.KindPod), pod)...))

	item := Correlate(analytics, resources, nil)
	assert.Len(t, item.Pods, 2)
	require.NotNil(t, item.Current)
	require.NotNil(t, item.Previous)
	assert.Equal(t, "analytics-deployment-7f9b8c6d5", item.Current.GetName())
	assert.Equal(t, "analytics-deployment-59dd7c47d4", item.Previous.GetName())
}

func TestCorrelate_UnrelatedPodsIgnored(t *testing.T) {
	resources := dummy.MockResources()
	stray := &unstructured.Unstructured{Object: map[string]interface{}{
		"apiVersion": "v1",
		"kind":       "Pod",
		"metadata": map[string]interface{}{
			"name": "stray",
			"uid":  "stray",
		},
	}}
	resources = resources.WithSnapshot(k8s.KindPod, k8s.NewSnapshot(stray))

	for _, kind := range k8s.WorkloadKinds {
		for _, obj := range resources.Items(kind) {
			assert.Empty(t, Correlate(obj, resources, nil).Pods)
		}
	}
}

func TestCorrelate_Extensions(t *testing.T) {
	resources := dummy.MockKnativeResources()
	obj := resources.FindByUID(k8s.KindDeployment, dummy.KnativeDeployUID)
	require.NotNil(t, obj)

	calls := 0
	counting := func(o *unstructured.Unstructured, r k8s.Resources) KnativeItem {
		calls++
		return KnativeRevisions(o, r)
	}

	item := Correlate(obj, resources, []ExtensionFunc{counting, KnativeRevisions, nil, KnativeRoutes})
	assert.Equal(t, 1, calls)
	// duplicates from several functions are merged
	assert.Len(t, item.Revisions, 1)
	assert.Len(t, item.KnativeItem.Routes, 1)
	assert.Empty(t, item.Configurations)
}
