package topology

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renato0307/ktopo/internal/k8s"
	"github.com/renato0307/ktopo/internal/k8s/dummy"
)

func transformMock(resources k8s.Resources, kinds []k8s.Kind, cheURL string, filters *Filters) *Data {
	return Transform(resources, kinds, Options{
		CheURL:         cheURL,
		ExtensionFuncs: KnativeExtensions,
		Filters:        filters,
	})
}

func TestTransform_OneEntryPerResource(t *testing.T) {
	resources := dummy.MockResources()

	for _, kind := range k8s.WorkloadKinds {
		t.Run(string(kind), func(t *testing.T) {
			data := transformMock(resources, []k8s.Kind{kind}, "", nil)

			want := len(resources.Items(kind))
			assert.Len(t, data.Graph.Nodes, want)
			assert.Len(t, data.Topology, want)
			for _, obj := range resources.Items(kind) {
				assert.Contains(t, data.Topology, string(obj.GetUID()))
			}
		})
	}
}

func TestTransform_Idempotent(t *testing.T) {
	resources := dummy.MockResources()
	kinds := []k8s.Kind{k8s.KindDeploymentConfig, k8s.KindDeployment}

	first := transformMock(resources, kinds, "", nil)
	second := transformMock(resources, kinds, "", nil)
	assert.Equal(t, first, second)
}

func TestTransform_DoesNotMutateInput(t *testing.T) {
	resources := dummy.MockResources()
	analytics := resources.Items(k8s.KindDeployment)[0]
	before := analytics.DeepCopy()

	transformMock(resources, []k8s.Kind{k8s.KindDeployment}, "https://che.example.com", nil)
	assert.Equal(t, before, analytics)
}

func TestTransform_DeploymentEdges(t *testing.T) {
	resources := dummy.MockResources()
	data := transformMock(resources, []k8s.Kind{k8s.KindDeployment}, "", nil)

	require.Len(t, data.Graph.Edges, 1)
	deployments := resources.Items(k8s.KindDeployment)
	assert.Equal(t, string(deployments[0].GetUID()), data.Graph.Edges[0].Source) // analytics
	assert.Equal(t, string(deployments[1].GetUID()), data.Graph.Edges[0].Target) // wit
	assert.Equal(t, EdgeConnectsTo, data.Graph.Edges[0].Type)
}

func TestTransform_EdgeTargetOutsideIncludedKinds(t *testing.T) {
	resources := dummy.MockResources()
	// wit is a deployment; only deploymentConfigs are rendered
	nodejs := resources.Items(k8s.KindDeploymentConfig)[0]
	nodejs.SetAnnotations(map[string]string{AnnotationConnectsTo: `["wit"]`})

	data := transformMock(resources, []k8s.Kind{k8s.KindDeploymentConfig}, "", nil)
	assert.Empty(t, data.Graph.Edges)
}

func TestTransform_MalformedConnectsTo(t *testing.T) {
	tests := []struct {
		name       string
		annotation string
		edges      int
	}{
		{name: "broken json", annotation: `["wit"`, edges: 0},
		{name: "unknown name", annotation: `["does-not-exist"]`, edges: 0},
		{name: "comma list", annotation: "wit, does-not-exist", edges: 1},
		{name: "object references", annotation: `[{"apiVersion":"apps/v1","kind":"Deployment","name":"wit"}]`, edges: 1},
		{name: "self reference", annotation: `["analytics"]`, edges: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resources := dummy.MockResources()
			analytics := resources.Items(k8s.KindDeployment)[0]
			analytics.SetAnnotations(map[string]string{AnnotationConnectsTo: tt.annotation})

			data := transformMock(resources, []k8s.Kind{k8s.KindDeployment}, "", nil)
			assert.Len(t, data.Graph.Edges, tt.edges)
			assert.Len(t, data.Topology, 3)
		})
	}
}

func TestTransform_Groups(t *testing.T) {
	resources := dummy.MockResources()

	t.Run("no part-of label", func(t *testing.T) {
		data := transformMock(resources, []k8s.Kind{k8s.KindDeploymentConfig}, "", nil)
		assert.Len(t, data.Graph.Groups, 0)
	})

	t.Run("shared part-of label", func(t *testing.T) {
		data := transformMock(resources, []k8s.Kind{k8s.KindDeployment}, "", nil)
		require.Len(t, data.Graph.Groups, 1)
		assert.Equal(t, "group:"+dummy.ApplicationOne, data.Graph.Groups[0].ID)
		assert.Equal(t, dummy.ApplicationOne, data.Graph.Groups[0].Name)
		assert.Equal(t, []string{dummy.AnalyticsUID, dummy.WitUID}, data.Graph.Groups[0].Nodes)
	})
}

func TestTransform_PodFolding(t *testing.T) {
	resources := dummy.MockResources()
	data := transformMock(resources, []k8s.Kind{k8s.KindDeploymentConfig, k8s.KindDeployment}, "", nil)

	for _, node := range data.Nodes() {
		assert.Len(t, node.Data.DonutStatus.Pods, 1, node.Name)
		assert.Equal(t, StatusRunning, node.Data.DonutStatus.Status, node.Name)
	}

	// pods never become nodes
	for _, pod := range resources.Items(k8s.KindPod) {
		assert.NotContains(t, data.Topology, string(pod.GetUID()))
	}
}

func TestTransform_ValidPodStatus(t *testing.T) {
	data := transformMock(dummy.MockResources(), []k8s.Kind{k8s.KindDeploymentConfig, k8s.KindDeployment}, "", nil)

	first := data.Topology[data.Graph.Nodes[0]]
	require.NotEmpty(t, first.Data.DonutStatus.Pods)
	assert.True(t, IsKnownPodStatus(PodStatus(first.Data.DonutStatus.Pods[0])))
}

func TestTransform_NoPods(t *testing.T) {
	resources := dummy.MockResources().WithSnapshot(k8s.KindPod, k8s.NewSnapshot())
	data := transformMock(resources, []k8s.Kind{k8s.KindDeploymentConfig, k8s.KindDeployment}, "", nil)

	first := data.Topology[data.Graph.Nodes[0]]
	assert.NotNil(t, first.Data.DonutStatus.Pods)
	assert.Len(t, first.Data.DonutStatus.Pods, 0)
	assert.Equal(t, StatusUnknown, first.Data.DonutStatus.Status)
	assert.False(t, first.Data.IsKnativeResource)
}

func TestTransform_PodLoadError(t *testing.T) {
	resources := dummy.MockResources().WithSnapshot(k8s.KindPod, k8s.ResourceSnapshot{
		Loaded:    true,
		LoadError: "pods is forbidden",
	})
	data := transformMock(resources, []k8s.Kind{k8s.KindDeployment}, "", nil)

	assert.Len(t, data.Topology, 3)
	for _, node := range data.Nodes() {
		assert.Empty(t, node.Data.DonutStatus.Pods)
	}
}

func TestTransform_IdleWorkload(t *testing.T) {
	resources := dummy.MockResources().WithSnapshot(k8s.KindPod, k8s.NewSnapshot())
	resources.Items(k8s.KindDeploymentConfig)[0].SetAnnotations(map[string]string{
		AnnotationIdledAt: "2019-04-22T11:58:33Z",
	})

	data := transformMock(resources, []k8s.Kind{k8s.KindDeploymentConfig}, "", nil)
	first := data.Topology[data.Graph.Nodes[0]]

	require.Len(t, first.Data.DonutStatus.Pods, 1)
	status := PodStatus(first.Data.DonutStatus.Pods[0])
	assert.True(t, IsKnownPodStatus(status))
	assert.Equal(t, StatusIdle, status)
	assert.Equal(t, StatusIdle, first.Data.DonutStatus.Status)
}

func TestTransform_Knative(t *testing.T) {
	resources := dummy.MockKnativeResources()
	data := transformMock(resources, []k8s.Kind{k8s.KindDeploymentConfig, k8s.KindDeployment}, "", nil)

	t.Run("knative resource flag", func(t *testing.T) {
		first := data.Topology[data.Graph.Nodes[0]]
		assert.True(t, first.Data.IsKnativeResource)
	})

	t.Run("scale to zero", func(t *testing.T) {
		node := data.Topology[dummy.ScaledToZeroUID]
		require.NotNil(t, node)
		require.Len(t, node.Data.DonutStatus.Pods, 1)
		status := PodStatus(node.Data.DonutStatus.Pods[0])
		assert.True(t, IsKnownPodStatus(status))
		assert.Equal(t, StatusAutoscaledToZero, status)
	})

	t.Run("route url", func(t *testing.T) {
		assert.Equal(t, dummy.KnativeURL, data.Topology[dummy.KnativeDeployUID].Data.URL)
	})

	t.Run("revisions and configurations", func(t *testing.T) {
		node := data.Topology[dummy.KnativeDeployUID]
		assert.Len(t, node.Resources.Revisions, 1)
		assert.Len(t, node.Resources.Configurations, 1)
		assert.Len(t, node.Resources.KnativeItem.Routes, 1)
	})

	t.Run("knative service node", func(t *testing.T) {
		node := data.Topology[dummy.KnativeServiceUID]
		require.NotNil(t, node)
		assert.Equal(t, TypeKnativeService, node.Type)
		assert.Equal(t, dummy.KnativeURL, node.Data.URL)
		assert.Len(t, node.Resources.Configurations, 1)
		assert.Len(t, node.Data.DonutStatus.Pods, 1)
	})
}

func TestTransform_NoExtensions(t *testing.T) {
	data := Transform(dummy.MockKnativeResources(), []k8s.Kind{k8s.KindDeployment}, Options{})

	node := data.Topology[dummy.KnativeDeployUID]
	require.NotNil(t, node)
	assert.NotNil(t, node.Resources.Revisions)
	assert.Empty(t, node.Resources.Revisions)
	assert.Empty(t, node.Resources.Configurations)
	assert.Empty(t, node.Data.URL)
}

func TestTransform_EventSourceFilter(t *testing.T) {
	resources := dummy.MockKnativeResources()

	t.Run("shown by default", func(t *testing.T) {
		filters := DefaultFilters()
		data := transformMock(resources, nil, "", &filters)

		node := data.Topology[dummy.CronJobSourceUID]
		require.NotNil(t, node)
		assert.Equal(t, TypeEventSource, node.Type)
		assert.Contains(t, data.Graph.Edges, Edge{
			ID:     dummy.CronJobSourceUID + "_" + dummy.KnativeServiceUID,
			Type:   EdgeEventSourceLink,
			Source: dummy.CronJobSourceUID,
			Target: dummy.KnativeServiceUID,
		})
	})

	t.Run("hidden", func(t *testing.T) {
		filters := DefaultFilters()
		filters.Display.EventSources = false
		data := transformMock(resources, nil, "", &filters)

		assert.NotContains(t, data.Topology, dummy.CronJobSourceUID)
		assert.NotContains(t, data.Graph.Nodes, dummy.CronJobSourceUID)
		for _, e := range data.Graph.Edges {
			assert.NotEqual(t, dummy.CronJobSourceUID, e.Source)
		}
		for _, node := range data.Topology {
			assert.NotEqual(t, TypeEventSource, node.Type)
		}
		assert.Contains(t, data.Topology, dummy.KnativeServiceUID)
	})

	t.Run("knative services hidden", func(t *testing.T) {
		filters := DefaultFilters()
		filters.Display.KnativeServices = false
		data := transformMock(resources, nil, "", &filters)

		assert.NotContains(t, data.Topology, dummy.KnativeServiceUID)
		assert.Contains(t, data.Topology, dummy.CronJobSourceUID)
		assert.Empty(t, data.Graph.Edges)
	})
}

func TestTransform_DaemonAndStatefulSets(t *testing.T) {
	tests := []struct {
		kind       k8s.Kind
		objectKind string
	}{
		{kind: k8s.KindDaemonSet, objectKind: "DaemonSet"},
		{kind: k8s.KindStatefulSet, objectKind: "StatefulSet"},
	}

	for _, tt := range tests {
		t.Run(tt.objectKind, func(t *testing.T) {
			data := transformMock(dummy.MockResources(), []k8s.Kind{tt.kind}, "", nil)
			require.Len(t, data.Graph.Nodes, 1)

			node := data.Topology[data.Graph.Nodes[0]]
			assert.Equal(t, tt.objectKind, node.Resources.Obj.GetKind())
			assert.Len(t, node.Data.DonutStatus.Pods, 1)
		})
	}
}

func TestTransform_EditURL(t *testing.T) {
	resources := dummy.MockResources()

	t.Run("che workspace factory", func(t *testing.T) {
		cheURL := "https://mock-che.test-cluster.com"
		data := transformMock(resources, []k8s.Kind{k8s.KindDeploymentConfig}, cheURL, nil)
		first := data.Topology[data.Graph.Nodes[0]]
		assert.Equal(t, GetEditURL(dummy.NodejsVCSURI, cheURL), first.Data.EditURL)
	})

	t.Run("git repository", func(t *testing.T) {
		data := transformMock(resources, []k8s.Kind{k8s.KindDeploymentConfig}, "", nil)
		first := data.Topology[data.Graph.Nodes[0]]
		assert.Equal(t, dummy.NodejsVCSURI, first.Data.EditURL)
	})

	t.Run("no repository", func(t *testing.T) {
		data := transformMock(resources, []k8s.Kind{k8s.KindDeploymentConfig}, "https://che", nil)
		jenkins := data.Topology[dummy.JenkinsDCUID]
		assert.Empty(t, jenkins.Data.EditURL)
	})
}

func TestTransform_BuilderImage(t *testing.T) {
	resources := dummy.MockResources()

	t.Run("runtime label", func(t *testing.T) {
		data := transformMock(resources, []k8s.Kind{k8s.KindDeploymentConfig}, "", nil)
		first := data.Topology[data.Graph.Nodes[0]]
		assert.Equal(t, ImageForIconClass("icon-nodejs"), first.Data.BuilderImage)
		assert.NotEmpty(t, first.Data.BuilderImage)
	})

	t.Run("operator backed", func(t *testing.T) {
		data := transformMock(resources, []k8s.Kind{k8s.KindDeployment}, "", nil)
		operator := data.Topology[data.Graph.Nodes[2]]
		assert.Equal(t, "data:"+dummy.CouchbaseMedia+";base64,"+dummy.CouchbaseIcon, operator.Data.BuilderImage)
	})
}

func TestTransform_RouteURL(t *testing.T) {
	data := transformMock(dummy.MockResources(), []k8s.Kind{k8s.KindDeploymentConfig}, "", nil)

	nodejs := data.Topology[dummy.NodejsDCUID]
	assert.Equal(t, "http://"+dummy.NodejsHost, nodejs.Data.URL)
	assert.Len(t, nodejs.Resources.Services, 1)
	assert.Empty(t, data.Topology[dummy.JenkinsDCUID].Data.URL)
}

func TestModelFromData(t *testing.T) {
	resources := dummy.MockResources()
	data := transformMock(resources, []k8s.Kind{k8s.KindDeployment}, "", nil)

	model := ModelFromData(data)
	require.Len(t, model.Nodes, 4)
	require.Len(t, model.Edges, 1)

	group := model.Nodes[3]
	assert.True(t, group.Group)
	assert.Equal(t, TypeGroup, group.Type)
	assert.Equal(t, []string{dummy.AnalyticsUID, dummy.WitUID}, group.Children)

	assert.Equal(t, "analytics-deployment", model.Nodes[0].Label)
	assert.Same(t, data.Topology[dummy.AnalyticsUID], model.Nodes[0].Data)

	assert.Empty(t, ModelFromData(nil).Nodes)
}

func TestResourceObject(t *testing.T) {
	resources := dummy.MockResources()
	data := transformMock(resources, []k8s.Kind{k8s.KindDeployment}, "", nil)

	assert.Same(t, resources.Items(k8s.KindDeployment)[0], ResourceObject(data.Topology[dummy.AnalyticsUID]))
	assert.Nil(t, ResourceObject(nil))
}

func TestGetEditURL(t *testing.T) {
	tests := []struct {
		name   string
		gitURL string
		cheURL string
		want   string
	}{
		{name: "both", gitURL: "https://github.com/a/b", cheURL: "https://che", want: "https://che/f?url=https://github.com/a/b&policies.create=peruser"},
		{name: "trailing slash", gitURL: "https://github.com/a/b", cheURL: "https://che/", want: "https://che/f?url=https://github.com/a/b&policies.create=peruser"},
		{name: "git only", gitURL: "https://github.com/a/b", want: "https://github.com/a/b"},
		{name: "che only", cheURL: "https://che", want: ""},
		{name: "none", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetEditURL(tt.gitURL, tt.cheURL))
		})
	}
}
