package k8s

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/client-go/tools/cache"
	"k8s.io/utils/ptr"
)

var (
	podGR    = schema.GroupResource{Resource: "pods"}
	deployGR = schema.GroupResource{Group: "apps", Resource: "deployments"}
)

func TestNewInformerManager_WithInvalidConfig(t *testing.T) {
	_, err := NewInformerManager("/nonexistent/kubeconfig", "", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error building kubeconfig")
}

func TestSortObjects(t *testing.T) {
	older := metav1.NewTime(time.Date(2019, 4, 22, 11, 0, 0, 0, time.UTC))
	newer := metav1.NewTime(time.Date(2019, 4, 22, 12, 0, 0, 0, time.UTC))

	mk := func(name string, ts metav1.Time) *unstructured.Unstructured {
		u := &unstructured.Unstructured{}
		u.SetName(name)
		u.SetCreationTimestamp(ts)
		return u
	}

	objs := []*unstructured.Unstructured{mk("c", newer), mk("b", older), mk("a", newer)}
	sortObjects(objs)

	assert.Equal(t, "b", objs[0].GetName())
	assert.Equal(t, "a", objs[1].GetName())
	assert.Equal(t, "c", objs[2].GetName())
}

func TestWaitForSync_StopsKindsThatNeverSync(t *testing.T) {
	m := &InformerManager{
		listers: map[Kind]cache.GenericLister{
			KindPod:        cache.NewGenericLister(cache.NewIndexer(cache.MetaNamespaceKeyFunc, nil), podGR),
			KindDeployment: cache.NewGenericLister(cache.NewIndexer(cache.MetaNamespaceKeyFunc, nil), deployGR),
		},
		loadErrors: map[Kind]string{},
	}

	stopped := map[Kind]bool{}
	informers := map[Kind]kindInformer{
		KindPod: {
			hasSynced: func() bool { return true },
			stop:      func() { stopped[KindPod] = true },
		},
		KindDeployment: {
			hasSynced: func() bool { return false },
			stop:      func() { stopped[KindDeployment] = true },
		},
	}

	m.waitForSync(context.Background(), informers, 50*time.Millisecond)

	assert.True(t, stopped[KindDeployment])
	assert.False(t, stopped[KindPod])

	_, ok := m.GetLister(KindDeployment)
	assert.False(t, ok)
	_, ok = m.GetLister(KindPod)
	assert.True(t, ok)
	assert.Equal(t, map[Kind]string{KindDeployment: "informer failed to sync (check RBAC permissions)"}, m.loadErrors)
}

func TestInformerManager_Snapshot(t *testing.T) {
	requireEnvtest(t)

	ns := createTestNamespace(t)
	ctx := context.Background()
	labels := map[string]string{"app": "analytics"}

	deploy := &appsv1.Deployment{
		ObjectMeta: metav1.ObjectMeta{
			Name:   "analytics",
			Labels: map[string]string{"app.kubernetes.io/part-of": "application-1"},
		},
		Spec: appsv1.DeploymentSpec{
			Replicas: ptr.To[int32](1),
			Selector: &metav1.LabelSelector{MatchLabels: labels},
			Template: corev1.PodTemplateSpec{
				ObjectMeta: metav1.ObjectMeta{Labels: labels},
				Spec: corev1.PodSpec{
					Containers: []corev1.Container{{Name: "analytics", Image: "nginx"}},
				},
			},
		},
	}
	_, err := testClient.AppsV1().Deployments(ns).Create(ctx, deploy, metav1.CreateOptions{})
	require.NoError(t, err)

	pod := &corev1.Pod{
		ObjectMeta: metav1.ObjectMeta{Name: "analytics-1", Labels: labels},
		Spec: corev1.PodSpec{
			Containers: []corev1.Container{{Name: "analytics", Image: "nginx"}},
		},
	}
	_, err = testClient.CoreV1().Pods(ns).Create(ctx, pod, metav1.CreateOptions{})
	require.NoError(t, err)

	m, err := NewInformerManagerForConfig(testCfg, ns)
	require.NoError(t, err)
	defer m.Close()

	assert.Equal(t, ns, m.Namespace())
	assert.NotNil(t, m.GetRuntimeClient())
	assert.NotNil(t, m.GetDynamicClient())

	snap := m.Snapshot()

	deployments := snap.Items(KindDeployment)
	require.Len(t, deployments, 1)
	assert.Equal(t, "analytics", deployments[0].GetName())
	require.Len(t, snap.Items(KindPod), 1)

	// envtest serves no OpenShift or Knative APIs
	errs := snap.LoadErrors()
	assert.Contains(t, errs, KindRoute)
	assert.Contains(t, errs, KindKnativeService)
	assert.NotContains(t, errs, KindDeployment)

	// snapshots are copies of the cache
	deployments[0].SetName("mutated")
	assert.Equal(t, "analytics", m.Snapshot().Items(KindDeployment)[0].GetName())

	_, ok := m.GetLister(KindPod)
	assert.True(t, ok)
	_, ok = m.GetLister(KindRoute)
	assert.False(t, ok)
}
