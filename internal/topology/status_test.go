package topology

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
)

func podWith(phase string, ready bool, containerState map[string]interface{}) *unstructured.Unstructured {
	readyCondition := "False"
	if ready {
		readyCondition = "True"
	}
	status := map[string]interface{}{
		"conditions": []interface{}{
			map[string]interface{}{"type": "Ready", "status": readyCondition},
		},
	}
	if phase != "" {
		status["phase"] = phase
	}
	if containerState != nil {
		status["containerStatuses"] = []interface{}{
			map[string]interface{}{
				"name":  "app",
				"ready": ready,
				"state": containerState,
			},
		}
	}
	return &unstructured.Unstructured{Object: map[string]interface{}{
		"apiVersion": "v1",
		"kind":       "Pod",
		"metadata": map[string]interface{}{
			"name":      "pod",
			"namespace": "default",
		},
		"status": status,
	}}
}

func workload(replicas int64, labels map[string]string, annotations map[string]string) *unstructured.Unstructured {
	u := &unstructured.Unstructured{Object: map[string]interface{}{
		"apiVersion": "apps/v1",
		"kind":       "Deployment",
		"metadata": map[string]interface{}{
			"name":      "app",
			"namespace": "default",
			"uid":       "workload-uid",
		},
		"spec": map[string]interface{}{
			"replicas": replicas,
		},
	}}
	u.SetLabels(labels)
	u.SetAnnotations(annotations)
	return u
}

func TestPodStatus(t *testing.T) {
	running := map[string]interface{}{"running": map[string]interface{}{}}

	terminating := podWith("Running", true, running)
	terminating.Object["metadata"].(map[string]interface{})["deletionTimestamp"] = "2019-04-22T11:58:33Z"

	tests := []struct {
		name string
		pod  *unstructured.Unstructured
		want string
	}{
		{name: "running and ready", pod: podWith("Running", true, running), want: StatusRunning},
		{name: "running not ready", pod: podWith("Running", false, running), want: StatusNotReady},
		{name: "pending", pod: podWith("Pending", false, nil), want: StatusPending},
		{name: "succeeded", pod: podWith("Succeeded", false, nil), want: StatusSucceeded},
		{name: "failed", pod: podWith("Failed", false, nil), want: StatusFailed},
		{name: "no phase", pod: podWith("", false, nil), want: StatusUnknown},
		{name: "terminating", pod: terminating, want: StatusTerminating},
		{
			name: "crash loop",
			pod: podWith("Running", false, map[string]interface{}{
				"waiting": map[string]interface{}{"reason": "CrashLoopBackOff"},
			}),
			want: StatusCrashLoopBackOff,
		},
		{
			name: "image pull",
			pod: podWith("Pending", false, map[string]interface{}{
				"waiting": map[string]interface{}{"reason": "ImagePullBackOff"},
			}),
			want: StatusWarning,
		},
		{
			name: "terminated with error",
			pod: podWith("Running", false, map[string]interface{}{
				"terminated": map[string]interface{}{"exitCode": int64(1)},
			}),
			want: StatusWarning,
		},
		{
			name: "terminated cleanly",
			pod: podWith("Succeeded", false, map[string]interface{}{
				"terminated": map[string]interface{}{"exitCode": int64(0)},
			}),
			want: StatusSucceeded,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PodStatus(tt.pod)
			assert.Equal(t, tt.want, got)
			assert.True(t, IsKnownPodStatus(got))
		})
	}
}

func TestComputeStatus_Rollup(t *testing.T) {
	running := podWith("Running", true, map[string]interface{}{"running": map[string]interface{}{}})
	crash := podWith("Running", false, map[string]interface{}{
		"waiting": map[string]interface{}{"reason": "CrashLoopBackOff"},
	})

	tests := []struct {
		name string
		pods []*unstructured.Unstructured
		want string
	}{
		{name: "all running", pods: []*unstructured.Unstructured{running, running}, want: StatusRunning},
		{name: "failed wins", pods: []*unstructured.Unstructured{running, podWith("Failed", false, nil)}, want: StatusFailed},
		{name: "crash loop is a warning", pods: []*unstructured.Unstructured{running, crash}, want: StatusWarning},
		{name: "pending over succeeded", pods: []*unstructured.Unstructured{podWith("Succeeded", false, nil), podWith("Pending", false, nil)}, want: StatusPending},
		{name: "running over succeeded", pods: []*unstructured.Unstructured{running, podWith("Succeeded", false, nil)}, want: StatusRunning},
		{name: "succeeded only", pods: []*unstructured.Unstructured{podWith("Succeeded", false, nil)}, want: StatusSucceeded},
		{name: "unknown only", pods: []*unstructured.Unstructured{podWith("", false, nil)}, want: StatusUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status := ComputeStatus(tt.pods, workload(int64(len(tt.pods)), nil, nil))
			assert.Equal(t, tt.want, status.Status)
			assert.Len(t, status.Pods, len(tt.pods))

			total := 0
			for _, n := range status.Tally {
				total += n
			}
			assert.Equal(t, len(tt.pods), total)
		})
	}
}

func TestComputeStatus_NoPods(t *testing.T) {
	knative := map[string]string{LabelKnativeService: "svc"}
	idled := map[string]string{AnnotationIdledAt: "2019-04-22T11:58:33Z"}

	tests := []struct {
		name     string
		workload *unstructured.Unstructured
		want     string
		pods     int
	}{
		{name: "plain", workload: workload(1, nil, nil), want: StatusUnknown, pods: 0},
		{name: "idled", workload: workload(0, nil, idled), want: StatusIdle, pods: 1},
		{name: "idle wins over knative", workload: workload(0, knative, idled), want: StatusIdle, pods: 1},
		{name: "knative scaled to zero", workload: workload(0, knative, nil), want: StatusAutoscaledToZero, pods: 1},
		{name: "knative wanting replicas", workload: workload(1, knative, nil), want: StatusUnknown, pods: 0},
		{name: "plain scaled to zero", workload: workload(0, nil, nil), want: StatusUnknown, pods: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status := ComputeStatus(nil, tt.workload)
			assert.Equal(t, tt.want, status.Status)
			require.NotNil(t, status.Pods)
			require.Len(t, status.Pods, tt.pods)
			if tt.pods > 0 {
				assert.Equal(t, tt.want, PodStatus(status.Pods[0]))
				assert.Equal(t, 1, status.Tally[tt.want])
			} else {
				assert.Empty(t, status.Tally)
			}
		})
	}
}

func TestComputeStatus_IdleIgnoredWithPods(t *testing.T) {
	running := podWith("Running", true, map[string]interface{}{"running": map[string]interface{}{}})
	w := workload(1, nil, map[string]string{AnnotationIdledAt: "2019-04-22T11:58:33Z"})

	status := ComputeStatus([]*unstructured.Unstructured{running}, w)
	assert.Equal(t, StatusRunning, status.Status)
}

func TestComputeStatus_ReplicaCounts(t *testing.T) {
	w := workload(3, nil, nil)
	require.NoError(t, unstructured.SetNestedField(w.Object, int64(2), "status", "readyReplicas"))

	status := ComputeStatus(nil, w)
	assert.Equal(t, int64(3), status.Desired)
	assert.Equal(t, int64(2), status.Ready)
}
