package topology

import (
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/kubectl/pkg/util/podutils"

	"github.com/renato0307/ktopo/internal/k8s"
)

// Pod statuses
const (
	StatusRunning          = "Running"
	StatusNotReady         = "Not Ready"
	StatusWarning          = "Warning"
	StatusFailed           = "Failed"
	StatusPending          = "Pending"
	StatusSucceeded        = "Succeeded"
	StatusTerminating      = "Terminating"
	StatusUnknown          = "Unknown"
	StatusCrashLoopBackOff = "CrashLoopBackOff"
	StatusIdle             = "Idle"
	StatusAutoscaledToZero = "Autoscaled to 0"
)

// AllPodStatuses lists every value PodStatus can return
var AllPodStatuses = []string{
	StatusRunning,
	StatusNotReady,
	StatusWarning,
	StatusFailed,
	StatusPending,
	StatusSucceeded,
	StatusTerminating,
	StatusUnknown,
	StatusCrashLoopBackOff,
	StatusIdle,
	StatusAutoscaledToZero,
}

// warningReasons are container waiting reasons that mean the pod needs attention
var warningReasons = map[string]bool{
	"ErrImagePull":               true,
	"ImagePullBackOff":           true,
	"InvalidImageName":           true,
	"CreateContainerConfigError": true,
	"CreateContainerError":       true,
	"RunContainerError":          true,
}

// severity orders statuses for the rollup; higher is worse
var severity = map[string]int{
	StatusFailed:           5,
	StatusWarning:          4,
	StatusCrashLoopBackOff: 4,
	StatusPending:          3,
	StatusNotReady:         3,
	StatusRunning:          2,
	StatusTerminating:      2,
	StatusSucceeded:        1,
}

// rollupLabel maps a severity back to the status shown for the workload
var rollupLabel = map[int]string{
	5: StatusFailed,
	4: StatusWarning,
	3: StatusPending,
	2: StatusRunning,
	1: StatusSucceeded,
}

// DonutStatus is the aggregate pod status of a workload
type DonutStatus struct {
	Status       string                       `json:"status"`
	Tally        map[string]int               `json:"tally"`
	Pods         []*unstructured.Unstructured `json:"pods"`
	Desired      int64                        `json:"desired"`
	Ready        int64                        `json:"ready"`
	Current      string                       `json:"current,omitempty"`
	Previous     string                       `json:"previous,omitempty"`
	IsRollingOut bool                         `json:"isRollingOut"`
}

// ComputeStatus derives the aggregate status of a workload from its pods.
// Idled workloads and Knative workloads scaled to zero get a single
// placeholder pod carrying that phase.
func ComputeStatus(pods []*unstructured.Unstructured, workload *unstructured.Unstructured) DonutStatus {
	desired, ready := k8s.ReplicaCounts(workload)
	status := DonutStatus{
		Tally:   map[string]int{},
		Pods:    []*unstructured.Unstructured{},
		Desired: desired,
		Ready:   ready,
	}

	if len(pods) == 0 {
		if _, idled := k8s.Annotation(workload, AnnotationIdledAt); idled {
			return placeholderStatus(status, workload, StatusIdle)
		}
		if IsKnativeResource(workload) && desired == 0 && ready == 0 {
			return placeholderStatus(status, workload, StatusAutoscaledToZero)
		}
		status.Status = StatusUnknown
		return status
	}

	worst := 0
	for _, pod := range pods {
		s := PodStatus(pod)
		status.Tally[s]++
		status.Pods = append(status.Pods, pod)
		if severity[s] > worst {
			worst = severity[s]
		}
	}

	status.Status = StatusUnknown
	if label, ok := rollupLabel[worst]; ok {
		status.Status = label
	}
	return status
}

func placeholderStatus(status DonutStatus, workload *unstructured.Unstructured, phase string) DonutStatus {
	pod := &unstructured.Unstructured{Object: map[string]interface{}{
		"apiVersion": "v1",
		"kind":       "Pod",
		"metadata": map[string]interface{}{
			"name":      workload.GetName(),
			"namespace": workload.GetNamespace(),
		},
		"status": map[string]interface{}{
			"phase": phase,
		},
	}}
	status.Pods = append(status.Pods, pod)
	status.Tally[phase] = 1
	status.Status = phase
	return status
}

// PodStatus classifies a single pod
func PodStatus(pod *unstructured.Unstructured) string {
	if pod.GetDeletionTimestamp() != nil {
		return StatusTerminating
	}

	phase, _, _ := unstructured.NestedString(pod.Object, "status", "phase")
	if phase == StatusFailed {
		return StatusFailed
	}

	crashLooping, warning := false, false
	for _, field := range []string{"initContainerStatuses", "containerStatuses"} {
		statuses, _, _ := unstructured.NestedSlice(pod.Object, "status", field)
		for _, cs := range statuses {
			csMap, ok := cs.(map[string]interface{})
			if !ok {
				continue
			}
			reason, _, _ := unstructured.NestedString(csMap, "state", "waiting", "reason")
			if reason == StatusCrashLoopBackOff {
				crashLooping = true
			} else if warningReasons[reason] {
				warning = true
			}
			if exitCode, found, _ := unstructured.NestedInt64(csMap, "state", "terminated", "exitCode"); found && exitCode != 0 {
				warning = true
			}
		}
	}

	switch {
	case crashLooping:
		return StatusCrashLoopBackOff
	case warning:
		return StatusWarning
	case phase == StatusRunning:
		typed, err := k8s.ToPod(pod)
		if err == nil && !podutils.IsPodReady(typed) {
			return StatusNotReady
		}
		return StatusRunning
	case phase == "":
		return StatusUnknown
	}
	return phase
}

// IsKnownPodStatus reports whether s is one of AllPodStatuses
func IsKnownPodStatus(s string) bool {
	for _, known := range AllPodStatuses {
		if known == s {
			return true
		}
	}
	return false
}
