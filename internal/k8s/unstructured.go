package k8s

import (
	"fmt"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
)

// ReplicaCounts extracts desired and ready replicas for any workload kind
func ReplicaCounts(u *unstructured.Unstructured) (desired, ready int64) {
	if u.GetKind() == "DaemonSet" {
		desired, _, _ = unstructured.NestedInt64(u.Object, "status", "desiredNumberScheduled")
		ready, _, _ = unstructured.NestedInt64(u.Object, "status", "numberReady")
		return desired, ready
	}

	desired, found, _ := unstructured.NestedInt64(u.Object, "spec", "replicas")
	if !found {
		// Kubernetes defaults spec.replicas to 1 when omitted
		desired = 1
	}
	ready, _, _ = unstructured.NestedInt64(u.Object, "status", "readyReplicas")
	return desired, ready
}

// IsOwnedBy reports whether u has an owner reference with the given UID
func IsOwnedBy(u *unstructured.Unstructured, ownerUID string) bool {
	if ownerUID == "" {
		return false
	}
	for _, ref := range u.GetOwnerReferences() {
		if string(ref.UID) == ownerUID {
			return true
		}
	}
	return false
}

// OwnerUIDs returns the UIDs of all owner references, optionally filtered by kind
func OwnerUIDs(u *unstructured.Unstructured, kinds ...string) []string {
	var uids []string
	for _, ref := range u.GetOwnerReferences() {
		if len(kinds) > 0 && !containsString(kinds, ref.Kind) {
			continue
		}
		uids = append(uids, string(ref.UID))
	}
	return uids
}

// Annotation returns a single annotation value
func Annotation(u *unstructured.Unstructured, key string) (string, bool) {
	v, ok := u.GetAnnotations()[key]
	return v, ok
}

// Label returns a single label value
func Label(u *unstructured.Unstructured, key string) (string, bool) {
	v, ok := u.GetLabels()[key]
	return v, ok
}

// TemplateLabels returns spec.template.metadata.labels (the pod labels of a workload)
func TemplateLabels(u *unstructured.Unstructured) map[string]string {
	labels, _, _ := unstructured.NestedStringMap(u.Object, "spec", "template", "metadata", "labels")
	return labels
}

// ToPod converts an unstructured pod into the typed API struct
func ToPod(u *unstructured.Unstructured) (*corev1.Pod, error) {
	pod := &corev1.Pod{}
	if err := runtime.DefaultUnstructuredConverter.FromUnstructured(u.Object, pod); err != nil {
		return nil, fmt.Errorf("failed to convert %s/%s to pod: %w", u.GetNamespace(), u.GetName(), err)
	}
	return pod, nil
}

func containsString(items []string, s string) bool {
	for _, item := range items {
		if item == s {
			return true
		}
	}
	return false
}
