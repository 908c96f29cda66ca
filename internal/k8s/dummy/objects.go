package dummy

import (
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
)

// object is a small builder for fixture resources
type object struct {
	u *unstructured.Unstructured
}

func newObject(apiVersion, kind, name, uid string) *object {
	return &object{u: &unstructured.Unstructured{Object: map[string]interface{}{
		"apiVersion": apiVersion,
		"kind":       kind,
		"metadata": map[string]interface{}{
			"name":              name,
			"namespace":         Namespace,
			"uid":               uid,
			"creationTimestamp": "2019-04-22T11:58:33Z",
		},
	}}}
}

func (o *object) labels(kv ...string) *object {
	o.u.SetLabels(pairs(o.u.GetLabels(), kv))
	return o
}

func (o *object) annotations(kv ...string) *object {
	o.u.SetAnnotations(pairs(o.u.GetAnnotations(), kv))
	return o
}

func (o *object) owner(apiVersion, kind, name, uid string) *object {
	refs := o.u.Object["metadata"].(map[string]interface{})
	existing, _ := refs["ownerReferences"].([]interface{})
	refs["ownerReferences"] = append(existing, map[string]interface{}{
		"apiVersion": apiVersion,
		"kind":       kind,
		"name":       name,
		"uid":        uid,
		"controller": true,
	})
	return o
}

func (o *object) set(value interface{}, fields ...string) *object {
	if err := unstructured.SetNestedField(o.u.Object, value, fields...); err != nil {
		panic(err)
	}
	return o
}

func (o *object) build() *unstructured.Unstructured {
	return o.u
}

func pairs(m map[string]string, kv []string) map[string]string {
	if m == nil {
		m = make(map[string]string)
	}
	for i := 0; i+1 < len(kv); i += 2 {
		m[kv[i]] = kv[i+1]
	}
	return m
}

func runningPod(name, uid, ownerKind, ownerName, ownerUID string) *object {
	return newObject("v1", "Pod", name, uid).
		owner("v1", ownerKind, ownerName, ownerUID).
		set("Running", "status", "phase").
		set([]interface{}{
			map[string]interface{}{
				"name":         "container",
				"ready":        true,
				"restartCount": int64(0),
				"state": map[string]interface{}{
					"running": map[string]interface{}{"startedAt": "2019-04-22T11:58:40Z"},
				},
			},
		}, "status", "containerStatuses").
		set([]interface{}{
			map[string]interface{}{"type": "Ready", "status": "True"},
		}, "status", "conditions")
}

func podTemplate(labels map[string]string) map[string]interface{} {
	l := make(map[string]interface{}, len(labels))
	for k, v := range labels {
		l[k] = v
	}
	return map[string]interface{}{
		"metadata": map[string]interface{}{"labels": l},
		"spec": map[string]interface{}{
			"containers": []interface{}{
				map[string]interface{}{"name": "container", "image": "image:latest"},
			},
		},
	}
}
