package topology

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/apimachinery/pkg/util/json"
	"sigs.k8s.io/controller-runtime/pkg/client"

	"github.com/renato0307/ktopo/internal/k8s"
	"github.com/renato0307/ktopo/internal/logging"
)

// ServiceBindingRequestGVK is the kind created for service binding connections
var ServiceBindingRequestGVK = schema.GroupVersionKind{
	Group:   "apps.openshift.io",
	Version: "v1alpha1",
	Kind:    "ServiceBindingRequest",
}

// ErrInvalidConnection is returned when the endpoints cannot be connected at all
var ErrInvalidConnection = errors.New("invalid connection")

// CreateConnection links source to target. With serviceBinding it creates a
// ServiceBindingRequest binding the source application to the target backing
// service; otherwise it adds target to the connects-to annotation of the source,
// dropping replaceTarget when given. The created or patched object is returned.
// The topology is not updated; run Transform again to see the new edge.
func CreateConnection(ctx context.Context, c client.Client, source, target, replaceTarget *Node, serviceBinding bool) (*unstructured.Unstructured, error) {
	src := ResourceObject(source)
	dst := ResourceObject(target)
	if src == nil || dst == nil {
		return nil, fmt.Errorf("%w: source and target are required", ErrInvalidConnection)
	}
	if src.GetUID() == dst.GetUID() {
		return nil, fmt.Errorf("%w: cannot connect %s to itself", ErrInvalidConnection, src.GetName())
	}

	if serviceBinding {
		return createServiceBinding(ctx, c, src, dst)
	}
	return patchConnectsTo(ctx, c, src, dst, ResourceObject(replaceTarget))
}

// ServiceBindingRequest builds the binding between a source application and a
// target backing service
func ServiceBindingRequest(src, dst *unstructured.Unstructured) (*unstructured.Unstructured, error) {
	_, srcCfg, ok := k8s.ConfigForObject(src.GetAPIVersion(), src.GetKind())
	if !ok {
		return nil, fmt.Errorf("%w: unsupported source kind %s", ErrInvalidConnection, src.GetKind())
	}
	dstGV, err := schema.ParseGroupVersion(dst.GetAPIVersion())
	if err != nil {
		return nil, fmt.Errorf("%w: invalid target apiVersion %q: %v", ErrInvalidConnection, dst.GetAPIVersion(), err)
	}

	name := fmt.Sprintf("%s-%s-%s-%s",
		src.GetName(), strings.ToLower(src.GetKind()),
		dst.GetName(), strings.ToLower(dst.GetKind()))

	sbr := &unstructured.Unstructured{}
	sbr.SetGroupVersionKind(ServiceBindingRequestGVK)
	sbr.SetName(name)
	sbr.SetNamespace(src.GetNamespace())
	sbr.Object["spec"] = map[string]interface{}{
		"applicationSelector": map[string]interface{}{
			"resourceRef": src.GetName(),
			"group":       srcCfg.GVR.Group,
			"version":     srcCfg.GVR.Version,
			"resource":    srcCfg.GVR.Resource,
		},
		"backingServiceSelector": map[string]interface{}{
			"group":       dstGV.Group,
			"version":     dstGV.Version,
			"kind":        dst.GetKind(),
			"resourceRef": dst.GetName(),
		},
		"detectBindingResources": true,
	}
	return sbr, nil
}

func createServiceBinding(ctx context.Context, c client.Client, src, dst *unstructured.Unstructured) (*unstructured.Unstructured, error) {
	sbr, err := ServiceBindingRequest(src, dst)
	if err != nil {
		return nil, err
	}
	if err := c.Create(ctx, sbr); err != nil {
		return nil, fmt.Errorf("failed to create service binding %s: %w", sbr.GetName(), err)
	}
	logging.Info("service binding created", "name", sbr.GetName(), "namespace", sbr.GetNamespace())
	return sbr, nil
}

func patchConnectsTo(ctx context.Context, c client.Client, src, dst, replace *unstructured.Unstructured) (*unstructured.Unstructured, error) {
	names := ConnectsTo(src)

	if replace != nil {
		drop := ConnectionName(replace)
		kept := names[:0:0]
		for _, n := range names {
			if n != drop {
				kept = append(kept, n)
			}
		}
		names = kept
	}

	add := ConnectionName(dst)
	found := false
	for _, n := range names {
		if n == add {
			found = true
			break
		}
	}
	if !found {
		names = append(names, add)
	}

	value, err := json.Marshal(names)
	if err != nil {
		return nil, fmt.Errorf("failed to encode connects-to: %w", err)
	}

	patched := src.DeepCopy()
	annotations := patched.GetAnnotations()
	if annotations == nil {
		annotations = make(map[string]string)
	}
	annotations[AnnotationConnectsTo] = string(value)
	patched.SetAnnotations(annotations)

	if err := c.Patch(ctx, patched, client.MergeFrom(src)); err != nil {
		return nil, fmt.Errorf("failed to patch %s %s: %w", src.GetKind(), src.GetName(), err)
	}
	logging.Info("connection added", "source", src.GetName(), "target", add)
	return patched, nil
}
