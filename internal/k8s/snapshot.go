package k8s

import (
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
)

// ResourceSnapshot is one watched collection at a point in time
type ResourceSnapshot struct {
	Loaded    bool                         `json:"loaded"`
	LoadError string                       `json:"loadError,omitempty"`
	Data      []*unstructured.Unstructured `json:"data"`
}

// Resources holds every snapshot keyed by kind. Treated as read-only once built.
type Resources map[Kind]ResourceSnapshot

// Items returns the usable objects for a kind.
// Kinds that are missing, not loaded yet, or failed to load yield nil.
func (r Resources) Items(kind Kind) []*unstructured.Unstructured {
	snap, ok := r[kind]
	if !ok || snap.LoadError != "" {
		return nil
	}
	return snap.Data
}

// Has reports whether the kind is present with at least one usable object
func (r Resources) Has(kind Kind) bool {
	return len(r.Items(kind)) > 0
}

// FindByUID looks an object up by UID within a kind
func (r Resources) FindByUID(kind Kind, uid string) *unstructured.Unstructured {
	for _, obj := range r.Items(kind) {
		if string(obj.GetUID()) == uid {
			return obj
		}
	}
	return nil
}

// WithSnapshot returns a shallow copy of r with kind replaced
func (r Resources) WithSnapshot(kind Kind, snap ResourceSnapshot) Resources {
	out := make(Resources, len(r)+1)
	for k, v := range r {
		out[k] = v
	}
	out[kind] = snap
	return out
}

// LoadErrors returns the kinds that failed to load with their message
func (r Resources) LoadErrors() map[Kind]string {
	errs := make(map[Kind]string)
	for k, snap := range r {
		if snap.LoadError != "" {
			errs[k] = snap.LoadError
		}
	}
	return errs
}

// NewSnapshot wraps objects as a loaded snapshot
func NewSnapshot(objs ...*unstructured.Unstructured) ResourceSnapshot {
	if objs == nil {
		objs = []*unstructured.Unstructured{}
	}
	return ResourceSnapshot{Loaded: true, Data: objs}
}
