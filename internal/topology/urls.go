package topology

import (
	"fmt"
	"strings"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"github.com/renato0307/ktopo/internal/k8s"
)

// GetEditURL returns a Che workspace factory URL for the repository when a
// Che URL is known, otherwise the repository URL itself
func GetEditURL(gitURL, cheURL string) string {
	if gitURL == "" {
		return ""
	}
	if cheURL == "" {
		return gitURL
	}
	return fmt.Sprintf("%s/f?url=%s&policies.create=peruser", strings.TrimSuffix(cheURL, "/"), gitURL)
}

// editURL prefers an explicit edit-url annotation over the VCS URI
func editURL(obj *unstructured.Unstructured, cheURL string) string {
	if v, ok := k8s.Annotation(obj, AnnotationEditURL); ok && v != "" {
		return v
	}
	vcs, _ := k8s.Annotation(obj, AnnotationVCSURI)
	return GetEditURL(vcs, cheURL)
}

// RouteURL returns the public URL of a workload: the first Knative route
// status.url, else the host of the first OpenShift route
func RouteURL(item *OverviewItem) string {
	for _, route := range item.KnativeItem.Routes {
		if url, _, _ := unstructured.NestedString(route.Object, "status", "url"); url != "" {
			return url
		}
	}
	for _, route := range item.Routes {
		host, _, _ := unstructured.NestedString(route.Object, "spec", "host")
		if host == "" {
			continue
		}
		if _, tls, _ := unstructured.NestedMap(route.Object, "spec", "tls"); tls {
			return "https://" + host
		}
		return "http://" + host
	}
	return ""
}
