package topology

import (
	"fmt"
	"strings"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"github.com/renato0307/ktopo/internal/k8s"
)

const iconBase = "/static/assets/"

// builderIcons maps an icon class to its image
var builderIcons = map[string]string{
	"icon-dotnet":     "dotnet.svg",
	"icon-django":     "django.svg",
	"icon-golang":     "golang.svg",
	"icon-httpd":      "apache.svg",
	"icon-java":       "java.svg",
	"icon-jenkins":    "jenkins.svg",
	"icon-mariadb":    "mariadb.svg",
	"icon-mongodb":    "mongodb.svg",
	"icon-mysql":      "mysql-database.svg",
	"icon-nginx":      "nginx.svg",
	"icon-nodejs":     "nodejs.svg",
	"icon-openjdk":    "openjdk.svg",
	"icon-openshift":  "openshift.svg",
	"icon-perl":       "perl.svg",
	"icon-php":        "php.svg",
	"icon-postgresql": "postgresql.svg",
	"icon-python":     "python.svg",
	"icon-rails":      "rails.svg",
	"icon-redis":      "redis.svg",
	"icon-ruby":       "ruby.svg",
}

// ImageForIconClass returns the image of an icon class such as "icon-nodejs",
// or "" when the class is unknown
func ImageForIconClass(iconClass string) string {
	if img, ok := builderIcons[iconClass]; ok {
		return iconBase + img
	}
	return ""
}

// ImageForCSVIcon renders a ClusterServiceVersion icon entry as a data URI
func ImageForCSVIcon(icon map[string]interface{}) string {
	data, _ := icon["base64data"].(string)
	mediaType, _ := icon["mediatype"].(string)
	if data == "" {
		return ImageForIconClass("icon-openshift")
	}
	return fmt.Sprintf("data:%s;base64,%s", mediaType, data)
}

// BuilderImage resolves the icon of a workload. Operator managed workloads use
// the icon of their ClusterServiceVersion; others use the runtime label, then
// the app.kubernetes.io/name label.
func BuilderImage(obj *unstructured.Unstructured, resources k8s.Resources) string {
	for _, uid := range k8s.OwnerUIDs(obj, "ClusterServiceVersion") {
		csv := resources.FindByUID(k8s.KindClusterServiceVersion, uid)
		if csv == nil {
			continue
		}
		icons, _, _ := unstructured.NestedSlice(csv.Object, "spec", "icon")
		if len(icons) == 0 {
			continue
		}
		if icon, ok := icons[0].(map[string]interface{}); ok {
			return ImageForCSVIcon(icon)
		}
	}

	for _, key := range []string{LabelRuntime, LabelName} {
		if v, ok := k8s.Label(obj, key); ok && v != "" {
			if img := ImageForIconClass("icon-" + strings.ToLower(v)); img != "" {
				return img
			}
		}
	}
	return ""
}
