package k8s

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/cli-runtime/pkg/printers"
	"k8s.io/client-go/kubernetes/scheme"
	"sigs.k8s.io/yaml"
)

// FormatYAML renders an object the way `kubectl get -o yaml` does
func FormatYAML(obj *unstructured.Unstructured) (string, error) {
	if obj == nil {
		return "", fmt.Errorf("no object to format")
	}

	printer := printers.NewTypeSetter(scheme.Scheme).ToPrinter(&printers.YAMLPrinter{})

	var buf bytes.Buffer
	if err := printer.PrintObj(obj.DeepCopy(), &buf); err != nil {
		return "", fmt.Errorf("failed to print YAML: %w", err)
	}

	return buf.String(), nil
}

// Describe returns a short human readable summary of an object
func Describe(obj *unstructured.Unstructured) string {
	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("Name:         %s\n", obj.GetName()))
	if ns := obj.GetNamespace(); ns != "" {
		buf.WriteString(fmt.Sprintf("Namespace:    %s\n", ns))
	}
	buf.WriteString(fmt.Sprintf("Kind:         %s\n", obj.GetKind()))
	buf.WriteString(fmt.Sprintf("API Version:  %s\n", obj.GetAPIVersion()))
	buf.WriteString(fmt.Sprintf("UID:          %s\n", obj.GetUID()))

	writeMap(&buf, "Labels:", obj.GetLabels())
	writeMap(&buf, "Annotations:", obj.GetAnnotations())

	status, found, err := unstructured.NestedFieldCopy(obj.Object, "status")
	if found && err == nil {
		statusYAML, err := yaml.Marshal(status)
		if err == nil {
			buf.WriteString("\nStatus:\n")
			for _, line := range strings.Split(string(statusYAML), "\n") {
				if line != "" {
					buf.WriteString("  " + line + "\n")
				}
			}
		}
	}

	return buf.String()
}

func writeMap(buf *bytes.Buffer, title string, m map[string]string) {
	if len(m) == 0 {
		return
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	buf.WriteString(fmt.Sprintf("%-14s", title))
	for i, k := range keys {
		if i > 0 {
			buf.WriteString(strings.Repeat(" ", 14))
		}
		buf.WriteString(fmt.Sprintf("%s=%s\n", k, m[k]))
	}
}
