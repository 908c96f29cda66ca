package k8s

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"k8s.io/client-go/tools/clientcmd"
)

// ContextInfo holds context metadata from kubeconfig
type ContextInfo struct {
	Name      string `json:"name"`
	Cluster   string `json:"cluster"`
	User      string `json:"user"`
	Namespace string `json:"namespace,omitempty"`
	Current   bool   `json:"current"`
}

// DefaultKubeconfigPath returns $HOME/.kube/config
func DefaultKubeconfigPath() (string, error) {
	home := os.Getenv("HOME")
	if home == "" {
		return "", fmt.Errorf("HOME environment variable not set and no kubeconfig provided")
	}
	return filepath.Join(home, ".kube", "config"), nil
}

// ListContexts loads a kubeconfig and returns its contexts sorted by name
func ListContexts(kubeconfigPath string) ([]ContextInfo, error) {
	config, err := clientcmd.LoadFromFile(kubeconfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load kubeconfig: %w", err)
	}

	contexts := make([]ContextInfo, 0, len(config.Contexts))
	for name, ctx := range config.Contexts {
		contexts = append(contexts, ContextInfo{
			Name:      name,
			Cluster:   ctx.Cluster,
			User:      ctx.AuthInfo,
			Namespace: ctx.Namespace,
			Current:   name == config.CurrentContext,
		})
	}

	sort.Slice(contexts, func(i, j int) bool {
		return contexts[i].Name < contexts[j].Name
	})
	return contexts, nil
}

// ContextNamespace returns the namespace configured for a context, or the
// current context when name is empty. An empty result means "all namespaces"
// is up to the caller.
func ContextNamespace(kubeconfigPath, name string) (string, error) {
	config, err := clientcmd.LoadFromFile(kubeconfigPath)
	if err != nil {
		return "", fmt.Errorf("failed to load kubeconfig: %w", err)
	}
	if name == "" {
		name = config.CurrentContext
	}
	ctx, ok := config.Contexts[name]
	if !ok {
		return "", fmt.Errorf("context %q not found in %s", name, kubeconfigPath)
	}
	return ctx.Namespace, nil
}
