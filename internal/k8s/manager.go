package k8s

import (
	"context"
	"fmt"
	"sort"
	"time"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/labels"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/client-go/discovery"
	"k8s.io/client-go/dynamic"
	"k8s.io/client-go/dynamic/dynamicinformer"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/cache"
	"k8s.io/client-go/tools/clientcmd"
	"sigs.k8s.io/controller-runtime/pkg/client"

	"github.com/renato0307/ktopo/internal/logging"
)

// SnapshotProvider supplies resource snapshots to the topology pipeline
type SnapshotProvider interface {
	Snapshot() Resources
	Namespace() string
}

// InformerManager manages the dynamic informers behind the topology snapshots
type InformerManager struct {
	restConfig    *rest.Config
	dynamicClient dynamic.Interface
	runtimeClient client.Client

	listers    map[Kind]cache.GenericLister
	loadErrors map[Kind]string

	ctx    context.Context
	cancel context.CancelFunc

	kubeconfig  string
	contextName string
	namespace   string
}

// NewInformerManager connects to the cluster and starts informers for every
// registered kind. Kinds whose API is missing or that fail to sync are recorded
// as load errors instead of failing the whole manager.
func NewInformerManager(kubeconfig, contextName, namespace string) (*InformerManager, error) {
	config, kubeconfig, err := buildRestConfig(kubeconfig, contextName)
	if err != nil {
		return nil, err
	}

	m, err := NewInformerManagerForConfig(config, namespace)
	if err != nil {
		return nil, err
	}
	m.kubeconfig = kubeconfig
	m.contextName = contextName
	return m, nil
}

// NewInformerManagerForConfig is NewInformerManager for an already built REST config
func NewInformerManagerForConfig(config *rest.Config, namespace string) (*InformerManager, error) {
	dynamicClient, err := dynamic.NewForConfig(config)
	if err != nil {
		return nil, fmt.Errorf("error creating dynamic client: %w", err)
	}

	discoveryClient, err := discovery.NewDiscoveryClientForConfig(config)
	if err != nil {
		return nil, fmt.Errorf("error creating discovery client: %w", err)
	}

	runtimeClient, err := client.New(config, client.Options{})
	if err != nil {
		return nil, fmt.Errorf("error creating runtime client: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	m := &InformerManager{
		restConfig:    config,
		dynamicClient: dynamicClient,
		runtimeClient: runtimeClient,
		listers:       make(map[Kind]cache.GenericLister),
		loadErrors:    make(map[Kind]string),
		ctx:           ctx,
		cancel:        cancel,
		namespace:     namespace,
	}

	// each kind runs under its own context so a kind that never syncs can
	// be stopped without touching the others
	informers := make(map[Kind]kindInformer)
	for kind, cfg := range kindRegistry {
		if !apiAvailable(discoveryClient, cfg.GVR) {
			m.loadErrors[kind] = fmt.Sprintf("resource %s not served by the cluster", cfg.GVR.String())
			if !cfg.Optional {
				logging.Warn("required resource not available", "kind", kind, "gvr", cfg.GVR.String())
			}
			continue
		}
		informer := dynamicinformer.NewFilteredDynamicInformer(dynamicClient, cfg.GVR, namespace,
			InformerResyncPeriod, cache.Indexers{cache.NamespaceIndex: cache.MetaNamespaceIndexFunc}, nil)
		kindCtx, kindCancel := context.WithCancel(ctx)
		go informer.Informer().Run(kindCtx.Done())

		informers[kind] = kindInformer{hasSynced: informer.Informer().HasSynced, stop: kindCancel}
		m.listers[kind] = informer.Lister()
	}

	timing := logging.Start("sync topology informers")
	m.waitForSync(ctx, informers, InformerIndividualSyncTimeout)
	logging.EndWithCount(timing, len(m.listers))

	if _, ok := m.listers[KindPod]; !ok {
		cancel()
		return nil, fmt.Errorf("failed to sync pods - check RBAC permissions")
	}

	return m, nil
}

type kindInformer struct {
	hasSynced cache.InformerSynced
	stop      context.CancelFunc
}

// waitForSync waits up to timeout for each informer. Kinds that do not sync
// (likely RBAC) are stopped, so their watch is not retried, and recorded as
// load errors; the manager keeps going with the kinds it can see.
func (m *InformerManager) waitForSync(ctx context.Context, informers map[Kind]kindInformer, timeout time.Duration) {
	for kind, informer := range informers {
		syncCtx, syncCancel := context.WithTimeout(ctx, timeout)
		if !cache.WaitForCacheSync(syncCtx.Done(), informer.hasSynced) {
			informer.stop()
			delete(m.listers, kind)
			m.loadErrors[kind] = "informer failed to sync (check RBAC permissions)"
			logging.Warn("informer failed to sync", "kind", kind)
		}
		syncCancel()
	}
}

func buildRestConfig(kubeconfig, contextName string) (*rest.Config, string, error) {
	if kubeconfig == "" {
		path, err := DefaultKubeconfigPath()
		if err != nil {
			return nil, "", err
		}
		kubeconfig = path
	}

	loadingRules := &clientcmd.ClientConfigLoadingRules{ExplicitPath: kubeconfig}
	configOverrides := &clientcmd.ConfigOverrides{}
	if contextName != "" {
		configOverrides.CurrentContext = contextName
	}

	config, err := clientcmd.NewNonInteractiveDeferredLoadingClientConfig(
		loadingRules,
		configOverrides,
	).ClientConfig()
	if err != nil {
		return nil, "", fmt.Errorf("error building kubeconfig: %w", err)
	}
	return config, kubeconfig, nil
}

func apiAvailable(dc discovery.DiscoveryInterface, gvr schema.GroupVersionResource) bool {
	list, err := dc.ServerResourcesForGroupVersion(gvr.GroupVersion().String())
	if err != nil {
		return false
	}
	for _, r := range list.APIResources {
		if r.Name == gvr.Resource {
			return true
		}
	}
	return false
}

// Snapshot copies the informer caches into an immutable Resources value
func (m *InformerManager) Snapshot() Resources {
	resources := make(Resources, len(kindRegistry))

	for kind, msg := range m.loadErrors {
		resources[kind] = ResourceSnapshot{Loaded: true, LoadError: msg, Data: []*unstructured.Unstructured{}}
	}

	for kind, lister := range m.listers {
		objs, err := lister.List(labels.Everything())
		if err != nil {
			resources[kind] = ResourceSnapshot{Loaded: true, LoadError: err.Error(), Data: []*unstructured.Unstructured{}}
			continue
		}

		data := make([]*unstructured.Unstructured, 0, len(objs))
		for _, obj := range objs {
			u, ok := obj.(*unstructured.Unstructured)
			if !ok {
				continue
			}
			// Listers hand out cache pointers; never let callers mutate them
			data = append(data, u.DeepCopy())
		}
		sortObjects(data)
		resources[kind] = ResourceSnapshot{Loaded: true, Data: data}
	}

	return resources
}

// sortObjects orders by creation time then name so snapshots are deterministic
func sortObjects(objs []*unstructured.Unstructured) {
	sort.SliceStable(objs, func(i, j int) bool {
		ti := objs[i].GetCreationTimestamp().Time
		tj := objs[j].GetCreationTimestamp().Time
		if !ti.Equal(tj) {
			return ti.Before(tj)
		}
		return objs[i].GetName() < objs[j].GetName()
	})
}

// Close stops the informers
func (m *InformerManager) Close() {
	if m.cancel != nil {
		m.cancel()
	}
}

// Namespace returns the namespace the informers are scoped to ("" = all)
func (m *InformerManager) Namespace() string {
	return m.namespace
}

// GetKubeconfig returns the kubeconfig path
func (m *InformerManager) GetKubeconfig() string {
	return m.kubeconfig
}

// GetContext returns the context name
func (m *InformerManager) GetContext() string {
	return m.contextName
}

// GetRESTConfig returns the REST config used by all clients
func (m *InformerManager) GetRESTConfig() *rest.Config {
	return m.restConfig
}

// GetDynamicClient returns the dynamic client
func (m *InformerManager) GetDynamicClient() dynamic.Interface {
	return m.dynamicClient
}

// GetRuntimeClient returns the controller-runtime client used for writes
func (m *InformerManager) GetRuntimeClient() client.Client {
	return m.runtimeClient
}

// GetLister returns the lister for a kind
func (m *InformerManager) GetLister(kind Kind) (cache.GenericLister, bool) {
	lister, ok := m.listers[kind]
	return lister, ok
}
