package main

import (
	"fmt"
	"io"

	"github.com/renato0307/ktopo/internal/k8s"
	"github.com/renato0307/ktopo/internal/k8s/dummy"
	"github.com/renato0307/ktopo/internal/messages"
	"github.com/renato0307/ktopo/internal/metrics"
	"github.com/renato0307/ktopo/internal/pipeline"
)

// source is where snapshots come from; manager is nil in dummy mode
type source struct {
	provider    k8s.SnapshotProvider
	manager     *k8s.InformerManager
	contextName string
	close       func()
}

// openSource connects to the cluster, or returns the sample data with --dummy
func (c *cli) openSource(progress io.Writer) (*source, error) {
	if c.dummy {
		p := dummy.NewProvider()
		return &source{provider: p, contextName: p.GetContext(), close: p.Close}, nil
	}

	namespace, err := c.namespace()
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(progress, "Connecting to Kubernetes cluster (namespace %s)...\n", namespace)
	manager, err := k8s.NewInformerManager(c.cfg.Kubeconfig, c.cfg.Context, namespace)
	if err != nil {
		return nil, messages.WrapError(err, "error initializing Kubernetes connection (context %q)", c.cfg.Context)
	}

	contextName := manager.GetContext()
	if contextName == "" {
		contextName = "current"
	}
	return &source{provider: manager, manager: manager, contextName: contextName, close: manager.Close}, nil
}

// namespace is the configured namespace, else the context's, else "default"
func (c *cli) namespace() (string, error) {
	if c.cfg.Namespace != "" {
		return c.cfg.Namespace, nil
	}

	path := c.cfg.Kubeconfig
	if path == "" {
		var err error
		if path, err = k8s.DefaultKubeconfigPath(); err != nil {
			return "", err
		}
	}

	ns, err := k8s.ContextNamespace(path, c.cfg.Context)
	if err != nil {
		return "", err
	}
	if ns == "" {
		ns = "default"
	}
	return ns, nil
}

// pipeline builds a pipeline over src with the configured kinds and options.
// m may be nil.
func (c *cli) pipeline(src *source, m *metrics.Metrics) *pipeline.Pipeline {
	return pipeline.New(src.provider, c.cfg.Kinds(), c.cfg.TransformOptions(), m)
}
