package dummy

import (
	"github.com/renato0307/ktopo/internal/k8s"
)

// Provider serves the fixture snapshots for development without a cluster
type Provider struct{}

func NewProvider() *Provider {
	return &Provider{}
}

// Snapshot returns both fixture sets merged. Each call builds new objects.
func (p *Provider) Snapshot() k8s.Resources {
	return Merge(MockResources(), MockKnativeResources())
}

func (p *Provider) Namespace() string {
	return Namespace
}

func (p *Provider) GetKubeconfig() string {
	return ""
}

func (p *Provider) GetContext() string {
	return "dummy"
}

func (p *Provider) Close() {
	// No-op for dummy provider
}
