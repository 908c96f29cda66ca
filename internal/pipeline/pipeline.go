// Package pipeline runs snapshot -> transform and records how it went
package pipeline

import (
	"sync"
	"time"

	"github.com/renato0307/ktopo/internal/k8s"
	"github.com/renato0307/ktopo/internal/logging"
	"github.com/renato0307/ktopo/internal/metrics"
	"github.com/renato0307/ktopo/internal/topology"
)

// Result is one pipeline run
type Result struct {
	Resources k8s.Resources
	Data      *topology.Data
	Duration  time.Duration
	At        time.Time
}

// Pipeline turns provider snapshots into topologies. It is safe for
// concurrent use; options may be swapped between runs.
type Pipeline struct {
	provider k8s.SnapshotProvider
	metrics  *metrics.Metrics

	mu    sync.RWMutex
	kinds []k8s.Kind
	opts  topology.Options
	last  *Result
}

// New creates a pipeline. m may be nil.
func New(provider k8s.SnapshotProvider, kinds []k8s.Kind, opts topology.Options, m *metrics.Metrics) *Pipeline {
	return &Pipeline{
		provider: provider,
		metrics:  m,
		kinds:    kinds,
		opts:     opts,
	}
}

// Run takes a snapshot and transforms it
func (p *Pipeline) Run() *Result {
	p.mu.RLock()
	kinds, opts := p.kinds, p.opts
	p.mu.RUnlock()

	resources := p.provider.Snapshot()

	timing := logging.Start("transform topology")
	data := topology.Transform(resources, kinds, opts)
	d := logging.EndWithCount(timing, len(data.Graph.Nodes))

	for kind, msg := range resources.LoadErrors() {
		logging.Debug("snapshot kind unavailable", "kind", kind, "error", msg)
	}
	if p.metrics != nil {
		p.metrics.ObserveTransform(d, data, resources)
	}

	result := &Result{Resources: resources, Data: data, Duration: d, At: time.Now()}
	p.mu.Lock()
	p.last = result
	p.mu.Unlock()
	return result
}

// Last returns the most recent result, running the pipeline if there is none
func (p *Pipeline) Last() *Result {
	p.mu.RLock()
	last := p.last
	p.mu.RUnlock()
	if last != nil {
		return last
	}
	return p.Run()
}

// Namespace is the namespace of the underlying provider
func (p *Pipeline) Namespace() string {
	return p.provider.Namespace()
}

// Filters returns the active filters
func (p *Pipeline) Filters() topology.Filters {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.opts.Filters == nil {
		return topology.DefaultFilters()
	}
	return *p.opts.Filters
}

// SetFilters replaces the filters used by later runs
func (p *Pipeline) SetFilters(f topology.Filters) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.opts.Filters = &f
}

// Kinds returns the workload kinds rendered as nodes
func (p *Pipeline) Kinds() []k8s.Kind {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]k8s.Kind(nil), p.kinds...)
}
