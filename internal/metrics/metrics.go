// Package metrics exposes Prometheus instrumentation for the topology pipeline
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/renato0307/ktopo/internal/k8s"
	"github.com/renato0307/ktopo/internal/topology"
)

const namespace = "ktopo"

// Metrics holds the collectors of one registry. Each instance owns its
// registry so tests and multiple servers never collide.
type Metrics struct {
	registry *prometheus.Registry

	transforms        prometheus.Counter
	transformDuration prometheus.Histogram
	nodes             *prometheus.GaugeVec
	edges             *prometheus.GaugeVec
	groups            prometheus.Gauge
	loadErrors        *prometheus.GaugeVec
	connections       *prometheus.CounterVec
	requests          *prometheus.CounterVec
}

// New creates the collectors and registers them, plus the Go runtime
// collectors, on a fresh registry
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		transforms: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transforms_total",
			Help:      "The total number of topology transforms",
		}),
		transformDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "transform_duration_seconds",
			Help:      "Time spent building a topology from a snapshot",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12),
		}),
		nodes: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "topology_nodes",
			Help:      "Nodes in the last topology, labeled by node type",
		}, []string{"type"}),
		edges: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "topology_edges",
			Help:      "Edges in the last topology, labeled by edge type",
		}, []string{"type"}),
		groups: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "topology_groups",
			Help:      "Application groups in the last topology",
		}),
		loadErrors: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "snapshot_load_errors",
			Help:      "1 for every watched kind whose snapshot failed to load",
		}, []string{"kind"}),
		connections: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "connections_total",
			Help:      "Connection requests, labeled by mode and result",
		}, []string{"mode", "result"}),
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP API requests, labeled by route, method and status code",
		}, []string{"route", "method", "code"}),
	}
}

// ObserveTransform records one transform and the shape of its result
func (m *Metrics) ObserveTransform(d time.Duration, data *topology.Data, resources k8s.Resources) {
	m.transforms.Inc()
	m.transformDuration.Observe(d.Seconds())

	m.nodes.Reset()
	for _, node := range data.Topology {
		m.nodes.WithLabelValues(node.Type).Inc()
	}
	m.edges.Reset()
	for _, edge := range data.Graph.Edges {
		m.edges.WithLabelValues(edge.Type).Inc()
	}
	m.groups.Set(float64(len(data.Graph.Groups)))

	m.loadErrors.Reset()
	for kind := range resources.LoadErrors() {
		m.loadErrors.WithLabelValues(string(kind)).Set(1)
	}
}

// ObserveConnection counts a connection attempt. mode is "annotation" or
// "service-binding".
func (m *Metrics) ObserveConnection(mode string, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	m.connections.WithLabelValues(mode, result).Inc()
}

// ObserveRequest counts an HTTP API request
func (m *Metrics) ObserveRequest(route, method, code string) {
	m.requests.WithLabelValues(route, method, code).Inc()
}

// Registry returns the registry the collectors live in
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
