package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all metrics of a flowviz run
type Registry struct {
	// Input Metrics
	InputRowsTotal *prometheus.CounterVec
	GraphNodes     prometheus.Gauge
	GraphEdges     prometheus.Gauge
	GraphSectors   prometheus.Gauge

	// Flow Metrics
	PathRecordsTotal *prometheus.CounterVec
	FlowDefectsTotal *prometheus.CounterVec
	HighlightedEdges prometheus.Gauge
	FlowSkippedTotal *prometheus.CounterVec

	// Pipeline Metrics
	StageDuration     *prometheus.HistogramVec
	RendersTotal      *prometheus.CounterVec
	ArtifactsTotal    *prometheus.CounterVec
	ArtifactSizeBytes *prometheus.GaugeVec
	LastRunTimestamp  prometheus.Gauge
	LastRunSuccess    prometheus.Gauge

	registry *prometheus.Registry
	mu       sync.RWMutex
}

var (
	// Global registry instance
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the process-wide metrics registry
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		registry: reg,
	}

	r.initInputMetrics()
	r.initFlowMetrics()
	r.initPipelineMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}
