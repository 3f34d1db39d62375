package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initPipelineMetrics() {
	r.StageDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "flowviz_stage_duration_seconds",
			Help:    "Pipeline stage duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
		},
		[]string{"stage"},
	)

	r.RendersTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "flowviz_renders_total",
			Help: "Rendered views by view and status",
		},
		[]string{"view", "status"},
	)

	r.ArtifactsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "flowviz_artifacts_total",
			Help: "Artifact writes by sink and status",
		},
		[]string{"sink", "status"},
	)

	r.ArtifactSizeBytes = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "flowviz_artifact_size_bytes",
			Help: "Size of the last artifact written per view",
		},
		[]string{"view"},
	)

	r.LastRunTimestamp = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "flowviz_last_run_timestamp_seconds",
			Help: "Unix time the last run finished",
		},
	)

	r.LastRunSuccess = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "flowviz_last_run_success",
			Help: "1 if the last run finished without error",
		},
	)
}
