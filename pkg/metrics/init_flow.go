package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initFlowMetrics() {
	r.PathRecordsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "flowviz_path_records_total",
			Help: "Flow path records by validation status",
		},
		[]string{"status"},
	)

	r.FlowDefectsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "flowviz_flow_defects_total",
			Help: "Flow path defects by kind",
		},
		[]string{"kind"},
	)

	r.HighlightedEdges = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "flowviz_highlighted_edges",
			Help: "Number of edges highlighted in the flow view",
		},
	)

	r.FlowSkippedTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "flowviz_flow_skipped_total",
			Help: "Runs whose flow view was skipped, by reason",
		},
		[]string{"reason"},
	)
}
