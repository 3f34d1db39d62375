package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initInputMetrics() {
	r.InputRowsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "flowviz_input_rows_total",
			Help: "Input table rows by table and outcome (loaded, skipped, coerced)",
		},
		[]string{"table", "outcome"},
	)

	r.GraphNodes = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "flowviz_graph_nodes",
			Help: "Number of companies in the graph",
		},
	)

	r.GraphEdges = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "flowviz_graph_edges",
			Help: "Number of directed edges in the graph",
		},
	)

	r.GraphSectors = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "flowviz_graph_sectors",
			Help: "Number of distinct sectors in the graph",
		},
	)
}
