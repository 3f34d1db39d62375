package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dd0wney/cluso-flowviz/pkg/flow"
	"github.com/dd0wney/cluso-flowviz/pkg/graph"
)

// Render and artifact statuses
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// RecordTable records the row outcomes of an input table
func (r *Registry) RecordTable(table string, loaded, skipped, coerced int) {
	r.InputRowsTotal.WithLabelValues(table, "loaded").Add(float64(loaded))
	r.InputRowsTotal.WithLabelValues(table, "skipped").Add(float64(skipped))
	r.InputRowsTotal.WithLabelValues(table, "coerced").Add(float64(coerced))
}

// RecordGraph sets the graph size gauges
func (r *Registry) RecordGraph(g *graph.Graph) {
	r.GraphNodes.Set(float64(g.NodeCount()))
	r.GraphEdges.Set(float64(g.EdgeCount()))
	r.GraphSectors.Set(float64(len(g.Sectors())))
}

// RecordOverlay records path record outcomes, defects by kind and highlighted edges
func (r *Registry) RecordOverlay(s flow.Summary) {
	r.PathRecordsTotal.WithLabelValues("accepted").Add(float64(s.RecordsAccepted))
	r.PathRecordsTotal.WithLabelValues("rejected").Add(float64(s.RecordsRejected))
	for _, kind := range flow.DefectKinds {
		r.FlowDefectsTotal.WithLabelValues(kind.String()).Add(float64(s.DefectsByKind[kind]))
	}
	r.HighlightedEdges.Set(float64(s.HighlightedEdges))
}

// RecordFlowSkipped records why the flow view was not drawn
func (r *Registry) RecordFlowSkipped(reason string) {
	r.FlowSkippedTotal.WithLabelValues(reason).Inc()
}

// RecordStage records a pipeline stage duration
func (r *Registry) RecordStage(stage string, duration time.Duration) {
	r.StageDuration.WithLabelValues(stage).Observe(duration.Seconds())
}

// RecordRender records a rendered view and the size of its output
func (r *Registry) RecordRender(view string, size int, err error) {
	if err != nil {
		r.RendersTotal.WithLabelValues(view, StatusError).Inc()
		return
	}
	r.RendersTotal.WithLabelValues(view, StatusSuccess).Inc()
	r.ArtifactSizeBytes.WithLabelValues(view).Set(float64(size))
}

// RecordArtifact records an artifact write to a sink
func (r *Registry) RecordArtifact(sink string, err error) {
	status := StatusSuccess
	if err != nil {
		status = StatusError
	}
	r.ArtifactsTotal.WithLabelValues(sink, status).Inc()
}

// RecordRun marks the end of a run
func (r *Registry) RecordRun(finished time.Time, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.LastRunTimestamp.Set(float64(finished.Unix()))
	if err != nil {
		r.LastRunSuccess.Set(0)
	} else {
		r.LastRunSuccess.Set(1)
	}
}

// WriteTextfile writes every metric in the node_exporter textfile format
func (r *Registry) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
