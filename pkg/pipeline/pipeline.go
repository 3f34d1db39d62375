// Package pipeline runs a flowviz job: load the tables, draw the network view, then
// overlay the max flow results and draw the flow view.
package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dd0wney/cluso-flowviz/pkg/artifact"
	"github.com/dd0wney/cluso-flowviz/pkg/config"
	"github.com/dd0wney/cluso-flowviz/pkg/flow"
	"github.com/dd0wney/cluso-flowviz/pkg/graph"
	"github.com/dd0wney/cluso-flowviz/pkg/loader"
	"github.com/dd0wney/cluso-flowviz/pkg/logging"
	"github.com/dd0wney/cluso-flowviz/pkg/metrics"
	"github.com/dd0wney/cluso-flowviz/pkg/style"
	"github.com/dd0wney/cluso-flowviz/pkg/visualization"
)

// Deps are the collaborators of a run. Zero values get defaults: a no-op logger,
// a fresh metrics registry and the sinks named by the config.
type Deps struct {
	Logger  logging.Logger
	Metrics *metrics.Registry
	Sink    artifact.Sink
}

// NewSink returns the local directory sink, plus the S3 sink when configured,
// wrapped in snappy compression when output.compress is set
func NewSink(ctx context.Context, cfg *config.Config) (artifact.Sink, error) {
	sink, err := newStorageSink(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if cfg.Output.Compress {
		return &artifact.SnappySink{Next: sink}, nil
	}
	return sink, nil
}

func newStorageSink(ctx context.Context, cfg *config.Config) (artifact.Sink, error) {
	fileSink, err := artifact.NewFileSink(cfg.Output.Dir)
	if err != nil {
		return nil, err
	}
	if !cfg.Output.S3.Enabled() {
		return fileSink, nil
	}

	s3cfg := cfg.Output.S3
	client, err := artifact.NewS3Client(ctx, artifact.S3Options{
		Bucket:          s3cfg.Bucket,
		Prefix:          s3cfg.Prefix,
		Region:          s3cfg.Region,
		Endpoint:        s3cfg.Endpoint,
		AccessKeyID:     s3cfg.AccessKeyID,
		SecretAccessKey: s3cfg.SecretAccessKey,
		UsePathStyle:    s3cfg.UsePathStyle,
	})
	if err != nil {
		return nil, err
	}
	s3Sink, err := artifact.NewS3Sink(client, s3cfg.Bucket, s3cfg.Prefix)
	if err != nil {
		return nil, err
	}
	return artifact.MultiSink{fileSink, s3Sink}, nil
}

type runner struct {
	cfg     *config.Config
	logger  logging.Logger
	metrics *metrics.Registry
	sink    artifact.Sink
	result  *Result

	graph     *graph.Graph
	encoder   *style.Encoder
	renderer  visualization.Renderer
	positions map[string]visualization.Position
}

// Run executes one job. Input and rendering failures end the run with an error;
// problems with the flow results only skip or degrade the flow view.
func Run(ctx context.Context, cfg *config.Config, deps Deps) (*Result, error) {
	if deps.Logger == nil {
		deps.Logger = logging.NewNopLogger()
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.NewRegistry()
	}

	start := time.Now()
	res := &Result{RunID: uuid.New().String(), Dataset: cfg.Dataset}
	logger := deps.Logger.With(logging.RunID(res.RunID))

	if deps.Sink == nil {
		sink, err := NewSink(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("create artifact sink: %w", err)
		}
		deps.Sink = sink
	}

	r := &runner{
		cfg:     cfg,
		logger:  logger,
		metrics: deps.Metrics,
		sink:    deps.Sink,
		result:  res,
	}

	logger.Info("run started",
		logging.String("dataset", cfg.Dataset),
		logging.String("format", cfg.Render.Format),
		logging.String("layout", cfg.Render.Layout),
	)
	err := r.run(ctx)

	res.Duration = time.Since(start)
	deps.Metrics.RecordRun(time.Now(), err)
	if cfg.Metrics.Textfile != "" {
		if werr := deps.Metrics.WriteTextfile(cfg.Metrics.Textfile); werr != nil {
			logger.Warn("metrics textfile not written", logging.Error(werr))
		}
	}

	if err != nil {
		logger.Error("run failed", logging.Error(err), logging.Duration("duration", res.Duration))
		return res, err
	}
	logger.Info("run finished",
		logging.String("flow", string(res.Flow)),
		logging.Count(len(res.Artifacts)),
		logging.Duration("duration", res.Duration),
	)
	return res, nil
}

func (r *runner) run(ctx context.Context) error {
	steps := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"load", r.load},
		{"layout", r.layout},
		{ViewNetwork, r.networkView},
		{ViewFlow, r.flowView},
	}
	for _, step := range steps {
		if err := r.stage(ctx, step.name, step.fn); err != nil {
			return err
		}
	}
	return nil
}

func (r *runner) stage(ctx context.Context, name string, fn func(context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	timer := logging.StartTimer(r.logger, "stage finished", logging.Stage(name))
	err := fn(ctx)
	var elapsed time.Duration
	if err != nil {
		elapsed = timer.EndError(err)
	} else {
		elapsed = timer.End()
	}
	r.metrics.RecordStage(name, elapsed)
	return err
}

func (r *runner) load(ctx context.Context) error {
	logger := r.logger.With(logging.Component("loader"))

	companies, cstats, err := loader.LoadCompanies(r.cfg.CompaniesPath(), logger)
	if err != nil {
		return fmt.Errorf("load companies: %w", err)
	}
	edges, estats, err := loader.LoadEdges(r.cfg.EdgesPath(), logger)
	if err != nil {
		return fmt.Errorf("load edges: %w", err)
	}
	r.result.Companies, r.result.Edges = cstats, estats
	r.metrics.RecordTable("companies", len(companies), cstats.Skipped, cstats.Coerced)
	r.metrics.RecordTable("edges", len(edges), estats.Skipped, estats.Coerced)

	g, rejected := loader.BuildGraph(companies, edges, logger)
	r.graph = g
	r.result.RejectedRows = rejected
	r.result.Nodes = g.NodeCount()
	r.result.EdgeCount = g.EdgeCount()
	r.result.Sectors = len(g.Sectors())
	r.metrics.RecordGraph(g)
	return nil
}

func (r *runner) layout(ctx context.Context) error {
	layout, err := visualization.NewLayout(r.cfg.Render.Layout, r.cfg.Layout)
	if err != nil {
		return err
	}
	renderer, err := visualization.NewRenderer(r.cfg.Render.Format, r.cfg.Layout)
	if err != nil {
		return err
	}
	positions, err := layout.ComputeLayout(r.graph, r.graph.NodeIDs())
	if err != nil {
		return fmt.Errorf("compute layout: %w", err)
	}

	r.renderer = renderer
	r.positions = positions
	r.encoder = style.ForGraph(r.cfg.Style, r.graph)
	return nil
}

// NetworkTitle is the title of the network view for a dataset
func NetworkTitle(dataset string) string {
	if dataset == "" {
		return "Company Relationship Network"
	}
	return fmt.Sprintf("Company Network (%s dataset)", dataset)
}

func (r *runner) networkView(ctx context.Context) error {
	scene := r.encoder.EncodeNetwork(r.graph, NetworkTitle(r.cfg.Dataset))
	return r.emit(ctx, ViewNetwork, r.cfg.Output.NetworkName, scene)
}

func skipReason(err error) string {
	switch {
	case errors.Is(err, loader.ErrFlowResultsNotFound):
		return SkipNotFound
	case errors.Is(err, loader.ErrFlowResultsMalformed):
		return SkipMalformed
	case errors.Is(err, loader.ErrFlowResultsIncomplete):
		return SkipIncomplete
	default:
		return SkipUnreadable
	}
}

func (r *runner) flowView(ctx context.Context) error {
	logger := r.logger.With(logging.Component("flow"))

	results, err := loader.LoadFlowResults(r.cfg.FlowResultsPath())
	if err != nil {
		reason := skipReason(err)
		r.result.Flow = FlowSkipped
		r.result.SkipReason = reason
		r.metrics.RecordFlowSkipped(reason)
		logger.Warn("skipping max flow visualization",
			logging.String("reason", reason), logging.Error(err))
		return nil
	}

	r.result.Source = results.Source
	r.result.Sink = results.Sink
	r.result.MaxFlow = results.MaxFlow
	logger.Info("visualizing max flow",
		logging.String("source", results.Source),
		logging.String("sink", results.Sink),
		logging.Float64("max_flow", results.MaxFlow),
		logging.Int("paths", len(results.Paths)),
	)

	var scene *style.Scene
	if err := style.CheckEndpoints(r.graph, results.Source, results.Sink); err != nil {
		var missing *style.MissingEndpointError
		if !errors.As(err, &missing) {
			return err
		}
		r.result.MissingEndpoint = missing
		logger.Error("flow endpoint not in graph",
			logging.String("role", string(missing.Role)), logging.NodeID(missing.ID))
		if r.cfg.Render.OnMissingEndpoint == config.PolicyAbort {
			return fmt.Errorf("flow view: %w", err)
		}
		r.result.Flow = FlowDegraded
		scene = r.encoder.EncodeDegraded(r.graph, missing)
	} else {
		overlay := flow.BuildOverlay(r.graph, results.Paths, logger)
		summary := overlay.Summary()
		r.result.Overlay = &summary
		r.metrics.RecordOverlay(summary)

		scene, err = r.encoder.EncodeFlow(r.graph, overlay, results.Source, results.Sink)
		if err != nil {
			return fmt.Errorf("encode flow view: %w", err)
		}
		r.result.Flow = FlowDrawn
	}

	return r.emit(ctx, ViewFlow, r.cfg.Output.FlowName, scene)
}

func (r *runner) emit(ctx context.Context, view, name string, scene *style.Scene) error {
	var buf bytes.Buffer
	viz := &visualization.Visualization{Scene: scene, Positions: r.positions}
	err := viz.Render(&buf, r.renderer)
	r.metrics.RecordRender(view, buf.Len(), err)
	if err != nil {
		return fmt.Errorf("render %s view: %w", view, err)
	}

	file := name + "." + r.renderer.Extension()
	location, err := r.sink.Put(ctx, file, r.renderer.ContentType(), buf.Bytes())
	r.metrics.RecordArtifact(r.sink.Kind(), err)
	if err != nil {
		return fmt.Errorf("store %s view: %w", view, err)
	}

	r.result.Artifacts = append(r.result.Artifacts, Artifact{
		View:        view,
		Name:        file,
		Location:    location,
		ContentType: r.renderer.ContentType(),
		Size:        buf.Len(),
	})
	r.logger.Info("artifact written",
		logging.String("view", view),
		logging.String("location", location),
		logging.Int("bytes", buf.Len()),
	)
	return nil
}
