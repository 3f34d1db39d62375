package pipeline

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-flowviz/pkg/config"
	"github.com/dd0wney/cluso-flowviz/pkg/logging"
	"github.com/dd0wney/cluso-flowviz/pkg/metrics"
	"github.com/dd0wney/cluso-flowviz/pkg/style"
	"github.com/dd0wney/cluso-flowviz/pkg/visualization"
)

const (
	companiesCSV = "Company,Sector\nA,Tech\nB,Tech\nC,Energy\nD,Finance\n"
	edgesCSV     = "Company1,Company2,Weight\nA,B,1.0\nB,C,0.5\nA,D,n/a\nD,C,2\n"
)

type renderedScene struct {
	Title string `json:"title"`
	Nodes []struct {
		ID   string `json:"id"`
		Role string `json:"role"`
	} `json:"nodes"`
	Edges []struct {
		From        string  `json:"from"`
		To          string  `json:"to"`
		Highlighted bool    `json:"highlighted"`
		Flow        float64 `json:"flow"`
	} `json:"edges"`
}

func setup(t *testing.T, flowJSON string) *config.Config {
	t.Helper()
	t.Setenv("LOG_LEVEL", "")
	dir := t.TempDir()
	write := func(name, body string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	write("companies_small.csv", companiesCSV)
	write("edges_small.csv", edgesCSV)
	if flowJSON != "" {
		write(config.DefaultFlowResults, flowJSON)
	}

	cfg := config.Default()
	cfg.Input.Dir = dir
	cfg.Output.Dir = filepath.Join(dir, "out")
	cfg.Render.Format = visualization.FormatJSON
	cfg.Layout.Iterations = 5
	require.NoError(t, cfg.Resolve())
	require.NoError(t, cfg.Validate())
	return cfg
}

func readScene(t *testing.T, a Artifact) renderedScene {
	t.Helper()
	data, err := os.ReadFile(a.Location)
	require.NoError(t, err)
	var s renderedScene
	require.NoError(t, json.Unmarshal(data, &s))
	return s
}

func TestRun_DrawsBothViews(t *testing.T) {
	cfg := setup(t, `{"source":"A","sink":"C","max_flow":1.5,"paths":[
		{"path":["A","B","C"],"flow":0.5},
		{"path":["A","D","C"],"flow":1.0},
		{"path":["A","Z","C"],"flow":0.3},
		{"path":["A","C"],"flow":0.2}
	]}`)
	rec := logging.NewRecorder()
	reg := metrics.NewRegistry()

	res, err := Run(context.Background(), cfg, Deps{Logger: rec, Metrics: reg})
	require.NoError(t, err)

	assert.NotEmpty(t, res.RunID)
	assert.Equal(t, 4, res.Nodes)
	assert.Equal(t, 4, res.EdgeCount)
	assert.Equal(t, 1, res.Edges.Coerced)
	assert.Equal(t, FlowDrawn, res.Flow)
	assert.Equal(t, 1.5, res.MaxFlow)
	require.NotNil(t, res.Overlay)
	assert.Equal(t, 3, res.Overlay.RecordsAccepted)
	assert.Equal(t, 4, res.Overlay.HighlightedEdges)
	assert.Equal(t, 1, res.Overlay.SegmentsRejected)

	network, ok := res.Artifact(ViewNetwork)
	require.True(t, ok)
	assert.Equal(t, "small_network_visualization.json", network.Name)
	assert.Equal(t, "Company Network (small dataset)", readScene(t, network).Title)

	flowArt, ok := res.Artifact(ViewFlow)
	require.True(t, ok)
	scene := readScene(t, flowArt)
	assert.Equal(t, "Maximum Flow from A to C", scene.Title)

	highlighted := map[string]float64{}
	for _, e := range scene.Edges {
		if e.Highlighted {
			highlighted[e.From+"->"+e.To] = e.Flow
		}
	}
	assert.Equal(t, map[string]float64{"A->B": 0.5, "B->C": 0.5, "A->D": 1.0, "D->C": 1.0}, highlighted)

	for _, n := range scene.Nodes {
		switch n.ID {
		case "A":
			assert.Equal(t, string(style.RoleSource), n.Role)
		case "C":
			assert.Equal(t, string(style.RoleSink), n.Role)
		}
	}

	for _, msg := range []string{"run started", "run finished", "artifact written"} {
		assert.Contains(t, rec.Messages(logging.InfoLevel), msg)
	}
	for _, e := range rec.Entries() {
		assert.Equal(t, res.RunID, e.Fields["run_id"], e.Message)
	}
}

func TestRun_SkipsFlowViewWithoutResults(t *testing.T) {
	cases := map[string]struct {
		body   string
		reason string
	}{
		"not found":  {"", SkipNotFound},
		"malformed":  {`{"source": "A",`, SkipMalformed},
		"incomplete": {`{"source":"A","sink":"C","paths":[]}`, SkipIncomplete},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := setup(t, tc.body)
			res, err := Run(context.Background(), cfg, Deps{})
			require.NoError(t, err)

			assert.Equal(t, FlowSkipped, res.Flow)
			assert.Equal(t, tc.reason, res.SkipReason)
			assert.Nil(t, res.Overlay)
			assert.Len(t, res.Artifacts, 1)
			_, ok := res.Artifact(ViewFlow)
			assert.False(t, ok)
		})
	}
}

func TestRun_MissingSourceDegrades(t *testing.T) {
	cfg := setup(t, `{"source":"Z","sink":"C","max_flow":1,"paths":[{"path":["Z","C"],"flow":1}]}`)

	res, err := Run(context.Background(), cfg, Deps{})
	require.NoError(t, err)

	assert.Equal(t, FlowDegraded, res.Flow)
	require.NotNil(t, res.MissingEndpoint)
	assert.Equal(t, style.RoleSource, res.MissingEndpoint.Role)
	assert.Nil(t, res.Overlay)

	flowArt, ok := res.Artifact(ViewFlow)
	require.True(t, ok)
	scene := readScene(t, flowArt)
	assert.Equal(t, "Graph (Source 'Z' not found)", scene.Title)
	for _, e := range scene.Edges {
		assert.False(t, e.Highlighted)
	}
}

func TestRun_MissingSinkAborts(t *testing.T) {
	cfg := setup(t, `{"source":"A","sink":"Q","max_flow":1,"paths":[{"path":["A","Q"],"flow":1}]}`)
	cfg.Render.OnMissingEndpoint = config.PolicyAbort

	res, err := Run(context.Background(), cfg, Deps{})
	require.Error(t, err)
	assert.ErrorIs(t, err, style.ErrMissingEndpoint)

	// the network view is written before the flow view is attempted
	_, ok := res.Artifact(ViewNetwork)
	assert.True(t, ok)
	_, ok = res.Artifact(ViewFlow)
	assert.False(t, ok)
}

func TestRun_InputErrors(t *testing.T) {
	cfg := setup(t, "")
	cfg.Input.Edges = "missing.csv"

	_, err := Run(context.Background(), cfg, Deps{})
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRun_CanceledContext(t *testing.T) {
	cfg := setup(t, "")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, cfg, Deps{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRun_WritesMetricsTextfile(t *testing.T) {
	cfg := setup(t, "")
	cfg.Metrics.Textfile = filepath.Join(t.TempDir(), "flowviz.prom")

	_, err := Run(context.Background(), cfg, Deps{})
	require.NoError(t, err)

	data, err := os.ReadFile(cfg.Metrics.Textfile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `flowviz_flow_skipped_total{reason="not_found"} 1`)
	assert.Contains(t, string(data), "flowviz_last_run_success 1")
}

func TestNetworkTitle(t *testing.T) {
	assert.Equal(t, "Company Network (50 dataset)", NetworkTitle("50"))
	assert.Equal(t, "Company Relationship Network", NetworkTitle(""))
}

func TestRun_CompressedArtifacts(t *testing.T) {
	cfg := setup(t, "")
	cfg.Output.Compress = true

	res, err := Run(context.Background(), cfg, Deps{})
	require.NoError(t, err)

	network, ok := res.Artifact(ViewNetwork)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(cfg.Output.Dir, "small_network_visualization.json.sz"), network.Location)
	_, err = os.Stat(network.Location)
	assert.NoError(t, err)
}
