package style

import (
	"errors"
	"testing"

	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-flowviz/pkg/flow"
	"github.com/dd0wney/cluso-flowviz/pkg/graph"
)

func newGraph(t *testing.T) *graph.Graph {
	t.Helper()
	g := graph.New()
	require.NoError(t, g.AddNode("A", "Energy"))
	require.NoError(t, g.AddNode("B", "Tech"))
	require.NoError(t, g.AddNode("C", "Energy"))
	require.NoError(t, g.AddEdge("A", "B", 1))
	require.NoError(t, g.AddEdge("B", "C", 2))
	require.NoError(t, g.AddEdge("C", "Orphan", 4)) // Orphan has no sector
	return g
}

func TestPaletteReservedColorsNeverAssigned(t *testing.T) {
	for n := 0; n <= 60; n++ {
		p := Palette(n)
		require.Len(t, p, n)

		seen := make(map[string]bool)
		for _, c := range p {
			assert.False(t, reserved[c], "palette(%d) contains reserved color %s", n, c)
			assert.False(t, seen[c], "palette(%d) repeats %s", n, c)
			seen[c] = true
		}
	}
}

func TestPaletteKeepsDistanceFromReservedColors(t *testing.T) {
	for _, n := range []int{15, 20, 21, 25, 60, 300} {
		for _, hex := range Palette(n) {
			c, err := colorful.Hex(hex)
			require.NoError(t, err)
			for _, r := range []string{FallbackColor, SourceColor, SinkColor} {
				rc, _ := colorful.Hex(r)
				assert.GreaterOrEqual(t, c.DistanceLab(rc), MinReservedDistance,
					"palette(%d) color %s is too close to %s", n, hex, r)
			}
		}
	}

	// tab20's mid gray is shifted away from the fallback color
	assert.NotEqual(t, "#7f7f7f", Palette(20)[14])
}

func TestPaletteDistinctForManySectors(t *testing.T) {
	p := Palette(2000)
	seen := make(map[string]bool, len(p))
	for _, c := range p {
		seen[c] = true
	}
	assert.Len(t, seen, 2000)
}

func TestPaletteUsesTab20ThenViridis(t *testing.T) {
	assert.Equal(t, []string{"#1f77b4", "#aec7e8", "#ff7f0e"}, Palette(3))

	wide := Palette(25)
	assert.Equal(t, "#440154", wide[0])
	assert.Equal(t, "#fde725", wide[24])
}

func TestSectorColorsFollowGivenOrder(t *testing.T) {
	a := NewEncoder(DefaultConfig(), []string{"Tech", "Energy", "Tech", "", "Retail"})
	assert.Equal(t, []string{"Tech", "Energy", "Retail"}, a.Sectors())

	tech, ok := a.SectorColor("Tech")
	require.True(t, ok)
	assert.Equal(t, "#1f77b4", tech)

	// same order, same assignment
	b := NewEncoder(DefaultConfig(), []string{"Tech", "Energy", "Retail"})
	for _, s := range a.Sectors() {
		ca, _ := a.SectorColor(s)
		cb, _ := b.SectorColor(s)
		assert.Equal(t, ca, cb, s)
	}
}

func TestNodeColorFallback(t *testing.T) {
	g := newGraph(t)
	enc := ForGraph(DefaultConfig(), g)

	orphan, _ := g.Node("Orphan")
	assert.Equal(t, FallbackColor, enc.NodeColor(orphan), "node without sector")
	assert.Equal(t, FallbackColor, enc.NodeColor(graph.Node{ID: "X", Sector: "Mining"}), "unknown sector")

	a, _ := g.Node("A")
	energy, _ := enc.SectorColor("Energy")
	assert.Equal(t, energy, enc.NodeColor(a))
}

func TestEdgeWidths(t *testing.T) {
	enc := NewEncoder(DefaultConfig(), nil)

	widths := enc.EdgeWidths([]graph.Edge{
		{From: "A", To: "B", Weight: 1},
		{From: "B", To: "C", Weight: 4},
		{From: "C", To: "D", Weight: 0},
	})
	assert.InDeltaSlice(t, []float64{0.75, 3, 0}, widths, 1e-9)

	zero := enc.EdgeWidths([]graph.Edge{{From: "A", To: "B"}, {From: "B", To: "C"}})
	assert.Equal(t, []float64{1, 1}, zero, "all-zero weights fall back to the default width")

	assert.Empty(t, enc.EdgeWidths(nil))
}

func TestFlowWidth(t *testing.T) {
	enc := NewEncoder(DefaultConfig(), nil)

	assert.InDelta(t, 1.0, enc.FlowWidth(0), 1e-9, "zero flow stays visible")
	assert.InDelta(t, 3.5, enc.FlowWidth(0.5), 1e-9)

	cfg := DefaultConfig()
	cfg.FlowBaseWidth = 0
	enc = NewEncoder(cfg, nil)
	assert.InDelta(t, 0.5, enc.FlowWidth(0), 1e-9, "floor applies")
}

func TestEncodeNetwork(t *testing.T) {
	g := newGraph(t)
	scene := ForGraph(DefaultConfig(), g).EncodeNetwork(g, "Company Network")

	assert.Equal(t, "Company Network", scene.Title)
	require.Len(t, scene.Nodes, 4)
	require.Len(t, scene.Edges, 3)
	assert.InDelta(t, 3.0, scene.Edges[2].Width, 1e-9)
	assert.Empty(t, scene.HighlightedEdges())

	labels := make([]string, len(scene.Legend))
	for i, l := range scene.Legend {
		labels[i] = l.Label
	}
	assert.Equal(t, []string{"Energy", "Tech"}, labels)
}

func TestEncodeFlow(t *testing.T) {
	g := newGraph(t)
	enc := ForGraph(DefaultConfig(), g)
	overlay := flow.BuildOverlay(g, []flow.PathRecord{
		flow.NewPathRecord(0.5, "A", "B", "C"),
		flow.NewPathRecord(0.2, "B", "C"),
	}, nil)

	scene, err := enc.EncodeFlow(g, overlay, "A", "C")
	require.NoError(t, err)

	assert.Equal(t, "Maximum Flow from A to C", scene.Title)

	// background copy of every edge, then the highlighted ones
	require.Len(t, scene.Edges, 5)
	for _, e := range scene.Edges[:3] {
		assert.False(t, e.Highlighted)
		assert.Equal(t, 0.5, e.Width)
	}
	hl := scene.HighlightedEdges()
	require.Len(t, hl, 2)
	assert.Equal(t, "A", hl[0].From)
	assert.InDelta(t, 3.5, hl[0].Width, 1e-9)
	assert.Equal(t, 0.5, hl[1].Flow, "max of 0.5 and 0.2")

	src, ok := scene.Node("A")
	require.True(t, ok)
	assert.Equal(t, RoleSource, src.Role)
	assert.Equal(t, SourceColor, src.Color)
	assert.Equal(t, 500.0, src.Size)
	assert.Equal(t, "#000000", src.OutlineColor)

	sink, _ := scene.Node("C")
	assert.Equal(t, SinkColor, sink.Color)

	last := scene.Legend[len(scene.Legend)-3:]
	assert.Equal(t, "Max Flow Path", last[0].Label)
	assert.Equal(t, "Source Node", last[1].Label)
	assert.Equal(t, "Sink Node", last[2].Label)
}

func TestEncodeFlowEmptyOverlay(t *testing.T) {
	g := newGraph(t)
	enc := ForGraph(DefaultConfig(), g)

	scene, err := enc.EncodeFlow(g, flow.BuildOverlay(g, nil, nil), "A", "C")
	require.NoError(t, err)
	assert.Empty(t, scene.HighlightedEdges())
	for _, l := range scene.Legend {
		assert.NotEqual(t, "Max Flow Path", l.Label)
	}
}

func TestEncodeFlowMissingEndpoint(t *testing.T) {
	g := newGraph(t)
	enc := ForGraph(DefaultConfig(), g)
	overlay := flow.BuildOverlay(g, []flow.PathRecord{flow.NewPathRecord(1, "A", "B")}, nil)

	tests := []struct {
		name         string
		source, sink string
		role         NodeRole
		id           string
	}{
		{"missing source", "Q", "C", RoleSource, "Q"},
		{"missing sink", "A", "Z", RoleSink, "Z"},
		{"both missing reports source", "Q", "Z", RoleSource, "Q"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scene, err := enc.EncodeFlow(g, overlay, tt.source, tt.sink)
			assert.Nil(t, scene)
			require.ErrorIs(t, err, ErrMissingEndpoint)

			var missing *MissingEndpointError
			require.True(t, errors.As(err, &missing))
			assert.Equal(t, tt.role, missing.Role)
			assert.Equal(t, tt.id, missing.ID)

			degraded := enc.EncodeDegraded(g, missing)
			assert.Empty(t, degraded.HighlightedEdges())
			assert.Contains(t, degraded.Title, "'"+tt.id+"' not found")
		})
	}
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())

	cfg := DefaultConfig()
	cfg.FlowMinWidth = 0
	cfg.EdgeAlpha = 2
	cfg.FlowEdgeColor = "blue"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "flow_min_width")
	assert.Contains(t, err.Error(), "edge_alpha")
	assert.Contains(t, err.Error(), "flow_edge_color")
}
