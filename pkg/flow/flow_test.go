package flow

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-flowviz/pkg/graph"
	"github.com/dd0wney/cluso-flowviz/pkg/logging"
)

// newABC returns the graph A->B (1), B->C (2)
func newABC(t *testing.T) *graph.Graph {
	t.Helper()
	g := graph.New()
	for _, id := range []string{"A", "B", "C"} {
		require.NoError(t, g.AddNode(id, "Tech"))
	}
	require.NoError(t, g.AddEdge("A", "B", 1))
	require.NoError(t, g.AddEdge("B", "C", 2))
	return g
}

func flowPtr(v float64) *float64 { return &v }

func TestOverlaySinglePath(t *testing.T) {
	g := newABC(t)

	o := BuildOverlay(g, []PathRecord{NewPathRecord(0.5, "A", "B", "C")}, nil)

	assert.Equal(t, []HighlightedEdge{
		{From: "A", To: "B", Flow: 0.5},
		{From: "B", To: "C", Flow: 0.5},
	}, o.Edges)
	assert.Empty(t, o.Validation.Defects)
	assert.Equal(t, StateHighlighted, o.State())
}

func TestOverlayTakesMaxNotSum(t *testing.T) {
	g := newABC(t)

	o := BuildOverlay(g, []PathRecord{
		NewPathRecord(0.3, "A", "B"),
		NewPathRecord(0.7, "A", "B"),
	}, nil)

	require.Len(t, o.Edges, 1)
	assert.Equal(t, HighlightedEdge{From: "A", To: "B", Flow: 0.7}, o.Edges[0])
}

func TestOverlayMissingNodeDiscardsRecord(t *testing.T) {
	g := newABC(t)
	rec := logging.NewRecorder()

	o := BuildOverlay(g, []PathRecord{NewPathRecord(1.0, "A", "X")}, rec)

	assert.Empty(t, o.Edges)
	require.Len(t, o.Validation.Defects, 1)
	d := o.Validation.Defects[0]
	assert.Equal(t, DefectMissingNode, d.Kind)
	assert.Equal(t, "X", d.Node)
	assert.True(t, d.Kind.Structural())
	assert.Equal(t, StateEmpty, o.State())

	debug := rec.Messages(logging.DebugLevel)
	require.Len(t, debug, 1)
	assert.Contains(t, debug[0], `node "X"`)
}

func TestOverlayMissingNodeDiscardsValidPrefix(t *testing.T) {
	g := newABC(t)

	// A->B is a real edge but the record is dropped as a whole
	o := BuildOverlay(g, []PathRecord{NewPathRecord(1.0, "A", "B", "X")}, nil)

	assert.Empty(t, o.Edges)
	assert.Equal(t, 0, o.Validation.RecordsAccepted)
	assert.Equal(t, 1, o.Validation.RecordsRejected())
}

func TestOverlayMissingEdgeExcludesOnlyThatSegment(t *testing.T) {
	g := newABC(t)
	require.NoError(t, g.AddNode("D", "Tech"))
	require.NoError(t, g.AddEdge("C", "D", 1))

	// B->A does not exist; A->B and C->D do
	o := BuildOverlay(g, []PathRecord{NewPathRecord(0.4, "C", "D")}, nil)
	require.Len(t, o.Edges, 1)

	o = BuildOverlay(g, []PathRecord{NewPathRecord(0.4, "A", "B", "A", "C", "D")}, nil)

	assert.Equal(t, []HighlightedEdge{
		{From: "A", To: "B", Flow: 0.4},
		{From: "C", To: "D", Flow: 0.4},
	}, o.Edges)

	defects := o.Validation.Defects
	require.Len(t, defects, 2)
	assert.Equal(t, Defect{Kind: DefectMissingEdge, PathIndex: 0, From: "B", To: "A"}, defects[0])
	assert.Equal(t, Defect{Kind: DefectMissingEdge, PathIndex: 0, From: "A", To: "C"}, defects[1])
	assert.Equal(t, 1, o.Validation.RecordsAccepted)

	s := o.Summary()
	assert.Equal(t, 2, s.SegmentsRejected)
	assert.Equal(t, 2, s.SegmentsKept)
	assert.Equal(t, 2, s.StructuralDefects())
}

func TestOverlayEmptyInput(t *testing.T) {
	g := newABC(t)

	for name, records := range map[string][]PathRecord{
		"nil":   nil,
		"empty": {},
	} {
		t.Run(name, func(t *testing.T) {
			o := BuildOverlay(g, records, nil)
			assert.NotNil(t, o.Edges)
			assert.Empty(t, o.Edges)
			assert.Empty(t, o.Validation.Defects)
			assert.Equal(t, StateEmpty, o.State())
			assert.Equal(t, 0, o.Summary().TotalDefects())
		})
	}
}

func TestValidateRecordDefects(t *testing.T) {
	g := newABC(t)

	tests := []struct {
		name   string
		record PathRecord
		kind   DefectKind
	}{
		{"empty path", PathRecord{Path: []string{}, Flow: flowPtr(1)}, DefectEmptyPath},
		{"nil path", PathRecord{Flow: flowPtr(1)}, DefectEmptyPath},
		{"missing flow", PathRecord{Path: []string{"A", "B"}}, DefectMissingFlow},
		{"negative flow", NewPathRecord(-0.1, "A", "B"), DefectInvalidFlow},
		{"nan flow", NewPathRecord(math.NaN(), "A", "B"), DefectInvalidFlow},
		{"infinite flow", NewPathRecord(math.Inf(1), "A", "B"), DefectInvalidFlow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Validate(g, []PathRecord{tt.record}, nil)
			assert.Empty(t, v.Segments)
			require.Len(t, v.Defects, 1)
			assert.Equal(t, tt.kind, v.Defects[0].Kind)
			assert.NotEmpty(t, v.Defects[0].String())
		})
	}
}

func TestValidateZeroFlowIsValid(t *testing.T) {
	g := newABC(t)

	o := BuildOverlay(g, []PathRecord{NewPathRecord(0, "A", "B")}, nil)

	require.Len(t, o.Edges, 1)
	assert.Equal(t, 0.0, o.Edges[0].Flow)
	assert.Empty(t, o.Validation.Defects)
}

func TestValidateSingleNodePath(t *testing.T) {
	g := newABC(t)

	v := Validate(g, []PathRecord{NewPathRecord(1, "A")}, nil)

	assert.Empty(t, v.Segments)
	assert.Empty(t, v.Defects)
	assert.Equal(t, 1, v.RecordsAccepted)
}

func TestValidateContinuesAfterDefects(t *testing.T) {
	g := newABC(t)

	v := Validate(g, []PathRecord{
		{Path: nil},
		NewPathRecord(1, "Q"),
		NewPathRecord(0.2, "B", "C"),
	}, nil)

	require.Len(t, v.Segments, 1)
	assert.Equal(t, Segment{From: "B", To: "C", Flow: 0.2, PathIndex: 2}, v.Segments[0])
	assert.Len(t, v.Defects, 2)
	assert.Equal(t, 3, v.RecordsSeen)
}

func TestOverlayLookup(t *testing.T) {
	g := newABC(t)
	o := BuildOverlay(g, []PathRecord{NewPathRecord(0.9, "B", "C")}, nil)

	e, ok := o.Lookup("B", "C")
	require.True(t, ok)
	assert.Equal(t, 0.9, e.Flow)

	_, ok = o.Lookup("C", "B")
	assert.False(t, ok)
}

func TestAggregateSortsLexicographically(t *testing.T) {
	edges := Aggregate([]Segment{
		{From: "B", To: "C", Flow: 1},
		{From: "A", To: "Z", Flow: 2},
		{From: "A", To: "B", Flow: 3},
	})

	keys := make([]string, len(edges))
	for i, e := range edges {
		keys[i] = e.Key().String()
	}
	assert.Equal(t, []string{"A->B", "A->Z", "B->C"}, keys)
}

func TestSummaryString(t *testing.T) {
	g := newABC(t)
	o := BuildOverlay(g, []PathRecord{
		NewPathRecord(1, "A", "B"),
		NewPathRecord(1, "A", "X"),
		{Path: []string{"A"}},
	}, nil)

	s := o.Summary()
	assert.Equal(t, 1, s.DefectsByKind[DefectMissingNode])
	assert.Equal(t, 1, s.DefectsByKind[DefectMissingFlow])
	assert.Equal(t, 2, s.RecordsRejected)
	assert.Equal(t,
		"1/3 paths accepted, 1 segments kept, 0 segments rejected, 1 edges highlighted (defects: missing_flow=1 missing_node=1)",
		s.String())
}
