package flow

import (
	"github.com/dd0wney/cluso-flowviz/pkg/graph"
	"github.com/dd0wney/cluso-flowviz/pkg/logging"
)

// State describes whether an overlay has anything to draw
type State int

const (
	// StateEmpty means nothing to highlight. It is a valid outcome, not an error.
	StateEmpty State = iota
	// StateHighlighted means at least one edge is highlighted
	StateHighlighted
)

func (s State) String() string {
	if s == StateHighlighted {
		return "highlighted"
	}
	return "empty"
}

// Overlay is the deduplicated set of highlighted edges plus the defects found on the way
type Overlay struct {
	Edges      []HighlightedEdge
	Validation *Validation

	index map[graph.EdgeKey]int
}

// BuildOverlay validates records against topo and aggregates the surviving segments
func BuildOverlay(topo Topology, records []PathRecord, logger logging.Logger) *Overlay {
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	v := Validate(topo, records, logger)
	edges := Aggregate(v.Segments)

	o := &Overlay{
		Edges:      edges,
		Validation: v,
		index:      make(map[graph.EdgeKey]int, len(edges)),
	}
	for i, e := range edges {
		o.index[e.Key()] = i
	}

	if len(v.Defects) > 0 {
		logger.Warn("flow paths rejected",
			logging.Int("records_rejected", v.RecordsRejected()),
			logging.Int("defects", len(v.Defects)),
		)
	}
	logger.Info("flow overlay built",
		logging.Int("records", v.RecordsSeen),
		logging.Int("segments", len(v.Segments)),
		logging.Int("highlighted_edges", len(edges)),
		logging.String("state", o.State().String()),
	)
	return o
}

// State returns StateEmpty when there is nothing to highlight
func (o *Overlay) State() State {
	if len(o.Edges) == 0 {
		return StateEmpty
	}
	return StateHighlighted
}

// Lookup returns the highlighted edge for the ordered pair, if any
func (o *Overlay) Lookup(from, to string) (HighlightedEdge, bool) {
	i, ok := o.index[graph.EdgeKey{From: from, To: to}]
	if !ok {
		return HighlightedEdge{}, false
	}
	return o.Edges[i], true
}

// Summary returns the diagnostic counts for the overlay
func (o *Overlay) Summary() Summary {
	return Summarize(o.Validation, len(o.Edges))
}
