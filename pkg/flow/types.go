package flow

import (
	"fmt"

	"github.com/dd0wney/cluso-flowviz/pkg/graph"
)

// Topology is the read-only view of the graph the flow overlay needs
type Topology interface {
	HasNode(id string) bool
	HasEdge(from, to string) bool
}

// PathRecord is one externally computed flow path: a node sequence and its flow.
// A nil Flow means the value was absent, which is distinct from a zero flow.
type PathRecord struct {
	Path []string `json:"path"`
	Flow *float64 `json:"flow"`
}

// NewPathRecord builds a record with a present flow value
func NewPathRecord(flow float64, nodes ...string) PathRecord {
	return PathRecord{Path: nodes, Flow: &flow}
}

// Results is the max-flow computation output the overlay visualizes
type Results struct {
	Source  string       `json:"source" validate:"required"`
	Sink    string       `json:"sink" validate:"required"`
	MaxFlow float64      `json:"max_flow"`
	Paths   []PathRecord `json:"paths" validate:"required,min=1"`
}

// Segment is a consecutive node pair of a record confirmed to be an edge of the graph
type Segment struct {
	From      string
	To        string
	Flow      float64
	PathIndex int
}

// Key returns the ordered pair of the segment
func (s Segment) Key() graph.EdgeKey {
	return graph.EdgeKey{From: s.From, To: s.To}
}

// HighlightedEdge is a graph edge traversed by at least one valid segment.
// Flow is the maximum flow among those segments.
type HighlightedEdge struct {
	From string
	To   string
	Flow float64
}

// Key returns the ordered pair of the edge
func (h HighlightedEdge) Key() graph.EdgeKey {
	return graph.EdgeKey{From: h.From, To: h.To}
}

// DefectKind classifies a structural or data defect found in a path record
type DefectKind int

const (
	// DefectEmptyPath is a record whose node sequence is missing or empty
	DefectEmptyPath DefectKind = iota
	// DefectMissingFlow is a record without a flow value
	DefectMissingFlow
	// DefectInvalidFlow is a record whose flow is negative, NaN or infinite
	DefectInvalidFlow
	// DefectMissingNode is a record referencing a node absent from the graph
	DefectMissingNode
	// DefectMissingEdge is a segment whose nodes exist but are not joined by an edge
	DefectMissingEdge
)

// DefectKinds lists every kind in reporting order
var DefectKinds = []DefectKind{
	DefectEmptyPath,
	DefectMissingFlow,
	DefectInvalidFlow,
	DefectMissingNode,
	DefectMissingEdge,
}

func (k DefectKind) String() string {
	switch k {
	case DefectEmptyPath:
		return "empty_path"
	case DefectMissingFlow:
		return "missing_flow"
	case DefectInvalidFlow:
		return "invalid_flow"
	case DefectMissingNode:
		return "missing_node"
	case DefectMissingEdge:
		return "missing_edge"
	default:
		return "unknown"
	}
}

// Structural reports whether the defect references graph elements that do not exist
func (k DefectKind) Structural() bool {
	return k == DefectMissingNode || k == DefectMissingEdge
}

// Defect describes one rejected record or segment
type Defect struct {
	Kind      DefectKind
	PathIndex int
	Node      string  // DefectMissingNode
	From      string  // DefectMissingEdge
	To        string  // DefectMissingEdge
	Flow      float64 // DefectInvalidFlow
}

// SegmentLevel reports whether only a single segment, not the whole record, was rejected
func (d Defect) SegmentLevel() bool {
	return d.Kind == DefectMissingEdge
}

func (d Defect) String() string {
	switch d.Kind {
	case DefectMissingNode:
		return fmt.Sprintf("path %d: node %q is not in the graph", d.PathIndex, d.Node)
	case DefectMissingEdge:
		return fmt.Sprintf("path %d: edge %s->%s is not in the graph", d.PathIndex, d.From, d.To)
	case DefectInvalidFlow:
		return fmt.Sprintf("path %d: flow %v is not a finite non-negative number", d.PathIndex, d.Flow)
	case DefectMissingFlow:
		return fmt.Sprintf("path %d: flow value is missing", d.PathIndex)
	case DefectEmptyPath:
		return fmt.Sprintf("path %d: node sequence is missing or empty", d.PathIndex)
	default:
		return fmt.Sprintf("path %d: unknown defect", d.PathIndex)
	}
}
