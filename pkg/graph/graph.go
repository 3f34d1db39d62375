package graph

import (
	"errors"
	"fmt"
	"math"
)

// UnknownSector is assigned to company rows that carry no sector value
const UnknownSector = "Unknown"

var (
	// ErrEmptyNodeID is returned when a node or edge endpoint identifier is empty
	ErrEmptyNodeID = errors.New("node id cannot be empty")
	// ErrInvalidWeight is returned for negative, NaN or infinite edge weights
	ErrInvalidWeight = errors.New("edge weight must be a finite non-negative number")
)

// Node is a company in the graph
type Node struct {
	ID     string
	Sector string // empty when the node was created implicitly by an edge
}

// HasSector reports whether the node carries a sector attribute
func (n Node) HasSector() bool {
	return n.Sector != ""
}

// EdgeKey identifies a directed edge by its ordered endpoints
type EdgeKey struct {
	From string
	To   string
}

// String returns "from->to"
func (k EdgeKey) String() string {
	return k.From + "->" + k.To
}

// Less orders keys lexicographically on (From, To)
func (k EdgeKey) Less(other EdgeKey) bool {
	if k.From != other.From {
		return k.From < other.From
	}
	return k.To < other.To
}

// Edge is a directed weighted relationship between two companies
type Edge struct {
	From   string
	To     string
	Weight float64
}

// Key returns the ordered pair identifying the edge
func (e Edge) Key() EdgeKey {
	return EdgeKey{From: e.From, To: e.To}
}

// Graph is an in-memory directed weighted graph with a sector attribute per node.
// Iteration order of nodes and edges is the order of first insertion, which makes
// everything derived from it (sector colors, layouts) reproducible for the same input.
// A Graph is not safe for concurrent mutation; once built it is only read.
type Graph struct {
	nodes     map[string]*Node
	nodeOrder []string

	edges     map[EdgeKey]*Edge
	edgeOrder []EdgeKey

	outgoing map[string][]string
	incoming map[string][]string
}

// New creates an empty graph
func New() *Graph {
	return &Graph{
		nodes:    make(map[string]*Node),
		edges:    make(map[EdgeKey]*Edge),
		outgoing: make(map[string][]string),
		incoming: make(map[string][]string),
	}
}

// AddNode adds a company node. An empty sector is stored as UnknownSector.
// Adding an existing id overwrites its sector and keeps its position.
func (g *Graph) AddNode(id, sector string) error {
	if id == "" {
		return ErrEmptyNodeID
	}
	if sector == "" {
		sector = UnknownSector
	}
	g.ensureNode(id).Sector = sector
	return nil
}

func (g *Graph) ensureNode(id string) *Node {
	if n, ok := g.nodes[id]; ok {
		return n
	}
	n := &Node{ID: id}
	g.nodes[id] = n
	g.nodeOrder = append(g.nodeOrder, id)
	return n
}

// AddEdge adds or overwrites the directed edge from -> to.
// Endpoints that do not exist yet are created without a sector.
func (g *Graph) AddEdge(from, to string, weight float64) error {
	if from == "" || to == "" {
		return ErrEmptyNodeID
	}
	if weight < 0 || math.IsNaN(weight) || math.IsInf(weight, 0) {
		return fmt.Errorf("%w: %s->%s weight %v", ErrInvalidWeight, from, to, weight)
	}

	g.ensureNode(from)
	g.ensureNode(to)

	key := EdgeKey{From: from, To: to}
	if e, ok := g.edges[key]; ok {
		e.Weight = weight
		return nil
	}

	g.edges[key] = &Edge{From: from, To: to, Weight: weight}
	g.edgeOrder = append(g.edgeOrder, key)
	g.outgoing[from] = append(g.outgoing[from], to)
	g.incoming[to] = append(g.incoming[to], from)
	return nil
}

// HasNode reports whether id is a node of the graph
func (g *Graph) HasNode(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// HasEdge reports whether the directed edge from -> to exists
func (g *Graph) HasEdge(from, to string) bool {
	_, ok := g.edges[EdgeKey{From: from, To: to}]
	return ok
}

// Node returns a copy of the node with the given id
func (g *Graph) Node(id string) (Node, bool) {
	n, ok := g.nodes[id]
	if !ok {
		return Node{}, false
	}
	return *n, true
}

// Edge returns a copy of the directed edge from -> to
func (g *Graph) Edge(from, to string) (Edge, bool) {
	e, ok := g.edges[EdgeKey{From: from, To: to}]
	if !ok {
		return Edge{}, false
	}
	return *e, true
}

// Nodes returns all nodes in insertion order
func (g *Graph) Nodes() []Node {
	out := make([]Node, 0, len(g.nodeOrder))
	for _, id := range g.nodeOrder {
		out = append(out, *g.nodes[id])
	}
	return out
}

// NodeIDs returns all node ids in insertion order
func (g *Graph) NodeIDs() []string {
	out := make([]string, len(g.nodeOrder))
	copy(out, g.nodeOrder)
	return out
}

// Edges returns all edges in order of first insertion
func (g *Graph) Edges() []Edge {
	out := make([]Edge, 0, len(g.edgeOrder))
	for _, key := range g.edgeOrder {
		out = append(out, *g.edges[key])
	}
	return out
}

// Sectors returns the distinct sectors of nodes that carry one, in first-seen node order
func (g *Graph) Sectors() []string {
	seen := make(map[string]bool)
	sectors := make([]string, 0)
	for _, id := range g.nodeOrder {
		n := g.nodes[id]
		if !n.HasSector() || seen[n.Sector] {
			continue
		}
		seen[n.Sector] = true
		sectors = append(sectors, n.Sector)
	}
	return sectors
}

// Successors returns the targets of edges leaving id
func (g *Graph) Successors(id string) []string {
	return append([]string(nil), g.outgoing[id]...)
}

// Predecessors returns the sources of edges entering id
func (g *Graph) Predecessors(id string) []string {
	return append([]string(nil), g.incoming[id]...)
}

// InDegree returns the number of edges entering id
func (g *Graph) InDegree(id string) int {
	return len(g.incoming[id])
}

// NodeCount returns the number of nodes
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the number of distinct directed edges
func (g *Graph) EdgeCount() int {
	return len(g.edges)
}
