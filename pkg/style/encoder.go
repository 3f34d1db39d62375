package style

import (
	"errors"
	"fmt"
	"math"

	"github.com/dd0wney/cluso-flowviz/pkg/flow"
	"github.com/dd0wney/cluso-flowviz/pkg/graph"
)

// ErrMissingEndpoint is wrapped by MissingEndpointError
var ErrMissingEndpoint = errors.New("flow endpoint not in graph")

// MissingEndpointError reports that the requested source or sink is absent from the graph.
// No flow highlighting is attempted when it is returned.
type MissingEndpointError struct {
	Role NodeRole
	ID   string
}

func (e *MissingEndpointError) Error() string {
	return fmt.Sprintf("%s node %q is not in the graph", e.Role, e.ID)
}

func (e *MissingEndpointError) Unwrap() error {
	return ErrMissingEndpoint
}

// Encoder maps sectors, weights and aggregated flows to draw parameters.
//
// Sector colors are assigned once, at construction, in the order of the sector list
// given to it. The same sector order always yields the same assignment; ForGraph uses
// the first-seen order of the graph's nodes, so the same node insertion order yields
// the same colors.
type Encoder struct {
	cfg     Config
	sectors []string
	colors  map[string]string
}

// NewEncoder builds the sector color table from an ordered sector list; duplicates are ignored
func NewEncoder(cfg Config, sectors []string) *Encoder {
	ordered := make([]string, 0, len(sectors))
	seen := make(map[string]bool, len(sectors))
	for _, s := range sectors {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		ordered = append(ordered, s)
	}

	palette := Palette(len(ordered))
	colors := make(map[string]string, len(ordered))
	for i, s := range ordered {
		colors[s] = palette[i]
	}

	return &Encoder{cfg: cfg, sectors: ordered, colors: colors}
}

// ForGraph builds an encoder over the graph's sectors in first-seen node order
func ForGraph(cfg Config, g *graph.Graph) *Encoder {
	return NewEncoder(cfg, g.Sectors())
}

// Sectors returns the sectors in color assignment order
func (e *Encoder) Sectors() []string {
	return append([]string(nil), e.sectors...)
}

// SectorColor returns the color assigned to a sector
func (e *Encoder) SectorColor(sector string) (string, bool) {
	c, ok := e.colors[sector]
	return c, ok
}

// NodeColor returns the sector color of n, or FallbackColor when n has no sector
// or a sector the encoder does not know
func (e *Encoder) NodeColor(n graph.Node) string {
	if c, ok := e.colors[n.Sector]; ok {
		return c
	}
	return FallbackColor
}

// EdgeWidths rescales weights so the heaviest edge gets MaxEdgeWidth.
// When every weight is zero all edges get DefaultEdgeWidth so they stay visible.
func (e *Encoder) EdgeWidths(edges []graph.Edge) []float64 {
	widths := make([]float64, len(edges))
	maxWeight := 0.0
	for _, edge := range edges {
		maxWeight = math.Max(maxWeight, edge.Weight)
	}
	for i, edge := range edges {
		if maxWeight > 0 {
			widths[i] = e.cfg.MaxEdgeWidth * edge.Weight / maxWeight
		} else {
			widths[i] = e.cfg.DefaultEdgeWidth
		}
	}
	return widths
}

// FlowWidth returns max(FlowMinWidth, FlowBaseWidth + FlowScale*flow)
func (e *Encoder) FlowWidth(flow float64) float64 {
	return math.Max(e.cfg.FlowMinWidth, e.cfg.FlowBaseWidth+e.cfg.FlowScale*flow)
}

func (e *Encoder) nodeStyles(g *graph.Graph) []NodeStyle {
	nodes := g.Nodes()
	styles := make([]NodeStyle, 0, len(nodes))
	for _, n := range nodes {
		styles = append(styles, NodeStyle{
			ID:     n.ID,
			Sector: n.Sector,
			Color:  e.NodeColor(n),
			Alpha:  e.cfg.NodeAlpha,
			Size:   e.cfg.NodeSize,
		})
	}
	return styles
}

func (e *Encoder) sectorLegend() []LegendEntry {
	legend := make([]LegendEntry, 0, len(e.sectors)+3)
	for _, s := range e.sectors {
		legend = append(legend, LegendEntry{Label: s, Color: e.colors[s], Kind: LegendMarker})
	}
	return legend
}

func (e *Encoder) backgroundEdges(g *graph.Graph) []EdgeStyle {
	edges := g.Edges()
	styles := make([]EdgeStyle, 0, len(edges))
	for _, edge := range edges {
		styles = append(styles, EdgeStyle{
			From:   edge.From,
			To:     edge.To,
			Weight: edge.Weight,
			Width:  e.cfg.BackgroundEdgeWidth,
			Color:  e.cfg.BackgroundEdgeColor,
			Alpha:  e.cfg.BackgroundEdgeAlpha,
		})
	}
	return styles
}

// EncodeNetwork returns the generic view: sector colored nodes and gray edges
// whose width follows their weight
func (e *Encoder) EncodeNetwork(g *graph.Graph, title string) *Scene {
	edges := g.Edges()
	widths := e.EdgeWidths(edges)

	styles := make([]EdgeStyle, 0, len(edges))
	for i, edge := range edges {
		styles = append(styles, EdgeStyle{
			From:   edge.From,
			To:     edge.To,
			Weight: edge.Weight,
			Width:  widths[i],
			Color:  e.cfg.EdgeColor,
			Alpha:  e.cfg.EdgeAlpha,
		})
	}

	return &Scene{
		Title:       title,
		LegendTitle: "Sectors",
		Nodes:       e.nodeStyles(g),
		Edges:       styles,
		Legend:      e.sectorLegend(),
	}
}

// CheckEndpoints returns a MissingEndpointError for the first of source, sink absent from g
func CheckEndpoints(g *graph.Graph, source, sink string) error {
	if !g.HasNode(source) {
		return &MissingEndpointError{Role: RoleSource, ID: source}
	}
	if !g.HasNode(sink) {
		return &MissingEndpointError{Role: RoleSink, ID: sink}
	}
	return nil
}

// EncodeFlow returns the flow view: every edge drawn thin in the background, the
// overlay's edges on top with flow-scaled width, and source and sink marked with
// their reserved colors. When source or sink is missing from g it returns a
// *MissingEndpointError and no scene.
func (e *Encoder) EncodeFlow(g *graph.Graph, overlay *flow.Overlay, source, sink string) (*Scene, error) {
	if err := CheckEndpoints(g, source, sink); err != nil {
		return nil, err
	}

	edges := e.backgroundEdges(g)
	for _, h := range overlay.Edges {
		edge, ok := g.Edge(h.From, h.To)
		if !ok {
			// overlay built against a different graph
			return nil, fmt.Errorf("highlighted edge %s->%s is not in the graph", h.From, h.To)
		}
		edges = append(edges, EdgeStyle{
			From:        h.From,
			To:          h.To,
			Weight:      edge.Weight,
			Width:       e.FlowWidth(h.Flow),
			Color:       e.cfg.FlowEdgeColor,
			Alpha:       e.cfg.FlowEdgeAlpha,
			Highlighted: true,
			Flow:        h.Flow,
		})
	}

	nodes := e.nodeStyles(g)
	for i := range nodes {
		// sink last: a node that is both source and sink is drawn as the sink
		switch nodes[i].ID {
		case sink:
			e.markEndpoint(&nodes[i], RoleSink, SinkColor)
		case source:
			e.markEndpoint(&nodes[i], RoleSource, SourceColor)
		}
	}

	legend := e.sectorLegend()
	if overlay.State() == flow.StateHighlighted {
		legend = append(legend, LegendEntry{Label: "Max Flow Path", Color: e.cfg.FlowEdgeColor, Kind: LegendLine})
	}
	legend = append(legend,
		LegendEntry{Label: "Source Node", Color: SourceColor, Kind: LegendMarker, OutlineColor: e.cfg.OutlineColor},
		LegendEntry{Label: "Sink Node", Color: SinkColor, Kind: LegendMarker, OutlineColor: e.cfg.OutlineColor},
	)

	return &Scene{
		Title:       fmt.Sprintf("Maximum Flow from %s to %s", source, sink),
		LegendTitle: "Legend",
		Nodes:       nodes,
		Edges:       edges,
		Legend:      legend,
	}, nil
}

func (e *Encoder) markEndpoint(n *NodeStyle, role NodeRole, color string) {
	n.Role = role
	n.Color = color
	n.Alpha = 1
	n.Size = e.cfg.EndpointSize
	n.OutlineColor = e.cfg.OutlineColor
	n.OutlineWidth = e.cfg.EndpointOutlineWidth
}

// EncodeDegraded returns the fallback view drawn when a flow endpoint is missing:
// sector colored nodes, thin background edges, no highlighting
func (e *Encoder) EncodeDegraded(g *graph.Graph, missing *MissingEndpointError) *Scene {
	role := "Endpoint"
	switch missing.Role {
	case RoleSource:
		role = "Source"
	case RoleSink:
		role = "Sink"
	}
	return &Scene{
		Title:       fmt.Sprintf("Graph (%s '%s' not found)", role, missing.ID),
		LegendTitle: "Sectors",
		Nodes:       e.nodeStyles(g),
		Edges:       e.backgroundEdges(g),
		Legend:      e.sectorLegend(),
	}
}
