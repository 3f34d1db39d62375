package style

// NodeRole marks nodes that get the endpoint override
type NodeRole string

const (
	RoleNone   NodeRole = ""
	RoleSource NodeRole = "source"
	RoleSink   NodeRole = "sink"
)

// NodeStyle holds the draw parameters of one node
type NodeStyle struct {
	ID           string   `json:"id"`
	Sector       string   `json:"sector,omitempty"`
	Color        string   `json:"color"`
	Alpha        float64  `json:"alpha"`
	Size         float64  `json:"size"`
	OutlineColor string   `json:"outline_color,omitempty"`
	OutlineWidth float64  `json:"outline_width,omitempty"`
	Role         NodeRole `json:"role,omitempty"`
}

// EdgeStyle holds the draw parameters of one directed edge
type EdgeStyle struct {
	From        string  `json:"from"`
	To          string  `json:"to"`
	Weight      float64 `json:"weight"`
	Width       float64 `json:"width"`
	Color       string  `json:"color"`
	Alpha       float64 `json:"alpha"`
	Highlighted bool    `json:"highlighted,omitempty"`
	Flow        float64 `json:"flow,omitempty"`
}

// LegendKind distinguishes marker entries from line entries
type LegendKind string

const (
	LegendMarker LegendKind = "marker"
	LegendLine   LegendKind = "line"
)

// LegendEntry is one row of the plot legend
type LegendEntry struct {
	Label        string     `json:"label"`
	Color        string     `json:"color"`
	Kind         LegendKind `json:"kind"`
	OutlineColor string     `json:"outline_color,omitempty"`
}

// Scene is the complete draw-parameter set handed to a renderer.
// Edges are in draw order: background edges first, highlighted edges on top.
type Scene struct {
	Title       string        `json:"title"`
	LegendTitle string        `json:"legend_title"`
	Nodes       []NodeStyle   `json:"nodes"`
	Edges       []EdgeStyle   `json:"edges"`
	Legend      []LegendEntry `json:"legend"`
}

// HighlightedEdges returns the edges drawn as flow paths
func (s *Scene) HighlightedEdges() []EdgeStyle {
	out := make([]EdgeStyle, 0)
	for _, e := range s.Edges {
		if e.Highlighted {
			out = append(out, e)
		}
	}
	return out
}

// Node returns the style of the node with the given id
func (s *Scene) Node(id string) (NodeStyle, bool) {
	for _, n := range s.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return NodeStyle{}, false
}
