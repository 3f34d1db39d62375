package visualization

import (
	"encoding/json"
	"io"

	"github.com/dd0wney/cluso-flowviz/pkg/style"
)

// JSONRenderer exports the scene with node coordinates for client-side drawing
type JSONRenderer struct{}

func (r *JSONRenderer) Extension() string   { return "json" }
func (r *JSONRenderer) ContentType() string { return "application/json" }

type nodeViz struct {
	style.NodeStyle
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type vizData struct {
	Title       string              `json:"title"`
	LegendTitle string              `json:"legend_title"`
	Nodes       []nodeViz           `json:"nodes"`
	Edges       []style.EdgeStyle   `json:"edges"`
	Legend      []style.LegendEntry `json:"legend"`
}

// Render writes the scene as indented JSON
func (r *JSONRenderer) Render(w io.Writer, scene *style.Scene, positions map[string]Position) error {
	data := vizData{
		Title:       scene.Title,
		LegendTitle: scene.LegendTitle,
		Nodes:       make([]nodeViz, 0, len(scene.Nodes)),
		Edges:       scene.Edges,
		Legend:      scene.Legend,
	}
	for _, n := range scene.Nodes {
		p := positions[n.ID]
		data.Nodes = append(data.Nodes, nodeViz{NodeStyle: n, X: p.X, Y: p.Y})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
