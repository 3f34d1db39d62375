package visualization

import (
	"errors"
	"fmt"
	"io"

	"github.com/dd0wney/cluso-flowviz/pkg/graph"
	"github.com/dd0wney/cluso-flowviz/pkg/style"
)

// Output formats accepted by NewRenderer
const (
	FormatSVG  = "svg"
	FormatDOT  = "dot"
	FormatJSON = "json"
)

// Formats lists the accepted output formats
var Formats = []string{FormatSVG, FormatDOT, FormatJSON}

// ErrUnknownFormat is returned by NewRenderer for unsupported formats
var ErrUnknownFormat = errors.New("unknown render format")

// Renderer draws a scene at the given node positions
type Renderer interface {
	Render(w io.Writer, scene *style.Scene, positions map[string]Position) error
	// Extension is the file extension of the produced artifact, without the dot
	Extension() string
	// ContentType is the MIME type of the produced artifact
	ContentType() string
}

// NewRenderer returns the renderer for format
func NewRenderer(format string, config LayoutConfig) (Renderer, error) {
	switch format {
	case FormatSVG, "":
		return &SVGRenderer{Width: config.Width, Height: config.Height}, nil
	case FormatDOT:
		return &DOTRenderer{}, nil
	case FormatJSON:
		return &JSONRenderer{}, nil
	default:
		return nil, fmt.Errorf("%w: %q (want one of %v)", ErrUnknownFormat, format, Formats)
	}
}

// Visualization bundles a scene with its layout
type Visualization struct {
	Scene     *style.Scene
	Positions map[string]Position
}

// Compose lays out every node of the scene with layout
func Compose(layout Layout, g *graph.Graph, scene *style.Scene) (*Visualization, error) {
	ids := make([]string, len(scene.Nodes))
	for i, n := range scene.Nodes {
		ids[i] = n.ID
	}
	positions, err := layout.ComputeLayout(g, ids)
	if err != nil {
		return nil, fmt.Errorf("compute layout: %w", err)
	}
	return &Visualization{Scene: scene, Positions: positions}, nil
}

// Render writes the visualization with r
func (v *Visualization) Render(w io.Writer, r Renderer) error {
	return r.Render(w, v.Scene, v.Positions)
}
