package visualization

import (
	"github.com/dd0wney/cluso-flowviz/pkg/graph"
)

// Position represents a 2D coordinate
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// LayoutConfig configures layout parameters
type LayoutConfig struct {
	Width      float64 `yaml:"width"`      // Canvas width
	Height     float64 `yaml:"height"`     // Canvas height
	Iterations int     `yaml:"iterations"` // Number of iterations for iterative algorithms
	Padding    float64 `yaml:"padding"`    // Padding from edges
	Seed       int64   `yaml:"seed"`       // Seed for randomized initial positions
}

// DefaultLayoutConfig mirrors a 14x12 inch figure at 100 dpi with the spring layout seed of the original plots
func DefaultLayoutConfig() LayoutConfig {
	return LayoutConfig{
		Width:      1400,
		Height:     1200,
		Iterations: 50,
		Padding:    50,
		Seed:       42,
	}
}

// Layout interface for different layout algorithms
type Layout interface {
	ComputeLayout(g *graph.Graph, nodeIDs []string) (map[string]Position, error)
}

// Layout names accepted by NewLayout
const (
	LayoutForce        = "force"
	LayoutCircular     = "circular"
	LayoutHierarchical = "hierarchical"
)

// LayoutNames lists the accepted layout names
var LayoutNames = []string{LayoutForce, LayoutCircular, LayoutHierarchical}
