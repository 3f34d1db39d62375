package style

import (
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/dd0wney/cluso-flowviz/pkg/validation"
)

// Config holds the draw parameters of both views
type Config struct {
	NodeSize             float64 `yaml:"node_size"`
	NodeAlpha            float64 `yaml:"node_alpha"`
	EndpointSize         float64 `yaml:"endpoint_size"`
	EndpointOutlineWidth float64 `yaml:"endpoint_outline_width"`
	OutlineColor         string  `yaml:"outline_color"`

	// network view
	MaxEdgeWidth     float64 `yaml:"max_edge_width"`
	DefaultEdgeWidth float64 `yaml:"default_edge_width"`
	EdgeColor        string  `yaml:"edge_color"`
	EdgeAlpha        float64 `yaml:"edge_alpha"`

	// flow view
	BackgroundEdgeWidth float64 `yaml:"background_edge_width"`
	BackgroundEdgeColor string  `yaml:"background_edge_color"`
	BackgroundEdgeAlpha float64 `yaml:"background_edge_alpha"`
	FlowBaseWidth       float64 `yaml:"flow_base_width"`
	FlowScale           float64 `yaml:"flow_scale"`
	FlowMinWidth        float64 `yaml:"flow_min_width"`
	FlowEdgeColor       string  `yaml:"flow_edge_color"`
	FlowEdgeAlpha       float64 `yaml:"flow_edge_alpha"`
}

// DefaultConfig returns the draw parameters of the original network plots
func DefaultConfig() Config {
	return Config{
		NodeSize:             300,
		NodeAlpha:            0.8,
		EndpointSize:         500,
		EndpointOutlineWidth: 2,
		OutlineColor:         "#000000",

		MaxEdgeWidth:     3,
		DefaultEdgeWidth: 1,
		EdgeColor:        "#808080",
		EdgeAlpha:        0.5,

		BackgroundEdgeWidth: 0.5,
		BackgroundEdgeColor: "#d3d3d3",
		BackgroundEdgeAlpha: 0.3,
		FlowBaseWidth:       1,
		FlowScale:           5,
		FlowMinWidth:        0.5,
		FlowEdgeColor:       "#0000ff",
		FlowEdgeAlpha:       0.7,
	}
}

// Validate checks that every width stays visible and every color parses
func (c Config) Validate() error {
	cv := validation.NewConfigValidator("style")
	cv.PositiveFloat("node_size", c.NodeSize).
		PositiveFloat("endpoint_size", c.EndpointSize).
		NonNegativeFloat("endpoint_outline_width", c.EndpointOutlineWidth).
		PositiveFloat("max_edge_width", c.MaxEdgeWidth).
		PositiveFloat("default_edge_width", c.DefaultEdgeWidth).
		PositiveFloat("background_edge_width", c.BackgroundEdgeWidth).
		NonNegativeFloat("flow_base_width", c.FlowBaseWidth).
		NonNegativeFloat("flow_scale", c.FlowScale).
		PositiveFloat("flow_min_width", c.FlowMinWidth)

	cv.RangeFloat("node_alpha", c.NodeAlpha, 0, 1).
		RangeFloat("edge_alpha", c.EdgeAlpha, 0, 1).
		RangeFloat("background_edge_alpha", c.BackgroundEdgeAlpha, 0, 1).
		RangeFloat("flow_edge_alpha", c.FlowEdgeAlpha, 0, 1)

	cv.Custom("outline_color", parsesAsHex(c.OutlineColor)).
		Custom("edge_color", parsesAsHex(c.EdgeColor)).
		Custom("background_edge_color", parsesAsHex(c.BackgroundEdgeColor)).
		Custom("flow_edge_color", parsesAsHex(c.FlowEdgeColor))

	return cv.Validate()
}

func parsesAsHex(hex string) func() error {
	return func() error {
		_, err := colorful.Hex(hex)
		return err
	}
}
