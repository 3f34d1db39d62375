package config

import (
	"errors"
	"sort"
)

// ErrUnknownDataset is returned for a dataset name without a preset
var ErrUnknownDataset = errors.New("unknown dataset")

// Preset is the file naming of a bundled dataset
type Preset struct {
	Companies   string
	Edges       string
	NetworkName string
	FlowName    string
}

// Presets holds the bundled datasets by name
var Presets = map[string]Preset{
	"small": {
		Companies:   "companies_small.csv",
		Edges:       "edges_small.csv",
		NetworkName: "small_network_visualization",
		FlowName:    "small_max_flow_visualization",
	},
	"50": {
		Companies:   "sector_mapping_50.csv",
		Edges:       "edges_weights_50.csv",
		NetworkName: "50_network_visualization",
		FlowName:    "50_max_flow_visualization",
	},
}

// PresetNames returns the dataset names in sorted order
func PresetNames() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
