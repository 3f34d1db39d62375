package visualization

import (
	"github.com/dd0wney/cluso-flowviz/pkg/graph"
)

// HierarchicalLayout arranges nodes in levels by breadth-first distance from the roots
type HierarchicalLayout struct {
	config *LayoutConfig
}

// NewHierarchicalLayout creates a new hierarchical layout
func NewHierarchicalLayout(config *LayoutConfig) *HierarchicalLayout {
	if config.Padding == 0 {
		config.Padding = 50
	}
	return &HierarchicalLayout{config: config}
}

// ComputeLayout arranges nodes hierarchically. Roots are nodes without incoming edges;
// when there are none the first node is used.
func (hl *HierarchicalLayout) ComputeLayout(g *graph.Graph, nodeIDs []string) (map[string]Position, error) {
	positions := make(map[string]Position, len(nodeIDs))
	if len(nodeIDs) == 0 {
		return positions, nil
	}

	included := make(map[string]bool, len(nodeIDs))
	for _, id := range nodeIDs {
		included[id] = true
	}

	roots := make([]string, 0)
	for _, id := range nodeIDs {
		if g.InDegree(id) == 0 {
			roots = append(roots, id)
		}
	}
	if len(roots) == 0 {
		roots = []string{nodeIDs[0]}
	}

	levels := make([][]string, 0)
	visited := make(map[string]bool)
	for _, r := range roots {
		visited[r] = true
	}
	current := roots

	for len(current) > 0 {
		levels = append(levels, current)
		next := make([]string, 0)
		for _, id := range current {
			for _, to := range g.Successors(id) {
				if included[to] && !visited[to] {
					visited[to] = true
					next = append(next, to)
				}
			}
		}
		current = next
	}

	// unreachable nodes go on the last level
	for _, id := range nodeIDs {
		if !visited[id] {
			levels[len(levels)-1] = append(levels[len(levels)-1], id)
		}
	}

	levelHeight := (hl.config.Height - 2*hl.config.Padding) / float64(len(levels))
	levelWidth := hl.config.Width - 2*hl.config.Padding

	for levelIdx, level := range levels {
		y := hl.config.Padding + float64(levelIdx)*levelHeight + levelHeight/2
		spacing := levelWidth / float64(len(level)+1)
		for nodeIdx, id := range level {
			positions[id] = Position{X: hl.config.Padding + spacing*float64(nodeIdx+1), Y: y}
		}
	}

	return positions, nil
}
