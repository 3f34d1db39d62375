package visualization

import (
	"math"
	"math/rand"

	"github.com/dd0wney/cluso-flowviz/pkg/graph"
)

// ForceDirectedLayout implements a Fruchterman-Reingold style spring layout.
// Initial positions come from a seeded source, so the same graph, node order
// and seed always produce the same picture.
type ForceDirectedLayout struct {
	config *LayoutConfig
}

// NewForceDirectedLayout creates a new force-directed layout
func NewForceDirectedLayout(config *LayoutConfig) *ForceDirectedLayout {
	if config.Iterations == 0 {
		config.Iterations = 50
	}
	if config.Padding == 0 {
		config.Padding = 50
	}
	return &ForceDirectedLayout{config: config}
}

// ComputeLayout computes positions using force-directed algorithm
func (fdl *ForceDirectedLayout) ComputeLayout(g *graph.Graph, nodeIDs []string) (map[string]Position, error) {
	if len(nodeIDs) == 0 {
		return make(map[string]Position), nil
	}

	if len(nodeIDs) == 1 {
		return map[string]Position{
			nodeIDs[0]: {X: fdl.config.Width / 2, Y: fdl.config.Height / 2},
		}, nil
	}

	cfg := fdl.config
	rng := rand.New(rand.NewSource(cfg.Seed))

	index := make(map[string]int, len(nodeIDs))
	for i, id := range nodeIDs {
		index[id] = i
	}

	pos := make([]Position, len(nodeIDs))
	for i := range nodeIDs {
		pos[i] = Position{
			X: rng.Float64()*(cfg.Width-2*cfg.Padding) + cfg.Padding,
			Y: rng.Float64()*(cfg.Height-2*cfg.Padding) + cfg.Padding,
		}
	}

	// undirected adjacency restricted to nodeIDs, in stable order
	neighbors := make([][]int, len(nodeIDs))
	for i, id := range nodeIDs {
		seen := make(map[int]bool)
		for _, other := range append(g.Successors(id), g.Predecessors(id)...) {
			j, ok := index[other]
			if !ok || j == i || seen[j] {
				continue
			}
			seen[j] = true
			neighbors[i] = append(neighbors[i], j)
		}
	}

	k := math.Sqrt((cfg.Width * cfg.Height) / float64(len(nodeIDs))) // optimal distance
	temperature := cfg.Width / 10.0
	forces := make([]Position, len(nodeIDs))

	for iter := 0; iter < cfg.Iterations; iter++ {
		for i := range forces {
			forces[i] = Position{}
		}

		// repulsion between all pairs
		for i := 0; i < len(pos); i++ {
			for j := i + 1; j < len(pos); j++ {
				dx := pos[i].X - pos[j].X
				dy := pos[i].Y - pos[j].Y
				dist := math.Max(math.Sqrt(dx*dx+dy*dy), 0.01)

				force := (k * k) / dist
				fx := (dx / dist) * force
				fy := (dy / dist) * force

				forces[i].X += fx
				forces[i].Y += fy
				forces[j].X -= fx
				forces[j].Y -= fy
			}
		}

		// attraction along edges
		for i, adj := range neighbors {
			for _, j := range adj {
				dx := pos[i].X - pos[j].X
				dy := pos[i].Y - pos[j].Y
				dist := math.Sqrt(dx*dx + dy*dy)
				if dist < 0.01 {
					continue
				}

				force := (dist * dist) / k
				forces[i].X -= (dx / dist) * force
				forces[i].Y -= (dy / dist) * force
			}
		}

		cool := 1.0 - float64(iter)/float64(cfg.Iterations)
		for i, f := range forces {
			magnitude := math.Sqrt(f.X*f.X + f.Y*f.Y)
			if magnitude > 0 {
				step := math.Min(magnitude, temperature) * cool
				pos[i].X += (f.X / magnitude) * step
				pos[i].Y += (f.Y / magnitude) * step
			}
		}

		temperature *= 0.95
	}

	positions := make(map[string]Position, len(nodeIDs))
	for i, id := range nodeIDs {
		positions[id] = pos[i]
	}
	return normalizePositions(positions, cfg.Width, cfg.Height, cfg.Padding), nil
}
