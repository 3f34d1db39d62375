package visualization

import (
	"fmt"
	"math"
)

// NewLayout returns the layout registered under name
func NewLayout(name string, config LayoutConfig) (Layout, error) {
	switch name {
	case LayoutForce, "":
		return NewForceDirectedLayout(&config), nil
	case LayoutCircular:
		return NewCircularLayout(&config), nil
	case LayoutHierarchical:
		return NewHierarchicalLayout(&config), nil
	default:
		return nil, fmt.Errorf("unknown layout %q (want one of %v)", name, LayoutNames)
	}
}

// normalizePositions scales positions to fit within bounds
func normalizePositions(positions map[string]Position, width, height, padding float64) map[string]Position {
	if len(positions) == 0 {
		return positions
	}

	minX, maxX := math.MaxFloat64, -math.MaxFloat64
	minY, maxY := math.MaxFloat64, -math.MaxFloat64

	for _, pos := range positions {
		minX = math.Min(minX, pos.X)
		maxX = math.Max(maxX, pos.X)
		minY = math.Min(minY, pos.Y)
		maxY = math.Max(maxY, pos.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY

	if rangeX < 0.01 {
		rangeX = 1
	}
	if rangeY < 0.01 {
		rangeY = 1
	}

	targetWidth := width - 2*padding
	targetHeight := height - 2*padding

	normalized := make(map[string]Position, len(positions))
	for id, pos := range positions {
		normalized[id] = Position{
			X: padding + ((pos.X-minX)/rangeX)*targetWidth,
			Y: padding + ((pos.Y-minY)/rangeY)*targetHeight,
		}
	}

	return normalized
}
