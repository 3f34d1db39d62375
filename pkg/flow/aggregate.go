package flow

import (
	"sort"

	"github.com/dd0wney/cluso-flowviz/pkg/graph"
)

// Aggregate collapses segments into one HighlightedEdge per ordered pair.
// The flow of each edge is the maximum over its segments, never the sum: paths are
// alternative allocations, not cumulative load. The result is sorted by (From, To)
// so it does not depend on segment order. No segments yields an empty, non-nil slice.
func Aggregate(segments []Segment) []HighlightedEdge {
	best := make(map[graph.EdgeKey]float64, len(segments))
	for _, s := range segments {
		key := s.Key()
		if cur, ok := best[key]; !ok || s.Flow > cur {
			best[key] = s.Flow
		}
	}

	keys := make([]graph.EdgeKey, 0, len(best))
	for k := range best {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })

	edges := make([]HighlightedEdge, 0, len(keys))
	for _, k := range keys {
		edges = append(edges, HighlightedEdge{From: k.From, To: k.To, Flow: best[k]})
	}
	return edges
}
