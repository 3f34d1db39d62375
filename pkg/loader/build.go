package loader

import (
	"github.com/dd0wney/cluso-flowviz/pkg/graph"
	"github.com/dd0wney/cluso-flowviz/pkg/logging"
)

// BuildGraph adds every company, then every edge, row by row. A repeated company
// overwrites the sector and a repeated ordered pair overwrites the weight. Edge
// endpoints missing from the company table become nodes without a sector.
// It returns the graph and the number of rows the graph refused.
func BuildGraph(companies []CompanyRow, edges []EdgeRow, logger logging.Logger) (*graph.Graph, int) {
	g := graph.New()
	rejected := 0

	for _, c := range companies {
		if err := g.AddNode(c.Company, c.Sector); err != nil {
			rejected++
			logger.Warn("company rejected", logging.NodeID(c.Company), logging.Error(err))
		}
	}

	implicit := make(map[string]bool)
	for _, e := range edges {
		for _, id := range []string{e.From, e.To} {
			if id != "" && !g.HasNode(id) {
				implicit[id] = true
			}
		}
		if err := g.AddEdge(e.From, e.To, e.Weight); err != nil {
			rejected++
			logger.Warn("edge rejected", logging.EdgePair(e.From, e.To), logging.Error(err))
		}
	}

	if len(implicit) > 0 {
		logger.Warn("edges reference companies missing from the company table",
			logging.Count(len(implicit)))
	}
	logger.Info("graph built",
		logging.Int("nodes", g.NodeCount()),
		logging.Int("edges", g.EdgeCount()),
		logging.Int("sectors", len(g.Sectors())),
	)
	return g, rejected
}
