package flow

import (
	"math"

	"github.com/dd0wney/cluso-flowviz/pkg/logging"
)

// Validation is the outcome of checking path records against a graph
type Validation struct {
	Segments        []Segment
	Defects         []Defect
	RecordsSeen     int
	RecordsAccepted int
}

// Validate checks every record against the graph, in order, and keeps the segments
// that exist as edges. It never fails: a malformed record is reported as a Defect and
// the remaining records are still processed.
//
// A record is discarded entirely when its node list is empty, its flow is absent or
// invalid, or any of its nodes is missing from the graph. Otherwise each consecutive
// pair that is not an edge is reported and dropped on its own, and the record's other
// segments are kept.
func Validate(topo Topology, records []PathRecord, logger logging.Logger) *Validation {
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	v := &Validation{
		Segments:    make([]Segment, 0),
		Defects:     make([]Defect, 0),
		RecordsSeen: len(records),
	}

	for i, rec := range records {
		if len(rec.Path) == 0 {
			v.reject(logger, Defect{Kind: DefectEmptyPath, PathIndex: i})
			continue
		}
		if rec.Flow == nil {
			v.reject(logger, Defect{Kind: DefectMissingFlow, PathIndex: i})
			continue
		}
		flow := *rec.Flow
		if flow < 0 || math.IsNaN(flow) || math.IsInf(flow, 0) {
			v.reject(logger, Defect{Kind: DefectInvalidFlow, PathIndex: i, Flow: flow})
			continue
		}

		if missing, ok := firstMissingNode(topo, rec.Path); ok {
			v.reject(logger, Defect{Kind: DefectMissingNode, PathIndex: i, Node: missing})
			continue
		}

		v.RecordsAccepted++
		for j := 0; j+1 < len(rec.Path); j++ {
			from, to := rec.Path[j], rec.Path[j+1]
			if !topo.HasEdge(from, to) {
				v.reject(logger, Defect{Kind: DefectMissingEdge, PathIndex: i, From: from, To: to})
				continue
			}
			v.Segments = append(v.Segments, Segment{From: from, To: to, Flow: flow, PathIndex: i})
		}
	}

	return v
}

func firstMissingNode(topo Topology, path []string) (string, bool) {
	for _, id := range path {
		if !topo.HasNode(id) {
			return id, true
		}
	}
	return "", false
}

func (v *Validation) reject(logger logging.Logger, d Defect) {
	v.Defects = append(v.Defects, d)

	fields := []logging.Field{
		logging.String("defect", d.Kind.String()),
		logging.PathIndex(d.PathIndex),
	}
	switch d.Kind {
	case DefectMissingNode:
		fields = append(fields, logging.NodeID(d.Node))
	case DefectMissingEdge:
		fields = append(fields, logging.EdgePair(d.From, d.To))
	case DefectInvalidFlow:
		fields = append(fields, logging.Flow(d.Flow))
	}
	logger.Debug(d.String(), fields...)
}

// RecordsRejected returns how many records were discarded as a whole
func (v *Validation) RecordsRejected() int {
	return v.RecordsSeen - v.RecordsAccepted
}
