package flow

import (
	"fmt"
	"strings"
)

// Summary is the user-visible diagnostic of an overlay run
type Summary struct {
	RecordsSeen      int
	RecordsAccepted  int
	RecordsRejected  int
	SegmentsKept     int
	SegmentsRejected int
	HighlightedEdges int
	DefectsByKind    map[DefectKind]int
}

// Summarize counts records, segments and defects of a validation
func Summarize(v *Validation, highlighted int) Summary {
	s := Summary{
		RecordsSeen:      v.RecordsSeen,
		RecordsAccepted:  v.RecordsAccepted,
		RecordsRejected:  v.RecordsRejected(),
		SegmentsKept:     len(v.Segments),
		HighlightedEdges: highlighted,
		DefectsByKind:    make(map[DefectKind]int),
	}
	for _, d := range v.Defects {
		s.DefectsByKind[d.Kind]++
		if d.SegmentLevel() {
			s.SegmentsRejected++
		}
	}
	return s
}

// TotalDefects returns the number of defects of every kind
func (s Summary) TotalDefects() int {
	n := 0
	for _, c := range s.DefectsByKind {
		n += c
	}
	return n
}

// StructuralDefects returns the number of missing node and missing edge defects
func (s Summary) StructuralDefects() int {
	return s.DefectsByKind[DefectMissingNode] + s.DefectsByKind[DefectMissingEdge]
}

func (s Summary) String() string {
	var parts []string
	for _, k := range DefectKinds {
		if n := s.DefectsByKind[k]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s=%d", k, n))
		}
	}
	reasons := "none"
	if len(parts) > 0 {
		reasons = strings.Join(parts, " ")
	}
	return fmt.Sprintf("%d/%d paths accepted, %d segments kept, %d segments rejected, %d edges highlighted (defects: %s)",
		s.RecordsAccepted, s.RecordsSeen, s.SegmentsKept, s.SegmentsRejected, s.HighlightedEdges, reasons)
}
