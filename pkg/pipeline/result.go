package pipeline

import (
	"time"

	"github.com/dd0wney/cluso-flowviz/pkg/flow"
	"github.com/dd0wney/cluso-flowviz/pkg/loader"
	"github.com/dd0wney/cluso-flowviz/pkg/style"
)

// Views
const (
	ViewNetwork = "network"
	ViewFlow    = "flow"
)

// FlowStatus says what happened to the flow view
type FlowStatus string

const (
	FlowDrawn    FlowStatus = "drawn"
	FlowDegraded FlowStatus = "degraded"
	FlowSkipped  FlowStatus = "skipped"
)

// Skip reasons
const (
	SkipNotFound   = "not_found"
	SkipMalformed  = "malformed"
	SkipIncomplete = "incomplete"
	SkipUnreadable = "unreadable"
)

// Artifact is a stored view
type Artifact struct {
	View        string
	Name        string
	Location    string
	ContentType string
	Size        int
}

// Result describes a finished run
type Result struct {
	RunID   string
	Dataset string

	Companies    loader.TableStats
	Edges        loader.TableStats
	RejectedRows int

	Nodes     int
	EdgeCount int
	Sectors   int

	Flow       FlowStatus
	SkipReason string
	Source     string
	Sink       string
	MaxFlow    float64

	// Overlay is nil unless flow results were loaded and both endpoints exist
	Overlay         *flow.Summary
	MissingEndpoint *style.MissingEndpointError

	Artifacts []Artifact
	Duration  time.Duration
}

// Artifact returns the stored artifact of view
func (r *Result) Artifact(view string) (Artifact, bool) {
	for _, a := range r.Artifacts {
		if a.View == view {
			return a, true
		}
	}
	return Artifact{}, false
}
