// Package report renders the terminal summary of a pipeline run.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/dd0wney/cluso-flowviz/pkg/flow"
	"github.com/dd0wney/cluso-flowviz/pkg/pipeline"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF00FF"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00FFFF"))

	boxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00FF00")).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Width(12)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFF00"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00FF00")).
			Bold(true)
)

func row(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(label), value)
}

// Render returns the styled summary of res. err is the error Run returned, if any.
func Render(res *pipeline.Result, err error) string {
	var sections []string
	sections = append(sections, titleStyle.Render("flowviz run "+res.RunID))
	sections = append(sections, boxStyle.Render(inputSection(res)))
	sections = append(sections, boxStyle.Render(flowSection(res)))
	if len(res.Artifacts) > 0 {
		sections = append(sections, boxStyle.Render(artifactSection(res)))
	}

	if err != nil {
		sections = append(sections, errorStyle.Render("✗ "+err.Error()))
	} else {
		sections = append(sections, successStyle.Render(fmt.Sprintf("✓ done in %s", res.Duration.Round(time.Millisecond))))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func inputSection(res *pipeline.Result) string {
	lines := []string{
		headerStyle.Render("Input"),
		row("dataset", orDash(res.Dataset)),
		row("companies", fmt.Sprintf("%d rows, %d skipped", res.Companies.Rows, res.Companies.Skipped)),
		row("edges", fmt.Sprintf("%d rows, %d skipped, %d weights defaulted", res.Edges.Rows, res.Edges.Skipped, res.Edges.Coerced)),
		row("graph", fmt.Sprintf("%d nodes, %d edges, %d sectors", res.Nodes, res.EdgeCount, res.Sectors)),
	}
	for _, g := range append(res.Companies.Guesses, res.Edges.Guesses...) {
		lines = append(lines, warnStyle.Render("! "+g.String()))
	}
	if res.RejectedRows > 0 {
		lines = append(lines, warnStyle.Render(fmt.Sprintf("! %d rows rejected by the graph", res.RejectedRows)))
	}
	return strings.Join(lines, "\n")
}

func flowSection(res *pipeline.Result) string {
	lines := []string{headerStyle.Render("Max flow")}

	switch res.Flow {
	case pipeline.FlowSkipped:
		lines = append(lines, warnStyle.Render("skipped: "+res.SkipReason))
		return strings.Join(lines, "\n")
	case "":
		lines = append(lines, row("status", "not reached"))
		return strings.Join(lines, "\n")
	}

	lines = append(lines,
		row("route", fmt.Sprintf("%s → %s", res.Source, res.Sink)),
		row("max flow", fmt.Sprintf("%g", res.MaxFlow)),
	)
	if res.MissingEndpoint != nil {
		lines = append(lines, errorStyle.Render(res.MissingEndpoint.Error()))
	}
	if res.Flow == pipeline.FlowDegraded {
		lines = append(lines, warnStyle.Render("drawn without highlighting"))
	}
	if res.Overlay != nil {
		lines = append(lines, overlayLines(*res.Overlay)...)
	}
	return strings.Join(lines, "\n")
}

func overlayLines(s flow.Summary) []string {
	lines := []string{
		row("paths", fmt.Sprintf("%d/%d accepted", s.RecordsAccepted, s.RecordsSeen)),
		row("segments", fmt.Sprintf("%d kept, %d rejected", s.SegmentsKept, s.SegmentsRejected)),
		row("highlighted", fmt.Sprintf("%d edges", s.HighlightedEdges)),
	}
	if s.TotalDefects() == 0 {
		return lines
	}
	for _, kind := range flow.DefectKinds {
		if n := s.DefectsByKind[kind]; n > 0 {
			lines = append(lines, warnStyle.Render(fmt.Sprintf("! %s: %d", kind, n)))
		}
	}
	return lines
}

func artifactSection(res *pipeline.Result) string {
	lines := []string{headerStyle.Render("Artifacts")}
	for _, a := range res.Artifacts {
		lines = append(lines, row(a.View, fmt.Sprintf("%s (%d bytes)", a.Location, a.Size)))
	}
	return strings.Join(lines, "\n")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
