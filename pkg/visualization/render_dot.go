package visualization

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/dd0wney/cluso-flowviz/pkg/style"
)

// DOTRenderer writes a Graphviz digraph. Positions are emitted as pinned
// coordinates in inches so `neato -n` reproduces the layout.
type DOTRenderer struct{}

func (r *DOTRenderer) Extension() string   { return "dot" }
func (r *DOTRenderer) ContentType() string { return "text/vnd.graphviz" }

// Render writes the DOT document
func (r *DOTRenderer) Render(w io.Writer, scene *style.Scene, positions map[string]Position) error {
	var b bytes.Buffer
	fmt.Fprintf(&b, "digraph %s {\n", strconv.Quote(scene.Title))
	fmt.Fprintf(&b, "  label=%s;\n", strconv.Quote(scene.Title))
	b.WriteString("  labelloc=t;\n")
	b.WriteString("  node [shape=circle, style=filled, fontname=\"sans-serif\", fontsize=8];\n")

	for _, n := range scene.Nodes {
		attrs := fmt.Sprintf("fillcolor=%s, width=%.3f", strconv.Quote(dotColor(n.Color, n.Alpha)), 2*nodeRadius(n.Size)/72)
		if n.OutlineColor != "" && n.OutlineWidth > 0 {
			attrs += fmt.Sprintf(", color=%s, penwidth=%.2f", strconv.Quote(n.OutlineColor), n.OutlineWidth)
		}
		if p, ok := positions[n.ID]; ok {
			attrs += fmt.Sprintf(", pos=\"%.2f,%.2f!\"", p.X/72, -p.Y/72)
		}
		fmt.Fprintf(&b, "  %s [%s];\n", strconv.Quote(n.ID), attrs)
	}

	for _, e := range scene.Edges {
		attrs := fmt.Sprintf("color=%s, penwidth=%.2f", strconv.Quote(dotColor(e.Color, e.Alpha)), e.Width)
		if e.Highlighted {
			attrs += fmt.Sprintf(", label=%s", strconv.Quote(strconv.FormatFloat(e.Flow, 'g', -1, 64)))
		}
		fmt.Fprintf(&b, "  %s -> %s [%s];\n", strconv.Quote(e.From), strconv.Quote(e.To), attrs)
	}

	b.WriteString("}\n")
	_, err := w.Write(b.Bytes())
	return err
}

// dotColor appends the alpha channel to a #rrggbb color
func dotColor(hex string, alpha float64) string {
	if len(hex) != 7 || alpha >= 1 {
		return hex
	}
	return fmt.Sprintf("%s%02x", hex, int(alpha*255+0.5))
}
