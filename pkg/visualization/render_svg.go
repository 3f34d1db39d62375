package visualization

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"math"

	"github.com/dd0wney/cluso-flowviz/pkg/style"
)

// curvature of edge arcs, as a fraction of the edge length
const edgeCurvature = 0.1

// smallest node radius a self-loop is drawn around
const minLoopRadius = 4.0

// SVGRenderer draws a scene as a standalone SVG document
type SVGRenderer struct {
	Width  float64
	Height float64
}

func (r *SVGRenderer) Extension() string   { return "svg" }
func (r *SVGRenderer) ContentType() string { return "image/svg+xml" }

// Render writes the SVG document
func (r *SVGRenderer) Render(w io.Writer, scene *style.Scene, positions map[string]Position) error {
	radius := make(map[string]float64, len(scene.Nodes))
	for _, n := range scene.Nodes {
		if _, ok := positions[n.ID]; !ok {
			return fmt.Errorf("no position for node %q", n.ID)
		}
		radius[n.ID] = nodeRadius(n.Size)
	}

	var b bytes.Buffer
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">`+"\n",
		r.Width, r.Height, r.Width, r.Height)

	markers := arrowMarkers(scene.Edges)
	b.WriteString("<defs>\n")
	for i, color := range markers.order {
		fmt.Fprintf(&b, `<marker id="arrow-%d" viewBox="0 0 10 10" refX="10" refY="5" markerWidth="6" markerHeight="6" orient="auto-start-reverse"><path d="M0,0 L10,5 L0,10 z" fill="%s"/></marker>`+"\n",
			i, esc(color))
	}
	b.WriteString("</defs>\n")
	fmt.Fprintf(&b, `<rect width="100%%" height="100%%" fill="#ffffff"/>`+"\n")
	fmt.Fprintf(&b, `<text x="%.1f" y="24" text-anchor="middle" font-family="sans-serif" font-size="16">%s</text>`+"\n",
		r.Width/2, esc(scene.Title))

	b.WriteString(`<g class="edges">` + "\n")
	for _, e := range scene.Edges {
		from, ok := positions[e.From]
		if !ok {
			return fmt.Errorf("no position for edge source %q", e.From)
		}
		to, ok := positions[e.To]
		if !ok {
			return fmt.Errorf("no position for edge target %q", e.To)
		}
		class := "edge"
		if e.Highlighted {
			class = "edge flow"
		}
		d := arcPath(from, to, radius[e.To])
		if e.From == e.To {
			d = loopPath(from, radius[e.To])
		}
		fmt.Fprintf(&b, `<path class="%s" d="%s" fill="none" stroke="%s" stroke-width="%.2f" stroke-opacity="%.2f" marker-end="url(#arrow-%d)"/>`+"\n",
			class, d, esc(e.Color), e.Width, e.Alpha, markers.index[e.Color])
	}
	b.WriteString("</g>\n")

	b.WriteString(`<g class="nodes">` + "\n")
	for _, n := range scene.Nodes {
		p := positions[n.ID]
		stroke := ""
		if n.OutlineColor != "" && n.OutlineWidth > 0 {
			stroke = fmt.Sprintf(` stroke="%s" stroke-width="%.2f"`, esc(n.OutlineColor), n.OutlineWidth)
		}
		fmt.Fprintf(&b, `<circle cx="%.2f" cy="%.2f" r="%.2f" fill="%s" fill-opacity="%.2f"%s><title>%s</title></circle>`+"\n",
			p.X, p.Y, radius[n.ID], esc(n.Color), n.Alpha, stroke, esc(n.ID))
	}
	for _, n := range scene.Nodes {
		p := positions[n.ID]
		fmt.Fprintf(&b, `<text x="%.2f" y="%.2f" text-anchor="middle" dominant-baseline="central" font-family="sans-serif" font-size="8">%s</text>`+"\n",
			p.X, p.Y, esc(n.ID))
	}
	b.WriteString("</g>\n")

	writeLegend(&b, scene, r.Width)
	b.WriteString("</svg>\n")

	_, err := w.Write(b.Bytes())
	return err
}

// nodeRadius converts a marker area in points squared to a radius
func nodeRadius(size float64) float64 {
	return math.Sqrt(size) / 2
}

type markerSet struct {
	order []string
	index map[string]int
}

func arrowMarkers(edges []style.EdgeStyle) markerSet {
	m := markerSet{index: make(map[string]int)}
	for _, e := range edges {
		if _, ok := m.index[e.Color]; !ok {
			m.index[e.Color] = len(m.order)
			m.order = append(m.order, e.Color)
		}
	}
	return m
}

// arcPath draws a quadratic curve bent to the right of the from->to direction, so
// that opposite edges between the same pair do not overlap. The end is pulled back
// by the target radius to keep the arrow head visible.
func arcPath(from, to Position, targetRadius float64) string {
	dx, dy := to.X-from.X, to.Y-from.Y
	cx := (from.X+to.X)/2 + edgeCurvature*dy
	cy := (from.Y+to.Y)/2 - edgeCurvature*dx

	ex, ey := to.X, to.Y
	vx, vy := cx-ex, cy-ey
	if l := math.Hypot(vx, vy); l > targetRadius && l > 0 {
		ex += vx / l * targetRadius
		ey += vy / l * targetRadius
	}
	return fmt.Sprintf("M%.2f,%.2f Q%.2f,%.2f %.2f,%.2f", from.X, from.Y, cx, cy, ex, ey)
}

// loopPath draws a self-loop as a cubic curve leaving the top-left of the node
// and returning to its top-right.
func loopPath(p Position, r float64) string {
	r = math.Max(r, minLoopRadius)
	dx, dy := r*0.5, r*0.87
	return fmt.Sprintf("M%.2f,%.2f C%.2f,%.2f %.2f,%.2f %.2f,%.2f",
		p.X-dx, p.Y-dy, p.X-3*r, p.Y-4*r, p.X+3*r, p.Y-4*r, p.X+dx, p.Y-dy)
}

func writeLegend(b *bytes.Buffer, scene *style.Scene, width float64) {
	if len(scene.Legend) == 0 {
		return
	}
	const rowHeight = 16.0
	x := width - 190
	y := 40.0
	height := rowHeight*float64(len(scene.Legend)+1) + 8

	fmt.Fprintf(b, `<g class="legend"><rect x="%.1f" y="%.1f" width="180" height="%.1f" fill="#ffffff" fill-opacity="0.8" stroke="#cccccc"/>`+"\n",
		x, y, height)
	fmt.Fprintf(b, `<text x="%.1f" y="%.1f" font-family="sans-serif" font-size="10" font-weight="bold">%s</text>`+"\n",
		x+8, y+rowHeight, esc(scene.LegendTitle))

	for i, entry := range scene.Legend {
		rowY := y + rowHeight*float64(i+2)
		switch entry.Kind {
		case style.LegendLine:
			fmt.Fprintf(b, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="2"/>`+"\n",
				x+6, rowY-4, x+20, rowY-4, esc(entry.Color))
		default:
			stroke := ""
			if entry.OutlineColor != "" {
				stroke = fmt.Sprintf(` stroke="%s"`, esc(entry.OutlineColor))
			}
			fmt.Fprintf(b, `<circle cx="%.1f" cy="%.1f" r="5" fill="%s"%s/>`+"\n", x+13, rowY-4, esc(entry.Color), stroke)
		}
		fmt.Fprintf(b, `<text x="%.1f" y="%.1f" font-family="sans-serif" font-size="9">%s</text>`+"\n", x+26, rowY, esc(entry.Label))
	}
	b.WriteString("</g>\n")
}

func esc(s string) string {
	var b bytes.Buffer
	xml.EscapeText(&b, []byte(s))
	return b.String()
}
