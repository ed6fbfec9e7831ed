package sink

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"math"
	"strings"

	"github.com/matzehuels/flowschem/pkg/graph"
	"github.com/matzehuels/flowschem/pkg/style"
)

const (
	neutralStroke = "#333333"
	nodeFill      = "#ffffff"
	labelInset    = 20.0
	hintGap       = 4.0
)

const svgCSS = `
    .segment-label { font-family: %q, monospace; font-weight: %d; font-size: %.1fpx; }
    .node-label { font-family: %q, monospace; font-weight: %d; font-size: %.1fpx; }
    .node-hint { font-family: %q, monospace; font-weight: %d; font-size: %.1fpx; fill: #666666; }
    .wire { fill: none; stroke-linejoin: round; }`

// SVGOption configures [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	style      *style.Config
	background string
}

// WithStyle sets the style configuration. Without it [style.Default] is used.
func WithStyle(cfg *style.Config) SVGOption {
	return func(r *svgRenderer) {
		if cfg != nil {
			r.style = cfg
		}
	}
}

// WithBackground fills the canvas with a color. The default is transparent.
func WithBackground(color string) SVGOption {
	return func(r *svgRenderer) { r.background = color }
}

// RenderSVG draws a layout: segment boxes with their names, node boxes with
// label and hint, wires as polylines, merge buses with junction dots, and
// arrowheads sized by the line thickness.
func RenderSVG(l graph.Layout, opts ...SVGOption) []byte {
	r := svgRenderer{style: style.Default()}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		l.Width, l.Height, l.Width, l.Height)
	r.renderStyle(&buf)
	if r.background != "" {
		fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", escapeXML(r.background))
	}

	for _, s := range l.Segments {
		r.renderSegment(&buf, s)
	}
	for _, w := range l.Wires {
		r.renderWire(&buf, w)
	}
	for _, m := range l.Merges {
		r.renderMerge(&buf, m)
	}
	for _, n := range l.Nodes {
		r.renderNode(&buf, n)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func (r *svgRenderer) renderStyle(buf *bytes.Buffer) {
	c := r.style
	fmt.Fprintf(buf, "  <style>"+svgCSS+"\n  </style>\n",
		c.Font, c.FontWeight, c.FontSize,
		c.Font, c.FontWeight, c.FontSize,
		c.HintFont, c.HintWeight, c.HintSize)
}

func (r *svgRenderer) renderSegment(buf *bytes.Buffer, s graph.Segment) {
	opacity := 0.06
	if s.Leaf {
		opacity = 0.12
	}
	fmt.Fprintf(buf, `  <rect class="segment" x="%.2f" y="%.2f" width="%.2f" height="%.2f" rx="%.1f" fill="%s" fill-opacity="%.2f" stroke="%s" stroke-width="1"/>`+"\n",
		s.X, s.Y, s.Width, s.Height, r.style.SectionRadius, s.Color, opacity, s.Color)
	if s.Name == "" {
		return
	}
	fmt.Fprintf(buf, `  <text class="segment-label" x="%.2f" y="%.2f" fill="%s">%s</text>`+"\n",
		s.X+r.style.SectionInsets().Left, s.Y+labelInset, s.Color, escapeXML(r.text(s.Name)))
}

func (r *svgRenderer) renderNode(buf *bytes.Buffer, n graph.Box) {
	fmt.Fprintf(buf, `  <g class="node" id="node-%s">`+"\n", escapeXML(n.ID))
	fmt.Fprintf(buf, `    <rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" rx="%.1f" fill="%s" stroke="%s" stroke-width="%.1f"/>`+"\n",
		n.X, n.Top, n.Width, n.Height, r.style.NodeRadius, nodeFill, neutralStroke, r.style.NodeBorder)

	cy := n.Top + n.Height/2
	if n.Hint == "" {
		fmt.Fprintf(buf, `    <text class="node-label" x="%.2f" y="%.2f" text-anchor="middle" dominant-baseline="central">%s</text>`+"\n",
			n.CenterX, cy, escapeXML(r.text(n.Label)))
	} else {
		block := r.style.FontSize + hintGap + r.style.HintSize
		top := cy - block/2
		fmt.Fprintf(buf, `    <text class="node-label" x="%.2f" y="%.2f" text-anchor="middle" dominant-baseline="central">%s</text>`+"\n",
			n.CenterX, top+r.style.FontSize/2, escapeXML(r.text(n.Label)))
		fmt.Fprintf(buf, `    <text class="node-hint" x="%.2f" y="%.2f" text-anchor="middle" dominant-baseline="central">%s</text>`+"\n",
			n.CenterX, top+r.style.FontSize+hintGap+r.style.HintSize/2, escapeXML(r.text(n.Hint)))
	}
	buf.WriteString("  </g>\n")
}

func (r *svgRenderer) renderWire(buf *bytes.Buffer, w graph.Wire) {
	if len(w.Points) < 2 {
		return
	}
	color := r.wireColor(w.Color, w.Cross)
	fmt.Fprintf(buf, `  <polyline class="wire" id="wire-%d" points="%s" stroke="%s" stroke-width="%.1f"%s/>`+"\n",
		w.ID, points(w.Points), color, r.style.LineThickness, dash(w.Dashed))
	for _, a := range w.Arrows {
		r.renderArrow(buf, a, color)
	}
}

func (r *svgRenderer) renderMerge(buf *bytes.Buffer, m graph.Merge) {
	color := r.wireColor(m.Color, m.Cross)
	fmt.Fprintf(buf, `  <g class="merge" data-target="%s">`+"\n", escapeXML(m.Target))
	for _, seg := range [][2]graph.Point{m.Bus, m.Drop} {
		fmt.Fprintf(buf, `    <line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="%.1f"%s/>`+"\n",
			seg[0].X, seg[0].Y, seg[1].X, seg[1].Y, color, r.style.LineThickness, dash(m.Dashed))
	}
	for _, j := range m.Junctions {
		fmt.Fprintf(buf, `    <circle cx="%.2f" cy="%.2f" r="%.1f" fill="%s"/>`+"\n",
			j.X, j.Y, r.style.LineThickness*2, color)
	}
	buf.WriteString("  </g>\n")
	r.renderArrow(buf, m.Arrow, color)
}

// renderArrow draws a triangle whose tip touches the node edge.
func (r *svgRenderer) renderArrow(buf *bytes.Buffer, a graph.Arrow, color string) {
	length := ArrowLength(r.style.LineThickness)
	half := length * 0.6
	base := a.Tip.Y - length
	if a.Pointing == "up" {
		base = a.Tip.Y + length
	}
	fmt.Fprintf(buf, `  <polygon class="arrow" points="%.2f,%.2f %.2f,%.2f %.2f,%.2f" fill="%s"/>`+"\n",
		a.Tip.X, a.Tip.Y, a.Tip.X-half, base, a.Tip.X+half, base, color)
}

// ArrowLength returns the length of an arrowhead for a line thickness.
func ArrowLength(thickness float64) float64 {
	return math.Max(6, thickness*4)
}

// wireColor colors cross-section wires by their source segment, and intra
// wires too when line-theme is set.
func (r *svgRenderer) wireColor(color string, cross bool) string {
	if color == "" || (!cross && !r.style.LineTheme) {
		return neutralStroke
	}
	return color
}

func (r *svgRenderer) text(s string) string {
	if r.style.Uppercase {
		return strings.ToUpper(s)
	}
	return s
}

func points(pts []graph.Point) string {
	parts := make([]string, len(pts))
	for i, p := range pts {
		parts[i] = fmt.Sprintf("%.2f,%.2f", p.X, p.Y)
	}
	return strings.Join(parts, " ")
}

func dash(dashed bool) string {
	if !dashed {
		return ""
	}
	return fmt.Sprintf(` stroke-dasharray="%s"`, style.DashedPattern())
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
