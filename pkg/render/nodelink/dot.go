package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/flowschem/pkg/flow"
	"github.com/matzehuels/flowschem/pkg/render"
	"github.com/matzehuels/flowschem/pkg/style"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds the hint and the section row to node labels.
	// When false, only the node name is shown.
	Detailed bool

	// Theme colors the section clusters. Empty means "default".
	Theme string
}

// ToDOT converts a flow graph to Graphviz DOT. Each section becomes a
// cluster whose rows are ranked together, so the overview keeps the row
// order of the diagram. Unresolved nodes are drawn dashed outside any
// cluster. The result can be rendered with [RenderSVG], [RenderPDF] or
// [RenderPNG].
func ToDOT(g *flow.Graph, opts Options) string {
	palette := style.Palette(opts.Theme)

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  compound=true;\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")

	for i, key := range g.SectionKeys() {
		s, _ := g.Section(key)
		color := palette[i%len(palette)]
		fmt.Fprintf(&buf, "\n  subgraph \"cluster_%d\" {\n", i)
		fmt.Fprintf(&buf, "    label=%q;\n", key)
		fmt.Fprintf(&buf, "    style=\"rounded\";\n    color=%q;\n    fontcolor=%q;\n", color, color)
		for _, row := range sortedRows(s) {
			ids := s.Row(row)
			for _, id := range ids {
				n, ok := g.Node(id)
				if !ok {
					continue
				}
				fmt.Fprintf(&buf, "    %q [%s];\n", n.ID, strings.Join(fmtAttrs(n, fmtLabel(n, opts.Detailed)), ", "))
			}
			if len(ids) > 1 {
				fmt.Fprintf(&buf, "    { rank=same; %s }\n", quoteAll(ids))
			}
		}
		buf.WriteString("  }\n")
	}

	if unresolved := g.Unresolved(); len(unresolved) > 0 {
		buf.WriteString("\n")
		for _, id := range unresolved {
			n, _ := g.Node(id)
			fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(fmtAttrs(n, fmtLabel(n, opts.Detailed)), ", "))
		}
	}

	buf.WriteString("\n")
	for _, c := range g.Normalized() {
		var attrs []string
		if c.Kind == flow.KindBidirectional {
			attrs = append(attrs, "dir=both")
		}
		if c.Dashed {
			attrs = append(attrs, "style=dashed")
		}
		if len(attrs) == 0 {
			fmt.Fprintf(&buf, "  %q -> %q;\n", c.From, c.To)
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", c.From, c.To, strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func sortedRows(s *flow.Section) []int {
	rows := make([]int, 0, len(s.Rows))
	for r := range s.Rows {
		rows = append(rows, r)
	}
	slices.Sort(rows)
	return rows
}

func quoteAll(ids []string) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Quote(id)
	}
	return strings.Join(parts, "; ")
}

func fmtLabel(n *flow.Node, detailed bool) string {
	if !detailed {
		return n.Name
	}
	parts := []string{n.Name}
	if n.Hint != "" {
		parts = append(parts, n.Hint)
	}
	if n.Resolved() {
		parts = append(parts, fmt.Sprintf("row: %d", n.Row))
	}
	return strings.Join(parts, "\n")
}

func fmtAttrs(n *flow.Node, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if !n.Resolved() {
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey", "fontcolor=black")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF] or [render.ToPNG].
func RenderSVG(dot string) ([]byte, error) {
	return RenderSVGContext(context.Background(), dot)
}

// RenderSVGContext is [RenderSVG] with a caller-supplied context.
func RenderSVGContext(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces the Graphviz <svg> tag, which sizes the
// drawing in points, with one that sizes it in pixels from the viewBox.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(dot string) ([]byte, error) {
	svg, err := RenderSVG(dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion. A scale of 2.0
// produces a 2x resolution image.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(svg, scale)
}
