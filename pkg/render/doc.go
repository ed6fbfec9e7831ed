// Package render holds the output side of FlowSchem.
//
// The engine produces a [graph.Layout]; the subpackages draw it:
//
//   - [sink]: SVG drawing of the layout, JSON geometry, PDF and PNG
//   - [nodelink]: a Graphviz overview of the connection graph, one cluster
//     per section
//
// # Format Conversion
//
// [ToPDF] and [ToPNG] convert any SVG to other formats using the external
// rsvg-convert tool (from librsvg). Both subpackages use them.
//
//	svg := sink.RenderSVG(layout, sink.WithStyle(cfg))
//	pdf, err := render.ToPDF(svg)
//	png, err := render.ToPNG(svg, 2.0)  // 2x scale
//
// [graph.Layout]: github.com/matzehuels/flowschem/pkg/graph.Layout
// [sink]: github.com/matzehuels/flowschem/pkg/render/sink
// [nodelink]: github.com/matzehuels/flowschem/pkg/render/nodelink
package render
