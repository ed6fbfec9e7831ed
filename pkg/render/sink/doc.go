// Package sink turns a computed [graph.Layout] into output formats.
//
// [RenderSVG] is the reference drawing layer. It draws, in order:
//
//   - segment boxes in their theme colors, named segments with a label
//   - wires as polylines, dashed where the connection is dashed
//   - merge buses, drops and junction dots
//   - arrowheads as triangles sized by the line thickness
//   - node boxes with the label and an optional hint line
//
// Cross-section wires take the color of their source segment. Intra-section
// wires are drawn in a neutral stroke unless the style sets line-theme.
//
//	svg := sink.RenderSVG(layout, sink.WithStyle(cfg))
//
// [RenderJSON] writes the layout geometry itself, the same format
// [graph.MarshalLayout] produces.
//
// [RenderPDF] and [RenderPNG] convert the SVG with rsvg-convert through
// [render.ToPDF] and [render.ToPNG]. They require librsvg:
//   - macOS: brew install librsvg
//   - Linux: apt install librsvg2-bin
package sink
