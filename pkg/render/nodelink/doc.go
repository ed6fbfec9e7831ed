// Package nodelink renders the connection graph of a diagram as a Graphviz
// node-link overview.
//
// The orthogonal layout of the engine is the primary output. The overview
// is a quick check of what is connected to what: one cluster per section,
// nodes of a row ranked together, arrows in connection direction.
//
//	dot := nodelink.ToDOT(doc.Graph, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(dot)
//
// Bidirectional connections are drawn with arrows at both ends and dashed
// connections with dashed lines. Unresolved nodes, which the engine skips,
// appear grey and dashed outside every cluster.
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
