// Package pkg provides the libraries behind FlowSchem wiring diagrams.
//
// # Overview
//
// FlowSchem turns a .flow document into an orthogonal wiring diagram:
// nested segment boxes, rows of node boxes, and wires routed through
// channels in the gaps between rows. The pkg directory is organized by
// stage:
//
//  1. [dsl] - Parse .flow documents (@style, @layout, @nodes blocks)
//  2. [flow] - Segment trees and the connection graph
//  3. [engine] - Sizing, placement and wire routing
//  4. [render] - SVG, JSON, PDF, PNG and Graphviz output
//  5. [pipeline] - Orchestration (parse → layout → render) with caching
//
// # Architecture
//
//	.flow document
//	     ↓
//	[dsl] package (segment tree + connection graph + style)
//	     ↓
//	[engine] package (sizes, positions, routes, merges)
//	     ↓
//	[graph] package (serializable layout)
//	     ↓
//	[render] package (SVG/JSON/DOT/PDF/PNG)
//
// # Quick Start
//
//	doc, err := dsl.Parse(src)
//	if err != nil {
//	    return err
//	}
//	l, err := engine.Render(doc.Layout, doc.Graph, doc.Style)
//	if err != nil {
//	    return err
//	}
//	svg := sink.RenderSVG(l.Export(), sink.WithStyle(doc.Style))
//
// Most callers go through [pipeline] instead, which adds option defaults,
// cache keys and format selection:
//
//	runner := pipeline.NewRunner(cache.NewMemoryCache(), nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Source:  src,
//	    Formats: []string{pipeline.FormatSVG, pipeline.FormatJSON},
//	})
//
// # Supporting Packages
//
// [style] - Style configuration, themes and padding rules. Styles come from
// the document's @style block and optional TOML overlays.
//
// [fonts] - Text measurement for node sizing, backed by embedded fonts.
//
// [cache] - Memory, file, Redis and MongoDB caches with optional zstd
// compression. Keys hash the document together with every option that
// affects the output.
//
// [errors] - Coded errors shared by the CLI and the HTTP API.
//
// [observability] - Log hooks for pipeline stages.
//
// [buildinfo] - Version information set at build time.
//
// [dsl]: https://pkg.go.dev/github.com/matzehuels/flowschem/pkg/dsl
// [flow]: https://pkg.go.dev/github.com/matzehuels/flowschem/pkg/flow
// [engine]: https://pkg.go.dev/github.com/matzehuels/flowschem/pkg/engine
// [graph]: https://pkg.go.dev/github.com/matzehuels/flowschem/pkg/graph
// [render]: https://pkg.go.dev/github.com/matzehuels/flowschem/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/flowschem/pkg/pipeline
// [style]: https://pkg.go.dev/github.com/matzehuels/flowschem/pkg/style
// [fonts]: https://pkg.go.dev/github.com/matzehuels/flowschem/pkg/fonts
// [cache]: https://pkg.go.dev/github.com/matzehuels/flowschem/pkg/cache
// [errors]: https://pkg.go.dev/github.com/matzehuels/flowschem/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/flowschem/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/flowschem/pkg/buildinfo
package pkg
