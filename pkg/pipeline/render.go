package pipeline

import (
	"fmt"

	"github.com/matzehuels/flowschem/pkg/dsl"
	"github.com/matzehuels/flowschem/pkg/graph"
	"github.com/matzehuels/flowschem/pkg/render/nodelink"
	"github.com/matzehuels/flowschem/pkg/render/sink"
)

// Render generates output artifacts in the requested formats. The dot
// format draws the connection graph of the document rather than the layout.
func Render(l graph.Layout, doc *dsl.Document, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}

	svgOpts := []sink.SVGOption{sink.WithStyle(doc.Style)}
	artifacts := make(map[string][]byte, len(opts.Formats))

	for _, format := range opts.Formats {
		data, err := renderFormat(l, doc, format, svgOpts, opts)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func renderFormat(l graph.Layout, doc *dsl.Document, format string, svgOpts []sink.SVGOption, opts Options) ([]byte, error) {
	switch format {
	case FormatSVG:
		return sink.RenderSVG(l, svgOpts...), nil
	case FormatJSON:
		return sink.RenderJSON(l, sink.WithTheme(doc.Style.Theme))
	case FormatDOT:
		return []byte(nodelink.ToDOT(doc.Graph, nodelink.Options{
			Detailed: opts.Detailed,
			Theme:    doc.Style.Theme,
		})), nil
	case FormatPNG:
		return sink.RenderPNG(l, opts.Scale, svgOpts...)
	case FormatPDF:
		return sink.RenderPDF(l, svgOpts...)
	}
	return nil, ValidateFormat(format)
}
