package pipeline

import (
	"github.com/matzehuels/flowschem/pkg/dsl"
	"github.com/matzehuels/flowschem/pkg/engine"
	"github.com/matzehuels/flowschem/pkg/graph"
)

// GenerateLayout runs the layout engine on a parsed document and returns
// the exported geometry.
func GenerateLayout(doc *dsl.Document, opts Options) (graph.Layout, error) {
	opts.setLogger()
	engineOpts := []engine.Option{engine.WithLogger(opts.Logger)}
	if opts.Measurer != nil {
		engineOpts = append(engineOpts, engine.WithMeasurer(opts.Measurer))
	}
	l, err := engine.Render(doc.Layout, doc.Graph, doc.Style, engineOpts...)
	if err != nil {
		return graph.Layout{}, err
	}
	out := l.Export()
	out.Theme = doc.Style.Theme
	return out, nil
}
