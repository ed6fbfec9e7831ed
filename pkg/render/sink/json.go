package sink

import (
	"github.com/matzehuels/flowschem/pkg/graph"
)

// JSONOption configures [RenderJSON].
type JSONOption func(*graph.Layout)

// WithLayoutID records an identifier in the output, such as the render ID
// assigned by the API.
func WithLayoutID(id string) JSONOption {
	return func(l *graph.Layout) { l.ID = id }
}

// WithTheme records the theme name the colors were resolved with.
func WithTheme(theme string) JSONOption {
	return func(l *graph.Layout) { l.Theme = theme }
}

// RenderJSON serializes the layout geometry. The input is not modified.
func RenderJSON(l graph.Layout, opts ...JSONOption) ([]byte, error) {
	for _, opt := range opts {
		opt(&l)
	}
	return graph.MarshalLayout(l)
}
