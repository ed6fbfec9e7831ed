package sink

import (
	"github.com/matzehuels/flowschem/pkg/graph"
	"github.com/matzehuels/flowschem/pkg/render"
)

// DefaultPNGScale is the scale factor of [RenderPNG] when none is given.
const DefaultPNGScale = 2.0

// RenderPNG renders the layout as PNG via SVG conversion. A scale of 0 uses
// [DefaultPNGScale]; the background is white unless an option overrides it.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(l graph.Layout, scale float64, opts ...SVGOption) ([]byte, error) {
	if scale <= 0 {
		scale = DefaultPNGScale
	}
	opts = append([]SVGOption{WithBackground("#ffffff")}, opts...)
	return render.ToPNG(RenderSVG(l, opts...), scale)
}
