package engine

import (
	"github.com/matzehuels/flowschem/pkg/flow"
)

// Segment chrome and fallback dimensions, in pixels.
const (
	SegmentPadding = 8.0
	SegmentHeader  = 30.0
	SegmentGap     = 10.0

	// DefaultSectionWidth and DefaultSectionHeight size leaves without a
	// section or without rows.
	DefaultSectionWidth  = 160.0
	DefaultSectionHeight = 80.0
)

// header returns the space above a segment's content: the label band for
// named segments, plain padding otherwise.
func header(s *flow.Segment) float64 {
	if s.Name != "" {
		return SegmentHeader
	}
	return SegmentPadding
}

// contentSize returns the smallest size el can be laid out at. Sizes are
// cached per element for the duration of the render.
func (c *Context) contentSize(el flow.Element) Size {
	if s, ok := c.sizes[el]; ok {
		return s
	}
	var size Size
	switch e := el.(type) {
	case *flow.Container:
		size = c.childrenSize(e.Children, e.Direction)
	case *flow.Segment:
		if e.IsLeaf() {
			size = c.leafSize(e)
		} else {
			inner := c.childrenSize(e.Children, e.Direction)
			size = Size{
				Width:  max(inner.Width+2*SegmentPadding, c.labelWidth(e)),
				Height: inner.Height + header(e) + SegmentPadding,
			}
		}
	}
	c.sizes[el] = size
	return size
}

func (c *Context) childrenSize(children []flow.Element, dir flow.Direction) Size {
	var out Size
	for i, ch := range children {
		s := c.contentSize(ch)
		gap := 0.0
		if i > 0 {
			gap = SegmentGap
		}
		if dir == flow.Row {
			out.Width += s.Width + gap
			out.Height = max(out.Height, s.Height)
		} else {
			out.Height += s.Height + gap
			out.Width = max(out.Width, s.Width)
		}
	}
	return out
}

func (c *Context) leafSize(seg *flow.Segment) Size {
	st, ok := c.leaves[seg]
	if !ok || st.layout.MaxRow() == 0 {
		return Size{
			Width:  max(DefaultSectionWidth, c.labelWidth(seg)),
			Height: DefaultSectionHeight,
		}
	}
	pad := c.style.SectionInsets()
	w := c.minAreaWidth(st) + pad.Horizontal() + 2*SegmentPadding
	h := st.contentHeight() + pad.Vertical() + header(seg) + SegmentPadding
	return Size{
		Width:  max(w, c.labelWidth(seg), DefaultSectionWidth),
		Height: max(h, DefaultSectionHeight),
	}
}

func (c *Context) labelWidth(seg *flow.Segment) float64 {
	if seg.Name == "" {
		return 0
	}
	return c.opts.measure.Measure(label(c.style, seg.Name), c.style.FontSize+2) + 2*SegmentPadding
}
