package engine

import (
	"github.com/matzehuels/flowschem/pkg/flow"
)

// SegmentBox is the resolved bounds of one segment.
type SegmentBox struct {
	Name  string
	Color string
	Depth int
	Leaf  bool
	Box
}

// place assigns bounds top-down. Children get their content size along the
// layout axis plus an equal share of the surplus, and the full extent
// across it. colorIndex is the positional palette index of el.
func (c *Context) place(el flow.Element, b Box, colorIndex, depth int) {
	switch e := el.(type) {
	case *flow.Container:
		c.placeChildren(e.Children, e.Direction, b, colorIndex, depth)
	case *flow.Segment:
		color := c.style.SegmentColor(colorIndex, e.ColorKey)
		c.segments = append(c.segments, SegmentBox{
			Name:  e.Name,
			Color: color,
			Depth: depth,
			Leaf:  e.IsLeaf(),
			Box:   b,
		})
		if e.IsLeaf() {
			if st, ok := c.leaves[e]; ok {
				st.color = color
				c.placeLeaf(st, b)
			}
			return
		}
		h := header(e)
		inner := Box{
			X:      b.X + SegmentPadding,
			Y:      b.Y + h,
			Width:  b.Width - 2*SegmentPadding,
			Height: b.Height - h - SegmentPadding,
		}
		c.placeChildren(e.Children, e.Direction, inner, colorIndex+1, depth+1)
	}
}

func (c *Context) placeChildren(children []flow.Element, dir flow.Direction, b Box, colorIndex, depth int) {
	n := len(children)
	if n == 0 {
		return
	}
	sizes := make([]Size, n)
	used := SegmentGap * float64(n-1)
	for i, ch := range children {
		sizes[i] = c.contentSize(ch)
		if dir == flow.Row {
			used += sizes[i].Width
		} else {
			used += sizes[i].Height
		}
	}
	avail := b.Height
	if dir == flow.Row {
		avail = b.Width
	}
	share := max(0, avail-used) / float64(n)

	pos := b.X
	if dir == flow.Column {
		pos = b.Y
	}
	for i, ch := range children {
		var cb Box
		if dir == flow.Row {
			cb = Box{X: pos, Y: b.Y, Width: sizes[i].Width + share, Height: b.Height}
			pos += cb.Width + SegmentGap
		} else {
			cb = Box{X: b.X, Y: pos, Width: b.Width, Height: sizes[i].Height + share}
			pos += cb.Height + SegmentGap
		}
		c.place(ch, cb, colorIndex+i, depth)
	}
}

// placeLeaf positions the rows of a section inside its segment bounds. The
// node area spans the full inner width; the row block is centered
// vertically.
func (c *Context) placeLeaf(st *sectionState, b Box) {
	pad := c.style.SectionInsets()
	h := header(st.leaf)
	st.area = Box{
		X:      b.X + SegmentPadding + pad.Left,
		Y:      b.Y + h + pad.Top,
		Width:  b.Width - 2*SegmentPadding - pad.Horizontal(),
		Height: b.Height - h - SegmentPadding - pad.Vertical(),
	}
	rows := len(st.records)
	st.rowTop = make([]float64, rows)
	st.rowBottom = make([]float64, rows)
	st.gapTop = make([]float64, rows)
	st.gapBottom = make([]float64, rows)

	y := st.area.Y + max(0, st.area.Height-st.contentHeight())/2
	for i := 0; i < rows; i++ {
		if i == 0 {
			st.gapTop[0] = y
			y += float64(st.grid[0]) * ChannelSpacing
		}
		rh := st.rowHeight(i)
		st.rowTop[i] = y
		st.gapBottom[i] = y
		st.rowBottom[i] = y + rh
		for _, rec := range st.records[i] {
			rec.centerX = st.x(rec.column)
			rec.top = y + (rh-rec.height)/2
			rec.placed = true
		}
		y += rh
		if i+1 < rows {
			st.gapTop[i+1] = y
			y += float64(st.grid[i+1]) * ChannelSpacing
		}
	}
	st.placed = true
}
