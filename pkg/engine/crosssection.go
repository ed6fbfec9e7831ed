package engine

import (
	"math"

	"oss.terrastruct.com/d2/lib/geo"
)

// crossCase is the relative placement of the endpoints of a cross-section
// route.
type crossCase int

const (
	crossDown    crossCase = iota // target entirely below the source
	crossUp                       // target entirely above the source
	crossOverlap                  // vertical extents overlap; route over the top
)

// classifyCross sets direction and edges of cross-section routes once all
// segments are placed, then numbers their channels globally.
func (c *Context) classifyCross() {
	for _, r := range c.cross {
		src, dst := c.records[r.Source], c.records[r.Target]
		switch crossCaseOf(src, dst) {
		case crossDown:
			r.Direction, r.SourceEdge, r.TargetEdge = Down, Bottom, Top
		case crossUp:
			r.Direction, r.SourceEdge, r.TargetEdge = Up, Top, Bottom
		default:
			r.Direction, r.SourceEdge, r.TargetEdge = Up, Top, Top
		}
		r.Color = src.section.color
	}
	AssignChannels(c.cross, Global).Apply(c.cross)
}

func crossCaseOf(src, dst *nodeRecord) crossCase {
	switch {
	case dst.top >= src.bottom():
		return crossDown
	case dst.bottom() <= src.top:
		return crossUp
	}
	return crossOverlap
}

// crossY returns the y of the horizontal run shared by routes into one
// target edge. Downward runs sit channel*spacing/2 below the midpoint
// between the lowest source bottom and the target top, upward runs the
// same distance above the midpoint between the highest source top and the
// target bottom. Routes over the top run (channel+1)*spacing/2 above the
// highest top involved.
func (c *Context) crossY(routes []*Route) float64 {
	dst := c.records[routes[0].Target]
	ch := float64(routes[0].Channels[GlobalGap])
	overlap, up := false, false
	srcBottom, srcTop := math.Inf(-1), math.Inf(1)
	top := dst.top
	for _, r := range routes {
		src := c.records[r.Source]
		switch crossCaseOf(src, dst) {
		case crossOverlap:
			overlap = true
		case crossUp:
			up = true
		}
		srcBottom = max(srcBottom, src.bottom())
		srcTop = min(srcTop, src.top)
		top = min(top, src.top)
	}
	switch {
	case overlap:
		return top - (ch+1)*ChannelSpacing/2
	case up:
		mid := (srcTop + dst.bottom()) / 2
		return mid - ch*ChannelSpacing/2
	default:
		mid := (srcBottom + dst.top) / 2
		return mid + ch*ChannelSpacing/2
	}
}

// buildCross emits the geometry of cross-section routes: out of the source
// port to the run height, across, and into the target port.
func (c *Context) buildCross() {
	groups := mergeGroups(c.cross)
	for _, k := range sortedMergeKeys(groups) {
		rs := groups[k]
		y := c.crossY(rs)
		g := &mergeGroup{target: c.records[k.target], side: k.side, routes: rs}
		for _, r := range rs {
			src := c.records[r.Source]
			sx := src.centerX + r.SourcePort
			r.Points = orthogonal([]*geo.Point{
				geo.NewPoint(sx, src.edgeY(r.SourceEdge)),
				geo.NewPoint(sx, y),
			})
			g.xs = append(g.xs, sx)
		}
		c.merges = append(c.merges, g.build(y, true, rs[0].Color))
	}

	for _, r := range c.cross {
		if r.Merged {
			continue
		}
		src, dst := c.records[r.Source], c.records[r.Target]
		sx, tx := src.centerX+r.SourcePort, dst.centerX+r.TargetPort
		y := c.crossY([]*Route{r})
		r.Points = orthogonal([]*geo.Point{
			geo.NewPoint(sx, src.edgeY(r.SourceEdge)),
			geo.NewPoint(sx, y),
			geo.NewPoint(tx, y),
			geo.NewPoint(tx, dst.edgeY(r.TargetEdge)),
		})
		c.finishArrows(r)
	}
}
