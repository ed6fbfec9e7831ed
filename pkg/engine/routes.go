package engine

import (
	"sort"

	"oss.terrastruct.com/d2/lib/geo"
)

// approach is a route up to the point where it reaches the height of its
// final horizontal run, plus that height.
type approach struct {
	points []*geo.Point
	y      float64
}

// approachIntra builds the part of an intra-section route that ends at the
// y of the channel next to the target:
//
//   - straight: vertical from the source port, jogging at the reserve lane
//     when the ports do not line up
//   - same row or adjacent rows: up or down to the channel of the gap
//   - multi-row: to the first channel, across to the routing column,
//     along it through the intermediate rows, to the last channel
func (c *Context) approachIntra(s *sectionState, r *Route) approach {
	src := c.records[r.Source]
	sx := src.centerX + r.SourcePort
	sy := src.edgeY(r.SourceEdge)
	start := geo.NewPoint(sx, sy)
	last := r.TargetGap()

	if r.Straight {
		ch := s.channels.Channel(last, r.Target)
		if ch == 0 {
			ch = s.reserveLane(last)
		}
		y := s.channelY(last, ch, r.Direction)
		return approach{points: []*geo.Point{start, geo.NewPoint(sx, y)}, y: y}
	}

	if !r.MultiRow() {
		y := s.channelY(last, r.Channels[last], r.Direction)
		return approach{points: []*geo.Point{start, geo.NewPoint(sx, y)}, y: y}
	}

	first := r.SourceGap()
	y1 := s.channelY(first, r.Channels[first], r.Direction)
	y2 := s.channelY(last, r.Channels[last], r.Direction)
	rx := s.x(r.RoutingColumn) + r.LaneOffset
	return approach{
		points: []*geo.Point{
			start,
			geo.NewPoint(sx, y1),
			geo.NewPoint(rx, y1),
			geo.NewPoint(rx, y2),
		},
		y: y2,
	}
}

// buildSection emits the geometry of every intra-section route of s.
func (c *Context) buildSection(s *sectionState) {
	approaches := make(map[*Route]approach, len(s.routes))
	for _, r := range s.routes {
		r.Color = s.color
		approaches[r] = c.approachIntra(s, r)
	}

	groups := mergeGroups(s.routes)
	for _, k := range sortedMergeKeys(groups) {
		rs := groups[k]
		g := &mergeGroup{target: c.records[k.target], side: k.side, routes: rs}
		gap := rs[0].TargetGap()
		ch := s.channels.Channel(gap, k.target)
		if ch == 0 {
			ch = s.reserveLane(gap)
		}
		y := s.channelY(gap, ch, busDirection(rs))
		for _, r := range rs {
			a := approaches[r]
			lastX := a.points[len(a.points)-1].X
			pts := append(a.points[:len(a.points)-1:len(a.points)-1], geo.NewPoint(lastX, y))
			r.Points = orthogonal(pts)
			g.xs = append(g.xs, lastX)
		}
		c.merges = append(c.merges, g.build(y, false, s.color))
	}

	for _, r := range s.routes {
		if r.Merged {
			continue
		}
		a := approaches[r]
		dst := c.records[r.Target]
		tx := dst.centerX + r.TargetPort
		ty := dst.edgeY(r.TargetEdge)
		pts := append(a.points, geo.NewPoint(tx, a.y), geo.NewPoint(tx, ty))
		r.Points = orthogonal(pts)
		c.finishArrows(r)
	}
}

// busDirection is the direction a merge bus is measured in: downward when
// any of its wires arrives from above, upward otherwise.
func busDirection(rs []*Route) Direction {
	for _, r := range rs {
		if r.Direction == Down {
			return Down
		}
	}
	return Up
}

// finishArrows places the arrowheads of an unmerged route: one into the
// target, and for bidirectional routes a reversed one into the source.
func (c *Context) finishArrows(r *Route) {
	src, dst := c.records[r.Source], c.records[r.Target]
	r.Arrows = []Arrow{arrowInto(dst.centerX+r.TargetPort, dst.edgeY(r.TargetEdge), r.TargetEdge)}
	if r.Bidirectional() {
		r.Arrows = append(r.Arrows, arrowInto(src.centerX+r.SourcePort, src.edgeY(r.SourceEdge), r.SourceEdge))
	}
}

func sortedMergeKeys(groups map[mergeKey][]*Route) []mergeKey {
	keys := make([]mergeKey, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].target != keys[j].target {
			return keys[i].target < keys[j].target
		}
		return keys[i].side < keys[j].side
	})
	return keys
}

// orthogonal drops repeated points and interior points of straight runs.
func orthogonal(pts []*geo.Point) []*geo.Point {
	out := make([]*geo.Point, 0, len(pts))
	for _, p := range pts {
		if n := len(out); n > 0 && nearly(out[n-1].X, p.X) && nearly(out[n-1].Y, p.Y) {
			continue
		}
		if n := len(out); n >= 2 {
			a, b := out[n-2], out[n-1]
			if (nearly(a.X, b.X) && nearly(b.X, p.X)) || (nearly(a.Y, b.Y) && nearly(b.Y, p.Y)) {
				out[n-1] = p
				continue
			}
		}
		out = append(out, p)
	}
	return out
}
