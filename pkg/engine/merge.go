package engine

import (
	"sort"

	"oss.terrastruct.com/d2/lib/geo"
)

// Merge joins several unidirectional wires into one target edge: each
// source wire ends on the bus, and a single drop with one arrow continues
// into the target.
type Merge struct {
	Target  string
	Side    Side
	Sources []string
	Cross   bool
	Dashed  bool
	Color   string

	Bus       [2]*geo.Point
	Drop      [2]*geo.Point
	Junctions []*geo.Point
	Arrow     Arrow
}

// Junctions returns the junction dots of a bus at height y joined by
// streams arriving at xs and leaving through a drop at dropX. Every point
// where k > 2 wire pieces meet gets k-2 dots, so n sources always yield
// n-1 dots.
func Junctions(xs []float64, dropX, y float64) []*geo.Point {
	type stop struct {
		x       float64
		streams int
	}
	var stops []stop
	addStop := func(x float64) {
		for i := range stops {
			if nearly(stops[i].x, x) {
				stops[i].streams++
				return
			}
		}
		stops = append(stops, stop{x: x, streams: 1})
	}
	for _, x := range xs {
		addStop(x)
	}
	addStop(dropX)
	sort.Slice(stops, func(i, j int) bool { return stops[i].x < stops[j].x })

	var out []*geo.Point
	for i, s := range stops {
		degree := s.streams
		if i > 0 {
			degree++
		}
		if i < len(stops)-1 {
			degree++
		}
		for k := 0; k < degree-2; k++ {
			out = append(out, geo.NewPoint(s.x, y))
		}
	}
	return out
}

func nearly(a, b float64) bool {
	d := a - b
	return d < 0.5 && d > -0.5
}

// mergeGroup collects the routes merging into one target edge together with
// the x at which each reaches the bus.
type mergeGroup struct {
	target *nodeRecord
	side   Side
	routes []*Route
	xs     []float64
}

type mergeKey struct {
	target string
	side   Side
}

// mergeGroups returns the unidirectional routes merging into the same
// target edge, for every edge receiving two or more, in route order.
func mergeGroups(routes []*Route) map[mergeKey][]*Route {
	all := make(map[mergeKey][]*Route)
	for _, r := range routes {
		if r.Bidirectional() {
			continue
		}
		k := mergeKey{r.Target, r.TargetEdge}
		all[k] = append(all[k], r)
	}
	for k, rs := range all {
		if len(rs) < 2 {
			delete(all, k)
		}
	}
	return all
}

// build finishes a merge group whose bus runs at y.
func (g *mergeGroup) build(y float64, cross bool, color string) *Merge {
	tx := g.target.centerX + g.routes[0].TargetPort
	ty := g.target.edgeY(g.side)

	lo, hi := tx, tx
	for _, x := range g.xs {
		lo, hi = min(lo, x), max(hi, x)
	}
	m := &Merge{
		Target:    g.target.node.ID,
		Side:      g.side,
		Cross:     cross,
		Dashed:    true,
		Color:     color,
		Bus:       [2]*geo.Point{geo.NewPoint(lo, y), geo.NewPoint(hi, y)},
		Drop:      [2]*geo.Point{geo.NewPoint(tx, y), geo.NewPoint(tx, ty)},
		Junctions: Junctions(g.xs, tx, y),
		Arrow:     arrowInto(tx, ty, g.side),
	}
	for _, r := range g.routes {
		m.Sources = append(m.Sources, r.Source)
		m.Dashed = m.Dashed && r.Dashed
		r.Merged = true
	}
	return m
}
