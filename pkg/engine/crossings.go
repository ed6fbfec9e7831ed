package engine

import (
	"math"
	"slices"
	"sort"

	"oss.terrastruct.com/d2/lib/geo"
)

// wireSegment is one straight piece of a wire, normalized so that
// (x1, y1) <= (x2, y2).
type wireSegment struct {
	x1, y1, x2, y2 float64
}

func segmentsOf(pts []*geo.Point) []wireSegment {
	var out []wireSegment
	for i := 1; i < len(pts); i++ {
		a, b := pts[i-1], pts[i]
		out = append(out, wireSegment{
			x1: min(a.X, b.X), y1: min(a.Y, b.Y),
			x2: max(a.X, b.X), y2: max(a.Y, b.Y),
		})
	}
	return out
}

// CountCrossings returns the number of proper crossings between horizontal
// and vertical wire pieces of a layout, merge buses and drops included.
// Touching at an end point is not a crossing.
//
// It sweeps left to right over the horizontal pieces, keeping the active
// ones in a Fenwick tree (binary indexed tree) over their compressed y, and
// counts for each vertical piece the active horizontals strictly inside its
// y range. This runs in O(S log S) for S pieces.
func CountCrossings(l *Layout) int {
	var segs []wireSegment
	for _, r := range l.Routes {
		segs = append(segs, segmentsOf(r.Points)...)
	}
	for _, m := range l.Merges {
		segs = append(segs, segmentsOf(m.Bus[:])...)
		segs = append(segs, segmentsOf(m.Drop[:])...)
	}
	return countCrossings(segs)
}

// RouteCrossings returns the number of crossings between the pieces of r
// and the other wires of l. Crossings of r with itself are not counted.
func RouteCrossings(l *Layout, r *Route) int {
	own := segmentsOf(r.Points)
	var others []wireSegment
	for _, o := range l.Routes {
		if o != r {
			others = append(others, segmentsOf(o.Points)...)
		}
	}
	for _, m := range l.Merges {
		others = append(others, segmentsOf(m.Bus[:])...)
		others = append(others, segmentsOf(m.Drop[:])...)
	}
	all := append(append([]wireSegment(nil), others...), own...)
	return countCrossings(all) - countCrossings(others) - countCrossings(own)
}

func countCrossings(segs []wireSegment) int {
	const (
		remove = iota
		query
		add
	)
	type event struct {
		x    float64
		kind int
		y    float64 // add, remove
		lo   float64 // query
		hi   float64
	}

	var events []event
	var ys []float64
	for _, s := range segs {
		s = wireSegment{snap(s.x1), snap(s.y1), snap(s.x2), snap(s.y2)}
		switch {
		case s.y1 == s.y2 && s.x1 < s.x2:
			events = append(events,
				event{x: s.x1, kind: add, y: s.y1},
				event{x: s.x2, kind: remove, y: s.y1})
			ys = append(ys, s.y1)
		case s.x1 == s.x2 && s.y1 < s.y2:
			events = append(events, event{x: s.x1, kind: query, lo: s.y1, hi: s.y2})
		}
	}
	if len(ys) == 0 {
		return 0
	}
	slices.Sort(ys)
	ys = slices.Compact(ys)

	// Removals before queries before additions at the same x keep crossings
	// strict at the ends of horizontals.
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].x != events[j].x {
			return events[i].x < events[j].x
		}
		return events[i].kind < events[j].kind
	})

	fenwick := make([]int, len(ys)+1)
	update := func(i, d int) {
		for i++; i < len(fenwick); i += i & (-i) {
			fenwick[i] += d
		}
	}
	// prefix counts active horizontals with compressed index < i.
	prefix := func(i int) int {
		sum := 0
		for ; i > 0; i -= i & (-i) {
			sum += fenwick[i]
		}
		return sum
	}

	crossings := 0
	for _, e := range events {
		switch e.kind {
		case add:
			update(index(ys, e.y), 1)
		case remove:
			update(index(ys, e.y), -1)
		case query:
			lo := sort.SearchFloat64s(ys, e.lo) + 1 // first y > lo
			if lo-1 < len(ys) && ys[lo-1] != e.lo {
				lo--
			}
			hi := sort.SearchFloat64s(ys, e.hi) // first y >= hi
			if hi > lo {
				crossings += prefix(hi) - prefix(lo)
			}
		}
	}
	return crossings
}

func index(ys []float64, y float64) int {
	return sort.SearchFloat64s(ys, y)
}

// snap rounds to a hundredth of a pixel so float noise does not turn a
// touch into a crossing.
func snap(v float64) float64 {
	return math.Round(v*100) / 100
}
