package engine

import (
	"oss.terrastruct.com/d2/lib/geo"

	"github.com/matzehuels/flowschem/pkg/flow"
)

// Direction is the vertical direction of travel of a wire.
type Direction int

const (
	Down Direction = iota
	Up
)

func (d Direction) String() string {
	if d == Up {
		return "up"
	}
	return "down"
}

// Side is the node edge a wire attaches to.
type Side int

const (
	Top Side = iota
	Bottom
)

func (s Side) String() string {
	if s == Bottom {
		return "bottom"
	}
	return "top"
}

// Arrow is an arrowhead whose tip touches a node edge. Pointing is the
// direction the arrow points in: Down for arrows entering a top edge.
type Arrow struct {
	Tip      *geo.Point
	Pointing Direction
}

func arrowInto(x, y float64, side Side) Arrow {
	p := Down
	if side == Bottom {
		p = Up
	}
	return Arrow{Tip: geo.NewPoint(x, y), Pointing: p}
}

// Route is the per-render routing record of one normalized connection.
type Route struct {
	ID     int // index in the normalized connection list
	Source string
	Target string
	Kind   flow.Kind
	Dashed bool

	// Cross is set when the endpoints live in different sections.
	Cross         bool
	SourceSection string
	TargetSection string

	SourceRow    int
	TargetRow    int
	SourceColumn float64
	TargetColumn float64

	Direction  Direction
	SourceEdge Side
	TargetEdge Side

	// Straight routes connect aligned endpoints with a vertical run and
	// never take a channel.
	Straight bool

	// RoutingColumn is the column a multi-row route runs along through its
	// intermediate rows; LaneOffset spreads routes sharing it, in pixels.
	RoutingColumn float64
	LaneOffset    float64

	// Channels maps a gap to the channel this route uses there. Gap g lies
	// between rows g and g+1; cross-section routes use GlobalGap.
	Channels map[int]int

	// Port offsets from the node centers, in pixels.
	SourcePort float64
	TargetPort float64

	// Merged routes end on a shared bus; the merge carries the drop and
	// arrow into the target.
	Merged bool

	// Color is the color of the source section.
	Color string

	Points []*geo.Point
	Arrows []Arrow
}

// Bidirectional reports whether the route has arrows at both ends.
func (r *Route) Bidirectional() bool { return r.Kind == flow.KindBidirectional }

// SameRow reports whether both endpoints share a row of one section.
func (r *Route) SameRow() bool { return !r.Cross && r.SourceRow == r.TargetRow }

// Span returns the number of row steps between the endpoints.
func (r *Route) Span() int {
	if r.SourceRow > r.TargetRow {
		return r.SourceRow - r.TargetRow
	}
	return r.TargetRow - r.SourceRow
}

// MultiRow reports whether the route passes at least one intermediate row.
func (r *Route) MultiRow() bool { return !r.Cross && r.Span() > 1 }

// Intermediate returns the rows strictly between the endpoints, ordered
// from the source side.
func (r *Route) Intermediate() []int {
	if r.Cross || r.Span() < 2 {
		return nil
	}
	var out []int
	if r.SourceRow < r.TargetRow {
		for row := r.SourceRow + 1; row < r.TargetRow; row++ {
			out = append(out, row)
		}
	} else {
		for row := r.SourceRow - 1; row > r.TargetRow; row-- {
			out = append(out, row)
		}
	}
	return out
}

// Gaps returns the gaps the route threads, ordered from the source side.
// A same-row route threads the gap above its row.
func (r *Route) Gaps() []int {
	if r.Cross {
		return nil
	}
	switch {
	case r.SourceRow < r.TargetRow:
		var out []int
		for g := r.SourceRow; g < r.TargetRow; g++ {
			out = append(out, g)
		}
		return out
	case r.SourceRow > r.TargetRow:
		var out []int
		for g := r.SourceRow - 1; g >= r.TargetRow; g-- {
			out = append(out, g)
		}
		return out
	default:
		return []int{r.SourceRow - 1}
	}
}

// Threads reports whether the route passes gap g.
func (r *Route) Threads(g int) bool {
	if r.Cross {
		return false
	}
	switch {
	case r.SourceRow < r.TargetRow:
		return r.SourceRow <= g && r.TargetRow >= g+1
	case r.SourceRow > r.TargetRow:
		return r.SourceRow >= g+1 && r.TargetRow <= g
	default:
		return g == r.SourceRow-1
	}
}

// TargetGap returns the gap adjacent to the target the route arrives
// through.
func (r *Route) TargetGap() int {
	gaps := r.Gaps()
	if len(gaps) == 0 {
		return GlobalGap
	}
	return gaps[len(gaps)-1]
}

// SourceGap returns the gap adjacent to the source the route leaves through.
func (r *Route) SourceGap() int {
	gaps := r.Gaps()
	if len(gaps) == 0 {
		return GlobalGap
	}
	return gaps[0]
}
