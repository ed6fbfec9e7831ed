package engine

import (
	"sort"
	"strconv"
)

// crossRowDistance orders cross-section endpoints after every intra-section
// endpoint of the same bucket.
const crossRowDistance = 1000

// portSlot is one port on a node edge and the route ends attached to it.
type portSlot struct {
	entry PortEntry
	ends  []routeEnd
}

// routeEnd is one end of a route: the source end when source is set.
type routeEnd struct {
	route  *Route
	source bool
}

func (e routeEnd) set(offset float64) {
	if e.source {
		e.route.SourcePort = offset
	} else {
		e.route.TargetPort = offset
	}
}

// assignPorts orders the wires on every node edge and writes the port
// offsets to the routes. Outgoing and bidirectional ends get a port each;
// all unidirectional wires entering one edge share a single port.
func (c *Context) assignPorts() {
	recs := make([]*nodeRecord, 0, len(c.records))
	for _, rec := range c.records {
		recs = append(recs, rec)
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].order < recs[j].order })

	for _, rec := range recs {
		for _, side := range []Side{Top, Bottom} {
			slots := c.portSlots(rec, side)
			if len(slots) == 0 {
				continue
			}
			entries := make([]PortEntry, len(slots))
			for i, s := range slots {
				entries[i] = s.entry
			}
			ordered := OrderPorts(rec.column, entries)
			for i, e := range ordered {
				k, _ := strconv.Atoi(e.Key)
				for _, end := range slots[k].ends {
					end.set(PortOffset(i, len(ordered)))
				}
			}
		}
	}
}

// portSlots collects the ports of one node edge, in route order.
func (c *Context) portSlots(rec *nodeRecord, side Side) []portSlot {
	routes := append([]*Route(nil), rec.routes...)
	sort.Slice(routes, func(i, j int) bool { return routes[i].ID < routes[j].ID })

	var slots []portSlot
	var shared []routeEnd
	var sharedCols []float64
	sharedSameRow, sharedDist := true, 0

	for _, r := range routes {
		source := r.Source == rec.node.ID
		edge := r.TargetEdge
		if source {
			edge = r.SourceEdge
		}
		if edge != side {
			continue
		}
		col, sameRow, dist := c.farEnd(rec, r, source)
		end := routeEnd{route: r, source: source}
		if !source && !r.Bidirectional() {
			if len(shared) == 0 || dist < sharedDist {
				sharedDist = dist
			}
			sharedSameRow = sharedSameRow && sameRow
			sharedCols = append(sharedCols, col)
			shared = append(shared, end)
			continue
		}
		slots = append(slots, portSlot{
			entry: PortEntry{Key: strconv.Itoa(len(slots)), Column: col, SameRow: sameRow, RowDistance: dist},
			ends:  []routeEnd{end},
		})
	}
	if len(shared) > 0 {
		sum := 0.0
		for _, col := range sharedCols {
			sum += col
		}
		slots = append(slots, portSlot{
			entry: PortEntry{
				Key:         strconv.Itoa(len(slots)),
				Column:      sum / float64(len(sharedCols)),
				SameRow:     sharedSameRow,
				RowDistance: sharedDist,
			},
			ends: shared,
		})
	}
	return slots
}

// farEnd describes the other endpoint of r as seen from rec: its effective
// column in rec's section frame, whether it shares rec's row, and its row
// distance.
func (c *Context) farEnd(rec *nodeRecord, r *Route, source bool) (float64, bool, int) {
	other := c.records[r.Target]
	if !source {
		other = c.records[r.Source]
	}
	if r.Cross {
		return rec.section.col(other.centerX), false, crossRowDistance
	}
	dist := r.Span()
	adj := rec.row + 1
	if other.row < rec.row {
		adj = rec.row - 1
	}
	count := 0
	if rl, ok := rec.section.layout.Row(adj); ok {
		count = rl.NodeCount
	}
	return EffectiveColumn(rec.column, other.column, dist, count), r.SameRow(), dist
}
