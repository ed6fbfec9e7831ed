package engine

import (
	"math"
	"sort"
)

const (
	// ChannelSpacing is the vertical distance between channels, and the
	// height of one grid unit.
	ChannelSpacing = 15.0

	// LaneSpacing separates multi-row routes sharing a corridor exit.
	LaneSpacing = 8.0
)

// GlobalGap is the gap key cross-section channels are stored under.
const GlobalGap = -1

// GroupingPolicy selects how channels are numbered.
type GroupingPolicy int

const (
	// PerGap numbers channels independently in every gap a route threads.
	// Straight routes take no channel.
	PerGap GroupingPolicy = iota
	// Global numbers channels once for all cross-section routes, one per
	// destination, under GlobalGap.
	Global
)

// ChannelMap maps gap -> target node ID -> channel number (1-based).
type ChannelMap map[int]map[string]int

// Channel returns the channel of target in gap, or 0.
func (m ChannelMap) Channel(gap int, target string) int {
	return m[gap][target]
}

// Count returns the number of channels used in gap.
func (m ChannelMap) Count(gap int) int {
	return len(m[gap])
}

type destination struct {
	id      string
	section string
	row     int
	column  float64
}

// AssignChannels groups routes by destination and numbers the groups
// densely from 1. Under PerGap, groups in each gap are ordered by
// destination column descending, then row ascending, so the rightmost
// destination turns in channel 1. Under Global, cross-section routes are
// ordered by destination section, row, and column descending.
func AssignChannels(routes []*Route, policy GroupingPolicy) ChannelMap {
	groups := make(map[int]map[string]destination)
	add := func(gap int, r *Route) {
		if groups[gap] == nil {
			groups[gap] = make(map[string]destination)
		}
		groups[gap][r.Target] = destination{
			id:      r.Target,
			section: r.TargetSection,
			row:     r.TargetRow,
			column:  r.TargetColumn,
		}
	}

	for _, r := range routes {
		switch policy {
		case PerGap:
			if r.Cross || r.Straight {
				continue
			}
			for _, g := range r.Gaps() {
				add(g, r)
			}
		case Global:
			if r.Cross {
				add(GlobalGap, r)
			}
		}
	}

	out := make(ChannelMap, len(groups))
	for gap, dests := range groups {
		list := make([]destination, 0, len(dests))
		for _, d := range dests {
			list = append(list, d)
		}
		sort.Slice(list, func(i, j int) bool {
			a, b := list[i], list[j]
			if policy == Global && a.section != b.section {
				return a.section < b.section
			}
			if policy == Global && a.row != b.row {
				return a.row < b.row
			}
			if a.column != b.column {
				return a.column > b.column
			}
			if a.row != b.row {
				return a.row < b.row
			}
			return a.id < b.id
		})
		m := make(map[string]int, len(list))
		for i, d := range list {
			m[d.id] = i + 1
		}
		out[gap] = m
	}
	return out
}

// Apply copies the channel numbers of m onto the routes it covers.
func (m ChannelMap) Apply(routes []*Route) {
	for _, r := range routes {
		if r.Channels == nil {
			r.Channels = make(map[int]int)
		}
		if r.Cross {
			if ch := m.Channel(GlobalGap, r.Target); ch > 0 {
				r.Channels[GlobalGap] = ch
			}
			continue
		}
		for _, g := range r.Gaps() {
			if ch := m.Channel(g, r.Target); ch > 0 {
				r.Channels[g] = ch
			}
		}
	}
}

type laneKey struct {
	column int64
	row    int
}

// AssignLaneOffsets spreads multi-row routes that run along the same
// column through the same first intermediate row. Each group is ordered by
// destination column and centered on the shared column at LaneSpacing.
func AssignLaneOffsets(routes []*Route) {
	groups := make(map[laneKey][]*Route)
	var keys []laneKey
	for _, r := range routes {
		r.LaneOffset = 0
		if r.Straight || !r.MultiRow() {
			continue
		}
		k := laneKey{column: int64(math.Round(r.RoutingColumn * 1e6)), row: r.Intermediate()[0]}
		if _, ok := groups[k]; !ok {
			keys = append(keys, k)
		}
		groups[k] = append(groups[k], r)
	}
	for _, k := range keys {
		g := groups[k]
		if len(g) < 2 {
			continue
		}
		sort.SliceStable(g, func(i, j int) bool {
			if g[i].TargetColumn != g[j].TargetColumn {
				return g[i].TargetColumn < g[j].TargetColumn
			}
			return g[i].ID < g[j].ID
		})
		mid := float64(len(g)-1) / 2
		for i, r := range g {
			r.LaneOffset = (float64(i) - mid) * LaneSpacing
		}
	}
}
