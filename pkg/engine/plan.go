package engine

import (
	"math"
	"strings"

	"github.com/matzehuels/flowschem/pkg/fonts"
	"github.com/matzehuels/flowschem/pkg/style"
)

// NodeGap is the minimum horizontal space between neighbouring nodes.
const NodeGap = 32.0

// planRoutes turns the normalized connections into routes. Connections with
// an endpoint that has no node record are skipped, as are self-loops.
func (c *Context) planRoutes() {
	for id, conn := range c.graph.Normalized() {
		src, ok := c.records[conn.From]
		if !ok {
			c.logger.Debug("skipping connection: unresolved source", "from", conn.From, "to", conn.To)
			continue
		}
		dst, ok := c.records[conn.To]
		if !ok {
			c.logger.Debug("skipping connection: unresolved target", "from", conn.From, "to", conn.To)
			continue
		}
		if src == dst {
			c.logger.Debug("skipping self-loop", "node", conn.From)
			continue
		}
		r := &Route{
			ID:            id,
			Source:        conn.From,
			Target:        conn.To,
			Kind:          conn.Kind,
			Dashed:        conn.Dashed,
			SourceSection: src.section.key,
			TargetSection: dst.section.key,
			SourceRow:     src.row,
			TargetRow:     dst.row,
			SourceColumn:  src.column,
			TargetColumn:  dst.column,
			Channels:      make(map[int]int),
		}
		src.routes = append(src.routes, r)
		dst.routes = append(dst.routes, r)
		c.routes = append(c.routes, r)
		if src.section != dst.section {
			r.Cross = true
			c.cross = append(c.cross, r)
			continue
		}
		src.section.routes = append(src.section.routes, r)
	}

	for _, s := range c.order {
		s.margin = c.corridorMargin(s)
		for _, r := range s.routes {
			c.classify(s, r)
		}
		AssignLaneOffsets(s.routes)
		s.channels = AssignChannels(s.routes, PerGap)
		s.channels.Apply(s.routes)
		s.grid = make([]int, s.layout.MaxRow())
		for g := range s.grid {
			s.grid[g] = GridHeight(s.routes, g)
		}
	}
}

// classify sets direction, edges, straightness and routing column of an
// intra-section route.
func (c *Context) classify(s *sectionState, r *Route) {
	switch {
	case r.SourceRow < r.TargetRow:
		r.Direction, r.SourceEdge, r.TargetEdge = Down, Bottom, Top
	case r.SourceRow > r.TargetRow:
		r.Direction, r.SourceEdge, r.TargetEdge = Up, Top, Bottom
	default:
		r.Direction, r.SourceEdge, r.TargetEdge = Up, Top, Top
	}

	var through []Corridor
	for _, row := range r.Intermediate() {
		rl, _ := s.layout.Row(row)
		through = append(through, rl.Corridor())
	}
	r.RoutingColumn = r.SourceColumn
	if r.SameRow() || !aligned(r.SourceColumn, r.TargetColumn) {
		r.Straight = false
	} else {
		r.Straight = true
		for _, cor := range through {
			if !cor.Clear(r.SourceColumn, s.margin) {
				r.Straight = false
				break
			}
		}
	}
	if !r.Straight && len(through) > 0 {
		r.RoutingColumn = SelectOptimalColumn(r.SourceColumn, r.TargetColumn, through, s.margin)
	}
}

// corridorMargin widens the corridor margin to the half-width of the
// section's widest node, measured against the narrowest the section can be
// laid out at.
func (c *Context) corridorMargin(s *sectionState) float64 {
	area := c.minAreaWidth(s)
	if area <= 0 {
		return CorridorMargin
	}
	w := 0.0
	for _, row := range s.records {
		for _, rec := range row {
			w = max(w, rec.width)
		}
	}
	return math.Max(CorridorMargin, (w/2+PortSpacing/2)/area)
}

func (c *Context) minAreaWidth(s *sectionState) float64 {
	area := 0.0
	for _, row := range s.records {
		w := 0.0
		for _, rec := range row {
			w = max(w, rec.width)
		}
		area = max(area, float64(len(row))*(w+NodeGap))
	}
	return area
}

// measureNodes sizes every node from its label and hint.
func (c *Context) measureNodes() {
	cfg := c.style
	pad := cfg.NodeInsets()
	for _, rec := range c.records {
		name := label(cfg, rec.node.Name)
		if name == "" {
			name = label(cfg, rec.node.ID)
		}
		textW := c.opts.measure.Measure(name, cfg.FontSize)
		textH := cfg.FontSize * fonts.LineHeight
		if rec.node.Hint != "" {
			textW = max(textW, c.opts.hint.Measure(rec.node.Hint, cfg.HintSize))
			textH += cfg.HintSize * fonts.LineHeight
		}
		rec.width = max(cfg.NodeMinWidth, textW+pad.Horizontal())
		rec.height = max(cfg.NodeMinHeight, textH+pad.Vertical())
	}
	c.uniform()
}

// fitPorts widens nodes so every port on an edge keeps PortSpacing to its
// neighbours and the corners, then applies node-uniform.
func (c *Context) fitPorts() {
	for _, rec := range c.records {
		top, bottom := 0, 0
		sharedTop, sharedBottom := false, false
		for _, r := range rec.routes {
			if r.Cross {
				top++
				bottom++
				continue
			}
			side := r.SourceEdge
			if r.Target == rec.node.ID {
				side = r.TargetEdge
				if !r.Bidirectional() {
					if side == Top {
						sharedTop = true
					} else {
						sharedBottom = true
					}
					continue
				}
			}
			if side == Top {
				top++
			} else {
				bottom++
			}
		}
		if sharedTop {
			top++
		}
		if sharedBottom {
			bottom++
		}
		rec.width = max(rec.width, float64(max(top, bottom)+1)*PortSpacing)
	}
	c.uniform()
}

// uniform gives every node the largest width and height when node-uniform
// is set.
func (c *Context) uniform() {
	if !c.style.NodeUniform {
		return
	}
	w, h := 0.0, 0.0
	for _, rec := range c.records {
		w, h = max(w, rec.width), max(h, rec.height)
	}
	for _, rec := range c.records {
		rec.width, rec.height = w, h
	}
}

func label(cfg *style.Config, s string) string {
	if cfg.Uppercase {
		return strings.ToUpper(s)
	}
	return s
}
