package engine

import (
	"sort"

	"oss.terrastruct.com/d2/lib/geo"

	fserr "github.com/matzehuels/flowschem/pkg/errors"
	"github.com/matzehuels/flowschem/pkg/flow"
	"github.com/matzehuels/flowschem/pkg/graph"
	"github.com/matzehuels/flowschem/pkg/style"
)

// NodeBox is the resolved geometry of one node.
type NodeBox struct {
	ID      string
	Label   string
	Hint    string
	Section string
	Row     int
	Column  float64
	CenterX float64
	Top     float64
	Width   float64
	Height  float64
}

// Left returns the x of the left edge.
func (n NodeBox) Left() float64 { return n.CenterX - n.Width/2 }

// Stats summarizes a render.
type Stats struct {
	Nodes     int
	Sections  int
	Routes    int
	Cross     int
	Straight  int
	Merges    int
	Skipped   int // connections without a placed endpoint, and self-loops
	Crossings int
}

// Layout is the result of a render.
type Layout struct {
	Width, Height float64

	Segments []SegmentBox

	// Nodes are in graph order, Routes by ID, Sections in tree order.
	Nodes    []NodeBox
	Routes   []*Route
	Merges   []*Merge
	Sections []*SectionLayout
	Stats    Stats
}

// Node returns the box of a placed node.
func (l *Layout) Node(id string) (NodeBox, bool) {
	for _, n := range l.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return NodeBox{}, false
}

// Route returns the route of the normalized connection with the given ID.
func (l *Layout) Route(id int) (*Route, bool) {
	i := sort.Search(len(l.Routes), func(i int) bool { return l.Routes[i].ID >= id })
	if i < len(l.Routes) && l.Routes[i].ID == id {
		return l.Routes[i], true
	}
	return nil, false
}

// Render lays out the segment tree and routes every connection of g.
//
// The tree is sized bottom-up and placed top-down inside the page. Each
// leaf segment is bound to its section, whose rows are spread across the
// segment width. Intra-section routes are planned before sizing so the gaps
// between rows can reserve their channels; cross-section routes are
// resolved once every segment has pixel coordinates.
//
// Missing sections, unresolved endpoints and self-loops are skipped and
// logged at debug level. The only errors are for nil arguments.
func Render(tree flow.Element, g *flow.Graph, cfg *style.Config, opts ...Option) (*Layout, error) {
	if tree == nil || g == nil || cfg == nil {
		return nil, fserr.New(fserr.ErrCodeInvalidInput, "render requires a tree, a graph and a style configuration")
	}
	c := newContext(g, cfg, opts)

	c.bindSections(tree)
	c.measureNodes()
	c.planRoutes()
	c.fitPorts()

	size := c.contentSize(tree)
	pageW, pageH := cfg.PagePixels()
	margin := cfg.MarginPixels()
	root := Box{
		X:      margin.Left,
		Y:      margin.Top,
		Width:  max(size.Width, pageW-margin.Horizontal()),
		Height: max(size.Height, pageH-margin.Vertical()),
	}
	c.place(tree, root, 0, 0)

	c.classifyCross()
	c.assignPorts()
	for _, s := range c.order {
		c.buildSection(s)
	}
	c.buildCross()

	l := c.layout(root.Right()+margin.Right, root.Bottom()+margin.Bottom)
	c.logger.Debug("render complete",
		"nodes", l.Stats.Nodes,
		"routes", l.Stats.Routes,
		"merges", l.Stats.Merges,
		"crossings", l.Stats.Crossings)
	return l, nil
}

func (c *Context) layout(w, h float64) *Layout {
	l := &Layout{
		Width:    w,
		Height:   h,
		Segments: c.segments,
		Merges:   c.merges,
	}
	for _, n := range c.graph.Nodes() {
		rec, ok := c.records[n.ID]
		if !ok || !rec.placed {
			continue
		}
		name := n.Name
		if name == "" {
			name = n.ID
		}
		l.Nodes = append(l.Nodes, NodeBox{
			ID:      n.ID,
			Label:   label(c.style, name),
			Hint:    n.Hint,
			Section: rec.section.key,
			Row:     rec.row,
			Column:  rec.column,
			CenterX: rec.centerX,
			Top:     rec.top,
			Width:   rec.width,
			Height:  rec.height,
		})
	}

	l.Routes = append([]*Route(nil), c.routes...)
	sort.Slice(l.Routes, func(i, j int) bool { return l.Routes[i].ID < l.Routes[j].ID })
	for _, s := range c.order {
		l.Sections = append(l.Sections, s.layout)
	}

	l.Stats = Stats{
		Nodes:    len(l.Nodes),
		Sections: len(c.order),
		Routes:   len(l.Routes),
		Cross:    len(c.cross),
		Merges:   len(c.merges),
		Skipped:  len(c.graph.Connections()) - len(l.Routes),
	}
	for _, r := range l.Routes {
		if r.Straight {
			l.Stats.Straight++
		}
	}
	l.Stats.Crossings = CountCrossings(l)
	return l
}

// Export converts the layout to its serialization format.
func (l *Layout) Export() graph.Layout {
	out := graph.Layout{
		Width:    l.Width,
		Height:   l.Height,
		Segments: make([]graph.Segment, 0, len(l.Segments)),
		Nodes:    make([]graph.Box, 0, len(l.Nodes)),
		Wires:    make([]graph.Wire, 0, len(l.Routes)),
		Stats: graph.Stats{
			Nodes:     l.Stats.Nodes,
			Sections:  l.Stats.Sections,
			Wires:     l.Stats.Routes,
			Cross:     l.Stats.Cross,
			Straight:  l.Stats.Straight,
			Merges:    l.Stats.Merges,
			Skipped:   l.Stats.Skipped,
			Crossings: l.Stats.Crossings,
		},
	}
	for _, s := range l.Segments {
		out.Segments = append(out.Segments, graph.Segment{
			Name:   s.Name,
			Color:  s.Color,
			Depth:  s.Depth,
			Leaf:   s.Leaf,
			X:      s.X,
			Y:      s.Y,
			Width:  s.Width,
			Height: s.Height,
		})
	}
	for _, n := range l.Nodes {
		out.Nodes = append(out.Nodes, graph.Box{
			ID:      n.ID,
			Label:   n.Label,
			Hint:    n.Hint,
			Section: n.Section,
			Row:     n.Row,
			Column:  n.Column,
			CenterX: n.CenterX,
			Top:     n.Top,
			X:       n.Left(),
			Width:   n.Width,
			Height:  n.Height,
		})
	}
	for _, r := range l.Routes {
		w := graph.Wire{
			ID:         r.ID,
			From:       r.Source,
			To:         r.Target,
			Kind:       r.Kind.String(),
			Dashed:     r.Dashed,
			Cross:      r.Cross,
			Straight:   r.Straight,
			Merged:     r.Merged,
			Direction:  r.Direction.String(),
			SourceSide: r.SourceEdge.String(),
			TargetSide: r.TargetEdge.String(),
			Color:      r.Color,
			Points:     exportPoints(r.Points),
		}
		if len(r.Channels) > 0 {
			w.Channels = r.Channels
		}
		for _, a := range r.Arrows {
			w.Arrows = append(w.Arrows, exportArrow(a))
		}
		out.Wires = append(out.Wires, w)
	}
	for _, m := range l.Merges {
		out.Merges = append(out.Merges, graph.Merge{
			Target:    m.Target,
			Side:      m.Side.String(),
			Sources:   m.Sources,
			Cross:     m.Cross,
			Dashed:    m.Dashed,
			Color:     m.Color,
			Bus:       [2]graph.Point{exportPoint(m.Bus[0]), exportPoint(m.Bus[1])},
			Drop:      [2]graph.Point{exportPoint(m.Drop[0]), exportPoint(m.Drop[1])},
			Junctions: exportPoints(m.Junctions),
			Arrow:     exportArrow(m.Arrow),
		})
	}
	return out
}

func exportPoint(p *geo.Point) graph.Point {
	return graph.Point{X: p.X, Y: p.Y}
}

func exportPoints(pts []*geo.Point) []graph.Point {
	out := make([]graph.Point, len(pts))
	for i, p := range pts {
		out[i] = exportPoint(p)
	}
	return out
}

func exportArrow(a Arrow) graph.Arrow {
	return graph.Arrow{Tip: exportPoint(a.Tip), Pointing: a.Pointing.String()}
}
