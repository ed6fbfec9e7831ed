package engine

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/flowschem/pkg/flow"
	"github.com/matzehuels/flowschem/pkg/fonts"
	"github.com/matzehuels/flowschem/pkg/style"
)

// Box is an axis-aligned rectangle; X and Y are its top-left corner.
type Box struct {
	X, Y, Width, Height float64
}

func (b Box) Right() float64   { return b.X + b.Width }
func (b Box) Bottom() float64  { return b.Y + b.Height }
func (b Box) CenterX() float64 { return b.X + b.Width/2 }

// Size is the content size of a tree element.
type Size struct {
	Width, Height float64
}

// Option configures a render.
type Option func(*options)

type options struct {
	logger  *log.Logger
	measure fonts.Measurer
	hint    fonts.Measurer
}

// WithLogger sets the logger skipped references and fallbacks are reported
// to, at debug level.
func WithLogger(l *log.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithMeasurer overrides the text measurer used for node labels and hints.
func WithMeasurer(m fonts.Measurer) Option {
	return func(o *options) { o.measure, o.hint = m, m }
}

// nodeRecord is the mutable per-render state of one node.
type nodeRecord struct {
	node    *flow.Node
	order   int
	section *sectionState
	row     int
	column  float64

	width, height float64
	centerX, top  float64
	placed        bool

	routes []*Route
}

func (n *nodeRecord) edgeY(s Side) float64 {
	if s == Bottom {
		return n.top + n.height
	}
	return n.top
}

func (n *nodeRecord) bottom() float64 { return n.top + n.height }

// sectionState is the per-render state of one leaf segment with content.
type sectionState struct {
	key     string
	leaf    *flow.Segment
	index   int
	layout  *SectionLayout
	routes  []*Route
	margin  float64
	color   string
	placed  bool
	records [][]*nodeRecord // by row index, 0-based

	channels ChannelMap
	grid     []int // grid[g]: channel units of gap g, g in 0..MaxRow-1

	area      Box
	rowTop    []float64 // by row index, 0-based
	rowBottom []float64
	gapTop    []float64 // by gap
	gapBottom []float64 // by gap
}

func (s *sectionState) x(col float64) float64 {
	return s.area.X + col*s.area.Width
}

func (s *sectionState) col(x float64) float64 {
	if s.area.Width == 0 {
		return 0.5
	}
	return (x - s.area.X) / s.area.Width
}

// channelY returns the y of channel ch in gap, counted from the side of
// the gap the wire enters from: down from the gap top for downward
// travel, up from the gap bottom for upward travel.
func (s *sectionState) channelY(gap, ch int, d Direction) float64 {
	if d == Up {
		return s.gapBottom[gap] - float64(ch)*ChannelSpacing
	}
	return s.gapTop[gap] + float64(ch)*ChannelSpacing
}

// reserveLane is the channel below every assigned one in a gap, used for
// jogs of straight routes and for merges without an assigned channel.
func (s *sectionState) reserveLane(gap int) int {
	return s.channels.Count(gap) + 1
}

func (s *sectionState) rowHeight(i int) float64 {
	h := 0.0
	for _, rec := range s.records[i] {
		h = max(h, rec.height)
	}
	return h
}

// contentHeight is the height of the row block including gaps.
func (s *sectionState) contentHeight() float64 {
	h := 0.0
	for i := range s.records {
		h += s.rowHeight(i) + float64(s.grid[i])*ChannelSpacing
	}
	return h
}

// Context owns all mutable state of one render. It is discarded afterwards;
// the input tree and graph are never modified.
type Context struct {
	graph  *flow.Graph
	style  *style.Config
	opts   options
	logger *log.Logger

	records  map[string]*nodeRecord
	sections map[string]*sectionState
	leaves   map[*flow.Segment]*sectionState
	order    []*sectionState

	routes []*Route
	cross  []*Route

	sizes    map[flow.Element]Size
	segments []SegmentBox
	merges   []*Merge
}

func newContext(g *flow.Graph, cfg *style.Config, opts []Option) *Context {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = log.New(io.Discard)
	}
	if o.measure == nil {
		o.measure = fonts.ForFamily(cfg.Font)
	}
	if o.hint == nil {
		o.hint = fonts.ForFamily(cfg.HintFont)
	}
	return &Context{
		graph:    g,
		style:    cfg,
		opts:     o,
		logger:   o.logger,
		records:  make(map[string]*nodeRecord),
		sections: make(map[string]*sectionState),
		leaves:   make(map[*flow.Segment]*sectionState),
		sizes:    make(map[flow.Element]Size),
	}
}

// bindSections resolves each leaf segment to its section, lays out its
// rows and creates the node records. A section claimed by an earlier leaf
// is not laid out twice.
func (c *Context) bindSections(root flow.Element) {
	order := make(map[string]int)
	for i, n := range c.graph.Nodes() {
		order[n.ID] = i
	}
	for i, leaf := range flow.Leaves(root) {
		sec, ok := c.graph.LookupSection(leaf.Parent, leaf.Segment.Name)
		if !ok {
			c.logger.Debug("no section for segment", "segment", leaf.Segment.Name, "parent", leaf.Parent)
			continue
		}
		if _, taken := c.sections[sec.Key]; taken {
			c.logger.Debug("section already bound", "section", sec.Key, "segment", leaf.Segment.Name)
			continue
		}
		st := &sectionState{
			key:    sec.Key,
			leaf:   leaf.Segment,
			index:  i,
			layout: LayoutSection(sec, c.graph),
		}
		for _, row := range st.layout.Rows {
			recs := make([]*nodeRecord, len(row.Nodes))
			for k, id := range row.Nodes {
				n, _ := c.graph.Node(id)
				rec := &nodeRecord{node: n, order: order[id], section: st, row: row.Row, column: row.Columns[k]}
				c.records[id] = rec
				recs[k] = rec
			}
			st.records = append(st.records, recs)
		}
		c.sections[sec.Key] = st
		c.leaves[leaf.Segment] = st
		c.order = append(c.order, st)
	}
}
