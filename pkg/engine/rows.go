package engine

import "github.com/matzehuels/flowschem/pkg/flow"

// MinGridHeight is the smallest number of channel units reserved between
// two rows.
const MinGridHeight = 3

// RowLayout is one row of a laid out section.
type RowLayout struct {
	Row       int
	Nodes     []string
	NodeCount int
	Columns   []float64
	Exits     []float64
}

// Corridor returns the row's occupancy for corridor tests.
func (r RowLayout) Corridor() Corridor {
	return Corridor{Columns: r.Columns, Exits: r.Exits}
}

// SectionLayout is the column assignment of one section.
type SectionLayout struct {
	Key  string
	Rows []RowLayout // Rows[i].Row == i+1

	// NodeIDs is the set of nodes placed in the section.
	NodeIDs map[string]bool
}

// MaxRow returns the number of rows.
func (s *SectionLayout) MaxRow() int { return len(s.Rows) }

// Row returns the layout of a 1-based row.
func (s *SectionLayout) Row(row int) (RowLayout, bool) {
	if row < 1 || row > len(s.Rows) {
		return RowLayout{}, false
	}
	return s.Rows[row-1], true
}

// Column returns the column of a node in the section.
func (s *SectionLayout) Column(id string) (row int, col float64, ok bool) {
	for _, r := range s.Rows {
		for i, n := range r.Nodes {
			if n == id {
				return r.Row, r.Columns[i], true
			}
		}
	}
	return 0, 0, false
}

// LayoutSection assigns columns and exit positions to every row 1..MaxRow
// of a section. Row entries that do not name a node of g are dropped;
// missing rows are kept as empty rows so row numbers stay contiguous.
func LayoutSection(s *flow.Section, g *flow.Graph) *SectionLayout {
	out := &SectionLayout{Key: s.Key, NodeIDs: make(map[string]bool)}
	for row := 1; row <= s.MaxRow; row++ {
		var ids []string
		for _, id := range s.Row(row) {
			if _, ok := g.Node(id); ok {
				ids = append(ids, id)
			}
		}
		n := len(ids)
		rl := RowLayout{
			Row:       row,
			Nodes:     ids,
			NodeCount: n,
			Columns:   make([]float64, n),
			Exits:     Exits(n),
		}
		for k := range ids {
			rl.Columns[k] = ColumnPosition(k+1, n)
			out.NodeIDs[ids[k]] = true
		}
		out.Rows = append(out.Rows, rl)
	}
	return out
}

// GridHeight returns the channel units reserved in gap g, the gap between
// rows g and g+1 (g == 0 is the band above row 1, used by same-row wires).
// Routes needing a channel are grouped by target; the arrow clearance is 2
// when any route threading the gap is bidirectional. A top band nothing
// threads gets no height.
func GridHeight(routes []*Route, g int) int {
	targets := make(map[string]bool)
	clearance := 1
	threaded := false
	for _, r := range routes {
		if !r.Threads(g) {
			continue
		}
		threaded = true
		if r.Bidirectional() {
			clearance = 2
		}
		if !r.Straight {
			targets[r.Target] = true
		}
	}
	if g == 0 && !threaded {
		return 0
	}
	return max(MinGridHeight, len(targets)+clearance+1)
}
