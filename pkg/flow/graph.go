package flow

import (
	"errors"
	"slices"
	"sort"
	"strings"
)

var (
	// ErrInvalidNodeID is returned by [Graph.AddNode] when the node ID is empty.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Graph.AddNode] when a resolved node
	// with the same ID is already placed in a section row.
	ErrDuplicateNodeID = errors.New("duplicate node ID")
)

// Kind is the kind of a connection.
type Kind int

const (
	// KindTo is a directed connection from From to To.
	KindTo Kind = iota
	// KindFrom is a directed connection from To to From. It is rewritten
	// into a reversed KindTo by [Graph.Normalized].
	KindFrom
	// KindBidirectional connects both ends with arrows at each side.
	KindBidirectional
)

// String returns the DSL-independent name of the kind.
func (k Kind) String() string {
	switch k {
	case KindFrom:
		return "from"
	case KindBidirectional:
		return "bidirectional"
	default:
		return "to"
	}
}

// Node is an entity placed in a section row. Section and Row are empty
// for nodes that so far only appear as connection targets.
type Node struct {
	ID      string
	Name    string
	Hint    string
	Section string // Section key; empty until resolved
	Row     int    // 1-based row; 0 until resolved
}

// Resolved reports whether the node has been placed in a section row.
func (n *Node) Resolved() bool { return n.Section != "" && n.Row > 0 }

// Connection links two nodes by ID.
type Connection struct {
	From   string
	To     string
	Kind   Kind
	Dashed bool
}

// Normalize rewrites a KindFrom connection into the equivalent reversed
// KindTo connection. Other kinds are returned unchanged.
func (c Connection) Normalize() Connection {
	if c.Kind != KindFrom {
		return c
	}
	return Connection{From: c.To, To: c.From, Kind: KindTo, Dashed: c.Dashed}
}

// Section is the row index of one leaf segment.
type Section struct {
	Key    string
	Name   string
	Parent string
	Rows   map[int][]string
	MaxRow int
}

// SectionKey returns the index key for a section name and optional parent.
func SectionKey(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + ":" + name
}

// Add appends a node ID to the given row.
func (s *Section) Add(row int, id string) {
	if s.Rows == nil {
		s.Rows = make(map[int][]string)
	}
	if slices.Contains(s.Rows[row], id) {
		return
	}
	s.Rows[row] = append(s.Rows[row], id)
	if row > s.MaxRow {
		s.MaxRow = row
	}
}

// Row returns the node IDs of a row, or nil if the row is empty.
func (s *Section) Row(row int) []string { return s.Rows[row] }

// Graph holds the nodes, connections and section index of a diagram.
//
// The zero value is not usable; create graphs with [NewGraph].
type Graph struct {
	nodes       map[string]*Node
	order       []string
	connections []Connection
	sections    map[string]*Section
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{
		nodes:    make(map[string]*Node),
		sections: make(map[string]*Section),
	}
}

// AddNode inserts a node. If a node with the same ID already exists and is
// unresolved, the new record backfills its section, row and labels. Adding
// a resolved node whose ID is already placed returns ErrDuplicateNodeID.
func (g *Graph) AddNode(n Node) (*Node, error) {
	if n.ID == "" {
		return nil, ErrInvalidNodeID
	}
	if existing, ok := g.nodes[n.ID]; ok {
		if !n.Resolved() {
			return existing, nil
		}
		if existing.Resolved() {
			return existing, ErrDuplicateNodeID
		}
		existing.Section, existing.Row = n.Section, n.Row
		if n.Name != "" {
			existing.Name = n.Name
		}
		if n.Hint != "" {
			existing.Hint = n.Hint
		}
		g.place(existing)
		return existing, nil
	}
	node := n
	g.nodes[n.ID] = &node
	g.order = append(g.order, n.ID)
	if node.Resolved() {
		g.place(&node)
	}
	return &node, nil
}

func (g *Graph) place(n *Node) {
	s, ok := g.sections[n.Section]
	if !ok {
		s = &Section{Key: n.Section, Name: n.Section}
		if i := strings.LastIndexByte(n.Section, ':'); i > 0 {
			s.Parent, s.Name = n.Section[:i], n.Section[i+1:]
		}
		g.sections[n.Section] = s
	}
	s.Add(n.Row, n.ID)
}

// Node returns the node with the given ID.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Nodes returns all nodes in insertion order.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.nodes[id])
	}
	return out
}

// NodeCount returns the number of nodes, resolved or not.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// Connect records a connection. Endpoints are not required to exist.
func (g *Graph) Connect(c Connection) {
	g.connections = append(g.connections, c)
}

// Connections returns the connections as recorded.
func (g *Graph) Connections() []Connection { return g.connections }

// Normalized returns all connections with KindFrom rewritten into
// reversed KindTo connections, preserving order.
func (g *Graph) Normalized() []Connection {
	out := make([]Connection, len(g.connections))
	for i, c := range g.connections {
		out[i] = c.Normalize()
	}
	return out
}

// AddSection registers an empty section so it exists even before any node
// is placed in it. Existing sections are returned unchanged.
func (g *Graph) AddSection(parent, name string) *Section {
	key := SectionKey(parent, name)
	if s, ok := g.sections[key]; ok {
		return s
	}
	s := &Section{Key: key, Name: name, Parent: parent}
	g.sections[key] = s
	return s
}

// Section returns the section stored under an exact key.
func (g *Graph) Section(key string) (*Section, bool) {
	s, ok := g.sections[key]
	return s, ok
}

// LookupSection resolves a leaf segment's section. The qualified
// "parent:name" key is tried first; if it is absent the unqualified name
// is used.
func (g *Graph) LookupSection(parent, name string) (*Section, bool) {
	if parent != "" {
		if s, ok := g.sections[SectionKey(parent, name)]; ok {
			return s, true
		}
	}
	s, ok := g.sections[name]
	return s, ok
}

// SectionKeys returns all section keys sorted.
func (g *Graph) SectionKeys() []string {
	keys := make([]string, 0, len(g.sections))
	for k := range g.sections {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Unresolved returns the IDs of nodes that were referenced but never
// placed in a row, in insertion order.
func (g *Graph) Unresolved() []string {
	var out []string
	for _, id := range g.order {
		if !g.nodes[id].Resolved() {
			out = append(out, id)
		}
	}
	return out
}
