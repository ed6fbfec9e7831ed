package graph

import (
	"fmt"
	"slices"

	"github.com/matzehuels/flowschem/pkg/flow"
)

// =============================================================================
// Constants - Single Source of Truth
// =============================================================================

// Connection kinds as serialized.
const (
	KindTo            = "to"
	KindFrom          = "from"
	KindBidirectional = "bidirectional"
)

// Node edges and arrow directions as serialized.
const (
	SideTop    = "top"
	SideBottom = "bottom"

	PointingDown = "down"
	PointingUp   = "up"
)

// =============================================================================
// Graph - Connection Graph Serialization
// =============================================================================

// Graph is the canonical serialization format for a diagram's connection
// graph: its nodes with their section rows and its connections as written.
type Graph struct {
	Nodes []Node `json:"nodes" bson:"nodes"`
	Edges []Edge `json:"edges" bson:"edges"`
}

// Node is a node as serialized. Section and Row are empty for nodes that
// are only referenced as connection targets.
type Node struct {
	ID      string `json:"id" bson:"id"`
	Label   string `json:"label,omitempty" bson:"label,omitempty"` // Display label (defaults to ID)
	Hint    string `json:"hint,omitempty" bson:"hint,omitempty"`
	Section string `json:"section,omitempty" bson:"section,omitempty"`
	Row     int    `json:"row,omitempty" bson:"row,omitempty"`
}

// DisplayLabel returns the label if set, otherwise the ID.
func (n *Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// Edge is a connection as written in the source.
type Edge struct {
	From   string `json:"from" bson:"from"`
	To     string `json:"to" bson:"to"`
	Kind   string `json:"kind,omitempty" bson:"kind,omitempty"` // "to" when empty
	Dashed bool   `json:"dashed,omitempty" bson:"dashed,omitempty"`
}

// =============================================================================
// flow.Graph ↔ Graph Conversion
// =============================================================================

// FromFlow converts a flow graph to its serialization format. Nodes keep
// insertion order; edges keep source order and are not normalized.
func FromFlow(g *flow.Graph) Graph {
	out := Graph{
		Nodes: make([]Node, 0, g.NodeCount()),
		Edges: make([]Edge, 0, len(g.Connections())),
	}
	for _, n := range g.Nodes() {
		out.Nodes = append(out.Nodes, Node{
			ID:      n.ID,
			Label:   n.Name,
			Hint:    n.Hint,
			Section: n.Section,
			Row:     n.Row,
		})
	}
	for _, c := range g.Connections() {
		out.Edges = append(out.Edges, Edge{
			From:   c.From,
			To:     c.To,
			Kind:   c.Kind.String(),
			Dashed: c.Dashed,
		})
	}
	return out
}

// ToFlow converts a Graph back into a flow graph.
func ToFlow(gj Graph) (*flow.Graph, error) {
	g := flow.NewGraph()
	for _, nj := range gj.Nodes {
		n := flow.Node{ID: nj.ID, Name: nj.Label, Hint: nj.Hint, Section: nj.Section, Row: nj.Row}
		if _, err := g.AddNode(n); err != nil {
			return nil, fmt.Errorf("add node %s: %w", nj.ID, err)
		}
	}
	for _, ej := range gj.Edges {
		kind, err := ParseKind(ej.Kind)
		if err != nil {
			return nil, fmt.Errorf("edge %s→%s: %w", ej.From, ej.To, err)
		}
		g.Connect(flow.Connection{From: ej.From, To: ej.To, Kind: kind, Dashed: ej.Dashed})
	}
	return g, nil
}

// ParseKind converts a serialized connection kind. The empty string is
// KindTo.
func ParseKind(s string) (flow.Kind, error) {
	switch s {
	case "", KindTo:
		return flow.KindTo, nil
	case KindFrom:
		return flow.KindFrom, nil
	case KindBidirectional:
		return flow.KindBidirectional, nil
	}
	return flow.KindTo, fmt.Errorf("unknown connection kind %q", s)
}

// Sections returns the distinct section keys of the placed nodes, sorted.
func (g Graph) Sections() []string {
	var out []string
	for _, n := range g.Nodes {
		if n.Section != "" && !slices.Contains(out, n.Section) {
			out = append(out, n.Section)
		}
	}
	slices.Sort(out)
	return out
}
