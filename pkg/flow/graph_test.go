package flow

import (
	"errors"
	"testing"
)

func TestConnectionNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   Connection
		want Connection
	}{
		{
			name: "to unchanged",
			in:   Connection{From: "a", To: "b", Kind: KindTo},
			want: Connection{From: "a", To: "b", Kind: KindTo},
		},
		{
			name: "from reversed",
			in:   Connection{From: "a", To: "b", Kind: KindFrom, Dashed: true},
			want: Connection{From: "b", To: "a", Kind: KindTo, Dashed: true},
		},
		{
			name: "bidirectional unchanged",
			in:   Connection{From: "a", To: "b", Kind: KindBidirectional},
			want: Connection{From: "a", To: "b", Kind: KindBidirectional},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.Normalize(); got != tt.want {
				t.Errorf("Normalize() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestGraphBackfillsTargetOnlyNode(t *testing.T) {
	g := NewGraph()
	if _, err := g.AddNode(Node{ID: "s_c", Name: "C"}); err != nil {
		t.Fatalf("AddNode() error = %v", err)
	}
	if n, _ := g.Node("s_c"); n.Resolved() {
		t.Fatal("target-only node should be unresolved")
	}

	n, err := g.AddNode(Node{ID: "s_c", Name: "C", Hint: "sink", Section: "s", Row: 2})
	if err != nil {
		t.Fatalf("AddNode() error = %v", err)
	}
	if !n.Resolved() || n.Row != 2 || n.Hint != "sink" {
		t.Errorf("backfilled node = %+v", n)
	}
	s, ok := g.Section("s")
	if !ok {
		t.Fatal("section s not created")
	}
	if got := s.Row(2); len(got) != 1 || got[0] != "s_c" {
		t.Errorf("Row(2) = %v, want [s_c]", got)
	}
	if len(g.Unresolved()) != 0 {
		t.Errorf("Unresolved() = %v, want none", g.Unresolved())
	}
}

func TestGraphAddNodeErrors(t *testing.T) {
	g := NewGraph()
	if _, err := g.AddNode(Node{}); !errors.Is(err, ErrInvalidNodeID) {
		t.Errorf("AddNode(empty) error = %v, want %v", err, ErrInvalidNodeID)
	}
	g.AddNode(Node{ID: "a", Section: "s", Row: 1})
	if _, err := g.AddNode(Node{ID: "a", Section: "s", Row: 2}); !errors.Is(err, ErrDuplicateNodeID) {
		t.Errorf("AddNode(dup) error = %v, want %v", err, ErrDuplicateNodeID)
	}
}

func TestLookupSectionFallsBackToUnqualified(t *testing.T) {
	g := NewGraph()
	g.AddNode(Node{ID: "io_a", Section: "io", Row: 1})
	g.AddNode(Node{ID: "b", Section: SectionKey("left", "io"), Row: 1})

	tests := []struct {
		name    string
		parent  string
		section string
		want    string
		found   bool
	}{
		{name: "qualified hit", parent: "left", section: "io", want: "left:io", found: true},
		{name: "qualified miss", parent: "right", section: "io", want: "io", found: true},
		{name: "unqualified", parent: "", section: "io", want: "io", found: true},
		{name: "missing", parent: "", section: "nope", found: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, ok := g.LookupSection(tt.parent, tt.section)
			if ok != tt.found {
				t.Fatalf("LookupSection() found = %v, want %v", ok, tt.found)
			}
			if ok && s.Key != tt.want {
				t.Errorf("LookupSection() key = %v, want %v", s.Key, tt.want)
			}
		})
	}

	if s, _ := g.Section("left:io"); s.Parent != "left" || s.Name != "io" {
		t.Errorf("qualified section = %+v, want parent left name io", s)
	}
}

func TestNormalizedPreservesOrder(t *testing.T) {
	g := NewGraph()
	g.Connect(Connection{From: "a", To: "b", Kind: KindTo})
	g.Connect(Connection{From: "c", To: "d", Kind: KindFrom})
	got := g.Normalized()
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[1].From != "d" || got[1].To != "c" || got[1].Kind != KindTo {
		t.Errorf("Normalized()[1] = %+v", got[1])
	}
	if g.Connections()[1].Kind != KindFrom {
		t.Error("Normalized() must not modify stored connections")
	}
}

func TestLeaves(t *testing.T) {
	a := &Segment{Name: "a"}
	b := &Segment{Name: "b"}
	c := &Segment{Name: "c"}
	root := &Container{
		Direction: Column,
		Children: []Element{
			a,
			&Segment{Name: "group", Children: []Element{b, &Container{Children: []Element{c}}}},
		},
	}

	leaves := Leaves(root)
	if len(leaves) != 3 {
		t.Fatalf("len(Leaves) = %d, want 3", len(leaves))
	}
	want := []struct{ name, parent string }{{"a", ""}, {"b", "group"}, {"c", "group"}}
	for i, w := range want {
		if leaves[i].Segment.Name != w.name || leaves[i].Parent != w.parent {
			t.Errorf("Leaves()[%d] = %s/%s, want %s/%s", i, leaves[i].Parent, leaves[i].Segment.Name, w.parent, w.name)
		}
	}
	if d := Depth(root); d != 4 {
		t.Errorf("Depth() = %d, want 4", d)
	}
}
