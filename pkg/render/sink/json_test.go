package sink

import (
	"testing"

	"github.com/matzehuels/flowschem/pkg/graph"
)

func TestRenderJSON(t *testing.T) {
	in := sampleLayout()
	data, err := RenderJSON(in, WithLayoutID("r-1"), WithTheme("cool"))
	if err != nil {
		t.Fatalf("RenderJSON() error = %v", err)
	}
	if in.ID != "" || in.Theme != "" {
		t.Errorf("RenderJSON() modified its input: %q %q", in.ID, in.Theme)
	}

	out, err := graph.UnmarshalLayout(data)
	if err != nil {
		t.Fatalf("UnmarshalLayout() error = %v", err)
	}
	if out.ID != "r-1" || out.Theme != "cool" {
		t.Errorf("id, theme = %q, %q, want r-1, cool", out.ID, out.Theme)
	}
	if len(out.Wires) != 2 || len(out.Merges) != 1 || len(out.Nodes) != 2 {
		t.Errorf("wires, merges, nodes = %d, %d, %d, want 2, 1, 2", len(out.Wires), len(out.Merges), len(out.Nodes))
	}
	if got := out.Wires[1].Points[2]; got != (graph.Point{X: 130, Y: 150}) {
		t.Errorf("wire 1 point 2 = %+v, want {130 150}", got)
	}
}
