package dsl

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	fserr "github.com/matzehuels/flowschem/pkg/errors"
	"github.com/matzehuels/flowschem/pkg/flow"
)

const sample = `# plant overview
@style
theme: engineering
node-min-width: 140
uppercase: false

@layout
[plant:1[boiler][turbine]]/[grid]

@nodes
plant:boiler-1
Burner/gas > Drum
plant:boiler-2
Drum > Turbine
turbine-1
Turbine <-> Grid
grid-1
Grid
Meter < Grid
`

func TestParseSample(t *testing.T) {
	doc, err := Parse([]byte(sample))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if doc.Style.Theme != "engineering" || doc.Style.NodeMinWidth != 140 || doc.Style.Uppercase {
		t.Errorf("style = %+v", doc.Style)
	}

	root, ok := doc.Layout.(*flow.Container)
	if !ok || root.Direction != flow.Column || len(root.Children) != 2 {
		t.Fatalf("layout root = %#v, want a column of two", doc.Layout)
	}
	plant, ok := root.Children[0].(*flow.Segment)
	if !ok || plant.Name != "plant" || plant.ColorKey != "1" || len(plant.Children) != 2 {
		t.Errorf("first child = %#v, want segment plant:1 with two children", root.Children[0])
	}

	g := doc.Graph
	tests := []struct {
		id      string
		section string
		row     int
		hint    string
	}{
		{"plant_boiler_burner", "plant:boiler", 1, "gas"},
		{"plant_boiler_drum", "plant:boiler", 2, ""},
		{"turbine_turbine", "turbine", 1, ""},
		{"grid_grid", "grid", 1, ""},
		{"grid_meter", "grid", 1, ""},
	}
	for _, tt := range tests {
		n, ok := g.Node(tt.id)
		if !ok {
			t.Errorf("node %s missing", tt.id)
			continue
		}
		if n.Section != tt.section || n.Row != tt.row || n.Hint != tt.hint {
			t.Errorf("node %s = %+v, want section %s row %d hint %q", tt.id, n, tt.section, tt.row, tt.hint)
		}
	}
	if u := g.Unresolved(); len(u) != 0 {
		t.Errorf("Unresolved() = %v, want none", u)
	}

	conns := g.Connections()
	if len(conns) != 4 {
		t.Fatalf("connections = %d, want 4", len(conns))
	}
	want := []flow.Connection{
		{From: "plant_boiler_burner", To: "plant_boiler_drum", Kind: flow.KindTo},
		{From: "plant_boiler_drum", To: "turbine_turbine", Kind: flow.KindTo},
		{From: "turbine_turbine", To: "grid_grid", Kind: flow.KindBidirectional, Dashed: true},
		{From: "grid_meter", To: "grid_grid", Kind: flow.KindFrom},
	}
	for i, c := range conns {
		if c != want[i] {
			t.Errorf("connection %d = %+v, want %+v", i, c, want[i])
		}
	}
}

func TestParseOperators(t *testing.T) {
	tests := []struct {
		line   string
		kind   flow.Kind
		dashed bool
	}{
		{"A > B", flow.KindTo, false},
		{"A < B", flow.KindFrom, false},
		{"A <> B", flow.KindBidirectional, false},
		{"A -> B", flow.KindTo, true},
		{"A <- B", flow.KindFrom, true},
		{"A <-> B", flow.KindBidirectional, true},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			doc, err := Parse([]byte("@nodes\ns-1\n" + tt.line + "\nB\n"))
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			c := doc.Graph.Connections()[0]
			if c.Kind != tt.kind || c.Dashed != tt.dashed {
				t.Errorf("connection = %+v, want kind %v dashed %v", c, tt.kind, tt.dashed)
			}
			if c.From != "s_a" || c.To != "s_b" {
				t.Errorf("connection = %s -> %s, want s_a -> s_b", c.From, c.To)
			}
		})
	}
}

func TestParseTargetResolution(t *testing.T) {
	src := `@nodes
left-1
A > B, C, Shared, Lost
left-2
B
right-1
C
Shared
mid-1
Shared
`
	doc, err := Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	got := make(map[string]string)
	for _, c := range doc.Graph.Connections() {
		got[c.To] = c.From
	}
	for _, to := range []string{"left_b", "right_c", "shared", "lost"} {
		if _, ok := got[to]; !ok {
			t.Errorf("no connection into %s; got %v", to, got)
		}
	}
	u := doc.Graph.Unresolved()
	if strings.Join(u, ",") != "shared,lost" {
		t.Errorf("Unresolved() = %v, want [shared lost]", u)
	}
}

func TestParseRepeatedSource(t *testing.T) {
	doc, err := Parse([]byte("@nodes\ns-1\nA > B\nA/hint > C\ns-2\nB\nC\n"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	a, _ := doc.Graph.Node("s_a")
	if a.Row != 1 || a.Hint != "hint" {
		t.Errorf("node a = %+v, want row 1 with backfilled hint", a)
	}
	if n := len(doc.Graph.Connections()); n != 2 {
		t.Errorf("connections = %d, want 2", n)
	}
}

func TestParseLayout(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		check func(t *testing.T, el flow.Element)
	}{
		{
			name: "single leaf",
			src:  "[a]",
			check: func(t *testing.T, el flow.Element) {
				if s, ok := el.(*flow.Segment); !ok || s.Name != "a" || !s.IsLeaf() {
					t.Errorf("got %#v, want leaf a", el)
				}
			},
		},
		{
			name: "side by side",
			src:  "[a][b:3]",
			check: func(t *testing.T, el flow.Element) {
				c, ok := el.(*flow.Container)
				if !ok || c.Direction != flow.Row || len(c.Children) != 2 {
					t.Fatalf("got %#v, want row of two", el)
				}
				if b := c.Children[1].(*flow.Segment); b.ColorKey != "3" {
					t.Errorf("color key = %q, want 3", b.ColorKey)
				}
			},
		},
		{
			name: "stacked rows",
			src:  "[a][b]/[c]",
			check: func(t *testing.T, el flow.Element) {
				c, ok := el.(*flow.Container)
				if !ok || c.Direction != flow.Column || len(c.Children) != 2 {
					t.Fatalf("got %#v, want column of two", el)
				}
				if row, ok := c.Children[0].(*flow.Container); !ok || row.Direction != flow.Row {
					t.Errorf("first child = %#v, want row container", c.Children[0])
				}
			},
		},
		{
			name: "anonymous container collapses",
			src:  "[[a]/[b]][c]",
			check: func(t *testing.T, el flow.Element) {
				c := el.(*flow.Container)
				inner, ok := c.Children[0].(*flow.Container)
				if !ok || inner.Direction != flow.Column {
					t.Errorf("first child = %#v, want column container", c.Children[0])
				}
			},
		},
		{
			name: "named parent stacks children",
			src:  "[p[x]/[y]]",
			check: func(t *testing.T, el flow.Element) {
				p := el.(*flow.Segment)
				if p.Name != "p" || p.Direction != flow.Column || len(p.Children) != 2 {
					t.Errorf("got %#v, want segment p stacking x and y", p)
				}
			},
		},
		{
			name: "spans lines",
			src:  "[a]\n[b]",
			check: func(t *testing.T, el flow.Element) {
				if c, ok := el.(*flow.Container); !ok || len(c.Children) != 2 {
					t.Errorf("got %#v, want two segments", el)
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Parse([]byte("@layout\n" + tt.src + "\n"))
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			tt.check(t, doc.Layout)
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code fserr.Code
	}{
		{"unbalanced open", "@layout\n[a[b]\n", fserr.ErrCodeInvalidLayout},
		{"unbalanced close", "@layout\n[a]]\n", fserr.ErrCodeInvalidLayout},
		{"stray text", "@layout\n[a] x\n", fserr.ErrCodeInvalidLayout},
		{"node outside section", "@nodes\nA > B\n", fserr.ErrCodeInvalidNodes},
		{"missing target", "@nodes\ns-1\nA >\n", fserr.ErrCodeInvalidNodes},
		{"row zero", "@nodes\ns-0\nA\n", fserr.ErrCodeInvalidNodes},
		{"bad style line", "@style\ntheme\n", fserr.ErrCodeInvalidStyle},
		{"bad style value", "@style\nnode-min-width: wide\n", fserr.ErrCodeInvalidStyle},
		{"unknown theme", "@style\ntheme: neon\n", fserr.ErrCodeInvalidStyle},
		{"content before header", "[a]\n@layout\n", fserr.ErrCodeInvalidInput},
		{"duplicate block", "@layout\n[a]\n@layout\n[b]\n", fserr.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.src))
			if err == nil {
				t.Fatal("Parse() expected error")
			}
			if got := fserr.GetCode(err); got != tt.code {
				t.Errorf("code = %s, want %s (%v)", got, tt.code, err)
			}
		})
	}
}

func TestParseErrorLine(t *testing.T) {
	_, err := Parse([]byte("@nodes\ns-1\nA\n\nB >\n"))
	if err == nil || !strings.Contains(err.Error(), "line 5") {
		t.Errorf("error = %v, want it to name line 5", err)
	}
}

func TestParseEmpty(t *testing.T) {
	if _, err := Parse([]byte("  \n")); !fserr.Is(err, fserr.ErrCodeInvalidInput) {
		t.Errorf("Parse(blank) error = %v, want %s", err, fserr.ErrCodeInvalidInput)
	}

	doc, err := Parse([]byte("@nodes\n"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if doc.Layout != nil || doc.Graph.NodeCount() != 0 {
		t.Errorf("document = %+v, want no layout and no nodes", doc)
	}
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plant.flow")
	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ParseFile(path); err != nil {
		t.Errorf("ParseFile() error = %v", err)
	}
	_, err := ParseFile(filepath.Join(t.TempDir(), "missing.flow"))
	if !fserr.Is(err, fserr.ErrCodeFileNotFound) {
		t.Errorf("ParseFile(missing) error = %v, want %s", err, fserr.ErrCodeFileNotFound)
	}
}

func TestNodeID(t *testing.T) {
	tests := []struct {
		section, name, want string
	}{
		{"s", "Drum", "s_drum"},
		{"plant:boiler", "Feed Pump", "plant_boiler_feed_pump"},
		{"", "Lost & Found", "lost___found"},
	}
	for _, tt := range tests {
		if got := NodeID(tt.section, tt.name); got != tt.want {
			t.Errorf("NodeID(%q, %q) = %q, want %q", tt.section, tt.name, got, tt.want)
		}
	}
}
