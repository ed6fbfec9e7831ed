package cli

import (
	"strings"
	"testing"

	"github.com/matzehuels/flowschem/pkg/engine"
	"github.com/matzehuels/flowschem/pkg/fonts"
	"github.com/matzehuels/flowschem/pkg/pipeline"
)

func plantRows(t *testing.T) []routeRow {
	t.Helper()
	doc, err := pipeline.Parse(pipeline.Options{Source: []byte(plant)})
	if err != nil {
		t.Fatal(err)
	}
	l, err := engine.Render(doc.Layout, doc.Graph, doc.Style, engine.WithMeasurer(fonts.Ratio(0.6)))
	if err != nil {
		t.Fatal(err)
	}
	return routeRows(l)
}

func TestRouteRows(t *testing.T) {
	rows := plantRows(t)
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}

	var cross int
	for _, r := range rows {
		if r.Cross {
			cross++
			if r.Source != "boiler_drum" || r.Target != "turbine_turbine" {
				t.Errorf("cross route = %s -> %s, want boiler_drum -> turbine_turbine", r.Source, r.Target)
			}
		}
		if len(r.Points) < 2 {
			t.Errorf("route %d has %d waypoints, want at least 2", r.ID, len(r.Points))
		}
		if r.Kind != "to" {
			t.Errorf("route %d kind = %q, want to", r.ID, r.Kind)
		}
		if r.Channels == "" {
			t.Errorf("route %d has no channel text", r.ID)
		}
	}
	if cross != 1 {
		t.Errorf("cross routes = %d, want 1", cross)
	}
}

func TestFormatChannels(t *testing.T) {
	tests := []struct {
		in   map[int]int
		want string
	}{
		{nil, "-"},
		{map[int]int{0: 1}, "g0:1"},
		{map[int]int{2: 3, 0: 1}, "g0:1 g2:3"},
		{map[int]int{engine.GlobalGap: 2}, "x:2"},
	}
	for _, tt := range tests {
		if got := formatChannels(tt.in); got != tt.want {
			t.Errorf("formatChannels(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRouteFlags(t *testing.T) {
	tests := []struct {
		route engine.Route
		want  string
	}{
		{engine.Route{}, ""},
		{engine.Route{Straight: true}, "straight"},
		{engine.Route{Merged: true, Dashed: true}, "merged,dashed"},
	}
	for _, tt := range tests {
		if got := routeFlags(&tt.route); got != tt.want {
			t.Errorf("routeFlags(%+v) = %q, want %q", tt.route, got, tt.want)
		}
	}
}

func TestFilterRows(t *testing.T) {
	rows := plantRows(t)

	if got := filterRows(rows, ""); len(got) != len(rows) {
		t.Errorf("filterRows(\"\") = %v, want every row", got)
	}

	got := filterRows(rows, "condenser")
	if len(got) != 1 || rows[got[0]].Target != "turbine_condenser" {
		t.Errorf("filterRows(condenser) = %v, want the route into turbine_condenser", got)
	}

	got = filterRows(rows, "CROSS")
	if len(got) != 1 || !rows[got[0]].Cross {
		t.Errorf("filterRows(CROSS) = %v, want the cross route", got)
	}

	if got := filterRows(rows, "zzz"); len(got) != 0 {
		t.Errorf("filterRows(zzz) = %v, want none", got)
	}
}

func TestRouteTable(t *testing.T) {
	out := routeTable(plantRows(t), -1)
	for _, want := range []string{"Source", "Channels", "boiler_burner", "turbine_condenser"} {
		if !strings.Contains(out, want) {
			t.Errorf("routeTable() missing %q", want)
		}
	}
}
