package pipeline

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/flowschem/pkg/cache"
	fserr "github.com/matzehuels/flowschem/pkg/errors"
	"github.com/matzehuels/flowschem/pkg/fonts"
	"github.com/matzehuels/flowschem/pkg/graph"
	"github.com/matzehuels/flowschem/pkg/render"
)

const plant = `@style
theme: engineering

@layout
[boiler][turbine]

@nodes
boiler-1
Burner/gas > Drum
boiler-2
Drum > Turbine
turbine-1
Turbine > Condenser, Vent
turbine-2
Condenser
`

func testOptions(formats ...string) Options {
	return Options{
		Name:     "plant.flow",
		Source:   []byte(plant),
		Formats:  formats,
		Measurer: fonts.Ratio(0.6),
	}
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"json", false},
		{"dot", false},
		{"png", false},
		{"pdf", false},
		{"invalid", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !fserr.Is(err, fserr.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %s, want %s", tt.format, fserr.GetCode(err), fserr.ErrCodeInvalidFormat)
		}
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"svg", "svg", false},
		{"svg, JSON ,dot", "svg,json,dot", false},
		{"svg,svg", "svg", false},
		{"", "", false},
		{"svg,gif", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormats(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormats(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if strings.Join(got, ",") != tt.want {
			t.Errorf("ParseFormats(%q) = %v, want %s", tt.in, got, tt.want)
		}
	}
}

func TestValidateAndSetDefaults(t *testing.T) {
	opts := Options{Source: []byte(plant)}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error = %v", err)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatSVG {
		t.Errorf("Formats = %v, want [svg]", opts.Formats)
	}
	if opts.Name != "document" || opts.Logger == nil {
		t.Errorf("defaults not applied: name %q logger %v", opts.Name, opts.Logger)
	}

	bad := []Options{
		{},
		{Source: []byte(plant), Formats: []string{"gif"}},
		{Source: []byte(plant), Scale: -1},
	}
	for i, o := range bad {
		if err := o.ValidateAndSetDefaults(); err == nil {
			t.Errorf("case %d: ValidateAndSetDefaults() expected error", i)
		}
	}
}

func TestParse(t *testing.T) {
	opts := testOptions()
	opts.StyleTOML = []byte("theme = \"warm\"\nline-theme = true\n")
	doc, err := Parse(opts)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if doc.Style.Theme != "warm" || !doc.Style.LineTheme {
		t.Errorf("style = %s line-theme %v, want warm with line-theme", doc.Style.Theme, doc.Style.LineTheme)
	}
	if doc.Graph.NodeCount() != 5 {
		t.Errorf("NodeCount() = %d, want 5", doc.Graph.NodeCount())
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code fserr.Code
	}{
		{"empty", Options{Source: []byte("\n")}, fserr.ErrCodeInvalidInput},
		{"no layout", Options{Source: []byte("@nodes\ns-1\nA\n")}, fserr.ErrCodeInvalidLayout},
		{"bad toml", Options{Source: []byte(plant), StyleTOML: []byte("theme = ")}, fserr.ErrCodeInvalidStyle},
		{"bad theme", Options{Source: []byte(plant), StyleTOML: []byte(`theme = "neon"`)}, fserr.ErrCodeInvalidStyle},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.opts)
			if got := fserr.GetCode(err); got != tt.code {
				t.Errorf("Parse() code = %s, want %s (%v)", got, tt.code, err)
			}
		})
	}
}

func TestGenerateLayout(t *testing.T) {
	opts := testOptions()
	doc, err := Parse(opts)
	if err != nil {
		t.Fatal(err)
	}
	l, err := GenerateLayout(doc, opts)
	if err != nil {
		t.Fatalf("GenerateLayout() error = %v", err)
	}
	if l.Theme != "engineering" {
		t.Errorf("Theme = %q, want engineering", l.Theme)
	}
	if l.Width <= 0 || l.Height <= 0 {
		t.Errorf("size = %vx%v, want positive", l.Width, l.Height)
	}
	// Vent is unresolved and left out.
	if len(l.Nodes) != 4 {
		t.Errorf("nodes = %d, want 4", len(l.Nodes))
	}
	if len(l.Wires) != 3 || l.Stats.Skipped != 1 {
		t.Errorf("wires = %d skipped = %d, want 3 and 1", len(l.Wires), l.Stats.Skipped)
	}
	if _, ok := l.Node("turbine_condenser"); !ok {
		t.Error("turbine_condenser not placed")
	}
}

func TestRender(t *testing.T) {
	opts := testOptions(FormatSVG, FormatJSON, FormatDOT)
	doc, err := Parse(opts)
	if err != nil {
		t.Fatal(err)
	}
	l, err := GenerateLayout(doc, opts)
	if err != nil {
		t.Fatal(err)
	}
	artifacts, err := Render(l, doc, opts)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !bytes.HasPrefix(artifacts[FormatSVG], []byte("<svg")) {
		t.Errorf("svg artifact = %.40q", artifacts[FormatSVG])
	}
	if !bytes.Contains(artifacts[FormatDOT], []byte("digraph")) {
		t.Errorf("dot artifact = %.40q", artifacts[FormatDOT])
	}
	decoded, err := graph.UnmarshalLayout(artifacts[FormatJSON])
	if err != nil {
		t.Fatalf("UnmarshalLayout(json artifact) error = %v", err)
	}
	if len(decoded.Wires) != len(l.Wires) {
		t.Errorf("decoded wires = %d, want %d", len(decoded.Wires), len(l.Wires))
	}
}

func TestRenderRaster(t *testing.T) {
	if !render.ConvertAvailable() {
		t.Skip("rsvg-convert not installed")
	}
	opts := testOptions(FormatPNG, FormatPDF)
	result, err := NewRunner(nil, nil, nil).Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !bytes.HasPrefix(result.Artifacts[FormatPNG], []byte("\x89PNG")) {
		t.Error("png artifact missing PNG signature")
	}
	if !bytes.HasPrefix(result.Artifacts[FormatPDF], []byte("%PDF")) {
		t.Error("pdf artifact missing PDF header")
	}
}

func TestRunnerCaching(t *testing.T) {
	ctx := context.Background()
	mem := cache.NewMemoryCache()
	runner := NewRunner(mem, nil, nil)
	defer runner.Close()

	first, err := runner.Execute(ctx, testOptions(FormatSVG, FormatJSON))
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if first.CacheInfo.LayoutHit || first.CacheInfo.RenderHit {
		t.Errorf("first run CacheInfo = %+v, want misses", first.CacheInfo)
	}
	if first.GraphHash == "" {
		t.Error("GraphHash is empty")
	}
	if first.Stats.NodeCount != 5 || first.Stats.ConnectionCount != 4 {
		t.Errorf("Stats = %+v, want 5 nodes and 4 connections", first.Stats)
	}
	if mem.Len() != 3 {
		t.Errorf("cache entries = %d, want 3 (layout, svg, json)", mem.Len())
	}

	second, err := runner.Execute(ctx, testOptions(FormatSVG, FormatJSON))
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !second.CacheInfo.LayoutHit || !second.CacheInfo.RenderHit {
		t.Errorf("second run CacheInfo = %+v, want hits", second.CacheInfo)
	}
	if !bytes.Equal(first.Artifacts[FormatSVG], second.Artifacts[FormatSVG]) {
		t.Error("cached svg differs from rendered svg")
	}

	// A new format renders only that format.
	third, err := runner.Execute(ctx, testOptions(FormatSVG, FormatDOT))
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !third.CacheInfo.LayoutHit || third.CacheInfo.RenderHit {
		t.Errorf("third run CacheInfo = %+v, want layout hit and render miss", third.CacheInfo)
	}
	if len(third.Artifacts) != 2 {
		t.Errorf("artifacts = %d, want 2", len(third.Artifacts))
	}
}

func TestRunnerRefresh(t *testing.T) {
	ctx := context.Background()
	runner := NewRunner(cache.NewMemoryCache(), nil, nil)

	if _, err := runner.Execute(ctx, testOptions()); err != nil {
		t.Fatal(err)
	}
	opts := testOptions()
	opts.Refresh = true
	result, err := runner.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if result.CacheInfo.LayoutHit || result.CacheInfo.RenderHit {
		t.Errorf("CacheInfo = %+v, want misses with Refresh", result.CacheInfo)
	}
}

func TestRunnerStyleChangesKey(t *testing.T) {
	ctx := context.Background()
	runner := NewRunner(cache.NewMemoryCache(), nil, nil)

	if _, err := runner.Execute(ctx, testOptions()); err != nil {
		t.Fatal(err)
	}
	opts := testOptions()
	opts.StyleTOML = []byte("node-min-width = 200\n")
	result, err := runner.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if result.CacheInfo.LayoutHit {
		t.Error("LayoutHit = true after a style override, want a fresh layout")
	}
}

func TestRunnerErrors(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	_, err := runner.Execute(context.Background(), Options{Source: []byte("@layout\n[a\n")})
	if !fserr.Is(err, fserr.ErrCodeInvalidLayout) {
		t.Errorf("Execute() error = %v, want %s", err, fserr.ErrCodeInvalidLayout)
	}
	_, err = runner.Execute(context.Background(), Options{})
	if !fserr.Is(err, fserr.ErrCodeInvalidInput) {
		t.Errorf("Execute(empty) error = %v, want %s", err, fserr.ErrCodeInvalidInput)
	}
}

func TestMeasurerKey(t *testing.T) {
	a := testOptions()
	b := testOptions()
	b.Measurer = fonts.Ratio(0.5)
	doc, err := Parse(a)
	if err != nil {
		t.Fatal(err)
	}
	if a.LayoutKeyOpts(doc) == b.LayoutKeyOpts(doc) {
		t.Error("layouts measured with different ratios share a key")
	}
	c := Options{Source: a.Source}
	if got := c.LayoutKeyOpts(doc).Measurer; got != "family:Roboto Mono/Roboto Mono" {
		t.Errorf("Measurer key = %q, want family:Roboto Mono/Roboto Mono", got)
	}
}

func TestExampleDocument(t *testing.T) {
	src, err := os.ReadFile(filepath.Join("..", "..", "examples", "plant.flow"))
	if err != nil {
		t.Fatal(err)
	}
	styleTOML, err := os.ReadFile(filepath.Join("..", "..", "examples", "style.toml"))
	if err != nil {
		t.Fatal(err)
	}
	opts := Options{
		Name:      "plant.flow",
		Source:    src,
		StyleTOML: styleTOML,
		Formats:   []string{FormatSVG, FormatJSON},
		Measurer:  fonts.Ratio(0.6),
	}
	result, err := NewRunner(nil, nil, nil).Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if result.Stats.NodeCount != 12 || result.Stats.ConnectionCount != 12 {
		t.Errorf("Stats = %+v, want 12 nodes and 12 connections", result.Stats)
	}
	if result.Layout.Theme != "warm" {
		t.Errorf("Theme = %q, want warm from the TOML overlay", result.Layout.Theme)
	}
	if len(result.Layout.Wires) == 0 {
		t.Error("no wires routed")
	}
}
