package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	fserr "github.com/matzehuels/flowschem/pkg/errors"
	"github.com/matzehuels/flowschem/pkg/graph"
	"github.com/matzehuels/flowschem/pkg/observability"
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

// writePlant writes the fixture document and points the cache at a
// temporary directory.
func writePlant(t *testing.T) (dir, path string) {
	t.Helper()
	t.Setenv("XDG_CACHE_HOME", filepath.Join(t.TempDir(), "cache"))
	dir = t.TempDir()
	path = filepath.Join(dir, "plant.flow")
	if err := os.WriteFile(path, []byte(plant), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir, path
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestLayoutCommand(t *testing.T) {
	dir, input := writePlant(t)
	out := filepath.Join(dir, "out", "plant.json")

	if _, err := runCLI(t, "layout", input, "-o", out); err != nil {
		t.Fatalf("layout error = %v", err)
	}
	l, err := graph.ReadLayoutFile(out)
	if err != nil {
		t.Fatalf("ReadLayoutFile() error = %v", err)
	}
	if len(l.Nodes) != 4 || len(l.Wires) != 3 {
		t.Errorf("layout has %d nodes and %d wires, want 4 and 3", len(l.Nodes), len(l.Wires))
	}
	if l.Theme != "engineering" {
		t.Errorf("Theme = %q, want engineering", l.Theme)
	}

	cacheRoot, _ := cacheDir()
	if entries, err := os.ReadDir(cacheRoot); err != nil || len(entries) == 0 {
		t.Errorf("cache dir %s is empty after layout (err %v)", cacheRoot, err)
	}
}

func TestLayoutCommandDefaultOutput(t *testing.T) {
	dir, input := writePlant(t)
	if _, err := runCLI(t, "layout", input, "--no-cache"); err != nil {
		t.Fatalf("layout error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "plant.layout.json")); err != nil {
		t.Errorf("default output missing: %v", err)
	}
}

func TestLayoutCommandStyle(t *testing.T) {
	dir, input := writePlant(t)
	stylePath := filepath.Join(dir, "style.toml")
	if err := os.WriteFile(stylePath, []byte("theme = \"warm\"\nnode-min-width = 200\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "styled.json")
	if _, err := runCLI(t, "layout", input, "--style", stylePath, "-o", out, "--no-cache"); err != nil {
		t.Fatalf("layout error = %v", err)
	}
	l, err := graph.ReadLayoutFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if l.Theme != "warm" {
		t.Errorf("Theme = %q, want warm", l.Theme)
	}
	for _, n := range l.Nodes {
		if n.Width < 200 {
			t.Errorf("node %s width = %v, want at least 200", n.ID, n.Width)
		}
	}
}

func TestRenderCommand(t *testing.T) {
	dir, input := writePlant(t)
	base := filepath.Join(dir, "out", "diagram.svg")

	if _, err := runCLI(t, "render", input, "-f", "svg,json,dot", "-o", base, "--detailed"); err != nil {
		t.Fatalf("render error = %v", err)
	}
	tests := []struct {
		file   string
		prefix string
	}{
		{"diagram.svg", "<svg"},
		{"diagram.json", "{"},
		{"diagram.dot", "digraph"},
	}
	for _, tt := range tests {
		data, err := os.ReadFile(filepath.Join(dir, "out", tt.file))
		if err != nil {
			t.Errorf("%s: %v", tt.file, err)
			continue
		}
		if !strings.HasPrefix(strings.TrimSpace(string(data)), tt.prefix) {
			t.Errorf("%s = %.40q, want prefix %q", tt.file, data, tt.prefix)
		}
	}
}

func TestRenderCommandSingleOutput(t *testing.T) {
	dir, input := writePlant(t)
	out := filepath.Join(dir, "exact-name.svg")
	if _, err := runCLI(t, "render", input, "-o", out, "--no-cache"); err != nil {
		t.Fatalf("render error = %v", err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("output missing: %v", err)
	}
}

func TestCommandErrors(t *testing.T) {
	dir, input := writePlant(t)
	broken := filepath.Join(dir, "broken.flow")
	if err := os.WriteFile(broken, []byte("@layout\n[a[b]\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		args []string
		code fserr.Code
	}{
		{"bad format", []string{"render", input, "-f", "gif"}, fserr.ErrCodeInvalidFormat},
		{"missing input", []string{"layout", filepath.Join(dir, "nope.flow")}, fserr.ErrCodeFileNotFound},
		{"missing style", []string{"layout", input, "--style", filepath.Join(dir, "nope.toml")}, fserr.ErrCodeFileNotFound},
		{"bad brackets", []string{"layout", broken, "--no-cache"}, fserr.ErrCodeInvalidLayout},
		{"bad inspect", []string{"inspect", broken, "--plain"}, fserr.ErrCodeInvalidLayout},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCLI(t, tt.args...)
			if got := fserr.GetCode(err); got != tt.code {
				t.Errorf("code = %s, want %s (%v)", got, tt.code, err)
			}
		})
	}
}

func TestInspectPlain(t *testing.T) {
	_, input := writePlant(t)
	if _, err := runCLI(t, "inspect", input, "--plain"); err != nil {
		t.Fatalf("inspect error = %v", err)
	}
}

func TestCacheClear(t *testing.T) {
	_, input := writePlant(t)
	if _, err := runCLI(t, "layout", input, "-o", filepath.Join(t.TempDir(), "l.json")); err != nil {
		t.Fatal(err)
	}
	if _, err := runCLI(t, "cache", "clear"); err != nil {
		t.Fatalf("cache clear error = %v", err)
	}

	dir, _ := cacheDir()
	var files int
	_ = filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err == nil && !d.IsDir() {
			files++
		}
		return nil
	})
	if files != 0 {
		t.Errorf("%d cache files left after clear", files)
	}
}

func TestClearTarget(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	tests := []struct {
		name    string
		redis   string
		mongo   string
		backend string
		wantErr bool
	}{
		{"local", "", "", "file", false},
		{"redis", "redis://localhost:6379/0", "", "redis", false},
		{"mongo", "", "mongodb://localhost:27017", "mongo", false},
		{"both", "redis://localhost", "mongodb://localhost", "", true},
		{"bad scheme", "http://localhost", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := clearTarget(tt.redis, tt.mongo)
			if (err != nil) != tt.wantErr {
				t.Fatalf("clearTarget() error = %v, wantErr %v", err, tt.wantErr)
			}
			if cfg.Backend != tt.backend {
				t.Errorf("Backend = %q, want %q", cfg.Backend, tt.backend)
			}
		})
	}
}

func TestCompletionCommand(t *testing.T) {
	out, err := runCLI(t, "completion", "bash")
	if err != nil {
		t.Fatalf("completion error = %v", err)
	}
	if !strings.Contains(out, appName) {
		t.Errorf("bash completion does not mention %s", appName)
	}
	if _, err := runCLI(t, "completion", "tcsh"); err == nil {
		t.Error("completion tcsh: expected error")
	}
}

func TestVerboseRegistersLogHooks(t *testing.T) {
	t.Cleanup(observability.Reset)
	_, input := writePlant(t)
	if _, err := runCLI(t, "-v", "layout", input, "--no-cache", "-o", filepath.Join(t.TempDir(), "l.json")); err != nil {
		t.Fatal(err)
	}
	if _, ok := observability.Pipeline().(*observability.LogHooks); !ok {
		t.Errorf("Pipeline() = %T, want *observability.LogHooks", observability.Pipeline())
	}
}
