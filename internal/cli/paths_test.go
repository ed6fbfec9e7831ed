package cli

import (
	"os"
	"path/filepath"
	"testing"

	fserr "github.com/matzehuels/flowschem/pkg/errors"
)

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	home, _ := os.UserHomeDir()
	if want := filepath.Join(home, ".cache", appName); dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}
}

func TestCacheDirXDG(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/custom-cache")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if want := filepath.Join("/tmp/custom-cache", appName); dir != want {
		t.Errorf("cacheDir() with XDG_CACHE_HOME = %q, want %q", dir, want)
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"plant.flow", "plant.flow"},
		{"/abs/plant.flow", "/abs/plant.flow"},
		{"~/plant.flow", filepath.Join(home, "plant.flow")},
	}
	for _, tt := range tests {
		got, err := expandPath(tt.in)
		if err != nil {
			t.Errorf("expandPath(%q) error = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("expandPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		output, input, want string
	}{
		{"", "plant.flow", "plant"},
		{"", "dir/plant.flow", "dir/plant"},
		{"out.svg", "plant.flow", "out"},
		{"out.pdf", "plant.flow", "out"},
		{"out.diagram", "plant.flow", "out.diagram"},
		{"out", "plant.flow", "out"},
	}
	for _, tt := range tests {
		if got := basePath(tt.output, tt.input); got != tt.want {
			t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
		}
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		output, input, suffix string
		want                  string
		wantErr               bool
	}{
		{"", "plant.flow", ".layout.json", "plant.layout.json", false},
		{"", "-", ".svg", "stdin.svg", false},
		{"x/out.json", "plant.flow", ".layout.json", "x/out.json", false},
		{"bad\nname.svg", "plant.flow", ".svg", "", true},
	}
	for _, tt := range tests {
		got, err := outputPath(tt.output, tt.input, tt.suffix)
		if (err != nil) != tt.wantErr {
			t.Errorf("outputPath(%q) error = %v, wantErr %v", tt.output, err, tt.wantErr)
			continue
		}
		if err != nil && !fserr.Is(err, fserr.ErrCodeInvalidPath) {
			t.Errorf("outputPath(%q) code = %s, want %s", tt.output, fserr.GetCode(err), fserr.ErrCodeInvalidPath)
		}
		if got != tt.want {
			t.Errorf("outputPath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
		}
	}
}

func TestReadFileNotFound(t *testing.T) {
	_, err := readInput(filepath.Join(t.TempDir(), "missing.flow"))
	if !fserr.Is(err, fserr.ErrCodeFileNotFound) {
		t.Errorf("readInput(missing) error = %v, want %s", err, fserr.ErrCodeFileNotFound)
	}
}
