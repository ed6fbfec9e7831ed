// Package cli implements the flowschem command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"

	"github.com/matzehuels/flowschem/pkg/buildinfo"
	"github.com/matzehuels/flowschem/pkg/cache"
	fserr "github.com/matzehuels/flowschem/pkg/errors"
	"github.com/matzehuels/flowschem/pkg/observability"
	"github.com/matzehuels/flowschem/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "flowschem"

	// envPrefix prefixes the environment variables read by serve.
	envPrefix = "FLOWSCHEM"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	verbose bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "FlowSchem lays out and routes orthogonal wiring diagrams",
		Long: `FlowSchem turns a .flow document (sections, rows of nodes and the
connections between them) into an orthogonal wiring diagram: nested
segment boxes, node boxes and wires routed through channels between rows.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if c.verbose {
				c.SetLogLevel(LogDebug)
				observability.NewLogHooks(c.Logger).Register()
			}
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use, backed by the file cache.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	store, err := newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(store, nil, c.Logger), nil
}

func newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.Open(ctx, cache.Config{Backend: cache.BackendFile, Dir: dir})
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/flowschem/).
func cacheDir() (string, error) {
	return cache.DefaultDir()
}

// expandPath resolves a leading "~" in a path given on the command line.
func expandPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	expanded, err := homedir.Expand(path)
	if err != nil {
		return "", fserr.Wrap(fserr.ErrCodeInvalidPath, err, "expand %s", path)
	}
	return expanded, nil
}

// readInput reads a .flow document; "-" reads standard input.
func readInput(path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fserr.Wrap(fserr.ErrCodeInvalidInput, err, "read stdin")
		}
		return data, nil
	}
	return readFile(path)
}

// readStyle reads an optional TOML style file. It is decoded by the
// pipeline on top of the document's @style block.
func readStyle(path string) ([]byte, error) {
	if path == "" {
		return nil, nil
	}
	return readFile(path)
}

func readFile(path string) ([]byte, error) {
	expanded, err := expandPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(expanded)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fserr.Wrap(fserr.ErrCodeFileNotFound, err, "file not found: %s", path)
		}
		return nil, fserr.Wrap(fserr.ErrCodeInvalidInput, err, "read %s", path)
	}
	return data, nil
}

// sourceOptions loads the input document and style into pipeline options.
func (c *CLI) sourceOptions(input, stylePath string) (pipeline.Options, error) {
	src, err := readInput(input)
	if err != nil {
		return pipeline.Options{}, err
	}
	styleTOML, err := readStyle(stylePath)
	if err != nil {
		return pipeline.Options{}, err
	}
	name := filepath.Base(input)
	if input == "-" {
		name = "stdin"
	}
	return pipeline.Options{
		Name:      name,
		Source:    src,
		StyleTOML: styleTOML,
		Logger:    c.Logger,
	}, nil
}

// outputPath resolves the -o flag, or derives a path from the input by
// replacing its extension with suffix.
func outputPath(output, input, suffix string) (string, error) {
	if output == "" {
		if input == "-" {
			input = "stdin"
		}
		output = basePath("", input) + suffix
	}
	expanded, err := expandPath(output)
	if err != nil {
		return "", err
	}
	if err := fserr.ValidateOutputPath(expanded); err != nil {
		return "", err
	}
	return expanded, nil
}

// basePath derives the base output path from the output and input file
// paths. Known format extensions are stripped from output.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// writeOutput writes data to path, creating parent directories.
func writeOutput(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fserr.Wrap(fserr.ErrCodeInvalidPath, err, "create %s", dir)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fserr.Wrap(fserr.ErrCodeInvalidPath, err, "write %s", path)
	}
	return nil
}
