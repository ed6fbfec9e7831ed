package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/flowschem/pkg/pipeline"
	"github.com/matzehuels/flowschem/pkg/render"
)

type renderFlags struct {
	output   string
	formats  string
	style    string
	detailed bool
	scale    float64
	noCache  bool
	refresh  bool
}

// renderCommand creates the render command, which runs the full pipeline.
func (c *CLI) renderCommand() *cobra.Command {
	flags := renderFlags{scale: 2}

	cmd := &cobra.Command{
		Use:   "render [file.flow]",
		Short: "Render a .flow document to SVG, JSON, DOT, PNG or PDF",
		Long: `Render a .flow document.

Formats:
  svg   the wiring diagram (default)
  json  the layout geometry
  dot   a Graphviz overview of the connection graph, clustered by section
  png   the diagram rasterized with rsvg-convert
  pdf   the diagram converted with rsvg-convert

Several formats can be given comma-separated; each is written to
<base>.<format>, where base is -o without its extension or the input path.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), args[0], flags)
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file (single format) or base path")
	cmd.Flags().StringVarP(&flags.formats, "format", "f", "", "output format(s): svg (default), json, dot, png, pdf (comma-separated)")
	cmd.Flags().StringVar(&flags.style, "style", "", "TOML style file applied on top of the @style block")
	cmd.Flags().BoolVar(&flags.detailed, "detailed", false, "include hints and rows in DOT labels")
	cmd.Flags().Float64Var(&flags.scale, "scale", flags.scale, "PNG scale factor")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&flags.refresh, "refresh", false, "recompute even if outputs are cached")

	return cmd
}

// runRender executes the pipeline and writes one file per format.
func (c *CLI) runRender(ctx context.Context, input string, flags renderFlags) error {
	formats, err := pipeline.ParseFormats(flags.formats)
	if err != nil {
		return err
	}
	if len(formats) == 0 {
		formats = []string{pipeline.DefaultFormat}
	}
	for _, f := range formats {
		if (f == pipeline.FormatPNG || f == pipeline.FormatPDF) && !render.ConvertAvailable() {
			return fmt.Errorf("%s output requires rsvg-convert on PATH", f)
		}
	}

	opts, err := c.sourceOptions(input, flags.style)
	if err != nil {
		return err
	}
	opts.Formats = formats
	opts.Detailed = flags.detailed
	opts.Scale = flags.scale
	opts.Refresh = flags.refresh

	paths := make(map[string]string, len(formats))
	for _, f := range formats {
		out := flags.output
		if len(formats) > 1 || out == "" {
			out = basePath(flags.output, input)
			if flags.output == "" && input == "-" {
				out = "stdin"
			}
			out += "." + f
		}
		if paths[f], err = outputPath(out, input, "."+f); err != nil {
			return err
		}
	}

	runner, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinner(ctx, "Rendering...")
	spinner.Start()

	prog := newProgress(c.Logger)
	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()
	prog.done("pipeline finished",
		"parse", result.Stats.ParseTime,
		"layout", result.Stats.LayoutTime,
		"render", result.Stats.RenderTime)

	if ctx.Err() != nil {
		return ctx.Err()
	}

	printSuccess("Render complete")
	for _, f := range formats {
		if err := writeOutput(paths[f], result.Artifacts[f]); err != nil {
			return err
		}
		printFile(paths[f])
	}
	printStats(result.Layout.Stats.Nodes, result.Stats.WireCount, result.Stats.Crossings, result.CacheInfo.LayoutHit)
	if result.Layout.Stats.Skipped > 0 {
		printWarning("%d connection(s) skipped (unresolved endpoint or self-loop)", result.Layout.Stats.Skipped)
	}
	return nil
}
