package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/flowschem/pkg/graph"
	"github.com/matzehuels/flowschem/pkg/pipeline"
)

type layoutFlags struct {
	output  string
	style   string
	noCache bool
	refresh bool
}

// layoutCommand creates the layout command for computing diagram geometry.
func (c *CLI) layoutCommand() *cobra.Command {
	var flags layoutFlags

	cmd := &cobra.Command{
		Use:   "layout [file.flow]",
		Short: "Compute the diagram geometry of a .flow document",
		Long: `Compute the diagram geometry of a .flow document.

The layout command places the segments and nodes of the document and routes
every connection. The output is a layout.json file (the same format as
'render -f json') holding every coordinate a drawing layer needs.

Use "-" to read the document from standard input. Results are cached
locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], flags)
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().StringVar(&flags.style, "style", "", "TOML style file applied on top of the @style block")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&flags.refresh, "refresh", false, "recompute even if the layout is cached")

	return cmd
}

// runLayout parses the document, computes the layout, and writes it as JSON.
func (c *CLI) runLayout(ctx context.Context, input string, flags layoutFlags) error {
	opts, err := c.sourceOptions(input, flags.style)
	if err != nil {
		return err
	}
	opts.Refresh = flags.refresh

	outPath, err := outputPath(flags.output, input, ".layout.json")
	if err != nil {
		return err
	}

	doc, err := pipeline.Parse(opts)
	if err != nil {
		return fmt.Errorf("parse %s: %w", input, err)
	}

	runner, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinner(ctx, "Routing wires...")
	spinner.Start()

	layout, cacheHit, err := runner.GenerateLayoutWithCacheInfo(ctx, doc, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	data, err := graph.MarshalLayout(layout)
	if err != nil {
		return fmt.Errorf("encode layout: %w", err)
	}
	if err := writeOutput(outPath, data); err != nil {
		return err
	}

	printSuccess("Layout complete")
	printFile(outPath)
	printStats(layout.Stats.Nodes, len(layout.Wires), layout.Stats.Crossings, cacheHit)
	if layout.Stats.Skipped > 0 {
		printWarning("%d connection(s) skipped (unresolved endpoint or self-loop)", layout.Stats.Skipped)
	}
	printNewline()
	printNextStep("Render", appName+" render "+input)

	return nil
}
