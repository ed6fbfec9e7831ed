package cli

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/matzehuels/flowschem/pkg/engine"
	"github.com/matzehuels/flowschem/pkg/pipeline"
)

type inspectFlags struct {
	style string
	plain bool
}

// inspectCommand creates the inspect command, a browser over the routes
// of a layout.
func (c *CLI) inspectCommand() *cobra.Command {
	var flags inspectFlags

	cmd := &cobra.Command{
		Use:   "inspect [file.flow]",
		Short: "Browse the routed wires of a .flow document",
		Long: `Browse the routed wires of a .flow document.

Each route shows its endpoints, kind, scope (intra or cross section),
direction, the channel taken in every gap, its port offsets, its waypoints
and the number of wires it crosses. Press "/" to filter routes by fuzzy
match.

With --plain, or when stdout is not a terminal, a table is printed instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInspect(cmd.Context(), args[0], flags)
		},
	}

	cmd.Flags().StringVar(&flags.style, "style", "", "TOML style file applied on top of the @style block")
	cmd.Flags().BoolVar(&flags.plain, "plain", false, "print a table instead of the interactive browser")

	return cmd
}

func (c *CLI) runInspect(ctx context.Context, input string, flags inspectFlags) error {
	opts, err := c.sourceOptions(input, flags.style)
	if err != nil {
		return err
	}
	doc, err := pipeline.Parse(opts)
	if err != nil {
		return fmt.Errorf("parse %s: %w", input, err)
	}

	prog := newProgress(c.Logger)
	l, err := engine.Render(doc.Layout, doc.Graph, doc.Style, engine.WithLogger(c.Logger))
	if err != nil {
		return fmt.Errorf("compute layout: %w", err)
	}
	prog.done("laid out "+opts.Name, "routes", len(l.Routes))

	rows := routeRows(l)
	summary := layoutSummary(l.Stats)

	if flags.plain || !isatty.IsTerminal(os.Stdout.Fd()) {
		fmt.Println(StyleTitle.Render(opts.Name) + "  " + StyleDim.Render(summary))
		fmt.Println(routeTable(rows, -1))
		return nil
	}

	p := tea.NewProgram(NewRouteListModel(opts.Name, summary, rows), tea.WithContext(ctx), tea.WithAltScreen())
	_, err = p.Run()
	return err
}

func layoutSummary(s engine.Stats) string {
	return fmt.Sprintf("%d nodes · %d sections · %d routes (%d cross, %d straight) · %d merges · %d skipped · %d crossings",
		s.Nodes, s.Sections, s.Routes, s.Cross, s.Straight, s.Merges, s.Skipped, s.Crossings)
}
