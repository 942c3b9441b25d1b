package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"relaymap/pkg/errors"
	"relaymap/pkg/graphio"
	"relaymap/pkg/render"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	format   string // dot, svg, png
	detailed bool   // include file:line in labels
	pin      bool   // keep layout positions instead of re-laying out
	output   string // output file path (stdout for dot if empty)
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{format: "svg"}

	cmd := &cobra.Command{
		Use:   "render <graph.json>",
		Short: "Render a relay graph as DOT, SVG, or PNG",
		Long: `Render converts a graph JSON file into a visual output via Graphviz.

With --pin the coordinates computed by the layout engine are kept;
otherwise Graphviz lays the graph out itself.

Examples:
  relaymap render graph.json -o graph.svg
  relaymap render graph.json --format dot
  relaymap render graph.json --format png --pin -o graph.png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd, args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: dot, svg, png")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "include file locations in labels")
	cmd.Flags().BoolVar(&opts.pin, "pin", false, "keep computed layout positions")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file")

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, path string, opts *renderOpts) error {
	if err := errors.ValidateOutputFormat(opts.format); err != nil {
		return err
	}
	if opts.format == "json" {
		return errors.New(errors.ErrCodeInvalidFormat, "graphs are already JSON; use dot, svg or png")
	}

	g, err := graphio.ReadFile(path)
	if err != nil {
		return err
	}

	dot := render.ToDOT(g, render.Options{
		Detailed: opts.detailed,
		Pin:      opts.pin,
	})

	var data []byte
	switch opts.format {
	case "dot":
		data = []byte(dot)
	case "svg":
		data, err = render.RenderSVG(cmd.Context(), dot, opts.pin)
	case "png":
		data, err = render.RenderPNG(cmd.Context(), dot, opts.pin)
	}
	if err != nil {
		return err
	}

	out := opts.output
	if out == "" {
		if opts.format == "dot" {
			fmt.Print(dot)
			return nil
		}
		out = strings.TrimSuffix(path, ".json") + "." + opts.format
	}

	if err := os.WriteFile(out, data, 0o644); err != nil {
		return err
	}

	printSuccess("Rendered %s", opts.format)
	printFile(out)
	printStats(g.NodeCount(), g.EdgeCount(), false)
	return nil
}
