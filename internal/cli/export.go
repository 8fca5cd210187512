package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/lyphgraph/pkg/pipeline"
)

// exportCommand creates the export command for DOT and SVG debug views.
func (c *CLI) exportCommand() *cobra.Command {
	opts := runOpts{format: pipeline.FormatSVG}

	cmd := &cobra.Command{
		Use:   "export [model]",
		Short: "Export the node/link graph of a model as DOT or SVG",
		Long: `Assemble a model and draw its nodes and links with Graphviz.

The drawing is a debugging aid: it shows connectivity, not the
force-directed layout of the lyphs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.format != pipeline.FormatDOT && opts.format != pipeline.FormatSVG {
				return fmt.Errorf("invalid format: %s (must be 'dot' or 'svg')", opts.format)
			}
			return c.runPipeline(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file, - for stdout (default <model>.svg)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: svg (default), dot")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "label vertices with class and full id")
	cmd.Flags().BoolVar(&opts.hidden, "hidden", false, "include hidden nodes and invisible links")
	c.addEngineFlags(cmd, &opts)

	return cmd
}
