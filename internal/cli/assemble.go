package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/lyphgraph/pkg/config"
	"github.com/matzehuels/lyphgraph/pkg/diag"
	"github.com/matzehuels/lyphgraph/pkg/model"
	"github.com/matzehuels/lyphgraph/pkg/pipeline"
)

// runOpts holds the flags shared by assemble and export.
type runOpts struct {
	output       string  // output file, "-" for stdout
	format       string  // pipeline output format
	refresh      bool    // skip the cache lookup
	maxGenerated int     // override [assembly] max_generated
	linkLength   float64 // override [assembly] default_link_length
	noSchema     bool    // skip JSON-Schema validation
	detailed     bool    // detailed DOT labels
	hidden       bool    // include hidden nodes and links in DOT
}

// outputSuffix is appended to the input's base name when no output is given.
var outputSuffix = map[string]string{
	pipeline.FormatJSON:     ".graph.json",
	pipeline.FormatEntities: ".entities.json",
	pipeline.FormatDOT:      ".dot",
	pipeline.FormatSVG:      ".svg",
}

// assembleCommand creates the assemble command.
func (c *CLI) assembleCommand() *cobra.Command {
	var opts runOpts

	cmd := &cobra.Command{
		Use:   "assemble [model]",
		Short: "Expand a lyph model into a resource graph",
		Long: `Expand every template of a lyph model and write the assembled graph.

The model may be JSON, JSONC or YAML, an .xlsx workbook or a directory of
CSV sheets (one sheet per collection, plus "main" for the top-level
properties).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.format != pipeline.FormatJSON && opts.format != pipeline.FormatEntities {
				return fmt.Errorf("invalid format: %s (must be 'json' or 'entities')", opts.format)
			}
			return c.runPipeline(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file, - for stdout (default <model>.graph.json)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", pipeline.FormatJSON, "output format: json (nested groups), entities (flat list)")
	c.addEngineFlags(cmd, &opts)

	return cmd
}

// addEngineFlags registers the flags that override the [assembly] config.
func (c *CLI) addEngineFlags(cmd *cobra.Command, opts *runOpts) {
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached results")
	cmd.Flags().IntVar(&opts.maxGenerated, "max-generated", 0, "resources one tree may generate (default from config)")
	cmd.Flags().Float64Var(&opts.linkLength, "link-length", 0, "default link length (default from config)")
	cmd.Flags().BoolVar(&opts.noSchema, "no-schema", false, "skip JSON-Schema validation")
}

// pipelineOptions merges the configuration and the flags.
func (c *CLI) pipelineOptions(cfg *config.Config, opts runOpts) pipeline.Options {
	aopts := c.assembleOptions(cfg)
	if opts.maxGenerated > 0 {
		aopts.MaxGenerated = opts.maxGenerated
	}
	if opts.linkLength > 0 {
		aopts.DefaultLinkLength = opts.linkLength
	}
	if opts.noSchema {
		aopts.ValidateSchema = false
	}
	return pipeline.Options{
		Assemble: aopts,
		Format:   opts.format,
		Detailed: opts.detailed,
		Hidden:   opts.hidden,
		Refresh:  opts.refresh,
	}
}

// runPipeline loads input, runs the pipeline and writes the output.
func (c *CLI) runPipeline(cmd *cobra.Command, input string, opts runOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, cfg)
	if err != nil {
		return err
	}
	defer runner.Close()

	doc, conv, err := pipeline.Load(input, nil)
	if err != nil {
		return err
	}
	printConversion(conv)

	popts := c.pipelineOptions(cfg, opts)
	prog := newProgress(logger)
	popts.Assemble.OnPhase = chainPhase(popts.Assemble.OnPhase, prog.phase)
	var spinner *Spinner
	if isTerminal(os.Stderr) {
		spinner = newSpinner(ctx, os.Stderr, "Assembling "+input)
		popts.Assemble.OnPhase = chainPhase(popts.Assemble.OnPhase, spinner.Phase)
		spinner.Start()
	}
	res, err := runner.Run(ctx, modelID(doc, input), doc, popts)
	if spinner != nil {
		spinner.Stop()
	}
	if err != nil {
		return err
	}
	prog.done("Processed " + input)

	output := opts.output
	if output == "" {
		output = defaultOutput(input, outputSuffix[popts.Format])
	}
	if err := writeOutput(output, res.Output); err != nil {
		return err
	}
	if output == "-" {
		return nil
	}
	printSuccess("Wrote %s", popts.Format)
	printFile(output)
	printStats(res.Stats.Resources, res.Stats.Generated, res.CacheHit)
	printStatus(res.Stats.Status, res.Stats.Warnings, res.Stats.Errors)
	return nil
}

// chainPhase calls both phase callbacks; either may be nil.
func chainPhase(a, b func(string, time.Duration)) func(string, time.Duration) {
	if a == nil {
		return b
	}
	return func(name string, d time.Duration) {
		a(name, d)
		b(name, d)
	}
}

// modelID names a model in logs: its id, else the input's base name.
func modelID(doc model.Object, input string) string {
	if id := model.String(doc, "id"); id != "" {
		return id
	}
	return strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
}

// defaultOutput derives an output path from the input path. A directory
// input keeps its name.
func defaultOutput(input, suffix string) string {
	input = strings.TrimSuffix(input, string(filepath.Separator))
	if info, err := os.Stat(input); err == nil && info.IsDir() {
		return input + suffix
	}
	return strings.TrimSuffix(input, filepath.Ext(input)) + suffix
}

// writeOutput writes data to path, or to stdout for "-".
func writeOutput(path string, data []byte) error {
	if path == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// printConversion reports the problems found while converting sheets.
func printConversion(d *diag.Logger) {
	for _, e := range d.Entries() {
		printWarning("%s", e.String())
	}
}
