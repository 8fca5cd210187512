package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/lyphgraph/pkg/diag"
	"github.com/matzehuels/lyphgraph/pkg/excel"
	lgio "github.com/matzehuels/lyphgraph/pkg/io"
	"github.com/matzehuels/lyphgraph/pkg/model"
	"github.com/matzehuels/lyphgraph/pkg/pipeline"
	"github.com/matzehuels/lyphgraph/pkg/schema"
)

// convertOpts holds the flags of the convert command.
type convertOpts struct {
	output string // output file, "-" for stdout
	to     string // output format, default from the output extension
	sheets bool   // read a JSON file as a workbook of sheets
}

// convertCommand creates the convert command.
func (c *CLI) convertCommand() *cobra.Command {
	var opts convertOpts

	cmd := &cobra.Command{
		Use:   "convert [input]",
		Short: "Convert spreadsheets and model files to JSON or YAML",
		Long: `Convert a model between formats without assembling it.

Input may be a JSON, JSONC or YAML model, an .xlsx workbook, a directory
of CSV sheets, or, with --sheets, a JSON object mapping sheet names to
rows. Sheet cells are coerced to the types of the schema fields named by
the column headers.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file, - for stdout (default <input>.json)")
	cmd.Flags().StringVarP(&opts.to, "to", "t", "", "output format: json, yaml (default from the output extension)")
	cmd.Flags().BoolVar(&opts.sheets, "sheets", false, "read the input file as JSON sheets")

	return cmd
}

func runConvert(input string, opts convertOpts) error {
	doc, conv, err := readConvertInput(input, opts.sheets)
	if err != nil {
		return err
	}
	printConversion(conv)

	output := opts.output
	if output == "" {
		output = defaultOutput(input, ".json")
		if output == input {
			output = defaultOutput(input, ".converted.json")
		}
	}
	format := lgio.FormatOf(output)
	if opts.to != "" {
		if format, err = lgio.ParseFormat(opts.to); err != nil {
			return err
		}
	}

	if output == "-" {
		return lgio.Write(doc, os.Stdout, format)
	}
	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("create %s: %w", output, err)
	}
	if err := lgio.Write(doc, f, format); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	printSuccess("Converted %s", filepath.Base(input))
	printFile(output)
	return nil
}

func readConvertInput(input string, sheets bool) (model.Object, *diag.Logger, error) {
	if !sheets {
		return pipeline.Load(input, nil)
	}
	f, err := os.Open(input)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()
	wb, err := excel.ReadJSONSheets(f)
	if err != nil {
		return nil, nil, err
	}
	d := diag.New()
	return excel.Convert(wb, schema.Default(), d), d, nil
}
