package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/lyphgraph/pkg/assemble"
	"github.com/matzehuels/lyphgraph/pkg/diag"
	"github.com/matzehuels/lyphgraph/pkg/pipeline"
	"github.com/matzehuels/lyphgraph/pkg/schema"
)

// validateCommand creates the validate command.
func (c *CLI) validateCommand() *cobra.Command {
	var full bool

	cmd := &cobra.Command{
		Use:   "validate [model]",
		Short: "Check a model against the JSON schema",
		Long: `Check a model against the JSON schema of its class.

With --assemble the model is also assembled and every warning and error
the assembly reports is listed. The command fails when the schema is
violated or the assembly reports errors.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runValidate(cmd, args[0], full)
		},
	}

	cmd.Flags().BoolVar(&full, "assemble", false, "also assemble the model and report its diagnostics")

	return cmd
}

func (c *CLI) runValidate(cmd *cobra.Command, input string, full bool) error {
	doc, conv, err := pipeline.Load(input, nil)
	if err != nil {
		return err
	}
	printConversion(conv)

	v := schema.DefaultValidator()
	var violations []schema.Violation
	if assemble.IsScaffold(doc) {
		violations = v.ValidateScaffold(map[string]any(doc))
	} else {
		violations = v.ValidateGraph(map[string]any(doc))
	}
	for _, viol := range violations {
		printError("%s", viol.String())
	}

	errCount := 0
	if full {
		cfg, err := c.loadConfig()
		if err != nil {
			return err
		}
		opts := cfg.AssembleOptions()
		opts.ValidateSchema = false
		runner := pipeline.NewRunner(nil, nil, c.Logger)
		res, err := runner.Assemble(cmd.Context(), modelID(doc, input), doc, opts)
		if err != nil {
			return err
		}
		printDiagnostics(res.Diag, diag.Warn)
		st := res.Stats()
		printStats(st.Resources, st.Generated, false)
		errCount = st.Errors
	}

	switch {
	case len(violations) > 0:
		return fmt.Errorf("%s: %d schema violations", input, len(violations))
	case errCount > 0:
		return fmt.Errorf("%s: assembly reported %d errors", input, errCount)
	}
	printSuccess("%s is valid", input)
	return nil
}

// printDiagnostics lists the entries at level or above.
func printDiagnostics(d *diag.Logger, level diag.Level) {
	for _, e := range d.Entries() {
		if e.Level < level {
			continue
		}
		if e.Level == diag.Error {
			printError("%s", e.String())
		} else {
			printWarning("%s", e.String())
		}
	}
}
