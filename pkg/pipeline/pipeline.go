// Package pipeline runs the load → assemble → export pipeline shared by the
// CLI and the HTTP service.
//
// # Stages
//
//  1. Load: read a model from JSON, JSONC, YAML or a directory of CSV sheets
//  2. Assemble: expand templates and instantiate the resource graph
//  3. Export: serialize the graph as JSON, flat entities, DOT or SVG
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	doc, _, err := pipeline.Load("heart.json", nil)
//	if err != nil {
//	    return err
//	}
//	result, err := runner.Run(ctx, "heart", doc, pipeline.Options{Format: pipeline.FormatSVG})
//	if err != nil {
//	    return err
//	}
//	os.Stdout.Write(result.Output)
//
// Results are cached by the hash of the model document and the options that
// change the output, so running the same model twice assembles it once.
package pipeline

import (
	"fmt"
	"time"

	"github.com/matzehuels/lyphgraph/pkg/assemble"
	"github.com/matzehuels/lyphgraph/pkg/cache"
	"github.com/matzehuels/lyphgraph/pkg/errors"
)

// Output formats.
const (
	FormatJSON     = "json"     // assembled model with nested groups
	FormatEntities = "entities" // every resource as a flat list
	FormatDOT      = "dot"
	FormatSVG      = "svg"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON:     true,
	FormatEntities: true,
	FormatDOT:      true,
	FormatSVG:      true,
}

// ValidateFormat returns an error if format is not supported.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeUnsupported, "unsupported output format %q (want json, entities, dot or svg)", format)
	}
	return nil
}

// Options configure one pipeline run.
type Options struct {
	Assemble assemble.Options

	// Format selects the output. Empty means FormatJSON.
	Format string

	// Detailed and Hidden apply to the DOT and SVG exports.
	Detailed bool
	Hidden   bool

	// Refresh skips the cache lookup. The result is still stored.
	Refresh bool
}

// ValidateAndSetDefaults fills in the default format and checks it.
func (o *Options) ValidateAndSetDefaults() error {
	if o.Format == "" {
		o.Format = FormatJSON
	}
	return ValidateFormat(o.Format)
}

func (o Options) graphKeyOpts() cache.GraphKeyOpts {
	return cache.GraphKeyOpts{
		MaxGenerated:      o.Assemble.MaxGenerated,
		DefaultLinkLength: o.Assemble.DefaultLinkLength,
		Palette:           o.Assemble.Palette,
		ValidateSchema:    o.Assemble.ValidateSchema,
	}
}

func (o Options) exportKeyOpts() cache.ExportKeyOpts {
	return cache.ExportKeyOpts{Format: o.Format, Detailed: o.Detailed, Hidden: o.Hidden}
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Model is the assembled model. It is nil when the output came from the
	// cache.
	Model *assemble.Result

	// ModelHash is the content hash of the input document.
	ModelHash string

	// Output is the serialized model in the requested format.
	Output []byte

	// Stats summarizes the assembled model.
	Stats assemble.Stats

	// CacheHit reports whether Output came from the cache.
	CacheHit bool

	// Duration is the wall time of the run.
	Duration time.Duration
}

// Summary returns a one-line description for logs.
func (r *Result) Summary() string {
	return fmt.Sprintf("%d resources (%d generated), %d warnings, %d errors",
		r.Stats.Resources, r.Stats.Generated, r.Stats.Warnings, r.Stats.Errors)
}
