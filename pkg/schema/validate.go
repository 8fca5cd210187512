package schema

import (
	"bytes"
	"fmt"
	"sort"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/matzehuels/lyphgraph/pkg/errors"
)

// schemaURL is the identifier the embedded document is registered under.
const schemaURL = "https://schema.lyphgraph.dev/graphScheme.json"

// Violation is a single schema validation failure.
type Violation struct {
	Path    string `json:"path"`    // JSON pointer into the document
	Keyword string `json:"keyword"` // failing schema location
	Message string `json:"message"`
}

// String renders the violation on one line.
func (v Violation) String() string {
	path := v.Path
	if path == "" {
		path = "/"
	}
	return fmt.Sprintf("%s: %s", path, v.Message)
}

// Validator checks model documents against the Graph or Scaffold definition.
type Validator struct {
	graph    *jsonschema.Schema
	scaffold *jsonschema.Schema
}

// NewValidator compiles a schema document.
func NewValidator(data []byte) (*Validator, error) {
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft7
	if err := c.AddResource(schemaURL, bytes.NewReader(data)); err != nil {
		return nil, errors.Wrap(errors.ErrCodeSchema, err, "failed to add schema")
	}
	graph, err := c.Compile(schemaURL + definitionsPrefix + "Graph")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeSchema, err, "failed to compile Graph schema")
	}
	scaffold, err := c.Compile(schemaURL + definitionsPrefix + "Scaffold")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeSchema, err, "failed to compile Scaffold schema")
	}
	return &Validator{graph: graph, scaffold: scaffold}, nil
}

var defaultValidator = sync.OnceValues(func() (*Validator, error) { return NewValidator(graphScheme) })

// DefaultValidator returns a validator for the embedded schema.
func DefaultValidator() *Validator {
	v, err := defaultValidator()
	if err != nil {
		panic(err)
	}
	return v
}

// ValidateGraph validates a connectivity model. doc must be a decoded JSON
// value (maps, slices, float64 or json.Number, strings, bools).
func (v *Validator) ValidateGraph(doc any) []Violation {
	return collect(v.graph.Validate(doc))
}

// ValidateScaffold validates a scaffold model.
func (v *Validator) ValidateScaffold(doc any) []Violation {
	return collect(v.scaffold.Validate(doc))
}

func collect(err error) []Violation {
	if err == nil {
		return nil
	}
	verr, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return []Violation{{Message: err.Error()}}
	}
	var out []Violation
	var walk func(e *jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) == 0 {
			out = append(out, Violation{Path: e.InstanceLocation, Keyword: e.KeywordLocation, Message: e.Message})
			return
		}
		for _, c := range e.Causes {
			walk(c)
		}
	}
	walk(verr)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}
