package assemble

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/lyphgraph/pkg/coalescence"
	"github.com/matzehuels/lyphgraph/pkg/diag"
	"github.com/matzehuels/lyphgraph/pkg/errors"
	"github.com/matzehuels/lyphgraph/pkg/expand"
	"github.com/matzehuels/lyphgraph/pkg/model"
	"github.com/matzehuels/lyphgraph/pkg/resource"
	"github.com/matzehuels/lyphgraph/pkg/schema"
)

// Options configure an assembly. The zero value is usable.
type Options struct {
	// MaxGenerated caps the resources one tree template may generate.
	// Zero means expand.DefaultMaxGenerated.
	MaxGenerated int

	// DefaultLinkLength is the length of links whose endpoints are not both
	// fixed and that declare none. Zero means resource.DefaultLinkLength.
	DefaultLinkLength float64

	// Palette colors shapes and links that have no color and inherit none.
	// Empty means resource.DefaultPalette.
	Palette []string

	// ValidateSchema checks the document against the JSON schema first.
	// Violations are reported as diagnostics.
	ValidateSchema bool

	// Registry describes the resource classes. Nil means schema.Default().
	Registry *schema.Registry

	// Logger, if set, receives every diagnostic as it is recorded.
	Logger *log.Logger

	// OnPhase, if set, is called after every expansion phase.
	OnPhase func(name string, d time.Duration)
}

func (o Options) withDefaults() Options {
	if o.MaxGenerated <= 0 {
		o.MaxGenerated = expand.DefaultMaxGenerated
	}
	if o.DefaultLinkLength <= 0 {
		o.DefaultLinkLength = resource.DefaultLinkLength
	}
	if len(o.Palette) == 0 {
		o.Palette = resource.DefaultPalette
	}
	if o.Registry == nil {
		o.Registry = schema.Default()
	}
	return o
}

// Result is an assembled model.
type Result struct {
	Class string             // model.ClassGraph or model.ClassScaffold
	Store *resource.Store    // every resource of the model
	Root  *resource.Resource // top-level graph or scaffold
	Diag  *diag.Logger

	groups []*resource.Resource
}

// IsScaffold reports whether doc describes a scaffold: it is declared as
// one, or it carries anchors or wires.
func IsScaffold(doc model.Object) bool {
	return model.String(doc, "class") == model.ClassScaffold ||
		model.Has(doc, "anchors") || model.Has(doc, "wires")
}

// FromJSON assembles a decoded model document, dispatching to [Scaffold]
// or [Graph]. The document is not modified.
func FromJSON(doc model.Object, opts Options) (*Result, error) {
	if IsScaffold(doc) {
		return Scaffold(doc, opts)
	}
	return Graph(doc, opts)
}

// Graph assembles a connectivity model.
func Graph(doc model.Object, opts Options) (*Result, error) {
	return run(doc, model.ClassGraph, GraphPhases, opts)
}

// Scaffold assembles a scaffold model.
func Scaffold(doc model.Object, opts Options) (*Result, error) {
	return run(doc, model.ClassScaffold, ScaffoldPhases, opts)
}

func run(doc model.Object, class string, phases []Phase, opts Options) (*Result, error) {
	if doc == nil {
		return nil, errors.New(errors.ErrCodeInvalidModel, "model document is empty")
	}
	opts = opts.withDefaults()

	var dopts []diag.Option
	if opts.Logger != nil {
		dopts = append(dopts, diag.WithSink(opts.Logger))
	}
	d := diag.New(dopts...)
	if opts.ValidateSchema {
		validate(doc, class, d)
	}

	doc = model.CloneObject(doc)
	model.Hoist(opts.Registry, doc, class)
	idx := model.NewIndex(opts.Registry, doc, class)
	ctx := expand.NewContext(idx, d, expand.Options{MaxGenerated: opts.MaxGenerated})
	for _, p := range phases {
		start := time.Now()
		p.Run(ctx)
		if opts.OnPhase != nil {
			opts.OnPhase(p.Name, time.Since(start))
		}
	}

	s := resource.NewStore(opts.Registry, d)
	root, err := s.Instantiate(doc, class, "")
	if err != nil {
		return nil, err
	}
	if root == nil {
		return nil, errors.New(errors.ErrCodeInternal, "failed to create %s", class)
	}
	s.ResolveWaiting(root)
	s.Sync()

	groups := mergeGroups(s, root)
	s.ApplyDirectives()
	if class == model.ClassGraph {
		coalescence.Expand(s, groups)
		coalescence.ValidateAll(s)
	}
	defaultColors(s, opts.Palette)
	linkLengths(s, opts.DefaultLinkLength)
	checkChains(s)
	checkHierarchies(s)

	return &Result{Class: class, Store: s, Root: root, Diag: d, groups: groups}, nil
}

func validate(doc model.Object, class string, d *diag.Logger) {
	v := schema.DefaultValidator()
	var violations []schema.Violation
	if class == model.ClassScaffold {
		violations = v.ValidateScaffold(map[string]any(doc))
	} else {
		violations = v.ValidateGraph(map[string]any(doc))
	}
	for _, viol := range violations {
		d.Warn(diag.MsgSchemaViolation, viol.String())
	}
}
