package expand

import (
	"slices"

	"github.com/matzehuels/lyphgraph/pkg/diag"
	"github.com/matzehuels/lyphgraph/pkg/model"
	"github.com/matzehuels/lyphgraph/pkg/resource"
	"github.com/matzehuels/lyphgraph/pkg/schema"
)

// DefaultMaxGenerated caps the resources a single tree may generate.
const DefaultMaxGenerated = 5000

// Marker keys set on expanded templates. Keys starting with an underscore
// are never instantiated.
const (
	markExpanded = "_expanded"
	markEmbedded = "_embedded"
	markRemapped = "_remapped"
)

// Options tune the expanders.
type Options struct {
	// MaxGenerated caps the resources one tree may generate. Zero means
	// DefaultMaxGenerated.
	MaxGenerated int
}

// Context carries the state shared by all expanders of one assembly.
type Context struct {
	Index *model.Index
	Diag  *diag.Logger
	Opts  Options

	reg      *schema.Registry
	lyphDone map[string]bool
}

// NewContext returns a context over idx. A nil logger gets a fresh one.
func NewContext(idx *model.Index, d *diag.Logger, opts Options) *Context {
	if d == nil {
		d = diag.New()
	}
	if opts.MaxGenerated <= 0 {
		opts.MaxGenerated = DefaultMaxGenerated
	}
	return &Context{
		Index:    idx,
		Diag:     d,
		Opts:     opts,
		reg:      idx.Registry(),
		lyphDone: make(map[string]bool),
	}
}

func (c *Context) get(ref, ns string) *model.Def { return c.Index.Get(ref, ns) }

func (c *Context) lyph(ref, ns string) *model.Def {
	return c.Index.GetOf(ref, ns, model.ClassLyph)
}

func (c *Context) node(ref, ns string) *model.Def {
	return c.Index.GetOf(ref, ns, model.ClassNode)
}

func (c *Context) link(ref, ns string) *model.Def {
	return c.Index.GetOf(ref, ns, model.ClassLink)
}

func (c *Context) is(d *model.Def, class string) bool {
	return d != nil && d.Is(c.reg, class)
}

// refs resolves the relationship key of d, skipping dangling references.
func (c *Context) refs(d *model.Def, key, class string) []*model.Def {
	var out []*model.Def
	for _, ref := range model.Refs(d.Obj, key) {
		if t := c.Index.GetOf(ref, d.NS, class); t != nil {
			out = append(out, t)
		}
	}
	return out
}

// refersTo reports whether the relationship key of d points at t.
func (c *Context) refersTo(d *model.Def, key string, t *model.Def) bool {
	for _, ref := range model.Refs(d.Obj, key) {
		if c.get(ref, d.NS) == t {
			return true
		}
	}
	return false
}

// setRef points the scalar relationship key of d at t.
func setRef(d *model.Def, key string, t *model.Def) {
	d.Obj[key] = t.RefFrom(d.NS)
}

// addRef appends t to the relationship key of d.
func addRef(d *model.Def, key string, t *model.Def) bool {
	return model.AddRef(d.Obj, key, t.RefFrom(d.NS))
}

func (c *Context) groupOrRoot(d *model.Def) *model.Group {
	if d.Group != nil {
		return d.Group
	}
	return c.Index.Root()
}

// generate adds a generated resource of class to g, or returns the existing
// definition with the same id.
func (c *Context) generate(g *model.Group, class string, obj model.Object) *model.Def {
	if d := c.get(model.ID(obj), g.NS); d != nil {
		return d
	}
	obj["generated"] = true
	return c.Index.Add(g, class, obj)
}

// groupFor returns the group collecting the resources generated for tmpl,
// creating it on first use.
func (c *Context) groupFor(tmpl *model.Def) *model.Group {
	if ref := model.Ref(tmpl.Obj, "group"); ref != "" {
		if d := c.get(ref, tmpl.NS); d != nil {
			if g := c.Index.GroupOf(d); g != nil {
				return g
			}
		}
	}
	parent := c.groupOrRoot(tmpl)
	obj := model.Object{
		"id":        model.GenID(model.PrefixGroup, tmpl.ID()),
		"name":      "Generated for " + tmpl.ID(),
		"generated": true,
	}
	if tmpl.NS != parent.NS {
		obj["namespace"] = tmpl.NS
	}
	if d := c.get(model.ID(obj), tmpl.NS); d != nil {
		if g := c.Index.GroupOf(d); g != nil {
			tmpl.Obj["group"] = d.RefFrom(tmpl.NS)
			return g
		}
	}
	g := c.Index.AddGroup(parent, obj)
	tmpl.Obj["group"] = model.RefFrom(tmpl.NS, model.FullID(g.NS, g.ID()))
	return g
}

// supertypeOf returns the lyph d inherits from through supertype or cloneOf.
func (c *Context) supertypeOf(d *model.Def) *model.Def {
	if ref := model.Ref(d.Obj, "supertype"); ref != "" {
		return c.lyph(ref, d.NS)
	}
	if ref := model.Ref(d.Obj, "cloneOf"); ref != "" {
		return c.lyph(ref, d.NS)
	}
	return nil
}

// layersOf returns the layers of a lyph.
func (c *Context) layersOf(d *model.Def) []*model.Def {
	return c.refs(d, "layers", model.ClassLyph)
}

// inheritedLayers returns the layers of d or, if it has none, of its nearest
// ancestor that has some.
func (c *Context) inheritedLayers(d *model.Def) []*model.Def {
	seen := map[*model.Def]bool{}
	for x := d; x != nil && !seen[x]; x = c.supertypeOf(x) {
		seen[x] = true
		if layers := c.layersOf(x); len(layers) > 0 {
			return layers
		}
	}
	return nil
}

// materialsOf returns the fully qualified materials of a lyph, following
// supertype and cloneOf when the lyph declares none.
func (c *Context) materialsOf(d *model.Def) []string {
	seen := map[*model.Def]bool{}
	for x := d; x != nil && !seen[x]; x = c.supertypeOf(x) {
		seen[x] = true
		if refs := model.Refs(x.Obj, "materials"); len(refs) > 0 {
			out := make([]string, len(refs))
			for i, ref := range refs {
				out[i] = model.FullID(x.NS, ref)
			}
			slices.Sort(out)
			return out
		}
	}
	return nil
}

// concreteDescendants returns d itself unless it is a template, followed by
// every non-template lyph that inherits from d, in registration order.
func (c *Context) concreteDescendants(d *model.Def) []*model.Def {
	var out []*model.Def
	seen := map[*model.Def]bool{}
	var visit func(x *model.Def)
	visit = func(x *model.Def) {
		if seen[x] {
			return
		}
		seen[x] = true
		if !model.Bool(x.Obj, "isTemplate") {
			out = append(out, x)
		}
		for _, y := range c.Index.Defs(model.ClassLyph) {
			if ref := model.Ref(y.Obj, "supertype"); ref != "" && c.lyph(ref, y.NS) == x {
				visit(y)
			}
		}
		for _, y := range c.refs(x, "subtypes", model.ClassLyph) {
			visit(y)
		}
	}
	visit(d)
	return out
}

// segment returns border segment k of a shape, creating the border when
// missing.
func (c *Context) segment(shape *model.Def, k int) model.Object {
	n := model.LyphBorderCount
	if k >= n {
		n = k + 1
	}
	segments := resource.PrepareBorder(shape.Obj, n)
	if k < 0 || k >= len(segments) {
		return nil
	}
	seg, _ := segments[k].(map[string]any)
	return seg
}

// hostOnBorder places node on border segment k of shape.
func (c *Context) hostOnBorder(shape *model.Def, k int, node *model.Def) {
	if seg := c.segment(shape, k); seg != nil {
		model.AddRef(seg, "hostedNodes", node.RefFrom(shape.NS))
	}
}

// cloneNode creates a fresh copy of node in g, joined to the original by a
// collapsible zero-length link.
func (c *Context) cloneNode(node *model.Def, g *model.Group) *model.Def {
	var id string
	for k := 1; ; k++ {
		id = model.GenID(node.ID(), model.PrefixClone, k)
		if c.get(id, g.NS) == nil {
			break
		}
	}
	obj := model.Object{"id": id, "cloneOf": node.RefFrom(g.NS)}
	if name := model.String(node.Obj, "name"); name != "" {
		obj["name"] = name
	}
	clone := c.generate(g, model.ClassNode, obj)
	c.generate(g, model.ClassLink, model.Object{
		"id":          model.GenID(id, model.PrefixLink),
		"source":      clone.RefFrom(g.NS),
		"target":      node.RefFrom(g.NS),
		"collapsible": true,
		"length":      0,
	})
	return clone
}

// replaceRef swaps every reference to old in obj[key] for repl.
func (c *Context) replaceRef(obj model.Object, key, ns string, old *model.Def, repl string) {
	items := model.Slice(obj, key)
	for i, v := range items {
		if c.get(model.RefID(v), ns) == old {
			items[i] = repl
		}
	}
	obj[key] = items
}
