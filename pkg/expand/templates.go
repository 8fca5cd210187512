package expand

import (
	"github.com/matzehuels/lyphgraph/pkg/diag"
	"github.com/matzehuels/lyphgraph/pkg/model"
)

// templateRefFields lists, per class, the relationships where a reference to
// a lyph template or a material stands for a generated lyph.
var templateRefFields = []struct {
	class, field string
}{
	{model.ClassLink, "conveyingLyph"},
	{model.ClassLyph, "internalLyphs"},
	{model.ClassChain, "lyphs"},
}

// ReplaceTemplateRefs rewrites references to lyph templates and materials in
// the fields of templateRefFields. A template reference becomes a generated
// subtype of the template; a material reference becomes a generated lyph made
// of that material. The generated lyph is named after the referencing
// resource and the template, with a counter when one resource refers to the
// same template more than once.
func (c *Context) ReplaceTemplateRefs() {
	for _, tf := range templateRefFields {
		for _, d := range c.Index.Defs(tf.class) {
			c.replaceTemplateRefs(d, tf.field)
		}
	}
}

func (c *Context) replaceTemplateRefs(d *model.Def, field string) {
	items := model.Slice(d.Obj, field)
	if len(items) == 0 {
		return
	}
	seen := map[*model.Def]int{}
	changed := false
	for i, v := range items {
		t := c.get(model.RefID(v), d.NS)
		if t == nil {
			continue
		}
		isTemplate := c.is(t, model.ClassLyph) && model.Bool(t.Obj, "isTemplate")
		isMaterial := c.is(t, model.ClassMaterial)
		if !isTemplate && !isMaterial {
			continue
		}
		seen[t]++
		parts := []any{d.ID(), t.ID()}
		if n := seen[t]; n > 1 {
			parts = append(parts, n)
		}
		g := c.groupOrRoot(d)
		obj := model.Object{
			"id":        model.GenID(parts...),
			"createdBy": d.FullID,
		}
		if name := model.String(t.Obj, "name"); name != "" {
			obj["name"] = name
		}
		if isTemplate {
			obj["supertype"] = t.RefFrom(g.NS)
		} else {
			obj["materials"] = model.StringList(t.RefFrom(g.NS))
			obj["generatedFrom"] = t.RefFrom(g.NS)
		}
		sub := c.generate(g, model.ClassLyph, obj)
		items[i] = sub.RefFrom(d.NS)
		changed = true
	}
	if !changed {
		return
	}
	switch d.Obj[field].(type) {
	case string, map[string]any:
		d.Obj[field] = items[0]
	default:
		d.Obj[field] = items
	}
}

// ExpandLyphTemplates makes every lyph with a supertype or cloneOf inherit
// from it: missing color, scale, topology and materials are copied and,
// if the lyph has no layers, each layer of the template is cloned into a
// layer of its own. Subtypes listed by a template get their supertype set
// first.
func (c *Context) ExpandLyphTemplates() {
	for _, t := range c.Index.Defs(model.ClassLyph) {
		for _, s := range c.refs(t, "subtypes", model.ClassLyph) {
			if !model.Has(s.Obj, "supertype") && s != t {
				setRef(s, "supertype", t)
			}
		}
	}
	for _, d := range c.Index.Defs(model.ClassLyph) {
		c.ExpandLyph(d)
	}
}

// inheritedProps are copied from a template to lyphs that lack them.
var inheritedProps = []string{"color", "scale", "topology", "thickness", "length"}

// ExpandLyph applies the supertype or cloneOf template of one lyph. It is
// safe to call repeatedly.
func (c *Context) ExpandLyph(d *model.Def) {
	if c.lyphDone[d.FullID] {
		return
	}
	c.lyphDone[d.FullID] = true

	field, ref := "supertype", model.Ref(d.Obj, "supertype")
	if ref == "" {
		field, ref = "cloneOf", model.Ref(d.Obj, "cloneOf")
	}
	if ref == "" {
		return
	}
	t := c.lyph(ref, d.NS)
	if t == nil {
		c.Diag.Warn(diag.MsgTemplateMissing, d.FullID, ref)
		return
	}
	if t == d {
		return
	}
	c.ExpandLyph(t)

	for _, key := range inheritedProps {
		if !model.Has(d.Obj, key) && model.Has(t.Obj, key) {
			d.Obj[key] = model.Clone(t.Obj[key])
		}
	}
	if !model.Has(d.Obj, "materials") {
		if mats := model.Refs(t.Obj, "materials"); len(mats) > 0 {
			out := make([]string, len(mats))
			for i, m := range mats {
				out[i] = model.RefFrom(d.NS, model.FullID(t.NS, m))
			}
			d.Obj["materials"] = model.StringList(out...)
		}
	}
	if len(model.Refs(d.Obj, "layers")) > 0 {
		return
	}
	layers := c.layersOf(t)
	if len(layers) == 0 {
		return
	}
	g := c.groupOrRoot(d)
	refs := make([]string, 0, len(layers))
	for _, y := range layers {
		obj := model.Object{
			"id":  model.GenID(d.ID(), y.ID()),
			field: y.RefFrom(g.NS),
		}
		if name := model.String(y.Obj, "name"); name != "" {
			obj["name"] = name
		}
		layer := c.generate(g, model.ClassLyph, obj)
		refs = append(refs, layer.RefFrom(d.NS))
		c.ExpandLyph(layer)
	}
	d.Obj["layers"] = model.StringList(refs...)
}
