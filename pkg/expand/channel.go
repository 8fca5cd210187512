package expand

import (
	"strings"

	"github.com/matzehuels/lyphgraph/pkg/diag"
	"github.com/matzehuels/lyphgraph/pkg/model"
)

// MembraneExternal is the ontology term marking a material or lyph as a
// membrane.
const MembraneExternal = "GO:0016020"

// channelSegments names the three segments of a channel, from the innermost
// layer of the housing lyph outwards.
var channelSegments = [3]string{"internal", "membranous", "external"}

// channelTemplate holds the generated resources of one channel template.
type channelTemplate struct {
	group    *model.Group
	template *model.Def
	segments [3]*model.Def
	nodes    [4]*model.Def
	links    [3]*model.Def
}

// ExpandChannels generates the template of every channel.
func (c *Context) ExpandChannels() {
	for _, d := range c.Index.Defs(model.ClassChannel) {
		c.expandChannel(d)
	}
}

// ChannelInstances embeds every channel into its housing lyphs.
func (c *Context) ChannelInstances() {
	for _, d := range c.Index.Defs(model.ClassChannel) {
		c.channelInstances(d, c.expandChannel(d))
	}
}

// expandChannel generates the channel's lyph template, a tube with a content
// layer made of the channel's materials and a wall, and a chain of three
// segments subtyping it. Generated resources are reused on later calls.
func (c *Context) expandChannel(d *model.Def) *channelTemplate {
	g := c.groupFor(d)
	ct := &channelTemplate{group: g}
	ns := g.NS

	var materials []string
	for _, m := range c.refs(d, "materials", model.ClassMaterial) {
		materials = append(materials, m.RefFrom(ns))
	}
	content := model.Object{
		"id":   model.GenID(d.ID(), "content"),
		"name": "Content of " + d.ID(),
	}
	if len(materials) > 0 {
		content["materials"] = model.StringList(materials...)
	}
	contentDef := c.generate(g, model.ClassLyph, content)
	wallDef := c.generate(g, model.ClassLyph, model.Object{
		"id":   model.GenID(d.ID(), "wall"),
		"name": "Wall of " + d.ID(),
	})
	ct.template = c.generate(g, model.ClassLyph, model.Object{
		"id":         model.GenID(d.ID(), "template"),
		"isTemplate": true,
		"topology":   model.TopologyTube,
		"layers":     model.StringList(contentDef.RefFrom(ns), wallDef.RefFrom(ns)),
	})

	for k := range ct.nodes {
		ct.nodes[k] = c.generate(g, model.ClassNode, model.Object{
			"id": model.GenID(d.ID(), model.PrefixNode, k),
		})
	}
	for k, name := range channelSegments {
		linkID := model.GenID(d.ID(), model.PrefixLink, k+1)
		ct.segments[k] = c.generate(g, model.ClassLyph, model.Object{
			"id":        model.GenID(d.ID(), name),
			"name":      name,
			"supertype": ct.template.RefFrom(ns),
			"topology":  model.TopologyTube,
			"conveys":   linkID,
		})
		ct.links[k] = c.generate(g, model.ClassLink, model.Object{
			"id":            linkID,
			"source":        ct.nodes[k].RefFrom(ns),
			"target":        ct.nodes[k+1].RefFrom(ns),
			"conveyingLyph": ct.segments[k].RefFrom(ns),
		})
		c.ExpandLyph(ct.segments[k])
	}
	return ct
}

// channelHousing returns the lyphs housing a channel: those it names and
// those that list it.
func (c *Context) channelHousing(d *model.Def) []*model.Def {
	var out []*model.Def
	seen := map[*model.Def]bool{}
	for _, ref := range model.Refs(d.Obj, "housingLyphs") {
		h := c.lyph(ref, d.NS)
		if h == nil {
			c.Diag.Warn(diag.MsgChannelHousingNotLyph, d.FullID, ref)
			continue
		}
		if !seen[h] {
			seen[h] = true
			out = append(out, h)
		}
	}
	for _, l := range c.Index.Defs(model.ClassLyph) {
		if !seen[l] && c.refersTo(l, "channels", d) {
			seen[l] = true
			out = append(out, l)
		}
	}
	return out
}

// channelInstances embeds the channel into each housing lyph with at least
// three layers. Segment k runs from the inner to the outer border of layer
// k and coalesces with it. A housing template receives the template segments
// themselves; a concrete housing lyph receives its own instance group.
func (c *Context) channelInstances(d *model.Def, ct *channelTemplate) {
	if model.Bool(d.Obj, markEmbedded) {
		return
	}
	d.Obj[markEmbedded] = true
	housing := c.channelHousing(d)
	if len(housing) == 0 {
		c.Diag.Warn(diag.MsgChannelNoHousing, d.FullID)
		return
	}
	for _, h := range housing {
		c.ExpandLyph(h)
		layers := c.layersOf(h)
		if len(layers) < 3 {
			c.Diag.Warn(diag.MsgChannelNoLayers, d.FullID, h.FullID, len(layers))
			continue
		}
		if !c.isMembrane(layers[1]) {
			c.Diag.Warn(diag.MsgChannelNotMembrane, d.FullID, layers[1].FullID)
		}

		g, segments, nodes := ct.group, ct.segments, ct.nodes
		if !model.Bool(h.Obj, "isTemplate") {
			g, segments, nodes = c.channelInstance(d, ct, h)
		}
		for k := range segments {
			layer := layers[k]
			c.hostOnBorder(layer, model.BorderInner, nodes[k])
			c.hostOnBorder(layer, model.BorderOuter, nodes[k+1])
			c.generate(g, model.ClassCoalescence, model.Object{
				"id":       model.GenID(model.PrefixCoalescence, layer.ID(), segments[k].ID()),
				"lyphs":    model.StringList(layer.RefFrom(g.NS), segments[k].RefFrom(g.NS)),
				"topology": model.CoalescenceEmbedding,
			})
		}
	}
}

// channelInstance clones the channel's segments, nodes and links into an
// instance group for one concrete housing lyph.
func (c *Context) channelInstance(d *model.Def, ct *channelTemplate, h *model.Def) (*model.Group, [3]*model.Def, [4]*model.Def) {
	var segments [3]*model.Def
	var nodes [4]*model.Def
	obj := model.Object{
		"id":         model.GenID(d.ID(), model.PrefixInstance, h.ID()),
		"name":       d.ID() + " in " + h.ID(),
		"instanceOf": d.RefFrom(ct.group.NS),
		"generated":  true,
	}
	var g *model.Group
	if existing := c.get(model.ID(obj), ct.group.NS); existing != nil {
		g = c.Index.GroupOf(existing)
	}
	if g == nil {
		g = c.Index.AddGroup(ct.group, obj)
	}
	model.AddRef(d.Obj, "instances", model.RefFrom(d.NS, model.FullID(g.NS, g.ID())))

	prefix := model.GenID(d.ID(), h.ID())
	for k := range nodes {
		nodes[k] = c.generate(g, model.ClassNode, model.Object{
			"id":      model.GenID(prefix, model.PrefixNode, k),
			"cloneOf": ct.nodes[k].RefFrom(g.NS),
		})
	}
	for k, name := range channelSegments {
		linkID := model.GenID(prefix, model.PrefixLink, k+1)
		segments[k] = c.generate(g, model.ClassLyph, model.Object{
			"id":      model.GenID(prefix, name),
			"name":    name,
			"cloneOf": ct.segments[k].RefFrom(g.NS),
			"conveys": linkID,
		})
		c.generate(g, model.ClassLink, model.Object{
			"id":            linkID,
			"source":        nodes[k].RefFrom(g.NS),
			"target":        nodes[k+1].RefFrom(g.NS),
			"conveyingLyph": segments[k].RefFrom(g.NS),
			"cloneOf":       ct.links[k].RefFrom(g.NS),
		})
		c.ExpandLyph(segments[k])
	}
	return g, segments, nodes
}

// isMembrane reports whether a lyph, its ancestors or its materials are
// annotated with the membrane term.
func (c *Context) isMembrane(l *model.Def) bool {
	seen := map[*model.Def]bool{}
	var check func(d *model.Def) bool
	check = func(d *model.Def) bool {
		if d == nil || seen[d] {
			return false
		}
		seen[d] = true
		for _, v := range model.Slice(d.Obj, "external") {
			if strings.Contains(model.RefID(v), MembraneExternal) {
				return true
			}
			if m, ok := v.(map[string]any); ok && strings.Contains(model.String(m, "uri"), MembraneExternal) {
				return true
			}
		}
		if check(c.supertypeOf(d)) {
			return true
		}
		for _, ref := range model.Refs(d.Obj, "materials") {
			if check(c.get(ref, d.NS)) {
				return true
			}
		}
		return false
	}
	return check(l)
}
