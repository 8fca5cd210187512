package expand

import (
	"github.com/matzehuels/lyphgraph/pkg/diag"
	"github.com/matzehuels/lyphgraph/pkg/model"
)

// ExpandVilli expands every villus template.
func (c *Context) ExpandVilli() {
	for _, d := range c.Index.Defs(model.ClassVillus) {
		c.ExpandVillus(d)
	}
}

// villusHost returns the lyph a villus grows out of.
func (c *Context) villusHost(d *model.Def) *model.Def {
	if ref := model.Ref(d.Obj, "villusOf"); ref != "" {
		return c.lyph(ref, d.NS)
	}
	for _, l := range c.Index.Defs(model.ClassLyph) {
		if ref := model.Ref(l.Obj, "villus"); ref != "" && c.get(ref, l.NS) == d {
			return l
		}
	}
	return nil
}

// ExpandVillus grows a chain of numLayers lyphs through the innermost
// numLayers layers of the host lyph towards its lumen. Level j crosses host
// layer numLayers-j-1 and is made of clones of the host's innermost
// numLayers-j layers, so the villus narrows towards its tip, which is a bag.
// Node j sits on the outer border of the host layer level j crosses; the
// tip node is free.
func (c *Context) ExpandVillus(d *model.Def) {
	if model.Bool(d.Obj, markExpanded) {
		return
	}
	host := c.villusHost(d)
	if host == nil {
		c.Diag.Warn(diag.MsgVillusNoHost, d.FullID)
		return
	}
	n, ok := model.Int(d.Obj, "numLayers")
	if !ok || n < 1 {
		n = 1
	}
	c.ExpandLyph(host)
	layers := c.inheritedLayers(host)
	if n > len(layers) {
		c.Diag.Warn(diag.MsgVillusTooManyLayers, d.FullID, n, host.FullID, len(layers))
		return
	}
	d.Obj[markExpanded] = true
	if !model.Has(d.Obj, "villusOf") {
		setRef(d, "villusOf", host)
	}

	g := c.groupFor(d)
	nodes := make([]*model.Def, n+1)
	for j := range nodes {
		nodes[j] = c.generate(g, model.ClassNode, model.Object{
			"id": model.GenID(d.ID(), model.PrefixNode, j),
		})
	}
	for j := 0; j < n; j++ {
		c.hostOnBorder(layers[n-j-1], model.BorderOuter, nodes[j])
	}

	for j := 0; j < n; j++ {
		lyphID := model.GenID(d.ID(), model.PrefixLyph, j+1)
		refs := make([]string, 0, n-j)
		for k := 0; k < n-j; k++ {
			layer := c.generate(g, model.ClassLyph, model.Object{
				"id":      model.GenID(lyphID, model.PrefixLayer, k+1),
				"cloneOf": layers[k].RefFrom(g.NS),
			})
			c.ExpandLyph(layer)
			refs = append(refs, layer.RefFrom(g.NS))
		}
		topology := model.TopologyTube
		if j == n-1 {
			topology = model.TopologyBag
		}
		linkID := model.GenID(d.ID(), model.PrefixLink, j+1)
		c.generate(g, model.ClassLyph, model.Object{
			"id":       lyphID,
			"topology": topology,
			"layers":   model.StringList(refs...),
			"conveys":  linkID,
		})
		c.generate(g, model.ClassLink, model.Object{
			"id":            linkID,
			"source":        nodes[j].RefFrom(g.NS),
			"target":        nodes[j+1].RefFrom(g.NS),
			"conveyingLyph": lyphID,
		})
	}
}
