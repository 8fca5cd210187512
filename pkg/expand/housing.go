package expand

import (
	"github.com/matzehuels/lyphgraph/pkg/diag"
	"github.com/matzehuels/lyphgraph/pkg/model"
)

// EmbedChains places every chain with housing lyphs into its hosts and then
// replicates chains over the descendants of their housing lyph templates.
func (c *Context) EmbedChains() {
	for _, d := range c.Index.Defs(model.ClassChain) {
		c.EmbedChain(d)
	}
	for _, d := range c.Index.Defs(model.ClassChain) {
		c.ReplicateChain(d)
	}
}

// EmbedChain bundles each level of a chain into its housing lyph, or into
// the housing lyph's layer selected by housingLayers or bundlesChains.
//
// The chain's first and last levels become end bundles of their hosts and
// the remaining levels plain bundles. The first and last nodes of the chain
// are internal to their hosts; every other node is placed on a border
// segment of the host it enters, while the node a level leaves through is
// cloned onto the border of that level's host. Consecutive levels sharing a
// host share the node between them.
//
// A level conveyed by a lyph inside a concrete host also yields an
// embedding coalescence of the host and the level lyph.
func (c *Context) EmbedChain(d *model.Def) {
	if model.Bool(d.Obj, markEmbedded) {
		return
	}
	housingRefs := model.Refs(d.Obj, "housingLyphs")
	if len(housingRefs) == 0 {
		return
	}
	d.Obj[markEmbedded] = true
	if !c.ExpandChain(d) {
		return
	}

	links := c.refs(d, "levels", model.ClassLink)
	n := len(links)
	hosts := make([]*model.Def, n)
	layerIdx := make([]int, n)
	housingLayers := model.Ints(d.Obj, "housingLayers")
	for i := range links {
		layerIdx[i] = -1
		if i >= len(housingRefs) {
			continue
		}
		h := c.lyph(housingRefs[i], d.NS)
		if h == nil {
			c.Diag.Warn(diag.MsgChainHousingMissing, d.FullID, housingRefs[i])
			continue
		}
		hosts[i], layerIdx[i] = c.housingHost(d, h, i, housingLayers)
	}

	g := c.groupFor(d)
	radial := model.Bool(d.Obj, "radial")
	for i, link := range links {
		host := hosts[i]
		if host == nil {
			continue
		}
		key := "bundles"
		if i == 0 || i == n-1 {
			key = "endBundles"
		}
		addRef(host, key, link)

		srcBorder, tgtBorder := borderPositions(radial, layerIdx, hosts, i)
		if src := c.node(model.Ref(link.Obj, "source"), link.NS); src != nil {
			if i == 0 {
				addRef(host, "internalNodes", src)
			} else {
				c.hostOnBorder(host, srcBorder, src)
			}
		}
		if tgt := c.node(model.Ref(link.Obj, "target"), link.NS); tgt != nil {
			switch {
			case i == n-1:
				addRef(host, "internalNodes", tgt)
			case hosts[i+1] == host:
				// the next level enters the same host through this node
			default:
				c.hostOnBorder(host, tgtBorder, c.cloneNode(tgt, g))
			}
		}

		lyph := c.lyph(model.Ref(link.Obj, "conveyingLyph"), link.NS)
		if lyph == nil || model.Bool(host.Obj, "isTemplate") {
			continue
		}
		c.generate(g, model.ClassCoalescence, model.Object{
			"id":       model.GenID(model.PrefixCoalescence, host.ID(), lyph.ID()),
			"lyphs":    model.StringList(host.RefFrom(g.NS), lyph.RefFrom(g.NS)),
			"topology": model.CoalescenceEmbedding,
		})
	}
}

// housingHost picks the lyph that houses level i: the layer named by
// housingLayers, else a layer that bundles the chain, else the housing lyph
// itself. The second result is the layer index, or -1.
func (c *Context) housingHost(d, h *model.Def, i int, housingLayers []int) (*model.Def, int) {
	layers := c.layersOf(h)
	bundling, bundlingIdx := (*model.Def)(nil), -1
	for k, layer := range layers {
		if c.refersTo(layer, "bundlesChains", d) {
			bundling, bundlingIdx = layer, k
			break
		}
	}
	if i < len(housingLayers) {
		k := housingLayers[i]
		if k < 0 {
			k += len(layers)
		}
		if k < 0 || k >= len(layers) {
			c.Diag.Warn(diag.MsgChainNoHousingLayer, d.FullID, h.FullID, housingLayers[i])
			return h, -1
		}
		if bundling != nil && bundling != layers[k] {
			c.Diag.Warn(diag.MsgChainHousingLayerConflict, d.FullID, layers[k].FullID, bundling.FullID)
		}
		return layers[k], k
	}
	if bundling != nil {
		return bundling, bundlingIdx
	}
	return h, -1
}

// borderPositions returns the border segments for the source node entering
// level i and the cloned target node leaving it. Chains run along the radial
// borders of their hosts; radial chains cross from the inner to the outer
// border, or back when they move towards the axis.
func borderPositions(radial bool, layerIdx []int, hosts []*model.Def, i int) (src, tgt int) {
	if !radial {
		return model.BorderRadial2, model.BorderRadial1
	}
	outward := true
	step := func(a, b int) bool {
		if a < 0 || b < 0 || a == b || hosts[a] == nil || hosts[b] == nil {
			return false
		}
		if layerIdx[a] < 0 || layerIdx[b] < 0 || layerIdx[a] == layerIdx[b] {
			return false
		}
		outward = layerIdx[b] > layerIdx[a]
		return true
	}
	if i+1 >= len(hosts) || !step(i, i+1) {
		step(i-1, i)
	}
	if outward {
		return model.BorderInner, model.BorderOuter
	}
	return model.BorderOuter, model.BorderInner
}

// ReplicateChain clones a chain into every concrete descendant of each of
// its housing lyph templates. The clone is radial and housed by consecutive
// layers of the descendant, starting at the layer the entry names.
func (c *Context) ReplicateChain(d *model.Def) {
	entries := model.Slice(d.Obj, "housingLyphTemplates")
	if len(entries) == 0 {
		return
	}
	numLevels, _ := model.Int(d.Obj, "numLevels")
	for _, e := range entries {
		ref, offset := model.RefID(e), 0
		if m, ok := e.(map[string]any); ok {
			ref = model.Ref(m, "lyph")
			offset, _ = model.Int(m, "layer")
		}
		h := c.lyph(ref, d.NS)
		if h == nil {
			c.Diag.Warn(diag.MsgChainHousingMissing, d.FullID, ref)
			continue
		}
		descendants := c.concreteDescendants(h)
		if len(descendants) == 0 {
			c.Diag.Warn(diag.MsgChainNoDescendants, d.FullID, h.FullID)
			continue
		}
		for _, desc := range descendants {
			c.replicateInto(d, desc, offset, numLevels)
		}
	}
}

func (c *Context) replicateInto(d, host *model.Def, offset, numLevels int) {
	g := c.groupOrRoot(d)
	id := model.GenID(d.ID(), host.ID())
	if c.get(id, g.NS) != nil {
		return
	}
	c.ExpandLyph(host)
	layers := c.layersOf(host)
	if offset < 0 {
		offset += len(layers)
	}
	offset = min(max(offset, 0), len(layers))
	if numLevels <= 0 {
		numLevels = len(layers) - offset
	}
	end := min(offset+numLevels, len(layers))
	housing := make([]string, 0, end-offset)
	for _, layer := range layers[offset:end] {
		housing = append(housing, layer.RefFrom(g.NS))
	}
	obj := model.Object{
		"id":           id,
		"radial":       true,
		"numLevels":    numLevels,
		"housingLyphs": model.StringList(housing...),
	}
	if name := model.String(d.Obj, "name"); name != "" {
		obj["name"] = name
	}
	if ct := model.String(d.Obj, "conveyingType"); ct != "" {
		obj["conveyingType"] = ct
	}
	if tmpl := model.Ref(d.Obj, "lyphTemplate"); tmpl != "" {
		if t := c.lyph(tmpl, d.NS); t != nil {
			obj["lyphTemplate"] = t.RefFrom(g.NS)
		}
	}
	clone := c.generate(g, model.ClassChain, obj)
	if !c.ExpandChain(clone) {
		return
	}
	for _, link := range c.refs(clone, "levels", model.ClassLink) {
		if lyph := c.lyph(model.Ref(link.Obj, "conveyingLyph"), link.NS); lyph != nil {
			c.ExpandLyph(lyph)
		}
	}
	c.EmbedChain(clone)
}
