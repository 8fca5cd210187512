package expand

import (
	"slices"

	"github.com/matzehuels/lyphgraph/pkg/diag"
	"github.com/matzehuels/lyphgraph/pkg/model"
)

// LevelTopology returns the topology of the lyph generated for level i of a
// chain with n levels whose lyph template has the given topology.
func LevelTopology(template string, i, n int) string {
	switch {
	case (template == model.TopologyBagPlus || template == model.TopologyBag2 || template == model.TopologyCyst) && i == 0 && n > 1:
		return model.TopologyBag2
	case n == 1 && template == model.TopologyCyst:
		return model.TopologyCyst
	case i == n-1 && (template == model.TopologyBagMin || template == model.TopologyBag || template == model.TopologyCyst):
		return model.TopologyBag
	default:
		return model.TopologyTube
	}
}

// ValidTopology reports whether a sequence of level topologies forms a
// chain: interior levels are tubes, the first level is open at its start
// and the last level is open at its end. An empty string stands for a level
// without a conveying lyph.
func ValidTopology(levels []string) bool {
	n := len(levels)
	switch n {
	case 0:
		return false
	case 1:
		return true
	}
	for _, t := range levels[1 : n-1] {
		if t != "" && t != model.TopologyTube {
			return false
		}
	}
	switch levels[0] {
	case model.TopologyBagMin, model.TopologyBag, model.TopologyCyst:
		return false
	}
	switch levels[n-1] {
	case model.TopologyBagPlus, model.TopologyBag2, model.TopologyCyst:
		return false
	}
	return true
}

// ExpandChains expands the chains of every group, parents first.
func (c *Context) ExpandChains() {
	for _, g := range c.Index.Groups() {
		for _, d := range c.Index.DefsIn(g, model.ClassChain) {
			c.ExpandChain(d)
		}
	}
}

// ExpandChain generates the levels, nodes and lyphs of a chain. A chain is
// built either from its lyphs, each conveyed by a level link, or from its
// levels, padded to numLevels and given generated lyphs when a lyph template
// is set. ExpandChain reports false when the chain lacks the data to build
// anything.
func (c *Context) ExpandChain(d *model.Def) bool {
	if model.Bool(d.Obj, markExpanded) {
		return true
	}
	numLevels, _ := model.Int(d.Obj, "numLevels")
	hasLyphs := len(model.Refs(d.Obj, "lyphs")) > 0
	hasLevels := len(model.Slice(d.Obj, "levels")) > 0
	hasHousing := len(model.Refs(d.Obj, "housingLyphs")) > 0 || model.Ref(d.Obj, "housingChain") != ""
	hasTemplate := numLevels > 0 && model.Ref(d.Obj, "lyphTemplate") != ""
	if !hasLyphs && !hasLevels && !hasHousing && !hasTemplate {
		c.Diag.Warn(diag.MsgChainSkipped, d.FullID)
		return false
	}
	d.Obj[markExpanded] = true

	if hasLyphs {
		if hasLevels {
			c.Diag.Warn(diag.MsgChainLyphsAndLevels, d.FullID)
		}
		c.chainFromLyphs(d)
		return true
	}
	return c.chainFromLevels(d)
}

// chainTemplate returns the chain's lyph template and its topology.
func (c *Context) chainTemplate(d *model.Def) (*model.Def, string) {
	ref := model.Ref(d.Obj, "lyphTemplate")
	if ref == "" {
		return nil, ""
	}
	t := c.lyph(ref, d.NS)
	if t == nil {
		c.Diag.Warn(diag.MsgChainTemplateMissing, d.FullID, ref)
		return nil, ""
	}
	return t, model.String(t.Obj, "topology")
}

func (c *Context) chainFromLyphs(d *model.Def) {
	g := c.groupFor(d)
	tmpl, tmplTopology := c.chainTemplate(d)
	refs := model.Refs(d.Obj, "lyphs")
	n := len(refs)

	links := make([]*model.Def, n)
	var conveyed []string
	differ := false
	for i, ref := range refs {
		lyph := c.lyph(ref, d.NS)
		if lyph == nil {
			lyph = c.generate(g, model.ClassLyph, model.Object{"id": ref})
		}
		if tmpl != nil && lyph != tmpl && len(model.Refs(lyph.Obj, "layers")) == 0 &&
			!model.Has(lyph.Obj, "supertype") && !model.Has(lyph.Obj, "cloneOf") {
			setRef(lyph, "supertype", tmpl)
			model.SetDefault(lyph.Obj, "topology", LevelTopology(tmplTopology, i, n))
		}

		link := c.link(model.Ref(lyph.Obj, "conveys"), lyph.NS)
		if link == nil {
			link = c.generate(g, model.ClassLink, model.Object{
				"id": model.GenID(d.ID(), model.PrefixLink, i+1),
			})
			setRef(lyph, "conveys", link)
		}
		if !model.Has(link.Obj, "conveyingLyph") {
			setRef(link, "conveyingLyph", lyph)
		}
		if ct := model.String(d.Obj, "conveyingType"); ct != "" {
			model.SetDefault(link.Obj, "conveyingType", ct)
		}
		links[i] = link

		mats := c.conveyedMaterials(lyph)
		if i == 0 {
			conveyed = mats
		} else if !slices.Equal(conveyed, mats) {
			differ = true
		}
		if len(mats) > 0 && !model.Has(link.Obj, "conveyingMaterials") {
			out := make([]string, len(mats))
			for k, m := range mats {
				out[k] = model.RefFrom(link.NS, m)
			}
			link.Obj["conveyingMaterials"] = model.StringList(out...)
		}
	}
	if differ {
		c.Diag.Warn(diag.MsgChainMaterialsDiffer, d.FullID)
	}

	nodes := c.chainNodes(d, g, links)
	c.connectLevels(d, links, nodes)
}

// conveyedMaterials returns the materials of the innermost layer of a lyph,
// or of the lyph itself when it has no layers.
func (c *Context) conveyedMaterials(lyph *model.Def) []string {
	if layers := c.inheritedLayers(lyph); len(layers) > 0 {
		return c.materialsOf(layers[0])
	}
	return c.materialsOf(lyph)
}

// endpoint resolves the chain's root or leaf, creating the node when the
// chain names one that is not defined.
func (c *Context) endpoint(d *model.Def, g *model.Group, key string) *model.Def {
	ref := model.Ref(d.Obj, key)
	if ref == "" {
		return nil
	}
	if node := c.node(ref, d.NS); node != nil {
		return node
	}
	return c.generate(g, model.ClassNode, model.Object{"id": ref})
}

// connectLevels wires links[i] from nodes[i] to nodes[i+1] and records the
// levels, root and leaf on the chain.
func (c *Context) connectLevels(d *model.Def, links, nodes []*model.Def) {
	levels := make([]string, len(links))
	for i, link := range links {
		setRef(link, "source", nodes[i])
		setRef(link, "target", nodes[i+1])
		levels[i] = link.RefFrom(d.NS)
	}
	d.Obj["levels"] = model.StringList(levels...)
	d.Obj["numLevels"] = len(links)
	if len(nodes) > 0 {
		setRef(d, "root", nodes[0])
		setRef(d, "leaf", nodes[len(nodes)-1])
	}
}

// chainFromLevels reports false, generating nothing, when the chain
// resolves to no levels.
func (c *Context) chainFromLevels(d *model.Def) bool {
	housing := c.chainHousing(d)

	levels := model.Slice(d.Obj, "levels")
	numLevels, hasNum := model.Int(d.Obj, "numLevels")
	if len(housing) > numLevels {
		numLevels = len(housing)
	}
	switch {
	case len(levels) < numLevels:
		c.Diag.Info(diag.MsgChainLevelsPadded, d.FullID, len(levels), numLevels)
		levels = append(levels, make([]any, numLevels-len(levels))...)
	case len(levels) > numLevels:
		if hasNum {
			c.Diag.Warn(diag.MsgChainNumLevelsCorrected, d.FullID, numLevels, len(levels))
		}
		numLevels = len(levels)
	}
	n := numLevels
	if n == 0 {
		c.Diag.Warn(diag.MsgChainSkipped, d.FullID)
		return false
	}
	g := c.groupFor(d)

	links := make([]*model.Def, n)
	for i, v := range levels {
		id := model.GenID(d.ID(), model.PrefixLink, i+1)
		switch lv := v.(type) {
		case string:
			links[i] = c.link(lv, d.NS)
			if links[i] == nil {
				id = lv
			}
		case map[string]any:
			if model.ID(lv) == "" {
				lv["id"] = id
			}
			links[i] = c.link(model.ID(lv), d.NS)
			if links[i] == nil {
				links[i] = c.Index.Add(g, model.ClassLink, lv)
			}
		}
		if links[i] == nil {
			links[i] = c.generate(g, model.ClassLink, model.Object{"id": id})
		}
	}

	nodes := c.chainNodes(d, g, links)
	c.connectLevels(d, links, nodes)

	tmpl, tmplTopology := c.chainTemplate(d)
	if tmpl == nil {
		return true
	}
	for i, link := range links {
		if model.Has(link.Obj, "conveyingLyph") {
			continue
		}
		lyph := c.generate(g, model.ClassLyph, model.Object{
			"id":        model.GenID(d.ID(), model.PrefixLyph, i+1),
			"supertype": tmpl.RefFrom(g.NS),
			"topology":  LevelTopology(tmplTopology, i, n),
			"conveys":   link.RefFrom(g.NS),
		})
		setRef(link, "conveyingLyph", lyph)
	}
	return true
}

// chainNodes picks the node before and after every level: an endpoint an
// existing link already declares, the chain's root or leaf, or a generated
// node.
func (c *Context) chainNodes(d *model.Def, g *model.Group, links []*model.Def) []*model.Def {
	n := len(links)
	nodes := make([]*model.Def, n+1)
	for i := 0; i <= n; i++ {
		var prev, next *model.Def
		if i > 0 {
			prev = c.node(model.Ref(links[i-1].Obj, "target"), links[i-1].NS)
		}
		if i < n {
			next = c.node(model.Ref(links[i].Obj, "source"), links[i].NS)
		}
		node := prev
		if node == nil {
			node = next
		} else if next != nil && next != prev {
			c.Diag.Warn(diag.MsgChainNodeConflict, d.FullID, prev.FullID, next.FullID)
		}
		if node == nil {
			switch i {
			case 0:
				node = c.endpoint(d, g, "root")
			case n:
				node = c.endpoint(d, g, "leaf")
			}
		}
		if node == nil {
			node = c.generate(g, model.ClassNode, model.Object{
				"id": model.GenID(d.ID(), model.PrefixNode, i),
			})
		}
		nodes[i] = node
	}
	return nodes
}

// chainHousing resolves the lyphs housing the levels of a chain. A housing
// chain contributes the lyphs conveyed by its levels, cut to housingRange.
func (c *Context) chainHousing(d *model.Def) []*model.Def {
	housing := c.refs(d, "housingLyphs", model.ClassLyph)
	ref := model.Ref(d.Obj, "housingChain")
	if ref == "" {
		return housing
	}
	if len(model.Refs(d.Obj, "housingLyphs")) > 0 {
		c.Diag.Warn(diag.MsgChainHousingConflict, d.FullID)
		return housing
	}
	hc := c.Index.GetOf(ref, d.NS, model.ClassChain)
	if hc == nil || hc == d {
		c.Diag.Warn(diag.MsgChainHousingChainMissing, d.FullID, ref)
		return nil
	}
	c.ExpandChain(hc)
	var lyphs []*model.Def
	for _, link := range c.refs(hc, "levels", model.ClassLink) {
		if lyph := c.lyph(model.Ref(link.Obj, "conveyingLyph"), link.NS); lyph != nil {
			lyphs = append(lyphs, lyph)
		}
	}
	if rng := model.Map(d.Obj, "housingRange"); rng != nil {
		lo, _ := model.Int(rng, "min")
		hi, ok := model.Int(rng, "max")
		if !ok || hi > len(lyphs) {
			hi = len(lyphs)
		}
		lo = max(lo, 0)
		if lo < hi {
			lyphs = lyphs[lo:hi]
		} else {
			lyphs = nil
		}
	}
	refs := make([]string, len(lyphs))
	for i, l := range lyphs {
		refs[i] = l.RefFrom(d.NS)
	}
	d.Obj["housingLyphs"] = model.StringList(refs...)
	return lyphs
}
