package expand

import (
	"github.com/matzehuels/lyphgraph/pkg/diag"
	"github.com/matzehuels/lyphgraph/pkg/model"
)

// placement is one position a node occupies: internal to a lyph, or hosted
// by a border segment of it.
type placement struct {
	lyph    *model.Def
	segment model.Object // nil for internal nodes
}

// ReplicateBorderNodes keeps every node in at most one container. A node
// that is internal to several lyphs, or hosted by several border segments,
// stays in its first place; every further place receives a clone joined to
// the node by a collapsible link.
func (c *Context) ReplicateBorderNodes() {
	lyphs := c.Index.Defs(model.ClassLyph)
	for _, n := range c.Index.Defs(model.ClassNode) {
		if l := c.lyph(model.Ref(n.Obj, "internalIn"), n.NS); l != nil {
			addRef(l, "internalNodes", n)
		}
	}

	places := map[*model.Def][]placement{}
	var order []*model.Def
	record := func(n *model.Def, p placement) {
		if _, ok := places[n]; !ok {
			order = append(order, n)
		}
		places[n] = append(places[n], p)
	}
	for _, l := range lyphs {
		internal := map[*model.Def]bool{}
		for _, n := range c.refs(l, "internalNodes", model.ClassNode) {
			if !internal[n] {
				internal[n] = true
				record(n, placement{lyph: l})
			}
		}
		border := model.Map(l.Obj, "border")
		if border == nil {
			continue
		}
		for _, v := range model.Slice(border, "borders") {
			seg, ok := v.(map[string]any)
			if !ok {
				continue
			}
			seen := map[*model.Def]bool{}
			for _, ref := range model.Refs(seg, "hostedNodes") {
				n := c.node(ref, l.NS)
				if n == nil || seen[n] {
					continue
				}
				seen[n] = true
				record(n, placement{lyph: l, segment: seg})
			}
		}
	}

	for _, n := range order {
		ps := places[n]
		if len(ps) < 2 {
			continue
		}
		for _, p := range ps[1:] {
			clone := c.cloneNode(n, c.groupOrRoot(p.lyph))
			ref := clone.RefFrom(p.lyph.NS)
			if p.segment != nil {
				c.replaceRef(p.segment, "hostedNodes", p.lyph.NS, n, ref)
			} else {
				c.replaceRef(p.lyph.Obj, "internalNodes", p.lyph.NS, n, ref)
			}
		}
		if model.Has(n.Obj, "internalIn") {
			if first := ps[0]; first.segment == nil {
				setRef(n, "internalIn", first.lyph)
			} else {
				delete(n.Obj, "internalIn")
			}
		}
		c.Diag.Info(diag.MsgNodeReplicated, n.FullID, len(ps)-1)
	}
}

// RemapInternalLayers moves internal lyphs and nodes into the layers named by
// internalLyphsInLayers and internalNodesInLayers. Entry j of a layer list
// applies to entry j of the internal list; negative indices count from the
// outermost layer.
func (c *Context) RemapInternalLayers() {
	for _, l := range c.Index.Defs(model.ClassLyph) {
		if model.Bool(l.Obj, markRemapped) {
			continue
		}
		c.remapInternal(l, "internalLyphs", "internalLyphsInLayers")
		c.remapInternal(l, "internalNodes", "internalNodesInLayers")
		l.Obj[markRemapped] = true
	}
}

func (c *Context) remapInternal(l *model.Def, key, layersKey string) {
	idx := model.Ints(l.Obj, layersKey)
	if len(idx) == 0 {
		return
	}
	layers := c.layersOf(l)
	items := model.Slice(l.Obj, key)
	keep := make([]any, 0, len(items))
	for j, v := range items {
		t := c.get(model.RefID(v), l.NS)
		if j >= len(idx) || t == nil {
			keep = append(keep, v)
			continue
		}
		k := idx[j]
		if k < 0 {
			k += len(layers)
		}
		if k < 0 || k >= len(layers) {
			c.Diag.Warn(diag.MsgInternalLayerMissing, l.FullID, t.FullID, idx[j])
			keep = append(keep, v)
			continue
		}
		addRef(layers[k], key, t)
		if c.get(model.Ref(t.Obj, "internalIn"), t.NS) == l {
			setRef(t, "internalIn", layers[k])
		}
	}
	l.Obj[key] = keep
}
