package resource

import (
	"github.com/matzehuels/lyphgraph/pkg/model"
)

// Kind enumerates the concrete resource classes.
type Kind int

const (
	KindUnknown Kind = iota
	KindExternal
	KindMaterial
	KindLyph
	KindRegion
	KindBorder
	KindNode
	KindAnchor
	KindLink
	KindWire
	KindChain
	KindTree
	KindChannel
	KindVillus
	KindCoalescence
	KindGroup
	KindGraph
	KindComponent
	KindScaffold
)

// variant binds a kind to its class and preparation step.
type variant struct {
	class   string
	prepare func(obj model.Object)
}

var variants = map[Kind]variant{
	KindExternal:    {class: model.ClassExternal},
	KindMaterial:    {class: model.ClassMaterial},
	KindLyph:        {class: model.ClassLyph, prepare: prepareLyph},
	KindRegion:      {class: model.ClassRegion, prepare: prepareRegion},
	KindBorder:      {class: model.ClassBorder},
	KindNode:        {class: model.ClassNode},
	KindAnchor:      {class: model.ClassAnchor},
	KindLink:        {class: model.ClassLink},
	KindWire:        {class: model.ClassWire},
	KindChain:       {class: model.ClassChain},
	KindTree:        {class: model.ClassTree},
	KindChannel:     {class: model.ClassChannel},
	KindVillus:      {class: model.ClassVillus},
	KindCoalescence: {class: model.ClassCoalescence},
	KindGroup:       {class: model.ClassGroup},
	KindGraph:       {class: model.ClassGraph},
	KindComponent:   {class: model.ClassComponent},
	KindScaffold:    {class: model.ClassScaffold},
}

var kindByClass = func() map[string]Kind {
	m := make(map[string]Kind, len(variants))
	for k, v := range variants {
		m[v.class] = k
	}
	return m
}()

// KindOf returns the kind of a class name.
func KindOf(class string) Kind {
	return kindByClass[class]
}

// String returns the class name of the kind.
func (k Kind) String() string {
	if v, ok := variants[k]; ok {
		return v.class
	}
	return "Unknown"
}

// IsShape reports whether resources of the kind have a border.
func (k Kind) IsShape() bool { return k == KindLyph || k == KindRegion }

// IsGroup reports whether the kind lists other resources.
func (k Kind) IsGroup() bool {
	switch k {
	case KindGroup, KindGraph, KindComponent, KindScaffold:
		return true
	}
	return false
}

// IsEdge reports whether the kind connects two vertices.
func (k Kind) IsEdge() bool { return k == KindLink || k == KindWire }

func (k Kind) prepare(obj model.Object) {
	if v, ok := variants[k]; ok && v.prepare != nil {
		v.prepare(obj)
	}
}

func prepareLyph(obj model.Object) {
	PrepareBorder(obj, model.LyphBorderCount)
}

// A region has one border segment per polygon edge.
func prepareRegion(obj model.Object) {
	n := len(model.Slice(obj, "points"))
	if n == 0 {
		n = len(model.Slice(obj, "facets"))
	}
	PrepareBorder(obj, n)
}

// PrepareBorder makes sure a shape has an inline border object with n
// identified segments and returns the segments. A border given by
// reference is left alone and yields nil.
func PrepareBorder(obj model.Object, n int) []any {
	if _, isRef := obj["border"].(string); isRef {
		return nil
	}
	id := model.ID(obj)
	border := model.Map(obj, "border")
	if border == nil {
		border = model.Object{"generated": true}
		obj["border"] = border
	}
	model.SetDefault(border, "id", model.GenID(id, model.PrefixBorder))

	segments := model.Slice(border, "borders")
	for k := len(segments); k < n; k++ {
		segments = append(segments, model.Object{"generated": true})
	}
	for k, v := range segments {
		seg, ok := v.(map[string]any)
		if !ok {
			continue
		}
		model.SetDefault(seg, "id", model.GenID(id, model.PrefixBorder, k))
	}
	border["borders"] = segments
	return segments
}
