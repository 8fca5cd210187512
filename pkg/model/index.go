package model

import (
	"github.com/matzehuels/lyphgraph/pkg/schema"
)

// Group is a group-like definition (Group, Graph, Component, Scaffold) of
// the model tree.
type Group struct {
	Obj    Object
	Class  string
	NS     string // effective namespace
	Parent *Group
}

// ID returns the group's id.
func (g *Group) ID() string { return ID(g.Obj) }

// Def is a resource definition registered in the index.
type Def struct {
	Obj    Object
	Class  string
	FullID string
	NS     string
	Group  *Group // group that lists the definition
}

// ID returns the definition's local id.
func (d *Def) ID() string { return ID(d.Obj) }

// Is reports whether the definition is of class or one of its subclasses.
func (d *Def) Is(reg *schema.Registry, class string) bool {
	return reg.IsA(d.Class, class)
}

// RefFrom returns the reference a resource in namespace ns uses for d.
func (d *Def) RefFrom(ns string) string {
	return RefFrom(ns, d.FullID)
}

// Index maps every definition of a model by fully qualified id.
type Index struct {
	reg    *schema.Registry
	defs   map[string]*Def
	order  []*Def
	groups []*Group
	root   *Group

	groupDefs map[string]*Group
}

// NewIndex walks the model tree rooted at root. Collections must hold
// objects; run [Hoist] first to move inline definitions into them.
func NewIndex(reg *schema.Registry, root Object, class string) *Index {
	x := &Index{reg: reg, defs: make(map[string]*Def), groupDefs: make(map[string]*Group)}
	x.root = x.addGroup(nil, root, class)
	return x
}

// Registry returns the schema registry the index was built with.
func (x *Index) Registry() *schema.Registry { return x.reg }

// Root returns the top-level group.
func (x *Index) Root() *Group { return x.root }

// Groups returns all groups, parents before children.
func (x *Index) Groups() []*Group {
	out := make([]*Group, len(x.groups))
	copy(out, x.groups)
	return out
}

// Lookup returns the definition with the given fully qualified id.
func (x *Index) Lookup(fullID string) *Def {
	return x.defs[fullID]
}

// Get resolves a reference (id string or inline object) made from namespace ns.
func (x *Index) Get(ref any, ns string) *Def {
	id := RefID(ref)
	if id == "" {
		return nil
	}
	return x.defs[FullID(ns, id)]
}

// GetOf resolves ref and returns nil unless the definition is of class.
func (x *Index) GetOf(ref any, ns, class string) *Def {
	d := x.Get(ref, ns)
	if d == nil || !x.reg.IsA(d.Class, class) {
		return nil
	}
	return d
}

// Defs returns the definitions of class (or a subclass) in registration order.
func (x *Index) Defs(class string) []*Def {
	var out []*Def
	for _, d := range x.order {
		if x.reg.IsA(d.Class, class) {
			out = append(out, d)
		}
	}
	return out
}

// DefsIn returns the definitions of class listed directly by g.
func (x *Index) DefsIn(g *Group, class string) []*Def {
	var out []*Def
	for _, d := range x.order {
		if d.Group == g && x.reg.IsA(d.Class, class) {
			out = append(out, d)
		}
	}
	return out
}

// Add registers obj as a resource of class listed by g, appending it to the
// matching collection. If a definition with the same fully qualified id
// exists, it is returned unchanged and obj is discarded.
func (x *Index) Add(g *Group, class string, obj Object) *Def {
	ns := String(obj, "namespace")
	if ns == "" {
		ns = g.NS
	}
	fullID := FullID(ns, ID(obj))
	if d, ok := x.defs[fullID]; ok {
		return d
	}
	if key := x.collectionKey(class); key != "" {
		g.Obj[key] = append(Slice(g.Obj, key), obj)
	}
	return x.register(g, class, obj, ns)
}

// AddGroup registers obj as a nested group of parent.
func (x *Index) AddGroup(parent *Group, obj Object) *Group {
	key := NestedKey(parent.Class)
	parent.Obj[key] = append(Slice(parent.Obj, key), obj)
	class := ClassGroup
	if key == "components" {
		class = ClassComponent
	}
	return x.addGroup(parent, obj, class)
}

// GroupOf returns the group registered for a definition, if it is one.
func (x *Index) GroupOf(d *Def) *Group {
	return x.groupDefs[d.FullID]
}

func (x *Index) collectionKey(class string) string {
	for c := class; c != ""; {
		if key := CollectionKey(c); key != "" {
			return key
		}
		cl, err := x.reg.Class(c)
		if err != nil {
			return ""
		}
		c = cl.Parent
	}
	return ""
}

func (x *Index) register(g *Group, class string, obj Object, ns string) *Def {
	d := &Def{Obj: obj, Class: class, FullID: FullID(ns, ID(obj)), NS: ns, Group: g}
	if d.FullID != "" {
		x.defs[d.FullID] = d
	}
	x.order = append(x.order, d)
	return d
}

func (x *Index) addGroup(parent *Group, obj Object, class string) *Group {
	if c := String(obj, "class"); c != "" && x.reg.IsA(c, class) {
		class = c
	}
	ns := String(obj, "namespace")
	if ns == "" && parent != nil {
		ns = parent.NS
	}
	g := &Group{Obj: obj, Class: class, NS: ns, Parent: parent}
	x.groups = append(x.groups, g)
	if ID(obj) != "" {
		fullID := FullID(ns, ID(obj))
		if _, dup := x.defs[fullID]; !dup {
			x.register(parent, class, obj, ns)
			x.groupDefs[fullID] = g
		}
	}

	for _, c := range CollectionsOf(class) {
		for _, v := range Slice(obj, c.Key) {
			child, ok := v.(map[string]any)
			if !ok {
				continue
			}
			if c.Key == NestedKey(class) {
				x.addGroup(g, child, c.Class)
				continue
			}
			childClass := c.Class
			if cc := String(child, "class"); cc != "" && x.reg.IsA(cc, c.Class) {
				childClass = cc
			}
			childNS := String(child, "namespace")
			if childNS == "" {
				childNS = ns
			}
			if ID(child) == "" {
				continue
			}
			if _, dup := x.defs[FullID(childNS, ID(child))]; dup {
				continue
			}
			x.register(g, childClass, child, childNS)
		}
	}
	return g
}
