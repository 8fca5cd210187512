package model

import (
	"github.com/matzehuels/lyphgraph/pkg/schema"
)

// Fields whose inline objects belong to their owner and are never hoisted.
var ownedFields = map[string]bool{
	"border":  true,
	"borders": true,
}

// Hoist moves resources defined inline inside relationship fields into the
// collections of their group and replaces them with id references, so every
// definition is reachable through an [Index]. Inline objects without an id,
// and objects whose class has no collection, stay in place.
func Hoist(reg *schema.Registry, root Object, class string) {
	hoistGroup(reg, root, class, String(root, "namespace"))
}

func hoistGroup(reg *schema.Registry, g Object, class, ns string) {
	if c := String(g, "class"); c != "" && reg.IsA(c, class) {
		class = c
	}
	nested := NestedKey(class)
	// Hoisted objects may land in a collection that was already visited,
	// so repeat until a pass moves nothing.
	for moved := true; moved; {
		moved = false
		for _, c := range CollectionsOf(class) {
			if c.Key == nested {
				continue
			}
			for i := 0; i < len(Slice(g, c.Key)); i++ {
				obj, ok := Slice(g, c.Key)[i].(map[string]any)
				if !ok {
					continue
				}
				objClass := c.Class
				if oc := String(obj, "class"); oc != "" && reg.IsA(oc, c.Class) {
					objClass = oc
				}
				if hoistFields(reg, g, obj, objClass, ns) {
					moved = true
				}
			}
		}
	}
	for _, v := range Slice(g, nested) {
		child, ok := v.(map[string]any)
		if !ok {
			continue
		}
		childNS := String(child, "namespace")
		if childNS == "" {
			childNS = ns
		}
		childClass := ClassGroup
		if nested == "components" {
			childClass = ClassComponent
		}
		hoistGroup(reg, child, childClass, childNS)
	}
}

func hoistFields(reg *schema.Registry, g, obj Object, class, groupNS string) bool {
	cl, err := reg.Class(class)
	if err != nil {
		return false
	}
	moved := false
	ownerNS := String(obj, "namespace")
	if ownerNS == "" {
		ownerNS = groupNS
	}
	for _, f := range cl.Relationships() {
		if ownedFields[f.Name] || !Has(obj, f.Name) {
			continue
		}
		if f.Many {
			items := Slice(obj, f.Name)
			for i, v := range items {
				var ok bool
				if items[i], ok = hoistValue(reg, g, v, f.Target, ownerNS, groupNS); ok {
					moved = true
				}
			}
			obj[f.Name] = items
			continue
		}
		var ok bool
		if obj[f.Name], ok = hoistValue(reg, g, obj[f.Name], f.Target, ownerNS, groupNS); ok {
			moved = true
		}
	}
	return moved
}

func hoistValue(reg *schema.Registry, g Object, v any, target, ownerNS, groupNS string) (any, bool) {
	child, ok := v.(map[string]any)
	if !ok || ID(child) == "" {
		return v, false
	}
	class := target
	if c := String(child, "class"); c != "" && reg.IsA(c, target) {
		class = c
	}
	key := ""
	for c := class; c != "" && key == ""; {
		key = CollectionKey(c)
		cl, err := reg.Class(c)
		if err != nil {
			break
		}
		c = cl.Parent
	}
	if key == "" || key == "groups" || key == "components" {
		return v, false
	}
	if ownerNS != groupNS && !Has(child, "namespace") {
		child["namespace"] = ownerNS
	}
	if String(child, "class") == "" && class != target {
		child["class"] = class
	}
	g[key] = append(Slice(g, key), child)
	if childNS := String(child, "namespace"); childNS != "" && childNS != ownerNS {
		return FullID(childNS, ID(child)), true
	}
	return ID(child), true
}
