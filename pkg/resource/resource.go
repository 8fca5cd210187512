package resource

import (
	"maps"
	"slices"

	"github.com/matzehuels/lyphgraph/pkg/model"
	"github.com/matzehuels/lyphgraph/pkg/schema"
)

// Resource is an instantiated model entity.
//
// Properties hold decoded JSON values. Relationships hold fully qualified
// ids of other resources in the same [Store], in insertion order.
type Resource struct {
	ID        string
	Namespace string
	FullID    string
	Class     string
	Kind      Kind
	Generated bool

	schema *schema.Class
	props  map[string]any
	rels   map[string][]string
}

func newResource(cls *schema.Class, id, ns string) *Resource {
	return &Resource{
		ID:        id,
		Namespace: ns,
		FullID:    model.FullID(ns, id),
		Class:     cls.Name,
		Kind:      KindOf(cls.Name),
		schema:    cls,
		props:     make(map[string]any),
		rels:      make(map[string][]string),
	}
}

// Schema returns the class descriptor of the resource.
func (r *Resource) Schema() *schema.Class { return r.schema }

// Name returns the display name, falling back to the id.
func (r *Resource) Name() string {
	if n := r.String("name"); n != "" {
		return n
	}
	return r.ID
}

// Prop returns a property value.
func (r *Resource) Prop(name string) any { return r.props[name] }

// HasProp reports whether a property is set.
func (r *Resource) HasProp(name string) bool {
	v, ok := r.props[name]
	return ok && v != nil
}

// SetProp sets a property value.
func (r *Resource) SetProp(name string, v any) { r.props[name] = v }

// DeleteProp removes a property.
func (r *Resource) DeleteProp(name string) { delete(r.props, name) }

// PropNames returns the names of set properties, sorted.
func (r *Resource) PropNames() []string {
	return slices.Sorted(maps.Keys(r.props))
}

// String returns a string property.
func (r *Resource) String(name string) string {
	s, _ := r.props[name].(string)
	return s
}

// Bool returns a boolean property.
func (r *Resource) Bool(name string) bool {
	b, _ := r.props[name].(bool)
	return b
}

// Float returns a numeric property.
func (r *Resource) Float(name string) (float64, bool) {
	return model.Number(r.props[name])
}

// Int returns a numeric property truncated to int.
func (r *Resource) Int(name string) (int, bool) {
	f, ok := r.Float(name)
	return int(f), ok
}

// IsTemplate reports whether the resource is an abstract lyph prototype.
func (r *Resource) IsTemplate() bool { return r.Bool("isTemplate") }

// Refs returns the fully qualified ids referenced by a relationship.
func (r *Resource) Refs(name string) []string {
	return slices.Clone(r.rels[name])
}

// Ref returns the single id of a scalar relationship, or the first id of a list.
func (r *Resource) Ref(name string) string {
	if ids := r.rels[name]; len(ids) > 0 {
		return ids[0]
	}
	return ""
}

// HasRef reports whether the relationship references fullID.
func (r *Resource) HasRef(name, fullID string) bool {
	return slices.Contains(r.rels[name], fullID)
}

// AddRef appends fullID to a list relationship unless present.
func (r *Resource) AddRef(name, fullID string) bool {
	if fullID == "" || r.HasRef(name, fullID) {
		return false
	}
	r.rels[name] = append(r.rels[name], fullID)
	return true
}

// SetRef replaces a scalar relationship.
func (r *Resource) SetRef(name, fullID string) {
	if fullID == "" {
		delete(r.rels, name)
		return
	}
	r.rels[name] = []string{fullID}
}

// SetRefs replaces a relationship with ids.
func (r *Resource) SetRefs(name string, ids []string) {
	if len(ids) == 0 {
		delete(r.rels, name)
		return
	}
	r.rels[name] = slices.Clone(ids)
}

// RemoveRef drops fullID from a relationship.
func (r *Resource) RemoveRef(name, fullID string) {
	ids := slices.DeleteFunc(slices.Clone(r.rels[name]), func(id string) bool { return id == fullID })
	r.SetRefs(name, ids)
}

// RelNames returns the names of set relationships, sorted.
func (r *Resource) RelNames() []string {
	return slices.Sorted(maps.Keys(r.rels))
}

// link stores a reference according to the field cardinality.
func (r *Resource) link(f *schema.Field, fullID string) {
	if f.Many {
		r.AddRef(f.Name, fullID)
		return
	}
	r.SetRef(f.Name, fullID)
}
