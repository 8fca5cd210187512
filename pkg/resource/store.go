package resource

import (
	"maps"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/matzehuels/lyphgraph/pkg/diag"
	"github.com/matzehuels/lyphgraph/pkg/model"
	"github.com/matzehuels/lyphgraph/pkg/schema"
)

// Pending is a reference that could not be resolved when its owner was
// instantiated.
type Pending struct {
	Owner string // fully qualified id of the referencing resource
	Field string
}

// Store is the arena of one assembly: identity map, waiting list and
// diagnostics. A Store must not be shared between assemblies.
type Store struct {
	reg  *schema.Registry
	diag *diag.Logger

	items map[string]*Resource
	order []*Resource

	waiting   map[string][]Pending
	waitOrder []string

	missingInverse map[string]bool
	newID          func() string
}

// NewStore creates an empty store.
func NewStore(reg *schema.Registry, d *diag.Logger) *Store {
	if d == nil {
		d = diag.New()
	}
	return &Store{
		reg:            reg,
		diag:           d,
		items:          make(map[string]*Resource),
		waiting:        make(map[string][]Pending),
		missingInverse: make(map[string]bool),
		newID:          uuid.NewString,
	}
}

// Registry returns the schema registry.
func (s *Store) Registry() *schema.Registry { return s.reg }

// Diag returns the diagnostics sink.
func (s *Store) Diag() *diag.Logger { return s.diag }

// Len returns the number of resources.
func (s *Store) Len() int { return len(s.order) }

// Get returns the resource with the given fully qualified id.
func (s *Store) Get(fullID string) *Resource { return s.items[fullID] }

// Resolve looks up a reference made from namespace ns.
func (s *Store) Resolve(ref, ns string) *Resource {
	return s.items[model.FullID(ns, ref)]
}

// All returns every resource in instantiation order.
func (s *Store) All() []*Resource {
	return slices.Clone(s.order)
}

// OfClass returns the resources of class or a subclass, in order.
func (s *Store) OfClass(class string) []*Resource {
	var out []*Resource
	for _, r := range s.order {
		if s.reg.IsA(r.Class, class) {
			out = append(out, r)
		}
	}
	return out
}

// Deref resolves the ids of a relationship, skipping dangling ones.
func (s *Store) Deref(r *Resource, field string) []*Resource {
	var out []*Resource
	for _, id := range r.rels[field] {
		if t := s.items[id]; t != nil {
			out = append(out, t)
		}
	}
	return out
}

// DerefOne resolves a scalar relationship.
func (s *Store) DerefOne(r *Resource, field string) *Resource {
	return s.items[r.Ref(field)]
}

// Unresolved returns the ids still on the waiting list.
func (s *Store) Unresolved() []string {
	var out []string
	for _, id := range s.waitOrder {
		if _, ok := s.waiting[id]; ok {
			out = append(out, id)
		}
	}
	return out
}

// Instantiate creates the resource described by obj and, recursively, every
// resource defined inline in its relationships. ns is the namespace of the
// enclosing resource. A resource whose fully qualified id is taken is
// reported and the existing one is returned. The error is non-nil only when
// class is not defined by the schema.
func (s *Store) Instantiate(obj model.Object, class, ns string) (*Resource, error) {
	cls, err := s.reg.Class(class)
	if err != nil {
		return nil, err
	}
	if c := model.String(obj, "class"); c != "" && c != class {
		if s.reg.IsA(c, class) {
			cls = s.reg.MustClass(c)
		} else {
			s.diag.Warn(diag.MsgUnknownClass, model.ID(obj), c)
		}
	}
	if cls.Abstract {
		s.diag.Error(diag.MsgResourceNotCreated, model.ID(obj), cls.Name)
		return nil, nil
	}

	id := model.ID(obj)
	if id == "" {
		id = model.GenID(strings.ToLower(cls.Name), s.newID())
		obj["id"] = id
		s.diag.Warn(diag.MsgNoID, cls.Name, id)
	}
	if n := model.String(obj, "namespace"); n != "" {
		ns = n
	}
	if strings.Contains(id, model.NamespaceSeparator) {
		ns, id = model.Split(id)
	}
	fullID := model.FullID(ns, id)
	if existing, ok := s.items[fullID]; ok {
		s.diag.Error(diag.MsgDuplicateResource, fullID)
		return existing, nil
	}

	kind := KindOf(cls.Name)
	kind.prepare(obj)

	r := newResource(cls, id, ns)
	r.Generated = model.Bool(obj, "generated")
	for k, v := range cls.Defaults() {
		if k != "generated" {
			r.props[k] = v
		}
	}
	s.register(r)

	for _, key := range slices.Sorted(maps.Keys(obj)) {
		if err := s.setField(r, key, obj[key]); err != nil {
			return r, err
		}
	}
	return r, nil
}

// Create instantiates a generated resource after the model tree has been
// instantiated. The caller is responsible for listing it in a group and
// synchronizing its relationships.
func (s *Store) Create(class, ns string, obj model.Object) (*Resource, error) {
	obj["generated"] = true
	return s.Instantiate(obj, class, ns)
}

func (s *Store) register(r *Resource) {
	s.items[r.FullID] = r
	s.order = append(s.order, r)
	delete(s.waiting, r.FullID)
}

func (s *Store) setField(r *Resource, key string, v any) error {
	switch key {
	case "id", "namespace", "class", "generated":
		return nil
	}
	if strings.HasPrefix(key, "_") {
		return nil
	}
	f, ok := r.schema.Field(key)
	if !ok {
		s.diag.Warn(diag.MsgUnknownField, r.FullID, key)
		return nil
	}
	if f.Kind == schema.Property {
		if !f.ReadOnly && v != nil {
			r.props[key] = model.Clone(v)
		}
		return nil
	}

	var values []any
	if arr, ok := v.([]any); ok {
		values = arr
	} else if v != nil {
		values = []any{v}
	}
	for _, item := range values {
		switch t := item.(type) {
		case string:
			if t == "" {
				continue
			}
			target := model.FullID(r.Namespace, t)
			r.link(f, target)
			if _, ok := s.items[target]; !ok {
				s.wait(target, r.FullID, key)
			}
		case map[string]any:
			child, err := s.Instantiate(t, f.Target, r.Namespace)
			if err != nil {
				return err
			}
			if child != nil {
				r.link(f, child.FullID)
			}
		default:
			s.diag.Warn(diag.MsgInvalidFieldValue, r.FullID, key)
		}
	}
	return nil
}

func (s *Store) wait(target, owner, field string) {
	if _, ok := s.waiting[target]; !ok {
		s.waitOrder = append(s.waitOrder, target)
	}
	s.waiting[target] = append(s.waiting[target], Pending{Owner: owner, Field: field})
}

// ResolveWaiting creates a generated placeholder for every reference still
// unresolved whose target class is concrete, lists it in root and reports
// all created ids in one warning. References to abstract classes are
// reported as errors and left dangling.
func (s *Store) ResolveWaiting(root *Resource) []string {
	var created []any
	var ids []string
	for _, target := range s.Unresolved() {
		pending := s.waiting[target]
		class := s.placeholderClass(pending)
		if class == "" {
			for _, p := range pending {
				s.diag.Error(diag.MsgUnresolvedReference, target, p.Owner, p.Field)
			}
			delete(s.waiting, target)
			continue
		}
		ns, id := model.Split(target)
		r, err := s.Instantiate(model.Object{"id": id, "generated": true}, class, ns)
		if err != nil || r == nil {
			s.diag.Error(diag.MsgUnresolvedReference, target)
			delete(s.waiting, target)
			continue
		}
		if root != nil {
			if key := s.collectionKey(root, class); key != "" {
				root.AddRef(key, r.FullID)
			}
		}
		created = append(created, r.FullID)
		ids = append(ids, r.FullID)
	}
	if len(created) > 0 {
		s.diag.Warn(diag.MsgAutoGeneratedResources, created...)
	}
	return ids
}

// placeholderClass picks the first concrete target class among the pending
// references.
func (s *Store) placeholderClass(pending []Pending) string {
	for _, p := range pending {
		owner := s.items[p.Owner]
		if owner == nil {
			continue
		}
		f, ok := owner.schema.Field(p.Field)
		if !ok || !f.IsRelationship() {
			continue
		}
		if cls, err := s.reg.Class(f.Target); err == nil && !cls.Abstract {
			return f.Target
		}
	}
	return ""
}

func (s *Store) collectionKey(group *Resource, class string) string {
	for _, c := range model.CollectionsOf(group.Class) {
		if s.reg.IsA(class, c.Class) && group.schema.HasField(c.Key) {
			return c.Key
		}
	}
	return ""
}

// CollectionKey returns the field of group that lists resources of class.
func (s *Store) CollectionKey(group *Resource, class string) string {
	return s.collectionKey(group, class)
}
