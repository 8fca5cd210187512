package resource

import (
	"github.com/matzehuels/lyphgraph/pkg/model"
)

// ToJSON serializes r. Relationships are inlined as nested objects down to
// depth levels; deeper references, and references that would revisit a
// resource on the current path, are written as fully qualified ids. inline
// overrides the depth for the named fields at every level.
func (s *Store) ToJSON(r *Resource, depth int, inline map[string]int) model.Object {
	return s.toJSON(r, depth, inline, map[string]bool{})
}

func (s *Store) toJSON(r *Resource, depth int, inline map[string]int, path map[string]bool) model.Object {
	path[r.FullID] = true
	defer delete(path, r.FullID)

	out := model.Object{
		"id":     r.ID,
		"fullID": r.FullID,
		"class":  r.Class,
	}
	if r.Namespace != "" {
		out["namespace"] = r.Namespace
	}
	if r.Generated {
		out["generated"] = true
	}
	for k, v := range r.props {
		out[k] = model.Clone(v)
	}
	for _, name := range r.RelNames() {
		f, _ := r.schema.Field(name)
		d := depth
		if v, ok := inline[name]; ok {
			d = v
		}
		values := make([]any, 0, len(r.rels[name]))
		for _, id := range r.rels[name] {
			t := s.items[id]
			if d > 0 && t != nil && !path[id] {
				values = append(values, s.toJSON(t, d-1, inline, path))
				continue
			}
			values = append(values, id)
		}
		if f != nil && !f.Many && len(values) > 0 {
			out[name] = values[0]
			continue
		}
		out[name] = values
	}
	return out
}

// EntitiesToJSON serializes every resource of the store flatly, in
// instantiation order, with relationships as ids.
func (s *Store) EntitiesToJSON() []model.Object {
	out := make([]model.Object, 0, len(s.order))
	for _, r := range s.order {
		out = append(out, s.ToJSON(r, 0, nil))
	}
	return out
}
