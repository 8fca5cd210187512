package resource

import (
	"github.com/matzehuels/lyphgraph/pkg/diag"
	"github.com/matzehuels/lyphgraph/pkg/schema"
)

// Sync writes the inverse of every relationship of every resource.
//
// List-valued inverses receive the owner if absent. Scalar inverses are set
// if empty; a different existing value is reported and replaced.
func (s *Store) Sync() {
	for _, r := range s.All() {
		for _, f := range r.schema.Relationships() {
			if len(r.rels[f.Name]) > 0 {
				s.syncField(r, f)
			}
		}
	}
}

// SyncFields synchronizes the named relationships of r only.
func (s *Store) SyncFields(r *Resource, names ...string) {
	for _, name := range names {
		if f, ok := r.schema.Field(name); ok && f.IsRelationship() {
			s.syncField(r, f)
		}
	}
}

// SyncAll synchronizes every relationship of r.
func (s *Store) SyncAll(r *Resource) {
	for _, f := range r.schema.Relationships() {
		s.syncField(r, f)
	}
}

func (s *Store) syncField(r *Resource, f *schema.Field) {
	if f.Inverse == "" {
		return
	}
	for _, id := range r.Refs(f.Name) {
		t := s.items[id]
		if t == nil {
			continue
		}
		inv, ok := t.schema.Field(f.Inverse)
		if !ok || !inv.IsRelationship() {
			key := t.Class + "." + f.Inverse
			if !s.missingInverse[key] {
				s.missingInverse[key] = true
				s.diag.Warn(diag.MsgMissingInverse, t.Class, f.Inverse, r.FullID, f.Name)
			}
			continue
		}
		if inv.Many {
			t.AddRef(inv.Name, r.FullID)
			continue
		}
		switch cur := t.Ref(inv.Name); cur {
		case "":
			t.SetRef(inv.Name, r.FullID)
		case r.FullID:
		default:
			s.diag.Warn(diag.MsgInverseConflict, t.FullID, inv.Name, cur, r.FullID)
			t.SetRef(inv.Name, r.FullID)
		}
	}
}
