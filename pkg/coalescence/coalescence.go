package coalescence

import (
	"slices"
	"strings"

	"github.com/matzehuels/lyphgraph/pkg/diag"
	"github.com/matzehuels/lyphgraph/pkg/model"
	"github.com/matzehuels/lyphgraph/pkg/resource"
)

// Topologies of a coalescence.
const (
	Embedding  = "EMBEDDING"
	Connecting = "CONNECTING"
)

// FacingAngle is the angle given to the second and later members of a
// connecting coalescence.
const FacingAngle = 180

// Expand instantiates every abstract coalescence of the store and lists the
// instances in each group that lists the abstract one.
func Expand(s *resource.Store, groups []*resource.Resource) {
	for _, co := range s.OfClass(model.ClassCoalescence) {
		if co.Ref("instanceOf") != "" || !IsAbstract(s, co) {
			continue
		}
		insts := Instances(s, co)
		for _, g := range groups {
			if !g.HasRef("coalescences", co.FullID) {
				continue
			}
			for _, inst := range insts {
				g.AddRef("coalescences", inst.FullID)
			}
		}
	}
}

// IsAbstract reports whether a member of co is a lyph template or a
// material.
func IsAbstract(s *resource.Store, co *resource.Resource) bool {
	if co.Bool("abstract") {
		return true
	}
	for _, m := range s.Deref(co, "lyphs") {
		if m.IsTemplate() || isMaterial(s, m) {
			return true
		}
	}
	return false
}

func isMaterial(s *resource.Store, r *resource.Resource) bool {
	return s.Registry().IsA(r.Class, model.ClassMaterial)
}

// Representatives returns the concrete lyphs a member stands for.
func Representatives(s *resource.Store, m *resource.Resource) []*resource.Resource {
	switch {
	case isMaterial(s, m):
		var out []*resource.Resource
		for _, l := range s.Deref(m, "generatedLyphs") {
			if !l.IsTemplate() {
				out = append(out, l)
			}
		}
		return out
	case m.IsTemplate():
		return descendants(s, m, map[string]bool{})
	default:
		return []*resource.Resource{m}
	}
}

func descendants(s *resource.Store, t *resource.Resource, seen map[string]bool) []*resource.Resource {
	var out []*resource.Resource
	for _, sub := range s.Deref(t, "subtypes") {
		if seen[sub.FullID] {
			continue
		}
		seen[sub.FullID] = true
		if !sub.IsTemplate() {
			out = append(out, sub)
		}
		out = append(out, descendants(s, sub, seen)...)
	}
	return out
}

// Tuples returns the distinct combinations of the Cartesian product of sets.
// Ids repeated within a combination are kept once, and combinations of a
// single id are dropped. Two combinations with the same ids are the same.
func Tuples(sets [][]string) [][]string {
	if len(sets) == 0 {
		return nil
	}
	product := [][]string{nil}
	for _, set := range sets {
		next := make([][]string, 0, len(product)*len(set))
		for _, prefix := range product {
			for _, id := range set {
				next = append(next, append(slices.Clone(prefix), id))
			}
		}
		product = next
	}

	var out [][]string
	seen := map[string]bool{}
	for _, tuple := range product {
		var uniq []string
		for _, id := range tuple {
			if !slices.Contains(uniq, id) {
				uniq = append(uniq, id)
			}
		}
		if len(uniq) < 2 {
			continue
		}
		key := slices.Sorted(slices.Values(uniq))
		k := strings.Join(key, "\x00")
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, uniq)
	}
	return out
}

// Instances creates the concrete coalescences of an abstract one and marks
// it abstract. Nothing is created when a member has no representatives.
// Instances that already exist are reused.
func Instances(s *resource.Store, co *resource.Resource) []*resource.Resource {
	co.SetProp("abstract", true)
	var sets [][]string
	for _, m := range s.Deref(co, "lyphs") {
		reps := Representatives(s, m)
		if len(reps) == 0 {
			s.Diag().Warn(diag.MsgCoalescenceNoInstances, co.FullID, m.FullID)
			return nil
		}
		ids := make([]string, len(reps))
		for i, r := range reps {
			ids[i] = r.FullID
		}
		sets = append(sets, ids)
	}

	var out []*resource.Resource
	for k, tuple := range Tuples(sets) {
		id := model.GenID(co.ID, k+1)
		inst := s.Get(model.FullID(co.Namespace, id))
		if inst == nil {
			obj := model.Object{"id": id}
			if t := co.String("topology"); t != "" {
				obj["topology"] = t
			}
			var err error
			inst, err = s.Create(model.ClassCoalescence, co.Namespace, obj)
			if err != nil || inst == nil {
				s.Diag().Error(diag.MsgResourceNotCreated, id, model.ClassCoalescence)
				continue
			}
			// member ids may lie outside the coalescence namespace
			inst.SetRefs("lyphs", tuple)
			inst.SetRef("instanceOf", co.FullID)
		}
		s.SyncAll(inst)
		out = append(out, inst)
	}
	return out
}

// ValidateAll validates every concrete coalescence of the store.
func ValidateAll(s *resource.Store) {
	for _, co := range s.OfClass(model.ClassCoalescence) {
		if !co.Bool("abstract") {
			Validate(s, co)
		}
	}
}

// Validate checks a concrete coalescence.
func Validate(s *resource.Store, co *resource.Resource) {
	lyphs := s.Deref(co, "lyphs")
	if len(lyphs) < 2 {
		s.Diag().Warn(diag.MsgCoalescenceTooFewLyphs, co.FullID)
	}
	if co.String("topology") == Connecting {
		for i, l := range lyphs {
			if l.Ref("conveys") == "" {
				s.Diag().Warn(diag.MsgCoalescenceNoAxis, co.FullID, l.FullID)
			}
			if i > 0 {
				l.SetProp("angle", FacingAngle)
			}
		}
	}
	for i, a := range lyphs {
		for _, b := range lyphs[i+1:] {
			if contains(s, a, b) || contains(s, b, a) {
				s.Diag().Warn(diag.MsgCoalescenceSelfReference, co.FullID, a.FullID, b.FullID)
			}
		}
	}
}

// contains reports whether inner is a layer or internal resource of outer,
// directly or through other containers.
func contains(s *resource.Store, outer, inner *resource.Resource) bool {
	seen := map[string]bool{}
	queue := []*resource.Resource{inner}
	for len(queue) > 0 {
		r := queue[0]
		queue = queue[1:]
		for _, key := range []string{"layerIn", "internalIn"} {
			p := s.DerefOne(r, key)
			if p == nil || seen[p.FullID] {
				continue
			}
			if p == outer {
				return true
			}
			seen[p.FullID] = true
			queue = append(queue, p)
		}
	}
	return false
}
