package resource

import (
	"maps"
	"slices"

	"github.com/ohler55/ojg/jp"

	"github.com/matzehuels/lyphgraph/pkg/diag"
	"github.com/matzehuels/lyphgraph/pkg/model"
)

// DirectiveDepth is how deep a resource subtree is serialized before path
// expressions are evaluated against it.
const DirectiveDepth = 3

// ApplyDirectives runs the assign and interpolate directives of every
// resource, in instantiation order.
func (s *Store) ApplyDirectives() {
	for _, r := range s.All() {
		if r.HasProp("assign") {
			s.Assign(r)
		}
		if r.HasProp("interpolate") {
			s.Interpolate(r)
		}
	}
}

// query evaluates a JSONPath expression over the serialized subtree of r.
func (s *Store) query(r *Resource, path string) ([]any, bool) {
	x, err := jp.ParseString(path)
	if err != nil {
		s.diag.Error(diag.MsgInvalidPath, r.FullID, path, err.Error())
		return nil, false
	}
	data := map[string]any(s.ToJSON(r, DirectiveDepth, nil))
	matches := x.Get(data)
	if len(matches) == 0 {
		s.diag.Warn(diag.MsgEmptyPathResult, r.FullID, path)
	}
	return matches, true
}

// resourceOf maps a match back to the resource it was serialized from.
func (s *Store) resourceOf(v any, ns string) *Resource {
	switch t := v.(type) {
	case map[string]any:
		if id := model.String(t, "fullID"); id != "" {
			return s.items[id]
		}
	case string:
		if r := s.items[t]; r != nil {
			return r
		}
		return s.Resolve(t, ns)
	}
	return nil
}

// flatten collects the resources of a match set, descending into arrays.
func (s *Store) flatten(matches []any, ns string) []*Resource {
	var out []*Resource
	for _, m := range matches {
		if arr, ok := m.([]any); ok {
			out = append(out, s.flatten(arr, ns)...)
			continue
		}
		if r := s.resourceOf(m, ns); r != nil {
			out = append(out, r)
		}
	}
	return out
}

func directiveSpecs(r *Resource, key string) []model.Object {
	var items []any
	switch v := r.Prop(key).(type) {
	case []any:
		items = v
	case map[string]any:
		items = []any{v}
	}
	var out []model.Object
	for _, v := range items {
		if m, ok := v.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

// Assign merges each assign directive's value onto every resource matched
// by its path. References are rewritten to fully qualified ids first; the
// touched relationships are synchronized afterwards.
func (s *Store) Assign(r *Resource) {
	for _, spec := range directiveSpecs(r, "assign") {
		matches, ok := s.query(r, model.String(spec, "path"))
		if !ok {
			continue
		}
		value := model.Map(spec, "value")
		if value == nil {
			continue
		}
		for _, t := range s.flatten(matches, r.Namespace) {
			s.assignValue(t, value)
		}
	}
}

func (s *Store) assignValue(t *Resource, value model.Object) {
	var touched []string
	for _, key := range slices.Sorted(maps.Keys(value)) {
		f, ok := t.schema.Field(key)
		if !ok {
			s.diag.Warn(diag.MsgUnknownField, t.FullID, key)
			continue
		}
		if !f.IsRelationship() {
			t.props[key] = model.Clone(value[key])
			continue
		}
		for _, id := range model.Refs(value, key) {
			t.link(f, model.FullID(t.Namespace, id))
		}
		touched = append(touched, key)
	}
	s.SyncFields(t, touched...)
}

// Interpolate spreads offsets and colors over ordered match sets. Nested
// arrays in the match set are interpolated independently.
func (s *Store) Interpolate(r *Resource) {
	for _, spec := range directiveSpecs(r, "interpolate") {
		matches, ok := s.query(r, model.String(spec, "path"))
		if !ok {
			continue
		}
		s.interpolate(r, matches, spec)
	}
}

func (s *Store) interpolate(owner *Resource, matches []any, spec model.Object) {
	var set []*Resource
	for _, m := range matches {
		if arr, ok := m.([]any); ok {
			s.interpolate(owner, arr, spec)
			continue
		}
		if t := s.resourceOf(m, owner.Namespace); t != nil {
			set = append(set, t)
		}
	}
	if len(set) == 0 {
		return
	}
	if offset := model.Map(spec, "offset"); offset != nil {
		for i, v := range Offsets(len(set), offset) {
			if set[i].schema.HasField("offset") {
				set[i].props["offset"] = v
			} else {
				s.diag.Warn(diag.MsgUnknownField, set[i].FullID, "offset")
			}
		}
	}
	if color := model.Map(spec, "color"); color != nil {
		colors, ok := ColorRamp(len(set), color)
		if !ok {
			s.diag.Warn(diag.MsgInvalidColorScheme, owner.FullID, model.String(color, "scheme"))
			return
		}
		for i, c := range colors {
			set[i].props["color"] = c
		}
	}
}

// Offsets returns n positions spread over [start, end]. With a step the
// positions are start, start+step, ...; otherwise they divide the interval
// into n+1 equal parts, excluding the ends.
func Offsets(n int, spec model.Object) []float64 {
	start, ok := model.Float(spec, "start")
	if !ok {
		start = 0
	}
	end, ok := model.Float(spec, "end")
	if !ok {
		end = 1
	}
	out := make([]float64, n)
	if step, ok := model.Float(spec, "step"); ok {
		for i := range out {
			out[i] = start + float64(i)*step
		}
		return out
	}
	delta := (end - start) / float64(n+1)
	for i := range out {
		out[i] = start + float64(i+1)*delta
	}
	return out
}
