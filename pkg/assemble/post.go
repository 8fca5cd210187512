package assemble

import (
	"github.com/matzehuels/lyphgraph/pkg/dag"
	"github.com/matzehuels/lyphgraph/pkg/diag"
	"github.com/matzehuels/lyphgraph/pkg/expand"
	"github.com/matzehuels/lyphgraph/pkg/model"
	"github.com/matzehuels/lyphgraph/pkg/resource"
)

// mergeGroups adds the resources listed by nested groups to their parents,
// deepest groups first, and returns every group of the tree, parents first.
func mergeGroups(s *resource.Store, root *resource.Resource) []*resource.Resource {
	var groups []*resource.Resource
	seen := map[string]bool{}
	var merge func(g *resource.Resource)
	merge = func(g *resource.Resource) {
		seen[g.FullID] = true
		groups = append(groups, g)
		nested := model.NestedKey(g.Class)
		for _, child := range s.Deref(g, nested) {
			if !seen[child.FullID] {
				merge(child)
			}
			for _, c := range model.CollectionsOf(g.Class) {
				if c.Key == nested {
					continue
				}
				for _, id := range child.Refs(c.Key) {
					g.AddRef(c.Key, id)
				}
			}
		}
	}
	merge(root)
	return groups
}

// isSegment reports whether an edge is a border segment of a shape.
func isSegment(r *resource.Resource) bool {
	return r.Ref("onBorder") != ""
}

// defaultColors colors shapes and links that have no color. A resource
// inherits the color of its supertype or clone source, which is colored
// first; otherwise it takes the next palette color. Shapes and links count
// through the palette separately.
func defaultColors(s *resource.Store, palette []string) {
	var shapes, links int
	visiting := map[string]bool{}
	var color func(r *resource.Resource) string
	color = func(r *resource.Resource) string {
		if c := r.String("color"); c != "" {
			return c
		}
		var counter *int
		switch {
		case r.Kind.IsShape():
			counter = &shapes
		case r.Kind == resource.KindLink && !isSegment(r):
			counter = &links
		default:
			return ""
		}
		if visiting[r.FullID] {
			return ""
		}
		visiting[r.FullID] = true
		defer delete(visiting, r.FullID)

		for _, key := range []string{"supertype", "cloneOf"} {
			if src := s.DerefOne(r, key); src != nil && src.Kind == r.Kind {
				if c := color(src); c != "" {
					r.SetProp("color", c)
					return c
				}
			}
		}
		c := palette[*counter%len(palette)]
		*counter++
		r.SetProp("color", c)
		return c
	}
	for _, r := range s.All() {
		color(r)
	}
}

// linkLengths sets the length of every link and wire that is not a border
// segment.
func linkLengths(s *resource.Store, def float64) {
	for _, r := range s.All() {
		if !r.Kind.IsEdge() || isSegment(r) || !r.Schema().HasField("length") {
			continue
		}
		r.SetProp("length", s.EdgeLength(r, def))
	}
}

// checkChains reports chains whose level lyphs break the topology law.
func checkChains(s *resource.Store) {
	for _, c := range s.OfClass(model.ClassChain) {
		levels := s.Deref(c, "levels")
		topologies := make([]string, len(levels))
		for i, l := range levels {
			if y := s.DerefOne(l, "conveyingLyph"); y != nil {
				topologies[i] = y.String("topology")
			}
		}
		switch {
		case expand.ValidTopology(topologies):
		case len(levels) == 0:
			s.Diag().Warn(diag.MsgChainNoLevels, c.FullID)
		default:
			s.Diag().Error(diag.MsgChainInvalidTopology, c.FullID, topologies)
		}
	}
}

// hierarchies are the relations that must not loop. Relations listed
// together form one hierarchy.
var hierarchies = []struct {
	name string
	keys []string
}{
	{"supertype", []string{"supertype"}},
	{"cloneOf", []string{"cloneOf"}},
	{"containment", []string{"layerIn", "internalIn"}},
}

// checkHierarchies reports every cycle of the hierarchies.
func checkHierarchies(s *resource.Store) {
	for _, h := range hierarchies {
		g := dag.New(dag.Metadata{"relation": h.name})
		for _, r := range s.All() {
			for _, key := range h.keys {
				to := r.Ref(key)
				if to == "" || s.Get(to) == nil {
					continue
				}
				g.EnsureNode(r.FullID)
				g.EnsureNode(to)
				_ = g.AddEdge(dag.Edge{From: r.FullID, To: to, Meta: dag.Metadata{"field": key}})
			}
		}
		for _, c := range g.Cycles() {
			s.Diag().Error(diag.MsgHierarchyCycle, h.name, c.Path)
		}
	}
}
