package assemble

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/lyphgraph/pkg/diag"
	"github.com/matzehuels/lyphgraph/pkg/model"
	"github.com/matzehuels/lyphgraph/pkg/resource"
)

func parse(t *testing.T, s string) model.Object {
	t.Helper()
	var obj model.Object
	require.NoError(t, json.Unmarshal([]byte(s), &obj))
	return obj
}

func assemble(t *testing.T, doc string) *Result {
	t.Helper()
	res, err := FromJSON(parse(t, doc), Options{})
	require.NoError(t, err)
	return res
}

// edges returns the links of the model that are not border segments.
func edges(res *Result) []string {
	var out []string
	for _, r := range res.Store.OfClass(model.ClassLink) {
		if !isSegment(r) {
			out = append(out, r.FullID)
		}
	}
	return out
}

func ids(rs []*resource.Resource) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.FullID
	}
	return out
}

// checkInvariants asserts identity uniqueness and bidirectional sync.
func checkInvariants(t *testing.T, res *Result) {
	t.Helper()
	seen := map[string]bool{}
	for _, r := range res.Store.All() {
		assert.False(t, seen[r.FullID], "duplicate %s", r.FullID)
		seen[r.FullID] = true
	}
	if res.Diag.Has(diag.MsgInverseConflict) {
		return
	}
	for _, r := range res.Store.All() {
		for _, f := range r.Schema().Relationships() {
			if f.Inverse == "" {
				continue
			}
			for _, target := range res.Store.Deref(r, f.Name) {
				inv, ok := target.Schema().Field(f.Inverse)
				if !ok || !inv.IsRelationship() {
					continue
				}
				if inv.Many {
					assert.True(t, target.HasRef(inv.Name, r.FullID), "%s.%s misses %s", target.FullID, inv.Name, r.FullID)
				} else {
					assert.Equal(t, r.FullID, target.Ref(inv.Name), "%s.%s", target.FullID, inv.Name)
				}
			}
		}
	}
}

func TestChainFromLyphs(t *testing.T) {
	res := assemble(t, `{"id": "g",
		"lyphs": [{"id": "lyphA"}, {"id": "lyphB"}],
		"chains": [{"id": "c1", "lyphs": ["lyphA", "lyphB"]}]}`)

	c1 := res.Store.Get("c1")
	require.NotNil(t, c1)
	assert.Equal(t, []string{"c1_lnk_1", "c1_lnk_2"}, c1.Refs("levels"))
	n, _ := c1.Int("numLevels")
	assert.Equal(t, 2, n)
	assert.Len(t, res.Store.OfClass(model.ClassNode), 3)
	assert.Len(t, edges(res), 2)

	root := res.Root
	assert.Subset(t, root.Refs("nodes"), []string{"c1_node_0", "c1_node_1", "c1_node_2"})
	assert.Subset(t, root.Refs("links"), []string{"c1_lnk_1", "c1_lnk_2"})
	assert.Equal(t, "c1_lnk_1", res.Store.Get("lyphA").Ref("conveys"))
	assert.Equal(t, "c1_node_0", res.Store.Get("c1_lnk_1").Ref("source"))
	checkInvariants(t, res)
}

func TestChainSkipped(t *testing.T) {
	res := assemble(t, `{"id": "g", "chains": [{"id": "c"}]}`)

	assert.True(t, res.Diag.Has(diag.MsgChainSkipped))
	assert.True(t, res.Diag.Has(diag.MsgChainNoLevels))
	assert.Equal(t, diag.StatusWarning, res.Diag.Status())
	assert.Empty(t, res.Root.Refs("nodes"))
	assert.Empty(t, res.Root.Refs("links"))
	assert.Empty(t, res.Root.Refs("groups"))
}

func TestHousingChainUndefined(t *testing.T) {
	res := assemble(t, `{"id": "g", "chains": [{"id": "c", "housingChain": "nope"}]}`)

	assert.True(t, res.Diag.Has(diag.MsgChainHousingChainMissing))
	assert.True(t, res.Diag.Has(diag.MsgChainNoLevels))
	assert.Empty(t, res.Store.OfClass(model.ClassNode))
	assert.Empty(t, res.Store.Get("c").Refs("levels"))
}

func TestVillusTooManyLayers(t *testing.T) {
	res := assemble(t, `{"id": "g",
		"lyphs": [{"id": "H", "layers": ["a"]}, {"id": "a"}],
		"villi": [{"id": "v", "villusOf": "H", "numLayers": 2}]}`)

	assert.True(t, res.Diag.Has(diag.MsgVillusTooManyLayers))
	assert.Nil(t, res.Store.Get("group_v"))
	assert.Empty(t, res.Root.Refs("groups"))
}

func TestSharedHousingLayer(t *testing.T) {
	res := assemble(t, `{"id": "g",
		"lyphs": [{"id": "a"}, {"id": "b"}, {"id": "d"}, {"id": "H1"}, {"id": "H2"}],
		"chains": [{"id": "c", "lyphs": ["a", "b", "d"], "housingLyphs": ["H1", "H1", "H2"]}]}`)

	s := res.Store
	assert.Nil(t, s.Get("c_node_1_clone_1"))
	require.NotNil(t, s.Get("c_node_2_clone_1"))

	node := s.Get("c_node_1")
	require.NotNil(t, node)
	assert.Equal(t, []string{model.GenID("H1", model.PrefixBorder, model.BorderRadial2)}, node.Refs("hostedBy"))

	link := s.Get("c_node_2_clone_1_lnk")
	require.NotNil(t, link)
	assert.True(t, link.Bool("collapsible"))
	l, _ := link.Float("length")
	assert.Zero(t, l)
	assert.False(t, resource.IsVisible(link))

	co := s.Get("coalescence_H1_a")
	require.NotNil(t, co)
	assert.Contains(t, res.Root.Refs("coalescences"), co.FullID)
	checkInvariants(t, res)
}

func TestTemplateChainTopology(t *testing.T) {
	res := assemble(t, `{"id": "g",
		"lyphs": [{"id": "T", "isTemplate": true, "topology": "BAG", "layers": ["w"]}, {"id": "w"}],
		"chains": [{"id": "c", "numLevels": 3, "lyphTemplate": "T"}]}`)

	s := res.Store
	last := s.Get("c_lyph_3")
	require.NotNil(t, last)
	assert.Equal(t, model.TopologyBag, last.String("topology"))
	assert.Equal(t, "T", last.Ref("supertype"))
	assert.Len(t, last.Refs("layers"), 1)
	assert.False(t, res.Diag.Has(diag.MsgChainInvalidTopology))
	checkInvariants(t, res)
}

func TestInvalidChainTopology(t *testing.T) {
	res := assemble(t, `{"id": "g",
		"lyphs": [{"id": "a", "topology": "TUBE"}, {"id": "b", "topology": "BAG"}, {"id": "d", "topology": "TUBE"}],
		"chains": [{"id": "c", "lyphs": ["a", "b", "d"]}]}`)

	assert.True(t, res.Diag.Has(diag.MsgChainInvalidTopology))
	assert.Equal(t, diag.StatusError, res.Diag.Status())
}

func TestAbstractCoalescence(t *testing.T) {
	res := assemble(t, `{"id": "g",
		"lyphs": [{"id": "T", "isTemplate": true}, {"id": "a", "supertype": "T"},
			{"id": "b", "supertype": "T"}, {"id": "c"}],
		"groups": [{"id": "sub", "coalescences": [{"id": "co", "lyphs": ["T", "c"]}]}]}`)

	co := res.Store.Get("co")
	require.NotNil(t, co)
	assert.True(t, co.Bool("abstract"))
	assert.Len(t, co.Refs("instances"), 2)
	assert.Subset(t, res.Store.Get("sub").Refs("coalescences"), co.Refs("instances"))
	assert.Subset(t, res.Root.Refs("coalescences"), co.Refs("instances"))
	checkInvariants(t, res)
}

func TestMergeGroups(t *testing.T) {
	res := assemble(t, `{"id": "g", "nodes": [{"id": "n0"}],
		"groups": [{"id": "a", "nodes": [{"id": "n1"}],
			"groups": [{"id": "b", "nodes": [{"id": "n2"}, "n1"]}]}]}`)

	assert.Equal(t, []string{"n0", "n1", "n2"}, res.Root.Refs("nodes"))
	assert.Equal(t, []string{"n1", "n2"}, res.Store.Get("a").Refs("nodes"))
	assert.Equal(t, []string{"g", "a", "b"}, ids(res.Groups()))
}

func TestDefaultColors(t *testing.T) {
	res := assemble(t, `{"id": "g",
		"lyphs": [{"id": "s", "supertype": "T"}, {"id": "T", "isTemplate": true},
			{"id": "red", "color": "#ff0000"}, {"id": "c", "cloneOf": "red"}],
		"links": [{"id": "l"}]}`)

	s := res.Store
	palette := resource.DefaultPalette
	assert.Equal(t, palette[0], s.Get("T").String("color"))
	assert.Equal(t, palette[0], s.Get("s").String("color"))
	assert.Equal(t, "#ff0000", s.Get("c").String("color"))
	assert.Equal(t, palette[0], s.Get("l").String("color"))
	assert.Empty(t, s.Get(model.GenID("s", model.PrefixBorder, 0)).String("color"))
}

func TestLinkLengths(t *testing.T) {
	res := assemble(t, `{"id": "g",
		"nodes": [{"id": "a", "fixed": true, "layout": {"x": 0, "y": 0}},
			{"id": "b", "fixed": true, "layout": {"x": 3, "y": 4}}, {"id": "c"}],
		"links": [{"id": "fixed", "source": "a", "target": "b"},
			{"id": "declared", "source": "a", "target": "c", "length": 7},
			{"id": "free", "source": "b", "target": "c"}]}`)

	tests := []struct {
		link string
		want float64
	}{
		{"fixed", 5},
		{"declared", 7},
		{"free", resource.DefaultLinkLength},
	}
	for _, tt := range tests {
		t.Run(tt.link, func(t *testing.T) {
			got, ok := res.Store.Get(tt.link).Float("length")
			require.True(t, ok)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestHierarchyCycle(t *testing.T) {
	res := assemble(t, `{"id": "g",
		"lyphs": [{"id": "a", "supertype": "b"}, {"id": "b", "supertype": "a"}]}`)

	assert.True(t, res.Diag.Has(diag.MsgHierarchyCycle))
}

func TestUnresolvedReference(t *testing.T) {
	res := assemble(t, `{"id": "g", "links": [{"id": "l", "source": "ghost"}]}`)

	ghost := res.Store.Get("ghost")
	require.NotNil(t, ghost)
	assert.True(t, ghost.Generated)
	assert.Equal(t, model.ClassNode, ghost.Class)
	assert.Contains(t, res.Root.Refs("nodes"), "ghost")
	assert.True(t, res.Diag.Has(diag.MsgAutoGeneratedResources))
}

func TestDeterministic(t *testing.T) {
	doc := parse(t, `{"id": "g",
		"lyphs": [{"id": "T", "isTemplate": true, "layers": ["w1", "w2"]}, {"id": "w1"}, {"id": "w2"}],
		"chains": [{"id": "c", "numLevels": 2, "lyphTemplate": "T"}],
		"trees": [{"id": "t", "numLevels": 2, "lyphTemplate": "T", "branchingFactors": [2]}]}`)
	before, err := json.Marshal(doc)
	require.NoError(t, err)

	first, err := FromJSON(doc, Options{})
	require.NoError(t, err)
	second, err := FromJSON(doc, Options{})
	require.NoError(t, err)

	after, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.JSONEq(t, string(before), string(after), "input document modified")

	a, err := json.Marshal(first.Entities())
	require.NoError(t, err)
	b, err := json.Marshal(second.Entities())
	require.NoError(t, err)
	assert.JSONEq(t, string(a), string(b))
	checkInvariants(t, first)
}

func TestTreeBudget(t *testing.T) {
	res, err := FromJSON(parse(t, `{"id": "g",
		"lyphs": [{"id": "T", "isTemplate": true}],
		"trees": [{"id": "t", "numLevels": 4, "lyphTemplate": "T", "branchingFactors": [10, 10, 10, 10]}]}`),
		Options{MaxGenerated: 100})
	require.NoError(t, err)

	assert.True(t, res.Diag.Has(diag.MsgTreeBudgetExceeded))
	assert.Empty(t, res.Store.Get("t").Refs("instances"))
}

func TestScaffold(t *testing.T) {
	res := assemble(t, `{"id": "s",
		"anchors": [{"id": "a1"}, {"id": "a2"}],
		"wires": [{"id": "w", "source": "a1", "target": "a2"}],
		"components": [{"id": "comp", "regions": [{"id": "r",
			"points": [{"x": 0, "y": 0}, {"x": 1, "y": 0}, {"x": 0, "y": 1}],
			"facets": ["w"]}]}]}`)

	assert.Equal(t, model.ClassScaffold, res.Class)
	assert.True(t, res.Diag.Has(diag.MsgRegionFacetsIgnored))
	assert.Contains(t, res.Root.Refs("regions"), "r")
	assert.NotEmpty(t, res.Store.Get("r").String("color"))
}

func TestFromJSONEmpty(t *testing.T) {
	_, err := FromJSON(nil, Options{})
	require.Error(t, err)
}

func TestJSON(t *testing.T) {
	res := assemble(t, `{"id": "g", "lyphs": [{"id": "a"}, {"id": "b"}],
		"chains": [{"id": "c", "lyphs": ["a", "b"]}]}`)

	out := res.JSON()
	assert.Equal(t, "g", out["id"])
	groups, ok := out["groups"].([]any)
	require.True(t, ok)
	require.Len(t, groups, 1)
	assert.Equal(t, "group_c", groups[0].(model.Object)["id"])
	_, err := json.Marshal(out)
	require.NoError(t, err)

	st := res.Stats()
	assert.Equal(t, 3, st.ByClass[model.ClassNode])
	assert.Equal(t, res.Store.Len(), st.Resources)
	assert.Equal(t, diag.StatusOK, st.Status)
}
