package coalescence

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/lyphgraph/pkg/diag"
	"github.com/matzehuels/lyphgraph/pkg/model"
	"github.com/matzehuels/lyphgraph/pkg/resource"
	"github.com/matzehuels/lyphgraph/pkg/schema"
)

func build(t *testing.T, doc string) (*resource.Store, *resource.Resource) {
	t.Helper()
	var obj model.Object
	require.NoError(t, json.Unmarshal([]byte(doc), &obj))
	s := resource.NewStore(schema.Default(), diag.New())
	root, err := s.Instantiate(obj, model.ClassGraph, "")
	require.NoError(t, err)
	s.ResolveWaiting(root)
	s.Sync()
	return s, root
}

func TestTuples(t *testing.T) {
	tests := []struct {
		name string
		sets [][]string
		want [][]string
	}{
		{"empty", nil, nil},
		{"single member", [][]string{{"a", "b"}}, nil},
		{"product", [][]string{{"a", "b"}, {"c"}}, [][]string{{"a", "c"}, {"b", "c"}}},
		{"shared lyph", [][]string{{"a", "b"}, {"a", "c"}}, [][]string{{"a", "c"}, {"b", "a"}, {"b", "c"}}},
		{"same set", [][]string{{"a", "b"}, {"a", "b"}}, [][]string{{"a", "b"}}},
		{"all singletons", [][]string{{"a"}, {"a"}}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Tuples(tt.sets))
		})
	}
}

func TestExpandTemplate(t *testing.T) {
	s, root := build(t, `{"id": "g",
		"lyphs": [{"id": "T", "isTemplate": true}, {"id": "a", "supertype": "T"},
			{"id": "b", "supertype": "T"}, {"id": "c"}],
		"coalescences": [{"id": "co", "lyphs": ["T", "c"]}]}`)

	Expand(s, []*resource.Resource{root})

	co := s.Get("co")
	assert.True(t, co.Bool("abstract"))
	assert.Equal(t, []string{"co_1", "co_2"}, co.Refs("instances"))
	assert.Equal(t, []string{"a", "c"}, s.Get("co_1").Refs("lyphs"))
	assert.Equal(t, []string{"b", "c"}, s.Get("co_2").Refs("lyphs"))
	assert.Equal(t, "co", s.Get("co_1").Ref("instanceOf"))
	assert.True(t, s.Get("co_1").Generated)
	assert.True(t, s.Get("a").HasRef("coalescences", "co_1"))
	assert.Equal(t, []string{"co", "co_1", "co_2"}, root.Refs("coalescences"))

	// running again reuses the instances
	n := s.Len()
	Expand(s, []*resource.Resource{root})
	assert.Equal(t, n, s.Len())
	assert.False(t, s.Diag().Has(diag.MsgDuplicateResource))
}

func TestExpandMaterial(t *testing.T) {
	s, root := build(t, `{"id": "g",
		"materials": [{"id": "m"}],
		"lyphs": [{"id": "a", "generatedFrom": "m"}, {"id": "b", "generatedFrom": "m"}],
		"coalescences": [{"id": "co", "lyphs": ["m", "m"]}]}`)

	Expand(s, []*resource.Resource{root})
	assert.Equal(t, []string{"co_1"}, s.Get("co").Refs("instances"))
	assert.ElementsMatch(t, []string{"a", "b"}, s.Get("co_1").Refs("lyphs"))
}

func TestExpandNoRepresentatives(t *testing.T) {
	s, root := build(t, `{"id": "g",
		"lyphs": [{"id": "T", "isTemplate": true}, {"id": "c"}],
		"coalescences": [{"id": "co", "lyphs": ["T", "c"]}]}`)

	Expand(s, []*resource.Resource{root})
	assert.Empty(t, s.Get("co").Refs("instances"))
	assert.True(t, s.Diag().Has(diag.MsgCoalescenceNoInstances))

	ValidateAll(s)
	assert.False(t, s.Diag().Has(diag.MsgCoalescenceTooFewLyphs))
}

func TestValidate(t *testing.T) {
	s, _ := build(t, `{"id": "g",
		"links": [{"id": "l", "conveyingLyph": "a"}],
		"lyphs": [{"id": "a"}, {"id": "b", "layers": ["b1"]}, {"id": "b1"}, {"id": "c"}],
		"coalescences": [
			{"id": "connect", "topology": "CONNECTING", "lyphs": ["a", "c"]},
			{"id": "self", "lyphs": ["b", "b1"]},
			{"id": "lonely", "lyphs": ["a"]}]}`)

	ValidateAll(s)

	d := s.Diag()
	assert.True(t, d.Has(diag.MsgCoalescenceNoAxis))
	assert.True(t, d.Has(diag.MsgCoalescenceSelfReference))
	assert.True(t, d.Has(diag.MsgCoalescenceTooFewLyphs))
	assert.Equal(t, FacingAngle, s.Get("c").Prop("angle"))
	assert.Nil(t, s.Get("a").Prop("angle"))
}

func TestContainsNested(t *testing.T) {
	s, _ := build(t, `{"id": "g",
		"lyphs": [{"id": "outer", "layers": ["layer"]}, {"id": "layer", "internalLyphs": ["inner"]},
			{"id": "inner"}]}`)

	assert.True(t, contains(s, s.Get("outer"), s.Get("inner")))
	assert.False(t, contains(s, s.Get("inner"), s.Get("outer")))
}
