package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/lyphgraph/pkg/errors"
)

func TestDefaultRegistryLoads(t *testing.T) {
	reg := Default()
	for _, name := range []string{"Resource", "Lyph", "Node", "Link", "Chain", "Tree", "Channel",
		"Villus", "Coalescence", "Group", "Graph", "Scaffold", "Component", "Anchor", "Wire", "Region", "Border", "Material"} {
		assert.True(t, reg.Has(name), "missing class %s", name)
	}
	assert.False(t, reg.Has("LyphScheme"))
	assert.False(t, reg.Has("PointScheme"))
}

func TestUnknownClass(t *testing.T) {
	_, err := Default().Class("Lymph")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeUnknownClass))
	assert.Panics(t, func() { Default().MustClass("Lymph") })
}

func TestRelationshipDescriptors(t *testing.T) {
	reg := Default()
	tests := []struct {
		class, field string
		target       string
		many         bool
		inverse      string
	}{
		{"Lyph", "layers", "Lyph", true, "layerIn"},
		{"Lyph", "layerIn", "Lyph", false, "layers"},
		{"Lyph", "supertype", "Lyph", false, "subtypes"},
		{"Lyph", "conveys", "Link", false, "conveyingLyph"},
		{"Lyph", "border", "Border", false, "host"},
		{"Link", "source", "Node", false, "sourceOf"},
		{"Link", "conveyingMaterials", "Material", true, "conveyedBy"},
		{"Chain", "lyphs", "Lyph", true, ""},
		{"Chain", "lyphTemplate", "Lyph", false, ""},
		{"Chain", "group", "Group", false, "expandedFrom"},
		{"Group", "nodes", "Node", true, ""},
		{"Wire", "source", "Anchor", false, "sourceOf"},
		{"Material", "external", "External", true, "externalTo"},
	}

	for _, tt := range tests {
		t.Run(tt.class+"."+tt.field, func(t *testing.T) {
			f, ok := reg.MustClass(tt.class).Field(tt.field)
			require.True(t, ok)
			assert.Equal(t, Relationship, f.Kind)
			assert.True(t, f.IsRelationship())
			assert.Equal(t, tt.target, f.Target)
			assert.Equal(t, tt.many, f.Many)
			assert.Equal(t, tt.inverse, f.Inverse)
		})
	}
}

func TestPropertyDescriptors(t *testing.T) {
	reg := Default()
	tests := []struct {
		class, field string
		typ          string
	}{
		{"Lyph", "topology", "string"},
		{"Lyph", "isTemplate", "boolean"},
		{"Chain", "numLevels", "integer"},
		{"Chain", "housingLayers", "array"},
		{"Node", "layout", "object"},
		{"Resource", "name", "string"},
		{"Link", "length", "number"},
	}

	for _, tt := range tests {
		t.Run(tt.class+"."+tt.field, func(t *testing.T) {
			f, ok := reg.MustClass(tt.class).Field(tt.field)
			require.True(t, ok)
			assert.Equal(t, Property, f.Kind)
			assert.Equal(t, tt.typ, f.Type)
		})
	}

	f, _ := reg.MustClass("Chain").Field("housingLayers")
	assert.Equal(t, "integer", f.ItemType)
}

func TestInheritance(t *testing.T) {
	reg := Default()
	lyph := reg.MustClass("Lyph")

	// Inherited from Resource, VisualResource and Shape.
	for _, name := range []string{"id", "namespace", "fullID", "color", "border", "external"} {
		assert.True(t, lyph.HasField(name), "Lyph should inherit %s", name)
	}

	seen := map[string]int{}
	for _, f := range lyph.Fields() {
		seen[f.Name]++
	}
	for name, n := range seen {
		assert.Equal(t, 1, n, "field %s listed %d times", name, n)
	}

	assert.Equal(t, "Shape", lyph.Parent)
	assert.True(t, reg.IsA("Lyph", "Shape"))
	assert.True(t, reg.IsA("Lyph", "Resource"))
	assert.True(t, reg.IsA("Graph", "Group"))
	assert.False(t, reg.IsA("Node", "Edge"))
	assert.True(t, reg.MustClass("Shape").Abstract)
	assert.False(t, lyph.Abstract)
}

func TestDescendants(t *testing.T) {
	got := Default().Descendants("Shape")
	assert.Equal(t, []string{"Lyph", "Region"}, got)
	assert.ElementsMatch(t, []string{"Chain", "Channel", "Tree", "Villus"}, Default().Descendants("GroupTemplate"))
}

func TestDefaults(t *testing.T) {
	reg := Default()

	d := reg.MustClass("Coalescence").Defaults()
	assert.Equal(t, "EMBEDDING", d["topology"])
	assert.Equal(t, false, d["generated"])

	tree := reg.MustClass("Tree").Defaults()
	assert.EqualValues(t, 1, tree["numInstances"])

	link := reg.MustClass("Link").Defaults()
	assert.Equal(t, "link", link["geometry"])
}

func TestReadOnly(t *testing.T) {
	f, _ := Default().MustClass("Lyph").Field("fullID")
	assert.True(t, f.ReadOnly)
	f, _ = Default().MustClass("Lyph").Field("housedChains")
	assert.True(t, f.ReadOnly)
	assert.True(t, f.IsRelationship())
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not json", `{`},
		{"no resource", `{"definitions": {"A": {"type": "object"}}}`},
		{"dangling relatedTo", `{"definitions": {
			"Resource": {"type": "object", "properties": {"x": {"type": "string", "relatedTo": "y"}}}}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load([]byte(tt.doc))
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrCodeSchema))
		})
	}
}

func TestInverseFieldsExist(t *testing.T) {
	reg := Default()
	for _, name := range reg.Classes() {
		for _, f := range reg.MustClass(name).Relationships() {
			if f.Inverse == "" {
				continue
			}
			target := reg.MustClass(f.Target)
			inv, ok := target.Field(f.Inverse)
			if !assert.True(t, ok, "%s.%s: %s has no field %s", name, f.Name, f.Target, f.Inverse) {
				continue
			}
			assert.True(t, inv.IsRelationship(), "%s.%s must be a relationship", f.Target, f.Inverse)
		}
	}
}

func TestAbstractTargetsDeclareInverse(t *testing.T) {
	reg := Default()
	tests := []struct {
		class, field, target string
	}{
		{"Group", "instanceOf", "GroupTemplate"},
		{"Material", "materialIn", "VisualResource"},
	}
	for _, tt := range tests {
		t.Run(tt.class+"."+tt.field, func(t *testing.T) {
			f, ok := reg.MustClass(tt.class).Field(tt.field)
			require.True(t, ok)
			assert.Equal(t, tt.target, f.Target)
			inv, ok := reg.MustClass(tt.target).Field(f.Inverse)
			require.True(t, ok, "%s has no field %s", tt.target, f.Inverse)
			assert.True(t, inv.Many)
		})
	}
	for _, class := range []string{"Tree", "Channel", "Villus"} {
		assert.True(t, reg.MustClass(class).HasField("instances"), class)
	}
	for _, class := range []string{"Lyph", "Material"} {
		assert.True(t, reg.MustClass(class).HasField("materials"), class)
	}
}
