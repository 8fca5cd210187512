package assemble

import "github.com/matzehuels/lyphgraph/pkg/expand"

// Phase is one expansion step over the model document.
type Phase struct {
	Name string
	Run  func(c *expand.Context)
}

// GraphPhases expand a connectivity model. Later phases rely on the
// resources generated by earlier ones.
var GraphPhases = []Phase{
	{"regions", (*expand.Context).StripRegionFacets},
	{"template-refs", (*expand.Context).ReplaceTemplateRefs},
	{"group-templates", func(c *expand.Context) {
		c.PrepareTrees()
		c.ExpandChains()
		c.ExpandChannels()
	}},
	{"lyph-templates", (*expand.Context).ExpandLyphTemplates},
	{"villi", (*expand.Context).ExpandVilli},
	{"housing", (*expand.Context).EmbedChains},
	{"instances", func(c *expand.Context) {
		c.TreeInstances()
		c.ChannelInstances()
	}},
	{"border-nodes", (*expand.Context).ReplicateBorderNodes},
	{"internal-layers", (*expand.Context).RemapInternalLayers},
}

// ScaffoldPhases expand a scaffold model.
var ScaffoldPhases = []Phase{
	{"regions", (*expand.Context).StripRegionFacets},
}
