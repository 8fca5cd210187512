package diag

// Messages recorded by the assembly engine. Consumers match on these strings,
// so they are part of the public surface.
const (
	// Schema and input
	MsgSchemaViolation     = "Model does not match the schema"
	MsgUnknownClass        = "Resource class is not defined in the schema"
	MsgUnknownField        = "Unknown field is ignored"
	MsgNoID                = "Resource has no identifier, a placeholder id was generated"
	MsgDuplicateResource   = "Resource with the same fully qualified id is already defined"
	MsgResourceNotCreated  = "Failed to create resource"
	MsgInvalidFieldValue   = "Field value has an unexpected type"
	MsgRegionFacetsIgnored = "Region defined by points, facets and border anchors are ignored"

	// References
	MsgAutoGeneratedResources = "Resources were generated for unresolved references"
	MsgUnresolvedReference    = "Reference cannot be resolved"
	MsgMissingInverse         = "Related class has no inverse field"
	MsgInverseConflict        = "Scalar relationship is assigned twice, the last value wins"
	MsgHierarchyCycle         = "Hierarchy contains a cycle"

	// Directives
	MsgInvalidPath        = "Path expression cannot be parsed"
	MsgEmptyPathResult    = "Path expression matched nothing"
	MsgInvalidColorScheme = "Color scheme is not known"

	// Chains
	MsgChainSkipped              = "Chain has no lyphs, levels, housing lyphs or template and is skipped"
	MsgChainLyphsAndLevels       = "Chain defines both lyphs and levels, levels are ignored"
	MsgChainHousingConflict      = "Chain defines both housing chain and housing lyphs, housing chain is ignored"
	MsgChainLevelsPadded         = "Chain levels are extended to the number of levels"
	MsgChainNumLevelsCorrected   = "Chain has more levels than numLevels, numLevels is corrected"
	MsgChainMaterialsDiffer      = "Lyphs in a chain convey different materials"
	MsgChainNodeConflict         = "Existing link endpoint conflicts with the chain node"
	MsgChainInvalidTopology      = "Chain levels have an invalid topology sequence"
	MsgChainHousingLayerConflict = "Housing layer conflicts with a layer bundling the chain"
	MsgChainNoHousingLayer       = "Housing lyph has no layer with the requested index"
	MsgChainHousingMissing       = "Housing lyph is not defined"
	MsgChainHousingChainMissing  = "Housing chain is not defined or is the chain itself"
	MsgChainNoLevels             = "Chain has no levels"
	MsgChainTemplateMissing      = "Chain lyph template is not defined"
	MsgChainNoDescendants        = "Housing lyph template has no concrete descendants"

	// Lyph templates
	MsgTemplateMissing = "Lyph template is not defined"

	// Villi
	MsgVillusTooManyLayers = "Villus has more layers than its host lyph and is skipped"
	MsgVillusNoHost        = "Villus has no host lyph and is skipped"

	// Channels
	MsgChannelNoLayers       = "Channel housing lyph must have at least three layers"
	MsgChannelNotMembrane    = "Second layer of a channel housing lyph is not a membrane"
	MsgChannelNoHousing      = "Channel has no housing lyphs"
	MsgChannelHousingNotLyph = "Channel housing lyph is not defined"

	// Trees
	MsgTreeNoChain        = "Tree has no chain and no lyph template and is skipped"
	MsgTreeBudgetExceeded = "Tree generates too many resources, its instances are discarded"

	// Coalescences
	MsgCoalescenceNoInstances   = "Abstract coalescence member has no concrete representatives"
	MsgCoalescenceNoAxis        = "Lyph in a connecting coalescence has no axis"
	MsgCoalescenceSelfReference = "Coalescing lyphs are layers or containers of each other"
	MsgCoalescenceTooFewLyphs   = "Coalescence needs at least two lyphs"

	// Assembly
	MsgGroupTemplateSkipped = "Group template expansion failed"
	MsgNodeReplicated       = "Shared node is replicated"
	MsgInternalLayerMissing = "Internal resource refers to a layer that does not exist"

	// Tables
	MsgUnknownSheet  = "Sheet does not name a resource collection and is ignored"
	MsgUnknownColumn = "Column does not name a field and is ignored"
	MsgInvalidCell   = "Cell value cannot be converted to the field type"
)
