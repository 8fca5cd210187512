package model

// Class names used by the engine.
const (
	ClassResource    = "Resource"
	ClassExternal    = "External"
	ClassMaterial    = "Material"
	ClassLyph        = "Lyph"
	ClassRegion      = "Region"
	ClassBorder      = "Border"
	ClassNode        = "Node"
	ClassAnchor      = "Anchor"
	ClassLink        = "Link"
	ClassWire        = "Wire"
	ClassChain       = "Chain"
	ClassTree        = "Tree"
	ClassChannel     = "Channel"
	ClassVillus      = "Villus"
	ClassCoalescence = "Coalescence"
	ClassGroup       = "Group"
	ClassGraph       = "Graph"
	ClassComponent   = "Component"
	ClassScaffold    = "Scaffold"
)

// Collection binds a group field to the class of the resources it lists.
type Collection struct {
	Key   string
	Class string
}

// GroupCollections are the resource lists of a Group, in expansion order.
var GroupCollections = []Collection{
	{"nodes", ClassNode},
	{"links", ClassLink},
	{"lyphs", ClassLyph},
	{"materials", ClassMaterial},
	{"chains", ClassChain},
	{"trees", ClassTree},
	{"channels", ClassChannel},
	{"villi", ClassVillus},
	{"coalescences", ClassCoalescence},
	{"groups", ClassGroup},
}

// ComponentCollections are the resource lists of a Component.
var ComponentCollections = []Collection{
	{"anchors", ClassAnchor},
	{"wires", ClassWire},
	{"regions", ClassRegion},
	{"components", ClassComponent},
}

// CollectionsOf returns the collections of a group-like class.
func CollectionsOf(class string) []Collection {
	switch class {
	case ClassComponent, ClassScaffold:
		return ComponentCollections
	default:
		return GroupCollections
	}
}

// NestedKey returns the collection holding nested groups for a group-like class.
func NestedKey(class string) string {
	switch class {
	case ClassComponent, ClassScaffold:
		return "components"
	default:
		return "groups"
	}
}

// CollectionKey returns the group field that lists resources of class,
// searching both group and component collections. The class must match
// exactly; callers resolve subclasses first.
func CollectionKey(class string) string {
	for _, c := range GroupCollections {
		if c.Class == class {
			return c.Key
		}
	}
	for _, c := range ComponentCollections {
		if c.Class == class {
			return c.Key
		}
	}
	switch class {
	case ClassGraph:
		return "groups"
	case ClassScaffold:
		return "components"
	}
	return ""
}

// Lyph topologies.
const (
	TopologyTube    = "TUBE"
	TopologyBag     = "BAG"
	TopologyBag2    = "BAG2"
	TopologyBagMin  = "BAG-"
	TopologyBagPlus = "BAG+"
	TopologyCyst    = "CYST"
)

// Coalescence topologies.
const (
	CoalescenceEmbedding  = "EMBEDDING"
	CoalescenceConnecting = "CONNECTING"
)

// Border segment positions of a lyph.
const (
	BorderInner   = 0
	BorderRadial1 = 1
	BorderOuter   = 2
	BorderRadial2 = 3

	LyphBorderCount = 4
)

// BorderNames maps tabular column names to lyph border positions.
var BorderNames = map[string]int{
	"inner":   BorderInner,
	"radial1": BorderRadial1,
	"outer":   BorderOuter,
	"radial2": BorderRadial2,
}
