package expand

import (
	"github.com/matzehuels/lyphgraph/pkg/diag"
	"github.com/matzehuels/lyphgraph/pkg/model"
)

// StripRegionFacets drops facets and border anchors of regions outlined by
// points. Such regions get their wires and anchors from the points.
func (c *Context) StripRegionFacets() {
	for _, d := range c.Index.Defs(model.ClassRegion) {
		if len(model.Slice(d.Obj, "points")) == 0 {
			continue
		}
		var dropped []string
		for _, key := range []string{"facets", "borderAnchors"} {
			if model.Has(d.Obj, key) {
				delete(d.Obj, key)
				dropped = append(dropped, key)
			}
		}
		if len(dropped) > 0 {
			c.Diag.Warn(diag.MsgRegionFacetsIgnored, d.FullID, dropped)
		}
	}
}
