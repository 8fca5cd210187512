// Package assemble lowers a lyph model document into a fully expanded,
// cross-referenced resource graph.
//
// # Overview
//
// [FromJSON] is the entry point. It dispatches on the document: models with
// anchors or wires are scaffolds, everything else is a connectivity graph.
//
//	res, err := assemble.FromJSON(doc, assemble.Options{})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(res.Diag.Status(), res.Stats().Resources)
//
// Assembly is best-effort. Problems with the model become diagnostics in
// [Result.Diag]; an error is returned only when the document cannot be
// processed at all.
//
// # Phases
//
// Graph templates are expanded in a fixed order, see [GraphPhases]. Every
// phase sees the complete result of the phases before it:
//
//  1. strip facets of regions outlined by points
//  2. replace references to lyph templates and materials
//  3. expand chains, trees and channels
//  4. expand lyph templates
//  5. expand villi
//  6. embed chains into housing lyphs
//  7. create tree and channel instances
//  8. replicate nodes shared by several containers
//  9. remap internal resources onto layers
//
// The expanded document is then instantiated into a [resource.Store],
// forward references are resolved and inverse relationships written. Nested
// group contents are merged upward, directives applied, abstract
// coalescences instantiated, default colors and link lengths filled in, and
// chain topologies and resource hierarchies checked.
//
// # Output
//
// [Result.JSON] serializes the root group with references as ids, every
// nested group and the diagnostics. [Result.Entities] lists every resource
// of the store flatly.
package assemble
