// Package export draws assembled models as node-link diagrams.
//
// # Overview
//
// The diagram shows the vertices (nodes, anchors) and edges (links, wires)
// of a [resource.Store] as a Graphviz digraph. It is a debugging aid for
// checking what the expanders generated, not a layout of the model.
//
//	dot := export.ToDOT(result.Store, export.Options{Detailed: true})
//	svg, err := export.RenderSVG(ctx, dot)
//
// # Options
//
//   - Detailed: labels carry the class, the fully qualified id and the
//     conveying lyph of each link
//   - Hidden: include hidden vertices and invisible edges, drawn dashed
//
// Vertices and edges keep their color property as fill and stroke color.
//
// # Dependencies
//
// [RenderSVG] uses [github.com/goccy/go-graphviz] to lay out and render in
// process, without a Graphviz installation.
package export
