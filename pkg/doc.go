// Package pkg provides the core libraries of lyphgraph, the lyph model
// assembler.
//
// # Overview
//
// Lyphgraph turns a compact lyph model (lyphs, chains, channels, trees,
// villi, coalescences, groups and scaffolds) into the fully expanded graph
// of nodes, links and shapes a renderer lays out. The pkg directory is
// organized into three areas:
//
//  1. Engine - schema reflection, template expansion and assembly
//  2. Formats - model input, spreadsheet conversion and debug export
//  3. Infrastructure - caching, storage, metrics, configuration and HTTP
//
// # Architecture
//
// The typical data flow through lyphgraph:
//
//	JSON / YAML / CSV sheets
//	         ↓
//	    [io], [excel] (decode the model document)
//	         ↓
//	    [expand] (rewrite templates into concrete definitions)
//	         ↓
//	    [resource] (instantiate the arena and synchronize relationships)
//	         ↓
//	    [assemble] (merge groups, coalescences, colors, checks)
//	         ↓
//	    JSON graph / entities / DOT / SVG
//
// # Quick Start
//
// Assemble a model file:
//
//	doc, err := io.ImportModel("heart.json")
//	if err != nil {
//	    return err
//	}
//	res, err := assemble.FromJSON(doc, assemble.Options{ValidateSchema: true})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(res.Stats().Resources, res.Diag.Status())
//
// # Main Packages
//
// ## Engine
//
// [schema] - The embedded JSON schema, reflected into classes and typed
// fields, and the validator for input documents.
//
// [model] - Helpers for the decoded JSON model: ids, class and collection
// tables, the definition index used by expanders.
//
// [expand] - Template expanders: chains, channels, trees, villi, lyph
// templates, node replication and layer remapping.
//
// [resource] - The resource arena: instantiation, relationship
// synchronization, directives and serialization.
//
// [coalescence] - Abstract coalescence instancing and validation.
//
// [assemble] - Phase ordering and the graph and scaffold assemblers.
//
// [dag] - Cycle detection for the supertype, clone and layer hierarchies.
//
// [diag] - The ordered diagnostics log every assembly carries.
//
// ## Formats
//
// [io] - JSON, JSONC and YAML model input and output.
//
// [excel] - Workbook (CSV or JSON sheets) to model conversion.
//
// [export] - DOT export of the node/link graph and SVG rendering.
//
// ## Infrastructure
//
// [pipeline] - Load, assemble and export with caching, used by the CLI and
// the HTTP service.
//
// [cache] - File and Redis result caches with optional zstd compression.
//
// [store] - Model documents in memory or MongoDB.
//
// [server] - The HTTP API.
//
// [observability] - Pipeline, cache and HTTP hooks with a Prometheus
// implementation.
//
// [config] - The lyphgraph.toml configuration file.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/expand/...             # Specific package
//	go test -run Example                 # Examples only
//
// Store tests against MongoDB run when LYPHGRAPH_TEST_MONGO_URI is set.
//
// [schema]: https://pkg.go.dev/github.com/matzehuels/lyphgraph/pkg/schema
// [model]: https://pkg.go.dev/github.com/matzehuels/lyphgraph/pkg/model
// [expand]: https://pkg.go.dev/github.com/matzehuels/lyphgraph/pkg/expand
// [resource]: https://pkg.go.dev/github.com/matzehuels/lyphgraph/pkg/resource
// [coalescence]: https://pkg.go.dev/github.com/matzehuels/lyphgraph/pkg/coalescence
// [assemble]: https://pkg.go.dev/github.com/matzehuels/lyphgraph/pkg/assemble
// [dag]: https://pkg.go.dev/github.com/matzehuels/lyphgraph/pkg/dag
// [diag]: https://pkg.go.dev/github.com/matzehuels/lyphgraph/pkg/diag
// [io]: https://pkg.go.dev/github.com/matzehuels/lyphgraph/pkg/io
// [excel]: https://pkg.go.dev/github.com/matzehuels/lyphgraph/pkg/excel
// [export]: https://pkg.go.dev/github.com/matzehuels/lyphgraph/pkg/export
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/lyphgraph/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/lyphgraph/pkg/cache
// [store]: https://pkg.go.dev/github.com/matzehuels/lyphgraph/pkg/store
// [server]: https://pkg.go.dev/github.com/matzehuels/lyphgraph/pkg/server
// [observability]: https://pkg.go.dev/github.com/matzehuels/lyphgraph/pkg/observability
// [config]: https://pkg.go.dev/github.com/matzehuels/lyphgraph/pkg/config
package pkg
