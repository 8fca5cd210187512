// Package resource instantiates an expanded lyph model into typed resources
// held in an arena.
//
// # Overview
//
// A [Store] owns every resource of one assembly, keyed by fully qualified id.
// Relationships are stored as id lists resolved through the store, never as
// pointers, so cyclic structures (supertype and subtypes, layer and host,
// border and shape) need no special handling.
//
// [Store.Instantiate] walks a model object depth-first:
//
//  1. A missing id is replaced by a generated one and reported.
//  2. The namespace is inherited from the enclosing resource unless given.
//  3. Unknown fields are reported and dropped.
//  4. References that cannot be resolved yet are parked on a waiting list.
//
// Once the whole tree is in the store, [Store.ResolveWaiting] creates
// placeholders for references to concrete classes and [Store.Sync] writes
// every declared inverse relationship.
//
// # Kinds
//
// Each schema class maps to a [Kind]. Kinds carry their own preparation step,
// for example lyphs always get a border of four segments before they are
// instantiated.
//
// # Directives
//
// Resources may carry assign and interpolate directives: JSONPath queries over
// the resource's own serialized subtree whose matches receive property
// values, references, offsets or colors. See [Store.ApplyDirectives].
package resource
